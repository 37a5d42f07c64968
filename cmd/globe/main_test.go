package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/globe/pkg/assets"
	"github.com/taigrr/globe/pkg/models"
	"github.com/taigrr/globe/pkg/render"
)

func TestExportCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "snap.glb")

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"export", "--out", out, "--dots", "200", "--impacts", "3", "--seed", "3", "--warmup", "500ms"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	scene, err := models.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if scene.PointCount() != 200 {
		t.Errorf("points = %d, want 200", scene.PointCount())
	}
	if scene.LineCount() != 3 {
		t.Errorf("trails = %d, want 3", scene.LineCount())
	}
	if stdout.Len() == 0 {
		t.Error("expected a summary line on stdout")
	}
}

func TestExportRejectsBadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"export", "--out", filepath.Join(t.TempDir(), "x.glb"), "--dots", "0"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for zero dots")
	}
}

func TestMaskSources(t *testing.T) {
	tests := []struct {
		name string
		opts viewOptions
		want string
	}{
		{"none", viewOptions{}, ""},
		{"explicit mask", viewOptions{mask: "m.png", assetsDir: "dir"}, "m.png"},
		{"assets dir", viewOptions{assetsDir: "dir"}, filepath.Join("dir", "earthspec1k.jpg")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := maskSources(tc.opts)
			if tc.want == "" {
				if len(got) != 0 {
					t.Errorf("sources = %v, want none", got)
				}
				return
			}
			if len(got) != 1 || got[0].Path != tc.want || got[0].Name != assets.GlobeTexture {
				t.Errorf("sources = %v, want %s", got, tc.want)
			}
		})
	}
}

func TestParseBackground(t *testing.T) {
	c, err := parseBackground("1,2,3")
	if err != nil {
		t.Fatal(err)
	}
	if c != render.RGB(1, 2, 3) {
		t.Errorf("parsed = %v, want 1,2,3", c)
	}

	for _, bad := range []string{"garbage", "1,2", "300,0,0", ""} {
		t.Run(bad, func(t *testing.T) {
			if _, err := parseBackground(bad); err == nil {
				t.Errorf("parseBackground(%q) should fail", bad)
			}
		})
	}
}

func TestViewRejectsBadBackground(t *testing.T) {
	err := runView(context.Background(), &rootOptions{}, viewOptions{fps: 60, bg: "1,2"})
	if err == nil || !strings.Contains(err.Error(), "--bg") {
		t.Errorf("err = %v, want a --bg error", err)
	}
}
