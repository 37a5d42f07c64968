// Package assets loads the textures and models a globe needs in the
// background and signals once everything is available.
package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/globe/internal/logging"
	"github.com/taigrr/globe/pkg/models"
	"github.com/taigrr/globe/pkg/render"
)

var (
	// ErrNotReady is returned when an asset is requested before loading
	// has finished.
	ErrNotReady = errors.New("assets not ready")
	// ErrUnknownAsset is returned for a name that was never registered.
	ErrUnknownAsset = errors.New("unknown asset")
)

// Type is the kind of file a source points at.
type Type int

const (
	TypeTexture Type = iota // PNG or JPEG image
	TypeModel               // Binary glTF
)

func (t Type) String() string {
	switch t {
	case TypeTexture:
		return "texture"
	case TypeModel:
		return "model"
	default:
		return "unknown"
	}
}

// Source names one file to load.
type Source struct {
	Name string
	Type Type
	Path string
}

// GlobeTexture is the name of the equirectangular mask used to hide
// points over the oceans.
const GlobeTexture = "globeTexture"

// DefaultSources returns the globe's standard asset list rooted at dir.
func DefaultSources(dir string) []Source {
	return []Source{
		{Name: GlobeTexture, Type: TypeTexture, Path: filepath.Join(dir, "earthspec1k.jpg")},
	}
}

// Loader loads a fixed list of sources concurrently.
type Loader struct {
	sources []Source
	log     *slog.Logger

	mu       sync.RWMutex
	textures map[string]*render.Texture
	models   map[string]*models.Scene
	err      error

	ready chan struct{}
	once  sync.Once
	start sync.Once
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load progress.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		ld.log = l
	}
}

// NewLoader creates a loader for sources. Nothing is read until Start.
func NewLoader(sources []Source, opts ...Option) *Loader {
	ld := &Loader{
		sources:  sources,
		log:      logging.Discard(),
		textures: make(map[string]*render.Texture),
		models:   make(map[string]*models.Scene),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Start begins loading in the background. Calling it more than once has
// no further effect. With no sources, Ready is closed immediately.
func (ld *Loader) Start(ctx context.Context) {
	ld.start.Do(func() {
		if len(ld.sources) == 0 {
			ld.finish(nil)
			return
		}
		go ld.run(ctx)
	})
}

func (ld *Loader) run(ctx context.Context) {
	begin := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	for _, src := range ld.sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := ld.load(src); err != nil {
				return fmt.Errorf("load %s %q: %w", src.Type, src.Name, err)
			}
			ld.log.Debug("asset loaded",
				slog.String("name", src.Name),
				slog.String("type", src.Type.String()),
			)
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		ld.log.Error("asset loading failed", slog.Any("error", err))
	} else {
		ld.log.Info("assets ready",
			slog.Int("count", len(ld.sources)),
			slog.Duration("took", time.Since(begin)),
		)
	}
	ld.finish(err)
}

func (ld *Loader) load(src Source) error {
	switch src.Type {
	case TypeTexture:
		tex, err := render.LoadTexture(src.Path)
		if err != nil {
			return err
		}
		ld.mu.Lock()
		ld.textures[src.Name] = tex
		ld.mu.Unlock()
	case TypeModel:
		scene, err := models.Load(src.Path)
		if err != nil {
			return err
		}
		ld.mu.Lock()
		ld.models[src.Name] = scene
		ld.mu.Unlock()
	default:
		return fmt.Errorf("unsupported asset type %d", src.Type)
	}
	return nil
}

func (ld *Loader) finish(err error) {
	ld.once.Do(func() {
		ld.mu.Lock()
		ld.err = err
		ld.mu.Unlock()
		close(ld.ready)
	})
}

// Ready is closed exactly once, when every source has loaded or loading
// has failed.
func (ld *Loader) Ready() <-chan struct{} {
	return ld.ready
}

// Wait blocks until loading finishes or ctx is done, and returns the
// first load error.
func (ld *Loader) Wait(ctx context.Context) error {
	select {
	case <-ld.ready:
		ld.mu.RLock()
		defer ld.mu.RUnlock()
		return ld.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Texture returns a loaded texture by name.
func (ld *Loader) Texture(name string) (*render.Texture, error) {
	if err := ld.check(); err != nil {
		return nil, err
	}
	ld.mu.RLock()
	defer ld.mu.RUnlock()
	tex, ok := ld.textures[name]
	if !ok {
		return nil, fmt.Errorf("%w: texture %q", ErrUnknownAsset, name)
	}
	return tex, nil
}

// Model returns a loaded model by name.
func (ld *Loader) Model(name string) (*models.Scene, error) {
	if err := ld.check(); err != nil {
		return nil, err
	}
	ld.mu.RLock()
	defer ld.mu.RUnlock()
	scene, ok := ld.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: model %q", ErrUnknownAsset, name)
	}
	return scene, nil
}

func (ld *Loader) check() error {
	select {
	case <-ld.ready:
		ld.mu.RLock()
		defer ld.mu.RUnlock()
		return ld.err
	default:
		return ErrNotReady
	}
}
