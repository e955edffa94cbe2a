package terrain

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/assets"
	"github.com/Faultbox/grassfield/internal/logger"
	"github.com/Faultbox/grassfield/pkg/formats"
	"github.com/Faultbox/grassfield/pkg/math"
)

// Source describes where a terrain's baked data lives and how it is laid out.
type Source struct {
	Position            math.Vec3
	Size                math.Vec3
	HeightmapResolution int
	DetailResolution    int
	DetailLayers        int
	HeightDataPath      string
	DetailDataPath      string
	DensityTextures     []string // Used when DetailDataPath is empty
	NormalMapPath       string
}

// Paths returns every file the source reads.
func (s Source) Paths() []string {
	paths := []string{s.HeightDataPath}
	if s.DetailDataPath != "" {
		paths = append(paths, s.DetailDataPath)
	} else {
		paths = append(paths, s.DensityTextures...)
	}
	if s.NormalMapPath != "" {
		paths = append(paths, s.NormalMapPath)
	}
	return paths
}

// Loader fetches and decodes a terrain's baked data.
type Loader struct {
	assets *assets.Manager
	source Source
	log    *zap.Logger
}

// NewLoader creates a loader reading through the given asset manager.
func NewLoader(m *assets.Manager, source Source) *Loader {
	return &Loader{
		assets: m,
		source: source,
		log:    logger.Named("terrain"),
	}
}

// Source returns the loader's source description.
func (l *Loader) Source() Source {
	return l.source
}

// Load fetches all files concurrently and reports the result through done on
// a background goroutine.
//
// A fetch failure yields an empty (not ready) terrain together with the error,
// so callers may keep running without grass. Data that contradicts the source
// layout yields a nil terrain and an error wrapping ErrLayerMismatch or
// ErrResolution.
func (l *Loader) Load(ctx context.Context, done func(*Terrain, error)) uuid.UUID {
	ticket := uuid.New()
	go func() {
		t, err := l.load(ctx, ticket)
		done(t, err)
	}()
	return ticket
}

// LoadSync is the blocking form of Load.
func (l *Loader) LoadSync(ctx context.Context) (*Terrain, error) {
	return l.load(ctx, uuid.New())
}

// Reload drops cached bytes for every local file and loads again.
func (l *Loader) Reload(ctx context.Context, done func(*Terrain, error)) uuid.UUID {
	for _, p := range l.source.Paths() {
		if !assets.IsRemote(p) {
			l.assets.Invalidate(p)
		}
	}
	return l.Load(ctx, done)
}

func (l *Loader) load(ctx context.Context, ticket uuid.UUID) (*Terrain, error) {
	src := l.source
	log := l.log.With(zap.Stringer("ticket", ticket))
	log.Info("loading terrain", zap.Strings("paths", src.Paths()))

	files, err := l.fetchAll(ctx, src.Paths())
	if err != nil {
		log.Error("terrain fetch failed", zap.Error(err))
		return Empty(src.Position, src.Size), err
	}

	hm, err := formats.ParseHeightmap(files[src.HeightDataPath], src.HeightmapResolution)
	if err != nil {
		return nil, fmt.Errorf("%w: heightmap: %w", ErrResolution, err)
	}
	heights := NewHeightField(hm, src.Size)

	detail, err := l.decodeDetail(files)
	if err != nil {
		return nil, err
	}

	if src.NormalMapPath != "" {
		img, err := formats.DecodeImage(src.NormalMapPath, files[src.NormalMapPath])
		if err != nil {
			return nil, fmt.Errorf("normal map: %w", err)
		}
		normals, err := formats.DecodeNormalMap(img)
		if err != nil {
			return nil, fmt.Errorf("normal map: %w", err)
		}
		heights = heights.WithNormals(normals)
	}

	log.Info("terrain loaded",
		zap.Int("heightmap_resolution", hm.Resolution),
		zap.Int("detail_resolution", detail.Resolution),
		zap.Int("layers", detail.Layers))

	return &Terrain{
		Position: src.Position,
		Size:     src.Size,
		Heights:  heights,
		Density:  NewDensityField(detail),
	}, nil
}

// decodeDetail builds density blocks from the raw file or packed textures.
func (l *Loader) decodeDetail(files map[string][]byte) (*formats.DetailMap, error) {
	src := l.source

	if src.DetailDataPath != "" {
		d, err := formats.ParseDetail(files[src.DetailDataPath], src.DetailLayers, src.DetailResolution)
		if err != nil {
			return nil, classify(err)
		}
		return d, nil
	}

	images := make([]image.Image, 0, len(src.DensityTextures))
	for _, p := range src.DensityTextures {
		img, err := formats.DecodeImage(p, files[p])
		if err != nil {
			return nil, fmt.Errorf("density texture: %w", err)
		}
		images = append(images, img)
	}
	d, err := formats.UnpackDetailTextures(images, src.DetailLayers, src.DetailResolution)
	if err != nil {
		return nil, classify(err)
	}
	return d, nil
}

// classify maps decoder errors onto the package's configuration errors.
func classify(err error) error {
	switch {
	case errors.Is(err, formats.ErrDetailSize), errors.Is(err, formats.ErrMissingLayers):
		return fmt.Errorf("%w: %w", ErrLayerMismatch, err)
	case errors.Is(err, formats.ErrInvalidResolution):
		return fmt.Errorf("%w: %w", ErrResolution, err)
	default:
		return err
	}
}

// fetchAll loads every path concurrently. The first error wins.
func (l *Loader) fetchAll(ctx context.Context, paths []string) (map[string][]byte, error) {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		files = make(map[string][]byte, len(paths))
		errs  []error
	)

	for _, p := range paths {
		if p == "" {
			return nil, errors.New("empty data path")
		}
	}

	for _, p := range paths {
		wg.Add(1)
		l.assets.LoadAsync(ctx, p, func(_ assets.Ticket, data []byte, err error) {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			files[p] = data
		})
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	return files, nil
}
