package main

import (
	"github.com/Faultbox/grassfield/internal/config"
	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/internal/engine/grass"
	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/pkg/math"
)

func vec2(v [2]float32) math.Vec2 {
	return math.Vec2{X: v[0], Y: v[1]}
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// grassConfig maps file configuration onto the grass system settings.
func grassConfig(cfg *config.Config) (grass.Config, error) {
	falloff, err := grass.ParseFalloff(cfg.Grass.Falloff)
	if err != nil {
		return grass.Config{}, err
	}

	mode := grass.ModeCombined
	if cfg.Grass.InstanceDraw {
		mode = grass.ModeInstanced
	}

	gc := grass.Config{
		Mode:                 mode,
		CellSize:             vec2(cfg.Grass.CellSize),
		CullDistance:         cfg.Grass.CullDistance,
		MaxDensity:           cfg.Grass.DetailDensity,
		MaxCountPerBatch:     cfg.Grass.MaxCountPerBatch,
		MaxInstancesPerBatch: cfg.Grass.MaxInstancesPerBatch,
		MaxInflight:          cfg.Grass.MaxInflight,
		Falloff:              falloff,
		MoveThreshold:        cfg.Grass.MoveThreshold,
		RotateThreshold:      cfg.Grass.RotateThreshold,
	}
	for _, l := range cfg.Layers {
		gc.Layers = append(gc.Layers, grass.LayerConfig{
			Name:            l.Name,
			BrushIndex:      l.BrushIndex,
			DetailThreshold: l.DetailThreshold,
			ShowDensity:     l.ShowDensity,
			CullDistance:    l.CullDistance,
			HeightOffset:    l.HeightOffset,
			WidthScale:      vec2(l.WidthScale),
			HeightScale:     vec2(l.HeightScale),
			NoiseSpread:     l.NoiseSpread,
			CastShadows:     l.CastShadows,
			ReceiveShadows:  l.ReceiveShadows,
			UseQuad:         l.UseQuad,
			Billboard:       l.Billboard,
			Mesh:            l.Mesh,
			Material:        l.Material,
			DrawLayer:       l.DrawLayer,
		})
	}
	return gc, gc.Validate()
}

// terrainSource maps file configuration onto a terrain loader source.
func terrainSource(cfg *config.Config) terrain.Source {
	t := cfg.Terrain
	return terrain.Source{
		Position:            vec3(t.Position),
		Size:                vec3(t.Size),
		HeightmapResolution: t.HeightmapResolution,
		DetailResolution:    t.DetailResolution,
		DetailLayers:        t.DetailLayers,
		HeightDataPath:      t.HeightDataPath,
		DetailDataPath:      t.DetailDataPath,
		DensityTextures:     t.DensityTextures,
		NormalMapPath:       t.NormalMapPath,
	}
}

// projection maps the bench camera settings.
func projection(cfg *config.Config) camera.Projection {
	p := camera.DefaultProjection()
	if cfg.Bench.FOV > 0 {
		p.FOV = cfg.Bench.FOV
	}
	if cfg.Bench.Aspect > 0 {
		p.Aspect = cfg.Bench.Aspect
	}
	if cfg.Bench.Near > 0 {
		p.Near = cfg.Bench.Near
	}
	if cfg.Bench.Far > 0 {
		p.Far = cfg.Bench.Far
	}
	return p
}
