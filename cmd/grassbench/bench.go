package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/assets"
	"github.com/Faultbox/grassfield/internal/config"
	"github.com/Faultbox/grassfield/internal/engine/debug"
	"github.com/Faultbox/grassfield/internal/engine/grass"
	"github.com/Faultbox/grassfield/internal/engine/jobs"
	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/internal/logger"
	"github.com/Faultbox/grassfield/pkg/math"
)

// watchFrameInterval paces frames while hot reload is enabled so the bench
// behaves like a running client instead of spinning.
const watchFrameInterval = time.Second / 60

type reload struct {
	terrain *terrain.Terrain
	err     error
}

// bench owns everything one benchmark run needs.
type bench struct {
	cfg     *config.Config
	assets  *assets.Manager
	loader  *terrain.Loader
	pool    *jobs.Pool
	system  *grass.System
	driver  driver
	watcher *assets.Watcher
	reloads chan reload
	counter *counter

	log *zap.Logger
}

func newBench(ctx context.Context, cfg *config.Config) (*bench, error) {
	gc, err := grassConfig(cfg)
	if err != nil {
		return nil, err
	}

	b := &bench{
		cfg:     cfg,
		assets:  assets.NewManager(assets.NewFetcher(&http.Client{Timeout: assets.DefaultHTTPTimeout})),
		reloads: make(chan reload, 1),
		counter: newCounter(),
		log:     logger.Named("bench"),
	}
	b.loader = terrain.NewLoader(b.assets, terrainSource(cfg))

	t, err := b.loader.LoadSync(ctx)
	if err != nil {
		if t == nil {
			b.assets.Close()
			return nil, fmt.Errorf("loading terrain: %w", err)
		}
		b.log.Warn("terrain unavailable, running without grass", zap.Error(err))
	}

	b.pool = jobs.NewPool(cfg.Workers.Count, cfg.Workers.QueueSize, cfg.Workers.IdleTimeout)

	b.system, err = grass.NewSystem(gc, t, b.pool)
	if err != nil {
		b.Close()
		return nil, err
	}

	b.driver, err = newDriver(cfg.Bench.Camera, t, cfg.Bench.Speed, cfg.Bench.Radius, projection(cfg))
	if err != nil {
		b.Close()
		return nil, err
	}

	if cfg.Bench.Watch {
		b.watcher, err = assets.NewWatcher(b.loader.Source().Paths(), assets.DefaultDebounce)
		if err != nil {
			b.log.Warn("hot reload disabled", zap.Error(err))
		}
	}
	return b, nil
}

// Run simulates the configured number of frames. Frames <= 0 runs until ctx
// is cancelled.
func (b *bench) Run(ctx context.Context) error {
	frames := b.cfg.Bench.Frames
	report := b.cfg.Bench.ReportEvery

	var tick <-chan time.Time
	if b.watcher != nil {
		ticker := time.NewTicker(watchFrameInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	var busy time.Duration
	recomputes := 0

	frame := 0
	for ; frames <= 0 || frame < frames; frame++ {
		if err := b.handleEvents(ctx, tick); err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}

		t0 := time.Now()
		if b.system.Update(b.driver.Next()) {
			recomputes++
		}
		b.render()
		busy += time.Since(t0)

		if report > 0 && frame%report == 0 {
			b.logFrame(frame)
		}
	}

	if err := b.system.Wait(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	b.render()

	b.logSummary(frame, recomputes, time.Since(start), busy)
	return b.snapshot()
}

// handleEvents applies finished reloads. When frames are paced it also
// starts reloads for changed files and blocks until the next tick.
func (b *bench) handleEvents(ctx context.Context, tick <-chan time.Time) error {
	if tick == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-b.reloads:
			b.applyReload(r)
		default:
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path := <-b.watcher.Changes():
			b.log.Info("baked data changed", zap.String("path", path))
			b.loader.Reload(ctx, func(t *terrain.Terrain, err error) {
				select {
				case b.reloads <- reload{terrain: t, err: err}:
				case <-ctx.Done():
				}
			})
		case r := <-b.reloads:
			b.applyReload(r)
		case <-tick:
			return nil
		}
	}
}

func (b *bench) applyReload(r reload) {
	if r.err != nil {
		b.log.Error("terrain reload failed", zap.Error(r.err))
		if r.terrain == nil {
			return
		}
	}
	if err := b.system.SetTerrain(r.terrain); err != nil {
		b.log.Error("terrain rejected", zap.Error(err))
		return
	}
	b.log.Info("terrain reloaded", zap.Bool("ready", r.terrain.Ready()))
}

func (b *bench) logFrame(frame int) {
	st := b.system.Stats()
	fields := []zap.Field{
		zap.Int("frame", frame),
		zap.Int("draws", b.counter.draws),
		zap.Int("instances", b.counter.instances),
	}
	for _, l := range st.Layers {
		fields = append(fields, zap.Dict(l.Name,
			zap.Int("active", l.Active),
			zap.Int("committed", l.Committed),
			zap.Int("pending", l.Pending),
			zap.Int("batches", l.Batches),
		))
	}
	b.log.Info("frame", fields...)
}

func (b *bench) logSummary(frames, recomputes int, elapsed, busy time.Duration) {
	var perFrame time.Duration
	if frames > 0 {
		perFrame = busy / time.Duration(frames)
	}
	submitted, panics := b.pool.Stats()
	hits, misses := b.assets.Cache().Stats()

	b.log.Info("summary",
		zap.Int("frames", frames),
		zap.Int("recomputes", recomputes),
		zap.Duration("elapsed", elapsed),
		zap.Duration("perFrame", perFrame),
		zap.Int("draws", b.counter.draws),
		zap.Int("instances", b.counter.instances),
		zap.Int("meshVertices", b.counter.vertices),
		zap.Int("meshIndices", b.counter.indices),
		zap.Int("debugDraws", b.counter.debugDraws),
		zap.Int("debugVertices", b.counter.debugVertices),
		zap.Int64("builds", submitted),
		zap.Int64("buildPanics", panics),
		zap.Int("cacheHits", hits),
		zap.Int("cacheMisses", misses),
	)
	for _, l := range b.system.Stats().Layers {
		b.log.Info("layer",
			zap.String("name", l.Name),
			zap.Int("active", l.Active),
			zap.Int("committed", l.Committed),
			zap.Int("instances", l.Instances),
			zap.Int("submitted", b.counter.byLayer[l.Name]),
			zap.Int("batches", l.Batches),
		)
	}
}

// render submits one frame: grass batches, then debug lines when enabled.
func (b *bench) render() {
	b.counter.reset()
	b.system.Render(b.counter)
	if b.cfg.Bench.DebugDraw {
		b.drawDebug()
	}
}

// drawDebug submits the grid outline, the terrain extent and each layer's
// active cell bounds as line lists.
func (b *bench) drawDebug() {
	g := b.system.Grid()
	b.counter.submitLines(len(debug.GridLines(g, 0)))

	cx, cy := g.CellCount()
	cs := g.CellSize()
	extent := math.AABB{Min: g.Origin(), Max: g.Origin().Add(math.Vec3{X: cs.X * float32(cx), Z: cs.Y * float32(cy)})}
	b.counter.submitLines(len(debug.BoxWireframe(debug.Expand(extent, 1))) / 3)

	for i := range b.system.Layers() {
		b.counter.submitLines(len(debug.CellWireframe(b.system.ActiveBounds(i))) / 3)
	}
}

// snapshot writes one cell state image per layer when a directory is set.
func (b *bench) snapshot() error {
	dir := b.cfg.Bench.SnapshotDir
	if dir == "" {
		return nil
	}
	shot := debug.NewSnapshot(dir, "cells")
	for _, l := range b.system.Layers() {
		img := debug.StateOverlay(b.system.Grid(), l.State, 4)
		path, err := shot.Save(img, l.Config().Name)
		if err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		b.log.Info("snapshot written", zap.String("path", path))
	}
	return nil
}

// Close releases the system, workers, watcher and asset manager.
func (b *bench) Close() {
	if b.watcher != nil {
		b.watcher.Close()
	}
	if b.system != nil {
		b.system.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
	b.assets.Close()
}
