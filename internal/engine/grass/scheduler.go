package grass

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/internal/logger"
	"github.com/Faultbox/grassfield/pkg/math"
)

// DefaultMaxInflight bounds concurrent cell builds per layer.
const DefaultMaxInflight = 64

// Executor runs tasks in the background. *jobs.Pool satisfies it.
type Executor interface {
	Submit(fn func()) error
}

// pending is a queued build. ticket identifies the latest request for its
// cell; results carrying an older ticket are dropped.
type pending struct {
	req    Request
	ticket uint64
}

type result struct {
	data   CellData
	ticket uint64
}

// Scheduler tracks the active cells of one layer and the builds that fill
// them. Create, Remove, Poll, Wait and Reset must be called from the owning
// goroutine; builds run on the executor and only hand results back.
//
// A cell moves Inactive -> Requested -> Building and ends Committed, or is
// dropped at commit time when it was removed or the scheduler was reset in
// the meantime.
type Scheduler struct {
	builder     *Builder
	exec        Executor
	maxInflight int

	generation uint64
	nextTicket uint64

	active    map[CellIndex]struct{}
	latest    map[CellIndex]uint64
	requested map[CellIndex]pending
	queue     []CellIndex
	inflight  int
	committed map[CellIndex]CellData

	changed bool
	drained bool
	busy    bool

	mu      sync.Mutex
	results []result
	notify  chan struct{}

	log *zap.Logger
}

// NewScheduler creates a scheduler. capacity sizes the accumulator and is
// usually half the grid's cell count.
func NewScheduler(builder *Builder, exec Executor, maxInflight, capacity int) *Scheduler {
	if maxInflight <= 0 {
		maxInflight = DefaultMaxInflight
	}
	capacity = max(capacity, 0)
	return &Scheduler{
		builder:     builder,
		exec:        exec,
		maxInflight: maxInflight,
		active:      make(map[CellIndex]struct{}, capacity),
		latest:      make(map[CellIndex]uint64, capacity),
		requested:   make(map[CellIndex]pending),
		committed:   make(map[CellIndex]CellData, capacity),
		notify:      make(chan struct{}, 1),
		log:         logger.Named("grass.scheduler"),
	}
}

// Create activates a cell and requests its build. It does nothing when the
// cell is already active.
func (s *Scheduler) Create(idx CellIndex, footprint math.Rect, view camera.View) {
	if _, ok := s.active[idx]; ok {
		return
	}
	s.active[idx] = struct{}{}

	s.nextTicket++
	s.latest[idx] = s.nextTicket
	if _, queued := s.requested[idx]; !queued {
		s.queue = append(s.queue, idx)
	}
	s.requested[idx] = pending{
		req: Request{
			Index:      idx,
			Footprint:  footprint,
			View:       view,
			Generation: s.generation,
		},
		ticket: s.nextTicket,
	}
	s.dispatch()
}

// Remove deactivates a cell and evicts its committed data. A build still
// running for it is discarded when it completes.
func (s *Scheduler) Remove(idx CellIndex) {
	if _, ok := s.active[idx]; !ok {
		return
	}
	delete(s.active, idx)
	delete(s.latest, idx)
	delete(s.requested, idx)
	if _, ok := s.committed[idx]; ok {
		delete(s.committed, idx)
		s.changed = true
	}
}

// dispatch starts queued builds until the inflight limit is reached.
func (s *Scheduler) dispatch() {
	for s.inflight < s.maxInflight && len(s.queue) > 0 {
		idx := s.queue[0]
		s.queue = s.queue[1:]

		p, ok := s.requested[idx]
		if !ok {
			continue
		}
		delete(s.requested, idx)

		s.inflight++
		s.busy = true
		b := s.builder
		err := s.exec.Submit(func() {
			s.complete(result{data: b.Build(p.req), ticket: p.ticket})
		})
		if err != nil {
			// Build here; the result still commits on the next Poll.
			s.log.Warn("executor rejected build, building inline", zap.Stringer("cell", idx), zap.Error(err))
			s.complete(result{data: b.Build(p.req), ticket: p.ticket})
		}
	}
	if len(s.queue) == 0 {
		s.queue = nil
	}
}

// complete is called from worker goroutines.
func (s *Scheduler) complete(r result) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Poll commits finished builds and dispatches queued ones. It returns the
// number of cells committed.
func (s *Scheduler) Poll() int {
	s.mu.Lock()
	results := s.results
	s.results = nil
	s.mu.Unlock()

	committed := 0
	for _, r := range results {
		s.inflight--
		idx := r.data.Index
		if !s.accepts(r) {
			s.log.Debug("discarding stale build", zap.Stringer("cell", idx),
				zap.Uint64("generation", r.data.Generation), zap.Uint64("current", s.generation))
			continue
		}
		s.committed[idx] = r.data
		s.changed = true
		committed++
	}

	s.dispatch()
	if s.busy && s.Idle() {
		s.busy = false
		s.drained = true
	}
	return committed
}

func (s *Scheduler) accepts(r result) bool {
	if r.data.Generation != s.generation {
		return false
	}
	if _, ok := s.active[r.data.Index]; !ok {
		return false
	}
	return s.latest[r.data.Index] == r.ticket
}

// Idle reports whether nothing is queued or building.
func (s *Scheduler) Idle() bool {
	return s.inflight == 0 && len(s.requested) == 0
}

// Pending returns the number of cells queued or building.
func (s *Scheduler) Pending() int {
	return s.inflight + len(s.requested)
}

// TakeChanged reports whether committed data changed since the last call.
func (s *Scheduler) TakeChanged() bool {
	c := s.changed
	s.changed = false
	return c
}

// TakeDrained reports whether the queue ran empty since the last call.
func (s *Scheduler) TakeDrained() bool {
	d := s.drained
	s.drained = false
	return d
}

// Wait polls until every build has finished or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	for {
		s.Poll()
		if s.Idle() {
			return nil
		}
		select {
		case <-s.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Reset forgets all cells and invalidates builds in flight. A non-nil
// builder replaces the current one.
func (s *Scheduler) Reset(builder *Builder) {
	if builder != nil {
		s.builder = builder
	}
	s.generation++
	capacity := len(s.committed)
	s.active = make(map[CellIndex]struct{}, capacity)
	s.latest = make(map[CellIndex]uint64, capacity)
	s.requested = make(map[CellIndex]pending)
	s.queue = nil
	s.committed = make(map[CellIndex]CellData, capacity)
	s.changed = true
}

// Generation returns the current generation.
func (s *Scheduler) Generation() uint64 {
	return s.generation
}

// State returns the build state of idx.
func (s *Scheduler) State(idx CellIndex) CellState {
	if _, ok := s.active[idx]; !ok {
		return Inactive
	}
	if _, ok := s.committed[idx]; ok {
		return Committed
	}
	if _, ok := s.requested[idx]; ok {
		return Requested
	}
	return Building
}

// IsActive reports whether idx is active.
func (s *Scheduler) IsActive(idx CellIndex) bool {
	_, ok := s.active[idx]
	return ok
}

// IsCommitted reports whether idx has committed data.
func (s *Scheduler) IsCommitted(idx CellIndex) bool {
	_, ok := s.committed[idx]
	return ok
}

// Active returns the active cells in row order.
func (s *Scheduler) Active() []CellIndex {
	return setToSorted(s.active)
}

// Committed returns committed cell data in row order.
func (s *Scheduler) Committed() []CellData {
	out := make([]CellData, 0, len(s.committed))
	for _, idx := range s.committedIndices() {
		out = append(out, s.committed[idx])
	}
	return out
}

func (s *Scheduler) committedIndices() []CellIndex {
	out := make([]CellIndex, 0, len(s.committed))
	for idx := range s.committed {
		out = append(out, idx)
	}
	sortIndices(out)
	return out
}

// Instances returns the number of committed instances.
func (s *Scheduler) Instances() int {
	n := 0
	for _, c := range s.committed {
		n += c.Len()
	}
	return n
}
