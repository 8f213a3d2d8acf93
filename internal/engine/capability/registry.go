package capability

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultWavefrontSize is the wavefront width bound by Init.
const DefaultWavefrontSize = 64

// compactThreshold is the worker count above which dead workers are swept on registration.
const compactThreshold = 1000

// SetBuilder produces capability sets.
type SetBuilder interface {
	Build(ctx context.Context, target domain.Target, assembler string) (*domain.CapabilitySet, error)
}

// Registry is the process-wide table of initialized targets and live worker bindings.
//
// Published sets are immutable and read without locks. Mutation (publishing a set,
// registering or dropping a worker) is serialized by mu.
type Registry struct {
	builder SetBuilder

	mu      sync.Mutex
	sets    atomic.Pointer[map[domain.Target]*domain.CapabilitySet]
	workers map[uint64]*Worker
	nextID  uint64
}

// NewRegistry creates an empty Registry backed by builder.
func NewRegistry(builder SetBuilder) *Registry {
	r := &Registry{
		builder: builder,
		workers: make(map[uint64]*Worker),
	}
	empty := map[domain.Target]*domain.CapabilitySet{}
	r.sets.Store(&empty)
	return r
}

// Ensure initializes target with the given assembler unless it already is, and returns
// its capability set. The first published set for a target wins.
func (r *Registry) Ensure(ctx context.Context, target domain.Target, assembler string) (*domain.CapabilitySet, error) {
	if set, ok := r.Capabilities(target); ok {
		return set, nil
	}

	set, err := r.builder.Build(ctx, target, assembler)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to initialize target"), "target", target.Gfx())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current := *r.sets.Load()
	if existing, ok := current[target]; ok {
		return existing, nil
	}
	next := maps.Clone(current)
	next[target] = set
	r.sets.Store(&next)
	return set, nil
}

// Capabilities returns the published set of target.
func (r *Registry) Capabilities(target domain.Target) (*domain.CapabilitySet, bool) {
	set, ok := (*r.sets.Load())[target]
	return set, ok
}

// Targets returns the initialized targets, ordered by version.
func (r *Registry) Targets() []domain.Target {
	targets := slices.Collect(maps.Keys(*r.sets.Load()))
	slices.SortFunc(targets, func(a, b domain.Target) int {
		return slices.Compare(a.Slice(), b.Slice())
	})
	return targets
}

// NewWorker registers a worker whose lifetime is bounded by ctx: the worker is closed
// when ctx is done.
func (r *Registry) NewWorker(ctx context.Context) *Worker {
	r.mu.Lock()
	if len(r.workers) > compactThreshold {
		r.compactLocked()
	}
	r.nextID++
	w := &Worker{id: r.nextID, reg: r, ctx: ctx}
	r.workers[w.id] = w
	r.mu.Unlock()

	stop := context.AfterFunc(ctx, w.Close)
	w.stop.Store(&stop)
	return w
}

// WorkerCount returns the number of registered workers.
func (r *Registry) WorkerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}

// Compact drops workers that are closed or whose context is done.
func (r *Registry) Compact() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compactLocked()
}

func (r *Registry) compactLocked() {
	maps.DeleteFunc(r.workers, func(_ uint64, w *Worker) bool {
		return w.closed.Load() || w.ctx.Err() != nil
	})
}

func (r *Registry) drop(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workers, id)
}

type workerKey struct{}

// WithWorker returns a context carrying w.
func WithWorker(ctx context.Context, w *Worker) context.Context {
	return context.WithValue(ctx, workerKey{}, w)
}

// WorkerFrom returns the worker carried by ctx.
func WorkerFrom(ctx context.Context) (*Worker, bool) {
	w, ok := ctx.Value(workerKey{}).(*Worker)
	return w, ok
}

// Attach returns the live worker carried by ctx, creating and attaching one on first use.
func (r *Registry) Attach(ctx context.Context) (context.Context, *Worker) {
	if w, ok := WorkerFrom(ctx); ok && w.reg == r && !w.closed.Load() {
		return ctx, w
	}
	w := r.NewWorker(ctx)
	return WithWorker(ctx, w), w
}
