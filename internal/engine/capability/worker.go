package capability

import (
	"context"
	"sync/atomic"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/zerr"
)

// Binding is the target a worker currently validates against.
type Binding struct {
	Target        domain.Target
	WavefrontSize int
}

// Worker is the per-worker execution context: a binding to one initialized target.
// Bindings of different workers are independent.
type Worker struct {
	id   uint64
	reg  *Registry
	ctx  context.Context
	stop atomic.Pointer[func() bool]

	binding atomic.Pointer[Binding]
	closed  atomic.Bool
}

// Init initializes target (probing it if needed) and binds the worker to it with the
// default wavefront size.
func (w *Worker) Init(ctx context.Context, target domain.Target, assembler string) error {
	if w.closed.Load() {
		return domain.ErrWorkerClosed
	}
	if _, err := w.reg.Ensure(ctx, target, assembler); err != nil {
		return err
	}
	w.binding.Store(&Binding{Target: target, WavefrontSize: DefaultWavefrontSize})
	return nil
}

// SetTarget rebinds the worker to an already initialized target.
func (w *Worker) SetTarget(target domain.Target, wavefrontSize int) error {
	if w.closed.Load() {
		return domain.ErrWorkerClosed
	}
	if _, ok := w.reg.Capabilities(target); !ok {
		return zerr.With(zerr.Wrap(domain.ErrNotInitialized, "cannot bind worker"), "target", target.Gfx())
	}
	w.binding.Store(&Binding{Target: target, WavefrontSize: wavefrontSize})
	return nil
}

// Current returns the worker's binding.
func (w *Worker) Current() (Binding, error) {
	if w.closed.Load() {
		return Binding{}, domain.ErrWorkerClosed
	}
	b := w.binding.Load()
	if b == nil {
		return Binding{}, domain.ErrNotBound
	}
	return *b, nil
}

// Capabilities returns the full capability set of the bound target.
func (w *Worker) Capabilities() (*domain.CapabilitySet, error) {
	b, err := w.Current()
	if err != nil {
		return nil, err
	}
	set, ok := w.reg.Capabilities(b.Target)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotInitialized, "bound target has no capabilities"), "target", b.Target.Gfx())
	}
	return set, nil
}

// AsmCaps returns the assembler capabilities of the bound target.
func (w *Worker) AsmCaps() (domain.AsmCaps, error) {
	set, err := w.Capabilities()
	if err != nil {
		return domain.AsmCaps{}, err
	}
	return set.Asm, nil
}

// ArchCaps returns the architecture facts of the bound target.
func (w *Worker) ArchCaps() (domain.ArchCaps, error) {
	set, err := w.Capabilities()
	if err != nil {
		return domain.ArchCaps{}, err
	}
	return set.Arch, nil
}

// RegCaps returns the register limits of the bound target.
func (w *Worker) RegCaps() (domain.RegCaps, error) {
	set, err := w.Capabilities()
	if err != nil {
		return domain.RegCaps{}, err
	}
	return set.Reg, nil
}

// AsmBugs returns the assembler quirks of the bound target.
func (w *Worker) AsmBugs() (domain.AsmBugs, error) {
	set, err := w.Capabilities()
	if err != nil {
		return domain.AsmBugs{}, err
	}
	return set.Bugs, nil
}

// Close releases the worker. It is safe to call more than once.
func (w *Worker) Close() {
	if !w.closed.CompareAndSwap(false, true) {
		return
	}
	if stop := w.stop.Load(); stop != nil {
		(*stop)()
	}
	w.reg.drop(w.id)
}
