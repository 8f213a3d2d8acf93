package capability

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type buildKey struct {
	target    domain.Target
	assembler string
}

// Builder assembles complete capability sets, probing each (target, assembler) pair at
// most once per process. A CapabilityStore, when present, carries results across runs.
type Builder struct {
	prober *Prober
	store  ports.CapabilityStore
	logger ports.Logger
	flags  []string

	mu    sync.Mutex
	sets  map[buildKey]*domain.CapabilitySet
	group singleflight.Group
}

// NewBuilder creates a Builder. store may be nil.
func NewBuilder(prober *Prober, store ports.CapabilityStore, logger ports.Logger) *Builder {
	return &Builder{
		prober: prober,
		store:  store,
		logger: logger,
		sets:   make(map[buildKey]*domain.CapabilitySet),
	}
}

// WithFlags returns a Builder that passes flags to every probe. The probe cache is
// shared with b; built sets are not, and stored sets are keyed by the flags.
func (b *Builder) WithFlags(flags ...string) *Builder {
	nb := NewBuilder(b.prober, b.store, b.logger)
	nb.flags = append([]string{}, flags...)
	return nb
}

// Build returns the capability set of target as seen by assembler.
func (b *Builder) Build(ctx context.Context, target domain.Target, assembler string) (*domain.CapabilitySet, error) {
	key := buildKey{target: target, assembler: assembler}

	b.mu.Lock()
	set, ok := b.sets[key]
	b.mu.Unlock()
	if ok {
		return set, nil
	}

	v, err, _ := b.group.Do(target.Gfx()+"\x00"+assembler, func() (any, error) {
		b.mu.Lock()
		set, ok := b.sets[key]
		b.mu.Unlock()
		if ok {
			return set, nil
		}

		set, err := b.build(ctx, target, assembler)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.sets[key] = set
		b.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CapabilitySet), nil
}

func (b *Builder) build(ctx context.Context, target domain.Target, assembler string) (*domain.CapabilitySet, error) {
	if b.store != nil {
		stored, err := b.store.Get(target, assembler, b.flags)
		if err != nil {
			b.logger.Warn(fmt.Sprintf("ignoring capability cache for %s: %v", target.Gfx(), err))
		} else if stored != nil {
			b.logger.Debug(fmt.Sprintf("capabilities for %s loaded from cache", target.Gfx()))
			return stored, nil
		}
	}

	asm, err := b.probeAsm(ctx, target, assembler)
	if err != nil {
		return nil, err
	}
	arch := domain.NewArchCaps(target)
	reg, err := domain.NewRegCaps(target, arch)
	if err != nil {
		return nil, err
	}

	set := &domain.CapabilitySet{
		Target:         target,
		AssemblerPath:  assembler,
		AssemblerFlags: b.flags,
		Asm:            asm,
		Arch:           arch,
		Reg:            reg,
		Bugs:           domain.NewAsmBugs(asm),
	}

	if b.store != nil {
		if err := b.store.Put(*set); err != nil {
			b.logger.Warn(fmt.Sprintf("failed to store capabilities for %s: %v", target.Gfx(), err))
		}
	}
	return set, nil
}

func (b *Builder) probeAsm(ctx context.Context, target domain.Target, assembler string) (domain.AsmCaps, error) {
	results := make([]bool, len(battery))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range battery {
		g.Go(func() error {
			for _, snippet := range f.spellings {
				ok, err := b.prober.Probe(gctx, target, assembler, snippet, b.flags...)
				if err != nil {
					return zerr.With(zerr.Wrap(err, "capability probe failed"), "feature", f.name)
				}
				if ok {
					results[i] = true
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.AsmCaps{}, err
	}

	var caps domain.AsmCaps
	for i, f := range battery {
		f.set(&caps, results[i])
	}

	for _, n := range vmcntLadder {
		ok, err := b.prober.Probe(ctx, target, assembler, fmt.Sprintf("s_waitcnt vmcnt(%d)", n), b.flags...)
		if err != nil {
			return domain.AsmCaps{}, zerr.With(zerr.Wrap(err, "capability probe failed"), "feature", "MaxVmcnt")
		}
		if ok {
			caps.MaxVmcnt = n
			break
		}
	}
	caps.MaxLgkmcnt = maxLgkmcnt
	caps.SupportedSource = true
	return caps, nil
}
