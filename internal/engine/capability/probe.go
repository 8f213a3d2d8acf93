// Package capability probes assembler features, derives static architecture facts and
// caches the resulting capability sets per target.
package capability

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

type probeKey struct {
	target    domain.Target
	assembler string
	snippet   string
	flags     string
}

// Prober assembles instruction snippets with an external assembler to detect features.
// Results are cached for the lifetime of the process; the key space (targets x snippets)
// is small and fixed, so nothing is evicted.
type Prober struct {
	runner ports.Runner

	mu      sync.RWMutex
	results map[probeKey]bool
	group   singleflight.Group
	spawned atomic.Int64
}

// NewProber creates a Prober that spawns the assembler through runner.
func NewProber(runner ports.Runner) *Prober {
	return &Prober{
		runner:  runner,
		results: make(map[probeKey]bool),
	}
}

// Args returns the assembler arguments used to probe a target.
func Args(target domain.Target, flags ...string) []string {
	opts := append([]string{}, flags...)
	if target.Major >= 10 {
		opts = append(opts, "-mwavefrontsize64")
	}
	args := []string{"-x", "assembler", "-target", "amdgcn-amdhsa", "-mcpu=" + target.Gfx()}
	args = append(args, opts...)
	return append(args, "-")
}

// Probe reports whether the assembler accepts snippet for target.
//
// A feature is supported only if the assembler exits with code zero and prints nothing:
// any diagnostic, even a warning, means unsupported. Failing to start the assembler is
// returned as an error.
func (p *Prober) Probe(ctx context.Context, target domain.Target, assembler, snippet string, flags ...string) (bool, error) {
	key := probeKey{target: target, assembler: assembler, snippet: snippet, flags: strings.Join(flags, "\x00")}

	p.mu.RLock()
	ok, found := p.results[key]
	p.mu.RUnlock()
	if found {
		return ok, nil
	}

	sfKey := target.Gfx() + "\x00" + assembler + "\x00" + key.flags + "\x00" + snippet
	v, err, _ := p.group.Do(sfKey, func() (any, error) {
		p.mu.RLock()
		ok, found := p.results[key]
		p.mu.RUnlock()
		if found {
			return ok, nil
		}

		p.spawned.Add(1)
		res, err := p.runner.Run(ctx, ports.Command{
			Path:  assembler,
			Args:  Args(target, flags...),
			Stdin: []byte(snippet),
		})
		if err != nil {
			return false, zerr.With(zerr.With(zerr.Wrap(err, "failed to run assembler"), "assembler", assembler), "target", target.Gfx())
		}

		supported := res.ExitCode == 0 && len(res.Output) == 0

		p.mu.Lock()
		p.results[key] = supported
		p.mu.Unlock()
		return supported, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Spawned returns how many assembler processes the prober has started.
func (p *Prober) Spawned() int64 {
	return p.spawned.Load()
}
