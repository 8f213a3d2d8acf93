// Package validation re-checks the matrix-instruction configuration of stored
// library logic files in parallel.
package validation

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/engine/capability"
	"go.trai.ch/kerntune/internal/engine/validator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// LogicPattern selects the logic files below the logic path.
const LogicPattern = "**/*.yaml"

// DefaultJobs is the pool size used when none is given.
const DefaultJobs = 48

// experimentalDir marks logic files excluded from validation.
const experimentalDir = "Experimental"

// Result is the reduced outcome of a validation pass.
type Result struct {
	Files int
	Keep  int
	Total int
}

// Rejected returns the number of rejected solutions.
func (r Result) Rejected() int {
	return r.Total - r.Keep
}

// Registry initializes targets and hands out worker bindings.
type Registry interface {
	validator.CapabilitySource
	NewWorker(ctx context.Context) *capability.Worker
}

// Runner validates logic files on a bounded worker pool.
type Runner struct {
	library   ports.Library
	fs        ports.FileSystem
	telemetry ports.Telemetry
	logger    ports.Logger
}

// NewRunner creates a Runner.
func NewRunner(library ports.Library, fs ports.FileSystem, telemetry ports.Telemetry, logger ports.Logger) *Runner {
	return &Runner{
		library:   library,
		fs:        fs,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Run validates every logic file below logicPath with at most jobs files in flight.
//
// All dispatched files are checked before the counts are reduced. Run fails with
// ErrRejectedSolutions when any solution was rejected.
func (r *Runner) Run(
	ctx context.Context,
	reg Registry,
	logicPath, assembler string,
	jobs int,
) (Result, error) {
	files, err := r.fs.Glob(logicPath, LogicPattern)
	if err != nil {
		return Result{}, zerr.With(zerr.Wrap(err, "failed to list logic files"), "path", logicPath)
	}
	r.logger.Info(fmt.Sprintf("checking logic files with glob %s", filepath.Join(logicPath, LogicPattern)))

	if jobs < 1 {
		jobs = 1
	}

	counts := make([]Result, len(files))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			res, err := r.checkFile(ctx, reg, logicPath, file, assembler)
			counts[i] = res
			return err
		})
	}
	err = g.Wait()

	var total Result
	for _, c := range counts {
		total.Files += c.Files
		total.Keep += c.Keep
		total.Total += c.Total
	}
	if err != nil {
		return total, err
	}
	if n := total.Rejected(); n > 0 {
		return total, zerr.With(zerr.Wrap(domain.ErrRejectedSolutions, "validation failed"), "rejected", n)
	}
	return total, nil
}

func isExperimental(path string) bool {
	return slices.Contains(strings.Split(filepath.ToSlash(path), "/"), experimentalDir)
}

func (r *Runner) checkFile(
	ctx context.Context,
	reg Registry,
	logicPath, file, assembler string,
) (res Result, err error) {
	if isExperimental(file) {
		return Result{}, nil
	}

	rel, relErr := filepath.Rel(logicPath, file)
	if relErr != nil {
		rel = file
	}

	ctx, vtx := r.telemetry.Record(ctx, rel)
	defer func() { vtx.Complete(err) }()

	solutions, err := r.library.ReadLogicSolutions(file)
	if err != nil {
		return Result{}, zerr.With(zerr.Wrap(err, "failed to read logic file"), "file", rel)
	}

	w := reg.NewWorker(ctx)
	defer w.Close()

	res.Files = 1
	for _, sol := range solutions {
		if target, ok := sol.Target(); ok {
			if err := w.Init(ctx, target, assembler); err != nil {
				return res, zerr.With(err, "file", rel)
			}
		}

		res.Total++
		outcome := validator.Validate(sol, reg)
		if outcome.Valid {
			res.Keep++
			continue
		}
		msg := fmt.Sprintf("validation failed: %s (index %d)", rel, sol.Index())
		r.logger.Warn(msg)
		r.logger.Warn("error: " + outcome.String())
		vtx.Log(domain.LogLevelWarn, msg+": "+outcome.String())
	}
	r.logger.Info(">> " + rel)
	return res, nil
}
