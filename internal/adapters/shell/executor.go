// Package shell provides the subprocess runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.Runner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes the command to completion.
//
// The environment is the process environment overlaid with cmd.Env. A relative
// executable name is resolved against the PATH of that merged environment.
func (r *Runner) Run(ctx context.Context, cmd ports.Command) (ports.Result, error) {
	cmdEnv := resolveEnvironment(os.Environ(), cmd.Env)

	executable := cmd.Path
	if !strings.ContainsRune(executable, filepath.Separator) {
		lp, err := lookPath(executable, cmdEnv)
		if err != nil {
			return ports.Result{}, zerr.With(zerr.Wrap(domain.ErrExecutableNotFound, "command not in PATH"), "path", cmd.Path)
		}
		executable = lp
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // configured toolchain
	c.Dir = cmd.Dir
	c.Env = cmdEnv
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}

	var out bytes.Buffer
	if cmd.Stdout == nil && cmd.Stderr == nil {
		c.Stdout = &out
		c.Stderr = &out
	} else {
		c.Stdout = orLog(cmd.Stdout, r.logger.Debug)
		c.Stderr = orLog(cmd.Stderr, r.logger.Warn)
	}

	r.logger.Debug(fmt.Sprintf("running %s %s", executable, strings.Join(cmd.Args, " ")))

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ports.Result{ExitCode: exitErr.ExitCode(), Output: out.Bytes()}, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return ports.Result{}, zerr.With(zerr.Wrap(domain.ErrExecutableNotFound, err.Error()), "path", cmd.Path)
		}
		return ports.Result{}, zerr.With(zerr.Wrap(err, "failed to start command"), "path", cmd.Path)
	}
	return ports.Result{Output: out.Bytes()}, nil
}

// Locate resolves an executable by explicit path, then each of dirs, then PATH.
func (r *Runner) Locate(name string, dirs ...string) (string, error) {
	if name == "" {
		return "", zerr.Wrap(domain.ErrExecutableNotFound, "no executable name given")
	}

	if strings.ContainsRune(name, filepath.Separator) {
		if err := findExecutable(name); err == nil {
			return filepath.Abs(name)
		}
		return "", zerr.With(zerr.Wrap(domain.ErrExecutableNotFound, "not an executable file"), "path", name)
	}

	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		if err := findExecutable(p); err == nil {
			return p, nil
		}
	}

	if p, err := lookPath(name, os.Environ()); err == nil {
		return p, nil
	}
	return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrExecutableNotFound, "executable not found"), "name", name), "dirs", dirs)
}

func orLog(w io.Writer, log func(string)) io.Writer {
	if w != nil {
		return w
	}
	return &logWriter{log: log}
}

type logWriter struct {
	log func(string)
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		w.log(line)
	}
	return len(p), nil
}

// resolveEnvironment overlays extra "KEY=VALUE" entries on the system environment.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(extra))
	var order []string
	for _, entry := range slices.Concat(sysEnv, extra) {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
