// Package client drives the external benchmark client executable.
package client

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/zerr"
)

// ParametersFile is the client parameter file written into the step source directory.
const ParametersFile = "ClientParameters.ini"

// Client implements ports.BenchmarkClient.
type Client struct {
	runner ports.Runner
	logger ports.Logger
}

// New creates a new Client.
func New(runner ports.Runner, logger ports.Logger) *Client {
	return &Client{runner: runner, logger: logger}
}

// WriteParameters writes the client parameter file for the step and returns its path.
// Opaque argument lists are encoded as JSON values.
func (c *Client) WriteParameters(req ports.ClientRequest) (string, error) {
	var b bytes.Buffer
	line := func(key string, value any) {
		fmt.Fprintf(&b, "%s=%v\n", key, value)
	}

	line("problem-type", req.ProblemType.Name())
	if dt, err := req.ProblemType.DataType(); err == nil {
		line("a-type", dt.Char())
		line("b-type", dt.Char())
	}
	ta, _ := domain.AsBool(req.ProblemType[domain.KeyTransposeA])
	tb, _ := domain.AsBool(req.ProblemType[domain.KeyTransposeB])
	line("transA", flag(ta))
	line("transB", flag(tb))
	line("sparse", req.ProblemType.Sparse())

	for _, f := range req.CodeObjectFiles {
		line("code-object", filepath.Join(req.SourceDir, f))
	}
	line("results-file", req.ResultsFile)

	args := []struct {
		key  string
		list []any
	}{
		{"problem-sizes", req.Args.ProblemSizes},
		{"bias-type-args", req.Args.BiasTypeArgs},
		{"activation-args", req.Args.ActivationArgs},
		{"factor-dim-args", req.Args.FactorDimArgs},
		{"icache-flush", req.Args.ICacheFlush},
	}
	for _, a := range args {
		if len(a.list) == 0 {
			continue
		}
		data, err := json.Marshal(domain.Normalize(a.list))
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to encode client argument"), "key", a.key)
		}
		line(a.key, string(data))
	}

	path := filepath.Join(req.SourceDir, ParametersFile)
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write client parameters"), "path", path)
	}
	return path, nil
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Run invokes the client with the step's parameter file and returns its exit code.
func (c *Client) Run(ctx context.Context, req ports.ClientRequest) (int, error) {
	params := filepath.Join(req.SourceDir, ParametersFile)
	if err := os.MkdirAll(filepath.Dir(req.ResultsFile), 0o750); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create results directory"), "path", req.ResultsFile)
	}

	c.logger.Info(fmt.Sprintf("running benchmark client for %s", filepath.Base(req.StepDir)))
	res, err := c.runner.Run(ctx, ports.Command{
		Path:   req.ClientPath,
		Args:   []string{"--config-file", params},
		Dir:    req.StepDir,
		Env:    []string{"KERNTUNE_ASSEMBLER=" + req.AssemblerPath},
		Stdout: req.Stdout,
		Stderr: req.Stderr,
	})
	if err != nil {
		return 0, err
	}
	return res.ExitCode, nil
}
