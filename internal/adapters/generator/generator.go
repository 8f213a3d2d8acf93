// Package generator drives the external kernel writer that turns accepted solutions
// into kernel sources and code objects.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// RequestFile is written to the step directory and handed to the kernel writer.
	RequestFile = "kernel_request.json"
	// ManifestFile is written by the kernel writer into the source directory.
	ManifestFile = "manifest.json"
)

// Request is the kernel writer input document.
type Request struct {
	StepName       string           `json:"stepName"`
	SourceDir      string           `json:"sourceDir"`
	Assembler      string           `json:"assembler"`
	ProblemType    map[string]any   `json:"problemType"`
	ProblemSizes   []any            `json:"problemSizes"`
	BiasTypeArgs   []any            `json:"biasTypeArgs,omitempty"`
	ActivationArgs []any            `json:"activationArgs,omitempty"`
	FactorDimArgs  []any            `json:"factorDimArgs,omitempty"`
	ICacheFlush    []any            `json:"iCacheFlush,omitempty"`
	Solutions      []map[string]any `json:"solutions"`
}

// Manifest lists the artifacts produced by the kernel writer.
type Manifest struct {
	CodeObjectFiles []string `json:"codeObjectFiles"`
}

// Generator implements ports.KernelGenerator by running the kernel writer executable.
type Generator struct {
	runner ports.Runner
	logger ports.Logger
}

// New creates a new Generator.
func New(runner ports.Runner, logger ports.Logger) *Generator {
	return &Generator{runner: runner, logger: logger}
}

// Generate writes the request document, runs the writer and returns the code objects
// listed in its manifest, relative to the source directory.
func (g *Generator) Generate(ctx context.Context, req ports.GenerateRequest) ([]string, error) {
	reqPath := filepath.Join(req.StepDir, RequestFile)
	if err := writeRequest(reqPath, req); err != nil {
		return nil, err
	}

	cmd := ports.Command{
		Path: req.WriterPath,
		Args: []string{"--request", reqPath, "--output", req.SourceDir, "--assembler", req.AssemblerPath},
		Dir:  req.StepDir,
	}
	if v, ok := ports.VertexFromContext(ctx); ok {
		cmd.Stdout, cmd.Stderr = v.Stdout(), v.Stderr()
	}

	g.logger.Info(fmt.Sprintf("generating %d kernels for %s", len(req.Solutions), req.StepName))
	res, err := g.runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		err := zerr.With(zerr.Wrap(domain.ErrKernelWriterFailed, "writer exited with non-zero code"), "exit_code", res.ExitCode)
		if len(res.Output) > 0 {
			err = zerr.With(err, "output", string(res.Output))
		}
		return nil, zerr.With(err, "step", req.StepName)
	}

	return readManifest(filepath.Join(req.SourceDir, ManifestFile), req.SourceDir)
}

func writeRequest(path string, req ports.GenerateRequest) error {
	doc := Request{
		StepName:       req.StepName,
		SourceDir:      req.SourceDir,
		Assembler:      req.AssemblerPath,
		ProblemType:    map[string]any(req.ProblemType),
		ProblemSizes:   req.Args.ProblemSizes,
		BiasTypeArgs:   req.Args.BiasTypeArgs,
		ActivationArgs: req.Args.ActivationArgs,
		FactorDimArgs:  req.Args.FactorDimArgs,
		ICacheFlush:    req.Args.ICacheFlush,
		Solutions:      make([]map[string]any, len(req.Solutions)),
	}
	for i, s := range req.Solutions {
		doc.Solutions[i] = map[string]any(s)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode kernel request")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write kernel request"), "path", path)
	}
	return nil
}

func readManifest(path, srcDir string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the step source directory
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrKernelWriterFailed, "writer left no manifest"), "path", path)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrKernelWriterFailed, "malformed manifest"), "path", path)
	}

	files := make([]string, 0, len(m.CodeObjectFiles))
	for _, f := range m.CodeObjectFiles {
		if filepath.IsAbs(f) {
			rel, err := filepath.Rel(srcDir, f)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "code object outside source directory"), "file", f)
			}
			f = rel
		}
		files = append(files, filepath.ToSlash(f))
	}
	return files, nil
}
