package library

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// KernelExt is the file extension of hand-authored kernels.
	KernelExt = ".s"

	customConfigKey = "custom.config"
	docStart        = "---"
	docEnd          = "..."
)

// CustomKernels implements ports.CustomKernelLoader. A kernel descriptor is the YAML
// document embedded in the assembly file between a "---" and a "..." line.
type CustomKernels struct{}

// NewCustomKernels creates a new CustomKernels loader.
func NewCustomKernels() *CustomKernels {
	return &CustomKernels{}
}

// Load reads the descriptor of the named kernel from dir. Entries of
// internalSupportParams override the kernel's own internal support parameters.
func (c *CustomKernels) Load(dir, name string, internalSupportParams map[string]any) (domain.Solution, error) {
	path := filepath.Join(dir, name+KernelExt)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the configured kernel directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrCustomKernelNotFound, "no such kernel file"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read custom kernel"), "path", path)
	}

	var desc map[string]any
	if err := yaml.Unmarshal(extractDescriptor(data), &desc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse custom kernel descriptor"), "path", path)
	}
	if nested, ok := domain.Normalize(desc[customConfigKey]).(map[string]any); ok {
		desc = nested
	}
	if desc == nil {
		return nil, zerr.With(zerr.New("custom kernel has no descriptor"), "path", path)
	}

	sol := domain.NewSolution(desc)
	isp, _ := sol[domain.KeyInternalSupport].(map[string]any)
	merged := map[string]any{}
	maps.Copy(merged, isp)
	maps.Copy(merged, internalSupportParams)

	return sol.Merge(map[string]any{
		domain.KeyCustomKernelName: name,
		domain.KeyInternalSupport:  merged,
	}), nil
}

func extractDescriptor(data []byte) []byte {
	var out bytes.Buffer
	in := false
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch strings.TrimSpace(line) {
		case docStart:
			in = true
			continue
		case docEnd:
			if in {
				return out.Bytes()
			}
		}
		if in {
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}
	return out.Bytes()
}
