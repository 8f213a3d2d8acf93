package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kerntune/internal/adapters/cache"
	"go.trai.ch/kerntune/internal/core/domain"
)

func capabilitySet(target domain.Target, assembler string) domain.CapabilitySet {
	return domain.CapabilitySet{
		Target:        target,
		AssemblerPath: assembler,
		Asm:           domain.AsmCaps{SupportedISA: true, HasMFMA: true, MaxVmcnt: 63, MaxLgkmcnt: 15},
		Arch:          domain.ArchCaps{HasAccCD: true},
		Reg:           domain.RegCaps{MaxVgpr: 256, MaxSgpr: 102},
	}
}

func TestCapabilityStore_PutAndGet(t *testing.T) {
	store, err := cache.NewCapabilityStore(filepath.Join(t.TempDir(), "caps.yaml"))
	require.NoError(t, err)

	gfx90a := domain.MustParseGfx("gfx90a")
	set := capabilitySet(gfx90a, "/opt/rocm/llvm/bin/clang")
	require.NoError(t, store.Put(set))

	got, err := store.Get(gfx90a, "/opt/rocm/llvm/bin/clang", nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, set, *got)

	got, err = store.Get(gfx90a, "/usr/bin/clang", nil)
	require.NoError(t, err)
	assert.Nil(t, got, "sets are keyed by assembler too")

	got, err = store.Get(domain.MustParseGfx("gfx942"), "/opt/rocm/llvm/bin/clang", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCapabilityStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "caps.yaml")

	first, err := cache.NewCapabilityStore(path)
	require.NoError(t, err)
	gfx1100 := domain.MustParseGfx("gfx1100")
	require.NoError(t, first.Put(capabilitySet(gfx1100, "clang")))

	second, err := cache.NewCapabilityStore(path)
	require.NoError(t, err)
	got, err := second.Get(gfx1100, "clang", nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 256, got.Reg.MaxVgpr)
	assert.True(t, got.Asm.HasMFMA)
}

func TestCapabilityStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not: [valid"), 0o600))

	_, err := cache.NewCapabilityStore(path)
	assert.Error(t, err)
}

func TestCapabilityStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caps.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	store, err := cache.NewCapabilityStore(path)
	require.NoError(t, err)
	got, err := store.Get(domain.MustParseGfx("gfx90a"), "clang", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCapabilityStore_KeyedByFlags(t *testing.T) {
	store, err := cache.NewCapabilityStore(filepath.Join(t.TempDir(), "caps.yaml"))
	require.NoError(t, err)

	gfx1100 := domain.MustParseGfx("gfx1100")
	flagged := capabilitySet(gfx1100, "clang")
	flagged.AssemblerFlags = []string{"-mattr=+wmma"}
	flagged.Asm.HasWMMA = true
	require.NoError(t, store.Put(flagged))

	got, err := store.Get(gfx1100, "clang", nil)
	require.NoError(t, err)
	assert.Nil(t, got, "a flagged set must not answer a plain lookup")

	got, err = store.Get(gfx1100, "clang", []string{"-mattr=+wmma"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Asm.HasWMMA)
}
