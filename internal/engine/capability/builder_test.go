package capability_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	//nolint:depguard // Real store exercised across builders
	"go.trai.ch/kerntune/internal/adapters/cache"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/core/ports/mocks"
	"go.trai.ch/kerntune/internal/engine/capability"
	"go.uber.org/mock/gomock"
)

// acceptOnly returns a runner behaviour that assembles only the listed snippets cleanly.
func acceptOnly(accepted ...string) func(context.Context, ports.Command) (ports.Result, error) {
	return func(_ context.Context, cmd ports.Command) (ports.Result, error) {
		snippet := string(cmd.Stdin)
		for _, a := range accepted {
			if snippet == a {
				return ports.Result{}, nil
			}
		}
		return ports.Result{ExitCode: 1, Output: []byte("error: invalid instruction")}, nil
	}
}

func TestBuilder_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	store := mocks.NewMockCapabilityStore(ctrl)
	log := mocks.NewMockLogger(ctrl)

	target := domain.Target{Major: 9, Minor: 0, Step: 10}

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(acceptOnly(
		"",
		"v_add_co_u32 v0,vcc,v0,1",
		"v_mfma_f32_32x32x1_2b_f32 a[0:31], v0, v1, a[0:31]",
		"s_waitcnt vmcnt(15)",
	)).AnyTimes()

	store.EXPECT().Get(target, "clang", gomock.Nil()).Return(nil, nil).Times(1)
	store.EXPECT().Put(gomock.Any()).DoAndReturn(func(set domain.CapabilitySet) error {
		assert.Equal(t, target, set.Target)
		return nil
	}).Times(1)

	b := capability.NewBuilder(capability.NewProber(runner), store, log)
	set, err := b.Build(context.Background(), target, "clang")
	require.NoError(t, err)

	assert.True(t, set.Asm.SupportedISA)
	assert.True(t, set.Asm.SupportedSource)
	assert.True(t, set.Asm.HasExplicitCO)
	assert.False(t, set.Asm.HasExplicitNC)
	assert.True(t, set.Asm.HasMFMAExplicitB)
	assert.True(t, set.Asm.HasMFMA, "explicit-B spelling implies MFMA")
	assert.False(t, set.Asm.HasWMMA)
	assert.Equal(t, 15, set.Asm.MaxVmcnt)
	assert.Equal(t, 15, set.Asm.MaxLgkmcnt)
	assert.True(t, set.Bugs.ExplicitCO)
	assert.True(t, set.Arch.HasAccCD)
	assert.Equal(t, 512, set.Reg.PhysicalMaxVgpr)

	again, err := b.Build(context.Background(), target, "clang")
	require.NoError(t, err)
	assert.Same(t, set, again)
}

func TestBuilder_BuildProbesOnceUnderContention(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(ports.Result{}, nil).AnyTimes()

	prober := capability.NewProber(runner)
	b := capability.NewBuilder(prober, nil, mocks.NewMockLogger(ctrl))
	target := domain.Target{Major: 11, Minor: 0, Step: 0}

	var wg sync.WaitGroup
	sets := make([]*domain.CapabilitySet, 8)
	for i := range sets {
		wg.Go(func() {
			set, err := b.Build(context.Background(), target, "clang")
			assert.NoError(t, err)
			sets[i] = set
		})
	}
	wg.Wait()

	for _, s := range sets[1:] {
		assert.Same(t, sets[0], s)
	}
	// Every feature accepts its first spelling; the two WMMA probes share one, and the
	// vmcnt ladder stops at its first rung.
	assert.Equal(t, int64(len(capability.FeatureNames())), prober.Spawned())
}

func TestBuilder_BuildFromStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	store := mocks.NewMockCapabilityStore(ctrl)
	log := mocks.NewMockLogger(ctrl)

	target := domain.Target{Major: 9, Minor: 4, Step: 2}
	cached := &domain.CapabilitySet{Target: target, AssemblerPath: "clang"}

	store.EXPECT().Get(target, "clang", gomock.Nil()).Return(cached, nil).Times(1)
	log.EXPECT().Debug(gomock.Any()).Times(1)

	b := capability.NewBuilder(capability.NewProber(runner), store, log)
	set, err := b.Build(context.Background(), target, "clang")
	require.NoError(t, err)
	assert.Same(t, cached, set)
}

func TestBuilder_BuildStoreErrorsAreWarnings(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	store := mocks.NewMockCapabilityStore(ctrl)
	log := mocks.NewMockLogger(ctrl)

	target := domain.Target{Major: 9, Minor: 0, Step: 8}

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(ports.Result{ExitCode: 1}, nil).AnyTimes()
	store.EXPECT().Get(target, "clang", gomock.Nil()).Return(nil, errors.New("corrupt")).Times(1)
	store.EXPECT().Put(gomock.Any()).Return(errors.New("read-only")).Times(1)
	log.EXPECT().Warn(gomock.Any()).DoAndReturn(func(msg string) {
		assert.True(t, strings.Contains(msg, "gfx908"))
	}).Times(2)

	b := capability.NewBuilder(capability.NewProber(runner), store, log)
	set, err := b.Build(context.Background(), target, "clang")
	require.NoError(t, err)
	assert.False(t, set.Asm.SupportedISA)
	assert.Equal(t, 0, set.Asm.MaxVmcnt)
}

func TestBuilder_BuildMissingAssembler(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(ports.Result{}, domain.ErrExecutableNotFound).
		AnyTimes()

	b := capability.NewBuilder(capability.NewProber(runner), nil, mocks.NewMockLogger(ctrl))
	_, err := b.Build(context.Background(), domain.Target{Major: 9, Minor: 0, Step: 10}, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExecutableNotFound)
}

func TestBuilder_WithFlags(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (ports.Result, error) {
			assert.Contains(t, cmd.Args, "-mcode-object-version=4")
			return ports.Result{}, nil
		}).
		AnyTimes()

	b := capability.NewBuilder(capability.NewProber(runner), nil, mocks.NewMockLogger(ctrl)).
		WithFlags("-mcode-object-version=4")
	_, err := b.Build(context.Background(), domain.Target{Major: 9, Minor: 0, Step: 10}, "clang")
	require.NoError(t, err)
}

func TestBuilder_WithFlagsDoesNotReuseStoredPlainSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	wmma := "v_wmma_f32_16x16x16_f16 v[0:3], v[8:15], v[16:23], v[0:3]"
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (ports.Result, error) {
			if string(cmd.Stdin) == wmma && !slices.Contains(cmd.Args, "-mattr=+wmma") {
				return ports.Result{ExitCode: 1, Output: []byte("error: instruction not supported")}, nil
			}
			return ports.Result{}, nil
		}).
		AnyTimes()

	store, err := cache.NewCapabilityStore(filepath.Join(t.TempDir(), "caps.yaml"))
	require.NoError(t, err)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	target := domain.Target{Major: 11, Minor: 0, Step: 0}
	plain := capability.NewBuilder(capability.NewProber(runner), store, log)

	set, err := plain.Build(context.Background(), target, "clang")
	require.NoError(t, err)
	assert.False(t, set.Asm.HasWMMA)

	flagged, err := plain.WithFlags("-mattr=+wmma").Build(context.Background(), target, "clang")
	require.NoError(t, err)
	assert.True(t, flagged.Asm.HasWMMA)
	assert.Equal(t, []string{"-mattr=+wmma"}, flagged.AssemblerFlags)

	stored, err := store.Get(target, "clang", []string{"-mattr=+wmma"})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Asm.HasWMMA)

	stored, err = store.Get(target, "clang", nil)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Asm.HasWMMA)
}

func TestBuilder_BuildConsultsStoreOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(ports.Result{}, nil).AnyTimes()

	target := domain.Target{Major: 9, Minor: 4, Step: 2}
	store := mocks.NewMockCapabilityStore(ctrl)
	store.EXPECT().Get(target, "clang", gomock.Nil()).Return(nil, nil).Times(1)
	store.EXPECT().Put(gomock.Any()).Return(nil).Times(1)

	b := capability.NewBuilder(capability.NewProber(runner), store, mocks.NewMockLogger(ctrl))

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			_, err := b.Build(context.Background(), target, "clang")
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	_, err := b.Build(context.Background(), target, "clang")
	require.NoError(t, err)
}
