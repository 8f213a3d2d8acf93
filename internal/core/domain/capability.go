package domain

import "go.trai.ch/zerr"

// AsmCaps holds the instruction features an assembler accepts for a target.
// Every boolean is the result of one probe (or the OR of two alternative spellings).
type AsmCaps struct {
	SupportedISA    bool `yaml:"SupportedISA" json:"SupportedISA"`
	SupportedSource bool `yaml:"SupportedSource" json:"SupportedSource"`

	HasExplicitCO  bool `yaml:"HasExplicitCO" json:"HasExplicitCO"`
	HasExplicitNC  bool `yaml:"HasExplicitNC" json:"HasExplicitNC"`
	HasDirectToLds bool `yaml:"HasDirectToLds" json:"HasDirectToLds"`
	HasAddLshl     bool `yaml:"HasAddLshl" json:"HasAddLshl"`
	HasLshlOr      bool `yaml:"HasLshlOr" json:"HasLshlOr"`
	HasSMulHi      bool `yaml:"HasSMulHi" json:"HasSMulHi"`

	HasMFMAExplicitB bool `yaml:"HasMFMA_explicitB" json:"HasMFMA_explicitB"`
	HasMFMA          bool `yaml:"HasMFMA" json:"HasMFMA"`
	HasMFMAF64       bool `yaml:"HasMFMA_f64" json:"HasMFMA_f64"`
	HasMFMABF16_1k   bool `yaml:"HasMFMA_bf16_1k" json:"HasMFMA_bf16_1k"`
	HasMFMAF8        bool `yaml:"HasMFMA_f8" json:"HasMFMA_f8"`
	HasMFMAB8        bool `yaml:"HasMFMA_b8" json:"HasMFMA_b8"`
	HasMFMAXF32      bool `yaml:"HasMFMA_xf32" json:"HasMFMA_xf32"`
	HasSMFMA         bool `yaml:"HasSMFMA" json:"HasSMFMA"`
	HasWMMA          bool `yaml:"HasWMMA" json:"HasWMMA"`
	HasWMMAV1        bool `yaml:"HasWMMA_V1" json:"HasWMMA_V1"`
	HasWMMAV2        bool `yaml:"HasWMMA_V2" json:"HasWMMA_V2"`

	VMacF16       bool `yaml:"v_mac_f16" json:"v_mac_f16"`
	VFmaF16       bool `yaml:"v_fma_f16" json:"v_fma_f16"`
	VFmacF16      bool `yaml:"v_fmac_f16" json:"v_fmac_f16"`
	VPkFmaF16     bool `yaml:"v_pk_fma_f16" json:"v_pk_fma_f16"`
	VPkFmacF16    bool `yaml:"v_pk_fmac_f16" json:"v_pk_fmac_f16"`
	VPkAddF32     bool `yaml:"v_pk_add_f32" json:"v_pk_add_f32"`
	VPkMulF32     bool `yaml:"v_pk_mul_f32" json:"v_pk_mul_f32"`
	VMadMixF32    bool `yaml:"v_mad_mix_f32" json:"v_mad_mix_f32"`
	VFmaMixF32    bool `yaml:"v_fma_mix_f32" json:"v_fma_mix_f32"`
	VDot2F32F16   bool `yaml:"v_dot2_f32_f16" json:"v_dot2_f32_f16"`
	VDot2cF32F16  bool `yaml:"v_dot2c_f32_f16" json:"v_dot2c_f32_f16"`
	VDot4I32I8    bool `yaml:"v_dot4_i32_i8" json:"v_dot4_i32_i8"`
	VDot4cI32I8   bool `yaml:"v_dot4c_i32_i8" json:"v_dot4c_i32_i8"`
	VOP3Dot4I32I8 bool `yaml:"VOP3v_dot4_i32_i8" json:"VOP3v_dot4_i32_i8"`
	VMacF32       bool `yaml:"v_mac_f32" json:"v_mac_f32"`
	VFmaF32       bool `yaml:"v_fma_f32" json:"v_fma_f32"`
	VFmacF32      bool `yaml:"v_fmac_f32" json:"v_fmac_f32"`
	VFmaF64       bool `yaml:"v_fma_f64" json:"v_fma_f64"`
	VMovB64       bool `yaml:"v_mov_b64" json:"v_mov_b64"`

	HasAtomicAdd   bool `yaml:"HasAtomicAdd" json:"HasAtomicAdd"`
	HasGLCModifier bool `yaml:"HasGLCModifier" json:"HasGLCModifier"`
	HasMUBUFConst  bool `yaml:"HasMUBUFConst" json:"HasMUBUFConst"`
	HasSCMPK       bool `yaml:"HasSCMPK" json:"HasSCMPK"`
	HasNTModifier  bool `yaml:"HasNTModifier" json:"HasNTModifier"`
	HasNewBarrier  bool `yaml:"HasNewBarrier" json:"HasNewBarrier"`

	MaxVmcnt   int `yaml:"MaxVmcnt" json:"MaxVmcnt"`
	MaxLgkmcnt int `yaml:"MaxLgkmcnt" json:"MaxLgkmcnt"`
}

// ArchCaps holds static facts derived from the target alone.
type ArchCaps struct {
	HasEccHalf         bool `yaml:"HasEccHalf" json:"HasEccHalf"`
	Waitcnt0Disabled   bool `yaml:"Waitcnt0Disabled" json:"Waitcnt0Disabled"`
	SeparateVscnt      bool `yaml:"SeparateVscnt" json:"SeparateVscnt"`
	SeparateLGKMcnt    bool `yaml:"SeparateLGKMcnt" json:"SeparateLGKMcnt"`
	SeparateVMcnt      bool `yaml:"SeparateVMcnt" json:"SeparateVMcnt"`
	CMPXWritesSGPR     bool `yaml:"CMPXWritesSGPR" json:"CMPXWritesSGPR"`
	HasWave32          bool `yaml:"HasWave32" json:"HasWave32"`
	HasAccCD           bool `yaml:"HasAccCD" json:"HasAccCD"`
	ArchAccUnifiedRegs bool `yaml:"ArchAccUnifiedRegs" json:"ArchAccUnifiedRegs"`
	CrosslaneWait      bool `yaml:"CrosslaneWait" json:"CrosslaneWait"`
	ForceStoreSC1      bool `yaml:"ForceStoreSC1" json:"ForceStoreSC1"`
	TransOpWait        bool `yaml:"TransOpWait" json:"TransOpWait"`
	SDWAWait           bool `yaml:"SDWAWait" json:"SDWAWait"`
	VgprBank           bool `yaml:"VgprBank" json:"VgprBank"`
	DSLow16NotPreserve bool `yaml:"DSLow16NotPreserve" json:"DSLow16NotPreserve"`
	WorkGroupIDFromTTM bool `yaml:"WorkGroupIdFromTTM" json:"WorkGroupIdFromTTM"`
	NoSDWA             bool `yaml:"NoSDWA" json:"NoSDWA"`
	VOP3ByteSel        bool `yaml:"VOP3ByteSel" json:"VOP3ByteSel"`
	HasFP8OCP          bool `yaml:"HasFP8_OCP" json:"HasFP8_OCP"`
}

// RegCaps holds logical and physical register-file limits.
type RegCaps struct {
	MaxVgpr           int `yaml:"MaxVgpr" json:"MaxVgpr"`
	MaxSgpr           int `yaml:"MaxSgpr" json:"MaxSgpr"`
	PhysicalMaxVgpr   int `yaml:"PhysicalMaxVgpr" json:"PhysicalMaxVgpr"`
	PhysicalMaxSgpr   int `yaml:"PhysicalMaxSgpr" json:"PhysicalMaxSgpr"`
	PhysicalMaxVgprCU int `yaml:"PhysicalMaxVgprCU" json:"PhysicalMaxVgprCU"`
}

// AsmBugs marks known assembler quirks.
type AsmBugs struct {
	ExplicitCO bool `yaml:"ExplicitCO" json:"ExplicitCO"`
	ExplicitNC bool `yaml:"ExplicitNC" json:"ExplicitNC"`
}

// CapabilitySet is everything known about one target. It is never mutated once published.
type CapabilitySet struct {
	Target        Target   `yaml:"Target" json:"Target"`
	AssemblerPath  string   `yaml:"AssemblerPath" json:"AssemblerPath"`
	AssemblerFlags []string `yaml:"AssemblerFlags,omitempty" json:"AssemblerFlags,omitempty"`
	Asm            AsmCaps  `yaml:"AsmCaps" json:"AsmCaps"`
	Arch           ArchCaps `yaml:"ArchCaps" json:"ArchCaps"`
	Reg            RegCaps  `yaml:"RegCaps" json:"RegCaps"`
	Bugs           AsmBugs  `yaml:"AsmBugs" json:"AsmBugs"`
}

// NewAsmBugs projects the assembler quirks out of the probed features.
func NewAsmBugs(asm AsmCaps) AsmBugs {
	return AsmBugs{
		ExplicitCO: asm.HasExplicitCO,
		ExplicitNC: asm.HasExplicitNC,
	}
}

// NewArchCaps derives the static architecture facts for a target.
func NewArchCaps(t Target) ArchCaps {
	var (
		gfx906 = Target{9, 0, 6}
		gfx908 = Target{9, 0, 8}
		gfx90a = Target{9, 0, 10}
		gfx940 = Target{9, 4, 0}
		gfx941 = Target{9, 4, 1}
		gfx942 = Target{9, 4, 2}
	)
	rdna := t.Major == 10 || t.Major == 11 || t.Major == 12

	return ArchCaps{
		HasEccHalf:         t.Is(gfx906, gfx908, gfx90a, gfx940, gfx941, gfx942),
		Waitcnt0Disabled:   t.Is(gfx908, gfx90a, gfx940, gfx941, gfx942),
		SeparateVscnt:      t.Major == 10 || t.Major == 11,
		SeparateLGKMcnt:    t.Major == 12,
		SeparateVMcnt:      t.Major == 12,
		CMPXWritesSGPR:     !rdna,
		HasWave32:          rdna,
		HasAccCD:           t.Is(gfx90a, gfx940, gfx941, gfx942),
		ArchAccUnifiedRegs: t.Is(gfx90a, gfx940, gfx941, gfx942),
		CrosslaneWait:      t.Is(gfx940, gfx941, gfx942),
		ForceStoreSC1:      t.Is(gfx940, gfx941),
		TransOpWait:        t.Is(gfx940, gfx941, gfx942),
		SDWAWait:           t.Is(gfx940, gfx941, gfx942),
		VgprBank:           rdna,
		DSLow16NotPreserve: t.Major == 12,
		WorkGroupIDFromTTM: t.Major == 12,
		NoSDWA:             t.Major == 12,
		VOP3ByteSel:        t.Major == 12,
		HasFP8OCP:          t.Major == 12,
	}
}

// NewRegCaps computes register limits for a target. An unrecognized major version
// is a configuration error.
func NewRegCaps(t Target, arch ArchCaps) (RegCaps, error) {
	rc := RegCaps{
		MaxVgpr:         256,
		MaxSgpr:         102,
		PhysicalMaxVgpr: 512,
		PhysicalMaxSgpr: 800,
	}

	switch t.Major {
	case 10:
		rc.PhysicalMaxVgprCU = 1024 * 32
	case 11:
		if t.Step == 2 {
			rc.PhysicalMaxVgprCU = 1024 * 32
		} else {
			rc.PhysicalMaxVgprCU = 1536 * 32
		}
	case 12:
		rc.PhysicalMaxVgprCU = 1536 * 32
	case 9:
		if arch.ArchAccUnifiedRegs {
			rc.PhysicalMaxVgprCU = 2048 * 64
		} else {
			rc.PhysicalMaxVgprCU = 1024 * 64
		}
	case 8:
		rc.PhysicalMaxVgprCU = 1024 * 64
	case 0:
		rc.PhysicalMaxVgprCU = 0
	default:
		return RegCaps{}, zerr.With(zerr.Wrap(ErrUnknownArchitecture, "cannot derive register caps"), "target", t.Gfx())
	}

	return rc, nil
}
