package capability

import "go.trai.ch/kerntune/internal/core/domain"

// feature is one entry of the probe battery. The feature is supported when any of
// its spellings assembles cleanly.
type feature struct {
	name      string
	spellings []string
	set       func(*domain.AsmCaps, bool)
}

var battery = []feature{
	{"SupportedISA", []string{""}, func(c *domain.AsmCaps, v bool) { c.SupportedISA = v }},
	{"HasExplicitCO", []string{"v_add_co_u32 v0,vcc,v0,1"}, func(c *domain.AsmCaps, v bool) { c.HasExplicitCO = v }},
	{"HasExplicitNC", []string{"v_add_nc_u32 v0,v0,1"}, func(c *domain.AsmCaps, v bool) { c.HasExplicitNC = v }},
	{"HasDirectToLds", []string{
		"buffer_load_dword v36, s[24:27], s28 offen offset:0 lds",
		"buffer_load_b32 v36, s[24:27], s28 offen offset:0 lds",
	}, func(c *domain.AsmCaps, v bool) { c.HasDirectToLds = v }},
	{"HasAddLshl", []string{"v_add_lshl_u32 v47, v36, v34, 0x2"}, func(c *domain.AsmCaps, v bool) { c.HasAddLshl = v }},
	{"HasLshlOr", []string{"v_lshl_or_b32 v47, v36, 0x2, v34"}, func(c *domain.AsmCaps, v bool) { c.HasLshlOr = v }},
	{"HasSMulHi", []string{"s_mul_hi_u32 s47, s36, s34"}, func(c *domain.AsmCaps, v bool) { c.HasSMulHi = v }},

	{"HasMFMA_explicitB", []string{"v_mfma_f32_32x32x1_2b_f32 a[0:31], v0, v1, a[0:31]"}, func(c *domain.AsmCaps, v bool) { c.HasMFMAExplicitB = v }},
	// An assembler that only knows the explicit-B spelling still has MFMA.
	{"HasMFMA", []string{
		"v_mfma_f32_32x32x2bf16 a[0:31], v32, v33, a[0:31]",
		"v_mfma_f32_32x32x1_2b_f32 a[0:31], v0, v1, a[0:31]",
	}, func(c *domain.AsmCaps, v bool) { c.HasMFMA = v }},
	{"HasMFMA_f64", []string{
		"v_mfma_f64_16x16x4f64 v[0:7], v[32:33], v[36:37], v[0:7]",
		"v_mfma_f64_16x16x4_f64 v[0:7], v[32:33], v[36:37], v[0:7]",
	}, func(c *domain.AsmCaps, v bool) { c.HasMFMAF64 = v }},
	{"HasMFMA_bf16_1k", []string{"v_mfma_f32_32x32x4bf16_1k a[0:31], v[32:33], v[36:37], a[0:31]"}, func(c *domain.AsmCaps, v bool) { c.HasMFMABF16_1k = v }},
	{"HasMFMA_f8", []string{"v_mfma_f32_16x16x32_fp8_fp8 a[0:3], v[2:3], v[4:5], a[0:3]"}, func(c *domain.AsmCaps, v bool) { c.HasMFMAF8 = v }},
	{"HasMFMA_b8", []string{"v_mfma_f32_16x16x32_bf8_bf8 a[0:3], v[2:3], v[4:5], a[0:3]"}, func(c *domain.AsmCaps, v bool) { c.HasMFMAB8 = v }},
	{"HasMFMA_xf32", []string{"v_mfma_f32_32x32x4_xf32 a[0:15], v[32:33], v[36:37], a[0:15]"}, func(c *domain.AsmCaps, v bool) { c.HasMFMAXF32 = v }},
	{"HasSMFMA", []string{"v_smfmac_f32_32x32x16_f16 a[0:15], v[32:33], v[36:39], v[40]"}, func(c *domain.AsmCaps, v bool) { c.HasSMFMA = v }},
	{"HasWMMA", []string{
		"v_wmma_f32_16x16x16_f16 v[0:3], v[8:15], v[16:23], v[0:3]",
		"v_wmma_f32_16x16x16_f16 v[0:3], v[8:9], v[16:17], v[0:3]",
	}, func(c *domain.AsmCaps, v bool) { c.HasWMMA = v }},
	{"HasWMMA_V1", []string{"v_wmma_f32_16x16x16_f16 v[0:3], v[8:15], v[16:23], v[0:3]"}, func(c *domain.AsmCaps, v bool) { c.HasWMMAV1 = v }},
	{"HasWMMA_V2", []string{"v_wmma_f32_16x16x16_f16 v[0:3], v[8:9], v[16:17], v[0:3]"}, func(c *domain.AsmCaps, v bool) { c.HasWMMAV2 = v }},

	{"v_mac_f16", []string{"v_mac_f16 v47, v36, v34"}, func(c *domain.AsmCaps, v bool) { c.VMacF16 = v }},
	{"v_fma_f16", []string{"v_fma_f16 v47, v36, v34, v47, op_sel:[0,0,0,0]"}, func(c *domain.AsmCaps, v bool) { c.VFmaF16 = v }},
	{"v_fmac_f16", []string{"v_fma_f16 v47, v36, v34"}, func(c *domain.AsmCaps, v bool) { c.VFmacF16 = v }},
	{"v_pk_fma_f16", []string{"v_pk_fma_f16 v47, v36, v34, v47, op_sel:[0,0,0]"}, func(c *domain.AsmCaps, v bool) { c.VPkFmaF16 = v }},
	{"v_pk_fmac_f16", []string{"v_pk_fma_f16 v47, v36, v34"}, func(c *domain.AsmCaps, v bool) { c.VPkFmacF16 = v }},
	{"v_pk_add_f32", []string{"v_pk_add_f32 v[48:49], v[36:37], v[0:1]"}, func(c *domain.AsmCaps, v bool) { c.VPkAddF32 = v }},
	{"v_pk_mul_f32", []string{"v_pk_mul_f32 v[20:21], v[18:19], v[20:21]"}, func(c *domain.AsmCaps, v bool) { c.VPkMulF32 = v }},
	{"v_mad_mix_f32", []string{"v_mad_mix_f32 v47, v36, v34, v47, op_sel:[0,0,0] op_sel_hi:[1,1,0]"}, func(c *domain.AsmCaps, v bool) { c.VMadMixF32 = v }},
	{"v_fma_mix_f32", []string{"v_fma_mix_f32 v47, v36, v34, v47, op_sel:[0,0,0] op_sel_hi:[1,1,0]"}, func(c *domain.AsmCaps, v bool) { c.VFmaMixF32 = v }},
	{"v_dot2_f32_f16", []string{"v_dot2_f32_f16 v20, v36, v34, v20"}, func(c *domain.AsmCaps, v bool) { c.VDot2F32F16 = v }},
	{"v_dot2c_f32_f16", []string{
		"v_dot2c_f32_f16 v47, v36, v34",
		"v_dot2acc_f32_f16 v47, v36, v34",
	}, func(c *domain.AsmCaps, v bool) { c.VDot2cF32F16 = v }},
	{"v_dot4_i32_i8", []string{"v_dot4_i32_i8 v47, v36, v34"}, func(c *domain.AsmCaps, v bool) { c.VDot4I32I8 = v }},
	{"v_dot4c_i32_i8", []string{"v_dot4c_i32_i8 v47, v36, v34"}, func(c *domain.AsmCaps, v bool) { c.VDot4cI32I8 = v }},
	{"VOP3v_dot4_i32_i8", []string{"v_dot4_i32_i8 v47, v36, v34, v47"}, func(c *domain.AsmCaps, v bool) { c.VOP3Dot4I32I8 = v }},
	{"v_mac_f32", []string{"v_mac_f32 v20, v21, v22"}, func(c *domain.AsmCaps, v bool) { c.VMacF32 = v }},
	{"v_fma_f32", []string{"v_fma_f32 v20, v21, v22, v23"}, func(c *domain.AsmCaps, v bool) { c.VFmaF32 = v }},
	{"v_fmac_f32", []string{"v_fmac_f32 v20, v21, v22"}, func(c *domain.AsmCaps, v bool) { c.VFmacF32 = v }},
	{"v_fma_f64", []string{"v_fma_f64 v[20:21], v[22:23], v[24:25], v[20:21]"}, func(c *domain.AsmCaps, v bool) { c.VFmaF64 = v }},
	{"v_mov_b64", []string{"v_mov_b64 v[0:1], v[2:3]"}, func(c *domain.AsmCaps, v bool) { c.VMovB64 = v }},

	{"HasAtomicAdd", []string{
		"buffer_atomic_add_f32 v0, v1, s[0:3], 0 offen offset:0",
		"buffer_atomic_add_f32 v0, v1, s[0:3], null offen offset:0",
	}, func(c *domain.AsmCaps, v bool) { c.HasAtomicAdd = v }},
	{"HasGLCModifier", []string{"buffer_load_dwordx4 v[10:13], v[0], s[0:3], 0, offen offset:0, glc"}, func(c *domain.AsmCaps, v bool) { c.HasGLCModifier = v }},
	{"HasMUBUFConst", []string{
		"buffer_load_dword v40, v36, s[24:27], 1 offen offset:0",
		"buffer_load_b32 v40, v36, s[24:27], 1 offen offset:0",
	}, func(c *domain.AsmCaps, v bool) { c.HasMUBUFConst = v }},
	{"HasSCMPK", []string{"s_cmpk_gt_u32 s56, 0x0"}, func(c *domain.AsmCaps, v bool) { c.HasSCMPK = v }},
	{"HasNTModifier", []string{"buffer_load_dwordx4 v[10:13], v[0], s[0:3], 0, offen offset:0, nt"}, func(c *domain.AsmCaps, v bool) { c.HasNTModifier = v }},
	{"HasNewBarrier", []string{"s_barrier_wait -1"}, func(c *domain.AsmCaps, v bool) { c.HasNewBarrier = v }},
}

// vmcntLadder lists the waitcnt limits tried from largest to smallest.
var vmcntLadder = []int{63, 15}

// maxLgkmcnt is fixed for every supported target.
const maxLgkmcnt = 15

// FeatureNames returns the probed feature names in battery order.
func FeatureNames() []string {
	names := make([]string, len(battery))
	for i, f := range battery {
		names[i] = f.name
	}
	return names
}
