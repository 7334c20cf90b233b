package layout_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/surface"
)

func image2D(format core1_0.Format, width, height int, usage core1_0.ImageUsageFlags) *layout.ImageDescriptor {
	return &layout.ImageDescriptor{
		Type:        core1_0.ImageType2D,
		Format:      format,
		Extent:      core1_0.Extent3D{Width: width, Height: height, Depth: 1},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     core1_0.Samples1,
		Tiling:      core1_0.ImageTilingOptimal,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	}
}

func colorTarget(width, height int) *layout.ImageDescriptor {
	return image2D(core1_0.FormatR8G8B8A8UnsignedNormalized, width, height,
		core1_0.ImageUsageColorAttachment|core1_0.ImageUsageSampled)
}

var useDCCEarlyTestCases = map[string]struct {
	Generation      hwinfo.Generation
	DebugFlags      hwinfo.DebugFlags
	Desc            func() *layout.ImageDescriptor
	UseDCC          bool
	SignReinterpret bool
}{
	"LargeColorTarget": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(512, 512) },
		UseDCC:     true,
	},
	"BelowFastClearThreshold": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(256, 256) },
	},
	"GFX8ColorTarget": {
		Generation: hwinfo.GFX8,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(1024, 1024) },
		UseDCC:     true,
	},
	"NoLosslessCompression": {
		Generation: hwinfo.GFX7,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(1024, 1024) },
	},
	"DebugNoDCC": {
		Generation: hwinfo.GFX10_3,
		DebugFlags: hwinfo.DebugNoDCC,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(1024, 1024) },
	},
	"Shareable": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(1024, 1024)
			desc.ExternalHandleTypes = 1
			return desc
		},
	},
	"LinearTiling": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(1024, 1024)
			desc.Tiling = core1_0.ImageTilingLinear
			return desc
		},
	},
	"StorageWithAtomicFormat": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			return image2D(core1_0.FormatR32UnsignedInt, 1024, 1024, core1_0.ImageUsageColorAttachment|core1_0.ImageUsageStorage)
		},
	},
	"StorageWithoutStorageCompression": {
		Generation: hwinfo.GFX9,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(1024, 1024)
			desc.Usage |= core1_0.ImageUsageStorage
			return desc
		},
	},
	"StorageWithStorageCompression": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(1024, 1024)
			desc.Usage |= core1_0.ImageUsageStorage
			return desc
		},
		UseDCC: true,
	},
	"MipmappedArray": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(1024, 1024)
			desc.ArrayLayers = 2
			desc.MipLevels = 2
			return desc
		},
	},
	"MutableWithoutViewFormats": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(1024, 1024)
			desc.Flags = core1_0.ImageCreateMutableFormat
			return desc
		},
	},
	"MutableSignedView": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(1024, 1024)
			desc.Flags = core1_0.ImageCreateMutableFormat
			desc.ViewFormats = []core1_0.Format{core1_0.FormatR8G8B8A8UnsignedNormalized, formats.FormatR8G8B8A8SNorm}
			return desc
		},
		UseDCC:          true,
		SignReinterpret: true,
	},
	"MutableIncompatibleView": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(1024, 1024)
			desc.Flags = core1_0.ImageCreateMutableFormat
			desc.ViewFormats = []core1_0.Format{core1_0.FormatR16G16UnsignedNormalized}
			return desc
		},
	},
	"DepthFormat": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			return image2D(core1_0.FormatD32SignedFloat, 1024, 1024, core1_0.ImageUsageDepthStencilAttachment)
		},
	},
	"MultiPlanarFormat": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			return image2D(formats.FormatG8B8R82Plane420UNorm, 1024, 1024, core1_0.ImageUsageColorAttachment)
		},
	},
}

func TestUseDCCEarly(t *testing.T) {
	for testName, testCase := range useDCCEarlyTestCases {
		t.Run(testName, func(t *testing.T) {
			info := hwinfo.NewInfo(testCase.Generation)
			info.DebugFlags = testCase.DebugFlags
			rules := layout.NewRules(info)

			desc := testCase.Desc()
			useDCC, signReinterpret := rules.UseDCCEarly(desc, desc.Format)
			require.Equal(t, testCase.UseDCC, useDCC)
			require.Equal(t, testCase.SignReinterpret, signReinterpret)
		})
	}
}

var useHTileTestCases = map[string]struct {
	Generation hwinfo.Generation
	Format     core1_0.Format
	Width      int
	Levels     int
	Layers     int
	Shareable  bool
	UseHTile   bool
}{
	"SingleLevel": {
		Generation: hwinfo.GFX9, Format: core1_0.FormatD32SignedFloat, Width: 256, Levels: 1, Layers: 1,
		UseHTile: true,
	},
	"MipsWithoutMipSupport": {
		Generation: hwinfo.GFX9, Format: core1_0.FormatD32SignedFloat, Width: 256, Levels: 4, Layers: 1,
	},
	"MipsWithMipSupport": {
		Generation: hwinfo.GFX10_3, Format: core1_0.FormatD32SignedFloat, Width: 256, Levels: 4, Layers: 1,
		UseHTile: true,
	},
	"MipmappedArray": {
		Generation: hwinfo.GFX10_3, Format: core1_0.FormatD32SignedFloat, Width: 256, Levels: 4, Layers: 2,
	},
	"StencilMipsOnBrokenGeneration": {
		Generation: hwinfo.GFX10, Format: core1_0.FormatD32SignedFloatS8UnsignedInt, Width: 256, Levels: 4, Layers: 1,
	},
	"StencilMipsOnFixedGeneration": {
		Generation: hwinfo.GFX10_3, Format: core1_0.FormatD32SignedFloatS8UnsignedInt, Width: 256, Levels: 4, Layers: 1,
		UseHTile: true,
	},
	"TooSmall": {
		Generation: hwinfo.GFX10_3, Format: core1_0.FormatD32SignedFloat, Width: 4, Levels: 1, Layers: 1,
	},
	"Shareable": {
		Generation: hwinfo.GFX10_3, Format: core1_0.FormatD32SignedFloat, Width: 256, Levels: 1, Layers: 1,
		Shareable: true,
	},
}

func TestUseHTile(t *testing.T) {
	for testName, testCase := range useHTileTestCases {
		t.Run(testName, func(t *testing.T) {
			rules := layout.NewRules(hwinfo.NewInfo(testCase.Generation))

			desc := image2D(testCase.Format, testCase.Width, testCase.Width, core1_0.ImageUsageDepthStencilAttachment)
			desc.MipLevels = testCase.Levels
			desc.ArrayLayers = testCase.Layers
			if testCase.Shareable {
				desc.ExternalHandleTypes = 1
			}

			require.Equal(t, testCase.UseHTile, rules.UseHTile(desc))
		})
	}
}

var chooseTilingTestCases = map[string]struct {
	Generation hwinfo.Generation
	Desc       func() *layout.ImageDescriptor
	Mode       surface.Mode
}{
	"Optimal": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(256, 256) },
		Mode:       surface.Mode2D,
	},
	"Linear": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(256, 256)
			desc.Tiling = core1_0.ImageTilingLinear
			return desc
		},
		Mode: surface.ModeLinearAligned,
	},
	"VideoDecode": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			return image2D(formats.FormatG8B8R82Plane420UNorm, 256, 256, layout.ImageUsageVideoDecodeDst)
		},
		Mode: surface.ModeLinearAligned,
	},
	"Multisampled": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(256, 256)
			desc.Samples = core1_0.Samples4
			return desc
		},
		Mode: surface.Mode2D,
	},
}

func TestChooseTiling(t *testing.T) {
	for testName, testCase := range chooseTilingTestCases {
		t.Run(testName, func(t *testing.T) {
			rules := layout.NewRules(hwinfo.NewInfo(testCase.Generation))
			require.Equal(t, testCase.Mode, rules.ChooseTiling(testCase.Desc()))
		})
	}
}

func TestUseFastClear(t *testing.T) {
	rules := layout.NewRules(hwinfo.NewInfo(hwinfo.GFX10_3))

	desc := colorTarget(512, 512)
	require.True(t, rules.UseFastClearEarly(desc))
	require.True(t, rules.UseFastClear(desc, false))

	desc.SharingMode = core1_0.SharingModeConcurrent
	desc.QueueFamilies = []hwinfo.QueueFamily{hwinfo.QueueGeneral, hwinfo.QueueCompute}
	require.False(t, rules.UseFastClear(desc, false))
	require.True(t, rules.UseFastClear(desc, true))

	small := colorTarget(511, 512)
	require.False(t, rules.UseFastClearEarly(small))

	small.Samples = core1_0.Samples2
	require.True(t, rules.UseFastClearEarly(small))

	sampledOnly := image2D(core1_0.FormatR8G8B8A8UnsignedNormalized, 1024, 1024, core1_0.ImageUsageSampled)
	require.False(t, rules.UseFastClearEarly(sampledOnly))
}

func TestUseTCCompatHTile(t *testing.T) {
	desc := image2D(core1_0.FormatD32SignedFloat, 256, 256, core1_0.ImageUsageDepthStencilAttachment|core1_0.ImageUsageSampled)

	require.True(t, layout.NewRules(hwinfo.NewInfo(hwinfo.GFX10_3)).UseTCCompatHTile(desc))

	attachmentOnly := image2D(core1_0.FormatD32SignedFloat, 256, 256, core1_0.ImageUsageDepthStencilAttachment)
	require.False(t, layout.NewRules(hwinfo.NewInfo(hwinfo.GFX10_3)).UseTCCompatHTile(attachmentOnly))

	// Generations with limited support only take single-layer images of a few depth formats
	legacy := layout.NewRules(hwinfo.NewInfo(hwinfo.GFX8))
	desc.ArrayLayers = 2
	require.False(t, legacy.UseTCCompatHTile(desc))

	x8d24 := image2D(formats.FormatX8D24UNormPack32, 256, 256, core1_0.ImageUsageDepthStencilAttachment|core1_0.ImageUsageSampled)
	require.False(t, legacy.UseTCCompatHTile(x8d24))
}
