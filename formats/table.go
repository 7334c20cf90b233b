package formats

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// Legacy descriptor data formats
const (
	dataFormatInvalid  uint32 = 0
	dataFormat8        uint32 = 1
	dataFormat16       uint32 = 2
	dataFormat8_8      uint32 = 3
	dataFormat32       uint32 = 4
	dataFormat16_16    uint32 = 5
	dataFormat8_8_8_8  uint32 = 10
	dataFormat32_32    uint32 = 11
	dataFormat16x4     uint32 = 12
	dataFormat32x4     uint32 = 14
	dataFormat1_5_5_5  uint32 = 19
	dataFormat8_24     uint32 = 20
	dataFormatX24_8_32 uint32 = 29
	dataFormatGB_GR    uint32 = 32
	dataFormatBC1      uint32 = 35
	dataFormatBC3      uint32 = 37
	dataFormatBC7      uint32 = 41
	dataFormatETC2RGB  uint32 = 49
	dataFormatETC2RGBA uint32 = 51
	dataFormatETC2R    uint32 = 53
)

// Legacy descriptor numeric formats
const (
	numFormatUNorm uint32 = 0
	numFormatSNorm uint32 = 1
	numFormatUInt  uint32 = 4
	numFormatSInt  uint32 = 5
	numFormatFloat uint32 = 7
	numFormatSRGB  uint32 = 9
)

var table = swiss.NewMap[core1_0.Format, *Description](64)

func register(desc Description) {
	if desc.BlockWidth == 0 {
		desc.BlockWidth = 1
	}
	if desc.BlockHeight == 0 {
		desc.BlockHeight = 1
	}
	d := desc
	table.Put(desc.Format, &d)
}

func color(format core1_0.Format, name string, channelBits [4]int, numeric NumericKind, swizzle [4]Swizzle, swap ColorSwap, hw HWFormat) Description {
	var numChannels, blockBits int
	for _, bits := range channelBits {
		if bits > 0 {
			numChannels++
			blockBits += bits
		}
	}

	return Description{
		Format:      format,
		Name:        name,
		Layout:      LayoutPlain,
		BlockBits:   blockBits,
		NumChannels: numChannels,
		ChannelBits: channelBits,
		Numeric:     numeric,
		Swizzle:     swizzle,
		ColorSwap:   swap,
		HW:          hw,
		Renderable:  true,
	}
}

func compressed(format core1_0.Format, name string, layout Layout, blockBits int, numChannels int, swizzle [4]Swizzle, hw HWFormat) Description {
	return Description{
		Format:      format,
		Name:        name,
		Layout:      layout,
		BlockWidth:  4,
		BlockHeight: 4,
		BlockBits:   blockBits,
		NumChannels: numChannels,
		Numeric:     NumericUNorm,
		Swizzle:     swizzle,
		HW:          hw,
	}
}

func depthStencil(format core1_0.Format, name string, depthBits, stencilBits, blockBits int, hw HWFormat) Description {
	numChannels := 0
	if depthBits > 0 {
		numChannels++
	}
	if stencilBits > 0 {
		numChannels++
	}

	return Description{
		Format:      format,
		Name:        name,
		Layout:      LayoutPlain,
		BlockBits:   blockBits,
		NumChannels: numChannels,
		ChannelBits: [4]int{depthBits, stencilBits},
		Numeric:     NumericDepthStencil,
		Swizzle:     swizzleX001,
		DepthBits:   depthBits,
		StencilBits: stencilBits,
		HW:          hw,
		Renderable:  true,
	}
}

func init() {
	register(color(core1_0.FormatR8UnsignedNormalized, "R8_UNORM", [4]int{8}, NumericUNorm, swizzleR001, ColorSwapStandard,
		HWFormat{GFX10Format: 1, DataFormat: dataFormat8, NumFormat: numFormatUNorm}))
	register(color(core1_0.FormatR8G8UnsignedNormalized, "R8G8_UNORM", [4]int{8, 8}, NumericUNorm, swizzleRG01, ColorSwapStandard,
		HWFormat{GFX10Format: 21, DataFormat: dataFormat8_8, NumFormat: numFormatUNorm}))
	register(color(core1_0.FormatR8G8B8UnsignedNormalized, "R8G8B8_UNORM", [4]int{8, 8, 8}, NumericUNorm, swizzleRGB1, ColorSwapStandard,
		HWFormat{}))
	register(color(core1_0.FormatR8G8B8A8UnsignedNormalized, "R8G8B8A8_UNORM", [4]int{8, 8, 8, 8}, NumericUNorm, swizzleRGBA, ColorSwapStandard,
		HWFormat{GFX10Format: 56, DataFormat: dataFormat8_8_8_8, NumFormat: numFormatUNorm}))
	register(color(FormatR8G8B8A8SNorm, "R8G8B8A8_SNORM", [4]int{8, 8, 8, 8}, NumericSNorm, swizzleRGBA, ColorSwapStandard,
		HWFormat{GFX10Format: 57, DataFormat: dataFormat8_8_8_8, NumFormat: numFormatSNorm}))
	register(color(FormatR8G8B8A8UInt, "R8G8B8A8_UINT", [4]int{8, 8, 8, 8}, NumericUInt, swizzleRGBA, ColorSwapStandard,
		HWFormat{GFX10Format: 60, DataFormat: dataFormat8_8_8_8, NumFormat: numFormatUInt}))
	register(color(FormatR8G8B8A8SInt, "R8G8B8A8_SINT", [4]int{8, 8, 8, 8}, NumericSInt, swizzleRGBA, ColorSwapStandard,
		HWFormat{GFX10Format: 61, DataFormat: dataFormat8_8_8_8, NumFormat: numFormatSInt}))
	register(color(FormatR8G8B8A8SRGB, "R8G8B8A8_SRGB", [4]int{8, 8, 8, 8}, NumericSRGB, swizzleRGBA, ColorSwapStandard,
		HWFormat{GFX10Format: 62, DataFormat: dataFormat8_8_8_8, NumFormat: numFormatSRGB}))
	register(color(core1_0.FormatB8G8R8A8UnsignedNormalized, "B8G8R8A8_UNORM", [4]int{8, 8, 8, 8}, NumericUNorm, swizzleBGRA, ColorSwapAlternate,
		HWFormat{GFX10Format: 56, DataFormat: dataFormat8_8_8_8, NumFormat: numFormatUNorm}))
	register(color(core1_0.FormatA1R5G5B5UnsignedNormalizedPacked, "A1R5G5B5_UNORM_PACK16", [4]int{5, 5, 5, 1}, NumericUNorm, swizzleBGRA, ColorSwapAlternateReversed,
		HWFormat{GFX10Format: 46, DataFormat: dataFormat1_5_5_5, NumFormat: numFormatUNorm}))
	register(color(core1_0.FormatR16UnsignedNormalized, "R16_UNORM", [4]int{16}, NumericUNorm, swizzleR001, ColorSwapStandard,
		HWFormat{GFX10Format: 14, DataFormat: dataFormat16, NumFormat: numFormatUNorm}))
	register(color(FormatR16SFloat, "R16_SFLOAT", [4]int{16}, NumericFloat, swizzleR001, ColorSwapStandard,
		HWFormat{GFX10Format: 20, DataFormat: dataFormat16, NumFormat: numFormatFloat}))
	register(color(core1_0.FormatR16G16UnsignedNormalized, "R16G16_UNORM", [4]int{16, 16}, NumericUNorm, swizzleRG01, ColorSwapStandard,
		HWFormat{GFX10Format: 26, DataFormat: dataFormat16_16, NumFormat: numFormatUNorm}))
	register(color(core1_0.FormatR16G16B16A16SignedFloat, "R16G16B16A16_SFLOAT", [4]int{16, 16, 16, 16}, NumericFloat, swizzleRGBA, ColorSwapStandard,
		HWFormat{GFX10Format: 71, DataFormat: dataFormat16x4, NumFormat: numFormatFloat}))
	register(color(core1_0.FormatR32UnsignedInt, "R32_UINT", [4]int{32}, NumericUInt, swizzleR001, ColorSwapStandard,
		HWFormat{GFX10Format: 23, DataFormat: dataFormat32, NumFormat: numFormatUInt}))
	register(color(core1_0.FormatR32SignedInt, "R32_SINT", [4]int{32}, NumericSInt, swizzleR001, ColorSwapStandard,
		HWFormat{GFX10Format: 24, DataFormat: dataFormat32, NumFormat: numFormatSInt}))
	register(color(core1_0.FormatR32SignedFloat, "R32_SFLOAT", [4]int{32}, NumericFloat, swizzleR001, ColorSwapStandard,
		HWFormat{GFX10Format: 25, DataFormat: dataFormat32, NumFormat: numFormatFloat}))
	register(color(FormatR32G32UInt, "R32G32_UINT", [4]int{32, 32}, NumericUInt, swizzleRG01, ColorSwapStandard,
		HWFormat{GFX10Format: 63, DataFormat: dataFormat32_32, NumFormat: numFormatUInt}))
	register(color(core1_0.FormatR32G32B32A32SignedFloat, "R32G32B32A32_SFLOAT", [4]int{32, 32, 32, 32}, NumericFloat, swizzleRGBA, ColorSwapStandard,
		HWFormat{GFX10Format: 77, DataFormat: dataFormat32x4, NumFormat: numFormatFloat}))
	register(color(core1_0.FormatR64UnsignedInt, "R64_UINT", [4]int{64}, NumericUInt, swizzleR001, ColorSwapStandard,
		HWFormat{GFX10Format: 63, DataFormat: dataFormat32_32, NumFormat: numFormatUInt}))
	register(color(FormatR64SInt, "R64_SINT", [4]int{64}, NumericSInt, swizzleR001, ColorSwapStandard,
		HWFormat{GFX10Format: 64, DataFormat: dataFormat32_32, NumFormat: numFormatSInt}))

	register(depthStencil(core1_0.FormatD16UnsignedNormalized, "D16_UNORM", 16, 0, 16,
		HWFormat{GFX10Format: 14, DataFormat: dataFormat16, NumFormat: numFormatUNorm}))
	register(depthStencil(FormatX8D24UNormPack32, "X8_D24_UNORM_PACK32", 24, 0, 32,
		HWFormat{GFX10Format: 47, DataFormat: dataFormat8_24, NumFormat: numFormatUNorm}))
	register(depthStencil(core1_0.FormatD32SignedFloat, "D32_SFLOAT", 32, 0, 32,
		HWFormat{GFX10Format: 25, DataFormat: dataFormat32, NumFormat: numFormatFloat}))
	register(depthStencil(core1_0.FormatS8UnsignedInt, "S8_UINT", 0, 8, 8,
		HWFormat{GFX10Format: 5, DataFormat: dataFormat8, NumFormat: numFormatUInt}))
	register(depthStencil(FormatD16UNormS8UInt, "D16_UNORM_S8_UINT", 16, 8, 32,
		HWFormat{GFX10Format: 14, DataFormat: dataFormat16, NumFormat: numFormatUNorm}))
	register(depthStencil(core1_0.FormatD24UnsignedNormalizedS8UnsignedInt, "D24_UNORM_S8_UINT", 24, 8, 32,
		HWFormat{GFX10Format: 47, DataFormat: dataFormat8_24, NumFormat: numFormatUNorm}))
	register(depthStencil(core1_0.FormatD32SignedFloatS8UnsignedInt, "D32_SFLOAT_S8_UINT", 32, 8, 64,
		HWFormat{GFX10Format: 25, DataFormat: dataFormatX24_8_32, NumFormat: numFormatFloat}))

	register(compressed(FormatBC1RGBAUNormBlock, "BC1_RGBA_UNORM_BLOCK", LayoutBC, 64, 4, swizzleRGBA,
		HWFormat{GFX10Format: 109, DataFormat: dataFormatBC1, NumFormat: numFormatUNorm}))
	register(compressed(FormatBC3UNormBlock, "BC3_UNORM_BLOCK", LayoutBC, 128, 4, swizzleRGBA,
		HWFormat{GFX10Format: 113, DataFormat: dataFormatBC3, NumFormat: numFormatUNorm}))
	register(compressed(FormatBC7UNormBlock, "BC7_UNORM_BLOCK", LayoutBC, 128, 4, swizzleRGBA,
		HWFormat{GFX10Format: 121, DataFormat: dataFormatBC7, NumFormat: numFormatUNorm}))
	register(compressed(FormatETC2R8G8B8UNormBlock, "ETC2_R8G8B8_UNORM_BLOCK", LayoutETC, 64, 3, swizzleRGB1,
		HWFormat{DataFormat: dataFormatETC2RGB, NumFormat: numFormatUNorm}))
	register(compressed(FormatETC2R8G8B8A8UNormBlock, "ETC2_R8G8B8A8_UNORM_BLOCK", LayoutETC, 128, 4, swizzleRGBA,
		HWFormat{DataFormat: dataFormatETC2RGBA, NumFormat: numFormatUNorm}))
	register(compressed(FormatEACR11UNormBlock, "EAC_R11_UNORM_BLOCK", LayoutETC, 64, 1, swizzleR001,
		HWFormat{DataFormat: dataFormatETC2R, NumFormat: numFormatUNorm}))

	register(Description{
		Format:      FormatG8B8G8R8422UNorm,
		Name:        "G8B8G8R8_422_UNORM",
		Layout:      LayoutSubsampled,
		BlockWidth:  2,
		BlockBits:   32,
		NumChannels: 4,
		ChannelBits: [4]int{8, 8, 8, 8},
		Numeric:     NumericUNorm,
		Swizzle:     swizzleRGB1,
		HW:          HWFormat{GFX10Format: 86, DataFormat: dataFormatGB_GR, NumFormat: numFormatUNorm},
	})
	register(Description{
		Format:      FormatG8B8R83Plane420UNorm,
		Name:        "G8_B8_R8_3PLANE_420_UNORM",
		Layout:      LayoutPlanar,
		BlockBits:   8,
		NumChannels: 3,
		ChannelBits: [4]int{8, 8, 8},
		Numeric:     NumericUNorm,
		Swizzle:     swizzleRGB1,
		Planes: []PlaneDescription{
			{Format: core1_0.FormatR8UnsignedNormalized, WidthDivisor: 1, HeightDivisor: 1},
			{Format: core1_0.FormatR8UnsignedNormalized, WidthDivisor: 2, HeightDivisor: 2},
			{Format: core1_0.FormatR8UnsignedNormalized, WidthDivisor: 2, HeightDivisor: 2},
		},
	})
	register(Description{
		Format:      FormatG8B8R82Plane420UNorm,
		Name:        "G8_B8R8_2PLANE_420_UNORM",
		Layout:      LayoutPlanar,
		BlockBits:   8,
		NumChannels: 3,
		ChannelBits: [4]int{8, 8, 8},
		Numeric:     NumericUNorm,
		Swizzle:     swizzleRGB1,
		Planes: []PlaneDescription{
			{Format: core1_0.FormatR8UnsignedNormalized, WidthDivisor: 1, HeightDivisor: 1},
			{Format: core1_0.FormatR8G8UnsignedNormalized, WidthDivisor: 2, HeightDivisor: 2},
		},
	})
}

// Lookup returns the description of a format. The second return value is false if the format
// is not in the table.
func Lookup(format core1_0.Format) (*Description, bool) {
	return table.Get(format)
}

// MustLookup returns the description of a format and panics if it is not in the table. Callers
// use it for formats they have already validated with Lookup.
func MustLookup(format core1_0.Format) *Description {
	desc, ok := table.Get(format)
	if !ok {
		panic(fmt.Sprintf("format %d is not supported", int(format)))
	}
	return desc
}

// Supported returns true if the format is in the table
func Supported(format core1_0.Format) bool {
	return table.Has(format)
}
