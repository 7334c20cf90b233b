package formats

import "github.com/vkngwrapper/core/v2/core1_0"

// Layout describes how texels of a format are arranged in memory
type Layout int

const (
	// LayoutPlain formats store one texel per element
	LayoutPlain Layout = iota
	// LayoutSubsampled formats share chroma between pairs of horizontally adjacent texels
	LayoutSubsampled
	// LayoutPlanar formats store each channel group in a separate plane
	LayoutPlanar
	// LayoutBC formats are desktop block-compressed formats the hardware samples natively
	LayoutBC
	// LayoutETC formats are ETC2/EAC block-compressed formats
	LayoutETC
)

var layoutMapping = map[Layout]string{
	LayoutPlain:      "Plain",
	LayoutSubsampled: "Subsampled",
	LayoutPlanar:     "Planar",
	LayoutBC:         "BC",
	LayoutETC:        "ETC",
}

func (l Layout) String() string {
	return layoutMapping[l]
}

// NumericKind is how the bits of a format's channels are interpreted
type NumericKind int

const (
	NumericUNorm NumericKind = iota
	NumericSNorm
	NumericUInt
	NumericSInt
	NumericFloat
	NumericSRGB
	NumericDepthStencil
)

var numericKindMapping = map[NumericKind]string{
	NumericUNorm:        "UNorm",
	NumericSNorm:        "SNorm",
	NumericUInt:         "UInt",
	NumericSInt:         "SInt",
	NumericFloat:        "Float",
	NumericSRGB:         "SRGB",
	NumericDepthStencil: "DepthStencil",
}

func (k NumericKind) String() string {
	return numericKindMapping[k]
}

// Swizzle selects which stored channel, or which constant, a logical RGBA channel reads
type Swizzle uint8

const (
	SwizzleX Swizzle = iota
	SwizzleY
	SwizzleZ
	SwizzleW
	Swizzle0
	Swizzle1
)

var (
	swizzleRGBA = [4]Swizzle{SwizzleX, SwizzleY, SwizzleZ, SwizzleW}
	swizzleRGB1 = [4]Swizzle{SwizzleX, SwizzleY, SwizzleZ, Swizzle1}
	swizzleRG01 = [4]Swizzle{SwizzleX, SwizzleY, Swizzle0, Swizzle1}
	swizzleR001 = [4]Swizzle{SwizzleX, Swizzle0, Swizzle0, Swizzle1}
	swizzleBGRA = [4]Swizzle{SwizzleZ, SwizzleY, SwizzleX, SwizzleW}
	swizzleX001 = swizzleR001
)

// ColorSwap is the render-backend channel order of a colour format
type ColorSwap int

const (
	ColorSwapStandard ColorSwap = iota
	ColorSwapAlternate
	ColorSwapStandardReversed
	ColorSwapAlternateReversed
)

// HWFormat holds the hardware's identifiers for a format in image descriptors
type HWFormat struct {
	// GFX10Format is the unified format id of GFX10+ descriptors
	GFX10Format uint32
	// DataFormat is the legacy descriptor data format
	DataFormat uint32
	// NumFormat is the legacy descriptor numeric format
	NumFormat uint32
}

// PlaneDescription is one plane of a multi-planar format
type PlaneDescription struct {
	Format        core1_0.Format
	WidthDivisor  int
	HeightDivisor int
}

// Description is everything the planner needs to know about a format
type Description struct {
	Format core1_0.Format
	Name   string
	Layout Layout

	BlockWidth  int
	BlockHeight int
	// BlockBits is the size of one block (one texel for uncompressed formats) in bits
	BlockBits int

	NumChannels int
	// ChannelBits is the width of each stored channel in bits
	ChannelBits [4]int
	Numeric     NumericKind
	Swizzle     [4]Swizzle
	ColorSwap   ColorSwap

	DepthBits   int
	StencilBits int

	Planes []PlaneDescription
	HW     HWFormat
	// Renderable is true when the format can be bound as a colour or depth/stencil attachment
	Renderable bool
}

// BytesPerElement returns the size of one element (a texel, or a compressed block) in bytes
func (d *Description) BytesPerElement() int {
	return d.BlockBits / 8
}

func (d *Description) HasDepth() bool {
	return d.DepthBits > 0
}

func (d *Description) HasStencil() bool {
	return d.StencilBits > 0
}

func (d *Description) IsDepthOrStencil() bool {
	return d.HasDepth() || d.HasStencil()
}

// IsCompressed returns true for block-compressed formats
func (d *Description) IsCompressed() bool {
	return d.Layout == LayoutBC || d.Layout == LayoutETC
}

func (d *Description) IsSubsampled() bool {
	return d.Layout == LayoutSubsampled
}

func (d *Description) IsMultiPlanar() bool {
	return len(d.Planes) > 1
}

func (d *Description) IsETC() bool {
	return d.Layout == LayoutETC
}

func (d *Description) IsSRGB() bool {
	return d.Numeric == NumericSRGB
}

func (d *Description) IsInteger() bool {
	return d.Numeric == NumericUInt || d.Numeric == NumericSInt
}

// PlaneCount returns the number of planes the format is stored in
func (d *Description) PlaneCount() int {
	if len(d.Planes) == 0 {
		return 1
	}
	return len(d.Planes)
}

// MaxChannelBits returns the width of the widest channel, which decides the 64-bit colour
// fast-clear limit
func (d *Description) MaxChannelBits() int {
	var maxBits int
	for _, bits := range d.ChannelBits {
		if bits > maxBits {
			maxBits = bits
		}
	}
	return maxBits
}
