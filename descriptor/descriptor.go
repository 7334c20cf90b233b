package descriptor

import "github.com/vkngwrapper/imagelayout/hwinfo"

// Type is the resource type field of an image descriptor
type Type uint8

const (
	Type1D          Type = 8
	Type2D          Type = 9
	Type3D          Type = 10
	TypeCube        Type = 11
	Type1DArray     Type = 12
	Type2DArray     Type = 13
	Type2DMSAA      Type = 14
	Type2DMSAAArray Type = 15
)

var typeMapping = map[Type]string{
	Type1D:          "1D",
	Type2D:          "2D",
	Type3D:          "3D",
	TypeCube:        "Cube",
	Type1DArray:     "1DArray",
	Type2DArray:     "2DArray",
	Type2DMSAA:      "2DMSAA",
	Type2DMSAAArray: "2DMSAAArray",
}

func (t Type) String() string {
	return typeMapping[t]
}

// IsArray returns true for types whose Depth field holds the last array layer
func (t Type) IsArray() bool {
	return t == Type1DArray || t == Type2DArray || t == Type2DMSAAArray || t == TypeCube
}

// Sel is the destination select of one descriptor channel
type Sel uint8

const (
	Sel0 Sel = 0
	Sel1 Sel = 1
	SelX Sel = 4
	SelY Sel = 5
	SelZ Sel = 6
	SelW Sel = 7
)

// BorderColorSwizzle tells the sampler how to reorder the border colour for the format
type BorderColorSwizzle uint8

const (
	BorderColorSwizzleXYZW BorderColorSwizzle = iota
	BorderColorSwizzleXWYZ
	BorderColorSwizzleWZYX
	BorderColorSwizzleWXYZ
	BorderColorSwizzleZYXW
	BorderColorSwizzleYXWZ
)

// Texture holds the fields of an 8-dword image descriptor by name. It is turned into words only
// by Encode.
type Texture struct {
	// BaseAddress is the GPU virtual address of level 0, layer 0. It must be 256-byte aligned.
	BaseAddress uint64
	// TileSwizzle is XORed into the address bits above 256 bytes
	TileSwizzle uint32

	// Format is the unified format id of GFX10+ descriptors
	Format uint32
	// DataFormat and NumFormat are the format of legacy descriptors
	DataFormat uint32
	NumFormat  uint32

	// SwizzleMode is the GFX9+ swizzle mode. On older generations it holds the tiling index.
	SwizzleMode uint32

	Width  int
	Height int
	// Depth is the last depth slice of a 3D view, or the last layer of an array view. On GFX10.3+
	// 2D views it holds pitch-1 when the surface uses a custom linear pitch.
	Depth int
	// Pitch is the row pitch in elements of legacy descriptors
	Pitch int

	BaseArray int
	LastArray int
	BaseLevel int
	LastLevel int
	// ArrayPitch is log2 of the distance between layers of a GFX10+ 3D-as-2D-array view
	ArrayPitch int
	MaxMip     int
	MinLOD     uint32

	DstSel    [4]Sel
	Type      Type
	BCSwizzle BorderColorSwizzle
	PerfMod   uint32
	// ResourceLevel must be set on GFX10 descriptors
	ResourceLevel bool

	CompressionEnable      bool
	WriteCompressEnable    bool
	MetaAddress            uint64
	MetaPipeAligned        bool
	MetaRBAligned          bool
	MaxCompressedBlockSize uint32
	MaxUncompressedBlock   uint32
	AlphaIsOnMSB           bool
	Iterate256             bool
}

type bitField struct {
	word  int
	shift uint
	width uint
}

func (f bitField) mask() uint32 {
	return uint32((uint64(1) << f.width) - 1)
}

func (f bitField) set(words *[8]uint32, value uint32) {
	words[f.word] |= (value & f.mask()) << f.shift
}

func (f bitField) setBool(words *[8]uint32, value bool) {
	if value {
		f.set(words, 1)
	}
}

func (f bitField) get(words []uint32) uint32 {
	return (words[f.word] >> f.shift) & f.mask()
}

var (
	fieldBaseAddressLo = bitField{0, 0, 32}
	fieldBaseAddressHi = bitField{1, 0, 8}
	fieldMinLOD        = bitField{1, 8, 12}
	fieldDstSelX       = bitField{3, 0, 3}
	fieldDstSelY       = bitField{3, 3, 3}
	fieldDstSelZ       = bitField{3, 6, 3}
	fieldDstSelW       = bitField{3, 9, 3}
	fieldBaseLevel     = bitField{3, 12, 4}
	fieldLastLevel     = bitField{3, 16, 4}
	fieldSwizzleMode   = bitField{3, 20, 5}
	fieldType          = bitField{3, 28, 4}
	fieldDepth         = bitField{4, 0, 13}
)

var (
	gfx10Format            = bitField{1, 20, 9}
	gfx10WidthLo           = bitField{1, 30, 2}
	gfx10WidthHi           = bitField{2, 0, 14}
	gfx10Height            = bitField{2, 14, 14}
	gfx10ResourceLevel     = bitField{2, 31, 1}
	gfx10BCSwizzle         = bitField{3, 25, 3}
	gfx10BaseArray         = bitField{4, 16, 13}
	gfx10ArrayPitch        = bitField{5, 0, 4}
	gfx10MaxMip            = bitField{5, 4, 4}
	gfx10PerfMod           = bitField{5, 20, 3}
	gfx10Iterate256        = bitField{6, 10, 1}
	gfx10MaxUncompressed   = bitField{6, 13, 2}
	gfx10MaxCompressed     = bitField{6, 15, 2}
	gfx10MetaPipeAligned   = bitField{6, 18, 1}
	gfx10WriteCompress     = bitField{6, 19, 1}
	gfx10CompressionEnable = bitField{6, 20, 1}
	gfx10AlphaIsOnMSB      = bitField{6, 21, 1}
	gfx10MetaAddressLo     = bitField{6, 24, 8}
	gfx10MetaAddressHi     = bitField{7, 0, 32}
)

var (
	legacyDataFormat        = bitField{1, 20, 6}
	legacyNumFormat         = bitField{1, 26, 4}
	legacyWidth             = bitField{2, 0, 14}
	legacyHeight            = bitField{2, 14, 14}
	legacyPerfMod           = bitField{2, 28, 3}
	legacyPitch             = bitField{4, 13, 14}
	legacyBCSwizzle         = bitField{4, 29, 3}
	legacyBaseArray         = bitField{5, 0, 13}
	legacyLastArray         = bitField{5, 13, 13}
	legacyMetaPipeAligned   = bitField{5, 26, 1}
	legacyMetaRBAligned     = bitField{5, 27, 1}
	legacyMaxMip            = bitField{5, 28, 4}
	legacyCompressionEnable = bitField{6, 21, 1}
	legacyAlphaIsOnMSB      = bitField{6, 22, 1}
	legacyMetaAddress       = bitField{7, 0, 32}
)

func minusOne(value int) uint32 {
	if value < 1 {
		return 0
	}
	return uint32(value - 1)
}

// Encode assembles the descriptor words for a descriptor register layout
func (t *Texture) Encode(kind hwinfo.DescriptorLayoutKind) [8]uint32 {
	var words [8]uint32

	va := t.BaseAddress >> 8
	fieldBaseAddressLo.set(&words, uint32(va)|t.TileSwizzle)
	fieldBaseAddressHi.set(&words, uint32(va>>32))
	fieldMinLOD.set(&words, t.MinLOD)

	fieldDstSelX.set(&words, uint32(t.DstSel[0]))
	fieldDstSelY.set(&words, uint32(t.DstSel[1]))
	fieldDstSelZ.set(&words, uint32(t.DstSel[2]))
	fieldDstSelW.set(&words, uint32(t.DstSel[3]))
	fieldBaseLevel.set(&words, uint32(t.BaseLevel))
	fieldLastLevel.set(&words, uint32(t.LastLevel))
	fieldSwizzleMode.set(&words, t.SwizzleMode)
	fieldType.set(&words, uint32(t.Type))
	fieldDepth.set(&words, uint32(t.Depth))

	width := minusOne(t.Width)

	if kind == hwinfo.DescriptorLayoutGFX10 {
		gfx10Format.set(&words, t.Format)
		gfx10WidthLo.set(&words, width)
		gfx10WidthHi.set(&words, width>>2)
		gfx10Height.set(&words, minusOne(t.Height))
		gfx10ResourceLevel.setBool(&words, t.ResourceLevel)
		gfx10BCSwizzle.set(&words, uint32(t.BCSwizzle))
		gfx10BaseArray.set(&words, uint32(t.BaseArray))
		gfx10ArrayPitch.set(&words, uint32(t.ArrayPitch))
		gfx10MaxMip.set(&words, uint32(t.MaxMip))
		gfx10PerfMod.set(&words, t.PerfMod)
		gfx10Iterate256.setBool(&words, t.Iterate256)
		gfx10MaxUncompressed.set(&words, t.MaxUncompressedBlock)
		gfx10MaxCompressed.set(&words, t.MaxCompressedBlockSize)
		gfx10MetaPipeAligned.setBool(&words, t.MetaPipeAligned)
		gfx10WriteCompress.setBool(&words, t.WriteCompressEnable)
		gfx10CompressionEnable.setBool(&words, t.CompressionEnable)
		gfx10AlphaIsOnMSB.setBool(&words, t.AlphaIsOnMSB)
		if t.CompressionEnable {
			gfx10MetaAddressLo.set(&words, uint32(t.MetaAddress>>8))
			gfx10MetaAddressHi.set(&words, uint32(t.MetaAddress>>16))
		}
		return words
	}

	legacyDataFormat.set(&words, t.DataFormat)
	legacyNumFormat.set(&words, t.NumFormat)
	legacyWidth.set(&words, width)
	legacyHeight.set(&words, minusOne(t.Height))
	legacyPerfMod.set(&words, t.PerfMod)
	legacyPitch.set(&words, minusOne(t.Pitch))
	legacyBCSwizzle.set(&words, uint32(t.BCSwizzle))
	legacyBaseArray.set(&words, uint32(t.BaseArray))
	legacyLastArray.set(&words, uint32(t.LastArray))
	legacyMetaPipeAligned.setBool(&words, t.MetaPipeAligned)
	legacyMetaRBAligned.setBool(&words, t.MetaRBAligned)
	legacyMaxMip.set(&words, uint32(t.MaxMip))
	legacyCompressionEnable.setBool(&words, t.CompressionEnable)
	legacyAlphaIsOnMSB.setBool(&words, t.AlphaIsOnMSB)
	if t.CompressionEnable {
		legacyMetaAddress.set(&words, uint32(t.MetaAddress>>8))
	}

	return words
}

// MetaAddress returns the compression metadata address stored in encoded descriptor words, or
// 0 if the descriptor has none. desc must hold at least 8 words.
func MetaAddress(kind hwinfo.DescriptorLayoutKind, desc []uint32) uint64 {
	if kind == hwinfo.DescriptorLayoutGFX10 {
		return uint64(gfx10MetaAddressHi.get(desc))<<16 | uint64(gfx10MetaAddressLo.get(desc))<<8
	}
	return uint64(legacyMetaAddress.get(desc)) << 8
}

// Dimensions returns the level 0 width and height stored in encoded descriptor words
func Dimensions(kind hwinfo.DescriptorLayoutKind, desc []uint32) (width, height int) {
	if kind == hwinfo.DescriptorLayoutGFX10 {
		width = int(gfx10WidthLo.get(desc)+gfx10WidthHi.get(desc)<<2) + 1
		height = int(gfx10Height.get(desc)) + 1
		return width, height
	}
	return int(legacyWidth.get(desc)) + 1, int(legacyHeight.get(desc)) + 1
}

// SwizzleMode returns the swizzle mode, or legacy tiling index, stored in encoded descriptor words
func SwizzleMode(desc []uint32) uint32 {
	return fieldSwizzleMode.get(desc)
}

// FMASK formats of GFX10+ descriptors
const (
	GFX10FormatFMask8S2F2  uint32 = 0x9e
	GFX10FormatFMask8S4F4  uint32 = 0xa2
	GFX10FormatFMask32S8F8 uint32 = 0xa8
)

// FMASK formats of legacy descriptors. GFX9 uses DataFormatFMask with a per-sample-count numeric
// format; older generations encode the sample count in the data format.
const (
	DataFormatFMask       uint32 = 0x2c
	DataFormatFMask8S2F2  uint32 = 0x2f
	DataFormatFMask8S4F4  uint32 = 0x31
	DataFormatFMask32S8F8 uint32 = 0x36
	NumFormatUInt         uint32 = 4
	NumFormatFMask8x2x2   uint32 = 3
	NumFormatFMask8x4x4   uint32 = 5
	NumFormatFMask32x8x8  uint32 = 10
)
