package surface

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/vkngwrapper/imagelayout/hwinfo"
)

// SwizzleMode is the GFX9+ addressing pattern of a tiled surface
type SwizzleMode uint8

const (
	SwizzleLinear SwizzleMode = 0
	Swizzle4KBS   SwizzleMode = 5
	Swizzle64KBS  SwizzleMode = 9
	Swizzle64KBD  SwizzleMode = 10
	Swizzle64KBZX SwizzleMode = 24
	Swizzle64KBSX SwizzleMode = 25
	Swizzle64KBDX SwizzleMode = 26
	Swizzle64KBRX SwizzleMode = 27
)

var swizzleModeMapping = map[SwizzleMode]string{
	SwizzleLinear: "Linear",
	Swizzle4KBS:   "4KB_S",
	Swizzle64KBS:  "64KB_S",
	Swizzle64KBD:  "64KB_D",
	Swizzle64KBZX: "64KB_Z_X",
	Swizzle64KBSX: "64KB_S_X",
	Swizzle64KBDX: "64KB_D_X",
	Swizzle64KBRX: "64KB_R_X",
}

func (m SwizzleMode) String() string {
	return swizzleModeMapping[m]
}

// IsXOR returns true for swizzle modes whose address bits can be XORed with a per-surface
// swizzle to spread surfaces across pipes and banks
func (m SwizzleMode) IsXOR() bool {
	return m == Swizzle64KBZX || m == Swizzle64KBSX || m == Swizzle64KBDX || m == Swizzle64KBRX
}

// BlockBytes returns the size of one swizzle block
func (m SwizzleMode) BlockBytes() uint64 {
	switch m {
	case SwizzleLinear:
		return 256
	case Swizzle4KBS:
		return 4096
	default:
		return 65536
	}
}

// Layout is the generation-specific part of a surface. It is either *LegacyLayout or *GFX9Layout.
type Layout interface {
	Kind() hwinfo.SurfaceLayoutKind
}

// LegacyLevel is one mip level of a GFX6-GFX8 surface
type LegacyLevel struct {
	// Offset is the byte offset of the level from the start of the binding
	Offset uint64
	// SliceSize is the size of one layer (or one depth slice) of the level in bytes
	SliceSize uint64
	// BlockCountX is the unpadded width of the level in elements
	BlockCountX int
	// Pitch is the padded width of the level in elements
	Pitch int
	// Height is the padded height of the level in elements
	Height int
	Mode   Mode

	// DCCOffset is the offset of the level's DCC from the start of the DCC surface
	DCCOffset uint64
	// DCCFastClearSize is the number of DCC bytes a fast clear of the level writes
	DCCFastClearSize uint64
}

// LegacyLayout is the per-level tiling table of a GFX6-GFX8 surface
type LegacyLayout struct {
	Levels        []LegacyLevel
	StencilLevels []LegacyLevel

	PipeConfig      uint32
	BankWidth       uint32
	BankHeight      uint32
	MacroTileAspect uint32
	TileSplit       uint32
	NumBanks        uint32
}

func (l *LegacyLayout) Kind() hwinfo.SurfaceLayoutKind { return hwinfo.SurfaceLayoutLegacy }

// MetaParams describe how compression metadata is addressed on GFX9+
type MetaParams struct {
	PipeAligned bool
	RBAligned   bool

	Independent64B  bool
	Independent128B bool
	// MaxCompressedBlockSize is 64, 128, or 256
	MaxCompressedBlockSize int
}

// GFX9Layout is the swizzle-mode layout of a GFX9+ surface. Layers are laid out one after another,
// each holding the whole mip chain.
type GFX9Layout struct {
	SwizzleMode SwizzleMode
	// SurfOffset is the byte offset of the surface from the start of the binding
	SurfOffset uint64
	// SurfPitch is the padded width of level 0 in elements
	SurfPitch int
	// SurfHeight is the padded height of level 0 in elements
	SurfHeight int
	// SurfSliceSize is the size of one layer, including every level, in bytes
	SurfSliceSize uint64
	EPitch        int

	// LevelOffsets are the offsets of each level within a layer
	LevelOffsets []uint64
	// LevelPitches are the padded widths of each level in elements
	LevelPitches []int

	BaseMipWidth  int
	BaseMipHeight int

	StencilOffset      uint64
	StencilSwizzleMode SwizzleMode

	DCC         MetaParams
	DCCPitchMax int
	HTile       MetaParams

	FMaskSwizzleMode SwizzleMode
	FMaskEPitch      int
}

func (l *GFX9Layout) Kind() hwinfo.SurfaceLayoutKind { return hwinfo.SurfaceLayoutGFX9 }

// Surface is the tiling oracle's description of one plane of an image. Offsets of sub-surfaces
// are relative to the start of the binding once OverrideOffsetStride has been applied.
type Surface struct {
	Flags    Flags
	Modifier Modifier

	BlockWidth      int
	BlockHeight     int
	BytesPerElement int

	IsLinear    bool
	HasStencil  bool
	TileSwizzle uint32

	SurfSize      uint64
	SurfAlignment uint64
	TotalSize     uint64
	Alignment     uint64

	FMaskOffset    uint64
	FMaskSize      uint64
	FMaskAlignment uint64

	CMaskOffset    uint64
	CMaskSize      uint64
	CMaskAlignment uint64

	// MetaOffset/MetaSize describe DCC for colour surfaces and HTILE for depth surfaces
	MetaOffset    uint64
	MetaSize      uint64
	MetaAlignment uint64

	DisplayDCCOffset uint64
	DisplayDCCSize   uint64

	Layout Layout
}

// NewSurface prepares a Surface for Calculator.Init. The surface uses no format modifier until
// one is assigned.
func NewSurface(flags Flags, blockWidth, blockHeight, bytesPerElement int) *Surface {
	return &Surface{
		Flags:           flags,
		Modifier:        ModifierInvalid,
		BlockWidth:      blockWidth,
		BlockHeight:     blockHeight,
		BytesPerElement: bytesPerElement,
	}
}

// HasDCC returns true if the surface carries lossless colour compression
func (s *Surface) HasDCC() bool {
	return !s.Flags.ZBuffer && s.MetaSize > 0
}

// HasHTile returns true if the surface carries hierarchical depth metadata
func (s *Surface) HasHTile() bool {
	return s.Flags.ZBuffer && s.MetaSize > 0
}

// HasFMask returns true if the surface carries multisample metadata
func (s *Surface) HasFMask() bool {
	return s.FMaskSize > 0
}

// HasCMask returns true if the surface carries fast-clear metadata that has been placed
func (s *Surface) HasCMask() bool {
	return s.CMaskOffset > 0 && s.CMaskSize > 0
}

// BaseOffset returns the byte offset of level 0, layer 0 of the surface
func (s *Surface) BaseOffset() uint64 {
	switch layout := s.Layout.(type) {
	case *GFX9Layout:
		return layout.SurfOffset
	case *LegacyLayout:
		if len(layout.Levels) > 0 {
			return layout.Levels[0].Offset
		}
	}
	return 0
}

type subRegion struct {
	name   string
	offset uint64
	size   uint64
}

func (s *Surface) subRegions() []subRegion {
	regions := []subRegion{{"surface", s.BaseOffset(), s.SurfSize}}
	if s.FMaskSize > 0 {
		regions = append(regions, subRegion{"fmask", s.FMaskOffset, s.FMaskSize})
	}
	if s.HasCMask() {
		regions = append(regions, subRegion{"cmask", s.CMaskOffset, s.CMaskSize})
	}
	if s.MetaSize > 0 {
		regions = append(regions, subRegion{"meta", s.MetaOffset, s.MetaSize})
	}
	if s.DisplayDCCSize > 0 {
		regions = append(regions, subRegion{"display dcc", s.DisplayDCCOffset, s.DisplayDCCSize})
	}
	return regions
}

// Validate checks that the sub-surfaces do not overlap and lie within TotalSize bytes of the
// surface base
func (s *Surface) Validate() error {
	if s.Layout == nil {
		return errors.New("surface has no layout")
	}

	regions := s.subRegions()
	base := s.BaseOffset()
	for i, region := range regions {
		if region.offset < base || region.offset+region.size > base+s.TotalSize {
			return errors.Errorf("%s [%d, %d) lies outside the surface [%d, %d)", region.name, region.offset, region.offset+region.size, base, base+s.TotalSize)
		}

		for _, other := range regions[i+1:] {
			if region.offset < other.offset+other.size && other.offset < region.offset+region.size {
				return errors.Errorf("%s [%d, %d) overlaps %s [%d, %d)", region.name, region.offset, region.offset+region.size, other.name, other.offset, other.offset+other.size)
			}
		}
	}

	return nil
}

// Config is the geometry of a plane handed to the tiling oracle
type Config struct {
	Width     int
	Height    int
	Depth     int
	ArraySize int
	Levels    int
	Samples   int
	// StorageSamples is the number of samples stored per pixel, which differs from Samples for
	// EQAA surfaces
	StorageSamples int
	IsCube         bool

	// SurfIndex is the device-wide counter consulted when choosing a per-surface tile swizzle.
	// A nil SurfIndex means the surface gets no swizzle.
	SurfIndex *atomic.Uint32
}

// AuxKind names one of the metadata sub-surfaces of a Surface
type AuxKind int

const (
	AuxFMask AuxKind = iota
	AuxCMask
	AuxDCC
	AuxHTile
	AuxDisplayDCC
)

var auxKindMapping = map[AuxKind]string{
	AuxFMask:      "FMask",
	AuxCMask:      "CMask",
	AuxDCC:        "DCC",
	AuxHTile:      "HTile",
	AuxDisplayDCC: "DisplayDCC",
}

func (k AuxKind) String() string {
	return auxKindMapping[k]
}

// AuxGeometry is the placement of one metadata sub-surface
type AuxGeometry struct {
	Offset    uint64
	Size      uint64
	Alignment uint64
}

// Query names a capability of a computed surface
type Query int

const (
	// QueryDCCImageStores asks whether shader image stores keep DCC compressed
	QueryDCCImageStores Query = iota
	// QueryDCCRetile asks whether the surface has a separate displayable DCC plane
	QueryDCCRetile
	// QueryPipeAlignedMetadata asks whether every metadata sub-surface is pipe and RB aligned
	QueryPipeAlignedMetadata
)

var queryMapping = map[Query]string{
	QueryDCCImageStores:      "DCCImageStores",
	QueryDCCRetile:           "DCCRetile",
	QueryPipeAlignedMetadata: "PipeAlignedMetadata",
}

func (q Query) String() string {
	return queryMapping[q]
}
