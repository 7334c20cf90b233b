package surface

import "strings"

// Mode is the tiling mode requested for a surface
type Mode uint8

const (
	ModeLinearAligned Mode = iota + 1
	Mode1D
	Mode2D
)

var modeMapping = map[Mode]string{
	ModeLinearAligned: "LinearAligned",
	Mode1D:            "1D",
	Mode2D:            "2D",
}

func (m Mode) String() string {
	return modeMapping[m]
}

// Type is the dimensionality of a surface
type Type uint8

const (
	Type1D Type = iota
	Type2D
	Type3D
	TypeCube
	Type1DArray
	Type2DArray
)

var typeMapping = map[Type]string{
	Type1D:      "1D",
	Type2D:      "2D",
	Type3D:      "3D",
	TypeCube:    "Cube",
	Type1DArray: "1DArray",
	Type2DArray: "2DArray",
}

func (t Type) String() string {
	return typeMapping[t]
}

// Flags are the per-plane options the planner hands to the tiling oracle. They are kept as
// named booleans everywhere and only packed into the oracle's bit encoding by Encode.
type Flags struct {
	Type Type
	Mode Mode

	Scanout             bool
	ZBuffer             bool
	SBuffer             bool
	TCCompatibleHTile   bool
	DisableDCC          bool
	NoFMask             bool
	NoHTile             bool
	NoRenderTarget      bool
	NoStencilAdjust     bool
	ContiguousDCCLayers bool
	PRT                 bool
	VRSRate             bool
	NoTexture           bool
	Imported            bool
}

const (
	typeShift = 0
	typeMask  = 0xff
	modeShift = 8
	modeMask  = 0xff
)

// Wire bits of the oracle flag encoding
const (
	WireScanout uint64 = 1 << (16 + iota)
	WireZBuffer
	WireSBuffer
	WireTCCompatibleHTile
	WireDisableDCC
	WireNoFMask
	WireNoHTile
	WireNoRenderTarget
	WireNoStencilAdjust
	WireContiguousDCCLayers
	WirePRT
	WireVRSRate
	WireNoTexture
	WireImported
)

type flagBit struct {
	bit  uint64
	name string
	get  func(f *Flags) *bool
}

var flagBits = []flagBit{
	{WireScanout, "Scanout", func(f *Flags) *bool { return &f.Scanout }},
	{WireZBuffer, "ZBuffer", func(f *Flags) *bool { return &f.ZBuffer }},
	{WireSBuffer, "SBuffer", func(f *Flags) *bool { return &f.SBuffer }},
	{WireTCCompatibleHTile, "TCCompatibleHTile", func(f *Flags) *bool { return &f.TCCompatibleHTile }},
	{WireDisableDCC, "DisableDCC", func(f *Flags) *bool { return &f.DisableDCC }},
	{WireNoFMask, "NoFMask", func(f *Flags) *bool { return &f.NoFMask }},
	{WireNoHTile, "NoHTile", func(f *Flags) *bool { return &f.NoHTile }},
	{WireNoRenderTarget, "NoRenderTarget", func(f *Flags) *bool { return &f.NoRenderTarget }},
	{WireNoStencilAdjust, "NoStencilAdjust", func(f *Flags) *bool { return &f.NoStencilAdjust }},
	{WireContiguousDCCLayers, "ContiguousDCCLayers", func(f *Flags) *bool { return &f.ContiguousDCCLayers }},
	{WirePRT, "PRT", func(f *Flags) *bool { return &f.PRT }},
	{WireVRSRate, "VRSRate", func(f *Flags) *bool { return &f.VRSRate }},
	{WireNoTexture, "NoTexture", func(f *Flags) *bool { return &f.NoTexture }},
	{WireImported, "Imported", func(f *Flags) *bool { return &f.Imported }},
}

// Encode packs the flags into the oracle's bit encoding
func (f Flags) Encode() uint64 {
	bits := uint64(f.Type)<<typeShift | uint64(f.Mode)<<modeShift
	for _, flag := range flagBits {
		if *flag.get(&f) {
			bits |= flag.bit
		}
	}
	return bits
}

// DecodeFlags unpacks flags from the oracle's bit encoding
func DecodeFlags(bits uint64) Flags {
	f := Flags{
		Type: Type((bits >> typeShift) & typeMask),
		Mode: Mode((bits >> modeShift) & modeMask),
	}
	for _, flag := range flagBits {
		*flag.get(&f) = bits&flag.bit != 0
	}
	return f
}

// DisableAllMetadata turns off every kind of compression metadata for the surface
func (f *Flags) DisableAllMetadata() {
	f.DisableDCC = true
	f.NoFMask = true
	f.NoHTile = true
	f.TCCompatibleHTile = false
}

func (f Flags) String() string {
	var names []string
	names = append(names, "Type"+f.Type.String(), "Mode"+f.Mode.String())
	for _, flag := range flagBits {
		if *flag.get(&f) {
			names = append(names, flag.name)
		}
	}
	return strings.Join(names, "|")
}
