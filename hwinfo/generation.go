package hwinfo

// Generation identifies a GPU hardware generation. Generations are ordered: a later
// generation compares greater than an earlier one.
type Generation int

const (
	GenerationUnknown Generation = iota
	GFX6
	GFX7
	GFX8
	GFX9
	GFX10
	GFX10_3
	GFX11
)

var generationMapping = map[Generation]string{
	GenerationUnknown: "Unknown",
	GFX6:              "GFX6",
	GFX7:              "GFX7",
	GFX8:              "GFX8",
	GFX9:              "GFX9",
	GFX10:             "GFX10",
	GFX10_3:           "GFX10_3",
	GFX11:             "GFX11",
}

func (g Generation) String() string {
	return generationMapping[g]
}

// Family identifies a specific chip within a generation, where a chip needs behavior that
// its generation does not
type Family int

const (
	FamilyGeneric Family = iota
	// FamilyStoney is a GFX8 APU that cannot fast clear colour surfaces without lossless compression
	FamilyStoney
)

var familyMapping = map[Family]string{
	FamilyGeneric: "Generic",
	FamilyStoney:  "Stoney",
}

func (f Family) String() string {
	return familyMapping[f]
}

// SurfaceLayoutKind identifies which per-generation sub-layout the tiling oracle produces
type SurfaceLayoutKind int

const (
	// SurfaceLayoutLegacy is the per-mip-level tiling table layout used up to GFX8
	SurfaceLayoutLegacy SurfaceLayoutKind = iota
	// SurfaceLayoutGFX9 is the swizzle-mode layout used from GFX9 onward
	SurfaceLayoutGFX9
)

var surfaceLayoutKindMapping = map[SurfaceLayoutKind]string{
	SurfaceLayoutLegacy: "Legacy",
	SurfaceLayoutGFX9:   "GFX9",
}

func (k SurfaceLayoutKind) String() string {
	return surfaceLayoutKindMapping[k]
}

// DescriptorLayoutKind identifies the register layout of image descriptors
type DescriptorLayoutKind int

const (
	DescriptorLayoutLegacy DescriptorLayoutKind = iota
	DescriptorLayoutGFX10
)

var descriptorLayoutKindMapping = map[DescriptorLayoutKind]string{
	DescriptorLayoutLegacy: "Legacy",
	DescriptorLayoutGFX10:  "GFX10",
}

func (k DescriptorLayoutKind) String() string {
	return descriptorLayoutKindMapping[k]
}
