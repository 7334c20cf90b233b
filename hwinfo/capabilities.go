package hwinfo

const (
	// DefaultFastClearMinPixels is the smallest single-sample surface area, in pixels, for which
	// fast-clear metadata is worth allocating
	DefaultFastClearMinPixels = 512 * 512
	// DefaultHTileMinPixels is the smallest depth surface area, in pixels, for which hierarchical
	// depth metadata is allocated unless compression is forced
	DefaultHTileMinPixels = 8 * 8
)

// Capabilities is the set of thresholds and feature switches a hardware generation supplies to
// the eligibility rules
type Capabilities struct {
	// SurfaceLayout is the kind of sub-layout the tiling oracle produces
	SurfaceLayout SurfaceLayoutKind
	// DescriptorLayout is the register layout of image descriptors
	DescriptorLayout DescriptorLayoutKind

	// LosslessCompression is true when colour surfaces can carry DCC
	LosslessCompression bool
	// StorageCompression is true when DCC may be kept on images with storage usage
	StorageCompression bool
	// LayeredMipmappedCompression is false when DCC cannot be used on a surface with more than one
	// layer or more than one mip level
	LayeredMipmappedCompression bool
	// MipmappedCompression is false when DCC cannot be used on a surface with more than one mip level
	MipmappedCompression bool
	// MultisampleCompressionGated is true when DCC on multisampled surfaces must be enabled per device
	MultisampleCompressionGated bool
	// SingleValueClear is true when DCC can encode a whole block as a single clear value, making
	// the fast clear eliminate pass unnecessary
	SingleValueClear bool
	// MultisampleAux is true when multisampled colour surfaces use FMASK
	MultisampleAux bool

	// TCCompatibleHTile is true when the texture unit can read HTILE-compressed depth directly
	TCCompatibleHTile bool
	// TCCompatibleHTileLimited is true when texture-compatible HTILE is limited to 16/32-bit depth,
	// single-layer surfaces
	TCCompatibleHTileLimited bool
	// TCCompatibleCMask is true when the texture unit can read CMASK fast-clear state directly
	TCCompatibleCMask bool
	// TCCompatibleCMaskMaxSamples is the largest sample count allowed with texture-compatible CMASK,
	// or 0 if unlimited
	TCCompatibleCMaskMaxSamples int
	// TCCompatibleCMaskStorage is true when texture-compatible CMASK can be kept with storage usage
	TCCompatibleCMaskStorage bool
	// TCCompatZRangeBug is true when texture-compatible HTILE needs a per-level fixup dword for
	// depth clears to 0.0
	TCCompatZRangeBug bool

	// HTileForMips is true when HTILE can cover every level of a single-layer mip chain
	HTileForMips bool
	// StencilMipHTileBroken is true when HTILE must be skipped for 32-bit depth + stencil mip chains
	StencilMipHTileBroken bool

	// LinearThinSurfaces is true when 1D and very thin uncompressed surfaces are tiled linearly
	LinearThinSurfaces bool
	// NoStencilAdjust is true when combined depth/stencil surfaces must not realign the stencil plane
	NoStencilAdjust bool
	// Compressed3DNoRenderTarget is true when 3D surfaces with 128-bit block-compressed formats
	// cannot be render targets
	Compressed3DNoRenderTarget bool
	// StrictExternalDimensions is true when imported metadata must match the requested dimensions
	// exactly
	StrictExternalDimensions bool
	// DisplayCompressionRetile is true when displayable DCC is a separate retiled plane
	DisplayCompressionRetile bool
	// PrimeBlitSourceCompressionBroken is true when DCC must be disabled on cross-device blit sources
	PrimeBlitSourceCompressionBroken bool
	// FlatCompressionMetadata is true when compression metadata has no addressable memory plane
	FlatCompressionMetadata bool

	// FastClearMinPixels is the single-sample surface area below which fast clears are not used
	FastClearMinPixels int
	// HTileMinPixels is the depth surface area below which HTILE is not allocated
	HTileMinPixels int
}

var capabilityTable = map[Generation]Capabilities{
	GFX6: {
		SurfaceLayout:               SurfaceLayoutLegacy,
		DescriptorLayout:            DescriptorLayoutLegacy,
		LayeredMipmappedCompression: true,
		MipmappedCompression:        true,
		MultisampleCompressionGated: true,
		MultisampleAux:              true,
		LinearThinSurfaces:          true,
		NoStencilAdjust:             true,
		FastClearMinPixels:          DefaultFastClearMinPixels,
		HTileMinPixels:              DefaultHTileMinPixels,
	},
	GFX7: {
		SurfaceLayout:               SurfaceLayoutLegacy,
		DescriptorLayout:            DescriptorLayoutLegacy,
		LayeredMipmappedCompression: true,
		MipmappedCompression:        true,
		MultisampleCompressionGated: true,
		MultisampleAux:              true,
		LinearThinSurfaces:          true,
		NoStencilAdjust:             true,
		FastClearMinPixels:          DefaultFastClearMinPixels,
		HTileMinPixels:              DefaultHTileMinPixels,
	},
	GFX8: {
		SurfaceLayout:               SurfaceLayoutLegacy,
		DescriptorLayout:            DescriptorLayoutLegacy,
		LosslessCompression:         true,
		LayeredMipmappedCompression: true,
		MipmappedCompression:        true,
		MultisampleCompressionGated: true,
		MultisampleAux:              true,
		TCCompatibleHTile:           true,
		TCCompatibleHTileLimited:    true,
		TCCompatibleCMask:           true,
		TCCompatZRangeBug:           true,
		LinearThinSurfaces:          true,
		NoStencilAdjust:             true,
		FastClearMinPixels:          DefaultFastClearMinPixels,
		HTileMinPixels:              DefaultHTileMinPixels,
	},
	GFX9: {
		SurfaceLayout:                    SurfaceLayoutGFX9,
		DescriptorLayout:                 DescriptorLayoutLegacy,
		LosslessCompression:              true,
		MipmappedCompression:             true,
		MultisampleCompressionGated:      true,
		MultisampleAux:                   true,
		TCCompatibleHTile:                true,
		TCCompatibleCMask:                true,
		TCCompatibleCMaskMaxSamples:      2,
		TCCompatZRangeBug:                true,
		Compressed3DNoRenderTarget:       true,
		DisplayCompressionRetile:         true,
		PrimeBlitSourceCompressionBroken: true,
		FastClearMinPixels:               DefaultFastClearMinPixels,
		HTileMinPixels:                   DefaultHTileMinPixels,
	},
	GFX10: {
		SurfaceLayout:               SurfaceLayoutGFX9,
		DescriptorLayout:            DescriptorLayoutGFX10,
		LosslessCompression:         true,
		StorageCompression:          true,
		LayeredMipmappedCompression: true,
		MipmappedCompression:        true,
		SingleValueClear:            true,
		MultisampleAux:              true,
		TCCompatibleHTile:           true,
		TCCompatibleCMask:           true,
		TCCompatibleCMaskStorage:    true,
		HTileForMips:                true,
		StencilMipHTileBroken:       true,
		Compressed3DNoRenderTarget:  true,
		StrictExternalDimensions:    true,
		DisplayCompressionRetile:    true,
		FastClearMinPixels:          DefaultFastClearMinPixels,
		HTileMinPixels:              DefaultHTileMinPixels,
	},
	GFX10_3: {
		SurfaceLayout:               SurfaceLayoutGFX9,
		DescriptorLayout:            DescriptorLayoutGFX10,
		LosslessCompression:         true,
		StorageCompression:          true,
		LayeredMipmappedCompression: true,
		MipmappedCompression:        true,
		SingleValueClear:            true,
		MultisampleAux:              true,
		TCCompatibleHTile:           true,
		TCCompatibleCMask:           true,
		TCCompatibleCMaskStorage:    true,
		HTileForMips:                true,
		Compressed3DNoRenderTarget:  true,
		StrictExternalDimensions:    true,
		DisplayCompressionRetile:    true,
		FastClearMinPixels:          DefaultFastClearMinPixels,
		HTileMinPixels:              DefaultHTileMinPixels,
	},
	GFX11: {
		SurfaceLayout:               SurfaceLayoutGFX9,
		DescriptorLayout:            DescriptorLayoutGFX10,
		LosslessCompression:         true,
		StorageCompression:          true,
		LayeredMipmappedCompression: true,
		SingleValueClear:            true,
		TCCompatibleHTile:           true,
		TCCompatibleCMask:           true,
		TCCompatibleCMaskStorage:    true,
		HTileForMips:                true,
		Compressed3DNoRenderTarget:  true,
		StrictExternalDimensions:    true,
		DisplayCompressionRetile:    true,
		FastClearMinPixels:          DefaultFastClearMinPixels,
		HTileMinPixels:              DefaultHTileMinPixels,
	},
}

// CapabilitiesFor returns the capability table entry for a generation. The second return value
// is false if the generation is not known.
func CapabilitiesFor(generation Generation) (Capabilities, bool) {
	caps, ok := capabilityTable[generation]
	return caps, ok
}
