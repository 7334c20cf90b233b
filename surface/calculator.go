package surface

//go:generate mockgen -source calculator.go -destination ./mocks/calculator.go -package mock_surface

// Calculator is the tiling-address oracle. It computes the in-memory layout of a single plane
// from its flags and geometry, and answers questions about the result. Implementations must be
// deterministic: the same inputs always produce the same Surface.
type Calculator interface {
	// Init computes the layout of one plane. surf.Flags, surf.Modifier, surf.BlockWidth,
	// surf.BlockHeight and surf.BytesPerElement must be set by the caller; every other field
	// is overwritten.
	Init(config Config, surf *Surface) error
	// AuxSurface returns the placement of one metadata sub-surface. A zero Size means the
	// surface does not have it.
	AuxSurface(surf *Surface, kind AuxKind) AuxGeometry
	// OverrideOffsetStride moves the plane to offset bytes into its binding and, if pitch is
	// not 0, replaces the row pitch (in elements). It returns false if the surface cannot take
	// the requested pitch.
	OverrideOffsetStride(surf *Surface, numLayers int, numLevels int, offset uint64, pitch int) bool
	// ZeroDCCFields removes lossless compression from a computed colour surface
	ZeroDCCFields(surf *Surface)
	// Supports answers a capability query about a computed surface
	Supports(surf *Surface, query Query) bool

	// MemoryPlaneCount returns the number of separately addressable memory planes a surface
	// with a format modifier exposes
	MemoryPlaneCount(surf *Surface) int
	// PlaneOffset returns the offset of a memory plane for one layer
	PlaneOffset(surf *Surface, plane int, layer int) uint64
	// PlaneStride returns the row pitch in bytes of a memory plane at one level
	PlaneStride(surf *Surface, plane int, level int) uint64
	// PlaneSize returns the size in bytes of a memory plane
	PlaneSize(surf *Surface, plane int) uint64
	// SupportedModifiers returns the modifiers a colour surface with the given element size can
	// use, in order of preference
	SupportedModifiers(bytesPerElement int) []Modifier

	// ComputeUMDMetadata returns the opaque metadata words that describe the surface to another
	// driver, embedding an 8-dword texture descriptor
	ComputeUMDMetadata(surf *Surface, numLevels int, desc [8]uint32) []uint32
	// ApplyUMDMetadata adjusts a freshly computed surface to match imported opaque metadata. It
	// returns false if the metadata describes a layout the surface cannot take.
	ApplyUMDMetadata(surf *Surface, numSamples int, numLevels int, metadata []uint32) bool
}
