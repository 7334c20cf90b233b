package layout

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/memutils"
	"github.com/vkngwrapper/imagelayout/memutils/metadata"
	"github.com/vkngwrapper/imagelayout/surface"
)

// PlaneLayout is the final placement of one surface of an image
type PlaneLayout struct {
	Format core1_0.Format
	// Surface is the oracle's layout of the plane. Its offsets are relative to the start of the
	// plane's binding.
	Surface *surface.Surface

	// Width and Height are the plane's dimensions in texels, after video alignment
	Width  int
	Height int

	// Offset is the byte offset of the plane within its binding
	Offset    uint64
	Size      uint64
	Alignment uint64
	// Binding is the index of the memory binding the plane lives in. It is always 0 unless the
	// image is disjoint.
	Binding int

	Capabilities Capabilities
}

// End returns the offset just past the plane's last byte
func (p *PlaneLayout) End() uint64 {
	return p.Offset + p.Size
}

// AuxiliaryKind names one of the per-image state regions appended after the planes
type AuxiliaryKind uint32

const (
	// AuxFastClearPredicate holds one predicate per level telling whether a fast clear eliminate
	// is needed
	AuxFastClearPredicate AuxiliaryKind = iota + 1
	// AuxCompressionPredicate holds one predicate per level telling whether DCC decompression is
	// needed
	AuxCompressionPredicate
	// AuxClearValue holds the clear colour or depth/stencil value of each level
	AuxClearValue
	// AuxCompressionState holds one dword per level and layer tracking whether shader stores left
	// DCC compressed
	AuxCompressionState
	// AuxTCCompatZRange holds the per-level depth clear fixup of texture-compatible HTILE
	AuxTCCompatZRange
)

var auxiliaryKindMapping = map[AuxiliaryKind]string{
	AuxFastClearPredicate:   "FastClearPredicate",
	AuxCompressionPredicate: "CompressionPredicate",
	AuxClearValue:           "ClearValue",
	AuxCompressionState:     "CompressionState",
	AuxTCCompatZRange:       "TCCompatZRange",
}

func (k AuxiliaryKind) String() string {
	return auxiliaryKindMapping[k]
}

// AuxiliaryRegion is a state region appended to binding 0 of an image
type AuxiliaryRegion struct {
	Kind   AuxiliaryKind
	Offset uint64
	Size   uint64
}

func (r AuxiliaryRegion) End() uint64 {
	return r.Offset + r.Size
}

// MemoryBinding records the memory a binding of an image was bound to
type MemoryBinding struct {
	// Memory identifies the allocation. It is opaque to the planner.
	Memory uint64
	// Offset is the byte offset of the binding within the allocation
	Offset uint64
	// Address is the GPU virtual address of the start of the binding
	Address uint64
}

// Image is the computed layout of an image. Apart from its memory bindings, it does not change
// after it is built.
type Image struct {
	Descriptor ImageDescriptor

	Planes     []PlaneLayout
	AuxRegions []AuxiliaryRegion

	// Size and Alignment are the memory requirements of a non-disjoint image. Disjoint images
	// report per-plane requirements with BindingSize.
	Size      uint64
	Alignment uint64

	// Width and Height are the level 0 dimensions the planes were built from, which differ from
	// the descriptor when imported metadata describes a larger image
	Width  int
	Height int

	Disjoint        bool
	Exclusive       bool
	Shareable       bool
	QueueFamilyMask hwinfo.QueueMask
	Modifier        surface.Modifier

	// TCCompatibleCMask means the texture unit reads CMASK and FMASK without a decompression pass
	TCCompatibleCMask bool
	// L2Coherent means metadata writes through L2 are visible to the render backends
	L2Coherent bool
	// SupportsCompToSingle means DCC fast clears write the clear value itself and need no
	// eliminate pass
	SupportsCompToSingle bool
	// DCCSignReinterpret means a view format reinterprets the signedness of a DCC image
	DCCSignReinterpret bool
	// DCCImageStores means shader image stores keep DCC compressed
	DCCImageStores bool
	// Predication means DCC decompression is predicated on AuxCompressionPredicate
	Predication bool

	bindings []*metadata.LinearBlockMetadata

	// boundMutex guards bound, the only part of an image that changes after it is built
	boundMutex sync.RWMutex
	bound      []*MemoryBinding
}

// PlaneCount returns the number of surfaces the image is built from
func (i *Image) PlaneCount() int {
	return len(i.Planes)
}

// Plane returns one plane of the image
func (i *Image) Plane(plane int) *PlaneLayout {
	return &i.Planes[plane]
}

// AuxRegion returns the state region of a kind, if the image has one
func (i *Image) AuxRegion(kind AuxiliaryKind) (AuxiliaryRegion, bool) {
	for _, region := range i.AuxRegions {
		if region.Kind == kind {
			return region, true
		}
	}

	return AuxiliaryRegion{}, false
}

// HasDCC returns true if a plane carries lossless colour compression
func (i *Image) HasDCC(plane int) bool {
	return plane < len(i.Planes) && i.Planes[plane].Surface.HasDCC()
}

// HasHTile returns true if the image carries hierarchical depth metadata
func (i *Image) HasHTile() bool {
	return i.Planes[0].Surface.HasHTile()
}

// IsTCCompatHTile returns true if the texture unit can read the image's HTILE directly
func (i *Image) IsTCCompatHTile() bool {
	return i.HasHTile() && i.Planes[0].Surface.Flags.TCCompatibleHTile
}

// HasFMask returns true if the image carries multisample metadata
func (i *Image) HasFMask() bool {
	return i.Planes[0].Surface.HasFMask()
}

// HasCMask returns true if the image carries fast clear metadata
func (i *Image) HasCMask() bool {
	return i.Planes[0].Surface.HasCMask()
}

// BindingCount returns the number of memory bindings the image needs
func (i *Image) BindingCount() int {
	return len(i.bindings)
}

// BindingSize returns the size and alignment of one memory binding
func (i *Image) BindingSize(binding int) (size uint64, alignment uint64) {
	if !i.Disjoint {
		return i.Size, i.Alignment
	}

	return i.bindings[binding].Size(), i.Planes[binding].Alignment
}

// Bind records the memory a binding was bound to
func (i *Image) Bind(binding int, memory MemoryBinding) error {
	if binding < 0 || binding >= len(i.bindings) {
		return errors.Newf("image has no binding %d", binding)
	}

	_, alignment := i.BindingSize(binding)
	if !memutils.IsAligned(memory.Offset, alignment) {
		return errors.Newf("offset %d does not meet the %d-byte alignment of binding %d", memory.Offset, alignment, binding)
	}

	i.boundMutex.Lock()
	defer i.boundMutex.Unlock()

	i.bound[binding] = &memory
	return nil
}

// Bound returns the memory a binding was bound to, or false if it is not bound yet
func (i *Image) Bound(binding int) (MemoryBinding, bool) {
	i.boundMutex.RLock()
	defer i.boundMutex.RUnlock()

	if binding < 0 || binding >= len(i.bound) || i.bound[binding] == nil {
		return MemoryBinding{}, false
	}

	return *i.bound[binding], true
}

// IsBound returns true once every binding of the image is bound to memory
func (i *Image) IsBound() bool {
	i.boundMutex.RLock()
	defer i.boundMutex.RUnlock()

	for _, memory := range i.bound {
		if memory == nil {
			return false
		}
	}
	return true
}

// PlaneAddress returns the GPU virtual address of the start of a plane's binding, or 0 if the
// binding is not bound
func (i *Image) PlaneAddress(plane int) uint64 {
	memory, bound := i.Bound(i.Planes[plane].Binding)
	if !bound {
		return 0
	}
	return memory.Address
}

// Validate checks the layout invariants: planes and state regions lie within their bindings,
// regions do not overlap, and every plane's capabilities have their prerequisites
func (i *Image) Validate() error {
	if i.Size == 0 || !memutils.IsAligned(i.Size, i.Alignment) {
		return errors.AssertionFailedf("image size %d is not a multiple of its alignment %d", i.Size, i.Alignment)
	}

	for index := range i.Planes {
		plane := &i.Planes[index]
		if err := plane.Capabilities.Validate(); err != nil {
			return errors.Wrapf(err, "plane %d", index)
		}

		size, _ := i.BindingSize(plane.Binding)
		if plane.End() > size {
			return errors.AssertionFailedf("plane %d ends at %d, past the end of its %d-byte binding", index, plane.End(), size)
		}
	}

	auxSize, _ := i.BindingSize(0)
	for _, region := range i.AuxRegions {
		if region.End() > auxSize {
			return errors.AssertionFailedf("%s region ends at %d, past the end of the %d-byte binding", region.Kind, region.End(), auxSize)
		}
	}

	for index, binding := range i.bindings {
		if err := binding.Validate(); err != nil {
			return errors.Wrapf(err, "binding %d", index)
		}
	}

	return nil
}

// AddStatistics sums the footprint of the image's bindings into stats
func (i *Image) AddStatistics(stats *memutils.Statistics) {
	for _, binding := range i.bindings {
		binding.AddStatistics(stats)
	}
}

// AddDetailedStatistics sums the footprint of the image's bindings, including padding, into stats
func (i *Image) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	for _, binding := range i.bindings {
		binding.AddDetailedStatistics(stats)
	}
}

// VisitRegions calls visit for every plane sub-surface and state region of a binding, and every
// padding gap between them, in offset order
func (i *Image) VisitRegions(binding int, visit func(kind RegionKind, offset, size uint64) error) error {
	if binding < 0 || binding >= len(i.bindings) {
		return errors.Newf("image has no binding %d", binding)
	}

	return i.bindings[binding].VisitAllRegions(
		func(handle metadata.BlockAllocationHandle, offset uint64, size uint64, userData any, free bool) error {
			if free {
				return visit(RegionPadding, offset, size)
			}
			return visit(userData.(RegionKind), offset, size)
		})
}
