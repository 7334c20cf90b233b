package metadata

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/imagelayout/memutils"
)

// BlockMetadata records the byte footprint of a single memory binding. Regions are placed within the
// binding either by the implementation (CreateAllocationRequest + Alloc) or at caller-chosen offsets
// (AllocAt), and can be enumerated and validated afterwards.
type BlockMetadata interface {
	// Size retrieves the current size in bytes of the binding. It is at least the end offset of the last
	// region but may be larger if the binding was grown to satisfy alignment.
	Size() uint64
	// Grow increases the size of the binding to at least size bytes
	Grow(size uint64)

	// Validate performs internal consistency checks on the metadata. Regions must be sorted, must not
	// overlap, and must lie within the binding.
	Validate() error
	// AllocationCount returns the number of regions placed in the binding
	AllocationCount() int
	// SumFreeSize returns the number of bytes of the binding not covered by any region
	SumFreeSize() uint64

	// VisitAllRegions will call the provided callback once for each region and each padding gap in
	// the binding, in offset order.
	VisitAllRegions(handleBlock func(handle BlockAllocationHandle, offset uint64, size uint64, userData any, free bool) error) error

	// AllocationOffset accepts a BlockAllocationHandle that maps to a region and returns its offset in
	// bytes within the binding
	AllocationOffset(allocHandle BlockAllocationHandle) (uint64, error)
	// AllocationUserData accepts a BlockAllocationHandle that maps to a region and returns the userdata
	// value provided by the consumer for that region
	AllocationUserData(allocHandle BlockAllocationHandle) (any, error)

	// AddDetailedStatistics sums this binding's statistics into the provided memutils.DetailedStatistics object.
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	// AddStatistics sums this binding's statistics into the provided memutils.Statistics object.
	AddStatistics(stats *memutils.Statistics)

	// BlockJsonData populates a json object with summary information about this binding
	BlockJsonData(json jwriter.ObjectState)
	// PrintDetailedMap populates a json object with every region in this binding
	PrintDetailedMap(json jwriter.ObjectState, regionName func(allocType uint32) string)

	// CreateAllocationRequest retrieves an AllocationRequest object indicating where the implementation
	// would place a region of allocSize bytes aligned to allocAlignment. The request can be passed to
	// Alloc to commit it. The request fails if the region could not end at or before maxOffset.
	CreateAllocationRequest(allocSize uint64, allocAlignment uint64, allocType uint32, maxOffset uint64) (bool, AllocationRequest, error)
	// Alloc commits an AllocationRequest object, creating the region within the binding
	Alloc(request AllocationRequest, allocType uint32, userData any) (BlockAllocationHandle, error)
	// AllocAt places a region at a caller-chosen offset. It fails if the region would overlap
	// an existing region.
	AllocAt(offset uint64, size uint64, allocType uint32, userData any) (BlockAllocationHandle, error)
}

// BlockMetadataBase is a simple struct that provides a few shared utilities for BlockMetadata
// implementations in the memutils module.
type BlockMetadataBase struct {
	size uint64
}

// Grow increases the size of the binding to at least size bytes
func (m *BlockMetadataBase) Grow(size uint64) {
	if size > m.size {
		m.size = size
	}
}

// Size returns the size of the binding in bytes
func (m *BlockMetadataBase) Size() uint64 { return m.size }

// WriteBlockJson populates a json object with summary information about this binding
func (m *BlockMetadataBase) WriteBlockJson(json jwriter.ObjectState, unusedBytes uint64, allocationCount, unusedRangeCount int) {
	json.Name("TotalBytes").Int(int(m.Size()))
	json.Name("UnusedBytes").Int(int(unusedBytes))
	json.Name("Allocations").Int(allocationCount)
	json.Name("UnusedRanges").Int(unusedRangeCount)
}
