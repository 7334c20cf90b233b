package metadata

import (
	"math"
	"sort"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/imagelayout/memutils"
)

// LinearBlockMetadata is a BlockMetadata implementation that records a binding as a sorted
// vector of regions. New regions are appended after the last region, aligned as requested,
// so the binding grows like a stack. Regions placed at explicit offsets are inserted in
// order and rejected if they collide with a region already present.
type LinearBlockMetadata struct {
	BlockMetadataBase

	sumUsedSize    uint64
	suballocations []Suballocation
}

var _ BlockMetadata = &LinearBlockMetadata{}

// NewLinearBlockMetadata creates an empty LinearBlockMetadata
func NewLinearBlockMetadata() *LinearBlockMetadata {
	return &LinearBlockMetadata{
		suballocations: []Suballocation{},
	}
}

// SumFreeSize returns the number of bytes of the binding not covered by any region
func (m *LinearBlockMetadata) SumFreeSize() uint64 {
	return m.Size() - m.sumUsedSize
}

// IsEmpty will return true if this binding has no regions
func (m *LinearBlockMetadata) IsEmpty() bool {
	return len(m.suballocations) == 0
}

// AllocationCount returns the number of regions placed in the binding
func (m *LinearBlockMetadata) AllocationCount() int {
	return len(m.suballocations)
}

// End returns the offset just past the last region in the binding
func (m *LinearBlockMetadata) End() uint64 {
	if len(m.suballocations) == 0 {
		return 0
	}

	return m.suballocations[len(m.suballocations)-1].End()
}

func (m *LinearBlockMetadata) findSuballocation(allocHandle BlockAllocationHandle) (int, error) {
	offset := uint64(allocHandle) - 1
	index := sort.Search(len(m.suballocations), func(i int) bool {
		return m.suballocations[i].Offset >= offset
	})

	if index >= len(m.suballocations) || m.suballocations[index].Offset != offset {
		return -1, errors.Errorf("no region found at offset %d", offset)
	}

	return index, nil
}

// AllocationOffset accepts a BlockAllocationHandle that maps to a region and returns its offset in
// bytes within the binding
func (m *LinearBlockMetadata) AllocationOffset(allocHandle BlockAllocationHandle) (uint64, error) {
	index, err := m.findSuballocation(allocHandle)
	if err != nil {
		return 0, err
	}

	return m.suballocations[index].Offset, nil
}

// AllocationUserData accepts a BlockAllocationHandle that maps to a region and returns the userdata
// value provided by the consumer for that region
func (m *LinearBlockMetadata) AllocationUserData(allocHandle BlockAllocationHandle) (any, error) {
	index, err := m.findSuballocation(allocHandle)
	if err != nil {
		return nil, err
	}

	return m.suballocations[index].UserData, nil
}

// Validate performs internal consistency checks on the metadata. When the implementation is functioning
// correctly, it should not be possible for this method to return an error.
func (m *LinearBlockMetadata) Validate() error {
	var sumUsedSize, offset uint64

	for suballocIndex, suballoc := range m.suballocations {
		if suballoc.Type == 0 {
			return errors.Errorf("region at index %d has no type", suballocIndex)
		}

		if suballoc.Size == 0 {
			return errors.Errorf("region at index %d is empty", suballocIndex)
		}

		if suballoc.Offset < offset {
			return errors.Errorf("region at index %d has offset %d- this collides with previous regions, expected offset %d", suballocIndex, suballoc.Offset, offset)
		}

		sumUsedSize += suballoc.Size
		offset = suballoc.End()
	}

	if offset > m.Size() {
		return errors.Errorf("regions end at offset %d, but the binding is only %d bytes", offset, m.Size())
	}

	if sumUsedSize != m.sumUsedSize {
		return errors.Errorf("counted %d bytes in regions, but metadata indicates we should have %d", sumUsedSize, m.sumUsedSize)
	}

	return nil
}

// VisitAllRegions will call the provided callback once for each region and each padding gap in the
// binding, in offset order.
func (m *LinearBlockMetadata) VisitAllRegions(handleBlock func(handle BlockAllocationHandle, offset uint64, size uint64, userData any, free bool) error) error {
	var lastOffset uint64

	for _, suballoc := range m.suballocations {
		if lastOffset < suballoc.Offset {
			err := handleBlock(NoAllocation, lastOffset, suballoc.Offset-lastOffset, nil, true)
			if err != nil {
				return err
			}
		}

		err := handleBlock(BlockAllocationHandle(suballoc.Offset+1), suballoc.Offset, suballoc.Size, suballoc.UserData, false)
		if err != nil {
			return err
		}

		lastOffset = suballoc.End()
	}

	if lastOffset < m.Size() {
		return handleBlock(NoAllocation, lastOffset, m.Size()-lastOffset, nil, true)
	}

	return nil
}

// AddDetailedStatistics sums this binding's statistics into the statistics currently present
// in the provided memutils.DetailedStatistics object.
func (m *LinearBlockMetadata) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.BindingCount++
	stats.BindingBytes += m.Size()

	_ = m.VisitAllRegions(
		func(handle BlockAllocationHandle, offset uint64, size uint64, userData any, free bool) error {
			if free {
				stats.AddPaddingRange(size)
			} else {
				stats.AddRegion(size)
			}

			return nil
		})
}

// AddStatistics sums this binding's statistics into the statistics currently present in the
// provided memutils.Statistics object.
func (m *LinearBlockMetadata) AddStatistics(stats *memutils.Statistics) {
	stats.BindingCount++
	stats.BindingBytes += m.Size()
	stats.RegionBytes += m.sumUsedSize
	stats.RegionCount += len(m.suballocations)
}

// BlockJsonData populates a json object with summary information about this binding
func (m *LinearBlockMetadata) BlockJsonData(json jwriter.ObjectState) {
	var unusedRangeCount int

	_ = m.VisitAllRegions(
		func(handle BlockAllocationHandle, offset uint64, size uint64, userData any, free bool) error {
			if free {
				unusedRangeCount++
			}

			return nil
		})

	m.WriteBlockJson(json, m.SumFreeSize(), len(m.suballocations), unusedRangeCount)
}

// PrintDetailedMap populates a json object with summary information and every region in this binding.
// regionName is used to label each region with a readable type.
func (m *LinearBlockMetadata) PrintDetailedMap(json jwriter.ObjectState, regionName func(allocType uint32) string) {
	m.BlockJsonData(json)

	regionsArray := json.Name("Regions").Array()
	defer regionsArray.End()

	_ = m.VisitAllRegions(
		func(handle BlockAllocationHandle, offset uint64, size uint64, userData any, free bool) error {
			regionObj := regionsArray.Object()
			defer regionObj.End()

			regionObj.Name("Offset").Int(int(offset))
			regionObj.Name("Size").Int(int(size))
			if free {
				regionObj.Name("Type").String("FREE")
				return nil
			}

			index, err := m.findSuballocation(handle)
			if err != nil {
				return err
			}

			regionObj.Name("Type").String(regionName(m.suballocations[index].Type))
			return nil
		})
}

// CreateAllocationRequest retrieves an AllocationRequest object indicating where the implementation
// would place the requested region. That object can be passed to Alloc to commit it.
//
// allocSize - the size in bytes of the requested region
// allocAlignment - the alignment of the requested region, which must be a power of two
// allocType - Consumer-defined region type, which must not be 0
// maxOffset - This parameter should usually be math.MaxUint64. The request fails if the region
// would end after maxOffset.
func (m *LinearBlockMetadata) CreateAllocationRequest(
	allocSize uint64, allocAlignment uint64,
	allocType uint32,
	maxOffset uint64,
) (bool, AllocationRequest, error) {
	if allocSize == 0 {
		return false, AllocationRequest{}, errors.New("invalid allocSize 0")
	}
	if allocType == 0 {
		return false, AllocationRequest{}, errors.New("invalid allocType 0")
	}
	if err := memutils.CheckPow2(allocAlignment, "allocAlignment"); err != nil {
		return false, AllocationRequest{}, err
	}

	end := m.End()
	if end > math.MaxUint64-allocAlignment {
		return false, AllocationRequest{}, nil
	}

	offset := memutils.AlignUp(end, allocAlignment)
	regionEnd, err := memutils.CheckedAdd(offset, allocSize)
	if err != nil || regionEnd > maxOffset {
		return false, AllocationRequest{}, nil
	}

	return true, AllocationRequest{
		BlockAllocationHandle: BlockAllocationHandle(offset + 1),
		Size:                  allocSize,
		Type:                  AllocationRequestEndOfBlock,
		AllocType:             allocType,
		Item: Suballocation{
			Offset: offset,
			Size:   allocSize,
			Type:   allocType,
		},
	}, nil
}

// Alloc commits an AllocationRequest object, creating the region within the binding
func (m *LinearBlockMetadata) Alloc(request AllocationRequest, allocType uint32, userData any) (BlockAllocationHandle, error) {
	if request.Type != AllocationRequestEndOfBlock {
		return NoAllocation, errors.Errorf("unexpected request type %s", request.Type)
	}

	if request.Item.Offset < m.End() {
		return NoAllocation, errors.Errorf("request at offset %d is stale: the binding already extends to %d", request.Item.Offset, m.End())
	}

	m.suballocations = append(m.suballocations, Suballocation{
		Offset:   request.Item.Offset,
		Size:     request.Size,
		UserData: userData,
		Type:     allocType,
	})
	m.sumUsedSize += request.Size
	m.Grow(request.Item.End())

	return request.BlockAllocationHandle, nil
}

// AllocAt places a region at a caller-chosen offset. It fails if the region would overlap an existing
// region.
func (m *LinearBlockMetadata) AllocAt(offset uint64, size uint64, allocType uint32, userData any) (BlockAllocationHandle, error) {
	if size == 0 {
		return NoAllocation, errors.New("invalid size 0")
	}
	if allocType == 0 {
		return NoAllocation, errors.New("invalid allocType 0")
	}

	end, err := memutils.CheckedAdd(offset, size)
	if err != nil {
		return NoAllocation, err
	}

	index := sort.Search(len(m.suballocations), func(i int) bool {
		return m.suballocations[i].Offset >= offset
	})

	if index > 0 && m.suballocations[index-1].End() > offset {
		prev := m.suballocations[index-1]
		return NoAllocation, errors.Errorf("region [%d, %d) collides with region [%d, %d)", offset, end, prev.Offset, prev.End())
	}
	if index < len(m.suballocations) && m.suballocations[index].Offset < end {
		next := m.suballocations[index]
		return NoAllocation, errors.Errorf("region [%d, %d) collides with region [%d, %d)", offset, end, next.Offset, next.End())
	}

	m.suballocations = append(m.suballocations, Suballocation{})
	copy(m.suballocations[index+1:], m.suballocations[index:])
	m.suballocations[index] = Suballocation{
		Offset:   offset,
		Size:     size,
		UserData: userData,
		Type:     allocType,
	}
	m.sumUsedSize += size
	m.Grow(end)

	return BlockAllocationHandle(offset + 1), nil
}
