package metadata

// AllocationRequestType is an enum that indicates how an allocation request will be placed.
// It is returned in AllocationRequest from CreateAllocationRequest
type AllocationRequestType uint32

const (
	// AllocationRequestEndOfBlock indicates that the region will be appended after the last region
	// of the binding
	AllocationRequestEndOfBlock AllocationRequestType = iota
	// AllocationRequestExplicit indicates that the region was placed at a caller-chosen offset
	AllocationRequestExplicit
)

var allocationRequestMapping = map[AllocationRequestType]string{
	AllocationRequestEndOfBlock: "EndOfBlock",
	AllocationRequestExplicit:   "Explicit",
}

func (t AllocationRequestType) String() string {
	return allocationRequestMapping[t]
}

// AllocationRequest is a type returned from BlockMetadata.CreateAllocationRequest which indicates where
// the metadata intends to place a new region. It is committed to the metadata with BlockMetadata.Alloc
type AllocationRequest struct {
	// BlockAllocationHandle is a numeric handle used to identify individual regions within the metadata
	BlockAllocationHandle BlockAllocationHandle
	// Size is the size of the region in bytes
	Size uint64
	// Item is a Suballocation object indicating basic information about the region
	Item Suballocation
	// Type identifies how the request will be placed
	Type AllocationRequestType

	// AllocType is the value passed into CreateAllocationRequest by the consumer to generate
	// this request
	AllocType uint32
}
