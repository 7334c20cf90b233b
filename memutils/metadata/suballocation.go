package metadata

import "math"

type BlockAllocationHandle uint64

const (
	NoAllocation BlockAllocationHandle = math.MaxUint64
)

// Suballocation is a single region within a binding. Type is consumer-defined and never 0.
type Suballocation struct {
	Offset   uint64
	Size     uint64
	UserData any
	Type     uint32
}

func (s Suballocation) End() uint64 {
	return s.Offset + s.Size
}
