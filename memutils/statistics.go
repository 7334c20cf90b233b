package memutils

import "math"

// Statistics sums the footprint of one or more memory bindings. A binding is the byte range
// an image (or one disjoint plane of an image) needs bound to device memory; regions are
// the planes and auxiliary state ranges placed inside it.
type Statistics struct {
	BindingCount int
	RegionCount  int
	BindingBytes uint64
	RegionBytes  uint64
}

func (s *Statistics) Clear() {
	s.BindingCount = 0
	s.RegionCount = 0
	s.BindingBytes = 0
	s.RegionBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BindingCount += other.BindingCount
	s.RegionCount += other.RegionCount
	s.BindingBytes += other.BindingBytes
	s.RegionBytes += other.RegionBytes
}

// PaddingBytes is the number of bytes that belong to a binding but to none of its regions
func (s *Statistics) PaddingBytes() uint64 {
	return s.BindingBytes - s.RegionBytes
}

type DetailedStatistics struct {
	Statistics
	PaddingRangeCount   int
	RegionSizeMin       uint64
	RegionSizeMax       uint64
	PaddingRangeSizeMin uint64
	PaddingRangeSizeMax uint64
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.PaddingRangeCount = 0
	s.RegionSizeMin = math.MaxUint64
	s.RegionSizeMax = 0
	s.PaddingRangeSizeMin = math.MaxUint64
	s.PaddingRangeSizeMax = 0
}

func (s *DetailedStatistics) AddPaddingRange(size uint64) {
	s.PaddingRangeCount++

	if size < s.PaddingRangeSizeMin {
		s.PaddingRangeSizeMin = size
	}

	if size > s.PaddingRangeSizeMax {
		s.PaddingRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddRegion(size uint64) {
	s.RegionCount++
	s.RegionBytes += size

	if size < s.RegionSizeMin {
		s.RegionSizeMin = size
	}

	if size > s.RegionSizeMax {
		s.RegionSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.PaddingRangeCount += other.PaddingRangeCount

	if other.PaddingRangeSizeMin < s.PaddingRangeSizeMin {
		s.PaddingRangeSizeMin = other.PaddingRangeSizeMin
	}

	if other.PaddingRangeSizeMax > s.PaddingRangeSizeMax {
		s.PaddingRangeSizeMax = other.PaddingRangeSizeMax
	}

	if other.RegionSizeMin < s.RegionSizeMin {
		s.RegionSizeMin = other.RegionSizeMin
	}

	if other.RegionSizeMax > s.RegionSizeMax {
		s.RegionSizeMax = other.RegionSizeMax
	}
}
