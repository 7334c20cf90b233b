package planner

import (
	"strconv"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/imagelayout/memutils"
	"golang.org/x/exp/slices"
)

// Statistics summarises the images a device has live
type Statistics struct {
	ImageCount       int
	ImageViewCount   int
	SparseImageCount int
	// Footprint sums every binding of every live image
	Footprint memutils.DetailedStatistics
}

// CalculateStatistics sums the footprint of every live image
func (d *Device) CalculateStatistics() Statistics {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	var stats Statistics
	stats.Footprint.Clear()
	stats.ImageViewCount = d.views.Count()

	d.images.Iter(func(handle ImageHandle, entry *deviceImage) bool {
		stats.ImageCount++
		if entry.buffer != nil {
			stats.SparseImageCount++
		}
		entry.image.AddDetailedStatistics(&stats.Footprint)
		return false
	})

	return stats
}

func printDetailedStatistics(json jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("BindingCount").Int(stats.BindingCount)
	json.Name("BindingBytes").Int(int(stats.BindingBytes))
	json.Name("RegionCount").Int(stats.RegionCount)
	json.Name("RegionBytes").Int(int(stats.RegionBytes))
	json.Name("PaddingBytes").Int(int(stats.PaddingBytes()))
	json.Name("PaddingRangeCount").Int(stats.PaddingRangeCount)

	if stats.RegionCount > 0 {
		sizes := json.Name("RegionSizes").Object()
		sizes.Name("Min").Int(int(stats.RegionSizeMin))
		sizes.Name("Max").Int(int(stats.RegionSizeMax))
		sizes.End()
	}

	if stats.PaddingRangeCount > 0 {
		sizes := json.Name("PaddingRangeSizes").Object()
		sizes.Name("Min").Int(int(stats.PaddingRangeSizeMin))
		sizes.Name("Max").Int(int(stats.PaddingRangeSizeMax))
		sizes.End()
	}
}

// BuildStatsString returns a JSON document describing the device and the footprint of its live
// images. A detailed document also holds the complete layout of every image, in creation order.
func (d *Device) BuildStatsString(detailed bool) string {
	stats := d.CalculateStatistics()

	writer := jwriter.NewWriter()
	root := writer.Object()

	general := root.Name("General").Object()
	general.Name("Generation").String(d.info.Generation.String())
	general.Name("Family").String(d.info.Family.String())
	general.Name("PCIID").Int(int(d.info.PCIID))
	general.Maybe("DebugFlags", d.info.DebugFlags != 0).String(d.info.DebugFlags.String())
	general.Maybe("Flags", d.createFlags != 0).String(d.createFlags.String())
	general.End()

	total := root.Name("Total").Object()
	total.Name("ImageCount").Int(stats.ImageCount)
	total.Name("ImageViewCount").Int(stats.ImageViewCount)
	total.Name("SparseImageCount").Int(stats.SparseImageCount)
	printDetailedStatistics(total, &stats.Footprint)
	total.End()

	if detailed {
		d.mutex.RLock()
		handles := make([]ImageHandle, 0, d.images.Count())
		d.images.Iter(func(handle ImageHandle, entry *deviceImage) bool {
			handles = append(handles, handle)
			return false
		})
		slices.Sort(handles)

		images := root.Name("Images").Object()
		for _, handle := range handles {
			entry, _ := d.images.Get(handle)

			imageObj := images.Name(strconv.FormatUint(uint64(handle), 10)).Object()
			imageObj.Name("ViewCount").Int(entry.viewCount)
			entry.image.PrintDetailedMap(imageObj)
			imageObj.End()
		}
		images.End()
		d.mutex.RUnlock()
	}

	root.End()
	return string(writer.Bytes())
}
