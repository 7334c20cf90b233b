package layout

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/memutils"
	"github.com/vkngwrapper/imagelayout/surface"
)

// RegionKind labels a byte range of an image binding
type RegionKind uint32

const (
	RegionPadding RegionKind = iota
	RegionSurface
	RegionFMask
	RegionCMask
	RegionDCC
	RegionHTile
	RegionDisplayDCC
	RegionFastClearPredicate
	RegionCompressionPredicate
	RegionClearValue
	RegionCompressionState
	RegionTCCompatZRange
)

var regionKindMapping = map[RegionKind]string{
	RegionPadding:              "PADDING",
	RegionSurface:              "SURFACE",
	RegionFMask:                "FMASK",
	RegionCMask:                "CMASK",
	RegionDCC:                  "DCC",
	RegionHTile:                "HTILE",
	RegionDisplayDCC:           "DISPLAY_DCC",
	RegionFastClearPredicate:   "FAST_CLEAR_PREDICATE",
	RegionCompressionPredicate: "COMPRESSION_PREDICATE",
	RegionClearValue:           "CLEAR_VALUE",
	RegionCompressionState:     "COMPRESSION_STATE",
	RegionTCCompatZRange:       "TC_COMPAT_ZRANGE",
}

func (k RegionKind) String() string {
	return regionKindMapping[k]
}

func regionName(allocType uint32) string {
	return RegionKind(allocType).String()
}

var auxiliaryRegionKinds = map[AuxiliaryKind]RegionKind{
	AuxFastClearPredicate:   RegionFastClearPredicate,
	AuxCompressionPredicate: RegionCompressionPredicate,
	AuxClearValue:           RegionClearValue,
	AuxCompressionState:     RegionCompressionState,
	AuxTCCompatZRange:       RegionTCCompatZRange,
}

// Auxiliary state is written by indirect command stream packets, which need dword alignment
const auxiliaryAlignment uint64 = 4

type auxiliaryRequest struct {
	kind AuxiliaryKind
	size uint64
}

// auxiliaryRequests lists the state regions an image needs, in the order they are appended
func (r *Rules) auxiliaryRequests(img *Image) []auxiliaryRequest {
	desc := &img.Descriptor
	if desc.UsesModifier() {
		return nil
	}

	levels := uint64(desc.MipLevels)
	hasDCC := img.HasDCC(0)
	hasCMask := img.HasCMask()
	var requests []auxiliaryRequest

	if hasCMask || (hasDCC && !img.SupportsCompToSingle) {
		requests = append(requests, auxiliaryRequest{AuxFastClearPredicate, 8 * levels})
	}

	if img.Predication {
		requests = append(requests, auxiliaryRequest{AuxCompressionPredicate, 8 * levels})
	}

	if (hasDCC && !img.SupportsCompToSingle) || hasCMask || img.HasHTile() {
		requests = append(requests, auxiliaryRequest{AuxClearValue, 8 * levels})
	}

	if hasDCC && img.DCCImageStores && desc.HasUsage(core1_0.ImageUsageStorage) {
		requests = append(requests, auxiliaryRequest{AuxCompressionState, 4 * levels * uint64(desc.ArrayLayers)})
	}

	if img.IsTCCompatHTile() && r.caps.TCCompatZRangeBug {
		requests = append(requests, auxiliaryRequest{AuxTCCompatZRange, 4 * levels})
	}

	return requests
}

// appendAuxiliaryRegions places the image's state regions after everything already in binding 0
func (r *Rules) appendAuxiliaryRegions(img *Image) error {
	binding := img.bindings[0]

	for _, request := range r.auxiliaryRequests(img) {
		kind := auxiliaryRegionKinds[request.kind]

		ok, allocRequest, err := binding.CreateAllocationRequest(request.size, auxiliaryAlignment, uint32(kind), math.MaxUint64)
		if err != nil {
			return err
		}
		if !ok {
			return errors.AssertionFailedf("%s region of %d bytes does not fit in the image address space", request.kind, request.size)
		}

		_, err = binding.Alloc(allocRequest, uint32(kind), kind)
		if err != nil {
			return err
		}

		img.AuxRegions = append(img.AuxRegions, AuxiliaryRegion{
			Kind:   request.kind,
			Offset: allocRequest.Item.Offset,
			Size:   request.size,
		})
	}

	return nil
}

type surfaceRegion struct {
	kind   RegionKind
	offset uint64
	size   uint64
}

func surfaceRegions(surf *surface.Surface) []surfaceRegion {
	regions := []surfaceRegion{{RegionSurface, surf.BaseOffset(), surf.SurfSize}}

	if surf.HasFMask() {
		regions = append(regions, surfaceRegion{RegionFMask, surf.FMaskOffset, surf.FMaskSize})
	}
	if surf.HasCMask() {
		regions = append(regions, surfaceRegion{RegionCMask, surf.CMaskOffset, surf.CMaskSize})
	}
	if surf.HasDCC() {
		regions = append(regions, surfaceRegion{RegionDCC, surf.MetaOffset, surf.MetaSize})
	}
	if surf.HasHTile() {
		regions = append(regions, surfaceRegion{RegionHTile, surf.MetaOffset, surf.MetaSize})
	}
	if surf.DisplayDCCSize > 0 {
		regions = append(regions, surfaceRegion{RegionDisplayDCC, surf.DisplayDCCOffset, surf.DisplayDCCSize})
	}

	return regions
}

// recordPlane places every sub-surface of a plane in the plane's binding. It fails if a
// sub-surface collides with one already recorded.
func recordPlane(img *Image, plane int) error {
	planeLayout := &img.Planes[plane]
	binding := img.bindings[planeLayout.Binding]

	for _, region := range surfaceRegions(planeLayout.Surface) {
		_, err := binding.AllocAt(region.offset, region.size, uint32(region.kind), region.kind)
		if err != nil {
			return errors.Wrapf(err, "plane %d %s", plane, region.kind)
		}
	}

	binding.Grow(planeLayout.End())
	return nil
}

// finishBindings grows every binding to its aligned size and sets the image's total size
func finishBindings(img *Image) {
	var size uint64
	for index, binding := range img.bindings {
		alignment := img.Alignment
		if img.Disjoint {
			alignment = img.Planes[index].Alignment
		}

		binding.Grow(memutils.AlignUp(memutils.Max(binding.End(), binding.Size()), alignment))
		size = memutils.Max(size, binding.Size())
	}

	img.Size = memutils.AlignUp(size, img.Alignment)
	if !img.Disjoint {
		img.bindings[0].Grow(img.Size)
	}
}
