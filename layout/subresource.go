package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/memutils"
	"github.com/vkngwrapper/imagelayout/surface"
)

// SubresourceLayout is the placement of one level and layer of one aspect of an image. Offsets
// are relative to the start of the aspect's binding.
type SubresourceLayout struct {
	Offset     uint64
	Size       uint64
	RowPitch   uint64
	ArrayPitch uint64
	DepthPitch uint64
}

// SubresourceLayout returns where one level and layer of an aspect of the image lives
func (i *Image) SubresourceLayout(calc surface.Calculator, aspect core1_0.ImageAspectFlags, level int, layer int) (SubresourceLayout, error) {
	if level < 0 || level >= i.Descriptor.MipLevels || layer < 0 || layer >= i.Descriptor.ArrayLayers {
		return SubresourceLayout{}, errors.Newf("subresource level %d layer %d is outside an image with %d levels and %d layers",
			level, layer, i.Descriptor.MipLevels, i.Descriptor.ArrayLayers)
	}

	plane := PlaneFromAspect(aspect)

	if i.Descriptor.UsesModifier() {
		return i.modifierSubresourceLayout(calc, plane, level, layer)
	}

	if plane >= i.PlaneCount() {
		return SubresourceLayout{}, errors.Newf("aspect %s selects plane %d of an image with %d planes", aspect, plane, i.PlaneCount())
	}

	surf := i.Planes[plane].Surface
	bpe := uint64(surf.BytesPerElement)
	stencil := aspect == core1_0.ImageAspectStencil && surf.HasStencil

	var result SubresourceLayout
	switch layout := surf.Layout.(type) {
	case *surface.GFX9Layout:
		var levelOffset uint64
		if surf.IsLinear {
			levelOffset = layout.LevelOffsets[level]
		}

		result.Offset = calc.PlaneOffset(surf, 0, layer) + levelOffset
		if stencil {
			result.Offset = layout.StencilOffset + uint64(layer)*layout.SurfSliceSize
		}

		result.RowPitch = calc.PlaneStride(surf, 0, level)
		result.ArrayPitch = layout.SurfSliceSize
		result.DepthPitch = layout.SurfSliceSize
		result.Size = layout.SurfSliceSize
	case *surface.LegacyLayout:
		levels := layout.Levels
		if stencil && len(layout.StencilLevels) > 0 {
			levels = layout.StencilLevels
		}

		result.Offset = levels[level].Offset + levels[level].SliceSize*uint64(layer)
		result.RowPitch = uint64(levels[level].Pitch) * bpe
		result.ArrayPitch = levels[level].SliceSize
		result.DepthPitch = levels[level].SliceSize
		result.Size = levels[level].SliceSize
	default:
		return SubresourceLayout{}, errors.AssertionFailedf("plane %d has no computed layout", plane)
	}

	if i.Descriptor.Type == core1_0.ImageType3D {
		result.Size *= uint64(memutils.Minify(i.Descriptor.Depth(), level))
	}

	return result, nil
}

func (i *Image) modifierSubresourceLayout(calc surface.Calculator, memoryPlane int, level int, layer int) (SubresourceLayout, error) {
	if level != 0 || layer != 0 {
		return SubresourceLayout{}, errors.Newf("modifier images only expose level 0 layer 0, not level %d layer %d", level, layer)
	}

	// Multi-planar formats give every format plane one memory plane. Single-plane formats
	// expose their metadata as extra memory planes of plane 0.
	plane := 0
	if i.PlaneCount() > 1 {
		plane, memoryPlane = memoryPlane, 0
	}

	if plane >= i.PlaneCount() {
		return SubresourceLayout{}, errors.Newf("image has no plane %d", plane)
	}

	surf := i.Planes[plane].Surface
	if memoryPlane >= calc.MemoryPlaneCount(surf) {
		return SubresourceLayout{}, errors.Newf("modifier %#x has no memory plane %d", uint64(i.Modifier), memoryPlane)
	}

	return SubresourceLayout{
		Offset:   calc.PlaneOffset(surf, memoryPlane, layer),
		RowPitch: calc.PlaneStride(surf, memoryPlane, level),
		Size:     calc.PlaneSize(surf, memoryPlane),
	}, nil
}

// MemoryRequirements returns the size and alignment of the memory an aspect of the image must be
// bound to. Aspects of non-disjoint images all share one binding.
func (i *Image) MemoryRequirements(aspect core1_0.ImageAspectFlags) (size uint64, alignment uint64, err error) {
	if !i.Disjoint {
		size, alignment = i.BindingSize(0)
		return size, alignment, nil
	}

	switch aspect {
	case ImageAspectPlane0, ImageAspectPlane1, ImageAspectPlane2:
	default:
		return 0, 0, errors.Newf("disjoint images need a plane aspect, not %s", aspect)
	}

	binding := PlaneFromAspect(aspect)
	if binding >= i.BindingCount() {
		return 0, 0, errors.Newf("aspect %s selects binding %d of an image with %d bindings", aspect, binding, i.BindingCount())
	}

	size, alignment = i.BindingSize(binding)
	return size, alignment, nil
}
