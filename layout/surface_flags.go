package layout

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/surface"
)

// IsEmulated returns true if images of the format carry an extra plane holding a decompressed
// copy, because the device cannot sample the format natively
func (r *Rules) IsEmulated(format core1_0.Format) bool {
	if !r.info.EmulateETC2 {
		return false
	}

	desc, ok := formats.Lookup(format)
	return ok && desc.IsETC()
}

// InternalPlaneCount returns the number of surfaces an image of the format is built from
func (r *Rules) InternalPlaneCount(format core1_0.Format) int {
	if r.IsEmulated(format) {
		return 2
	}

	return formats.MustLookup(format).PlaneCount()
}

// PlaneFormat returns the format one surface of an image is laid out with
func (r *Rules) PlaneFormat(format core1_0.Format, plane int) core1_0.Format {
	if r.IsEmulated(format) {
		if plane == 0 {
			return format
		}

		emulated, _ := formats.EmulatedFormat(format)
		return emulated
	}

	return formats.PlaneFormat(format, plane)
}

func surfaceType(desc *ImageDescriptor) surface.Type {
	switch desc.Type {
	case core1_0.ImageType1D:
		if desc.ArrayLayers > 1 {
			return surface.Type1DArray
		}
		return surface.Type1D
	case core1_0.ImageType3D:
		return surface.Type3D
	default:
		if desc.ArrayLayers > 1 {
			return surface.Type2DArray
		}
		return surface.Type2D
	}
}

// SurfaceFlags derives the oracle flags of one plane of an image. signReinterpret is true if the
// plane keeps DCC although a view format reinterprets its signedness.
func (r *Rules) SurfaceFlags(desc *ImageDescriptor, planeFormat core1_0.Format) (flags surface.Flags, signReinterpret bool) {
	format := formats.MustLookup(planeFormat)

	flags.Mode = r.ChooseTiling(desc)
	flags.Type = surfaceType(desc)
	flags.ContiguousDCCLayers = true

	if format.HasDepth() {
		flags.ZBuffer = true

		if format.HasStencil() && r.caps.NoStencilAdjust {
			if !desc.HasUsage(core1_0.ImageUsageDepthStencilAttachment) {
				flags.NoRenderTarget = true
			}
			flags.NoStencilAdjust = true
		}

		if r.UseHTile(desc) && !r.debug(hwinfo.DebugNoHiZ) && !flags.NoRenderTarget {
			flags.TCCompatibleHTile = r.UseTCCompatHTile(desc)
		} else {
			flags.NoHTile = true
		}
	}

	if format.HasStencil() {
		flags.SBuffer = true
	}

	if r.caps.Compressed3DNoRenderTarget && desc.Type == core1_0.ImageType3D &&
		format.BlockBits == 128 && format.IsCompressed() {
		flags.NoRenderTarget = true
	}

	var useDCC bool
	useDCC, signReinterpret = r.UseDCCEarly(desc, planeFormat)
	flags.DisableDCC = !useDCC

	flags.NoFMask = !r.UseFMask(desc)

	if desc.HasFlag(core1_0.ImageCreateSparseResidency) {
		flags.PRT = true
		flags.NoFMask = true
		flags.NoHTile = true
		flags.DisableDCC = true
	}

	if desc.HasUsage(ImageUsageFragmentShadingRateAttachment) {
		flags.VRSRate = true
		flags.DisableDCC = true
	}

	if !desc.HasUsage(core1_0.ImageUsageSampled | core1_0.ImageUsageStorage) {
		flags.NoTexture = true
	}

	return flags, signReinterpret
}
