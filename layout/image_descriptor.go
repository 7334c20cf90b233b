package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_external_memory_capabilities"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/memutils"
	"github.com/vkngwrapper/imagelayout/surface"
	"golang.org/x/exp/slices"
)

// DefaultVideoAlignment is the width and height alignment of video decode surfaces when the
// descriptor does not name one
const DefaultVideoAlignment = 16

// PlaneSubresource is the caller-chosen placement of one memory plane of an image with an
// explicit DRM format modifier
type PlaneSubresource struct {
	Offset   uint64
	RowPitch uint64
}

// DRMModifierLayout names an explicit modifier and the placement of each of its memory planes
type DRMModifierLayout struct {
	Modifier     surface.Modifier
	PlaneLayouts []PlaneSubresource
}

// ImageDescriptor is the logical request an image is planned from. It is not modified by the
// planner.
type ImageDescriptor struct {
	Flags       core1_0.ImageCreateFlags
	Type        core1_0.ImageType
	Format      core1_0.Format
	Extent      core1_0.Extent3D
	MipLevels   int
	ArrayLayers int
	Samples     core1_0.SampleCountFlags
	Tiling      core1_0.ImageTiling
	Usage       core1_0.ImageUsageFlags

	SharingMode core1_0.SharingMode
	// QueueFamilies lists the families that share a concurrent image
	QueueFamilies []hwinfo.QueueFamily

	// ExternalHandleTypes is nonzero for images whose memory may be shared outside the device
	ExternalHandleTypes khr_external_memory_capabilities.ExternalMemoryHandleTypeFlags
	// ViewFormats lists the formats a mutable image will be viewed through. An empty list means
	// any compatible format.
	ViewFormats []core1_0.Format

	// DRMModifier fixes the modifier and plane placement of an ImageTilingDRMFormatModifier image
	DRMModifier *DRMModifierLayout
	// ModifierList lets the planner pick the modifier of an ImageTilingDRMFormatModifier image
	ModifierList []surface.Modifier

	// BOMetadata is the metadata of an imported buffer the image will be bound to
	BOMetadata *surface.BOMetadata
	// Scanout marks the image as displayable
	Scanout bool
	// PrimeBlitSource marks the image as the source of a cross-device copy
	PrimeBlitSource bool
	// NoMetadataPlanes disables every metadata surface
	NoMetadataPlanes bool

	// VideoAlignment is the width and height alignment of video decode surfaces
	VideoAlignment int
}

// SampleCount returns the number of samples per pixel
func (d *ImageDescriptor) SampleCount() int {
	return memutils.Max(1, int(d.Samples))
}

func (d *ImageDescriptor) Width() int  { return int(d.Extent.Width) }
func (d *ImageDescriptor) Height() int { return int(d.Extent.Height) }
func (d *ImageDescriptor) Depth() int  { return memutils.Max(1, int(d.Extent.Depth)) }

// HasUsage returns true if the image has any of the usage bits
func (d *ImageDescriptor) HasUsage(usage core1_0.ImageUsageFlags) bool {
	return d.Usage&usage != 0
}

// HasFlag returns true if the image has any of the creation flags
func (d *ImageDescriptor) HasFlag(flag core1_0.ImageCreateFlags) bool {
	return d.Flags&flag != 0
}

func (d *ImageDescriptor) IsShareable() bool {
	return d.ExternalHandleTypes != 0
}

func (d *ImageDescriptor) IsMutable() bool {
	return d.HasFlag(core1_0.ImageCreateMutableFormat)
}

// UsesModifier returns true if the image layout is named by a DRM format modifier
func (d *ImageDescriptor) UsesModifier() bool {
	return d.Tiling == ImageTilingDRMFormatModifier
}

func (d *ImageDescriptor) isVideoDecodeSurface() bool {
	return d.HasUsage(ImageUsageVideoDecodeDst | ImageUsageVideoDecodeDPB)
}

func (d *ImageDescriptor) videoAlignment() int {
	if d.VideoAlignment > 0 {
		return d.VideoAlignment
	}
	return DefaultVideoAlignment
}

// Validate rejects descriptors the planner cannot lay out at all
func (d *ImageDescriptor) Validate() error {
	desc, ok := formats.Lookup(d.Format)
	if !ok {
		return errors.Wrapf(ErrInvalidDescriptor, "format %d is not supported", int(d.Format))
	}

	if d.Width() < 1 || d.Height() < 1 || int(d.Extent.Depth) < 1 {
		return errors.Wrapf(ErrInvalidDescriptor, "extent %dx%dx%d is empty", d.Width(), d.Height(), int(d.Extent.Depth))
	}

	if d.MipLevels < 1 || d.ArrayLayers < 1 {
		return errors.Wrapf(ErrInvalidDescriptor, "image has %d levels and %d layers", d.MipLevels, d.ArrayLayers)
	}

	if memutils.CheckPow2(d.SampleCount(), "samples") != nil || d.SampleCount() > 16 {
		return errors.Wrapf(ErrInvalidDescriptor, "invalid sample count %d", int(d.Samples))
	}

	if d.Type == core1_0.ImageType3D && d.ArrayLayers > 1 {
		return errors.Wrap(ErrInvalidDescriptor, "3D images cannot have array layers")
	}

	if d.SampleCount() > 1 && (d.MipLevels > 1 || d.Type != core1_0.ImageType2D) {
		return errors.Wrap(ErrInvalidDescriptor, "multisampled images must be single-level 2D images")
	}

	if d.HasFlag(ImageCreateDisjoint) && !desc.IsMultiPlanar() {
		return errors.Wrapf(ErrInvalidDescriptor, "disjoint image format %s has a single plane", desc.Name)
	}

	if d.SharingMode == core1_0.SharingModeConcurrent && len(d.QueueFamilies) == 0 {
		return errors.Wrap(ErrInvalidDescriptor, "concurrent image names no queue families")
	}

	if d.UsesModifier() {
		if d.DRMModifier == nil && len(d.ModifierList) == 0 {
			return errors.Wrap(ErrInvalidDescriptor, "modifier tiling without an explicit modifier or a modifier list")
		}
		if d.DRMModifier != nil && len(d.DRMModifier.PlaneLayouts) == 0 {
			return errors.Wrap(ErrInvalidDescriptor, "explicit modifier without plane layouts")
		}
	}

	return nil
}

func (d *ImageDescriptor) anyViewFormat(predicate func(format core1_0.Format) bool) bool {
	return slices.IndexFunc(d.ViewFormats, predicate) >= 0
}
