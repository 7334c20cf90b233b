package layout

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// Usage bits added by extensions the planner understands
const (
	ImageUsageFragmentShadingRateAttachment core1_0.ImageUsageFlags = 0x00000100
	ImageUsageVideoDecodeDst                core1_0.ImageUsageFlags = 0x00000400
	ImageUsageVideoDecodeSrc                core1_0.ImageUsageFlags = 0x00000800
	ImageUsageVideoDecodeDPB                core1_0.ImageUsageFlags = 0x00001000
	ImageUsageAttachmentFeedbackLoop        core1_0.ImageUsageFlags = 0x00080000
)

// Creation flags added by extensions the planner understands
const (
	ImageCreateDisjoint             core1_0.ImageCreateFlags = 0x00000200
	ImageCreateAlias                core1_0.ImageCreateFlags = 0x00000400
	ImageCreate2DArrayCompatible    core1_0.ImageCreateFlags = 0x00000020
	ImageCreateBlockTexelViewCompat core1_0.ImageCreateFlags = 0x00000080
	ImageCreate2DViewCompatible     core1_0.ImageCreateFlags = 0x00020000
)

// ImageTilingDRMFormatModifier requests a layout named by a DRM format modifier
const ImageTilingDRMFormatModifier core1_0.ImageTiling = 1000158000

// Image layouts added by extensions the planner understands
const (
	ImageLayoutDepthAttachmentOptimal   core1_0.ImageLayout = 1000241000
	ImageLayoutDepthReadOnlyOptimal     core1_0.ImageLayout = 1000241001
	ImageLayoutStencilAttachmentOptimal core1_0.ImageLayout = 1000241002
	ImageLayoutStencilReadOnlyOptimal   core1_0.ImageLayout = 1000241003
	ImageLayoutPresentSrc               core1_0.ImageLayout = 1000001002
	ImageLayoutSharedPresent            core1_0.ImageLayout = 1000111000
	ImageLayoutReadOnlyOptimal          core1_0.ImageLayout = 1000314000
	ImageLayoutAttachmentOptimal        core1_0.ImageLayout = 1000314001
	ImageLayoutAttachmentFeedbackLoop   core1_0.ImageLayout = 1000339000

	ImageLayoutDepthReadOnlyStencilAttachmentOptimal core1_0.ImageLayout = 1000117000
	ImageLayoutDepthAttachmentStencilReadOnlyOptimal core1_0.ImageLayout = 1000117001
)

// Aspect bits added by extensions the planner understands
const (
	ImageAspectPlane0       core1_0.ImageAspectFlags = 0x00000010
	ImageAspectPlane1       core1_0.ImageAspectFlags = 0x00000020
	ImageAspectPlane2       core1_0.ImageAspectFlags = 0x00000040
	ImageAspectMemoryPlane0 core1_0.ImageAspectFlags = 0x00000080
	ImageAspectMemoryPlane1 core1_0.ImageAspectFlags = 0x00000100
	ImageAspectMemoryPlane2 core1_0.ImageAspectFlags = 0x00000200
	ImageAspectMemoryPlane3 core1_0.ImageAspectFlags = 0x00000400
)

// Result codes added by extensions the planner reports
const (
	VKErrorInvalidExternalHandle               common.VkResult = -1000072003
	VKErrorInvalidDRMFormatModifierPlaneLayout common.VkResult = -1000158000
)

// PlaneFromAspect returns the plane index an aspect selects. Colour, depth and stencil aspects
// select plane 0.
func PlaneFromAspect(aspect core1_0.ImageAspectFlags) int {
	switch aspect {
	case ImageAspectPlane1, ImageAspectMemoryPlane1:
		return 1
	case ImageAspectPlane2, ImageAspectMemoryPlane2:
		return 2
	case ImageAspectMemoryPlane3:
		return 3
	default:
		return 0
	}
}

// AspectForPlane returns the aspect bit that selects one plane of a multi-planar image
func AspectForPlane(plane int) core1_0.ImageAspectFlags {
	switch plane {
	case 1:
		return ImageAspectPlane1
	case 2:
		return ImageAspectPlane2
	default:
		return ImageAspectPlane0
	}
}
