package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

var (
	// ErrInvalidDescriptor is returned for image requests the planner cannot lay out at all
	ErrInvalidDescriptor = errors.New("invalid image descriptor")
	// ErrInvalidExternalLayout is returned when imported metadata or an explicit plane layout
	// cannot be honoured
	ErrInvalidExternalLayout = errors.New("invalid external image layout")
	// ErrInvalidPlaneLayout is the ErrInvalidExternalLayout returned for explicit DRM modifier
	// plane layouts
	ErrInvalidPlaneLayout = errors.Wrap(ErrInvalidExternalLayout, "invalid explicit plane layout")
	// ErrUnsupportedModifier is returned when a modifier and its declared memory planes do not
	// match the compression layout. It is also an ErrInvalidPlaneLayout.
	ErrUnsupportedModifier = errors.Wrap(ErrInvalidPlaneLayout, "unsupported modifier combination")
	// ErrOutOfHostMemory is returned when bookkeeping for an image cannot be allocated
	ErrOutOfHostMemory = errors.New("out of host memory")
	// ErrDeviceAllocationFailure is returned when the window system cannot reserve device memory
	// for a sparse image
	ErrDeviceAllocationFailure = errors.New("device allocation failed")
)

// Result translates a planner error into the result code reported to the application
func Result(err error) common.VkResult {
	switch {
	case err == nil:
		return core1_0.VKSuccess
	case errors.Is(err, ErrInvalidPlaneLayout):
		return VKErrorInvalidDRMFormatModifierPlaneLayout
	case errors.Is(err, ErrInvalidExternalLayout):
		return VKErrorInvalidExternalHandle
	case errors.Is(err, ErrOutOfHostMemory):
		return core1_0.VKErrorOutOfHostMemory
	case errors.Is(err, ErrDeviceAllocationFailure):
		return core1_0.VKErrorOutOfDeviceMemory
	case errors.Is(err, ErrInvalidDescriptor):
		return core1_0.VKErrorFormatNotSupported
	default:
		return core1_0.VKErrorUnknown
	}
}
