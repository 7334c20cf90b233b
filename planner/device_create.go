package planner

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/projection"
	"github.com/vkngwrapper/imagelayout/surface"
	"github.com/vkngwrapper/imagelayout/winsys"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific device behaviors to activate or deactivate
type CreateFlags int32

var deviceCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	deviceCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return deviceCreateFlagsMapping.FlagsToString(f)
}

const (
	// DeviceCreateExternallySynchronized ensures that this device and the images and views created
	// from it will not be synchronized internally. The consumer must guarantee they are used from
	// only one goroutine at a time, or are synchronized by some other mechanism.
	DeviceCreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	DeviceCreateExternallySynchronized.Register("DeviceCreateExternallySynchronized")
}

// CreateOptions contains optional settings when creating a device
type CreateOptions struct {
	// Flags indicates specific device behaviors to activate or deactivate
	Flags CreateFlags
	// DebugFlags are added to the debug flags of the hardware description
	DebugFlags hwinfo.DebugFlags
	// ImportPolicy decides how much a mismatch between an imported buffer's metadata and the
	// requested image dimensions is tolerated
	ImportPolicy layout.ImportPolicy

	// HostMemoryCallbacks is an optional set of callbacks executed whenever the device allocates
	// or frees the bookkeeping of an image or view. The allocate callback may refuse, in which
	// case the creation fails with layout.ErrOutOfHostMemory.
	HostMemoryCallbacks *HostMemoryCallbacks
}

// New creates a new Device
//
// info - The hardware the device plans images for
//
// calc - The tiling oracle. If nil, the reference surface.AddrCalculator is used.
//
// ws - The window system sparse images reserve address space from. If nil, an in-process
// winsys.Simulated is used.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, info hwinfo.Info, calc surface.Calculator, ws winsys.Winsys, options CreateOptions) (*Device, error) {
	info.DebugFlags |= options.DebugFlags
	err := info.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "could not create device")
	}

	useMutex := options.Flags&DeviceCreateExternallySynchronized == 0

	if calc == nil {
		calc = surface.NewAddrCalculator(info)
	}
	if ws == nil {
		ws = winsys.NewSimulated(logger, winsys.SimulatedOptions{ExternallySynchronized: !useMutex})
	}

	device := &Device{
		logger:      logger,
		info:        info,
		createFlags: options.Flags,
		winsys:      ws,
		images:      swiss.NewMap[ImageHandle, *deviceImage](42),
		views:       swiss.NewMap[ImageViewHandle, *deviceView](42),
	}
	device.mutex.UseMutex = useMutex
	device.callbacks = hostMemoryCallbacks{
		Callbacks: options.HostMemoryCallbacks,
		Device:    device,
	}

	device.builder = layout.NewBuilder(logger, info, calc, &device.surfIndex, options.ImportPolicy)
	device.projector = projection.New(device.builder.Rules())

	logger.Debug("Device::New",
		slog.String("Generation", info.Generation.String()),
		slog.String("Family", info.Family.String()),
		slog.String("DebugFlags", info.DebugFlags.String()),
		slog.String("Flags", options.Flags.String()),
	)

	return device, nil
}
