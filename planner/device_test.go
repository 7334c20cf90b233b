package planner_test

import (
	"io"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/planner"
	"github.com/vkngwrapper/imagelayout/projection"
	"golang.org/x/exp/slog"
)

func newDevice(t *testing.T, generation hwinfo.Generation, options planner.CreateOptions) *planner.Device {
	logger := slog.New(slog.NewTextHandler(io.Discard))
	device, err := planner.New(logger, hwinfo.NewInfo(generation), nil, nil, options)
	require.NoError(t, err)
	return device
}

func image2D(format core1_0.Format, width, height int, usage core1_0.ImageUsageFlags) *layout.ImageDescriptor {
	return &layout.ImageDescriptor{
		Type:        core1_0.ImageType2D,
		Format:      format,
		Extent:      core1_0.Extent3D{Width: width, Height: height, Depth: 1},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     core1_0.Samples1,
		Tiling:      core1_0.ImageTilingOptimal,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	}
}

func colorTarget(width, height int) *layout.ImageDescriptor {
	return image2D(core1_0.FormatR8G8B8A8UnsignedNormalized, width, height,
		core1_0.ImageUsageColorAttachment|core1_0.ImageUsageSampled)
}

func createImage(t *testing.T, device *planner.Device, desc *layout.ImageDescriptor) planner.ImageHandle {
	handle, res, err := device.CreateImage(desc)
	require.NoError(t, err)
	require.Equal(t, core1_0.VKSuccess, res)
	require.NotZero(t, handle)
	return handle
}

func TestCreateImageMemoryRequirements(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	handle := createImage(t, device, colorTarget(512, 512))

	reqs, err := device.GetImageMemoryRequirements(handle, core1_0.ImageAspectColor)
	require.NoError(t, err)
	require.Equal(t, 1114112, reqs.Size)
	require.Equal(t, 65536, reqs.Alignment)
	require.NotZero(t, reqs.MemoryTypeBits)

	img, err := device.Image(handle)
	require.NoError(t, err)
	require.True(t, img.HasDCC(0))
	require.False(t, img.IsBound())
}

func TestCreateDisjointImageMemoryRequirements(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	desc := image2D(formats.FormatG8B8R82Plane420UNorm, 256, 256, core1_0.ImageUsageSampled)
	desc.Flags = layout.ImageCreateDisjoint
	handle := createImage(t, device, desc)

	luma, err := device.GetImageMemoryRequirements(handle, layout.ImageAspectPlane0)
	require.NoError(t, err)
	require.Equal(t, 65536, luma.Size)

	chroma, err := device.GetImageMemoryRequirements(handle, layout.ImageAspectPlane1)
	require.NoError(t, err)
	require.Equal(t, 32768, chroma.Size)
	require.Equal(t, 4096, chroma.Alignment)

	_, err = device.GetImageMemoryRequirements(handle, core1_0.ImageAspectColor)
	require.Error(t, err)
}

var createImageFailureTestCases = map[string]struct {
	Mutate func(desc *layout.ImageDescriptor)
	Result common.VkResult
	Err    error
}{
	"NoLevels": {
		Mutate: func(desc *layout.ImageDescriptor) { desc.MipLevels = 0 },
		Result: core1_0.VKErrorFormatNotSupported,
		Err:    layout.ErrInvalidDescriptor,
	},
	"UnknownFormat": {
		Mutate: func(desc *layout.ImageDescriptor) { desc.Format = core1_0.Format(999999) },
		Result: core1_0.VKErrorFormatNotSupported,
		Err:    layout.ErrInvalidDescriptor,
	},
	"ConcurrentWithoutQueues": {
		Mutate: func(desc *layout.ImageDescriptor) { desc.SharingMode = core1_0.SharingModeConcurrent },
		Result: core1_0.VKErrorFormatNotSupported,
		Err:    layout.ErrInvalidDescriptor,
	},
}

func TestCreateImageFailures(t *testing.T) {
	for testName, testCase := range createImageFailureTestCases {
		t.Run(testName, func(t *testing.T) {
			device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
			desc := colorTarget(512, 512)
			testCase.Mutate(desc)

			handle, res, err := device.CreateImage(desc)
			require.Error(t, err)
			require.True(t, errors.Is(err, testCase.Err))
			require.Equal(t, testCase.Result, res)
			require.Zero(t, handle)
			require.Zero(t, device.CalculateStatistics().ImageCount)
		})
	}
}

func TestCreateImageFromNilDescriptor(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	_, res, err := device.CreateImage(nil)
	require.Error(t, err)
	require.Equal(t, core1_0.VKErrorUnknown, res)
}

func TestNewRejectsUnknownGeneration(t *testing.T) {
	info := hwinfo.NewInfo(hwinfo.GFX10_3)
	info.Generation = hwinfo.Generation(99)

	_, err := planner.New(slog.New(slog.NewTextHandler(io.Discard)), info, nil, nil, planner.CreateOptions{})
	require.Error(t, err)
}

func TestCreateOptionsDebugFlags(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{DebugFlags: hwinfo.DebugNoDCC | hwinfo.DebugImages})
	require.NotZero(t, device.Info().DebugFlags&hwinfo.DebugNoDCC)

	handle := createImage(t, device, colorTarget(1024, 1024))
	img, err := device.Image(handle)
	require.NoError(t, err)
	require.False(t, img.HasDCC(0))
}

func TestBindImageMemory(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	handle := createImage(t, device, colorTarget(512, 512))

	res, err := device.BindImageMemory(handle, 0, layout.MemoryBinding{Memory: 1, Offset: 4096})
	require.Error(t, err)
	require.NotEqual(t, core1_0.VKSuccess, res)

	res, err = device.BindImageMemory(handle, 0, layout.MemoryBinding{Memory: 1, Offset: 65536, Address: 0x200000})
	require.NoError(t, err)
	require.Equal(t, core1_0.VKSuccess, res)

	img, err := device.Image(handle)
	require.NoError(t, err)
	require.True(t, img.IsBound())
	require.Equal(t, uint64(0x200000), img.PlaneAddress(0))
}

func TestBindWhileCreatingViews(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	handle := createImage(t, device, colorTarget(512, 512))

	img, err := device.Image(handle)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 64; i++ {
			require.NoError(t, img.Bind(0, layout.MemoryBinding{Memory: uint64(i + 1), Address: uint64(i+1) << 20}))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 64; i++ {
			viewHandle, _, err := device.CreateImageView(handle, projection.ViewRequest{
				Type:   core1_0.ImageViewType2D,
				Aspect: core1_0.ImageAspectColor,
			})
			require.NoError(t, err)
			require.NoError(t, device.DestroyImageView(viewHandle))
		}
	}()
	wg.Wait()

	require.True(t, img.IsBound())
	require.Equal(t, uint64(64)<<20, img.PlaneAddress(0))
	require.Contains(t, img.String(), `"Bound":true`)
}

func TestGetImageSubresourceLayout(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	desc := colorTarget(256, 256)
	desc.Tiling = core1_0.ImageTilingLinear
	desc.ArrayLayers = 2
	handle := createImage(t, device, desc)

	first, err := device.GetImageSubresourceLayout(handle, core1_0.ImageAspectColor, 0, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, first.RowPitch, uint64(256*4))

	second, err := device.GetImageSubresourceLayout(handle, core1_0.ImageAspectColor, 0, 1)
	require.NoError(t, err)
	require.Equal(t, first.Offset+first.ArrayPitch, second.Offset)

	_, err = device.GetImageSubresourceLayout(handle, core1_0.ImageAspectColor, 1, 0)
	require.Error(t, err)
}

func TestImageViewLifetime(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	handle := createImage(t, device, colorTarget(512, 512))

	viewHandle, res, err := device.CreateImageView(handle, projection.ViewRequest{
		Type:   core1_0.ImageViewType2D,
		Aspect: core1_0.ImageAspectColor,
	})
	require.NoError(t, err)
	require.Equal(t, core1_0.VKSuccess, res)

	view, err := device.ImageView(viewHandle)
	require.NoError(t, err)
	require.Equal(t, 512, view.Width)
	require.True(t, view.SupportsFastClear)

	require.Error(t, device.DestroyImage(handle))

	require.NoError(t, device.DestroyImageView(viewHandle))
	_, err = device.ImageView(viewHandle)
	require.True(t, errors.Is(err, planner.ErrUnknownImageView))
	require.True(t, errors.Is(device.DestroyImageView(viewHandle), planner.ErrUnknownImageView))

	require.NoError(t, device.DestroyImage(handle))
	_, err = device.Image(handle)
	require.True(t, errors.Is(err, planner.ErrUnknownImage))
}

func TestCreateImageViewRejectsInvalidRequest(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	handle := createImage(t, device, colorTarget(512, 512))

	_, res, err := device.CreateImageView(handle, projection.ViewRequest{
		Type:      core1_0.ImageViewType2D,
		Aspect:    core1_0.ImageAspectColor,
		BaseLevel: 3,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, layout.ErrInvalidDescriptor))
	require.NotEqual(t, core1_0.VKSuccess, res)
	require.Zero(t, device.CalculateStatistics().ImageViewCount)
	require.NoError(t, device.DestroyImage(handle))
}

var unknownHandle = planner.ImageHandle(12345)

func TestUnknownImageHandle(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})

	_, err := device.Image(unknownHandle)
	require.True(t, errors.Is(err, planner.ErrUnknownImage))
	require.True(t, errors.Is(device.DestroyImage(unknownHandle), planner.ErrUnknownImage))

	_, err = device.BindImageMemory(unknownHandle, 0, layout.MemoryBinding{})
	require.True(t, errors.Is(err, planner.ErrUnknownImage))

	_, err = device.GetImageMemoryRequirements(unknownHandle, core1_0.ImageAspectColor)
	require.True(t, errors.Is(err, planner.ErrUnknownImage))

	_, _, err = device.CreateImageView(unknownHandle, projection.ViewRequest{Aspect: core1_0.ImageAspectColor})
	require.True(t, errors.Is(err, planner.ErrUnknownImage))

	_, _, err = device.ExportImageMetadata(unknownHandle)
	require.True(t, errors.Is(err, planner.ErrUnknownImage))
}

func TestExportedMetadataImportsOnAnotherDevice(t *testing.T) {
	exporter := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	exported := createImage(t, exporter, colorTarget(512, 512))

	md, res, err := exporter.ExportImageMetadata(exported)
	require.NoError(t, err)
	require.Equal(t, core1_0.VKSuccess, res)

	importer := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	desc := colorTarget(512, 512)
	desc.BOMetadata = md
	imported := createImage(t, importer, desc)

	original, err := exporter.Image(exported)
	require.NoError(t, err)
	img, err := importer.Image(imported)
	require.NoError(t, err)
	require.True(t, img.HasDCC(0))
	require.Equal(t, original.Size, img.Size)
	require.Equal(t, original.Plane(0).Surface.MetaOffset, img.Plane(0).Surface.MetaOffset)
}

func TestExportMultiPlanarImageFails(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	handle := createImage(t, device, image2D(formats.FormatETC2R8G8B8A8UNormBlock, 256, 256, core1_0.ImageUsageSampled))

	_, res, err := device.ExportImageMetadata(handle)
	require.Error(t, err)
	require.NotEqual(t, core1_0.VKSuccess, res)
}

func TestProjectLayout(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})
	handle := createImage(t, device, colorTarget(512, 512))

	queues, err := device.QueueFamilyMask(handle, hwinfo.QueueIgnored, hwinfo.QueueGeneral)
	require.NoError(t, err)
	require.Equal(t, hwinfo.QueueMaskOf(hwinfo.QueueGeneral), queues)

	state := projection.State{Layout: core1_0.ImageLayoutColorAttachmentOptimal, Queues: queues}
	projected, err := device.ProjectLayout(handle, state)
	require.NoError(t, err)

	img, err := device.Image(handle)
	require.NoError(t, err)
	require.Equal(t, device.Projector().Project(img, state), projected)
	require.True(t, projected.DCCCompressed)
	require.NotEqual(t, projection.FastClearNone, projected.FastClear)
}

type hostMemoryCounter struct {
	mutex     sync.Mutex
	live      map[planner.ObjectKind]int
	allocated int
	refuse    planner.ObjectKind
	refusing  bool
}

func (c *hostMemoryCounter) callbacks() *planner.HostMemoryCallbacks {
	return &planner.HostMemoryCallbacks{
		Allocate: func(device *planner.Device, kind planner.ObjectKind, size int, userData interface{}) bool {
			counter := userData.(*hostMemoryCounter)
			counter.mutex.Lock()
			defer counter.mutex.Unlock()

			if counter.refusing && kind == counter.refuse {
				return false
			}
			counter.live[kind] += size
			counter.allocated++
			return true
		},
		Free: func(device *planner.Device, kind planner.ObjectKind, size int, userData interface{}) {
			counter := userData.(*hostMemoryCounter)
			counter.mutex.Lock()
			defer counter.mutex.Unlock()

			counter.live[kind] -= size
		},
		UserData: c,
	}
}

func TestHostMemoryCallbacksBalance(t *testing.T) {
	counter := &hostMemoryCounter{live: map[planner.ObjectKind]int{}}
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{HostMemoryCallbacks: counter.callbacks()})

	handle := createImage(t, device, colorTarget(512, 512))
	viewHandle, _, err := device.CreateImageView(handle, projection.ViewRequest{
		Type:   core1_0.ImageViewType2D,
		Aspect: core1_0.ImageAspectColor,
	})
	require.NoError(t, err)
	require.Equal(t, 2, counter.allocated)
	require.Positive(t, counter.live[planner.ObjectImage])
	require.Positive(t, counter.live[planner.ObjectImageView])

	require.NoError(t, device.DestroyImageView(viewHandle))
	require.NoError(t, device.DestroyImage(handle))
	require.Zero(t, counter.live[planner.ObjectImage])
	require.Zero(t, counter.live[planner.ObjectImageView])
}

func TestHostMemoryCallbacksRefuse(t *testing.T) {
	for _, kind := range []planner.ObjectKind{planner.ObjectImage, planner.ObjectImageView} {
		t.Run(kind.String(), func(t *testing.T) {
			counter := &hostMemoryCounter{live: map[planner.ObjectKind]int{}, refuse: kind, refusing: true}
			device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{HostMemoryCallbacks: counter.callbacks()})

			handle, res, err := device.CreateImage(colorTarget(512, 512))
			if kind == planner.ObjectImage {
				require.True(t, errors.Is(err, layout.ErrOutOfHostMemory))
				require.Equal(t, core1_0.VKErrorOutOfHostMemory, res)
				require.Zero(t, device.CalculateStatistics().ImageCount)
				return
			}
			require.NoError(t, err)

			_, res, err = device.CreateImageView(handle, projection.ViewRequest{
				Type:   core1_0.ImageViewType2D,
				Aspect: core1_0.ImageAspectColor,
			})
			require.True(t, errors.Is(err, layout.ErrOutOfHostMemory))
			require.Equal(t, core1_0.VKErrorOutOfHostMemory, res)
			require.NoError(t, device.DestroyImage(handle))
		})
	}
}

func TestDestroyReleasesLeakedObjects(t *testing.T) {
	counter := &hostMemoryCounter{live: map[planner.ObjectKind]int{}}
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{HostMemoryCallbacks: counter.callbacks()})

	handle := createImage(t, device, colorTarget(512, 512))
	_, _, err := device.CreateImageView(handle, projection.ViewRequest{
		Type:   core1_0.ImageViewType2D,
		Aspect: core1_0.ImageAspectColor,
	})
	require.NoError(t, err)

	require.NoError(t, device.Destroy())
	require.Zero(t, counter.live[planner.ObjectImage])
	require.Zero(t, counter.live[planner.ObjectImageView])
	require.Zero(t, device.CalculateStatistics().ImageCount)
}

func TestConcurrentImageCreation(t *testing.T) {
	device := newDevice(t, hwinfo.GFX10_3, planner.CreateOptions{})

	const goroutines = 8
	handles := make([][]planner.ImageHandle, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			for j := 0; j < 16; j++ {
				handle, _, err := device.CreateImage(colorTarget(512, 512))
				if err != nil {
					return
				}
				handles[index] = append(handles[index], handle)
			}
		}(i)
	}
	wg.Wait()

	seen := map[planner.ImageHandle]bool{}
	for _, list := range handles {
		require.Len(t, list, 16)
		for _, handle := range list {
			require.False(t, seen[handle])
			seen[handle] = true
		}
	}
	require.Equal(t, goroutines*16, device.CalculateStatistics().ImageCount)
}

func TestExternallySynchronizedDevice(t *testing.T) {
	device := newDevice(t, hwinfo.GFX9, planner.CreateOptions{Flags: planner.DeviceCreateExternallySynchronized})
	require.Equal(t, "DeviceCreateExternallySynchronized", planner.DeviceCreateExternallySynchronized.String())

	handle := createImage(t, device, colorTarget(256, 256))
	require.NoError(t, device.DestroyImage(handle))
}
