package planner_test

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/planner"
	"github.com/vkngwrapper/imagelayout/winsys"
	mock_winsys "github.com/vkngwrapper/imagelayout/winsys/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

func sparseImage() *layout.ImageDescriptor {
	desc := colorTarget(256, 256)
	desc.Flags = core1_0.ImageCreateSparseBinding
	return desc
}

func newMockedDevice(t *testing.T, ws winsys.Winsys, options planner.CreateOptions) *planner.Device {
	logger := slog.New(slog.NewTextHandler(io.Discard))
	device, err := planner.New(logger, hwinfo.NewInfo(hwinfo.GFX10_3), nil, ws, options)
	require.NoError(t, err)
	return device
}

func TestSparseImageReservesAddressRange(t *testing.T) {
	ctrl := gomock.NewController(t)

	ws := mock_winsys.NewMockWinsys(ctrl)
	buffer := mock_winsys.NewMockBuffer(ctrl)
	buffer.EXPECT().Handle().Return(uint64(17)).AnyTimes()
	buffer.EXPECT().Address().Return(uint64(0x800000000)).AnyTimes()

	var size, alignment uint64
	ws.EXPECT().CreateBuffer(gomock.Any(), gomock.Any(), winsys.BufferVirtual).DoAndReturn(
		func(requestedSize, requestedAlignment uint64, flags winsys.BufferFlags) (winsys.Buffer, error) {
			size = requestedSize
			alignment = requestedAlignment
			return buffer, nil
		})

	device := newMockedDevice(t, ws, planner.CreateOptions{})
	handle := createImage(t, device, sparseImage())

	img, err := device.Image(handle)
	require.NoError(t, err)
	require.Equal(t, img.Size, size)
	require.Equal(t, img.Alignment, alignment)
	require.Zero(t, alignment%layout.SparseAlignment)

	memory, bound := img.Bound(0)
	require.True(t, bound)
	require.Equal(t, uint64(17), memory.Memory)
	require.Equal(t, uint64(0x800000000), img.PlaneAddress(0))

	_, err = device.BindImageMemory(handle, 0, layout.MemoryBinding{Memory: 1})
	require.Error(t, err)

	require.Equal(t, 1, device.CalculateStatistics().SparseImageCount)

	ws.EXPECT().DestroyBuffer(buffer).Return(nil)
	require.NoError(t, device.DestroyImage(handle))
}

func TestSparseImageAllocationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	ws := mock_winsys.NewMockWinsys(ctrl)
	ws.EXPECT().CreateBuffer(gomock.Any(), gomock.Any(), winsys.BufferVirtual).Return(nil, winsys.ErrAddressSpaceExhausted)

	counter := &hostMemoryCounter{live: map[planner.ObjectKind]int{}}
	device := newMockedDevice(t, ws, planner.CreateOptions{HostMemoryCallbacks: counter.callbacks()})

	handle, res, err := device.CreateImage(sparseImage())
	require.Error(t, err)
	require.True(t, errors.Is(err, layout.ErrDeviceAllocationFailure))
	require.True(t, errors.Is(err, winsys.ErrAddressSpaceExhausted))
	require.Equal(t, core1_0.VKErrorOutOfDeviceMemory, res)
	require.Zero(t, handle)

	require.Equal(t, 1, counter.allocated)
	require.Zero(t, counter.live[planner.ObjectImage])
	require.Zero(t, device.CalculateStatistics().ImageCount)
}

func TestSparseImageOnSimulatedWinsys(t *testing.T) {
	ws := winsys.NewSimulated(slog.New(slog.NewTextHandler(io.Discard)), winsys.SimulatedOptions{})
	device := newMockedDevice(t, ws, planner.CreateOptions{})

	first := createImage(t, device, sparseImage())
	second := createImage(t, device, sparseImage())
	require.Equal(t, 2, ws.BufferCount())

	firstImage, err := device.Image(first)
	require.NoError(t, err)
	secondImage, err := device.Image(second)
	require.NoError(t, err)
	require.GreaterOrEqual(t, secondImage.PlaneAddress(0), firstImage.PlaneAddress(0)+firstImage.Size)

	require.NoError(t, device.DestroyImage(first))
	require.Equal(t, 1, ws.BufferCount())

	require.NoError(t, device.Destroy())
	require.Zero(t, ws.BufferCount())
}

func TestDestroyReportsWinsysFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	ws := mock_winsys.NewMockWinsys(ctrl)
	buffer := mock_winsys.NewMockBuffer(ctrl)
	buffer.EXPECT().Handle().Return(uint64(3)).AnyTimes()
	buffer.EXPECT().Address().Return(uint64(0x100000000)).AnyTimes()
	ws.EXPECT().CreateBuffer(gomock.Any(), gomock.Any(), winsys.BufferVirtual).Return(buffer, nil)
	ws.EXPECT().DestroyBuffer(buffer).Return(winsys.ErrUnknownBuffer)

	device := newMockedDevice(t, ws, planner.CreateOptions{})
	createImage(t, device, sparseImage())

	err := device.Destroy()
	require.Error(t, err)
	require.True(t, errors.Is(err, winsys.ErrUnknownBuffer))
}
