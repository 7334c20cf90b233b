package projection_test

import (
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/projection"
	"github.com/vkngwrapper/imagelayout/surface"
	"golang.org/x/exp/slog"
)

type fixture struct {
	builder   *layout.Builder
	projector *projection.Projector
}

func newFixture(info hwinfo.Info) *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard))
	builder := layout.NewBuilder(logger, info, surface.NewAddrCalculator(info), &atomic.Uint32{}, layout.ImportPolicy{})
	return &fixture{
		builder:   builder,
		projector: projection.New(builder.Rules()),
	}
}

func (f *fixture) build(t *testing.T, desc *layout.ImageDescriptor) *layout.Image {
	img, err := f.builder.Build(desc)
	require.NoError(t, err)
	return img
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

func depthTarget(sampled bool) *layout.ImageDescriptor {
	usage := core1_0.ImageUsageDepthStencilAttachment
	if sampled {
		usage |= core1_0.ImageUsageSampled
	}
	return image2D(core1_0.FormatD32SignedFloat, 256, 256, usage)
}

var (
	general        = hwinfo.QueueMaskOf(hwinfo.QueueGeneral)
	compute        = hwinfo.QueueMaskOf(hwinfo.QueueCompute)
	generalCompute = general | compute
)

func TestQueueFamilyMask(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	exclusive := f.build(t, colorTarget(256, 256))

	require.Equal(t, compute, projection.QueueFamilyMask(exclusive, hwinfo.QueueCompute, hwinfo.QueueGeneral))
	require.Equal(t, general, projection.QueueFamilyMask(exclusive, hwinfo.QueueIgnored, hwinfo.QueueGeneral))

	foreign := projection.QueueFamilyMask(exclusive, hwinfo.QueueForeign, hwinfo.QueueGeneral)
	require.True(t, foreign.Has(hwinfo.QueueForeign))
	require.True(t, foreign.Has(hwinfo.QueueGeneral))
	require.True(t, foreign.Has(hwinfo.QueueVideoEncode))

	desc := colorTarget(256, 256)
	desc.SharingMode = core1_0.SharingModeConcurrent
	desc.QueueFamilies = []hwinfo.QueueFamily{hwinfo.QueueGeneral, hwinfo.QueueTransfer}
	concurrent := f.build(t, desc)

	expected := general | hwinfo.QueueMaskOf(hwinfo.QueueTransfer)
	require.Equal(t, expected, projection.QueueFamilyMask(concurrent, hwinfo.QueueCompute, hwinfo.QueueGeneral))
	require.Equal(t, expected, projection.QueueFamilyMask(concurrent, hwinfo.QueueForeign, hwinfo.QueueCompute))
}

var htileTestCases = map[string]struct {
	Sampled   bool
	NoGeneral bool
	Layout    core1_0.ImageLayout
	Queues    hwinfo.QueueMask
	Expected  bool
}{
	"AttachmentOptimal": {
		Layout: core1_0.ImageLayoutDepthStencilAttachmentOptimal, Queues: general, Expected: true,
	},
	"DepthAttachmentOptimal": {
		Layout: layout.ImageLayoutDepthAttachmentOptimal, Queues: general, Expected: true,
	},
	"TransferDstOnGeneralQueue": {
		Layout: core1_0.ImageLayoutTransferDstOptimal, Queues: general, Expected: true,
	},
	"TransferDstOnComputeQueue": {
		Layout: core1_0.ImageLayoutTransferDstOptimal, Queues: generalCompute,
	},
	"TCCompatTransferDstOnComputeQueue": {
		Sampled: true, Layout: core1_0.ImageLayoutTransferDstOptimal, Queues: generalCompute, Expected: true,
	},
	"GeneralWithoutTCCompat": {
		Layout: core1_0.ImageLayoutGeneral, Queues: general,
	},
	"TCCompatGeneral": {
		Sampled: true, Layout: core1_0.ImageLayoutGeneral, Queues: general, Expected: true,
	},
	"TCCompatGeneralOnComputeOnly": {
		Sampled: true, Layout: core1_0.ImageLayoutGeneral, Queues: compute,
	},
	"TCCompatGeneralDisabled": {
		Sampled: true, NoGeneral: true, Layout: core1_0.ImageLayoutGeneral, Queues: general,
	},
	"FeedbackLoop": {
		Sampled: true, Layout: layout.ImageLayoutAttachmentFeedbackLoop, Queues: general,
	},
	"ReadOnlyAttachment": {
		Layout: core1_0.ImageLayoutDepthStencilReadOnlyOptimal, Queues: general, Expected: true,
	},
	"TCCompatReadOnly": {
		Sampled: true, Layout: layout.ImageLayoutReadOnlyOptimal, Queues: general, Expected: true,
	},
	"ShaderReadWithoutTCCompat": {
		Layout: core1_0.ImageLayoutShaderReadOnlyOptimal, Queues: general,
	},
	"TCCompatShaderRead": {
		Sampled: true, Layout: core1_0.ImageLayoutShaderReadOnlyOptimal, Queues: general, Expected: true,
	},
}

func TestHTileCompressed(t *testing.T) {
	for testName, testCase := range htileTestCases {
		t.Run(testName, func(t *testing.T) {
			info := hwinfo.NewInfo(hwinfo.GFX10_3)
			info.NoTCCompatHTileInGeneral = testCase.NoGeneral
			f := newFixture(info)

			img := f.build(t, depthTarget(testCase.Sampled))
			require.True(t, img.HasHTile())
			require.Equal(t, testCase.Sampled, img.IsTCCompatHTile())

			result := f.projector.Project(img, projection.State{Layout: testCase.Layout, Queues: testCase.Queues})
			require.Equal(t, testCase.Expected, result.HTileCompressed)
			require.False(t, result.DCCCompressed)
			require.Equal(t, projection.FMaskCompressionNone, result.FMask)
		})
	}
}

var dccTestCases = map[string]struct {
	Generation hwinfo.Generation
	Layout     core1_0.ImageLayout
	Queues     hwinfo.QueueMask
	Level      int
	Expected   bool
}{
	"ColorAttachment": {
		Generation: hwinfo.GFX10_3, Layout: core1_0.ImageLayoutColorAttachmentOptimal, Queues: general, Expected: true,
	},
	"GeneralOnCompute": {
		Generation: hwinfo.GFX10_3, Layout: core1_0.ImageLayoutGeneral, Queues: generalCompute, Expected: true,
	},
	"FeedbackLoop": {
		Generation: hwinfo.GFX10_3, Layout: layout.ImageLayoutAttachmentFeedbackLoop, Queues: general,
	},
	"LevelWithoutDCC": {
		Generation: hwinfo.GFX10_3, Layout: core1_0.ImageLayoutColorAttachmentOptimal, Queues: general, Level: 1,
	},
	"GFX9ShaderRead": {
		Generation: hwinfo.GFX9, Layout: core1_0.ImageLayoutShaderReadOnlyOptimal, Queues: general, Expected: true,
	},
	"GFX9General": {
		Generation: hwinfo.GFX9, Layout: core1_0.ImageLayoutGeneral, Queues: general,
	},
	"GFX9TransferDstOnCompute": {
		Generation: hwinfo.GFX9, Layout: core1_0.ImageLayoutTransferDstOptimal, Queues: generalCompute,
	},
	"GFX9TransferDstOnGeneral": {
		Generation: hwinfo.GFX9, Layout: core1_0.ImageLayoutTransferDstOptimal, Queues: general, Expected: true,
	},
}

func TestDCCCompressed(t *testing.T) {
	for testName, testCase := range dccTestCases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(hwinfo.NewInfo(testCase.Generation))
			img := f.build(t, colorTarget(1024, 1024))
			require.True(t, img.HasDCC(0))

			state := projection.State{Layout: testCase.Layout, Queues: testCase.Queues, Level: testCase.Level}
			require.Equal(t, testCase.Expected, f.projector.Project(img, state).DCCCompressed)
		})
	}
}

var fmaskTestCases = map[string]struct {
	Layout   core1_0.ImageLayout
	Queues   hwinfo.QueueMask
	Expected projection.FMaskCompression
}{
	"ColorAttachment": {
		Layout: core1_0.ImageLayoutColorAttachmentOptimal, Queues: general, Expected: projection.FMaskCompressionFull,
	},
	"ConcurrentColorAttachment": {
		Layout: core1_0.ImageLayoutColorAttachmentOptimal, Queues: generalCompute, Expected: projection.FMaskCompressionNone,
	},
	"General": {
		Layout: core1_0.ImageLayoutGeneral, Queues: general, Expected: projection.FMaskCompressionNone,
	},
	"ShaderRead": {
		Layout: core1_0.ImageLayoutShaderReadOnlyOptimal, Queues: general, Expected: projection.FMaskCompressionPartial,
	},
	"TransferSrc": {
		Layout: core1_0.ImageLayoutTransferSrcOptimal, Queues: generalCompute, Expected: projection.FMaskCompressionPartial,
	},
	"TransferDstOnCompute": {
		Layout: core1_0.ImageLayoutTransferDstOptimal, Queues: compute, Expected: projection.FMaskCompressionNone,
	},
	"FeedbackLoop": {
		Layout: layout.ImageLayoutAttachmentFeedbackLoop, Queues: general, Expected: projection.FMaskCompressionNone,
	},
}

func TestFMaskCompression(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))

	desc := image2D(core1_0.FormatR8G8B8A8UnsignedNormalized, 256, 256, core1_0.ImageUsageColorAttachment)
	desc.Samples = core1_0.Samples4
	img := f.build(t, desc)
	require.True(t, img.HasFMask())
	require.False(t, img.TCCompatibleCMask)

	for testName, testCase := range fmaskTestCases {
		t.Run(testName, func(t *testing.T) {
			result := f.projector.FMaskCompression(img, testCase.Layout, testCase.Queues)
			require.Equal(t, testCase.Expected, result, "got %s", result)
		})
	}
}

var fastClearTestCases = map[string]struct {
	Generation hwinfo.Generation
	DebugFlags hwinfo.DebugFlags
	Desc       func() *layout.ImageDescriptor
	Layout     core1_0.ImageLayout
	Queues     hwinfo.QueueMask
	Expected   projection.FastClearPermission
}{
	"CompToSingle": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(512, 512) },
		Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
		Queues:     general,
		Expected:   projection.FastClearAnyValue,
	},
	"CompToSingleOnComputeQueue": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(512, 512) },
		Layout:     layout.ImageLayoutAttachmentOptimal,
		Queues:     generalCompute,
		Expected:   projection.FastClearAnyValue,
	},
	"ShaderReadLayout": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(512, 512) },
		Layout:     core1_0.ImageLayoutShaderReadOnlyOptimal,
		Queues:     general,
		Expected:   projection.FastClearNone,
	},
	"DebugNoFastClears": {
		Generation: hwinfo.GFX10_3,
		DebugFlags: hwinfo.DebugNoFastClears,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(512, 512) },
		Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
		Queues:     general,
		Expected:   projection.FastClearNone,
	},
	"SmallSurface": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(256, 256) },
		Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
		Queues:     general,
		Expected:   projection.FastClearNone,
	},
	"GFX9DCC": {
		Generation: hwinfo.GFX9,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(1024, 1024) },
		Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
		Queues:     general,
		Expected:   projection.FastClearDefaultValue,
	},
	"GFX9DCCOnComputeQueue": {
		Generation: hwinfo.GFX9,
		Desc:       func() *layout.ImageDescriptor { return colorTarget(1024, 1024) },
		Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
		Queues:     generalCompute,
		Expected:   projection.FastClearNone,
	},
	"CMaskOnly": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			return image2D(core1_0.FormatR32UnsignedInt, 1024, 1024, core1_0.ImageUsageStorage|core1_0.ImageUsageColorAttachment)
		},
		Layout:   core1_0.ImageLayoutColorAttachmentOptimal,
		Queues:   general,
		Expected: projection.FastClearDefaultValue,
	},
	"Volume": {
		Generation: hwinfo.GFX10_3,
		Desc: func() *layout.ImageDescriptor {
			desc := colorTarget(512, 512)
			desc.Type = core1_0.ImageType3D
			desc.Extent.Depth = 4
			return desc
		},
		Layout:   core1_0.ImageLayoutColorAttachmentOptimal,
		Queues:   general,
		Expected: projection.FastClearNone,
	},
	"CMaskOnlyWideFormat": {
		Generation: hwinfo.GFX10_3,
		DebugFlags: hwinfo.DebugNoDCC,
		Desc: func() *layout.ImageDescriptor {
			return image2D(core1_0.FormatR32G32B32A32SignedFloat, 1024, 1024, core1_0.ImageUsageStorage|core1_0.ImageUsageColorAttachment)
		},
		Layout:   core1_0.ImageLayoutColorAttachmentOptimal,
		Queues:   general,
		Expected: projection.FastClearNone,
	},
	"DepthAttachment": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return depthTarget(true) },
		Layout:     core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		Queues:     general,
		Expected:   projection.FastClearDefaultValue,
	},
	"DepthShaderRead": {
		Generation: hwinfo.GFX10_3,
		Desc:       func() *layout.ImageDescriptor { return depthTarget(true) },
		Layout:     core1_0.ImageLayoutShaderReadOnlyOptimal,
		Queues:     general,
		Expected:   projection.FastClearNone,
	},
}

func TestFastClear(t *testing.T) {
	for testName, testCase := range fastClearTestCases {
		t.Run(testName, func(t *testing.T) {
			info := hwinfo.NewInfo(testCase.Generation)
			info.DebugFlags = testCase.DebugFlags
			f := newFixture(info)

			img := f.build(t, testCase.Desc())
			result := f.projector.Project(img, projection.State{Layout: testCase.Layout, Queues: testCase.Queues})
			require.Equal(t, testCase.Expected, result.FastClear, "got %s", result.FastClear)
		})
	}
}

func TestUntrackedWrite(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))

	desc := colorTarget(1024, 1024)
	desc.Usage |= core1_0.ImageUsageStorage
	img := f.build(t, desc)
	require.True(t, img.HasDCC(0))
	require.True(t, img.DCCImageStores)

	require.True(t, f.projector.UntrackedWrite(img, 0, core1_0.ImageLayoutGeneral, generalCompute))
	require.False(t, f.projector.UntrackedWrite(img, 0, core1_0.ImageLayoutColorAttachmentOptimal, general))
	require.False(t, f.projector.UntrackedWrite(img, 0, layout.ImageLayoutAttachmentFeedbackLoop, general))

	sampledOnly := f.build(t, colorTarget(1024, 1024))
	require.False(t, f.projector.UntrackedWrite(sampledOnly, 0, core1_0.ImageLayoutGeneral, generalCompute))
}

func TestProjectionIsPure(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	img := f.build(t, colorTarget(512, 512))
	before := img.String()

	state := projection.State{Layout: core1_0.ImageLayoutColorAttachmentOptimal, Queues: general}
	first := f.projector.Project(img, state)
	for i := 0; i < 4; i++ {
		require.Equal(t, first, f.projector.Project(img, state))
	}
	require.Equal(t, before, img.String())
}
