package projection_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/descriptor"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/projection"
)

func colorView() projection.ViewRequest {
	return projection.ViewRequest{
		Type:   core1_0.ImageViewType2D,
		Aspect: core1_0.ImageAspectColor,
	}
}

func TestCreateViewOfColorTarget(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	img := f.build(t, colorTarget(512, 512))

	const address = uint64(1) << 32
	require.NoError(t, img.Bind(0, layout.MemoryBinding{Memory: 1, Address: address}))

	view, err := f.projector.CreateView(img, colorView())
	require.NoError(t, err)

	require.Equal(t, core1_0.FormatR8G8B8A8UnsignedNormalized, view.Format)
	require.Equal(t, 0, view.Plane)
	require.Equal(t, 1, view.LevelCount)
	require.Equal(t, 1, view.LayerCount)
	require.Equal(t, 512, view.Width)
	require.Equal(t, 512, view.Height)
	require.True(t, view.SupportsFastClear)
	require.False(t, view.HasFMask)
	require.Len(t, view.Descriptors, 1)

	sampled := view.Descriptors[0].Sampled
	width, height := descriptor.Dimensions(hwinfo.DescriptorLayoutGFX10, sampled[:])
	require.Equal(t, 512, width)
	require.Equal(t, 512, height)
	require.Equal(t, address+img.Plane(0).Surface.MetaOffset, descriptor.MetaAddress(hwinfo.DescriptorLayoutGFX10, sampled[:]))

	storage := view.Descriptors[0].Storage
	require.True(t, img.DCCImageStores)
	require.Equal(t, address+img.Plane(0).Surface.MetaOffset, descriptor.MetaAddress(hwinfo.DescriptorLayoutGFX10, storage[:]))
}

func TestCreateViewDoesNotModifyImage(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	img := f.build(t, colorTarget(512, 512))
	before := img.String()

	_, err := f.projector.CreateView(img, colorView())
	require.NoError(t, err)
	require.Equal(t, before, img.String())
}

func TestCreateViewOfLayerSubset(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	desc := colorTarget(512, 512)
	desc.ArrayLayers = 4
	img := f.build(t, desc)

	request := colorView()
	request.Type = core1_0.ImageViewType2DArray
	request.BaseLayer = 1
	view, err := f.projector.CreateView(img, request)
	require.NoError(t, err)
	require.Equal(t, 3, view.LayerCount)
	require.False(t, view.SupportsFastClear)

	request.BaseLayer = 0
	view, err = f.projector.CreateView(img, request)
	require.NoError(t, err)
	require.Equal(t, 4, view.LayerCount)
	require.Equal(t, f.projector.CanFastClearImage(img), view.SupportsFastClear)
}

var viewAspectTestCases = map[string]struct {
	Format core1_0.Format
	Aspect core1_0.ImageAspectFlags
	Plane  int
	Views  []core1_0.Format
}{
	"Depth": {
		Format: core1_0.FormatD32SignedFloatS8UnsignedInt,
		Aspect: core1_0.ImageAspectDepth,
		Views:  []core1_0.Format{core1_0.FormatD32SignedFloat},
	},
	"Stencil": {
		Format: core1_0.FormatD32SignedFloatS8UnsignedInt,
		Aspect: core1_0.ImageAspectStencil,
		Views:  []core1_0.Format{core1_0.FormatS8UnsignedInt},
	},
	"AllPlanes": {
		Format: formats.FormatG8B8R82Plane420UNorm,
		Aspect: core1_0.ImageAspectColor,
		Views: []core1_0.Format{
			formats.PlaneFormat(formats.FormatG8B8R82Plane420UNorm, 0),
			formats.PlaneFormat(formats.FormatG8B8R82Plane420UNorm, 1),
		},
	},
	"ChromaPlane": {
		Format: formats.FormatG8B8R82Plane420UNorm,
		Aspect: layout.ImageAspectPlane1,
		Plane:  1,
		Views:  []core1_0.Format{formats.PlaneFormat(formats.FormatG8B8R82Plane420UNorm, 1)},
	},
	"EmulatedETC2": {
		Format: formats.FormatETC2R8G8B8A8UNormBlock,
		Aspect: core1_0.ImageAspectColor,
		Plane:  1,
		Views:  []core1_0.Format{core1_0.FormatR8G8B8A8UnsignedNormalized},
	},
}

func TestCreateViewSelectsPlanes(t *testing.T) {
	for testName, testCase := range viewAspectTestCases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
			usage := core1_0.ImageUsageSampled
			if formats.MustLookup(testCase.Format).IsDepthOrStencil() {
				usage |= core1_0.ImageUsageDepthStencilAttachment
			}
			img := f.build(t, image2D(testCase.Format, 256, 256, usage))

			request := colorView()
			request.Aspect = testCase.Aspect
			view, err := f.projector.CreateView(img, request)
			require.NoError(t, err)

			require.Equal(t, testCase.Plane, view.Plane)
			require.Len(t, view.Descriptors, len(testCase.Views))
			for index, format := range testCase.Views {
				require.Equal(t, testCase.Plane+index, view.Descriptors[index].Plane)
				require.Equal(t, format, view.Descriptors[index].Format)
			}
		})
	}
}

func TestCreateViewOfChromaPlaneUsesPlaneExtent(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	img := f.build(t, image2D(formats.FormatG8B8R82Plane420UNorm, 256, 256, core1_0.ImageUsageSampled))

	request := colorView()
	request.Aspect = layout.ImageAspectPlane1
	view, err := f.projector.CreateView(img, request)
	require.NoError(t, err)
	require.Equal(t, 128, view.Width)
	require.Equal(t, 128, view.Height)
	require.False(t, view.SupportsFastClear)
}

var blockCompressedViewTestCases = map[string]struct {
	Generation hwinfo.Generation
	BaseLevel  int
	LevelCount int
	Width      int
}{
	"GFX10SingleLevel": {
		Generation: hwinfo.GFX10_3, BaseLevel: 2, LevelCount: 1, Width: 6,
	},
	"GFX10MipChain": {
		Generation: hwinfo.GFX10_3, BaseLevel: 1, LevelCount: 3, Width: 6,
	},
	"GFX10BaseLevel": {
		Generation: hwinfo.GFX10_3, LevelCount: 1, Width: 6,
	},
	"GFX8SingleLevel": {
		Generation: hwinfo.GFX8, BaseLevel: 2, LevelCount: 1, Width: 2,
	},
}

func TestCreateViewOfBlockCompressedImage(t *testing.T) {
	for testName, testCase := range blockCompressedViewTestCases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(hwinfo.NewInfo(testCase.Generation))
			desc := image2D(formats.FormatBC1RGBAUNormBlock, 22, 22, core1_0.ImageUsageSampled)
			desc.Flags = core1_0.ImageCreateMutableFormat | layout.ImageCreateBlockTexelViewCompat
			desc.MipLevels = 5
			img := f.build(t, desc)

			request := colorView()
			request.Format = formats.FormatR32G32UInt
			request.BaseLevel = testCase.BaseLevel
			request.LevelCount = testCase.LevelCount
			view, err := f.projector.CreateView(img, request)
			require.NoError(t, err)

			require.Equal(t, formats.FormatR32G32UInt, view.Format)
			require.Equal(t, testCase.Width, view.Width)
			require.Equal(t, testCase.Width, view.Height)
		})
	}
}

func TestCreateViewOfMultisampledImage(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	desc := image2D(core1_0.FormatR8G8B8A8UnsignedNormalized, 256, 256, core1_0.ImageUsageColorAttachment|core1_0.ImageUsageSampled)
	desc.Samples = core1_0.Samples4
	img := f.build(t, desc)
	require.True(t, img.HasFMask())

	const address = uint64(1) << 33
	require.NoError(t, img.Bind(0, layout.MemoryBinding{Memory: 7, Address: address}))

	view, err := f.projector.CreateView(img, colorView())
	require.NoError(t, err)
	require.True(t, view.HasFMask)

	width, height := descriptor.Dimensions(hwinfo.DescriptorLayoutGFX10, view.FMask[:])
	require.Equal(t, 256, width)
	require.Equal(t, 256, height)
	if img.TCCompatibleCMask {
		require.Equal(t, address+img.Plane(0).Surface.CMaskOffset, descriptor.MetaAddress(hwinfo.DescriptorLayoutGFX10, view.FMask[:]))
	} else {
		require.Zero(t, descriptor.MetaAddress(hwinfo.DescriptorLayoutGFX10, view.FMask[:]))
	}
}

var invalidViewTestCases = map[string]func(*projection.ViewRequest){
	"NoAspect": func(request *projection.ViewRequest) {
		request.Aspect = 0
	},
	"LevelOutOfRange": func(request *projection.ViewRequest) {
		request.BaseLevel = 1
		request.LevelCount = 1
	},
	"LayerOutOfRange": func(request *projection.ViewRequest) {
		request.LayerCount = 2
	},
	"UnknownFormat": func(request *projection.ViewRequest) {
		request.Format = core1_0.Format(999999)
	},
	"MissingPlane": func(request *projection.ViewRequest) {
		request.Aspect = layout.ImageAspectPlane2
	},
}

func TestCreateViewRejectsInvalidRequests(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	img := f.build(t, colorTarget(512, 512))

	for testName, mutate := range invalidViewTestCases {
		t.Run(testName, func(t *testing.T) {
			request := colorView()
			mutate(&request)

			_, err := f.projector.CreateView(img, request)
			require.Error(t, err)
			require.True(t, errors.Is(err, layout.ErrInvalidDescriptor))
		})
	}
}

func volume(levels int) *layout.ImageDescriptor {
	desc := image2D(core1_0.FormatR8G8B8A8UnsignedNormalized, 64, 64, core1_0.ImageUsageSampled)
	desc.Type = core1_0.ImageType3D
	desc.Extent.Depth = 16
	desc.MipLevels = levels
	return desc
}

func TestCreateViewOfVolumeDefaultsSlicesToLevel(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	img := f.build(t, volume(2))

	request := colorView()
	request.Type = core1_0.ImageViewType3D
	request.BaseLevel = 1
	view, err := f.projector.CreateView(img, request)
	require.NoError(t, err)
	require.Equal(t, 1, view.LevelCount)
	require.Equal(t, 8, view.LayerCount)
}

func TestCreateViewOfVolumeRejectsBaseLevel(t *testing.T) {
	f := newFixture(hwinfo.NewInfo(hwinfo.GFX10_3))
	img := f.build(t, volume(2))

	for _, baseLevel := range []int{-1, 2, 40} {
		request := colorView()
		request.Type = core1_0.ImageViewType3D
		request.BaseLevel = baseLevel

		var err error
		require.NotPanics(t, func() {
			_, err = f.projector.CreateView(img, request)
		})
		require.Error(t, err, "base level %d", baseLevel)
		require.True(t, errors.Is(err, layout.ErrInvalidDescriptor))
	}
}
