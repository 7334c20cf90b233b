package projection

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/descriptor"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
	"github.com/vkngwrapper/imagelayout/memutils"
	"github.com/vkngwrapper/imagelayout/surface"
)

// ViewRequest describes a view of an image
type ViewRequest struct {
	Type core1_0.ImageViewType
	// Format is the format the view reads the image through. FormatUndefined means the image's
	// own format.
	Format     core1_0.Format
	Components core1_0.ComponentMapping
	Aspect     core1_0.ImageAspectFlags

	BaseLevel int
	// LevelCount is the number of levels in the view. 0 selects every level from BaseLevel on.
	LevelCount int
	BaseLayer  int
	// LayerCount is the number of layers in the view. 0 selects every layer from BaseLayer on.
	LayerCount int
}

// PlaneDescriptor holds the encoded descriptors of one plane of a view
type PlaneDescriptor struct {
	Plane  int
	Format core1_0.Format
	// Sampled is read by samplers and image loads
	Sampled [8]uint32
	// Storage is used by shader image stores and atomics
	Storage [8]uint32
}

// ImageView is a view of an image with its descriptors already built. It does not change after it
// is created.
type ImageView struct {
	Image   *layout.Image
	Request ViewRequest

	// Format is the format of the view after aspect selection and format emulation
	Format core1_0.Format
	// Plane is the first image plane the view reads
	Plane      int
	LevelCount int
	LayerCount int

	// Width, Height and Depth are the extent the view's descriptors are programmed with
	Width  int
	Height int
	Depth  int

	// SupportsFastClear means clears through the view can take the fast path
	SupportsFastClear bool

	Descriptors []PlaneDescriptor
	// FMask is the descriptor of the image's FMASK. It is only valid if HasFMask is true.
	FMask    [8]uint32
	HasFMask bool
}

// viewTarget is the format and planes a view resolves to
type viewTarget struct {
	format     core1_0.Format
	plane      int
	planeCount int
}

func (p *Projector) resolveTarget(img *layout.Image, req *ViewRequest) viewTarget {
	target := viewTarget{
		format:     req.Format,
		plane:      layout.PlaneFromAspect(req.Aspect),
		planeCount: 1,
	}
	if target.format == core1_0.FormatUndefined {
		target.format = img.Descriptor.Format
	}

	switch req.Aspect {
	case core1_0.ImageAspectStencil:
		target.format = formats.StencilOnly(target.format)
	case core1_0.ImageAspectDepth, core1_0.ImageAspectDepth | core1_0.ImageAspectStencil:
		target.format = formats.DepthOnly(target.format)
	}

	imageFormat := formats.MustLookup(img.Descriptor.Format)
	if imageFormat.IsMultiPlanar() {
		if req.Aspect == core1_0.ImageAspectColor {
			target.planeCount = formats.MustLookup(target.format).PlaneCount()
		} else if formats.MustLookup(target.format).IsMultiPlanar() {
			target.format = formats.PlaneFormat(target.format, target.plane)
		}
	}

	if p.info.EmulateETC2 && imageFormat.IsETC() {
		if emulated, ok := formats.EmulatedFormat(target.format); ok {
			target.format = emulated
			target.plane = 1
		}
		target.planeCount = 1
	}

	return target
}

func (p *Projector) validateView(img *layout.Image, req *ViewRequest, levelCount, layerCount int) error {
	if req.Aspect == 0 {
		return errors.Wrap(layout.ErrInvalidDescriptor, "view selects no aspect")
	}

	if _, ok := formats.Lookup(req.Format); req.Format != core1_0.FormatUndefined && !ok {
		return errors.Wrapf(layout.ErrInvalidDescriptor, "unknown view format %d", req.Format)
	}

	if req.BaseLevel < 0 || levelCount < 1 || req.BaseLevel+levelCount > img.Descriptor.MipLevels {
		return errors.Wrapf(layout.ErrInvalidDescriptor, "levels %d+%d are outside an image with %d levels",
			req.BaseLevel, levelCount, img.Descriptor.MipLevels)
	}

	maxLayers := img.Descriptor.ArrayLayers
	if img.Descriptor.Type == core1_0.ImageType3D {
		maxLayers = memutils.Minify(img.Descriptor.Depth(), req.BaseLevel)
	}
	if req.BaseLayer < 0 || layerCount < 1 || req.BaseLayer+layerCount > maxLayers {
		return errors.Wrapf(layout.ErrInvalidDescriptor, "layers %d+%d are outside an image with %d layers",
			req.BaseLayer, layerCount, maxLayers)
	}

	if layout.PlaneFromAspect(req.Aspect) >= img.PlaneCount() {
		return errors.Wrapf(layout.ErrInvalidDescriptor, "aspect %s selects a plane the image does not have", req.Aspect)
	}

	return nil
}

// viewExtent returns the level 0 extent the descriptor of a view is programmed with
func (p *Projector) viewExtent(img *layout.Image, req *ViewRequest, target viewTarget, levelCount int) (width, height, depth int) {
	plane := img.Plane(target.plane)
	width, height, depth = plane.Width, plane.Height, img.Descriptor.Depth()
	if p.info.Generation < hwinfo.GFX9 {
		width = memutils.Minify(width, req.BaseLevel)
		height = memutils.Minify(height, req.BaseLevel)
		depth = memutils.Minify(depth, req.BaseLevel)
	}

	format := target.format
	if target.planeCount > 1 {
		format = formats.PlaneFormat(format, 0)
	}
	if format == plane.Format {
		return width, height, depth
	}

	viewFormat := formats.MustLookup(format)
	planeFormat := formats.MustLookup(plane.Format)

	width = memutils.DivRoundUp(width*viewFormat.BlockWidth, planeFormat.BlockWidth)
	height = memutils.DivRoundUp(height*viewFormat.BlockHeight, planeFormat.BlockHeight)

	gfx9, ok := plane.Surface.Layout.(*surface.GFX9Layout)
	if !ok || !planeFormat.IsCompressed() || viewFormat.IsCompressed() {
		return width, height, depth
	}

	// The hardware halves the level 0 block count for each level, which loses texels of odd
	// sized levels. Program the padded base level instead.
	if levelCount > 1 {
		return gfx9.BaseMipWidth, gfx9.BaseMipHeight, depth
	}

	levelWidth := memutils.DivRoundUp(memutils.Minify(img.Width, req.BaseLevel)*viewFormat.BlockWidth, planeFormat.BlockWidth)
	levelHeight := memutils.DivRoundUp(memutils.Minify(img.Height, req.BaseLevel)*viewFormat.BlockHeight, planeFormat.BlockHeight)

	width = clamp(levelWidth<<req.BaseLevel, width, memutils.Max(width, gfx9.BaseMipWidth))
	height = clamp(levelHeight<<req.BaseLevel, height, memutils.Max(height, gfx9.BaseMipHeight))
	return width, height, depth
}

func clamp(value, low, high int) int {
	return memutils.Min(memutils.Max(value, low), high)
}

func textureType(img *layout.Image, viewType core1_0.ImageViewType, layers int, storage bool) descriptor.Type {
	switch viewType {
	case core1_0.ImageViewTypeCube, core1_0.ImageViewTypeCubeArray:
		if storage {
			return descriptor.Type2DArray
		}
		return descriptor.TypeCube
	case core1_0.ImageViewType1D, core1_0.ImageViewType1DArray:
		if layers > 1 || viewType == core1_0.ImageViewType1DArray {
			return descriptor.Type1DArray
		}
		return descriptor.Type1D
	case core1_0.ImageViewType3D:
		return descriptor.Type3D
	}

	array := layers > 1 || viewType == core1_0.ImageViewType2DArray
	switch {
	case img.Descriptor.SampleCount() > 1 && array:
		return descriptor.Type2DMSAAArray
	case img.Descriptor.SampleCount() > 1:
		return descriptor.Type2DMSAA
	case array:
		return descriptor.Type2DArray
	default:
		return descriptor.Type2D
	}
}

func componentSwizzle(component core1_0.ComponentSwizzle, identity int) (channel int, constant formats.Swizzle, isConstant bool) {
	switch component {
	case core1_0.ComponentSwizzleZero:
		return 0, formats.Swizzle0, true
	case core1_0.ComponentSwizzleOne:
		return 0, formats.Swizzle1, true
	case core1_0.ComponentSwizzleRed:
		return 0, 0, false
	case core1_0.ComponentSwizzleGreen:
		return 1, 0, false
	case core1_0.ComponentSwizzleBlue:
		return 2, 0, false
	case core1_0.ComponentSwizzleAlpha:
		return 3, 0, false
	default:
		return identity, 0, false
	}
}

// composeSwizzle applies a view's component mapping on top of the format's own channel order
func composeSwizzle(format [4]formats.Swizzle, mapping core1_0.ComponentMapping) [4]formats.Swizzle {
	var swizzle [4]formats.Swizzle
	for index, component := range [4]core1_0.ComponentSwizzle{mapping.R, mapping.G, mapping.B, mapping.A} {
		channel, constant, isConstant := componentSwizzle(component, index)
		if isConstant {
			swizzle[index] = constant
			continue
		}
		swizzle[index] = format[channel]
	}
	return swizzle
}

// CreateView resolves a view request against an image and builds its descriptors. Descriptors
// hold the addresses the image is bound at when the view is created.
func (p *Projector) CreateView(img *layout.Image, req ViewRequest) (*ImageView, error) {
	if req.BaseLevel < 0 || req.BaseLevel >= img.Descriptor.MipLevels {
		return nil, errors.Wrapf(layout.ErrInvalidDescriptor, "base level %d is outside an image with %d levels",
			req.BaseLevel, img.Descriptor.MipLevels)
	}

	levelCount := req.LevelCount
	if levelCount == 0 {
		levelCount = img.Descriptor.MipLevels - req.BaseLevel
	}
	layerCount := req.LayerCount
	if layerCount == 0 {
		layerCount = img.Descriptor.ArrayLayers - req.BaseLayer
		if img.Descriptor.Type == core1_0.ImageType3D {
			layerCount = memutils.Minify(img.Descriptor.Depth(), req.BaseLevel) - req.BaseLayer
		}
	}

	err := p.validateView(img, &req, levelCount, layerCount)
	if err != nil {
		return nil, err
	}

	target := p.resolveTarget(img, &req)
	if target.plane+target.planeCount > img.PlaneCount() {
		return nil, errors.Wrapf(layout.ErrInvalidDescriptor, "view of format %d needs %d planes", target.format, target.planeCount)
	}

	view := &ImageView{
		Image:      img,
		Request:    req,
		Format:     target.format,
		Plane:      target.plane,
		LevelCount: levelCount,
		LayerCount: layerCount,
	}
	view.Width, view.Height, view.Depth = p.viewExtent(img, &req, target, levelCount)

	view.SupportsFastClear = p.CanFastClearImage(img) &&
		req.BaseLayer == 0 && layerCount == img.Descriptor.ArrayLayers &&
		view.Width == img.Width && view.Height == img.Height && view.Depth == img.Descriptor.Depth()

	layoutKind := p.rules.Capabilities().DescriptorLayout
	for index := 0; index < target.planeCount; index++ {
		planeIndex := target.plane + index
		planeFormat := formats.PlaneFormat(target.format, index)
		if target.planeCount == 1 {
			planeFormat = target.format
		}

		texView := layout.TextureView{
			Plane:      planeIndex,
			Format:     planeFormat,
			Type:       textureType(img, req.Type, layerCount, false),
			BaseLevel:  req.BaseLevel,
			LevelCount: levelCount,
			BaseLayer:  req.BaseLayer,
			LayerCount: layerCount,
			Swizzle:    composeSwizzle(formats.MustLookup(planeFormat).Swizzle, req.Components),
			Address:    img.PlaneAddress(planeIndex),
			Compressed: true,
		}
		if index == 0 && p.info.Generation >= hwinfo.GFX9 {
			texView.Width = view.Width
			texView.Height = view.Height
		}

		sampled := p.rules.TextureDescriptor(img, texView)

		texView.Type = textureType(img, req.Type, layerCount, true)
		texView.Storage = true
		texView.Compressed = img.DCCImageStores
		storage := p.rules.TextureDescriptor(img, texView)

		view.Descriptors = append(view.Descriptors, PlaneDescriptor{
			Plane:   planeIndex,
			Format:  planeFormat,
			Sampled: sampled.Encode(layoutKind),
			Storage: storage.Encode(layoutKind),
		})
	}

	fmask, ok := p.rules.FMaskDescriptor(img, layout.TextureView{
		Type:       textureType(img, req.Type, layerCount, false),
		BaseLayer:  req.BaseLayer,
		LayerCount: layerCount,
		Address:    img.PlaneAddress(0),
	})
	if ok {
		view.FMask = fmask.Encode(layoutKind)
		view.HasFMask = true
	}

	return view, nil
}
