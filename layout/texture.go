package layout

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/descriptor"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/memutils"
	"github.com/vkngwrapper/imagelayout/surface"
)

// TextureView selects the part of an image a texture descriptor covers
type TextureView struct {
	Plane int
	// Format is the format of the view. Its hardware format ids are written to the descriptor.
	Format core1_0.Format
	Type   descriptor.Type

	BaseLevel  int
	LevelCount int
	BaseLayer  int
	LayerCount int

	// Swizzle is the channel each descriptor output reads, already composed with the format's
	// own swizzle
	Swizzle [4]formats.Swizzle

	// Width and Height override the level 0 extent of the plane when not 0
	Width  int
	Height int

	// Address is the GPU virtual address of the plane's binding
	Address uint64
	// Compressed makes the descriptor read compression metadata directly
	Compressed bool
	// Storage makes the descriptor usable for shader image stores
	Storage bool
}

var selFromSwizzle = map[formats.Swizzle]descriptor.Sel{
	formats.SwizzleX: descriptor.SelX,
	formats.SwizzleY: descriptor.SelY,
	formats.SwizzleZ: descriptor.SelZ,
	formats.SwizzleW: descriptor.SelW,
	formats.Swizzle0: descriptor.Sel0,
	formats.Swizzle1: descriptor.Sel1,
}

func alphaIsOnMSB(format *formats.Description) bool {
	if format.NumChannels == 1 {
		return format.ColorSwap == formats.ColorSwapAlternateReversed
	}
	return format.ColorSwap == formats.ColorSwapStandardReversed || format.ColorSwap == formats.ColorSwapAlternate
}

func borderColorSwizzle(swizzle [4]formats.Swizzle) descriptor.BorderColorSwizzle {
	switch {
	case swizzle[0] == formats.SwizzleZ:
		return descriptor.BorderColorSwizzleZYXW
	case swizzle[0] == formats.SwizzleW:
		return descriptor.BorderColorSwizzleWXYZ
	case swizzle[3] == formats.SwizzleX:
		return descriptor.BorderColorSwizzleWZYX
	default:
		return descriptor.BorderColorSwizzleXYZW
	}
}

// TextureDescriptor fills the named fields of a texture descriptor for a view of an image
func (r *Rules) TextureDescriptor(img *Image, view TextureView) descriptor.Texture {
	plane := &img.Planes[view.Plane]
	surf := plane.Surface
	format := formats.MustLookup(view.Format)

	width, height := plane.Width, plane.Height
	if view.Width > 0 {
		width = view.Width
	}
	if view.Height > 0 {
		height = view.Height
	}

	tex := descriptor.Texture{
		BaseAddress: view.Address + surf.BaseOffset(),
		TileSwizzle: surf.TileSwizzle,
		Format:      format.HW.GFX10Format,
		DataFormat:  format.HW.DataFormat,
		NumFormat:   format.HW.NumFormat,
		Width:       width,
		Height:      height,
		BaseArray:   view.BaseLayer,
		LastArray:   view.BaseLayer + view.LayerCount - 1,
		BaseLevel:   view.BaseLevel,
		LastLevel:   view.BaseLevel + view.LevelCount - 1,
		MaxMip:      img.Descriptor.MipLevels - 1,
		Type:        view.Type,
		BCSwizzle:   borderColorSwizzle(format.Swizzle),
		PerfMod:     4,

		ResourceLevel: r.caps.DescriptorLayout == hwinfo.DescriptorLayoutGFX10 && r.info.Generation < hwinfo.GFX11,
		AlphaIsOnMSB:  alphaIsOnMSB(format),
	}

	for channel, swizzle := range view.Swizzle {
		tex.DstSel[channel] = selFromSwizzle[swizzle]
	}

	switch {
	case view.Type == descriptor.Type3D:
		tex.Depth = img.Descriptor.Depth() - 1
	case view.Type.IsArray():
		tex.Depth = view.BaseLayer + view.LayerCount - 1
	}

	if img.Descriptor.SampleCount() > 1 {
		tex.LastLevel = memutils.LogBase2(uint64(img.Descriptor.SampleCount()))
		tex.MaxMip = tex.LastLevel
	}

	var meta surface.MetaParams
	switch layout := surf.Layout.(type) {
	case *surface.GFX9Layout:
		tex.SwizzleMode = uint32(layout.SwizzleMode)
		tex.Pitch = layout.EPitch + 1
		meta = layout.DCC
		if surf.Flags.ZBuffer {
			meta = layout.HTile
		}
	case *surface.LegacyLayout:
		level := layout.Levels[0]
		tex.SwizzleMode = uint32(level.Mode)
		tex.Pitch = level.Pitch
		meta.PipeAligned = true
		meta.RBAligned = true
	}

	compressed := view.Compressed && (surf.HasDCC() || (surf.HasHTile() && surf.Flags.TCCompatibleHTile))
	if compressed {
		tex.CompressionEnable = true
		tex.MetaAddress = view.Address + surf.MetaOffset
		tex.MetaPipeAligned = meta.PipeAligned
		tex.MetaRBAligned = meta.RBAligned
		tex.MaxCompressedBlockSize = compressedBlockSizeField(meta.MaxCompressedBlockSize)
		tex.MaxUncompressedBlock = compressedBlockSizeField(256)
		tex.WriteCompressEnable = view.Storage && surf.HasDCC() && img.DCCImageStores
		tex.Iterate256 = surf.Flags.ZBuffer && img.Descriptor.SampleCount() > 1 &&
			r.caps.DescriptorLayout == hwinfo.DescriptorLayoutGFX10
	}

	return tex
}

type fmaskFormat struct {
	gfx10      uint32
	dataFormat uint32
	gfx9Num    uint32
}

var fmaskFormats = map[int]fmaskFormat{
	2: {descriptor.GFX10FormatFMask8S2F2, descriptor.DataFormatFMask8S2F2, descriptor.NumFormatFMask8x2x2},
	4: {descriptor.GFX10FormatFMask8S4F4, descriptor.DataFormatFMask8S4F4, descriptor.NumFormatFMask8x4x4},
	8: {descriptor.GFX10FormatFMask32S8F8, descriptor.DataFormatFMask32S8F8, descriptor.NumFormatFMask32x8x8},
}

// FMaskDescriptor fills the fields of the descriptor shaders use to read the FMASK of a
// multisampled image. ok is false if the image has no FMASK.
func (r *Rules) FMaskDescriptor(img *Image, view TextureView) (tex descriptor.Texture, ok bool) {
	if !img.HasFMask() {
		return descriptor.Texture{}, false
	}

	surf := img.Planes[0].Surface
	format := fmaskFormats[img.Descriptor.SampleCount()]

	tex = descriptor.Texture{
		BaseAddress: view.Address + surf.FMaskOffset,
		TileSwizzle: surf.TileSwizzle,
		Format:      format.gfx10,
		DataFormat:  format.dataFormat,
		NumFormat:   descriptor.NumFormatUInt,
		Width:       img.Planes[0].Width,
		Height:      img.Planes[0].Height,
		BaseArray:   view.BaseLayer,
		LastArray:   view.BaseLayer + view.LayerCount - 1,
		Depth:       view.BaseLayer + view.LayerCount - 1,
		Type:        view.Type,
		DstSel:      [4]descriptor.Sel{descriptor.SelX, descriptor.SelX, descriptor.SelX, descriptor.SelX},

		ResourceLevel:   r.caps.DescriptorLayout == hwinfo.DescriptorLayoutGFX10 && r.info.Generation < hwinfo.GFX11,
		MetaPipeAligned: true,
	}

	switch layout := surf.Layout.(type) {
	case *surface.GFX9Layout:
		tex.SwizzleMode = uint32(layout.FMaskSwizzleMode)
		tex.Pitch = layout.FMaskEPitch + 1
		tex.MetaRBAligned = true
		if r.info.Generation == hwinfo.GFX9 {
			tex.DataFormat = descriptor.DataFormatFMask
			tex.NumFormat = format.gfx9Num
		}
	case *surface.LegacyLayout:
		tex.SwizzleMode = uint32(layout.Levels[0].Mode)
		tex.Pitch = layout.Levels[0].Pitch
	}

	if img.TCCompatibleCMask {
		tex.CompressionEnable = true
		tex.MetaAddress = view.Address + surf.CMaskOffset
	}

	return tex, true
}

func compressedBlockSizeField(bytes int) uint32 {
	switch bytes {
	case 64:
		return 0
	case 128:
		return 1
	default:
		return 2
	}
}
