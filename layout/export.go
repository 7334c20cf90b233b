package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/imagelayout/descriptor"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/surface"
)

func tilingMetadata(surf *surface.Surface) surface.TilingMetadata {
	switch layout := surf.Layout.(type) {
	case *surface.GFX9Layout:
		tiling := &surface.GFX9Tiling{
			SwizzleMode: layout.SwizzleMode,
			Scanout:     surf.Flags.Scanout,
		}

		if surf.HasDCC() {
			dccOffset := surf.MetaOffset
			if surf.DisplayDCCSize > 0 {
				dccOffset = surf.DisplayDCCOffset
			}
			tiling.DCCOffset256B = uint32(dccOffset >> 8)
			tiling.DCCPitchMax = uint32(layout.DCCPitchMax)
			tiling.DCCIndependent64B = layout.DCC.Independent64B
			tiling.DCCIndependent128B = layout.DCC.Independent128B
			tiling.DCCMaxCompressedBlockSize = compressedBlockSizeField(layout.DCC.MaxCompressedBlockSize)
		}

		return tiling
	case *surface.LegacyLayout:
		level := layout.Levels[0]
		tiling := &surface.LegacyTiling{
			MicroTile:       surface.ModeLinearAligned,
			MacroTile:       surface.ModeLinearAligned,
			PipeConfig:      layout.PipeConfig,
			BankWidth:       layout.BankWidth,
			BankHeight:      layout.BankHeight,
			TileSplit:       layout.TileSplit,
			MacroTileAspect: layout.MacroTileAspect,
			NumBanks:        layout.NumBanks,
			Stride:          uint32(level.Pitch * surf.BytesPerElement),
			Scanout:         surf.Flags.Scanout,
		}

		if level.Mode >= surface.Mode1D {
			tiling.MicroTile = surface.Mode1D
		}
		if level.Mode >= surface.Mode2D {
			tiling.MacroTile = surface.Mode2D
		}

		return tiling
	}

	return nil
}

// Metadata describes plane 0 of a single-plane image to another process or device. Importing the
// returned metadata with the same descriptor reproduces the layout.
func (r *Rules) Metadata(img *Image, calc surface.Calculator) (*surface.BOMetadata, error) {
	if img.PlaneCount() != 1 {
		return nil, errors.Newf("images with %d planes cannot be exported", img.PlaneCount())
	}

	plane := img.Plane(0)
	surf := plane.Surface
	format := formats.MustLookup(plane.Format)

	viewType := descriptor.Type2D
	switch {
	case img.Descriptor.SampleCount() > 1:
		viewType = descriptor.Type2DMSAA
	case img.Descriptor.ArrayLayers > 1:
		viewType = descriptor.Type2DArray
	}

	tex := r.TextureDescriptor(img, TextureView{
		Format:     plane.Format,
		Type:       viewType,
		LevelCount: img.Descriptor.MipLevels,
		LayerCount: img.Descriptor.ArrayLayers,
		Swizzle:    format.Swizzle,
		Width:      img.Width,
		Height:     img.Height,
		Compressed: true,
	})
	tex.BaseAddress = 0
	// The tile swizzle is chosen per device and is not exported
	tex.TileSwizzle = 0

	return &surface.BOMetadata{
		Tiling: tilingMetadata(surf),
		UMD:    calc.ComputeUMDMetadata(surf, img.Descriptor.MipLevels, tex.Encode(r.caps.DescriptorLayout)),
	}, nil
}
