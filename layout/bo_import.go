package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/imagelayout/descriptor"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/surface"
	"golang.org/x/exp/slog"
)

// ImportPolicy decides how imported metadata describing a larger image than the one requested
// is treated. Smaller imported images are always rejected.
type ImportPolicy struct {
	// Strict rejects every dimension mismatch, on every generation
	Strict bool
	// MaxSlack is the largest difference, in texels along either axis, accepted on generations
	// that tolerate mismatched imports. 0 means any difference is accepted.
	MaxSlack int
}

// validOpaqueMetadata returns true if UMD metadata was written by a driver for this device
func validOpaqueMetadata(info hwinfo.Info, md *surface.BOMetadata) bool {
	if len(md.UMD) < surface.UMDMetadataMinDwords {
		return false
	}

	return md.UMD[0] == 1 && md.UMD[1] == hwinfo.VendorIDATI<<16|info.PCIID
}

// patchDimensions returns the level 0 dimensions the planes are built with. Imported metadata
// may describe a larger image than the one requested.
func (b *Builder) patchDimensions(desc *ImageDescriptor) (width int, height int, err error) {
	width, height = desc.Width(), desc.Height()

	md := desc.BOMetadata
	if md == nil || !validOpaqueMetadata(b.rules.info, md) {
		return width, height, nil
	}

	words := md.UMD[surface.UMDMetadataDescriptorOffset:surface.UMDMetadataMinDwords]
	externalWidth, externalHeight := descriptor.Dimensions(b.rules.caps.DescriptorLayout, words)

	if externalWidth == width && externalHeight == height {
		return width, height, nil
	}

	if externalWidth < width || externalHeight < height {
		return 0, 0, errors.Wrapf(ErrInvalidExternalLayout, "imported image is %dx%d, smaller than the requested %dx%d",
			externalWidth, externalHeight, width, height)
	}

	if b.policy.Strict || b.rules.caps.StrictExternalDimensions {
		return 0, 0, errors.Wrapf(ErrInvalidExternalLayout, "imported image is %dx%d but %dx%d was requested, and the device cannot address a different pitch",
			externalWidth, externalHeight, width, height)
	}

	if b.policy.MaxSlack > 0 && (externalWidth-width > b.policy.MaxSlack || externalHeight-height > b.policy.MaxSlack) {
		return 0, 0, errors.Wrapf(ErrInvalidExternalLayout, "imported image is %dx%d, more than %d texels larger than the requested %dx%d",
			externalWidth, externalHeight, b.policy.MaxSlack, width, height)
	}

	b.logger.Warn("Builder::patchDimensions imported image has inconsistent dimensions",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("externalWidth", externalWidth),
		slog.Int("externalHeight", externalHeight),
	)

	return externalWidth, externalHeight, nil
}

func modeFromTiling(tiling surface.TilingMetadata) surface.Mode {
	switch tiling := tiling.(type) {
	case *surface.GFX9Tiling:
		if tiling.SwizzleMode > 0 {
			return surface.Mode2D
		}
	case *surface.LegacyTiling:
		if tiling.MacroTile == surface.Mode2D {
			return surface.Mode2D
		}
		if tiling.MicroTile == surface.Mode1D {
			return surface.Mode1D
		}
	}

	return surface.ModeLinearAligned
}

func (d *ImageDescriptor) hasScanout() bool {
	if d.BOMetadata != nil {
		return d.BOMetadata.Scanout()
	}
	return d.Scanout
}

// patchPlaneFlags applies imported metadata and display options to the flags of every plane.
// It returns false if planes must not take a tile swizzle.
func (b *Builder) patchPlaneFlags(desc *ImageDescriptor, flags []surface.Flags) (useSurfIndex bool) {
	useSurfIndex = true

	for plane := range flags {
		if desc.BOMetadata != nil && desc.BOMetadata.Tiling != nil {
			flags[plane].Mode = modeFromTiling(desc.BOMetadata.Tiling)
			flags[plane].Imported = true
		}

		if desc.hasScanout() {
			flags[plane].Scanout = true
			if b.rules.debug(hwinfo.DebugNoDisplayDCC) {
				flags[plane].DisableDCC = true
			}
			useSurfIndex = false
		}

		if desc.PrimeBlitSource && b.rules.caps.PrimeBlitSourceCompressionBroken {
			flags[plane].DisableDCC = true
		}
	}

	return useSurfIndex
}
