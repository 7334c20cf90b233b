package formats

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slices"
)

// PlaneFormat returns the format of one plane of a format. Single-plane formats return
// themselves for plane 0.
func PlaneFormat(format core1_0.Format, plane int) core1_0.Format {
	desc, ok := Lookup(format)
	if !ok || len(desc.Planes) == 0 {
		return format
	}
	return desc.Planes[plane].Format
}

// PlaneWidth returns the width in texels of one plane of a format, given the image width
func PlaneWidth(format core1_0.Format, plane int, width int) int {
	desc, ok := Lookup(format)
	if !ok || len(desc.Planes) == 0 {
		return width
	}
	divisor := desc.Planes[plane].WidthDivisor
	return (width + divisor - 1) / divisor
}

// PlaneHeight returns the height in texels of one plane of a format, given the image height
func PlaneHeight(format core1_0.Format, plane int, height int) int {
	desc, ok := Lookup(format)
	if !ok || len(desc.Planes) == 0 {
		return height
	}
	divisor := desc.Planes[plane].HeightDivisor
	return (height + divisor - 1) / divisor
}

// DepthOnly returns the depth-only format matching a depth/stencil format
func DepthOnly(format core1_0.Format) core1_0.Format {
	switch format {
	case FormatD16UNormS8UInt:
		return core1_0.FormatD16UnsignedNormalized
	case core1_0.FormatD24UnsignedNormalizedS8UnsignedInt:
		return FormatX8D24UNormPack32
	case core1_0.FormatD32SignedFloatS8UnsignedInt:
		return core1_0.FormatD32SignedFloat
	default:
		return format
	}
}

// StencilOnly returns the stencil-only format matching a depth/stencil format
func StencilOnly(format core1_0.Format) core1_0.Format {
	desc, ok := Lookup(format)
	if ok && desc.HasStencil() {
		return core1_0.FormatS8UnsignedInt
	}
	return format
}

// EmulatedFormat returns the format that an ETC2/EAC format is decompressed into when the
// hardware cannot sample it natively
func EmulatedFormat(format core1_0.Format) (core1_0.Format, bool) {
	switch format {
	case FormatETC2R8G8B8UNormBlock, FormatETC2R8G8B8A8UNormBlock:
		return core1_0.FormatR8G8B8A8UnsignedNormalized, true
	case FormatEACR11UNormBlock:
		return core1_0.FormatR16UnsignedNormalized, true
	default:
		return core1_0.FormatUndefined, false
	}
}

// AtomicSupport lists which optional image atomics a device supports
type AtomicSupport struct {
	Float32 bool
	Int64   bool
}

// IsAtomicAllowed returns true if shaders may issue image atomics on the format
func IsAtomicAllowed(format core1_0.Format, support AtomicSupport) bool {
	switch format {
	case core1_0.FormatR32UnsignedInt, core1_0.FormatR32SignedInt:
		return true
	case core1_0.FormatR32SignedFloat:
		return support.Float32
	case core1_0.FormatR64UnsignedInt, FormatR64SInt:
		return support.Int64
	default:
		return false
	}
}

// AnyAtomicAllowed returns true if shaders may issue image atomics through any of the formats.
// An empty list stands for every format with the same element size as imageFormat, since a
// mutable image without a format list can be viewed through any of them.
func AnyAtomicAllowed(imageFormat core1_0.Format, viewFormats []core1_0.Format, support AtomicSupport) bool {
	if len(viewFormats) == 0 {
		desc, ok := Lookup(imageFormat)
		if !ok {
			return false
		}
		bpb := desc.BlockBits
		return bpb == 16 || bpb == 32 || bpb == 64
	}

	return slices.IndexFunc(viewFormats, func(format core1_0.Format) bool {
		return IsAtomicAllowed(format, support)
	}) >= 0
}

type numericClass int

const (
	classNorm numericClass = iota
	classSNorm
	classUInt
	classSInt
	classFloat
	classDepthStencil
)

func classOf(kind NumericKind) numericClass {
	switch kind {
	case NumericUNorm, NumericSRGB:
		return classNorm
	case NumericSNorm:
		return classSNorm
	case NumericUInt:
		return classUInt
	case NumericSInt:
		return classSInt
	case NumericFloat:
		return classFloat
	default:
		return classDepthStencil
	}
}

// DCCCompatible returns true if a and b can share one DCC-compressed surface. signReinterpret
// is true if the two formats only differ in signedness, which the clear value encoding must
// account for.
func DCCCompatible(a, b core1_0.Format) (compatible bool, signReinterpret bool) {
	if a == b {
		return true, false
	}

	descA, okA := Lookup(a)
	descB, okB := Lookup(b)
	if !okA || !okB {
		return false, false
	}

	if descA.Layout != LayoutPlain || descB.Layout != LayoutPlain {
		return false, false
	}

	if descA.BlockBits != descB.BlockBits || descA.NumChannels != descB.NumChannels ||
		descA.ChannelBits != descB.ChannelBits || descA.ColorSwap != descB.ColorSwap {
		return false, false
	}

	classA := classOf(descA.Numeric)
	classB := classOf(descB.Numeric)
	if classA == classB {
		return true, false
	}

	switch {
	case classA == classUInt && classB == classSInt, classA == classSInt && classB == classUInt:
		return true, true
	case classA == classNorm && classB == classSNorm, classA == classSNorm && classB == classNorm:
		return true, true
	}

	return false, false
}

// SameBitsPerChannel returns true if a and b store the same number of bits in each channel,
// so a clear colour packed for one reads back as the same bit pattern through the other
func SameBitsPerChannel(a, b core1_0.Format) bool {
	if a == b {
		return true
	}

	descA, okA := Lookup(a)
	descB, okB := Lookup(b)
	if !okA || !okB {
		return false
	}

	return descA.ChannelBits == descB.ChannelBits
}
