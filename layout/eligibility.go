package layout

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/memutils"
	"github.com/vkngwrapper/imagelayout/surface"
)

const shaderReadUsage = core1_0.ImageUsageSampled | core1_0.ImageUsageInputAttachment | core1_0.ImageUsageTransferSrc

// Rules decides which compression features an image may use on a device. Every rule is a pure
// function of the device description and the image descriptor: a rule that does not hold only
// means a less optimal layout, never an error.
type Rules struct {
	info hwinfo.Info
	caps hwinfo.Capabilities
}

// NewRules creates the rules for a device
func NewRules(info hwinfo.Info) *Rules {
	return &Rules{
		info: info,
		caps: info.Capabilities(),
	}
}

func (r *Rules) Info() hwinfo.Info                 { return r.info }
func (r *Rules) Capabilities() hwinfo.Capabilities { return r.caps }

func (r *Rules) debug(flag hwinfo.DebugFlags) bool {
	return r.info.DebugFlags&flag != 0
}

func (r *Rules) atomicSupport() formats.AtomicSupport {
	return formats.AtomicSupport{
		Float32: r.info.ImageFloat32Atomics,
		Int64:   r.info.ImageInt64Atomics,
	}
}

// ChooseTiling returns the tiling mode of the image's surfaces
func (r *Rules) ChooseTiling(desc *ImageDescriptor) surface.Mode {
	if desc.Tiling == core1_0.ImageTilingLinear || desc.isVideoDecodeSurface() {
		return surface.ModeLinearAligned
	}

	if desc.SampleCount() > 1 {
		return surface.Mode2D
	}

	format := formats.MustLookup(desc.Format)
	if r.caps.LinearThinSurfaces && !format.IsCompressed() && !format.IsDepthOrStencil() {
		if desc.Type == core1_0.ImageType1D || (desc.Width() > 8 && desc.Height() <= 2) {
			return surface.ModeLinearAligned
		}
	}

	return surface.Mode2D
}

// UseTCCompatHTile returns true if depth metadata should be readable by the texture unit
func (r *Rules) UseTCCompatHTile(desc *ImageDescriptor) bool {
	if !r.caps.TCCompatibleHTile || desc.Tiling == core1_0.ImageTilingLinear {
		return false
	}

	if !desc.HasUsage(shaderReadUsage) {
		return false
	}

	if r.caps.TCCompatibleHTileLimited {
		if desc.SampleCount() >= 2 && desc.Format == core1_0.FormatD32SignedFloatS8UnsignedInt {
			return false
		}

		switch desc.Format {
		case core1_0.FormatD32SignedFloatS8UnsignedInt, core1_0.FormatD32SignedFloat, core1_0.FormatD16UnsignedNormalized:
		default:
			return false
		}

		if desc.ArrayLayers > 1 {
			return false
		}
	}

	return true
}

// UseFastClearEarly returns true if the image is large enough and used in a way that makes fast
// clear metadata worth allocating
func (r *Rules) UseFastClearEarly(desc *ImageDescriptor) bool {
	if r.debug(hwinfo.DebugForceCompress) {
		return true
	}

	if desc.SampleCount() <= 1 && desc.Width()*desc.Height() < r.caps.FastClearMinPixels {
		return false
	}

	return desc.HasUsage(core1_0.ImageUsageColorAttachment)
}

// UseFastClear refines UseFastClearEarly once the surface is known. Concurrent images keep fast
// clear metadata only if image stores keep DCC compressed on every queue.
func (r *Rules) UseFastClear(desc *ImageDescriptor, dccImageStores bool) bool {
	if r.debug(hwinfo.DebugForceCompress) {
		return true
	}

	return r.UseFastClearEarly(desc) && (desc.SharingMode == core1_0.SharingModeExclusive || dccImageStores)
}

// FormatsDCCCompatible returns true if every format the image can be viewed through can share
// its DCC. signReinterpret is true if some view only differs from the image format in signedness.
func (r *Rules) FormatsDCCCompatible(desc *ImageDescriptor, format core1_0.Format) (compatible bool, signReinterpret bool) {
	formatDesc, ok := formats.Lookup(format)
	if !ok || !formatDesc.Renderable || formatDesc.IsDepthOrStencil() {
		return false, false
	}

	if !desc.IsMutable() {
		return true, false
	}

	if len(desc.ViewFormats) == 0 {
		return false, false
	}

	for _, viewFormat := range desc.ViewFormats {
		if viewFormat == core1_0.FormatUndefined {
			continue
		}

		viewCompatible, viewSignReinterpret := formats.DCCCompatible(format, viewFormat)
		if !viewCompatible {
			return false, false
		}
		signReinterpret = signReinterpret || viewSignReinterpret
	}

	return true, signReinterpret
}

// IsAtomicAllowed returns true if shaders may issue image atomics through the image or any of its
// views
func (r *Rules) IsAtomicAllowed(desc *ImageDescriptor, format core1_0.Format) bool {
	support := r.atomicSupport()
	if formats.IsAtomicAllowed(format, support) {
		return true
	}

	if desc.IsMutable() {
		return formats.AnyAtomicAllowed(format, desc.ViewFormats, support)
	}

	return false
}

// UseDCCEarly returns true if the surface flags should allow DCC, before the surface is computed
func (r *Rules) UseDCCEarly(desc *ImageDescriptor, format core1_0.Format) (useDCC bool, signReinterpret bool) {
	if !r.caps.LosslessCompression || r.debug(hwinfo.DebugNoDCC) {
		return false, false
	}

	if desc.IsShareable() && !desc.UsesModifier() {
		return false, false
	}

	if desc.HasUsage(core1_0.ImageUsageStorage) && (!r.caps.StorageCompression || r.IsAtomicAllowed(desc, format)) {
		return false, false
	}

	if desc.Tiling == core1_0.ImageTilingLinear {
		return false, false
	}

	formatDesc := formats.MustLookup(format)
	if formatDesc.IsSubsampled() || formatDesc.PlaneCount() > 1 {
		return false, false
	}

	if !r.UseFastClearEarly(desc) && !desc.UsesModifier() {
		return false, false
	}

	if desc.ArrayLayers > 1 && desc.MipLevels > 1 {
		return false, false
	}

	samples := desc.SampleCount()
	if samples > 1 && r.caps.MultisampleCompressionGated && !r.info.DCCMSAAAllowed {
		return false, false
	}

	if !r.caps.LayeredMipmappedCompression && (desc.ArrayLayers > 1 || desc.MipLevels > 1) {
		return false, false
	}

	if samples > 1 && !r.info.UseFMask() {
		return false, false
	}

	if !r.caps.MipmappedCompression && desc.MipLevels > 1 {
		return false, false
	}

	return r.FormatsDCCCompatible(desc, format)
}

// UseDCCLate returns true if DCC computed by the oracle should be kept
func (r *Rules) UseDCCLate(desc *ImageDescriptor, hasDCC bool, dccImageStores bool) bool {
	if !hasDCC {
		return false
	}

	if desc.UsesModifier() {
		return true
	}

	if !r.UseFastClear(desc, dccImageStores) {
		return false
	}

	if desc.HasUsage(core1_0.ImageUsageStorage) && !dccImageStores {
		return false
	}

	return true
}

// UseDCCPredication returns true if DCC decompression needs a predicate
func (r *Rules) UseDCCPredication(hasDCC bool, dccImageStores bool) bool {
	return hasDCC && !dccImageStores
}

// UseFMask returns true if a multisampled colour image should get FMASK
func (r *Rules) UseFMask(desc *ImageDescriptor) bool {
	return r.info.UseFMask() && desc.SampleCount() > 1 &&
		(desc.HasUsage(core1_0.ImageUsageColorAttachment) || r.debug(hwinfo.DebugForceCompress))
}

// UseHTile returns true if a depth image should get HTILE
func (r *Rules) UseHTile(desc *ImageDescriptor) bool {
	if r.caps.StencilMipHTileBroken && desc.Format == core1_0.FormatD32SignedFloatS8UnsignedInt && desc.MipLevels > 1 {
		return false
	}

	vrsException := r.info.Generation == hwinfo.GFX10_3 && r.info.AttachmentVRSEnabled
	if desc.Width()*desc.Height() < r.caps.HTileMinPixels && !r.debug(hwinfo.DebugForceCompress) && !vrsException {
		return false
	}

	useForMips := desc.ArrayLayers == 1 && r.caps.HTileForMips
	return (desc.MipLevels == 1 || useForMips) && !desc.IsShareable()
}

// UseTCCompatCMask returns true if the texture unit should read CMASK directly
func (r *Rules) UseTCCompatCMask(desc *ImageDescriptor, hasFMask bool) bool {
	if !r.caps.TCCompatibleCMask {
		return false
	}

	if r.caps.TCCompatibleCMaskMaxSamples > 0 && desc.SampleCount() > r.caps.TCCompatibleCMaskMaxSamples {
		return false
	}

	if r.debug(hwinfo.DebugNoTCCompatCMask) {
		return false
	}

	if desc.HasUsage(core1_0.ImageUsageStorage) && !r.caps.TCCompatibleCMaskStorage {
		return false
	}

	if !desc.HasUsage(shaderReadUsage) {
		return false
	}

	return hasFMask
}

// CanFastClear returns true if an image with this metadata supports fast clears at all
func (r *Rules) CanFastClear(desc *ImageDescriptor, plane *surface.Surface) bool {
	if r.debug(hwinfo.DebugNoFastClears) {
		return false
	}

	format := formats.MustLookup(desc.Format)
	if !format.IsDepthOrStencil() {
		if !plane.HasCMask() && !plane.HasDCC() {
			return false
		}

		if r.info.Family == hwinfo.FamilyStoney && !plane.HasDCC() {
			return false
		}

		if plane.HasCMask() && format.BlockBits > 64 {
			return false
		}
	} else if !plane.HasHTile() {
		return false
	}

	return desc.Type != core1_0.ImageType3D
}

// SupportsCompToSingle returns true if fast clears can write the clear value into DCC directly
func (r *Rules) SupportsCompToSingle(desc *ImageDescriptor, plane *surface.Surface) bool {
	if !r.caps.SingleValueClear || !plane.HasDCC() || !r.CanFastClear(desc, plane) {
		return false
	}

	if formats.MustLookup(desc.Format).BytesPerElement() <= 2 && !r.info.RBPlusAllowed {
		return false
	}

	return true
}

// PipeMisaligned returns true if some metadata of the image is not aligned to the memory pipes,
// which makes it incoherent between the texture cache and the render backends
func (r *Rules) PipeMisaligned(img *Image) bool {
	if r.info.Generation < hwinfo.GFX10 {
		return false
	}

	desc := &img.Descriptor
	isDepth := formats.MustLookup(desc.Format).HasDepth()
	log2Samples := memutils.LogBase2(uint64(desc.SampleCount()))

	for index := range img.Planes {
		log2BPP := memutils.LogBase2(uint64(formats.MustLookup(img.Planes[index].Format).BytesPerElement()))

		var log2BPPAndSamples int
		if r.info.Generation >= hwinfo.GFX10_3 {
			log2BPPAndSamples = log2BPP + log2Samples
		} else {
			if isDepth && desc.ArrayLayers >= 8 {
				log2BPP = 2
			}
			log2BPPAndSamples = memutils.Min(6, log2BPP+log2Samples)
		}

		overlap := memutils.Max(0, log2BPPAndSamples+r.info.PipesLog2-8)

		if isDepth {
			if img.IsTCCompatHTile() && overlap > 0 {
				return true
			}
			continue
		}

		fragDiff := memutils.Max(0, log2Samples-r.info.MaxCompressedFragsLog2)
		samplesOverlap := memutils.Min(log2Samples, overlap)
		if (img.HasDCC(0) || img.TCCompatibleCMask) && samplesOverlap > fragDiff {
			return true
		}
	}

	return false
}

// L2Coherent returns true if metadata written through L2 is visible to the render backends
// without a flush
func (r *Rules) L2Coherent(img *Image) bool {
	desc := &img.Descriptor

	if r.info.Generation >= hwinfo.GFX10 {
		return !r.info.TCCRBNonCoherent && !r.PipeMisaligned(img)
	}

	if r.info.Generation == hwinfo.GFX9 {
		return desc.SampleCount() == 1 &&
			desc.HasUsage(core1_0.ImageUsageColorAttachment|core1_0.ImageUsageDepthStencilAttachment) &&
			!formats.MustLookup(desc.Format).HasStencil()
	}

	return false
}
