package projection

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/layout"
)

// writeUsage is the usage that lets the device write an image outside of shader image stores
// of a read-only layout
const writeUsage = core1_0.ImageUsageTransferDst | core1_0.ImageUsageColorAttachment |
	core1_0.ImageUsageDepthStencilAttachment | core1_0.ImageUsageStorage

// FMaskCompression is how much of an image's FMASK compression survives a layout
type FMaskCompression int

const (
	// FMaskCompressionNone means FMASK must be fully expanded
	FMaskCompressionNone FMaskCompression = iota
	// FMaskCompressionPartial means the image is not compressed further but FMASK need not be
	// expanded
	FMaskCompressionPartial
	// FMaskCompressionFull means FMASK compression stays live
	FMaskCompressionFull
)

var fmaskCompressionMapping = map[FMaskCompression]string{
	FMaskCompressionNone:    "None",
	FMaskCompressionPartial: "Partial",
	FMaskCompressionFull:    "Full",
}

func (c FMaskCompression) String() string {
	return fmaskCompressionMapping[c]
}

// FastClearPermission is which clears of an image may take the fast path
type FastClearPermission int

const (
	FastClearNone FastClearPermission = iota
	// FastClearDefaultValue permits fast clears to the values the hardware can represent without
	// a clear register: all-zero and all-one colours, depth 0.0 or 1.0 and stencil 0
	FastClearDefaultValue
	// FastClearAnyValue permits fast clears to any colour
	FastClearAnyValue
)

var fastClearPermissionMapping = map[FastClearPermission]string{
	FastClearNone:         "None",
	FastClearDefaultValue: "DefaultValue",
	FastClearAnyValue:     "AnyValue",
}

func (p FastClearPermission) String() string {
	return fastClearPermissionMapping[p]
}

// State is the caller's current use of an image: the layout it is in and the queue families that
// may access it while it is in that layout
type State struct {
	Layout core1_0.ImageLayout
	Queues hwinfo.QueueMask
	// Level is the mip level the question is asked about. DCC may cover fewer levels than the
	// image has.
	Level int
}

// Projection is what a State means for an image's compression metadata
type Projection struct {
	// HTileCompressed means HTILE holds live compression state and must be resolved before the
	// depth surface is read without it
	HTileCompressed bool
	// DCCCompressed means DCC holds live compression state
	DCCCompressed bool
	FMask         FMaskCompression
	FastClear     FastClearPermission
	// UntrackedWrite means shader stores in this state may leave DCC compressed without the
	// command stream knowing, so consumers must assume it is compressed
	UntrackedWrite bool
}

// Projector answers layout questions about images built with one set of eligibility rules. It
// holds no per-image state and is safe for concurrent use.
type Projector struct {
	rules *layout.Rules
	info  hwinfo.Info
}

func New(rules *layout.Rules) *Projector {
	return &Projector{
		rules: rules,
		info:  rules.Info(),
	}
}

// QueueFamilyMask returns the queue families that may access an image after an ownership transfer
// to family. current is the family the command buffer recording the transfer belongs to, which
// hwinfo.QueueIgnored resolves to.
func QueueFamilyMask(img *layout.Image, family hwinfo.QueueFamily, current hwinfo.QueueFamily) hwinfo.QueueMask {
	if !img.Exclusive {
		return img.QueueFamilyMask
	}

	switch family {
	case hwinfo.QueueForeign:
		return hwinfo.AllQueues | hwinfo.QueueMaskOf(hwinfo.QueueForeign)
	case hwinfo.QueueIgnored:
		return hwinfo.QueueMaskOf(current)
	default:
		return hwinfo.QueueMaskOf(family)
	}
}

// Project answers every layout question about an image in a state at once
func (p *Projector) Project(img *layout.Image, state State) Projection {
	return Projection{
		HTileCompressed: p.HTileCompressed(img, state.Layout, state.Queues),
		DCCCompressed:   p.DCCCompressed(img, state.Level, state.Layout, state.Queues),
		FMask:           p.FMaskCompression(img, state.Layout, state.Queues),
		FastClear:       p.FastClear(img, state.Level, state.Layout, state.Queues),
		UntrackedWrite:  p.UntrackedWrite(img, state.Level, state.Layout, state.Queues),
	}
}

func dccEnabled(img *layout.Image, level int) bool {
	return img.HasDCC(0) && level < img.Descriptor.MipLevels
}

// HTileCompressed returns true if an image's HTILE stays compressed in a layout
func (p *Projector) HTileCompressed(img *layout.Image, imageLayout core1_0.ImageLayout, queues hwinfo.QueueMask) bool {
	switch imageLayout {
	case core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		layout.ImageLayoutDepthAttachmentOptimal,
		layout.ImageLayoutStencilAttachmentOptimal,
		layout.ImageLayoutAttachmentOptimal:
		return img.HasHTile()
	case core1_0.ImageLayoutTransferDstOptimal:
		return img.IsTCCompatHTile() || (img.HasHTile() && queues.Only(hwinfo.QueueGeneral))
	case core1_0.ImageLayoutGeneral, layout.ImageLayoutSharedPresent:
		return img.IsTCCompatHTile() && queues.Has(hwinfo.QueueGeneral) && !p.info.NoTCCompatHTileInGeneral
	case layout.ImageLayoutAttachmentFeedbackLoop:
		// Reading and writing HTILE in the same pass corrupts it
		return false
	case core1_0.ImageLayoutDepthStencilReadOnlyOptimal, layout.ImageLayoutReadOnlyOptimal:
		// Depth only read as an attachment can stay compressed
		return img.IsTCCompatHTile() ||
			(img.HasHTile() && !img.Descriptor.HasUsage(core1_0.ImageUsageSampled|core1_0.ImageUsageInputAttachment))
	default:
		return img.IsTCCompatHTile()
	}
}

// DCCCompressed returns true if a level of an image keeps DCC compressed in a layout
func (p *Projector) DCCCompressed(img *layout.Image, level int, imageLayout core1_0.ImageLayout, queues hwinfo.QueueMask) bool {
	if !dccEnabled(img, level) {
		return false
	}

	if img.Descriptor.Tiling == layout.ImageTilingDRMFormatModifier && queues.Has(hwinfo.QueueForeign) {
		return true
	}

	if !img.Descriptor.HasUsage(writeUsage) {
		return true
	}

	if (imageLayout == core1_0.ImageLayoutTransferDstOptimal || imageLayout == core1_0.ImageLayoutGeneral) &&
		queues.Has(hwinfo.QueueCompute) && !img.DCCImageStores {
		return false
	}

	if imageLayout == layout.ImageLayoutAttachmentFeedbackLoop {
		return false
	}

	return p.info.Generation >= hwinfo.GFX10 || imageLayout != core1_0.ImageLayoutGeneral
}

// FMaskCompression returns how compressed an image's FMASK stays in a layout
func (p *Projector) FMaskCompression(img *layout.Image, imageLayout core1_0.ImageLayout, queues hwinfo.QueueMask) FMaskCompression {
	if !img.HasFMask() || imageLayout == core1_0.ImageLayoutGeneral {
		return FMaskCompressionNone
	}

	// Image stores ignore FMASK
	if imageLayout == core1_0.ImageLayoutTransferDstOptimal && queues.Has(hwinfo.QueueCompute) {
		return FMaskCompressionNone
	}

	if img.TCCompatibleCMask {
		return FMaskCompressionFull
	}

	switch imageLayout {
	case core1_0.ImageLayoutShaderReadOnlyOptimal, core1_0.ImageLayoutTransferSrcOptimal:
		return FMaskCompressionPartial
	case layout.ImageLayoutAttachmentFeedbackLoop:
		return FMaskCompressionNone
	}

	if queues.Only(hwinfo.QueueGeneral) {
		return FMaskCompressionFull
	}
	return FMaskCompressionNone
}

// CanFastClearImage returns true if any clear of the image can take the fast path, regardless of
// its layout
func (p *Projector) CanFastClearImage(img *layout.Image) bool {
	return p.rules.CanFastClear(&img.Descriptor, img.Planes[0].Surface)
}

func isDepthAttachmentLayout(imageLayout core1_0.ImageLayout) bool {
	switch imageLayout {
	case core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		layout.ImageLayoutDepthAttachmentOptimal,
		layout.ImageLayoutStencilAttachmentOptimal,
		layout.ImageLayoutAttachmentOptimal,
		core1_0.ImageLayoutTransferDstOptimal,
		core1_0.ImageLayoutGeneral:
		return true
	}
	return false
}

// FastClear returns which clears of a level of an image may take the fast path in a layout
func (p *Projector) FastClear(img *layout.Image, level int, imageLayout core1_0.ImageLayout, queues hwinfo.QueueMask) FastClearPermission {
	if !p.CanFastClearImage(img) {
		return FastClearNone
	}

	if formats.MustLookup(img.Descriptor.Format).IsDepthOrStencil() {
		if !isDepthAttachmentLayout(imageLayout) || !p.HTileCompressed(img, imageLayout, queues) {
			return FastClearNone
		}
		return FastClearDefaultValue
	}

	if dccEnabled(img, level) && !p.DCCCompressed(img, level, imageLayout, queues) {
		return FastClearNone
	}

	if !img.Descriptor.HasUsage(writeUsage) {
		return FastClearNone
	}

	if imageLayout != core1_0.ImageLayoutColorAttachmentOptimal && imageLayout != layout.ImageLayoutAttachmentOptimal {
		return FastClearNone
	}

	// Fast clear eliminate passes only run on the general queue
	if !queues.Only(hwinfo.QueueGeneral) && !img.SupportsCompToSingle {
		return FastClearNone
	}

	if dccEnabled(img, level) && img.SupportsCompToSingle && !img.DCCSignReinterpret {
		return FastClearAnyValue
	}
	return FastClearDefaultValue
}

// UntrackedWrite returns true if shader stores to a level of an image in a layout may leave DCC
// compressed behind the command stream's back
func (p *Projector) UntrackedWrite(img *layout.Image, level int, imageLayout core1_0.ImageLayout, queues hwinfo.QueueMask) bool {
	if !img.DCCImageStores || !img.Descriptor.HasUsage(core1_0.ImageUsageStorage) {
		return false
	}

	if imageLayout != core1_0.ImageLayoutGeneral && imageLayout != core1_0.ImageLayoutTransferDstOptimal {
		return false
	}

	return p.DCCCompressed(img, level, imageLayout, queues)
}
