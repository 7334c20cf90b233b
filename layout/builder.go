package layout

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/imagelayout/formats"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/memutils"
	"github.com/vkngwrapper/imagelayout/memutils/metadata"
	"github.com/vkngwrapper/imagelayout/surface"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// SparseAlignment is the page size sparse images are aligned to
const SparseAlignment uint64 = 4096

// Builder computes image layouts for one device. A Builder holds no per-image state and can be
// used from multiple goroutines at once, as long as the Calculator can.
type Builder struct {
	logger    *slog.Logger
	rules     *Rules
	calc      surface.Calculator
	policy    ImportPolicy
	surfIndex *atomic.Uint32
}

// NewBuilder creates a Builder. surfIndex is the device-wide counter consulted when choosing
// tile swizzles; it may be nil, in which case no surface gets a swizzle.
func NewBuilder(logger *slog.Logger, info hwinfo.Info, calc surface.Calculator, surfIndex *atomic.Uint32, policy ImportPolicy) *Builder {
	return &Builder{
		logger:    logger,
		rules:     NewRules(info),
		calc:      calc,
		policy:    policy,
		surfIndex: surfIndex,
	}
}

// Rules returns the compression rules the Builder applies
func (b *Builder) Rules() *Rules {
	return b.rules
}

// Calculator returns the tiling oracle the Builder lays planes out with
func (b *Builder) Calculator() surface.Calculator {
	return b.calc
}

func queueFamilyMask(desc *ImageDescriptor) hwinfo.QueueMask {
	if desc.SharingMode != core1_0.SharingModeConcurrent {
		return 0
	}

	var mask hwinfo.QueueMask
	for _, family := range desc.QueueFamilies {
		if family == hwinfo.QueueForeign || family == hwinfo.QueueIgnored {
			mask |= hwinfo.AllQueues
			continue
		}
		mask |= hwinfo.QueueMaskOf(family)
	}

	return mask
}

// selectModifier returns the modifier a DRM modifier image is laid out with. Images with any
// other tiling get surface.ModifierInvalid.
func (b *Builder) selectModifier(desc *ImageDescriptor) (surface.Modifier, error) {
	if !desc.UsesModifier() {
		return surface.ModifierInvalid, nil
	}

	if desc.DRMModifier != nil {
		return desc.DRMModifier.Modifier, nil
	}

	useDCC, _ := b.rules.UseDCCEarly(desc, desc.Format)
	bpe := formats.MustLookup(desc.Format).BytesPerElement()

	for _, modifier := range b.calc.SupportedModifiers(bpe) {
		if modifier.HasDCC() && !useDCC {
			continue
		}

		if slices.Contains(desc.ModifierList, modifier) {
			return modifier, nil
		}
	}

	return surface.ModifierInvalid, errors.Wrapf(ErrUnsupportedModifier, "none of the %d requested modifiers can lay out format %d",
		len(desc.ModifierList), int(desc.Format))
}

func planeSurface(planeFormat core1_0.Format, flags surface.Flags, modifier surface.Modifier) *surface.Surface {
	format := formats.MustLookup(formats.DepthOnly(planeFormat))

	bpe := format.BytesPerElement()
	if bpe == 3 {
		bpe = 4
	}

	surf := surface.NewSurface(flags, format.BlockWidth, format.BlockHeight, bpe)
	surf.Modifier = modifier
	return surf
}

// Build computes the layout of an image. It does not modify desc. The result depends only on
// the device, desc, and the value of the swizzle counter.
func (b *Builder) Build(desc *ImageDescriptor) (*Image, error) {
	err := desc.Validate()
	if err != nil {
		return nil, err
	}

	planeCount := b.rules.InternalPlaneCount(desc.Format)

	img := &Image{
		Descriptor:      *desc,
		Exclusive:       desc.SharingMode != core1_0.SharingModeConcurrent,
		Shareable:       desc.IsShareable(),
		QueueFamilyMask: queueFamilyMask(desc),
		Disjoint:        planeCount > 1 && desc.HasFlag(ImageCreateDisjoint),
		Planes:          make([]PlaneLayout, planeCount),
	}

	img.Modifier, err = b.selectModifier(desc)
	if err != nil {
		return nil, err
	}

	img.Width, img.Height, err = b.patchDimensions(desc)
	if err != nil {
		return nil, err
	}

	planeFlags := make([]surface.Flags, planeCount)
	for plane := 0; plane < planeCount; plane++ {
		img.Planes[plane].Format = b.rules.PlaneFormat(desc.Format, plane)

		var signReinterpret bool
		planeFlags[plane], signReinterpret = b.rules.SurfaceFlags(desc, img.Planes[plane].Format)
		img.DCCSignReinterpret = img.DCCSignReinterpret || signReinterpret
	}

	useSurfIndex := b.patchPlaneFlags(desc, planeFlags)
	if formats.MustLookup(desc.Format).IsDepthOrStencil() || img.Shareable ||
		desc.HasFlag(core1_0.ImageCreateSparseAliased|ImageCreateAlias) || desc.UsesModifier() {
		useSurfIndex = false
	}

	var modInfo *DRMModifierLayout
	if desc.UsesModifier() {
		modInfo = desc.DRMModifier
	}

	if img.Disjoint {
		img.bindings = make([]*metadata.LinearBlockMetadata, planeCount)
	} else {
		img.bindings = make([]*metadata.LinearBlockMetadata, 1)
	}
	for index := range img.bindings {
		img.bindings[index] = metadata.NewLinearBlockMetadata()
	}
	img.bound = make([]*MemoryBinding, len(img.bindings))

	var dccImageStores bool
	var runningSize uint64
	img.Alignment = 1

	for plane := 0; plane < planeCount; plane++ {
		planeLayout := &img.Planes[plane]
		surf := planeSurface(planeLayout.Format, planeFlags[plane], img.Modifier)
		planeLayout.Surface = surf

		planeLayout.Width = formats.PlaneWidth(desc.Format, plane, img.Width)
		planeLayout.Height = formats.PlaneHeight(desc.Format, plane, img.Height)
		if desc.isVideoDecodeSurface() {
			planeLayout.Width = memutils.AlignUp(planeLayout.Width, desc.videoAlignment())
			planeLayout.Height = memutils.AlignUp(planeLayout.Height, desc.videoAlignment())
		}

		config := surface.Config{
			Width:          planeLayout.Width,
			Height:         planeLayout.Height,
			Depth:          desc.Depth(),
			ArraySize:      desc.ArrayLayers,
			Levels:         desc.MipLevels,
			Samples:        desc.SampleCount(),
			StorageSamples: desc.SampleCount(),
			IsCube:         desc.HasFlag(core1_0.ImageCreateCubeCompatible),
		}
		if useSurfIndex {
			config.SurfIndex = b.surfIndex
		}

		if desc.NoMetadataPlanes || planeCount > 1 {
			surf.Flags.DisableAllMetadata()
		}

		err = b.calc.Init(config, surf)
		if err != nil {
			sentinel := ErrInvalidDescriptor
			if desc.UsesModifier() {
				sentinel = ErrUnsupportedModifier
			}
			return nil, errors.WithSecondaryError(errors.Wrapf(sentinel, "plane %d of format %d cannot be laid out", plane, int(planeLayout.Format)), err)
		}

		if plane == 0 {
			dccImageStores = b.calc.Supports(surf, surface.QueryDCCImageStores)
			if !b.rules.UseDCCLate(desc, surf.HasDCC(), dccImageStores) {
				b.calc.ZeroDCCFields(surf)
				dccImageStores = b.calc.Supports(surf, surface.QueryDCCImageStores)
			}
		}

		if desc.BOMetadata != nil && modInfo == nil {
			if !validOpaqueMetadata(b.rules.info, desc.BOMetadata) {
				b.calc.ZeroDCCFields(surf)
			} else if !b.calc.ApplyUMDMetadata(surf, desc.SampleCount(), desc.MipLevels, desc.BOMetadata.UMD) {
				return nil, errors.Wrapf(ErrInvalidExternalLayout, "imported metadata does not describe plane %d", plane)
			}
		}

		if !desc.NoMetadataPlanes && desc.BOMetadata == nil && planeCount == 1 && modInfo == nil {
			b.placeSingleSampleCMask(desc, surf, dccImageStores)
		}

		var offset uint64
		var stride int
		if modInfo != nil {
			if plane >= len(modInfo.PlaneLayouts) {
				return nil, errors.Wrapf(ErrInvalidPlaneLayout, "no layout given for plane %d", plane)
			}

			subresource := modInfo.PlaneLayouts[plane]
			bpe := uint64(surf.BytesPerElement)
			if subresource.RowPitch == 0 || subresource.RowPitch%bpe != 0 {
				return nil, errors.Wrapf(ErrInvalidPlaneLayout, "row pitch %d of plane %d is not a multiple of its %d-byte elements",
					subresource.RowPitch, plane, bpe)
			}

			offset = subresource.Offset
			stride = int(subresource.RowPitch / bpe)
		} else if !img.Disjoint {
			offset = memutils.AlignUp(runningSize, surf.Alignment)
		}

		if !b.calc.OverrideOffsetStride(surf, desc.ArrayLayers, desc.MipLevels, offset, stride) {
			return nil, errors.Wrapf(ErrInvalidPlaneLayout, "plane %d cannot be placed at offset %d with a pitch of %d elements", plane, offset, stride)
		}

		_, err = memutils.CheckedAdd(offset, surf.TotalSize)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPlaneLayout, "plane %d of %d bytes at offset %d runs past the end of the address space",
				plane, surf.TotalSize, offset)
		}

		if planeCount == 1 && modInfo != nil {
			err = b.checkMemoryPlanes(surf, modInfo)
			if err != nil {
				return nil, err
			}
		}

		*planeLayout = PlaneLayout{
			Format:    planeLayout.Format,
			Surface:   surf,
			Width:     planeLayout.Width,
			Height:    planeLayout.Height,
			Offset:    offset,
			Size:      surf.TotalSize,
			Alignment: memutils.Max(surf.Alignment, 1),
		}
		if img.Disjoint {
			planeLayout.Binding = plane
		}

		err = recordPlane(img, plane)
		if err != nil {
			if modInfo != nil {
				return nil, errors.WithSecondaryError(errors.Wrap(ErrInvalidPlaneLayout, "explicit plane layout overlaps itself"), err)
			}
			return nil, errors.WithAssertionFailure(err)
		}

		runningSize = memutils.Max(runningSize, offset+surf.TotalSize)
		img.Alignment = memutils.Max(img.Alignment, planeLayout.Alignment)
	}

	img.TCCompatibleCMask = img.HasCMask() && b.rules.UseTCCompatCMask(desc, img.HasFMask())
	img.L2Coherent = b.rules.L2Coherent(img)
	img.SupportsCompToSingle = b.rules.SupportsCompToSingle(desc, img.Planes[0].Surface)
	img.DCCImageStores = dccImageStores
	img.Predication = b.rules.UseDCCPredication(img.HasDCC(0), dccImageStores)
	img.DCCSignReinterpret = img.DCCSignReinterpret && img.HasDCC(0)

	for plane := range img.Planes {
		img.Planes[plane].Capabilities = planeCapabilities(img, plane)
	}

	err = b.rules.appendAuxiliaryRegions(img)
	if err != nil {
		return nil, err
	}

	if desc.HasFlag(core1_0.ImageCreateSparseBinding) {
		img.Alignment = memutils.Max(img.Alignment, SparseAlignment)
	}

	finishBindings(img)

	memutils.DebugValidate(img)
	err = img.Validate()
	if err != nil {
		return nil, err
	}

	b.logger.Debug("Builder::Build",
		slog.Int("format", int(desc.Format)),
		slog.Int("width", img.Width),
		slog.Int("height", img.Height),
		slog.Int("planes", planeCount),
		slog.Uint64("size", img.Size),
		slog.Uint64("alignment", img.Alignment),
		slog.String("capabilities", img.Planes[0].Capabilities.String()),
	)

	return img, nil
}

// placeSingleSampleCMask appends CMASK to a single-sample colour surface that the oracle left
// without one, so that fast clears work without DCC
func (b *Builder) placeSingleSampleCMask(desc *ImageDescriptor, surf *surface.Surface, dccImageStores bool) {
	if surf.CMaskSize == 0 || surf.CMaskOffset != 0 {
		return
	}

	if surf.BytesPerElement > 8 || desc.MipLevels > 1 || desc.Depth() > 1 || surf.HasDCC() {
		return
	}

	if !b.rules.UseFastClear(desc, dccImageStores) || desc.HasFlag(core1_0.ImageCreateSparseBinding) {
		return
	}

	surf.CMaskOffset = memutils.AlignUp(surf.TotalSize, surf.CMaskAlignment)
	surf.TotalSize = surf.CMaskOffset + surf.CMaskSize
	surf.Alignment = memutils.Max(surf.Alignment, surf.CMaskAlignment)
}

func (b *Builder) checkMemoryPlanes(surf *surface.Surface, modInfo *DRMModifierLayout) error {
	memoryPlanes := b.calc.MemoryPlaneCount(surf)
	if memoryPlanes != len(modInfo.PlaneLayouts) {
		return errors.Wrapf(ErrUnsupportedModifier, "modifier %#x has %d memory planes but %d plane layouts were given",
			uint64(surf.Modifier), memoryPlanes, len(modInfo.PlaneLayouts))
	}

	for plane := 1; plane < memoryPlanes; plane++ {
		offset := b.calc.PlaneOffset(surf, plane, 0)
		if offset != modInfo.PlaneLayouts[plane].Offset {
			return errors.Wrapf(ErrInvalidPlaneLayout, "memory plane %d must be at offset %d, not %d",
				plane, offset, modInfo.PlaneLayouts[plane].Offset)
		}
	}

	return nil
}

func planeCapabilities(img *Image, plane int) Capabilities {
	surf := img.Planes[plane].Surface
	tcCompatHTile := surf.HasHTile() && surf.Flags.TCCompatibleHTile
	tcCompatCMask := plane == 0 && img.TCCompatibleCMask

	var caps Capabilities
	if surf.HasCMask() || surf.HasHTile() {
		caps |= CapabilityFastClearAux
	}

	if surf.HasDCC() {
		caps |= CapabilityLosslessCompression
		if plane == 0 && img.DCCImageStores {
			caps |= CapabilityStoreCompatible
		}
		if plane == 0 && img.Predication {
			caps |= CapabilityPredication
		}
		if plane == 0 && img.SupportsCompToSingle {
			caps |= CapabilitySingleValueClear
		}
	}

	if surf.HasHTile() {
		caps |= CapabilityHierarchicalDepth
	}
	if surf.HasFMask() {
		caps |= CapabilityMultisampleAux
	}

	if tcCompatHTile || (surf.HasDCC() && img.Descriptor.HasUsage(shaderReadUsage|core1_0.ImageUsageStorage)) || (tcCompatCMask && surf.HasFMask()) {
		caps |= CapabilityCompressionShaderReadable
	}
	if tcCompatHTile || (tcCompatCMask && surf.HasFMask()) {
		caps |= CapabilityTCCompatible
	}

	return caps
}
