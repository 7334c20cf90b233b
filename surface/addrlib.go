package surface

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/imagelayout/descriptor"
	"github.com/vkngwrapper/imagelayout/hwinfo"
	"github.com/vkngwrapper/imagelayout/memutils"
)

const (
	metaAlignment   uint64 = 4096
	cmaskAlignment  uint64 = 4096
	linearAlignment uint64 = 256

	legacyMacroTileWidth  = 32
	legacyMacroTileHeight = 32
)

// AddrCalculator is a deterministic Calculator modelled on the hardware address library. It
// produces layouts with the same structure as the real hardware (padded pitches, per-level
// offsets, swizzle blocks, and metadata sub-surfaces placed after the primary surface), which
// is what the planner relies on.
type AddrCalculator struct {
	info hwinfo.Info
	caps hwinfo.Capabilities
}

var _ Calculator = &AddrCalculator{}

// NewAddrCalculator creates an AddrCalculator for a device
func NewAddrCalculator(info hwinfo.Info) *AddrCalculator {
	return &AddrCalculator{
		info: info,
		caps: info.Capabilities(),
	}
}

func (c *AddrCalculator) isGFX9Layout() bool {
	return c.caps.SurfaceLayout == hwinfo.SurfaceLayoutGFX9
}

func validateConfig(config Config, surf *Surface, gfx9 bool) error {
	if config.Width < 1 || config.Height < 1 || config.Depth < 1 || config.ArraySize < 1 || config.Levels < 1 {
		return errors.Newf("invalid surface extent %dx%dx%d with %d layers and %d levels", config.Width, config.Height, config.Depth, config.ArraySize, config.Levels)
	}

	if config.Depth > 1 && config.ArraySize > 1 {
		return errors.New("3D surfaces cannot have array layers")
	}

	samples := memutils.Max(1, config.Samples)
	if samples > 16 || memutils.CheckPow2(samples, "samples") != nil {
		return errors.Newf("invalid sample count %d", config.Samples)
	}

	switch surf.BytesPerElement {
	case 1, 2, 4, 8, 16:
	default:
		return errors.Newf("invalid bytes per element %d", surf.BytesPerElement)
	}

	if surf.BlockWidth < 1 || surf.BlockHeight < 1 {
		return errors.Newf("invalid block dimensions %dx%d", surf.BlockWidth, surf.BlockHeight)
	}

	maxExtent := memutils.Max(config.Width, memutils.Max(config.Height, config.Depth))
	if config.Levels > memutils.LogBase2(uint64(maxExtent))+1 {
		return errors.Newf("%d levels is too many for a %dx%dx%d surface", config.Levels, config.Width, config.Height, config.Depth)
	}

	if surf.Flags.Mode < ModeLinearAligned || surf.Flags.Mode > Mode2D {
		return errors.Newf("invalid surface mode %d", surf.Flags.Mode)
	}

	if surf.Modifier != ModifierInvalid && !surf.Modifier.IsLinear() {
		if !gfx9 {
			return errors.Newf("modifier 0x%x requires a GFX9+ device", uint64(surf.Modifier))
		}
		if !surf.Modifier.IsAMD() {
			return errors.Newf("modifier 0x%x is not an AMD modifier", uint64(surf.Modifier))
		}
	}

	return nil
}

// Init computes the layout of one plane
func (c *AddrCalculator) Init(config Config, surf *Surface) error {
	err := validateConfig(config, surf, c.isGFX9Layout())
	if err != nil {
		return err
	}

	*surf = Surface{
		Flags:           surf.Flags,
		Modifier:        surf.Modifier,
		BlockWidth:      surf.BlockWidth,
		BlockHeight:     surf.BlockHeight,
		BytesPerElement: surf.BytesPerElement,
		HasStencil:      surf.Flags.SBuffer,
	}

	samples := memutils.Max(1, config.Samples)
	if config.StorageSamples > 0 {
		samples = config.StorageSamples
	}

	if c.isGFX9Layout() {
		c.initGFX9(config, surf, samples)
	} else {
		c.initLegacy(config, surf, samples)
	}

	c.placeAux(surf, samples)
	memutils.DebugValidate(surf)

	return nil
}

func blockDims(blockBytes uint64, bpe int, samples int) (int, int) {
	log := memutils.LogBase2(blockBytes) - memutils.LogBase2(uint64(bpe)) - memutils.LogBase2(uint64(samples))
	if log < 0 {
		log = 0
	}
	return 1 << ((log + 1) / 2), 1 << (log / 2)
}

func (c *AddrCalculator) chooseSwizzleMode(config Config, surf *Surface, samples int) SwizzleMode {
	if surf.Modifier != ModifierInvalid {
		if surf.Modifier.IsLinear() {
			return SwizzleLinear
		}
		return surf.Modifier.Fields().SwizzleMode
	}

	if surf.Flags.Mode == ModeLinearAligned {
		return SwizzleLinear
	}

	if surf.Flags.ZBuffer || surf.Flags.SBuffer {
		return Swizzle64KBZX
	}

	if surf.Flags.Scanout {
		if c.info.Generation == hwinfo.GFX9 {
			return Swizzle64KBD
		}
		return Swizzle64KBRX
	}

	level0Bytes := uint64(memutils.DivRoundUp(config.Width, surf.BlockWidth)) *
		uint64(memutils.DivRoundUp(config.Height, surf.BlockHeight)) *
		uint64(surf.BytesPerElement*samples)
	if samples == 1 && level0Bytes < Swizzle64KBS.BlockBytes() {
		return Swizzle4KBS
	}

	if c.info.Generation == hwinfo.GFX9 {
		return Swizzle64KBSX
	}
	return Swizzle64KBRX
}

func computeGFX9Layout(config Config, blockWidth, blockHeight, bpe, samples int, swizzle SwizzleMode) *GFX9Layout {
	blockBytes := swizzle.BlockBytes()
	var alignX, alignY int
	if swizzle == SwizzleLinear {
		alignX, alignY = memutils.Max(1, int(linearAlignment)/bpe), 1
	} else {
		alignX, alignY = blockDims(blockBytes, bpe, samples)
	}

	layout := &GFX9Layout{
		SwizzleMode:   swizzle,
		BaseMipWidth:  memutils.DivRoundUp(config.Width, blockWidth),
		BaseMipHeight: memutils.DivRoundUp(config.Height, blockHeight),
	}

	var running uint64
	for level := 0; level < config.Levels; level++ {
		width := memutils.DivRoundUp(memutils.Minify(config.Width, level), blockWidth)
		height := memutils.DivRoundUp(memutils.Minify(config.Height, level), blockHeight)
		pitch := memutils.AlignUp(width, alignX)
		paddedHeight := memutils.AlignUp(height, alignY)
		slices := memutils.Minify(config.Depth, level)

		if swizzle == SwizzleLinear {
			running = memutils.AlignUp(running, linearAlignment)
		}

		layout.LevelOffsets = append(layout.LevelOffsets, running)
		layout.LevelPitches = append(layout.LevelPitches, pitch)
		running += uint64(pitch) * uint64(paddedHeight) * uint64(bpe*samples) * uint64(slices)

		if level == 0 {
			layout.SurfPitch = pitch
			layout.SurfHeight = paddedHeight
		}
	}

	layout.SurfSliceSize = memutils.AlignUp(running, blockBytes)
	layout.EPitch = layout.SurfPitch - 1
	return layout
}

func (c *AddrCalculator) dccParams(surf *Surface) MetaParams {
	if surf.Modifier.HasDCC() {
		fields := surf.Modifier.Fields()
		return MetaParams{
			PipeAligned:            fields.DCCPipeAlign,
			RBAligned:              fields.DCCPipeAlign && c.info.Generation == hwinfo.GFX9,
			Independent64B:         fields.DCCIndependent64B,
			Independent128B:        fields.DCCIndependent128B,
			MaxCompressedBlockSize: fields.DCCMaxCompressedBlock,
		}
	}

	params := MetaParams{
		PipeAligned: !surf.Flags.Scanout,
		RBAligned:   !surf.Flags.Scanout && c.info.Generation == hwinfo.GFX9,
	}

	if surf.Flags.Scanout && c.caps.DisplayCompressionRetile && c.info.RBPlusAllowed {
		params.PipeAligned = true
	}

	if c.info.Generation >= hwinfo.GFX10_3 {
		params.Independent128B = true
		params.MaxCompressedBlockSize = 128
	} else {
		params.Independent64B = true
		params.MaxCompressedBlockSize = 64
	}

	return params
}

func (c *AddrCalculator) wantsDCC(surf *Surface) bool {
	if surf.Flags.ZBuffer || surf.Flags.SBuffer || surf.Flags.DisableDCC || surf.IsLinear || !c.caps.LosslessCompression {
		return false
	}

	return surf.Modifier == ModifierInvalid || surf.Modifier.HasDCC()
}

func (c *AddrCalculator) wantsFMask(surf *Surface, samples int) bool {
	return samples > 1 && !surf.Flags.ZBuffer && !surf.Flags.NoFMask && !surf.IsLinear && c.caps.MultisampleAux
}

func (c *AddrCalculator) wantsCMask(surf *Surface, samples int) bool {
	if surf.Flags.ZBuffer || surf.Flags.SBuffer || surf.IsLinear || surf.Flags.PRT || !c.caps.MultisampleAux {
		return false
	}

	return samples == 1 || surf.FMaskSize > 0
}

func fmaskBytesPerPixel(samples int) int {
	if samples >= 8 {
		return 4
	}
	return 1
}

func (c *AddrCalculator) nextTileSwizzle(config Config, modulo uint32) uint32 {
	index := config.SurfIndex.Add(1) - 1
	return index % modulo
}

func (c *AddrCalculator) initGFX9(config Config, surf *Surface, samples int) {
	swizzle := c.chooseSwizzleMode(config, surf, samples)
	surf.IsLinear = swizzle == SwizzleLinear

	layout := computeGFX9Layout(config, surf.BlockWidth, surf.BlockHeight, surf.BytesPerElement, samples, swizzle)
	surf.Layout = layout
	surf.SurfSize = layout.SurfSliceSize * uint64(config.ArraySize)
	surf.SurfAlignment = swizzle.BlockBytes()

	if surf.Flags.ZBuffer && surf.Flags.SBuffer {
		stencil := computeGFX9Layout(config, 1, 1, 1, samples, swizzle)
		layout.StencilOffset = memutils.AlignUp(surf.SurfSize, surf.SurfAlignment)
		layout.StencilSwizzleMode = swizzle
		surf.SurfSize = layout.StencilOffset + stencil.SurfSliceSize*uint64(config.ArraySize)
	}

	layers := uint64(config.ArraySize)
	pitch := uint64(layout.SurfPitch)
	height := uint64(layout.SurfHeight)

	if c.wantsFMask(surf, samples) {
		surf.FMaskAlignment = Swizzle64KBS.BlockBytes()
		surf.FMaskSize = memutils.AlignUp(pitch*height*uint64(fmaskBytesPerPixel(samples))*layers, surf.FMaskAlignment)
		layout.FMaskSwizzleMode = Swizzle64KBSX
		layout.FMaskEPitch = layout.SurfPitch - 1
	}

	if c.wantsCMask(surf, samples) {
		tiles := uint64(memutils.DivRoundUp(layout.SurfPitch, 8)) * uint64(memutils.DivRoundUp(layout.SurfHeight, 8)) * layers
		surf.CMaskAlignment = cmaskAlignment
		surf.CMaskSize = memutils.AlignUp(memutils.DivRoundUp(tiles, 2), cmaskAlignment)
	}

	if c.wantsDCC(surf) {
		layout.DCC = c.dccParams(surf)
		layout.DCCPitchMax = memutils.AlignUp(layout.SurfPitch, 64) - 1
		surf.MetaAlignment = metaAlignment
		surf.MetaSize = memutils.AlignUp(memutils.DivRoundUp(surf.SurfSize, 256), metaAlignment)

		retile := surf.Modifier.HasDCCRetile()
		if surf.Modifier == ModifierInvalid {
			retile = surf.Flags.Scanout && c.caps.DisplayCompressionRetile && layout.DCC.PipeAligned
		}
		if retile {
			surf.DisplayDCCSize = memutils.AlignUp(memutils.DivRoundUp(surf.SurfSize, 256), metaAlignment)
		}
	}

	if surf.Flags.ZBuffer && !surf.Flags.NoHTile && !surf.IsLinear {
		var htileBytes uint64
		for level := 0; level < config.Levels; level++ {
			width := memutils.Minify(config.Width, level)
			height := memutils.Minify(config.Height, level)
			htileBytes += uint64(memutils.DivRoundUp(width, 8)*memutils.DivRoundUp(height, 8)) * 4
		}

		layout.HTile = MetaParams{
			PipeAligned: true,
			RBAligned:   c.info.Generation == hwinfo.GFX9,
		}
		surf.MetaAlignment = metaAlignment
		surf.MetaSize = memutils.AlignUp(htileBytes*layers, metaAlignment)
	}

	if config.SurfIndex != nil && swizzle.IsXOR() && !surf.Flags.ZBuffer && !surf.Flags.Scanout {
		surf.TileSwizzle = c.nextTileSwizzle(config, 8)
	}
}

func computeLegacyLevels(config Config, blockWidth, blockHeight, bpe, samples int, mode Mode, start uint64) ([]LegacyLevel, uint64, uint64) {
	var levels []LegacyLevel
	var levelAlignment uint64
	running := start

	for level := 0; level < config.Levels; level++ {
		width := memutils.DivRoundUp(memutils.Minify(config.Width, level), blockWidth)
		height := memutils.DivRoundUp(memutils.Minify(config.Height, level), blockHeight)

		levelMode := mode
		if levelMode == Mode2D && level > 0 && (width < legacyMacroTileWidth || height < legacyMacroTileHeight) {
			levelMode = Mode1D
		}

		var pitchAlign, heightAlign int
		var alignment uint64
		switch levelMode {
		case ModeLinearAligned:
			pitchAlign, heightAlign, alignment = memutils.Max(8, 64/bpe), 1, linearAlignment
		case Mode1D:
			pitchAlign, heightAlign, alignment = 8, 8, linearAlignment
		default:
			pitchAlign, heightAlign = legacyMacroTileWidth, legacyMacroTileHeight
			alignment = memutils.Min(uint64(65536), uint64(legacyMacroTileWidth*legacyMacroTileHeight*bpe*samples))
		}

		pitch := memutils.AlignUp(width, pitchAlign)
		paddedHeight := memutils.AlignUp(height, heightAlign)
		sliceSize := memutils.AlignUp(uint64(pitch)*uint64(paddedHeight)*uint64(bpe*samples), linearAlignment)

		slices := config.ArraySize
		if config.Depth > 1 {
			slices = memutils.Minify(config.Depth, level)
		}

		running = memutils.AlignUp(running, alignment)
		levels = append(levels, LegacyLevel{
			Offset:      running,
			SliceSize:   sliceSize,
			BlockCountX: width,
			Pitch:       pitch,
			Height:      paddedHeight,
			Mode:        levelMode,
		})
		running += sliceSize * uint64(slices)

		if level == 0 {
			levelAlignment = alignment
		}
	}

	return levels, running, levelAlignment
}

func (c *AddrCalculator) initLegacy(config Config, surf *Surface, samples int) {
	mode := surf.Flags.Mode
	if surf.Modifier.IsLinear() {
		mode = ModeLinearAligned
	}
	surf.IsLinear = mode == ModeLinearAligned

	layout := &LegacyLayout{
		PipeConfig:      2,
		BankWidth:       1,
		BankHeight:      1,
		MacroTileAspect: 1,
		TileSplit:       4,
		NumBanks:        16,
	}
	surf.Layout = layout

	var end uint64
	layout.Levels, end, surf.SurfAlignment = computeLegacyLevels(config, surf.BlockWidth, surf.BlockHeight, surf.BytesPerElement, samples, mode, 0)

	if surf.Flags.ZBuffer && surf.Flags.SBuffer {
		layout.StencilLevels, end, _ = computeLegacyLevels(config, 1, 1, 1, samples, mode, memutils.AlignUp(end, surf.SurfAlignment))
	}
	surf.SurfSize = end

	level0 := layout.Levels[0]
	layers := uint64(config.ArraySize)

	if c.wantsFMask(surf, samples) {
		surf.FMaskAlignment = surf.SurfAlignment
		surf.FMaskSize = memutils.AlignUp(uint64(level0.Pitch)*uint64(level0.Height)*uint64(fmaskBytesPerPixel(samples))*layers, surf.FMaskAlignment)
	}

	if c.wantsCMask(surf, samples) {
		tiles := uint64(memutils.DivRoundUp(level0.Pitch, 8)) * uint64(memutils.DivRoundUp(level0.Height, 8)) * layers
		surf.CMaskAlignment = cmaskAlignment
		surf.CMaskSize = memutils.AlignUp(memutils.DivRoundUp(tiles, 2), cmaskAlignment)
	}

	if c.wantsDCC(surf) && level0.Mode == Mode2D {
		var dccBytes uint64
		for i := range layout.Levels {
			level := &layout.Levels[i]
			slices := config.ArraySize
			if config.Depth > 1 {
				slices = memutils.Minify(config.Depth, i)
			}

			levelBytes := memutils.AlignUp(memutils.DivRoundUp(level.SliceSize*uint64(slices), 256), 256)
			level.DCCOffset = dccBytes
			if level.Mode == Mode2D {
				level.DCCFastClearSize = levelBytes
			}
			dccBytes += levelBytes
		}

		surf.MetaAlignment = metaAlignment
		surf.MetaSize = memutils.AlignUp(dccBytes, metaAlignment)
	}

	if surf.Flags.ZBuffer && !surf.Flags.NoHTile && !surf.IsLinear {
		htileBytes := uint64(memutils.DivRoundUp(level0.Pitch, 8)*memutils.DivRoundUp(level0.Height, 8)) * 4
		surf.MetaAlignment = metaAlignment
		surf.MetaSize = memutils.AlignUp(htileBytes*layers, metaAlignment)
	}

	if config.SurfIndex != nil && level0.Mode == Mode2D && !surf.Flags.ZBuffer && !surf.Flags.Scanout {
		surf.TileSwizzle = c.nextTileSwizzle(config, 4)
	}
}

func (c *AddrCalculator) placeAux(surf *Surface, samples int) {
	total := surf.SurfSize
	alignment := surf.SurfAlignment

	if surf.FMaskSize > 0 {
		surf.FMaskOffset = memutils.AlignUp(total, surf.FMaskAlignment)
		total = surf.FMaskOffset + surf.FMaskSize
		alignment = memutils.Max(alignment, surf.FMaskAlignment)
	}

	if surf.CMaskSize > 0 && samples > 1 {
		surf.CMaskOffset = memutils.AlignUp(total, surf.CMaskAlignment)
		total = surf.CMaskOffset + surf.CMaskSize
		alignment = memutils.Max(alignment, surf.CMaskAlignment)
	}

	if surf.MetaSize > 0 {
		surf.MetaOffset = memutils.AlignUp(total, surf.MetaAlignment)
		total = surf.MetaOffset + surf.MetaSize
		alignment = memutils.Max(alignment, surf.MetaAlignment)
	}

	if surf.DisplayDCCSize > 0 {
		surf.DisplayDCCOffset = memutils.AlignUp(total, metaAlignment)
		total = surf.DisplayDCCOffset + surf.DisplayDCCSize
		alignment = memutils.Max(alignment, metaAlignment)
	}

	surf.TotalSize = total
	surf.Alignment = alignment
}

func recomputeTotal(surf *Surface) {
	base := surf.BaseOffset()
	end := base + surf.SurfSize
	alignment := surf.SurfAlignment

	for _, region := range surf.subRegions()[1:] {
		end = memutils.Max(end, region.offset+region.size)
	}

	if surf.FMaskSize > 0 {
		alignment = memutils.Max(alignment, surf.FMaskAlignment)
	}
	if surf.HasCMask() {
		alignment = memutils.Max(alignment, surf.CMaskAlignment)
	}
	if surf.MetaSize > 0 {
		alignment = memutils.Max(alignment, surf.MetaAlignment)
	}
	if surf.DisplayDCCSize > 0 {
		alignment = memutils.Max(alignment, metaAlignment)
	}

	surf.TotalSize = end - base
	surf.Alignment = alignment
}

// AuxSurface returns the placement of one metadata sub-surface
func (c *AddrCalculator) AuxSurface(surf *Surface, kind AuxKind) AuxGeometry {
	switch kind {
	case AuxFMask:
		return AuxGeometry{Offset: surf.FMaskOffset, Size: surf.FMaskSize, Alignment: surf.FMaskAlignment}
	case AuxCMask:
		return AuxGeometry{Offset: surf.CMaskOffset, Size: surf.CMaskSize, Alignment: surf.CMaskAlignment}
	case AuxDCC:
		if surf.HasDCC() {
			return AuxGeometry{Offset: surf.MetaOffset, Size: surf.MetaSize, Alignment: surf.MetaAlignment}
		}
	case AuxHTile:
		if surf.HasHTile() {
			return AuxGeometry{Offset: surf.MetaOffset, Size: surf.MetaSize, Alignment: surf.MetaAlignment}
		}
	case AuxDisplayDCC:
		if surf.DisplayDCCSize > 0 {
			return AuxGeometry{Offset: surf.DisplayDCCOffset, Size: surf.DisplayDCCSize, Alignment: metaAlignment}
		}
	}

	return AuxGeometry{}
}

func (c *AddrCalculator) overridePitch(surf *Surface, pitch int) bool {
	bpe := surf.BytesPerElement
	if surf.HasStencil || !surf.IsLinear {
		return false
	}

	switch layout := surf.Layout.(type) {
	case *GFX9Layout:
		if pitch < layout.BaseMipWidth {
			return false
		}
		if c.info.Generation < hwinfo.GFX10_3 && (pitch*bpe)%int(linearAlignment) != 0 {
			return false
		}

		layout.SurfPitch = pitch
		layout.EPitch = pitch - 1
		layout.LevelPitches[0] = pitch
		layout.SurfSliceSize = memutils.AlignUp(uint64(pitch)*uint64(layout.SurfHeight)*uint64(bpe), linearAlignment)
		surf.SurfSize = layout.SurfSliceSize
	case *LegacyLayout:
		level := &layout.Levels[0]
		if pitch < level.BlockCountX || pitch%8 != 0 {
			return false
		}

		level.Pitch = pitch
		level.SliceSize = memutils.AlignUp(uint64(pitch)*uint64(level.Height)*uint64(bpe), linearAlignment)
		surf.SurfSize = level.SliceSize
	}

	recomputeTotal(surf)
	return true
}

func (c *AddrCalculator) currentPitch(surf *Surface) int {
	switch layout := surf.Layout.(type) {
	case *GFX9Layout:
		return layout.SurfPitch
	case *LegacyLayout:
		return layout.Levels[0].Pitch
	}
	return 0
}

// OverrideOffsetStride moves the plane to offset bytes into its binding and optionally replaces
// its row pitch
func (c *AddrCalculator) OverrideOffsetStride(surf *Surface, numLayers int, numLevels int, offset uint64, pitch int) bool {
	if pitch != 0 && pitch != c.currentPitch(surf) {
		if numLayers != 1 || numLevels != 1 {
			return false
		}

		if !c.overridePitch(surf, pitch) {
			return false
		}
	}

	if offset == 0 {
		return true
	}

	switch layout := surf.Layout.(type) {
	case *GFX9Layout:
		layout.SurfOffset += offset
		if surf.HasStencil {
			layout.StencilOffset += offset
		}
	case *LegacyLayout:
		for i := range layout.Levels {
			layout.Levels[i].Offset += offset
		}
		for i := range layout.StencilLevels {
			layout.StencilLevels[i].Offset += offset
		}
	}

	if surf.FMaskSize > 0 {
		surf.FMaskOffset += offset
	}
	if surf.HasCMask() {
		surf.CMaskOffset += offset
	}
	if surf.MetaSize > 0 {
		surf.MetaOffset += offset
	}
	if surf.DisplayDCCSize > 0 {
		surf.DisplayDCCOffset += offset
	}

	return true
}

// ZeroDCCFields removes lossless compression from a computed colour surface
func (c *AddrCalculator) ZeroDCCFields(surf *Surface) {
	if surf.Flags.ZBuffer {
		return
	}

	surf.MetaOffset = 0
	surf.MetaSize = 0
	surf.MetaAlignment = 0
	surf.DisplayDCCOffset = 0
	surf.DisplayDCCSize = 0

	switch layout := surf.Layout.(type) {
	case *GFX9Layout:
		layout.DCC = MetaParams{}
		layout.DCCPitchMax = 0
	case *LegacyLayout:
		for i := range layout.Levels {
			layout.Levels[i].DCCOffset = 0
			layout.Levels[i].DCCFastClearSize = 0
		}
	}

	recomputeTotal(surf)
}

// Supports answers a capability query about a computed surface
func (c *AddrCalculator) Supports(surf *Surface, query Query) bool {
	layout, isGFX9 := surf.Layout.(*GFX9Layout)

	switch query {
	case QueryDCCImageStores:
		if !surf.HasDCC() || !isGFX9 || c.info.Generation < hwinfo.GFX10 {
			return false
		}

		dcc := layout.DCC
		if c.info.Generation == hwinfo.GFX10 {
			return dcc.Independent64B && dcc.Independent128B && dcc.MaxCompressedBlockSize == 128
		}
		return dcc.Independent128B && dcc.MaxCompressedBlockSize <= 128
	case QueryDCCRetile:
		return surf.DisplayDCCSize > 0
	case QueryPipeAlignedMetadata:
		if !isGFX9 {
			return true
		}

		if surf.HasDCC() && (!layout.DCC.PipeAligned || (c.info.Generation == hwinfo.GFX9 && !layout.DCC.RBAligned)) {
			return false
		}
		if surf.HasHTile() && !layout.HTile.PipeAligned {
			return false
		}
		return true
	}

	return false
}

// MemoryPlaneCount returns the number of separately addressable memory planes of a surface with a
// format modifier
func (c *AddrCalculator) MemoryPlaneCount(surf *Surface) int {
	if surf.Modifier == ModifierInvalid || c.caps.FlatCompressionMetadata {
		return 1
	}

	planes := 1
	if surf.HasDCC() {
		planes++
	}
	if surf.DisplayDCCSize > 0 {
		planes++
	}
	return planes
}

// PlaneOffset returns the offset of a memory plane for one layer
func (c *AddrCalculator) PlaneOffset(surf *Surface, plane int, layer int) uint64 {
	switch plane {
	case 0:
		switch layout := surf.Layout.(type) {
		case *GFX9Layout:
			return layout.SurfOffset + uint64(layer)*layout.SurfSliceSize
		case *LegacyLayout:
			return layout.Levels[0].Offset + uint64(layer)*layout.Levels[0].SliceSize
		}
	case 1:
		if surf.DisplayDCCSize > 0 {
			return surf.DisplayDCCOffset
		}
		return surf.MetaOffset
	case 2:
		return surf.MetaOffset
	}

	return 0
}

// PlaneStride returns the row pitch in bytes of a memory plane at one level
func (c *AddrCalculator) PlaneStride(surf *Surface, plane int, level int) uint64 {
	bpe := uint64(surf.BytesPerElement)

	switch layout := surf.Layout.(type) {
	case *GFX9Layout:
		if plane != 0 {
			return uint64(layout.DCCPitchMax + 1)
		}
		if surf.IsLinear {
			return uint64(layout.LevelPitches[level]) * bpe
		}
		return uint64(layout.SurfPitch) * bpe
	case *LegacyLayout:
		if plane != 0 {
			return 0
		}
		return uint64(layout.Levels[level].Pitch) * bpe
	}

	return 0
}

// PlaneSize returns the size in bytes of a memory plane
func (c *AddrCalculator) PlaneSize(surf *Surface, plane int) uint64 {
	switch plane {
	case 0:
		return surf.SurfSize
	case 1:
		if surf.DisplayDCCSize > 0 {
			return surf.DisplayDCCSize
		}
		return surf.MetaSize
	case 2:
		return surf.MetaSize
	}

	return 0
}

func (c *AddrCalculator) tileVersion() int {
	switch c.info.Generation {
	case hwinfo.GFX9:
		return TileVersionGFX9
	case hwinfo.GFX10:
		return TileVersionGFX10
	case hwinfo.GFX10_3:
		return TileVersionGFX10RBPlus
	default:
		return TileVersionGFX11
	}
}

// SupportedModifiers returns the modifiers a colour surface with the given element size can use,
// in order of preference
func (c *AddrCalculator) SupportedModifiers(bytesPerElement int) []Modifier {
	if !c.isGFX9Layout() {
		return []Modifier{ModifierLinear}
	}

	base := ModifierFields{
		TileVersion: c.tileVersion(),
		SwizzleMode: Swizzle64KBRX,
		PipeXORBits: 3,
	}
	if c.info.Generation == hwinfo.GFX9 {
		base.SwizzleMode = Swizzle64KBSX
		base.BankXORBits = 2
	}

	dcc := base
	dcc.DCC = true
	if c.info.Generation >= hwinfo.GFX10_3 {
		dcc.DCCIndependent128B = true
		dcc.DCCMaxCompressedBlock = 128
	} else {
		dcc.DCCIndependent64B = true
		dcc.DCCMaxCompressedBlock = 64
	}

	retile := dcc
	retile.DCCRetile = true
	retile.DCCPipeAlign = true

	var modifiers []Modifier
	if bytesPerElement <= 8 {
		modifiers = append(modifiers, retile.Encode(), dcc.Encode())
	}
	return append(modifiers, base.Encode(), ModifierLinear)
}

// ComputeUMDMetadata returns the opaque metadata words describing the surface
func (c *AddrCalculator) ComputeUMDMetadata(surf *Surface, numLevels int, desc [8]uint32) []uint32 {
	metadata := []uint32{
		1,
		hwinfo.VendorIDATI<<16 | c.info.PCIID,
	}
	metadata = append(metadata, desc[:]...)

	if layout, ok := surf.Layout.(*LegacyLayout); ok {
		for level := 0; level < numLevels && level < len(layout.Levels); level++ {
			metadata = append(metadata, uint32(layout.Levels[level].Offset>>8))
		}
	}

	return metadata
}

// UMDMetadataDescriptorOffset is the index of the first texture descriptor dword in UMD metadata
const UMDMetadataDescriptorOffset = 2

// UMDMetadataMinDwords is the size of UMD metadata without per-level offsets
const UMDMetadataMinDwords = UMDMetadataDescriptorOffset + 8

// ApplyUMDMetadata adjusts a freshly computed surface to match imported opaque metadata
func (c *AddrCalculator) ApplyUMDMetadata(surf *Surface, numSamples int, numLevels int, metadata []uint32) bool {
	if len(metadata) < UMDMetadataMinDwords || metadata[0] != 1 {
		return false
	}

	if c.caps.LosslessCompression && !surf.Flags.ZBuffer && numSamples <= 1 {
		dccOffset := descriptor.MetaAddress(c.caps.DescriptorLayout, metadata[UMDMetadataDescriptorOffset:UMDMetadataMinDwords])

		switch {
		case dccOffset != 0 && !surf.HasDCC():
			return false
		case dccOffset == 0 && surf.HasDCC():
			c.ZeroDCCFields(surf)
		case dccOffset != 0:
			if dccOffset < surf.BaseOffset()+surf.SurfSize {
				return false
			}
			surf.MetaOffset = dccOffset
			recomputeTotal(surf)
		}
	}

	if layout, ok := surf.Layout.(*LegacyLayout); ok {
		if len(metadata) < UMDMetadataMinDwords+numLevels {
			return false
		}

		var previous uint64
		for level := 0; level < numLevels; level++ {
			offset := uint64(metadata[UMDMetadataMinDwords+level]) << 8
			if level > 0 && offset < previous {
				return false
			}
			layout.Levels[level].Offset = offset
			previous = offset + layout.Levels[level].SliceSize
		}

		last := layout.Levels[numLevels-1]
		surf.SurfSize = memutils.Max(surf.SurfSize, last.Offset+last.SliceSize-layout.Levels[0].Offset)
		recomputeTotal(surf)
	}

	return true
}
