package surface

// Modifier is a DRM format modifier: a vendor-tagged 64-bit value naming a tiling and compression
// layout that can be shared between drivers and devices
type Modifier uint64

const (
	// ModifierLinear is the vendor-neutral linear layout
	ModifierLinear Modifier = 0
	// ModifierInvalid means no modifier applies to a surface
	ModifierInvalid Modifier = 0x00ffffffffffffff

	vendorShift        = 56
	vendorAMD   uint64 = 0x02
)

// AMD modifier tile versions
const (
	TileVersionGFX9        = 1
	TileVersionGFX10       = 2
	TileVersionGFX10RBPlus = 3
	TileVersionGFX11       = 4
)

type modifierField struct {
	shift uint
	mask  uint64
}

var (
	fieldTileVersion        = modifierField{0, 0xff}
	fieldTile               = modifierField{8, 0x1f}
	fieldDCC                = modifierField{13, 0x1}
	fieldDCCRetile          = modifierField{14, 0x1}
	fieldDCCPipeAlign       = modifierField{15, 0x1}
	fieldDCCIndependent64B  = modifierField{16, 0x1}
	fieldDCCIndependent128B = modifierField{17, 0x1}
	fieldDCCMaxCompressed   = modifierField{18, 0x3}
	fieldPipeXORBits        = modifierField{21, 0x7}
	fieldBankXORBits        = modifierField{24, 0x7}
)

func (f modifierField) get(m Modifier) uint64 {
	return (uint64(m) >> f.shift) & f.mask
}

func (f modifierField) set(value uint64) uint64 {
	return (value & f.mask) << f.shift
}

func boolField(f modifierField, value bool) uint64 {
	if value {
		return f.set(1)
	}
	return 0
}

// ModifierFields are the named fields of an AMD format modifier
type ModifierFields struct {
	TileVersion        int
	SwizzleMode        SwizzleMode
	DCC                bool
	DCCRetile          bool
	DCCPipeAlign       bool
	DCCIndependent64B  bool
	DCCIndependent128B bool
	// DCCMaxCompressedBlock is 64, 128, or 256
	DCCMaxCompressedBlock int
	PipeXORBits           int
	BankXORBits           int
}

var maxCompressedBlockEncoding = map[int]uint64{64: 0, 128: 1, 256: 2}
var maxCompressedBlockDecoding = map[uint64]int{0: 64, 1: 128, 2: 256}

// Encode packs the fields into an AMD modifier
func (f ModifierFields) Encode() Modifier {
	value := vendorAMD << vendorShift
	value |= fieldTileVersion.set(uint64(f.TileVersion))
	value |= fieldTile.set(uint64(f.SwizzleMode))
	value |= boolField(fieldDCC, f.DCC)
	value |= boolField(fieldDCCRetile, f.DCCRetile)
	value |= boolField(fieldDCCPipeAlign, f.DCCPipeAlign)
	value |= boolField(fieldDCCIndependent64B, f.DCCIndependent64B)
	value |= boolField(fieldDCCIndependent128B, f.DCCIndependent128B)
	if f.DCC {
		value |= fieldDCCMaxCompressed.set(maxCompressedBlockEncoding[f.DCCMaxCompressedBlock])
	}
	value |= fieldPipeXORBits.set(uint64(f.PipeXORBits))
	value |= fieldBankXORBits.set(uint64(f.BankXORBits))
	return Modifier(value)
}

// IsAMD returns true if the modifier uses the AMD vendor encoding
func (m Modifier) IsAMD() bool {
	return m != ModifierInvalid && uint64(m)>>vendorShift == vendorAMD
}

// IsLinear returns true if the modifier describes an untiled layout
func (m Modifier) IsLinear() bool {
	return m == ModifierLinear
}

// Fields unpacks an AMD modifier. Modifiers from other vendors return the zero value.
func (m Modifier) Fields() ModifierFields {
	if !m.IsAMD() {
		return ModifierFields{}
	}

	fields := ModifierFields{
		TileVersion:        int(fieldTileVersion.get(m)),
		SwizzleMode:        SwizzleMode(fieldTile.get(m)),
		DCC:                fieldDCC.get(m) != 0,
		DCCRetile:          fieldDCCRetile.get(m) != 0,
		DCCPipeAlign:       fieldDCCPipeAlign.get(m) != 0,
		DCCIndependent64B:  fieldDCCIndependent64B.get(m) != 0,
		DCCIndependent128B: fieldDCCIndependent128B.get(m) != 0,
		PipeXORBits:        int(fieldPipeXORBits.get(m)),
		BankXORBits:        int(fieldBankXORBits.get(m)),
	}
	if fields.DCC {
		fields.DCCMaxCompressedBlock = maxCompressedBlockDecoding[fieldDCCMaxCompressed.get(m)]
	}
	return fields
}

// HasDCC returns true if the modifier carries lossless compression metadata
func (m Modifier) HasDCC() bool {
	return m.IsAMD() && fieldDCC.get(m) != 0
}

// HasDCCRetile returns true if the modifier carries a separate displayable DCC plane
func (m Modifier) HasDCCRetile() bool {
	return m.HasDCC() && fieldDCCRetile.get(m) != 0
}
