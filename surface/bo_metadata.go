package surface

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// BOMetadataMagic opens every serialized BOMetadata blob
const BOMetadataMagic uint32 = 0x4d4f4249

// BOMetadataVersion is the blob format written by MarshalBinary
const BOMetadataVersion uint32 = 1

// TilingKind identifies which tiling description a BOMetadata blob carries
type TilingKind uint32

const (
	TilingKindLegacy TilingKind = iota + 1
	TilingKindGFX9
)

// TilingMetadata is the per-generation tiling description of a shared buffer object
type TilingMetadata interface {
	Kind() TilingKind
	fields() []uint32
	setFields([]uint32)
}

// GFX9Tiling is the tiling description shared by GFX9+ devices
type GFX9Tiling struct {
	SwizzleMode SwizzleMode
	// DCCOffset256B is the offset of DCC from the start of the buffer, in units of 256 bytes
	DCCOffset256B             uint32
	DCCPitchMax               uint32
	DCCIndependent64B         bool
	DCCIndependent128B        bool
	DCCMaxCompressedBlockSize uint32
	Scanout                   bool
}

func (t *GFX9Tiling) Kind() TilingKind { return TilingKindGFX9 }

func (t *GFX9Tiling) fields() []uint32 {
	return []uint32{
		uint32(t.SwizzleMode),
		t.DCCOffset256B,
		t.DCCPitchMax,
		boolWord(t.DCCIndependent64B),
		boolWord(t.DCCIndependent128B),
		t.DCCMaxCompressedBlockSize,
		boolWord(t.Scanout),
	}
}

func (t *GFX9Tiling) setFields(words []uint32) {
	t.SwizzleMode = SwizzleMode(words[0])
	t.DCCOffset256B = words[1]
	t.DCCPitchMax = words[2]
	t.DCCIndependent64B = words[3] != 0
	t.DCCIndependent128B = words[4] != 0
	t.DCCMaxCompressedBlockSize = words[5]
	t.Scanout = words[6] != 0
}

// LegacyTiling is the tiling description shared by GFX6-GFX8 devices
type LegacyTiling struct {
	MicroTile       Mode
	MacroTile       Mode
	PipeConfig      uint32
	BankWidth       uint32
	BankHeight      uint32
	TileSplit       uint32
	MacroTileAspect uint32
	NumBanks        uint32
	Stride          uint32
	Scanout         bool
}

func (t *LegacyTiling) Kind() TilingKind { return TilingKindLegacy }

func (t *LegacyTiling) fields() []uint32 {
	return []uint32{
		uint32(t.MicroTile),
		uint32(t.MacroTile),
		t.PipeConfig,
		t.BankWidth,
		t.BankHeight,
		t.TileSplit,
		t.MacroTileAspect,
		t.NumBanks,
		t.Stride,
		boolWord(t.Scanout),
	}
}

func (t *LegacyTiling) setFields(words []uint32) {
	t.MicroTile = Mode(words[0])
	t.MacroTile = Mode(words[1])
	t.PipeConfig = words[2]
	t.BankWidth = words[3]
	t.BankHeight = words[4]
	t.TileSplit = words[5]
	t.MacroTileAspect = words[6]
	t.NumBanks = words[7]
	t.Stride = words[8]
	t.Scanout = words[9] != 0
}

func boolWord(value bool) uint32 {
	if value {
		return 1
	}
	return 0
}

// BOMetadata is the opaque metadata attached to a shared buffer object. Tiling fields written by
// a newer producer are kept in TilingExtra, and trailing words in Unknown, so that a blob survives
// a round trip through an older consumer unchanged.
type BOMetadata struct {
	Tiling      TilingMetadata
	TilingExtra []uint32
	UMD         []uint32
	Unknown     []uint32
}

// Scanout returns true if the producer marked the buffer as displayable
func (m *BOMetadata) Scanout() bool {
	switch tiling := m.Tiling.(type) {
	case *GFX9Tiling:
		return tiling.Scanout
	case *LegacyTiling:
		return tiling.Scanout
	}
	return false
}

// MarshalBinary encodes the metadata as little-endian dwords
func (m *BOMetadata) MarshalBinary() ([]byte, error) {
	if m.Tiling == nil {
		return nil, errors.New("metadata has no tiling description")
	}

	tiling := append(m.Tiling.fields(), m.TilingExtra...)

	words := []uint32{BOMetadataMagic, BOMetadataVersion, uint32(m.Tiling.Kind()), uint32(len(tiling))}
	words = append(words, tiling...)
	words = append(words, uint32(len(m.UMD)))
	words = append(words, m.UMD...)
	words = append(words, m.Unknown...)

	data := make([]byte, 4*len(words))
	for i, word := range words {
		binary.LittleEndian.PutUint32(data[4*i:], word)
	}
	return data, nil
}

// UnmarshalBinary decodes metadata written by MarshalBinary
func (m *BOMetadata) UnmarshalBinary(data []byte) error {
	if len(data)%4 != 0 {
		return errors.Newf("metadata length %d is not a whole number of dwords", len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[4*i:])
	}

	if len(words) < 4 {
		return errors.Newf("metadata is truncated: %d dwords", len(words))
	}
	if words[0] != BOMetadataMagic {
		return errors.Newf("bad metadata magic 0x%x", words[0])
	}
	if words[1] != BOMetadataVersion {
		return errors.Newf("unsupported metadata version %d", words[1])
	}

	var tiling TilingMetadata
	switch TilingKind(words[2]) {
	case TilingKindGFX9:
		tiling = &GFX9Tiling{}
	case TilingKindLegacy:
		tiling = &LegacyTiling{}
	default:
		return errors.Newf("unknown tiling kind %d", words[2])
	}

	known := len(tiling.fields())
	tilingCount := int(words[3])
	words = words[4:]
	if tilingCount < known || len(words) < tilingCount+1 {
		return errors.Newf("metadata has %d tiling dwords, need at least %d", tilingCount, known)
	}

	tiling.setFields(words[:known])
	m.Tiling = tiling
	m.TilingExtra = append([]uint32(nil), words[known:tilingCount]...)
	words = words[tilingCount:]

	umdCount := int(words[0])
	words = words[1:]
	if len(words) < umdCount {
		return errors.Newf("metadata has %d UMD dwords but only %d remain", umdCount, len(words))
	}

	m.UMD = append([]uint32(nil), words[:umdCount]...)
	m.Unknown = append([]uint32(nil), words[umdCount:]...)
	if len(m.TilingExtra) == 0 {
		m.TilingExtra = nil
	}
	if len(m.Unknown) == 0 {
		m.Unknown = nil
	}
	if len(m.UMD) == 0 {
		m.UMD = nil
	}

	return nil
}
