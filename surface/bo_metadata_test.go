package surface_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/imagelayout/surface"
)

func TestBOMetadataRoundTrip(t *testing.T) {
	testCases := map[string]surface.BOMetadata{
		"GFX9": {
			Tiling: &surface.GFX9Tiling{
				SwizzleMode:               surface.Swizzle64KBRX,
				DCCOffset256B:             4096,
				DCCPitchMax:               511,
				DCCIndependent128B:        true,
				DCCMaxCompressedBlockSize: 128,
				Scanout:                   true,
			},
			UMD: []uint32{1, 0x100273bf, 1, 2, 3, 4, 5, 6, 7, 8},
		},
		"LegacyWithUnknownFields": {
			Tiling: &surface.LegacyTiling{
				MicroTile:       surface.Mode1D,
				MacroTile:       surface.Mode2D,
				PipeConfig:      2,
				BankWidth:       1,
				BankHeight:      1,
				TileSplit:       4,
				MacroTileAspect: 1,
				NumBanks:        16,
				Stride:          256,
			},
			TilingExtra: []uint32{0xdead},
			UMD:         []uint32{1, 0x100267df, 0, 0, 0, 0, 0, 0, 0, 0, 4},
			Unknown:     []uint32{0xbeef, 0xcafe},
		},
	}

	for name, metadata := range testCases {
		t.Run(name, func(t *testing.T) {
			data, err := metadata.MarshalBinary()
			require.NoError(t, err)
			require.Equal(t, surface.BOMetadataMagic, binary.LittleEndian.Uint32(data))

			var decoded surface.BOMetadata
			require.NoError(t, decoded.UnmarshalBinary(data))
			require.Equal(t, metadata, decoded)
			require.Equal(t, metadata.Scanout(), decoded.Scanout())
		})
	}
}

func TestBOMetadataRejectsBadBlobs(t *testing.T) {
	good := surface.BOMetadata{
		Tiling: &surface.GFX9Tiling{SwizzleMode: surface.Swizzle64KBSX},
		UMD:    []uint32{1, 2, 3},
	}
	data, err := good.MarshalBinary()
	require.NoError(t, err)

	badMagic := append([]byte(nil), data...)
	badMagic[0] ^= 0xff

	badKind := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(badKind[8:], 99)

	shortTiling := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(shortTiling[12:], 2)

	testCases := map[string][]byte{
		"Empty":           nil,
		"OddLength":       data[:len(data)-1],
		"BadMagic":        badMagic,
		"BadKind":         badKind,
		"ShortTiling":     shortTiling,
		"TruncatedUMD":    data[:len(data)-4],
		"TruncatedHeader": data[:8],
	}

	for name, blob := range testCases {
		t.Run(name, func(t *testing.T) {
			var decoded surface.BOMetadata
			require.Error(t, decoded.UnmarshalBinary(blob))
		})
	}

	_, err = (&surface.BOMetadata{}).MarshalBinary()
	require.Error(t, err)
}
