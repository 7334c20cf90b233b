package memutils

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

var alignTestCases = map[string]struct {
	Value     uint64
	Alignment uint64
	Up        uint64
	Down      uint64
}{
	"Aligned":   {Value: 4096, Alignment: 4096, Up: 4096, Down: 4096},
	"Unaligned": {Value: 4097, Alignment: 4096, Up: 8192, Down: 4096},
	"Zero":      {Value: 0, Alignment: 256, Up: 0, Down: 0},
	"Byte":      {Value: 7, Alignment: 1, Up: 7, Down: 7},
}

func TestAlign(t *testing.T) {
	for testName, testCase := range alignTestCases {
		t.Run(testName, func(t *testing.T) {
			require.Equal(t, testCase.Up, AlignUp(testCase.Value, testCase.Alignment))
			require.Equal(t, testCase.Down, AlignDown(testCase.Value, testCase.Alignment))
			require.Equal(t, testCase.Up == testCase.Value, IsAligned(testCase.Value, testCase.Alignment))
		})
	}

	require.Equal(t, 18, AlignNPOT(17, 6))
	require.Equal(t, 17, AlignNPOT(17, 0))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, CheckPow2(1, "one"))
	require.NoError(t, CheckPow2(uint64(1)<<40, "large"))

	err := CheckPow2(0, "zero")
	require.True(t, errors.Is(err, PowerOfTwoError))
	require.Error(t, CheckPow2(12, "twelve"))
	require.Error(t, CheckPow2(-4, "negative"))
}

func TestMinify(t *testing.T) {
	require.Equal(t, 22, Minify(22, 0))
	require.Equal(t, 5, Minify(22, 2))
	require.Equal(t, 1, Minify(22, 5))
	require.Equal(t, 1, Minify(1<<20, 40))
	require.Equal(t, 22, Minify(22, -1))
	require.Equal(t, 1, Minify(0, 0))
}

func TestLogBase2(t *testing.T) {
	require.Equal(t, 0, LogBase2(0))
	require.Equal(t, 0, LogBase2(1))
	require.Equal(t, 3, LogBase2(15))
	require.Equal(t, 16, LogBase2(65536))
}

func TestCheckedArithmetic(t *testing.T) {
	sum, err := CheckedAdd(math.MaxUint64-1, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), sum)

	_, err = CheckedAdd(math.MaxUint64, 1)
	require.True(t, errors.Is(err, OverflowError))

	product, err := CheckedMul(1<<31, 1<<31)
	require.NoError(t, err)
	require.Equal(t, uint64(1)<<62, product)

	_, err = CheckedMul(1<<32, 1<<32)
	require.True(t, errors.Is(err, OverflowError))
}

func TestDetailedStatistics(t *testing.T) {
	var total DetailedStatistics
	total.Clear()

	var binding DetailedStatistics
	binding.Clear()
	binding.BindingCount = 1
	binding.BindingBytes = 65536
	binding.AddRegion(4096)
	binding.AddRegion(32768)
	binding.AddPaddingRange(28672)

	total.AddDetailedStatistics(&binding)
	require.Equal(t, 1, total.BindingCount)
	require.Equal(t, 2, total.RegionCount)
	require.Equal(t, uint64(36864), total.RegionBytes)
	require.Equal(t, uint64(28672), total.PaddingBytes())
	require.Equal(t, 1, total.PaddingRangeCount)
	require.Equal(t, uint64(4096), total.RegionSizeMin)
	require.Equal(t, uint64(32768), total.RegionSizeMax)
	require.Equal(t, uint64(28672), total.PaddingRangeSizeMin)
}
