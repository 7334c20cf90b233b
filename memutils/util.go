package memutils

import (
	"math"

	cerrors "github.com/cockroachdb/errors"
)

// Number is any integer type that byte offsets, sizes, or pixel counts are stored in
type Number interface {
	~int | ~uint | ~int32 | ~uint32 | ~int64 | ~uint64
}

func CheckPow2[T Number](number T, name string) error {
	if number <= 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// AlignUp rounds value up to the next multiple of alignment, which must be a power of two
func AlignUp[T Number](value T, alignment T) T {
	return (value + alignment - 1) & ^(alignment - 1)
}

// AlignDown rounds value down to the previous multiple of alignment, which must be a power of two
func AlignDown[T Number](value T, alignment T) T {
	return value & ^(alignment - 1)
}

// AlignNPOT rounds value up to the next multiple of alignment, which does not need to be a power of two
func AlignNPOT[T Number](value T, alignment T) T {
	if alignment == 0 {
		return value
	}
	return DivRoundUp(value, alignment) * alignment
}

func IsAligned[T Number](value T, alignment T) bool {
	return value&(alignment-1) == 0
}

func DivRoundUp[T Number](value T, divisor T) T {
	return (value + divisor - 1) / divisor
}

// Minify returns the extent of a mip level, never smaller than 1
func Minify(extent int, level int) int {
	if level <= 0 {
		return max(1, extent)
	}
	if level >= 31 {
		return 1
	}
	return max(1, extent>>level)
}

func max[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Max returns the larger of a and b
func Max[T Number](a, b T) T {
	return max(a, b)
}

// Min returns the smaller of a and b
func Min[T Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// LogBase2 returns the base-2 logarithm of value rounded down. LogBase2(0) is 0.
func LogBase2(value uint64) int {
	var log int
	for value > 1 {
		value >>= 1
		log++
	}
	return log
}

// CheckedAdd adds two byte counts and returns OverflowError if the result cannot be
// represented
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, cerrors.Wrapf(OverflowError, "%d + %d", a, b)
	}
	return a + b, nil
}

// CheckedMul multiplies two byte counts and returns OverflowError if the result cannot be
// represented
func CheckedMul(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, cerrors.Wrapf(OverflowError, "%d * %d", a, b)
	}
	return a * b, nil
}
