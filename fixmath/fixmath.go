// Package fixmath holds the fixed-point kernels used on the control tick.
package fixmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Int16Max is the largest magnitude SaturateInt16 produces. math.MinInt16 is
// reserved as the disabled channel marker and is never returned.
const Int16Max = math.MaxInt16

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SaturateInt16 narrows v into [-32767, 32767].
func SaturateInt16(v int64) int16 {
	return int16(Clamp(v, -Int16Max, Int16Max))
}

// SaturateInt32 narrows v into the int32 range.
func SaturateInt32(v int64) int32 {
	return int32(Clamp(v, math.MinInt32, math.MaxInt32))
}

// NormalizeVoltage scales a millivolt value against the maximum measurable
// supply voltage: (mV << 15) / maxMV, saturated to int16.
// maxMV must be non-zero.
func NormalizeVoltage(mV, maxMV int32) int16 {
	return SaturateInt16((int64(mV) << 15) / int64(maxMV))
}
