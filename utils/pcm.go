// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// SaturateInt16 clamps v into the int16 range.
func SaturateInt16(v int64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Float32ToInt16 converts a normalized float sample in [-1, 1] to 16-bit PCM.
// Out of range input is clamped first.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Float32sToInt16s converts src into dst and returns the number converted,
// min(len(dst), len(src)).
func Float32sToInt16s(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16(src[i])
	}
	return n
}
