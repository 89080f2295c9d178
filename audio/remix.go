// SPDX-License-Identifier: EPL-2.0

package audio

// RemixFrame converts one interleaved frame from len(src) channels to
// len(dst) channels and reports whether the conversion is supported.
//
//   - equal counts: samples are copied
//   - mono source: the sample is duplicated into every output channel
//   - mono destination: the truncating integer mean of all source channels
//
// Any other geometry leaves dst untouched and returns false.
func RemixFrame(dst, src []int16) bool {
	dstChannels, srcChannels := len(dst), len(src)

	switch {
	case dstChannels == 0 || srcChannels == 0:
		return false
	case dstChannels == srcChannels:
		copy(dst, src)
	case srcChannels == 1:
		for c := range dst {
			dst[c] = src[0]
		}
	case dstChannels == 1:
		// Unrolled for stereo (most common)
		if srcChannels == 2 {
			dst[0] = int16((int32(src[0]) + int32(src[1])) / 2)
			return true
		}
		var sum int32
		for _, s := range src {
			sum += int32(s)
		}
		dst[0] = int16(sum / int32(srcChannels))
	default:
		return false
	}

	return true
}

// CanRemix reports whether RemixFrame supports srcChannels -> dstChannels.
func CanRemix(dstChannels, srcChannels int) bool {
	if dstChannels <= 0 || srcChannels <= 0 {
		return false
	}
	return dstChannels == srcChannels || dstChannels == 1 || srcChannels == 1
}
