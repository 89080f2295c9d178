// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audtrack/utils"

const (
	// UnitGain is the fixed-point denominator of a gain: UnitGain leaves
	// samples unchanged, 0 silences them.
	UnitGain int32 = 65536

	// MaxGain is the loudest gain a track accepts (x4).
	MaxGain int32 = 4 * UnitGain

	// MaxChannels is the widest frame a track produces.
	MaxChannels = 2
)

// ScaleSample multiplies s by gain/UnitGain.
// The product is formed in 64 bits, divided with truncation toward zero and
// saturated to the int16 range.
func ScaleSample(s int16, gain int32) int16 {
	return utils.SaturateInt16(int64(s) * int64(gain) / int64(UnitGain))
}

// ScaleFrame applies ScaleSample to every sample of frame in place.
func ScaleFrame(frame []int16, gain int32) {
	if gain == UnitGain {
		return
	}
	for i, s := range frame {
		frame[i] = ScaleSample(s, gain)
	}
}
