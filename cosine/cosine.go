// SPDX-License-Identifier: EPL-2.0

// Package cosine provides an integer cosine approximation for fade curves.
//
// Table implements fade.Cosine without floating point: a 65-point
// quarter-wave table scaled to 32768, linearly interpolated.
package cosine

const (
	// Scale is cos(0) in table units.
	Scale = 32768

	segments = 64
)

// quarter[i] = round(Scale * cos(i/64 * pi/2)).
var quarter = [segments + 1]int32{
	32768, 32758, 32729, 32679, 32610, 32522, 32413, 32286,
	32138, 31972, 31786, 31581, 31357, 31114, 30853, 30572,
	30274, 29957, 29622, 29269, 28899, 28511, 28106, 27684,
	27246, 26791, 26320, 25833, 25330, 24812, 24279, 23732,
	23170, 22595, 22006, 21403, 20788, 20160, 19520, 18868,
	18205, 17531, 16846, 16151, 15447, 14733, 14010, 13279,
	12540, 11793, 11039, 10279, 9512, 8740, 7962, 7180,
	6393, 5602, 4808, 4011, 3212, 2411, 1608, 804,
	0,
}

// Table is the fixed-point cosine. The zero value is ready to use.
type Table struct{}

// Cos approximates Scale*cos((x/length)*pi/2).
//
// On [0, length] the result falls from Scale to 0. Past length the curve
// continues by odd symmetry, reaching -Scale at 2*length; larger x clamps
// to -Scale. A zero length yields 0.
func (Table) Cos(x, length uint32) int32 {
	if length == 0 {
		return 0
	}
	if x <= length {
		return quarterWave(x, length)
	}
	end := 2 * uint64(length)
	if uint64(x) >= end {
		return -Scale
	}
	return -quarterWave(uint32(end-uint64(x)), length)
}

// quarterWave interpolates the table for x in [0, length].
func quarterWave(x, length uint32) int32 {
	// 16 fractional bits of table position.
	pos := uint64(x) * segments << 16 / uint64(length)
	idx := pos >> 16
	if idx >= segments {
		return quarter[segments]
	}
	frac := int64(pos & 0xffff)
	a, b := int64(quarter[idx]), int64(quarter[idx+1])
	return int32(a + (b-a)*frac/(1<<16))
}
