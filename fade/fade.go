// SPDX-License-Identifier: EPL-2.0

package fade

import (
	"fmt"
	"math/bits"
	"strings"
)

// Scale is the fixed-point unit of a Cosine approximation (K).
const Scale = 32768

// Shape selects the curve a fade follows from its start gain to its end gain.
type Shape uint8

const (
	None Shape = iota
	LinearIn
	LinearOut
	CosineIn
	CosineOut
	SCurveIn
	SCurveOut
)

var shapeNames = [...]string{
	None:      "none",
	LinearIn:  "linear-in",
	LinearOut: "linear-out",
	CosineIn:  "cosine-in",
	CosineOut: "cosine-out",
	SCurveIn:  "s-curve-in",
	SCurveOut: "s-curve-out",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// NeedsCosine reports whether the shape is computed from a Cosine table.
func (s Shape) NeedsCosine() bool {
	switch s {
	case CosineIn, CosineOut, SCurveIn, SCurveOut:
		return true
	default:
		return false
	}
}

// ParseShape maps a name as printed by Shape.String back to a Shape.
// Matching ignores case, and underscores are accepted in place of dashes.
func ParseShape(name string) (Shape, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, v := range shapeNames {
		if v == n {
			return Shape(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Cosine approximates Scale*cos((x/length)*pi/2) in fixed point.
//
// Cos(0, length) must be Scale and Cos(length, length) must be 0, with the
// value non-increasing in between. Level only asks for x in [0, length];
// the second half of an S-curve is taken by odd symmetry.
type Cosine interface {
	Cos(x, length uint32) int32
}

// Engine computes fade gains. It holds no time state: progress is supplied
// on every call.
type Engine struct {
	cos Cosine
}

// NewEngine returns an Engine. A nil Cosine restricts it to the linear
// shapes; cosine-family shapes then produce no gain (see Level).
func NewEngine(c Cosine) Engine {
	return Engine{cos: c}
}

// Supports reports whether Level can produce a gain for the shape.
func (e Engine) Supports(s Shape) bool {
	if s.NeedsCosine() {
		return e.cos != nil
	}
	return s <= LinearOut
}

// Level returns the gain at progress frames into a fade of length frames
// from start to end. The boolean is false when the shape yields no gain:
// None, an unknown shape, or a cosine-family shape without a table.
//
// progress is clamped to length. A zero length returns end.
func (e Engine) Level(progress, length uint32, start, end int32, s Shape) (int32, bool) {
	if s == None || !e.Supports(s) {
		return 0, false
	}
	if length == 0 {
		return end, true
	}
	progress = min(progress, length)

	delta := int64(end) - int64(start)

	var offset int64
	switch s {
	case LinearIn, LinearOut:
		offset = mulDiv(delta, uint64(progress), uint64(length))
	case CosineIn:
		offset = delta * int64(e.cos.Cos(length-progress, length)) / Scale
	case CosineOut:
		offset = delta * (Scale - int64(e.cos.Cos(progress, length))) / Scale
	case SCurveIn, SCurveOut:
		offset = delta * (Scale - int64(e.sCurveCos(progress, length))) / (2 * Scale)
	}

	return int32(int64(start) + offset), true
}

// sCurveCos is Cos(2*progress, length) without leaving uint32:
// past the midpoint Cos(2L-x) = -Cos(x).
func (e Engine) sCurveCos(progress, length uint32) int32 {
	x := 2 * uint64(progress)
	if x <= uint64(length) {
		return e.cos.Cos(uint32(x), length)
	}
	return -e.cos.Cos(uint32(2*uint64(length)-x), length)
}

// mulDiv returns delta*p/l truncated toward zero with a 128-bit product.
// p <= l keeps the quotient within |delta|.
func mulDiv(delta int64, p, l uint64) int64 {
	m := uint64(delta)
	if delta < 0 {
		m = uint64(-delta)
	}
	hi, lo := bits.Mul64(m, p)
	q, _ := bits.Div64(hi, lo, l)
	if delta < 0 {
		return -int64(q)
	}
	return int64(q)
}
