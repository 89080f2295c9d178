// SPDX-License-Identifier: EPL-2.0

// Package fade computes fixed-point gain curves.
//
// A fade moves the gain of a track from a start level to an end level over
// a number of frames. The Engine is a pure function of the fade parameters
// and the current progress; it never tracks time on its own.
//
// # Shapes
//
//   - LinearIn, LinearOut: straight line between the endpoints
//   - CosineIn: quarter sine, leaves the start level quickly and settles
//     into the end level
//   - CosineOut: one minus quarter cosine, leaves the start level slowly and
//     accelerates into the end level
//   - SCurveIn, SCurveOut: raised cosine with zero slope at both ends
//
// The In and Out variants of the linear and S-curve families share one
// formula; the name only records what the caller meant.
//
// # Cosine Table
//
// The cosine-family shapes need a Cosine approximation, injected through
// NewEngine. Without one, only the linear shapes produce gains:
//
//	e := fade.NewEngine(cosine.Table{})
//	g, ok := e.Level(100, 400, 0, 65536, fade.SCurveIn)
//
// All arithmetic is integer. Products are carried in int64, so any int32
// gains and uint32 lengths are safe.
package fade
