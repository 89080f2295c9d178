// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestSaturateInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input int64
		want  int16
	}{
		{"zero", 0, 0},
		{"in range", -1234, -1234},
		{"max", math.MaxInt16, math.MaxInt16},
		{"min", math.MinInt16, math.MinInt16},
		{"just over", math.MaxInt16 + 1, math.MaxInt16},
		{"just under", math.MinInt16 - 1, math.MinInt16},
		{"far over", math.MaxInt64, math.MaxInt16},
		{"far under", math.MinInt64, math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SaturateInt16(tt.input); got != tt.want {
				t.Errorf("SaturateInt16(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"zero", 0.0, 0},
		{"max positive", 1.0, math.MaxInt16},
		{"max negative", -1.0, -math.MaxInt16},
		{"half positive", 0.5, 16383},  // 16383.5 truncated
		{"half negative", -0.5, -16383},
		{"quarter positive", 0.25, 8191}, // 8191.75 truncated
		{"small positive", 0.001, 32},
		{"small negative", -0.001, -32},
		{"clamp over max", 1.5, math.MaxInt16},
		{"clamp over min", -1.5, -math.MaxInt16},
		{"clamp way over max", 100.0, math.MaxInt16},
		{"clamp way under min", -100.0, -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestFloat32ToInt16Symmetry tests that conversion is symmetric
func TestFloat32ToInt16Symmetry(t *testing.T) {
	t.Parallel()

	for _, val := range []float32{0.1, 0.25, 0.5, 0.75, 0.9, 0.99, 1.0, 2.0} {
		pos := Float32ToInt16(val)
		neg := Float32ToInt16(-val)

		if pos != -neg {
			t.Errorf("Float32ToInt16 not symmetric: +%v=%v, -%v=%v", val, pos, val, neg)
		}
	}
}

// TestFloat32ToInt16Monotonic tests that function is monotonic
func TestFloat32ToInt16Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1.0)

	for f := -0.99; f <= 1.0; f += 0.01 {
		curr := Float32ToInt16(float32(f))
		if curr < prev {
			t.Errorf("Float32ToInt16 not monotonic: f=%v gives %v, but previous was %v",
				f, curr, prev)
		}
		prev = curr
	}
}

func TestFloat32sToInt16s(t *testing.T) {
	t.Parallel()

	src := []float32{0, 0.5, -0.5, 2}

	tests := []struct {
		name string
		dst  int
		want []int16
	}{
		{"same length", 4, []int16{0, 16383, -16383, 32767}},
		{"short dst", 2, []int16{0, 16383}},
		{"long dst", 6, []int16{0, 16383, -16383, 32767}},
		{"empty dst", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dst := make([]int16, tt.dst)
			n := Float32sToInt16s(dst, src)

			if n != len(tt.want) {
				t.Fatalf("Float32sToInt16s() = %d, want %d", n, len(tt.want))
			}
			for i := range tt.want {
				if dst[i] != tt.want[i] {
					t.Errorf("dst[%d] = %d, want %d", i, dst[i], tt.want[i])
				}
			}
		})
	}
}

// TestFloat32sToInt16s_ZeroAllocs verifies no heap allocations
func TestFloat32sToInt16s_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	floatBuf := make([]float32, 1024)
	int16Buf := make([]int16, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		Float32sToInt16s(int16Buf, floatBuf)
		_ = SaturateInt16(int64(int16Buf[0]) * 4)
	})

	if allocs > 0 {
		t.Errorf("batch conversion allocated %v times, want 0", allocs)
	}
}

// BenchmarkFloat32sToInt16s simulates converting one second of stereo audio
func BenchmarkFloat32sToInt16s(b *testing.B) {
	floatSamples := make([]float32, 2*44100)
	int16Samples := make([]int16, 2*44100)

	for i := range floatSamples {
		floatSamples[i] = float32(math.Sin(float64(i) * 0.1))
	}

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		Float32sToInt16s(int16Samples, floatSamples)
	}
}

func BenchmarkSaturateInt16(b *testing.B) {
	var result int16
	inputs := []int64{-70000, -1, 0, 1, 70000}

	b.ReportAllocs()
	for i := range b.N {
		result = SaturateInt16(inputs[i%len(inputs)])
	}

	_ = result
}
