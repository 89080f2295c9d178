// SPDX-License-Identifier: EPL-2.0

package audtrack

import "github.com/ik5/audtrack/track"

// Render pulls frames from t in chunks of bufferFrames until Play comes
// back short or maxFrames frames have been collected, and returns them
// interleaved at t's channel count. maxFrames <= 0 means no limit, which
// never ends for a looping track that keeps producing.
//
// Example:
//
//	t, _ := audtrack.NewFileTrack(2, nil)
//	_ = t.Start("intro.wav", audio.ModeOnce, audio.UnitGain, fade.None, 0)
//	pcm := audtrack.Render(t, 1024, 0)
func Render(t *track.Track, bufferFrames, maxFrames int) []int16 {
	channels := t.Channels()
	if channels <= 0 || bufferFrames <= 0 {
		return nil
	}

	// Start with room for ~2 seconds and grow if needed
	estimated := 2 * t.SampleRate()
	if maxFrames > 0 {
		estimated = min(estimated, maxFrames)
	}
	pcm16 := make([]int16, 0, estimated*channels)
	buf := make([]int16, bufferFrames*channels)

	total := 0
	for maxFrames <= 0 || total < maxFrames {
		want := bufferFrames
		if maxFrames > 0 {
			want = min(want, maxFrames-total)
		}

		n := t.Play(buf, want)
		pcm16 = append(pcm16, buf[:n*channels]...)
		total += n

		if n < want {
			break
		}
	}

	return pcm16
}
