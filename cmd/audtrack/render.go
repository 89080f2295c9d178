// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ik5/audtrack"
	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/cosine"
	"github.com/ik5/audtrack/fade"
	"github.com/ik5/audtrack/formats/wav"
	"github.com/ik5/audtrack/stream"
	"github.com/ik5/audtrack/track"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errEndlessLoop = errors.New("--loop needs --stop-after-ms")

type renderOptions struct {
	channels     int
	gainPercent  float64
	fadeIn       string
	fadeInMs     int
	fadeOut      string
	fadeOutMs    int
	stopAfterMs  int
	loop         bool
	bufferFrames int
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render <input> <output.wav>",
	Short: "Render an audio file through the track into a WAV file",
	Long: `Plays <input> (WAV, AIFF, MP3 or Ogg Vorbis) through a track with an
optional fade-in, an optional timed stop with fade-out, and writes the
result as 16-bit PCM WAV.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()

		return runRender(log, renderOpts, args[0], args[1])
	},
}

func init() {
	f := renderCmd.Flags()
	f.IntVar(&renderOpts.channels, "channels", 2, "output channels (1 or 2)")
	f.Float64Var(&renderOpts.gainPercent, "gain", 100, "target gain in percent (0-400)")
	f.StringVar(&renderOpts.fadeIn, "fade-in", "none", "fade-in shape")
	f.IntVar(&renderOpts.fadeInMs, "fade-in-ms", 0, "fade-in length in milliseconds")
	f.StringVar(&renderOpts.fadeOut, "fade-out", "linear-out", "fade-out shape used by --stop-after-ms")
	f.IntVar(&renderOpts.fadeOutMs, "fade-out-ms", 0, "fade-out length in milliseconds")
	f.IntVar(&renderOpts.stopAfterMs, "stop-after-ms", 0, "stop the track after this many milliseconds")
	f.BoolVar(&renderOpts.loop, "loop", false, "loop the input until stopped")
	f.IntVar(&renderOpts.bufferFrames, "buffer-frames", stream.DefaultBufferFrames, "frames per Play call")

	rootCmd.AddCommand(renderCmd)
}

func runRender(log *zap.Logger, opts renderOptions, in, out string) error {
	pcm, rate, err := renderFile(log, opts, in)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	if err := wav.WriteWAV16(f, rate, opts.channels, pcm); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	frames := len(pcm) / opts.channels
	log.Info("rendered",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("frames", frames),
		zap.Duration("duration", time.Duration(frames)*time.Second/time.Duration(max(rate, 1))),
	)

	return f.Close()
}

// renderFile plays in through a fresh track and returns the interleaved
// output and its sample rate.
func renderFile(log *zap.Logger, opts renderOptions, in string) ([]int16, int, error) {
	fadeIn, err := fade.ParseShape(opts.fadeIn)
	if err != nil {
		return nil, 0, fmt.Errorf("--fade-in: %w", err)
	}
	fadeOut, err := fade.ParseShape(opts.fadeOut)
	if err != nil {
		return nil, 0, fmt.Errorf("--fade-out: %w", err)
	}
	if opts.gainPercent < 0 {
		return nil, 0, fmt.Errorf("--gain must not be negative, got %v", opts.gainPercent)
	}
	if opts.bufferFrames <= 0 {
		return nil, 0, fmt.Errorf("--buffer-frames must be positive, got %d", opts.bufferFrames)
	}
	if opts.loop && opts.stopAfterMs <= 0 {
		return nil, 0, errEndlessLoop
	}

	dec := audtrack.NewFileDecoder(log, stream.WithBufferFrames(opts.bufferFrames))
	t, err := track.New(dec, opts.channels, track.WithCosine(cosine.Table{}))
	if err != nil {
		return nil, 0, fmt.Errorf("%w", err)
	}

	mode := audio.ModeOnce
	if opts.loop {
		mode = audio.ModeLoop
	}

	// The fade length depends on the file's rate, so start silent and
	// fade once the source is open.
	if err := t.Start(in, mode, 0, fade.None, 0); err != nil {
		if dec.Err() != nil {
			return nil, 0, fmt.Errorf("%w: %w", err, dec.Err())
		}
		return nil, 0, fmt.Errorf("%w", err)
	}
	defer t.Stop(fade.None, 0)

	rate := t.SampleRate()
	gain := int32(min(opts.gainPercent, 400) * float64(audio.UnitGain) / 100)
	inShape, inFrames := orNone(fadeIn, t.Frames(ms(opts.fadeInMs)))
	t.Fade(gain, inShape, inFrames)

	log.Debug("started",
		zap.String("input", in),
		zap.String("format", dec.Format()),
		zap.Int("sample_rate", rate),
		zap.Stringer("fade_in", inShape),
		zap.Uint32("fade_in_frames", inFrames),
		zap.Int32("gain", gain),
	)

	var pcm []int16
	if opts.stopAfterMs <= 0 {
		pcm = audtrack.Render(t, opts.bufferFrames, 0)
	} else {
		if head := int(t.Frames(ms(opts.stopAfterMs))); head > 0 {
			pcm = audtrack.Render(t, opts.bufferFrames, head)
		}

		t.Stop(orNone(fadeOut, t.Frames(ms(opts.fadeOutMs))))
		pcm = append(pcm, audtrack.Render(t, opts.bufferFrames, 0)...)
	}

	if err := dec.Err(); err != nil {
		log.Warn("input ended with an error", zap.Error(err))
	}

	return pcm, rate, nil
}

// orNone turns a zero-length fade into an immediate change.
func orNone(shape fade.Shape, frames uint32) (fade.Shape, uint32) {
	if frames == 0 {
		return fade.None, 0
	}
	return shape, frames
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
