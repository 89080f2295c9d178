// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// ReadFrames fills dst with whole interleaved frames from src, calling
// ReadSamples until dst is full or the source ends.
//
// It returns the number of frames read. err is io.EOF when the source ended
// before dst was full, and ErrInvalidDstSize when len(dst) is not a
// multiple of src.Channels(). A trailing partial frame is dropped.
func ReadFrames(src Source, dst []int16) (int, error) {
	channels := src.Channels()
	if channels <= 0 || len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	filled := 0
	for filled < len(dst) {
		n, err := src.ReadSamples(dst[filled:])
		filled += n

		if errors.Is(err, io.EOF) {
			return filled / channels, io.EOF
		}
		if err != nil {
			return filled / channels, fmt.Errorf("%w", err)
		}
		if n == 0 {
			// A source that makes no progress is treated as ended.
			return filled / channels, io.EOF
		}
	}

	return filled / channels, nil
}
