// SPDX-License-Identifier: EPL-2.0

package track

import "errors"

var (
	// ErrNoDecoder is returned by New without a Decoder.
	ErrNoDecoder = errors.New("track needs a decoder")

	// ErrInvalidChannels is returned by New for a channel count other than 1 or 2.
	ErrInvalidChannels = errors.New("track channels must be 1 or 2")

	// ErrNotBound is returned by Start on a Track that was not built by New.
	ErrNotBound = errors.New("track is not bound to a decoder")

	// ErrOpen is returned by Start when the decoder cannot open the source.
	ErrOpen = errors.New("cannot open source")

	// ErrTooManyChannels is returned by Start for sources wider than stereo.
	ErrTooManyChannels = errors.New("source has too many channels")

	// ErrChannelMismatch is returned by Start when the source and track
	// channel counts differ and neither is mono.
	ErrChannelMismatch = errors.New("unsupported channel conversion")
)
