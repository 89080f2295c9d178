// SPDX-License-Identifier: EPL-2.0

package audtrack

import (
	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/cosine"
	"github.com/ik5/audtrack/formats/aiff"
	"github.com/ik5/audtrack/formats/mp3"
	"github.com/ik5/audtrack/formats/vorbis"
	"github.com/ik5/audtrack/formats/wav"
	"github.com/ik5/audtrack/stream"
	"github.com/ik5/audtrack/track"
	"go.uber.org/zap"
)

// NewRegistry returns a registry holding every bundled format decoder,
// keyed the way stream.Sniff names containers.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	return reg
}

// NewFileDecoder returns a stream decoder that opens file paths with the
// bundled formats. A nil log discards output.
func NewFileDecoder(log *zap.Logger, opts ...stream.Option) *stream.Decoder {
	opts = append([]stream.Option{stream.WithLogger(log)}, opts...)
	return stream.New(stream.FileOpener, NewRegistry(), opts...)
}

// NewFileTrack returns a track that plays file paths, with every fade
// shape available.
func NewFileTrack(channels int, log *zap.Logger) (*track.Track, error) {
	return track.New(NewFileDecoder(log), channels, track.WithCosine(cosine.Table{}))
}
