// SPDX-License-Identifier: EPL-2.0

// Package stream is the file-backed decoder behind a track.
//
// A Decoder opens a handle through an Opener, sniffs the first bytes to
// find the container, and hands the reader to the matching audio.Decoder
// from a registry:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//
//	dec := stream.New(stream.FileOpener, reg, stream.WithLogger(log))
//	if !dec.Open("intro.wav", audio.ModeLoop) {
//	    return dec.Err()
//	}
//	defer dec.Close()
//
// Decoded samples land in a buffer of WithBufferFrames frames and are
// served to DecodeFrames in whole frames. Allocation happens when a
// source is opened or restarted, never while frames are served from the
// buffer.
//
// Failures are logged through zap and kept for Err; the track only sees
// Open returning false or DecodeFrames coming back short.
package stream
