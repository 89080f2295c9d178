// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrUnsupportedVorbisLayout indicates a stream without usable channels
var ErrUnsupportedVorbisLayout = errors.New("unsupported Vorbis layout")
