// SPDX-License-Identifier: EPL-2.0

package stream

import "bytes"

// SniffLen is the number of leading bytes Sniff looks at.
const SniffLen = 12

// Sniff names the container in header using the registry keys "wav",
// "aiff", "ogg" and "mp3". It returns "" when nothing matches.
func Sniff(header []byte) string {
	switch {
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("RIFF")) &&
		string(header[8:12]) == "WAVE":
		return "wav"
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("FORM")) &&
		string(header[8:12]) == "AIFF":
		return "aiff"
	case bytes.HasPrefix(header, []byte("OggS")):
		return "ogg"
	case bytes.HasPrefix(header, []byte("ID3")):
		return "mp3"
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// bare MPEG audio frame sync
		return "mp3"
	}
	return ""
}
