// SPDX-License-Identifier: EPL-2.0

// Command audtrack renders audio files through a fading track.
//
// Usage:
//
//	audtrack render [flags] <input> <output.wav>
package main

func main() {
	Execute()
}
