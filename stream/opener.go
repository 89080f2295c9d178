// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"io"
	"os"
)

// Opener turns the opaque handle given to Decoder.Open into a seekable
// reader. The decoder closes the reader.
type Opener func(handle any) (io.ReadSeekCloser, error)

// FileOpener treats the handle as a filesystem path.
func FileOpener(handle any) (io.ReadSeekCloser, error) {
	path, ok := handle.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrBadHandle, handle)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return f, nil
}
