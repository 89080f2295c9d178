// SPDX-License-Identifier: EPL-2.0

package fade

import "errors"

var (
	// ErrUnknownShape is returned by ParseShape for a name it does not know.
	ErrUnknownShape = errors.New("unknown fade shape")
)
