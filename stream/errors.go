// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	ErrBadHandle        = errors.New("handle is not a file path")
	ErrUnknownContainer = errors.New("unrecognised audio container")
	ErrNoChannels       = errors.New("source reports no channels")
)
