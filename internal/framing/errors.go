// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framing

import "errors"

var (
	// ErrInvalidArgument reports a nil reader or a misconfigured Reader.
	ErrInvalidArgument = errors.New("framing: invalid argument")

	// ErrTooLong reports that a frame's declared length exceeds the
	// configured read limit.
	ErrTooLong = errors.New("framing: message too long")
)
