// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framing

// Options configures a Reader.
type Options struct {
	// ReadLimit caps the maximum allowed payload size in bytes. Zero means
	// no limit.
	ReadLimit int
}

var defaultOptions = Options{ReadLimit: 0}

// Option configures a Reader at construction time.
type Option func(*Options)

// WithReadLimit caps the maximum accepted payload size. A message whose
// declared length exceeds limit yields ErrTooLong before any payload bytes
// are read.
func WithReadLimit(limit int) Option {
	return func(o *Options) { o.ReadLimit = limit }
}
