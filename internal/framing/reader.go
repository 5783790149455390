// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package framing implements the wire-level message boundary for the
// stream transport: a 4-byte big-endian length prefix followed by exactly
// that many payload bytes, with no separator between messages.
//
// A single fixed-width length field and a blocking, owned io.ReadCloser
// are all this needs: one connection, one goroutine, one reader.
package framing

import (
	"encoding/binary"
	"io"
	"sync"
)

const headerLen = 4

// Reader yields complete message payloads read from an owned io.ReadCloser.
// One call to Next reads at most one message. Reader is not safe for
// concurrent use: the underlying connection must be read by a single
// goroutine.
type Reader struct {
	conn io.ReadCloser
	opts Options

	hdr [headerLen]byte
	buf []byte

	closeOnce sync.Once
	closeErr  error
}

// NewReader wraps conn. Reader takes ownership of conn: it is closed on
// every exit path (a clean end-of-stream, a truncated frame, an I/O error,
// or an explicit Close call).
func NewReader(conn io.ReadCloser, opts ...Option) *Reader {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Reader{conn: conn, opts: o}
}

// Next reads and returns the next framed payload. It returns io.EOF once
// there are no more messages: either the stream ended exactly on a message
// boundary, or it ended mid-frame (a truncated length prefix or a
// truncated payload) — both cases mean "no more messages," never a
// partial payload handed to the caller. Any other non-nil error is a
// genuine transport failure and is fatal to the connection.
//
// Next closes the underlying connection itself before returning any
// terminal (non-nil) result, so callers never need a separate Close on the
// error/EOF path; Close remains safe to call again (or first, to abandon a
// connection without reading further).
func (r *Reader) Next() ([]byte, error) {
	if r.conn == nil {
		return nil, ErrInvalidArgument
	}

	if err := r.readFull(r.hdr[:]); err != nil {
		r.Close()
		return nil, err
	}
	length := int64(binary.BigEndian.Uint32(r.hdr[:]))

	if r.opts.ReadLimit > 0 && length > int64(r.opts.ReadLimit) {
		r.Close()
		return nil, ErrTooLong
	}
	if length == 0 {
		return nil, nil
	}

	if int64(cap(r.buf)) < length {
		r.buf = make([]byte, length)
	}
	payload := r.buf[:length]
	if err := r.readFull(payload); err != nil {
		r.Close()
		return nil, err
	}
	return payload, nil
}

// Close shuts down the underlying connection. It is idempotent; subsequent
// calls return the same error the first call observed.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.conn.Close()
	})
	return r.closeErr
}

// readFull reads len(p) bytes, retrying short reads, and collapses any
// EOF — clean or mid-read — into io.EOF: a header truncated before any
// bytes arrived and one truncated partway through both just mean "no
// more messages."
func (r *Reader) readFull(p []byte) error {
	_, err := io.ReadFull(r.conn, p)
	if err == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return err
}
