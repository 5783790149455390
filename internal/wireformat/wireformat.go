// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wireformat implements the stream-transport record schema, in a
// fixed field order: each string field except message as a 2-byte
// big-endian length prefix followed by that many raw bytes, level as one
// raw byte, and message as the unprefixed remainder of the payload.
package wireformat

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/toto1234567890/log-server/internal/record"
)

// ErrMalformed is returned for any payload that does not parse as a
// complete, well-formed sequence of the fields that precede message. A
// parse failure is a protocol error: no sequence number is consumed and
// the connection is closed by the caller.
var ErrMalformed = errors.New("wireformat: malformed stream payload")

const numFields = 8

// fieldLenSize is the width of each field's length prefix. 16 bits caps an
// individual field at 65535 bytes, generous for every column but message,
// which legitimately may be longer — hence message is the final field and
// consumes the remainder of the payload instead of carrying its own
// prefix, avoiding an arbitrary cap on the one field left untruncated.
const fieldLenSize = 2

// Decode parses a stream payload into a record.Record. It does not
// truncate or validate Level against the label table: that is
// record.Format's job, so both decoders share one validation point.
func Decode(payload []byte) (record.Record, error) {
	var r record.Record
	off := 0

	readField := func() (string, error) {
		if off+fieldLenSize > len(payload) {
			return "", fmt.Errorf("%w: truncated field length", ErrMalformed)
		}
		n := int(binary.BigEndian.Uint16(payload[off : off+fieldLenSize]))
		off += fieldLenSize
		if off+n > len(payload) {
			return "", fmt.Errorf("%w: truncated field value", ErrMalformed)
		}
		v := string(payload[off : off+n])
		off += n
		return v, nil
	}

	var err error
	if r.Timestamp, err = readField(); err != nil {
		return record.Record{}, err
	}
	if r.Hostname, err = readField(); err != nil {
		return record.Record{}, err
	}
	if r.LoggerName, err = readField(); err != nil {
		return record.Record{}, err
	}

	if off+1 > len(payload) {
		return record.Record{}, fmt.Errorf("%w: truncated level", ErrMalformed)
	}
	r.Level = int32(payload[off])
	off++

	if r.Filename, err = readField(); err != nil {
		return record.Record{}, err
	}
	if r.FunctionName, err = readField(); err != nil {
		return record.Record{}, err
	}
	if r.LineNumber, err = readField(); err != nil {
		return record.Record{}, err
	}

	// message: remainder of the payload, untruncated and unprefixed.
	r.Message = string(payload[off:])

	return r, nil
}

// Encode is the Decode counterpart, used by test producers and by the
// round-trip tests in wireformat_test.go. Real producers implement this encoding
// independently; the server itself never calls Encode.
func Encode(r record.Record) []byte {
	var buf []byte
	writeField := func(s string) {
		var lenBuf [fieldLenSize]byte
		binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, s...)
	}
	writeField(r.Timestamp)
	writeField(r.Hostname)
	writeField(r.LoggerName)
	buf = append(buf, byte(r.Level))
	writeField(r.Filename)
	writeField(r.FunctionName)
	writeField(r.LineNumber)
	buf = append(buf, r.Message...)
	return buf
}
