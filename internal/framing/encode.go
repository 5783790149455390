// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framing

import "encoding/binary"

// Append encodes payload as one framed message (4-byte big-endian length
// prefix followed by payload) and appends it to dst. The server itself
// never produces frames — only test harnesses exercise this — but
// keeping the encoder next to the decoder mirrors the usual pairing
// between a Reader and a Writer.
func Append(dst, payload []byte) []byte {
	var hdr [headerLen]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	dst = append(dst, hdr[:]...)
	dst = append(dst, payload...)
	return dst
}
