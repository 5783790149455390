// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport runs the two listeners in parallel — a framed TCP
// stream and a gRPC unary RPC — against one shared sequencer.Sequencer
// and writer.Writer, so records ingested by either protocol interleave
// into a single producer-injection order.
//
// The TCP side accepts connections and spawns one goroutine per
// connection, each running its own read-decode-sequence-enqueue loop.
package transport

import (
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/toto1234567890/log-server/internal/framing"
	"github.com/toto1234567890/log-server/internal/record"
	"github.com/toto1234567890/log-server/internal/sequencer"
	"github.com/toto1234567890/log-server/internal/wireformat"
	"github.com/toto1234567890/log-server/internal/writer"
)

// Ingress is the shared sink both listeners enqueue decoded, sequenced,
// formatted lines into.
type Ingress struct {
	Seq *sequencer.Sequencer
	W   *writer.Writer
	Log *zap.SugaredLogger
}

// accept renders a decoded record, stamps it with the next sequence
// number only once rendering succeeded, and enqueues it. It is the one
// place stream and RPC ingestion converge.
func (in *Ingress) accept(r record.Record) error {
	line, err := record.Format(r)
	if err != nil {
		return err
	}
	seq := in.Seq.Next()
	return in.W.Enqueue(seq, line)
}

// TCPListener runs the framed stream transport.
type TCPListener struct {
	Addr    string
	Ingress *Ingress
	// ReadLimit bounds a single frame's declared length; zero means
	// unbounded.
	ReadLimit int
}

// ListenAndServe binds Addr and accepts connections until Accept fails;
// any accept error ends the loop, and is returned unless it is
// net.ErrClosed. The listener is not exposed, so there is no separate
// stop call. Each connection is
// handled on its own goroutine and never blocks another connection's
// progress.
func (l *TCPListener) ListenAndServe() error {
	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go l.handle(conn)
	}
}

func (l *TCPListener) handle(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	r := framing.NewReader(conn, framing.WithReadLimit(l.ReadLimit))
	defer r.Close()

	for {
		payload, err := r.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.Ingress.Log.Warnw("tcp: connection closed on error", "remote", remote, "err", err)
			}
			return
		}
		if payload == nil {
			// A legal zero-length frame: nothing to decode, keep reading.
			continue
		}

		rec, err := wireformat.Decode(payload)
		if err != nil {
			l.Ingress.Log.Warnw("tcp: malformed frame, closing connection", "remote", remote, "err", err)
			return
		}
		if err := l.Ingress.accept(rec); err != nil {
			l.Ingress.Log.Errorw("tcp: writer rejected record", "remote", remote, "err", err)
			return
		}
	}
}
