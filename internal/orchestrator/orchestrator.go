// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package orchestrator wires the ambient and domain components together
// into one running server: create the log directory, build the shared
// writer and sequencer, start both transport listeners (or just the
// stream one, per config.Config.TCPOnly), and once every started listener
// has exited, report their combined errors.
//
// Each listener runs on its own goroutine reporting through its own
// error channel; results are aggregated with go.uber.org/multierr the
// way a multi-subsystem service typically reports combined
// startup/shutdown failures.
package orchestrator

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/toto1234567890/log-server/internal/config"
	"github.com/toto1234567890/log-server/internal/sequencer"
	"github.com/toto1234567890/log-server/internal/transport"
	"github.com/toto1234567890/log-server/internal/writer"
)

// Server owns the writer and both transport listeners.
type Server struct {
	cfg config.Config
	log *zap.SugaredLogger

	w   *writer.Writer
	tcp *transport.TCPListener
	rpc *transport.GRPCServer
}

// New creates the log directory if absent and the shared writer, and
// builds the listeners described by cfg.
func New(cfg config.Config, log *zap.SugaredLogger) (*Server, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("orchestrator: create log directory: %w", err)
	}

	w, err := writer.New(writer.DefaultConfig(cfg.BasePath()), log)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: create writer: %w", err)
	}

	ingress := &transport.Ingress{
		Seq: &sequencer.Sequencer{},
		W:   w,
		Log: log,
	}

	s := &Server{
		cfg: cfg,
		log: log,
		w:   w,
		tcp: &transport.TCPListener{
			Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Ingress: ingress,
		},
	}
	if !cfg.TCPOnly {
		s.rpc = &transport.GRPCServer{
			Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.GRPCPort),
			Ingress: ingress,
		}
	}
	return s, nil
}

// Run starts the writer's consumer loop and both listeners, and blocks
// until every started listener has exited. It combines every non-nil
// listener error with go.uber.org/multierr so a caller sees the full
// picture of what failed rather than only the first error, then closes
// the writer's input and waits for its own shutdown drain.
func (s *Server) Run() error {
	writerDone := make(chan error, 1)
	go func() { writerDone <- s.w.Run() }()

	tcpDone := make(chan error, 1)
	go func() { tcpDone <- s.tcp.ListenAndServe() }()

	var rpcDone chan error
	if s.rpc != nil {
		rpcDone = make(chan error, 1)
		go func() {
			rpcDone <- s.rpc.ListenAndServe()
		}()
	}

	var err error
	select {
	case tcpErr := <-tcpDone:
		if tcpErr != nil {
			err = multierr.Append(err, fmt.Errorf("tcp listener: %w", tcpErr))
		}
		if s.rpc != nil {
			s.rpc.Stop()
		}
		if rpcDone != nil {
			if rpcErr := <-rpcDone; rpcErr != nil {
				err = multierr.Append(err, fmt.Errorf("grpc listener: %w", rpcErr))
			}
		}
	case rpcErr := <-rpcDone:
		if rpcErr != nil {
			err = multierr.Append(err, fmt.Errorf("grpc listener: %w", rpcErr))
		}
		// A stopped gRPC listener alone does not end the server: the
		// stream transport keeps accepting independently. The writer
		// shutdown below only runs once the TCP side also exits.
		if tcpErr := <-tcpDone; tcpErr != nil {
			err = multierr.Append(err, fmt.Errorf("tcp listener: %w", tcpErr))
		}
	}

	s.w.CloseInput()
	if writerErr := <-writerDone; writerErr != nil {
		err = multierr.Append(err, fmt.Errorf("writer: %w", writerErr))
	}

	return err
}
