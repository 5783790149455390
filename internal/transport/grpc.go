// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/toto1234567890/log-server/internal/logpb"
	"github.com/toto1234567890/log-server/internal/record"
)

// GRPCServer implements logpb.LogServiceServer over the same Ingress the
// TCP listener writes into, so both transports feed one ordering.
type GRPCServer struct {
	logpb.UnimplementedLogServiceServer
	Addr    string
	Ingress *Ingress

	server *grpc.Server
}

// ListenAndServe binds Addr and serves until Stop is called or a fatal
// accept error occurs.
func (g *GRPCServer) ListenAndServe() error {
	ln, err := net.Listen("tcp", g.Addr)
	if err != nil {
		return err
	}
	g.server = grpc.NewServer()
	logpb.RegisterLogServiceServer(g.server, g)
	return g.server.Serve(ln)
}

// Stop gracefully stops the gRPC server, waiting for in-flight Ingest
// calls to complete.
func (g *GRPCServer) Stop() {
	if g.server != nil {
		g.server.GracefulStop()
	}
}

// Ingest is the single RPC method: decode the request into a
// record.Record, sequence it, and enqueue it exactly as the TCP path
// does, so the two transports differ only in how a record arrives, never
// in what happens to it afterward.
func (g *GRPCServer) Ingest(ctx context.Context, req *logpb.LogRequest) (*logpb.LogResponse, error) {
	rec := record.Record{
		Timestamp:    req.Timestamp,
		Hostname:     req.Hostname,
		LoggerName:   req.LoggerName,
		Level:        req.Level,
		Filename:     req.Filename,
		FunctionName: req.FunctionName,
		LineNumber:   req.LineNumber,
		Message:      req.Message,
	}
	if err := g.Ingress.accept(rec); err != nil {
		g.Ingress.Log.Errorw("grpc: writer rejected record", "err", err)
		return &logpb.LogResponse{Accepted: false}, fmt.Errorf("logserver: %w", err)
	}
	return &logpb.LogResponse{Accepted: true}, nil
}
