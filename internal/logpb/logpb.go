// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logpb is the RPC-transport wire contract: one unary method,
// Ingest, carrying the same eight record fields the stream transport
// carries, field-for-field.
//
// What follows is hand-authored in the shape protoc-gen-go-grpc would
// have produced (a request/response pair, a *Client, a Server
// interface, a grpc.ServiceDesc) so internal/transport can drive a real
// google.golang.org/grpc.Server and grpc.ClientConn exactly as
// generated code would. The one deliberate substitution is the wire
// codec: instead of protobuf's binary encoding we register a JSON codec
// (codec.go) under grpc's "proto" content-subtype, so the message types
// can be ordinary encoding/json-tagged structs rather than generated
// protoreflect types.
package logpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LogRequest is the unary request message: the eight record fields, in
// wire order.
type LogRequest struct {
	Timestamp    string `json:"timestamp"`
	Hostname     string `json:"hostname"`
	LoggerName   string `json:"logger_name"`
	Level        int32  `json:"level"`
	Filename     string `json:"filename"`
	FunctionName string `json:"function_name"`
	LineNumber   string `json:"line_number"`
	Message      string `json:"message"`
}

// LogResponse acknowledges ingestion. Accepted is false only when the
// server rejects the call outright (e.g. a malformed level); a
// successfully queued record still returns Accepted: true even though
// durability is only eventual — queueing is fire-and-forget.
type LogResponse struct {
	Accepted bool `json:"accepted"`
}

// LogServiceServer is the interface transport/grpc.go implements.
type LogServiceServer interface {
	Ingest(context.Context, *LogRequest) (*LogResponse, error)
}

// UnimplementedLogServiceServer can be embedded in a LogServiceServer
// implementation for forward compatibility, the way protoc-gen-go-grpc's
// generated Unimplemented types work: a future additional RPC method
// gains a default error-returning implementation instead of breaking
// every existing implementer at compile time.
type UnimplementedLogServiceServer struct{}

func (UnimplementedLogServiceServer) Ingest(context.Context, *LogRequest) (*LogResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ingest not implemented")
}

// LogServiceClient is the interface a test or future producer dials
// against. Unused by the server itself but kept alongside the server
// stub the way a generated _grpc.pb.go file would, so integration tests
// can drive the real ingest path over a loopback connection.
type LogServiceClient interface {
	Ingest(ctx context.Context, in *LogRequest, opts ...grpc.CallOption) (*LogResponse, error)
}

type logServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLogServiceClient wraps a dialed *grpc.ClientConn the way generated
// stubs do.
func NewLogServiceClient(cc grpc.ClientConnInterface) LogServiceClient {
	return &logServiceClient{cc: cc}
}

func (c *logServiceClient) Ingest(ctx context.Context, in *LogRequest, opts ...grpc.CallOption) (*LogResponse, error) {
	out := new(LogResponse)
	if err := c.cc.Invoke(ctx, logServiceIngestMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

const logServiceIngestMethod = "/logserver.LogService/Ingest"

// RegisterLogServiceServer wires srv into a *grpc.Server exactly as a
// generated RegisterXServer function would.
func RegisterLogServiceServer(s grpc.ServiceRegistrar, srv LogServiceServer) {
	s.RegisterService(&logServiceServiceDesc, srv)
}

func ingestHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LogRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LogServiceServer).Ingest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: logServiceIngestMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LogServiceServer).Ingest(ctx, req.(*LogRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var logServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: "logserver.LogService",
	HandlerType: (*LogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ingest",
			Handler:    ingestHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "logpb/logservice.proto",
}
