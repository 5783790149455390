// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logpb

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestJSONCodec_RegisteredUnderProtoName(t *testing.T) {
	c := encoding.GetCodec("proto")
	if c == nil {
		t.Fatalf("expected a codec registered under %q", "proto")
	}
	if c.Name() != "proto" {
		t.Fatalf("got codec name %q, want %q", c.Name(), "proto")
	}
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	c := jsonCodec{}
	want := &LogRequest{
		Timestamp:    "2026-07-30T00:00:00Z",
		Hostname:     "host-1",
		LoggerName:   "svc",
		Level:        3,
		Filename:     "main.go",
		FunctionName: "main",
		LineNumber:   "42",
		Message:      "hello",
	}
	b, err := c.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := new(LogRequest)
	if err := c.Unmarshal(b, got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if *got != *want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}
