// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wireformat

import (
	"errors"
	"testing"

	"github.com/toto1234567890/log-server/internal/record"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	want := record.Record{
		Timestamp:    "2024-01-01T00:00:00Z",
		Hostname:     "host-1",
		LoggerName:   "svc.ingest",
		Level:        7,
		Filename:     "main.go",
		FunctionName: "Run",
		LineNumber:   "42",
		Message:      "hello world",
	}
	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestDecode_EmptyMessageField(t *testing.T) {
	want := record.Record{Level: 0, Message: ""}
	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Message != "" {
		t.Fatalf("expected empty message, got %q", got.Message)
	}
}

func TestDecode_TruncatedPayloadIsMalformed(t *testing.T) {
	full := Encode(record.Record{Timestamp: "ts", Hostname: "h", LoggerName: "l", Level: 1, Filename: "f", FunctionName: "fn", LineNumber: "1", Message: "m"})
	for cut := 0; cut < len("ts")+2; cut++ {
		truncated := full[:cut]
		if _, err := Decode(truncated); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%d bytes) = %v, want ErrMalformed", cut, err)
		}
	}
}

func TestDecode_EquivalentToGRPCDecoder(t *testing.T) {
	// Both decoders must produce identical internal records for
	// equivalent inputs. The gRPC side is a 1:1 field copy (see
	// internal/transport/grpc.go), so this only needs to confirm the
	// stream decoder doesn't mutate or reorder fields relative to input.
	r := record.Record{Timestamp: "t", Hostname: "h", LoggerName: "l", Level: 2, Filename: "f", FunctionName: "fn", LineNumber: "3", Message: "msg"}
	got, err := Decode(Encode(r))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	line1, err := record.Format(got)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	line2, err := record.Format(r)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if line1 != line2 {
		t.Fatalf("decoder should be a faithful round trip: %q != %q", line1, line2)
	}
}
