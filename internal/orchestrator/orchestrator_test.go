// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package orchestrator

import (
	"context"
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/toto1234567890/log-server/internal/config"
	"github.com/toto1234567890/log-server/internal/logpb"
	"github.com/toto1234567890/log-server/internal/record"
	"github.com/toto1234567890/log-server/internal/wireformat"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// TestOrchestrator_BothTransportsInterleaveIntoOneFile drives both
// listeners over real loopback sockets — net.Pipe can't stand in here,
// since a *grpc.Server requires a genuine net.Listener — and asserts both ingestion paths land in the
// same on-disk file.
func TestOrchestrator_BothTransportsInterleaveIntoOneFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Host = "127.0.0.1"
	cfg.Port = uint16(freePort(t))
	cfg.GRPCPort = uint16(freePort(t))
	cfg.LogDir = filepath.Join(dir, "logs")

	srv, err := New(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	go srv.Run()
	time.Sleep(100 * time.Millisecond)

	conn, err := net.Dial("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port))))
	require.NoError(t, err)
	payload := wireformat.Encode(record.Record{
		Timestamp: "ts", Hostname: "h", LoggerName: "l", Level: 3, Message: "via-tcp",
	})
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	conn.Write(hdr[:])
	conn.Write(payload)
	conn.Close()

	cc, err := grpc.NewClient(net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.GRPCPort))), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer cc.Close()

	client := logpb.NewLogServiceClient(cc)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = client.Ingest(ctx, &logpb.LogRequest{
		Timestamp: "ts", Hostname: "h", LoggerName: "l", Level: 3, Message: "via-grpc",
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	b, err := os.ReadFile(cfg.BasePath())
	require.NoError(t, err)
	got := string(b)
	require.Contains(t, got, "via-tcp")
	require.Contains(t, got, "via-grpc")
}
