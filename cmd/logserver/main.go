// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command logserver runs the centralized log ingestion server end to
// end, wiring internal/config, internal/logging and
// internal/orchestrator together around a parsed flag set.
package main

import (
	"fmt"
	"os"

	"github.com/toto1234567890/log-server/internal/config"
	"github.com/toto1234567890/log-server/internal/logging"
	"github.com/toto1234567890/log-server/internal/orchestrator"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logserver: config:", err)
		return 1
	}

	log, err := logging.New(cfg.Name)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logserver: logging:", err)
		return 1
	}
	defer log.Sync()

	log.Infow("starting",
		"host", cfg.Host, "port", cfg.Port, "grpc_port", cfg.GRPCPort,
		"tcp_only", cfg.TCPOnly, "log_dir", cfg.LogDir,
	)

	srv, err := orchestrator.New(cfg, log)
	if err != nil {
		log.Errorw("startup failed", "err", err)
		return 1
	}

	if err := srv.Run(); err != nil {
		log.Errorw("server exited with error", "err", err)
		return 1
	}
	return 0
}
