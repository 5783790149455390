// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config parses the server's CLI surface and resolves the
// on-disk log directory layout.
//
// Flags are parsed with spf13/pflag for GNU-style long flags, layered
// under spf13/viper so the same values can also come from an
// environment variable or an optional config file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved server configuration: the five CLI flags, plus
// the derived on-disk log paths.
type Config struct {
	Name      string
	Host      string
	Port      uint16
	GRPCPort  uint16
	TCPOnly   bool
	LogDir    string // default "logs", relative to the working directory
	BaseName  string // default "_main", yields logs/_main.log
}

// Defaults returns the server's built-in configuration defaults.
func Defaults() Config {
	return Config{
		Name:     "LogServer",
		Host:     "127.0.0.1",
		Port:     9020,
		GRPCPort: 9021,
		TCPOnly:  false,
		LogDir:   "logs",
		BaseName: "_main",
	}
}

// Parse builds a Config from CLI args (flag.Parse semantics via pflag),
// an optional config file, and LOGSERVER_-prefixed environment variables,
// in flag > env > file > built-in-default precedence.
func Parse(args []string) (Config, error) {
	d := Defaults()
	fs := pflag.NewFlagSet("logserver", pflag.ContinueOnError)

	name := fs.String("name", d.Name, "diagnostics prefix")
	host := fs.String("host", d.Host, "bind address for both listeners")
	port := fs.Uint16("port", d.Port, "stream-transport port")
	grpcPort := fs.Uint16("grpc_port", d.GRPCPort, "RPC-transport port")
	tcpOnly := fs.Bool("tcp_only", d.TCPOnly, "disable the RPC listener")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("LOGSERVER")
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("config: bind flags: %w", err)
	}
	v.SetConfigName("logserver")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	cfg := Config{
		Name:     v.GetString("name"),
		Host:     v.GetString("host"),
		Port:     uint16(v.GetUint32("port")),
		GRPCPort: uint16(v.GetUint32("grpc_port")),
		TCPOnly:  v.GetBool("tcp_only"),
		LogDir:   d.LogDir,
		BaseName: d.BaseName,
	}
	// pflag's own values remain authoritative if the flag was explicitly
	// set on the command line, so an env var or config file can never
	// silently override an operator's explicit flag.
	if fs.Changed("name") {
		cfg.Name = *name
	}
	if fs.Changed("host") {
		cfg.Host = *host
	}
	if fs.Changed("port") {
		cfg.Port = *port
	}
	if fs.Changed("grpc_port") {
		cfg.GRPCPort = *grpcPort
	}
	if fs.Changed("tcp_only") {
		cfg.TCPOnly = *tcpOnly
	}

	if err := ValidateRelativePath(cfg.LogDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BasePath is the active log file's path: logs/_main.log.
func (c Config) BasePath() string {
	return filepath.Join(c.LogDir, c.BaseName+".log")
}

// ErrUnsafePath is returned by ValidateRelativePath.
var ErrUnsafePath = errors.New("config: unsafe path")

// ValidateRelativePath rejects absolute paths and parent-directory
// escapes. Parse applies it to the log directory (the built-in "logs",
// which no flag changes) so that value cannot be used to write outside
// the working directory.
func ValidateRelativePath(path string) error {
	if filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q is absolute", ErrUnsafePath, path)
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q escapes the working directory", ErrUnsafePath, path)
	}
	return nil
}
