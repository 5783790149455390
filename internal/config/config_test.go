// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import "testing"

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Defaults()
	if cfg.Name != want.Name || cfg.Host != want.Host || cfg.Port != want.Port ||
		cfg.GRPCPort != want.GRPCPort || cfg.TCPOnly != want.TCPOnly {
		t.Fatalf("got %+v want %+v", cfg, want)
	}
}

func TestParse_OverridesFromFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"--name", "custom",
		"--host", "0.0.0.0",
		"--port", "9100",
		"--grpc_port", "9101",
		"--tcp_only",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Name != "custom" || cfg.Host != "0.0.0.0" || cfg.Port != 9100 ||
		cfg.GRPCPort != 9101 || !cfg.TCPOnly {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestConfig_BasePath(t *testing.T) {
	cfg := Defaults()
	if got, want := cfg.BasePath(), "logs/_main.log"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestValidateRelativePath_RejectsAbsolute(t *testing.T) {
	if err := ValidateRelativePath("/etc/passwd"); err == nil {
		t.Fatalf("expected an error for an absolute path")
	}
}

func TestValidateRelativePath_RejectsParentEscape(t *testing.T) {
	for _, p := range []string{"../logs", "a/../../b", ".."} {
		if err := ValidateRelativePath(p); err == nil {
			t.Fatalf("expected an error for %q", p)
		}
	}
}

func TestValidateRelativePath_AcceptsOrdinaryRelativePaths(t *testing.T) {
	for _, p := range []string{"logs", "./logs", "a/b/logs"} {
		if err := ValidateRelativePath(p); err != nil {
			t.Fatalf("ValidateRelativePath(%q): %v", p, err)
		}
	}
}
