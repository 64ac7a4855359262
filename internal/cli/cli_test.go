// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jeranaias/lineadmin-tui/internal/api"
	"github.com/jeranaias/lineadmin-tui/internal/config"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{"no args is TUI", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"login", []string{"login"}, CmdLogin},
		{"logout", []string{"logout"}, CmdLogout},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"users", []string{"users", "list"}, CmdUsers},
		{"serve", []string{"serve"}, CmdServe},
		{"config", []string{"config", "get", "server.url"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"unknown falls back to help", []string{"frobnicate"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ParseArgs(tt.args)
			if got != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--json", "users", "list"})
	if cmd != CmdUsers {
		t.Fatalf("command = %v, want CmdUsers", cmd)
	}
	if !args.JSON {
		t.Error("JSON flag not parsed")
	}
	if args.Subcommand != "list" {
		t.Errorf("subcommand = %q, want list", args.Subcommand)
	}

	_, args = ParseArgs([]string{"--quiet", "logout"})
	if !args.Quiet {
		t.Error("quiet flag not parsed")
	}
}

func TestParseArgs_LoginUsername(t *testing.T) {
	_, args := ParseArgs([]string{"login", "Admin"})
	if args.Username != "Admin" {
		t.Errorf("username = %q, want Admin", args.Username)
	}

	_, args = ParseArgs([]string{"login"})
	if args.Username != "" {
		t.Errorf("username = %q, want empty", args.Username)
	}
}

func TestParseArgs_ServeFlags(t *testing.T) {
	_, args := ParseArgs([]string{"serve", "--addr", "127.0.0.1:9999", "--db", "/tmp/test.db"})
	if args.Addr != "127.0.0.1:9999" {
		t.Errorf("addr = %q", args.Addr)
	}
	if args.DBPath != "/tmp/test.db" {
		t.Errorf("db = %q", args.DBPath)
	}
}

func TestParseArgs_ConfigSet(t *testing.T) {
	_, args := ParseArgs([]string{"config", "set", "ui.page_size", "25"})
	if args.Subcommand != "set" || args.ConfigKey != "ui.page_size" || args.ConfigVal != "25" {
		t.Errorf("got %q %q %q", args.Subcommand, args.ConfigKey, args.ConfigVal)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage error", UsageError("bad"), ExitUsageError},
		{"auth error", AuthError("denied"), ExitAuthError},
		{"config error", ConfigError("broken", nil), ExitConfigError},
		{"unauthorized sentinel", api.ErrUnauthorized, ExitAuthError},
		{"unreachable sentinel", api.ErrUnreachable, ExitNetworkError},
		{"timeout sentinel", api.ErrTimeout, ExitNetworkError},
		{"plain error", errors.New("boom"), ExitGeneralError},
		{"rejected client error", api.RejectedError("nope"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestJSONResponseShape(t *testing.T) {
	resp := NewJSONResponse("status", map[string]bool{"ok": true})
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["success"] != true {
		t.Error("success not true")
	}
	if decoded["error"] != nil {
		t.Error("error should be null on success")
	}
	if decoded["command"] != "status" {
		t.Errorf("command = %v", decoded["command"])
	}

	errResp := NewJSONErrorResponse("status", errors.New("boom"))
	raw, _ = json.Marshal(errResp)
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["success"] != false {
		t.Error("success not false")
	}
	if decoded["error"] != "boom" {
		t.Errorf("error = %v", decoded["error"])
	}
}

func TestConfigValueRoundTrip(t *testing.T) {
	cfg := config.Default()

	if err := applyConfigValue(cfg, "server.url", "http://example:1234"); err != nil {
		t.Fatal(err)
	}
	if err := applyConfigValue(cfg, "ui.page_size", "25"); err != nil {
		t.Fatal(err)
	}
	if err := applyConfigValue(cfg, "ui.theme", "dark"); err != nil {
		t.Fatal(err)
	}

	if v, _ := configValue(cfg, "server.url"); v != "http://example:1234" {
		t.Errorf("server.url = %q", v)
	}
	if v, _ := configValue(cfg, "ui.page_size"); v != "25" {
		t.Errorf("ui.page_size = %q", v)
	}

	if err := applyConfigValue(cfg, "bogus.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := configValue(cfg, "bogus.key"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := applyConfigValue(cfg, "ui.page_size", "lots"); err == nil {
		t.Error("expected error for non-integer page size")
	}
}
