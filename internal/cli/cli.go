// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for lineadmin.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdUsers
	CmdServe
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet bool
	JSON  bool // Output in JSON format

	// Command-specific
	Subcommand string
	Username   string
	ConfigKey  string
	ConfigVal  string
	Addr       string
	DBPath     string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `lineadmin - terminal console for the LineAdmin user service

LineAdmin manages user accounts on a remote admin API from your terminal.

It provides:
  - A full-screen dashboard for browsing, creating, editing and
    deleting accounts
  - Session persistence so signing in survives restarts
  - Admin-only gating with a forced sign-out for everyone else
  - A development API server so you can try it without a backend

Usage:
  lineadmin                    Start the dashboard (default)
  lineadmin login [username]   Sign in and store the session
  lineadmin logout             Sign out and clear the stored session
  lineadmin status, s          Show session and server status
  lineadmin users list         List accounts
  lineadmin serve              Run the development API server
  lineadmin config [get|set|path]  Configuration
  lineadmin version, -v        Show version
  lineadmin help, -h           Show this help

Global flags:
  --json     Machine-readable JSON output
  --quiet    Suppress non-essential output

Serve flags:
  --addr ADDR   Listen address (default :8990)
  --db PATH     SQLite database path (default ~/.lineadmin/lineadmin.db)

Configuration keys:
  server.url, server.timeout_secs, ui.page_size, ui.theme

Environment:
  LINEADMIN_SERVER_URL, LINEADMIN_TIMEOUT_SECS, LINEADMIN_THEME

Examples:
  lineadmin login Admin
  lineadmin users list --json
  lineadmin config set server.url http://10.0.0.5:8990
  lineadmin serve --addr 127.0.0.1:8990 --db ./lineadmin.db
`

// Usage prints the help text.
func Usage() {
	fmt.Print(usageText)
}

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses an argument list into a command and its arguments.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui", "dashboard":
		return CmdTUI, parsed

	case "login":
		if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
			parsed.Username = remaining[0]
		}
		return CmdLogin, parsed

	case "logout":
		return CmdLogout, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "users", "user":
		if len(remaining) > 0 {
			parsed.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdUsers, parsed

	case "serve", "server":
		parseServeArgs(&parsed, remaining)
		return CmdServe, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for _, arg := range args {
		switch arg {
		case "--json":
			parsed.JSON = true
		case "--quiet", "-q":
			parsed.Quiet = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}

func parseServeArgs(parsed *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "--addr", "-a":
			if i+1 < len(remaining) {
				parsed.Addr = remaining[i+1]
				i++
			}
		case "--db":
			if i+1 < len(remaining) {
				parsed.DBPath = remaining[i+1]
				i++
			}
		}
	}
}

func parseConfigArgs(parsed *Args, remaining []string) {
	if len(remaining) == 0 {
		parsed.Subcommand = "show"
		return
	}
	parsed.Subcommand = strings.ToLower(remaining[0])
	if len(remaining) > 1 {
		parsed.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		parsed.ConfigVal = remaining[2]
	}
}

// VersionString returns the full version line.
func VersionString() string {
	return fmt.Sprintf("lineadmin %s (%s, %s, %s/%s)",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}
