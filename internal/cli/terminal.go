// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and prompting for the lineadmin CLI.
//
// These utilities ensure proper behavior in different environments:
// - Interactive terminals (prompts, no-echo password entry)
// - Piped output (no colors, no prompts)
// - CI/CD environments (respects NO_COLOR)
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
// Use this to determine if interactive prompts are possible.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
// Use this to determine if colored output should be used.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColorEnabled reports whether colored output should be produced.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !IsStdoutTTY() {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

// =============================================================================
// PROMPTS
// =============================================================================

// PromptLine reads a single line from stdin after printing the prompt.
func PromptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword reads a password without echoing it. Falls back to a plain
// line read when stdin is not a terminal (tests, pipes).
func PromptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if !IsTTY() {
		return PromptLine("")
	}
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
