// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// handlers.go - Command handlers for the non-TUI lineadmin commands.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jeranaias/lineadmin-tui/internal/api"
	"github.com/jeranaias/lineadmin-tui/internal/auth"
	"github.com/jeranaias/lineadmin-tui/internal/config"
	"github.com/jeranaias/lineadmin-tui/internal/server"
	"github.com/jeranaias/lineadmin-tui/internal/store"
	"github.com/jeranaias/lineadmin-tui/internal/util"
)

// NewSession builds the API client and auth manager every command shares,
// restoring any stored session.
func NewSession() (*auth.Manager, *api.Client, error) {
	cfg := config.Global()
	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.Timeout(),
	})

	path, err := store.DefaultPath()
	if err != nil {
		return nil, nil, ConfigError("locate session store", err)
	}
	st, err := store.NewFileStore(path)
	if err != nil {
		return nil, nil, ConfigError("open session store", err)
	}

	mgr := auth.NewManager(st, client)
	mgr.Initialize()
	return mgr, client, nil
}

// =============================================================================
// LOGIN / LOGOUT / STATUS
// =============================================================================

// HandleLogin signs in and stores the session for later commands and the TUI.
func HandleLogin(args Args) error {
	mgr, _, err := NewSession()
	if err != nil {
		return err
	}

	username := args.Username
	if username == "" {
		if !IsTTY() {
			return UsageError("username required when stdin is not a terminal")
		}
		username, err = PromptLine("Username: ")
		if err != nil {
			return err
		}
	}
	password, err := PromptPassword("Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Global().Timeout())
	defer cancel()
	result := mgr.Login(ctx, username, password)
	if !result.OK {
		if args.JSON {
			return NewJSONErrorResponse("login", AuthError(result.Message)).Output()
		}
		return AuthError(result.Message)
	}

	user, _ := mgr.User()
	if args.JSON {
		return NewJSONResponse("login", user).Output()
	}
	if !args.Quiet {
		fmt.Printf("Signed in as %s (%s).\n", user.Username, user.Role)
	}
	return nil
}

// HandleLogout clears the stored session. Always succeeds.
func HandleLogout(args Args) error {
	mgr, _, err := NewSession()
	if err != nil {
		return err
	}
	mgr.Logout()

	if args.JSON {
		return NewJSONResponse("logout", map[string]bool{"signedOut": true}).Output()
	}
	if !args.Quiet {
		fmt.Println("Signed out.")
	}
	return nil
}

// statusData is the status payload for both text and JSON output.
type statusData struct {
	ServerURL  string `json:"serverUrl"`
	Reachable  bool   `json:"reachable"`
	SignedIn   bool   `json:"signedIn"`
	Username   string `json:"username,omitempty"`
	Role       string `json:"role,omitempty"`
	Admin      bool   `json:"admin"`
	ConfigPath string `json:"configPath,omitempty"`
}

// HandleStatus reports server reachability and the stored session.
func HandleStatus(args Args) error {
	mgr, _, err := NewSession()
	if err != nil {
		return err
	}
	cfg := config.Global()

	data := statusData{ServerURL: cfg.Server.URL}
	if p, err := config.Path(); err == nil {
		data.ConfigPath = p
	}

	httpClient := &http.Client{Timeout: 3 * time.Second}
	if resp, err := httpClient.Get(strings.TrimRight(cfg.Server.URL, "/") + "/health"); err == nil {
		resp.Body.Close()
		data.Reachable = resp.StatusCode == http.StatusOK
	}

	if user, ok := mgr.User(); ok {
		data.SignedIn = true
		data.Username = user.Username
		data.Role = string(user.Role)
		data.Admin = mgr.IsAdmin()
	}

	if args.JSON {
		return NewJSONResponse("status", data).Output()
	}

	fmt.Printf("Server:   %s\n", data.ServerURL)
	fmt.Printf("Health:   %s\n", boolWord(data.Reachable, "reachable", "unreachable"))
	if data.SignedIn {
		fmt.Printf("Session:  %s (%s)\n", data.Username, data.Role)
	} else {
		fmt.Println("Session:  not signed in")
	}
	if data.ConfigPath != "" {
		fmt.Printf("Config:   %s\n", data.ConfigPath)
	}
	return nil
}

// =============================================================================
// USERS
// =============================================================================

// HandleUsers runs the users subcommands; "list" is the default.
func HandleUsers(args Args) error {
	switch args.Subcommand {
	case "", "list", "ls":
		return handleUsersList(args)
	default:
		return UsageError("unknown users subcommand: %s", args.Subcommand)
	}
}

func handleUsersList(args Args) error {
	mgr, client, err := NewSession()
	if err != nil {
		return err
	}
	if !mgr.IsAuthenticated() {
		return AuthError("not signed in; run 'lineadmin login' first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Global().Timeout())
	defer cancel()
	users, err := client.ListUsers(ctx)
	if err != nil {
		if args.JSON {
			return NewJSONErrorResponse("users list", err).Output()
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("users list", users).Output()
	}

	fmt.Printf("%s %s %s\n",
		util.PadRight("USERNAME", 26),
		util.PadRight("CREATED", 18),
		"ROLE")
	for _, u := range users {
		fmt.Printf("%s %s %s\n",
			util.PadRight(u.Username, 26),
			util.PadRight(u.CreatedAt.Local().Format("02/01/2006 15:04"), 18),
			u.Role)
	}
	if !args.Quiet {
		fmt.Printf("\n%d accounts\n", len(users))
	}
	return nil
}

// =============================================================================
// SERVE
// =============================================================================

// HandleServe runs the development API server until interrupted.
func HandleServe(args Args) error {
	addr := args.Addr
	if addr == "" {
		addr = ":8990"
	}
	dbPath := args.DBPath
	if dbPath == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return ConfigError("locate data directory", err)
		}
		dbPath = filepath.Join(dir, "lineadmin.db")
	}

	srv, err := server.New(server.Config{Addr: addr, DBPath: dbPath})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// =============================================================================
// CONFIG
// =============================================================================

// HandleConfig runs the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		p, err := config.Path()
		if err != nil {
			return ConfigError("locate config file", err)
		}
		fmt.Println(p)
		return nil
	default:
		return UsageError("unknown config subcommand: %s", args.Subcommand)
	}
}

func handleConfigShow(args Args) error {
	cfg := config.Global()
	if args.JSON {
		return NewJSONResponse("config show", cfg).Output()
	}
	fmt.Printf("server.url           = %s\n", cfg.Server.URL)
	fmt.Printf("server.timeout_secs  = %d\n", cfg.Server.TimeoutSecs)
	fmt.Printf("ui.page_size         = %d\n", cfg.UI.PageSize)
	fmt.Printf("ui.theme             = %s\n", cfg.UI.Theme)
	return nil
}

func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return UsageError("usage: lineadmin config get KEY")
	}
	val, err := configValue(config.Global(), args.ConfigKey)
	if err != nil {
		return err
	}
	fmt.Println(val)
	return nil
}

func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return UsageError("usage: lineadmin config set KEY VALUE")
	}

	cfg, err := config.Load()
	if err != nil {
		return ConfigError("load config", err)
	}
	if err := applyConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return ConfigError("invalid value", err)
	}
	if err := config.Save(cfg); err != nil {
		return ConfigError("save config", err)
	}
	config.SetGlobal(cfg)

	if !args.Quiet {
		fmt.Printf("%s = %s\n", args.ConfigKey, args.ConfigVal)
	}
	return nil
}

func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "server.url":
		return cfg.Server.URL, nil
	case "server.timeout_secs":
		return strconv.Itoa(cfg.Server.TimeoutSecs), nil
	case "ui.page_size":
		return strconv.Itoa(cfg.UI.PageSize), nil
	case "ui.theme":
		return cfg.UI.Theme, nil
	default:
		return "", UsageError("unknown config key: %s", key)
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "server.url":
		cfg.Server.URL = value
	case "server.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return UsageError("server.timeout_secs must be an integer")
		}
		cfg.Server.TimeoutSecs = n
	case "ui.page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return UsageError("ui.page_size must be an integer")
		}
		cfg.UI.PageSize = n
	case "ui.theme":
		cfg.UI.Theme = value
	default:
		return UsageError("unknown config key: %s", key)
	}
	return nil
}

// =============================================================================
// VERSION
// =============================================================================

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", map[string]string{
			"version": Version,
			"commit":  GitCommit,
			"date":    BuildDate,
		}).Output()
	}
	fmt.Println(VersionString())
	return nil
}

func boolWord(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
