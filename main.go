// lineadmin TUI - a terminal console for the LineAdmin user service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lineadmin-tui/internal/auth"
	"github.com/jeranaias/lineadmin-tui/internal/cli"
	"github.com/jeranaias/lineadmin-tui/internal/config"
	"github.com/jeranaias/lineadmin-tui/internal/ui/components"
	"github.com/jeranaias/lineadmin-tui/internal/ui/directory"
	"github.com/jeranaias/lineadmin-tui/internal/ui/gate"
	"github.com/jeranaias/lineadmin-tui/internal/ui/login"
	"github.com/jeranaias/lineadmin-tui/internal/ui/nav"
	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI()
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdLogout:
		err = cli.HandleLogout(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdUsers:
		err = cli.HandleUsers(args)
	case cli.CmdServe:
		err = cli.HandleServe(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.Usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

// =============================================================================
// TUI
// =============================================================================

// sessionReadyMsg signals that the stored session has been restored (or found
// absent) and routing can be decided.
type sessionReadyMsg struct{}

// configReloadedMsg signals that the config file changed on disk.
type configReloadedMsg struct{}

// appModel is the root Bubble Tea model. It owns routing between the sign-in
// screen and the dashboard, and runs every dashboard visit through the access
// gate.
type appModel struct {
	theme   *styles.Theme
	authMgr *auth.Manager

	route     nav.Route
	gate      gate.Model
	login     login.Model
	directory directory.Model
	header    *components.Header

	newDirectory func() directory.Model
	newLogin     func() login.Model

	width  int
	height int
}

func newAppModel(mgr *auth.Manager, newDir func() directory.Model, newLogin func() login.Model) appModel {
	theme := styles.NewTheme()
	return appModel{
		theme:        theme,
		authMgr:      mgr,
		route:        nav.RouteDirectory,
		gate:         gate.New(theme, mgr, nav.RouteDirectory, true),
		header:       components.NewHeader(theme),
		newDirectory: newDir,
		newLogin:     newLogin,
	}
}

func (m appModel) Init() tea.Cmd {
	mgr := m.authMgr
	restore := func() tea.Msg {
		mgr.Initialize()
		return sessionReadyMsg{}
	}
	return tea.Batch(m.gate.Init(), restore)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.route == nav.RouteDirectory && m.gate.State() == gate.StateAuthorized && m.directory.InList() {
				return m, tea.Quit
			}
		}

	case sessionReadyMsg:
		var cmd tea.Cmd
		m.gate, cmd = m.gate.Resolve()
		if m.gate.State() == gate.StateAuthorized {
			m.directory = m.newDirectory()
			m.propagateSize()
			return m, tea.Batch(cmd, m.directory.Init())
		}
		return m, cmd

	case configReloadedMsg:
		// Picked up by the next dashboard or sign-in instance.
		return m, nil

	case nav.GoMsg:
		return m.navigate(msg)

	case gate.TickMsg:
		var cmd tea.Cmd
		m.gate, cmd = m.gate.Update(msg)
		return m, cmd

	case directory.SessionExpiredMsg:
		m.authMgr.Logout()
		return m, nav.GoReplace(nav.RouteLogin, nav.RouteDirectory)

	case directory.SignOutMsg:
		m.authMgr.Logout()
		return m, nav.GoReplace(nav.RouteLogin, "")
	}

	return m.updateRoute(msg)
}

// navigate switches between the sign-in screen and the gated dashboard.
func (m appModel) navigate(msg nav.GoMsg) (tea.Model, tea.Cmd) {
	switch msg.To {
	case nav.RouteLogin:
		// Already signed in: bounce straight to the resume route.
		if m.authMgr.IsAuthenticated() {
			to := msg.From
			if to == "" {
				to = nav.RouteDirectory
			}
			return m.navigate(nav.GoMsg{To: to, Replace: true})
		}
		m.gate = m.gate.Teardown()
		m.route = nav.RouteLogin
		m.login = m.newLogin()
		m.login.SetResume(msg.From)
		m.propagateSize()
		return m, m.login.Init()

	case nav.RouteDirectory:
		m.route = nav.RouteDirectory
		m.gate = gate.New(m.theme, m.authMgr, nav.RouteDirectory, true)
		var cmd tea.Cmd
		m.gate, cmd = m.gate.Resolve()
		if m.gate.State() == gate.StateAuthorized {
			m.directory = m.newDirectory()
			m.propagateSize()
			return m, tea.Batch(cmd, m.directory.Init())
		}
		m.propagateSize()
		return m, tea.Batch(m.gate.Init(), cmd)
	}
	return m, nil
}

// updateRoute forwards a message to whichever view owns the screen.
func (m appModel) updateRoute(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.route {
	case nav.RouteLogin:
		m.login, cmd = m.login.Update(msg)
	case nav.RouteDirectory:
		if m.gate.State() == gate.StateAuthorized {
			m.directory, cmd = m.directory.Update(msg)
		} else {
			m.gate, cmd = m.gate.Update(msg)
		}
	}
	return m, cmd
}

func (m *appModel) propagateSize() {
	if m.width == 0 {
		return
	}
	body := m.height - 1
	m.header.Width = m.width
	m.gate.SetSize(m.width, body)
	m.login.SetSize(m.width, body)
	m.directory.SetSize(m.width, body)
}

func (m appModel) View() string {
	switch m.route {
	case nav.RouteLogin:
		m.header.Context = "Sign in"
	default:
		m.header.Context = "Users"
	}

	var body string
	switch m.route {
	case nav.RouteLogin:
		body = m.login.View()
	case nav.RouteDirectory:
		if m.gate.State() == gate.StateAuthorized {
			body = m.directory.View()
		} else {
			body = m.gate.View()
		}
	}
	return m.header.View() + "\n" + body
}

func runTUI() error {
	theme := styles.NewTheme()

	mgr, client, err := cli.NewSession()
	if err != nil {
		return err
	}

	newDir := func() directory.Model {
		c := config.Global()
		return directory.New(theme, mgr, client, c.UI.PageSize, c.Timeout())
	}
	newLogin := func() login.Model {
		return login.New(theme, mgr, config.Global().Timeout())
	}

	program := tea.NewProgram(newAppModel(mgr, newDir, newLogin), tea.WithAltScreen())

	// Reload config edits while the TUI is running.
	watcher, err := config.NewWatcher(func(*config.Config) {
		program.Send(configReloadedMsg{})
	})
	if err == nil {
		if werr := watcher.Watch(); werr == nil {
			defer watcher.Close()
		}
	}

	_, err = program.Run()
	return err
}
