// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/shell"
)

// =============================================================================
// CONNECT / DISCONNECT / SWITCH
// =============================================================================

// ConnectCommand opens, closes and switches database sessions, keeping
// the prompt in sync with the current one.
type ConnectCommand struct {
	dispatch.BaseCommand
	shell      *shell.Shell
	basePrompt string
}

func NewConnectCommand(sh *shell.Shell) *ConnectCommand {
	return &ConnectCommand{shell: sh, basePrompt: sh.Prompt()}
}

func (c *ConnectCommand) CommandList() []string {
	return []string{"connect", "disconnect", "switch"}
}

// connect must work while nothing is connected; the others act on the
// current session.
func (c *ConnectCommand) RequiresSession(name string) bool {
	return name != "connect"
}

func (c *ConnectCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	args := strings.Fields(params)
	switch name {
	case "connect":
		return c.connect(args)
	case "disconnect":
		if len(args) != 0 {
			return dispatch.SyntaxError
		}
		return c.disconnect(s)
	case "switch":
		if len(args) != 1 {
			return dispatch.SyntaxError
		}
		return c.switchTo(args[0])
	}
	return dispatch.SyntaxError
}

func (c *ConnectCommand) connect(args []string) dispatch.Result {
	if len(args) < 1 || len(args) > 2 {
		return dispatch.SyntaxError
	}
	url := args[0]
	sessionName := ""
	if len(args) == 2 {
		sessionName = args[1]
	}

	printer := c.shell.Printer()
	sess, err := session.Connect(sessionName, url)
	if err != nil {
		printer.Errorf("connect failed: %v", err)
		return dispatch.ExecFailed
	}
	if err := c.shell.Sessions().Add(sess); err != nil {
		sess.Close()
		printer.Errorf("%v", err)
		return dispatch.ExecFailed
	}
	printer.Infof("session '%s' connected to %s", sess.Name(), sess.URL())
	c.updatePrompt()
	return dispatch.Success
}

func (c *ConnectCommand) disconnect(s *session.Session) dispatch.Result {
	printer := c.shell.Printer()
	if err := s.Close(); err != nil {
		printer.Warnf("closing session '%s': %v", s.Name(), err)
	}
	if err := c.shell.Sessions().Remove(s.Name()); err != nil {
		printer.Errorf("%v", err)
		return dispatch.ExecFailed
	}
	printer.Infof("session '%s' closed.", s.Name())
	c.updatePrompt()
	return dispatch.Success
}

func (c *ConnectCommand) switchTo(name string) dispatch.Result {
	if err := c.shell.Sessions().SetCurrent(name); err != nil {
		c.shell.Printer().Errorf("%v", err)
		return dispatch.ExecFailed
	}
	c.updatePrompt()
	return dispatch.Success
}

func (c *ConnectCommand) updatePrompt() {
	if cur := c.shell.Sessions().Current(); cur != nil {
		c.shell.SetPrompt(cur.Name() + "> ")
		return
	}
	c.shell.SetPrompt(c.basePrompt)
}

// Complete offers open session names to switch.
func (c *ConnectCommand) Complete(d *dispatch.Dispatcher, partialLine, lastWord string) dispatch.Candidates {
	if !strings.HasPrefix(strings.TrimSpace(partialLine), "switch") {
		return nil
	}
	return dispatch.PrefixCandidates(lastWord, c.shell.Sessions().Names())
}

func (c *ConnectCommand) Synopsis(name string) string {
	switch name {
	case "connect":
		return "connect <database-url> [<session-name>]"
	case "switch":
		return "switch <session-name>"
	default:
		return "disconnect"
	}
}

func (c *ConnectCommand) ShortDescription() string {
	return "open, close or switch database sessions"
}

func (c *ConnectCommand) LongDescription(name string) string {
	switch name {
	case "connect":
		return "Opens a database session to the given URL. A file path\n" +
			"opens (and creates) that database file; ':memory:' opens a\n" +
			"private in-memory database. The session gets the given name\n" +
			"or a generated one, and becomes current."
	case "switch":
		return "Makes the named open session current."
	default:
		return "Closes the current session. With other sessions still\n" +
			"open, use switch to pick one of them afterwards."
	}
}
