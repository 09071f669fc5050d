// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strconv"

	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/shell"
	"github.com/jeranaias/sqlrun/internal/ui/table"
)

// =============================================================================
// SESSIONS
// =============================================================================

// StatusCommand lists the open sessions.
type StatusCommand struct {
	dispatch.BaseCommand
	shell *shell.Shell
}

func NewStatusCommand(sh *shell.Shell) *StatusCommand {
	return &StatusCommand{shell: sh}
}

func (c *StatusCommand) CommandList() []string       { return []string{"sessions", "status"} }
func (c *StatusCommand) RequiresSession(string) bool { return false }

func (c *StatusCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	mgr := c.shell.Sessions()
	printer := c.shell.Printer()
	if mgr.Len() == 0 {
		printer.Infof("no sessions.")
		return dispatch.Success
	}

	current := mgr.Current()
	tbl := table.New("", "session", "url", "statements")
	tbl.RightAlign(3)
	for _, n := range mgr.Names() {
		sess := mgr.Get(n)
		marker := ""
		if sess == current {
			marker = "*"
		}
		tbl.AddRow(marker, sess.Name(), sess.URL(), strconv.Itoa(sess.StatementCount))
	}
	tbl.Render(printer.Out())
	return dispatch.Success
}

func (c *StatusCommand) Synopsis(name string) string { return name }

func (c *StatusCommand) ShortDescription() string {
	return "list open sessions, current one starred"
}
