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
// EXIT
// =============================================================================

// ExitCommand ends the read loop after the current line.
type ExitCommand struct {
	dispatch.BaseCommand
	shell *shell.Shell
}

func NewExitCommand(sh *shell.Shell) *ExitCommand {
	return &ExitCommand{shell: sh}
}

func (c *ExitCommand) CommandList() []string       { return []string{"exit", "quit"} }
func (c *ExitCommand) RequiresSession(string) bool { return false }

func (c *ExitCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	if strings.TrimSpace(params) != "" {
		return dispatch.SyntaxError
	}
	c.shell.Terminate()
	return dispatch.Success
}

func (c *ExitCommand) Synopsis(name string) string { return name }

func (c *ExitCommand) ShortDescription() string { return "leave the shell" }
