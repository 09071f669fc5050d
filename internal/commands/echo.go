// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
)

// =============================================================================
// ECHO
// =============================================================================

// EchoCommand prints its argument, useful for progress markers in
// loaded scripts.
type EchoCommand struct {
	dispatch.BaseCommand
	printer *styles.Printer
}

func NewEchoCommand(p *styles.Printer) *EchoCommand {
	return &EchoCommand{printer: p}
}

func (c *EchoCommand) CommandList() []string       { return []string{"echo", "prompt"} }
func (c *EchoCommand) RequiresSession(string) bool { return false }

func (c *EchoCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	c.printer.Print(stripQuotes(strings.TrimSpace(params)))
	return dispatch.Success
}

// stripQuotes removes one level of matching single or double quotes so
// scripts can echo text with significant leading whitespace.
func stripQuotes(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '\'' || first == '"') {
		return value[1 : len(value)-1]
	}
	return value
}

func (c *EchoCommand) Synopsis(name string) string { return name + " <whatever>" }

func (c *EchoCommand) ShortDescription() string { return "print argument" }
