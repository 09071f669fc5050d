// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
	"github.com/jeranaias/sqlrun/internal/ui/table"
)

// =============================================================================
// SET / UNSET
// =============================================================================

// lastCommandVar is maintained by the execution listener so scripts can
// refer to the most recent successful input.
const lastCommandVar = "_LAST_COMMAND"

// SetCommand owns the substitution variables. It doubles as the
// variable source for completion and as an execution listener keeping
// the special variables current.
type SetCommand struct {
	dispatch.BaseCommand
	printer *styles.Printer
	vars    map[string]string
}

func NewSetCommand(p *styles.Printer) *SetCommand {
	return &SetCommand{
		printer: p,
		vars:    make(map[string]string),
	}
}

func (c *SetCommand) CommandList() []string       { return []string{"set", "unset"} }
func (c *SetCommand) RequiresSession(string) bool { return false }

// Variables implements shell.VariableProvider.
func (c *SetCommand) Variables() map[string]string { return c.vars }

// Set stores a variable programmatically, e.g. from the entry point.
func (c *SetCommand) Set(name, value string) { c.vars[name] = value }

func (c *SetCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	args := strings.TrimSpace(params)
	if name == "unset" {
		return c.unset(args)
	}
	if args == "" {
		c.list()
		return dispatch.Success
	}
	varName, value, found := strings.Cut(args, " ")
	if !found {
		return dispatch.SyntaxError
	}
	c.vars[varName] = stripQuotes(strings.TrimSpace(value))
	return dispatch.Success
}

func (c *SetCommand) unset(args string) dispatch.Result {
	names := strings.Fields(args)
	if len(names) == 0 {
		return dispatch.SyntaxError
	}
	result := dispatch.Success
	for _, name := range names {
		if _, known := c.vars[name]; !known {
			c.printer.Errorf("unknown variable '%s'", name)
			result = dispatch.ExecFailed
			continue
		}
		delete(c.vars, name)
	}
	return result
}

func (c *SetCommand) list() {
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := table.New("variable", "value")
	for _, name := range names {
		tbl.AddRow(name, c.vars[name])
	}
	tbl.Render(c.printer.Out())
}

// =============================================================================
// COMPLETION
// =============================================================================

// CompleteVariable implements dispatch.VariableSource. The partial word
// arrives with its sigil and candidates are returned the same way, so
// the line editor can substitute them in place.
func (c *SetCommand) CompleteVariable(partial string) dispatch.Candidates {
	braced := strings.HasPrefix(partial, "${")
	prefix := strings.TrimPrefix(partial, "$")
	prefix = strings.TrimPrefix(prefix, "{")

	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	next := dispatch.PrefixCandidates(prefix, names)
	return func() (string, bool) {
		name, ok := next()
		if !ok {
			return "", false
		}
		if braced {
			return "${" + name + "}", true
		}
		return "$" + name, true
	}
}

// Complete offers variable names as arguments to set and unset.
func (c *SetCommand) Complete(d *dispatch.Dispatcher, partialLine, lastWord string) dispatch.Candidates {
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	return dispatch.PrefixCandidates(lastWord, names)
}

// =============================================================================
// EXECUTION LISTENER
// =============================================================================

func (c *SetCommand) BeforeExecution(s *session.Session, raw string) {}

// AfterExecution records the last successfully executed input, skipping
// set/unset themselves so "set" cannot clobber what it reports.
func (c *SetCommand) AfterExecution(s *session.Session, raw string, result dispatch.Result) {
	if result != dispatch.Success {
		return
	}
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "set") || strings.HasPrefix(trimmed, "unset") {
		return
	}
	c.vars[lastCommandVar] = trimmed
}

// =============================================================================
// DOCS
// =============================================================================

func (c *SetCommand) Synopsis(name string) string {
	if name == "unset" {
		return "unset <varname> [<varname> ...]"
	}
	return "set [<varname> <value>]"
}

func (c *SetCommand) ShortDescription() string {
	return "set or list substitution variables"
}

func (c *SetCommand) LongDescription(name string) string {
	if name == "unset" {
		return "Removes one or more substitution variables."
	}
	return "Without arguments, lists all variables. With a name and a\n" +
		"value, defines a variable for $NAME and ${NAME} substitution.\n" +
		"Use $$ in a statement for a literal dollar sign."
}
