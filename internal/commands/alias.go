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
// ALIAS / UNALIAS
// =============================================================================

// AliasCommand manages user-defined shortcuts. Each alias name is bound
// in the dispatcher pointing back at this command, which expands the
// alias and re-dispatches the result.
type AliasCommand struct {
	dispatch.BaseCommand
	disp    *dispatch.Dispatcher
	printer *styles.Printer

	aliases   map[string]string
	expanding map[string]bool // recursion guard during re-dispatch
}

func NewAliasCommand(d *dispatch.Dispatcher, p *styles.Printer) *AliasCommand {
	return &AliasCommand{
		disp:      d,
		printer:   p,
		aliases:   make(map[string]string),
		expanding: make(map[string]bool),
	}
}

func (c *AliasCommand) CommandList() []string       { return []string{"alias", "unalias"} }
func (c *AliasCommand) RequiresSession(string) bool { return false }

func (c *AliasCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	switch name {
	case "alias":
		return c.define(strings.TrimSpace(params))
	case "unalias":
		return c.remove(strings.Fields(params))
	default:
		return c.expand(s, name, params)
	}
}

func (c *AliasCommand) define(args string) dispatch.Result {
	if args == "" {
		c.list()
		return dispatch.Success
	}
	name, value, found := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	if !found || value == "" {
		return dispatch.SyntaxError
	}
	// resolution works on lower-cased input
	name = strings.ToLower(name)
	if c.disp.HasCommand(name) {
		c.printer.Errorf("cannot alias '%s': a command of that name exists", name)
		return dispatch.ExecFailed
	}
	c.aliases[name] = value
	c.disp.RegisterAlias(name, c)
	return dispatch.Success
}

func (c *AliasCommand) remove(names []string) dispatch.Result {
	if len(names) == 0 {
		return dispatch.SyntaxError
	}
	result := dispatch.Success
	for _, name := range names {
		if _, known := c.aliases[name]; !known {
			c.printer.Errorf("unknown alias '%s'", name)
			result = dispatch.ExecFailed
			continue
		}
		delete(c.aliases, name)
		c.disp.UnregisterAlias(name)
	}
	return result
}

// expand substitutes the alias value and feeds the line back through
// the dispatcher. A self-referencing alias would loop forever without
// the guard.
func (c *AliasCommand) expand(s *session.Session, name, params string) dispatch.Result {
	value, known := c.aliases[name]
	if !known {
		return dispatch.ExecFailed
	}
	if c.expanding[name] {
		c.printer.Errorf("recursive alias '%s'", name)
		return dispatch.ExecFailed
	}
	c.expanding[name] = true
	defer delete(c.expanding, name)

	c.disp.Execute(s, value+params)
	return dispatch.Success
}

func (c *AliasCommand) list() {
	names := make([]string, 0, len(c.aliases))
	for name := range c.aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := table.New("alias", "expansion")
	for _, name := range names {
		tbl.AddRow(name, c.aliases[name])
	}
	tbl.Render(c.printer.Out())
}

// Aliases returns a copy of the current alias map, for persistence.
func (c *AliasCommand) Aliases() map[string]string {
	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

// Complete offers alias names to unalias; defining an alias has no
// completable argument.
func (c *AliasCommand) Complete(d *dispatch.Dispatcher, partialLine, lastWord string) dispatch.Candidates {
	if !strings.HasPrefix(strings.TrimSpace(partialLine), "unalias") {
		return nil
	}
	names := make([]string, 0, len(c.aliases))
	for name := range c.aliases {
		names = append(names, name)
	}
	return dispatch.PrefixCandidates(lastWord, names)
}

func (c *AliasCommand) Synopsis(name string) string {
	if name == "unalias" {
		return "unalias <name> [<name> ...]"
	}
	return "alias [<name> <command>]"
}

func (c *AliasCommand) ShortDescription() string {
	return "define or list command shortcuts"
}

func (c *AliasCommand) LongDescription(name string) string {
	if name == "unalias" {
		return "Removes one or more aliases."
	}
	return "Without arguments, lists all aliases. With a name and a\n" +
		"command, defines a shortcut: the alias name becomes a command\n" +
		"whose invocation runs the aliased text with any extra\n" +
		"arguments appended."
}
