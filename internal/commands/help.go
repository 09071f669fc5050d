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
// HELP
// =============================================================================

// HelpCommand lists commands and shows per-command detail.
type HelpCommand struct {
	dispatch.BaseCommand
	disp    *dispatch.Dispatcher
	printer *styles.Printer
}

func NewHelpCommand(d *dispatch.Dispatcher, p *styles.Printer) *HelpCommand {
	return &HelpCommand{disp: d, printer: p}
}

func (c *HelpCommand) CommandList() []string       { return []string{"help", "?"} }
func (c *HelpCommand) RequiresSession(string) bool { return false }

func (c *HelpCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	topic := strings.TrimSpace(params)
	if topic == "" {
		c.listCommands()
		return dispatch.Success
	}

	target := c.disp.ResolveCommand(topic)
	if target == nil {
		c.printer.Errorf("unknown command: %s", topic)
		return dispatch.ExecFailed
	}
	resolved := c.disp.ResolveName(topic)
	long := target.LongDescription(resolved)
	if long == "" {
		if synopsis := target.Synopsis(resolved); synopsis != "" {
			c.printer.Print("usage: " + synopsis)
			return dispatch.Success
		}
		c.printer.Infof("no help available for '%s'.", topic)
		return dispatch.Success
	}
	if synopsis := target.Synopsis(resolved); synopsis != "" {
		c.printer.Print("usage: " + synopsis)
	}
	c.printer.Print(long)
	return dispatch.Success
}

// listCommands groups all bound names by their command so aliases of
// one command share a row.
func (c *HelpCommand) listCommands() {
	type entry struct {
		names []string
		short string
	}
	byCommand := make(map[dispatch.Command]*entry)
	var order []*entry
	for _, name := range c.disp.CommandNames() {
		if name == "" {
			continue
		}
		cmd := c.disp.ResolveCommand(name)
		e, seen := byCommand[cmd]
		if !seen {
			e = &entry{short: cmd.ShortDescription()}
			byCommand[cmd] = e
			order = append(order, e)
		}
		e.names = append(e.names, name)
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].names[0] < order[j].names[0]
	})

	tbl := table.New("command", "description")
	for _, e := range order {
		tbl.AddRow(strings.Join(e.names, " | "), e.short)
	}
	tbl.Render(c.printer.Out())
}

func (c *HelpCommand) Complete(d *dispatch.Dispatcher, partialLine, lastWord string) dispatch.Candidates {
	names := make([]string, 0)
	for _, n := range d.CommandNames() {
		if n != "" {
			names = append(names, n)
		}
	}
	return dispatch.PrefixCandidates(strings.ToLower(lastWord), names)
}

func (c *HelpCommand) Synopsis(name string) string { return name + " [command]" }

func (c *HelpCommand) ShortDescription() string {
	return "list commands or show detail for one"
}

func (c *HelpCommand) LongDescription(string) string {
	return "Without arguments, lists every command with a short\n" +
		"description. With a command name, shows its usage and this\n" +
		"kind of longer text."
}
