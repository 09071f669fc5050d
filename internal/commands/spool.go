// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"strings"

	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
)

// =============================================================================
// SPOOL
// =============================================================================

// SpoolCommand tees all shell output into a file until "spool off".
type SpoolCommand struct {
	dispatch.BaseCommand
	printer *styles.Printer
}

func NewSpoolCommand(p *styles.Printer) *SpoolCommand {
	return &SpoolCommand{printer: p}
}

func (c *SpoolCommand) CommandList() []string       { return []string{"spool"} }
func (c *SpoolCommand) RequiresSession(string) bool { return false }

func (c *SpoolCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	arg := strings.TrimSpace(params)
	switch {
	case arg == "":
		if c.printer.Spooling() {
			c.printer.Infof("spooling is on.")
		} else {
			c.printer.Infof("spooling is off.")
		}
		return dispatch.Success

	case strings.EqualFold(arg, "off"):
		if !c.printer.Spooling() {
			c.printer.Errorf("no spool active")
			return dispatch.ExecFailed
		}
		if err := c.printer.StopSpool(); err != nil {
			c.printer.Errorf("closing spool: %v", err)
			return dispatch.ExecFailed
		}
		return dispatch.Success

	default:
		f, err := os.OpenFile(arg, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			c.printer.Errorf("cannot spool to %s: %v", arg, err)
			return dispatch.ExecFailed
		}
		c.printer.StartSpool(f)
		c.printer.Infof("spooling to %s", arg)
		return dispatch.Success
	}
}

// Shutdown closes a still-open spool file.
func (c *SpoolCommand) Shutdown() {
	c.printer.StopSpool()
}

func (c *SpoolCommand) Synopsis(string) string { return "spool <filename>|off" }

func (c *SpoolCommand) ShortDescription() string {
	return "copy output to a file"
}

func (c *SpoolCommand) LongDescription(string) string {
	return "Appends a copy of all output to the given file until\n" +
		"'spool off'. Without arguments, reports whether a spool is\n" +
		"active."
}
