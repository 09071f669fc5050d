// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"io"
)

// =============================================================================
// PRINTER
// =============================================================================

// Printer is the single sink for user-facing output. Query results go to
// the result writer, diagnostics to the message writer; an optional spool
// writer receives a copy of everything.
type Printer struct {
	out   io.Writer
	msg   io.Writer
	spool io.WriteCloser
}

// NewPrinter creates a printer writing results to out and messages to msg.
func NewPrinter(out, msg io.Writer) *Printer {
	return &Printer{out: out, msg: msg}
}

// Out returns the result writer, spool-teed when spooling is active.
func (p *Printer) Out() io.Writer {
	if p.spool != nil {
		return io.MultiWriter(p.out, p.spool)
	}
	return p.out
}

// Print writes a result line.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.Out(), a...)
	fmt.Fprintln(p.Out())
}

// Printf writes formatted result output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.Out(), format, a...)
}

// Errorf writes a styled error message.
func (p *Printer) Errorf(format string, a ...any) {
	fmt.Fprintf(p.msgWriter(), "%s %s\n", ErrorLabel.Render("[error]"), fmt.Sprintf(format, a...))
}

// Warnf writes a styled warning message.
func (p *Printer) Warnf(format string, a ...any) {
	fmt.Fprintf(p.msgWriter(), "%s %s\n", WarnLabel.Render("[warn]"), fmt.Sprintf(format, a...))
}

// Infof writes a dimmed informational message.
func (p *Printer) Infof(format string, a ...any) {
	fmt.Fprintf(p.msgWriter(), "%s\n", Info.Render(fmt.Sprintf(format, a...)))
}

func (p *Printer) msgWriter() io.Writer {
	if p.spool != nil {
		return io.MultiWriter(p.msg, p.spool)
	}
	return p.msg
}

// =============================================================================
// SPOOLING
// =============================================================================

// StartSpool tees all subsequent output into w until StopSpool.
func (p *Printer) StartSpool(w io.WriteCloser) {
	if p.spool != nil {
		p.spool.Close()
	}
	p.spool = w
}

// StopSpool stops spooling and closes the spool writer.
func (p *Printer) StopSpool() error {
	if p.spool == nil {
		return nil
	}
	err := p.spool.Close()
	p.spool = nil
	return err
}

// Spooling reports whether a spool writer is active.
func (p *Printer) Spooling() bool {
	return p.spool != nil
}
