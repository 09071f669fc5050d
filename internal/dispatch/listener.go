// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import "github.com/jeranaias/sqlrun/internal/session"

// =============================================================================
// EXECUTION LISTENERS
// =============================================================================

// ExecutionListener is notified around every command execution.
// Notification is synchronous; a stalling listener stalls the shell loop.
type ExecutionListener interface {
	// BeforeExecution is called with the original raw input, before the
	// command runs.
	BeforeExecution(s *session.Session, raw string)

	// AfterExecution is called after the command ran, with the result
	// code. It runs even when the command panicked; the result is then
	// ExecFailed.
	AfterExecution(s *session.Session, raw string, result Result)
}

// AddListener registers an execution listener. Adding the same listener
// twice is a no-op.
func (d *Dispatcher) AddListener(l ExecutionListener) {
	for _, have := range d.listeners {
		if have == l {
			return
		}
	}
	d.listeners = append(d.listeners, l)
}

// RemoveListener unregisters a listener, reporting whether it was found.
func (d *Dispatcher) RemoveListener(l ExecutionListener) bool {
	for i, have := range d.listeners {
		if have == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Dispatcher) informBefore(s *session.Session, raw string) {
	for _, l := range d.listeners {
		l.BeforeExecution(s, raw)
	}
}

func (d *Dispatcher) informAfter(s *session.Session, raw string, result Result) {
	for _, l := range d.listeners {
		l.AfterExecution(s, raw, result)
	}
}
