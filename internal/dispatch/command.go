// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch provides the command system of the shell: the Command
// capability contract, the name-indexed registry with longest-prefix
// resolution, the execution protocol, and tab completion.
package dispatch

import (
	"sort"

	"github.com/jeranaias/sqlrun/internal/session"
)

// =============================================================================
// RESULT CODES
// =============================================================================

// Result is the exit status of a command execution. It carries no
// payload; user-facing messages are emitted as side effects by the
// command and by the dispatcher's interpretation step.
type Result int

const (
	// Success means the command executed without complaint.
	Success Result = iota

	// SyntaxError means the command could not parse its input; the
	// dispatcher responds by printing the command's synopsis.
	SyntaxError

	// ExecFailed means the command failed for a non-syntax reason.
	ExecFailed
)

// String returns a human-readable result name.
func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case SyntaxError:
		return "syntax error"
	case ExecFailed:
		return "execution failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// CANDIDATE SEQUENCES
// =============================================================================

// Candidates is a finite, resumable sequence of completion strings.
// Each pull returns the next candidate; ok is false when exhausted.
// A nil Candidates means "no completion available".
type Candidates func() (string, bool)

// CandidatesFrom returns a sequence over the given values in order.
func CandidatesFrom(values ...string) Candidates {
	i := 0
	return func() (string, bool) {
		if i >= len(values) {
			return "", false
		}
		v := values[i]
		i++
		return v, true
	}
}

// PrefixCandidates yields the values that start with prefix, in lexical
// order. The comparison is case-sensitive; callers lowercase as needed.
func PrefixCandidates(prefix string, values []string) Candidates {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)

	i := sort.SearchStrings(sorted, prefix)
	return func() (string, bool) {
		for i < len(sorted) {
			v := sorted[i]
			i++
			if len(v) >= len(prefix) && v[:len(prefix)] == prefix {
				return v, true
			}
			return "", false
		}
		return "", false
	}
}

// =============================================================================
// COMMAND CONTRACT
// =============================================================================

// Command is the capability contract every registered command satisfies.
// The Dispatcher and the help command operate purely on this interface.
type Command interface {
	// CommandList returns every name this command handles. The empty
	// string is the universal wildcard, matching any input no other
	// command claims.
	CommandList() []string

	// ParticipatesInCompletion reports whether the command's names show
	// up in top-level command completion. The SQL verbs return false so
	// they do not clobber the command overview on a bare TAB.
	ParticipatesInCompletion() bool

	// RequiresSession reports whether executing under the given name needs
	// an active session. When it does and none exists, the dispatcher
	// refuses the execution before calling Execute.
	RequiresSession(name string) bool

	// Execute runs the command. name is the resolved (lower-cased)
	// command name, params the remaining input after it. The statement's
	// trailing delimiter has already been stripped.
	Execute(s *session.Session, name, params string) Result

	// Complete returns candidates for the last word of a partial line
	// addressed at this command, or nil. partialLine is the whole
	// buffered command up to the cursor, lastWord included.
	Complete(d *Dispatcher, partialLine, lastWord string) Candidates

	// IsComplete decides whether the buffered text, which ends with a
	// tentative delimiter (newline or semicolon), is a whole statement.
	// Returning false keeps the assembler accumulating.
	IsComplete(buffered string) bool

	// Synopsis returns a one-line usage string for the given name, or
	// "" when none exists.
	Synopsis(name string) string

	// ShortDescription returns the one-line purpose shown in the help
	// overview, or "".
	ShortDescription() string

	// LongDescription returns detailed help for the given name, or "".
	LongDescription(name string) string

	// Shutdown releases command-held resources at shell exit.
	Shutdown()
}

// =============================================================================
// BASE COMMAND
// =============================================================================

// BaseCommand supplies the defaults most commands want: participates in
// completion, requires a session, always complete on a delimiter, no
// custom completion, no documentation. Embed it and override what the
// command actually needs.
type BaseCommand struct{}

func (BaseCommand) ParticipatesInCompletion() bool { return true }

func (BaseCommand) RequiresSession(string) bool { return true }

func (BaseCommand) Complete(*Dispatcher, string, string) Candidates { return nil }

func (BaseCommand) IsComplete(string) bool { return true }

func (BaseCommand) Synopsis(string) string { return "" }

func (BaseCommand) ShortDescription() string { return "" }

func (BaseCommand) LongDescription(string) string { return "" }

func (BaseCommand) Shutdown() {}
