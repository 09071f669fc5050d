// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"strings"
)

// =============================================================================
// COMPLETION
// =============================================================================

// VariableSource supplies completions for the variable domain. The
// partial word always starts with "$" (possibly "${"); returned
// candidates carry the same sigil form so they can replace the word
// in place.
type VariableSource interface {
	CompleteVariable(partial string) Candidates
}

// CompletionEngine produces tab completions one candidate per call, the
// way incremental readline callbacks consume them. A call with state 0
// classifies the word into exactly one domain and builds a fresh
// sequence; calls with state > 0 resume it.
//
// The three domains, checked in order:
//
//  1. variable: the word ends in a "$NAME" or "${NAME" reference, and
//     a VariableSource is set
//  2. top-level command: the partial line is just the word itself
//  3. delegated: the already-typed command's own Complete method
type CompletionEngine struct {
	disp *Dispatcher
	vars VariableSource

	// PartialLine returns the buffered command up to the cursor,
	// including the word being completed. The readline layer owns
	// the buffer, so the engine asks.
	PartialLine func() string

	// HasSession gates session-requiring commands out of the
	// top-level domain when nothing is connected.
	HasSession func() bool

	seq Candidates
}

// NewCompletionEngine builds an engine over the dispatcher's registry.
// The vars source may be nil, disabling the variable domain.
func NewCompletionEngine(d *Dispatcher, vars VariableSource) *CompletionEngine {
	return &CompletionEngine{
		disp:        d,
		vars:        vars,
		PartialLine: func() string { return "" },
		HasSession:  func() bool { return false },
	}
}

// Complete returns the next candidate for text, or ok=false when the
// domain's sequence is exhausted. state 0 restarts classification.
func (e *CompletionEngine) Complete(text string, state int) (string, bool) {
	if state == 0 {
		e.seq = e.classify(text)
	}
	if e.seq == nil {
		return "", false
	}
	return e.seq()
}

func (e *CompletionEngine) classify(text string) Candidates {
	if head, word, ok := splitVariableWord(text); ok && e.vars != nil {
		return prefixed(head, e.vars.CompleteVariable(word))
	}

	partial := strings.TrimSpace(e.PartialLine())
	if partial == "" || partial == text {
		return e.commandCandidates(text)
	}
	return e.delegate(partial, text)
}

// splitVariableWord scans backward from the end of the word over
// identifier characters looking for a "$" or "${" sentinel. On a hit
// it returns the literal text before the sentinel and the variable
// reference from the sentinel on. "x=$FO" splits into "x=" and "$FO".
func splitVariableWord(text string) (head, word string, ok bool) {
	pos := len(text) - 1
	for pos > 0 && text[pos] != '$' && isIdentByte(text[pos]) {
		pos--
	}
	switch {
	case pos >= 0 && text[pos] == '$':
	case pos >= 1 && text[pos] == '{' && text[pos-1] == '$':
		pos--
	default:
		return "", "", false
	}
	return text[:pos], text[pos:], true
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

// prefixed re-prefixes every candidate with the text that preceded the
// variable sentinel, so the candidate can replace the whole word.
func prefixed(head string, next Candidates) Candidates {
	if head == "" || next == nil {
		return next
	}
	return func() (string, bool) {
		cand, ok := next()
		if !ok {
			return "", false
		}
		return head + cand, true
	}
}

// commandCandidates walks the sorted name index from text and yields
// every matching name a user could actually run: the wildcard binding
// is unnameable, non-participating commands opted out, and commands
// needing a session are hidden while disconnected.
func (e *CompletionEngine) commandCandidates(text string) Candidates {
	lowered := strings.ToLower(text)
	connected := e.HasSession()
	next := e.disp.NamesFrom(lowered)
	return func() (string, bool) {
		for {
			name, ok := next()
			if !ok {
				return "", false
			}
			if !strings.HasPrefix(name, lowered) {
				return "", false
			}
			if name == "" {
				continue
			}
			c := e.disp.byName[name]
			if !c.ParticipatesInCompletion() {
				continue
			}
			if !connected && c.RequiresSession(name) {
				continue
			}
			return name, true
		}
	}
}

// delegate hands completion to the command the line already names.
// The participation flag governs only the top-level name domain; a
// command that opted out of that still completes its own arguments.
func (e *CompletionEngine) delegate(partial, text string) Candidates {
	c := e.disp.ResolveCommand(partial)
	if c == nil {
		return nil
	}
	return c.Complete(e.disp, partial, text)
}
