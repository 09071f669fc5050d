// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/peterh/liner"

	"github.com/jeranaias/sqlrun/internal/assemble"
	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
)

// =============================================================================
// LINE RESULTS
// =============================================================================

// LineResult classifies what happened to one submitted input line.
type LineResult int

const (
	// LineEmpty means nothing was executed and nothing is pending.
	LineEmpty LineResult = iota

	// LineIncomplete means input is buffered awaiting continuation.
	LineIncomplete

	// LineExecuted means at least one statement was dispatched.
	LineExecuted
)

// VariableProvider supplies the variables substituted into statements
// before dispatch.
type VariableProvider interface {
	Variables() map[string]string
}

// =============================================================================
// SHELL
// =============================================================================

// Shell is the read-assemble-dispatch loop. It owns the prompt state and
// the pending-statement history entry; statement assembly and command
// resolution are delegated.
type Shell struct {
	disp     *dispatch.Dispatcher
	asm      *assemble.Assembler
	sessions *session.Manager
	printer  *styles.Printer
	vars     VariableProvider

	console      *Console
	input        *bufio.Reader
	fromTerminal bool

	prompt      string
	emptyPrompt string
	terminated  bool

	// pending accumulates the lines of a multi-line statement so it
	// can be stored in history as one entry once complete.
	pending strings.Builder
}

// New creates a shell reading from the console when one is set, or from
// the input reader otherwise.
func New(disp *dispatch.Dispatcher, asm *assemble.Assembler, sessions *session.Manager, printer *styles.Printer) *Shell {
	return &Shell{
		disp:     disp,
		asm:      asm,
		sessions: sessions,
		printer:  printer,
	}
}

// SetConsole attaches an interactive console. The shell then prompts,
// honors CTRL-C to discard the pending statement, and records history.
func (s *Shell) SetConsole(c *Console) {
	s.console = c
	s.fromTerminal = true
}

// SetInput attaches a non-interactive source such as a piped script.
func (s *Shell) SetInput(r io.Reader) {
	s.input = bufio.NewReader(r)
	s.fromTerminal = false
}

// SetVariableProvider installs the source of substitution variables.
func (s *Shell) SetVariableProvider(v VariableProvider) { s.vars = v }

// SetPrompt sets the primary prompt. The continuation prompt is blank
// padding of the same display width so continuation lines align.
func (s *Shell) SetPrompt(p string) {
	s.prompt = p
	s.emptyPrompt = strings.Repeat(" ", runewidth.StringWidth(p))
}

// Prompt returns the primary prompt.
func (s *Shell) Prompt() string { return s.prompt }

// Terminate makes Run return after the current line.
func (s *Shell) Terminate() { s.terminated = true }

// Terminated reports whether Terminate was called.
func (s *Shell) Terminated() bool { return s.terminated }

// Dispatcher returns the command dispatcher.
func (s *Shell) Dispatcher() *dispatch.Dispatcher { return s.disp }

// Sessions returns the session manager.
func (s *Shell) Sessions() *session.Manager { return s.sessions }

// Printer returns the output printer.
func (s *Shell) Printer() *styles.Printer { return s.printer }

// PushBuffer saves the pending statement state so a nested input stream
// (for example a sourced file) can be processed in a clean context.
func (s *Shell) PushBuffer() { s.asm.Push() }

// PopBuffer restores the statement state saved by PushBuffer.
func (s *Shell) PopBuffer() { s.asm.Pop() }

// PendingLine returns the buffered lines of the statement under
// construction. Completion callbacks combine it with the line being
// edited to reconstruct the full partial input.
func (s *Shell) PendingLine() string { return s.pending.String() }

// =============================================================================
// LINE EXECUTION
// =============================================================================

// ExecuteLine feeds one input line through assembly, variable
// substitution and dispatch. Multiple complete statements on the line
// are each dispatched; a trailing incomplete statement stays buffered.
func (s *Shell) ExecuteLine(line string) LineResult {
	// oracle-style remark: only at the very start of the line
	if len(line) >= 3 && strings.EqualFold(line[:3], "rem") &&
		(len(line) == 3 || unicode.IsSpace(rune(line[3]))) {
		return LineEmpty
	}

	result := LineIncomplete
	s.asm.Append(line + "\n")
	for s.asm.HasNext() {
		stmt := s.asm.Next()
		stmt = Substitute(stmt, s.variables(), s.printer.Infof)
		c := s.disp.ResolveCommand(stmt)
		switch {
		case c == nil:
			s.asm.Consumed()
			// a delimiter-only trailer must not shadow a real
			// execution earlier on the same line
			if result != LineExecuted {
				result = LineEmpty
			}
		case !c.IsComplete(stmt):
			s.asm.Cont()
			result = LineIncomplete
		default:
			s.disp.Execute(s.sessions.Current(), stmt)
			s.asm.Consumed()
			result = LineExecuted
		}
	}
	return result
}

func (s *Shell) variables() map[string]string {
	if s.vars == nil {
		return nil
	}
	return s.vars.Variables()
}

// =============================================================================
// READ LOOP
// =============================================================================

// Run reads lines until EOF or Terminate. EOF with a connected session
// disconnects it first; EOF with none exits the loop.
func (s *Shell) Run() error {
	displayPrompt := s.prompt
	for !s.terminated {
		line, err := s.readLine(displayPrompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			// CTRL-C: throw away the statement under construction
			s.pending.Reset()
			s.asm.Discard()
			s.printer.Infof("...discarded current command line")
			displayPrompt = s.prompt
			continue
		case errors.Is(err, io.EOF):
			if s.sessions.Current() != nil {
				s.disp.Execute(s.sessions.Current(), "disconnect")
				displayPrompt = s.prompt
				continue
			}
			return nil
		case err != nil:
			return err
		}

		if !s.fromTerminal && line == "" {
			continue
		}

		// a lone ';' finishing a statement would add an ugly blank
		// continuation to the history entry
		if s.pending.Len() > 0 && strings.TrimSpace(line) != ";" {
			s.pending.WriteString("\n")
		}
		s.pending.WriteString(line)

		if s.ExecuteLine(line) == LineIncomplete {
			displayPrompt = s.emptyPrompt
		} else {
			displayPrompt = s.prompt
			s.storeHistory()
		}
	}
	return nil
}

func (s *Shell) readLine(prompt string) (string, error) {
	if s.fromTerminal {
		return s.console.ReadLine(prompt)
	}
	line, err := s.input.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) storeHistory() {
	if s.console != nil {
		s.console.Remember(s.pending.String())
	}
	s.pending.Reset()
}

// =============================================================================
// COMPLETION ADAPTER
// =============================================================================

// WordCompleter adapts the completion engine to the line editor's
// callback shape: split the edit buffer around the word at the cursor,
// drain the engine's candidate sequence for it.
func (s *Shell) WordCompleter(e *dispatch.CompletionEngine) liner.WordCompleter {
	return func(line string, pos int) (string, []string, string) {
		start := pos
		for start > 0 && line[start-1] != ' ' && line[start-1] != '\t' {
			start--
		}
		head := line[:start]
		word := line[start:pos]
		tail := line[pos:]

		// the engine sees the full buffered command up to the cursor,
		// word included
		partial := s.PendingLine() + line[:pos]
		e.PartialLine = func() string { return partial }

		var candidates []string
		for state := 0; ; state++ {
			c, ok := e.Complete(word, state)
			if !ok {
				break
			}
			candidates = append(candidates, c)
		}
		return head, candidates, tail
	}
}
