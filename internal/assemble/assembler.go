// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assemble

// =============================================================================
// SCAN STATE
// =============================================================================

// scanState tracks the quote/comment sub-state of the boundary scanner.
// It may span multiple Append calls within one assembly context.
type scanState int

const (
	stateNone scanState = iota
	stateSingleQuote
	stateSingleQuoteEscape
	stateDoubleQuote
	stateDoubleQuoteEscape
	statePreLineComment  // a '-' was seen, possibly starting "--"
	statePreBlockComment // a '/' was seen, possibly starting "/*"
	stateLineComment
	stateBlockComment
	statePreEndBlockComment // a '*' inside a block comment, possibly ending it
)

// =============================================================================
// ASSEMBLY CONTEXT
// =============================================================================

// frame is one assembly context: the buffered statement being built, the
// input not yet scanned, and the scanner sub-state. Contexts are stacked
// by Push/Pop so a command can drive a nested input stream without
// disturbing the outer partial statement.
type frame struct {
	input    []rune // appended text not yet scanned
	command  []rune // scanned text of the current candidate
	state    scanState
	complete bool // a delimiter-terminated candidate sits in command
}

func (f *frame) reset() {
	f.input = f.input[:0]
	f.command = f.command[:0]
	f.state = stateNone
	f.complete = false
}

// =============================================================================
// ASSEMBLER
// =============================================================================

// Assembler accepts appended raw text and yields statement candidates
// terminated by ';' or '\n' outside quotes and comments. Candidates
// include the terminating delimiter, so the addressed command's
// completeness check can distinguish "select 1;" from "select 1\n".
type Assembler struct {
	current *frame
	stack   []*frame

	// RemoveComments drops comment text from assembled statements
	// instead of passing it through.
	RemoveComments bool
}

// New creates an assembler with a single empty context.
func New() *Assembler {
	return &Assembler{current: &frame{}}
}

// Append adds text to the current context and rescans for a statement
// boundary. Quote and comment state carries over from previous appends.
func (a *Assembler) Append(text string) {
	a.current.input = append(a.current.input, []rune(text)...)
	a.scan()
}

// HasNext reports whether a delimiter-terminated candidate is available.
func (a *Assembler) HasNext() bool {
	return a.current.complete
}

// Next returns the current candidate, terminating delimiter included.
// The candidate stays buffered until Consumed or Cont is called.
func (a *Assembler) Next() string {
	if !a.current.complete {
		return ""
	}
	return string(a.current.command)
}

// Consumed discards the previously returned candidate permanently and
// resumes scanning any remaining appended text.
func (a *Assembler) Consumed() {
	f := a.current
	f.command = f.command[:0]
	f.complete = false
	a.scan()
}

// Cont keeps the previously returned candidate buffered, demoting its
// trailing delimiter to ordinary content, and resumes scanning. Used
// when the addressed command judged the candidate incomplete.
func (a *Assembler) Cont() {
	a.current.complete = false
	a.scan()
}

// Discard abandons all buffered, not-yet-consumed text in the current
// context and resets its scan state. Used on interrupt.
func (a *Assembler) Discard() {
	a.current.reset()
}

// Push enters a fresh, empty assembly context. The enclosing context is
// preserved untouched until the matching Pop.
func (a *Assembler) Push() {
	a.stack = append(a.stack, a.current)
	a.current = &frame{}
}

// Pop leaves the current context and restores the enclosing one exactly
// as it was before Push. Popping the last context resets it instead.
func (a *Assembler) Pop() {
	if len(a.stack) == 0 {
		a.current.reset()
		return
	}
	a.current = a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
}

// Depth returns the number of stacked (inactive) contexts.
func (a *Assembler) Depth() int {
	return len(a.stack)
}

// =============================================================================
// BOUNDARY SCAN
// =============================================================================

// scan consumes input runes into the command buffer until a boundary is
// found or input runs out. It stops at the first boundary so HasNext can
// be answered without scanning past the candidate.
func (a *Assembler) scan() {
	f := a.current
	for !f.complete && len(f.input) > 0 {
		r := f.input[0]
		f.input = f.input[1:]
		a.step(f, r)
	}
}

// emit appends a rune to the candidate buffer unless it belongs to a
// comment and comment removal is active.
func (a *Assembler) emit(f *frame, r rune, inComment bool) {
	if inComment && a.RemoveComments {
		return
	}
	f.command = append(f.command, r)
}

// step feeds one rune through the quote/comment state machine.
func (a *Assembler) step(f *frame, r rune) {
	switch f.state {
	case stateNone:
		switch r {
		case '\'':
			f.state = stateSingleQuote
			a.emit(f, r, false)
		case '"':
			f.state = stateDoubleQuote
			a.emit(f, r, false)
		case '-':
			f.state = statePreLineComment
		case '/':
			f.state = statePreBlockComment
		case ';', '\n':
			a.emit(f, r, false)
			f.complete = true
		default:
			a.emit(f, r, false)
		}

	case stateSingleQuote:
		switch r {
		case '\\':
			f.state = stateSingleQuoteEscape
		case '\'':
			f.state = stateNone
		}
		a.emit(f, r, false)

	case stateSingleQuoteEscape:
		f.state = stateSingleQuote
		a.emit(f, r, false)

	case stateDoubleQuote:
		switch r {
		case '\\':
			f.state = stateDoubleQuoteEscape
		case '"':
			f.state = stateNone
		}
		a.emit(f, r, false)

	case stateDoubleQuoteEscape:
		f.state = stateDoubleQuote
		a.emit(f, r, false)

	case statePreLineComment:
		if r == '-' {
			f.state = stateLineComment
			a.emit(f, '-', true)
			a.emit(f, '-', true)
			return
		}
		// the held '-' was ordinary content after all
		f.state = stateNone
		a.emit(f, '-', false)
		a.step(f, r)

	case statePreBlockComment:
		if r == '*' {
			f.state = stateBlockComment
			a.emit(f, '/', true)
			a.emit(f, '*', true)
			return
		}
		f.state = stateNone
		a.emit(f, '/', false)
		a.step(f, r)

	case stateLineComment:
		if r == '\n' {
			// the newline ends the comment and still acts as a
			// potential statement boundary
			f.state = stateNone
			a.emit(f, r, false)
			f.complete = true
			return
		}
		a.emit(f, r, true)

	case stateBlockComment:
		if r == '*' {
			f.state = statePreEndBlockComment
			return
		}
		a.emit(f, r, true)

	case statePreEndBlockComment:
		if r == '/' {
			f.state = stateNone
			a.emit(f, '*', true)
			a.emit(f, '/', true)
			return
		}
		a.emit(f, '*', true)
		if r != '*' {
			f.state = stateBlockComment
			a.emit(f, r, true)
		}
	}
}
