// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVars struct {
	names []string
}

func (v *fakeVars) CompleteVariable(partial string) Candidates {
	sigil, stem := "$", partial[1:]
	if strings.HasPrefix(stem, "{") {
		sigil, stem = "${", stem[1:]
	}
	next := PrefixCandidates(stem, v.names)
	return func() (string, bool) {
		name, ok := next()
		if !ok {
			return "", false
		}
		return sigil + name, true
	}
}

// completing delegates argument completion to a fixed list.
type completing struct {
	fakeCommand
	args []string

	gotPartial string
	gotWord    string
}

func (c *completing) Complete(d *Dispatcher, partialLine, lastWord string) Candidates {
	c.gotPartial = partialLine
	c.gotWord = lastWord
	return PrefixCandidates(lastWord, c.args)
}

// drain pulls the whole sequence through the (text, state) protocol.
func drain(e *CompletionEngine, text string) []string {
	var out []string
	for state := 0; ; state++ {
		cand, ok := e.Complete(text, state)
		if !ok {
			return out
		}
		out = append(out, cand)
	}
}

func newTestEngine(t *testing.T, vars VariableSource, cmds ...Command) (*CompletionEngine, *Dispatcher) {
	t.Helper()
	var msg bytes.Buffer
	d := New(newTestPrinter(&msg))
	for _, c := range cmds {
		require.NoError(t, d.Register(c))
	}
	return NewCompletionEngine(d, vars), d
}

func TestCompleteVariableDomain(t *testing.T) {
	vars := &fakeVars{names: []string{"FOOBAR", "FOO", "BAR"}}
	e, _ := newTestEngine(t, vars,
		&fakeCommand{names: []string{"$weird"}, needsSession: false})

	// variable domain is exclusive: the bound "$weird" name never shows
	assert.Equal(t, []string{"$FOO", "$FOOBAR"}, drain(e, "$FO"))
	assert.Equal(t, []string{"$BAR", "$FOO", "$FOOBAR"}, drain(e, "$"))
}

func TestCompleteVariableDomainPrefixedToken(t *testing.T) {
	vars := &fakeVars{names: []string{"FOOBAR", "FOO", "NAME"}}
	e, _ := newTestEngine(t, vars, &fakeCommand{names: []string{"echo"}, needsSession: false})

	// the sentinel is found by scanning back over identifier characters,
	// and candidates carry the text before it
	assert.Equal(t, []string{"x=$FOO", "x=$FOOBAR"}, drain(e, "x=$FO"))
	assert.Equal(t, []string{"(${NAME"}, drain(e, "(${NA"))
	assert.Equal(t, []string{"a/$FOO", "a/$FOOBAR", "a/$NAME"}, drain(e, "a/$"))
}

func TestSplitVariableWord(t *testing.T) {
	tests := []struct {
		in, head, word string
		ok             bool
	}{
		{"$FO", "", "$FO", true},
		{"$", "", "$", true},
		{"${NA", "", "${NA", true},
		{"x=$FO", "x=", "$FO", true},
		{"(${NA", "(", "${NA", true},
		{"foo$", "foo", "$", true},
		{"plain", "", "", false},
		{"", "", "", false},
		{"{NA", "", "", false},
	}
	for _, tc := range tests {
		head, word, ok := splitVariableWord(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.head, head, tc.in)
		assert.Equal(t, tc.word, word, tc.in)
	}
}

func TestCompleteVariableDomainDisabledWithoutSource(t *testing.T) {
	e, _ := newTestEngine(t, nil, &fakeCommand{names: []string{"help"}, needsSession: false})

	assert.Empty(t, drain(e, "$FO"))
}

func TestCompleteCommandDomainLexicalOrder(t *testing.T) {
	e, _ := newTestEngine(t, nil,
		&fakeCommand{names: []string{"history"}, needsSession: false},
		&fakeCommand{names: []string{"help"}, needsSession: false},
		&fakeCommand{names: []string{"exit"}, needsSession: false})

	assert.Equal(t, []string{"help", "history"}, drain(e, "h"))
	assert.Equal(t, []string{"exit", "help", "history"}, drain(e, ""))
	assert.Empty(t, drain(e, "z"))
}

func TestCompleteCommandDomainFirstWord(t *testing.T) {
	e, _ := newTestEngine(t, nil,
		&fakeCommand{names: []string{"help"}, needsSession: false},
		&fakeCommand{names: []string{"history"}, needsSession: false})
	e.PartialLine = func() string { return "he" }

	// the partial line is exactly the word being completed, so this is
	// still first-word command completion, not delegation
	assert.Equal(t, []string{"help"}, drain(e, "he"))
}

func TestCompleteCommandDomainCaseInsensitive(t *testing.T) {
	e, _ := newTestEngine(t, nil,
		&fakeCommand{names: []string{"help"}, needsSession: false})

	assert.Equal(t, []string{"help"}, drain(e, "HE"))
}

func TestCompleteCommandDomainHidesWildcard(t *testing.T) {
	e, _ := newTestEngine(t, nil,
		&fakeCommand{names: []string{""}, needsSession: false},
		&fakeCommand{names: []string{"help"}, needsSession: false})

	assert.Equal(t, []string{"help"}, drain(e, ""))
}

func TestCompleteCommandDomainHidesNonParticipants(t *testing.T) {
	quiet := &nonParticipant{fakeCommand{names: []string{"hidden"}}}
	e, _ := newTestEngine(t, nil, quiet,
		&fakeCommand{names: []string{"help"}, needsSession: false})

	assert.Equal(t, []string{"help"}, drain(e, "h"))
}

type nonParticipant struct {
	fakeCommand
}

func (*nonParticipant) ParticipatesInCompletion() bool { return false }

func TestCompleteCommandDomainSessionGate(t *testing.T) {
	e, _ := newTestEngine(t, nil,
		&fakeCommand{names: []string{"tables"}, needsSession: true},
		&fakeCommand{names: []string{"help"}, needsSession: false})

	assert.Equal(t, []string{"help"}, drain(e, ""))

	e.HasSession = func() bool { return true }
	assert.Equal(t, []string{"help", "tables"}, drain(e, ""))
}

func TestCompleteDelegatesToCommand(t *testing.T) {
	c := &completing{
		fakeCommand: fakeCommand{names: []string{"connect"}},
		args:        []string{"testdb", "proddb"},
	}
	e, _ := newTestEngine(t, nil, c)
	e.PartialLine = func() string { return "connect te" }

	assert.Equal(t, []string{"testdb"}, drain(e, "te"))
	assert.Equal(t, "connect te", c.gotPartial)
	assert.Equal(t, "te", c.gotWord)
}

// quietCompleting opts out of top-level name completion but still
// completes its own arguments.
type quietCompleting struct {
	completing
}

func (*quietCompleting) ParticipatesInCompletion() bool { return false }

func TestCompleteDelegationIgnoresParticipation(t *testing.T) {
	quiet := &quietCompleting{completing{
		fakeCommand: fakeCommand{names: []string{"select"}},
		args:        []string{"trades", "tickets"},
	}}
	e, _ := newTestEngine(t, nil, quiet)
	e.PartialLine = func() string { return "select * from t" }

	// the participation flag hides the name from the top-level domain
	// only; argument completion still reaches the command
	assert.Equal(t, []string{"tickets", "trades"}, drain(e, "t"))
}

func TestCompleteDelegationUnknownCommand(t *testing.T) {
	e, _ := newTestEngine(t, nil, &fakeCommand{names: []string{"help"}, needsSession: false})
	e.PartialLine = func() string { return "bogus x" }

	assert.Empty(t, drain(e, "x"))
}

func TestCompleteStateZeroRestartsSequence(t *testing.T) {
	e, _ := newTestEngine(t, nil,
		&fakeCommand{names: []string{"help"}, needsSession: false},
		&fakeCommand{names: []string{"history"}, needsSession: false})

	first, ok := e.Complete("h", 0)
	require.True(t, ok)
	assert.Equal(t, "help", first)

	// a fresh word restarts classification mid-sequence
	again, ok := e.Complete("hi", 0)
	require.True(t, ok)
	assert.Equal(t, "history", again)
}

func TestPrefixCandidates(t *testing.T) {
	next := PrefixCandidates("ab", []string{"abc", "xyz", "abd"})
	got := []string{}
	for {
		v, ok := next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []string{"abc", "abd"}, got)
}
