// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sqlrun/internal/assemble"
	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
)

// lineCommand runs under fixed names and records every dispatch.
type lineCommand struct {
	dispatch.BaseCommand
	names    []string
	complete func(string) bool

	executed []string
}

func (c *lineCommand) CommandList() []string       { return c.names }
func (c *lineCommand) RequiresSession(string) bool { return false }

func (c *lineCommand) IsComplete(buffered string) bool {
	if c.complete == nil {
		return true
	}
	return c.complete(buffered)
}

func (c *lineCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	c.executed = append(c.executed, name+params)
	return dispatch.Success
}

func newTestShell(cmds ...dispatch.Command) *Shell {
	var msg bytes.Buffer
	printer := styles.NewPrinter(io.Discard, &msg)
	d := dispatch.New(printer)
	for _, c := range cmds {
		d.MustRegister(c)
	}
	sh := New(d, assemble.New(), session.NewManager(), printer)
	sh.SetPrompt("sql> ")
	return sh
}

func semicolonTerminated(buffered string) bool {
	return strings.HasSuffix(strings.TrimSpace(buffered), ";")
}

func TestExecuteLineSimpleCommand(t *testing.T) {
	c := &lineCommand{names: []string{"help"}}
	sh := newTestShell(c)

	assert.Equal(t, LineExecuted, sh.ExecuteLine("help"))
	assert.Equal(t, []string{"help"}, c.executed)
}

func TestExecuteLineEmptyInput(t *testing.T) {
	sh := newTestShell(&lineCommand{names: []string{"help"}})

	assert.Equal(t, LineEmpty, sh.ExecuteLine(""))
	assert.Equal(t, LineEmpty, sh.ExecuteLine("   "))
}

func TestExecuteLineRemark(t *testing.T) {
	c := &lineCommand{names: []string{""}}
	sh := newTestShell(c)

	assert.Equal(t, LineEmpty, sh.ExecuteLine("rem this is ignored"))
	assert.Equal(t, LineEmpty, sh.ExecuteLine("REM"))
	assert.Empty(t, c.executed)

	// not a remark: "rem" must stand alone at the line start
	assert.Equal(t, LineExecuted, sh.ExecuteLine("remove;"))
	assert.Len(t, c.executed, 1)
}

func TestExecuteLineIncompleteStatementSpansLines(t *testing.T) {
	c := &lineCommand{names: []string{""}, complete: semicolonTerminated}
	sh := newTestShell(c)

	require.Equal(t, LineIncomplete, sh.ExecuteLine("select *"))
	require.Equal(t, LineIncomplete, sh.ExecuteLine("from t"))
	require.Equal(t, LineExecuted, sh.ExecuteLine("where x = 1;"))

	require.Len(t, c.executed, 1)
	assert.Equal(t, "select *\nfrom t\nwhere x = 1", c.executed[0])
}

func TestExecuteLineMultipleStatements(t *testing.T) {
	c := &lineCommand{names: []string{"echo"}}
	sh := newTestShell(c)

	assert.Equal(t, LineExecuted, sh.ExecuteLine("echo one; echo two;"))
	assert.Equal(t, []string{"echo one", "echo two"}, c.executed)
}

func TestExecuteLineTrailingDelimiterKeepsExecuted(t *testing.T) {
	c := &lineCommand{names: []string{"echo"}}
	sh := newTestShell(c)

	// the ';' spawns an empty trailing candidate; the line still
	// counts as executed
	assert.Equal(t, LineExecuted, sh.ExecuteLine("echo hi;;"))
	assert.Len(t, c.executed, 1)
}

type mapVars map[string]string

func (m mapVars) Variables() map[string]string { return m }

func TestExecuteLineSubstitutesVariables(t *testing.T) {
	c := &lineCommand{names: []string{"echo"}}
	sh := newTestShell(c)
	sh.SetVariableProvider(mapVars{"NAME": "world"})

	sh.ExecuteLine("echo $NAME")

	require.Len(t, c.executed, 1)
	assert.Equal(t, "echo world", c.executed[0])
}

func TestSetPromptPadsContinuation(t *testing.T) {
	sh := newTestShell(&lineCommand{names: []string{"help"}})
	sh.SetPrompt("sql> ")

	assert.Equal(t, "     ", sh.emptyPrompt)
}

func TestRunScriptFromReader(t *testing.T) {
	c := &lineCommand{names: []string{""}, complete: semicolonTerminated}
	sh := newTestShell(c)
	sh.SetInput(strings.NewReader("select 1;\nselect 2\nfrom t;\n"))

	require.NoError(t, sh.Run())

	assert.Equal(t, []string{"select 1", "select 2\nfrom t"}, c.executed)
}

func TestRunStopsOnTerminate(t *testing.T) {
	quit := &quitCommand{}
	sh := newTestShell(quit)
	quit.shell = sh
	sh.SetInput(strings.NewReader("exit\nnever reached\n"))

	require.NoError(t, sh.Run())
	assert.True(t, sh.Terminated())
	assert.Equal(t, 1, quit.calls)
}

type quitCommand struct {
	dispatch.BaseCommand
	shell *Shell
	calls int
}

func (c *quitCommand) CommandList() []string       { return []string{"exit"} }
func (c *quitCommand) RequiresSession(string) bool { return false }

func (c *quitCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	c.calls++
	c.shell.Terminate()
	return dispatch.Success
}

// argCompleter records what the engine hands to delegated completion.
type argCompleter struct {
	lineCommand
	args []string

	gotPartial string
	gotWord    string
}

func (c *argCompleter) Complete(d *dispatch.Dispatcher, partialLine, lastWord string) dispatch.Candidates {
	c.gotPartial = partialLine
	c.gotWord = lastWord
	return dispatch.PrefixCandidates(lastWord, c.args)
}

func TestWordCompleterPassesBufferThroughWord(t *testing.T) {
	c := &argCompleter{
		lineCommand: lineCommand{names: []string{"connect"}},
		args:        []string{"testdb", "proddb"},
	}
	sh := newTestShell(c)
	complete := sh.WordCompleter(dispatch.NewCompletionEngine(sh.Dispatcher(), nil))

	line := "connect te"
	head, candidates, tail := complete(line, len(line))
	assert.Equal(t, "connect ", head)
	assert.Equal(t, []string{"testdb"}, candidates)
	assert.Empty(t, tail)

	// the command sees the whole buffered input up to the cursor, the
	// word being completed included
	assert.Equal(t, "connect te", c.gotPartial)
	assert.Equal(t, "te", c.gotWord)
}

func TestWordCompleterIncludesPendingStatement(t *testing.T) {
	c := &argCompleter{
		lineCommand: lineCommand{names: []string{""}, complete: semicolonTerminated},
		args:        []string{"orders"},
	}
	sh := newTestShell(c)
	sh.SetInput(strings.NewReader("select *\n"))
	require.NoError(t, sh.Run())

	complete := sh.WordCompleter(dispatch.NewCompletionEngine(sh.Dispatcher(), nil))
	_, candidates, _ := complete("from or", len("from or"))

	assert.Equal(t, []string{"orders"}, candidates)
	// buffered lines and the edit buffer concatenate directly
	assert.Equal(t, "select *from or", c.gotPartial)
	assert.Equal(t, "or", c.gotWord)
}

func TestPushPopBufferIsolatesPending(t *testing.T) {
	c := &lineCommand{names: []string{""}, complete: semicolonTerminated}
	sh := newTestShell(c)

	require.Equal(t, LineIncomplete, sh.ExecuteLine("select outer_col"))

	sh.PushBuffer()
	require.Equal(t, LineExecuted, sh.ExecuteLine("select 1;"))
	sh.PopBuffer()

	require.Equal(t, LineExecuted, sh.ExecuteLine("from t;"))

	require.Len(t, c.executed, 2)
	assert.Equal(t, "select 1", c.executed[0])
	assert.Equal(t, "select outer_col\nfrom t", c.executed[1])
}
