// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"os"
	"strings"

	"github.com/peterh/liner"
)

// =============================================================================
// CONSOLE
// =============================================================================

// Console wraps the line editor with persistent history.
type Console struct {
	line        *liner.State
	historyFile string
	previous    string
}

// NewConsole creates a console reading and writing history at the given
// path. An empty path disables persistence.
func NewConsole(historyFile string) *Console {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)

	c := &Console{
		line:        line,
		historyFile: historyFile,
	}
	c.loadHistory()
	return c
}

// SetWordCompleter installs the tab completion callback.
func (c *Console) SetWordCompleter(f liner.WordCompleter) {
	c.line.SetWordCompleter(f)
}

// ReadLine reads one line of input under the given prompt. History
// recording is explicit via Remember, so multi-line statements land in
// history as one entry.
func (c *Console) ReadLine(prompt string) (string, error) {
	return c.line.Prompt(prompt)
}

// Remember adds an entry to history unless it is empty or repeats the
// previous entry. Newlines are flattened: the line editor is strictly
// line-oriented.
func (c *Console) Remember(entry string) {
	entry = strings.ReplaceAll(entry, "\n", " ")
	if strings.TrimSpace(entry) == "" || entry == c.previous {
		return
	}
	c.line.AppendHistory(entry)
	c.previous = entry
}

func (c *Console) loadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// SaveHistory persists history with owner-only permissions.
func (c *Console) SaveHistory() {
	if c.historyFile == "" {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *Console) Close() {
	c.SaveHistory()
	c.line.Close()
}
