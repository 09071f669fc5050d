// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/shell"
)

// =============================================================================
// LOAD / SOURCE
// =============================================================================

// LoadCommand executes statement files. The pending interactive
// statement is stashed around each file, so a half-typed statement at
// the prompt survives sourcing a script.
type LoadCommand struct {
	dispatch.BaseCommand
	shell *shell.Shell
}

func NewLoadCommand(sh *shell.Shell) *LoadCommand {
	return &LoadCommand{shell: sh}
}

func (c *LoadCommand) CommandList() []string {
	return []string{"load", "source", "@"}
}

// whether the file's statements need a session is decided per
// statement, not up front
func (c *LoadCommand) RequiresSession(string) bool { return false }

func (c *LoadCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	files := strings.Fields(params)
	if len(files) == 0 {
		return dispatch.SyntaxError
	}
	result := dispatch.Success
	for _, file := range files {
		if err := c.loadFile(file); err != nil {
			c.shell.Printer().Errorf("%s: %v", file, err)
			result = dispatch.ExecFailed
		}
	}
	return result
}

func (c *LoadCommand) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	c.shell.PushBuffer()
	c.shell.Dispatcher().StartBatch()
	defer func() {
		c.shell.Dispatcher().EndBatch()
		c.shell.PopBuffer()
	}()

	start := time.Now()
	executed := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if c.shell.ExecuteLine(scanner.Text()) == shell.LineExecuted {
			executed++
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	c.shell.Printer().Infof("%s: %d statements in %s",
		path, executed, time.Since(start).Round(time.Millisecond))
	return nil
}

// Complete walks the filesystem for script paths.
func (c *LoadCommand) Complete(d *dispatch.Dispatcher, partialLine, lastWord string) dispatch.Candidates {
	dir, stem := filepath.Split(lastWord)
	searchDir := dir
	if searchDir == "" {
		searchDir = "."
	}
	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil
	}

	var matches []string
	for _, entry := range entries {
		entryName := entry.Name()
		if !strings.HasPrefix(entryName, stem) {
			continue
		}
		candidate := dir + entryName
		if entry.IsDir() {
			candidate += string(filepath.Separator)
		}
		matches = append(matches, candidate)
	}
	return dispatch.CandidatesFrom(matches...)
}

func (c *LoadCommand) Synopsis(name string) string {
	return name + " <filename> [<filename> ...]"
}

func (c *LoadCommand) ShortDescription() string {
	return "execute statements from files"
}

func (c *LoadCommand) LongDescription(string) string {
	return "Opens each file and runs its contents as if typed at the\n" +
		"prompt. Failed statements are echoed with their text so the\n" +
		"offending line is visible; execution continues with the next\n" +
		"statement."
}
