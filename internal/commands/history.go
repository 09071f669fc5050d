// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/storage"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
	"github.com/jeranaias/sqlrun/internal/ui/table"
)

// =============================================================================
// HISTORY
// =============================================================================

// recentStatementCount is how many statements a bare "history" shows.
const recentStatementCount = 20

// HistoryCommand browses the persistent statement log. As an execution
// listener it is also the writer: every dispatched input is appended to
// the current run and saved.
type HistoryCommand struct {
	dispatch.BaseCommand
	store   *storage.RunStore
	printer *styles.Printer

	current    *storage.StoredRun
	saveFailed bool
}

func NewHistoryCommand(store *storage.RunStore, p *styles.Printer) *HistoryCommand {
	return &HistoryCommand{store: store, printer: p}
}

func (c *HistoryCommand) CommandList() []string       { return []string{"history"} }
func (c *HistoryCommand) RequiresSession(string) bool { return false }

func (c *HistoryCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	arg := strings.TrimSpace(params)
	switch {
	case arg == "":
		return c.showRecent()
	case strings.EqualFold(arg, "clear"):
		if err := c.store.Clear(); err != nil {
			c.printer.Errorf("%v", err)
			return dispatch.ExecFailed
		}
		c.current = nil
		return dispatch.Success
	default:
		return c.search(arg)
	}
}

func (c *HistoryCommand) showRecent() dispatch.Result {
	metas, err := c.store.List()
	if err != nil {
		c.printer.Errorf("%v", err)
		return dispatch.ExecFailed
	}

	tbl := table.New("when", "session", "result", "statement")
	count := 0
	for _, meta := range metas {
		if count >= recentStatementCount {
			break
		}
		run, err := c.store.Load(meta.ID)
		if err != nil {
			continue
		}
		// newest statements of the newest runs first
		for i := len(run.Statements) - 1; i >= 0 && count < recentStatementCount; i-- {
			stmt := run.Statements[i]
			tbl.AddRow(
				stmt.At.Format("2006-01-02 15:04:05"),
				run.Session,
				stmt.Result,
				flatten(stmt.Text, 60),
			)
			count++
		}
	}
	if count == 0 {
		c.printer.Infof("history is empty.")
		return dispatch.Success
	}
	tbl.Render(c.printer.Out())
	return dispatch.Success
}

func (c *HistoryCommand) search(query string) dispatch.Result {
	hits, err := c.store.Search(query)
	if err != nil {
		c.printer.Errorf("%v", err)
		return dispatch.ExecFailed
	}
	if len(hits) == 0 {
		c.printer.Infof("no runs matching '%s'.", query)
		return dispatch.Success
	}

	tbl := table.New("started", "session", "url", "statements", "first statement")
	tbl.RightAlign(3)
	for _, meta := range hits {
		tbl.AddRow(
			meta.StartedAt.Format("2006-01-02 15:04"),
			meta.Session,
			meta.URL,
			strconv.Itoa(meta.StatementCount),
			meta.Preview,
		)
	}
	tbl.Render(c.printer.Out())
	return dispatch.Success
}

func flatten(text string, maxRunes int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes-3]) + "..."
}

// =============================================================================
// EXECUTION LISTENER
// =============================================================================

func (c *HistoryCommand) BeforeExecution(s *session.Session, raw string) {}

// AfterExecution appends the input to the current run and persists it.
// Browsing the history is not itself worth recording.
func (c *HistoryCommand) AfterExecution(s *session.Session, raw string, result dispatch.Result) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "history") {
		return
	}

	if c.current == nil {
		c.current = &storage.StoredRun{}
	}
	if s != nil {
		c.current.Session = s.Name()
		c.current.URL = s.URL()
	}
	c.current.Statements = append(c.current.Statements, storage.StoredStatement{
		Text:   trimmed,
		Result: result.String(),
		At:     time.Now(),
	})

	if _, err := c.store.Save(c.current); err != nil && !c.saveFailed {
		c.saveFailed = true // complain once, not per statement
		c.printer.Warnf("history not saved: %v", err)
	}
}

func (c *HistoryCommand) Synopsis(string) string { return "history [<query>|clear]" }

func (c *HistoryCommand) ShortDescription() string {
	return "browse executed statements of past runs"
}

func (c *HistoryCommand) LongDescription(string) string {
	return "Without arguments, shows the most recent statements across\n" +
		"runs. With a query, lists past runs containing a matching\n" +
		"statement. 'history clear' wipes the log."
}
