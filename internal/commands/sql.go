// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
	"github.com/jeranaias/sqlrun/internal/ui/table"
)

// =============================================================================
// SQL
// =============================================================================

// queryVerbs lead statements that produce a result set; everything else
// goes through Exec and reports affected rows.
var queryVerbs = map[string]bool{
	"select":  true,
	"values":  true,
	"with":    true,
	"explain": true,
	"pragma":  true,
}

// SQLCommand is the wildcard handler: any input no other command claims
// is sent to the current session as SQL. It also claims the usual verbs
// so "select" is not mistaken for an unknown command when resolution
// falls back to the first token.
type SQLCommand struct {
	dispatch.BaseCommand
	printer *styles.Printer

	// EchoStatements reprints each statement, syntax-highlighted,
	// before running it.
	EchoStatements bool

	// Theme names the chroma style used for echoed statements.
	Theme string

	// RowLimit caps printed result rows; zero means no cap.
	RowLimit int
}

func NewSQLCommand(p *styles.Printer) *SQLCommand {
	return &SQLCommand{printer: p, Theme: "monokai"}
}

func (c *SQLCommand) CommandList() []string {
	return []string{
		"", // wildcard
		"select", "insert", "update", "delete",
		"create", "drop", "alter",
		"begin", "commit", "rollback",
		"explain", "pragma", "vacuum", "with", "values",
	}
}

// statement text completes via object names, not command names
func (c *SQLCommand) ParticipatesInCompletion() bool { return false }

// IsComplete keeps multi-line statements open until the closing ';'.
func (c *SQLCommand) IsComplete(buffered string) bool {
	return strings.HasSuffix(strings.TrimSpace(buffered), ";")
}

func (c *SQLCommand) Execute(s *session.Session, name, params string) dispatch.Result {
	stmt := strings.TrimSpace(name + params)
	if stmt == "" {
		return dispatch.Success
	}

	if c.EchoStatements {
		c.echo(stmt)
	}

	s.StatementCount++
	verb := strings.ToLower(firstWord(stmt))
	start := time.Now()
	if queryVerbs[verb] {
		return c.query(s, stmt, start)
	}
	return c.exec(s, stmt, start)
}

func (c *SQLCommand) query(s *session.Session, stmt string, start time.Time) dispatch.Result {
	rows, err := s.DB().Query(stmt)
	if err != nil {
		c.printer.Errorf("%v", err)
		return dispatch.ExecFailed
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		c.printer.Errorf("%v", err)
		return dispatch.ExecFailed
	}

	tbl := table.New(cols...)
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	count := 0
	truncated := false
	for rows.Next() {
		if c.RowLimit > 0 && count >= c.RowLimit {
			truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			c.printer.Errorf("%v", err)
			return dispatch.ExecFailed
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatValue(v)
		}
		tbl.AddRow(cells...)
		count++
	}
	if err := rows.Err(); err != nil {
		c.printer.Errorf("%v", err)
		return dispatch.ExecFailed
	}

	tbl.Render(c.printer.Out())
	summary := fmt.Sprintf("%d row%s in %s", count, plural(count), elapsed(start))
	if truncated {
		summary += fmt.Sprintf(" (limited to %d rows)", c.RowLimit)
	}
	c.printer.Infof("%s", summary)
	return dispatch.Success
}

func (c *SQLCommand) exec(s *session.Session, stmt string, start time.Time) dispatch.Result {
	res, err := s.DB().Exec(stmt)
	if err != nil {
		c.printer.Errorf("%v", err)
		return dispatch.ExecFailed
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	c.printer.Infof("%d row%s affected in %s", affected, plural(int(affected)), elapsed(start))
	return dispatch.Success
}

// echo reprints the statement highlighted; on a highlighter error the
// plain text goes out instead.
func (c *SQLCommand) echo(stmt string) {
	out := c.printer.Out()
	if err := quick.Highlight(out, stmt, "sql", "terminal256", c.Theme); err != nil {
		fmt.Fprint(out, stmt)
	}
	fmt.Fprintln(out)
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	case time.Time:
		return value.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i]
	}
	return s
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}

func (c *SQLCommand) Synopsis(name string) string {
	return "<sql-statement> ;"
}

func (c *SQLCommand) ShortDescription() string {
	return "send a SQL statement to the current session"
}

func (c *SQLCommand) LongDescription(string) string {
	return "Any input that is not a built-in command is SQL for the\n" +
		"current session. Statements may span lines and end with ';'.\n" +
		"Queries render as a table; other statements report affected\n" +
		"rows."
}
