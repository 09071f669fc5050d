// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sqlrun/internal/storage"
)

// historyHarness is the regular harness with the statement log wired
// in, backed by a temp directory.
func historyHarness(t *testing.T) (*harness, *HistoryCommand, *storage.RunStore) {
	t.Helper()
	h := newHarness(t)

	store, err := storage.NewRunStoreWithDir(t.TempDir())
	require.NoError(t, err)

	hist := NewHistoryCommand(store, h.sh.Printer())
	h.disp.MustRegister(hist)
	h.disp.AddListener(hist)
	return h, hist, store
}

func TestHistoryRecordsExecutedStatements(t *testing.T) {
	h, _, store := historyHarness(t)
	h.run(t, "echo one;", "echo two;")

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, 2, metas[0].StatementCount)

	run, err := store.Load(metas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "echo one", run.Statements[0].Text)
	assert.Equal(t, "success", run.Statements[0].Result)
}

func TestHistoryShowsRecentStatements(t *testing.T) {
	h, _, _ := historyHarness(t)
	h.run(t, "echo breadcrumb;", "history;")
	assert.Contains(t, h.out.String(), "echo breadcrumb")
	assert.Contains(t, h.out.String(), "statement")
}

func TestHistoryDoesNotRecordItself(t *testing.T) {
	h, _, store := historyHarness(t)
	h.run(t, "history;")

	metas, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestHistorySearchMatchesStatementText(t *testing.T) {
	h, _, _ := historyHarness(t)
	h.run(t, "echo needle in haystack;", "history needle;")
	assert.Contains(t, h.out.String(), "echo needle in haystack")

	h.out.Reset()
	h.run(t, "history absent;")
	assert.Contains(t, h.msg.String(), "no runs matching 'absent'")
}

func TestHistoryClearWipesLog(t *testing.T) {
	h, _, store := historyHarness(t)
	h.run(t, "echo gone;", "history clear;")

	metas, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, metas)

	h.msg.Reset()
	h.run(t, "history;")
	assert.Contains(t, h.msg.String(), "history is empty.")
}

func TestHistoryRecordsSessionName(t *testing.T) {
	h, _, store := historyHarness(t)
	h.run(t, "connect :memory: mydb;", "select 1;", "disconnect;")

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "mydb", metas[0].Session)
	assert.Equal(t, ":memory:", metas[0].URL)
}
