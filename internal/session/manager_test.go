// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndQuery(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Connect("main", dbPath)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "main", s.Name())
	assert.Equal(t, dbPath, s.URL())

	_, err = s.DB().Exec("create table t (id integer primary key, name text)")
	require.NoError(t, err)
	_, err = s.DB().Exec("insert into t (name) values ('a'), ('b')")
	require.NoError(t, err)

	var n int
	require.NoError(t, s.DB().QueryRow("select count(*) from t").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestConnectGeneratesName(t *testing.T) {
	s, err := Connect("", ":memory:")
	require.NoError(t, err)
	defer s.Close()

	assert.NotEmpty(t, s.Name())
}

func TestConnectEmptyURL(t *testing.T) {
	_, err := Connect("x", "  ")
	assert.Error(t, err)
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	assert.Nil(t, m.Current())

	a, err := Connect("a", ":memory:")
	require.NoError(t, err)
	b, err := Connect("b", ":memory:")
	require.NoError(t, err)

	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(b))
	assert.Same(t, b, m.Current(), "Add should make the new session current")
	assert.Equal(t, []string{"a", "b"}, m.Names())

	require.NoError(t, m.SetCurrent("a"))
	assert.Same(t, a, m.Current())

	// duplicate names are rejected
	dup, err := Connect("a", ":memory:")
	require.NoError(t, err)
	assert.Error(t, m.Add(dup))
	dup.Close()

	require.NoError(t, m.Remove("a"))
	assert.Nil(t, m.Current(), "removing the current session disconnects")
	assert.Equal(t, 1, m.Len())

	assert.ErrorIs(t, m.Remove("missing"), ErrNoSession)
	assert.ErrorIs(t, m.SetCurrent("missing"), ErrNoSession)

	require.NoError(t, m.CloseAll())
	assert.Equal(t, 0, m.Len())
}
