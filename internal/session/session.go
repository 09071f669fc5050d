// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides named SQL sessions over database/sql.
package session

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is one open database connection with a name the user can
// switch to. The shell owns the active session reference; commands
// receive it by reference and never replace it themselves.
type Session struct {
	name string
	url  string
	db   *sql.DB

	// StatementCount tracks statements executed through this session.
	StatementCount int
}

// Connect opens a session against the given sqlite URL (a file path,
// ":memory:", or a file: URI). An empty name gets a generated one.
func Connect(name, url string) (*Session, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("connect: empty database url")
	}
	if name == "" {
		name = "session-" + uuid.NewString()[:8]
	}

	db, err := sql.Open("sqlite", url)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}

	return &Session{name: name, url: url, db: db}, nil
}

// Name returns the session's user-visible name.
func (s *Session) Name() string { return s.name }

// URL returns the database URL the session was opened with.
func (s *Session) URL() string { return s.url }

// DB returns the underlying database handle.
func (s *Session) DB() *sql.DB { return s.db }

// Close closes the underlying database connection.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
