// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the statement history of shell runs.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/sqlrun/internal/util"
)

// =============================================================================
// STORED RUN TYPE
// =============================================================================

// StoredRun is the persisted record of one shell run: which database it
// talked to and every statement that was dispatched.
type StoredRun struct {
	ID        string    `json:"id"`
	Session   string    `json:"session"`
	URL       string    `json:"url"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Statements []StoredStatement `json:"statements"`
}

// StoredStatement is one executed input with its outcome.
type StoredStatement struct {
	Text   string    `json:"text"`
	Result string    `json:"result"`
	At     time.Time `json:"at"`
}

// RunMeta contains metadata for listing runs without loading them.
type RunMeta struct {
	ID             string    `json:"id"`
	Session        string    `json:"session"`
	URL            string    `json:"url"`
	StartedAt      time.Time `json:"started_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	StatementCount int       `json:"statement_count"`
	Preview        string    `json:"preview"` // first statement, truncated
}

// =============================================================================
// RUN STORE
// =============================================================================

// RunStore handles run persistence as one JSON file per run.
type RunStore struct {
	// BaseDir is the directory for storing runs.
	// Default: ~/.sqlrun/history/
	BaseDir string

	// MaxRuns limits stored runs (0 = unlimited)
	MaxRuns int
}

// NewRunStore creates a store in the default location.
func NewRunStore() (*RunStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewRunStoreWithDir(filepath.Join(homeDir, ".sqlrun", "history"))
}

// NewRunStoreWithDir creates a store with a custom directory.
func NewRunStoreWithDir(baseDir string) (*RunStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &RunStore{
		BaseDir: baseDir,
		MaxRuns: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a run and returns its ID.
func (s *RunStore) Save(run *StoredRun) (string, error) {
	if run.ID == "" {
		run.ID = generateRunID()
	}

	run.UpdatedAt = time.Now()
	if run.StartedAt.IsZero() {
		run.StartedAt = run.UpdatedAt
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", err
	}

	// atomic write with fsync so a crash never leaves a torn file
	if err := util.AtomicWriteFile(s.filePath(run.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxRuns > 0 {
		s.enforceLimit()
	}
	return run.ID, nil
}

// enforceLimit removes the oldest runs if over limit.
func (s *RunStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxRuns {
		return
	}

	// oldest first
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})
	excess := len(metas) - s.MaxRuns
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a run by ID.
func (s *RunStore) Load(id string) (*StoredRun, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	var run StoredRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns all saved runs, most recent first.
func (s *RunStore) List() ([]RunMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMeta{}, nil
		}
		return nil, err
	}

	var metas []RunMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		run, err := s.Load(id)
		if err != nil {
			continue // skip corrupted files
		}

		preview := ""
		if len(run.Statements) > 0 {
			preview = truncateStatement(run.Statements[0].Text, 80)
		}
		metas = append(metas, RunMeta{
			ID:             run.ID,
			Session:        run.Session,
			URL:            run.URL,
			StartedAt:      run.StartedAt,
			UpdatedAt:      run.UpdatedAt,
			StatementCount: len(run.Statements),
			Preview:        preview,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Search finds runs containing a statement that matches the query,
// case-insensitively.
func (s *RunStore) Search(query string) ([]RunMeta, error) {
	if query == "" {
		return s.List()
	}

	query = strings.ToLower(query)
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []RunMeta
	for _, meta := range all {
		run, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		for _, stmt := range run.Statements {
			if strings.Contains(strings.ToLower(stmt.Text), query) {
				results = append(results, meta)
				break
			}
		}
	}
	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a run by ID.
func (s *RunStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrRunNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved runs.
func (s *RunStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (s *RunStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

func generateRunID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "run_" + hex.EncodeToString(bytes)
}

// truncateStatement flattens and shortens statement text for previews.
func truncateStatement(text string, maxRunes int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes-3]) + "..."
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrRunNotFound is returned when a run doesn't exist.
// Use errors.Is(err, ErrRunNotFound) to check for it.
var ErrRunNotFound = &RunError{Message: "run not found"}

// RunError represents a history-storage error.
type RunError struct {
	Message string
}

func (e *RunError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *RunError) Is(target error) bool {
	t, ok := target.(*RunError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
