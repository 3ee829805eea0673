package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/notesview/notesview/internal/db"
)

// preferenceKey is the preferences row holding the theme.
const preferenceKey = "theme"

// SQLStore keeps preferences in the preferences table.
type SQLStore struct {
	db *db.DB
}

// NewSQLStore creates a SQLStore backed by the given database.
func NewSQLStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database}
}

// Load implements Store. Rows holding something other than light or dark
// are reported as absent.
func (s *SQLStore) Load(ctx context.Context, clientID string) (Theme, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE client_id = ? AND key = ?`,
		clientID, preferenceKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying preference: %w", err)
	}
	t, ok := Parse(value)
	return t, ok, nil
}

// Save implements Store.
func (s *SQLStore) Save(ctx context.Context, clientID string, t Theme) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (client_id, key, value, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(client_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		clientID, preferenceKey, string(t),
	)
	if err != nil {
		return fmt.Errorf("upserting preference: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Theme
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]Theme)}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, clientID string) (Theme, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.prefs[clientID]
	return t, ok, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, clientID string, t Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[clientID] = t
	return nil
}
