package server

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRecordNotFound is returned when deleting a video that does not exist
// for the account.
var ErrRecordNotFound = errors.New("record not found")

// SavedVideo is one entry of an account's download history.
type SavedVideo struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Platform  string `json:"platform"`
	Quality   string `json:"quality"`
	Format    string `json:"format"`
	SavedAt   int64  `json:"saved_at"` // Unix timestamp
}

// HistoryDB manages the SQLite database of per-account saved videos
type HistoryDB struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenHistory creates and initializes the history database at path
func OpenHistory(path string) (*HistoryDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS saved_videos (
			id TEXT PRIMARY KEY,
			account TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT,
			thumbnail TEXT,
			platform TEXT,
			quality TEXT,
			format TEXT,
			saved_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_account_saved_at ON saved_videos(account, saved_at DESC);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &HistoryDB{db: db}, nil
}

// Close closes the database connection
func (h *HistoryDB) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable
func (h *HistoryDB) Ping() error {
	return h.db.Ping()
}

// Save appends a video to the account's history and returns it with its
// generated id and timestamp filled in
func (h *HistoryDB) Save(account string, v SavedVideo) (SavedVideo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v.ID = uuid.NewString()
	v.SavedAt = time.Now().Unix()

	_, err := h.db.Exec(`
		INSERT INTO saved_videos
		(id, account, url, title, thumbnail, platform, quality, format, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		v.ID,
		account,
		v.URL,
		v.Title,
		v.Thumbnail,
		v.Platform,
		v.Quality,
		v.Format,
		v.SavedAt,
	)
	if err != nil {
		return SavedVideo{}, fmt.Errorf("failed to save video: %w", err)
	}
	return v, nil
}

// List returns the account's saved videos, newest first
func (h *HistoryDB) List(account string) ([]SavedVideo, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, err := h.db.Query(`
		SELECT id, url, title, thumbnail, platform, quality, format, saved_at
		FROM saved_videos
		WHERE account = ?
		ORDER BY saved_at DESC
	`, account)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	videos := make([]SavedVideo, 0)
	for rows.Next() {
		var v SavedVideo
		if err := rows.Scan(
			&v.ID,
			&v.URL,
			&v.Title,
			&v.Thumbnail,
			&v.Platform,
			&v.Quality,
			&v.Format,
			&v.SavedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Delete removes one saved video from the account's history
func (h *HistoryDB) Delete(account, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.db.Exec(
		"DELETE FROM saved_videos WHERE account = ? AND id = ?",
		account, id,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}
