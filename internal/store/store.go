package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trendlens/internal/core"
)

// Key under which the refresh controller's timestamp is persisted.
const lastGeneratedKey = "last-generated-timestamp"

// commentsKey builds the cache key for a video's raw comment batch.
func commentsKey(videoID string) string {
	return "comments:" + videoID
}

// DefaultCommentTTL is how long cached video comments stay valid.
const DefaultCommentTTL = 24 * time.Hour

// Store represents the SQLite-based caching store
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "trendlens.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	// Generic key-value entries: the refresh timestamp and per-video
	// comment batches share this table, keyed by a fixed string key.
	entriesTable := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value TEXT,
		stored_at DATETIME
	);`

	// Generated briefs, kept so a restart can serve the last one.
	briefsTable := `
	CREATE TABLE IF NOT EXISTS briefs (
		id TEXT PRIMARY KEY,
		period TEXT,
		content TEXT,
		generated_at DATETIME
	);`

	tables := []string{entriesTable, briefsTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) putEntry(key, value string) error {
	query := `
	INSERT OR REPLACE INTO cache_entries (key, value, stored_at)
	VALUES (?, ?, ?)`

	_, err := s.db.Exec(query, key, value, time.Now().UTC())
	return err
}

func (s *Store) getEntry(key string, maxAge time.Duration) (string, bool, error) {
	query := `SELECT value, stored_at FROM cache_entries WHERE key = ?`
	if maxAge > 0 {
		query += ` AND stored_at > ?`
		cutoff := time.Now().UTC().Add(-maxAge)
		var value string
		var storedAt time.Time
		err := s.db.QueryRow(query, key, cutoff).Scan(&value, &storedAt)
		if err == sql.ErrNoRows {
			return "", false, nil // Cache miss
		}
		if err != nil {
			return "", false, fmt.Errorf("failed to scan entry: %w", err)
		}
		return value, true, nil
	}

	var value string
	var storedAt time.Time
	err := s.db.QueryRow(query, key).Scan(&value, &storedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to scan entry: %w", err)
	}
	return value, true, nil
}

// SaveLastGenerated persists the refresh controller's timestamp.
func (s *Store) SaveLastGenerated(t time.Time) error {
	return s.putEntry(lastGeneratedKey, t.UTC().Format(time.RFC3339))
}

// LoadLastGenerated retrieves the persisted generation timestamp.
// ok is false when no brief has ever been generated.
func (s *Store) LoadLastGenerated() (time.Time, bool, error) {
	value, ok, err := s.getEntry(lastGeneratedKey, 0)
	if err != nil || !ok {
		return time.Time{}, false, err
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse stored timestamp: %w", err)
	}
	return t, true, nil
}

// CacheComments stores a video's raw comment batch
func (s *Store) CacheComments(videoID string, comments []string) error {
	payload, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("failed to encode comments: %w", err)
	}
	return s.putEntry(commentsKey(videoID), string(payload))
}

// GetCachedComments retrieves a video's comment batch from the cache.
// Entries older than maxAge are treated as misses.
func (s *Store) GetCachedComments(videoID string, maxAge time.Duration) ([]string, bool, error) {
	value, ok, err := s.getEntry(commentsKey(videoID), maxAge)
	if err != nil || !ok {
		return nil, false, err
	}

	var comments []string
	if err := json.Unmarshal([]byte(value), &comments); err != nil {
		return nil, false, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, true, nil
}

// SaveBrief stores a generated trend brief
func (s *Store) SaveBrief(b core.TrendBrief) error {
	content, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode brief: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO briefs (id, period, content, generated_at)
	VALUES (?, ?, ?, ?)`

	_, err = s.db.Exec(query, b.ID, b.Period, string(content), b.GeneratedAt.UTC())
	return err
}

// GetLatestBrief retrieves the most recently generated brief
func (s *Store) GetLatestBrief() (*core.TrendBrief, error) {
	query := `
	SELECT content FROM briefs
	ORDER BY generated_at DESC LIMIT 1`

	var content string
	err := s.db.QueryRow(query).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, nil // No brief yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan brief: %w", err)
	}

	var b core.TrendBrief
	if err := json.Unmarshal([]byte(content), &b); err != nil {
		return nil, fmt.Errorf("failed to decode brief: %w", err)
	}
	return &b, nil
}

// CacheStats represents cache statistics
type CacheStats struct {
	EntryCount  int
	BriefCount  int
	CacheSize   int64
	LastUpdated time.Time
}

// GetCacheStats returns statistics about the cache
func (s *Store) GetCacheStats() (*CacheStats, error) {
	stats := &CacheStats{}

	// Get counts
	queries := map[string]*int{
		"SELECT COUNT(*) FROM cache_entries": &stats.EntryCount,
		"SELECT COUNT(*) FROM briefs":        &stats.BriefCount,
	}

	for query, target := range queries {
		err := s.db.QueryRow(query).Scan(target)
		if err != nil {
			return nil, fmt.Errorf("failed to get count: %w", err)
		}
	}

	// Get cache size (file size)
	if fileInfo, err := os.Stat(s.path); err == nil {
		stats.CacheSize = fileInfo.Size()
		stats.LastUpdated = fileInfo.ModTime()
	}

	return stats, nil
}

// ClearCache removes all cached data
func (s *Store) ClearCache() error {
	tables := []string{"cache_entries", "briefs"}

	for _, table := range tables {
		_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			return fmt.Errorf("failed to clear %s table: %w", table, err)
		}
	}

	// Vacuum to reclaim space
	_, err := s.db.Exec("VACUUM")
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	return nil
}

// CleanupOldCache removes expired comment batches. The refresh
// timestamp is never cleaned; it is overwritten on each generation.
func (s *Store) CleanupOldCache(commentMaxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-commentMaxAge)

	_, err := s.db.Exec(
		"DELETE FROM cache_entries WHERE key LIKE 'comments:%' AND stored_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean old comments: %w", err)
	}

	return nil
}
