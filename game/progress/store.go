// Package progress stores play results that outlive sessions: which levels
// of a collection have been completed (with the best move and push counts)
// and ten numbered bookmark slots. Backed by a single SQLite file.
package progress

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KDE/skladnik/game/engine"
	"github.com/KDE/skladnik/game/service"
)

// SQLiteStore implements service.ProgressStore on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates the progress database at path.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS completions (
			collection TEXT NOT NULL,
			level INTEGER NOT NULL,
			best_moves INTEGER NOT NULL,
			best_pushes INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			PRIMARY KEY (collection, level)
		);`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			slot INTEGER PRIMARY KEY,
			collection TEXT NOT NULL,
			level INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			history TEXT NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordCompletion marks (collection, level) as completed. An existing record
// is only replaced when the new result took fewer moves, or as many moves
// with fewer pushes.
func (s *SQLiteStore) RecordCompletion(collection string, level, moves, pushes int) error {
	var bestMoves, bestPushes int
	err := s.db.QueryRow(
		`SELECT best_moves, best_pushes FROM completions WHERE collection=? AND level=?`,
		collection, level,
	).Scan(&bestMoves, &bestPushes)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// First completion.
	case err != nil:
		return fmt.Errorf("reading completion: %w", err)
	default:
		if moves > bestMoves || (moves == bestMoves && pushes >= bestPushes) {
			return nil
		}
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO completions(collection,level,best_moves,best_pushes,completed_at) VALUES(?,?,?,?,?)`,
		collection, level, moves, pushes, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing completion: %w", err)
	}
	return nil
}

// LevelCompleted reports whether (collection, level) has ever been completed.
func (s *SQLiteStore) LevelCompleted(collection string, level int) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM completions WHERE collection=? AND level=?`,
		collection, level,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("reading completion: %w", err)
	}
	return n > 0, nil
}

// CollectionProgress returns one entry per level of the collection, in level
// order, with recorded completions filled in.
func (s *SQLiteStore) CollectionProgress(collection string, levelCount int) ([]*service.LevelProgress, error) {
	rows, err := s.db.Query(
		`SELECT level, best_moves, best_pushes FROM completions WHERE collection=?`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("reading progress: %w", err)
	}
	defer rows.Close()

	done := make(map[int]*service.LevelProgress)
	for rows.Next() {
		p := &service.LevelProgress{Completed: true}
		if err := rows.Scan(&p.Level, &p.BestMoves, &p.BestPushes); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		done[p.Level] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading progress: %w", err)
	}

	result := make([]*service.LevelProgress, 0, levelCount)
	for i := 0; i < levelCount; i++ {
		if p, ok := done[i]; ok {
			result = append(result, p)
		} else {
			result = append(result, &service.LevelProgress{Level: i})
		}
	}
	return result, nil
}

// SaveBookmark stores bm in the given slot, replacing any previous content.
func (s *SQLiteStore) SaveBookmark(slot int, bm engine.Bookmark) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO bookmarks(slot,collection,level,moves,history,saved_at) VALUES(?,?,?,?,?,?)`,
		slot, bm.Collection, bm.Level, bm.Moves, bm.History, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// LoadBookmark returns the bookmark in the given slot and when it was saved.
func (s *SQLiteStore) LoadBookmark(slot int) (engine.Bookmark, time.Time, error) {
	var (
		bm      engine.Bookmark
		savedAt string
	)
	err := s.db.QueryRow(
		`SELECT collection, level, moves, history, saved_at FROM bookmarks WHERE slot=?`,
		slot,
	).Scan(&bm.Collection, &bm.Level, &bm.Moves, &bm.History, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Bookmark{}, time.Time{}, service.ErrBookmarkNotFound
	}
	if err != nil {
		return engine.Bookmark{}, time.Time{}, fmt.Errorf("reading bookmark: %w", err)
	}

	at, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return engine.Bookmark{}, time.Time{}, fmt.Errorf("parsing bookmark timestamp: %w", err)
	}
	return bm, at, nil
}

// ListBookmarks returns every occupied bookmark slot in slot order.
func (s *SQLiteStore) ListBookmarks() ([]*service.BookmarkInfo, error) {
	rows, err := s.db.Query(
		`SELECT slot, collection, level, moves, saved_at FROM bookmarks ORDER BY slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}
	defer rows.Close()

	var result []*service.BookmarkInfo
	for rows.Next() {
		info := &service.BookmarkInfo{}
		var savedAt string
		if err := rows.Scan(&info.Slot, &info.Collection, &info.Level, &info.Moves, &savedAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		if at, err := time.Parse(time.RFC3339, savedAt); err == nil {
			info.SavedAt = at
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}
	return result, nil
}
