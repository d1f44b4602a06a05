// Package store provides SQLite persistence for tracked competitors and
// their update records.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"rivalradar/internal/intel"
)

// Store handles SQLite persistence. Concrete type, not an interface; all
// methods are safe for concurrent use via an internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Competitor is one tracked company.
type Competitor struct {
	ID              int64
	Name            string
	Website         string
	Description     string
	Industry        string
	Keywords        []string
	BusinessContext string
	CreatedAt       time.Time
}

// Open creates a Store backed by the given database path, creating tables
// as needed. Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS competitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		website TEXT,
		description TEXT,
		industry TEXT,
		keywords TEXT,
		business_context TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		competitor_name TEXT NOT NULL,
		title TEXT NOT NULL,
		source TEXT,
		content TEXT,
		url TEXT UNIQUE,
		published_at TEXT,
		fetched_at DATETIME NOT NULL,
		category TEXT,
		sentiment TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_records_competitor ON records(competitor_name);
	CREATE INDEX IF NOT EXISTS idx_records_fetched ON records(fetched_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// AddCompetitor registers a competitor to track.
func (s *Store) AddCompetitor(c Competitor) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.Exec(`
		INSERT INTO competitors (name, website, description, industry, keywords, business_context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Website, c.Description, c.Industry, strings.Join(c.Keywords, ","), c.BusinessContext, createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert competitor: %w", err)
	}
	return res.LastInsertId()
}

// Competitors returns all tracked competitors ordered by name.
func (s *Store) Competitors() ([]Competitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, website, description, industry, keywords, business_context, created_at
		FROM competitors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query competitors: %w", err)
	}
	defer rows.Close()

	var out []Competitor
	for rows.Next() {
		var c Competitor
		var keywords string
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &c.Description, &c.Industry, &keywords, &c.BusinessContext, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan competitor: %w", err)
		}
		if keywords != "" {
			c.Keywords = strings.Split(keywords, ",")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CompetitorByName looks a competitor up by case-insensitive name.
func (s *Store) CompetitorByName(name string) (Competitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Competitor
	var keywords string
	err := s.db.QueryRow(`
		SELECT id, name, website, description, industry, keywords, business_context, created_at
		FROM competitors WHERE name = ? COLLATE NOCASE`, name).
		Scan(&c.ID, &c.Name, &c.Website, &c.Description, &c.Industry, &keywords, &c.BusinessContext, &c.CreatedAt)
	if err != nil {
		return Competitor{}, fmt.Errorf("competitor %q: %w", name, err)
	}
	if keywords != "" {
		c.Keywords = strings.Split(keywords, ",")
	}
	return c, nil
}

// DeleteCompetitor removes a competitor and its stored records.
func (s *Store) DeleteCompetitor(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM records WHERE competitor_name = ? COLLATE NOCASE`, name); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM competitors WHERE name = ? COLLATE NOCASE`, name); err != nil {
		return fmt.Errorf("delete competitor: %w", err)
	}
	return nil
}

// SaveRecords stores update records, returning the count of new rows.
// Duplicates by primary key or URL are silently ignored.
func (s *Store) SaveRecords(records []intel.UpdateRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO records
		(id, competitor_name, title, source, content, url, published_at, fetched_at, category, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		var url any
		if r.URL != "" {
			url = r.URL
		}
		res, err := stmt.Exec(r.ID, r.CompetitorName, r.Title, r.Source, r.Content, url, r.PublishedAt, r.FetchedAt, string(r.Category), string(r.Sentiment))
		if err != nil {
			return inserted, fmt.Errorf("insert record %q: %w", r.Title, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// RecentRecords returns a competitor's records fetched at or after the
// cutoff, most recent first.
func (s *Store) RecentRecords(competitor string, since time.Time) ([]intel.UpdateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, competitor_name, title, source, content, COALESCE(url, ''), published_at, fetched_at, category, sentiment
		FROM records
		WHERE competitor_name = ? COLLATE NOCASE AND fetched_at >= ?
		ORDER BY fetched_at DESC`, competitor, since)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// AllRecords returns every record fetched at or after the cutoff, most
// recent first. Used by exports.
func (s *Store) AllRecords(since time.Time) ([]intel.UpdateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, competitor_name, title, source, content, COALESCE(url, ''), published_at, fetched_at, category, sentiment
		FROM records
		WHERE fetched_at >= ?
		ORDER BY fetched_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]intel.UpdateRecord, error) {
	var out []intel.UpdateRecord
	for rows.Next() {
		var r intel.UpdateRecord
		var category, sentiment string
		if err := rows.Scan(&r.ID, &r.CompetitorName, &r.Title, &r.Source, &r.Content, &r.URL, &r.PublishedAt, &r.FetchedAt, &category, &sentiment); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Category = intel.Category(category)
		r.Sentiment = intel.Sentiment(sentiment)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats reports row counts for quick health checks.
type Stats struct {
	Competitors int
	Records     int
}

// GetStats returns table counts.
func (s *Store) GetStats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM competitors`).Scan(&stats.Competitors); err != nil {
		return stats, fmt.Errorf("count competitors: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&stats.Records); err != nil {
		return stats, fmt.Errorf("count records: %w", err)
	}
	return stats, nil
}
