// Package storage persists privacy-conscious site analytics in SQLite:
// hashed-IP page views and which assistant intents visitors asked about.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timestamps are stored as fixed-width UTC text so string comparison orders them.
const timeLayout = "2006-01-02T15:04:05Z"

type Store struct {
	db *sql.DB
}

// Open opens (or creates) portfolio.db in dataDir and brings its schema up to
// date. ":memory:" opens an in-memory database.
func Open(dataDir string) (*Store, error) {
	dsn := ":memory:"
	if dataDir != ":memory:" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "portfolio.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: ":memory:" is per connection, and visitor writes come
	// from background goroutines.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("configuring database: %w", err)
	}
	migrations, err := loadMigrations(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	return s.migrate(ctx, migrations)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type migration struct {
	version int
	name    string
	sql     string
}

// loadMigrations reads NNN_name.sql files from dir. Versions must run 1, 2,
// 3... with no gaps, so user_version always names the last file applied.
func loadMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var out []migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		version, err := strconv.Atoi(prefix)
		if !ok || err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %q: name must start with a positive version and '_'", e.Name())
		}
		body, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", e.Name(), err)
		}
		out = append(out, migration{version: version, name: e.Name(), sql: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	for i, m := range out {
		if m.version != i+1 {
			return nil, fmt.Errorf("migration %s: expected version %d", m.name, i+1)
		}
	}
	return out, nil
}

// migrate applies every migration above the database's user_version, each in
// its own transaction together with the version bump.
func (s *Store) migrate(ctx context.Context, migrations []migration) error {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", current, len(migrations))
	}

	for _, m := range migrations[current:] {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", m.name, err)
		}
		// PRAGMA takes no bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", m.name, err)
		}
	}
	return nil
}

// SchemaVersion reports the last migration applied.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// --- Visitors ---

func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp, country)
		VALUES (?, ?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, formatTime(v.Timestamp), v.Country,
	)
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp, COALESCE(country, '')
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts, &v.Country); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		if v.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parsing visitor timestamp %q: %w", ts, err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (s *Store) DeleteVisit(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM visitors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting visit %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeBefore deletes visits and assistant queries older than cutoff and
// returns how many rows went.
func (s *Store) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	c := formatTime(cutoff)
	var total int64
	for _, table := range []string{"visitors", "assistant_queries"} {
		res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE timestamp < ?", c)
		if err != nil {
			return total, fmt.Errorf("purging %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// --- Assistant queries ---

func (s *Store) RecordQuery(ctx context.Context, q Query) error {
	if q.Timestamp.IsZero() {
		q.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assistant_queries (hashed_ip, intent, channel, timestamp)
		VALUES (?, ?, ?, ?)`,
		q.HashedIP, q.Intent, q.Channel, formatTime(q.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("recording assistant query: %w", err)
	}
	return nil
}

// IntentCounts returns per-intent totals, most asked first.
func (s *Store) IntentCounts(ctx context.Context) ([]IntentCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT intent, COUNT(*) AS n
		FROM assistant_queries
		GROUP BY intent
		ORDER BY n DESC, intent ASC`)
	if err != nil {
		return nil, fmt.Errorf("counting intents: %w", err)
	}
	defer rows.Close()

	var counts []IntentCount
	for rows.Next() {
		var c IntentCount
		if err := rows.Scan(&c.Intent, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning intent count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// --- Stats ---

// Stats gathers the dashboard numbers relative to now. UnansweredRate is left
// for the caller, which knows which intent means "no answer".
func (s *Store) Stats(ctx context.Context, now time.Time) (*AdminStats, error) {
	stats := &AdminStats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitors").Scan(&stats.TotalVisitors); err != nil {
		return nil, fmt.Errorf("counting visitors: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors").Scan(&stats.UniqueVisitors); err != nil {
		return nil, fmt.Errorf("counting unique visitors: %w", err)
	}

	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", formatTime(midnight)).Scan(&stats.VisitorsToday); err != nil {
		return nil, fmt.Errorf("counting visitors today: %w", err)
	}
	weekAgo := now.Add(-7 * 24 * time.Hour)
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", formatTime(weekAgo)).Scan(&stats.VisitorsThisWeek); err != nil {
		return nil, fmt.Errorf("counting visitors this week: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assistant_queries").Scan(&stats.TotalQuestions); err != nil {
		return nil, fmt.Errorf("counting assistant queries: %w", err)
	}

	var err error
	if stats.TopIntents, err = s.IntentCounts(ctx); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}
