package catalog

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists the latest good catalog snapshot in SQLite so the
// cache tier survives process restarts.
type Store struct {
	sql *sql.DB
}

// OpenStore opens (and if needed creates) the snapshot database.
func OpenStore(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS snapshots (
  id          INTEGER PRIMARY KEY,
  captured_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_events (
  snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
  identifier  TEXT NOT NULL,
  date        TEXT NOT NULL,
  type        TEXT NOT NULL,
  start_at    TEXT,
  end_at      TEXT,
  region_text TEXT,
  PRIMARY KEY (snapshot_id, identifier)
);
    `); err != nil {
		return nil, err
	}
	return &Store{sql: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Save replaces the persisted snapshot with snap. Only the latest
// snapshot is kept; the swap happens in one transaction so readers
// never observe a partial catalog.
func (s *Store) Save(snap *Snapshot) error {
	tx, err := s.sql.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM snapshot_events`); err != nil {
		return err
	}
	if _, err = tx.Exec(`DELETE FROM snapshots`); err != nil {
		return err
	}

	var res sql.Result
	res, err = tx.Exec(`INSERT INTO snapshots(captured_at) VALUES(?)`, snap.CapturedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, e := range snap.Events {
		_, err = tx.Exec(
			`INSERT INTO snapshot_events(snapshot_id, identifier, date, type, start_at, end_at, region_text) VALUES(?,?,?,?,?,?,?)`,
			snapshotID, e.Identifier, e.Date.UTC().Format(time.RFC3339), string(e.Type),
			nullableTime(e.Start), nullableTime(e.End), nullIfEmpty(e.RegionText),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadLatest returns the persisted snapshot, or nil when none exists.
func (s *Store) LoadLatest() (*Snapshot, error) {
	var (
		snapshotID int64
		capturedAt string
	)
	err := s.sql.QueryRow(`SELECT id, captured_at FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&snapshotID, &capturedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	captured, err := time.Parse(time.RFC3339, capturedAt)
	if err != nil {
		return nil, err
	}

	rows, err := s.sql.Query(
		`SELECT identifier, date, type, start_at, end_at, region_text FROM snapshot_events WHERE snapshot_id = ? ORDER BY date ASC`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			identifier, date, typ string
			startAt, endAt, hint  sql.NullString
		)
		if err := rows.Scan(&identifier, &date, &typ, &startAt, &endAt, &hint); err != nil {
			return nil, err
		}
		when, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, err
		}
		events = append(events, Event{
			Identifier: identifier,
			Date:       when,
			Type:       EclipseType(typ),
			Start:      parseNullableTime(startAt),
			End:        parseNullableTime(endAt),
			RegionText: hint.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Snapshot{Events: events, CapturedAt: captured}, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
