// Package journal records panel and script sessions in SQLite.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tallybox/internal/firmware"
	"github.com/verte-zerg/tallybox/internal/tally"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Session summarizes one recorded run of the device.
type Session struct {
	ID        int64
	StartedAt time.Time
	EndedAt   *time.Time
	Source    string
	Events    int
}

// Entry is one recorded event.
type Entry struct {
	SessionID int64
	Seq       int
	At        time.Time
	Kind      firmware.EventKind
	Candidate *tally.Candidate
	Mode      firmware.Mode
	Counts    tally.Counts
}

// Journal wraps SQLite access for recorded sessions.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return j, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			source TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			session_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			at TEXT NOT NULL,
			kind TEXT NOT NULL,
			candidate TEXT,
			mode TEXT NOT NULL,
			a INTEGER NOT NULL,
			b INTEGER NOT NULL,
			c INTEGER NOT NULL,
			d INTEGER NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// StartSession creates a session row and returns its id.
func (j *Journal) StartSession(ctx context.Context, source string, startedAt time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, source) VALUES (?, ?)`,
		startedAt.Format(time.RFC3339Nano), source)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// EndSession stamps the end time of a session.
func (j *Journal) EndSession(ctx context.Context, id int64, endedAt time.Time) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		endedAt.Format(time.RFC3339Nano), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Record stores one event of a session.
func (j *Journal) Record(ctx context.Context, sessionID int64, seq int, at time.Time, ev firmware.Event) error {
	var candidate any
	if ev.Kind == firmware.EventVote {
		candidate = ev.Candidate.String()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (session_id, seq, at, kind, candidate, mode, a, b, c, d)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		seq,
		at.Format(time.RFC3339Nano),
		ev.Kind.String(),
		candidate,
		ev.Mode.String(),
		ev.Counts.A,
		ev.Counts.B,
		ev.Counts.C,
		ev.Counts.D,
	)
	return err
}

// ListSessions returns the most recent sessions, oldest first. limit <= 0
// returns all of them.
func (j *Journal) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, started_at, ended_at, source, events FROM (
		SELECT s.id, s.started_at, s.ended_at, s.source,
			(SELECT COUNT(*) FROM events e WHERE e.session_id = s.id) AS events
		FROM sessions s
		ORDER BY s.id DESC
		LIMIT ?
	) ORDER BY id ASC`
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedAt string
		var endedAt sql.NullString
		if err := rows.Scan(&s.ID, &startedAt, &endedAt, &s.Source, &s.Events); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		s.StartedAt = parsed
		if endedAt.Valid {
			ended, err := time.Parse(time.RFC3339Nano, endedAt.String)
			if err != nil {
				return nil, err
			}
			s.EndedAt = &ended
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ErrUnknownSession is returned when a session id has no row.
var ErrUnknownSession = errors.New("unknown session")

// ListEvents returns the events of a session in order.
func (j *Journal) ListEvents(ctx context.Context, sessionID int64) ([]Entry, error) {
	var exists int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrUnknownSession
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, at, kind, candidate, mode, a, b, c, d
		 FROM events WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []Entry
	for rows.Next() {
		e := Entry{SessionID: sessionID}
		var at, kind, mode string
		var candidate sql.NullString
		if err := rows.Scan(&e.Seq, &at, &kind, &candidate, &mode, &e.Counts.A, &e.Counts.B, &e.Counts.C, &e.Counts.D); err != nil {
			return nil, err
		}
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, err
		}
		if e.Kind, err = firmware.ParseEventKind(kind); err != nil {
			return nil, err
		}
		if e.Mode, err = firmware.ParseMode(mode); err != nil {
			return nil, err
		}
		if candidate.Valid {
			c, err := tally.ParseCandidate(candidate.String)
			if err != nil {
				return nil, err
			}
			e.Candidate = &c
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
