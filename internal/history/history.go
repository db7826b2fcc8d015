// Package history keeps a SQLite journal of notification requests and their
// outcomes.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/notify"
	_ "modernc.org/sqlite"
)

// TimestampFormat is the layout of Entry timestamps in the journal.
const TimestampFormat = "2006-01-02T15:04:05Z"

// ErrInvalidEntry indicates an entry that cannot be recorded.
var ErrInvalidEntry = errors.New("invalid history entry")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS requests (
	id            TEXT PRIMARY KEY,
	timestamp     TEXT NOT NULL,
	session       TEXT NOT NULL DEFAULT '',
	command       TEXT NOT NULL,
	preset        TEXT NOT NULL DEFAULT '',
	glyph         TEXT NOT NULL DEFAULT '',
	preset_source TEXT NOT NULL DEFAULT '',
	pane_id       TEXT NOT NULL DEFAULT '',
	tier          TEXT NOT NULL DEFAULT '',
	position      INTEGER NOT NULL DEFAULT 0,
	old_name      TEXT NOT NULL DEFAULT '',
	new_name      TEXT NOT NULL DEFAULT '',
	renamed       INTEGER NOT NULL DEFAULT 0,
	reason        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_requests_timestamp ON requests(timestamp);
`

// Entry is one journaled request.
type Entry struct {
	ID           string
	Timestamp    string
	Session      string
	Command      string
	Preset       string
	Glyph        string
	PresetSource notify.PresetSource
	PaneID       string
	Tier         notify.Tier
	Position     int
	OldName      string
	NewName      string
	Renamed      bool
	Reason       notify.DropReason
}

// FromOutcome builds an Entry for a request and the outcome it produced.
func FromOutcome(id string, req notify.Request, out notify.Outcome) Entry {
	return Entry{
		ID:           id,
		Session:      req.Args[notify.ArgSessionName],
		Command:      req.Name,
		Preset:       req.PayloadString(),
		Glyph:        out.Glyph,
		PresetSource: out.PresetSource,
		PaneID:       req.Args[notify.ArgPaneID],
		Tier:         out.Tier,
		Position:     out.Position,
		OldName:      out.OldName,
		NewName:      out.NewName,
		Renamed:      out.Renamed,
		Reason:       out.Reason,
	}
}

// Journal is a SQLite-backed request journal.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}

	j := &Journal{db: db}
	if err := j.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the underlying SQLite connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) init() error {
	if _, err := j.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := j.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("history: create schema: %w", err)
	}
	return nil
}

// Record appends an entry. An empty timestamp is set to the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.ID == "" || e.Command == "" {
		return fmt.Errorf("history: record: %w: id and command are required", ErrInvalidEntry)
	}
	if e.Timestamp == "" {
		e.Timestamp = utcNow()
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO requests (id, timestamp, session, command, preset, glyph, preset_source,
	pane_id, tier, position, old_name, new_name, renamed, reason)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp, e.Session, e.Command, e.Preset, e.Glyph, string(e.PresetSource),
		e.PaneID, string(e.Tier), e.Position, e.OldName, e.NewName, boolToInt(e.Renamed), string(e.Reason))
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, timestamp, session, command, preset, glyph, preset_source,
	pane_id, tier, position, old_name, new_name, renamed, reason
FROM requests
ORDER BY timestamp DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                    Entry
			source, tier, reason string
			renamed              int
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Session, &e.Command, &e.Preset, &e.Glyph, &source,
			&e.PaneID, &tier, &e.Position, &e.OldName, &e.NewName, &renamed, &reason); err != nil {
			return nil, fmt.Errorf("history: recent: scan: %w", err)
		}
		e.PresetSource = notify.PresetSource(source)
		e.Tier = notify.Tier(tier)
		e.Reason = notify.DropReason(reason)
		e.Renamed = renamed != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	return entries, nil
}

// Count returns the number of journaled entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM requests").Scan(&n); err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}

func utcNow() string {
	return time.Now().UTC().Format(TimestampFormat)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
