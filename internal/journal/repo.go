package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an entry id is unknown.
var ErrNotFound = errors.New("journal: entry not found")

// Entry is one prompt run.
type Entry struct {
	ID         string
	Recipient  string
	StartedAt  time.Time
	Declines   int
	AcceptedAt *time.Time
}

// Summary aggregates every entry.
type Summary struct {
	Sessions      int
	Accepted      int
	TotalDeclines int
	MostDeclines  int
}

// Repo reads and writes entries.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepo returns a Repo on db. Timestamps are UTC at second precision,
// which is what sqlite DATETIME columns hold.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Second) }}
}

// Start records a new run and returns it.
func (r *Repo) Start(ctx context.Context, recipient string) (Entry, error) {
	e := Entry{
		ID:        uuid.NewString(),
		Recipient: strings.TrimSpace(recipient),
		StartedAt: r.now(),
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, recipient, started_at, declines) VALUES (?, ?, ?, 0)
	`, e.ID, e.Recipient, e.StartedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("journal start: %w", err)
	}
	return e, nil
}

// RecordDecline stores the latest decline count. Counts never go down.
func (r *Repo) RecordDecline(ctx context.Context, id string, count int) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE sessions SET declines = MAX(declines, ?) WHERE id = ?
	`, count, id)
	if err != nil {
		return fmt.Errorf("journal decline: %w", err)
	}
	return expectOne(res)
}

// RecordAccept stamps the acceptance time once; later calls keep the first.
func (r *Repo) RecordAccept(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE sessions SET accepted_at = COALESCE(accepted_at, ?) WHERE id = ?
	`, at.UTC().Truncate(time.Second), id)
	if err != nil {
		return fmt.Errorf("journal accept: %w", err)
	}
	return expectOne(res)
}

// Get loads one entry.
func (r *Repo) Get(ctx context.Context, id string) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, recipient, started_at, declines, accepted_at FROM sessions WHERE id = ?
	`, id)
	var e Entry
	var accepted sql.NullTime
	if err := row.Scan(&e.ID, &e.Recipient, &e.StartedAt, &e.Declines, &accepted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	if accepted.Valid {
		t := accepted.Time
		e.AcceptedAt = &t
	}
	return e, nil
}

// Recent lists the newest entries first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, recipient, started_at, declines, accepted_at
	FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var accepted sql.NullTime
		if err := rows.Scan(&e.ID, &e.Recipient, &e.StartedAt, &e.Declines, &accepted); err != nil {
			return nil, err
		}
		if accepted.Valid {
			t := accepted.Time
			e.AcceptedAt = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summary aggregates all entries.
func (r *Repo) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*),
	       COUNT(accepted_at),
	       COALESCE(SUM(declines), 0),
	       COALESCE(MAX(declines), 0)
	FROM sessions
	`).Scan(&s.Sessions, &s.Accepted, &s.TotalDeclines, &s.MostDeclines)
	if err != nil {
		return Summary{}, fmt.Errorf("journal summary: %w", err)
	}
	return s, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
