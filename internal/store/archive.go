package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	_ "modernc.org/sqlite"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// Archive keeps queryable history in an embedded sqlite database: one row
// per completed day plus every session boundary event. The JSON state
// file stays the hot path; the archive serves the report command.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (and migrates) the history database at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	util.LogInfof("History archive opened at %s", path)
	return a, nil
}

func (a *Archive) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS daily_summary (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			day DATE NOT NULL,
			work_seconds REAL NOT NULL,
			idle_seconds REAL NOT NULL,
			hourly JSONB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_summary_day ON daily_summary(day)`,

		`CREATE TABLE IF NOT EXISTS session_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_ts ON session_events(ts)`,
	}

	for _, m := range migrations {
		if _, err := a.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// ArchiveDay upserts a day's totals. Called on rollover and by the
// end-of-day job; replacing an existing row keeps the latest truth.
func (a *Archive) ArchiveDay(userID string, rec model.DayRecord) error {
	hourly, err := sonic.Marshal(rec.Hourly)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(`
		INSERT INTO daily_summary (user_id, day, work_seconds, idle_seconds, hourly)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET
			work_seconds = excluded.work_seconds,
			idle_seconds = excluded.idle_seconds,
			hourly = excluded.hourly`,
		userID, rec.Date, rec.Work, rec.Idle, string(hourly))
	return err
}

// RecordEvent stores a session boundary event.
func (a *Archive) RecordEvent(userID string, ev model.SessionEvent) error {
	_, err := a.db.Exec(`INSERT INTO session_events (user_id, ts, kind, detail) VALUES (?, ?, ?, ?)`,
		userID, ev.Timestamp, ev.Kind, ev.Detail)
	return err
}

// QueryDay returns the archived record for one day, or found=false.
func (a *Archive) QueryDay(userID, day string) (model.DayRecord, bool, error) {
	row := a.db.QueryRow(`
		SELECT day, work_seconds, idle_seconds, COALESCE(hourly, '{}')
		FROM daily_summary WHERE user_id = ? AND day = ?`, userID, day)

	var rec model.DayRecord
	var hourly string
	err := row.Scan(&rec.Date, &rec.Work, &rec.Idle, &hourly)
	if err == sql.ErrNoRows {
		return model.DayRecord{}, false, nil
	}
	if err != nil {
		return model.DayRecord{}, false, err
	}
	if err := sonic.Unmarshal([]byte(hourly), &rec.Hourly); err != nil {
		rec.Hourly = map[string]model.HourBucket{}
	}
	return rec, true, nil
}

// QueryRange returns archived records between two days inclusive, oldest
// first.
func (a *Archive) QueryRange(userID, from, to string) ([]model.DayRecord, error) {
	rows, err := a.db.Query(`
		SELECT day, work_seconds, idle_seconds, COALESCE(hourly, '{}')
		FROM daily_summary
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.DayRecord
	for rows.Next() {
		var rec model.DayRecord
		var hourly string
		if err := rows.Scan(&rec.Date, &rec.Work, &rec.Idle, &hourly); err != nil {
			return nil, err
		}
		if err := sonic.Unmarshal([]byte(hourly), &rec.Hourly); err != nil {
			rec.Hourly = map[string]model.HourBucket{}
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// QueryEvents returns session events within [from, to] timestamps.
func (a *Archive) QueryEvents(userID string, from, to time.Time) ([]model.SessionEvent, error) {
	rows, err := a.db.Query(`
		SELECT ts, kind, COALESCE(detail, '')
		FROM session_events
		WHERE user_id = ? AND ts >= ? AND ts <= ?
		ORDER BY ts`, userID, from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.SessionEvent
	for rows.Next() {
		var ev model.SessionEvent
		if err := rows.Scan(&ev.Timestamp, &ev.Kind, &ev.Detail); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}
