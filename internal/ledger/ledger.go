package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// Classifier supplies the current activity classification. Implemented by
// the activity monitor.
type Classifier interface {
	Status() (model.ActivityState, float64)
}

// Store persists daily records. Implemented by store.StateFile.
type Store interface {
	Load(userID string) (model.DayRecord, bool, error)
	Save(userID string, rec model.DayRecord) error
}

// Hours is a closed-open office-hours range: accumulation happens while
// Start <= hour < End.
type Hours struct {
	Start int
	End   int
}

// Contains reports whether the given wall-clock hour is inside the range.
func (h Hours) Contains(hour int) bool {
	return hour >= h.Start && hour < h.End
}

// Ledger accumulates work/idle seconds into running totals and per-hour
// buckets, persists them per user per day, and resets on day rollover.
// All mutation goes through one mutex; Tick, the reconciler's start/stop
// calls, and the display's Snapshot may arrive on different goroutines.
type Ledger struct {
	mu sync.Mutex

	userID string
	rec    model.DayRecord
	active bool
	label  string

	hours        Hours
	targetHours  float64
	saveInterval time.Duration
	lastSave     time.Time

	store      Store
	classifier Classifier

	now func() time.Time
}

// New creates an empty ledger for today.
func New(store Store, classifier Classifier, hours Hours, targetHours float64, saveInterval time.Duration) *Ledger {
	l := &Ledger{
		hours:        hours,
		targetHours:  targetHours,
		saveInterval: saveInterval,
		store:        store,
		classifier:   classifier,
		label:        model.LabelOffClock,
		now:          func() time.Time { return util.GetTimeProvider().Now() },
	}
	l.rec = emptyDay(l.now().Format("2006-01-02"))
	return l
}

func emptyDay(date string) model.DayRecord {
	return model.DayRecord{
		Date:   date,
		Hourly: make(map[string]model.HourBucket),
	}
}

// Restore loads persisted state for the given user. A record from a
// previous day, a missing file, or a read failure all mean "start from
// zero"; none of them are fatal.
func (l *Ledger) Restore(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.userID = userID
	l.lastSave = l.now()
	today := l.now().Format("2006-01-02")

	rec, found, err := l.store.Load(userID)
	if err != nil {
		util.LogWarnf("Could not load daily stats for %s: %v", userID, err)
	}
	if err == nil && found && rec.Date == today {
		if rec.Hourly == nil {
			rec.Hourly = make(map[string]model.HourBucket)
		}
		l.rec = rec
		util.LogInfof("Restored daily stats for %s: work=%ds idle=%ds",
			userID, int64(rec.Work), int64(rec.Idle))
		return
	}
	l.rec = emptyDay(today)
}

// StartSession begins accumulation. Idempotent.
func (l *Ledger) StartSession() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return
	}
	l.active = true
	util.LogInfo("Session started, accumulating time")
}

// StopSession ends accumulation and persists unconditionally.
func (l *Ledger) StopSession(reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return
	}
	l.active = false
	l.label = model.LabelOffClock

	work, idle := l.summaryLocked()
	util.LogInfof("Session stopped (%s): work=%s idle=%s", reason,
		util.FormatClock(work), util.FormatClock(idle))
	l.saveLocked()
}

// Active reports whether a session is accumulating.
func (l *Ledger) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Tick advances the ledger by delta seconds of wall time. On day rollover
// it persists and returns the outgoing day's record so the caller can
// archive it and reset session identity owned by the reconciler.
func (l *Ledger) Tick(delta float64) (rolledOver bool, outgoing model.DayRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	today := now.Format("2006-01-02")
	if today != l.rec.Date {
		util.LogInfof("New day detected (%s), resetting counters", today)
		l.saveLocked()
		outgoing = l.rec
		l.rec = emptyDay(today)
		l.saveLocked()
		rolledOver = true
	}

	if !l.active {
		l.label = model.LabelOffClock
		return rolledOver, outgoing
	}

	state, _ := l.classifier.Status()
	if !l.hours.Contains(now.Hour()) {
		// Session stays open but time does not accrue outside office
		// hours; the label must say so rather than silently freezing.
		l.label = model.LabelAfterHours
	} else {
		l.label = string(state)
		bucket := fmt.Sprintf("%02d", now.Hour())
		hb := l.rec.Hourly[bucket]
		if state == model.StateWorking {
			l.rec.Work += delta
			hb.Work += delta
		} else {
			l.rec.Idle += delta
			hb.Idle += delta
		}
		l.rec.Hourly[bucket] = hb
	}

	if now.Sub(l.lastSave) >= l.saveInterval {
		l.saveLocked()
	}
	return rolledOver, outgoing
}

// ResyncWork overwrites the running work total with a server-derived
// value. Hourly buckets are left alone; they keep the incrementally
// accumulated truth used by Summary.
func (l *Ledger) ResyncWork(seconds float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	l.rec.Work = seconds
}

// TotalWork returns the running work total in seconds.
func (l *Ledger) TotalWork() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rec.Work
}

// TotalIdle returns the running idle total in seconds.
func (l *Ledger) TotalIdle() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rec.Idle
}

// Summary returns drift-corrected totals. The running work total can be
// overwritten by a mid-session server resync, so the hourly bucket sums
// are preferred; a session too short to have written any bucket falls
// back to the raw totals.
func (l *Ledger) Summary() (work, idle float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.summaryLocked()
}

func (l *Ledger) summaryLocked() (work, idle float64) {
	if len(l.rec.Hourly) == 0 {
		return l.rec.Work, l.rec.Idle
	}
	for _, hb := range l.rec.Hourly {
		work += hb.Work
		idle += hb.Idle
	}
	return work, idle
}

// Snapshot returns a copy of the current state for display and reporting.
func (l *Ledger) Snapshot() model.DaySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	hourly := make(map[string]model.HourBucket, len(l.rec.Hourly))
	for k, v := range l.rec.Hourly {
		hourly[k] = v
	}
	return model.DaySnapshot{
		Date:        l.rec.Date,
		Work:        l.rec.Work,
		Idle:        l.rec.Idle,
		Hourly:      hourly,
		Active:      l.active,
		Label:       l.label,
		TargetHours: l.targetHours,
	}
}

// Persist saves the current state unconditionally (logout path).
func (l *Ledger) Persist() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saveLocked()
}

// SetHours updates the office-hours range. Used by config hot reload.
func (l *Ledger) SetHours(hours Hours) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hours = hours
}

// saveLocked writes state through the store. Persistence failures are
// logged and swallowed; losing the ability to save must not stop tracking.
func (l *Ledger) saveLocked() {
	if l.store == nil {
		return
	}
	if err := l.store.Save(l.userID, l.rec); err != nil {
		util.LogWarnf("Failed to save daily stats: %v", err)
		return
	}
	l.lastSave = l.now()
}
