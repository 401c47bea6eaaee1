package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
)

// fakeTracker records calls so the decision table can be asserted row by
// row.
type fakeTracker struct {
	work, idle float64
	starts     int
	stops      []string
	resyncedTo []float64
}

func (f *fakeTracker) StartSession()             { f.starts++ }
func (f *fakeTracker) StopSession(reason string) { f.stops = append(f.stops, reason) }
func (f *fakeTracker) ResyncWork(seconds float64) {
	f.work = seconds
	f.resyncedTo = append(f.resyncedTo, seconds)
}
func (f *fakeTracker) TotalWork() float64 { return f.work }
func (f *fakeTracker) TotalIdle() float64 { return f.idle }

func newTestReconciler(tracker *fakeTracker, at time.Time) *Reconciler {
	r := New(tracker, nil)
	r.now = func() time.Time { return at }
	return r
}

var testNow = time.Date(2026, 8, 30, 11, 2, 0, 0, time.UTC)

func TestValidPunch(t *testing.T) {
	invalid := []string{
		"", "null", "NULL", "none", "-", "--", "--:--", "undefined",
		"false", "00:00", "00:00:00", "not yet punched",
		"Yet To Punch In", "yet to punch out", "  null  ",
	}
	for _, v := range invalid {
		assert.False(t, ValidPunch(v), "%q should be invalid", v)
	}

	valid := []string{"10:15 AM", "2026-08-30 10:15:00", "09:00", "0"}
	for _, v := range valid {
		assert.True(t, ValidPunch(v), "%q should be valid", v)
	}
}

func TestPunchInStartsTracking(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM"})

	assert.True(t, r.TrackingActive())
	assert.Equal(t, "11:00 AM", r.LastPunchIn())
	assert.Equal(t, 1, tracker.starts)
	assert.Empty(t, tracker.stops)
}

func TestPunchOutStopsTracking(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM"})
	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM", PunchOut: "11:01 AM"})

	assert.False(t, r.TrackingActive())
	assert.Equal(t, []string{"punched out"}, tracker.stops)
}

func TestPunchOutIdempotent(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	update := model.SyncUpdate{PunchIn: "11:00 AM", PunchOut: "11:01 AM"}
	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM"})
	r.ProcessSync(update)
	r.ProcessSync(update)
	r.ProcessSync(update)

	assert.Equal(t, 1, tracker.starts)
	assert.Equal(t, []string{"punched out"}, tracker.stops)
	assert.Equal(t, "11:00 AM", r.LastPunchIn())
}

func TestPunchDataDisappears(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM"})
	r.ProcessSync(model.SyncUpdate{PunchIn: "null"})

	assert.False(t, r.TrackingActive())
	assert.Equal(t, []string{"no data"}, tracker.stops)

	// Repeating the empty update while stopped is a no-op.
	r.ProcessSync(model.SyncUpdate{PunchIn: ""})
	assert.Equal(t, []string{"no data"}, tracker.stops)
	assert.Equal(t, 1, tracker.starts)
}

func TestDateGuardRejectsOtherDays(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM", Date: "2026-08-29"})
	assert.False(t, r.TrackingActive())
	assert.Equal(t, 0, tracker.starts)

	// Matching or absent date passes.
	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM", Date: "2026-08-30"})
	assert.True(t, r.TrackingActive())
}

func TestLoggedOutStatusStops(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM"})
	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM", Status: "logged_out"})

	assert.False(t, r.TrackingActive())
	assert.Equal(t, []string{"logged out"}, tracker.stops)
}

func TestStalePunchOutWhileStopped(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	// A closed record arriving while not tracking records the token but
	// starts nothing.
	r.ProcessSync(model.SyncUpdate{PunchIn: "09:00 AM", PunchOut: "10:00 AM"})

	assert.False(t, r.TrackingActive())
	assert.Equal(t, 0, tracker.starts)
	assert.Equal(t, "09:00 AM", r.LastPunchIn())
}

func TestSameDayResumeKeepsTotals(t *testing.T) {
	tracker := &fakeTracker{work: 300}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "10:57 AM"})
	r.ProcessSync(model.SyncUpdate{PunchIn: "10:57 AM", PunchOut: "10:59 AM"})
	assert.False(t, r.TrackingActive())

	// Fresh punch-in on the same day: tracking resumes under the new
	// token, accumulated work is realigned, never zeroed outright.
	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM"})

	assert.True(t, r.TrackingActive())
	assert.Equal(t, "11:00 AM", r.LastPunchIn())
	assert.Equal(t, 2, tracker.starts)
	// Punch-in was 2 minutes ago; 300s local work is within the wide
	// fallback tolerance, so no resync fires.
	assert.Empty(t, tracker.resyncedTo)
	assert.Equal(t, 300.0, tracker.TotalWork())
}

func TestResyncPrefersWorkedString(t *testing.T) {
	tracker := &fakeTracker{work: 1000, idle: 100}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{
		PunchIn:           "09:00 AM",
		WorkedStr:         "2h 0m 0s",
		ServerWorkSeconds: 99999,
	})

	// Worked string wins over the numeric field: 7200 elapsed minus 100
	// local idle.
	assert.Equal(t, []float64{7100}, tracker.resyncedTo)
}

func TestZeroWorkedDurationIgnored(t *testing.T) {
	// The portal reports "00:00" (or "0h 0m") until it has measured the
	// session; that placeholder must never wipe accumulated local work.
	for _, worked := range []string{"00:00", "00:00:00", "0h 0m", "0h 0m 0s"} {
		t.Run(worked, func(t *testing.T) {
			tracker := &fakeTracker{work: 300}
			r := newTestReconciler(tracker, testNow)

			r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM", WorkedStr: worked})

			assert.True(t, r.TrackingActive())
			// Punch-in 2 minutes ago keeps the wall-clock fallback within
			// tolerance, so the local total survives untouched.
			assert.Empty(t, tracker.resyncedTo)
			assert.Equal(t, 300.0, tracker.TotalWork())
		})
	}
}

func TestResyncServerSeconds(t *testing.T) {
	tracker := &fakeTracker{work: 1000}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{
		PunchIn:           "09:00 AM",
		ServerWorkSeconds: 5400,
	})

	assert.Equal(t, []float64{5400}, tracker.resyncedTo)
}

func TestResyncFallbackFromPunchIn(t *testing.T) {
	// Punch-in at 09:00, now 11:02: elapsed 7320s, minus 20s idle.
	tracker := &fakeTracker{work: 100, idle: 20}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "09:00 AM"})

	assert.Equal(t, []float64{7300}, tracker.resyncedTo)
}

func TestResyncWithinToleranceSkipped(t *testing.T) {
	tests := []struct {
		name       string
		localWork  float64
		update     model.SyncUpdate
		wantResync bool
	}{
		{
			name:       "server seconds within tight tolerance",
			localWork:  5397,
			update:     model.SyncUpdate{PunchIn: "09:00 AM", ServerWorkSeconds: 5400},
			wantResync: false,
		},
		{
			name:       "server seconds past tight tolerance",
			localWork:  5390,
			update:     model.SyncUpdate{PunchIn: "09:00 AM", ServerWorkSeconds: 5400},
			wantResync: true,
		},
		{
			name:       "fallback within wide tolerance",
			localWork:  7100,
			update:     model.SyncUpdate{PunchIn: "09:00 AM"},
			wantResync: false,
		},
		{
			name:       "fallback past wide tolerance",
			localWork:  6000,
			update:     model.SyncUpdate{PunchIn: "09:00 AM"},
			wantResync: true,
		},
		{
			name:       "zero local total always syncs",
			localWork:  0,
			update:     model.SyncUpdate{PunchIn: "09:00 AM", ServerWorkSeconds: 3},
			wantResync: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &fakeTracker{work: tt.localWork}
			r := newTestReconciler(tracker, testNow)

			r.ProcessSync(tt.update)
			if tt.wantResync {
				assert.NotEmpty(t, tracker.resyncedTo)
			} else {
				assert.Empty(t, tracker.resyncedTo)
			}
		})
	}
}

func TestUnparseablePunchInAbandonsSync(t *testing.T) {
	tracker := &fakeTracker{work: 50}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "checked in earlier"})

	// Tracking starts, no resync target could be computed.
	assert.True(t, r.TrackingActive())
	assert.Empty(t, tracker.resyncedTo)
}

func TestForceStopAndReset(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM"})
	r.ForceStop("logout")

	assert.False(t, r.TrackingActive())
	assert.Equal(t, []string{"logout"}, tracker.stops)

	r.ResetSession()
	assert.Empty(t, r.LastPunchIn())

	// ForceStop while already stopped is a no-op.
	r.ForceStop("again")
	assert.Equal(t, []string{"logout"}, tracker.stops)
}

func TestManualStartThenForceStop(t *testing.T) {
	tracker := &fakeTracker{}
	r := newTestReconciler(tracker, testNow)

	r.StartManual()
	assert.True(t, r.TrackingActive())
	assert.Equal(t, 1, tracker.starts)

	// Repeated start is a no-op.
	r.StartManual()
	assert.Equal(t, 1, tracker.starts)

	r.ForceStop("manual stop")
	assert.False(t, r.TrackingActive())
	assert.Equal(t, []string{"manual stop"}, tracker.stops)
}

func TestSessionEventsEmitted(t *testing.T) {
	var events []string
	tracker := &fakeTracker{}
	r := New(tracker, func(kind, detail string) {
		events = append(events, kind+":"+detail)
	})
	r.now = func() time.Time { return testNow }

	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM"})
	r.ProcessSync(model.SyncUpdate{PunchIn: "11:00 AM", PunchOut: "11:30 AM"})

	assert.Equal(t, []string{"start:11:00 AM", "stop:punched out"}, events)
}
