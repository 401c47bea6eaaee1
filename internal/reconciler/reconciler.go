package reconciler

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// Tracker is the ledger surface the reconciler drives. Implemented by
// ledger.Ledger.
type Tracker interface {
	StartSession()
	StopSession(reason string)
	ResyncWork(seconds float64)
	TotalWork() float64
	TotalIdle() float64
}

// Drift tolerances in seconds. The server duration string is trusted at a
// tight tolerance; the punch-in wall-clock fallback is too imprecise to
// fight small legitimate local accumulation, so it gets a wide one.
const (
	serverDriftTolerance   = 5.0
	fallbackDriftTolerance = 300.0
)

// invalidValues enumerates the placeholder strings the portal emits for
// "no punch". Matched case-insensitively after trimming.
var invalidValues = map[string]struct{}{
	"":                 {},
	"null":             {},
	"none":             {},
	"-":                {},
	"--":               {},
	"--:--":            {},
	"undefined":        {},
	"false":            {},
	"00:00":            {},
	"00:00:00":         {},
	"not yet punched":  {},
	"yet to punch in":  {},
	"yet to punch out": {},
}

// ValidPunch reports whether a punch field carries a real value rather
// than one of the portal's placeholder sentinels.
func ValidPunch(v string) bool {
	_, bad := invalidValues[strings.ToLower(strings.TrimSpace(v))]
	return !bad
}

// Reconciler turns the portal's punch state into a local tracking
// decision. It owns the session reconciliation state: the tracking flag
// and the punch-in token of the currently accepted session. ProcessSync
// may be called from the poll loop and the browser bridge concurrently;
// one mutex serializes them, last call wins.
type Reconciler struct {
	mu sync.Mutex

	trackingActive bool
	lastPunchIn    string

	tracker   Tracker
	onSession func(kind, detail string)

	now func() time.Time
}

// New creates a reconciler driving the given tracker. onSession, if
// non-nil, receives session boundary events ("start"/"stop", detail) for
// the history archive.
func New(tracker Tracker, onSession func(kind, detail string)) *Reconciler {
	return &Reconciler{
		tracker:   tracker,
		onSession: onSession,
		now:       func() time.Time { return util.GetTimeProvider().Now() },
	}
}

// TrackingActive reports whether a session is currently accepted.
func (r *Reconciler) TrackingActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trackingActive
}

// LastPunchIn returns the punch-in token of the currently accepted
// session, or empty.
func (r *Reconciler) LastPunchIn() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPunchIn
}

// ResetSession clears session identity. Called on day rollover and on
// logout; a new day must not inherit yesterday's punch-in token.
func (r *Reconciler) ResetSession() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trackingActive = false
	r.lastPunchIn = ""
}

// StartManual begins tracking without a punch token. Used by the
// browser bridge's legacy start endpoint.
func (r *Reconciler) StartManual() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.trackingActive {
		return
	}
	util.LogInfo("Manual start requested, starting tracking")
	r.trackingActive = true
	r.tracker.StartSession()
	r.emit("start", "manual start")
}

// ForceStop stops tracking regardless of punch state (logout path).
func (r *Reconciler) ForceStop(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked(reason)
}

// ProcessSync is the single reconciliation entry point for punch updates
// from either the poll loop or the browser bridge.
func (r *Reconciler) ProcessSync(u model.SyncUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := r.now().Format("2006-01-02")
	if u.Date != "" && u.Date != today {
		util.LogWarnf("Sync discarded: data date %q != system date %q", u.Date, today)
		return
	}

	if strings.EqualFold(strings.TrimSpace(u.Status), "logged_out") {
		r.stopLocked("logged out")
		return
	}

	inValid := ValidPunch(u.PunchIn)
	outValid := ValidPunch(u.PunchOut)
	util.LogDebugf("Sync received: in=%q out=%q date=%q status=%q", u.PunchIn, u.PunchOut, u.Date, u.Status)

	switch {
	case !inValid && r.trackingActive:
		r.stopLocked("no data")

	case !inValid:
		// Nothing to do: no punch, not tracking.

	case outValid && r.trackingActive:
		util.LogInfof("Punch-out detected (%s), stopping", u.PunchOut)
		r.lastPunchIn = u.PunchIn
		r.stopLocked("punched out")

	case outValid:
		// Session already closed; remember the token so a repeat of the
		// same record stays a no-op.
		r.lastPunchIn = u.PunchIn

	case !r.trackingActive:
		if r.lastPunchIn != "" && r.lastPunchIn != u.PunchIn {
			// A fresh punch-in on the same day resumes; accumulated
			// totals carry over, only a day rollover resets them.
			util.LogInfof("New session boundary: punch-in %q (was %q), totals continue", u.PunchIn, r.lastPunchIn)
		}
		util.LogInfof("Punch-in detected (%s), starting tracking", u.PunchIn)
		r.lastPunchIn = u.PunchIn
		r.trackingActive = true
		r.tracker.StartSession()
		r.emit("start", u.PunchIn)
		r.resyncLocked(u)

	default:
		// Active punch while already tracking: realign the local work
		// total with the server's view.
		if r.lastPunchIn != u.PunchIn {
			util.LogInfof("New session boundary: punch-in %q (was %q), totals continue", u.PunchIn, r.lastPunchIn)
			r.lastPunchIn = u.PunchIn
		}
		r.resyncLocked(u)
	}
}

func (r *Reconciler) stopLocked(reason string) {
	if !r.trackingActive {
		return
	}
	r.trackingActive = false
	r.tracker.StopSession(reason)
	r.emit("stop", reason)
}

// resyncLocked realigns the local work total against the server. The
// server's worked-duration is preferred; elapsed-since-punch-in is the
// last resort.
func (r *Reconciler) resyncLocked(u model.SyncUpdate) {
	// A parseable zero ("00:00", "0h 0m") is the portal's placeholder for
	// a session it has not measured yet, not a real duration.
	if worked, ok := ParseWorked(u.WorkedStr); ok && worked > 0 {
		// The worked string is total elapsed since punch-in, so real
		// work time is what is left after locally observed idle.
		target := math.Max(0, worked-r.tracker.TotalIdle())
		r.applyResync(target, serverDriftTolerance, "server duration")
		return
	}

	if u.ServerWorkSeconds > 0 {
		r.applyResync(u.ServerWorkSeconds, serverDriftTolerance, "server seconds")
		return
	}

	now := r.now()
	punchAt, err := ParsePunchTime(u.PunchIn, now)
	if err != nil {
		util.LogWarnf("Timer sync abandoned: %v", err)
		return
	}
	elapsed := now.Sub(punchAt).Seconds()
	target := math.Max(0, elapsed-r.tracker.TotalIdle())
	r.applyResync(target, fallbackDriftTolerance, "punch-in fallback")
}

// applyResync overwrites the local work total only when it has drifted
// past the tolerance, avoiding needless churn on every poll.
func (r *Reconciler) applyResync(target, tolerance float64, source string) {
	current := r.tracker.TotalWork()
	if current != 0 && math.Abs(target-current) <= tolerance {
		return
	}
	util.LogDebugf("Resync from %s: work %s -> %s", source,
		util.FormatClock(current), util.FormatClock(target))
	r.tracker.ResyncWork(target)
}

func (r *Reconciler) emit(kind, detail string) {
	if r.onSession != nil {
		r.onSession(kind, detail)
	}
}
