package model

// ActivityState classifies the local user based on recent input activity.
type ActivityState string

const (
	StateWorking ActivityState = "WORKING"
	StateIdle    ActivityState = "IDLE"
)

// Tracking labels shown by the presentation layer. AFTER HOURS means the
// session is active but the current hour is outside office hours, so no
// time is accumulating.
const (
	LabelOffClock   = "OFF THE CLOCK"
	LabelAfterHours = "AFTER HOURS (Paused)"
)

// PunchRecord is the normalized view of the remote system's attendance
// record for one day. Field names and containers vary wildly on the wire;
// gateway.NormalizeAttendance collapses them into this shape. Empty string means the
// field was absent or null upstream.
type PunchRecord struct {
	PunchIn           string
	PunchOut          string
	Date              string // YYYY-MM-DD when parseable, raw otherwise
	RawStatus         string
	WorkedStr         string  // duration string as sent ("2h 15m", "07:25:12")
	ServerWorkSeconds float64 // numeric duration when the server sends one
}

// SyncUpdate is the single reconciliation input, whether it came from the
// poll loop or the browser bridge.
type SyncUpdate struct {
	PunchIn           string
	PunchOut          string
	Date              string
	Status            string
	WorkedStr         string
	ServerWorkSeconds float64
}

// HourBucket holds accumulated seconds for one wall-clock hour.
type HourBucket struct {
	Work float64 `json:"work"`
	Idle float64 `json:"idle"`
}

// DayRecord is the persisted per-user daily ledger state.
// Layout matches the on-disk JSON: {date, work, idle, hourly:{"10":{...}}}.
type DayRecord struct {
	Date   string                `json:"date"`
	Work   float64               `json:"work"`
	Idle   float64               `json:"idle"`
	Hourly map[string]HourBucket `json:"hourly"`
}

// DaySnapshot is a read-only copy of the ledger state for display.
type DaySnapshot struct {
	Date        string
	Work        float64
	Idle        float64
	Hourly      map[string]HourBucket
	Active      bool
	Label       string
	TargetHours float64
}

// SessionEvent records a session boundary for the history archive.
type SessionEvent struct {
	Timestamp int64  `json:"timestamp"`
	Kind      string `json:"kind"` // "start" or "stop"
	Detail    string `json:"detail"`
}
