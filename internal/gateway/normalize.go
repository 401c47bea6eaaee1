package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
)

// The portal's attendance payload has no stable schema: the record list
// may be bare or live under "data" or "attendance", and every logical
// field goes by several names. All of the guess-the-field-name logic
// lives here; the rest of the program sees only model.PunchRecord.

var (
	punchInKeys  = []string{"punchIn", "loginTime", "punch_in", "firstIn"}
	punchOutKeys = []string{"punchOut", "logoutTime", "punch_out", "lastOut"}
	dateKeys     = []string{"date", "attendanceDate"}
	statusKeys   = []string{"status", "attendanceStatus"}
	durationKeys = []string{"workDuration", "totalWorkingHours", "totalWorkingTime", "workedHours"}
)

// activeKeywords are matched against the raw status field as a secondary
// "currently punched in" hint.
var activeKeywords = []string{"PRESENT", "ACTIVE", "PUNCHED IN", "PUNCH IN", "WORKING"}

// NormalizeAttendance extracts today's punch record from a raw attendance
// response. The last record in the collection is treated as the most
// recent. Returns an error only when no record can be located at all.
func NormalizeAttendance(raw []byte) (*model.PunchRecord, error) {
	var payload interface{}
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("malformed attendance payload: %w", err)
	}

	records := recordList(payload)
	if len(records) == 0 {
		return nil, fmt.Errorf("no attendance records in payload")
	}

	last, ok := records[len(records)-1].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("attendance record is not an object")
	}

	rec := &model.PunchRecord{
		PunchIn:   firstString(last, punchInKeys),
		PunchOut:  firstString(last, punchOutKeys),
		RawStatus: strings.ToUpper(firstString(last, statusKeys)),
	}
	rec.Date = normalizeDate(firstString(last, dateKeys))

	switch v := firstValue(last, durationKeys).(type) {
	case float64:
		rec.ServerWorkSeconds = v
	case string:
		rec.WorkedStr = v
	}

	return rec, nil
}

// recordList digs the record collection out of whatever container the
// server chose today.
func recordList(payload interface{}) []interface{} {
	switch v := payload.(type) {
	case []interface{}:
		return v
	case map[string]interface{}:
		for _, key := range []string{"data", "attendance"} {
			if list, ok := v[key].([]interface{}); ok {
				return list
			}
		}
	}
	return nil
}

func firstValue(rec map[string]interface{}, keys []string) interface{} {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(rec map[string]interface{}, keys []string) string {
	switch v := firstValue(rec, keys).(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"01/02/2006",
	"02-01-2006",
}

// normalizeDate coerces whatever date format the server sends into
// YYYY-MM-DD. Unparseable values pass through unchanged so the date guard
// can still reject them.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// StatusLooksActive reports whether the raw status field reads as
// "currently punched in". Advisory only; the reconciler's decision table
// stays authoritative.
func StatusLooksActive(rawStatus string) bool {
	upper := strings.ToUpper(rawStatus)
	for _, kw := range activeKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
