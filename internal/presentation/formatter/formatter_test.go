package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

func TestFormatSummary(t *testing.T) {
	rec := model.DayRecord{
		Date: "2026-08-30",
		Work: 3725,
		Idle: 61,
		Hourly: map[string]model.HourBucket{
			"10": {Work: 3600, Idle: 60},
		},
	}

	out := FormatSummary(rec)
	assert.Contains(t, out, "Date:  2026-08-30")
	assert.Contains(t, out, "Work:  01:02:05")
	assert.Contains(t, out, "Idle:  00:01:01")
	assert.Contains(t, out, "10:00  01:00:00  00:01:00")
}

func TestFormatRangeTotals(t *testing.T) {
	recs := []model.DayRecord{
		{Date: "2026-08-29", Work: 3600, Idle: 60},
		{Date: "2026-08-30", Work: 1800, Idle: 30},
	}

	out := FormatRange(recs)
	assert.Contains(t, out, "2026-08-29  01:00:00  00:01:00")
	assert.Contains(t, out, "2026-08-30  00:30:00  00:00:30")
	assert.Contains(t, out, "Total       01:30:00  00:01:30")
}

func TestFormatEvents(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))
	t.Cleanup(func() { util.InitializeTimeProvider("Local") })

	events := []model.SessionEvent{
		{Timestamp: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC).Unix(), Kind: "start", Detail: "10:00 AM"},
		{Timestamp: time.Date(2026, 8, 30, 18, 30, 0, 0, time.UTC).Unix(), Kind: "stop", Detail: "punched out"},
	}

	out := FormatEvents(events)
	assert.Contains(t, out, "10:00:00  start  10:00 AM")
	assert.Contains(t, out, "18:30:00  stop   punched out")

	assert.Equal(t, "No session events\n", FormatEvents(nil))
}
