package display

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
)

func TestBuildLines(t *testing.T) {
	d := NewTerminalDisplay()
	st := Status{
		Snapshot: model.DaySnapshot{
			Date:        "2026-08-30",
			Work:        3600,
			Idle:        300,
			TargetHours: 7,
			Active:      true,
			Label:       string(model.StateWorking),
		},
		EmployeeID:      "EMP42",
		Role:            "Engineer",
		BridgeConnected: true,
		PortalActive:    true,
		LastSync:        time.Date(2026, 8, 30, 11, 2, 0, 0, time.UTC),
	}

	joined := strings.Join(d.buildLines(st, 80), "\n")

	assert.Contains(t, joined, "2026-08-30")
	assert.Contains(t, joined, "User: EMP42  Role: Engineer")
	assert.Contains(t, joined, "Work: 01:00:00")
	assert.Contains(t, joined, "Bridge: connected")
	assert.Contains(t, joined, "Portal: active")
	assert.Contains(t, joined, "Last sync: 11:02:00")
}

func TestBuildLinesPortalHintInactive(t *testing.T) {
	d := NewTerminalDisplay()
	joined := strings.Join(d.buildLines(Status{}, 80), "\n")

	assert.Contains(t, joined, "Portal: inactive")
	assert.Contains(t, joined, "Bridge: waiting")
	assert.Contains(t, joined, "Last sync: never")
}

func TestStatusLabelOffClock(t *testing.T) {
	working := string(model.StateWorking)
	assert.Equal(t, model.LabelOffClock, statusLabel(model.DaySnapshot{Active: false, Label: working}))
	assert.Equal(t, working, statusLabel(model.DaySnapshot{Active: true, Label: working}))
}
