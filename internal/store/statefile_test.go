package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
)

func TestStateFileRoundtrip(t *testing.T) {
	sf, err := NewStateFile(t.TempDir())
	require.NoError(t, err)

	rec := model.DayRecord{
		Date: "2026-08-30",
		Work: 3600.5,
		Idle: 120.25,
		Hourly: map[string]model.HourBucket{
			"10": {Work: 1800, Idle: 60},
			"11": {Work: 1800.5, Idle: 60.25},
		},
	}
	require.NoError(t, sf.Save("E1234", rec))

	got, found, err := sf.Load("E1234")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec.Date, got.Date)
	assert.InDelta(t, rec.Work, got.Work, 0.001)
	assert.InDelta(t, rec.Idle, got.Idle, 0.001)
	assert.InDelta(t, 1800.5, got.Hourly["11"].Work, 0.001)
}

func TestStateFileMissing(t *testing.T) {
	sf, err := NewStateFile(t.TempDir())
	require.NoError(t, err)

	_, found, err := sf.Load("nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStateFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	sf, err := NewStateFile(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "daily_stats_E1234.json"), []byte("{not json"), 0644))

	_, _, err = sf.Load("E1234")
	assert.Error(t, err)
}

func TestStateFilePerUser(t *testing.T) {
	sf, err := NewStateFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, sf.Save("E1", model.DayRecord{Date: "2026-08-30", Work: 100}))
	require.NoError(t, sf.Save("E2", model.DayRecord{Date: "2026-08-30", Work: 200}))

	rec1, _, err := sf.Load("E1")
	require.NoError(t, err)
	rec2, _, err := sf.Load("E2")
	require.NoError(t, err)
	assert.InDelta(t, 100, rec1.Work, 0.001)
	assert.InDelta(t, 200, rec2.Work, 0.001)
}

func TestStateFileOverwrite(t *testing.T) {
	sf, err := NewStateFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, sf.Save("E1", model.DayRecord{Date: "2026-08-30", Work: 100}))
	require.NoError(t, sf.Save("E1", model.DayRecord{Date: "2026-08-31", Work: 5}))

	rec, found, err := sf.Load("E1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2026-08-31", rec.Date)
	assert.InDelta(t, 5, rec.Work, 0.001)
}

func TestCredentialFileRoundtrip(t *testing.T) {
	cf := NewCredentialFile(t.TempDir())

	_, found := cf.Load()
	assert.False(t, found)

	creds := Credentials{Username: "asha", Password: "secret", EmployeeID: "E1234"}
	require.NoError(t, cf.Save(creds))

	got, found := cf.Load()
	require.True(t, found)
	assert.Equal(t, creds, got)

	cf.Clear()
	_, found = cf.Load()
	assert.False(t, found)
}

func TestCredentialFileRejectsIncomplete(t *testing.T) {
	dir := t.TempDir()
	cf := NewCredentialFile(dir)

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "session.json"), []byte(`{"username":"asha"}`), 0600))

	_, found := cf.Load()
	assert.False(t, found)
}
