package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// StateFile persists one DayRecord JSON file per user identifier under a
// base directory.
type StateFile struct {
	dir string
}

// NewStateFile creates the base directory if needed.
func NewStateFile(dir string) (*StateFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &StateFile{dir: dir}, nil
}

func (s *StateFile) path(userID string) string {
	return filepath.Join(s.dir, "daily_stats_"+util.SanitizeIdentifier(userID)+".json")
}

// Load reads the persisted record for the user. A missing file is not an
// error; found is false. A corrupt file is reported as an error so the
// caller can start from zero.
func (s *StateFile) Load(userID string) (model.DayRecord, bool, error) {
	data, err := os.ReadFile(s.path(userID))
	if os.IsNotExist(err) {
		return model.DayRecord{}, false, nil
	}
	if err != nil {
		return model.DayRecord{}, false, err
	}

	var rec model.DayRecord
	if err := sonic.Unmarshal(data, &rec); err != nil {
		return model.DayRecord{}, false, fmt.Errorf("corrupt state file: %w", err)
	}
	return rec, true, nil
}

// Save writes the record atomically: temp file then rename, so a crash
// mid-write never corrupts the previous state.
func (s *StateFile) Save(userID string, rec model.DayRecord) error {
	data, err := sonic.Marshal(rec)
	if err != nil {
		return err
	}

	path := s.path(userID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
