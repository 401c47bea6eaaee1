//go:build !linux

package monitor

import (
	"context"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// StubSource is used on platforms without an input backend. The monitor
// still answers Status queries; it just never sees activity.
type StubSource struct{}

// NewInputSource returns a no-op source on unsupported platforms.
func NewInputSource(dir string, mon *Monitor) *StubSource {
	return &StubSource{}
}

// Run logs once and blocks until ctx is done.
func (s *StubSource) Run(ctx context.Context) error {
	util.LogWarn("No input backend for this platform; activity will read as idle")
	<-ctx.Done()
	return nil
}
