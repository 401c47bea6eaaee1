package display

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// Status is everything the dashboard renders each frame.
type Status struct {
	Snapshot        model.DaySnapshot
	EmployeeID      string
	Role            string
	BridgeConnected bool
	PortalActive    bool
	LastSync        time.Time
}

// TerminalDisplay renders the tracker state in place using ANSI cursor
// positioning. Read-only: it never mutates tracker state.
type TerminalDisplay struct {
	out       *os.File
	lastLines int
}

// NewTerminalDisplay writes to stdout.
func NewTerminalDisplay() *TerminalDisplay {
	return &TerminalDisplay{out: os.Stdout}
}

// Render draws one frame, replacing the previous one.
func (d *TerminalDisplay) Render(st Status) {
	width := 60
	if w, _, err := term.GetSize(int(d.out.Fd())); err == nil && w > 20 {
		width = w
		if width > 100 {
			width = 100
		}
	}

	lines := d.buildLines(st, width)

	var b strings.Builder
	if d.lastLines > 0 {
		fmt.Fprintf(&b, "\033[%dA", d.lastLines)
	}
	for _, line := range lines {
		b.WriteString("\033[2K")
		b.WriteString(line)
		b.WriteString("\n")
	}
	d.out.WriteString(b.String())
	d.lastLines = len(lines)
}

func (d *TerminalDisplay) buildLines(st Status, width int) []string {
	snap := st.Snapshot

	bridgeStr := "waiting"
	if st.BridgeConnected {
		bridgeStr = "connected"
	}
	syncStr := "never"
	if !st.LastSync.IsZero() {
		syncStr = st.LastSync.Format("15:04:05")
	}
	portalStr := "inactive"
	if st.PortalActive {
		portalStr = "active"
	}

	target := snap.TargetHours * 3600
	progress := 0.0
	if target > 0 {
		progress = snap.Work / target
	}

	lines := []string{
		pad(fmt.Sprintf("HRMS Activity Tracker - %s", snap.Date), width),
		pad(fmt.Sprintf("User: %s  Role: %s", st.EmployeeID, st.Role), width),
		pad(fmt.Sprintf("Status: %s", statusLabel(snap)), width),
		pad(fmt.Sprintf("Work: %s   Idle: %s", util.FormatClock(snap.Work), util.FormatClock(snap.Idle)), width),
		pad(fmt.Sprintf("Target %dh %s %.0f%%", int(snap.TargetHours),
			util.ProgressBar(progress, width-14), min(progress, 1)*100), width),
		pad(fmt.Sprintf("Bridge: %s   Portal: %s   Last sync: %s", bridgeStr, portalStr, syncStr), width),
	}

	if len(snap.Hourly) > 0 {
		lines = append(lines, pad(hourlyRow(snap.Hourly), width))
	}
	return lines
}

func statusLabel(snap model.DaySnapshot) string {
	if !snap.Active {
		return model.LabelOffClock
	}
	return snap.Label
}

// hourlyRow renders a compact per-hour work summary like "10:45m 11:60m".
func hourlyRow(hourly map[string]model.HourBucket) string {
	hours := make([]string, 0, len(hourly))
	for h := range hourly {
		hours = append(hours, h)
	}
	sort.Strings(hours)

	parts := make([]string, 0, len(hours))
	for _, h := range hours {
		parts = append(parts, fmt.Sprintf("%s:%dm", h, int(hourly[h].Work/60)))
	}
	return "Hourly: " + strings.Join(parts, " ")
}

// pad truncates or right-pads a line to the display width, rune-aware.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
