package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// FormatSummary renders a day record as human-readable text.
func FormatSummary(rec model.DayRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Date:  %s\n", rec.Date)
	fmt.Fprintf(&b, "Work:  %s\n", util.FormatClock(rec.Work))
	fmt.Fprintf(&b, "Idle:  %s\n", util.FormatClock(rec.Idle))

	if len(rec.Hourly) > 0 {
		b.WriteString("\nHour   Work      Idle\n")
		hours := make([]string, 0, len(rec.Hourly))
		for h := range rec.Hourly {
			hours = append(hours, h)
		}
		sort.Strings(hours)
		for _, h := range hours {
			hb := rec.Hourly[h]
			fmt.Fprintf(&b, "%s:00  %s  %s\n", h,
				util.FormatClock(hb.Work), util.FormatClock(hb.Idle))
		}
	}
	return b.String()
}

// FormatJSON renders a day record as indented JSON.
func FormatJSON(rec model.DayRecord) (string, error) {
	data, err := sonic.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatEvents renders session boundary events as a table, timestamps in
// the configured timezone.
func FormatEvents(events []model.SessionEvent) string {
	if len(events) == 0 {
		return "No session events\n"
	}

	tp := util.GetTimeProvider()
	var b strings.Builder
	b.WriteString("Time      Event  Detail\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "%s  %-5s  %s\n",
			tp.Format(time.Unix(ev.Timestamp, 0), "15:04:05"), ev.Kind, ev.Detail)
	}
	return b.String()
}

// FormatRange renders multiple day records as a compact table with a
// totals row.
func FormatRange(recs []model.DayRecord) string {
	var b strings.Builder
	b.WriteString("Date        Work      Idle\n")

	var totalWork, totalIdle float64
	for _, rec := range recs {
		fmt.Fprintf(&b, "%s  %s  %s\n", rec.Date,
			util.FormatClock(rec.Work), util.FormatClock(rec.Idle))
		totalWork += rec.Work
		totalIdle += rec.Idle
	}
	fmt.Fprintf(&b, "Total       %s  %s\n",
		util.FormatClock(totalWork), util.FormatClock(totalIdle))
	return b.String()
}
