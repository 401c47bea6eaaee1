package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/presentation/formatter"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/store"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

var (
	reportDate   string
	reportFrom   string
	reportTo     string
	reportUser   string
	reportOutput string
	reportEvents bool

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Show archived daily totals",
		Long: `report reads the local history archive and prints work/idle totals.

Examples:
  hrms-tracker report --date 2026-08-29
  hrms-tracker report --from 2026-08-01 --to 2026-08-31
  hrms-tracker report --date 2026-08-29 --output json
  hrms-tracker report --date 2026-08-29 --events`,
		RunE: runReport,
	}
)

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "",
		"Single day to report (YYYY-MM-DD, default today)")
	reportCmd.Flags().StringVar(&reportFrom, "from", "",
		"Range start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "",
		"Range end (YYYY-MM-DD, inclusive)")
	reportCmd.Flags().StringVar(&reportUser, "user-id", "",
		"Employee ID (default the saved session's user)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "summary",
		"Output format (summary, json)")
	reportCmd.Flags().BoolVar(&reportEvents, "events", false,
		"List session start/stop events for the day instead of totals")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	userID, err := resolveUserID(cfg.StateDir)
	if err != nil {
		return err
	}

	archive, err := store.OpenArchive(cfg.ArchivePath)
	if err != nil {
		return fmt.Errorf("failed to open history archive: %w", err)
	}
	defer archive.Close()

	if reportFrom != "" && reportTo != "" {
		recs, err := archive.QueryRange(userID, reportFrom, reportTo)
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatRange(recs))
		return nil
	}

	day := reportDate
	if day == "" {
		day = util.GetTimeProvider().Today()
	}

	if reportEvents {
		start, err := time.ParseInLocation("2006-01-02", day, util.GetTimeProvider().Location())
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", day, err)
		}
		events, err := archive.QueryEvents(userID, start, start.Add(24*time.Hour))
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatEvents(events))
		return nil
	}

	rec, found, err := archive.QueryDay(userID, day)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no archived data for %s", day)
	}

	if reportOutput == "json" {
		out, err := formatter.FormatJSON(rec)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Print(formatter.FormatSummary(rec))
	return nil
}

// resolveUserID takes --user-id when given, otherwise falls back to the
// employee ID cached in the saved session.
func resolveUserID(stateDir string) (string, error) {
	if reportUser != "" {
		return reportUser, nil
	}
	creds, found := store.NewCredentialFile(stateDir).Load()
	if !found || creds.EmployeeID == "" {
		return "", fmt.Errorf("no saved session; supply --user-id")
	}
	return creds.EmployeeID, nil
}
