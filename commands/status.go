package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/presentation/formatter"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/store"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print today's work and idle totals",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	userID, err := resolveUserID(cfg.StateDir)
	if err != nil {
		return err
	}

	stateFile, err := store.NewStateFile(cfg.StateDir)
	if err != nil {
		return err
	}

	rec, found, err := stateFile.Load(userID)
	if err != nil {
		return fmt.Errorf("state file unreadable: %w", err)
	}
	today := util.GetTimeProvider().Today()
	if !found || rec.Date != today {
		fmt.Printf("No activity recorded for %s\n", today)
		return nil
	}

	fmt.Print(formatter.FormatSummary(rec))
	return nil
}
