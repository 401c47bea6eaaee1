package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/app"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/config"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

var (
	// Logging related
	debug bool

	// Configuration
	configPath string
	timezone   string

	// Login credentials
	username string
	password string

	// Display
	headless bool

	rootCmd = &cobra.Command{
		Use:   "hrms-tracker [flags]",
		Short: "HRMS attendance and activity tracker",
		Long: `hrms-tracker monitors keyboard and mouse activity, reconciles it with the
HRMS punch record, and keeps a local ledger of work and idle time.

Examples:
  hrms-tracker --user E1234 --password secret   # Login and start tracking
  hrms-tracker                                  # Reuse the saved session
  hrms-tracker --headless                       # No terminal dashboard
  hrms-tracker report --date 2026-08-29         # Show an archived day
  hrms-tracker status                           # Print today's totals`,
		RunE: runTracker,
	}
)

const defaultLogFile = "~/.hrms-tracker/logs/app.log"

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file path (default ~/.hrms-tracker/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Kolkata, UTC)")

	rootCmd.Flags().StringVarP(&username, "user", "u", "",
		"HRMS username (omit to reuse the saved session)")
	rootCmd.Flags().StringVarP(&password, "password", "p", "",
		"HRMS password")
	rootCmd.Flags().BoolVar(&headless, "headless", false,
		"Disable the terminal dashboard")
}

func runTracker(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	a, err := app.New(cfg, configPath, headless)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	return a.Run(ctx)
}

// setup loads the config and initializes logging and the time provider.
// Shared by every subcommand.
func setup() (*config.Config, error) {
	if configPath == "" {
		configPath = expandPath("~/.hrms-tracker/config.yaml")
	} else {
		configPath = expandPath(configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.StateDir = expandPath(cfg.StateDir)

	if err := ensureDir(cfg.StateDir); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)

	if err := util.InitializeTimeProvider(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return cfg, nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
