package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/store"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		store.NewCredentialFile(cfg.StateDir).Clear()
		fmt.Println("Session cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
