package main

import (
	"fmt"
	"os"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
