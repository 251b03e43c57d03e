// Package main provides the bautribo CLI: a Telegram bot that tracks a
// shared chest inventory through button-driven menus.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
