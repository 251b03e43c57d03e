package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/k4doshh/bau-tribo/internal/logging"
	"github.com/k4doshh/bau-tribo/internal/telegram"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Serve connects to the Telegram Bot API and processes updates until
interrupted. State is loaded from the configured store backend and persisted
after every mutation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cfg, logging.NewLogger("store"))
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		bot, err := telegram.New(cfg, store, logging.NewLogger("bot"))
		if err != nil {
			return fmt.Errorf("start bot: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return bot.Run(ctx)
	},
}
