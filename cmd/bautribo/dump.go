package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/k4doshh/bau-tribo/internal/logging"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the current categories and inventory",
	Long:  `Dump prints every category, its item definitions, and current stock without connecting to Telegram.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cfg, logging.NewLogger("store"))
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		categories := store.Categories()
		inventory := store.Snapshot()

		if flagJSON {
			out := struct {
				Categories map[string][]string       `json:"categories"`
				Inventory  map[string]map[string]int `json:"inventory"`
			}{
				Categories: make(map[string][]string, len(categories)),
				Inventory:  inventory,
			}
			for _, category := range categories {
				items, err := store.Items(category)
				if err != nil {
					return err
				}
				out.Categories[category] = items
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		if len(categories) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No categories.")
			return nil
		}

		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", category)
			items, err := store.Items(category)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "  (no items)")
				continue
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", item, store.Quantity(category, item))
			}
		}
		return nil
	},
}
