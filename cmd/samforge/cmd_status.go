package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the demo environment status",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		status, err := store.Snapshot()
		if err != nil {
			return fmt.Errorf("status query failed: %w", err)
		}

		fmt.Printf("Database: %s (%s)\n", status.Database, store.Path())
		for _, schema := range status.Schemas {
			fmt.Printf("\n%s (%d tables)\n", schema.Name, len(schema.Tables))
			names := make([]string, 0, len(schema.Tables))
			for t := range schema.Tables {
				names = append(names, t)
			}
			sort.Strings(names)
			for _, t := range names {
				fmt.Printf("  %-42s %d rows\n", t, schema.Tables[t])
			}
		}

		printList := func(label string, items []string) {
			if len(items) == 0 {
				fmt.Printf("\n%s: none\n", label)
				return
			}
			fmt.Printf("\n%s: %s\n", label, strings.Join(items, ", "))
		}
		printList("Warehouses", status.Warehouses)
		printList("Search services", status.Services)
		printList("Semantic views", status.Views)
		printList("Agents", status.Agents)
		return nil
	},
}
