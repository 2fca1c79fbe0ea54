package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var teardownDestroy bool

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Dismantle the demo environment",
	Long: `Teardown removes every demo object in dependency order: agents, search
services, semantic views, the integration, database tables, compute
profiles, and the role. With --destroy the warehouse file itself is
deleted as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		results, err := store.Teardown(ctx)
		for _, r := range results {
			mark := "ok"
			if !r.OK {
				mark = "FAILED"
			}
			fmt.Printf("  %-22s %-6s %s\n", r.Name, mark, r.Detail)
			if r.Err != nil {
				fmt.Printf("    %v\n", r.Err)
			}
		}
		if err != nil {
			return fmt.Errorf("teardown incomplete: %w", err)
		}

		if teardownDestroy {
			if _, err := store.Destroy(ctx); err != nil {
				return fmt.Errorf("destroy failed: %w", err)
			}
			fmt.Println("Warehouse file removed.")
		}
		fmt.Println("Teardown complete.")
		return nil
	},
}

func init() {
	teardownCmd.Flags().BoolVar(&teardownDestroy, "destroy", false,
		"Also delete the warehouse database file")
}
