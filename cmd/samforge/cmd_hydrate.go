package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"samforge/internal/content"
	"samforge/internal/hydrate"
	"samforge/internal/structured"
)

var (
	hydrateWatch    bool
	hydrateDebounce time.Duration
	hydratePromote  bool
)

var hydrateCmd = &cobra.Command{
	Use:   "hydrate <doc-type>",
	Short: "Regenerate one document type from its templates",
	Long: `Hydrate re-renders one document type from the content library templates
against the current structured data. With --watch it keeps running and
re-hydrates whenever a template file changes, which is how template
authors iterate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docType := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		gen := structured.NewGenerator(store, cfg, false)
		anchor, err := gen.LoadPriceAnchor()
		if err != nil {
			return fmt.Errorf("structured data not found; run 'samforge build --scope structured' first")
		}

		lib, err := content.NewLibrary(workspacePath(cfg.Content.LibraryPath))
		if err != nil {
			return fmt.Errorf("content library: %w", err)
		}
		rules := content.NewRules(workspacePath(cfg.Content.RulesPath))
		engine := hydrate.NewEngine(store, cfg, lib, rules, anchor, false)

		ctx := cmd.Context()
		if hydrateWatch {
			fmt.Printf("Watching templates for %s (Ctrl-C to stop)\n", docType)
			return engine.Watch(ctx, docType, hydrateDebounce)
		}

		count, err := engine.Hydrate(ctx, docType)
		if err != nil {
			return fmt.Errorf("hydration failed: %w", err)
		}
		fmt.Printf("Hydrated %d %s documents\n", count, docType)

		if hydratePromote {
			n, err := engine.PromoteToCorpus(docType)
			if err != nil {
				return fmt.Errorf("promote failed: %w", err)
			}
			fmt.Printf("Promoted %d documents to the corpus\n", n)
		}
		return nil
	},
}

func init() {
	hydrateCmd.Flags().BoolVar(&hydrateWatch, "watch", false,
		"Watch the template directory and re-hydrate on changes")
	hydrateCmd.Flags().DurationVar(&hydrateDebounce, "debounce", 500*time.Millisecond,
		"Debounce interval for --watch")
	hydrateCmd.Flags().BoolVar(&hydratePromote, "promote", false,
		"Promote the hydrated documents to the curated corpus")
}
