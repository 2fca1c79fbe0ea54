package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"samforge/internal/embedding"
	"samforge/internal/search"
)

var (
	searchFilters []string
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search <service> <query>",
	Short: "Query a search service",
	Long: `Search runs a query against one built search service, e.g.

  samforge search SAM_BROKER_RESEARCH "revenue growth outlook"
  samforge search SAM_NGO_REPORTS "emissions" --filter severity_level=high`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, query := args[0], args[1]

		filters := make(map[string]string, len(searchFilters))
		for _, f := range searchFilters {
			k, v, ok := strings.Cut(f, "=")
			if !ok {
				return fmt.Errorf("invalid --filter %q (expected key=value)", f)
			}
			filters[k] = v
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		engine, err := embedding.NewEngine(cfg.Embedding)
		if err != nil {
			return fmt.Errorf("embedding engine: %w", err)
		}

		builder := search.NewBuilder(store, cfg, engine)
		results, err := builder.Query(cmd.Context(), service, query, filters, searchLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results.")
			return nil
		}

		for i, r := range results {
			fmt.Printf("%d. [%.3f] %s (%s, %s)\n", i+1, r.Score, r.Title, r.DocType, r.DocumentID)
			if len(r.Attributes) > 0 {
				keys := make([]string, 0, len(r.Attributes))
				for k := range r.Attributes {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				attrs := make([]string, 0, len(keys))
				for _, k := range keys {
					attrs = append(attrs, k+"="+r.Attributes[k])
				}
				fmt.Printf("   %s\n", strings.Join(attrs, " "))
			}
			fmt.Printf("   %s\n", r.Snippet)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringArrayVar(&searchFilters, "filter", nil,
		"Attribute filter as key=value (repeatable)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results")
}
