package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"samforge/internal/report"
	"samforge/internal/stage"
)

var (
	reportTitle    string
	reportAudience string
	reportPreview  bool
	reportChrome   string
)

var reportCmd = &cobra.Command{
	Use:   "report <file.md>",
	Short: "Generate a branded PDF report from markdown",
	Long: `Report renders a markdown file into a branded PDF with the
audience-appropriate header and footer, stages it, and prints a presigned
download link. With --preview the styled markdown is rendered to the
terminal instead, without touching Chrome or the stage.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		if reportPreview {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return err
			}
			out, err := renderer.Render(string(content))
			if err != nil {
				return fmt.Errorf("preview render failed: %w", err)
			}
			fmt.Print(out)
			return nil
		}

		st, err := stage.New(stage.Config{
			Name:       "PDF_REPORTS",
			Root:       workspacePath(cfg.Stage.Root),
			BaseURL:    cfg.Stage.BaseURL,
			SigningKey: cfg.Stage.SigningKey,
			URLTTL:     cfg.Stage.URLTTL,
		})
		if err != nil {
			return fmt.Errorf("stage: %w", err)
		}

		renderer := report.NewRenderer(report.NewChromeConverter(reportChrome), st)
		link, err := renderer.Generate(cmd.Context(), string(content), reportTitle, reportAudience)
		if err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportTitle, "title", "Report", "Report title")
	reportCmd.Flags().StringVar(&reportAudience, "audience", "internal",
		"Audience: internal, external_client, external_regulatory")
	reportCmd.Flags().BoolVar(&reportPreview, "preview", false,
		"Render styled markdown to the terminal instead of producing a PDF")
	reportCmd.Flags().StringVar(&reportChrome, "chrome", "",
		"Chrome binary path (auto-detected when empty)")
}
