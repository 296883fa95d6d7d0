package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

func newAnalyzeCmd(opts *RootOptions) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a document from a file or stdin",
		Long:  "Run the full analysis pipeline over a document and print the\nsummary, key points, intent classification and entity annotations.\nReads from stdin when no file argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cliLogger(opts)
			if err != nil {
				return err
			}

			text, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("document is empty")
			}

			lang := document.ParseLanguage(language)
			engine := analysis.NewEngine(analysis.WithLogger(logger))
			result := engine.Analyze(cmd.Context(), text, lang)

			if strings.ToLower(opts.OutputFormat) == "json" {
				return printJSON(cmd, result)
			}
			printAnalysisText(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "document language (English, Hindi, Marathi, Tamil)")

	return cmd
}

func readDocument(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func printAnalysisText(cmd *cobra.Command, result *analysis.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Summary")
	fmt.Fprintln(out, "-------")
	fmt.Fprintln(out, result.Summary)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Intent: %s (score %.2f, confidence %s)\n\n",
		result.Intent.Label, result.Intent.Score, result.Intent.Confidence)

	if len(result.Bullets) > 0 {
		fmt.Fprintln(out, "Key Points")
		fmt.Fprintln(out, "----------")
		for _, b := range result.Bullets {
			fmt.Fprintf(out, "  * %s\n", b.String())
		}
		fmt.Fprintln(out)
	}

	if len(result.Entities) > 0 {
		fmt.Fprintln(out, "Entities")
		fmt.Fprintln(out, "--------")
		for _, e := range result.Entities {
			fmt.Fprintf(out, "  %-10s %q [%d:%d]\n", e.Type, e.Text, e.Start, e.End)
		}
	}
}
