package cli

import (
	"github.com/spf13/cobra"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/ingest"
)

const stdinArg = "-"

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		maxWords int
		format   string
		title    string
	)
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze one document and print its keywords",
		Long: "Analyze a text, Markdown, PDF or DOCX file, or stdin when the " +
			"argument is - or missing, and print the weighted keywords.",
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(*cobra.Command, []string) error {
			return checkFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src := sourceFor(cmd, args)
			doc, err := src.Fetch(ctx)
			if err != nil {
				return err
			}
			if title != "" {
				doc.Title = title
			}
			art, err := a.svc.AnalyzeDocument(ctx, doc, maxWords)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, art)
		},
	}
	cmd.Flags().IntVarP(&maxWords, "max-words", "n", 0, "maximum keywords to return (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format (json, yaml)")
	cmd.Flags().StringVar(&title, "title", "", "override the document title")
	return cmd
}

func sourceFor(cmd *cobra.Command, args []string) ingest.Source {
	if len(args) == 0 || args[0] == stdinArg {
		return ingest.ReaderSource{Name: "stdin", Reader: cmd.InOrStdin()}
	}
	return ingest.FileSource{Path: args[0]}
}
