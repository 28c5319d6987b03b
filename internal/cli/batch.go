package cli

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/ingest"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/service"
)

// errBatchFailures is returned after printing when any file failed.
var errBatchFailures = errors.New("some documents could not be analyzed")

// BatchItem is the outcome for one file of a batch, in argument order.
type BatchItem struct {
	Path    string           `json:"path"              yaml:"path"`
	Article *service.Article `json:"article,omitempty" yaml:"article,omitempty"`
	Error   string           `json:"error,omitempty"   yaml:"error,omitempty"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		maxWords int
		workers  int
		format   string
	)
	cmd := &cobra.Command{
		Use:   "batch <files...>",
		Short: "Analyze many documents concurrently",
		Long: "Analyze every file argument with a bounded worker pool and print " +
			"the results in argument order. Failed files are reported inline " +
			"and make the command exit non-zero.",
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(*cobra.Command, []string) error {
			if workers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", workers)
			}
			return checkFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := runBatch(cmd, a.svc, args, maxWords, workers)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), format, items); err != nil {
				return err
			}
			for _, item := range items {
				if item.Error != "" {
					return errBatchFailures
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&maxWords, "max-words", "n", 0, "maximum keywords per document (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.GOMAXPROCS(0), "number of documents analyzed at once")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format (json, yaml)")
	return cmd
}

// runBatch analyzes paths with at most workers in flight. Per-file errors
// are recorded in the items; only cancellation aborts the batch.
func runBatch(cmd *cobra.Command, svc *service.Service, paths []string, maxWords, workers int) ([]BatchItem, error) {
	log := logger.FromContext(cmd.Context())
	items := make([]BatchItem, len(paths))
	group, ctx := errgroup.WithContext(cmd.Context())
	group.SetLimit(workers)
	for i, path := range paths {
		group.Go(func() error {
			items[i].Path = path
			doc, err := ingest.FileSource{Path: path}.Fetch(ctx)
			if err == nil {
				items[i].Article, err = svc.AnalyzeDocument(ctx, doc, maxWords)
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("Document failed", "path", path, "error", err)
				items[i].Error = err.Error()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	log.Debug("Batch complete", "documents", len(paths), "workers", workers)
	return items, nil
}
