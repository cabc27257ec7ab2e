package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gompdf/pdftable/internal/job"
	"github.com/gompdf/pdftable/internal/res"
	"github.com/gompdf/pdftable/pkg/api"
)

type renderParams struct {
	output      string
	dryRun      bool
	watch       bool
	searchPaths []string
}

func newRenderCommand(root *rootParams) *cobra.Command {
	params := &renderParams{}

	cmd := &cobra.Command{
		Use:   "render <job.yaml>",
		Short: "Render a YAML job to PDF",
		Long: `Render the tables described by a YAML job file to a PDF document.

Relative sources in the job are resolved against the job file and then the
search paths. With --dry-run nothing is written; the page count and the
end position of every table are printed instead. With --watch the job is
rendered again whenever a file next to it changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), path, params, root.logger)
		},
	}

	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output PDF path (default: the job's output, or the job path with .pdf)")
	cmd.Flags().BoolVar(&params.dryRun, "dry-run", false, "paginate without writing and print a summary")
	cmd.Flags().BoolVarP(&params.watch, "watch", "w", false, "render again when files next to the job change")
	cmd.Flags().StringSliceVar(&params.searchPaths, "search-path", nil, "directories searched for sources that are not found")
	return cmd
}

func runRender(ctx context.Context, out io.Writer, path string, params *renderParams, logger logrus.FieldLogger) error {
	loader := res.NewLoader(path)
	loader.Logger = logger
	for _, sp := range params.searchPaths {
		loader.AddSearchPath(sp)
	}

	if err := renderJob(out, loader, path, params, logger); err != nil {
		if !params.watch {
			return err
		}
		logger.WithError(err).Error("Render failed")
	}
	if !params.watch {
		return nil
	}

	logger.WithField("job", path).Info("Watching for changes")
	return watchFiles(ctx, []string{filepath.Dir(path)}, isJobInput, defaultDebounce, logger, func() {
		loader.Invalidate()
		if err := renderJob(out, loader, path, params, logger); err != nil {
			logger.WithError(err).Error("Render failed")
		}
	})
}

func renderJob(out io.Writer, loader *res.Loader, path string, params *renderParams, logger logrus.FieldLogger) error {
	j, err := job.Load(loader, path)
	if err != nil {
		return err
	}
	b := job.NewBuilder(loader)
	b.Logger = logger

	if params.dryRun {
		d, _, err := b.Recorder(j, api.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := d.Render(); err != nil {
			return err
		}
		printSummary(out, d)
		return nil
	}

	d, err := b.PDF(j, api.WithLogger(logger))
	if err != nil {
		return err
	}
	target := params.output
	if target == "" {
		target = j.OutputPath()
	}
	if err := d.OutputFile(target); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"output": target,
		"pages":  d.PageCount(),
	}).Info("Wrote PDF")
	return nil
}

func printSummary(out io.Writer, d *api.Document) {
	fmt.Fprintf(out, "pages: %d\n", d.PageCount())
	tables := d.Tables()
	for i, y := range d.TableEnds() {
		fmt.Fprintf(out, "table %d: %d rows, ends at y=%.2f\n", i+1, len(tables[i].Rows), y)
	}
}

func isJobInput(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json", ".csv", ".html", ".htm", ".css":
		return true
	}
	return false
}
