package main

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gompdf/pdftable/internal/importer"
	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/pagination"
	"github.com/gompdf/pdftable/internal/res"
	"github.com/gompdf/pdftable/internal/surface"
	"github.com/gompdf/pdftable/pkg/api"
)

type htmlParams struct {
	output      string
	pageSize    string
	landscape   bool
	margin      float64
	fill        bool
	pageNumbers string
	title       string
	dryRun      bool
	searchPaths []string
}

func newHTMLCommand(root *rootParams) *cobra.Command {
	params := &htmlParams{}

	cmd := &cobra.Command{
		Use:   "html <page.html|url>",
		Short: "Render the tables of an HTML page to PDF",
		Long: `Import every <table> of an HTML page and render them to one PDF.

Header cells become columns, keyed by their data-key attribute or by the
label. Linked and inline stylesheets and style attributes set fonts,
colors, alignment, padding and borders; class="striped" stripes rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.logger

			loader, err := res.NewLoader("").WithBase(args[0])
			if err != nil {
				return err
			}
			loader.Logger = logger
			for _, sp := range params.searchPaths {
				loader.AddSearchPath(sp)
			}

			im := importer.New(loader)
			im.Logger = logger
			tables, err := im.ImportURL(loader.BaseURL)
			if err != nil {
				return err
			}
			if len(tables) == 0 {
				return fmt.Errorf("%s has no tables with rows", args[0])
			}

			size, ok := pagination.LookupPageSize(params.pageSize)
			if !ok {
				return fmt.Errorf("unknown page size %q", params.pageSize)
			}
			opts := []api.Option{
				api.WithPageSize(size.Width, size.Height),
				api.WithMargin(params.margin),
				api.WithTitle(params.title),
				api.WithBufferPages(params.pageNumbers != ""),
				api.WithLogger(logger),
			}
			if params.landscape {
				size = size.Landscape()
				opts = append(opts, api.WithPageOrientation(api.PageOrientationLandscape))
			}

			var d *api.Document
			if params.dryRun {
				d = api.New(surface.NewRecorder(size.Width, size.Height), opts...)
			} else if d, err = api.NewPDF(opts...); err != nil {
				return err
			}

			for _, t := range tables {
				o := t.Options
				if params.fill {
					o.Width = layout.WidthFillBody
				}
				if err := d.AddTable(t.Columns, t.Rows, api.WithTableOptions(o)); err != nil {
					return err
				}
			}
			if params.pageNumbers != "" {
				if err := d.SetPageNumbers(nil, params.pageNumbers, api.TextStyle{}); err != nil {
					return err
				}
			}
			if err := d.Render(); err != nil {
				return err
			}

			if params.dryRun {
				printSummary(cmd.OutOrStdout(), d)
				return nil
			}
			target := params.output
			if target == "" {
				target = outputFor(args[0])
			}
			if err := d.OutputFile(target); err != nil {
				return err
			}
			logger.WithField("output", target).Info("Wrote PDF")
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output PDF path (default: the page name with .pdf)")
	cmd.Flags().StringVar(&params.pageSize, "page-size", "A4", "page size: A0-A6, letter or legal")
	cmd.Flags().BoolVar(&params.landscape, "landscape", false, "use landscape pages")
	cmd.Flags().Float64Var(&params.margin, "margin", 36, "page margin in points")
	cmd.Flags().BoolVar(&params.fill, "fill", false, "stretch every table to the body width")
	cmd.Flags().StringVar(&params.pageNumbers, "page-numbers", "", `page number position, e.g. "bottom right" (empty disables)`)
	cmd.Flags().StringVar(&params.title, "title", "", "document title")
	cmd.Flags().BoolVar(&params.dryRun, "dry-run", false, "paginate without writing and print a summary")
	cmd.Flags().StringSliceVar(&params.searchPaths, "search-path", nil, "directories searched for stylesheets that are not found")
	return cmd
}

// outputFor derives a PDF name from a page path or URL. Pages loaded from
// a URL are written to the working directory.
func outputFor(src string) string {
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		name := path.Base(u.Path)
		if name == "/" || name == "." {
			return "tables.pdf"
		}
		return strings.TrimSuffix(name, path.Ext(name)) + ".pdf"
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".pdf"
}
