package main

import (
	"os"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gompdf/pdftable/cmd/pdftable/internal/env"
	"github.com/gompdf/pdftable/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type rootParams struct {
	logLevel  string
	logFormat string
	config    string

	logger *logrus.Logger
}

func newRootCommand() *cobra.Command {
	params := &rootParams{}

	root := &cobra.Command{
		Use:           path.Base(os.Args[0]),
		Short:         "Paginated PDF tables",
		Long:          "Lay out tables from YAML jobs, CSV/JSON data or HTML pages and paginate them into PDF documents.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.CheckEnvironmentVariables(cmd, ""); err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), params.logLevel, params.logFormat)
			if err != nil {
				return err
			}
			params.logger = logger
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&params.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&params.logFormat, "log-format", "text", "log format: text or json")
	flags.StringVar(&params.config, "config", "", "YAML file with flag defaults")

	root.AddCommand(
		newRenderCommand(params),
		newHTMLCommand(params),
		newVersionCommand(),
	)
	return root
}
