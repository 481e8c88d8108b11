package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adiazny/prefect-console/internal/pkg/config"
	"github.com/adiazny/prefect-console/internal/pkg/menu"
	"github.com/adiazny/prefect-console/internal/pkg/prefect"
	"github.com/adiazny/prefect-console/internal/pkg/report"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

type options struct {
	envFile   string
	logFormat string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "prefect-console",
		Short:         "Menu-driven console for Prefect Cloud deployments, flows and logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file with Prefect credentials and resource ids")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", logFormatText, "log output format: text or json")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log outgoing requests")

	return cmd
}

func newLogger(out io.Writer, opts *options) (*logrus.Entry, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	switch opts.logFormat {
	case logFormatText:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case logFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("error unknown log format %q", opts.logFormat)
	}

	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logrus.NewEntry(logger), nil
}

func run(cmd *cobra.Command, opts *options) error {
	log, err := newLogger(cmd.OutOrStdout(), opts)
	if err != nil {
		return err
	}

	log.WithField("component", "prefect-console").Info("starting up")

	defer log.WithField("component", "prefect-console").Info("shutting down")

	cfg, err := config.Setup(log, opts.envFile)
	if err != nil {
		log.WithError(err).Error()
		return err
	}

	client := &prefect.Client{
		Log:    log.WithField("component", "prefect-client"),
		Config: cfg.Prefect,
		HTTP: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}

	reporter := &report.Reporter{
		Log:        log,
		API:        client,
		FlowRunIDs: cfg.FlowRunIDs,
	}

	consoleMenu := &menu.Menu{
		Log:     log,
		Actions: reporter,
		DataOps: cfg.DataOps,
		MLOps:   cfg.MLOps,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
	}

	err = consoleMenu.Run(cmd.Context())
	if err != nil {
		log.WithError(err).Error()
		return err
	}

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
