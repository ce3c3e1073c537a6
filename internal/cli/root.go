// Package cli implements the edgectl command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/edge-client/internal/config"
	"github.com/maxviazov/edge-client/internal/logger"
	"github.com/maxviazov/edge-client/pkg/edge"
)

// app holds what PersistentPreRunE builds for the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	log        zerolog.Logger
	client     *edge.Client
}

// NewRootCommand returns the edgectl root command writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "edgectl",
		Short:         "List developers and API products of a management API organization",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	pf.String("endpoint", edge.DefaultEndpoint, "management API base URI")
	pf.String("org", "", "organization name")
	pf.Int("page-size", 0, "entities requested per page during full listings (0 lets the server decide)")
	pf.String("log-level", "", "log level: debug, info, warn or error")

	registerDevelopersCmd(root, a)
	registerAPIProductsCmd(root, a)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	pf := cmd.Flags()
	cfg, err := config.Load(a.configPath,
		config.WithFlag("edge.endpoint", pf.Lookup("endpoint")),
		config.WithFlag("edge.organization", pf.Lookup("org")),
		config.WithFlag("edge.page_size", pf.Lookup("page-size")),
		config.WithFlag("logger.level", pf.Lookup("log-level")),
	)
	if err != nil {
		return err
	}

	logOut := cmd.ErrOrStderr()
	if cfg.Logger.OutputTarget == "stdout" {
		logOut = cmd.OutOrStdout()
	}
	log, err := logger.NewWithWriter(&cfg.Logger, logOut)
	if err != nil {
		return err
	}

	opts := []edge.Option{
		edge.WithLogger(log),
		edge.WithTimeout(cfg.Edge.Timeout),
		edge.WithPageSize(cfg.Edge.PageSize),
		edge.WithRateLimit(cfg.Edge.RateLimit, cfg.Edge.Burst),
	}
	for name, value := range cfg.Edge.Headers {
		opts = append(opts, edge.WithHeader(name, value))
	}
	client, err := edge.NewClient(cfg.Edge.Endpoint, cfg.Edge.Organization, opts...)
	if err != nil {
		return err
	}

	a.cfg, a.log, a.client = cfg, log.With().Str("module", "cli").Logger(), client
	a.log.Debug().Str("endpoint", cfg.Edge.Endpoint).Str("org", cfg.Edge.Organization).Msg("client ready")
	return nil
}

// printJSON writes v to the command output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
