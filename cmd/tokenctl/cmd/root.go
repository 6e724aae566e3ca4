// Package cmd implements the tokenctl commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"go.pilab.hu/tokenstore"
	"go.pilab.hu/tokenstore/backend"
	"go.pilab.hu/tokenstore/config"
	"go.pilab.hu/tokenstore/internal/audit"
	"go.pilab.hu/tokenstore/log"
	"go.pilab.hu/tokenstore/tracing"
)

// AppName is the binary name.
const AppName = "tokenctl"

// app carries the state shared by all commands of one invocation.
type app struct {
	cfgFile string

	logger  log.Logger
	audit   *audit.Logger
	backend *backend.Backend
	store   tokenstore.TokenStore
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: log.NewNopLogger()}

	root := &cobra.Command{
		Use:   AppName,
		Short: "tokenctl inspects and revokes stored OAuth2 tokens",
		Long: `A command-line interface for the token store. It opens the configured
storage backend directly, so it works without any running server.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is $HOME/.tokenstore/tokenstore.yaml)")

	root.AddCommand(newAccessCmd(a), newRefreshCmd(a))

	return root
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}

	a.logger = log.NewZerologAdapter(log.ParseLevel(cfg.LogLevel), cfg.LogPretty)
	a.audit = audit.New(cmd.ErrOrStderr(), AppName, operator())

	ctx, span := tracing.Tracer.Start(cmd.Context(), "tokenctl.open")
	defer span.End()

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		a.logger.Error(ctx, "Failed to open token storage", err, map[string]interface{}{"store": cfg.StoreBackend})
		return err
	}
	a.backend = b

	// The CLI is short lived, nothing scrapes its metrics.
	store, err := backend.NewStore(cfg, b, a.logger, prometheus.NewRegistry())
	if err != nil {
		_ = a.close(ctx)
		return err
	}
	a.store = store

	return nil
}

// runE adapts fn to a cobra RunE and closes the backend once fn returns,
// whether or not it failed.
func (a *app) runE(fn func(ctx context.Context, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx, span := tracing.Tracer.Start(cmd.Context(), cmd.CommandPath())
		defer span.End()

		defer func() {
			if cerr := a.close(ctx); err == nil {
				err = cerr
			}
		}()

		return fn(ctx, cmd.OutOrStdout(), args)
	}
}

func (a *app) close(ctx context.Context) error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close(ctx)
	a.backend = nil
	return err
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// operator names the local user running the command.
func operator() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}

// fingerprint identifies a token in audit records without revealing it.
func fingerprint(value string) string {
	return "sha256:" + tokenstore.HashToken(value)[:16]
}
