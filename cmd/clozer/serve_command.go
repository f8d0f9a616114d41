package main

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pbaille/clozer/internal/api"
	"github.com/pbaille/clozer/internal/drafter"
	"github.com/pbaille/clozer/internal/pipeline"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := ctx.openStore(runCtx)
			if err != nil {
				return err
			}
			defer st.Close()

			// AI drafting is optional; the engine endpoints work without a key.
			d, err := ctx.openDrafter(runCtx)
			switch {
			case errors.Is(err, drafter.ErrNoAPIKey):
				log.Warn("ai drafting disabled", "provider", cfg.LLM.Provider, "reason", err.Error())
			case err != nil:
				return err
			default:
				defer d.Close()
			}

			if strings.TrimSpace(addr) == "" {
				addr = cfg.Server.Bind
			}
			svc := pipeline.New(st, ctx.validator(), d, log)
			return api.New(svc, log.With("component", "api"), addr).Run(runCtx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Server address (defaults to server.bind)")
	return cmd
}
