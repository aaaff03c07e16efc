package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskeval/evalboard/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var port int
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the evaluation dashboard web server",
		Long: `Start the evaluation dashboard web server.

Serves a JSON API under /api and an HTML rendering of the evaluation
report at /report. The server binds to loopback only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port == 0 {
				port = cfg.Server.Port
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			srv := webserver.New(webserver.Config{
				Port:      port,
				NoBrowser: noBrowser,
				Logger:    slog.Default(),
			}, st)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (defaults to configuration)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser window")

	return cmd
}
