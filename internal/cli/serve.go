package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vector76/todo/internal/config"
	"github.com/vector76/todo/internal/logging"
	"github.com/vector76/todo/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only dashboard of your todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Resolve address: flag > config > default
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Serve.Addr
			}

			srv, err := server.New(server.Config{
				Addr:   addr,
				Logger: logging.Component(a.log, "server"),
			}, a.Store())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", srv.ListenAddr())
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (default: serve.addr from config, "+config.DefaultAddr+")")

	return cmd
}
