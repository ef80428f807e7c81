package main

import (
	"github.com/spf13/cobra"

	"github.com/taskdesk/taskdesk/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Serve the taskdesk HTTP API until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bind, _ := cmd.Flags().GetString("bind")
		return runServe(cmd, bind)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("bind", "", "Address to bind the server to (overrides config)")
}

func runServe(cmd *cobra.Command, bind string) error {
	a, err := openApp()
	if err != nil {
		return err
	}

	addr := a.cfg.Addr()
	if bind != "" {
		addr = bind
	}

	srv := server.New(server.Options{
		Addr:   addr,
		DB:     a.db,
		Repos:  a.repos,
		Logger: a.log,

		AuthRatePerMinute: a.cfg.Server.AuthRatePerMinute,
		AuthBurst:         a.cfg.Server.AuthBurst,
	})
	return srv.Run(cmd.Context())
}
