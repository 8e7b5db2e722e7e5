package main

import (
	"github.com/spf13/cobra"

	"github.com/rohankatakam/startrend/internal/config"
	"github.com/rohankatakam/startrend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve trending searches over HTTP",
	Long: `Starts an HTTP server exposing:
  GET /api/search     name, language, start_date, end_date, min_stars, min_increased_stars
  GET /api/languages  popular language names
  GET /healthz        liveness probe

The star-growth cache lives for the lifetime of the process.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	svc, err := buildService(cfg, config.ValidationContextServe, logger)
	if err != nil {
		return err
	}

	srv := server.New(svc, server.Options{
		Addr:           cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	return srv.Run(cmd.Context())
}
