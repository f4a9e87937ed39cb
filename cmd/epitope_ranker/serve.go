package main

import (
	"fmt"
	"log"

	"github.com/jonathan/epitope-ranker/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that stores peptide datasets and serves ranked views of them to the visualization front end.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			for key, value := range cfg.LogSummary() {
				log.Printf("config %s=%s", key, value)
			}

			srv, err := server.New(server.Config{
				Port:        cfg.Port,
				DatabaseURL: cfg.DatabaseURL,
				SchemaPath:  cfg.SchemaPath,
				MinAlleles:  cfg.MinAlleles,
				Threshold:   cfg.ThresholdState(),
				RateLimit:   cfg.RateLimitConfig(),
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides config)")
	return cmd
}
