package main

import (
	"context"
	"log"

	"github.com/ananya/resumatch/internal/chat"
	"github.com/ananya/resumatch/internal/server"
	"github.com/ananya/resumatch/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveConfigPath string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the resume analysis pipeline, the streaming progress endpoint, and the career coach chat.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	pipeline, client, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Persistence is optional; analysis still works without a database.
	var db *store.DB
	if cfg.DatabaseURL != "" {
		db, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("warning: database unavailable, results will not be persisted: %v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	srv := server.New(server.Config{Port: cfg.Port}, pipeline, chat.NewCoach(client), db)
	return srv.Start()
}
