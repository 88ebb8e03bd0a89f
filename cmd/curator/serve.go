// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/curator/internal/server"
	"github.com/pdiddy/curator/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search and the exhibition archive over HTTP",
	Long: `Serve starts an HTTP server with these routes:

  GET /health
  GET /api/search?q=<query>
  GET /api/artworks/:provider/:id
  GET /api/exhibitions
  GET /api/exhibitions/:id

Artwork descriptions are sanitized before they are returned. The server
stops cleanly on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		db, err := storage.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer db.Close()

		logger := slog.Default()
		h := server.NewHandler(newAggregator(cfg), db, logger)
		return server.Run(cmd.Context(), cfg.Server.Addr, server.NewRouter(h), logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default \":8080\")")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
