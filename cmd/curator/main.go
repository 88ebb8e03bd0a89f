// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the curator CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/lepinkainen/humanlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/curator/internal/search"
	"github.com/pdiddy/curator/internal/secrets"
	"github.com/pdiddy/curator/internal/selection"
	"github.com/pdiddy/curator/internal/storage"
	"github.com/pdiddy/curator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the curator CLI.
var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Search museum collections and curate exhibitions",
	Long: `curator searches the Art Institute of Chicago, the Metropolitan Museum of
Art, and the Victoria and Albert Museum in one query, keeps a working
selection of artworks, and saves it as a named exhibition.

The selection and the exhibition archive live in a SQLite database under
the data directory. Use "serve" to expose search and the archive over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		initLogging(verbose)

		s, err := secrets.Load(secrets.DefaultDir, slog.Default())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./curator.yaml or ~/.config/curator/curator.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the curator database (default \"data\")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	_ = viper.BindPFlag("store.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("curator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "curator"))
		}
	}

	setConfigDefaults(viper.GetViper())

	viper.SetEnvPrefix("CURATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setConfigDefaults registers every key so environment variables such as
// CURATOR_SEARCH_TIMEOUT are seen by Unmarshal.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("search.timeout", types.DefaultTimeout)
	v.SetDefault("search.user_agent", types.DefaultUserAgent)
	v.SetDefault("search.max_retries", types.DefaultMaxRetries)
	v.SetDefault("search.page_size", types.DefaultPageSize)
	v.SetDefault("search.hydrate_group_size", types.DefaultHydrateGroupSize)
	v.SetDefault("search.met_requests_per_second", types.DefaultMetRate)
	v.SetDefault("search.vam_api_key", "")
	v.SetDefault("store.data_dir", types.DefaultDataDir)
	v.SetDefault("server.addr", types.DefaultAddr)
}

// loadConfig decodes the merged configuration and fills credentials from
// .secrets/.
func loadConfig() (types.CuratorConfig, error) {
	var cfg types.CuratorConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	loadedSecrets.Apply(&cfg)
	cfg.Search = cfg.Search.WithDefaults()
	if cfg.Store.DataDir == "" {
		cfg.Store.DataDir = types.DefaultDataDir
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = types.DefaultAddr
	}
	return cfg, nil
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// newAggregator builds the aggregator over every provider.
func newAggregator(cfg types.CuratorConfig) *search.Aggregator {
	client := &http.Client{}
	logger := slog.Default()
	return search.NewAggregator(logger, search.NewProviders(client, cfg.Search, logger)...)
}

// openStore opens the database and restores the selection from it. A
// corrupt selection is reported and replaced by an empty one.
func openStore(ctx context.Context, cfg types.CuratorConfig) (*storage.Store, *selection.Store, error) {
	db, err := storage.Open(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	sel, err := selection.Open(ctx, db)
	if err != nil {
		slog.Warn("starting with an empty selection", "error", err)
	}
	return db, sel, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
