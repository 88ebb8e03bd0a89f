// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curator/internal/sanitize"
	"github.com/pdiddy/curator/internal/search"
	"github.com/pdiddy/curator/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search every museum collection",
	Long: `Search sends the query to the Art Institute of Chicago, the Met, and the
V&A concurrently and prints the merged results in that order. A museum that
fails is listed as unavailable; only a failure of the Art Institute, the
primary source, fails the search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Int("page-size", 0, "maximum results per museum (default 24)")
	searchCmd.Flags().Duration("timeout", 0, "per-request timeout (default 15s)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(detailCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("page-size"); n > 0 {
		cfg.Search.PageSize = n
	}
	if d, _ := cmd.Flags().GetDuration("timeout"); d > 0 {
		cfg.Search.Timeout = d
	}

	out, err := newAggregator(cfg).SearchAll(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return search.FormatJSON(out, os.Stdout)
	}
	search.FormatTable(out, os.Stdout)
	return nil
}

var detailCmd = &cobra.Command{
	Use:   "detail <provider> <id>",
	Short: "Show the full record for one artwork",
	Long: `Detail fetches one artwork from its museum. The artwork is named by
provider and id, either as two arguments ("met 436535") or as a single
compound key ("met:436535").`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDetail,
}

func init() {
	detailCmd.Flags().Bool("json", false, "output the record as JSON")
	detailCmd.Flags().Bool("html", false, "print the sanitized description markup instead of plain text")
}

func runDetail(cmd *cobra.Command, args []string) error {
	key, err := parseKeyArgs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d, err := newAggregator(cfg).Detail(cmd.Context(), key)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	html, _ := cmd.Flags().GetBool("html")
	printDetail(d, html)
	return nil
}

func printDetail(d types.ArtworkDetail, html bool) {
	fmt.Printf("%s\n", d.DisplayTitle())
	fmt.Printf("  %s", d.DisplayArtist())
	if d.Date != "" {
		fmt.Printf(", %s", d.Date)
	}
	fmt.Println()

	fields := []struct{ label, value string }{
		{"Key", d.Key().String()},
		{"Repository", d.Repository},
		{"Department", d.Department},
		{"Classification", d.Classification},
		{"Credit line", d.CreditLine},
		{"License", string(d.License)},
		{"Image", d.DisplayImage()},
		{"URL", d.URL},
		{"Terms", d.Provider.TermsURL()},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Printf("  %-15s %s\n", f.label+":", f.value)
		}
	}

	desc := sanitize.Description(d.Description)
	if !html {
		desc = sanitize.PlainText(desc)
	}
	if desc != "" {
		fmt.Printf("\n%s\n", desc)
	}
}

// parseKeyArgs accepts either "provider id" or "provider:id".
func parseKeyArgs(args []string) (types.ArtworkKey, error) {
	switch len(args) {
	case 1:
		return types.ParseArtworkKey(args[0])
	case 2:
		p, err := types.ParseProvider(args[0])
		if err != nil {
			return types.ArtworkKey{}, err
		}
		id := strings.TrimSpace(args[1])
		if id == "" {
			return types.ArtworkKey{}, fmt.Errorf("artwork id is empty")
		}
		return types.ArtworkKey{Provider: p, ID: id}, nil
	}
	return types.ArtworkKey{}, fmt.Errorf("expected <provider> <id> or <provider:id>")
}
