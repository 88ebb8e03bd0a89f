// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curator/internal/sanitize"
	"github.com/pdiddy/curator/internal/selection"
	"github.com/pdiddy/curator/internal/storage"
	"github.com/pdiddy/curator/pkg/types"
)

var exhibitionCmd = &cobra.Command{
	Use:     "exhibition",
	Aliases: []string{"ex"},
	Short:   "Save, list, and view curated exhibitions",
}

var exhibitionSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the selection as a new exhibition and clear it",
	Long: `Save archives the current selection as an exhibition with a new id and
the current time, then clears the selection. The selection needs a title
and at least one artwork. Use "selection set --title" first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSelection(cmd, false, func(ctx context.Context, db *storage.Store, sel *selection.Store) error {
			snap, err := sel.Curate(ctx, db, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("saved exhibition %s %q with %d artworks\n", snap.ID, snap.Title, len(snap.Items))
			return nil
		})
	},
}

var exhibitionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved exhibitions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd, func(ctx context.Context, db *storage.Store) error {
			list, err := db.Snapshots(ctx)
			if err != nil {
				return err
			}
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			if len(list) == 0 {
				fmt.Println("No exhibitions saved.")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSAVED\tARTWORKS\tTITLE\tCURATOR")
			for _, snap := range list {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					snap.ID, snap.SavedAt.Local().Format("2006-01-02 15:04"), len(snap.Items),
					snap.Title, valueOr(snap.Curator, "-"))
			}
			return tw.Flush()
		})
	},
}

var exhibitionViewCmd = &cobra.Command{
	Use:   "view <exhibition-id>",
	Short: "Show one exhibition",
	Long: `View prints a saved exhibition with its artworks in curated order. With
--slideshow only artworks that have an image are listed, as they would
appear in a slideshow.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd, func(ctx context.Context, db *storage.Store) error {
			snap, err := db.FindSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			fmt.Printf("%s\n", snap.Title)
			if snap.Curator != "" {
				fmt.Printf("Curated by %s\n", snap.Curator)
			}
			fmt.Printf("Saved %s\n", snap.SavedAt.Local().Format(time.RFC1123))
			if snap.Notes != "" {
				fmt.Printf("\n%s\n", snap.Notes)
			}
			fmt.Println()

			items := snap.Items
			if slideshow, _ := cmd.Flags().GetBool("slideshow"); slideshow {
				items = snap.SlideshowItems()
				if len(items) == 0 {
					fmt.Println("No artworks with images.")
					return nil
				}
			}
			printArtworks(os.Stdout, items)

			if withDesc, _ := cmd.Flags().GetBool("descriptions"); withDesc {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return printDescriptions(ctx, os.Stdout, newAggregator(cfg), items)
			}
			return nil
		})
	},
}

var exhibitionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every saved exhibition to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		dir, _ := cmd.Flags().GetString("dir")
		return withArchive(cmd, func(ctx context.Context, db *storage.Store) error {
			if dir == "" {
				dir = db.DataDir()
			}
			var (
				path string
				err  error
			)
			switch format {
			case "yaml", "yml":
				path, err = db.ExportYAML(ctx, dir)
			case "json":
				path, err = db.ExportJSON(ctx, dir)
			default:
				return fmt.Errorf("unknown export format %q (want yaml or json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", path)
			return nil
		})
	},
}

var exhibitionImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge exhibitions from a YAML file into the archive",
	Long: `Import reads exhibitions written by "export --format yaml", or a single
exhibition, and adds them to the archive. Exhibitions whose id is already
archived are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		return withArchive(cmd, func(ctx context.Context, db *storage.Store) error {
			n, err := db.ImportYAML(ctx, f)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d exhibitions from %s\n", n, args[0])
			return nil
		})
	},
}

func init() {
	exhibitionListCmd.Flags().Bool("json", false, "output exhibitions as JSON")
	exhibitionViewCmd.Flags().Bool("json", false, "output the exhibition as JSON")
	exhibitionViewCmd.Flags().Bool("slideshow", false, "list only artworks with an image")
	exhibitionViewCmd.Flags().Bool("descriptions", false, "fetch and print each artwork's description")
	exhibitionExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exhibitionExportCmd.Flags().String("dir", "", "output directory (default: the data directory)")

	exhibitionCmd.AddCommand(exhibitionSaveCmd, exhibitionListCmd, exhibitionViewCmd,
		exhibitionExportCmd, exhibitionImportCmd)
	rootCmd.AddCommand(exhibitionCmd)
}

// detailer looks up one artwork. *search.Aggregator satisfies it.
type detailer interface {
	Detail(ctx context.Context, key types.ArtworkKey) (types.ArtworkDetail, error)
}

// printDescriptions fetches each artwork's detail record, since saved
// exhibitions hold summaries only. An artwork whose museum cannot be reached
// is reported and skipped.
func printDescriptions(ctx context.Context, w io.Writer, d detailer, items []types.ArtworkSummary) error {
	for _, a := range items {
		detail, err := d.Detail(ctx, a.Key())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("description unavailable", "artwork", a.Key().String(), "error", err)
			continue
		}
		if desc := sanitize.PlainText(sanitize.Description(detail.Description)); desc != "" {
			fmt.Fprintf(w, "\n%s\n%s\n", a.DisplayTitle(), desc)
		}
	}
	return nil
}

// withArchive opens the database without restoring the selection.
func withArchive(cmd *cobra.Command, fn func(context.Context, *storage.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cmd.Context(), db)
}
