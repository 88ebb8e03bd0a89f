// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curator/internal/selection"
	"github.com/pdiddy/curator/internal/storage"
	"github.com/pdiddy/curator/pkg/types"
)

var selectionCmd = &cobra.Command{
	Use:     "selection",
	Aliases: []string{"sel"},
	Short:   "Manage the artworks being curated",
	Long: `Selection holds the exhibition in progress: a title, curator, notes, and
an ordered list of artworks. Every change is saved to the data directory
immediately. Artworks are named by provider and id ("aic 27992" or
"aic:27992").`,
}

var selectionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSelection(cmd, false, func(ctx context.Context, _ *storage.Store, sel *selection.Store) error {
			state := sel.State()
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(state)
			}
			printSelection(os.Stdout, state)
			return nil
		})
	},
}

var selectionAddCmd = &cobra.Command{
	Use:   "add <provider> <id>",
	Short: "Fetch an artwork and add it to the front of the selection",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyArgs(args)
		if err != nil {
			return err
		}
		return withSelection(cmd, true, func(ctx context.Context, _ *storage.Store, sel *selection.Store) error {
			if sel.Contains(key) {
				fmt.Printf("%s is already selected\n", key)
				return nil
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := newAggregator(cfg).Detail(ctx, key)
			if err != nil {
				return err
			}
			sel.Add(d.ArtworkSummary)
			fmt.Printf("added %s %q (%d selected)\n", key, d.DisplayTitle(), sel.Len())
			return nil
		})
	},
}

var selectionRemoveCmd = &cobra.Command{
	Use:   "remove <provider> <id>",
	Short: "Remove an artwork from the selection",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyArgs(args)
		if err != nil {
			return err
		}
		return withSelection(cmd, true, func(ctx context.Context, _ *storage.Store, sel *selection.Store) error {
			if !sel.Remove(key) {
				return fmt.Errorf("%s is not in the selection", key)
			}
			fmt.Printf("removed %s (%d selected)\n", key, sel.Len())
			return nil
		})
	},
}

var selectionMoveCmd = &cobra.Command{
	Use:   "move <provider:id> <up|down>",
	Short: "Swap an artwork with its neighbour",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := types.ParseArtworkKey(args[0])
		if err != nil {
			return err
		}
		dir, err := selection.ParseDirection(args[1])
		if err != nil {
			return err
		}
		return withSelection(cmd, true, func(ctx context.Context, _ *storage.Store, sel *selection.Store) error {
			if !sel.Contains(key) {
				return fmt.Errorf("%s is not in the selection", key)
			}
			if !sel.Move(key, dir) {
				fmt.Printf("%s is already at the %s\n", key, map[selection.Direction]string{
					selection.Up: "top", selection.Down: "bottom",
				}[dir])
				return nil
			}
			printSelection(os.Stdout, sel.State())
			return nil
		})
	},
}

var selectionSortCmd = &cobra.Command{
	Use:   "sort <title|artist|date> [asc|desc]",
	Short: "Reorder the selection by a field",
	Long: `Sort reorders the selection by a case-insensitive comparison of the field.
Artworks without a value sort first in ascending order. Artworks with equal
values keep their relative order. The new order replaces the old one.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := selection.ParseSortField(args[0])
		if err != nil {
			return err
		}
		order := selection.Asc
		if len(args) == 2 {
			if order, err = selection.ParseSortOrder(args[1]); err != nil {
				return err
			}
		}
		return withSelection(cmd, true, func(ctx context.Context, _ *storage.Store, sel *selection.Store) error {
			sel.Sort(field, order)
			printSelection(os.Stdout, sel.State())
			return nil
		})
	},
}

var selectionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the selection and its title, curator, and notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSelection(cmd, true, func(ctx context.Context, _ *storage.Store, sel *selection.Store) error {
			sel.Reset()
			fmt.Println("selection cleared")
			return nil
		})
	},
}

var selectionSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the exhibition title, curator, or notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("title") && !flags.Changed("curator") && !flags.Changed("notes") {
			return fmt.Errorf("nothing to set: use --title, --curator, or --notes")
		}
		return withSelection(cmd, true, func(ctx context.Context, _ *storage.Store, sel *selection.Store) error {
			if flags.Changed("title") {
				v, _ := flags.GetString("title")
				sel.SetTitle(v)
			}
			if flags.Changed("curator") {
				v, _ := flags.GetString("curator")
				sel.SetCurator(v)
			}
			if flags.Changed("notes") {
				v, _ := flags.GetString("notes")
				sel.SetNotes(v)
			}
			printSelection(os.Stdout, sel.State())
			return nil
		})
	},
}

var selectionEditCmd = &cobra.Command{
	Use:   "edit <exhibition-id>",
	Short: "Replace the selection with a saved exhibition",
	Long: `Edit loads a saved exhibition into the selection, replacing everything
in it. Saving again creates a new exhibition; the original is unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSelection(cmd, true, func(ctx context.Context, db *storage.Store, sel *selection.Store) error {
			snap, err := db.FindSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			sel.EditSnapshot(snap)
			printSelection(os.Stdout, sel.State())
			return nil
		})
	},
}

func init() {
	selectionShowCmd.Flags().Bool("json", false, "output the selection as JSON")
	selectionSetCmd.Flags().String("title", "", "exhibition title")
	selectionSetCmd.Flags().String("curator", "", "curator name")
	selectionSetCmd.Flags().String("notes", "", "free-text notes")

	selectionCmd.AddCommand(selectionShowCmd, selectionAddCmd, selectionRemoveCmd, selectionMoveCmd,
		selectionSortCmd, selectionResetCmd, selectionSetCmd, selectionEditCmd)
	rootCmd.AddCommand(selectionCmd)
}

// withSelection opens the store, runs fn, and saves the selection afterwards
// when save is set and fn succeeded.
func withSelection(cmd *cobra.Command, save bool, fn func(context.Context, *storage.Store, *selection.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	db, sel, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := fn(ctx, db, sel); err != nil {
		return err
	}
	if save {
		return sel.Save(ctx)
	}
	return nil
}

func printSelection(w io.Writer, state types.SelectionState) {
	fmt.Fprintf(w, "Title:   %s\n", valueOr(state.Title, "(untitled)"))
	fmt.Fprintf(w, "Curator: %s\n", valueOr(state.Curator, "-"))
	if state.Notes != "" {
		fmt.Fprintf(w, "Notes:   %s\n", strings.ReplaceAll(state.Notes, "\n", "\n         "))
	}
	fmt.Fprintln(w)
	printArtworks(w, state.Artworks)
}

func printArtworks(w io.Writer, artworks []types.ArtworkSummary) {
	if len(artworks) == 0 {
		fmt.Fprintln(w, "No artworks selected.")
		return
	}
	for i, a := range artworks {
		fmt.Fprintf(w, "%3d. %-18s %s, %s", i+1, a.Key(), a.DisplayTitle(), a.DisplayArtist())
		if a.Date != "" {
			fmt.Fprintf(w, " (%s)", a.Date)
		}
		fmt.Fprintln(w)
	}
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
