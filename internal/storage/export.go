// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curator/pkg/types"
)

const (
	exportYAMLFile = "exhibitions.yaml"
	exportJSONFile = "exhibitions.json"
)

// ExportYAML writes the archive to dir/exhibitions.yaml and returns the
// path written.
func (s *Store) ExportYAML(ctx context.Context, dir string) (string, error) {
	list, err := s.Snapshots(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	data, err := yaml.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(dir, exportYAMLFile, data)
}

// ExportJSON writes the archive to dir/exhibitions.json and returns the
// path written.
func (s *Store) ExportJSON(ctx context.Context, dir string) (string, error) {
	list, err := s.Snapshots(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(dir, exportJSONFile, data)
}

func writeExport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ImportYAML reads snapshots from r and merges them into the archive. The
// document may hold a single snapshot or a list, as written by ExportYAML.
// Snapshots whose id is already archived are skipped; snapshots without an
// id are assigned one. It returns the number imported.
func (s *Store) ImportYAML(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading import: %w", err)
	}
	incoming, err := parseSnapshots(data)
	if err != nil {
		return 0, err
	}

	var imported int
	err = s.update(ctx, SnapshotsKey, func(old []byte, ok bool) ([]byte, error) {
		var list []types.Snapshot
		if ok {
			if err := json.Unmarshal(old, &list); err != nil {
				return nil, fmt.Errorf("%s: %w: %v", SnapshotsKey, ErrCorrupt, err)
			}
		}
		seen := make(map[string]bool, len(list))
		for _, snap := range list {
			seen[snap.ID] = true
		}

		for _, snap := range incoming {
			if snap.ID == "" {
				snap.ID = uuid.NewString()
			}
			if seen[snap.ID] {
				continue
			}
			seen[snap.ID] = true
			list = append(list, normalizeSnapshot(snap))
			imported++
		}

		sort.SliceStable(list, func(i, j int) bool {
			return list[i].SavedAt.After(list[j].SavedAt)
		})
		return json.Marshal(list)
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

func parseSnapshots(data []byte) ([]types.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("import is empty")
	}

	var list []types.Snapshot
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var single types.Snapshot
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parsing import: %w", err)
	}
	return []types.Snapshot{single}, nil
}

func normalizeSnapshot(snap types.Snapshot) types.Snapshot {
	snap.Title = strings.TrimSpace(snap.Title)
	snap.Curator = strings.TrimSpace(snap.Curator)
	snap.Notes = strings.TrimSpace(snap.Notes)
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	items := make([]types.ArtworkSummary, len(snap.Items))
	for i, it := range snap.Items {
		it.Normalize()
		items[i] = it
	}
	snap.Items = items
	return snap
}
