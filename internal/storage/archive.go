// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/curator/pkg/types"
)

// selectionEnvelope is the stored form of the selection state. The version
// field lets a future layout change migrate old documents.
type selectionEnvelope struct {
	State   types.SelectionState `json:"state"`
	Version int                  `json:"version"`
}

const selectionVersion = 0

// LoadSelection reads the persisted selection state. A missing key yields an
// empty state; a document that does not decode yields ErrCorrupt.
func (s *Store) LoadSelection(ctx context.Context) (types.SelectionState, error) {
	data, err := s.Get(ctx, SelectionKey)
	if errors.Is(err, ErrNotFound) {
		return types.SelectionState{Artworks: []types.ArtworkSummary{}}, nil
	}
	if err != nil {
		return types.SelectionState{}, err
	}

	var env selectionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return types.SelectionState{}, fmt.Errorf("%s: %w: %v", SelectionKey, ErrCorrupt, err)
	}
	if env.State.Artworks == nil {
		env.State.Artworks = []types.ArtworkSummary{}
	}
	return env.State, nil
}

// SaveSelection replaces the persisted selection state.
func (s *Store) SaveSelection(ctx context.Context, state types.SelectionState) error {
	if state.Artworks == nil {
		state.Artworks = []types.ArtworkSummary{}
	}
	data, err := json.Marshal(selectionEnvelope{State: state, Version: selectionVersion})
	if err != nil {
		return fmt.Errorf("marshaling selection: %w", err)
	}
	return s.Put(ctx, SelectionKey, data)
}

// AppendSnapshot adds snap to the front of the archive, so the archive is
// always ordered newest first. Existing snapshots are never modified.
func (s *Store) AppendSnapshot(ctx context.Context, snap types.Snapshot) error {
	return s.update(ctx, SnapshotsKey, func(old []byte, ok bool) ([]byte, error) {
		var list []types.Snapshot
		if ok {
			if err := json.Unmarshal(old, &list); err != nil {
				return nil, fmt.Errorf("%s: %w: %v", SnapshotsKey, ErrCorrupt, err)
			}
		}
		for _, existing := range list {
			if existing.ID == snap.ID {
				return nil, fmt.Errorf("snapshot %s already exists", snap.ID)
			}
		}
		list = append([]types.Snapshot{snap}, list...)

		data, err := json.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("marshaling snapshots: %w", err)
		}
		return data, nil
	})
}

// Snapshots returns the archive, newest first.
func (s *Store) Snapshots(ctx context.Context) ([]types.Snapshot, error) {
	data, err := s.Get(ctx, SnapshotsKey)
	if errors.Is(err, ErrNotFound) {
		return []types.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []types.Snapshot
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", SnapshotsKey, ErrCorrupt, err)
	}
	if list == nil {
		list = []types.Snapshot{}
	}
	return list, nil
}

// FindSnapshot returns the snapshot with the given id, or ErrNotFound.
func (s *Store) FindSnapshot(ctx context.Context, id string) (types.Snapshot, error) {
	list, err := s.Snapshots(ctx)
	if err != nil {
		return types.Snapshot{}, err
	}
	for _, snap := range list {
		if snap.ID == id {
			return snap, nil
		}
	}
	return types.Snapshot{}, fmt.Errorf("exhibition %s: %w", id, ErrNotFound)
}
