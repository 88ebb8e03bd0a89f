// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection holds the exhibition being curated: an ordered,
// deduplicated list of artworks plus title, curator, and notes. The Store
// is an explicit object; persistence goes through a Persister handed to
// Open, and nothing is saved until Save is called.
package selection

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/curator/pkg/types"
)

var (
	// ErrLoadFailed wraps any failure to restore persisted state. The store
	// returned alongside it is empty and usable.
	ErrLoadFailed = errors.New("failed to load selection")

	// ErrNotCuratable is returned by Curate when the selection has no title
	// or no artworks.
	ErrNotCuratable = errors.New("an exhibition needs a title and at least one artwork")
)

// Direction is the direction of a Move.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// SortField is an artwork field the selection can be sorted by.
type SortField string

const (
	SortTitle  SortField = "title"
	SortArtist SortField = "artist"
	SortDate   SortField = "date"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseDirection converts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction %q (want up or down)", s)
}

// ParseSortField converts "title", "artist", or "date".
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortTitle, SortArtist, SortDate:
		return f, nil
	}
	return "", fmt.Errorf("invalid sort field %q (want title, artist, or date)", s)
}

// ParseSortOrder converts "asc" or "desc".
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case Asc, Desc:
		return o, nil
	}
	return "", fmt.Errorf("invalid sort order %q (want asc or desc)", s)
}

// Persister loads and saves the selection state.
type Persister interface {
	LoadSelection(ctx context.Context) (types.SelectionState, error)
	SaveSelection(ctx context.Context, state types.SelectionState) error
}

// Archive receives snapshots written by Curate.
type Archive interface {
	AppendSnapshot(ctx context.Context, snap types.Snapshot) error
}

// Store is the selection being curated. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	state     types.SelectionState
	persister Persister
}

// New returns an empty store with no persistence.
func New() *Store {
	return &Store{state: emptyState()}
}

// Open restores the store from p. When the persisted state cannot be
// loaded, Open returns an empty store together with an error wrapping
// ErrLoadFailed; the store is still bound to p.
func Open(ctx context.Context, p Persister) (*Store, error) {
	s := &Store{state: emptyState(), persister: p}
	if p == nil {
		return s, nil
	}
	state, err := p.LoadSelection(ctx)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	s.state = cloneState(state)
	return s, nil
}

// Save writes the full state through the persister. Each save replaces the
// previous state wholesale. A store without a persister saves nothing.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveSelection(ctx, cloneState(s.state)); err != nil {
		return fmt.Errorf("saving selection: %w", err)
	}
	return nil
}

// State returns a copy of the current state.
func (s *Store) State() types.SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Len returns the number of artworks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Artworks)
}

// Contains reports whether an artwork with key is selected.
func (s *Store) Contains(key types.ArtworkKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(key) >= 0
}

func (s *Store) indexOf(key types.ArtworkKey) int {
	return slices.IndexFunc(s.state.Artworks, func(a types.ArtworkSummary) bool {
		return a.Key() == key
	})
}

// Add inserts a at the front. Adding an artwork whose compound key is
// already selected changes nothing. It reports whether a was added.
func (s *Store) Add(a types.ArtworkSummary) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(a.Key()) >= 0 {
		return false
	}
	s.state.Artworks = slices.Insert(s.state.Artworks, 0, a)
	return true
}

// Remove deletes the artwork with key. It reports whether one was removed.
func (s *Store) Remove(key types.ArtworkKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(key)
	if i < 0 {
		return false
	}
	s.state.Artworks = slices.Delete(s.state.Artworks, i, i+1)
	return true
}

// Move swaps the artwork with key and its neighbour in direction d. Moving
// the first artwork up or the last artwork down does nothing. It reports
// whether the order changed.
func (s *Store) Move(key types.ArtworkKey, d Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(key)
	if i < 0 {
		return false
	}

	j := i
	switch d {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	}
	if j == i || j < 0 || j >= len(s.state.Artworks) {
		return false
	}
	art := s.state.Artworks
	art[i], art[j] = art[j], art[i]
	return true
}

// Sort reorders the artworks by a case-insensitive comparison of field.
// Absent values compare as "". The sort is stable and the new order
// replaces the old one.
func (s *Store) Sort(field SortField, order SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := sortValue(field)
	sign := 1
	if order == Desc {
		sign = -1
	}
	slices.SortStableFunc(s.state.Artworks, func(a, b types.ArtworkSummary) int {
		return sign * cmp.Compare(value(a), value(b))
	})
}

func sortValue(field SortField) func(types.ArtworkSummary) string {
	switch field {
	case SortArtist:
		return func(a types.ArtworkSummary) string { return strings.ToLower(a.Artist) }
	case SortDate:
		return func(a types.ArtworkSummary) string { return strings.ToLower(a.Date) }
	}
	return func(a types.ArtworkSummary) string { return strings.ToLower(a.Title) }
}

// Reset clears the metadata and the artworks.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = emptyState()
}

func (s *Store) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Title = title
}

func (s *Store) SetCurator(curator string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Curator = curator
}

func (s *Store) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notes = notes
}

// Replace loads state wholesale. Nothing from the previous state is kept.
func (s *Store) Replace(state types.SelectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cloneState(state)
}

// EditSnapshot replaces the selection with a saved exhibition so it can be
// revised and saved again as a new snapshot.
func (s *Store) EditSnapshot(snap types.Snapshot) {
	s.Replace(types.SelectionState{
		Title:    snap.Title,
		Curator:  snap.Curator,
		Notes:    snap.Notes,
		Artworks: snap.Items,
	})
}

// Curate saves the selection as an exhibition snapshot, then resets and
// persists the store. The selection must have a non-blank title and at
// least one artwork. If the archive write fails the selection is left
// untouched.
func (s *Store) Curate(ctx context.Context, archive Archive, now time.Time) (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSpace(s.state.Title)
	if title == "" || len(s.state.Artworks) == 0 {
		return types.Snapshot{}, ErrNotCuratable
	}

	snap := types.Snapshot{
		ID:      uuid.NewString(),
		Title:   title,
		Curator: strings.TrimSpace(s.state.Curator),
		Notes:   strings.TrimSpace(s.state.Notes),
		Items:   slices.Clone(s.state.Artworks),
		SavedAt: now.UTC(),
	}
	if err := archive.AppendSnapshot(ctx, snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("writing snapshot: %w", err)
	}

	s.state = emptyState()
	if err := s.saveLocked(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

func emptyState() types.SelectionState {
	return types.SelectionState{Artworks: []types.ArtworkSummary{}}
}

func cloneState(state types.SelectionState) types.SelectionState {
	state.Artworks = slices.Clone(state.Artworks)
	if state.Artworks == nil {
		state.Artworks = []types.ArtworkSummary{}
	}
	return state
}
