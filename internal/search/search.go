// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries museum collection APIs and normalizes their
// responses into types.ArtworkSummary and types.ArtworkDetail. Each museum is
// a Provider; the Aggregator fans a query out to all of them and merges the
// results in registration order.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/curator/pkg/types"
)

// Provider searches a single museum collection API. Each museum implements
// this interface; the Aggregator depends on nothing else.
type Provider interface {
	Key() types.Provider
	// Search returns normalized summaries in the provider's native order.
	// The query must be non-blank.
	Search(ctx context.Context, query string) ([]types.ArtworkSummary, error)
	// Detail fetches extended fields for one artwork.
	Detail(ctx context.Context, id string) (types.ArtworkDetail, error)
}

var (
	// ErrEmptyQuery is returned when a provider is asked to search for a
	// blank query. Callers are expected to short-circuit before that.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrUnexpectedShape is returned when a response lacks the top-level
	// field the provider is known to return.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrUnknownProvider is returned for a detail lookup against a provider
	// with no registered adapter.
	ErrUnknownProvider = errors.New("no adapter registered for provider")
)

// ProviderError attributes a failure to the provider that caused it.
type ProviderError struct {
	Provider types.Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Outcome is the tagged result of one provider's search: either Results or
// Err is meaningful.
type Outcome struct {
	Provider types.Provider
	Results  []types.ArtworkSummary
	Err      error
	Elapsed  time.Duration
}

// OK reports whether the provider succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// SearchOutput holds the merged results and the per-provider outcomes.
type SearchOutput struct {
	Query    string
	Results  []types.ArtworkSummary
	Outcomes []Outcome
}

// Failed returns the outcomes of providers that failed.
func (o SearchOutput) Failed() []Outcome {
	var out []Outcome
	for _, oc := range o.Outcomes {
		if !oc.OK() {
			out = append(out, oc)
		}
	}
	return out
}

// Aggregator fans a query out to every registered provider. The first
// provider is primary: its failure fails the whole search. Failures of the
// others are logged and contribute no results.
type Aggregator struct {
	Providers []Provider
	Logger    *slog.Logger
}

// NewAggregator returns an Aggregator over providers in priority order.
func NewAggregator(logger *slog.Logger, providers ...Provider) *Aggregator {
	return &Aggregator{Providers: providers, Logger: logger}
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// SearchAll queries all providers concurrently and concatenates their
// results in registration order. There is no cross-provider
// de-duplication: an artwork held by two museums appears twice.
func (a *Aggregator) SearchAll(ctx context.Context, query string) (SearchOutput, error) {
	query = strings.TrimSpace(query)
	out := SearchOutput{Query: query}
	if query == "" {
		return out, nil
	}
	if len(a.Providers) == 0 {
		return out, fmt.Errorf("no search providers configured")
	}

	outcomes := make([]Outcome, len(a.Providers))
	var wg sync.WaitGroup
	for i, p := range a.Providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			start := time.Now()
			results, err := p.Search(ctx, query)
			outcomes[i] = Outcome{
				Provider: p.Key(),
				Results:  results,
				Err:      err,
				Elapsed:  time.Since(start),
			}
		}(i, p)
	}
	wg.Wait()
	out.Outcomes = outcomes

	log := a.logger()
	for i, oc := range outcomes {
		if oc.OK() {
			log.Debug("provider search complete",
				"provider", oc.Provider, "results", len(oc.Results), "elapsed", oc.Elapsed)
			out.Results = append(out.Results, oc.Results...)
			continue
		}
		if i == 0 {
			out.Results = nil
			return out, &ProviderError{Provider: oc.Provider, Err: oc.Err}
		}
		log.Warn("provider search failed", "provider", oc.Provider, "error", oc.Err)
	}
	return out, nil
}

// Detail looks up one artwork through the adapter for its provider. There
// is no fallback provider, so failures are returned to the caller.
func (a *Aggregator) Detail(ctx context.Context, key types.ArtworkKey) (types.ArtworkDetail, error) {
	p, err := ProviderFor(a.Providers, key.Provider)
	if err != nil {
		return types.ArtworkDetail{}, err
	}
	id := strings.TrimSpace(key.ID)
	if id == "" {
		return types.ArtworkDetail{}, fmt.Errorf("artwork id is empty")
	}
	d, err := p.Detail(ctx, id)
	if err != nil {
		return types.ArtworkDetail{}, &ProviderError{Provider: key.Provider, Err: err}
	}
	return d, nil
}

// ProviderFor returns the adapter registered for key.
func ProviderFor(providers []Provider, key types.Provider) (Provider, error) {
	for _, p := range providers {
		if p.Key() == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, key)
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out SearchOutput, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprint(w, "No results found.")
	} else {
		fmt.Fprintf(w, "%-4s  %-4s  %-14s  %-44s  %-24s  %-16s  %s\n",
			"#", "Src", "ID", "Title", "Artist", "Date", "Category")
		fmt.Fprintln(w, strings.Repeat("-", 124))

		for i, r := range out.Results {
			fmt.Fprintf(w, "%-4d  %-4s  %-14s  %-44s  %-24s  %-16s  %s\n",
				i+1, r.Provider, truncate(r.ID, 14), truncate(r.DisplayTitle(), 44),
				truncate(r.DisplayArtist(), 24), truncate(r.Date, 16), r.Category)
		}
		fmt.Fprintf(w, "\n%d results", len(out.Results))
	}

	if failed := out.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = string(f.Provider)
		}
		fmt.Fprintf(w, " (unavailable: %s)", strings.Join(names, ", "))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out SearchOutput, w io.Writer) error {
	results := out.Results
	if results == nil {
		results = []types.ArtworkSummary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
