package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/curator/pkg/types"
)

// --- mock provider ---

type mockProvider struct {
	key     types.Provider
	results []types.ArtworkSummary
	err     error
	delay   time.Duration
	calls   atomic.Int32
	detail  types.ArtworkDetail
}

func (m *mockProvider) Key() types.Provider { return m.key }

func (m *mockProvider) Search(ctx context.Context, _ string) ([]types.ArtworkSummary, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.results, m.err
}

func (m *mockProvider) Detail(_ context.Context, id string) (types.ArtworkDetail, error) {
	if m.err != nil {
		return types.ArtworkDetail{}, m.err
	}
	d := m.detail
	d.ID = id
	return d, nil
}

func art(p types.Provider, id string) types.ArtworkSummary {
	return types.ArtworkSummary{Provider: p, ID: id, Title: "Art " + id, Image: types.PlaceholderImage}
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    2 * time.Second,
			UserAgent:  "test/0.1",
			MaxRetries: 1,
		},
		PageSize:         24,
		HydrateGroupSize: 8,
	}
}

func ids(results []types.ArtworkSummary) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = string(r.Provider) + ":" + r.ID
	}
	return out
}

// --- Aggregator ---

func TestSearchAllEmptyQuery(t *testing.T) {
	p := &mockProvider{key: types.ProviderAIC}
	agg := NewAggregator(nil, p)

	for _, q := range []string{"", "   ", "\t\n"} {
		out, err := agg.SearchAll(context.Background(), q)
		if err != nil {
			t.Fatalf("SearchAll(%q): %v", q, err)
		}
		if len(out.Results) != 0 {
			t.Errorf("SearchAll(%q) returned %d results, want 0", q, len(out.Results))
		}
	}
	if n := p.calls.Load(); n != 0 {
		t.Errorf("provider called %d times for blank queries, want 0", n)
	}
}

func TestSearchAllNoProviders(t *testing.T) {
	_, err := NewAggregator(nil).SearchAll(context.Background(), "cat")
	if err == nil || !strings.Contains(err.Error(), "no search providers") {
		t.Errorf("expected no providers error, got: %v", err)
	}
}

func TestSearchAllSecondaryFailureContributesNothing(t *testing.T) {
	a := &mockProvider{key: types.ProviderAIC, results: []types.ArtworkSummary{art(types.ProviderAIC, "a1")}}
	b := &mockProvider{key: types.ProviderMet, err: errors.New("HTTP 503")}
	c := &mockProvider{key: types.ProviderVAM, results: []types.ArtworkSummary{art(types.ProviderVAM, "c1")}}

	out, err := NewAggregator(nil, a, b, c).SearchAll(context.Background(), "cat")
	if err != nil {
		t.Fatalf("SearchAll should not fail on a secondary provider: %v", err)
	}
	got := ids(out.Results)
	want := []string{"aic:a1", "vam:c1"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("results = %v, want %v", got, want)
	}
	failed := out.Failed()
	if len(failed) != 1 || failed[0].Provider != types.ProviderMet {
		t.Errorf("Failed() = %+v, want only met", failed)
	}
}

func TestSearchAllPrimaryFailureIsFatal(t *testing.T) {
	a := &mockProvider{key: types.ProviderAIC, err: errors.New("boom")}
	b := &mockProvider{key: types.ProviderMet, results: []types.ArtworkSummary{art(types.ProviderMet, "b1")}}

	out, err := NewAggregator(nil, a, b).SearchAll(context.Background(), "cat")
	if err == nil {
		t.Fatal("expected primary provider failure to propagate")
	}
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Provider != types.ProviderAIC {
		t.Errorf("error = %v, want *ProviderError for aic", err)
	}
	if len(out.Results) != 0 {
		t.Errorf("len(Results) = %d, want 0 on primary failure", len(out.Results))
	}
	if b.calls.Load() != 1 {
		t.Errorf("secondary provider should still have been queried")
	}
}

func TestSearchAllPreservesRegistrationOrder(t *testing.T) {
	// The slowest provider is registered first; its results must still lead.
	a := &mockProvider{key: types.ProviderAIC, delay: 30 * time.Millisecond,
		results: []types.ArtworkSummary{art(types.ProviderAIC, "1"), art(types.ProviderAIC, "2")}}
	b := &mockProvider{key: types.ProviderMet,
		results: []types.ArtworkSummary{art(types.ProviderMet, "1")}}
	c := &mockProvider{key: types.ProviderVAM, delay: 10 * time.Millisecond,
		results: []types.ArtworkSummary{art(types.ProviderVAM, "9"), art(types.ProviderVAM, "3")}}

	out, err := NewAggregator(nil, a, b, c).SearchAll(context.Background(), "cat")
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	want := []string{"aic:1", "aic:2", "met:1", "vam:9", "vam:3"}
	if got := ids(out.Results); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("results = %v, want %v", got, want)
	}
}

func TestSearchAllRunsConcurrently(t *testing.T) {
	var providers []Provider
	for _, k := range types.Providers {
		providers = append(providers, &mockProvider{key: k, delay: 100 * time.Millisecond})
	}

	start := time.Now()
	if _, err := NewAggregator(nil, providers...).SearchAll(context.Background(), "cat"); err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Errorf("SearchAll took %v; providers should run concurrently", elapsed)
	}
}

func TestSearchAllNoCrossProviderDedup(t *testing.T) {
	a := &mockProvider{key: types.ProviderAIC, results: []types.ArtworkSummary{art(types.ProviderAIC, "7")}}
	b := &mockProvider{key: types.ProviderMet, results: []types.ArtworkSummary{art(types.ProviderMet, "7")}}

	out, err := NewAggregator(nil, a, b).SearchAll(context.Background(), "cat")
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if len(out.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2 (same id, different providers)", len(out.Results))
	}
}

func TestAggregatorDetail(t *testing.T) {
	met := &mockProvider{key: types.ProviderMet, detail: types.ArtworkDetail{Repository: "The Met"}}
	agg := NewAggregator(nil, &mockProvider{key: types.ProviderAIC}, met)

	d, err := agg.Detail(context.Background(), types.ArtworkKey{Provider: types.ProviderMet, ID: " 42 "})
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.ID != "42" || d.Repository != "The Met" {
		t.Errorf("Detail = %+v", d)
	}

	_, err = agg.Detail(context.Background(), types.ArtworkKey{Provider: types.ProviderVAM, ID: "1"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Detail for unregistered provider: err = %v, want ErrUnknownProvider", err)
	}

	met.err = errors.New("HTTP 404")
	_, err = agg.Detail(context.Background(), types.ArtworkKey{Provider: types.ProviderMet, ID: "1"})
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Provider != types.ProviderMet {
		t.Errorf("Detail failure: err = %v, want *ProviderError for met", err)
	}
}

// --- Output formatting ---

func TestFormatTable(t *testing.T) {
	out := SearchOutput{
		Results: []types.ArtworkSummary{
			{Provider: types.ProviderAIC, ID: "27992", Title: "A Sunday on La Grande Jatte", Artist: "Georges Seurat", Date: "1884-86", Category: types.CategoryPainting},
			{Provider: types.ProviderVAM, ID: "O1", Title: "Untitled"},
		},
		Outcomes: []Outcome{
			{Provider: types.ProviderAIC},
			{Provider: types.ProviderMet, Err: errors.New("down")},
		},
	}
	var buf bytes.Buffer
	FormatTable(out, &buf)
	s := buf.String()

	for _, want := range []string{"Georges Seurat", "Unknown Artist", "2 results", "unavailable: met", "painting"} {
		if !strings.Contains(s, want) {
			t.Errorf("table missing %q:\n%s", want, s)
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(SearchOutput{}, &buf)
	if strings.TrimSpace(buf.String()) != "No results found." {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(SearchOutput{}, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty output = %q, want []", buf.String())
	}

	buf.Reset()
	out := SearchOutput{Results: []types.ArtworkSummary{art(types.ProviderMet, "1")}}
	if err := FormatJSON(out, &buf); err != nil {
		t.Fatal(err)
	}
	var decoded []types.ArtworkSummary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Key() != (types.ArtworkKey{Provider: types.ProviderMet, ID: "1"}) {
		t.Errorf("decoded = %+v", decoded)
	}
}
