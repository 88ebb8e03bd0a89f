// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/curator/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMetServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	orig := metAPIBase
	metAPIBase = ts.URL
	t.Cleanup(func() { metAPIBase = orig })
}

// metObjectJSON renders a minimal object record for id.
func metObjectJSON(id string) string {
	return fmt.Sprintf(`{"objectID": %s, "title": "Object %s", "artistDisplayName": "Artist %s",
		"objectDate": "1900", "primaryImageSmall": "https://images.test/%s-small.jpg",
		"primaryImage": "https://images.test/%s.jpg", "classification": "Glass",
		"objectURL": "https://www.metmuseum.org/art/collection/search/%s"}`, id, id, id, id, id, id)
}

func TestMetSearchDropsFailedHydrations(t *testing.T) {
	withMetServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search":
			assert.Equal(t, "true", r.URL.Query().Get("hasImages"))
			fmt.Fprint(w, `{"total": 3, "objectIDs": [1, 2, 3]}`)
		case r.URL.Path == "/objects/3":
			w.WriteHeader(http.StatusInternalServerError)
		case strings.HasPrefix(r.URL.Path, "/objects/"):
			fmt.Fprint(w, metObjectJSON(strings.TrimPrefix(r.URL.Path, "/objects/")))
		default:
			http.NotFound(w, r)
		}
	})

	results, err := NewMetProvider(nil, testCfg(), nil).Search(context.Background(), "vase")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "2", results[1].ID)

	// Summaries prefer the small image.
	assert.Equal(t, "https://images.test/1-small.jpg", results[0].Image)
	assert.Equal(t, types.CategoryDecorative, results[0].Category)
	assert.Equal(t, types.ProviderMet, results[0].Provider)
}

func TestMetSearchCapsAtPageSize(t *testing.T) {
	var objectCalls atomic.Int32
	withMetServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			ids := make([]string, 40)
			for i := range ids {
				ids[i] = fmt.Sprint(i + 1)
			}
			fmt.Fprintf(w, `{"total": 40, "objectIDs": [%s]}`, strings.Join(ids, ","))
			return
		}
		objectCalls.Add(1)
		fmt.Fprint(w, metObjectJSON(strings.TrimPrefix(r.URL.Path, "/objects/")))
	})

	cfg := testCfg()
	cfg.PageSize = 10
	cfg.HydrateGroupSize = 3
	results, err := NewMetProvider(nil, cfg, nil).Search(context.Background(), "vase")
	require.NoError(t, err)

	require.Len(t, results, 10)
	assert.Equal(t, int32(10), objectCalls.Load())
	for i, r := range results {
		assert.Equal(t, fmt.Sprint(i+1), r.ID, "result %d out of order", i)
	}
}

func TestMetSearchNullObjectIDs(t *testing.T) {
	withMetServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total": 0, "objectIDs": null}`)
	})

	results, err := NewMetProvider(nil, testCfg(), nil).Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMetSearchMissingObjectIDs(t *testing.T) {
	withMetServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message": "Not a valid search"}`)
	})

	_, err := NewMetProvider(nil, testCfg(), nil).Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestMetDetail(t *testing.T) {
	withMetServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/objects/436535", r.URL.Path)
		fmt.Fprint(w, `{"objectID": 436535, "title": "Wheat Field with Cypresses",
			"artistDisplayName": "Vincent van Gogh", "objectDate": "1889",
			"primaryImage": "https://images.test/full.jpg", "primaryImageSmall": "https://images.test/small.jpg",
			"classification": "Paintings", "medium": "Oil on canvas", "dimensions": "28 3/4 × 36 3/4 in.",
			"creditLine": "Purchase, The Annenberg Foundation Gift, 1993", "department": "European Paintings",
			"isPublicDomain": true, "objectURL": ""}`)
	})

	d, err := NewMetProvider(nil, testCfg(), nil).Detail(context.Background(), "436535")
	require.NoError(t, err)

	// Detail prefers the full-size image.
	assert.Equal(t, "https://images.test/full.jpg", d.Image)
	assert.Equal(t, "https://www.metmuseum.org/art/collection/search/436535", d.URL)
	assert.Equal(t, types.LicensePublicDomain, d.License)
	assert.Equal(t, "European Paintings", d.Department)
	assert.Equal(t, "The Metropolitan Museum of Art", d.Repository)
	assert.Equal(t, types.CategoryPainting, d.Category)
	assert.Contains(t, d.Description, "Medium: Oil on canvas")
	assert.Contains(t, d.Description, " • Dimensions: ")
	assert.NotContains(t, d.Description, "Culture")
}

func TestMetDetailNoImages(t *testing.T) {
	withMetServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"objectID": 9, "title": "", "primaryImage": "", "primaryImageSmall": ""}`)
	})

	d, err := NewMetProvider(nil, testCfg(), nil).Detail(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTitle, d.Title)
	assert.Equal(t, types.PlaceholderImage, d.Image)
	assert.Empty(t, d.License)
}
