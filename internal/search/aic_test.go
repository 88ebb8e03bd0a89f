// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/curator/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withAICServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	origBase, origImage := aicAPIBase, aicImageBase
	aicAPIBase = ts.URL + "/api/v1/artworks"
	aicImageBase = "https://img.test/iiif/2"
	t.Cleanup(func() { aicAPIBase, aicImageBase = origBase, origImage })
}

func TestAICSearch(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	withAICServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"data": [
			{"id": 27992, "title": "A Sunday on La Grande Jatte", "artist_title": "Georges Seurat",
			 "date_display": "1884-86", "image_id": "2d484387", "classification_title": "painting"},
			{"id": 111, "title": null, "artist_title": null, "image_id": null,
			 "thumbnail": {"lqip": "data:image/gif;base64,R0lGOD"}},
			{"id": 222, "title": "", "image_id": ""},
			{"id": null, "title": "no id"},
			"not an object"
		]}`)
	})

	p := NewAICProvider(nil, testCfg(), nil)
	results, err := p.Search(context.Background(), "  seurat ")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/artworks/search", gotPath)
	assert.Equal(t, "seurat", gotQuery)
	assert.Equal(t, "test/0.1", gotUA)
	require.Len(t, results, 3)

	first := results[0]
	assert.Equal(t, types.ProviderAIC, first.Provider)
	assert.Equal(t, "27992", first.ID)
	assert.Equal(t, "Georges Seurat", first.Artist)
	assert.Equal(t, "https://img.test/iiif/2/2d484387/full/843,/0/default.jpg", first.Image)
	assert.Equal(t, "https://www.artic.edu/artworks/27992", first.URL)
	assert.Equal(t, types.CategoryPainting, first.Category)

	// Missing image id falls back to the low-quality preview.
	assert.Equal(t, "Untitled", results[1].Title)
	assert.Equal(t, "data:image/gif;base64,R0lGOD", results[1].Image)
	assert.Empty(t, results[1].Artist)
	assert.Equal(t, "Unknown Artist", results[1].DisplayArtist())

	// No image at all yields the placeholder.
	assert.Equal(t, types.DefaultTitle, results[2].Title)
	assert.Equal(t, types.PlaceholderImage, results[2].Image)
}

func TestAICSearchMissingData(t *testing.T) {
	withAICServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pagination": {}}`)
	})

	_, err := NewAICProvider(nil, testCfg(), nil).Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestAICSearchHTTPError(t *testing.T) {
	withAICServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := NewAICProvider(nil, testCfg(), nil).Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestAICSearchEmptyQuery(t *testing.T) {
	_, err := NewAICProvider(nil, testCfg(), nil).Search(context.Background(), " ")
	assert.True(t, errors.Is(err, ErrEmptyQuery))
}

func TestAICDetail(t *testing.T) {
	var gotPath, gotFields string
	withAICServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		fmt.Fprint(w, `{"data": {
			"id": 27992, "title": "A Sunday on La Grande Jatte", "artist_title": "Georges Seurat",
			"image_id": "2d484387", "classification_title": "oil on canvas painting",
			"department_title": "Painting and Sculpture of Europe",
			"credit_line": "Helen Birch Bartlett Memorial Collection",
			"is_public_domain": true,
			"short_description": "",
			"description": "<p>Seurat's best-known work.</p>"
		}}`)
	})

	d, err := NewAICProvider(nil, testCfg(), nil).Detail(context.Background(), "27992")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/artworks/27992", gotPath)
	assert.True(t, strings.Contains(gotFields, "credit_line"))
	assert.Equal(t, "27992", d.ID)
	assert.Equal(t, "<p>Seurat's best-known work.</p>", d.Description)
	assert.Equal(t, types.LicensePublicDomain, d.License)
	assert.Equal(t, "Art Institute of Chicago", d.Repository)
	assert.Equal(t, "Painting and Sculpture of Europe", d.Department)
	assert.Equal(t, types.CategoryPainting, d.Category)
}

func TestAICDetailNullData(t *testing.T) {
	withAICServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": null}`)
	})

	_, err := NewAICProvider(nil, testCfg(), nil).Detail(context.Background(), "1")
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestAICSearchOddThumbnailShapes(t *testing.T) {
	withAICServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"id": 1, "title": "String thumbnail", "thumbnail": "x"},
			{"id": 2, "title": "Absent thumbnail"},
			{"id": 3, "thumbnail": ["a", "b"]},
			{"id": 4, "thumbnail": "data:image/gif;base64,R0lGOD"}
		]}`)
	})

	results, err := NewAICProvider(nil, testCfg(), nil).Search(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, types.PlaceholderImage, results[0].Image)
	assert.Equal(t, "2", results[1].ID)
	assert.Equal(t, types.PlaceholderImage, results[2].Image)
	assert.Equal(t, "data:image/gif;base64,R0lGOD", results[3].Image)
}
