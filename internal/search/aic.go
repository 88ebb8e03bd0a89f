// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/curator/pkg/types"
)

// aicAPIBase is the Art Institute of Chicago artworks endpoint. Declared as
// a var so tests can substitute an httptest server.
var aicAPIBase = "https://api.artic.edu/api/v1/artworks"

// aicImageBase is the AIC IIIF image service.
var aicImageBase = "https://www.artic.edu/iiif/2"

const aicImageWidth = 843

var aicSearchFields = []string{
	"id", "title", "artist_title", "date_display", "image_id", "thumbnail",
	"classification_title",
}

var aicDetailFields = append(append([]string{}, aicSearchFields...),
	"department_title", "credit_line", "is_public_domain", "short_description", "description",
)

// AICProvider queries the Art Institute of Chicago API. Search results
// carry image ids directly, so a single request suffices.
type AICProvider struct {
	f fetcher
}

// NewAICProvider returns an AIC adapter. A nil client uses
// http.DefaultClient.
func NewAICProvider(client *http.Client, cfg types.SearchConfig, logger *slog.Logger) *AICProvider {
	return &AICProvider{f: newFetcher(client, cfg, logger)}
}

// Key returns types.ProviderAIC.
func (p *AICProvider) Key() types.Provider { return types.ProviderAIC }

// Search queries /artworks/search for up to PageSize artworks.
func (p *AICProvider) Search(ctx context.Context, query string) ([]types.ArtworkSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{
		"q":      {query},
		"fields": {strings.Join(aicSearchFields, ",")},
		"limit":  {strconv.Itoa(p.f.cfg.PageSize)},
	}
	reqURL := aicAPIBase + "/search?" + params.Encode()

	var resp aicListResponse
	if err := p.f.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("AIC search: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("AIC search: %w: missing data", ErrUnexpectedShape)
	}

	records := decodeRecords[aicArtwork](resp.Data, func(i int, err error) {
		p.f.logger.Debug("skipping malformed AIC record", "index", i, "error", err)
	})
	results := make([]types.ArtworkSummary, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		results = append(results, rec.summary())
	}
	return results, nil
}

// Detail fetches /artworks/{id} with the extended field list.
func (p *AICProvider) Detail(ctx context.Context, id string) (types.ArtworkDetail, error) {
	id = strings.TrimSpace(id)
	params := url.Values{"fields": {strings.Join(aicDetailFields, ",")}}
	reqURL := aicAPIBase + "/" + url.PathEscape(id) + "?" + params.Encode()

	var resp aicItemResponse
	if err := p.f.getJSON(ctx, reqURL, &resp); err != nil {
		return types.ArtworkDetail{}, fmt.Errorf("AIC detail %s: %w", id, err)
	}
	if isNull(resp.Data) {
		return types.ArtworkDetail{}, fmt.Errorf("AIC detail %s: %w: missing data", id, ErrUnexpectedShape)
	}
	var rec aicArtwork
	if err := json.Unmarshal(resp.Data, &rec); err != nil {
		return types.ArtworkDetail{}, fmt.Errorf("AIC detail %s: %w", id, err)
	}
	if rec.ID == "" {
		rec.ID = text(id)
	}

	return types.ArtworkDetail{
		ArtworkSummary: rec.summary(),
		Description:    firstNonEmpty(rec.ShortDescription.String(), rec.Description.String()),
		CreditLine:     rec.CreditLine.String(),
		License:        license(rec.IsPublicDomain),
		Classification: rec.Classification.String(),
		Repository:     types.ProviderAIC.DisplayName(),
		Department:     rec.Department.String(),
	}, nil
}

func (rec aicArtwork) summary() types.ArtworkSummary {
	var lqip string
	if rec.Thumbnail != nil {
		lqip = rec.Thumbnail.LQIP.String()
	}
	s := types.ArtworkSummary{
		Provider: types.ProviderAIC,
		ID:       rec.ID.String(),
		Title:    rec.Title.String(),
		Artist:   rec.Artist.String(),
		Date:     rec.Date.String(),
		Image:    imageURL(aicImage, rec.ImageID.String(), lqip),
		URL:      "https://www.artic.edu/artworks/" + url.PathEscape(rec.ID.String()),
		Category: categorize(rec.Classification.String()),
	}
	s.Normalize()
	return s
}

// aicImage builds a IIIF URL for an AIC image id.
func aicImage(imageID string) string {
	return fmt.Sprintf("%s/%s/full/%d,/0/default.jpg", aicImageBase, url.PathEscape(imageID), aicImageWidth)
}

func license(publicDomain truthy) types.License {
	if publicDomain {
		return types.LicensePublicDomain
	}
	return ""
}

// AIC API JSON structures.
type aicListResponse struct {
	Data []json.RawMessage `json:"data"`
}

type aicItemResponse struct {
	Data json.RawMessage `json:"data"`
}

type aicArtwork struct {
	ID               text          `json:"id"`
	Title            text          `json:"title"`
	Artist           text          `json:"artist_title"`
	Date             text          `json:"date_display"`
	ImageID          text          `json:"image_id"`
	Thumbnail        *aicThumbnail `json:"thumbnail"`
	Classification   text          `json:"classification_title"`
	Department       text          `json:"department_title"`
	CreditLine       text          `json:"credit_line"`
	IsPublicDomain   truthy        `json:"is_public_domain"`
	ShortDescription text          `json:"short_description"`
	Description      text          `json:"description"`
}

type aicThumbnail struct {
	LQIP text `json:"lqip"`
}

// UnmarshalJSON accepts the documented object or a bare string, which is
// taken as the placeholder itself. Other shapes decode to zero.
func (t *aicThumbnail) UnmarshalJSON(b []byte) error {
	if jsonKind(b) == '"' {
		return json.Unmarshal(b, &t.LQIP)
	}
	type plain aicThumbnail
	decodeObject(b, (*plain)(t))
	return nil
}
