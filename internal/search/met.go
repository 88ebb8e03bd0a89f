// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/curator/internal/ratelimit"
	"github.com/pdiddy/curator/pkg/types"
)

// metAPIBase is the Met collection API root. Declared as a var so tests can
// substitute an httptest server.
var metAPIBase = "https://collectionapi.metmuseum.org/public/collection/v1"

const metObjectPage = "https://www.metmuseum.org/art/collection/search/"

// MetProvider queries the Metropolitan Museum of Art collection API. Its
// search endpoint returns only object ids, and there is no batch object
// endpoint, so search hydrates each id with its own request.
type MetProvider struct {
	f fetcher
}

// NewMetProvider returns a Met adapter throttled to
// cfg.MetRequestsPerSecond.
func NewMetProvider(client *http.Client, cfg types.SearchConfig, logger *slog.Logger) *MetProvider {
	f := newFetcher(client, cfg, logger)
	f.limiter = ratelimit.New(string(types.ProviderMet), f.cfg.MetRequestsPerSecond)
	return &MetProvider{f: f}
}

// Key returns types.ProviderMet.
func (p *MetProvider) Key() types.Provider { return types.ProviderMet }

// Search looks up matching object ids, keeps the first PageSize, and
// hydrates them in groups of HydrateGroupSize. Objects that fail to hydrate
// are dropped.
func (p *MetProvider) Search(ctx context.Context, query string) ([]types.ArtworkSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	ids, err := p.searchIDs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.ArtworkSummary{}, nil
	}

	results, err := hydrate(ctx, ids, p.f.cfg.HydrateGroupSize, p.hydrateSummary, p.f.logger)
	if err != nil {
		return nil, fmt.Errorf("Met search: %w", err)
	}
	return results, nil
}

// searchIDs runs step one of the search. A null objectIDs means no matches;
// a missing objectIDs field is a malformed response.
func (p *MetProvider) searchIDs(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"q":         {query},
		"hasImages": {"true"},
	}
	reqURL := metAPIBase + "/search?" + params.Encode()

	var resp map[string]json.RawMessage
	if err := p.f.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("Met search: %w", err)
	}
	raw, ok := resp["objectIDs"]
	if !ok {
		return nil, fmt.Errorf("Met search: %w: missing objectIDs", ErrUnexpectedShape)
	}
	if isNull(raw) {
		return nil, nil
	}

	var objectIDs []text
	if err := json.Unmarshal(raw, &objectIDs); err != nil {
		return nil, fmt.Errorf("Met search: %w: objectIDs: %v", ErrUnexpectedShape, err)
	}

	ids := make([]string, 0, min(len(objectIDs), p.f.cfg.PageSize))
	for _, id := range objectIDs {
		if len(ids) == p.f.cfg.PageSize {
			break
		}
		if id != "" {
			ids = append(ids, id.String())
		}
	}
	return ids, nil
}

func (p *MetProvider) hydrateSummary(ctx context.Context, id string) (types.ArtworkSummary, error) {
	obj, err := p.object(ctx, id)
	if err != nil {
		return types.ArtworkSummary{}, err
	}
	return obj.summary(id, obj.PrimaryImageSmall.String(), obj.PrimaryImage.String()), nil
}

// Detail fetches /objects/{id}.
func (p *MetProvider) Detail(ctx context.Context, id string) (types.ArtworkDetail, error) {
	id = strings.TrimSpace(id)
	obj, err := p.object(ctx, id)
	if err != nil {
		return types.ArtworkDetail{}, fmt.Errorf("Met detail %s: %w", id, err)
	}

	return types.ArtworkDetail{
		ArtworkSummary: obj.summary(id, obj.PrimaryImage.String(), obj.PrimaryImageSmall.String()),
		Description:    obj.description(),
		CreditLine:     obj.CreditLine.String(),
		License:        license(obj.IsPublicDomain),
		Classification: firstNonEmpty(obj.Classification.String(), obj.ObjectName.String()),
		Repository:     types.ProviderMet.DisplayName(),
		Department:     obj.Department.String(),
	}, nil
}

func (p *MetProvider) object(ctx context.Context, id string) (metObject, error) {
	var obj metObject
	if err := p.f.getJSON(ctx, metAPIBase+"/objects/"+url.PathEscape(id), &obj); err != nil {
		return metObject{}, err
	}
	return obj, nil
}

// summary normalizes the object. The Met serves fully qualified image URLs,
// so the image chain is the preferred URL, the alternate, then the
// placeholder.
func (obj metObject) summary(requestedID, preferred, alternate string) types.ArtworkSummary {
	id := firstNonEmpty(obj.ObjectID.String(), requestedID)
	s := types.ArtworkSummary{
		Provider: types.ProviderMet,
		ID:       id,
		Title:    obj.Title.String(),
		Artist:   obj.ArtistDisplayName.String(),
		Date:     obj.ObjectDate.String(),
		Image:    imageURL(nil, "", preferred, alternate),
		URL:      firstNonEmpty(obj.ObjectURL.String(), metObjectPage+url.PathEscape(id)),
		Category: categorize(firstNonEmpty(obj.Classification.String(), obj.ObjectName.String())),
	}
	s.Normalize()
	return s
}

// description assembles a plain-text description from catalogue fields,
// since the Met API carries no narrative text.
func (obj metObject) description() string {
	fields := []struct {
		label string
		value text
	}{
		{"Medium", obj.Medium},
		{"Dimensions", obj.Dimensions},
		{"Culture", obj.Culture},
		{"Period", obj.Period},
		{"Classification", obj.Classification},
		{"Credit line", obj.CreditLine},
	}
	var parts []string
	for _, f := range fields {
		if f.value != "" {
			parts = append(parts, f.label+": "+f.value.String())
		}
	}
	return strings.Join(parts, " • ")
}

// Met API JSON structures.
type metObject struct {
	ObjectID          text   `json:"objectID"`
	Title             text   `json:"title"`
	ArtistDisplayName text   `json:"artistDisplayName"`
	ObjectDate        text   `json:"objectDate"`
	PrimaryImage      text   `json:"primaryImage"`
	PrimaryImageSmall text   `json:"primaryImageSmall"`
	Classification    text   `json:"classification"`
	ObjectName        text   `json:"objectName"`
	ObjectURL         text   `json:"objectURL"`
	Medium            text   `json:"medium"`
	Dimensions        text   `json:"dimensions"`
	Culture           text   `json:"culture"`
	Period            text   `json:"period"`
	CreditLine        text   `json:"creditLine"`
	Department        text   `json:"department"`
	IsPublicDomain    truthy `json:"isPublicDomain"`
}
