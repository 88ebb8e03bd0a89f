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

// vamAPIBase is the V&A collections API root. Declared as a var so tests can
// substitute an httptest server.
var vamAPIBase = "https://api.vam.ac.uk/v2"

// vamImageBase is the V&A IIIF image service.
var vamImageBase = "https://framemark.vam.ac.uk/collections"

const (
	vamImageWidth = 800
	vamItemPage   = "https://collections.vam.ac.uk/item/"
)

// VAMProvider queries the Victoria and Albert Museum API. Record shapes vary
// between endpoints and API revisions, so every field is read through a
// fallback chain.
type VAMProvider struct {
	f fetcher
}

// NewVAMProvider returns a V&A adapter. When cfg.VAMAPIKey is set it is
// sent as X-API-Key.
func NewVAMProvider(client *http.Client, cfg types.SearchConfig, logger *slog.Logger) *VAMProvider {
	f := newFetcher(client, cfg, logger)
	if cfg.VAMAPIKey != "" {
		f.header.Set("X-API-Key", cfg.VAMAPIKey)
	}
	return &VAMProvider{f: f}
}

// Key returns types.ProviderVAM.
func (p *VAMProvider) Key() types.Provider { return types.ProviderVAM }

// Search queries /objects/search. Results are read from records, falling
// back to data.
func (p *VAMProvider) Search(ctx context.Context, query string) ([]types.ArtworkSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{
		"q":         {query},
		"page_size": {strconv.Itoa(p.f.cfg.PageSize)},
	}
	reqURL := vamAPIBase + "/objects/search?" + params.Encode()

	var resp vamSearchResponse
	if err := p.f.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("V&A search: %w", err)
	}
	raw := resp.Records
	if raw == nil {
		raw = resp.Data
	}
	if raw == nil {
		return nil, fmt.Errorf("V&A search: %w: missing records", ErrUnexpectedShape)
	}

	results := make([]types.ArtworkSummary, 0, len(raw))
	for i, r := range raw {
		var rec vamRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			p.f.logger.Debug("skipping malformed V&A record", "index", i, "error", err)
			continue
		}
		s := rec.summary()
		if s.ID == "" {
			s.ID = "vam-" + strconv.Itoa(i)
		}
		results = append(results, s)
	}
	return results, nil
}

// Detail fetches /museumobject/{systemNumber}. The record is read from
// record, then data, then the bare body.
func (p *VAMProvider) Detail(ctx context.Context, id string) (types.ArtworkDetail, error) {
	id = strings.TrimSpace(id)
	reqURL := vamAPIBase + "/museumobject/" + url.PathEscape(id)

	var body json.RawMessage
	if err := p.f.getJSON(ctx, reqURL, &body); err != nil {
		return types.ArtworkDetail{}, fmt.Errorf("V&A detail %s: %w", id, err)
	}

	var wrapper vamDetailResponse
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return types.ArtworkDetail{}, fmt.Errorf("V&A detail %s: %w: %v", id, ErrUnexpectedShape, err)
	}
	raw := body
	switch {
	case !isNull(wrapper.Record):
		raw = wrapper.Record
	case !isNull(wrapper.Data):
		raw = wrapper.Data
	}

	var rec vamRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return types.ArtworkDetail{}, fmt.Errorf("V&A detail %s: %w", id, err)
	}

	s := rec.summary()
	if s.ID == "" {
		s.ID = id
	}
	return types.ArtworkDetail{
		ArtworkSummary: s,
		Description: firstNonEmpty(rec.SummaryDescriptionAlt.String(), rec.SummaryDescription.String(),
			rec.Description.String()),
		CreditLine:     rec.CreditLine.String(),
		Classification: firstNonEmpty(rec.ObjectType.String(), rec.Classification.String()),
		Repository:     types.ProviderVAM.DisplayName(),
		Department:     rec.Department.String(),
	}, nil
}

func (rec vamRecord) summary() types.ArtworkSummary {
	systemNumber := rec.SystemNumber.String()
	id := firstNonEmpty(systemNumber, rec.ID.String())

	var pageURL string
	if systemNumber != "" {
		pageURL = vamItemPage + url.PathEscape(systemNumber)
	}
	var selfLink string
	if rec.Links != nil && rec.Links.Self != nil {
		selfLink = rec.Links.Self.Href.String()
	}

	s := types.ArtworkSummary{
		Provider: types.ProviderVAM,
		ID:       id,
		Title:    firstNonEmpty(rec.PrimaryTitle.String(), rec.Title.String(), rec.firstTitle()),
		Artist:   firstNonEmpty(rec.primaryMaker(), rec.Maker.String()),
		Date:     firstNonEmpty(rec.PrimaryDate.String(), rec.DateText.String()),
		Image:    imageURL(vamImage, rec.imageID(), append(rec.Images.fallbacks(), rec.Image.String())...),
		URL:      firstNonEmpty(pageURL, selfLink, rec.Link.String()),
		Category: categorize(firstNonEmpty(rec.ObjectType.String(), rec.Category.String())),
	}
	s.Normalize()
	return s
}

// imageID walks every field the V&A has used for the primary image id.
func (rec vamRecord) imageID() string {
	chain := []string{
		rec.PrimaryImageIDAlt.String(),
		rec.PrimaryImageID.String(),
		rec.PrimaryImageIDSnake.String(),
	}
	if rec.PrimaryImage != nil {
		chain = append(chain, rec.PrimaryImage.ID.String(), rec.PrimaryImage.AssetID.String())
	}
	if len(rec.ImageRefs) > 0 {
		chain = append(chain, rec.ImageRefs[0].ID.String(), rec.ImageRefs[0].AssetID.String())
	}
	return firstNonEmpty(chain...)
}

func (rec vamRecord) primaryMaker() string {
	if rec.PrimaryMaker == nil {
		return ""
	}
	return rec.PrimaryMaker.Name.String()
}

func (rec vamRecord) firstTitle() string {
	for _, t := range rec.Titles {
		if t.Title != "" {
			return t.Title.String()
		}
	}
	return ""
}

// vamImage builds a IIIF URL for a V&A image id.
func vamImage(imageID string) string {
	return fmt.Sprintf("%s/%s/full/%d,/0/default.jpg", vamImageBase, url.PathEscape(imageID), vamImageWidth)
}

// vamImages holds the _images field, which is an array of image variants in
// some API revisions and an object of preformatted URLs in others.
type vamImages struct {
	variants lenientList[vamImageVariant]
	urls     vamImageURLs
}

func (v *vamImages) UnmarshalJSON(b []byte) error {
	switch jsonKind(b) {
	case '[':
		return json.Unmarshal(b, &v.variants)
	case '{':
		decodeObject(b, &v.urls)
	}
	return nil
}

// fallbacks lists the lower-resolution image URLs in priority order.
func (v vamImages) fallbacks() []string {
	var out []string
	if len(v.variants) > 0 {
		first := v.variants[0]
		if first.Sizes != nil && first.Sizes.Large != nil {
			out = append(out, first.Sizes.Large.Src.String())
		}
		out = append(out, first.URL.String())
	}
	return append(out, v.urls.PrimaryThumbnail.String())
}

// V&A API JSON structures.
type vamSearchResponse struct {
	Records []json.RawMessage `json:"records"`
	Data    []json.RawMessage `json:"data"`
}

type vamDetailResponse struct {
	Record json.RawMessage `json:"record"`
	Data   json.RawMessage `json:"data"`
}

type vamRecord struct {
	ID                  text                     `json:"id"`
	SystemNumber        text                     `json:"systemNumber"`
	PrimaryImageIDAlt   text                     `json:"_primaryImageId"`
	PrimaryImageID      text                     `json:"primaryImageId"`
	PrimaryImageIDSnake text                     `json:"primary_image_id"`
	PrimaryImage        *vamImageRef             `json:"_primaryImage"`
	ImageRefs           lenientList[vamImageRef] `json:"images"`
	Images              vamImages                `json:"_images"`
	Image               text                     `json:"image"`
	PrimaryTitle        text                     `json:"_primaryTitle"`
	Title               text                     `json:"title"`
	Titles              lenientList[vamTitle]    `json:"titles"`
	PrimaryMaker        *vamMaker                `json:"_primaryMaker"`
	Maker               text                     `json:"maker"`
	PrimaryDate         text                     `json:"_primaryDate"`
	DateText            text                     `json:"date_text"`
	Links               *vamLinks                `json:"_links"`
	Link                text                     `json:"link"`
	ObjectType          text                     `json:"objectType"`
	Category            text                     `json:"category"`

	SummaryDescriptionAlt text `json:"_summaryDescription"`
	SummaryDescription    text `json:"summaryDescription"`
	Description           text `json:"description"`
	CreditLine            text `json:"creditLine"`
	Classification        text `json:"classification"`
	Department            text `json:"department"`
}

// The nested V&A types below accept their documented object form or a bare
// string, which is read as the one value that matters (an image id, a name,
// a title, a URL). Any other shape decodes to zero.

type vamImageRef struct {
	ID      text `json:"id"`
	AssetID text `json:"asset_id"`
}

func (r *vamImageRef) UnmarshalJSON(b []byte) error {
	if jsonKind(b) == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	type plain vamImageRef
	decodeObject(b, (*plain)(r))
	return nil
}

type vamImageVariant struct {
	Sizes *vamImageSizes `json:"sizes"`
	URL   text           `json:"url"`
}

func (v *vamImageVariant) UnmarshalJSON(b []byte) error {
	if jsonKind(b) == '"' {
		return json.Unmarshal(b, &v.URL)
	}
	type plain vamImageVariant
	decodeObject(b, (*plain)(v))
	return nil
}

type vamImageSizes struct {
	Large *vamImageSize `json:"large"`
}

func (s *vamImageSizes) UnmarshalJSON(b []byte) error {
	type plain vamImageSizes
	decodeObject(b, (*plain)(s))
	return nil
}

type vamImageSize struct {
	Src text `json:"src"`
}

func (s *vamImageSize) UnmarshalJSON(b []byte) error {
	if jsonKind(b) == '"' {
		return json.Unmarshal(b, &s.Src)
	}
	type plain vamImageSize
	decodeObject(b, (*plain)(s))
	return nil
}

type vamImageURLs struct {
	PrimaryThumbnail text `json:"_primary_thumbnail"`
}

type vamMaker struct {
	Name text `json:"name"`
}

func (m *vamMaker) UnmarshalJSON(b []byte) error {
	if jsonKind(b) == '"' {
		return json.Unmarshal(b, &m.Name)
	}
	type plain vamMaker
	decodeObject(b, (*plain)(m))
	return nil
}

type vamTitle struct {
	Title text `json:"title"`
}

func (t *vamTitle) UnmarshalJSON(b []byte) error {
	if jsonKind(b) == '"' {
		return json.Unmarshal(b, &t.Title)
	}
	type plain vamTitle
	decodeObject(b, (*plain)(t))
	return nil
}

type vamLinks struct {
	Self *vamLink `json:"self"`
}

func (l *vamLinks) UnmarshalJSON(b []byte) error {
	type plain vamLinks
	decodeObject(b, (*plain)(l))
	return nil
}

type vamLink struct {
	Href text `json:"href"`
}

func (l *vamLink) UnmarshalJSON(b []byte) error {
	if jsonKind(b) == '"' {
		return json.Unmarshal(b, &l.Href)
	}
	type plain vamLink
	decodeObject(b, (*plain)(l))
	return nil
}
