// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the normalized artwork schema shared by the provider
// adapters, the selection store, and the exhibition archive.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies one museum collection API. The set is closed: adding a
// provider means adding an adapter in internal/search.
type Provider string

const (
	ProviderAIC Provider = "aic"
	ProviderMet Provider = "met"
	ProviderVAM Provider = "vam"
)

// Providers lists every known provider in priority order.
var Providers = []Provider{ProviderAIC, ProviderMet, ProviderVAM}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderAIC, ProviderMet, ProviderVAM:
		return true
	}
	return false
}

// ParseProvider converts a user-supplied string into a Provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown provider %q (want one of aic, met, vam)", s)
	}
	return p, nil
}

// DisplayName returns the human-readable repository name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderAIC:
		return "Art Institute of Chicago"
	case ProviderMet:
		return "The Metropolitan Museum of Art"
	case ProviderVAM:
		return "Victoria and Albert Museum"
	}
	return strings.ToUpper(string(p))
}

// TermsURL returns the provider's image and data usage terms, if known.
func (p Provider) TermsURL() string {
	switch p {
	case ProviderAIC:
		return "https://www.artic.edu/terms"
	case ProviderMet:
		return "https://www.metmuseum.org/about-the-met/policies-and-documents/image-resources"
	case ProviderVAM:
		return "https://developers.vam.ac.uk/guide/v2/terms.html"
	}
	return ""
}

// Category is a coarse, best-effort classification. The zero value means
// the provider's classification text matched nothing.
type Category string

const (
	CategoryPainting    Category = "painting"
	CategoryPhotography Category = "photography"
	CategoryDecorative  Category = "decorative"
)

// License is the usage license of an artwork. Only public domain is
// recognised; the zero value means unknown.
type License string

const LicensePublicDomain License = "public-domain"

// Display defaults for absent fields.
const (
	DefaultTitle     = "Untitled"
	DefaultArtist    = "Unknown Artist"
	PlaceholderImage = "/placeholder.svg"
)

// ArtworkKey is the compound identity of an artwork. IDs are only unique
// within a provider, so the pair is the only reliable key.
type ArtworkKey struct {
	Provider Provider `json:"provider" yaml:"provider"`
	ID       string   `json:"id" yaml:"id"`
}

// String renders the key as "provider:id".
func (k ArtworkKey) String() string {
	return string(k.Provider) + ":" + k.ID
}

// ParseArtworkKey parses a "provider:id" string.
func ParseArtworkKey(s string) (ArtworkKey, error) {
	prov, id, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(id) == "" {
		return ArtworkKey{}, fmt.Errorf("invalid artwork key %q: want provider:id", s)
	}
	p, err := ParseProvider(prov)
	if err != nil {
		return ArtworkKey{}, err
	}
	return ArtworkKey{Provider: p, ID: strings.TrimSpace(id)}, nil
}

// ArtworkSummary is the provider-agnostic unit returned by searches and held
// in the selection store.
type ArtworkSummary struct {
	Provider Provider `json:"provider" yaml:"provider"`

	// ID is unique only within Provider.
	ID string `json:"id" yaml:"id"`

	Title  string `json:"title" yaml:"title"`
	Artist string `json:"artist,omitempty" yaml:"artist,omitempty"`
	Date   string `json:"date,omitempty" yaml:"date,omitempty"`

	// Image is a fully qualified, directly loadable URL or PlaceholderImage.
	Image string `json:"image" yaml:"image"`

	// URL links to the artwork's page on the provider's site.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Key returns the compound identity of the artwork.
func (a ArtworkSummary) Key() ArtworkKey {
	return ArtworkKey{Provider: a.Provider, ID: a.ID}
}

// Normalize fills the fields every renderer dereferences with their defaults.
func (a *ArtworkSummary) Normalize() {
	a.Title = a.DisplayTitle()
	a.Image = a.DisplayImage()
}

// DisplayTitle returns the title or DefaultTitle.
func (a ArtworkSummary) DisplayTitle() string {
	if strings.TrimSpace(a.Title) == "" {
		return DefaultTitle
	}
	return a.Title
}

// DisplayArtist returns the artist or DefaultArtist.
func (a ArtworkSummary) DisplayArtist() string {
	if strings.TrimSpace(a.Artist) == "" {
		return DefaultArtist
	}
	return a.Artist
}

// DisplayImage returns the image URL or PlaceholderImage.
func (a ArtworkSummary) DisplayImage() string {
	if strings.TrimSpace(a.Image) == "" {
		return PlaceholderImage
	}
	return a.Image
}

// HasUsableImage reports whether the artwork has a real image rather than a
// placeholder. Slideshows skip artworks without one.
func (a ArtworkSummary) HasUsableImage() bool {
	img := strings.ToLower(strings.TrimSpace(a.Image))
	switch {
	case img == "":
		return false
	case strings.Contains(img, "placeholder.svg"):
		return false
	case strings.HasPrefix(img, "data:image/svg"):
		return false
	}
	return true
}

// ArtworkDetail extends a summary with the fields shown on a detail view.
type ArtworkDetail struct {
	ArtworkSummary `yaml:",inline"`

	// Description may contain provider markup and must be sanitized before
	// it is rendered as HTML.
	Description    string  `json:"description,omitempty" yaml:"description,omitempty"`
	CreditLine     string  `json:"creditLine,omitempty" yaml:"credit_line,omitempty"`
	License        License `json:"license,omitempty" yaml:"license,omitempty"`
	Classification string  `json:"classification,omitempty" yaml:"classification,omitempty"`
	Repository     string  `json:"repository" yaml:"repository"`
	Department     string  `json:"department,omitempty" yaml:"department,omitempty"`
}

// Snapshot is an immutable saved copy of a curated exhibition.
type Snapshot struct {
	ID      string           `json:"id" yaml:"id"`
	Title   string           `json:"title" yaml:"title"`
	Curator string           `json:"curator" yaml:"curator"`
	Notes   string           `json:"notes" yaml:"notes"`
	Items   []ArtworkSummary `json:"items" yaml:"items"`
	SavedAt time.Time        `json:"savedAt" yaml:"saved_at"`
}

// SlideshowItems returns the items that have a usable image, in order.
func (s Snapshot) SlideshowItems() []ArtworkSummary {
	var out []ArtworkSummary
	for _, it := range s.Items {
		if it.HasUsableImage() {
			out = append(out, it)
		}
	}
	return out
}

// SelectionState is the in-progress exhibition: free-text metadata plus the
// ordered artworks being curated. Index 0 is the first position.
type SelectionState struct {
	Title    string           `json:"exhibitionTitle" yaml:"title"`
	Curator  string           `json:"exhibitionCurator" yaml:"curator"`
	Notes    string           `json:"exhibitionNotes" yaml:"notes"`
	Artworks []ArtworkSummary `json:"artworks" yaml:"artworks"`
}
