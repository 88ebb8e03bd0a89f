// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/curator/internal/sanitize"
	"github.com/pdiddy/curator/internal/search"
	"github.com/pdiddy/curator/internal/storage"
	"github.com/pdiddy/curator/pkg/types"
)

// User-facing error messages. Provider and storage details are logged, not
// returned.
const (
	msgSearchFailed      = "Search failed. Please try again."
	msgArtworkFailed     = "Failed to load artwork."
	msgArtworkNotFound   = "Artwork not found."
	msgExhibitionMissing = "Exhibition not found."
	msgExhibitionFailed  = "Failed to load exhibition."
)

type Handler struct {
	Search  Searcher
	Archive Archive
	Logger  *slog.Logger
}

func NewHandler(s Searcher, archive Archive, logger *slog.Logger) *Handler {
	return &Handler{Search: s, Archive: archive, Logger: logger}
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)                  // GET /api/search?q=
	rg.GET("/artworks/:provider/:id", h.artwork) // GET /api/artworks/aic/27992
	rg.GET("/exhibitions", h.listExhibitions)    // GET /api/exhibitions
	rg.GET("/exhibitions/:id", h.getExhibition)  // GET /api/exhibitions/:id
}

type searchResponse struct {
	Query       string                 `json:"query"`
	Results     []types.ArtworkSummary `json:"results"`
	Unavailable []types.Provider       `json:"unavailable"`
}

func (h *Handler) search(c *gin.Context) {
	out, err := h.Search.SearchAll(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger().Error("search failed", "query", c.Query("q"), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgSearchFailed})
		return
	}

	resp := searchResponse{
		Query:       out.Query,
		Results:     out.Results,
		Unavailable: []types.Provider{},
	}
	if resp.Results == nil {
		resp.Results = []types.ArtworkSummary{}
	}
	for _, f := range out.Failed() {
		resp.Unavailable = append(resp.Unavailable, f.Provider)
	}
	c.JSON(http.StatusOK, resp)
}

type artworkResponse struct {
	types.ArtworkDetail
	DescriptionHTML string `json:"descriptionHtml"`
	TermsURL        string `json:"termsUrl,omitempty"`
}

func (h *Handler) artwork(c *gin.Context) {
	provider, err := types.ParseProvider(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := types.ArtworkKey{Provider: provider, ID: c.Param("id")}

	d, err := h.Search.Detail(c.Request.Context(), key)
	if errors.Is(err, search.ErrUnknownProvider) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgArtworkNotFound})
		return
	}
	if err != nil {
		h.logger().Error("artwork detail failed", "artwork", key.String(), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgArtworkFailed})
		return
	}

	c.JSON(http.StatusOK, artworkResponse{
		ArtworkDetail:   d,
		DescriptionHTML: sanitize.Description(d.Description),
		TermsURL:        provider.TermsURL(),
	})
}

func (h *Handler) listExhibitions(c *gin.Context) {
	list, err := h.Archive.Snapshots(c.Request.Context())
	if err != nil {
		h.logger().Error("listing exhibitions failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgExhibitionFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(list), "items": list})
}

type exhibitionResponse struct {
	types.Snapshot
	Slideshow []types.ArtworkSummary `json:"slideshow"`
}

func (h *Handler) getExhibition(c *gin.Context) {
	snap, err := h.Archive.FindSnapshot(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgExhibitionMissing})
		return
	}
	if err != nil {
		h.logger().Error("loading exhibition failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgExhibitionFailed})
		return
	}

	slideshow := snap.SlideshowItems()
	if slideshow == nil {
		slideshow = []types.ArtworkSummary{}
	}
	c.JSON(http.StatusOK, exhibitionResponse{Snapshot: snap, Slideshow: slideshow})
}
