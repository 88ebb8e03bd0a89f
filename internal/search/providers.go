// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"log/slog"
	"net/http"

	"github.com/pdiddy/curator/pkg/types"
)

// NewProviders builds every adapter in priority order: AIC (primary), Met,
// V&A. The client is shared; each request still carries its own timeout.
func NewProviders(client *http.Client, cfg types.SearchConfig, logger *slog.Logger) []Provider {
	return []Provider{
		NewAICProvider(client, cfg, logger),
		NewMetProvider(client, cfg, logger),
		NewVAMProvider(client, cfg, logger),
	}
}
