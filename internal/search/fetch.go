// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pdiddy/curator/internal/httputil"
	"github.com/pdiddy/curator/internal/ratelimit"
	"github.com/pdiddy/curator/pkg/types"
)

// fetcher is the request path shared by every adapter: optional rate
// limiting, a per-request timeout, retry on 429, status and JSON checks.
type fetcher struct {
	client  *http.Client
	cfg     types.SearchConfig
	limiter *ratelimit.Limiter
	header  http.Header
	logger  *slog.Logger
}

func newFetcher(client *http.Client, cfg types.SearchConfig, logger *slog.Logger) fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return fetcher{
		client: client,
		cfg:    cfg.WithDefaults(),
		header: http.Header{},
		logger: logger,
	}
}

// getJSON issues a GET to rawURL and decodes the JSON body into v. A timeout
// is reported like any other request failure.
func (f *fetcher) getJSON(ctx context.Context, rawURL string, v any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	for k, vals := range f.header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	f.logger.Debug("provider request", "url", req.URL.Redacted())
	return httputil.GetJSON(ctx, f.client, req, f.cfg.MaxRetries, v)
}
