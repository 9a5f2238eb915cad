package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"golang.org/x/sync/errgroup"

	"platecheck/internal/ingest"
	"platecheck/pkg/records"
)

// Table downloads one source file and parses it, choosing the parser by the
// extension of the URL path. The skipped count reports rows soft-skipped by
// the CSV parser.
func (c *Client) Table(ctx context.Context, rawURL string) (records.Table, int, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return records.Table{}, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return records.Table{}, 0, fmt.Errorf("fetch: status %d from GET %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return records.Table{}, 0, fmt.Errorf("fetch: read body from %s: %w", rawURL, err)
	}
	if int64(len(body)) > c.maxBytes {
		return records.Table{}, 0, fmt.Errorf("fetch: %s exceeds the %d byte limit", rawURL, c.maxBytes)
	}

	name, err := fileName(rawURL)
	if err != nil {
		return records.Table{}, 0, err
	}
	return ingest.Read(name, bytes.NewReader(body))
}

// Pair downloads the registry and inspection sources concurrently. The first
// failure cancels the other download. The skipped count is the sum over both
// sources.
func (c *Client) Pair(ctx context.Context, registryURL, inspectionsURL string) (registry, inspections records.Table, skipped int, err error) {
	var regSkipped, inspSkipped int

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		registry, regSkipped, err = c.Table(ctx, registryURL)
		if err != nil {
			return fmt.Errorf("registry: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		inspections, inspSkipped, err = c.Table(ctx, inspectionsURL)
		if err != nil {
			return fmt.Errorf("inspections: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return records.Table{}, records.Table{}, 0, err
	}
	return registry, inspections, regSkipped + inspSkipped, nil
}

// fileName extracts the last path element of the URL for extension-based
// parser dispatch.
func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch: parse url %q: %w", rawURL, err)
	}
	return path.Base(u.Path), nil
}
