// Package fetch loads the pre-computed snapshot JSON documents the dashboard
// renders: per-dataset metadata, per-location forecast documents, and the
// NHSN hospitalization series. Documents are produced out-of-band; a failed
// fetch is terminal for that request and is never retried here.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/respiview/respiview/internal/domain/model"
	"github.com/respiview/respiview/pkg/metrics"
)

// Client fetches snapshot documents from a static file host.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a snapshot client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metadata fetches {datasetDir}/metadata.json.
func (c *Client) Metadata(ctx context.Context, datasetDir string) (model.Metadata, error) {
	var meta model.Metadata
	path := fmt.Sprintf("%s/%s/metadata.json", c.baseURL, url.PathEscape(datasetDir))
	err := c.getJSON(ctx, datasetDir, path, &meta)
	return meta, err
}

// LocationDocument fetches {datasetDir}/{location}_{datasetDir}.json.
func (c *Client) LocationDocument(ctx context.Context, datasetDir, location string) (model.LocationDocument, error) {
	var doc model.LocationDocument
	path := fmt.Sprintf("%s/%s/%s_%s.json",
		c.baseURL, url.PathEscape(datasetDir), url.PathEscape(location), url.PathEscape(datasetDir))
	err := c.getJSON(ctx, datasetDir, path, &doc)
	return doc, err
}

// NHSNSnapshot fetches the NHSN-specific series document for a location.
func (c *Client) NHSNSnapshot(ctx context.Context, location string) (model.NHSNSnapshot, error) {
	var snap model.NHSNSnapshot
	path := fmt.Sprintf("%s/nhsn/%s_nhsn.json", c.baseURL, url.PathEscape(location))
	err := c.getJSON(ctx, "nhsn", path, &snap)
	return snap, err
}

func (c *Client) getJSON(ctx context.Context, dataset, fullURL string, out any) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordSnapshotFetchError(dataset)
		return fmt.Errorf("fetch %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	metrics.RecordSnapshotFetch(dataset)
	metrics.RecordSnapshotFetchLatency(float64(time.Since(start).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		metrics.RecordSnapshotFetchError(dataset)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", fullURL, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordSnapshotFetchError(dataset)
		return fmt.Errorf("decode %s: %w", fullURL, err)
	}
	return nil
}
