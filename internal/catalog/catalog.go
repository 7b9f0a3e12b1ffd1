// Package catalog loads the operator-maintained list of websites per country.
//
// The catalog document is a JSON object keyed by ISO 3166 country code. Each
// value is an array whose elements are either a bare URL string or an object
// of the form {"url": "...", "category": "..."}.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxDocumentBytes = 8 * 1024 * 1024

// WebsiteEntry is one listed website. Category is empty when the catalog
// does not set one.
type WebsiteEntry struct {
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

// UnmarshalJSON accepts both the bare string and the object form.
func (e *WebsiteEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*e = WebsiteEntry{URL: raw}
		return nil
	}
	type plain WebsiteEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = WebsiteEntry(p)
	return nil
}

// Catalog maps an upper-case country code to its websites in catalog order.
// It is never mutated after Parse or Load returns.
type Catalog struct {
	sites map[string][]WebsiteEntry
}

// Empty returns a catalog with no countries.
func Empty() Catalog {
	return Catalog{sites: map[string][]WebsiteEntry{}}
}

// Parse decodes a catalog document.
func Parse(data []byte) (Catalog, error) {
	var raw map[string][]WebsiteEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	sites := make(map[string][]WebsiteEntry, len(raw))
	for code, entries := range raw {
		key := strings.ToUpper(strings.TrimSpace(code))
		if key == "" {
			continue
		}
		sites[key] = append(sites[key], entries...)
	}
	return Catalog{sites: sites}, nil
}

// Sites returns the entries for code. Unknown or empty codes yield an empty
// slice. The returned slice is a copy.
func (c Catalog) Sites(code string) []WebsiteEntry {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return []WebsiteEntry{}
	}
	entries := c.sites[key]
	return append(make([]WebsiteEntry, 0, len(entries)), entries...)
}

// Countries reports how many country codes the catalog lists.
func (c Catalog) Countries() int {
	return len(c.sites)
}

// Load reads the catalog from a local path or an http(s) URL. It never fails:
// any error is logged and an empty catalog is returned so the rest of the
// application keeps working with zero websites.
func Load(ctx context.Context, source string, httpClient *http.Client, logger *zap.Logger) Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := read(ctx, source, httpClient)
	if err != nil {
		logger.Warn("catalog unavailable, continuing with empty catalog", zap.String("source", source), zap.Error(err))
		return Empty()
	}
	cat, err := Parse(data)
	if err != nil {
		logger.Warn("catalog malformed, continuing with empty catalog", zap.String("source", source), zap.Error(err))
		return Empty()
	}
	logger.Info("catalog loaded", zap.String("source", source), zap.Int("countries", cat.Countries()))
	return cat
}

func read(ctx context.Context, source string, httpClient *http.Client) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("catalog source is empty")
	}
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		return data, nil
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request failed with status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return data, nil
}
