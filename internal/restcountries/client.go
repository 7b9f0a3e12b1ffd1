package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://restcountries.com/v3.1"

// ErrNotFound is returned when the API has no record for a name.
var ErrNotFound = errors.New("country not found")

// CountryInfo is the subset of country metadata shown by the app.
type CountryInfo struct {
	Name         string
	OfficialName string
	// Code is the upper-case alpha-2 code, the alpha-3 code when alpha-2 is
	// missing, or empty.
	Code       string
	FlagSVG    string
	Capital    string
	Region     string
	Population *int64
}

// record mirrors the fields of a REST Countries v3.1 response element.
type record struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	CCA2       string   `json:"cca2"`
	CCA3       string   `json:"cca3"`
	Capital    []string `json:"capital"`
	Region     string   `json:"region"`
	Population *int64   `json:"population"`
	Flags      struct {
		SVG string `json:"svg"`
		PNG string `json:"png"`
	} `json:"flags"`
}

func (r record) info() CountryInfo {
	code := strings.ToUpper(strings.TrimSpace(r.CCA2))
	if code == "" {
		code = strings.ToUpper(strings.TrimSpace(r.CCA3))
	}
	capital := ""
	if len(r.Capital) > 0 {
		capital = strings.TrimSpace(r.Capital[0])
	}
	flag := r.Flags.SVG
	if flag == "" {
		flag = r.Flags.PNG
	}
	var population *int64
	if r.Population != nil && *r.Population >= 0 {
		p := *r.Population
		population = &p
	}
	return CountryInfo{
		Name:         strings.TrimSpace(r.Name.Common),
		OfficialName: strings.TrimSpace(r.Name.Official),
		Code:         code,
		FlagSVG:      flag,
		Capital:      capital,
		Region:       strings.TrimSpace(r.Region),
		Population:   population,
	}
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// LookupByName fetches the first country record matching name.
func (c *Client) LookupByName(ctx context.Context, name string) (CountryInfo, error) {
	q := strings.TrimSpace(name)
	if q == "" {
		return CountryInfo{}, fmt.Errorf("lookup country: empty name")
	}

	req, err := c.newRequest(ctx, "/name/"+url.PathEscape(q))
	if err != nil {
		return CountryInfo{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return CountryInfo{}, fmt.Errorf("lookup %q request failed: %w", q, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return CountryInfo{}, fmt.Errorf("lookup %q: %w", q, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return CountryInfo{}, fmt.Errorf("lookup %q failed with status %d: %s", q, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return CountryInfo{}, fmt.Errorf("decode %q response: %w", q, err)
	}
	if len(records) == 0 {
		return CountryInfo{}, fmt.Errorf("lookup %q: %w", q, ErrNotFound)
	}
	return records[0].info(), nil
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
