// Package panel turns country metadata and its catalog entries into the
// display regions of the country panel.
package panel

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/glabrego/orbital-cli/internal/catalog"
	"github.com/glabrego/orbital-cli/internal/category"
	"github.com/glabrego/orbital-cli/internal/restcountries"
)

const (
	NamePlaceholder  = "Unknown country"
	EmptyPlaceholder = "No websites listed for this country yet."

	flagEndpoint    = "https://flagcdn.com/w80/%s.png"
	faviconEndpoint = "https://www.google.com/s2/favicons?domain=%s&sz=64"
)

// Panel holds the text of every display region. Building a panel never
// looks at a previous one; each render replaces all regions.
type Panel struct {
	Name        string
	Summary     string
	FlagURL     string
	RegionBadge string
	CodeBadge   string
	SiteCount   string
	Items       []Item
	// Placeholder is set instead of Items when the country has no websites.
	Placeholder string
}

// FlagHidden reports whether the flag region has nothing to show.
func (p Panel) FlagHidden() bool { return p.FlagURL == "" }

// Item is one website row.
type Item struct {
	URL        string
	Host       string
	FaviconURL string
	Category   string
	Code       string
	FlagURL    string
	FlagEmoji  string
}

// Build derives the panel for info and its catalog entries. Entries with an
// empty URL are skipped; the rest keep catalog order.
func Build(info restcountries.CountryInfo, sites []catalog.WebsiteEntry) Panel {
	code := strings.ToUpper(strings.TrimSpace(info.Code))

	p := Panel{
		Name:        orDefault(info.Name, NamePlaceholder),
		Summary:     Summary(info),
		FlagURL:     flagURL(code, info.FlagSVG),
		RegionBadge: orDefault(info.Region, "region unknown"),
		CodeBadge:   orDefault(code, "--"),
		SiteCount:   SiteCount(len(sites)),
	}

	for _, site := range sites {
		raw := strings.TrimSpace(site.URL)
		if raw == "" {
			continue
		}
		host := Hostname(raw)
		p.Items = append(p.Items, Item{
			URL:        raw,
			Host:       host,
			FaviconURL: FaviconURL(host),
			Category:   category.Resolve(site.Category, host),
			Code:       code,
			FlagURL:    FlagURL(code),
			FlagEmoji:  FlagEmoji(code),
		})
	}
	if len(sites) == 0 {
		p.Placeholder = EmptyPlaceholder
	}
	return p
}

// Summary renders "{official or name} · {capital} · {population}".
func Summary(info restcountries.CountryInfo) string {
	name := orDefault(info.OfficialName, info.Name)
	capital := orDefault(info.Capital, "capital unknown")
	return fmt.Sprintf("%s · %s · %s", name, capital, FormatPopulation(info.Population))
}

// FormatPopulation bands a head count into B/M/K with one decimal.
func FormatPopulation(population *int64) string {
	if population == nil || *population < 0 {
		return "population unknown"
	}
	n := float64(*population)
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.1fB people", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.1fM people", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fK people", n/1e3)
	default:
		return fmt.Sprintf("%d people", *population)
	}
}

func SiteCount(n int) string {
	if n == 1 {
		return "1 site"
	}
	return fmt.Sprintf("%d sites", n)
}

// Hostname extracts the host of raw, falling back to raw itself when it
// does not parse as an absolute URL.
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}

func FaviconURL(host string) string {
	return fmt.Sprintf(faviconEndpoint, url.QueryEscape(host))
}

// FlagURL returns the flag image endpoint for code, or "" without a code.
func FlagURL(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	return fmt.Sprintf(flagEndpoint, strings.ToLower(code))
}

// FlagEmoji spells a two-letter code with regional indicator symbols.
func FlagEmoji(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

func flagURL(code, fallback string) string {
	if u := FlagURL(code); u != "" {
		return u
	}
	return strings.TrimSpace(fallback)
}

func orDefault(s, def string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return def
}
