package view

import (
	"strings"
	"testing"

	"github.com/glabrego/orbital-cli/internal/catalog"
	"github.com/glabrego/orbital-cli/internal/panel"
	"github.com/glabrego/orbital-cli/internal/restcountries"
	tuitheme "github.com/glabrego/orbital-cli/internal/tui/theme"
)

func australia(sites ...catalog.WebsiteEntry) panel.Panel {
	pop := int64(25_000_000)
	return panel.Build(restcountries.CountryInfo{
		Name:       "Australia",
		Code:       "AU",
		Capital:    "Canberra",
		Region:     "Oceania",
		Population: &pop,
	}, sites)
}

func TestRenderPanel_Hint(t *testing.T) {
	got := stripANSI(RenderPanel(PanelRenderInput{Width: 200}, tuitheme.Default()))
	if !strings.Contains(got, PanelHint) {
		t.Fatalf("expected hint before the first pick, got %q", got)
	}
}

func TestRenderPanel_Country(t *testing.T) {
	p := australia(catalog.WebsiteEntry{URL: "https://abc.net.au", Category: "media"})
	got := stripANSI(RenderPanel(PanelRenderInput{Panel: p, HasCountry: true, Width: 60, Height: 20}, tuitheme.Default()))
	for _, want := range []string{
		"Australia",
		"Canberra",
		"25.0M people",
		"Oceania",
		"1 site",
		"https://flagcdn.com/w80/au.png",
		"abc.net.au",
		"media",
		"→ https://abc.net.au",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in panel, got:\n%s", want, got)
		}
	}
}

func TestRenderPanel_Placeholder(t *testing.T) {
	got := stripANSI(RenderPanel(PanelRenderInput{Panel: australia(), HasCountry: true, Width: 80, Height: 20}, tuitheme.Default()))
	if !strings.Contains(got, panel.EmptyPlaceholder) {
		t.Fatalf("expected placeholder, got:\n%s", got)
	}
	if !strings.Contains(got, "0 sites") {
		t.Fatalf("expected zero site count, got:\n%s", got)
	}
}

func TestRenderPanel_HiddenFlag(t *testing.T) {
	p := panel.Build(restcountries.CountryInfo{Name: "Nowhere"}, nil)
	got := stripANSI(RenderPanel(PanelRenderInput{Panel: p, HasCountry: true, Width: 60, Height: 20}, tuitheme.Default()))
	if !strings.Contains(got, "flag hidden") {
		t.Fatalf("expected hidden flag, got:\n%s", got)
	}
}

func TestRenderPanel_WindowFollowsCursor(t *testing.T) {
	var sites []catalog.WebsiteEntry
	for _, host := range []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com", "g.com", "h.com"} {
		sites = append(sites, catalog.WebsiteEntry{URL: "https://" + host})
	}
	in := PanelRenderInput{Panel: australia(sites...), HasCountry: true, Width: 60, Height: 12, Cursor: 7}
	got := stripANSI(RenderPanel(in, tuitheme.Default()))
	if strings.Contains(got, "a.com") {
		t.Fatalf("expected first rows scrolled out, got:\n%s", got)
	}
	if !strings.Contains(got, "> 🇦🇺 h.com") {
		t.Fatalf("expected cursor on h.com, got:\n%s", got)
	}
}

func TestRenderPanel_FlagPreview(t *testing.T) {
	in := PanelRenderInput{
		Panel:      australia(),
		HasCountry: true,
		Width:      40,
		Height:     20,
		Flag:       FlagPreviewState{Enabled: true, Loading: true},
	}
	if got := RenderPanel(in, tuitheme.Default()); !strings.Contains(got, "Loading flag preview...") {
		t.Fatalf("expected loading preview line, got:\n%s", got)
	}

	in.Flag = FlagPreviewState{Enabled: true, Raw: "###\n###"}
	if got := RenderPanel(in, tuitheme.Default()); !strings.Contains(got, "###") {
		t.Fatalf("expected preview lines, got:\n%s", got)
	}
}

func TestPanelLines_FitHeight(t *testing.T) {
	var sites []catalog.WebsiteEntry
	for _, host := range []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com"} {
		sites = append(sites, catalog.WebsiteEntry{URL: "https://" + host})
	}
	preview := strings.TrimSuffix(strings.Repeat("########\n", FlagRows), "\n")

	for _, height := range []int{4, 8, 10, 14, 20} {
		in := PanelRenderInput{
			Panel:      australia(sites...),
			HasCountry: true,
			Width:      24,
			Height:     height,
			Cursor:     5,
			Flag:       FlagPreviewState{Enabled: true, Raw: preview},
		}
		lines := PanelLines(in, tuitheme.Default())
		if len(lines) > height {
			t.Fatalf("height %d: panel has %d lines:\n%s", height, len(lines), strings.Join(lines, "\n"))
		}
	}

	in := PanelRenderInput{Panel: australia(sites...), HasCountry: true, Width: 24, Height: 12, Cursor: 5,
		Flag: FlagPreviewState{Enabled: true, Raw: preview}}
	got := stripANSI(RenderPanel(in, tuitheme.Default()))
	if strings.Contains(got, "########") {
		t.Fatalf("expected preview dropped when it does not fit, got:\n%s", got)
	}
	if !strings.Contains(got, "> 🇦🇺 f.com") || !strings.Contains(got, "→ https://f.com") {
		t.Fatalf("expected the selected site to stay visible, got:\n%s", got)
	}

	hint := PanelLines(PanelRenderInput{Width: 12, Height: 3}, tuitheme.Default())
	if len(hint) != 3 {
		t.Fatalf("expected hint clamped to 3 lines, got %d", len(hint))
	}
}

func TestRenderPanel_KittyFlagClearsPreviousImage(t *testing.T) {
	in := PanelRenderInput{
		Panel:      australia(),
		HasCountry: true,
		Width:      40,
		Height:     30,
		Flag:       FlagPreviewState{Enabled: true, Raw: "\x1b_Ga=T,f=100;AAAA\x1b\\"},
	}
	lines := PanelLines(in, tuitheme.Default())
	var kitty int
	for i, l := range lines {
		if strings.Contains(l, kittyEscape+"a=T") {
			kitty = i
		}
	}
	if !strings.HasPrefix(lines[kitty], "\x1b_Ga=d,d=A\x1b\\") {
		t.Fatalf("expected delete command before the image, got %q", lines[kitty])
	}
	if !strings.Contains(stripANSI(strings.Join(lines[kitty+FlagRows:], "\n")), "Websites") {
		t.Fatalf("expected %d rows reserved for the image", FlagRows)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("Commonwealth of Australia · Canberra", 14)
	want := []string{"Commonwealth", "of Australia ·", "Canberra"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}
