package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glabrego/orbital-cli/internal/globe"
)

func TestCellStyle_ByKind(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	for _, c := range []globe.Cell{
		{Kind: globe.CellLand, Country: 3},
		{Kind: globe.CellLand, Country: 3, Selected: true},
		{Kind: globe.CellOcean, Country: -1},
		{Kind: globe.CellAtmosphere, Country: -1},
	} {
		style, ok := th.CellStyle(c)
		if !ok {
			t.Fatalf("expected style for %+v", c)
		}
		if got := style.Render("#"); !strings.Contains(got, "\x1b[") {
			t.Fatalf("expected styled cell for %+v, got %q", c, got)
		}
	}

	if _, ok := th.CellStyle(globe.Cell{Kind: globe.CellSpace, Country: -1}); ok {
		t.Fatal("did not expect a style for empty space")
	}
}

func TestCellStyle_SelectedDiffersFromLand(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	land, _ := th.CellStyle(globe.Cell{Kind: globe.CellLand, Country: 0})
	selected, _ := th.CellStyle(globe.Cell{Kind: globe.CellLand, Country: 0, Selected: true})
	if land.Render("#") == selected.Render("#") {
		t.Fatal("expected selected land to render differently")
	}
}

func TestRenderActiveLine(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()
	if got := th.RenderActiveLine(false, "plain"); got != "plain" {
		t.Fatalf("inactive line changed: %q", got)
	}
	if got := th.RenderActiveLine(true, "row"); !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected styled active line, got %q", got)
	}
}
