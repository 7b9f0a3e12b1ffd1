package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/orbital-cli/internal/globe"
	tuitheme "github.com/glabrego/orbital-cli/internal/tui/theme"
)

const crosshairRune = '+'

type GlobeRenderInput struct {
	Cells [][]globe.Cell
	// Crosshair marks the centre cell that enter picks from.
	Crosshair bool
}

// RenderGlobe styles a rendered frame. Adjacent cells sharing a style are
// emitted as one run to keep escape sequences down.
func RenderGlobe(in GlobeRenderInput, th tuitheme.Theme) string {
	lines := make([]string, len(in.Cells))
	cy := len(in.Cells) / 2
	for y, row := range in.Cells {
		cx := len(row) / 2
		var b strings.Builder
		var run []rune
		runKey := 0
		var runStyle lipgloss.Style
		runStyled := false

		for x, c := range row {
			key, style, styled := cellStyle(c, th)
			r := c.Rune
			if in.Crosshair && x == cx && y == cy {
				key, style, styled = keyCrosshair, th.Title, true
				r = crosshairRune
			}
			if len(run) > 0 && key != runKey {
				writeRun(&b, run, runStyle, runStyled)
				run = run[:0]
			}
			runKey, runStyle, runStyled = key, style, styled
			run = append(run, r)
		}
		if len(run) > 0 {
			writeRun(&b, run, runStyle, runStyled)
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

const (
	keySpace = -1 - iota
	keyAtmosphere
	keyOcean
	keySelected
	keyCrosshair
)

func cellStyle(c globe.Cell, th tuitheme.Theme) (int, lipgloss.Style, bool) {
	style, ok := th.CellStyle(c)
	switch {
	case !ok:
		return keySpace, style, false
	case c.Kind == globe.CellAtmosphere:
		return keyAtmosphere, style, true
	case c.Kind == globe.CellOcean:
		return keyOcean, style, true
	case c.Selected:
		return keySelected, style, true
	case len(th.Land) > 0 && c.Country >= 0:
		return c.Country % len(th.Land), style, true
	default:
		return 0, style, true
	}
}

func writeRun(b *strings.Builder, run []rune, style lipgloss.Style, styled bool) {
	if !styled {
		b.WriteString(string(run))
		return
	}
	b.WriteString(style.Render(string(run)))
}
