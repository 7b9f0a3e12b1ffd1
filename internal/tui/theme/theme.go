package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/orbital-cli/internal/globe"
)

type Theme struct {
	Title      lipgloss.Style
	PhasePill  lipgloss.Style
	Section    lipgloss.Style
	Badge      lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	Category   lipgloss.Style
	Link       lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	Ocean        lipgloss.Style
	Atmosphere   lipgloss.Style
	LandSelected lipgloss.Style
	// Land is indexed by country so neighbours read as distinct shapes.
	Land []lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpSapphire := lipgloss.Color("#74c7ec")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		PhasePill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:      lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Badge:        lipgloss.NewStyle().Foreground(cpYellow).Background(cpSurface0).Padding(0, 1),
		ActiveLine:   lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:    lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:    lipgloss.NewStyle().Foreground(cpSubtext1),
		Category:     lipgloss.NewStyle().Italic(true).Foreground(cpLavender),
		Link:         lipgloss.NewStyle().Underline(true).Foreground(cpBlue),
		StateIdle:    lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:    lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:    lipgloss.NewStyle().Foreground(cpPeach),
		Ocean:        lipgloss.NewStyle().Foreground(cpBlue),
		Atmosphere:   lipgloss.NewStyle().Foreground(cpSapphire),
		LandSelected: lipgloss.NewStyle().Bold(true).Foreground(cpRed),
		Land: []lipgloss.Style{
			lipgloss.NewStyle().Foreground(cpGreen),
			lipgloss.NewStyle().Foreground(cpTeal),
			lipgloss.NewStyle().Foreground(cpYellow),
			lipgloss.NewStyle().Foreground(cpPeach),
			lipgloss.NewStyle().Foreground(cpRosewater),
		},
	}
}

// CellStyle picks the style for a rendered globe cell. ok is false for empty
// space, which is written unstyled.
func (t Theme) CellStyle(c globe.Cell) (lipgloss.Style, bool) {
	switch c.Kind {
	case globe.CellLand:
		if c.Selected {
			return t.LandSelected, true
		}
		if len(t.Land) == 0 || c.Country < 0 {
			return lipgloss.NewStyle(), true
		}
		return t.Land[c.Country%len(t.Land)], true
	case globe.CellOcean:
		return t.Ocean, true
	case globe.CellAtmosphere:
		return t.Atmosphere, true
	default:
		return lipgloss.Style{}, false
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
