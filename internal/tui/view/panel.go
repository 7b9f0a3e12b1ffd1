package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/orbital-cli/internal/panel"
	tuistate "github.com/glabrego/orbital-cli/internal/tui/state"
	tuitheme "github.com/glabrego/orbital-cli/internal/tui/theme"
)

const PanelHint = "Click a country on the globe, or press enter to pick the one under the crosshair."

// FlagPreviewState carries the chafa rendering of the current flag.
type FlagPreviewState struct {
	Enabled bool
	Loading bool
	Raw     string
}

type PanelRenderInput struct {
	Panel      panel.Panel
	HasCountry bool
	Width      int
	Height     int
	Cursor     int
	Flag       FlagPreviewState
}

// PanelLines renders the country panel, one terminal line per element.
// A positive Height caps the line count: the flag preview goes first, then
// the website window shrinks to a single row.
func PanelLines(in PanelRenderInput, th tuitheme.Theme) []string {
	width := in.Width
	if width < 10 {
		width = 10
	}
	lines := []string{th.Section.Render("Country")}
	if !in.HasCountry {
		for _, l := range wrapText(PanelHint, width) {
			lines = append(lines, th.MetaLabel.Render(l))
		}
		return clampLines(lines, in.Height)
	}

	p := in.Panel
	lines = append(lines, th.Title.Render(truncateRunes(p.Name, width)))
	for _, l := range wrapText(p.Summary, width) {
		lines = append(lines, th.MetaValue.Render(l))
	}
	lines = append(lines, th.Badge.Render(p.RegionBadge)+" "+th.Badge.Render(p.CodeBadge)+" "+th.MetaValue.Render(p.SiteCount))
	lines = append(lines, flagLine(p, width, th))

	var websites []string
	if p.Placeholder != "" {
		for _, l := range wrapText(p.Placeholder, width) {
			websites = append(websites, th.MetaLabel.Render(l))
		}
	}
	minWebsites := 2 + len(websites)
	if len(p.Items) > 0 {
		minWebsites += 2
	}
	preview := flagPreviewLines(in.Flag, width)
	if in.Height <= 0 || len(lines)+len(preview)+minWebsites <= in.Height {
		lines = append(lines, preview...)
	}

	lines = append(lines, "", th.Section.Render("Websites"))
	lines = append(lines, websites...)
	if p.Placeholder != "" || len(p.Items) == 0 {
		return clampLines(lines, in.Height)
	}

	rows := len(p.Items)
	if in.Height > 0 {
		rows = in.Height - len(lines) - 1
	}
	if rows < 1 {
		rows = 1
	}
	cursor := tuistate.ClampCursor(in.Cursor, len(p.Items))
	start, end := tuistate.CenteredWindow(len(p.Items), cursor, rows)
	for i := start; i < end; i++ {
		lines = append(lines, SiteLine(p.Items[i], width, i == cursor, th))
	}
	lines = append(lines, th.MetaLabel.Render(truncateRunes("→ "+p.Items[cursor].URL, width)))
	return clampLines(lines, in.Height)
}

func clampLines(lines []string, height int) []string {
	if height > 0 && len(lines) > height {
		return lines[:height]
	}
	return lines
}

func RenderPanel(in PanelRenderInput, th tuitheme.Theme) string {
	return strings.Join(PanelLines(in, th), "\n")
}

// SiteLine renders one website row: flag, host, and category on the right.
func SiteLine(item panel.Item, width int, active bool, th tuitheme.Theme) string {
	prefix := "  "
	if active {
		prefix = "> "
	}
	if item.FlagEmoji != "" {
		prefix += item.FlagEmoji + " "
	}
	right := th.Category.Render(item.Category)
	available := width - visibleLen(prefix) - visibleLen(right) - 1
	if available < 1 {
		available = 1
	}
	host := truncateRunes(item.Host, available)
	gap := width - visibleLen(prefix) - visibleLen(host) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(active, prefix+host+strings.Repeat(" ", gap)+right)
}

func flagLine(p panel.Panel, width int, th tuitheme.Theme) string {
	if p.FlagHidden() {
		return th.MetaLabel.Render("flag") + " " + th.MetaValue.Render("hidden")
	}
	label := th.MetaLabel.Render("flag")
	if emoji := panel.FlagEmoji(p.CodeBadge); emoji != "" {
		label = emoji
	}
	return fmt.Sprintf("%s %s", label, th.MetaValue.Render(truncateRunes(p.FlagURL, width-3)))
}

func flagPreviewLines(preview FlagPreviewState, width int) []string {
	if !preview.Enabled {
		return nil
	}
	if preview.Loading {
		return []string{"Loading flag preview..."}
	}
	if raw := strings.TrimRight(preview.Raw, "\r\n"); strings.TrimSpace(raw) != "" {
		if strings.Contains(raw, kittyEscape) {
			lines := strings.Split(raw, "\n")
			lines[0] = clearFlagImage(raw) + lines[0]
			for len(lines) < FlagRows {
				lines = append(lines, "")
			}
			return lines
		}
		return centerLines(strings.Split(raw, "\n"), width)
	}
	// Image failures degrade silently; the URL line above is enough.
	return nil
}
