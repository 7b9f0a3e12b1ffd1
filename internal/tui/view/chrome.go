package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/orbital-cli/internal/storage"
	tuistate "github.com/glabrego/orbital-cli/internal/tui/state"
	tuitheme "github.com/glabrego/orbital-cli/internal/tui/theme"
)

func Toolbar(hasCountry bool) string {
	if hasCountry {
		return "click/enter pick | ←/→ rotate | ↑/↓ tilt | space pause | j/k sites | o open | y copy | c charset | q quit"
	}
	return "click/enter pick | ←/→ rotate | ↑/↓ tilt | space pause | c charset | q quit"
}

func Header(phase tuistate.Phase, th tuitheme.Theme) string {
	return th.Title.Render("Orbital") + " " + th.PhasePill.Render(phase.String())
}

// StatusLine shows the single status string with a coloured state label.
func StatusLine(phase tuistate.Phase, status string, warn bool, th tuitheme.Theme) string {
	label := th.StateIdle.Render("status")
	switch {
	case warn || phase == tuistate.PhaseError:
		label = th.StateWarn.Render("status")
	case phase.Loading():
		label = th.StateLoad.Render("status")
	}
	if status == "" {
		status = "Ready"
	}
	return fmt.Sprintf("%s: %s", label, th.MetaValue.Render(status))
}

type FooterInput struct {
	Charset    string
	AutoRotate bool
	Countries  int
	Recent     []storage.Visit
	Now        time.Time
}

func Footer(in FooterInput, th tuitheme.Theme) string {
	rotation := "on"
	if !in.AutoRotate {
		rotation = "paused"
	}
	parts := []string{
		th.MetaLabel.Render("charset") + " " + th.MetaValue.Render(in.Charset),
		th.MetaLabel.Render("rotation") + " " + th.MetaValue.Render(rotation),
		th.MetaLabel.Render("catalog") + " " + th.MetaValue.Render(fmt.Sprintf("%d countries", in.Countries)),
	}
	if len(in.Recent) > 0 {
		names := make([]string, 0, len(in.Recent))
		for _, v := range in.Recent {
			label := v.Country
			if v.Code != "" {
				label = v.Code
			}
			names = append(names, label)
		}
		recent := strings.Join(names, ", ")
		if last := in.Recent[0].VisitedAt; !last.IsZero() {
			now := in.Now
			if now.IsZero() {
				now = time.Now()
			}
			recent += " (" + humanize.RelTime(last, now, "ago", "from now") + ")"
		}
		parts = append(parts, th.MetaLabel.Render("recent")+" "+th.MetaValue.Render(recent))
	}
	return strings.Join(parts, " • ")
}
