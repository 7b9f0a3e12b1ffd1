package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/glabrego/orbital-cli/internal/app"
	"github.com/glabrego/orbital-cli/internal/catalog"
	"github.com/glabrego/orbital-cli/internal/globe"
	"github.com/glabrego/orbital-cli/internal/panel"
	"github.com/glabrego/orbital-cli/internal/storage"
	tuiactions "github.com/glabrego/orbital-cli/internal/tui/actions"
	tuiplatform "github.com/glabrego/orbital-cli/internal/tui/platform"
	tuistate "github.com/glabrego/orbital-cli/internal/tui/state"
	tuitheme "github.com/glabrego/orbital-cli/internal/tui/theme"
	tuiview "github.com/glabrego/orbital-cli/internal/tui/view"
)

const (
	nudgeDegrees = 10.0
	tiltDegrees  = 5.0
)

const (
	statusLoadingCatalog = "Loading website catalog..."
	statusLoadingGlobe   = "Loading world map..."
	statusReady          = "Ready. Click a country or press enter on the crosshair."
	statusGlobeFailed    = "Could not load the world map. Restart to try again."
)

type Options struct {
	Charset globe.Charset
	// KeepCharset ignores the stored charset preference.
	KeepCharset   bool
	FlagPreview   bool
	FrameInterval time.Duration
	Logger        *zap.Logger
}

// Model is the whole interactive application: startup phases, the globe,
// the current country panel and the single status string.
type Model struct {
	service tuiactions.Service
	logger  *zap.Logger
	theme   tuitheme.Theme

	phase  tuistate.Phase
	status string
	warn   bool

	layout tuistate.Layout

	catalog       catalog.Catalog
	globe         *globe.Globe
	charset       globe.Charset
	keepCharset   bool
	autoRotate    bool
	frameInterval time.Duration

	panel      panel.Panel
	hasCountry bool
	cursor     int
	recent     []storage.Visit

	flagPreview  bool
	flagURL      string
	flag         tuiview.FlagPreviewState
	renderFlagFn func(string, int) (string, error)

	openURLFn func(string) error
	copyURLFn func(string) error
	nowFn     func() time.Time
}

func NewModel(service tuiactions.Service, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		service:       service,
		logger:        logger,
		theme:         tuitheme.Default(),
		phase:         tuistate.PhaseIdle,
		layout:        tuistate.ComputeLayout(0, 0),
		catalog:       catalog.Empty(),
		charset:       opts.Charset,
		keepCharset:   opts.KeepCharset,
		autoRotate:    true,
		frameInterval: opts.FrameInterval,
		flagPreview:   opts.FlagPreview,
		renderFlagFn:  tuiview.NewFlagRenderer().Render,
		openURLFn:     tuiplatform.OpenURLInBrowser,
		copyURLFn:     tuiplatform.CopyURLToClipboard,
		nowFn:         time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tuiactions.StartCmd(), tuiactions.FrameCmd(m.frameInterval)}
	if m.service != nil {
		cmds = append(cmds, tuiactions.LoadPreferencesCmd(m.service))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = tuistate.ComputeLayout(msg.Width, msg.Height)
		if m.globe != nil {
			m.globe.Resize(m.layout.GlobeWidth, m.layout.GlobeHeight)
		}
		return m, nil
	case tuiactions.FrameMsg:
		if m.globe != nil && m.autoRotate {
			m.globe.Step()
		}
		return m, tuiactions.FrameCmd(m.frameInterval)
	case tuiactions.StartMsg:
		if m.phase != tuistate.PhaseIdle || m.service == nil {
			return m, nil
		}
		m.setPhase(tuistate.PhaseLoadingCatalog, statusLoadingCatalog)
		return m, tuiactions.LoadCatalogCmd(m.service)
	case tuiactions.CatalogLoadedMsg:
		m.catalog = msg.Catalog
		m.logger.Info("catalog ready", zap.Int("countries", msg.Catalog.Countries()), zap.Duration("took", msg.Duration))
		m.setPhase(tuistate.PhaseLoadingGlobe, statusLoadingGlobe)
		return m, tuiactions.LoadTopologyCmd(m.service)
	case tuiactions.TopologyLoadedMsg:
		m.globe = globe.New(msg.Features, m.layout.GlobeWidth, m.layout.GlobeHeight, m.charset)
		m.logger.Info("globe ready", zap.Int("features", len(msg.Features)), zap.Duration("took", msg.Duration))
		m.setPhase(tuistate.PhaseReady, statusReady)
		return m, tuiactions.LoadRecentVisitsCmd(m.service, app.DefaultRecentLimit)
	case tuiactions.TopologyErrorMsg:
		m.logger.Error("globe failed", zap.Error(msg.Err))
		m.setPhase(tuistate.PhaseError, statusGlobeFailed)
		m.warn = true
		return m, nil
	case tuiactions.CountryResolvedMsg:
		return m.showCountry(msg)
	case tuiactions.CountryErrorMsg:
		m.logger.Warn("country lookup failed", zap.String("country", msg.Name), zap.Error(msg.Err))
		m.setPhase(tuistate.PhaseReady, fmt.Sprintf("Could not load details for %s", msg.Name))
		m.warn = true
		return m, nil
	case tuiactions.PreferencesLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("load preferences", zap.Error(msg.Err))
			return m, nil
		}
		m.applyPreferences(msg.Prefs)
		return m, nil
	case tuiactions.PreferenceSaveErrorMsg:
		m.logger.Warn("save preferences", zap.Error(msg.Err))
		m.status = "Could not save preferences"
		m.warn = true
		return m, nil
	case tuiactions.RecentVisitsMsg:
		if msg.Err != nil {
			m.logger.Warn("load recent visits", zap.Error(msg.Err))
			return m, nil
		}
		m.recent = msg.Visits
		return m, nil
	case tuiactions.OpenURLSuccessMsg:
		m.status = msg.Status
		m.warn = false
		return m, nil
	case tuiactions.OpenURLErrorMsg:
		m.status = msg.Err.Error()
		m.warn = true
		return m, nil
	case tuiactions.FlagPreviewSuccessMsg:
		if msg.URL == m.flagURL {
			m.flag = tuiview.FlagPreviewState{Enabled: true, Raw: msg.Preview}
		}
		return m, nil
	case tuiactions.FlagPreviewErrorMsg:
		if msg.URL == m.flagURL {
			m.logger.Debug("flag preview unavailable", zap.String("url", msg.URL), zap.Error(msg.Err))
			m.flag = tuiview.FlagPreviewState{Enabled: true}
		}
		return m, nil
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m.pickAt(msg.X, msg.Y)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "enter":
		if m.globe == nil || !m.phase.Interactive() {
			return m, nil
		}
		pick, ok := m.globe.PickCenter()
		if !ok {
			m.status = "No country under the crosshair"
			m.warn = false
			return m, nil
		}
		return m.beginResolve(pick)
	case "left", "h":
		if m.globe != nil {
			m.globe.Nudge(-nudgeDegrees)
		}
		return m, nil
	case "right", "l":
		if m.globe != nil {
			m.globe.Nudge(nudgeDegrees)
		}
		return m, nil
	case "up":
		if m.globe != nil {
			m.globe.Tilt(tiltDegrees)
		}
		return m, nil
	case "down":
		if m.globe != nil {
			m.globe.Tilt(-tiltDegrees)
		}
		return m, nil
	case " ":
		m.autoRotate = !m.autoRotate
		if m.autoRotate {
			m.status = "Rotation resumed"
		} else {
			m.status = "Rotation paused"
		}
		m.warn = false
		return m, m.persistPreferences()
	case "c":
		m.charset = (m.charset + 1) % 3
		m.keepCharset = false
		if m.globe != nil {
			m.globe.SetCharset(m.charset)
		}
		m.status = "Charset: " + m.charset.String()
		m.warn = false
		return m, m.persistPreferences()
	case "j":
		m.moveCursor(1)
		return m, nil
	case "k":
		m.moveCursor(-1)
		return m, nil
	case "o":
		url, ok := m.currentSiteURL()
		if !ok {
			return m, nil
		}
		return m, tuiactions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
	case "y":
		url, ok := m.currentSiteURL()
		if !ok {
			return m, nil
		}
		return m, tuiactions.CopyURLCmd(url, m.copyURLFn)
	}
	return m, nil
}

func (m Model) pickAt(x, y int) (tea.Model, tea.Cmd) {
	if m.globe == nil || !m.phase.Interactive() {
		return m, nil
	}
	gx, gy, ok := m.layout.GlobeCell(x, y)
	if !ok {
		return m, nil
	}
	pick, ok := m.globe.PickAt(gx, gy)
	if !ok {
		return m, nil
	}
	return m.beginResolve(pick)
}

func (m Model) beginResolve(pick globe.Pick) (tea.Model, tea.Cmd) {
	m.globe.Select(pick.Index)
	m.setPhase(tuistate.PhaseResolving, fmt.Sprintf("Looking up %s...", pick.Name))
	if m.service == nil {
		return m, nil
	}
	return m, tuiactions.ResolveCountryCmd(m.service, pick.Name)
}

func (m Model) showCountry(msg tuiactions.CountryResolvedMsg) (tea.Model, tea.Cmd) {
	info := msg.Info
	if info == nil {
		return m.Update(tuiactions.CountryErrorMsg{Name: msg.Name, Err: fmt.Errorf("no details for %q", msg.Name)})
	}
	m.panel = panel.Build(*info, m.catalog.Sites(info.Code))
	m.hasCountry = true
	m.cursor = 0
	m.setPhase(tuistate.PhaseReady, "Showing "+m.panel.Name)

	cmds := []tea.Cmd{tuiactions.LoadRecentVisitsCmd(m.service, app.DefaultRecentLimit)}
	m.flagURL = m.panel.FlagURL
	m.flag = tuiview.FlagPreviewState{}
	if m.flagPreview && m.flagURL != "" {
		m.flag = tuiview.FlagPreviewState{Enabled: true, Loading: true}
		cmds = append(cmds, tuiactions.FlagPreviewCmd(m.flagURL, m.layout.PanelWidth, m.renderFlagFn))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(tuiview.Header(m.phase, m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.hasCountry))
	b.WriteString("\n")

	panelText := tuiview.RenderPanel(tuiview.PanelRenderInput{
		Panel:      m.panel,
		HasCountry: m.hasCountry,
		Width:      m.layout.PanelWidth,
		Height:     m.layout.GlobeHeight,
		Cursor:     m.cursor,
		Flag:       m.flag,
	}, m.theme)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.globeView(), " ", panelText))
	b.WriteString("\n")

	b.WriteString(tuiview.StatusLine(m.phase, m.status, m.warn, m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.Footer(tuiview.FooterInput{
		Charset:    m.charset.String(),
		AutoRotate: m.autoRotate,
		Countries:  m.catalog.Countries(),
		Recent:     m.recent,
		Now:        m.nowFn(),
	}, m.theme))
	return b.String()
}

func (m Model) globeView() string {
	if m.globe == nil {
		lines := make([]string, m.layout.GlobeHeight)
		blank := strings.Repeat(" ", m.layout.GlobeWidth)
		for i := range lines {
			lines[i] = blank
		}
		return strings.Join(lines, "\n")
	}
	return tuiview.RenderGlobe(tuiview.GlobeRenderInput{
		Cells:     m.globe.Render(),
		Crosshair: true,
	}, m.theme)
}

func (m *Model) setPhase(phase tuistate.Phase, status string) {
	m.phase = phase
	m.status = status
	m.warn = false
}

func (m *Model) moveCursor(delta int) {
	if !m.hasCountry || len(m.panel.Items) == 0 {
		return
	}
	m.cursor = tuistate.ClampCursor(m.cursor+delta, len(m.panel.Items))
}

func (m Model) currentSiteURL() (string, bool) {
	if !m.hasCountry || len(m.panel.Items) == 0 {
		return "", false
	}
	item := m.panel.Items[tuistate.ClampCursor(m.cursor, len(m.panel.Items))]
	url, err := tuiplatform.ValidateSiteURL(item.URL)
	if err != nil {
		return "", false
	}
	return url, true
}

func (m *Model) applyPreferences(prefs storage.Preferences) {
	m.autoRotate = prefs.AutoRotate
	if m.keepCharset || strings.TrimSpace(prefs.Charset) == "" {
		return
	}
	if c, err := globe.ParseCharset(prefs.Charset); err == nil {
		m.charset = c
		if m.globe != nil {
			m.globe.SetCharset(c)
		}
	}
}

func (m Model) persistPreferences() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tuiactions.SavePreferencesCmd(m.service, storage.Preferences{
		Charset:    m.charset.String(),
		AutoRotate: m.autoRotate,
	})
}

// SetURLHandlers replaces the browser and clipboard integrations.
func (m *Model) SetURLHandlers(openFn, copyFn func(string) error) {
	m.openURLFn = openFn
	m.copyURLFn = copyFn
}

func (m Model) Phase() tuistate.Phase { return m.phase }

func (m Model) Status() string { return m.status }

func (m Model) Panel() (panel.Panel, bool) { return m.panel, m.hasCountry }
