package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/orbital-cli/internal/catalog"
	"github.com/glabrego/orbital-cli/internal/restcountries"
	"github.com/glabrego/orbital-cli/internal/storage"
	"github.com/glabrego/orbital-cli/internal/topology"
)

// FrameInterval paces the globe animation.
const FrameInterval = 80 * time.Millisecond

type Service interface {
	LoadCatalog(ctx context.Context) catalog.Catalog
	LoadTopology(ctx context.Context) ([]topology.Feature, error)
	ResolveCountry(ctx context.Context, name string) (*restcountries.CountryInfo, error)
	RecentVisits(ctx context.Context, limit int) ([]storage.Visit, error)
	LoadPreferences(ctx context.Context) (storage.Preferences, error)
	SavePreferences(ctx context.Context, prefs storage.Preferences) error
}

type StartMsg struct{}

type FrameMsg struct {
	At time.Time
}

type CatalogLoadedMsg struct {
	Catalog  catalog.Catalog
	Duration time.Duration
}

type TopologyLoadedMsg struct {
	Features []topology.Feature
	Duration time.Duration
}

type TopologyErrorMsg struct {
	Err error
}

type CountryResolvedMsg struct {
	Name string
	Info *restcountries.CountryInfo
}

type CountryErrorMsg struct {
	Name string
	Err  error
}

type PreferencesLoadedMsg struct {
	Prefs storage.Preferences
	Err   error
}

type PreferenceSaveErrorMsg struct {
	Err error
}

type RecentVisitsMsg struct {
	Visits []storage.Visit
	Err    error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type FlagPreviewSuccessMsg struct {
	URL     string
	Preview string
}

type FlagPreviewErrorMsg struct {
	URL string
	Err error
}

func StartCmd() tea.Cmd {
	return func() tea.Msg { return StartMsg{} }
}

// FrameCmd schedules the next animation frame.
func FrameCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = FrameInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{At: t}
	})
}

func LoadCatalogCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		c := service.LoadCatalog(context.Background())
		return CatalogLoadedMsg{Catalog: c, Duration: time.Since(start)}
	}
}

func LoadTopologyCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		features, err := service.LoadTopology(context.Background())
		if err != nil {
			return TopologyErrorMsg{Err: err}
		}
		return TopologyLoadedMsg{Features: features, Duration: time.Since(start)}
	}
}

// ResolveCountryCmd looks one country up. Nothing cancels it; a later pick
// does not stop an earlier lookup from delivering its result.
func ResolveCountryCmd(service Service, name string) tea.Cmd {
	return func() tea.Msg {
		info, err := service.ResolveCountry(context.Background(), name)
		if err != nil {
			return CountryErrorMsg{Name: name, Err: err}
		}
		return CountryResolvedMsg{Name: name, Info: info}
	}
}

func LoadPreferencesCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		prefs, err := service.LoadPreferences(ctx)
		return PreferencesLoadedMsg{Prefs: prefs, Err: err}
	}
}

func SavePreferencesCmd(service Service, prefs storage.Preferences) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := service.SavePreferences(ctx, prefs); err != nil {
			return PreferenceSaveErrorMsg{Err: err}
		}
		return nil
	}
}

func LoadRecentVisitsCmd(service Service, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		visits, err := service.RecentVisits(ctx, limit)
		return RecentVisitsMsg{Visits: visits, Err: err}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened " + url + " in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", Opened: false}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

func FlagPreviewCmd(url string, width int, renderFn func(string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		if renderFn == nil {
			return FlagPreviewErrorMsg{URL: url, Err: fmt.Errorf("flag preview disabled")}
		}
		preview, err := renderFn(url, width)
		if err != nil {
			return FlagPreviewErrorMsg{URL: url, Err: err}
		}
		return FlagPreviewSuccessMsg{URL: url, Preview: preview}
	}
}
