package actions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glabrego/orbital-cli/internal/catalog"
	"github.com/glabrego/orbital-cli/internal/restcountries"
	"github.com/glabrego/orbital-cli/internal/storage"
	"github.com/glabrego/orbital-cli/internal/topology"
)

type fakeService struct {
	catalog catalog.Catalog

	features    []topology.Feature
	topologyErr error

	info       *restcountries.CountryInfo
	resolveErr error

	visits    []storage.Visit
	visitsErr error

	prefs    storage.Preferences
	prefsErr error
	saveErr  error

	lastResolved  string
	lastSaved     storage.Preferences
	lastLimit     int
	savedDeadline time.Time
}

func (f *fakeService) LoadCatalog(context.Context) catalog.Catalog {
	return f.catalog
}

func (f *fakeService) LoadTopology(context.Context) ([]topology.Feature, error) {
	if f.topologyErr != nil {
		return nil, f.topologyErr
	}
	return f.features, nil
}

func (f *fakeService) ResolveCountry(_ context.Context, name string) (*restcountries.CountryInfo, error) {
	f.lastResolved = name
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.info, nil
}

func (f *fakeService) RecentVisits(_ context.Context, limit int) ([]storage.Visit, error) {
	f.lastLimit = limit
	return f.visits, f.visitsErr
}

func (f *fakeService) LoadPreferences(context.Context) (storage.Preferences, error) {
	return f.prefs, f.prefsErr
}

func (f *fakeService) SavePreferences(ctx context.Context, prefs storage.Preferences) error {
	if dl, ok := ctx.Deadline(); ok {
		f.savedDeadline = dl
	}
	f.lastSaved = prefs
	return f.saveErr
}

func TestLoadCatalogCmd(t *testing.T) {
	c, err := catalog.Parse([]byte(`{"au": ["https://abc.net.au"]}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	msg := LoadCatalogCmd(&fakeService{catalog: c})()
	loaded, ok := msg.(CatalogLoadedMsg)
	if !ok {
		t.Fatalf("expected CatalogLoadedMsg, got %T", msg)
	}
	if got := len(loaded.Catalog.Sites("AU")); got != 1 {
		t.Fatalf("expected 1 site, got %d", got)
	}
}

func TestLoadTopologyCmd(t *testing.T) {
	features := []topology.Feature{{ID: "036"}}
	msg := LoadTopologyCmd(&fakeService{features: features})()
	loaded, ok := msg.(TopologyLoadedMsg)
	if !ok || len(loaded.Features) != 1 {
		t.Fatalf("expected TopologyLoadedMsg with 1 feature, got %T %+v", msg, msg)
	}

	msg = LoadTopologyCmd(&fakeService{topologyErr: errors.New("offline")})()
	if _, ok := msg.(TopologyErrorMsg); !ok {
		t.Fatalf("expected TopologyErrorMsg, got %T", msg)
	}
}

func TestResolveCountryCmd(t *testing.T) {
	info := &restcountries.CountryInfo{Name: "Australia", Code: "AU"}
	svc := &fakeService{info: info}
	msg := ResolveCountryCmd(svc, "Australia")()
	resolved, ok := msg.(CountryResolvedMsg)
	if !ok {
		t.Fatalf("expected CountryResolvedMsg, got %T", msg)
	}
	if resolved.Name != "Australia" || resolved.Info != info {
		t.Fatalf("unexpected resolved message: %+v", resolved)
	}

	svc = &fakeService{resolveErr: errors.New(`country "Atlantis" not found`)}
	msg = ResolveCountryCmd(svc, "Atlantis")()
	failed, ok := msg.(CountryErrorMsg)
	if !ok || failed.Name != "Atlantis" {
		t.Fatalf("expected CountryErrorMsg for Atlantis, got %T %+v", msg, msg)
	}
}

func TestPreferencesCmds(t *testing.T) {
	svc := &fakeService{prefs: storage.Preferences{Charset: "ascii", AutoRotate: false}}
	msg := LoadPreferencesCmd(svc)()
	loaded, ok := msg.(PreferencesLoadedMsg)
	if !ok || loaded.Err != nil || loaded.Prefs.Charset != "ascii" {
		t.Fatalf("unexpected preferences message: %T %+v", msg, msg)
	}

	start := time.Now()
	if msg := SavePreferencesCmd(svc, storage.Preferences{Charset: "braille", AutoRotate: true})(); msg != nil {
		t.Fatalf("expected nil message on save success, got %T", msg)
	}
	if svc.lastSaved.Charset != "braille" {
		t.Fatalf("unexpected saved prefs: %+v", svc.lastSaved)
	}
	if svc.savedDeadline.Before(start) || svc.savedDeadline.After(start.Add(6*time.Second)) {
		t.Fatalf("unexpected save deadline: %v", svc.savedDeadline)
	}

	svc.saveErr = errors.New("disk full")
	if _, ok := SavePreferencesCmd(svc, storage.DefaultPreferences())().(PreferenceSaveErrorMsg); !ok {
		t.Fatal("expected PreferenceSaveErrorMsg")
	}
}

func TestLoadRecentVisitsCmd(t *testing.T) {
	svc := &fakeService{visits: []storage.Visit{{Country: "Australia", Code: "AU"}}}
	msg := LoadRecentVisitsCmd(svc, 3)()
	visits, ok := msg.(RecentVisitsMsg)
	if !ok || len(visits.Visits) != 1 || svc.lastLimit != 3 {
		t.Fatalf("unexpected visits message: %T %+v (limit %d)", msg, msg, svc.lastLimit)
	}
}

func TestOpenURLCmd_Fallbacks(t *testing.T) {
	msg := OpenURLCmd("https://abc.net.au",
		func(string) error { return nil },
		func(string) error { return nil },
	)()
	success, ok := msg.(OpenURLSuccessMsg)
	if !ok || !success.Opened || !strings.Contains(success.Status, "abc.net.au") {
		t.Fatalf("expected opened success, got %T %+v", msg, success)
	}

	msg = OpenURLCmd("https://abc.net.au",
		func(string) error { return errors.New("open failed") },
		func(string) error { return nil },
	)()
	success, ok = msg.(OpenURLSuccessMsg)
	if !ok || success.Opened {
		t.Fatalf("expected copy fallback success, got %T %+v", msg, success)
	}

	msg = OpenURLCmd("https://abc.net.au",
		func(string) error { return errors.New("open failed") },
		func(string) error { return errors.New("copy failed") },
	)()
	if _, ok := msg.(OpenURLErrorMsg); !ok {
		t.Fatalf("expected OpenURLErrorMsg, got %T", msg)
	}
}

func TestCopyURLCmd(t *testing.T) {
	msg := CopyURLCmd("https://abc.net.au", func(string) error { return nil })()
	if _, ok := msg.(OpenURLSuccessMsg); !ok {
		t.Fatalf("expected OpenURLSuccessMsg, got %T", msg)
	}
	msg = CopyURLCmd("https://abc.net.au", func(string) error { return errors.New("copy failed") })()
	if _, ok := msg.(OpenURLErrorMsg); !ok {
		t.Fatalf("expected OpenURLErrorMsg, got %T", msg)
	}
}

func TestFlagPreviewCmd(t *testing.T) {
	msg := FlagPreviewCmd("https://flagcdn.com/w80/au.png", 30, func(url string, width int) (string, error) {
		return "flag:" + url, nil
	})()
	success, ok := msg.(FlagPreviewSuccessMsg)
	if !ok || success.Preview != "flag:https://flagcdn.com/w80/au.png" {
		t.Fatalf("unexpected preview message: %T %+v", msg, msg)
	}

	msg = FlagPreviewCmd("https://flagcdn.com/w80/au.png", 30, nil)()
	if _, ok := msg.(FlagPreviewErrorMsg); !ok {
		t.Fatalf("expected FlagPreviewErrorMsg, got %T", msg)
	}
}
