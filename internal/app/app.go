package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glabrego/orbital-cli/internal/catalog"
	"github.com/glabrego/orbital-cli/internal/panel"
	"github.com/glabrego/orbital-cli/internal/restcountries"
	"github.com/glabrego/orbital-cli/internal/storage"
	"github.com/glabrego/orbital-cli/internal/topology"
)

const DefaultRecentLimit = 5

type CountryResolver interface {
	Resolve(ctx context.Context, name string) (*restcountries.CountryInfo, error)
}

type Repository interface {
	RecordVisit(ctx context.Context, visit storage.Visit) error
	RecentVisits(ctx context.Context, limit int) ([]storage.Visit, error)
	LoadPreferences(ctx context.Context) (storage.Preferences, error)
	SavePreferences(ctx context.Context, prefs storage.Preferences) error
}

// Sources names where the catalog and the world topology are read from.
// Each may be a local path or an http(s) URL.
type Sources struct {
	Catalog  string
	Topology string
}

// Selection is a resolved country joined with its catalog entries.
type Selection struct {
	Info  *restcountries.CountryInfo
	Sites []catalog.WebsiteEntry
	Panel panel.Panel
}

type Service struct {
	resolver CountryResolver
	repo     Repository
	sources  Sources
	http     *http.Client
	logger   *zap.Logger
	nowFn    func() time.Time
}

// NewService wires the app. repo may be nil, in which case history and
// preferences are not persisted.
func NewService(resolver CountryResolver, repo Repository, sources Sources, httpClient *http.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver: resolver,
		repo:     repo,
		sources:  sources,
		http:     httpClient,
		logger:   logger,
		nowFn:    time.Now,
	}
}

// LoadCatalog never fails; see catalog.Load.
func (s *Service) LoadCatalog(ctx context.Context) catalog.Catalog {
	return catalog.Load(ctx, s.sources.Catalog, s.http, s.logger)
}

func (s *Service) LoadTopology(ctx context.Context) ([]topology.Feature, error) {
	features, err := topology.Load(ctx, s.sources.Topology, s.http)
	if err != nil {
		s.logger.Error("topology load failed", zap.String("source", s.sources.Topology), zap.Error(err))
		return nil, fmt.Errorf("load world topology: %w", err)
	}
	s.logger.Info("topology loaded", zap.Int("features", len(features)))
	return features, nil
}

// ResolveCountry looks up metadata for a clicked country and records the
// visit. History failures are logged and otherwise ignored.
func (s *Service) ResolveCountry(ctx context.Context, name string) (*restcountries.CountryInfo, error) {
	log := s.logger.With(zap.String("request_id", uuid.NewString()), zap.String("country", name))
	start := s.nowFn()

	info, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		log.Warn("country lookup failed", zap.Error(err), zap.Duration("elapsed", s.nowFn().Sub(start)))
		return nil, err
	}
	log.Debug("country resolved", zap.String("code", info.Code), zap.Duration("elapsed", s.nowFn().Sub(start)))

	if s.repo != nil {
		visit := storage.Visit{Country: info.Name, Code: info.Code, VisitedAt: s.nowFn()}
		if visit.Country == "" {
			visit.Country = name
		}
		if err := s.repo.RecordVisit(ctx, visit); err != nil {
			log.Warn("record visit failed", zap.Error(err))
		}
	}
	return info, nil
}

// Select loads the catalog and resolves name concurrently, then builds the
// panel. Only the resolve can fail.
func (s *Service) Select(ctx context.Context, name string) (Selection, error) {
	var (
		cat  catalog.Catalog
		info *restcountries.CountryInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cat = s.LoadCatalog(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		info, err = s.ResolveCountry(gctx, name)
		return err
	})
	if err := g.Wait(); err != nil {
		return Selection{}, err
	}

	sites := cat.Sites(info.Code)
	return Selection{Info: info, Sites: sites, Panel: panel.Build(*info, sites)}, nil
}

func (s *Service) RecentVisits(ctx context.Context, limit int) ([]storage.Visit, error) {
	if s.repo == nil {
		return nil, nil
	}
	visits, err := s.repo.RecentVisits(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent visits: %w", err)
	}
	return visits, nil
}

func (s *Service) LoadPreferences(ctx context.Context) (storage.Preferences, error) {
	if s.repo == nil {
		return storage.DefaultPreferences(), nil
	}
	prefs, err := s.repo.LoadPreferences(ctx)
	if err != nil {
		return storage.DefaultPreferences(), fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

func (s *Service) SavePreferences(ctx context.Context, prefs storage.Preferences) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
