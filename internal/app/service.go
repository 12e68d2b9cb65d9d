// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/respiview/respiview/internal/adapters/fetch"
	"github.com/respiview/respiview/internal/adapters/repository"
	"github.com/respiview/respiview/internal/domain/model"
	"github.com/respiview/respiview/internal/domain/registry"
	"github.com/respiview/respiview/internal/domain/scoring"
	"github.com/respiview/respiview/internal/domain/viewstate"
	"github.com/respiview/respiview/pkg/logger"
	"github.com/respiview/respiview/pkg/metrics"
)

// Fetcher loads snapshot documents for a dataset/location pair.
type Fetcher interface {
	Metadata(ctx context.Context, datasetDir string) (model.Metadata, error)
	LocationDocument(ctx context.Context, datasetDir, location string) (model.LocationDocument, error)
	NHSNSnapshot(ctx context.Context, location string) (model.NHSNSnapshot, error)
}

// Service implements the API dependencies for the forecast dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	games    repository.Store
	fetcher  Fetcher
	tracker  *fetch.Tracker
	registry *registry.Registry
	clock    clockwork.Clock

	// Configuration
	storeBackend    string
	storePath       string
	redisClient     repository.KVClient
	redisKey        string
	snapshotBaseURL string
	snapshotTimeout time.Duration
	metadataTTL     time.Duration

	// Availability metadata cache keyed by datasetDir/location.
	metaCache map[string]cachedMeta

	// State
	started bool

	// Logging
	logger logger.Logger
}

type cachedMeta struct {
	meta      viewstate.Metadata
	fetchedAt time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets a pre-built game store, bypassing backend construction.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.games = store
		}
	}
}

// WithStoreBackend selects the game store backend ("memory", "file", "redis")
// and, for the file backend, its path.
func WithStoreBackend(backend, path string) Option {
	return func(s *Service) {
		if backend != "" {
			s.storeBackend = backend
		}
		if path != "" {
			s.storePath = path
		}
	}
}

// WithRedisClient sets the KV client and key for the redis backend.
func WithRedisClient(client repository.KVClient, key string) Option {
	return func(s *Service) {
		s.redisClient = client
		if key != "" {
			s.redisKey = key
		}
	}
}

// WithFetcher sets a custom snapshot fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithSnapshotSource sets the snapshot host and per-request timeout used
// when no custom fetcher is provided.
func WithSnapshotSource(baseURL string, timeout time.Duration) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.snapshotBaseURL = baseURL
		}
		if timeout > 0 {
			s.snapshotTimeout = timeout
		}
	}
}

// WithRegistry sets the dataset registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Service) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithClock sets the clock used for streak computation.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetadataTTL sets how long availability metadata stays cached.
func WithMetadataTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.metadataTTL = ttl
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeBackend:    "memory",
		storePath:       "respiview_games.json",
		redisKey:        "respiview:games:v1",
		snapshotTimeout: 15 * time.Second,
		metadataTTL:     5 * time.Minute,
		metaCache:       make(map[string]cachedMeta),
		clock:           clockwork.NewRealClock(),
		registry:        registry.Builtin(),
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	if s.games == nil {
		store, err := s.buildStore(ctx)
		if err != nil {
			return fmt.Errorf("build game store: %w", err)
		}
		s.games = store
	}

	if s.fetcher == nil {
		if s.snapshotBaseURL == "" {
			return ErrNoSnapshotSource
		}
		s.fetcher = fetch.NewClient(s.snapshotBaseURL, s.snapshotTimeout)
	}
	s.tracker = fetch.NewTracker()

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("storeBackend", s.storeBackend),
		logger.Int("datasets", len(s.registry.All())),
		logger.Int("storedGames", s.games.Count(ctx)),
	)

	return nil
}

func (s *Service) buildStore(ctx context.Context) (repository.Store, error) {
	switch s.storeBackend {
	case "memory":
		s.logger.Info(ctx, "using in-memory game store")
		return repository.NewMemStore(), nil
	case "file":
		s.logger.Info(ctx, "using file game store", logger.String("path", s.storePath))
		return repository.NewFileStore(ctx, s.storePath, repository.WithFileLogger(s.logger))
	case "redis":
		if s.redisClient == nil {
			return nil, ErrNoRedisClient
		}
		s.logger.Info(ctx, "using redis game store", logger.String("key", s.redisKey))
		return repository.NewRedisStore(ctx, s.redisClient, s.redisKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.storeBackend)
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")

	if closer, ok := s.games.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// ResolveView reconciles a raw URL query against the availability metadata
// of the dataset it addresses. Fetches triggered by concurrent resolves for
// the same dataset/location supersede each other; a superseded fetch's
// result is discarded rather than applied.
func (s *Service) ResolveView(ctx context.Context, rawQuery string) (viewstate.Resolution, error) {
	p := viewstate.ParseQuery(rawQuery)
	view := viewstate.View(p, s.registry)
	ds := s.registry.ByView(view)
	if ds == nil {
		ds = s.registry.Default()
	}
	loc := viewstate.EffectiveLocation(p, ds)

	meta, err := s.metadataFor(ctx, ds, loc)
	if err != nil {
		return viewstate.Resolution{}, fmt.Errorf("load availability for %s/%s: %w", ds.ShortName, loc, err)
	}

	current := viewstate.ApplyDisplayParams(p, viewstate.NewState())
	res := viewstate.Resolve(s.registry, p, meta, current)

	metrics.RecordViewResolve()
	if res.Corrected {
		metrics.RecordParamCorrection()
		s.logger.Debug(ctx, "dropped stale URL selections",
			logger.String("view", view),
			logger.String("location", loc),
		)
	}
	return res, nil
}

// ChangeView applies a view switch to a raw URL query and returns the new
// state, parameters and history mode. An empty oldView derives the current
// view from the query.
func (s *Service) ChangeView(ctx context.Context, rawQuery, oldView, newView string) viewstate.ViewChange {
	p := viewstate.ParseQuery(rawQuery)
	if oldView == "" {
		oldView = viewstate.View(p, s.registry)
	}
	current := viewstate.ApplyDisplayParams(p, viewstate.NewState())

	vc := viewstate.ApplyViewChange(s.registry, current, p, oldView, newView)
	if vc.Changed {
		metrics.RecordViewChange()
	}
	return vc
}

// metadataFor returns availability metadata for a dataset/location pair,
// fetching and caching the location document on a miss.
func (s *Service) metadataFor(ctx context.Context, ds *registry.Dataset, location string) (viewstate.Metadata, error) {
	key := ds.ShortName + "/" + location

	s.mu.RLock()
	cached, ok := s.metaCache[key]
	s.mu.RUnlock()
	if ok && s.clock.Since(cached.fetchedAt) < s.metadataTTL {
		return cached.meta, nil
	}

	tag := s.tracker.Begin(key)
	meta, err := s.fetchMetadata(ctx, ds, location)
	if err != nil {
		return viewstate.Metadata{}, err
	}
	if s.tracker.Stale(tag) {
		// A later fetch for this key finished first; serve whatever it
		// cached instead of clobbering it with older data.
		s.mu.RLock()
		cached, ok = s.metaCache[key]
		s.mu.RUnlock()
		if ok {
			return cached.meta, nil
		}
	}

	s.mu.Lock()
	s.metaCache[key] = cachedMeta{meta: meta, fetchedAt: s.clock.Now()}
	s.mu.Unlock()
	return meta, nil
}

// fetchMetadata loads the availability sets for one dataset/location. NHSN
// publishes a flat series document instead of per-model forecasts, so its
// availability is just the series dates.
func (s *Service) fetchMetadata(ctx context.Context, ds *registry.Dataset, location string) (viewstate.Metadata, error) {
	if ds.ShortName == "nhsn" {
		snap, err := s.fetcher.NHSNSnapshot(ctx, location)
		if err != nil {
			return viewstate.Metadata{}, err
		}
		// NHSN has no date selector, so its views read from the
		// special-view date source.
		return viewstate.Metadata{AvailableDates: snap.Dates, PeakDates: snap.Dates}, nil
	}
	doc, err := s.fetcher.LocationDocument(ctx, ds.ShortName, location)
	if err != nil {
		return viewstate.Metadata{}, err
	}
	return MetadataFromDocument(doc), nil
}

// Locations returns the selectable locations of a dataset from its metadata
// document.
func (s *Service) Locations(ctx context.Context, dataset string) ([]model.MetadataLocation, error) {
	ds := s.registry.ByShortName(dataset)
	if ds == nil {
		return nil, fmt.Errorf("%w: %q", registry.ErrUnknownDataset, dataset)
	}
	meta, err := s.fetcher.Metadata(ctx, ds.ShortName)
	if err != nil {
		return nil, fmt.Errorf("load locations for %s: %w", ds.ShortName, err)
	}
	return meta.Locations, nil
}

// InvalidateMetadata drops all cached availability metadata.
func (s *Service) InvalidateMetadata() {
	s.mu.Lock()
	s.metaCache = make(map[string]cachedMeta)
	s.mu.Unlock()
}

// MetadataFromDocument derives availability metadata from a location
// document: dates from the forecast keys, models and targets from the
// entries under them, with peak-target entries tracked separately.
func MetadataFromDocument(doc model.LocationDocument) viewstate.Metadata {
	datesSet := make(map[string]struct{})
	modelSet := make(map[string]struct{})
	targetSet := make(map[string]struct{})
	peakDateSet := make(map[string]struct{})
	peakModelSet := make(map[string]struct{})

	for date, targets := range doc.Forecasts {
		datesSet[date] = struct{}{}
		for target, models := range targets {
			targetSet[target] = struct{}{}
			peak := target == viewstate.TargetPeakIncidence || target == viewstate.TargetPeakWeek
			if peak {
				peakDateSet[date] = struct{}{}
			}
			for name := range models {
				if peak {
					peakModelSet[name] = struct{}{}
				} else {
					modelSet[name] = struct{}{}
				}
			}
		}
	}

	return viewstate.Metadata{
		AvailableDates:   sortedKeys(datesSet),
		AvailableModels:  sortedKeys(modelSet),
		AvailableTargets: sortedKeys(targetSet),
		PeakDates:        sortedKeys(peakDateSet),
		PeakModels:       sortedKeys(peakModelSet),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ScoreGame scores a played game and persists the record. Games whose truth
// is entirely missing are stored unscored and counted as skipped.
func (s *Service) ScoreGame(ctx context.Context, rec model.GameRecord) (scoring.GameScore, error) {
	start := time.Now()
	rec = rec.WithDerivedID()

	score := scoring.ScoreGame(rec)
	if score.WIS == nil {
		metrics.RecordScoringSkipped()
		s.logger.Debug(ctx, "game has no scorable horizons",
			logger.String("gameID", rec.ID),
		)
	} else {
		metrics.RecordGameScored()
	}
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	if err := s.games.Save(ctx, rec); err != nil {
		return score, fmt.Errorf("save game %s: %w", rec.ID, err)
	}
	return score, nil
}

// Games returns the full stored history in insertion order.
func (s *Service) Games(ctx context.Context) ([]model.GameRecord, error) {
	return s.games.All(ctx)
}

// Game returns one stored record by id.
func (s *Service) Game(ctx context.Context, id string) (model.GameRecord, error) {
	return s.games.Get(ctx, id)
}

// SaveGame upserts a record without scoring it.
func (s *Service) SaveGame(ctx context.Context, rec model.GameRecord) error {
	return s.games.Save(ctx, rec.WithDerivedID())
}

// DeleteGame removes one stored record by id.
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	return s.games.Delete(ctx, id)
}

// ClearGames removes the entire stored history.
func (s *Service) ClearGames(ctx context.Context) error {
	return s.games.Clear(ctx)
}

// ExportGames renders the stored history as a JSON array string.
func (s *Service) ExportGames(ctx context.Context) (string, error) {
	return s.games.Export(ctx)
}

// ImportGames replaces the stored history from a JSON array string and
// returns the number of imported records.
func (s *Service) ImportGames(ctx context.Context, data string) (int, error) {
	return s.games.Import(ctx, data)
}

// Stats computes cross-game summary statistics over the stored history.
func (s *Service) Stats(ctx context.Context) (scoring.Summary, error) {
	recs, err := s.games.All(ctx)
	if err != nil {
		return scoring.Summary{}, err
	}
	return scoring.Summarize(recs, s.clock), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"storeBackend": s.storeBackend,
		"datasets":     len(s.registry.All()),
	}

	if s.started {
		stored := s.games.Count(ctx)
		stats["storedGames"] = stored
		stats["cachedMetadata"] = len(s.metaCache)

		metrics.UpdateGamesStored(stored)
	}

	return stats
}
