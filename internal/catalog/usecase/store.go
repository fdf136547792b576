package usecase

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/filter"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// Store is one application instance: a catalog working copy, a session and
// the active search. Build it with NewStore; nothing is shared between
// stores.
type Store struct {
	Catalog *CatalogUsecase
	Session *SessionUsecase

	mu       sync.RWMutex
	query    string
	criteria domain.Criteria

	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

type storeOptions struct {
	logger    *logger.Logger
	metrics   *metrics.MetricsManager
	publisher domain.EventPublisher
}

type Option func(*storeOptions)

func WithLogger(l *logger.Logger) Option {
	return func(o *storeOptions) { o.logger = l }
}

func WithMetrics(m *metrics.MetricsManager) Option {
	return func(o *storeOptions) { o.metrics = m }
}

func WithPublisher(p domain.EventPublisher) Option {
	return func(o *storeOptions) { o.publisher = p }
}

type noCredentials struct{}

func (noCredentials) ResolveCredential(context.Context, string) (*domain.ResolvedCredential, error) {
	return nil, domain.ErrCredentialNotFound
}

// NewStore wires a store around catalog. A nil resolver rejects every login.
// The session starts anonymous; call Session.RestoreSession to load the
// stored snapshot.
func NewStore(catalog *domain.Catalog, storage domain.KeyValueStorage, resolver domain.CredentialResolver, opts ...Option) *Store {
	o := storeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.NewNop()
	}
	if o.metrics == nil {
		o.metrics = metrics.NewMetricsManager("catalog")
	}
	if o.publisher == nil {
		o.publisher = domain.NoopPublisher{}
	}
	if resolver == nil {
		resolver = noCredentials{}
	}

	catalogUC := NewCatalogUsecase(catalog, o.publisher, o.metrics, o.logger)
	return &Store{
		Catalog: catalogUC,
		Session: NewSessionUsecase(storage, resolver, catalogUC, o.publisher, o.metrics, o.logger),
		metrics: o.metrics,
		logger:  o.logger.Named("store"),
	}
}

func (s *Store) Metrics() *metrics.MetricsManager {
	return s.metrics
}

func (s *Store) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

func (s *Store) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// MergeFilters overlays patch on the active criteria. The result is
// validated first; on error the active criteria are unchanged.
func (s *Store) MergeFilters(patch domain.Criteria) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.criteria.Merge(patch)
	if err := merged.Validate(); err != nil {
		s.logger.Debug("filter patch rejected", zap.Error(err))
		return err
	}
	s.criteria = merged
	return nil
}

func (s *Store) ClearFilters(fields ...domain.FilterField) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = s.criteria.Without(fields...)
}

// ResetFilters clears both the criteria and the text query.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = domain.Criteria{}
	s.query = ""
}

func (s *Store) Filters() domain.Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Criteria{}.Merge(s.criteria)
}

// VisibleListings evaluates the active query and criteria.
func (s *Store) VisibleListings() []domain.Listing {
	s.mu.RLock()
	query, criteria := s.query, s.criteria
	s.mu.RUnlock()
	return s.evaluate(query, criteria)
}

// Search evaluates an ad-hoc search without touching the active one.
func (s *Store) Search(query string, criteria domain.Criteria) ([]domain.Listing, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return s.evaluate(query, criteria), nil
}

func (s *Store) evaluate(query string, criteria domain.Criteria) []domain.Listing {
	result := filter.Apply(s.Catalog.Listings(), query, criteria)
	s.metrics.SearchesTotal.Inc()
	s.metrics.SearchResults.Observe(float64(len(result)))
	return result
}

// FavoriteListings resolves the session favorites in the order they were
// added.
func (s *Store) FavoriteListings() []domain.Listing {
	ids := s.Session.Favorites()
	out := make([]domain.Listing, 0, len(ids))
	for _, id := range ids {
		l, err := s.Catalog.Listing(id)
		if err != nil {
			continue
		}
		out = append(out, l)
	}
	return out
}
