package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type listingIndex interface {
	HasListing(id string) bool
}

// SessionUsecase holds the current user and the device favorites, and
// mirrors them into KeyValueStorage after every change. Storage failures
// are logged and counted, never returned: the in-memory state stays
// authoritative for the running instance.
type SessionUsecase struct {
	mu            sync.RWMutex
	user          *domain.User
	authenticated bool
	favorites     []string
	favoriteSet   map[string]struct{}

	storage   domain.KeyValueStorage
	validator *CredentialValidator
	resolver  domain.CredentialResolver
	listings  listingIndex
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	now       func() time.Time
}

func NewSessionUsecase(
	storage domain.KeyValueStorage,
	resolver domain.CredentialResolver,
	listings listingIndex,
	publisher domain.EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *SessionUsecase {
	return &SessionUsecase{
		favoriteSet: make(map[string]struct{}),
		storage:     storage,
		validator:   NewCredentialValidator(resolver, log),
		resolver:    resolver,
		listings:    listings,
		publisher:   publisher,
		metrics:     m,
		logger:      log.Named("session"),
		now:         time.Now,
	}
}

type snapshot struct {
	favorites     []string
	authenticated bool
	email         string
}

// errCorruptSnapshot marks stored values that cannot be read back.
var errCorruptSnapshot = errors.New("corrupt session snapshot")

// RestoreSession rebuilds the session from storage. It never fails: any
// unreadable value leaves an anonymous session with no favorites, stale
// favorites are dropped, and a stored email that no longer resolves is
// logged out.
func (s *SessionUsecase) RestoreSession(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "SessionUsecase.RestoreSession")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.setFavoritesLocked(nil)

	snap, err := s.readSnapshot(ctx)
	if err != nil {
		s.logger.Warn("session snapshot unreadable, starting anonymous", zap.Error(err))
		return
	}

	kept := make([]string, 0, len(snap.favorites))
	seen := make(map[string]struct{}, len(snap.favorites))
	for _, id := range snap.favorites {
		if _, dup := seen[id]; dup || !s.listings.HasListing(id) {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
	}
	s.setFavoritesLocked(kept)
	if len(kept) != len(snap.favorites) {
		s.logger.Info("dropped stale favorites", zap.Int("stored", len(snap.favorites)), zap.Int("kept", len(kept)))
		s.persistFavoritesLocked(ctx)
	}

	if !snap.authenticated {
		return
	}
	if snap.email == "" {
		s.logger.Info("authenticated flag without email, clearing it")
		s.deleteAuthKeys(ctx)
		return
	}

	rc, err := s.resolver.ResolveCredential(ctx, snap.email)
	switch {
	case errors.Is(err, domain.ErrCredentialNotFound):
		s.logger.Info("stored user no longer exists, clearing session", zap.String("email", snap.email))
		s.deleteAuthKeys(ctx)
		return
	case err != nil:
		s.logger.Warn("could not resolve stored user, staying anonymous", zap.Error(err))
		return
	}

	user := rc.Profile.Clone()
	if user.Email == "" {
		user.Email = rc.Credential.Email
	}
	if user.ID == "" {
		user.ID = rc.Credential.UserID
	}
	s.user = &user
	s.authenticated = true
	span.SetAttributes(attribute.String("user.id", user.ID))
	s.logger.Debug("session restored", zap.String("user_id", user.ID), zap.Int("favorites", len(kept)))
}

func (s *SessionUsecase) readSnapshot(ctx context.Context) (snapshot, error) {
	var snap snapshot

	raw, found, err := s.read(ctx, domain.KeyFavorites)
	if err != nil {
		return snap, err
	}
	if found {
		if err := json.Unmarshal([]byte(raw), &snap.favorites); err != nil {
			return snap, fmt.Errorf("%w: favorites: %v", errCorruptSnapshot, err)
		}
	}

	raw, found, err = s.read(ctx, domain.KeyIsAuthenticated)
	if err != nil {
		return snap, err
	}
	if found {
		snap.authenticated, err = strconv.ParseBool(raw)
		if err != nil {
			return snap, fmt.Errorf("%w: isAuthenticated=%q", errCorruptSnapshot, raw)
		}
	}

	raw, found, err = s.read(ctx, domain.KeyUserEmail)
	if err != nil {
		return snap, err
	}
	if found {
		snap.email = raw
	}
	return snap, nil
}

func (s *SessionUsecase) read(ctx context.Context, key string) (string, bool, error) {
	v, err := s.storage.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		s.metrics.StorageErrorsTotal.WithLabelValues("read").Inc()
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, true, nil
}

// Login replaces the current session only when the credentials are valid.
func (s *SessionUsecase) Login(ctx context.Context, email, password string) error {
	ctx, span := tracer.Start(ctx, "SessionUsecase.Login")
	defer span.End()

	user, err := s.validator.Authenticate(ctx, email, password)
	if err != nil {
		s.metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		s.logger.Info("login rejected", zap.String("email", email))
		return err
	}
	s.metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.write(ctx, domain.KeyIsAuthenticated, "true")
	s.write(ctx, domain.KeyUserEmail, email)
	s.mu.Unlock()

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	s.publish(ctx, domain.SubjectSessionLogin, domain.SessionEvent{UserID: user.ID, Email: user.Email, OccurredAt: s.now()})
	return nil
}

// Logout forgets the user. Favorites belong to the device and are kept.
func (s *SessionUsecase) Logout(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "SessionUsecase.Logout")
	defer span.End()

	s.mu.Lock()
	prev := s.user
	s.clearLocked()
	s.deleteAuthKeys(ctx)
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info("user logged out", zap.String("user_id", prev.ID))
		s.publish(ctx, domain.SubjectSessionLogout, domain.SessionEvent{UserID: prev.ID, Email: prev.Email, OccurredAt: s.now()})
	}
}

// ToggleFavorite flips membership of id and reports whether it is now a
// favorite.
func (s *SessionUsecase) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "SessionUsecase.ToggleFavorite")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", id))

	if !s.listings.HasListing(id) {
		return false, domain.ErrListingNotFound
	}

	s.mu.Lock()
	_, was := s.favoriteSet[id]
	if was {
		delete(s.favoriteSet, id)
		for i, f := range s.favorites {
			if f == id {
				s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
				break
			}
		}
	} else {
		s.favoriteSet[id] = struct{}{}
		s.favorites = append(s.favorites, id)
	}
	s.persistFavoritesLocked(ctx)
	var userID string
	if s.user != nil {
		userID = s.user.ID
	}
	s.mu.Unlock()

	action := "added"
	if was {
		action = "removed"
	}
	s.metrics.FavoriteTogglesTotal.WithLabelValues(action).Inc()
	s.publish(ctx, domain.SubjectFavoriteToggled, domain.FavoriteToggledEvent{
		ListingID:  id,
		Favorite:   !was,
		UserID:     userID,
		OccurredAt: s.now(),
	})
	return !was, nil
}

func (s *SessionUsecase) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// CurrentUser returns a copy of the logged in user, or nil.
func (s *SessionUsecase) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := s.user.Clone()
	return &u
}

// Favorites returns listing ids in the order they were added.
func (s *SessionUsecase) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.favorites...)
}

func (s *SessionUsecase) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favoriteSet[id]
	return ok
}

// SaveSearch attaches a named search to the current user's profile.
func (s *SessionUsecase) SaveSearch(ctx context.Context, name, query string, criteria domain.Criteria) (domain.SavedSearch, error) {
	_, span := tracer.Start(ctx, "SessionUsecase.SaveSearch")
	defer span.End()

	if err := criteria.Validate(); err != nil {
		return domain.SavedSearch{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.SavedSearch{}, domain.ErrNotAuthenticated
	}
	saved := domain.SavedSearch{
		ID:        uuid.NewString(),
		Name:      name,
		Query:     query,
		Criteria:  domain.Criteria{}.Merge(criteria),
		CreatedAt: s.now(),
	}
	s.user.SavedSearches = append(s.user.SavedSearches, saved)
	s.logger.Debug("search saved", zap.String("user_id", s.user.ID), zap.String("search_id", saved.ID))
	return saved, nil
}

func (s *SessionUsecase) SavedSearches() []domain.SavedSearch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	return append([]domain.SavedSearch(nil), s.user.SavedSearches...)
}

func (s *SessionUsecase) DeleteSavedSearch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.ErrNotAuthenticated
	}
	for i, ss := range s.user.SavedSearches {
		if ss.ID == id {
			s.user.SavedSearches = append(s.user.SavedSearches[:i], s.user.SavedSearches[i+1:]...)
			return nil
		}
	}
	return domain.ErrSavedSearchNotFound
}

func (s *SessionUsecase) SetNotificationsEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.ErrNotAuthenticated
	}
	s.user.NotificationsEnabled = enabled
	return nil
}

func (s *SessionUsecase) clearLocked() {
	s.user = nil
	s.authenticated = false
}

func (s *SessionUsecase) setFavoritesLocked(ids []string) {
	s.favorites = append([]string{}, ids...)
	s.favoriteSet = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.favoriteSet[id] = struct{}{}
	}
}

func (s *SessionUsecase) persistFavoritesLocked(ctx context.Context) {
	data, err := json.Marshal(s.favorites)
	if err != nil {
		s.logger.Error("failed to encode favorites", zap.Error(err))
		return
	}
	s.write(ctx, domain.KeyFavorites, string(data))
}

func (s *SessionUsecase) write(ctx context.Context, key, value string) {
	if err := s.storage.Set(ctx, key, value); err != nil {
		s.metrics.StorageErrorsTotal.WithLabelValues("write").Inc()
		s.logger.Warn("failed to persist session key", zap.String("key", key), zap.Error(err))
	}
}

func (s *SessionUsecase) deleteAuthKeys(ctx context.Context) {
	if err := s.storage.Delete(ctx, domain.KeyIsAuthenticated, domain.KeyUserEmail); err != nil {
		s.metrics.StorageErrorsTotal.WithLabelValues("delete").Inc()
		s.logger.Warn("failed to delete session keys", zap.Error(err))
	}
}

func (s *SessionUsecase) publish(ctx context.Context, subject string, event interface{}) {
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		s.logger.Warn("failed to publish session event", zap.String("subject", subject), zap.Error(err))
	}
}
