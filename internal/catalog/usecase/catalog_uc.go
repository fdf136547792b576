package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/filter"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("catalog-service/usecase")

const (
	interactionLike  = "like"
	interactionShare = "share"
	interactionView  = "view"
)

// CatalogUsecase owns the in-memory working copy of the catalog. Counters
// changed here live only as long as the instance.
type CatalogUsecase struct {
	mu       sync.RWMutex
	seed     []domain.Listing
	listings []domain.Listing
	index    map[string]int

	agents        []domain.Agent
	agentIndex    map[string]int
	articles      []domain.Article
	conversations []domain.Conversation

	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	now       func() time.Time
}

func NewCatalogUsecase(c *domain.Catalog, publisher domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *CatalogUsecase {
	if c == nil {
		c = &domain.Catalog{}
	}
	uc := &CatalogUsecase{
		seed:          cloneListings(c.Listings),
		agents:        append([]domain.Agent(nil), c.Agents...),
		articles:      append([]domain.Article(nil), c.Articles...),
		conversations: append([]domain.Conversation(nil), c.Conversations...),
		publisher:     publisher,
		metrics:       m,
		logger:        log.Named("catalog"),
		now:           time.Now,
	}
	uc.listings = cloneListings(uc.seed)
	uc.index = indexListings(uc.listings)
	uc.agentIndex = make(map[string]int, len(uc.agents))
	for i, a := range uc.agents {
		uc.agentIndex[a.ID] = i
	}
	return uc
}

func cloneListings(in []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, len(in))
	for i, l := range in {
		out[i] = l.Clone()
	}
	return out
}

func indexListings(listings []domain.Listing) map[string]int {
	idx := make(map[string]int, len(listings))
	for i, l := range listings {
		if _, dup := idx[l.ID]; !dup {
			idx[l.ID] = i
		}
	}
	return idx
}

// Listings returns a copy of every listing in catalog order.
func (uc *CatalogUsecase) Listings() []domain.Listing {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return cloneListings(uc.listings)
}

func (uc *CatalogUsecase) Listing(id string) (domain.Listing, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	i, ok := uc.index[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return uc.listings[i].Clone(), nil
}

func (uc *CatalogUsecase) HasListing(id string) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	_, ok := uc.index[id]
	return ok
}

func (uc *CatalogUsecase) Agents() []domain.Agent {
	return append([]domain.Agent(nil), uc.agents...)
}

func (uc *CatalogUsecase) Agent(id string) (domain.Agent, error) {
	i, ok := uc.agentIndex[id]
	if !ok {
		return domain.Agent{}, domain.ErrAgentNotFound
	}
	return uc.agents[i], nil
}

// AgentOf returns the agent that published the listing.
func (uc *CatalogUsecase) AgentOf(listingID string) (domain.Agent, error) {
	l, err := uc.Listing(listingID)
	if err != nil {
		return domain.Agent{}, err
	}
	return uc.Agent(l.AgentID)
}

func (uc *CatalogUsecase) Articles() []domain.Article {
	return append([]domain.Article(nil), uc.articles...)
}

// Conversations lists the threads userID takes part in.
func (uc *CatalogUsecase) Conversations(userID string) []domain.Conversation {
	out := make([]domain.Conversation, 0)
	for _, c := range uc.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out
}

// Featured returns premium listings.
func (uc *CatalogUsecase) Featured() []domain.Listing {
	return uc.selectListings(func(l domain.Listing) bool { return l.IsPremium })
}

// Recent returns listings flagged as new.
func (uc *CatalogUsecase) Recent() []domain.Listing {
	return uc.selectListings(func(l domain.Listing) bool { return l.IsNew })
}

func (uc *CatalogUsecase) selectListings(keep func(domain.Listing) bool) []domain.Listing {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := make([]domain.Listing, 0)
	for _, l := range uc.listings {
		if keep(l) {
			out = append(out, l.Clone())
		}
	}
	return out
}

// Stats aggregates the dashboard numbers. An empty agentID covers the whole
// catalog.
func (uc *CatalogUsecase) Stats(agentID string) domain.CatalogStats {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	st := domain.CatalogStats{
		ByCategory:    make(map[domain.Category]int),
		ByTransaction: make(map[domain.TransactionKind]int),
	}
	for _, l := range uc.listings {
		if agentID != "" && l.AgentID != agentID {
			continue
		}
		st.Listings++
		if l.IsPremium {
			st.Premium++
		}
		if l.IsNew {
			st.New++
		}
		if l.Status == domain.ModerationPending {
			st.PendingReview++
		}
		st.Views += l.Views
		st.Likes += l.Likes
		st.Shares += l.Shares
		st.ByCategory[l.Category]++
		st.ByTransaction[l.Transaction]++
	}
	return st
}

func (uc *CatalogUsecase) FilterOptions() domain.FilterOptions {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return filter.BuildOptions(uc.listings)
}

func (uc *CatalogUsecase) IncrementLike(ctx context.Context, id string) (int64, error) {
	return uc.increment(ctx, id, interactionLike)
}

func (uc *CatalogUsecase) IncrementShare(ctx context.Context, id string) (int64, error) {
	return uc.increment(ctx, id, interactionShare)
}

func (uc *CatalogUsecase) IncrementView(ctx context.Context, id string) (int64, error) {
	return uc.increment(ctx, id, interactionView)
}

func (uc *CatalogUsecase) increment(ctx context.Context, id, kind string) (int64, error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.increment", trace.WithAttributes(
		attribute.String("listing.id", id),
		attribute.String("interaction.kind", kind),
	))
	defer span.End()

	uc.mu.Lock()
	i, ok := uc.index[id]
	if !ok {
		uc.mu.Unlock()
		uc.logger.Debug("interaction on unknown listing", zap.String("listing_id", id), zap.String("kind", kind))
		return 0, domain.ErrListingNotFound
	}
	l := &uc.listings[i]
	var count int64
	var subject string
	switch kind {
	case interactionLike:
		l.Likes++
		count, subject = l.Likes, domain.SubjectListingLiked
	case interactionShare:
		l.Shares++
		count, subject = l.Shares, domain.SubjectListingShared
	default:
		l.Views++
		count, subject = l.Views, domain.SubjectListingViewed
	}
	uc.mu.Unlock()

	uc.metrics.ListingInteractionsTotal.WithLabelValues(kind).Inc()
	span.SetAttributes(attribute.Int64("interaction.count", count))

	event := domain.ListingInteractionEvent{ListingID: id, Kind: kind, Count: count, OccurredAt: uc.now()}
	if err := uc.publisher.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("failed to publish listing interaction", zap.String("subject", subject), zap.Error(err))
	}
	return count, nil
}

// SetModerationStatus is used from the admin surface.
func (uc *CatalogUsecase) SetModerationStatus(ctx context.Context, id string, status domain.ModerationStatus) error {
	_, span := tracer.Start(ctx, "CatalogUsecase.SetModerationStatus")
	defer span.End()

	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	i, ok := uc.index[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	uc.listings[i].Status = status
	uc.logger.Info("listing moderation status changed", zap.String("listing_id", id), zap.String("status", string(status)))
	return nil
}

// Reset drops every change made since construction.
func (uc *CatalogUsecase) Reset() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.listings = cloneListings(uc.seed)
	uc.index = indexListings(uc.listings)
}
