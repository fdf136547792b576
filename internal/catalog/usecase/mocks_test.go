package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/identity"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/storage/memory"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/metrics"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockKeyValueStorage struct{ mock.Mock }

func (m *MockKeyValueStorage) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
func (m *MockKeyValueStorage) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
func (m *MockKeyValueStorage) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type MockCredentialResolver struct{ mock.Mock }

func (m *MockCredentialResolver) ResolveCredential(ctx context.Context, email string) (*domain.ResolvedCredential, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedCredential), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

var created = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("agent-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	return &domain.Catalog{
		Listings: []domain.Listing{
			{
				ID: "1", Title: "Villa with pool", Category: domain.CategoryVilla,
				Transaction: domain.TransactionSale, Price: 4500000, City: "Marrakech",
				Neighborhood: "Palmeraie", Bedrooms: 5, Images: []string{"v.jpg"},
				AgentID: "ag1", Likes: 10, Shares: 2, Views: 100, IsPremium: true,
				CreatedAt: created, Status: domain.ModerationApproved,
			},
			{
				ID: "2", Title: "Studio near the beach", Category: domain.CategoryStudio,
				Transaction: domain.TransactionRental, Price: 6000, City: "Casablanca",
				Neighborhood: "Ain Diab", Bedrooms: 1, Images: []string{"s.jpg"},
				AgentID: "ag2", Likes: 3, IsNew: true, CreatedAt: created,
				Status: domain.ModerationPending,
			},
			{
				ID: "3", Title: "Family apartment", Category: domain.CategoryApartment,
				Transaction: domain.TransactionSale, Price: 1200000, City: "Rabat",
				Neighborhood: "Agdal", Bedrooms: 3, Images: []string{"a.jpg"},
				AgentID: "ag1", IsNew: true, CreatedAt: created,
			},
		},
		Agents: []domain.Agent{
			{ID: "ag1", Name: "Youssef", Agency: "Atlas Immo", Verified: true},
			{ID: "ag2", Name: "Nadia", Agency: "Coast Homes"},
		},
		Articles: []domain.Article{{ID: "n1", Title: "Market update"}},
		Conversations: []domain.Conversation{
			{ID: "c1", ListingID: "1", Participants: []string{"u1", "ag1"}},
			{ID: "c2", ListingID: "2", Participants: []string{"u2", "ag2"}},
		},
		Users: []domain.User{
			{ID: "u1", Name: "Salma", Email: "client@example.com", Role: domain.RoleClient},
			{ID: "ag1", Name: "Youssef", Email: "agent@example.com", Role: domain.RoleAgent},
		},
		Credentials: []domain.Credential{
			{Email: "client@example.com", Password: "client123", UserID: "u1"},
			{Email: "agent@example.com", PasswordHash: string(hash), UserID: "ag1"},
		},
	}
}

func newTestStore(t *testing.T, storage domain.KeyValueStorage, opts ...Option) *Store {
	t.Helper()
	c := testCatalog(t)
	if storage == nil {
		storage = memory.NewStorage()
	}
	opts = append([]Option{WithMetrics(metrics.NewMetricsManager("test"))}, opts...)
	return NewStore(c, storage, identity.NewCredentialTableFromCatalog(c), opts...)
}

func listingIDs(listings []domain.Listing) []string {
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	return ids
}
