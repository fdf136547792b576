package domain

import (
	"context"
	"time"
)

// Storage keys of the session snapshot.
const (
	KeyFavorites       = "favorites"
	KeyIsAuthenticated = "isAuthenticated"
	KeyUserEmail       = "userEmail"
)

// KeyValueStorage is the durable device storage. Get returns ErrKeyNotFound
// for keys that were never written or have been deleted.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type CatalogProvider interface {
	Load(ctx context.Context) (*Catalog, error)
}

// CredentialResolver returns ErrCredentialNotFound when email is unknown.
type CredentialResolver interface {
	ResolveCredential(ctx context.Context, email string) (*ResolvedCredential, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

const (
	SubjectListingLiked    = "catalog.listing.liked"
	SubjectListingShared   = "catalog.listing.shared"
	SubjectListingViewed   = "catalog.listing.viewed"
	SubjectFavoriteToggled = "catalog.favorite.toggled"
	SubjectSessionLogin    = "catalog.session.login"
	SubjectSessionLogout   = "catalog.session.logout"
)

type ListingInteractionEvent struct {
	ListingID  string    `json:"listing_id"`
	Kind       string    `json:"kind"`
	Count      int64     `json:"count"`
	OccurredAt time.Time `json:"occurred_at"`
}

type FavoriteToggledEvent struct {
	ListingID  string    `json:"listing_id"`
	Favorite   bool      `json:"favorite"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SessionEvent struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
