package domain

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryVilla      Category = "villa"
	CategoryApartment  Category = "apartment"
	CategoryLand       Category = "land"
	CategoryOffice     Category = "office"
	CategoryStudio     Category = "studio"
	CategoryHouse      Category = "house"
	CategoryCommercial Category = "commercial"
)

var Categories = []Category{
	CategoryVilla, CategoryApartment, CategoryLand, CategoryOffice,
	CategoryStudio, CategoryHouse, CategoryCommercial,
}

func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type TransactionKind string

const (
	TransactionSale   TransactionKind = "sale"
	TransactionRental TransactionKind = "rental"
)

func (t TransactionKind) IsValid() bool {
	return t == TransactionSale || t == TransactionRental
}

// ModerationStatus is only changed from the admin surface.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) IsValid() bool {
	switch s {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

type Listing struct {
	ID           string           `json:"id" yaml:"id"`
	Title        string           `json:"title" yaml:"title"`
	Category     Category         `json:"category" yaml:"category"`
	Transaction  TransactionKind  `json:"transaction" yaml:"transaction"`
	Price        int64            `json:"price" yaml:"price"`
	City         string           `json:"city" yaml:"city"`
	Neighborhood string           `json:"neighborhood" yaml:"neighborhood"`
	Address      string           `json:"address" yaml:"address"`
	Bedrooms     int              `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    int              `json:"bathrooms" yaml:"bathrooms"`
	Surface      float64          `json:"surface" yaml:"surface"`
	Description  string           `json:"description" yaml:"description"`
	Features     []string         `json:"features" yaml:"features"`
	Images       []string         `json:"images" yaml:"images"`
	AgentID      string           `json:"agent_id" yaml:"agent_id"`
	Views        int64            `json:"views" yaml:"views"`
	Likes        int64            `json:"likes" yaml:"likes"`
	Shares       int64            `json:"shares" yaml:"shares"`
	IsNew        bool             `json:"is_new" yaml:"is_new"`
	IsPremium    bool             `json:"is_premium" yaml:"is_premium"`
	CreatedAt    time.Time        `json:"created_at" yaml:"created_at"`
	Location     *Coordinates     `json:"location,omitempty" yaml:"location,omitempty"`
	Status       ModerationStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with l.
func (l Listing) Clone() Listing {
	c := l
	c.Features = append([]string(nil), l.Features...)
	c.Images = append([]string(nil), l.Images...)
	if l.Location != nil {
		loc := *l.Location
		c.Location = &loc
	}
	return c
}

type Agent struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Phone       string   `json:"phone" yaml:"phone"`
	WhatsApp    string   `json:"whatsapp" yaml:"whatsapp"`
	Email       string   `json:"email" yaml:"email"`
	Agency      string   `json:"agency" yaml:"agency"`
	Rating      float64  `json:"rating" yaml:"rating"`
	ReviewCount int      `json:"review_count" yaml:"review_count"`
	Specialties []string `json:"specialties" yaml:"specialties"`
	Verified    bool     `json:"verified" yaml:"verified"`
}

type Article struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Summary     string    `json:"summary" yaml:"summary"`
	Body        string    `json:"body" yaml:"body"`
	Author      string    `json:"author" yaml:"author"`
	Category    string    `json:"category" yaml:"category"`
	ImageURL    string    `json:"image_url" yaml:"image_url"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
}

type Message struct {
	ID       string    `json:"id" yaml:"id"`
	SenderID string    `json:"sender_id" yaml:"sender_id"`
	Text     string    `json:"text" yaml:"text"`
	SentAt   time.Time `json:"sent_at" yaml:"sent_at"`
	Read     bool      `json:"read" yaml:"read"`
}

type Conversation struct {
	ID           string    `json:"id" yaml:"id"`
	ListingID    string    `json:"listing_id" yaml:"listing_id"`
	Participants []string  `json:"participants" yaml:"participants"`
	Messages     []Message `json:"messages" yaml:"messages"`
}

func (c Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// UnreadFor counts unread messages addressed to userID.
func (c Conversation) UnreadFor(userID string) int {
	n := 0
	for _, m := range c.Messages {
		if !m.Read && m.SenderID != userID {
			n++
		}
	}
	return n
}

type Role string

const (
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
	RoleAgency Role = "agency"
	RoleAdmin  Role = "admin"
)

type SavedSearch struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Query     string    `json:"query" yaml:"query"`
	Criteria  Criteria  `json:"criteria" yaml:"criteria"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

type User struct {
	ID                   string        `json:"id" yaml:"id"`
	Name                 string        `json:"name" yaml:"name"`
	Email                string        `json:"email" yaml:"email"`
	Phone                string        `json:"phone" yaml:"phone"`
	Role                 Role          `json:"role" yaml:"role"`
	Favorites            []string      `json:"favorites" yaml:"favorites"`
	SavedSearches        []SavedSearch `json:"saved_searches" yaml:"saved_searches"`
	NotificationsEnabled bool          `json:"notifications_enabled" yaml:"notifications_enabled"`
}

func (u User) Clone() User {
	c := u
	c.Favorites = append([]string(nil), u.Favorites...)
	c.SavedSearches = append([]SavedSearch(nil), u.SavedSearches...)
	return c
}

// Credential is one row of the login table. PasswordHash, when set, is a
// bcrypt hash and takes precedence over Password.
type Credential struct {
	Email        string `json:"email" yaml:"email"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty" yaml:"password_hash,omitempty"`
	UserID       string `json:"user_id" yaml:"user_id"`
}

type ResolvedCredential struct {
	Credential Credential
	Profile    User
}

// NormalizeEmail is the lookup key for credentials.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// Catalog is the read-only dataset handed over by a provider at startup.
type Catalog struct {
	Listings      []Listing      `json:"listings" yaml:"listings"`
	Agents        []Agent        `json:"agents" yaml:"agents"`
	Articles      []Article      `json:"articles" yaml:"articles"`
	Conversations []Conversation `json:"conversations" yaml:"conversations"`
	Users         []User         `json:"users" yaml:"users"`
	Credentials   []Credential   `json:"credentials" yaml:"credentials"`
}

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FilterOptions describes the values a filter UI can offer for a catalog.
type FilterOptions struct {
	Cities       []string   `json:"cities"`
	Categories   []Category `json:"categories"`
	Price        PriceRange `json:"price"`
	MaxBedrooms  int        `json:"max_bedrooms"`
	ListingCount int        `json:"listing_count"`
}

type CatalogStats struct {
	Listings      int                     `json:"listings"`
	Premium       int                     `json:"premium"`
	New           int                     `json:"new"`
	Views         int64                   `json:"views"`
	Likes         int64                   `json:"likes"`
	Shares        int64                   `json:"shares"`
	ByCategory    map[Category]int        `json:"by_category"`
	ByTransaction map[TransactionKind]int `json:"by_transaction"`
	PendingReview int                     `json:"pending_review"`
}
