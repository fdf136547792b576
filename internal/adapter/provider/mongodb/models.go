package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
)

// geoPoint is a GeoJSON point; coordinates are [longitude, latitude].
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type listingDocument struct {
	ID           string                  `bson:"_id"`
	Title        string                  `bson:"title"`
	Category     domain.Category         `bson:"category"`
	Transaction  domain.TransactionKind  `bson:"transaction"`
	Price        int64                   `bson:"price"`
	City         string                  `bson:"city"`
	Neighborhood string                  `bson:"neighborhood,omitempty"`
	Address      string                  `bson:"address,omitempty"`
	Bedrooms     int                     `bson:"bedrooms"`
	Bathrooms    int                     `bson:"bathrooms"`
	Surface      float64                 `bson:"surface"`
	Description  string                  `bson:"description,omitempty"`
	Features     []string                `bson:"features,omitempty"`
	Images       []string                `bson:"images"`
	AgentID      string                  `bson:"agent_id"`
	Views        int64                   `bson:"views"`
	Likes        int64                   `bson:"likes"`
	Shares       int64                   `bson:"shares"`
	IsNew        bool                    `bson:"is_new"`
	IsPremium    bool                    `bson:"is_premium"`
	CreatedAt    time.Time               `bson:"created_at"`
	Location     *geoPoint               `bson:"location,omitempty"`
	Status       domain.ModerationStatus `bson:"status,omitempty"`
}

type agentDocument struct {
	ID          string   `bson:"_id"`
	Name        string   `bson:"name"`
	Phone       string   `bson:"phone,omitempty"`
	WhatsApp    string   `bson:"whatsapp,omitempty"`
	Email       string   `bson:"email,omitempty"`
	Agency      string   `bson:"agency,omitempty"`
	Rating      float64  `bson:"rating"`
	ReviewCount int      `bson:"review_count"`
	Specialties []string `bson:"specialties,omitempty"`
	Verified    bool     `bson:"verified"`
}

type articleDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Summary     string    `bson:"summary,omitempty"`
	Body        string    `bson:"body,omitempty"`
	Author      string    `bson:"author,omitempty"`
	Category    string    `bson:"category,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty"`
	PublishedAt time.Time `bson:"published_at"`
}

type messageDocument struct {
	ID       string    `bson:"id"`
	SenderID string    `bson:"sender_id"`
	Text     string    `bson:"text"`
	SentAt   time.Time `bson:"sent_at"`
	Read     bool      `bson:"read"`
}

type conversationDocument struct {
	ID           string            `bson:"_id"`
	ListingID    string            `bson:"listing_id"`
	Participants []string          `bson:"participants"`
	Messages     []messageDocument `bson:"messages"`
}

type userDocument struct {
	ID                   string      `bson:"_id"`
	Name                 string      `bson:"name"`
	Email                string      `bson:"email"`
	Phone                string      `bson:"phone,omitempty"`
	Role                 domain.Role `bson:"role"`
	Favorites            []string    `bson:"favorites,omitempty"`
	NotificationsEnabled bool        `bson:"notifications_enabled"`
}

// credentialDocument stores email_lower next to the email as typed, so
// lookups can use an index instead of a case-insensitive collation.
type credentialDocument struct {
	Email        string `bson:"email"`
	EmailLower   string `bson:"email_lower"`
	Password     string `bson:"password,omitempty"`
	PasswordHash string `bson:"password_hash,omitempty"`
	UserID       string `bson:"user_id"`
}

// --- listings ---

func toListingDocument(l domain.Listing) listingDocument {
	d := listingDocument{
		ID:           l.ID,
		Title:        l.Title,
		Category:     l.Category,
		Transaction:  l.Transaction,
		Price:        l.Price,
		City:         l.City,
		Neighborhood: l.Neighborhood,
		Address:      l.Address,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Surface:      l.Surface,
		Description:  l.Description,
		Features:     l.Features,
		Images:       l.Images,
		AgentID:      l.AgentID,
		Views:        l.Views,
		Likes:        l.Likes,
		Shares:       l.Shares,
		IsNew:        l.IsNew,
		IsPremium:    l.IsPremium,
		CreatedAt:    l.CreatedAt,
		Status:       l.Status,
	}
	if l.Location != nil {
		d.Location = &geoPoint{Type: "Point", Coordinates: []float64{l.Location.Longitude, l.Location.Latitude}}
	}
	return d
}

func toDomainListing(d listingDocument) domain.Listing {
	l := domain.Listing{
		ID:           d.ID,
		Title:        d.Title,
		Category:     d.Category,
		Transaction:  d.Transaction,
		Price:        d.Price,
		City:         d.City,
		Neighborhood: d.Neighborhood,
		Address:      d.Address,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Surface:      d.Surface,
		Description:  d.Description,
		Features:     d.Features,
		Images:       d.Images,
		AgentID:      d.AgentID,
		Views:        d.Views,
		Likes:        d.Likes,
		Shares:       d.Shares,
		IsNew:        d.IsNew,
		IsPremium:    d.IsPremium,
		CreatedAt:    d.CreatedAt,
		Status:       d.Status,
	}
	if d.Location != nil && len(d.Location.Coordinates) == 2 {
		l.Location = &domain.Coordinates{Longitude: d.Location.Coordinates[0], Latitude: d.Location.Coordinates[1]}
	}
	return l
}

// --- agents, articles, conversations ---

func toAgentDocument(a domain.Agent) agentDocument {
	return agentDocument(a)
}

func toDomainAgent(d agentDocument) domain.Agent {
	return domain.Agent(d)
}

func toArticleDocument(a domain.Article) articleDocument {
	return articleDocument(a)
}

func toDomainArticle(d articleDocument) domain.Article {
	return domain.Article(d)
}

func toConversationDocument(c domain.Conversation) conversationDocument {
	d := conversationDocument{
		ID:           c.ID,
		ListingID:    c.ListingID,
		Participants: c.Participants,
		Messages:     make([]messageDocument, 0, len(c.Messages)),
	}
	for _, m := range c.Messages {
		d.Messages = append(d.Messages, messageDocument(m))
	}
	return d
}

func toDomainConversation(d conversationDocument) domain.Conversation {
	c := domain.Conversation{
		ID:           d.ID,
		ListingID:    d.ListingID,
		Participants: d.Participants,
		Messages:     make([]domain.Message, 0, len(d.Messages)),
	}
	for _, m := range d.Messages {
		c.Messages = append(c.Messages, domain.Message(m))
	}
	return c
}

// --- users and credentials ---

func toUserDocument(u domain.User) userDocument {
	return userDocument{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		Phone:                u.Phone,
		Role:                 u.Role,
		Favorites:            u.Favorites,
		NotificationsEnabled: u.NotificationsEnabled,
	}
}

func toDomainUser(d userDocument) domain.User {
	return domain.User{
		ID:                   d.ID,
		Name:                 d.Name,
		Email:                d.Email,
		Phone:                d.Phone,
		Role:                 d.Role,
		Favorites:            d.Favorites,
		NotificationsEnabled: d.NotificationsEnabled,
	}
}

func toCredentialDocument(c domain.Credential) credentialDocument {
	return credentialDocument{
		Email:        c.Email,
		EmailLower:   domain.NormalizeEmail(c.Email),
		Password:     c.Password,
		PasswordHash: c.PasswordHash,
		UserID:       c.UserID,
	}
}

func toDomainCredential(d credentialDocument) domain.Credential {
	return domain.Credential{
		Email:        d.Email,
		Password:     d.Password,
		PasswordHash: d.PasswordHash,
		UserID:       d.UserID,
	}
}
