package mongodb

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	collListings      = "listings"
	collAgents        = "agents"
	collArticles      = "articles"
	collConversations = "conversations"
	collUsers         = "users"
	collCredentials   = "credentials"
)

// NewClient connects and pings within cfg.ConnectTimeout.
func NewClient(ctx context.Context, cfg config.MongoConfig, log *logger.Logger) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Error("Failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		log.Error("Failed to ping MongoDB", zap.Error(err))
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info("Connected to MongoDB", zap.String("database", cfg.Database))
	return client, nil
}

// Provider reads the catalog tables from one database.
type Provider struct {
	db     *mongo.Database
	logger *logger.Logger
}

func NewProvider(db *mongo.Database, log *logger.Logger) *Provider {
	return &Provider{db: db, logger: log.Named("mongodb")}
}

func (p *Provider) Load(ctx context.Context) (*domain.Catalog, error) {
	var c domain.Catalog

	listings, err := findAll[listingDocument](ctx, p.db.Collection(collListings))
	if err != nil {
		return nil, err
	}
	for _, d := range listings {
		c.Listings = append(c.Listings, toDomainListing(d))
	}

	agents, err := findAll[agentDocument](ctx, p.db.Collection(collAgents))
	if err != nil {
		return nil, err
	}
	for _, d := range agents {
		c.Agents = append(c.Agents, toDomainAgent(d))
	}

	articles, err := findAll[articleDocument](ctx, p.db.Collection(collArticles))
	if err != nil {
		return nil, err
	}
	for _, d := range articles {
		c.Articles = append(c.Articles, toDomainArticle(d))
	}

	conversations, err := findAll[conversationDocument](ctx, p.db.Collection(collConversations))
	if err != nil {
		return nil, err
	}
	for _, d := range conversations {
		c.Conversations = append(c.Conversations, toDomainConversation(d))
	}

	users, err := findAll[userDocument](ctx, p.db.Collection(collUsers))
	if err != nil {
		return nil, err
	}
	for _, d := range users {
		c.Users = append(c.Users, toDomainUser(d))
	}

	credentials, err := findAll[credentialDocument](ctx, p.db.Collection(collCredentials))
	if err != nil {
		return nil, err
	}
	for _, d := range credentials {
		c.Credentials = append(c.Credentials, toDomainCredential(d))
	}

	if err := c.Validate(); err != nil {
		p.logger.Error("catalog in MongoDB is invalid", zap.Error(err))
		return nil, err
	}
	p.logger.Info("catalog loaded from MongoDB",
		zap.Int("listings", len(c.Listings)),
		zap.Int("agents", len(c.Agents)),
		zap.Int("credentials", len(c.Credentials)),
	)
	return &c, nil
}

// Import replaces every catalog collection with the content of c.
func (p *Provider) Import(ctx context.Context, c *domain.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}

	steps := []struct {
		name string
		docs []interface{}
	}{
		{collListings, convertAll(c.Listings, toListingDocument)},
		{collAgents, convertAll(c.Agents, toAgentDocument)},
		{collArticles, convertAll(c.Articles, toArticleDocument)},
		{collConversations, convertAll(c.Conversations, toConversationDocument)},
		{collUsers, convertAll(c.Users, toUserDocument)},
		{collCredentials, convertAll(c.Credentials, toCredentialDocument)},
	}
	for _, s := range steps {
		coll := p.db.Collection(s.name)
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", s.name, err)
		}
		if len(s.docs) == 0 {
			continue
		}
		if _, err := coll.InsertMany(ctx, s.docs); err != nil {
			return fmt.Errorf("insert %s: %w", s.name, err)
		}
	}
	if err := EnsureIndexes(ctx, p.db); err != nil {
		return err
	}
	p.logger.Info("catalog imported into MongoDB", zap.Int("listings", len(c.Listings)))
	return nil
}

// EnsureIndexes creates the unique credential email index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collCredentials).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_lower", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create credentials index: %w", err)
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

func convertAll[T, D any](in []T, conv func(T) D) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, v := range in {
		out = append(out, conv(v))
	}
	return out
}
