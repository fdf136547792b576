//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}

	cfg := config.MongoConfig{
		URI:            fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp")),
		Database:       "catalog_test",
		ConnectTimeout: 5 * time.Second,
	}
	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = NewClient(context.Background(), cfg, logger.NewNop())
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database(cfg.Database)

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func sampleCatalog() *domain.Catalog {
	return &domain.Catalog{
		Listings: []domain.Listing{
			{ID: "b", Title: "Land plot", Category: domain.CategoryLand, Transaction: domain.TransactionSale, Price: 90000, City: "Agadir", Images: []string{"l.jpg"}},
			{ID: "a", Title: "Sea view flat", Category: domain.CategoryApartment, Transaction: domain.TransactionRental, Price: 7000, City: "Tangier", Images: []string{"f.jpg"},
				Location: &domain.Coordinates{Latitude: 35.77, Longitude: -5.8}},
		},
		Agents: []domain.Agent{{ID: "ag1", Name: "Youssef"}},
		Users:  []domain.User{{ID: "u1", Name: "Salma", Email: "client@example.com", Role: domain.RoleClient}},
		Credentials: []domain.Credential{
			{Email: "Client@Example.com", Password: "client123", UserID: "u1"},
			{Email: "lonely@example.com", Password: "x", UserID: "u2"},
		},
	}
}

func TestImportAndLoad(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(testDB, logger.NewNop())
	require.NoError(t, p.Import(ctx, sampleCatalog()))

	c, err := p.Load(ctx)

	require.NoError(t, err)
	require.Len(t, c.Listings, 2)
	assert.Equal(t, "b", c.Listings[0].ID)
	require.NotNil(t, c.Listings[1].Location)
	assert.InDelta(t, 35.77, c.Listings[1].Location.Latitude, 1e-9)
	assert.Len(t, c.Credentials, 2)
}

func TestCredentialRepository(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, NewProvider(testDB, logger.NewNop()).Import(ctx, sampleCatalog()))
	repo := NewCredentialRepository(testDB, logger.NewNop())

	rc, err := repo.ResolveCredential(ctx, "CLIENT@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "client123", rc.Credential.Password)
	assert.Equal(t, "Salma", rc.Profile.Name)

	rc, err = repo.ResolveCredential(ctx, "lonely@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", rc.Profile.ID)

	_, err = repo.ResolveCredential(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}
