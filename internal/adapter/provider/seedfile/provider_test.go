package seedfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	c, err := NewProvider("testdata/catalog.json", logger.NewNop()).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, c.Listings, 2)
	riad := c.Listings[0]
	assert.Equal(t, domain.CategoryHouse, riad.Category)
	assert.Equal(t, int64(2800000), riad.Price)
	assert.Len(t, riad.Images, 2)
	require.NotNil(t, riad.Location)
	assert.InDelta(t, 31.6295, riad.Location.Latitude, 1e-9)
	assert.Equal(t, 2024, riad.CreatedAt.Year())
	assert.Nil(t, c.Listings[1].Location)
	assert.Len(t, c.Credentials, 1)
}

func TestLoadYAMLMatchesJSON(t *testing.T) {
	ctx := context.Background()
	fromJSON, err := NewProvider("testdata/catalog.json", logger.NewNop()).Load(ctx)
	require.NoError(t, err)
	fromYAML, err := NewProvider("testdata/catalog.yaml", logger.NewNop()).Load(ctx)
	require.NoError(t, err)

	require.Len(t, fromYAML.Listings, len(fromJSON.Listings))
	for i := range fromJSON.Listings {
		assert.Equal(t, fromJSON.Listings[i].ID, fromYAML.Listings[i].ID)
		assert.Equal(t, fromJSON.Listings[i].Price, fromYAML.Listings[i].Price)
		assert.True(t, fromJSON.Listings[i].CreatedAt.Equal(fromYAML.Listings[i].CreatedAt))
	}
	assert.Equal(t, "client123", fromYAML.Credentials[0].Password)
}

func TestDecodeJSONSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no listings", `{"agents": []}`},
		{"unknown category", `{"listings": [{"id":"1","title":"t","category":"castle","transaction":"sale","price":1,"city":"c","images":["i"]}]}`},
		{"fractional price", `{"listings": [{"id":"1","title":"t","category":"land","transaction":"sale","price":1.5,"city":"c","images":["i"]}]}`},
		{"no images", `{"listings": [{"id":"1","title":"t","category":"land","transaction":"sale","price":1,"city":"c","images":[]}]}`},
		{"bad date", `{"listings": [{"id":"1","title":"t","category":"land","transaction":"sale","price":1,"city":"c","images":["i"],"created_at":"yesterday"}]}`},
		{"bad email", `{"listings": [], "credentials": [{"email":"not-an-email","user_id":"u"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), FormatJSON)
			assert.ErrorContains(t, err, "schema validation failed")
		})
	}
}

func TestDecodeRejectsDuplicateIDs(t *testing.T) {
	doc := `{"listings": [
		{"id":"1","title":"a","category":"land","transaction":"sale","price":1,"city":"c","images":["i"]},
		{"id":"1","title":"b","category":"land","transaction":"sale","price":2,"city":"c","images":["i"]}
	]}`

	_, err := Decode([]byte(doc), FormatJSON)

	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestDecodeYAMLRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte("listings: []\nbogus: 1\n"), FormatYAML)

	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider("catalog.csv", logger.NewNop()).Load(ctx)
	assert.ErrorContains(t, err, "unsupported catalog format")

	_, err = NewProvider(filepath.Join(t.TempDir(), "missing.json"), logger.NewNop()).Load(ctx)
	assert.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o600))
	_, err = NewProvider(broken, logger.NewNop()).Load(ctx)
	assert.ErrorContains(t, err, "not valid JSON")
}

func TestFormatFromName(t *testing.T) {
	f, err := FormatFromName("seeds/PROD.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromName("catalog.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
}
