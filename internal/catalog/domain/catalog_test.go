package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validListing(id string) Listing {
	return Listing{
		ID:          id,
		Category:    CategoryHouse,
		Transaction: TransactionSale,
		Images:      []string{"https://img.example.com/" + id + ".jpg"},
	}
}

func TestCatalogValidate(t *testing.T) {
	ok := Catalog{Listings: []Listing{validListing("1"), validListing("2")}}
	assert.NoError(t, ok.Validate())

	dup := Catalog{Listings: []Listing{validListing("1"), validListing("1")}}
	assert.ErrorIs(t, dup.Validate(), ErrInvalidCatalog)

	noImages := validListing("3")
	noImages.Images = nil
	assert.ErrorIs(t, (&Catalog{Listings: []Listing{noImages}}).Validate(), ErrInvalidCatalog)

	badKind := validListing("4")
	badKind.Transaction = "swap"
	assert.ErrorIs(t, (&Catalog{Listings: []Listing{badKind}}).Validate(), ErrInvalidCatalog)

	badStatus := validListing("5")
	badStatus.Status = "archived"
	assert.ErrorIs(t, (&Catalog{Listings: []Listing{badStatus}}).Validate(), ErrInvalidCatalog)

	noEmail := Catalog{Credentials: []Credential{{Password: "x"}}}
	assert.ErrorIs(t, noEmail.Validate(), ErrInvalidCatalog)
}

func TestListingCloneIsDeep(t *testing.T) {
	l := validListing("1")
	l.Features = []string{"pool"}
	l.Location = &Coordinates{Latitude: 1, Longitude: 2}

	c := l.Clone()
	c.Features[0] = "garden"
	c.Images[0] = "other"
	c.Location.Latitude = 9

	assert.Equal(t, "pool", l.Features[0])
	assert.NotEqual(t, "other", l.Images[0])
	assert.Equal(t, 1.0, l.Location.Latitude)
}
