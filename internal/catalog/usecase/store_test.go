package usecase

import (
	"context"
	"testing"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/storage/memory"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleListingsWithoutFilters(t *testing.T) {
	store := newTestStore(t, nil)

	assert.Equal(t, []string{"1", "2", "3"}, listingIDs(store.VisibleListings()))
	assert.True(t, store.Filters().IsEmpty())
	assert.Equal(t, 1.0, testutil.ToFloat64(store.Metrics().SearchesTotal))
}

func TestSearchCityAndMinPrice(t *testing.T) {
	store := NewStore(&domain.Catalog{Listings: []domain.Listing{
		{ID: "1", City: "X", Price: 10},
		{ID: "2", City: "Y", Price: 20},
	}}, memory.NewStorage(), nil)

	byCity, err := store.Search("", domain.Criteria{City: domain.Ptr("X")})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, listingIDs(byCity))

	byPrice, err := store.Search("", domain.Criteria{MinPrice: domain.Ptr[int64](15)})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, listingIDs(byPrice))
}

func TestMergeFiltersComposes(t *testing.T) {
	store := newTestStore(t, nil)

	require.NoError(t, store.MergeFilters(domain.Criteria{Transaction: domain.Ptr(domain.TransactionSale)}))
	assert.Equal(t, []string{"1", "3"}, listingIDs(store.VisibleListings()))

	require.NoError(t, store.MergeFilters(domain.Criteria{MaxPrice: domain.Ptr[int64](2000000)}))
	f := store.Filters()
	require.NotNil(t, f.Transaction)
	assert.Equal(t, domain.TransactionSale, *f.Transaction)
	assert.Equal(t, []string{"3"}, listingIDs(store.VisibleListings()))

	store.ClearFilters(domain.FieldTransaction)
	assert.Nil(t, store.Filters().Transaction)
	assert.Equal(t, []string{"2", "3"}, listingIDs(store.VisibleListings()))
}

func TestMergeFiltersRejectsInvertedPriceRange(t *testing.T) {
	store := newTestStore(t, nil)
	require.NoError(t, store.MergeFilters(domain.Criteria{MinPrice: domain.Ptr[int64](100000)}))

	err := store.MergeFilters(domain.Criteria{MaxPrice: domain.Ptr[int64](5000)})

	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
	assert.Nil(t, store.Filters().MaxPrice)
	assert.Equal(t, int64(100000), *store.Filters().MinPrice)
}

func TestFiltersReturnsCopy(t *testing.T) {
	store := newTestStore(t, nil)
	require.NoError(t, store.MergeFilters(domain.Criteria{City: domain.Ptr("Rabat")}))

	f := store.Filters()
	*f.City = "Tangier"

	assert.Equal(t, "Rabat", *store.Filters().City)
}

func TestQueryAndReset(t *testing.T) {
	store := newTestStore(t, nil)
	store.SetQuery("VILLA")
	require.NoError(t, store.MergeFilters(domain.Criteria{MinBedrooms: domain.Ptr(2)}))

	assert.Equal(t, "VILLA", store.Query())
	assert.Equal(t, []string{"1"}, listingIDs(store.VisibleListings()))

	store.ResetFilters()

	assert.Empty(t, store.Query())
	assert.True(t, store.Filters().IsEmpty())
	assert.Len(t, store.VisibleListings(), 3)
}

func TestSearchLeavesActiveFiltersAlone(t *testing.T) {
	store := newTestStore(t, nil)
	require.NoError(t, store.MergeFilters(domain.Criteria{City: domain.Ptr("Rabat")}))

	res, err := store.Search("beach", domain.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, listingIDs(res))

	_, err = store.Search("", domain.Criteria{Category: domain.Ptr(domain.Category("castle"))})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)

	assert.Equal(t, "Rabat", *store.Filters().City)
}

func TestFavoriteListingsFollowInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)
	for _, id := range []string{"3", "1"} {
		_, err := store.Session.ToggleFavorite(ctx, id)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"3", "1"}, listingIDs(store.FavoriteListings()))
}

func TestStoresAreIndependent(t *testing.T) {
	ctx := context.Background()
	a := newTestStore(t, nil)
	b := newTestStore(t, nil)

	_, err := a.Catalog.IncrementLike(ctx, "1")
	require.NoError(t, err)
	a.SetQuery("studio")
	_, err = a.Session.ToggleFavorite(ctx, "2")
	require.NoError(t, err)

	l, err := b.Catalog.Listing("1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), l.Likes)
	assert.Empty(t, b.Query())
	assert.Empty(t, b.Session.Favorites())
}

func TestNilCatalogAndResolver(t *testing.T) {
	store := NewStore(nil, memory.NewStorage(), nil)

	assert.Empty(t, store.VisibleListings())
	assert.ErrorIs(t, store.Session.Login(context.Background(), "a@b.com", "x"), domain.ErrInvalidCredentials)
}
