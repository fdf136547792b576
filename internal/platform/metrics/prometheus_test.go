package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsManagerRegistersCollectors(t *testing.T) {
	m := NewMetricsManager("catalog")

	m.SearchesTotal.Inc()
	m.SearchResults.Observe(3)
	m.LoginAttemptsTotal.WithLabelValues("success").Inc()
	m.FavoriteTogglesTotal.WithLabelValues("added").Inc()
	m.ListingInteractionsTotal.WithLabelValues("like").Add(2)
	m.StorageErrorsTotal.WithLabelValues("write").Inc()

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ListingInteractionsTotal.WithLabelValues("like")))
}

func TestManagersDoNotShareRegistries(t *testing.T) {
	a := NewMetricsManager("catalog")
	b := NewMetricsManager("catalog")

	a.SearchesTotal.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.SearchesTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SearchesTotal))
}
