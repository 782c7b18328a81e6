package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/bookcase/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCatalog(t *testing.T) {
	before := testutil.ToFloat64(metrics.CatalogRequestsTotal.WithLabelValues(metrics.CatalogUnavailable))
	metrics.ObserveCatalog(metrics.CatalogUnavailable)
	after := testutil.ToFloat64(metrics.CatalogRequestsTotal.WithLabelValues(metrics.CatalogUnavailable))
	require.Equal(t, before+1, after)
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("/api/books/add", "POST", "201"))
	metrics.ObserveHTTP("/api/books/add", "POST", 201, 15*time.Millisecond)
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("/api/books/add", "POST", "201"))
	require.Equal(t, before+1, after)
}

func TestObserveActivity(t *testing.T) {
	before := testutil.ToFloat64(metrics.ActivityEventsTotal.WithLabelValues("rated", "error"))
	metrics.ObserveActivity("rated", errors.New("broker down"))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.ActivityEventsTotal.WithLabelValues("rated", "error")))
}
