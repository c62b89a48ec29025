package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDocument(t *testing.T) {
	m := New()
	m.RecordDocument("deck", 2*time.Second, 1200)
	m.RecordDocument("deck", time.Second, 0)
	m.RecordDocument("outline", time.Second, 300)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsGenerated.WithLabelValues("deck")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsGenerated.WithLabelValues("outline")))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.TokensUsed))
}

func TestRecordImageFetch(t *testing.T) {
	m := New()
	m.RecordImageFetch(true, time.Millisecond)
	m.RecordImageFetch(false, time.Millisecond)
	m.RecordImageFetch(false, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImageFetches.WithLabelValues(ImageFetched)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ImageFetches.WithLabelValues(ImageFailed)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordDocument("deck", time.Second, 10)
		m.RecordFailure("deck", "overloaded")
		m.RecordImageFetch(true, time.Second)
		m.RecordSkippedSlide()
	})
	assert.Nil(t, m.Registry())
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordFailure("outline", "empty_response")
	m.RecordSkippedSlide()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `presentation_generation_failures_total{kind="outline",reason="empty_response"} 1`)
	assert.Contains(t, rec.Body.String(), "presentation_slides_skipped_total 1")
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordSkippedSlide()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SlidesSkipped))
}
