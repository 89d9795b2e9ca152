package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.SetHistory(1, 2)
	m.Insert(true)
	m.Pressure("warning", 3)
	m.Persist("save", nil)
	m.Copy("ok")
	m.Coalesced()
}

func TestCounters(t *testing.T) {
	m := New()
	m.SetHistory(3, 50)
	m.Insert(true)
	m.Insert(false)
	m.Insert(false)
	m.Pressure("critical", 4)
	m.Persist("save", errors.New("disk full"))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HistoryItems))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.HistoryCapacity))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Inserts.WithLabelValues("duplicate")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ImagesUnloaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistSaves.WithLabelValues("save", "error")))
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New()
	m.SetHistory(7, 200)
	srv := NewServer(":0", m, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "otterclip_history_items 7"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "OK", rec.Body.String())
}
