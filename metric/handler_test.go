package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry_Handler(t *testing.T) {
	registry := NewMetricsRegistry()
	coreMetrics := registry.CoreMetrics()

	coreMetrics.RecordTraceClassCreated()
	coreMetrics.RecordListenersFired(2)

	srv := httptest.NewServer(registry.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	exposition := string(body)

	// Core object-model metrics
	assert.Contains(t, exposition, "babeltrace_classes_created_total")
	assert.Contains(t, exposition, "babeltrace_lifecycle_listeners_fired_total 2")

	// Runtime collectors ride along on the same endpoint
	assert.Contains(t, exposition, "go_goroutines")
}
