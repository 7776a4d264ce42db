package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-morph/engine/curve"
	"github.com/Carmen-Shannon/oxy-morph/engine/morph"
)

func TestHooksRecordTransitions(t *testing.T) {
	col := NewCollector()
	c, err := morph.NewController(3, morph.WithDuration(1), morph.WithCurve(curve.Linear()), morph.WithHooks(col.Hooks()))
	require.NoError(t, err)

	assert.Equal(t, float64(-1), testutil.ToFloat64(col.settled))

	require.NoError(t, c.OnSelectionChanged(1))
	c.OnFrameTick(0)
	require.NoError(t, c.OnSelectionChanged(2))
	c.OnFrameTick(1)
	c.OnFrameTick(1.5)
	c.OnFrameTick(2)

	assert.Equal(t, float64(2), testutil.ToFloat64(col.started))
	assert.Equal(t, float64(1), testutil.ToFloat64(col.abandoned))
	assert.Equal(t, float64(1), testutil.ToFloat64(col.committed.WithLabelValues("2")))
	assert.Equal(t, float64(2), testutil.ToFloat64(col.settled))
	assert.Equal(t, float64(4), testutil.ToFloat64(col.frames.WithLabelValues("false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(col.progress))
	assert.Equal(t, 1, testutil.CollectAndCount(col.took))
}

func TestObserveProfile(t *testing.T) {
	col := NewCollector()
	col.ObserveProfile(59.5, 2048)
	assert.Equal(t, 59.5, testutil.ToFloat64(col.fps))
	assert.Equal(t, float64(2048), testutil.ToFloat64(col.heapAllocs))
}

func TestHandlerExposesMetrics(t *testing.T) {
	col := NewCollector()
	col.Hooks().OnTransitionStart(0, 1)

	rec := httptest.NewRecorder()
	col.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), "morph_transitions_started_total 1"))
}

func TestServeStopsOnCancel(t *testing.T) {
	col := NewCollector()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- col.Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
