package wowapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingObserver(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	obs := NewLoggingObserver(logger)

	obs.OnRequestStart("GET", "https://x/wow/item/1")
	obs.OnRequestEnd("GET", "https://x/wow/item/1", 10*time.Millisecond, nil)
	obs.OnCacheHit("https://x/wow/item/1")
	obs.OnCacheMiss("https://x/wow/item/2")
	obs.OnRevalidation("https://x/wow/item/1", true)

	require.Len(t, hook.Entries, 5)
	assert.Equal(t, "request start", hook.Entries[0].Message)
	assert.Equal(t, "GET", hook.Entries[0].Data["method"])

	hook.Reset()
	obs.OnRequestEnd("GET", "https://x/wow/item/1", time.Millisecond, errors.New("boom"))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
}

func TestMetricsObserver(t *testing.T) {
	obs := NewMetricsObserver()

	obs.OnRequestEnd("GET", "https://x/a", 5*time.Millisecond, nil)
	obs.OnRequestEnd("GET", "https://x/b", 5*time.Millisecond, errors.New("boom"))
	obs.OnCacheHit("k")
	obs.OnCacheHit("k")
	obs.OnCacheMiss("k")
	obs.OnRevalidation("https://x/a", true)
	obs.OnRevalidation("https://x/a", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(obs.requests.WithLabelValues("GET", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(obs.requests.WithLabelValues("GET", "error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(obs.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(obs.cacheMisses))
	assert.Equal(t, float64(1), testutil.ToFloat64(obs.notModified))

	assert.Len(t, obs.Collectors(), 5)
}

func TestCompositeObserver(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}
	obs := NewCompositeObserver(a, b)

	obs.OnRequestStart("GET", "u")
	obs.OnRequestEnd("GET", "u", time.Millisecond, nil)
	obs.OnCacheHit("k")
	obs.OnCacheMiss("k")
	obs.OnRevalidation("u", true)

	for _, rec := range []*recordingObserver{a, b} {
		assert.Equal(t, 1, rec.requestEnds)
		assert.Equal(t, 1, rec.cacheHits)
		assert.Equal(t, 1, rec.cacheMisses)
		assert.Equal(t, []bool{true}, rec.revalidations)
	}
}

func TestObserver_EventsFromPipeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	obs := &recordingObserver{}
	client, err := NewClient(DefaultConfig().
		WithBaseURL(server.URL).
		WithAPIKey("k").
		WithObserver(obs))
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	_, err = client.Item(ctx, 1)
	require.NoError(t, err)
	_, err = client.Item(ctx, 1)
	require.NoError(t, err)

	// One network call, one miss, then a fresh hit with no request.
	assert.Equal(t, 1, obs.requestEnds)
	assert.Equal(t, 1, obs.cacheMisses)
	assert.Equal(t, 1, obs.cacheHits)
}
