package wowapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Observer provides hooks for monitoring library operations. Implement it
// to track cache effectiveness, debug request behavior, or feed your
// observability stack. Observer methods should be fast and non-blocking.
//
// The library itself never logs or counts; LoggingObserver and
// MetricsObserver are ready-made implementations.
type Observer interface {
	// OnRequestStart is called when an outbound HTTP request starts.
	// Short-circuited cache hits never reach this hook.
	OnRequestStart(method, url string)

	// OnRequestEnd is called when an outbound HTTP request completes,
	// with the time taken and the error if the request failed.
	OnRequestEnd(method, url string, duration time.Duration, err error)

	// OnCacheHit is called when a cached entry is found for a request key,
	// whether or not it is still fresh.
	OnCacheHit(key string)

	// OnCacheMiss is called when no cached entry exists for a request key.
	OnCacheMiss(key string)

	// OnRevalidation is called after a conditional request completes.
	// notModified reports whether the origin answered 304.
	OnRevalidation(url string, notModified bool)
}

// NoopObserver is the default Observer; it does nothing and has zero
// overhead.
type NoopObserver struct{}

// OnRequestStart does nothing
func (n *NoopObserver) OnRequestStart(method, url string) {}

// OnRequestEnd does nothing
func (n *NoopObserver) OnRequestEnd(method, url string, duration time.Duration, err error) {}

// OnCacheHit does nothing
func (n *NoopObserver) OnCacheHit(key string) {}

// OnCacheMiss does nothing
func (n *NoopObserver) OnCacheMiss(key string) {}

// OnRevalidation does nothing
func (n *NoopObserver) OnRevalidation(url string, notModified bool) {}

// LoggingObserver logs request and cache events through a logrus logger.
//
// Example:
//
//	logger := logrus.New()
//	logger.SetLevel(logrus.DebugLevel)
//	config := wowapi.DefaultConfig().
//	    WithObserver(wowapi.NewLoggingObserver(logger))
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates an observer that logs to the given logger. If
// logger is nil, the logrus standard logger is used.
func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoggingObserver{logger: logger}
}

// OnRequestStart logs the outbound request at debug level
func (l *LoggingObserver) OnRequestStart(method, url string) {
	l.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    url,
	}).Debug("request start")
}

// OnRequestEnd logs the completed request; failures log at warn level
func (l *LoggingObserver) OnRequestEnd(method, url string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"method":   method,
		"url":      url,
		"duration": duration,
	}
	if err != nil {
		l.logger.WithFields(fields).WithError(err).Warn("request failed")
		return
	}
	l.logger.WithFields(fields).Debug("request end")
}

// OnCacheHit logs the hit at debug level
func (l *LoggingObserver) OnCacheHit(key string) {
	l.logger.WithField("key", key).Debug("cache hit")
}

// OnCacheMiss logs the miss at debug level
func (l *LoggingObserver) OnCacheMiss(key string) {
	l.logger.WithField("key", key).Debug("cache miss")
}

// OnRevalidation logs the origin's revalidation verdict
func (l *LoggingObserver) OnRevalidation(url string, notModified bool) {
	l.logger.WithFields(logrus.Fields{
		"url":          url,
		"not_modified": notModified,
	}).Debug("revalidation")
}

// MetricsObserver exports request and cache metrics as Prometheus
// collectors: a request counter and duration histogram labelled by method
// and outcome, and counters for cache hits, misses and 304 revalidations.
//
// Example:
//
//	metrics := wowapi.NewMetricsObserver()
//	prometheus.MustRegister(metrics.Collectors()...)
//	config := wowapi.DefaultConfig().WithObserver(metrics)
type MetricsObserver struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	notModified     prometheus.Counter
}

// NewMetricsObserver creates an observer with unregistered collectors; call
// Collectors and register them with your registry.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wowapi_requests_total",
			Help: "Outbound requests to the origin, by method and outcome.",
		}, []string{"method", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wowapi_request_duration_seconds",
			Help:    "Outbound request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wowapi_cache_hits_total",
			Help: "Requests answered by a cached entry.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wowapi_cache_misses_total",
			Help: "Requests with no cached entry.",
		}),
		notModified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wowapi_revalidations_not_modified_total",
			Help: "Conditional requests the origin answered with 304.",
		}),
	}
}

// Collectors returns the underlying Prometheus collectors for registration.
func (m *MetricsObserver) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requests,
		m.requestDuration,
		m.cacheHits,
		m.cacheMisses,
		m.notModified,
	}
}

// OnRequestStart does nothing; counting happens on completion
func (m *MetricsObserver) OnRequestStart(method, url string) {}

// OnRequestEnd records the request outcome and duration
func (m *MetricsObserver) OnRequestEnd(method, url string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// OnCacheHit increments the hit counter
func (m *MetricsObserver) OnCacheHit(key string) {
	m.cacheHits.Inc()
}

// OnCacheMiss increments the miss counter
func (m *MetricsObserver) OnCacheMiss(key string) {
	m.cacheMisses.Inc()
}

// OnRevalidation counts 304 answers
func (m *MetricsObserver) OnRevalidation(url string, notModified bool) {
	if notModified {
		m.notModified.Inc()
	}
}

// CompositeObserver fans events out to several observers, e.g. logging and
// metrics together.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an observer that forwards every event to all
// the given observers in order.
func NewCompositeObserver(observers ...Observer) *CompositeObserver {
	return &CompositeObserver{observers: observers}
}

// OnRequestStart forwards to all observers
func (c *CompositeObserver) OnRequestStart(method, url string) {
	for _, o := range c.observers {
		o.OnRequestStart(method, url)
	}
}

// OnRequestEnd forwards to all observers
func (c *CompositeObserver) OnRequestEnd(method, url string, duration time.Duration, err error) {
	for _, o := range c.observers {
		o.OnRequestEnd(method, url, duration, err)
	}
}

// OnCacheHit forwards to all observers
func (c *CompositeObserver) OnCacheHit(key string) {
	for _, o := range c.observers {
		o.OnCacheHit(key)
	}
}

// OnCacheMiss forwards to all observers
func (c *CompositeObserver) OnCacheMiss(key string) {
	for _, o := range c.observers {
		o.OnCacheMiss(key)
	}
}

// OnRevalidation forwards to all observers
func (c *CompositeObserver) OnRevalidation(url string, notModified bool) {
	for _, o := range c.observers {
		o.OnRevalidation(url, notModified)
	}
}
