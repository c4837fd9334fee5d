package arenauth

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter (or histogram) tracked by the Engine.
type MetricID uint16

const (
	// MetricLoginOTPSent counts accepted login requests (OTP dispatched).
	MetricLoginOTPSent MetricID = iota
	// MetricLoginFailure counts rejected login requests, restore offers excluded.
	MetricLoginFailure
	// MetricLoginVerified counts successful login OTP verifications.
	MetricLoginVerified
	// MetricLoginOTPRejected counts failed login OTP verifications.
	MetricLoginOTPRejected
	// MetricRestoreOffered counts logins that surfaced a restore offer.
	MetricRestoreOffered
	// MetricRestoreSuccess counts completed account restorations.
	MetricRestoreSuccess
	// MetricRestoreFailure counts failed account restorations.
	MetricRestoreFailure
	// MetricSignupOTPSent counts accepted signup requests.
	MetricSignupOTPSent
	// MetricSignupFailure counts rejected signup requests.
	MetricSignupFailure
	// MetricSignupVerified counts successful signup OTP verifications.
	MetricSignupVerified
	// MetricSignupOTPRejected counts failed signup OTP verifications.
	MetricSignupOTPRejected
	// MetricResetRequested counts accepted forgot-password email submissions.
	MetricResetRequested
	// MetricResetOTPVerified counts verified reset OTPs.
	MetricResetOTPVerified
	// MetricResetCompleted counts completed password resets.
	MetricResetCompleted
	// MetricResetFailure counts failures anywhere in the reset flow.
	MetricResetFailure
	// MetricSessionFetched counts session fetches that returned a user.
	MetricSessionFetched
	// MetricSessionAnonymous counts session fetches that returned anonymous.
	MetricSessionAnonymous
	// MetricSessionFetchError counts session fetches that failed outright.
	MetricSessionFetchError
	// MetricSessionStale counts fetch results discarded by the epoch gate.
	MetricSessionStale
	// MetricLogout counts logouts.
	MetricLogout
	// MetricCacheWrite counts credential-cache writes.
	MetricCacheWrite
	// MetricCacheWriteError counts credential-cache writes that failed in at
	// least one scope.
	MetricCacheWriteError
	// MetricCacheClear counts credential-cache clears.
	MetricCacheClear
	// MetricCacheRehydrate counts identities restored from the cache.
	MetricCacheRehydrate
	// MetricValidationReject counts operations stopped by local validation.
	MetricValidationReject
	// MetricBackendUnreachable counts transport-level request failures.
	MetricBackendUnreachable
	// MetricRequestLatency is the backend round-trip latency histogram.
	MetricRequestLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// paddedCounter keeps hot counters on separate cache lines.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the Engine's counters. All methods are safe for concurrent
// use and are no-ops on a nil or disabled receiver.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a backend round-trip duration. Only MetricRequestLatency
// carries a histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricRequestLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricRequestLatency].buckets[i])
		}
		s.Histograms[MetricRequestLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
