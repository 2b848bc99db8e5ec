package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics counts order sync outcomes and retry activity.
type SyncMetrics struct {
	ordersProcessed *prometheus.CounterVec
	retriesQueued   prometheus.Counter
	ordersDead      prometheus.Counter
	batchesQueued   prometheus.Counter
}

// ReportMetrics tracks the aggregation cache behaviour.
type ReportMetrics struct {
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	queries     prometheus.Counter
}

var (
	mu          sync.Mutex
	syncOnce    *SyncMetrics
	reportsOnce *ReportMetrics
)

func Sync() *SyncMetrics {
	mu.Lock()
	defer mu.Unlock()
	if syncOnce == nil {
		syncOnce = newSyncMetrics()
	}
	return syncOnce
}

func Reports() *ReportMetrics {
	mu.Lock()
	defer mu.Unlock()
	if reportsOnce == nil {
		reportsOnce = newReportMetrics()
	}
	return reportsOnce
}

// ResetForTest drops the cached collectors so each test starts from zero.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	syncOnce = nil
	reportsOnce = nil
}

// Register attaches both collector sets to the given registerer. Collectors
// are created unregistered so tests can instantiate them repeatedly.
func Register(r prometheus.Registerer) error {
	s := Sync()
	rep := Reports()
	collectors := []prometheus.Collector{
		s.ordersProcessed, s.retriesQueued, s.ordersDead, s.batchesQueued,
		rep.cacheHits, rep.cacheMisses, rep.queries,
	}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func newSyncMetrics() *SyncMetrics {
	return &SyncMetrics{
		ordersProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderlens_sync_orders_processed_total",
			Help: "Order sync attempts by outcome.",
		}, []string{"outcome"}),
		retriesQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderlens_sync_retries_queued_total",
			Help: "Single-order retry jobs enqueued after a failed upsert.",
		}),
		ordersDead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderlens_sync_orders_dead_total",
			Help: "Orders that exhausted the retry budget.",
		}),
		batchesQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderlens_sync_batches_queued_total",
			Help: "Page batch jobs enqueued by the full scan.",
		}),
	}
}

func newReportMetrics() *ReportMetrics {
	return &ReportMetrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderlens_report_cache_hits_total",
			Help: "Aggregation results served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderlens_report_cache_misses_total",
			Help: "Aggregation cache misses.",
		}),
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderlens_report_queries_total",
			Help: "Aggregation queries executed against the lookup table.",
		}),
	}
}

func (m *SyncMetrics) IncProcessed(outcome string) {
	if m == nil {
		return
	}
	m.ordersProcessed.WithLabelValues(outcome).Inc()
}

func (m *SyncMetrics) IncRetryQueued() {
	if m == nil {
		return
	}
	m.retriesQueued.Inc()
}

func (m *SyncMetrics) IncDead() {
	if m == nil {
		return
	}
	m.ordersDead.Inc()
}

func (m *SyncMetrics) AddBatchesQueued(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.batchesQueued.Add(float64(count))
}

func (m *ReportMetrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *ReportMetrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *ReportMetrics) IncQuery() {
	if m == nil {
		return
	}
	m.queries.Inc()
}
