package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	MovementsRecorded *prometheus.CounterVec
	MovementsReversed prometheus.Counter
	MovementsEdited   prometheus.Counter
	MovementAmount    prometheus.Histogram
	MovementErrors    *prometheus.CounterVec

	// Branch metrics
	BranchBalance *prometheus.GaugeVec

	// Reconciliation metrics
	ReconciliationRuns          prometheus.Counter
	ReconciliationDiscrepancies prometheus.Gauge
	ReconciliationDuration      prometheus.Histogram

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Movement metrics
		MovementsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "branchcash_movements_recorded_total",
				Help: "Total number of movements recorded by kind",
			},
			[]string{"kind"},
		),
		MovementsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "branchcash_movements_reversed_total",
			Help: "Total number of movements reversed",
		}),
		MovementsEdited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "branchcash_movements_edited_total",
			Help: "Total number of movements edited",
		}),
		MovementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "branchcash_movement_amount",
			Help:    "Movement amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		MovementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "branchcash_movement_errors_total",
				Help: "Total number of movement errors by type",
			},
			[]string{"error_type"},
		),

		// Branch metrics
		BranchBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "branchcash_branch_balance",
				Help: "Current branch cash balance",
			},
			[]string{"branch"},
		),

		// Reconciliation metrics
		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "branchcash_reconciliation_runs_total",
			Help: "Total number of reconciliation runs",
		}),
		ReconciliationDiscrepancies: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "branchcash_reconciliation_discrepancies",
			Help: "Number of branches out of balance in the last run",
		}),
		ReconciliationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "branchcash_reconciliation_duration_seconds",
			Help:    "Duration of reconciliation runs",
			Buckets: prometheus.DefBuckets,
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "branchcash_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "branchcash_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "branchcash_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "branchcash_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "branchcash_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "branchcash_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
