package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	EntriesPosted   *prometheus.CounterVec
	PostingDuration prometheus.Histogram
	PostingErrors   *prometheus.CounterVec

	// Stamp metrics
	StampsIssued    prometheus.Counter
	StampDuplicates prometheus.Counter
	StampErrors     *prometheus.CounterVec
	StampDuration   prometheus.Histogram

	// Period metrics
	PeriodsClosed     prometheus.Counter
	ClosedPeriodHits  prometheus.Counter
	ReportsCalculated *prometheus.CounterVec

	// CAF metrics
	CAFsUploaded prometheus.Counter
	CAFErrors    prometheus.Counter

	// Rule metrics
	RulesRecorded prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Posting metrics
		EntriesPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_entries_posted_total",
				Help: "Total accounting entries posted by direction",
			},
			[]string{"direction"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dteledger_posting_duration_seconds",
			Help:    "Duration of invoice posting",
			Buckets: prometheus.DefBuckets,
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_posting_errors_total",
				Help: "Total posting errors by type",
			},
			[]string{"error_type"},
		),

		// Stamp metrics
		StampsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dteledger_stamps_issued_total",
			Help: "Total tax stamps issued",
		}),
		StampDuplicates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dteledger_stamp_duplicates_total",
			Help: "Total stamp re-submissions answered from the idempotency store",
		}),
		StampErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_stamp_errors_total",
				Help: "Total stamp errors by type",
			},
			[]string{"error_type"},
		),
		StampDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dteledger_stamp_duration_seconds",
			Help:    "Duration of stamp emission",
			Buckets: prometheus.DefBuckets,
		}),

		// Period metrics
		PeriodsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dteledger_periods_closed_total",
			Help: "Total accounting periods closed",
		}),
		ClosedPeriodHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dteledger_closed_period_rejections_total",
			Help: "Total postings rejected because the period was closed",
		}),
		ReportsCalculated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_reports_calculated_total",
				Help: "Total tax reports calculated",
			},
			[]string{"source"},
		),

		// CAF metrics
		CAFsUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dteledger_cafs_uploaded_total",
			Help: "Total folio authorizations uploaded",
		}),
		CAFErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dteledger_caf_errors_total",
			Help: "Total folio authorization parse failures",
		}),

		// Rule metrics
		RulesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dteledger_rules_recorded_total",
			Help: "Total classification rules recorded from corrections",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dteledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dteledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dteledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dteledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
