package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Domain mutations, labelled by entity (thought|reaction|user|friend) and op.
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_mutations_total",
			Help: "Total successful write operations",
		},
		[]string{"entity", "op"},
	)
	MutationsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_mutations_failed_total",
			Help: "Total failed write operations",
		},
		[]string{"entity", "code"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Read-through cache lookups",
		},
		[]string{"result"}, // hit|miss|error
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events handed to the broker",
		},
		[]string{"type", "status"},
	)

	// Worker kuyruğu
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
	WorkerQueueFull = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "worker_queue_full_total",
			Help: "Jobs refused because their worker queue was full",
		},
	)
)

// Handler serves /metrics.
var Handler = promhttp.Handler

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(MutationsTotal)
		prometheus.MustRegister(MutationsFailed)
		prometheus.MustRegister(CacheLookups)
		prometheus.MustRegister(EventsPublished)
		prometheus.MustRegister(WorkerQueueDepth)
		prometheus.MustRegister(WorkerQueueFull)
	})
}
