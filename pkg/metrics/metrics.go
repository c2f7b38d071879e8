package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - полученные сообщения
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Business Метрики (специфичные для RevuLink)
// =============================================================================

// --- Rating Service ---

// RatingsSubmitted - отправленные оценки с разбивкой по звёздам
var RatingsSubmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ratings_submitted_total",
		Help: "Total number of ratings submitted",
	},
	[]string{"stars"}, // 1..5
)

// GoogleRedirects - перенаправления на страницу Google отзывов (оценка >= 4)
var GoogleRedirects = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "google_redirects_total",
		Help: "Total number of customers redirected to the external review page",
	},
)

// FeedbackSubmitted - отправленные приватные отзывы (оценка <= 3)
var FeedbackSubmitted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "feedback_submitted_total",
		Help: "Total number of private feedback submissions",
	},
)

// DiscountCodesServed - промокоды, показанные на странице благодарности
var DiscountCodesServed = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "discount_codes_served_total",
		Help: "Total number of discount codes served on the thank-you page",
	},
)

// --- Dashboard Service ---

// LinksGenerated - созданные ссылки для сбора отзывов
var LinksGenerated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "review_links_generated_total",
		Help: "Total number of review links generated",
	},
)

// CsvExports - выгрузки CSV
var CsvExports = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "csv_exports_total",
		Help: "Total number of CSV exports",
	},
	[]string{"kind"}, // reviews, admin-reviews
)

// ImpersonationActive - активные сессии имперсонации администраторов
var ImpersonationActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "admin_impersonation_active",
		Help: "Number of currently active admin impersonation sessions",
	},
)

// --- Background Worker ---

// WorkerEventsProcessed - обработанные события оценок
var WorkerEventsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_rating_events_processed_total",
		Help: "Total number of rating events processed by worker",
	},
	[]string{"status"}, // success, failed, skipped
)

// WorkerReconciliations - запуски сверки счётчиков
var WorkerReconciliations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_counter_reconciliations_total",
		Help: "Total number of link counter reconciliation runs",
	},
	[]string{"status"}, // success, failed
)
