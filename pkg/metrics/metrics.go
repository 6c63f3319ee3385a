package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP метрики (используются в middleware)
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Доменные метрики
	checkoutOutcomes *prometheus.CounterVec
	refundFailures   prometheus.Counter
	cartRefreshes    *prometheus.CounterVec
	expiryWarnings   prometheus.Counter
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),

		checkoutOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "checkout_attempts_total",
			Help:        "Checkout attempts by terminal outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		refundFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "refund_failures_total",
			Help:        "Failed compensating refunds requiring manual intervention",
			ConstLabels: constLabels,
		}),

		cartRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "cart_refreshes_total",
			Help:        "Cart refreshes against the remote schedule service",
			ConstLabels: constLabels,
		}, []string{"result"}),

		expiryWarnings: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "hold_expiry_warnings_total",
			Help:        "Expiry warnings raised for held reservations",
			ConstLabels: constLabels,
		}),
	}
}

// HTTPRequestInc инкрементирует счетчик HTTP запросов
func (m *Metrics) HTTPRequestInc(method, path string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// HTTPRequestObserve записывает длительность HTTP запроса
func (m *Metrics) HTTPRequestObserve(method, path string, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// CheckoutOutcomeInc инкрементирует счетчик исходов checkout
func (m *Metrics) CheckoutOutcomeInc(outcome string) {
	m.checkoutOutcomes.WithLabelValues(outcome).Inc()
}

// RefundFailureInc инкрементирует счетчик неудачных возвратов
func (m *Metrics) RefundFailureInc() {
	m.refundFailures.Inc()
}

// CartRefreshInc инкрементирует счетчик обновлений корзины
// result: "changed" | "unchanged" | "error"
func (m *Metrics) CartRefreshInc(result string) {
	m.cartRefreshes.WithLabelValues(result).Inc()
}

// ExpiryWarningInc инкрементирует счетчик предупреждений об истечении брони
func (m *Metrics) ExpiryWarningInc() {
	m.expiryWarnings.Inc()
}
