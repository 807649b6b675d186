package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	DEFAULT_PROMETHEUS_PORT = 2112
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)

	throttleDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "throttle_decisions_total",
			Help: "Throttle middleware decisions by scope and outcome",
		},
		[]string{"scope", "outcome"},
	)
)

type MonitoringService struct {
	context.DefaultService

	port     int
	register *prometheus.Registry
	server   *fiber.App
}

func (svc *MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Start() error {
	port, err := strconv.Atoi(os.Getenv("PROMETHEUS_PORT"))
	if err != nil {
		port = DEFAULT_PROMETHEUS_PORT
	}
	svc.port = port

	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		throttleDecisionsTotal,
	)

	svc.register = reg

	svc.server = fiber.New(fiber.Config{DisableStartupMessage: true})
	svc.server.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	go func() {
		addr := fmt.Sprintf(":%d", svc.port)
		log.WithField("addr", addr).Info("Metrics endpoint listening")
		if err := svc.server.Listen(addr); err != nil {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// RecordHTTPRequest feeds the request counters from the HTTP middleware.
func RecordHTTPRequest(endpoint, method string, status int, elapsed time.Duration) {
	statusStr := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(endpoint, method, statusStr).Inc()
	httpRequestDurationSeconds.WithLabelValues(endpoint, method, statusStr).Observe(elapsed.Seconds())
}

// RecordThrottleDecision counts allowed/blocked outcomes per scope.
func RecordThrottleDecision(scope string, blocked bool) {
	outcome := "allowed"
	if blocked {
		outcome = "blocked"
	}
	throttleDecisionsTotal.WithLabelValues(scope, outcome).Inc()
}
