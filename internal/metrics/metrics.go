// Package metrics provides Prometheus instrumentation for the auction engine.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BidsPlaced counts accepted bids.
	BidsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_bids_placed_total",
		Help: "Total number of accepted bids",
	})

	// BidDenials counts bids refused by the purse rules, by reason.
	BidDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_bid_denials_total",
		Help: "Bids refused by the validator",
	}, []string{"reason"})

	// PlayersSold counts confirmed sales.
	PlayersSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_players_sold_total",
		Help: "Total number of confirmed sales",
	})

	// SalePrice tracks the distribution of hammer prices.
	SalePrice = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auction_sale_price_rupees",
		Help:    "Hammer price of confirmed sales",
		Buckets: []float64{20_000, 50_000, 100_000, 200_000, 300_000, 500_000, 750_000, 1_000_000},
	})

	// SessionActions counts undo, skip and reset operations.
	SessionActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_session_actions_total",
		Help: "Undo, skip and reset operations",
	}, []string{"action"})

	// PlayersUnsold tracks the number of players still in the pool.
	PlayersUnsold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "auction_players_unsold",
		Help: "Number of players not yet sold",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "auction_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auction_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Route pattern keeps team and player IDs out of the labels.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade pass through the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	return h.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
