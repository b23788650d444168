// Package metrics counts what the client decodes and sends, and serves the
// counters over HTTP for Prometheus to scrape.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bumper"

// shutdownTimeout bounds how long Serve waits for in-flight scrapes.
const shutdownTimeout = 2 * time.Second

// Recorder holds the client's counters on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	eventsTotal   *prometheus.CounterVec
	decodeErrors  prometheus.Counter
	accelerations prometheus.Counter
}

// New creates a Recorder with all counters registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of events received from the server",
		}, []string{"type"}),
		decodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Total number of blocks that failed to decode",
		}),
		accelerations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accelerations_total",
			Help:      "Total number of acceleration commands sent",
		}),
	}
}

// ObserveEvent counts one decoded event of the given type.
func (r *Recorder) ObserveEvent(eventType string) {
	r.eventsTotal.WithLabelValues(eventType).Inc()
}

// ObserveDecodeError counts one block that could not be decoded.
func (r *Recorder) ObserveDecodeError() {
	r.decodeErrors.Inc()
}

// ObserveAcceleration counts one acceleration command.
func (r *Recorder) ObserveAcceleration() {
	r.accelerations.Inc()
}

// Handler returns the router serving /metrics and /healthz.
func (r *Recorder) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return router
}

// Serve listens on addr until ctx is canceled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
