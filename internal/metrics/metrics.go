package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Remote call outcomes.
const (
	RemoteSkipped = "skipped"
	RemoteSuccess = "success"
	RemoteFailure = "failure"
	RemoteCached  = "cached"
)

// Wallet hand-off outcomes.
const (
	HandoffSuccess  = "success"
	HandoffRejected = "rejected"
	HandoffTimeout  = "timeout"
	HandoffError    = "error"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_bot_turns_total",
			Help: "Total number of processed chat turns by outcome state",
		},
		[]string{"state"},
	)

	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_bot_remote_calls_total",
			Help: "Remote parse enhancement attempts by result",
		},
		[]string{"result"},
	)

	WalletHandoffsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_bot_wallet_handoffs_total",
			Help: "Transfer intents handed to the wallet runtime by result",
		},
		[]string{"result"},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transfer_bot_turn_duration_seconds",
			Help:    "Duration of a chat turn including remote enhancement",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func ObserveTurn(state string, started time.Time) {
	TurnsTotal.WithLabelValues(state).Inc()
	TurnDuration.Observe(time.Since(started).Seconds())
}

func ObserveRemote(result string) {
	RemoteCallsTotal.WithLabelValues(result).Inc()
}

func ObserveHandoff(result string) {
	WalletHandoffsTotal.WithLabelValues(result).Inc()
}

// Server exposes /metrics until the context is cancelled.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(addr string, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Metrics server listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
