package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"github.com/vitos/crypto_alert_monitor/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router   *http.ServeMux
	server   *http.Server
	engine   *usecase.AlertEngine
	recorder domain.CycleRecorder
	metrics  http.Handler
	hub      *Hub
	logger   *zap.Logger

	notifier domain.Notifier
	opsLog   *zap.Logger
}

func NewServer(
	port int,
	engine *usecase.AlertEngine,
	recorder domain.CycleRecorder,
	metrics http.Handler,
	hub *Hub,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:   http.NewServeMux(),
		engine:   engine,
		recorder: recorder,
		metrics:  metrics,
		hub:      hub,
		logger:   logger,
		opsLog:   zap.NewNop(),
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Status
	s.router.HandleFunc("GET /status", s.handleStatus)

	// Alerts
	s.router.HandleFunc("POST /api/alerts/run", s.handleRunCycle)
	s.router.HandleFunc("GET /api/alerts/state", s.handleAlertState)
	s.router.HandleFunc("GET /api/alerts/history", s.handleAlertHistory)
	s.router.HandleFunc("POST /api/alerts/test", s.handleTestNotification)

	// Live cycle stream
	if s.hub != nil {
		s.router.HandleFunc("GET /ws", s.hub.ServeWS)
	}

	// Metrics
	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics)
	}
}

// SetNotifier enables the test notification endpoint. Deliveries are
// recorded on opsLog.
func (s *Server) SetNotifier(n domain.Notifier, opsLog *zap.Logger) {
	s.notifier = n
	if opsLog != nil {
		s.opsLog = opsLog
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
