package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"github.com/vitos/crypto_alert_monitor/internal/usecase"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	defaultTestMessage  = "Test message from system config"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"alert_keys": len(s.engine.State().Snapshot()),
	})
}

// handleRunCycle runs one cycle on demand. The cycle is detached from the
// request so a client hanging up cannot abort it half way.
func (s *Server) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "api"
	}
	summary := s.engine.RunCycle(context.WithoutCancel(r.Context()), source)
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAlertState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.State().Snapshot())
}

func (s *Server) handleAlertHistory(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		s.writeJSON(w, http.StatusOK, []*domain.CycleSummary{})
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	cycles, err := s.recorder.ListCycles(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list cycles", zap.Error(err))
		http.Error(w, "Failed to list cycles", http.StatusInternalServerError)
		return
	}
	if cycles == nil {
		cycles = []*domain.CycleSummary{}
	}
	s.writeJSON(w, http.StatusOK, cycles)
}

// handleTestNotification sends a message straight through the notifier,
// bypassing the engine and the refractory window.
func (s *Server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	if s.notifier == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]any{"success": false, "error": "notifier not configured"})
		return
	}

	message := r.FormValue("message")
	if message == "" {
		message = defaultTestMessage
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecase.DefaultDispatchTimeout)
	defer cancel()

	ref, err := s.notifier.Send(ctx, message)
	if err != nil {
		s.logger.Error("Test notification failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}

	s.opsLog.Info("Notification Sent: Test message",
		zap.String("source", "Test Notification"),
		zap.String("operation_type", "Notification Sent"),
		zap.String("ref", ref),
	)
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "sid": ref, "sent_at": time.Now().UTC()})
}
