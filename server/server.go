package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	contractx "github.com/PBASC-Fred/fredai-action-server/action/contract"
)

type Config struct {
	Addr string `default:":5055"`
}

// Dispatcher resolves an action name and invokes it against a snapshot.
type Dispatcher interface {
	Invoke(ctx context.Context, name string, snap contractx.Snapshot) ([]contractx.Message, []contractx.Event, error)
}

var invocations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "action_server_invocations_total",
	Help: "Webhook invocations by action name and outcome.",
}, []string{"action", "outcome"})

// Server adapts the dialogue engine's action-server protocol onto the
// dispatcher.
type Server struct {
	dispatcher Dispatcher
}

func NewHandler(dispatcher Dispatcher) http.Handler {
	s := &Server{dispatcher: dispatcher}

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/webhook", s.webhook)

	return r
}

type webhookRequest struct {
	NextAction string  `json:"next_action"`
	SenderID   string  `json:"sender_id"`
	Tracker    tracker `json:"tracker"`
}

type tracker struct {
	SenderID      string         `json:"sender_id"`
	LatestMessage latestMessage  `json:"latest_message"`
	Slots         map[string]any `json:"slots"`
	Events        []trackerEvent `json:"events"`
}

type latestMessage struct {
	Text string `json:"text"`
}

type trackerEvent struct {
	Event string `json:"event"`
	Text  string `json:"text"`
}

type webhookResponse struct {
	Responses []contractx.Message `json:"responses"`
	Events    []contractx.Event   `json:"events"`
}

type webhookError struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name,omitempty"`
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, webhookError{Error: "invalid request body"})
		return
	}

	snap := contractx.Snapshot{
		SenderID:    req.Tracker.SenderID,
		MessageText: req.Tracker.LatestMessage.Text,
		Slots:       req.Tracker.Slots,
		History:     historyFromEvents(req.Tracker.Events),
	}
	if snap.SenderID == "" {
		snap.SenderID = req.SenderID
	}

	messages, events, err := s.dispatcher.Invoke(r.Context(), req.NextAction, snap)
	if err != nil {
		if errors.Is(err, contractx.ErrUnknownAction) {
			invocations.WithLabelValues(req.NextAction, "unknown_action").Inc()
			hlog.FromRequest(r).Error().Err(err).Msg("unknown action requested")
			writeJSON(w, http.StatusNotFound, webhookError{
				Error:      err.Error(),
				ActionName: req.NextAction,
			})
			return
		}
		invocations.WithLabelValues(req.NextAction, "error").Inc()
		hlog.FromRequest(r).Error().Err(err).Str("action", req.NextAction).Msg("action invocation failed")
		writeJSON(w, http.StatusInternalServerError, webhookError{Error: "action invocation failed"})
		return
	}

	invocations.WithLabelValues(req.NextAction, "ok").Inc()
	if messages == nil {
		messages = []contractx.Message{}
	}
	if events == nil {
		events = []contractx.Event{}
	}
	writeJSON(w, http.StatusOK, webhookResponse{Responses: messages, Events: events})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func historyFromEvents(events []trackerEvent) []contractx.Turn {
	var history []contractx.Turn
	for _, e := range events {
		if e.Text == "" {
			continue
		}
		switch e.Event {
		case "user", "bot":
			history = append(history, contractx.Turn{Role: e.Event, Text: e.Text})
		}
	}
	return history
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response failed")
	}
}
