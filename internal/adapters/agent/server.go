// Package agent exposes the sidebar's command surface over HTTP: a single
// POST /message endpoint dispatching on a typed request envelope, plus a
// health probe. It is the inbound counterpart of the outbound proxy adapter.
package agent

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bnema/magicpin/internal/application"
	"github.com/bnema/magicpin/internal/domain"
)

const maxMessageBody = 1 << 20

const (
	messageTypeChat        = "chat"
	messageTypeAssignments = "getClassroomAssignments"
	messageTypeRefresh     = "refreshSnippet"
)

type Server struct {
	Router     *application.Router
	Aggregator *application.Aggregator
	Poller     *application.SnippetPoller
	Logger     *logrus.Logger

	mux chi.Router
}

type messageRequest struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt,omitempty"`
}

type assignmentPayload struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DueDate     *dueDatePayload `json:"dueDate,omitempty"`
	DueTime     *dueTimePayload `json:"dueTime,omitempty"`
	MaxPoints   float64         `json:"maxPoints,omitempty"`
	State       string          `json:"state,omitempty"`
	CourseName  string          `json:"courseName"`
	CourseID    string          `json:"courseId"`
}

type dueDatePayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type dueTimePayload struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func NewServer(router *application.Router, aggregator *application.Aggregator, poller *application.SnippetPoller, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		Router:     router,
		Aggregator: aggregator,
		Poller:     poller,
		Logger:     logger,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Get("/health", s.handleHealth)
	mux.Post("/message", s.handleMessage)
	s.mux = mux

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := s.Logger.WithField("request_id", requestID)

	var req messageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBody)).Decode(&req); err != nil {
		log.WithError(err).Warn("reject malformed message")
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	log = log.WithField("type", req.Type)

	switch req.Type {
	case messageTypeChat:
		reply, err := s.Router.Handle(r.Context(), req.Prompt)
		if err != nil {
			log.WithError(err).Warn("chat message failed")
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Debug("chat message served")
		s.jsonResponse(w, http.StatusOK, map[string]string{"text": reply})

	case messageTypeAssignments:
		records, err := s.Aggregator.Aggregate(r.Context())
		if err != nil {
			log.WithError(err).Warn("assignment fetch failed")
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.WithField("count", len(records)).Debug("assignments served")
		s.jsonResponse(w, http.StatusOK, map[string]any{"assignments": toAssignmentPayloads(records)})

	case messageTypeRefresh:
		s.Poller.Poll(r.Context())
		log.Debug("snippet refresh triggered")
		w.WriteHeader(http.StatusAccepted)

	default:
		log.Warn("unknown message type")
		s.errorResponse(w, http.StatusBadRequest, "unknown message type: "+req.Type)
	}
}

func toAssignmentPayloads(records []domain.AssignmentRecord) []assignmentPayload {
	payloads := make([]assignmentPayload, len(records))
	for i, record := range records {
		payload := assignmentPayload{
			ID:          record.ID,
			Title:       record.Title,
			Description: record.Description,
			MaxPoints:   record.MaxPoints,
			State:       record.State,
			CourseName:  record.CourseName,
			CourseID:    record.CourseID,
		}
		if record.DueDate != nil {
			payload.DueDate = &dueDatePayload{Year: record.DueDate.Year, Month: record.DueDate.Month, Day: record.DueDate.Day}
		}
		if record.DueTime != nil {
			payload.DueTime = &dueTimePayload{Hours: record.DueTime.Hours, Minutes: record.DueTime.Minutes}
		}
		payloads[i] = payload
	}
	return payloads
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
