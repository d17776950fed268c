// Package proxy hosts the inference proxy: a small HTTP server that accepts
// browser-side generation requests and forwards them to Vertex AI with a
// server-held service credential, so the caller never sees the cloud token.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultUpstreamBase = "https://aiplatform.googleapis.com/v1beta1"
	cloudPlatformScope  = "https://www.googleapis.com/auth/cloud-platform"

	maxRequestBody  = 1 << 20
	maxUpstreamBody = 4 << 20

	defaultUpstreamTimeout = 60 * time.Second
)

// Server proxies generation requests to Vertex AI.
//
// UpstreamBase and Tokens are overridable for tests; in production Tokens
// comes from Application Default Credentials via NewADCTokenSource.
type Server struct {
	UpstreamBase string
	Tokens       oauth2.TokenSource
	HTTPClient   *http.Client
	Logger       *logrus.Logger

	router chi.Router
}

type generateRequest struct {
	Project          string          `json:"project"`
	Region           string          `json:"region"`
	Publisher        string          `json:"publisher"`
	Model            string          `json:"model"`
	RPC              string          `json:"rpc"`
	Prompt           string          `json:"prompt"`
	GenerationConfig json.RawMessage `json:"generationConfig,omitempty"`
}

type vertexContent struct {
	Role  string       `json:"role"`
	Parts []vertexPart `json:"parts"`
}

type vertexPart struct {
	Text string `json:"text"`
}

type vertexRequest struct {
	Contents         []vertexContent `json:"contents"`
	GenerationConfig json.RawMessage `json:"generationConfig,omitempty"`
}

type vertexResponse struct {
	Candidates []struct {
		Output string `json:"output"`
	} `json:"candidates"`
}

// NewADCTokenSource builds the upstream credential from Application Default
// Credentials with the cloud-platform scope.
func NewADCTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tokens, err := google.DefaultTokenSource(ctx, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("resolve default credentials: %w", err)
	}

	return tokens, nil
}

func NewServer(tokens oauth2.TokenSource, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		UpstreamBase: defaultUpstreamBase,
		Tokens:       tokens,
		HTTPClient:   &http.Client{Timeout: defaultUpstreamTimeout},
		Logger:       logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Get("/health", s.handleHealth)
	r.Post("/", s.handleGenerate)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := s.Logger.WithField("request_id", requestID)

	var req generateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		log.WithError(err).Warn("reject malformed generation request")
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	text, err := s.callUpstream(r.Context(), req)
	if err != nil {
		log.WithError(err).Warn("generation request failed")
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.WithField("model", req.Model).Debug("generation request served")
	s.jsonResponse(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) callUpstream(ctx context.Context, req generateRequest) (string, error) {
	url := fmt.Sprintf("%s/projects/%s/locations/%s/%s/models/%s:%s",
		s.UpstreamBase, req.Project, req.Region, req.Publisher, req.Model, req.RPC)

	body := vertexRequest{
		Contents:         []vertexContent{{Role: "user", Parts: []vertexPart{{Text: req.Prompt}}}},
		GenerationConfig: req.GenerationConfig,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	token, err := s.Tokens.Token()
	if err != nil {
		return "", fmt.Errorf("resolve upstream credential: %w", err)
	}
	token.SetAuthHeader(httpReq)

	resp, err := s.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call upstream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return "", fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("Vertex AI %d: %s", resp.StatusCode, string(data))
	}

	var decoded vertexResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("decode upstream response: %w", err)
	}

	if len(decoded.Candidates) == 0 {
		return "", nil
	}

	return decoded.Candidates[0].Output, nil
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
