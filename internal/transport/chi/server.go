// Package chi is the HTTP transport of the QA API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/usecase/answer"
	healthuc "github.com/helix-hr/staffrag/internal/usecase/health"
	queryuc "github.com/helix-hr/staffrag/internal/usecase/query"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the QA API.
type Server struct {
	queries       *queryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(queries *queryuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		queries: queries,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeInvalidRequest),
		sentinelHandler(domain.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrGenerationProvider, http.StatusBadGateway, codeGenerationProvider),
	}
	return s
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chirouter.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/query", s.Query)
	r.Post("/query/simple", s.SimpleQuery)
	r.Post("/query/custom-prompt", s.CustomPromptQuery)
	r.Get("/employees/available", s.AvailableEmployees)
	r.Get("/employees/skills/{skill}", s.EmployeesBySkill)
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Employee QA API is running"})
}

// HealthCheck handles GET /health. Any failure, including a missing
// collection, is a 500; health never reports a silent zero.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report, err := s.health.Check(r.Context())
	if err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeHealthCheckFailed,
			"Health check failed: "+safeDomainMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:      report.Status,
		Collection:  report.Collection,
		VectorCount: report.VectorCount,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ans, err := s.queries.Query(r.Context(), requestFromDTO(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToDTO(ans))
}

// SimpleQuery handles POST /query/simple with query parameters.
func (s *Server) SimpleQuery(w http.ResponseWriter, r *http.Request) {
	queryText := r.URL.Query().Get("query")

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "k must be an integer")
			return
		}
		k = parsed
	}

	ans, err := s.queries.Simple(r.Context(), queryText, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToDTO(ans))
}

// CustomPromptQuery handles POST /query/custom-prompt.
func (s *Server) CustomPromptQuery(w http.ResponseWriter, r *http.Request) {
	var req customPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ans, err := s.queries.WithInstruction(r.Context(), req.Query, req.SystemPrompt)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToDTO(ans))
}

// AvailableEmployees handles GET /employees/available.
func (s *Server) AvailableEmployees(w http.ResponseWriter, r *http.Request) {
	ans, err := s.queries.Available(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToDTO(ans))
}

// EmployeesBySkill handles GET /employees/skills/{skill}.
func (s *Server) EmployeesBySkill(w http.ResponseWriter, r *http.Request) {
	skill := chirouter.URLParam(r, "skill")

	availableOnly := false
	if raw := r.URL.Query().Get("available_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "available_only must be a boolean")
			return
		}
		availableOnly = parsed
	}

	ans, err := s.queries.BySkill(r.Context(), skill, availableOnly)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToDTO(ans))
}

func requestFromDTO(req queryRequest) queryuc.Request {
	out := queryuc.Request{
		Query:         req.Query,
		MinExperience: req.MinExperience,
	}
	if req.K != nil {
		out.K = *req.K
	}
	if req.FilterAvailability != nil {
		out.FilterAvailability = *req.FilterAvailability
	}
	if req.SystemPrompt != nil {
		out.Instruction = *req.SystemPrompt
	}
	return out
}

func answerToDTO(ans answer.Answer) queryResponse {
	sources := ans.Sources
	if sources == nil {
		sources = []string{}
	}
	return queryResponse{
		Query:       ans.Query,
		LLMResponse: ans.Response,
		Sources:     sources,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrCollectionNotFound,
		domain.ErrEmbeddingProvider,
		domain.ErrGenerationProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("Request failed", zap.Error(err))
			return
		}
	}
	s.logger.Error("Internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
