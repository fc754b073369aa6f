// internal/api/server.go
package api

import (
	"encoding/json"
	"net/http"

	"oci-bom-generator/internal/common/config"
	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/common/logger"
	"oci-bom-generator/internal/pipeline"
	parsedocument "oci-bom-generator/internal/workers/documents/parse-document"
	savedprompts "oci-bom-generator/internal/workers/prompts/saved-prompts"
	"oci-bom-generator/pkg/registry"
)

// Server exposes the BOM pipeline under /api.
type Server struct {
	config    *config.Config
	pipeline  *pipeline.Pipeline
	documents *parsedocument.Handler
	prompts   *savedprompts.Handler
	registry  *registry.ProviderRegistry
	errors    *apperrors.ErrorHandler
	limiter   *RateLimiter
	logger    logger.Logger
}

type Options struct {
	Config    *config.Config
	Pipeline  *pipeline.Pipeline
	Documents *parsedocument.Handler
	Prompts   *savedprompts.Handler
	Registry  *registry.ProviderRegistry
}

func NewServer(opts Options, log logger.Logger) *Server {
	log = log.With(map[string]interface{}{"component": "api"})
	s := &Server{
		config:    opts.Config,
		pipeline:  opts.Pipeline,
		documents: opts.Documents,
		prompts:   opts.Prompts,
		registry:  opts.Registry,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
	if rl := opts.Config.RateLimit; rl.Enabled && rl.RPS > 0 {
		s.limiter = NewRateLimiter(rl.RPS, rl.Burst, s.errors)
	}
	return s
}

// Handler returns the fully wrapped /api handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/llm-providers", s.handleProviders)
	mux.HandleFunc("GET /api/oci-categories", s.handleCategories)
	mux.HandleFunc("POST /api/generate-bom", s.handleGenerateBOM)
	mux.HandleFunc("POST /api/upload-document", s.handleUploadDocument)

	mux.HandleFunc("GET /api/saved-prompts", s.handleListPrompts)
	mux.HandleFunc("POST /api/saved-prompts", s.handleCreatePrompt)
	mux.HandleFunc("POST /api/saved-prompts/suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /api/saved-prompts/{id}", s.handleGetPrompt)
	mux.HandleFunc("PUT /api/saved-prompts/{id}", s.handleUpdatePrompt)
	mux.HandleFunc("DELETE /api/saved-prompts/{id}", s.handleDeletePrompt)
	mux.HandleFunc("POST /api/saved-prompts/{id}/use", s.handleUsePrompt)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, apperrors.NewNotFoundError("route", r.Method+" "+r.URL.Path))
	})

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.Middleware(h)
	}
	h = recoverer(s.errors)(h)
	h = accessLog(s.logger)(h)
	h = securityHeaders(h)
	return withRequestID(h)
}

// Close releases background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.errors.Handle(w, RequestIDFrom(r.Context()), err)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
