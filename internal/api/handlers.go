// internal/api/handlers.go
package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/common/validation"
	"oci-bom-generator/internal/models"
	savedprompts "oci-bom-generator/internal/workers/prompts/saved-prompts"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.config.App.Version,
		"services": map[string]string{
			"llm":     "operational",
			"catalog": "operational",
			"excel":   "operational",
		},
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		s.fail(w, r, apperrors.NewInternalError(errors.New("provider registry not loaded")))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"providers": s.registry.Summaries(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.pipeline.Stages().Catalog.GetCategories(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

func (s *Server) handleGenerateBOM(w http.ResponseWriter, r *http.Request) {
	req, err := parseGenerateRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("bom generation started", map[string]interface{}{
		"requestId": RequestIDFrom(r.Context()),
		"provider":  req.LLMProvider,
		"answers":   sortedKeys(req.FollowUpAnswers),
	})

	result, err := s.pipeline.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Response())
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	limit := s.config.Server.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			size := r.ContentLength
			if size <= 0 {
				size = tooLarge.Limit
			}
			s.fail(w, r, apperrors.NewDocumentTooLargeError(size, limit))
			return
		}
		s.fail(w, r, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "document", Message: "expected a multipart upload"},
		}))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("document")
	if err != nil {
		s.fail(w, r, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "document", Message: "no file uploaded"},
		}))
		return
	}
	defer file.Close()

	if header.Size > limit {
		s.fail(w, r, apperrors.NewDocumentTooLargeError(header.Size, limit))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, apperrors.NewInternalError(err))
		return
	}

	out, err := s.documents.Parse(r.Context(), header.Filename, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"content":      out.Content,
		"filename":     out.Filename,
		"documentType": out.DocumentType,
		"truncated":    out.Truncated,
	})
}

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := s.prompts.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if prompts == nil {
		prompts = []models.SavedPrompt{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "prompts": prompts})
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := s.prompts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "prompt": prompt})
}

func (s *Server) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	var body savePromptBody
	doc, err := readJSON(r, &body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body.Requirements = validation.SanitizeInput(body.Requirements)
	if _, ok := doc["requirements"].(string); ok {
		doc["requirements"] = body.Requirements
	}
	if fieldErrors := savePromptSchema.Validate(doc); len(fieldErrors) > 0 {
		s.fail(w, r, apperrors.NewValidationError(fieldErrors))
		return
	}

	prompt, err := s.prompts.Create(r.Context(), savedprompts.CreateInput{
		Name:            validation.SanitizeInput(body.Name),
		Requirements:    body.Requirements,
		FollowUpAnswers: stringAnswers(body.FollowUpAnswers),
		LLMProvider:     body.LLMProvider,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "prompt": prompt})
}

func (s *Server) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var input savedprompts.UpdateInput
	if _, err := readJSON(r, &input); err != nil {
		s.fail(w, r, err)
		return
	}
	for _, field := range []*string{input.Name, input.Description, input.Category, input.Requirements} {
		if field != nil {
			*field = validation.SanitizeInput(*field)
		}
	}
	if input.FollowUpAnswers != nil {
		validation.SanitizeAnswers(input.FollowUpAnswers)
	}
	for i, tag := range input.Tags {
		input.Tags[i] = strings.ToLower(validation.SanitizeInput(tag))
	}

	prompt, err := s.prompts.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "prompt": prompt})
}

func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	if err := s.prompts.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleUsePrompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := s.prompts.Use(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "prompt": prompt})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var body suggestionsBody
	if _, err := readJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	suggestions, err := s.prompts.Suggestions(r.Context(), validation.SanitizeInput(body.PartialText))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "suggestions": suggestions})
}
