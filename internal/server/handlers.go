package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fathomhq/fathom/internal/agent"
)

// validPlotName matches the reserved chart filenames the agent generates.
// Anything else under /static/ is rejected, so the handler can never be
// walked out of the static directory.
var validPlotName = regexp.MustCompile(`^plot_[0-9a-f]{8}\.png$`)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string  `json:"response"`
	ImageURL *string `json:"image_url"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "fathom agent is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusUnprocessableEntity, "message cannot be empty")
		return
	}
	s.logger.Printf("query: %.120s", req.Message)

	resp, err := s.processor.ProcessQuery(r.Context(), req.Message)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}

	out := ChatResponse{Response: resp.Text}
	if resp.ImageFile != "" {
		url := "/static/" + resp.ImageFile
		out.ImageURL = &url
	}
	s.logger.Printf("query answered, has_image=%v", resp.ImageFile != "")
	writeJSON(w, http.StatusOK, out)
}

// respondPipelineError maps each pipeline failure kind to exactly one
// user-visible message. Error detail is logged here, never sent verbatim.
func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	var (
		quota *agent.QuotaExhaustedError
		be    *agent.BackendError
		fe    *agent.ExecutionFailedError
	)
	switch {
	case errors.Is(err, agent.ErrNoAPIKey):
		s.logger.Printf("query rejected: %v", err)
		writeError(w, http.StatusServiceUnavailable, "The server has no API key configured. Add one and restart.")
	case errors.As(err, &quota):
		s.logger.Printf("quota exhausted after %d models", quota.Tried)
		writeError(w, http.StatusServiceUnavailable, "All models are currently rate-limited. Please wait a minute and try again.")
	case errors.As(err, &be):
		s.logger.Printf("backend error: %v", err)
		writeError(w, http.StatusBadGateway, "The model API returned an error. Please try again.")
	case errors.As(err, &fe):
		// A failed analysis is still a chat answer, not a transport error;
		// the UI renders it as a normal reply.
		s.logger.Printf("execution failed: %s", fe.Detail)
		writeJSON(w, http.StatusOK, ChatResponse{
			Response: "I could not complete the analysis for that request. Please try rephrasing your question.",
		})
	default:
		s.logger.Printf("unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/static/")
	if !validPlotName.MatchString(name) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.config.StaticDir, name))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
