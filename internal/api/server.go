package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/drafter"
	"github.com/pbaille/clozer/internal/logging"
	"github.com/pbaille/clozer/internal/pipeline"
	"github.com/pbaille/clozer/internal/store"
)

// Server handles HTTP requests for the draft API
type Server struct {
	svc  *pipeline.Service
	log  *logging.Logger
	addr string
}

// New creates a new API server
func New(svc *pipeline.Service, log *logging.Logger, addr string) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{svc: svc, log: log, addr: addr}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Engine
	mux.HandleFunc("POST /validate", s.validate)
	mux.HandleFunc("POST /generate", s.generate)

	// Drafts
	mux.HandleFunc("GET /drafts", s.listDrafts)
	mux.HandleFunc("POST /drafts/ai", s.createAIDraft)
	mux.HandleFunc("POST /drafts/manual", s.createManualDraft)
	mux.HandleFunc("GET /drafts/{id}", s.getDraft)
	mux.HandleFunc("POST /drafts/{id}/revalidate", s.revalidateDraft)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return s.withLogging(withCORS(mux))
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("starting server", "addr", s.addr)
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ValidateRequest is the re-validation body. Keys is a pointer so a missing
// field can be told apart from an empty one.
type ValidateRequest struct {
	Lang       string              `json:"lang"`
	Text       string              `json:"text"`
	Keys       *domain.Keys        `json:"keys"`
	ClozeShort []domain.ClozeEntry `json:"cloze_short"`
	ClozeLong  []domain.ClozeEntry `json:"cloze_long"`
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Lang == "" || strings.TrimSpace(req.Text) == "" || req.Keys == nil {
		writeError(w, http.StatusBadRequest, "lang, text and keys are required")
		return
	}
	lang, err := domain.ParseLang(req.Lang)
	if err != nil {
		s.fail(w, err)
		return
	}

	res, err := s.svc.Validate(req.Text, lang, domain.Candidates{
		Keys:       *req.Keys,
		ClozeShort: req.ClozeShort,
		ClozeLong:  req.ClozeLong,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GenerateRequest asks for raw candidates over a text.
type GenerateRequest struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, err := domain.ParseLang(req.Lang)
	if err != nil {
		s.fail(w, err)
		return
	}
	c, err := s.svc.Generate(r.Context(), req.Text, lang)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AIDraftRequest is the request body for an AI draft
type AIDraftRequest struct {
	Lang  string `json:"lang"`
	Level int    `json:"level"`
	Topic string `json:"topic"`
	Text  string `json:"text,omitempty"`
}

func (s *Server) createAIDraft(w http.ResponseWriter, r *http.Request) {
	var req AIDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, err := domain.ParseLang(req.Lang)
	if err != nil {
		s.fail(w, err)
		return
	}

	d, err := s.svc.CreateAIDraft(r.Context(), drafter.Request{
		Lang:  lang,
		Level: req.Level,
		Topic: req.Topic,
		Text:  req.Text,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ManualDraftRequest is the request body for a manual draft
type ManualDraftRequest struct {
	Lang  string `json:"lang"`
	Level int    `json:"level,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
}

func (s *Server) createManualDraft(w http.ResponseWriter, r *http.Request) {
	var req ManualDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, err := domain.ParseLang(req.Lang)
	if err != nil {
		s.fail(w, err)
		return
	}

	d, err := s.svc.CreateManualDraft(r.Context(), pipeline.ManualInput{
		Lang:  lang,
		Level: req.Level,
		Title: req.Title,
		Text:  req.Text,
		URL:   req.URL,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.GetDraft(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) revalidateDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.RevalidateDraft(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) listDrafts(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	drafts, err := s.svc.ListDrafts(r.Context(), limit, offset)
	if err != nil {
		s.fail(w, err)
		return
	}
	if drafts == nil {
		drafts = []domain.Draft{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"drafts": drafts,
		"limit":  limit,
		"offset": offset,
	})
}

// fail maps pipeline errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrAmbiguous),
		errors.Is(err, pipeline.ErrEmptyText),
		errors.Is(err, drafter.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedLanguage):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrNoDrafter), errors.Is(err, drafter.ErrNoAPIKey):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
