// Package server exposes the explanation service over HTTP, matching the
// boundary the web frontend consumes: POST /explain/ and GET /analyze_methods/.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"codexplain/internal/config"
	"codexplain/internal/delegate"
	"codexplain/internal/dispatch"
)

// Server wires the dispatcher and delegate catalog behind the HTTP API.
type Server struct {
	disp *dispatch.Dispatcher
	reg  *delegate.Registry
	cfg  *config.Config
}

// New creates an HTTP server wired to the given dispatcher.
func New(disp *dispatch.Dispatcher, reg *delegate.Registry, cfg *config.Config) *Server {
	return &Server{disp: disp, reg: reg, cfg: cfg}
}

// Handler builds the chi router with standard middleware and CORS.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/", s.handleRoot)
	r.Post("/explain/", s.handleExplain)
	r.Get("/analyze_methods/", s.handleMethods)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
// h2c lets gRPC-web style clients share the plaintext port.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{}),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the codexplain API"})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON with code and language")
		return
	}
	if req.Method == "" {
		req.Method = s.cfg.DefaultMethod
	}

	res, err := s.disp.Dispatch(r.Context(), req)
	if err != nil {
		status, msg := classifyError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// methodInfo describes one analysis method for the catalog.
type methodInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var methods = []methodInfo{
	{
		ID:          dispatch.MethodRule,
		Name:        "Rule-based Analysis",
		Description: "Uses pattern matching over the source text to describe its structure.",
	},
	{
		ID:          dispatch.MethodNLP,
		Name:        "NLP-based Analysis",
		Description: "Uses an external language model to analyze and explain the code.",
	},
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	models := s.reg.Catalog()
	if models == nil {
		models = []delegate.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"methods": methods,
		"models":  models,
	})
}

// classifyError maps the dispatch taxonomy onto HTTP status codes:
// validation problems are the caller's fault, delegate failures are upstream.
func classifyError(err error) (int, string) {
	if de, ok := dispatch.AsError(err); ok {
		switch de.Kind {
		case dispatch.KindValidation, dispatch.KindUnsupportedLanguage:
			return http.StatusBadRequest, de.Error()
		case dispatch.KindDelegateFailure:
			return http.StatusBadGateway, de.Error()
		}
	}
	return http.StatusInternalServerError, err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// cors applies the configured allow-list; a "*" entry reflects any origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.CORS.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
