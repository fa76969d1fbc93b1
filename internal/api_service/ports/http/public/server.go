package public

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ratestash/ratestash/deploy/config"
	"github.com/ratestash/ratestash/internal/api_service/ports/http/public/middleware/logger"
	"github.com/ratestash/ratestash/internal/api_service/ports/http/public/middleware/prom"
	"github.com/ratestash/ratestash/internal/entities"
)

type Server struct {
	Server  *http.Server
	cfg     *config.Config
	service Service
}

func NewServer(server *http.Server, cfg *config.Config, service Service) *Server {
	return &Server{
		Server:  server,
		cfg:     cfg,
		service: service,
	}
}

func StartServer(ctx context.Context, service Service, cfg *config.Config) <-chan struct{} {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.New())
	r.Use(prom.New())
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	serverConfig := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	server := NewServer(serverConfig, cfg, service)

	r.Get("/rates/{store}", server.GetRates)
	r.Get("/healthz", server.Healthz)

	doneChan := make(chan struct{})

	go func() {
		if err := server.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to stop server", "error", err)
		}

		close(doneChan)
	}()

	return doneChan
}

// GetRates serves the whole persisted document of one store, today and
// yesterday together, so the client survives upstream outages.
func (s *Server) GetRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store := chi.URLParam(r, "store")

	doc, err := s.service.Rates(ctx, store)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "unknown store: "+store)
			return
		}
		RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, doc)
}

func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string, details ...string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)

	errorText := message
	if len(details) > 0 {
		errorText += "\nDetails: " + details[0]
	}

	if _, err := w.Write([]byte(errorText)); err != nil {
		slog.Error("Failed to write error response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
