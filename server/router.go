package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the HTTP surface.
type RouterOptions struct {
	StaticDir   string
	WSPath      string
	CORSOrigins []string
}

// NewRouter mounts the websocket endpoint, the JSON API and the static client.
func NewRouter(s *Server, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	wsPath := opts.WSPath
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.HandleFunc(wsPath, s.HandleWS)

	r.Route("/api/v1", func(sub chi.Router) {
		sub.Use(middleware.Logger)
		sub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		sub.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			st, err := s.Stats(ctx)
			if err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, st)
		})
	})

	if opts.StaticDir != "" {
		r.Handle("/*", StaticFileServer(opts.StaticDir, "index.html"))
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

// StaticFileServer serves files from dir and falls back to fallback for any
// path that does not exist, so client-side routes resolve.
func StaticFileServer(dir, fallback string) http.Handler {
	if _, err := os.Stat(dir); err != nil {
		log.Printf("[WARN] static directory %s: %v", dir, err)
	}
	fs := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, fallback))
	})
}
