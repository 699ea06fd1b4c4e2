package main

import (
	"net/http"
	"slices"
	"strings"

	"github.com/raunak-choudhary/portfolio-admin/internal/api"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := app.db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Stored attachment objects are served directly from disk under the
	// public base URL path.
	mux.Handle("GET /files/", http.StripPrefix("/files/",
		http.FileServer(http.Dir(app.config.Storage.BasePath))))

	api.Register(mux, api.Groups(
		app.records,
		app.objects,
		app.signals,
		app.logger,
		app.config.Pagination,
	))

	return app.enableCORS(mux)
}

func (app *Application) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cors := app.config.CORS

		if len(cors.Origins) > 0 {
			origin := r.Header.Get("Origin")
			if slices.Contains(cors.Origins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}

		if len(cors.Methods) > 0 {
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(cors.Methods, ", "))
		}

		if len(cors.Headers) > 0 {
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(cors.Headers, ", "))
		}

		if cors.Credentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
