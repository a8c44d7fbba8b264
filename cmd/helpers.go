package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"
)

const healthTimeout = 2 * time.Second

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)

	if app.cfg.Server.Debug {
		http.Error(w, trace, http.StatusInternalServerError)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// healthz pings the database and the session store.
func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := map[string]string{"database": "ok", "sessions": "ok"}
	code := http.StatusOK
	if err := app.db.PingContext(ctx); err != nil {
		app.errorLog.Printf("healthz: database: %v", err)
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if err := app.sessions.Store.Ping(ctx); err != nil {
		app.errorLog.Printf("healthz: sessions: %v", err)
		status["sessions"] = "unavailable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// mediaHandler serves locally stored uploads without directory listings.
func (app *application) mediaHandler(prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(app.cfg.Uploads.Dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
