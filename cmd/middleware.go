package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"
	"github.com/rs/cors"

	"rentalsBack/internal/handlers"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/session"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// cors only allows the configured origins; with none configured no CORS
// headers are sent at all.
func (app *application) cors(next http.Handler) http.Handler {
	if len(app.cfg.Server.AllowedOrigins) == 0 {
		return next
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   app.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "X-CSRF-Token"},
	})
	return c.Handler(next)
}

// limitBody caps the request body at limit bytes and parses the form right
// away, so nothing downstream (the CSRF check included) reads past the cap.
func limitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)

			err := r.ParseMultipartForm(formMemory)
			if errors.Is(err, http.ErrNotMultipart) {
				err = r.ParseForm()
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				w.Header().Set("Connection", "close")
				http.Error(w, fmt.Sprintf("Upload too large (limit %d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
				return
			}
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (app *application) csrf() func(http.Handler) http.Handler {
	protect := csrf.Protect([]byte(app.cfg.CSRF.AuthKey),
		csrf.Secure(app.cfg.CSRF.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(app.cfg.Server.AllowedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(app.csrfFailure)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if app.cfg.CSRF.Secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func (app *application) csrfFailure(w http.ResponseWriter, r *http.Request) {
	app.infoLog.Printf("csrf check failed for %s %s: %v", r.Method, r.URL.Path, csrf.FailureReason(r))
	http.Error(w, "CSRF verification failed. Request aborted.", http.StatusForbidden)
}

// loadSession attaches the client's session to the request context.
func (app *application) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := app.sessions.Load(r)
		if err != nil {
			app.serverError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// authenticate resolves the session's user. Sessions pointing at a deleted
// or inactive user are treated as anonymous.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess.UserID() == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.userService.GetUserByID(r.Context(), sess.UserID())
		if errors.Is(err, repositories.ErrUserNotFound) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			app.serverError(w, err)
			return
		}
		if !user.IsActive {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), &user)))
	})
}

// requireAuthenticatedUser sends anonymous clients to the login page. Only the
// path is carried in next because pat has already rewritten the query.
func (app *application) requireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handlers.CurrentUser(r.Context()) == nil {
			http.Redirect(w, r, "/login/?next="+url.QueryEscape(r.URL.EscapedPath()), http.StatusSeeOther)
			return
		}
		w.Header().Add("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
