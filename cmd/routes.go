package main

import (
	"net/http"
	"strings"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"rentalsBack/internal/uploads"
)

const (
	// uploadBodyFactor bounds a property form body at one primary image plus
	// ten gallery images of the per-file maximum.
	uploadBodyFactor = 11
	formMemory       = 32 << 20
)

// routes registers every page. pat matches patterns ending in "/" by prefix
// and the first match wins, so longer paths go before the paths they extend.
func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, app.cors)
	dynamicMiddleware := alice.New(app.csrf(), app.loadSession, app.authenticate)
	authMiddleware := dynamicMiddleware.Append(app.requireAuthenticatedUser)
	uploadMiddleware := alice.New(limitBody(uploadBodyFactor * app.cfg.Uploads.MaxBytes)).Extend(authMiddleware)

	mux := pat.New()

	mux.Get("/healthz", http.HandlerFunc(app.healthz))
	if _, ok := app.media.(*uploads.LocalStore); ok && strings.HasPrefix(app.cfg.Uploads.BaseURL, "/") {
		prefix := strings.TrimRight(app.cfg.Uploads.BaseURL, "/") + "/"
		mux.Get(prefix+uploads.Namespace+"/", app.mediaHandler(prefix))
	}

	// Auth
	mux.Get("/register/", dynamicMiddleware.ThenFunc(app.authHandler.RegisterForm))
	mux.Post("/register/", dynamicMiddleware.ThenFunc(app.authHandler.Register))
	mux.Get("/login/", dynamicMiddleware.ThenFunc(app.authHandler.LoginForm))
	mux.Post("/login/", dynamicMiddleware.ThenFunc(app.authHandler.Login))
	mux.Get("/logout/", dynamicMiddleware.ThenFunc(app.authHandler.Logout))
	mux.Post("/logout/", dynamicMiddleware.ThenFunc(app.authHandler.Logout))
	mux.Post("/account/delete/", authMiddleware.ThenFunc(app.authHandler.DeleteAccount))
	mux.Get("/account/", authMiddleware.ThenFunc(app.authHandler.ProfileForm))
	mux.Post("/account/", authMiddleware.ThenFunc(app.authHandler.UpdateProfile))

	// Owner dashboard and messages
	mux.Post("/dashboard/messages/:id/read/", authMiddleware.ThenFunc(app.messageHandler.MarkRead))
	mux.Get("/dashboard/messages/", authMiddleware.ThenFunc(app.messageHandler.Inbox))
	mux.Get("/dashboard/", authMiddleware.ThenFunc(app.propertyHandler.Dashboard))
	mux.Get("/ws/inbox/", authMiddleware.ThenFunc(app.messageHandler.InboxWS))

	// Property management
	mux.Get("/property/create/", authMiddleware.ThenFunc(app.propertyHandler.CreateForm))
	mux.Post("/property/create/", uploadMiddleware.ThenFunc(app.propertyHandler.Create))
	mux.Get("/property/:id/edit/", authMiddleware.ThenFunc(app.propertyHandler.EditForm))
	mux.Post("/property/:id/edit/", uploadMiddleware.ThenFunc(app.propertyHandler.Edit))
	mux.Get("/property/:id/delete/", authMiddleware.ThenFunc(app.propertyHandler.DeleteConfirm))
	mux.Post("/property/:id/delete/", authMiddleware.ThenFunc(app.propertyHandler.Delete))

	// Public listings
	mux.Get("/property/:id/", dynamicMiddleware.ThenFunc(app.listingHandler.Detail))
	mux.Post("/property/:id/", dynamicMiddleware.ThenFunc(app.listingHandler.Contact))
	mux.Get("/", dynamicMiddleware.ThenFunc(app.listingHandler.List))

	// Favorites
	mux.Get("/favorite/:id/", dynamicMiddleware.ThenFunc(app.favoriteHandler.AddToSession))
	mux.Post("/favorite/:id/", dynamicMiddleware.ThenFunc(app.favoriteHandler.AddToSession))
	mux.Get("/favorites/", dynamicMiddleware.ThenFunc(app.favoriteHandler.SessionFavorites))
	mux.Post("/saved/:id/remove/", authMiddleware.ThenFunc(app.favoriteHandler.Remove))
	mux.Post("/saved/:id/", authMiddleware.ThenFunc(app.favoriteHandler.Save))
	mux.Get("/saved/", authMiddleware.ThenFunc(app.favoriteHandler.Saved))

	return standardMiddleware.Then(mux)
}
