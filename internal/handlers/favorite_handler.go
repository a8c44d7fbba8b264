package handlers

import (
	"errors"
	"net/http"

	"rentalsBack/internal/repositories"
	"rentalsBack/internal/services"
	"rentalsBack/internal/session"
)

type FavoriteHandler struct {
	*Views
	Service *services.FavoriteService
}

// AddToSession remembers the property in the visitor's session.
func (h *FavoriteHandler) AddToSession(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w)
		return
	}
	sess := session.FromContext(r.Context())
	h.Service.AddToSession(sess, id)
	if err := h.saveSession(w, r, sess); err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/")
}

func (h *FavoriteHandler) SessionFavorites(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	props, err := h.Service.ResolveSession(r.Context(), sess)
	if err != nil {
		h.serverError(w, err)
		return
	}
	if err := h.saveSession(w, r, sess); err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, "favorites.html", &templateData{Properties: props})
}

func (h *FavoriteHandler) Saved(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	favs, err := h.Service.Saved(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, "saved.html", &templateData{Favorites: favs})
}

func (h *FavoriteHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w)
		return
	}
	_, err := h.Service.Save(r.Context(), user.ID, id)
	if errors.Is(err, repositories.ErrPropertyNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/saved/")
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w)
		return
	}
	if err := h.Service.Remove(r.Context(), user.ID, id); err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/saved/")
}
