package handlers

import (
	"errors"
	"net/http"

	"rentalsBack/internal/forms"
	"rentalsBack/internal/models"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/services"
)

// ListingHandler serves the public pages.
type ListingHandler struct {
	*Views
	Properties *services.PropertyService
	Messages   *services.MessageService
	Favorites  *services.FavoriteService
}

// List shows available properties. A search that does not validate is
// reported on the page and no filter is applied.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	var search forms.Search
	errs := forms.Bind(r.URL.Query(), &search)

	var filter models.PropertyFilter
	if !errs.Any() {
		filter = search.Filter()
	}

	props, err := h.Properties.ListAvailable(r.Context(), filter)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, "property_list.html", &templateData{
		Search:     search,
		Errors:     errs,
		Properties: props,
	})
}

func (h *ListingHandler) Detail(w http.ResponseWriter, r *http.Request) {
	p, ok := h.property(w, r)
	if !ok {
		return
	}
	data, err := h.detailData(r, p)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, "property_detail.html", data)
}

// detailData marks whether the current user has already saved the property.
func (h *ListingHandler) detailData(r *http.Request, p models.Property) (*templateData, error) {
	data := &templateData{Property: p}
	if user := CurrentUser(r.Context()); user != nil && h.Favorites != nil {
		saved, err := h.Favorites.IsSaved(r.Context(), user.ID, p.ID)
		if err != nil {
			return nil, err
		}
		data.Saved = saved
	}
	return data, nil
}

// Contact stores a message for the property's owner.
func (h *ListingHandler) Contact(w http.ResponseWriter, r *http.Request) {
	p, ok := h.property(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var in forms.Contact
	errs := forms.Bind(r.PostForm, &in)
	if errs.Any() {
		data, err := h.detailData(r, p)
		if err != nil {
			h.serverError(w, err)
			return
		}
		data.Contact, data.Errors = in, errs
		h.render(w, r, http.StatusOK, "property_detail.html", data)
		return
	}

	msg := models.Message{
		SenderName:  in.SenderName,
		SenderEmail: in.SenderEmail,
		Content:     in.Content,
	}
	if _, err := h.Messages.Contact(r.Context(), p, msg); err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, r.URL.Path)
}

func (h *ListingHandler) property(w http.ResponseWriter, r *http.Request) (models.Property, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w)
		return models.Property{}, false
	}
	p, err := h.Properties.Get(r.Context(), id)
	if errors.Is(err, repositories.ErrPropertyNotFound) {
		h.notFound(w)
		return models.Property{}, false
	}
	if err != nil {
		h.serverError(w, err)
		return models.Property{}, false
	}
	return p, true
}
