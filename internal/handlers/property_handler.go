package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"rentalsBack/internal/forms"
	"rentalsBack/internal/models"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/services"
)

// PropertyHandler serves the owner-only pages. Every lookup is scoped to the
// current user so other owners' properties answer 404.
type PropertyHandler struct {
	*Views
	Service        *services.PropertyService
	Messages       *services.MessageService
	MaxUploadBytes int64
}

func (h *PropertyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	props, err := h.Service.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	unread, err := h.Messages.UnreadCount(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, "dashboard.html", &templateData{Properties: props, Unread: unread})
}

func (h *PropertyHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "property_form.html", &templateData{
		PropertyInput: forms.PropertyInput{PropertyType: models.PropertyTypeRoom, IsAvailable: true},
	})
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	in, primary, gallery, errs, ok := h.bind(w, r)
	if !ok {
		return
	}
	if errs.Any() {
		h.render(w, r, http.StatusOK, "property_form.html", &templateData{PropertyInput: in, Errors: errs})
		return
	}

	p := models.Property{OwnerID: user.ID}
	in.Apply(&p)
	if _, err := h.Service.Create(r.Context(), p, primary, gallery); err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/dashboard/")
}

func (h *PropertyHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.owned(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "property_form.html", &templateData{
		Property:      p,
		PropertyInput: forms.PropertyInputFrom(p),
	})
}

func (h *PropertyHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.owned(w, r)
	if !ok {
		return
	}
	in, primary, gallery, errs, ok := h.bind(w, r)
	if !ok {
		return
	}
	if errs.Any() {
		h.render(w, r, http.StatusOK, "property_form.html", &templateData{Property: p, PropertyInput: in, Errors: errs})
		return
	}

	in.Apply(&p)
	_, err := h.Service.Update(r.Context(), p, primary, gallery)
	if errors.Is(err, repositories.ErrPropertyNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/dashboard/")
}

func (h *PropertyHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.owned(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "property_confirm_delete.html", &templateData{Property: p})
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w)
		return
	}
	err := h.Service.Delete(r.Context(), id, user.ID)
	if errors.Is(err, repositories.ErrPropertyNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/dashboard/")
}

// owned loads the property named in the path if the current user owns it,
// answering 404 otherwise.
func (h *PropertyHandler) owned(w http.ResponseWriter, r *http.Request) (models.Property, bool) {
	user := CurrentUser(r.Context())
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w)
		return models.Property{}, false
	}
	p, err := h.Service.GetOwned(r.Context(), id, user.ID)
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

// bind parses the property form with its uploads. The body size cap is applied
// by the router before the form is first read. ok is false when a response has
// already been written.
func (h *PropertyHandler) bind(w http.ResponseWriter, r *http.Request) (forms.PropertyInput, *multipart.FileHeader, []*multipart.FileHeader, forms.Errors, bool) {
	var in forms.PropertyInput
	if err := parseForm(r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return in, nil, nil, nil, false
	}

	errs := forms.Bind(r.PostForm, &in)

	primaries := collectImageFiles(r.MultipartForm, "image")
	gallery := collectImageFiles(r.MultipartForm, "images")
	forms.CheckImages(errs, "image", primaries, h.MaxUploadBytes)
	forms.CheckImages(errs, "images", gallery, h.MaxUploadBytes)

	var primary *multipart.FileHeader
	if len(primaries) > 0 {
		primary = primaries[0]
	}
	return in, primary, gallery, errs, true
}
