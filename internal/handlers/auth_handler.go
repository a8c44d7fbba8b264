package handlers

import (
	"errors"
	"net/http"

	"rentalsBack/internal/forms"
	"rentalsBack/internal/models"
	"rentalsBack/internal/services"
	"rentalsBack/internal/session"
)

const (
	msgDuplicateUsername  = "A user with that username already exists."
	msgInvalidCredentials = "Please enter a correct username and password."
)

type AuthHandler struct {
	*Views
	Service    *services.UserService
	Properties *services.PropertyService
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", &templateData{
		Registration: forms.Registration{Role: models.RoleOwner},
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var in forms.Registration
	errs := forms.Bind(r.PostForm, &in)
	if errs.Any() {
		h.render(w, r, http.StatusOK, "register.html", &templateData{Registration: in, Errors: errs})
		return
	}

	user, err := h.Service.Register(r.Context(), in.Username, in.Email, in.Password1, in.Role)
	if errors.Is(err, models.ErrDuplicateUsername) {
		errs.Add("username", msgDuplicateUsername)
		h.render(w, r, http.StatusOK, "register.html", &templateData{Registration: in, Errors: errs})
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	if err := h.login(w, r, user); err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/dashboard/")
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", &templateData{Next: safeNext(r.URL.Query().Get("next"))})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	next := safeNext(r.PostForm.Get("next"))

	var in forms.Login
	errs := forms.Bind(r.PostForm, &in)
	if errs.Any() {
		h.render(w, r, http.StatusOK, "login.html", &templateData{Login: in, Errors: errs, Next: next})
		return
	}

	user, err := h.Service.Authenticate(r.Context(), in.Username, in.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		errs.Add(forms.NonFieldErrors, msgInvalidCredentials)
		h.render(w, r, http.StatusOK, "login.html", &templateData{Login: in, Errors: errs, Next: next})
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	if err := h.login(w, r, user); err != nil {
		h.serverError(w, err)
		return
	}
	if next == "" {
		next = "/dashboard/"
	}
	h.seeOther(w, r, next)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Destroy(r.Context(), w, session.FromContext(r.Context())); err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/")
}

func (h *AuthHandler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	h.render(w, r, http.StatusOK, "account.html", &templateData{
		Profile: forms.Profile{Username: user.Username, Email: user.Email},
	})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var in forms.Profile
	errs := forms.Bind(r.PostForm, &in)
	if errs.Any() {
		h.render(w, r, http.StatusOK, "account.html", &templateData{Profile: in, Errors: errs})
		return
	}

	_, err := h.Service.UpdateProfile(r.Context(), *user, in.Username, in.Email)
	if errors.Is(err, models.ErrDuplicateUsername) {
		errs.Add("username", msgDuplicateUsername)
		h.render(w, r, http.StatusOK, "account.html", &templateData{Profile: in, Errors: errs})
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/dashboard/")
}

// DeleteAccount removes the user with everything they own and logs them out.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := CurrentUser(ctx)

	props, err := h.Properties.ListByOwner(ctx, user.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	for _, p := range props {
		if err := h.Properties.Delete(ctx, p.ID, user.ID); err != nil {
			h.serverError(w, err)
			return
		}
	}
	if err := h.Service.DeleteUser(ctx, user.ID); err != nil {
		h.serverError(w, err)
		return
	}
	if err := h.Sessions.Destroy(ctx, w, session.FromContext(ctx)); err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/")
}

// login binds the session to user under a fresh session id.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, user models.User) error {
	sess := session.FromContext(r.Context())
	if err := h.Sessions.Rotate(r.Context(), sess); err != nil {
		return err
	}
	sess.SetUser(user.ID)
	return h.saveSession(w, r, sess)
}
