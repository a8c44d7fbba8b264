package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/csrf"

	"rentalsBack/internal/forms"
	"rentalsBack/internal/models"
	"rentalsBack/internal/session"
)

// Views holds what every page handler needs to render and to reach the session.
type Views struct {
	Templates Templates
	Sessions  *session.Manager
	ErrorLog  *log.Logger
}

type templateData struct {
	CurrentUser   *models.User
	CSRFField     template.HTML
	Errors        forms.Errors
	Next          string
	Search        forms.Search
	Registration  forms.Registration
	Login         forms.Login
	Profile       forms.Profile
	PropertyInput forms.PropertyInput
	Contact       forms.Contact
	Property      models.Property
	Properties    []models.Property
	Favorites     []models.Favorite
	Messages      []models.Message
	Unread        int
	Saved         bool
}

func (v *Views) render(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	ts, ok := v.Templates[page]
	if !ok {
		v.serverError(w, fmt.Errorf("the template %s does not exist", page))
		return
	}
	data.CurrentUser = CurrentUser(r.Context())
	data.CSRFField = csrf.TemplateField(r)

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		v.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// saveSession writes the request's session back if it changed.
func (v *Views) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	return v.Sessions.Save(r.Context(), w, sess)
}

func (v *Views) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	if v.ErrorLog != nil {
		v.ErrorLog.Output(2, trace)
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (v *Views) notFound(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func (v *Views) seeOther(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
