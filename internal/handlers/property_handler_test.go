package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"rentalsBack/internal/models"
	"rentalsBack/internal/repositories"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newPropertyHandler(env *testEnv) *PropertyHandler {
	return &PropertyHandler{Views: env.views, Service: env.properties, Messages: env.messages, MaxUploadBytes: 1 << 20}
}

func propertyForm() url.Values {
	return url.Values{
		"title":         {"Garden Room"},
		"location":      {"Riverside"},
		"price":         {"650.50"},
		"property_type": {"room"},
		"description":   {"Quiet and bright"},
		"is_available":  {"on"},
		"contact_email": {"owner@example.com"},
	}
}

type upload struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, target string, form url.Values, files []upload, user *models.User) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			mw.WriteField(key, v)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(f.data)
	}
	mw.Close()

	ctx := request(http.MethodPost, target, nil, user, nil).Context()
	r := httptest.NewRequest(http.MethodPost, target, &body).WithContext(ctx)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestCreateProperty(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "alice")
	h := newPropertyHandler(env)

	files := []upload{
		{"image", "main.png", pngHeader},
		{"images", "a.png", pngHeader},
		{"images", "b.png", pngHeader},
	}
	rr := httptest.NewRecorder()
	h.Create(rr, multipartRequest(t, "/property/create/", propertyForm(), files, &owner))
	assertRedirect(t, rr, "/dashboard/")

	props, err := env.properties.ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(props) != 1 {
		t.Fatalf("expected one property, got %d", len(props))
	}
	p, err := env.properties.Get(context.Background(), props[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Title != "Garden Room" || p.Price.StringFixed(2) != "650.50" || !p.IsAvailable {
		t.Fatalf("unexpected property: %+v", p)
	}
	if p.Image == nil || len(p.Images) != 2 {
		t.Fatalf("expected primary and two gallery images, got %v and %d", p.Image, len(p.Images))
	}
}

func TestCreatePropertyRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "alice")
	h := newPropertyHandler(env)

	tests := []struct {
		name  string
		form  func() url.Values
		files []upload
		want  string
	}{
		{"non numeric price", func() url.Values { f := propertyForm(); f.Set("price", "abc"); return f }, nil, "Enter a number."},
		{"too many decimals", func() url.Values { f := propertyForm(); f.Set("price", "10.123"); return f }, nil, "no more than 2 decimal places"},
		{"unknown type", func() url.Values { f := propertyForm(); f.Set("property_type", "castle"); return f }, nil, "Select a valid choice."},
		{"not an image", propertyForm, []upload{{"image", "notes.txt", []byte("plain text")}}, "Upload a valid image."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Create(rr, multipartRequest(t, "/property/create/", tt.form(), tt.files, &owner))

			assertStatus(t, rr, http.StatusOK)
			if !strings.Contains(rr.Body.String(), tt.want) {
				t.Fatalf("expected %q in body", tt.want)
			}
			props, _ := env.properties.ListByOwner(context.Background(), owner.ID)
			if len(props) != 0 {
				t.Fatalf("nothing may be stored for an invalid form")
			}
		})
	}
}

func TestEditProperty(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "alice")
	other := env.owner(t, "bob")
	p := env.property(t, owner.ID, "Old Title", "room", "300.00", true)
	h := newPropertyHandler(env)

	rr := httptest.NewRecorder()
	h.EditForm(rr, withID(request(http.MethodGet, "/property/x/edit/", nil, &other, nil), p.ID))
	assertStatus(t, rr, http.StatusNotFound)

	rr = httptest.NewRecorder()
	h.Edit(rr, withID(request(http.MethodPost, "/property/x/edit/", propertyForm(), &other, nil), p.ID))
	assertStatus(t, rr, http.StatusNotFound)

	rr = httptest.NewRecorder()
	h.EditForm(rr, withID(request(http.MethodGet, "/property/x/edit/", nil, &owner, nil), p.ID))
	assertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `value="300.00"`) {
		t.Fatalf("expected the stored price in the form")
	}

	form := propertyForm()
	form.Del("is_available")
	rr = httptest.NewRecorder()
	h.Edit(rr, withID(request(http.MethodPost, "/property/x/edit/", form, &owner, nil), p.ID))
	assertRedirect(t, rr, "/dashboard/")

	updated, err := env.properties.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if updated.Title != "Garden Room" || updated.IsAvailable {
		t.Fatalf("edit not applied: %+v", updated)
	}
}

func TestDeleteProperty(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "alice")
	other := env.owner(t, "bob")
	p := env.property(t, owner.ID, "Loft", "house", "900.00", true)
	h := newPropertyHandler(env)

	rr := httptest.NewRecorder()
	h.DeleteConfirm(rr, withID(request(http.MethodGet, "/property/x/delete/", nil, &owner, nil), p.ID))
	assertStatus(t, rr, http.StatusOK)

	rr = httptest.NewRecorder()
	h.Delete(rr, withID(request(http.MethodPost, "/property/x/delete/", url.Values{}, &other, nil), p.ID))
	assertStatus(t, rr, http.StatusNotFound)

	rr = httptest.NewRecorder()
	h.Delete(rr, withID(request(http.MethodPost, "/property/x/delete/", url.Values{}, &owner, nil), p.ID))
	assertRedirect(t, rr, "/dashboard/")

	if _, err := env.properties.Get(context.Background(), p.ID); !errors.Is(err, repositories.ErrPropertyNotFound) {
		t.Fatalf("expected the property to be deleted, got %v", err)
	}
}

func TestDashboardListsOwnProperties(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "alice")
	other := env.owner(t, "bob")
	env.property(t, owner.ID, "Mine", "room", "300.00", false)
	env.property(t, other.ID, "Theirs", "room", "300.00", true)
	h := newPropertyHandler(env)

	rr := httptest.NewRecorder()
	h.Dashboard(rr, request(http.MethodGet, "/dashboard/", nil, &owner, nil))
	assertStatus(t, rr, http.StatusOK)
	body := rr.Body.String()
	if !strings.Contains(body, "Mine") || strings.Contains(body, "Theirs") {
		t.Fatalf("dashboard must list only the owner's properties")
	}
}
