package handlers

import (
	"errors"
	"net/http"

	"rentalsBack/internal/notify"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/services"
)

type MessageHandler struct {
	*Views
	Service *services.MessageService
	Hub     *notify.Hub
}

func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	messages, unread, err := h.Service.Inbox(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, "inbox.html", &templateData{Messages: messages, Unread: unread})
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w)
		return
	}
	err := h.Service.MarkRead(r.Context(), id, user.ID)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.seeOther(w, r, "/dashboard/messages/")
}

// InboxWS upgrades to the owner's live notification stream.
func (h *MessageHandler) InboxWS(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	h.Hub.ServeWS(w, r, user.ID)
}
