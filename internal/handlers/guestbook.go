package handlers

import (
	"net/http"

	"github.com/crucial707/guestbook/internal/repo"
)

// GuestbookHandler serves /guestbooks and /users/{user_id}/guestbooks.
type GuestbookHandler struct {
	Repo *repo.GuestbookRepo
}

type guestbookInput struct {
	Message *string `json:"message"`
	UserID  *int32  `json:"user_id"`
}

func decodeGuestbookInput(r *http.Request) (guestbookInput, error) {
	var in guestbookInput
	if err := decodeBody(r, &in); err != nil {
		return in, err
	}
	if in.Message == nil {
		return in, errMissingField("message")
	}
	if in.UserID == nil {
		return in, errMissingField("user_id")
	}
	return in, nil
}

func (h *GuestbookHandler) CreateGuestbook(w http.ResponseWriter, r *http.Request) {
	input, err := decodeGuestbookInput(r)
	if err != nil {
		BodyError(w, err)
		return
	}

	g, err := h.Repo.Create(r.Context(), *input.Message, int(*input.UserID))
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, g)
}

// ListGuestbooks returns every guestbook with its owner's username, or
// "Not found" when the owner is gone.
func (h *GuestbookHandler) ListGuestbooks(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.ListWithUsername(r.Context())
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, list)
}

func (h *GuestbookHandler) ListGuestbooksByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		TextError(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, list)
}

// GetGuestbook fails (500) when either the guestbook or its owner is missing.
func (h *GuestbookHandler) GetGuestbook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		TextError(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.Repo.GetWithUsername(r.Context(), id)
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, g)
}

// UpdateGuestbook answers 404 when the body's user_id does not exist.
func (h *GuestbookHandler) UpdateGuestbook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		TextError(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, err := decodeGuestbookInput(r)
	if err != nil {
		BodyError(w, err)
		return
	}

	g, err := h.Repo.Update(r.Context(), id, *input.Message, int(*input.UserID))
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, g)
}

func (h *GuestbookHandler) DeleteGuestbook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		TextError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		StoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
