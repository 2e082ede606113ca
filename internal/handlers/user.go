package handlers

import (
	"net/http"

	"github.com/crucial707/guestbook/internal/repo"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Repo *repo.UserRepo
}

type userInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (in userInput) validate() error {
	if in.Username == nil {
		return errMissingField("username")
	}
	if in.Email == nil {
		return errMissingField("email")
	}
	return nil
}

func decodeUserInput(r *http.Request) (userInput, error) {
	var in userInput
	if err := decodeBody(r, &in); err != nil {
		return in, err
	}
	return in, in.validate()
}

// ==========================
// Create User
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	input, err := decodeUserInput(r)
	if err != nil {
		BodyError(w, err)
		return
	}

	user, err := h.Repo.Create(r.Context(), *input.Username, *input.Email)
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, user)
}

// ==========================
// List Users With Guestbook Counts
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Repo.ListWithGuestbookCounts(r.Context())
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, counts)
}

// ==========================
// User With Most Guestbooks
// ==========================
func (h *UserHandler) MostGuestbooks(w http.ResponseWriter, r *http.Request) {
	most, err := h.Repo.MostGuestbooks(r.Context())
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, most)
}

// ==========================
// Get User With Guestbooks
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		TextError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Repo.GetWithGuestbooks(r.Context(), id)
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, user)
}

// ==========================
// Update User
// ==========================
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		TextError(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, err := decodeUserInput(r)
	if err != nil {
		BodyError(w, err)
		return
	}

	user, err := h.Repo.Update(r.Context(), id, *input.Username, *input.Email)
	if err != nil {
		StoreError(w, r, err)
		return
	}

	writeJSON(w, user)
}

// ==========================
// Delete User
// ==========================

// DeleteUser removes the user's guestbooks, then the user. Unknown ids succeed.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
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
