package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/crucial707/guestbook/internal/repo"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// errMissingField is returned by userInput.validate and decodeGuestbookInput
// for an absent required field.
type errMissingField string

func (e errMissingField) Error() string {
	return fmt.Sprintf("missing field `%s`", string(e))
}

// TextError sends message verbatim as a plain-text body with the given status.
// Unlike http.Error no trailing newline is appended.
func TextError(w http.ResponseWriter, message string, status int) {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, message)
}

// StoreError maps a repo error to a response: repo.ErrUserNotFound is 404,
// anything else is 500 with the error text as body.
func StoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repo.ErrUserNotFound) {
		TextError(w, err.Error(), http.StatusNotFound)
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("store operation failed")
	TextError(w, err.Error(), http.StatusInternalServerError)
}

// BodyError maps a decodeBody error to 400, 413 or 422.
func BodyError(w http.ResponseWriter, err error) {
	var (
		missing  errMissingField
		typeErr  *json.UnmarshalTypeError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		TextError(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.As(err, &missing), errors.As(err, &typeErr):
		TextError(w, "invalid body: "+err.Error(), http.StatusUnprocessableEntity)
	default:
		TextError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
	}
}

// pathID parses an integer URL parameter. Ids are 32-bit in the schema.
func pathID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return int(id), nil
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return io.ErrUnexpectedEOF
	}
	return json.NewDecoder(r.Body).Decode(v)
}
