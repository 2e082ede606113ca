package models

// UsernameNotFound replaces the username of a guestbook whose owner no longer exists.
const UsernameNotFound = "Not found"

type Guestbook struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
}

// GuestbookWithUsername is a guestbook with its owner's username resolved.
type GuestbookWithUsername struct {
	ID       int    `json:"id"`
	Message  string `json:"message"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}
