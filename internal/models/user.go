package models

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserWithGuestbooks is a user together with every guestbook it owns.
type UserWithGuestbooks struct {
	ID         int         `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Guestbooks []Guestbook `json:"guestbooks"`
}

// UserWithGuestbookCount is one row of the per-user guestbook tally.
type UserWithGuestbookCount struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	GuestbookCount int64  `json:"guestbook_count"`
}
