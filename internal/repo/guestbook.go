package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/guestbook/internal/metrics"
	"github.com/crucial707/guestbook/internal/models"
	"github.com/lib/pq"
)

// ErrUserNotFound is returned when a guestbook update points at a user id
// that does not exist.
var ErrUserNotFound = errors.New("User with this id is not found")

// ========================
// REPOSITORY STRUCT
// ========================

type GuestbookRepo struct {
	DB *sql.DB
}

func NewGuestbookRepo(db *sql.DB) *GuestbookRepo {
	return &GuestbookRepo{DB: db}
}

// ========================
// CREATE GUESTBOOK
// ========================

// Create inserts the guestbook as given. userID is not checked against users,
// so a guestbook may be created for a user that does not exist.
func (r *GuestbookRepo) Create(ctx context.Context, message string, userID int) (models.Guestbook, error) {
	var g models.Guestbook
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO guestbooks (message, user_id)
		 VALUES ($1, $2)
		 RETURNING id, message, user_id`,
		message, userID,
	).Scan(&g.ID, &g.Message, &g.UserID)
	return g, err
}

// ========================
// LIST BY USER
// ========================

func (r *GuestbookRepo) ListByUser(ctx context.Context, userID int) ([]models.Guestbook, error) {
	return listGuestbooksByUser(ctx, r.DB, userID)
}

func listGuestbooksByUser(ctx context.Context, db *sql.DB, userID int) ([]models.Guestbook, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, message, user_id FROM guestbooks WHERE user_id = $1",
		userID,
	)
	if err != nil {
		return nil, err
	}
	return scanGuestbooks(rows)
}

// ========================
// LIST ALL WITH USERNAME
// ========================

// ListWithUsername loads every guestbook, then the referenced users in one
// batch, and joins them in memory. Guestbook order is kept. A guestbook whose
// user is missing gets models.UsernameNotFound instead of an error.
func (r *GuestbookRepo) ListWithUsername(ctx context.Context) ([]models.GuestbookWithUsername, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, message, user_id FROM guestbooks")
	if err != nil {
		return nil, err
	}
	guestbooks, err := scanGuestbooks(rows)
	if err != nil {
		return nil, err
	}

	out := make([]models.GuestbookWithUsername, 0, len(guestbooks))
	if len(guestbooks) == 0 {
		return out, nil
	}

	usernames, err := r.usernamesByID(ctx, distinctUserIDs(guestbooks))
	if err != nil {
		return nil, err
	}

	for _, g := range guestbooks {
		username, ok := usernames[g.UserID]
		if !ok {
			username = models.UsernameNotFound
			metrics.IncUsernameFallbacks()
		}
		out = append(out, models.GuestbookWithUsername{
			ID:       g.ID,
			Message:  g.Message,
			UserID:   g.UserID,
			Username: username,
		})
	}
	return out, nil
}

func distinctUserIDs(guestbooks []models.Guestbook) []int64 {
	seen := make(map[int]bool, len(guestbooks))
	ids := make([]int64, 0, len(guestbooks))
	for _, g := range guestbooks {
		if seen[g.UserID] {
			continue
		}
		seen[g.UserID] = true
		ids = append(ids, int64(g.UserID))
	}
	return ids
}

func (r *GuestbookRepo) usernamesByID(ctx context.Context, ids []int64) (map[int]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, username, email FROM users WHERE id = ANY($1)",
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usernames := make(map[int]string, len(ids))
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		usernames[u.ID] = u.Username
	}
	return usernames, rows.Err()
}

// ========================
// GET WITH USERNAME
// ========================

// GetWithUsername fails with sql.ErrNoRows when either the guestbook or its
// user is missing.
func (r *GuestbookRepo) GetWithUsername(ctx context.Context, id int) (models.GuestbookWithUsername, error) {
	var g models.GuestbookWithUsername
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, message, user_id
		 FROM guestbooks
		 WHERE id = $1
		 LIMIT 1`,
		id,
	).Scan(&g.ID, &g.Message, &g.UserID)
	if err != nil {
		return g, err
	}

	err = r.DB.QueryRowContext(ctx,
		`SELECT username
		 FROM users
		 WHERE id = $1
		 LIMIT 1`,
		g.UserID,
	).Scan(&g.Username)
	return g, err
}

// ========================
// UPDATE GUESTBOOK
// ========================

// Update re-parents and rewrites a guestbook. The target user must exist,
// otherwise ErrUserNotFound is returned and nothing is written. The check and
// the update are separate statements.
func (r *GuestbookRepo) Update(ctx context.Context, id int, message string, userID int) (models.Guestbook, error) {
	var g models.Guestbook

	var found int
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE id = $1", userID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrUserNotFound
	}
	if err != nil {
		return g, err
	}

	err = r.DB.QueryRowContext(ctx,
		`UPDATE guestbooks
		 SET message = $1, user_id = $2
		 WHERE id = $3
		 RETURNING id, message, user_id`,
		message, userID, id,
	).Scan(&g.ID, &g.Message, &g.UserID)
	return g, err
}

// ========================
// DELETE GUESTBOOK
// ========================

func (r *GuestbookRepo) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM guestbooks WHERE id = $1", id)
	return err
}

func scanGuestbooks(rows *sql.Rows) ([]models.Guestbook, error) {
	defer rows.Close()

	guestbooks := []models.Guestbook{}
	for rows.Next() {
		var g models.Guestbook
		if err := rows.Scan(&g.ID, &g.Message, &g.UserID); err != nil {
			return nil, err
		}
		guestbooks = append(guestbooks, g)
	}
	return guestbooks, rows.Err()
}
