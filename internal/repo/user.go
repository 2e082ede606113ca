package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/guestbook/internal/metrics"
	"github.com/crucial707/guestbook/internal/models"
)

// guestbookCountQuery tallies guestbooks per user. The LEFT JOIN keeps users
// without any guestbook in the result with a count of zero.
const guestbookCountQuery = `
	SELECT users.id, users.username, COUNT(guestbooks.id) AS guestbook_count
	FROM users
	LEFT JOIN guestbooks ON users.id = guestbooks.user_id
	GROUP BY users.id
	ORDER BY guestbook_count DESC
`

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, email string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email)
		VALUES ($1, $2)
		RETURNING id, username, email
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username, email).
		Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, email
		FROM users
		WHERE id = $1
		LIMIT 1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get With Guestbooks
// ==========================

// GetWithGuestbooks loads the user and then all of its guestbooks. A missing
// user is an error (sql.ErrNoRows); a user without guestbooks is not.
func (r *UserRepo) GetWithGuestbooks(ctx context.Context, id int) (*models.UserWithGuestbooks, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	guestbooks, err := listGuestbooksByUser(ctx, r.DB, id)
	if err != nil {
		return nil, err
	}

	return &models.UserWithGuestbooks{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Guestbooks: guestbooks,
	}, nil
}

// ==========================
// Update User
// ==========================
func (r *UserRepo) Update(ctx context.Context, id int, username, email string) (*models.User, error) {
	query := `
		UPDATE users
		SET username = $1, email = $2
		WHERE id = $3
		RETURNING id, username, email
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username, email, id).
		Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Delete User
// ==========================

// Delete removes the user's guestbooks and then the user itself. The two
// statements are not wrapped in a transaction: if the second fails the
// guestbooks stay deleted. Deleting an unknown id is not an error.
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM guestbooks WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil {
		metrics.AddCascadeDeleted(n)
	}

	if _, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return err
	}

	return nil
}

// ==========================
// List With Guestbook Counts
// ==========================

// ListWithGuestbookCounts returns every user with its guestbook count, highest
// count first. Order among equal counts is whatever the database returns.
func (r *UserRepo) ListWithGuestbookCounts(ctx context.Context) ([]models.UserWithGuestbookCount, error) {
	return r.queryCounts(ctx, guestbookCountQuery)
}

// ==========================
// Most Guestbooks
// ==========================

// MostGuestbooks returns the head of ListWithGuestbookCounts as a one-element
// slice, or an empty slice when there are no users.
func (r *UserRepo) MostGuestbooks(ctx context.Context) ([]models.UserWithGuestbookCount, error) {
	return r.queryCounts(ctx, guestbookCountQuery+"LIMIT 1")
}

func (r *UserRepo) queryCounts(ctx context.Context, query string) ([]models.UserWithGuestbookCount, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []models.UserWithGuestbookCount{}
	for rows.Next() {
		var c models.UserWithGuestbookCount
		if err := rows.Scan(&c.ID, &c.Username, &c.GuestbookCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
