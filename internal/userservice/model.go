package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrNotFound          = errors.New("user not found")
)

// userStore is the part of the credential store the auth flows depend on.
type userStore interface {
	insert(ctx context.Context, u *User) error
	getByEmail(ctx context.Context, email string) (*User, error)
	existsByUsername(ctx context.Context, username string) (bool, error)
}

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, fullname, email, password, username, profile_img, google_auth)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING joined_at`

	args := []any{
		u.ID,
		u.PersonalInfo.Fullname,
		u.PersonalInfo.Email,
		u.PersonalInfo.Password.value(),
		u.PersonalInfo.Username,
		u.PersonalInfo.ProfileImg,
		u.GoogleAuth,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.JoinedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, fullname, email, password, username, bio, profile_img, google_auth, total_posts, total_reads, blogs, joined_at
		FROM users
		WHERE email = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID,
		&u.PersonalInfo.Fullname,
		&u.PersonalInfo.Email,
		&u.PersonalInfo.Password.hash,
		&u.PersonalInfo.Username,
		&u.PersonalInfo.Bio,
		&u.PersonalInfo.ProfileImg,
		&u.GoogleAuth,
		&u.AccountInfo.TotalPosts,
		&u.AccountInfo.TotalReads,
		pq.Array(&u.Blogs),
		&u.JoinedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) existsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := m.db.QueryRowContext(ctx, query, username).Scan(&exists)
	return exists, err
}

// IncrementPostCount adds delta to the author's published post counter and appends blogID to the
// author's blog list inside tx. It returns the new post count.
func (m *UserModel) IncrementPostCount(ctx context.Context, tx *sql.Tx, userID uuid.UUID, blogID string, delta int) (int, error) {
	query := `
		UPDATE users
		SET total_posts = total_posts + $1, blogs = array_append(blogs, $2)
		WHERE id = $3
		RETURNING total_posts`

	var total int
	err := tx.QueryRowContext(ctx, query, delta, blogID, userID).Scan(&total)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrNotFound
		default:
			return 0, err
		}
	}

	return total, nil
}
