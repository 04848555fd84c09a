package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrUserForeignKey = errors.New("author does not exist")
	ErrAuthorUpdate   = errors.New("failed to update total posts")
)

type blogStore interface {
	publish(ctx context.Context, b *Blog) error
	latest(ctx context.Context, limit int) ([]BlogSummary, error)
}

func NewBlogModel(db *sql.DB, authors AuthorCounter) *BlogModel {
	return &BlogModel{db: db, authors: authors}
}

// publish stores the blog and updates the author's post counter and blog list in one transaction.
// Drafts are appended to the author's list without touching the counter.
func (m *BlogModel) publish(ctx context.Context, b *Blog) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.insert(ctx, tx, b); err != nil {
		return err
	}

	delta := 1
	if b.Draft {
		delta = 0
	}

	if _, err := m.authors.IncrementPostCount(ctx, tx, b.Author, b.ID, delta); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthorUpdate, err)
	}

	return tx.Commit()
}

func (m *BlogModel) insert(ctx context.Context, tx *sql.Tx, b *Blog) error {
	query := `
		INSERT INTO blogs (blog_id, title, banner, des, content, tags, author, draft, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING total_likes, total_comments, total_reads, total_parent_comments`

	if b.Tags == nil {
		b.Tags = []string{}
	}

	args := []any{b.ID, b.Title, b.Banner, b.Des, b.Content, pq.Array(b.Tags), b.Author, b.Draft, b.PublishedAt}

	err := tx.QueryRowContext(ctx, query, args...).Scan(
		&b.Activity.TotalLikes,
		&b.Activity.TotalComments,
		&b.Activity.TotalReads,
		&b.Activity.TotalParentComments,
	)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "blogs_author_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// latest returns the newest published blogs joined with their author's public profile.
func (m *BlogModel) latest(ctx context.Context, limit int) ([]BlogSummary, error) {
	query := `
		SELECT b.blog_id, b.title, b.des, b.banner, b.total_likes, b.total_comments, b.total_reads,
			b.total_parent_comments, b.tags, b.published_at, u.profile_img, u.username, u.fullname
		FROM blogs b
		JOIN users u ON b.author = u.id
		WHERE b.draft = false
		ORDER BY b.published_at DESC
		LIMIT $1`

	rows, err := m.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []BlogSummary{}
	for rows.Next() {
		var b BlogSummary
		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Des,
			&b.Banner,
			&b.Activity.TotalLikes,
			&b.Activity.TotalComments,
			&b.Activity.TotalReads,
			&b.Activity.TotalParentComments,
			pq.Array(&b.Tags),
			&b.PublishedAt,
			&b.Author.PersonalInfo.ProfileImg,
			&b.Author.PersonalInfo.Username,
			&b.Author.PersonalInfo.Fullname,
		)
		if err != nil {
			return nil, err
		}

		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}
