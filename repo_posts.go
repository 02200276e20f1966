package blog

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts is the post repository. Reads return the author-joined view used by
// the feed endpoints.
type Posts interface {
	ListWithAuthors(ctx context.Context) ([]PostWithAuthor, error)
	ListByAuthor(ctx context.Context, userID uuid.UUID) ([]PostWithAuthor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PostWithAuthor, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, id uuid.UUID, title, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type posts struct {
	db *bun.DB
}

var _ Posts = (*posts)(nil)

// NewPostsRepository creates a new post repository.
func NewPostsRepository(db *bun.DB) Posts {
	return &posts{db: db}
}

func (r *posts) selectWithAuthor() *bun.SelectQuery {
	return r.db.NewSelect().
		Model((*Post)(nil)).
		ColumnExpr("post.id, post.title, post.category, post.excerpt, post.content").
		ColumnExpr("usr.username AS author").
		ColumnExpr("post.created_at AS date").
		Join("LEFT JOIN users AS usr ON usr.id = post.user_id")
}

func (r *posts) ListWithAuthors(ctx context.Context) ([]PostWithAuthor, error) {
	rows := []PostWithAuthor{}
	err := r.selectWithAuthor().
		Order("post.created_at DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *posts) ListByAuthor(ctx context.Context, userID uuid.UUID) ([]PostWithAuthor, error) {
	rows := []PostWithAuthor{}
	err := r.selectWithAuthor().
		Where("post.user_id = ?", userID).
		Order("post.created_at DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *posts) GetByID(ctx context.Context, id uuid.UUID) (*PostWithAuthor, error) {
	row := &PostWithAuthor{}
	err := r.selectWithAuthor().
		Where("post.id = ?", id).
		Limit(1).
		Scan(ctx, row)
	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"post_id": id.String(),
				})
		}
		return nil, err
	}
	return row, nil
}

func (r *posts) Create(ctx context.Context, post *Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(post).
		Exec(ctx)
	return err
}

func (r *posts) Update(ctx context.Context, id uuid.UUID, title, content string) error {
	res, err := r.db.NewUpdate().
		Model((*Post)(nil)).
		Set("title = ?", title).
		Set("content = ?", content).
		Set("updated_at = ?", time.Now()).
		Where("post.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"post_id": id.String(),
			})
	}

	return nil
}

func (r *posts) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Post)(nil)).
		Where("post.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"post_id": id.String(),
			})
	}

	return nil
}
