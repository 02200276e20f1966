package blog

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comments is the comment repository.
type Comments interface {
	ListAll(ctx context.Context) ([]Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]CommentWithAuthor, error)
	Create(ctx context.Context, comment *Comment) error
	Update(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type comments struct {
	db *bun.DB
}

var _ Comments = (*comments)(nil)

// NewCommentsRepository creates a new comment repository.
func NewCommentsRepository(db *bun.DB) Comments {
	return &comments{db: db}
}

func (r *comments) ListAll(ctx context.Context) ([]Comment, error) {
	records := []Comment{}
	err := r.db.NewSelect().
		Model(&records).
		Order("cmt.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListByPost returns the post's comments joined with the commenter's
// username, newest first.
func (r *comments) ListByPost(ctx context.Context, postID uuid.UUID) ([]CommentWithAuthor, error) {
	rows := []CommentWithAuthor{}
	err := r.db.NewSelect().
		Model((*Comment)(nil)).
		ColumnExpr("cmt.id, cmt.content").
		ColumnExpr("cmt.created_at AS date").
		ColumnExpr("usr.id AS user_id").
		ColumnExpr("usr.username AS user").
		Join("LEFT JOIN users AS usr ON usr.id = cmt.user_id").
		Where("cmt.post_id = ?", postID).
		Order("cmt.created_at DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *comments) Create(ctx context.Context, comment *Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(comment).
		Exec(ctx)
	return err
}

func (r *comments) Update(ctx context.Context, id uuid.UUID, content string) error {
	res, err := r.db.NewUpdate().
		Model((*Comment)(nil)).
		Set("content = ?", content).
		Set("updated_at = ?", time.Now()).
		Where("cmt.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"comment_id": id.String(),
			})
	}

	return nil
}

func (r *comments) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Comment)(nil)).
		Where("cmt.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"comment_id": id.String(),
			})
	}

	return nil
}
