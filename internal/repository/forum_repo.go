package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"gurukul/internal/model"
)

type ForumRepository interface {
	ListPosts(ctx context.Context, category string, limit, offset int) ([]model.ForumPost, error)
	CreatePost(ctx context.Context, p *model.ForumPost) error
	GetPostByID(ctx context.Context, id string) (*model.ForumPost, error)
	GetReplies(ctx context.Context, postID string) ([]model.ForumReply, error)
	// CreateReply inserts the reply and bumps the post's reply counter in one transaction
	CreateReply(ctx context.Context, reply *model.ForumReply) error
	// LikePost returns false when the post does not exist
	LikePost(ctx context.Context, id string) (bool, error)
}

type forumRepo struct {
	db *sql.DB
}

func NewForumRepo(db *sql.DB) ForumRepository {
	return &forumRepo{db: db}
}

var postSelect = []string{
	"p.id", "p.author_id", "COALESCE(u.first_name || ' ' || u.last_name, '')", "p.title", "p.content",
	"p.category", "p.likes_count", "p.replies_count", "p.is_pinned", "p.created_at", "p.updated_at",
}

func scanPost(row interface{ Scan(...any) error }, p *model.ForumPost) error {
	return row.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Content, &p.Category, &p.LikesCount,
		&p.RepliesCount, &p.IsPinned, &p.CreatedAt, &p.UpdatedAt)
}

// ListPosts returns pinned posts first, then newest first
func (r *forumRepo) ListPosts(ctx context.Context, category string, limit, offset int) ([]model.ForumPost, error) {
	b := psql.Select(postSelect...).
		From("forum_posts p").
		LeftJoin("users u ON u.id = p.author_id")
	if category != "" {
		b = b.Where(sq.Eq{"p.category": category})
	}
	query, args, err := b.OrderBy("p.is_pinned DESC", "p.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.ForumPost{}
	for rows.Next() {
		var p model.ForumPost
		if err := scanPost(rows, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *forumRepo) CreatePost(ctx context.Context, p *model.ForumPost) error {
	query := `
		INSERT INTO forum_posts (author_id, title, content, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, likes_count, replies_count, is_pinned, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, p.AuthorID, p.Title, p.Content, p.Category).
		Scan(&p.ID, &p.LikesCount, &p.RepliesCount, &p.IsPinned, &p.CreatedAt, &p.UpdatedAt)
}

func (r *forumRepo) GetPostByID(ctx context.Context, id string) (*model.ForumPost, error) {
	query, args, err := psql.Select(postSelect...).
		From("forum_posts p").
		LeftJoin("users u ON u.id = p.author_id").
		Where(sq.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var p model.ForumPost
	if err := scanPost(r.db.QueryRowContext(ctx, query, args...), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *forumRepo) GetReplies(ctx context.Context, postID string) ([]model.ForumReply, error) {
	query := `
		SELECT r.id, r.post_id, r.author_id, COALESCE(u.first_name || ' ' || u.last_name, ''), r.content,
		       r.likes_count, r.created_at
		FROM forum_replies r
		LEFT JOIN users u ON u.id = r.author_id
		WHERE r.post_id = $1
		ORDER BY r.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []model.ForumReply{}
	for rows.Next() {
		var reply model.ForumReply
		if err := rows.Scan(&reply.ID, &reply.PostID, &reply.AuthorID, &reply.AuthorName, &reply.Content,
			&reply.LikesCount, &reply.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

func (r *forumRepo) CreateReply(ctx context.Context, reply *model.ForumReply) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO forum_replies (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, likes_count, created_at
	`
	if err := tx.QueryRowContext(ctx, query, reply.PostID, reply.AuthorID, reply.Content).
		Scan(&reply.ID, &reply.LikesCount, &reply.CreatedAt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE forum_posts SET replies_count = replies_count + 1, updated_at = NOW() WHERE id = $1`,
		reply.PostID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *forumRepo) LikePost(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE forum_posts SET likes_count = likes_count + 1 WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
