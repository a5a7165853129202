package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// CommentRepository manages ticket comment threads.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID int64, publicOnly bool) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, parent_id, author_name, author_type, author_avatar, content, is_public)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING comment_id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.ParentID,
		comment.AuthorName,
		comment.AuthorType,
		comment.AuthorAvatar,
		comment.Content,
		comment.IsPublic,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	const query = `
        SELECT comment_id, ticket_id, parent_id, author_name, author_type, author_avatar, content, is_public, created_at
        FROM comments WHERE comment_id=$1`
	var comment domain.Comment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.ParentID,
		&comment.AuthorName,
		&comment.AuthorType,
		&comment.AuthorAvatar,
		&comment.Content,
		&comment.IsPublic,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64, publicOnly bool) ([]domain.Comment, error) {
	query := `
        SELECT comment_id, ticket_id, parent_id, author_name, author_type, author_avatar, content, is_public, created_at
        FROM comments WHERE ticket_id=$1`
	if publicOnly {
		query += ` AND is_public=TRUE`
	}
	query += ` ORDER BY created_at ASC, comment_id ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Comment{}
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.ParentID,
			&comment.AuthorName,
			&comment.AuthorType,
			&comment.AuthorAvatar,
			&comment.Content,
			&comment.IsPublic,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
