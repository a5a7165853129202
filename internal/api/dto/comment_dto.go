package dto

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	TicketID     int64   `json:"ticket_id"`
	ParentID     *int64  `json:"parent_id"`
	AuthorName   string  `json:"author_name"`
	AuthorType   string  `json:"author_type"`
	AuthorAvatar *string `json:"author_avatar"`
	Content      string  `json:"content"`
	IsPublic     *bool   `json:"is_public"`
}

// CommentResponse is the wire form of a comment.
type CommentResponse struct {
	ID           int64     `json:"comment_id"`
	TicketID     int64     `json:"ticket_id"`
	ParentID     *int64    `json:"parent_id"`
	AuthorName   string    `json:"author_name"`
	AuthorType   string    `json:"author_type"`
	AuthorAvatar *string   `json:"author_avatar"`
	Content      string    `json:"content"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCommentResponse maps a domain comment onto the wire form.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:           comment.ID,
		TicketID:     comment.TicketID,
		ParentID:     comment.ParentID,
		AuthorName:   comment.AuthorName,
		AuthorType:   string(comment.AuthorType),
		AuthorAvatar: comment.AuthorAvatar,
		Content:      comment.Content,
		IsPublic:     comment.IsPublic,
		CreatedAt:    comment.CreatedAt,
	}
}

// NewCommentResponses maps a slice of comments.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, NewCommentResponse(&comments[i]))
	}
	return items
}

// ThreadResponse is the display-organized form of a comment list.
type ThreadResponse struct {
	TopLevel []CommentResponse           `json:"top_level"`
	Replies  map[int64][]CommentResponse `json:"replies"`
}

// NewThreadResponse maps an organized thread onto the wire form.
func NewThreadResponse(thread domain.Thread) ThreadResponse {
	replies := make(map[int64][]CommentResponse, len(thread.Replies))
	for parentID, children := range thread.Replies {
		replies[parentID] = NewCommentResponses(children)
	}
	return ThreadResponse{
		TopLevel: NewCommentResponses(thread.TopLevel),
		Replies:  replies,
	}
}
