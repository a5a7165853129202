package domain

import "time"

// CommentAuthorType tags who wrote a comment.
type CommentAuthorType string

const (
	CommentAuthorCitizen CommentAuthorType = "citizen"
	CommentAuthorAdmin   CommentAuthorType = "admin"
)

// Comment is a message attached to a ticket, optionally replying to
// another comment on the same ticket.
type Comment struct {
	ID           int64
	TicketID     int64
	ParentID     *int64
	AuthorName   string
	AuthorType   CommentAuthorType
	AuthorAvatar *string
	Content      string
	IsPublic     bool
	CreatedAt    time.Time
}

// IsReply reports whether the comment has a parent.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// Thread is the display form of a flat comment list: top-level comments in
// creation order plus an index from parent id to its direct replies, also in
// creation order.
type Thread struct {
	TopLevel []Comment
	Replies  map[int64][]Comment
}

// OrganizeThread partitions a flat, creation-ordered comment list for
// rendering. Replies to replies stay keyed by their immediate parent;
// callers that want deeper nesting resolve the chain through Replies.
func OrganizeThread(comments []Comment) Thread {
	thread := Thread{
		TopLevel: make([]Comment, 0, len(comments)),
		Replies:  make(map[int64][]Comment),
	}
	for _, c := range comments {
		if c.ParentID == nil {
			thread.TopLevel = append(thread.TopLevel, c)
			continue
		}
		thread.Replies[*c.ParentID] = append(thread.Replies[*c.ParentID], c)
	}
	return thread
}
