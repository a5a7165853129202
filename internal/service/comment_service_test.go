package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
)

func newCommentFixture(t *testing.T) (*CommentService, *domain.Ticket, *domain.Ticket) {
	t.Helper()
	tickets := newFakeTicketRepo()
	svc := NewCommentService(CommentDependencies{
		CommentRepo: newFakeCommentRepo(),
		TicketRepo:  tickets,
		Dispatcher:  events.NewInMemoryDispatcher(),
	})

	ticketSvc := NewTicketService(TicketDependencies{
		TicketRepo: tickets,
		FileStore:  newFakeFileStore(),
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
	first, err := ticketSvc.CreateTicket(context.Background(), TicketCreateInput{
		IssuerIDNumber: "1", IssuerFullName: "Sara", Title: "first",
	})
	require.NoError(t, err)
	second, err := ticketSvc.CreateTicket(context.Background(), TicketCreateInput{
		IssuerIDNumber: "2", IssuerFullName: "Omid", Title: "second",
	})
	require.NoError(t, err)
	return svc, first, second
}

func TestPostCommentDefaultsToCitizen(t *testing.T) {
	svc, ticket, _ := newCommentFixture(t)

	comment, err := svc.PostComment(context.Background(), CommentCreateInput{
		TicketID:   ticket.ID,
		AuthorName: "Sara",
		Content:    "  any update?  ",
		IsPublic:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CommentAuthorCitizen, comment.AuthorType)
	assert.Equal(t, "any update?", comment.Content)
	assert.Nil(t, comment.ParentID)
	assert.NotZero(t, comment.ID)
}

func TestPostCommentValidation(t *testing.T) {
	svc, ticket, _ := newCommentFixture(t)

	_, err := svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: ticket.ID, AuthorName: "Sara", Content: "   ",
	})
	requireDomainErrorCode(t, err, "VALIDATION_FAILED")

	_, err = svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: ticket.ID, Content: "hello",
	})
	requireDomainErrorCode(t, err, "VALIDATION_FAILED")

	_, err = svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: 999, AuthorName: "Sara", Content: "hello",
	})
	requireDomainErrorCode(t, err, "NOT_FOUND")
}

func TestPostCommentParentChecks(t *testing.T) {
	svc, first, second := newCommentFixture(t)

	missing := int64(404)
	_, err := svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: first.ID, ParentID: &missing, AuthorName: "Sara", Content: "re",
	})
	requireDomainErrorCode(t, err, "VALIDATION_FAILED")

	parent, err := svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: first.ID, AuthorName: "Sara", Content: "root", IsPublic: true,
	})
	require.NoError(t, err)

	// A reply must land on the same ticket as its parent.
	_, err = svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: second.ID, ParentID: &parent.ID, AuthorName: "Omid", Content: "re",
	})
	requireDomainErrorCode(t, err, "VALIDATION_FAILED")

	reply, err := svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: first.ID, ParentID: &parent.ID, AuthorName: "Omid", Content: "re", IsPublic: true,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
}

func TestListCommentsVisibility(t *testing.T) {
	svc, ticket, _ := newCommentFixture(t)

	_, err := svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: ticket.ID, AuthorName: "Sara", Content: "public one", IsPublic: true,
	})
	require.NoError(t, err)
	_, err = svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: ticket.ID, AuthorName: "Agent", AuthorType: domain.CommentAuthorAdmin,
		Content: "internal note", IsPublic: false,
	})
	require.NoError(t, err)
	_, err = svc.PostComment(context.Background(), CommentCreateInput{
		TicketID: ticket.ID, AuthorName: "Agent", AuthorType: domain.CommentAuthorAdmin,
		Content: "public reply", IsPublic: true,
	})
	require.NoError(t, err)

	public, err := svc.ListComments(context.Background(), ticket.ID, ViewModePublic)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "public one", public[0].Content)
	assert.Equal(t, "public reply", public[1].Content)

	staff, err := svc.ListComments(context.Background(), ticket.ID, ViewModeStaff)
	require.NoError(t, err)
	assert.Len(t, staff, 3)

	// Unknown modes degrade to the public view.
	fallback, err := svc.ListComments(context.Background(), ticket.ID, ViewMode("internal"))
	require.NoError(t, err)
	assert.Len(t, fallback, 2)

	_, err = svc.ListComments(context.Background(), 999, ViewModePublic)
	requireDomainErrorCode(t, err, "NOT_FOUND")
}
