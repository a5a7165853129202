package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/observability"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/internal/service"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// stubTicketRepo holds a fixed set of tickets; mutations are not needed
// by the comment endpoints under test.
type stubTicketRepo struct {
	tickets map[int64]*domain.Ticket
}

func (r *stubTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error { return nil }

func (r *stubTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return ticket, nil
}

func (r *stubTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return nil, nil
}

func (r *stubTicketRepo) ListByModuleName(ctx context.Context, moduleName string) ([]domain.Ticket, error) {
	return nil, nil
}

func (r *stubTicketRepo) SetAssignment(ctx context.Context, id, agentID int64) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) SetStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) AppendImages(ctx context.Context, id int64, uris []string) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) RemoveImage(ctx context.Context, id int64, uri string) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) IncrementVote(ctx context.Context, id int64, upvote bool) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}

type stubCommentRepo struct {
	seq      int64
	comments []domain.Comment
}

func (r *stubCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = r.seq
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *stubCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	for i := range r.comments {
		if r.comments[i].ID == id {
			comment := r.comments[i]
			return &comment, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubCommentRepo) ListByTicket(ctx context.Context, ticketID int64, publicOnly bool) ([]domain.Comment, error) {
	result := []domain.Comment{}
	for _, comment := range r.comments {
		if comment.TicketID != ticketID {
			continue
		}
		if publicOnly && !comment.IsPublic {
			continue
		}
		result = append(result, comment)
	}
	return result, nil
}

type stubAgentRepo struct {
	agent *domain.Agent
}

func (r *stubAgentRepo) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	if r.agent != nil && r.agent.ID == id {
		return r.agent, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubAgentRepo) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	if r.agent != nil && strings.EqualFold(r.agent.Email, email) {
		return r.agent, nil
	}
	return nil, pgx.ErrNoRows
}

func newCommentsApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	ticketRepo := &stubTicketRepo{tickets: map[int64]*domain.Ticket{
		1: {ID: 1, Title: "Pothole", Status: domain.TicketStatusReceived},
	}}
	commentsSvc := service.NewCommentService(service.CommentDependencies{
		CommentRepo: &stubCommentRepo{},
		TicketRepo:  ticketRepo,
		Dispatcher:  events.NewInMemoryDispatcher(),
	})

	tokens := auth.NewTokenManager("test-secret", 30)
	agentRepo := &stubAgentRepo{agent: &domain.Agent{ID: 5, Email: "a@city.gov", CanSupport: true}}
	authMiddleware := auth.NewAuthMiddleware(tokens, agentRepo)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		}
		return nil
	})
	app.Use(observability.RequestLogger(zap.NewNop(), observability.NewMetrics()))

	handler := NewCommentsHandler(commentsSvc)
	app.Post("/comments", handler.Create)
	app.Get("/comments/tickets/:id", authMiddleware.HandleOptional, handler.ListForTicket)

	token, _, err := tokens.GenerateToken(5, true)
	require.NoError(t, err)
	return app, token
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestCreateCommentEndpoint(t *testing.T) {
	app, _ := newCommentsApp(t)

	resp := postJSON(t, app, "/comments",
		`{"ticket_id":1,"author_name":"Sara","content":"any update?"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]any
	decodeBody(t, resp, &created)
	assert.Equal(t, float64(1), created["comment_id"])
	assert.Equal(t, "citizen", created["author_type"])
	assert.Equal(t, true, created["is_public"])
}

func TestCreateCommentEndpointValidation(t *testing.T) {
	app, _ := newCommentsApp(t)

	resp := postJSON(t, app, "/comments", `{"ticket_id":1,"author_name":"Sara"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/comments", `{"author_name":"Sara","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/comments", `{"ticket_id":404,"author_name":"Sara","content":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListCommentsStaffViewRequiresToken(t *testing.T) {
	app, token := newCommentsApp(t)

	resp := postJSON(t, app, "/comments",
		`{"ticket_id":1,"author_name":"Sara","content":"public","is_public":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = postJSON(t, app, "/comments",
		`{"ticket_id":1,"author_name":"Agent","author_type":"admin","content":"internal","is_public":false}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// No token: staff mode silently degrades to the public view.
	req := httptest.NewRequest(http.MethodGet, "/comments/tickets/1?viewMode=staff", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var public []map[string]any
	decodeBody(t, resp, &public)
	require.Len(t, public, 1)
	assert.Equal(t, "public", public[0]["content"])

	req = httptest.NewRequest(http.MethodGet, "/comments/tickets/1?viewMode=staff", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var staff []map[string]any
	decodeBody(t, resp, &staff)
	assert.Len(t, staff, 2)
}

func TestListCommentsThreadFormat(t *testing.T) {
	app, _ := newCommentsApp(t)

	resp := postJSON(t, app, "/comments",
		`{"ticket_id":1,"author_name":"Sara","content":"root"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = postJSON(t, app, "/comments",
		`{"ticket_id":1,"parent_id":1,"author_name":"Omid","content":"reply"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/comments/tickets/1?format=thread", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var thread struct {
		TopLevel []map[string]any            `json:"top_level"`
		Replies  map[string][]map[string]any `json:"replies"`
	}
	decodeBody(t, resp, &thread)
	require.Len(t, thread.TopLevel, 1)
	assert.Equal(t, "root", thread.TopLevel[0]["content"])
	require.Len(t, thread.Replies["1"], 1)
	assert.Equal(t, "reply", thread.Replies["1"][0]["content"])
}
