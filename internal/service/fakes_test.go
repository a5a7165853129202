package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/repository"
)

// In-memory repository fakes. They mirror the repository contracts,
// including pgx.ErrNoRows for missing rows.

type fakeTicketRepo struct {
	mu          sync.Mutex
	seq         int64
	tickets     map[int64]*domain.Ticket
	moduleNames map[int64]string
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets:     make(map[int64]*domain.Ticket),
		moduleNames: make(map[int64]string),
	}
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.Images = append([]string{}, t.Images...)
	if t.AgentID != nil {
		id := *t.AgentID
		clone.AgentID = &id
	}
	return &clone
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = r.seq
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	if ticket.Images == nil {
		ticket.Images = []string{}
	}
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneTicket(ticket), nil
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Ticket{}
	for id := r.seq; id >= 1; id-- {
		ticket, ok := r.tickets[id]
		if !ok {
			continue
		}
		if filter.IssuerIDNumber != nil && ticket.IssuerIDNumber != *filter.IssuerIDNumber {
			continue
		}
		if filter.ModuleID != nil && ticket.ModuleID != *filter.ModuleID {
			continue
		}
		if filter.AgentID != nil && (ticket.AgentID == nil || *ticket.AgentID != *filter.AgentID) {
			continue
		}
		result = append(result, *cloneTicket(ticket))
	}
	return result, nil
}

func (r *fakeTicketRepo) ListByModuleName(ctx context.Context, moduleName string) ([]domain.Ticket, error) {
	r.mu.Lock()
	moduleID := int64(-1)
	for id, name := range r.moduleNames {
		if strings.EqualFold(name, moduleName) {
			moduleID = id
		}
	}
	r.mu.Unlock()
	return r.ListWithFilter(ctx, repository.TicketFilter{ModuleID: &moduleID})
}

func (r *fakeTicketRepo) SetAssignment(ctx context.Context, id, agentID int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket.AgentID = &agentID
	ticket.Status = domain.TicketStatusInProgress
	ticket.UpdatedAt = time.Now()
	return cloneTicket(ticket), nil
}

func (r *fakeTicketRepo) SetStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	return cloneTicket(ticket), nil
}

func (r *fakeTicketRepo) AppendImages(ctx context.Context, id int64, uris []string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket.Images = append(ticket.Images, uris...)
	ticket.UpdatedAt = time.Now()
	return cloneTicket(ticket), nil
}

func (r *fakeTicketRepo) RemoveImage(ctx context.Context, id int64, uri string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	kept := ticket.Images[:0]
	for _, img := range ticket.Images {
		if img != uri {
			kept = append(kept, img)
		}
	}
	ticket.Images = kept
	ticket.UpdatedAt = time.Now()
	return cloneTicket(ticket), nil
}

func (r *fakeTicketRepo) IncrementVote(ctx context.Context, id int64, upvote bool) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if upvote {
		ticket.Upvotes++
	} else {
		ticket.Downvotes++
	}
	ticket.UpdatedAt = time.Now()
	return cloneTicket(ticket), nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int64
	comments []domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = r.seq
	comment.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.comments {
		if r.comments[i].ID == id {
			comment := r.comments[i]
			return &comment, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCommentRepo) ListByTicket(ctx context.Context, ticketID int64, publicOnly bool) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

type fakeAgentRepo struct {
	mu     sync.Mutex
	agents map[int64]*domain.Agent
}

func newFakeAgentRepo(agents ...*domain.Agent) *fakeAgentRepo {
	repo := &fakeAgentRepo{agents: make(map[int64]*domain.Agent)}
	for _, agent := range agents {
		repo.agents[agent.ID] = agent
	}
	return repo
}

func (r *fakeAgentRepo) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *agent
	return &clone, nil
}

func (r *fakeAgentRepo) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, agent := range r.agents {
		if strings.EqualFold(agent.Email, email) {
			clone := *agent
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeModuleRepo struct {
	mu      sync.Mutex
	seq     int64
	modules map[int64]*domain.Module
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{modules: make(map[int64]*domain.Module)}
}

func (r *fakeModuleRepo) Create(ctx context.Context, module *domain.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	module.ID = r.seq
	module.CreatedAt = time.Now()
	clone := *module
	r.modules[module.ID] = &clone
	return nil
}

func (r *fakeModuleRepo) GetByID(ctx context.Context, id int64) (*domain.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	module, ok := r.modules[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *module
	return &clone, nil
}

func (r *fakeModuleRepo) List(ctx context.Context) ([]domain.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Module{}
	for id := int64(1); id <= r.seq; id++ {
		if module, ok := r.modules[id]; ok {
			result = append(result, *module)
		}
	}
	return result, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	seq        int64
	categories []domain.Category
	modules    *fakeModuleRepo
}

func newFakeCategoryRepo(modules *fakeModuleRepo) *fakeCategoryRepo {
	return &fakeCategoryRepo{modules: modules}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	category.ID = r.seq
	category.CreatedAt = time.Now()
	r.categories = append(r.categories, *category)
	return nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Category{}, r.categories...), nil
}

func (r *fakeCategoryRepo) ListByModule(ctx context.Context, moduleID int64) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Category{}
	for _, category := range r.categories {
		if category.ModuleID == moduleID {
			result = append(result, category)
		}
	}
	return result, nil
}

func (r *fakeCategoryRepo) ListByModuleName(ctx context.Context, moduleName string) ([]domain.Category, error) {
	var moduleID int64 = -1
	r.modules.mu.Lock()
	for id, module := range r.modules.modules {
		if strings.EqualFold(module.Name, moduleName) {
			moduleID = id
		}
	}
	r.modules.mu.Unlock()
	return r.ListByModule(ctx, moduleID)
}

type fakeTransferRepo struct {
	mu      sync.Mutex
	seq     int64
	records []domain.TransferRecord
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{}
}

func (r *fakeTransferRepo) Create(ctx context.Context, record *domain.TransferRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	record.ID = r.seq
	record.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeTransferRepo) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.TransferRecord{}
	for _, record := range r.records {
		if record.TicketID == ticketID {
			result = append(result, record)
		}
	}
	return result, nil
}

// fakeFileStore records saves and deletes; deletes can be forced to fail.
type fakeFileStore struct {
	mu        sync.Mutex
	seq       int
	saved     []string
	deleted   []string
	deleteErr error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{}
}

func (s *fakeFileStore) Save(ctx context.Context, fileName string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	uri := fmt.Sprintf("/files/%d-%s", s.seq, fileName)
	s.saved = append(s.saved, uri)
	return uri, nil
}

func (s *fakeFileStore) Delete(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, uri)
	return nil
}

var errDiskGone = errors.New("disk gone")
