package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

const ticketColumns = `ticket_id, issuer_id_number, issuer_full_name, issuer_phone, issuer_location,
               module_id, ticket_category, ticket_title, ticket_description, images,
               ticket_status, agent_id, upvotes, downvotes, created_at, updated_at`

// TicketFilter captures listing parameters.
type TicketFilter struct {
	IssuerIDNumber *string
	ModuleID       *int64
	Statuses       []domain.TicketStatus
	AgentID        *int64
}

// TicketRepository encapsulates ticket persistence.
//
// Mutations that touch more than one logical value (assignment, the image
// list, vote counters) are single UPDATE statements so concurrent callers
// cannot interleave a read-modify-write.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListByModuleName(ctx context.Context, moduleName string) ([]domain.Ticket, error)
	SetAssignment(ctx context.Context, id, agentID int64) (*domain.Ticket, error)
	SetStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error)
	AppendImages(ctx context.Context, id int64, uris []string) (*domain.Ticket, error)
	RemoveImage(ctx context.Context, id int64, uri string) (*domain.Ticket, error)
	IncrementVote(ctx context.Context, id int64, upvote bool) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (issuer_id_number, issuer_full_name, issuer_phone, issuer_location,
                             module_id, ticket_category, ticket_title, ticket_description, images,
                             ticket_status, agent_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING ticket_id, created_at, updated_at`
	if ticket.Images == nil {
		ticket.Images = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		ticket.IssuerIDNumber,
		ticket.IssuerFullName,
		ticket.IssuerPhone,
		ticket.IssuerLocation,
		ticket.ModuleID,
		ticket.Category,
		ticket.Title,
		ticket.Description,
		ticket.Images,
		ticket.Status,
		ticket.AgentID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.IssuerIDNumber != nil {
		args = append(args, *filter.IssuerIDNumber)
		clauses = append(clauses, fmt.Sprintf("issuer_id_number=$%d", len(args)))
	}
	if filter.ModuleID != nil {
		args = append(args, *filter.ModuleID)
		clauses = append(clauses, fmt.Sprintf("module_id=$%d", len(args)))
	}
	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		clauses = append(clauses, fmt.Sprintf("agent_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("ticket_status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY ticket_id DESC", base, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByModuleName(ctx context.Context, moduleName string) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets t
        WHERE t.module_id IN (SELECT module_id FROM modules WHERE LOWER(module_name)=LOWER($1))
        ORDER BY t.ticket_id DESC`, prefixColumns("t", ticketColumns))
	rows, err := r.pool.Query(ctx, query, moduleName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) SetAssignment(ctx context.Context, id, agentID int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        UPDATE tickets SET agent_id=$1, ticket_status=$2, updated_at=NOW()
        WHERE ticket_id=$3
        RETURNING %s`, ticketColumns)
	return r.fetchSingle(ctx, query, agentID, domain.TicketStatusInProgress, id)
}

func (r *ticketRepository) SetStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        UPDATE tickets SET ticket_status=$1, updated_at=NOW()
        WHERE ticket_id=$2
        RETURNING %s`, ticketColumns)
	return r.fetchSingle(ctx, query, status, id)
}

func (r *ticketRepository) AppendImages(ctx context.Context, id int64, uris []string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        UPDATE tickets SET images = images || $1, updated_at=NOW()
        WHERE ticket_id=$2
        RETURNING %s`, ticketColumns)
	return r.fetchSingle(ctx, query, uris, id)
}

func (r *ticketRepository) RemoveImage(ctx context.Context, id int64, uri string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        UPDATE tickets SET images = array_remove(images, $1), updated_at=NOW()
        WHERE ticket_id=$2
        RETURNING %s`, ticketColumns)
	return r.fetchSingle(ctx, query, uri, id)
}

func (r *ticketRepository) IncrementVote(ctx context.Context, id int64, upvote bool) (*domain.Ticket, error) {
	column := "downvotes"
	if upvote {
		column = "upvotes"
	}
	query := fmt.Sprintf(`
        UPDATE tickets SET %s = %s + 1, updated_at=NOW()
        WHERE ticket_id=$1
        RETURNING %s`, column, column, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.IssuerIDNumber,
		&ticket.IssuerFullName,
		&ticket.IssuerPhone,
		&ticket.IssuerLocation,
		&ticket.ModuleID,
		&ticket.Category,
		&ticket.Title,
		&ticket.Description,
		&ticket.Images,
		&ticket.Status,
		&ticket.AgentID,
		&ticket.Upvotes,
		&ticket.Downvotes,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.IssuerIDNumber,
			&ticket.IssuerFullName,
			&ticket.IssuerPhone,
			&ticket.IssuerLocation,
			&ticket.ModuleID,
			&ticket.Category,
			&ticket.Title,
			&ticket.Description,
			&ticket.Images,
			&ticket.Status,
			&ticket.AgentID,
			&ticket.Upvotes,
			&ticket.Downvotes,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
