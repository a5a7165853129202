package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// TransferRepository persists the transfer audit trail.
type TransferRepository interface {
	Create(ctx context.Context, record *domain.TransferRecord) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TransferRecord, error)
}

type transferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository instantiates repository.
func NewTransferRepository(pool *pgxpool.Pool) TransferRepository {
	return &transferRepository{pool: pool}
}

func (r *transferRepository) Create(ctx context.Context, record *domain.TransferRecord) error {
	const query = `
        INSERT INTO ticket_transfers (ticket_id, destination_type, destination, note, requested_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING transfer_id, created_at`
	return r.pool.QueryRow(ctx, query,
		record.TicketID,
		record.DestinationType,
		record.Destination,
		record.Note,
		record.RequestedBy,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *transferRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TransferRecord, error) {
	const query = `
        SELECT transfer_id, ticket_id, destination_type, destination, note, requested_by, created_at
        FROM ticket_transfers WHERE ticket_id=$1 ORDER BY created_at ASC, transfer_id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TransferRecord{}
	for rows.Next() {
		var record domain.TransferRecord
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.DestinationType,
			&record.Destination,
			&record.Note,
			&record.RequestedBy,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
