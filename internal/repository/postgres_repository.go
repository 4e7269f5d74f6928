package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

type postgresTicketTable struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketTable stores tickets as ordered JSONB rows in incident_tickets.
func NewPostgresTicketTable(pool *pgxpool.Pool) TicketTable {
	return &postgresTicketTable{pool: pool}
}

func (r *postgresTicketTable) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT record FROM incident_tickets ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec map[string]string
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode ticket row: %w", err)
		}
		tickets = append(tickets, domain.TicketFromRecord(rec))
	}
	return tickets, rows.Err()
}

func (r *postgresTicketTable) SaveAll(ctx context.Context, tickets []domain.Ticket) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM incident_tickets`); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for i := range tickets {
			record, err := json.Marshal(tickets[i].Record())
			if err != nil {
				return fmt.Errorf("encode ticket row: %w", err)
			}
			batch.Queue(`INSERT INTO incident_tickets (ticket_id, record) VALUES ($1, $2::jsonb)`,
				tickets[i].TicketID, string(record))
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *postgresTicketTable) Append(ctx context.Context, ticket domain.Ticket) error {
	record, err := json.Marshal(ticket.Record())
	if err != nil {
		return fmt.Errorf("encode ticket row: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO incident_tickets (ticket_id, record) VALUES ($1, $2::jsonb)`,
		ticket.TicketID, string(record))
	return err
}

func (r *postgresTicketTable) Export(ctx context.Context) ([]byte, error) {
	tickets, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return exportTickets(tickets), nil
}

type postgresHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHistoryRepository stores audit entries in incident_ticket_history.
func NewPostgresHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &postgresHistoryRepository{pool: pool}
}

func (r *postgresHistoryRepository) Append(ctx context.Context, entry domain.TicketHistory) error {
	const query = `
        INSERT INTO incident_ticket_history (ticket_id, ts, action, changes, editor)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.pool.Exec(ctx, query,
		entry.TicketID,
		entry.Timestamp,
		string(entry.Action),
		entry.Changes,
		entry.Editor,
	)
	return err
}

func (r *postgresHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT ticket_id, ts, action, changes, editor
        FROM incident_ticket_history WHERE ticket_id=$1 ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		var (
			entry  domain.TicketHistory
			action string
		)
		if err := rows.Scan(
			&entry.TicketID,
			&entry.Timestamp,
			&action,
			&entry.Changes,
			&entry.Editor,
		); err != nil {
			return nil, err
		}
		entry.Action = domain.HistoryAction(action)
		result = append(result, entry)
	}
	return result, rows.Err()
}
