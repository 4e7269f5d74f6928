package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

// Rows are kept as JSON objects in redis lists so list order is table order.
type redisTicketTable struct {
	client *redis.Client
	key    string
}

// NewRedisTicketTable stores tickets in the list <prefix>:tickets.
func NewRedisTicketTable(client *redis.Client, prefix string) TicketTable {
	return &redisTicketTable{client: client, key: prefix + ":tickets"}
}

func (r *redisTicketTable) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", r.key, err)
	}
	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		var rec map[string]string
		if err := json.Unmarshal([]byte(row), &rec); err != nil {
			return nil, fmt.Errorf("decode ticket row: %w", err)
		}
		tickets = append(tickets, domain.TicketFromRecord(rec))
	}
	return tickets, nil
}

func (r *redisTicketTable) SaveAll(ctx context.Context, tickets []domain.Ticket) error {
	rows := make([]any, 0, len(tickets))
	for i := range tickets {
		row, err := json.Marshal(tickets[i].Record())
		if err != nil {
			return fmt.Errorf("encode ticket row: %w", err)
		}
		rows = append(rows, string(row))
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(rows) > 0 {
			pipe.RPush(ctx, r.key, rows...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", r.key, err)
	}
	return nil
}

func (r *redisTicketTable) Append(ctx context.Context, ticket domain.Ticket) error {
	row, err := json.Marshal(ticket.Record())
	if err != nil {
		return fmt.Errorf("encode ticket row: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, string(row)).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", r.key, err)
	}
	return nil
}

func (r *redisTicketTable) Export(ctx context.Context) ([]byte, error) {
	tickets, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return exportTickets(tickets), nil
}

type redisHistoryRepository struct {
	client *redis.Client
	key    string
}

// NewRedisHistoryRepository appends history entries to the list <prefix>:history.
func NewRedisHistoryRepository(client *redis.Client, prefix string) TicketHistoryRepository {
	return &redisHistoryRepository{client: client, key: prefix + ":history"}
}

func (r *redisHistoryRepository) Append(ctx context.Context, entry domain.TicketHistory) error {
	row, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history row: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, string(row)).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", r.key, err)
	}
	return nil
}

func (r *redisHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	rows, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", r.key, err)
	}
	entries := make([]domain.TicketHistory, 0, len(rows))
	for _, row := range rows {
		var entry domain.TicketHistory
		if err := json.Unmarshal([]byte(row), &entry); err != nil {
			return nil, fmt.Errorf("decode history row: %w", err)
		}
		entries = append(entries, entry)
	}
	return filterHistory(entries, ticketID), nil
}
