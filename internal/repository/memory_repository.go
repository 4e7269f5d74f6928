package repository

import (
	"context"
	"sync"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

type memoryTicketTable struct {
	mu   sync.RWMutex
	rows []domain.Ticket
}

// NewMemoryTicketTable keeps the ticket table in process memory.
func NewMemoryTicketTable() TicketTable {
	return &memoryTicketTable{}
}

func (m *memoryTicketTable) LoadAll(_ context.Context) ([]domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Ticket{}, m.rows...), nil
}

func (m *memoryTicketTable) SaveAll(_ context.Context, tickets []domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append([]domain.Ticket{}, tickets...)
	return nil
}

func (m *memoryTicketTable) Append(_ context.Context, ticket domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, ticket)
	return nil
}

func (m *memoryTicketTable) Export(ctx context.Context) ([]byte, error) {
	tickets, err := m.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return exportTickets(tickets), nil
}

type memoryHistoryRepository struct {
	mu      sync.RWMutex
	entries []domain.TicketHistory
}

// NewMemoryHistoryRepository keeps history entries in process memory.
func NewMemoryHistoryRepository() TicketHistoryRepository {
	return &memoryHistoryRepository{}
}

func (m *memoryHistoryRepository) Append(_ context.Context, entry domain.TicketHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryHistoryRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterHistory(m.entries, ticketID), nil
}
