package repository

import (
	"context"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

// TicketHistoryRepository stores audit entries. Entries are append-only.
type TicketHistoryRepository interface {
	Append(ctx context.Context, entry domain.TicketHistory) error
	// ListByTicket returns the entries of one ticket in append order.
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

func filterHistory(entries []domain.TicketHistory, ticketID string) []domain.TicketHistory {
	result := []domain.TicketHistory{}
	for _, entry := range entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result
}
