package repository

import (
	"context"

	"github.com/kasi-noc/incident-tickets/internal/domain"
	"github.com/kasi-noc/incident-tickets/pkg/csvtable"
)

// TicketTable persists the ordered ticket table. Implementations are not
// required to be safe for concurrent read-modify-write cycles; callers
// serialize LoadAll/SaveAll pairs themselves.
type TicketTable interface {
	// LoadAll returns every ticket in table order, oldest first. A table
	// that does not exist yet yields an empty slice.
	LoadAll(ctx context.Context) ([]domain.Ticket, error)
	// SaveAll replaces the whole table with tickets.
	SaveAll(ctx context.Context, tickets []domain.Ticket) error
	// Append adds one ticket to the end of the table.
	Append(ctx context.Context, ticket domain.Ticket) error
	// Export returns the table as comma-separated text.
	Export(ctx context.Context) ([]byte, error)
}

func ticketsFromTable(t csvtable.Table) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(t.Records))
	for _, rec := range t.Records {
		tickets = append(tickets, domain.TicketFromRecord(rec))
	}
	return tickets
}

func ticketsToTable(tickets []domain.Ticket) csvtable.Table {
	records := make([]csvtable.Record, 0, len(tickets))
	for i := range tickets {
		records = append(records, tickets[i].Record())
	}
	return csvtable.Table{Header: domain.TicketColumns, Records: records}
}

func exportTickets(tickets []domain.Ticket) []byte {
	return []byte(csvtable.Encode(ticketsToTable(tickets)))
}
