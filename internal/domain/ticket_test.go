package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketRecordCoversEveryColumn(t *testing.T) {
	var ticket Ticket
	for _, name := range TicketColumns {
		assert.True(t, ticket.Set(name, "v-"+name), name)
	}

	rec := ticket.Record()
	assert.Len(t, rec, len(TicketColumns))
	for _, name := range TicketColumns {
		assert.Equal(t, "v-"+name, rec[name])
	}
	assert.Equal(t, ticket, TicketFromRecord(rec))
}

func TestTicketUnknownColumns(t *testing.T) {
	var ticket Ticket
	assert.False(t, ticket.Set("detectedByOther", "x"))
	assert.Equal(t, "", ticket.Get("detectedByOther"))
	assert.False(t, IsTicketColumn("success"))
	assert.True(t, IsTicketColumn(FieldDetectedBy))

	got := TicketFromRecord(map[string]string{"ticket_id": "A", "bogus": "B"})
	assert.Equal(t, Ticket{TicketID: "A"}, got)
}

func TestHistoryRecordRoundTrip(t *testing.T) {
	entry := TicketHistory{
		TicketID:  "KASI-LOS5-20240101-NET-0001",
		Timestamp: "2024-01-01T10:00:00.000Z",
		Action:    HistoryActionUpdate,
		Changes:   `{"status":"Closed"}`,
		Editor:    "ops",
	}
	assert.Equal(t, entry, TicketHistoryFromRecord(entry.Record()))
}
