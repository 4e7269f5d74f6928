package domain

// HistoryAction captures which mutation produced a history entry.
type HistoryAction string

const (
	HistoryActionCreate HistoryAction = "create"
	HistoryActionUpdate HistoryAction = "update"
	HistoryActionDelete HistoryAction = "delete"
)

// Column names of the history table.
const (
	HistoryFieldTicketID  = "ticket_id"
	HistoryFieldTimestamp = "timestamp"
	HistoryFieldAction    = "action"
	HistoryFieldChanges   = "changes"
	HistoryFieldEditor    = "editor"
)

// HistoryColumns is the canonical header of the history table.
var HistoryColumns = []string{
	HistoryFieldTicketID, HistoryFieldTimestamp, HistoryFieldAction,
	HistoryFieldChanges, HistoryFieldEditor,
}

// TicketHistory is an immutable audit trail entry. Changes holds the
// serialized input that triggered the mutation.
type TicketHistory struct {
	TicketID  string        `json:"ticket_id"`
	Timestamp string        `json:"timestamp"`
	Action    HistoryAction `json:"action"`
	Changes   string        `json:"changes"`
	Editor    string        `json:"editor"`
}

// Record flattens the entry into column/value pairs.
func (h TicketHistory) Record() map[string]string {
	return map[string]string{
		HistoryFieldTicketID:  h.TicketID,
		HistoryFieldTimestamp: h.Timestamp,
		HistoryFieldAction:    string(h.Action),
		HistoryFieldChanges:   h.Changes,
		HistoryFieldEditor:    h.Editor,
	}
}

// TicketHistoryFromRecord builds an entry from column/value pairs.
func TicketHistoryFromRecord(rec map[string]string) TicketHistory {
	return TicketHistory{
		TicketID:  rec[HistoryFieldTicketID],
		Timestamp: rec[HistoryFieldTimestamp],
		Action:    HistoryAction(rec[HistoryFieldAction]),
		Changes:   rec[HistoryFieldChanges],
		Editor:    rec[HistoryFieldEditor],
	}
}
