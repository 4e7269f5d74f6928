package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

// TimestampLayout is the format written for timestamps the service fills in.
const TimestampLayout = "2006-01-02 15:04"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	TimestampLayout,
}

// ParseTimestamp reads the timestamp formats stored in ticket columns.
// Values without a zone are read in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDuration renders the time between opened and closed as
// "2 days 3 hrs 5 mins". It is empty when either side is unparsable or
// closed precedes opened, and "0 mins" below one minute.
func FormatDuration(opened, closed string, loc *time.Location) string {
	start, ok := ParseTimestamp(opened, loc)
	if !ok {
		return ""
	}
	end, ok := ParseTimestamp(closed, loc)
	if !ok {
		return ""
	}
	diff := int64(end.Sub(start) / time.Second)
	if diff < 0 {
		return ""
	}

	days := diff / 86400
	diff %= 86400
	hours := diff / 3600
	diff %= 3600
	mins := diff / 60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hr"))
	}
	if mins > 0 {
		parts = append(parts, plural(mins, "min"))
	}
	if len(parts) == 0 {
		return "0 mins"
	}
	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// ApplyStatusTransition returns a copy of fields with the side effects of a
// status change filled in. It only acts when fields carries a status that
// differs from the current one:
//
//   - Closed: closed defaults to now and duration to closed - opened,
//     unless the caller supplied them.
//   - Open, In Progress: closed and every resolution column are cleared.
//   - Resolved: closed and duration are cleared.
//
// The store persists whatever this produces; it never runs it itself.
func ApplyStatusTransition(current domain.Ticket, fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields)+6)
	for k, v := range fields {
		out[k] = v
	}

	raw, ok := fields[domain.FieldStatus]
	if !ok {
		return out
	}
	next := stringValue(raw)
	if next == current.Status {
		return out
	}

	switch domain.TicketStatus(next) {
	case domain.TicketStatusClosed:
		closed := stringValue(fields[domain.FieldClosed])
		if closed == "" {
			closed = now.Format(TimestampLayout)
			out[domain.FieldClosed] = closed
		}
		if stringValue(fields[domain.FieldDuration]) == "" {
			opened := current.Opened
			if v, ok := fields[domain.FieldOpened]; ok {
				opened = stringValue(v)
			}
			out[domain.FieldDuration] = FormatDuration(opened, closed, now.Location())
		}
	case domain.TicketStatusOpen, domain.TicketStatusInProgress:
		for _, name := range []string{
			domain.FieldClosed,
			domain.FieldResolutionSummary,
			domain.FieldResolutionTime,
			domain.FieldDuration,
			domain.FieldSLABreach,
			domain.FieldPostReview,
		} {
			out[name] = ""
		}
	case domain.TicketStatusResolved:
		out[domain.FieldClosed] = ""
		out[domain.FieldDuration] = ""
	}
	return out
}
