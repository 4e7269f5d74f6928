package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		name           string
		opened, closed string
		want           string
	}{
		{"mixed units", "2024-03-01 08:00", "2024-03-03 11:05", "2 days 3 hrs 5 mins"},
		{"singular units", "2024-03-01 08:00", "2024-03-02 09:01", "1 day 1 hr 1 min"},
		{"under a minute", "2024-03-01T08:00:00", "2024-03-01T08:00:40", "0 mins"},
		{"iso with zone", "2024-03-01T08:00:00Z", "2024-03-01T10:30:00Z", "2 hrs 30 mins"},
		{"closed before opened", "2024-03-02 08:00", "2024-03-01 08:00", ""},
		{"unparsable", "yesterday", "2024-03-01 08:00", ""},
		{"empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDuration(tc.opened, tc.closed, time.UTC))
		})
	}
}

func TestApplyStatusTransitionClosed(t *testing.T) {
	now := time.Date(2024, 3, 3, 11, 5, 0, 0, time.UTC)
	current := domain.Ticket{Status: "In Progress", Opened: "2024-03-01 08:00"}

	out := ApplyStatusTransition(current, map[string]any{"status": "Closed"}, now)
	assert.Equal(t, "2024-03-03 11:05", out["closed"])
	assert.Equal(t, "2 days 3 hrs 5 mins", out["duration"])

	supplied := ApplyStatusTransition(current, map[string]any{
		"status":   "Closed",
		"closed":   "2024-03-01 09:00",
		"duration": "custom",
	}, now)
	assert.Equal(t, "2024-03-01 09:00", supplied["closed"])
	assert.Equal(t, "custom", supplied["duration"])
}

func TestApplyStatusTransitionReopenClearsResolution(t *testing.T) {
	current := domain.Ticket{Status: "Closed", Closed: "2024-03-02 10:00", SLABreach: "Yes"}
	fields := map[string]any{"status": "Open", "priority": "Low"}

	out := ApplyStatusTransition(current, fields, time.Now())
	for _, name := range []string{"closed", "resolution_summary", "resolution_time", "duration", "sla_breach", "post_review"} {
		assert.Equal(t, "", out[name], name)
	}
	assert.Equal(t, "Low", out["priority"])
	assert.NotContains(t, fields, "closed")
}

func TestApplyStatusTransitionResolved(t *testing.T) {
	current := domain.Ticket{Status: "Closed"}

	out := ApplyStatusTransition(current, map[string]any{"status": "Resolved"}, time.Now())
	assert.Equal(t, map[string]any{"status": "Resolved", "closed": "", "duration": ""}, out)
}

func TestApplyStatusTransitionNoop(t *testing.T) {
	current := domain.Ticket{Status: "Closed"}

	same := ApplyStatusTransition(current, map[string]any{"status": "Closed"}, time.Now())
	assert.Equal(t, map[string]any{"status": "Closed"}, same)

	absent := ApplyStatusTransition(current, map[string]any{"priority": "High"}, time.Now())
	assert.Equal(t, map[string]any{"priority": "High"}, absent)
}
