package ticketid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC)
}

func TestGenerateFirstAndSecondInCategory(t *testing.T) {
	g := NewGenerator(fixedClock)

	first := g.Generate("Network", "LOS3", nil)
	assert.Equal(t, "KASI-LOS3-20240309-NET-0001", first)

	existing := []domain.Ticket{{TicketID: first, Category: "Network"}}
	assert.Equal(t, "KASI-LOS3-20240309-NET-0002", g.Generate("Network", "LOS3", existing))
}

func TestGenerateCountsOnlySameCategory(t *testing.T) {
	g := NewGenerator(fixedClock)
	existing := []domain.Ticket{
		{Category: "Power"},
		{Category: "Network"},
		{Category: "Power"},
		{Category: "power"},
	}
	assert.Equal(t, "KASI-LOS1-20240309-PWD-0003", g.Generate("Power", "LOS1", existing))
}

func TestGenerateUsesUTCDate(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	g := NewGenerator(func() time.Time {
		return time.Date(2024, time.March, 10, 0, 30, 0, 0, lagos)
	})
	assert.Equal(t, "KASI-LOS5-20240309-GEN-0001", g.Generate("", "", nil))
}

func TestCategoryCode(t *testing.T) {
	tests := map[string]string{
		"Network":        "NET",
		"Server":         "SER",
		"Storage":        "STOR",
		"Power":          "PWD",
		"Cooling":        "COOL",
		"Security":       "SEC",
		"Access Control": "AC",
		"Application":    "APP",
		"Database":       "DBS",
		"Plumbing":       "GEN",
		"":               "GEN",
	}
	for category, want := range tests {
		assert.Equal(t, want, CategoryCode(category), category)
	}
}

func TestBuildingCode(t *testing.T) {
	assert.Equal(t, "LOS2", BuildingCode("LOS2"))
	assert.Equal(t, "LOS4", BuildingCode(" los4 "))
	assert.Equal(t, "LOS5", BuildingCode(""))
	assert.Equal(t, "LOS5", BuildingCode("LOS9"))
}

func TestSequentialIDsAreUnique(t *testing.T) {
	g := NewGenerator(fixedClock)
	var existing []domain.Ticket
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		id := g.Generate("Database", "LOS1", existing)
		seen[id] = struct{}{}
		existing = append(existing, domain.Ticket{TicketID: id, Category: "Database"})
	}
	assert.Len(t, seen, 50)
}
