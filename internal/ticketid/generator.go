// Package ticketid derives human-readable incident identifiers of the form
// KASI-<building>-<YYYYMMDD>-<category code>-<sequence>.
package ticketid

import (
	"fmt"
	"strings"
	"time"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

const (
	prefix          = "KASI"
	defaultBuilding = "LOS5"
	generalCategory = "GEN"
)

var categoryCodes = map[string]string{
	"Network":        "NET",
	"Server":         "SER",
	"Storage":        "STOR",
	"Power":          "PWD",
	"Cooling":        "COOL",
	"Security":       "SEC",
	"Access Control": "AC",
	"Application":    "APP",
	"Database":       "DBS",
}

var buildings = map[string]struct{}{
	"LOS1": {}, "LOS2": {}, "LOS3": {}, "LOS4": {}, "LOS5": {},
}

// Generator assigns ticket identifiers. The sequence is the number of
// existing tickets in the same category plus one, so it is count-based and
// can repeat after a delete.
type Generator struct {
	now func() time.Time
}

// NewGenerator builds a generator; a nil clock means time.Now.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Generate derives the identifier for a new ticket.
func (g *Generator) Generate(category, building string, existing []domain.Ticket) string {
	count := 0
	for i := range existing {
		if existing[i].Category == category {
			count++
		}
	}
	return fmt.Sprintf("%s-%s-%s-%s-%04d",
		prefix,
		BuildingCode(building),
		g.now().UTC().Format("20060102"),
		CategoryCode(category),
		count+1,
	)
}

// CategoryCode maps a category to its short code; unknown categories map to GEN.
func CategoryCode(category string) string {
	if code, ok := categoryCodes[category]; ok {
		return code
	}
	return generalCategory
}

// BuildingCode normalizes a building to LOS1..LOS5, defaulting to LOS5.
func BuildingCode(building string) string {
	code := strings.ToUpper(strings.TrimSpace(building))
	if _, ok := buildings[code]; ok {
		return code
	}
	return defaultBuilding
}
