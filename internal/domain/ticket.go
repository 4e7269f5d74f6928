package domain

// TicketStatus enumerates lifecycle states for incident tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Column names of the ticket table.
const (
	FieldTicketID          = "ticket_id"
	FieldCategory          = "category"
	FieldSubCategory       = "sub_category"
	FieldOpened            = "opened"
	FieldReportedBy        = "reported_by"
	FieldContactInfo       = "contact_info"
	FieldPriority          = "priority"
	FieldBuilding          = "building"
	FieldLocation          = "location"
	FieldImpacted          = "impacted"
	FieldDescription       = "description"
	FieldDetectedBy        = "detectedBy"
	FieldTimeDetected      = "time_detected"
	FieldRootCause         = "root_cause"
	FieldActionsTaken      = "actions_taken"
	FieldStatus            = "status"
	FieldAssignedTo        = "assigned_to"
	FieldResolutionSummary = "resolution_summary"
	FieldResolutionTime    = "resolution_time"
	FieldDuration          = "duration"
	FieldPostReview        = "post_review"
	FieldAttachments       = "attachments"
	FieldEscalationHistory = "escalation_history"
	FieldClosed            = "closed"
	FieldSLABreach         = "sla_breach"
)

// TicketColumns is the canonical header of the ticket table.
var TicketColumns = []string{
	FieldTicketID, FieldCategory, FieldSubCategory, FieldOpened, FieldReportedBy,
	FieldContactInfo, FieldPriority, FieldBuilding, FieldLocation, FieldImpacted,
	FieldDescription, FieldDetectedBy, FieldTimeDetected, FieldRootCause,
	FieldActionsTaken, FieldStatus, FieldAssignedTo, FieldResolutionSummary,
	FieldResolutionTime, FieldDuration, FieldPostReview, FieldAttachments,
	FieldEscalationHistory, FieldClosed, FieldSLABreach,
}

// ListSeparator joins multi-valued columns (assigned_to, attachments).
const ListSeparator = ";"

// Flag values persisted for post_review and sla_breach.
const (
	FlagYes = "Yes"
	FlagNo  = "No"
)

// Ticket is one incident record. Every column is stored as text; the store
// treats most of them as opaque.
type Ticket struct {
	TicketID          string `json:"ticket_id"`
	Category          string `json:"category"`
	SubCategory       string `json:"sub_category"`
	Opened            string `json:"opened"`
	ReportedBy        string `json:"reported_by"`
	ContactInfo       string `json:"contact_info"`
	Priority          string `json:"priority"`
	Building          string `json:"building"`
	Location          string `json:"location"`
	Impacted          string `json:"impacted"`
	Description       string `json:"description"`
	DetectedBy        string `json:"detectedBy"`
	TimeDetected      string `json:"time_detected"`
	RootCause         string `json:"root_cause"`
	ActionsTaken      string `json:"actions_taken"`
	Status            string `json:"status"`
	AssignedTo        string `json:"assigned_to"`
	ResolutionSummary string `json:"resolution_summary"`
	ResolutionTime    string `json:"resolution_time"`
	Duration          string `json:"duration"`
	PostReview        string `json:"post_review"`
	Attachments       string `json:"attachments"`
	EscalationHistory string `json:"escalation_history"`
	Closed            string `json:"closed"`
	SLABreach         string `json:"sla_breach"`
}

func (t *Ticket) field(name string) *string {
	switch name {
	case FieldTicketID:
		return &t.TicketID
	case FieldCategory:
		return &t.Category
	case FieldSubCategory:
		return &t.SubCategory
	case FieldOpened:
		return &t.Opened
	case FieldReportedBy:
		return &t.ReportedBy
	case FieldContactInfo:
		return &t.ContactInfo
	case FieldPriority:
		return &t.Priority
	case FieldBuilding:
		return &t.Building
	case FieldLocation:
		return &t.Location
	case FieldImpacted:
		return &t.Impacted
	case FieldDescription:
		return &t.Description
	case FieldDetectedBy:
		return &t.DetectedBy
	case FieldTimeDetected:
		return &t.TimeDetected
	case FieldRootCause:
		return &t.RootCause
	case FieldActionsTaken:
		return &t.ActionsTaken
	case FieldStatus:
		return &t.Status
	case FieldAssignedTo:
		return &t.AssignedTo
	case FieldResolutionSummary:
		return &t.ResolutionSummary
	case FieldResolutionTime:
		return &t.ResolutionTime
	case FieldDuration:
		return &t.Duration
	case FieldPostReview:
		return &t.PostReview
	case FieldAttachments:
		return &t.Attachments
	case FieldEscalationHistory:
		return &t.EscalationHistory
	case FieldClosed:
		return &t.Closed
	case FieldSLABreach:
		return &t.SLABreach
	}
	return nil
}

// IsTicketColumn reports whether name is part of the ticket schema.
func IsTicketColumn(name string) bool {
	var t Ticket
	return t.field(name) != nil
}

// Get returns a column value; unknown columns read as empty.
func (t Ticket) Get(name string) string {
	if p := t.field(name); p != nil {
		return *p
	}
	return ""
}

// Set assigns a column value and reports whether the column exists.
func (t *Ticket) Set(name, value string) bool {
	p := t.field(name)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Record flattens the ticket into column/value pairs.
func (t Ticket) Record() map[string]string {
	rec := make(map[string]string, len(TicketColumns))
	for _, name := range TicketColumns {
		rec[name] = t.Get(name)
	}
	return rec
}

// TicketFromRecord builds a ticket from column/value pairs. Unknown columns
// are dropped and missing ones stay empty.
func TicketFromRecord(rec map[string]string) Ticket {
	var t Ticket
	for name, value := range rec {
		t.Set(name, value)
	}
	return t
}
