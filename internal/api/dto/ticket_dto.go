package dto

import (
	"time"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

// TicketResponse is a ticket as returned to clients. Attachments are
// resolved to public URLs; every other column is passed through.
type TicketResponse struct {
	TicketID          string   `json:"ticket_id"`
	Category          string   `json:"category"`
	SubCategory       string   `json:"sub_category"`
	Opened            string   `json:"opened"`
	ReportedBy        string   `json:"reported_by"`
	ContactInfo       string   `json:"contact_info"`
	Priority          string   `json:"priority"`
	Building          string   `json:"building"`
	Location          string   `json:"location"`
	Impacted          string   `json:"impacted"`
	Description       string   `json:"description"`
	DetectedBy        string   `json:"detectedBy"`
	TimeDetected      string   `json:"time_detected"`
	RootCause         string   `json:"root_cause"`
	ActionsTaken      string   `json:"actions_taken"`
	Status            string   `json:"status"`
	AssignedTo        string   `json:"assigned_to"`
	ResolutionSummary string   `json:"resolution_summary"`
	ResolutionTime    string   `json:"resolution_time"`
	Duration          string   `json:"duration"`
	PostReview        string   `json:"post_review"`
	Attachments       []string `json:"attachments"`
	EscalationHistory string   `json:"escalation_history"`
	Closed            string   `json:"closed"`
	SLABreach         string   `json:"sla_breach"`
}

// NewTicketResponse converts a stored ticket using the resolved attachment URLs.
func NewTicketResponse(t domain.Ticket, attachmentURLs []string) TicketResponse {
	if attachmentURLs == nil {
		attachmentURLs = []string{}
	}
	return TicketResponse{
		TicketID:          t.TicketID,
		Category:          t.Category,
		SubCategory:       t.SubCategory,
		Opened:            t.Opened,
		ReportedBy:        t.ReportedBy,
		ContactInfo:       t.ContactInfo,
		Priority:          t.Priority,
		Building:          t.Building,
		Location:          t.Location,
		Impacted:          t.Impacted,
		Description:       t.Description,
		DetectedBy:        t.DetectedBy,
		TimeDetected:      t.TimeDetected,
		RootCause:         t.RootCause,
		ActionsTaken:      t.ActionsTaken,
		Status:            t.Status,
		AssignedTo:        t.AssignedTo,
		ResolutionSummary: t.ResolutionSummary,
		ResolutionTime:    t.ResolutionTime,
		Duration:          t.Duration,
		PostReview:        t.PostReview,
		Attachments:       attachmentURLs,
		EscalationHistory: t.EscalationHistory,
		Closed:            t.Closed,
		SLABreach:         t.SLABreach,
	}
}

// TicketHistoryResponse is one audit entry. Changes is the JSON text stored
// with the entry.
type TicketHistoryResponse struct {
	TicketID  string `json:"ticket_id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Changes   string `json:"changes"`
	Editor    string `json:"editor"`
}

// NewTicketHistoryResponses converts audit entries; never nil.
func NewTicketHistoryResponses(entries []domain.TicketHistory) []TicketHistoryResponse {
	out := make([]TicketHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, TicketHistoryResponse{
			TicketID:  e.TicketID,
			Timestamp: e.Timestamp,
			Action:    string(e.Action),
			Changes:   e.Changes,
			Editor:    e.Editor,
		})
	}
	return out
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginResponse carries an issued bearer token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}
