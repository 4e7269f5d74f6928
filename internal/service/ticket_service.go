package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kasi-noc/incident-tickets/internal/domain"
	"github.com/kasi-noc/incident-tickets/internal/events"
	"github.com/kasi-noc/incident-tickets/internal/repository"
	"github.com/kasi-noc/incident-tickets/internal/ticketid"
	apperrors "github.com/kasi-noc/incident-tickets/pkg/util"
)

const historyTimestampLayout = "2006-01-02T15:04:05.000Z"

// TicketService owns the ticket table. Every operation runs under one
// mutex, so a read-modify-write of the table and the sequence count behind
// a new ticket id never interleave with another request.
type TicketService struct {
	mu         sync.Mutex
	tickets    repository.TicketTable
	history    repository.TicketHistoryRepository
	ids        *ticketid.Generator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketTable
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// TicketInput is the decoded payload of a create or update request.
type TicketInput struct {
	// Fields holds the raw payload keyed by column name. A key that is
	// present overwrites the column, even with a nil value.
	Fields map[string]any
	// Attachments are the stored names of files uploaded with the request.
	Attachments []string
	// Editor is recorded in history when Fields carries no reported_by.
	Editor string
	// Prepare, when set on an update, rewrites Fields against the stored row
	// before anything is applied. It runs under the service lock.
	Prepare func(current domain.Ticket, fields map[string]any) map[string]any
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		ids:        ticketid.NewGenerator(now),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// CreateTicket appends a new ticket. The id is generated unless the payload
// supplies one; a supplied id is never checked against existing rows.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketInput) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("save ticket", err)
	}

	var ticket domain.Ticket
	for _, name := range domain.TicketColumns {
		switch name {
		case domain.FieldTicketID, domain.FieldAttachments:
			continue
		}
		ticket.Set(name, columnValue(name, input.Fields[name]))
	}
	ticket.Attachments = strings.Join(input.Attachments, domain.ListSeparator)
	ticket.TicketID = strings.TrimSpace(stringValue(input.Fields[domain.FieldTicketID]))
	if ticket.TicketID == "" {
		ticket.TicketID = s.ids.Generate(ticket.Category, ticket.Building, existing)
	}

	if err := s.tickets.Append(ctx, ticket); err != nil {
		return nil, apperrors.NewStorageError("save ticket", err)
	}

	changes := make(map[string]any, len(input.Fields)+1)
	for k, v := range input.Fields {
		changes[k] = v
	}
	changes[domain.FieldAttachments] = ticket.Attachments
	if err := s.recordHistory(ctx, ticket.TicketID, domain.HistoryActionCreate, changes, s.editor(input)); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.TicketID,
		Editor:   s.editor(input),
		Payload: events.TicketCreatedPayload{
			Category: ticket.Category,
			Building: ticket.Building,
			Priority: ticket.Priority,
			Status:   ticket.Status,
		},
	})
	return &ticket, nil
}

// ListTickets returns every ticket in table order.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("read tickets", err)
	}
	return tickets, nil
}

// GetTicket returns the first ticket whose id matches exactly.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("read ticket", err)
	}
	idx := indexOf(tickets, ticketID)
	if idx < 0 {
		return nil, ticketNotFound(ticketID)
	}
	return &tickets[idx], nil
}

// UpdateTicket overwrites the columns present in input.Fields and keeps the
// rest. ticket_id and attachments keys in the payload are ignored; new
// uploads replace the stored attachment list, no uploads keep it. The
// history entry records the fields as returned by Prepare, so derived
// status side effects are part of the audit trail.
func (s *TicketService) UpdateTicket(ctx context.Context, ticketID string, input TicketInput) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("update ticket", err)
	}
	idx := indexOf(tickets, ticketID)
	if idx < 0 {
		return nil, ticketNotFound(ticketID)
	}

	ticket := tickets[idx]
	ticketID = ticket.TicketID
	oldStatus := ticket.Status
	if input.Prepare != nil {
		input.Fields = input.Prepare(ticket, input.Fields)
	}
	applied := make([]string, 0, len(input.Fields))
	for name, value := range input.Fields {
		switch name {
		case domain.FieldTicketID, domain.FieldAttachments:
			continue
		}
		if ticket.Set(name, columnValue(name, value)) {
			applied = append(applied, name)
		}
	}
	if len(input.Attachments) > 0 {
		ticket.Attachments = strings.Join(input.Attachments, domain.ListSeparator)
		applied = append(applied, domain.FieldAttachments)
	}
	tickets[idx] = ticket

	if err := s.tickets.SaveAll(ctx, tickets); err != nil {
		return nil, apperrors.NewStorageError("update ticket", err)
	}
	if err := s.recordHistory(ctx, ticketID, domain.HistoryActionUpdate, input.Fields, s.editor(input)); err != nil {
		return nil, err
	}

	sort.Strings(applied)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticketID,
		Editor:   s.editor(input),
		Payload:  events.TicketUpdatedPayload{Fields: applied},
	})
	if ticket.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticketID,
			Editor:   s.editor(input),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return &ticket, nil
}

// DeleteTicket removes the first ticket with the id. Earlier history is
// never retracted; a delete entry holding the removed row is appended.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID, editor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return apperrors.NewStorageError("delete ticket", err)
	}
	idx := indexOf(tickets, ticketID)
	if idx < 0 {
		return ticketNotFound(ticketID)
	}
	removed := tickets[idx]
	ticketID = removed.TicketID
	remaining := append(append([]domain.Ticket{}, tickets[:idx]...), tickets[idx+1:]...)

	if err := s.tickets.SaveAll(ctx, remaining); err != nil {
		return apperrors.NewStorageError("delete ticket", err)
	}
	snapshot := make(map[string]any, len(domain.TicketColumns))
	for k, v := range removed.Record() {
		snapshot[k] = v
	}
	if err := s.recordHistory(ctx, ticketID, domain.HistoryActionDelete, snapshot, editor); err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Editor:   editor,
		Payload:  events.TicketDeletedPayload{Category: removed.Category},
	})
	return nil
}

// ListHistory returns the audit entries of a ticket in append order. Unknown
// ids yield an empty list.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewStorageError("read history", err)
	}
	return entries, nil
}

// ExportTickets returns the backing table as comma-separated text.
func (s *TicketService) ExportTickets(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.tickets.Export(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("export tickets", err)
	}
	return content, nil
}

// recordHistory appends one audit line. A failure here leaves the ticket
// table already written; the two tables are not rolled back together.
func (s *TicketService) recordHistory(ctx context.Context, ticketID string, action domain.HistoryAction, changes map[string]any, editor string) error {
	if s.history == nil {
		return nil
	}
	if changes == nil {
		changes = map[string]any{}
	}
	encoded, err := json.Marshal(changes)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	entry := domain.TicketHistory{
		TicketID:  ticketID,
		Timestamp: s.now().UTC().Format(historyTimestampLayout),
		Action:    action,
		Changes:   string(encoded),
		Editor:    editor,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Error("history append failed after table write",
			zap.String("ticket_id", ticketID),
			zap.String("action", string(action)),
			zap.Error(err))
		return apperrors.NewStorageError("record ticket history", err)
	}
	return nil
}

func (s *TicketService) editor(input TicketInput) string {
	if reporter := stringValue(input.Fields[domain.FieldReportedBy]); reporter != "" {
		return reporter
	}
	return input.Editor
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func indexOf(tickets []domain.Ticket, ticketID string) int {
	for i := range tickets {
		if tickets[i].TicketID == ticketID {
			return i
		}
	}
	return -1
}

func ticketNotFound(ticketID string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
}
