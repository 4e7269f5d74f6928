package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/kasi-noc/incident-tickets/internal/api/dto"
	"github.com/kasi-noc/incident-tickets/internal/attachment"
	"github.com/kasi-noc/incident-tickets/internal/auth"
	"github.com/kasi-noc/incident-tickets/internal/domain"
	"github.com/kasi-noc/incident-tickets/internal/observability"
	"github.com/kasi-noc/incident-tickets/internal/render"
	"github.com/kasi-noc/incident-tickets/internal/service"
	apperrors "github.com/kasi-noc/incident-tickets/pkg/util"
)

// Multipart field names.
const (
	payloadField    = "payload"
	attachmentsList = "attachments[]"
	attachmentsOne  = "attachments"
)

// TicketsHandler serves the /tickets endpoints.
type TicketsHandler struct {
	service    *service.TicketService
	resolver   *attachment.Resolver
	namer      *attachment.Namer
	uploadsDir string
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// TicketsHandlerDependencies bundles handler collaborators.
type TicketsHandlerDependencies struct {
	Service    *service.TicketService
	Resolver   *attachment.Resolver
	Namer      *attachment.Namer
	UploadsDir string
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(deps TicketsHandlerDependencies) *TicketsHandler {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := deps.Resolver
	if resolver == nil {
		resolver = attachment.NewResolver("")
	}
	namer := deps.Namer
	if namer == nil {
		namer = attachment.NewNamer(now)
	}
	return &TicketsHandler{
		service:    deps.Service,
		resolver:   resolver,
		namer:      namer,
		uploadsDir: deps.UploadsDir,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
	}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	fields, uploads, err := h.readPayload(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketInput{
		Fields:      fields,
		Attachments: uploads,
		Editor:      auth.Username(c),
	})
	if err != nil {
		h.discardUploads(uploads)
		return err
	}
	h.metrics.RecordMutation(string(domain.HistoryActionCreate))
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.ticketResponse(*ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, h.ticketResponse(tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), ticketIDParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(*ticket)})
}

// UpdateTicket PUT /tickets/:id. A status change carries its side effects
// (closed, duration, cleared resolution columns) unless the caller sent them.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	fields, uploads, err := h.readPayload(c)
	if err != nil {
		return err
	}
	now := h.now()
	ticket, err := h.service.UpdateTicket(c.UserContext(), ticketIDParam(c), service.TicketInput{
		Fields:      fields,
		Attachments: uploads,
		Editor:      auth.Username(c),
		Prepare: func(current domain.Ticket, fields map[string]any) map[string]any {
			return service.ApplyStatusTransition(current, fields, now)
		},
	})
	if err != nil {
		h.discardUploads(uploads)
		return err
	}
	h.metrics.RecordMutation(string(domain.HistoryActionUpdate))
	return c.JSON(fiber.Map{"data": h.ticketResponse(*ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id := ticketIDParam(c)
	if err := h.service.DeleteTicket(c.UserContext(), id, auth.Username(c)); err != nil {
		return err
	}
	h.metrics.RecordMutation(string(domain.HistoryActionDelete))
	return c.JSON(fiber.Map{"data": fiber.Map{"ticket_id": id, "deleted": true}})
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	entries, err := h.service.ListHistory(c.UserContext(), ticketIDParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketHistoryResponses(entries)})
}

// DownloadTicket GET /tickets/:id/download.
func (h *TicketsHandler) DownloadTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), ticketIDParam(c))
	if err != nil {
		return err
	}
	doc, err := render.HTML(*ticket, h.resolver.ToURLs(ticket.Attachments))
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Attachment(ticket.TicketID + ".html")
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(doc)
}

// ExportTickets GET /tickets/export/all.
func (h *TicketsHandler) ExportTickets(c *fiber.Ctx) error {
	content, err := h.service.ExportTickets(c.UserContext())
	if err != nil {
		return err
	}
	c.Attachment("tickets.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(content)
}

// ticketIDParam copies the route id out of the pooled request buffer; the
// value is kept in history entries and queued events.
func ticketIDParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func (h *TicketsHandler) ticketResponse(t domain.Ticket) dto.TicketResponse {
	return dto.NewTicketResponse(t, h.resolver.ToURLs(t.Attachments))
}

// readPayload decodes the ticket fields and stores any uploaded files,
// returning their stored names.
func (h *TicketsHandler) readPayload(c *fiber.Ctx) (map[string]any, []string, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))

	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid multipart body", nil)
		}
		fields := h.multipartFields(form)
		uploads, err := h.storeUploads(c, form)
		if err != nil {
			return nil, nil, err
		}
		return fields, uploads, nil
	}

	if strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		fields := map[string]any{}
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			addFormValue(fields, string(key), string(value))
		})
		return fields, nil, nil
	}

	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return map[string]any{}, nil, nil
	}
	fields := map[string]any{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, nil, apperrors.NewValidationError("invalid JSON payload", nil)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil, nil
}

// multipartFields reads the JSON "payload" field. When it is missing or
// does not decode to an object, the remaining form fields are used as-is.
func (h *TicketsHandler) multipartFields(form *multipart.Form) map[string]any {
	if raw := form.Value[payloadField]; len(raw) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(raw[0]), &decoded); err == nil && decoded != nil {
			return decoded
		}
		h.logger.Debug("multipart payload is not a JSON object, using form fields")
	}
	fields := map[string]any{}
	for key, values := range form.Value {
		if key == payloadField {
			continue
		}
		for _, v := range values {
			addFormValue(fields, key, v)
		}
	}
	return fields
}

func (h *TicketsHandler) storeUploads(c *fiber.Ctx, form *multipart.Form) ([]string, error) {
	files := append([]*multipart.FileHeader{}, form.File[attachmentsList]...)
	files = append(files, form.File[attachmentsOne]...)
	if len(files) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		name := h.namer.Name(fh.Filename)
		if err := c.SaveFile(fh, filepath.Join(h.uploadsDir, name)); err != nil {
			h.discardUploads(names)
			return nil, apperrors.NewStorageError("store attachment", err)
		}
		names = append(names, name)
	}
	return names, nil
}

// discardUploads removes files saved for a request that did not persist.
func (h *TicketsHandler) discardUploads(names []string) {
	for _, name := range names {
		if err := os.Remove(filepath.Join(h.uploadsDir, name)); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("failed to remove orphaned upload", zap.String("file", name), zap.Error(err))
		}
	}
}

// addFormValue maps repeated keys (or "key[]") to a list so assigned_to can
// arrive as several form values.
func addFormValue(fields map[string]any, key, value string) {
	list := strings.HasSuffix(key, "[]")
	key = strings.TrimSuffix(key, "[]")
	switch existing := fields[key].(type) {
	case nil:
		if list {
			fields[key] = []any{value}
		} else {
			fields[key] = value
		}
	case []any:
		fields[key] = append(existing, value)
	default:
		fields[key] = []any{existing, value}
	}
}
