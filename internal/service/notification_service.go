package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kasi-noc/incident-tickets/internal/config"
	"github.com/kasi-noc/incident-tickets/internal/events"
)

const notificationQueueSize = 256

// NotificationService logs ticket events and forwards them to the
// configured webhook. Delivery happens off the request path through Run.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	queue      chan events.Event
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		queue:      make(chan events.Event, notificationQueueSize),
	}
}

// RegisterHandlers subscribes to every ticket event.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

// Run delivers queued events until ctx is cancelled.
func (n *NotificationService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-n.queue:
			if err := n.sendWebhook(event); err != nil {
				n.logger.Warn("webhook delivery failed",
					zap.String("event_type", string(event.Type)),
					zap.String("ticket_id", event.TicketID),
					zap.Error(err))
			}
		}
	}
}

func (n *NotificationService) webhookEnabled() bool {
	return strings.TrimSpace(n.cfg.WebhookURL) != ""
}

func (n *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("ticket_id", event.TicketID),
		zap.String("editor", event.Editor),
		zap.Any("payload", event.Payload))

	if !n.webhookEnabled() {
		return nil
	}
	select {
	case n.queue <- event:
	default:
		n.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
	}
	return nil
}

func (n *NotificationService) sendWebhook(event events.Event) error {
	agent := fiber.Post(n.cfg.WebhookURL)
	agent.Timeout(n.cfg.Timeout())
	agent.JSON(event)

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code >= fiber.StatusBadRequest {
		return fmt.Errorf("webhook responded with status %d", code)
	}
	n.logger.Debug("webhook delivered",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Int("status", code))
	return nil
}
