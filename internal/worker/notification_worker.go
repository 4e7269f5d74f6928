package worker

import (
	"context"

	"github.com/kasi-noc/incident-tickets/internal/service"
)

// StartNotificationWorker registers notification handlers and starts webhook
// delivery in the background. The returned channel closes once delivery has
// stopped after ctx is cancelled.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService) <-chan struct{} {
	done := make(chan struct{})
	if notificationService == nil {
		close(done)
		return done
	}
	notificationService.RegisterHandlers()
	go func() {
		defer close(done)
		notificationService.Run(ctx)
	}()
	return done
}
