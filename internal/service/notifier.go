package service

import (
	"context"

	"go.uber.org/zap"
)

// Notification events emitted by the booking lifecycle.
const (
	EventBookingRequested = "booking_requested"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingScheduled = "booking_scheduled"
	EventBookingCompleted = "booking_completed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingMoved     = "booking_moved"
)

// Notifier is the notification collaborator. Delivery (email templates,
// SMS, etc.) lives outside this core; failures must never fail the
// triggering request.
type Notifier interface {
	Notify(ctx context.Context, event string, payload map[string]any) error
}

// LogNotifier records events in the service log. It stands in for the real
// mail dispatcher in tests and local runs.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, event string, payload map[string]any) error {
	n.logger.Info("notification", zap.String("event", event), zap.Any("payload", payload))
	return nil
}
