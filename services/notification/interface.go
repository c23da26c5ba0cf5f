package notification

import (
	"context"

	"visitcare/models"

	"go.uber.org/zap"
)

// NotificationSink receives reminder payloads once their fire date arrives.
// Actual delivery (push, SMS, email) lives outside this service.
type NotificationSink interface {
	Notify(ctx context.Context, payload models.ReminderPayload) error
}

// LogSink is the default sink: it records the reminder and nothing more.
type LogSink struct {
	Logger *zap.Logger
}

func (s *LogSink) Notify(_ context.Context, payload models.ReminderPayload) error {
	s.Logger.Info("visit reminder due",
		zap.String("bookingId", payload.BookingID),
		zap.String("therapistId", payload.TherapistID),
		zap.String("patientId", payload.PatientID),
		zap.String("title", payload.Title))
	return nil
}
