package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	therapistRepo "visitcare/database/repository/therapist"
	"visitcare/models"
	"visitcare/services/matching"
	"visitcare/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const sessionTTL = 30 * time.Minute

// reminderLead is how long before the visit the reminder fires.
const reminderLead = 2 * time.Hour

// BookingSessionService manages the stateful booking flow around the
// matching engine.
type BookingSessionService interface {
	InitiateSession(ctx context.Context, rc matching.RequestContext, req models.MatchRequest, visits []time.Time) (*models.BookingSession, error)
	ConfirmVisit(ctx context.Context, rc matching.RequestContext, sessionID, therapistID string, visit time.Time) (*models.ExistingBooking, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	MatchingSvc matching.MatchingService
	Repo        therapistRepo.TherapistRepository
	Reminders   *asynq.Client
}

// InitiateSession runs matching for the request (or the whole visit series)
// and parks the outcome in Redis under a fresh session id.
func (s *DefaultBookingSessionService) InitiateSession(ctx context.Context, rc matching.RequestContext, req models.MatchRequest, visits []time.Time) (*models.BookingSession, error) {
	logger := utils.GetLogger()
	sessionID := uuid.New().String()

	var results []models.MatchResult
	var err error
	if len(visits) > 1 {
		var series map[string][]models.MatchResult
		series, err = s.MatchingSvc.FindForSeries(ctx, rc, req, visits)
		if err == nil {
			// The first visit's verdicts drive therapist selection; the
			// rest stay retrievable through the engine on confirmation.
			results = series[visits[0].Format(time.RFC3339)]
		}
	} else {
		results, err = s.MatchingSvc.FindAvailableTherapists(ctx, rc, req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to match therapists: %w", err)
	}

	session := models.BookingSession{
		SessionID: sessionID,
		Request:   req,
		Visits:    visits,
		Results:   results,
		CreatedAt: time.Now(),
	}

	sessionData, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking session: %w", err)
	}
	cacheClient := utils.GetSessionCacheClient()
	if err := cacheClient.Set(ctx, sessionID, sessionData, sessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store booking session: %w", err)
	}

	logger.Info("initiated booking session",
		zap.String("sessionId", sessionID),
		zap.Int("results", len(results)))
	return &session, nil
}

// ConfirmVisit re-validates the selected therapist through the engine and,
// when still bookable, writes the booking and schedules its reminder.
func (s *DefaultBookingSessionService) ConfirmVisit(ctx context.Context, rc matching.RequestContext, sessionID, therapistID string, visit time.Time) (*models.ExistingBooking, error) {
	logger := utils.GetLogger()
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	req := session.Request
	req.RequestedTime = visit
	req.AllDay = false
	req.Date = ""
	results, err := s.MatchingSvc.FindAvailableTherapists(ctx, rc, req)
	if err != nil {
		return nil, fmt.Errorf("failed to re-validate availability: %w", err)
	}

	var selected *models.MatchResult
	for i := range results {
		if results[i].CandidateID == therapistID {
			selected = &results[i]
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("therapist %s is no longer a candidate for this request", therapistID)
	}
	if !selected.TemporallyAvailable {
		return nil, fmt.Errorf("therapist %s is no longer available: %s", therapistID, selected.UnavailableReason)
	}
	if selected.State == models.StateNotFeasible {
		return nil, fmt.Errorf("therapist %s cannot reach the visit address", therapistID)
	}

	schedule, err := s.Repo.GetScheduleModel(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load therapist schedule: %w", err)
	}
	duration := schedule.SlotDurationMinutes
	if duration <= 0 {
		duration = 60
	}

	bookingRecord := models.ExistingBooking{
		ID:              uuid.New().String(),
		TherapistID:     therapistID,
		PatientID:       session.PatientID,
		Start:           visit,
		DurationMinutes: duration,
		Status:          models.BookingStatusConfirmed,
		Location:        session.Request.PatientGeo,
		Address:         session.Request.Address,
	}
	if err := s.Repo.CreateBooking(ctx, &bookingRecord); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.scheduleReminder(bookingRecord, logger)

	session.TherapistID = therapistID
	if data, err := json.Marshal(session); err == nil {
		utils.GetSessionCacheClient().Set(ctx, sessionID, data, sessionTTL)
	}

	logger.Info("confirmed visit",
		zap.String("sessionId", sessionID),
		zap.String("therapistId", therapistID),
		zap.Time("visit", visit))
	return &bookingRecord, nil
}

// CancelSession drops the session from Redis.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("booking not initialized")
	}
	if err := utils.GetSessionCacheClient().Del(ctx, sessionID).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}

func (s *DefaultBookingSessionService) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("booking not initialized")
	}
	sessionData, err := utils.GetSessionCacheClient().Get(ctx, sessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("booking session not found or expired: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(sessionData), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *DefaultBookingSessionService) scheduleReminder(b models.ExistingBooking, logger *zap.Logger) {
	if s.Reminders == nil {
		return
	}
	fireAt := b.Start.Add(-reminderLead)
	if fireAt.Before(time.Now()) {
		return
	}
	payload := models.ReminderPayload{
		BookingID:   b.ID,
		TherapistID: b.TherapistID,
		PatientID:   b.PatientID,
		Title:       "Upcoming home visit",
		Body:        fmt.Sprintf("Your visit is scheduled for %s", b.Start.Format(time.RFC1123)),
		FireDate:    fireAt.Format(time.RFC3339),
	}
	task, opts, err := NewVisitReminderTask(payload, fireAt)
	if err != nil {
		logger.Warn("failed to build reminder task", zap.Error(err))
		return
	}
	if _, err := s.Reminders.Enqueue(task, opts...); err != nil {
		logger.Warn("failed to enqueue reminder task", zap.Error(err))
	}
}
