package therapistRepo

import (
	"context"

	"visitcare/models"

	"go.mongodb.org/mongo-driver/bson"
)

// TherapistRepository defines methods for therapist and booking data access.
type TherapistRepository interface {
	// GetByID retrieves a therapist by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Therapist, error)
	// GetPool retrieves active therapists offering a service in a region.
	// Region filtering beyond the raw query (restricted-schedule rule,
	// aliases) is the matching engine's job.
	GetPool(ctx context.Context, serviceID string) ([]models.Therapist, error)
	// GetScheduleModel retrieves only the schedule configuration of a therapist.
	GetScheduleModel(ctx context.Context, id string) (*models.ScheduleModel, error)
	// GetActiveBookings retrieves a therapist's bookings excluding cancelled ones.
	GetActiveBookings(ctx context.Context, therapistID string) ([]models.ExistingBooking, error)
	// Create inserts a new therapist record.
	Create(ctx context.Context, therapist *models.Therapist) error
	// UpdateWithDocument patches a therapist document with the specified update document.
	UpdateWithDocument(ctx context.Context, id string, updateDoc bson.M) error
	// CreateBooking inserts a confirmed booking record.
	CreateBooking(ctx context.Context, booking *models.ExistingBooking) error
}
