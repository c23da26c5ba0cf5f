package therapistRepo

import (
	"context"
	"fmt"
	"time"

	"visitcare/database"
	"visitcare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTherapistRepo implements TherapistRepository using MongoDB.
type MongoTherapistRepo struct {
	therapists *mongo.Collection
	bookings   *mongo.Collection
}

// NewMongoTherapistRepo creates a new instance of TherapistRepository using MongoDB.
func NewMongoTherapistRepo() TherapistRepository {
	db := database.MongoClient.Database("visitcare")
	return &MongoTherapistRepo{
		therapists: db.Collection("therapists"),
		bookings:   db.Collection("bookings"),
	}
}

func (r *MongoTherapistRepo) GetByID(ctx context.Context, id string) (*models.Therapist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var therapist models.Therapist
	filter := bson.M{"id": id}
	if err := r.therapists.FindOne(ctx, filter).Decode(&therapist); err != nil {
		return nil, fmt.Errorf("failed to fetch therapist with id %s: %w", id, err)
	}
	return &therapist, nil
}

func (r *MongoTherapistRepo) GetPool(ctx context.Context, serviceID string) ([]models.Therapist, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{
		"profile.active":   true,
		"profile.services": bson.M{"$regex": fmt.Sprintf("^%s$", serviceID), "$options": "i"},
	}
	cursor, err := r.therapists.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find therapists for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)
	var pool []models.Therapist
	for cursor.Next(ctx) {
		var t models.Therapist
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode therapist: %w", err)
		}
		pool = append(pool, t)
	}
	return pool, nil
}

func (r *MongoTherapistRepo) GetScheduleModel(ctx context.Context, id string) (*models.ScheduleModel, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var therapist models.Therapist
	opts := bson.M{"id": id}
	if err := r.therapists.FindOne(ctx, opts).Decode(&therapist); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for therapist %s: %w", id, err)
	}
	schedule := therapist.Schedule
	return &schedule, nil
}

func (r *MongoTherapistRepo) GetActiveBookings(ctx context.Context, therapistID string) ([]models.ExistingBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{
		"therapistId": therapistID,
		"status":      bson.M{"$ne": models.BookingStatusCancelled},
	}
	cursor, err := r.bookings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for therapist %s: %w", therapistID, err)
	}
	defer cursor.Close(ctx)
	var bookings []models.ExistingBooking
	for cursor.Next(ctx) {
		var b models.ExistingBooking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *MongoTherapistRepo) Create(ctx context.Context, therapist *models.Therapist) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.therapists.InsertOne(ctx, therapist); err != nil {
		return fmt.Errorf("failed to create therapist: %w", err)
	}
	return nil
}

func (r *MongoTherapistRepo) UpdateWithDocument(ctx context.Context, id string, updateDoc bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.therapists.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": updateDoc})
	if err != nil {
		return fmt.Errorf("failed to update therapist %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("therapist %s not found", id)
	}
	return nil
}

func (r *MongoTherapistRepo) CreateBooking(ctx context.Context, booking *models.ExistingBooking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}
