package matching

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"visitcare/models"
	"visitcare/services/routing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// fakeRepo is an in-memory TherapistRepository.
type fakeRepo struct {
	mu           sync.Mutex
	pool         []models.Therapist
	bookings     map[string][]models.ExistingBooking
	bookingLoads map[string]int
	poolErr      error
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.Therapist, error) {
	for i := range r.pool {
		if r.pool[i].ID == id {
			return &r.pool[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeRepo) GetPool(_ context.Context, _ string) ([]models.Therapist, error) {
	if r.poolErr != nil {
		return nil, r.poolErr
	}
	return r.pool, nil
}

func (r *fakeRepo) GetScheduleModel(ctx context.Context, id string) (*models.ScheduleModel, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule := t.Schedule
	return &schedule, nil
}

func (r *fakeRepo) GetActiveBookings(_ context.Context, therapistID string) ([]models.ExistingBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bookingLoads == nil {
		r.bookingLoads = make(map[string]int)
	}
	r.bookingLoads[therapistID]++
	return r.bookings[therapistID], nil
}

func (r *fakeRepo) Create(_ context.Context, _ *models.Therapist) error { return nil }

func (r *fakeRepo) UpdateWithDocument(_ context.Context, _ string, _ bson.M) error { return nil }

func (r *fakeRepo) CreateBooking(_ context.Context, _ *models.ExistingBooking) error { return nil }

func seriesTherapist(id string, schedule models.ScheduleModel, home models.GeoPoint) models.Therapist {
	return models.Therapist{
		ID: id,
		Profile: models.TherapistProfile{
			Name:     "T " + id,
			Gender:   "female",
			Region:   "r1",
			Active:   true,
			HomeGeo:  home,
			Services: []string{"s1"},
		},
		Schedule:          schedule,
		TravelConstraints: []models.TravelConstraint{{DistanceMeters: 5000}},
	}
}

func TestFindAvailableTherapistsEndToEnd(t *testing.T) {
	// Candidate X: Monday 08:00-12:00, no bookings, anchor inside the region.
	x := seriesTherapist("x", mondaySchedule(), models.NewGeoPoint(1.0, 2.2))
	// Candidate Y: full-day exception on the requested date.
	ySchedule := mondaySchedule()
	ySchedule.Exceptions = []models.DateException{{Date: "2025-03-10", Reason: "leave"}}
	y := seriesTherapist("y", ySchedule, models.NewGeoPoint(1.0, 2.2))
	// Candidate Z: available, anchor outside the reachable region.
	z := seriesTherapist("z", mondaySchedule(), models.NewGeoPoint(5.0, 5.0))

	repo := &fakeRepo{pool: []models.Therapist{x, y, z}}
	provider := &fakeProvider{fallback: []routing.Polygon{square(1.0, 2.0, 0.5)}}
	svc := NewMatchingService(repo, provider, Options{})

	req := models.MatchRequest{
		ServiceID:     "s1",
		Region:        "r1",
		PatientGeo:    models.NewGeoPoint(1.0, 2.0),
		RequestedTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	results, err := svc.FindAvailableTherapists(context.Background(), RequestContext{Now: testNow}, req)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := make(map[string]models.MatchResult)
	for _, r := range results {
		byID[r.CandidateID] = r
	}

	rx := byID["x"]
	assert.True(t, rx.TemporallyAvailable)
	require.NotNil(t, rx.Feasible)
	assert.True(t, *rx.Feasible)
	assert.Equal(t, models.StateFeasible, rx.State)

	ry := byID["y"]
	assert.False(t, ry.TemporallyAvailable)
	assert.Equal(t, ReasonNoSlotForDate, ry.UnavailableReason)
	assert.Nil(t, ry.Feasible)
	assert.Equal(t, models.StateUnavailable, ry.State)

	rz := byID["z"]
	assert.True(t, rz.TemporallyAvailable)
	require.NotNil(t, rz.Feasible)
	assert.False(t, *rz.Feasible)
	assert.Equal(t, models.StateNotFeasible, rz.State)

	// Feasible partition leads, unavailable trails.
	assert.Equal(t, "x", results[0].CandidateID)
	assert.Equal(t, "y", results[2].CandidateID)

	// X and Z share one constraint signature: a single isoline call serves both.
	assert.Len(t, provider.calls, 1)
}

func TestFindAvailableTherapistsGeoProviderOutage(t *testing.T) {
	x := seriesTherapist("x", mondaySchedule(), models.NewGeoPoint(1.0, 2.2))
	repo := &fakeRepo{pool: []models.Therapist{x}}
	provider := &fakeProvider{failFor: map[string]bool{routing.ConstraintDistance: true}}
	svc := NewMatchingService(repo, provider, Options{})

	req := models.MatchRequest{
		ServiceID:     "s1",
		Region:        "r1",
		PatientGeo:    models.NewGeoPoint(1.0, 2.0),
		RequestedTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	results, err := svc.FindAvailableTherapists(context.Background(), RequestContext{Now: testNow}, req)
	require.NoError(t, err, "a provider outage must not abort the matching call")
	require.Len(t, results, 1)
	assert.True(t, results[0].TemporallyAvailable)
	assert.Equal(t, models.StateFeasibilityUnknown, results[0].State)
	assert.Equal(t, ReasonGeoProviderError, results[0].FeasibilityReason)
}

func TestFindAvailableTherapistsRepoFailureIsFatal(t *testing.T) {
	repo := &fakeRepo{poolErr: errors.New("connection refused")}
	svc := NewMatchingService(repo, &fakeProvider{}, Options{})

	_, err := svc.FindAvailableTherapists(context.Background(), RequestContext{Now: testNow}, models.MatchRequest{
		ServiceID:     "s1",
		Region:        "r1",
		PatientGeo:    models.NewGeoPoint(1.0, 2.0),
		RequestedTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	var matchErr *MatchError
	assert.ErrorAs(t, err, &matchErr)
}

func TestFindAvailableTherapistsCancellation(t *testing.T) {
	x := seriesTherapist("x", mondaySchedule(), models.NewGeoPoint(1.0, 2.2))
	repo := &fakeRepo{pool: []models.Therapist{x}}
	svc := NewMatchingService(repo, &fakeProvider{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.FindAvailableTherapists(ctx, RequestContext{Now: testNow}, models.MatchRequest{
		ServiceID:     "s1",
		Region:        "r1",
		PatientGeo:    models.NewGeoPoint(1.0, 2.0),
		RequestedTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindForSeriesMemoizesRepeatedVisits(t *testing.T) {
	x := seriesTherapist("x", mondaySchedule(), models.NewGeoPoint(1.0, 2.2))
	repo := &fakeRepo{pool: []models.Therapist{x}}
	provider := &fakeProvider{fallback: []routing.Polygon{square(1.0, 2.0, 0.5)}}
	svc := NewMatchingService(repo, provider, Options{})

	visit := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	// The same instant twice: the second pass must hit the memo.
	results, err := svc.FindForSeries(context.Background(), RequestContext{Now: testNow},
		models.MatchRequest{
			ServiceID:  "s1",
			Region:     "r1",
			PatientGeo: models.NewGeoPoint(1.0, 2.0),
		}, []time.Time{visit, visit})
	require.NoError(t, err)
	require.Len(t, results, 1, "identical visits collapse onto one key")

	matched := results[visit.Format(time.RFC3339)]
	require.Len(t, matched, 1)
	assert.True(t, matched[0].TemporallyAvailable)
}

func TestAnchorPrefersAdjacentBookingLocation(t *testing.T) {
	x := seriesTherapist("x", mondaySchedule(), models.NewGeoPoint(5.0, 5.0))
	// A visit right before the requested time, located inside the region:
	// the chained location must win over the far-away home address.
	adjacent := models.ExistingBooking{
		ID:              "bk-1",
		TherapistID:     "x",
		Start:           time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          models.BookingStatusConfirmed,
		Location:        models.NewGeoPoint(1.0, 2.1),
	}
	repo := &fakeRepo{
		pool:     []models.Therapist{x},
		bookings: map[string][]models.ExistingBooking{"x": {adjacent}},
	}
	provider := &fakeProvider{fallback: []routing.Polygon{square(1.0, 2.0, 0.5)}}
	svc := NewMatchingService(repo, provider, Options{})

	results, err := svc.FindAvailableTherapists(context.Background(), RequestContext{Now: testNow}, models.MatchRequest{
		ServiceID:     "s1",
		Region:        "r1",
		PatientGeo:    models.NewGeoPoint(1.0, 2.0),
		RequestedTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Feasible)
	assert.True(t, *results[0].Feasible, "anchor should chain from the adjacent booking")
}
