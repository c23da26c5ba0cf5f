package matching

import (
	"context"
	"fmt"
	"time"

	therapistRepo "visitcare/database/repository/therapist"
	"visitcare/models"
	"visitcare/services/routing"
	"visitcare/utils"

	"go.uber.org/zap"
)

// MatchingService finds therapists that are temporally free and
// geographically reachable for a patient request.
type MatchingService interface {
	FindAvailableTherapists(ctx context.Context, rc RequestContext, req models.MatchRequest) ([]models.MatchResult, error)
	// FindForSeries evaluates one request against several visit instants,
	// sharing a single memoized run. Results are keyed by RFC3339 instant.
	FindForSeries(ctx context.Context, rc RequestContext, req models.MatchRequest, visits []time.Time) (map[string][]models.MatchResult, error)
}

// Options tunes the engine.
type Options struct {
	// DefaultMaxDistanceMeters backs the system default travel profile
	// used for candidates with no constraints of their own.
	DefaultMaxDistanceMeters int
	// GeoConcurrency bounds the concurrent isoline group computations.
	GeoConcurrency int
	// RegionAliases maps a metro region id to its wider administrative area.
	RegionAliases map[string]string
	// EnforceLeadTime switches on the (normally inert) minimum-lead rule.
	EnforceLeadTime bool
}

// DefaultMatchingService implements MatchingService.
type DefaultMatchingService struct {
	Repo    therapistRepo.TherapistRepository
	Routing routing.Provider
	Opts    Options

	evaluator *Evaluator
}

// NewMatchingService wires the engine with its collaborators.
func NewMatchingService(repo therapistRepo.TherapistRepository, provider routing.Provider, opts Options) *DefaultMatchingService {
	if opts.DefaultMaxDistanceMeters <= 0 {
		opts.DefaultMaxDistanceMeters = 10000
	}
	evaluator := NewEvaluator()
	evaluator.EnforceLeadTime = opts.EnforceLeadTime
	return &DefaultMatchingService{
		Repo:      repo,
		Routing:   provider,
		Opts:      opts,
		evaluator: evaluator,
	}
}

// FindAvailableTherapists runs one full matching pass for the request.
func (s *DefaultMatchingService) FindAvailableTherapists(ctx context.Context, rc RequestContext, req models.MatchRequest) ([]models.MatchResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	run := newMatchRun()
	return s.findOnce(ctx, rc, run, req)
}

// FindForSeries evaluates every visit of a series against the same pool,
// reusing availability verdicts through the shared run memo.
func (s *DefaultMatchingService) FindForSeries(ctx context.Context, rc RequestContext, req models.MatchRequest, visits []time.Time) (map[string][]models.MatchResult, error) {
	if len(visits) == 0 {
		return nil, NewMatchError("series request carries no visits", nil)
	}
	run := newMatchRun()
	results := make(map[string][]models.MatchResult, len(visits))
	for _, visit := range visits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		visitReq := req
		visitReq.RequestedTime = visit
		visitReq.AllDay = false
		visitReq.Date = ""
		if err := validateRequest(visitReq); err != nil {
			return nil, err
		}
		matched, err := s.findOnce(ctx, rc, run, visitReq)
		if err != nil {
			return nil, err
		}
		results[visit.Format(time.RFC3339)] = matched
	}
	return results, nil
}

// evalOutcome carries one candidate's temporal verdict off its worker.
type evalOutcome struct {
	candidate models.Candidate
	result    AvailabilityResult
	err       error
}

func (s *DefaultMatchingService) findOnce(ctx context.Context, rc RequestContext, run *matchRun, req models.MatchRequest) ([]models.MatchResult, error) {
	logger := utils.GetLogger()

	pool, err := s.Repo.GetPool(ctx, req.ServiceID)
	if err != nil {
		return nil, NewMatchError("failed to load therapist pool", err)
	}

	filtered := FilterCandidates(pool, FilterCriteria{
		ServiceID:        req.ServiceID,
		Region:           req.Region,
		GenderPreference: req.GenderPreference,
		RegionAliases:    s.Opts.RegionAliases,
	})
	if len(filtered) == 0 {
		return []models.MatchResult{}, nil
	}

	input := EvaluationInput{
		Instant:          req.RequestedTime,
		AllDay:           req.AllDay,
		Date:             req.Date,
		ExcludeBookingID: req.ExcludeBookingID,
	}

	// Availability checks are pure, so every candidate gets its own worker.
	outcomes := make(chan evalOutcome, len(filtered))
	for _, therapist := range filtered {
		go func(t models.Therapist) {
			outcomes <- s.evaluateCandidate(ctx, rc, run, t, input)
		}(therapist)
	}

	candidates := make([]models.Candidate, 0, len(filtered))
	availability := make(map[string]AvailabilityResult, len(filtered))
	byID := make(map[string]models.Candidate, len(filtered))
	for range filtered {
		outcome := <-outcomes
		if outcome.err != nil {
			return nil, NewMatchError("failed to load therapist bookings", outcome.err)
		}
		availability[outcome.candidate.ID] = outcome.result
		byID[outcome.candidate.ID] = outcome.candidate
	}
	// Re-establish the filter order lost to the concurrent collection.
	for _, t := range filtered {
		candidates = append(candidates, byID[t.ID])
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var availableSubset []models.Candidate
	for _, cand := range candidates {
		if availability[cand.ID].Available {
			availableSubset = append(availableSubset, cand)
		}
	}

	verdicts := map[string]models.FeasibilityVerdict{}
	if len(availableSubset) > 0 {
		groups := GroupBySignature(availableSubset)
		logger.Debug("classifying constraint groups",
			zap.Int("candidates", len(availableSubset)),
			zap.Int("groups", len(groups)))
		verdicts = Classify(ctx, Classifier{
			Provider:           s.Routing,
			DefaultConstraints: []models.TravelConstraint{{DistanceMeters: s.Opts.DefaultMaxDistanceMeters}},
			MaxConcurrent:      s.Opts.GeoConcurrency,
			Logger:             logger,
		}, groups, req.PatientGeo)
	}

	// A superseded request must discard its in-flight work.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Aggregate(candidates, availability, verdicts), nil
}

func (s *DefaultMatchingService) evaluateCandidate(ctx context.Context, rc RequestContext, run *matchRun, t models.Therapist, input EvaluationInput) evalOutcome {
	bookings, err := s.Repo.GetActiveBookings(ctx, t.ID)
	if err != nil {
		return evalOutcome{err: err}
	}

	key := memoKey{
		candidateID: t.ID,
		instant:     input.Instant.Unix(),
		allDay:      input.AllDay,
		date:        input.Date,
		exclude:     input.ExcludeBookingID,
	}
	result, ok := run.lookup(key)
	if !ok {
		schedule := t.Schedule
		result = s.evaluator.Evaluate(rc, &schedule, bookings, input)
		run.store(key, result)
	}

	return evalOutcome{
		candidate: models.Candidate{
			ID:          t.ID,
			Anchor:      anchorPoint(t, bookings, anchorReference(input)),
			Gender:      t.Profile.Gender,
			Constraints: t.TravelConstraints,
		},
		result: result,
	}
}

// anchorReference picks the instant bookings are compared against when
// choosing the travel anchor.
func anchorReference(input EvaluationInput) time.Time {
	if !input.AllDay {
		return input.Instant
	}
	if day, err := time.Parse("2006-01-02", input.Date); err == nil {
		return day
	}
	return time.Now()
}

// anchorPoint prefers the location of the temporally nearest existing visit
// over the home address, modeling that the therapist travels between
// adjacent visits rather than from home.
func anchorPoint(t models.Therapist, bookings []models.ExistingBooking, reference time.Time) models.GeoPoint {
	anchor := t.Profile.HomeGeo
	var best time.Duration = -1
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled || !b.Location.Valid() {
			continue
		}
		gap := b.Start.Sub(reference)
		if gap < 0 {
			gap = -gap
		}
		if best < 0 || gap < best {
			best = gap
			anchor = b.Location
		}
	}
	return anchor
}

func validateRequest(req models.MatchRequest) error {
	if req.ServiceID == "" || req.Region == "" {
		return NewMatchError("serviceId and region are required", nil)
	}
	if !req.PatientGeo.Valid() {
		return NewMatchError("patient coordinates are required", nil)
	}
	if req.AllDay {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			return NewMatchError(fmt.Sprintf("all-day requests need a valid date, got %q", req.Date), err)
		}
		return nil
	}
	if req.RequestedTime.IsZero() {
		return NewMatchError("requestedTime is required unless allDay is set", nil)
	}
	return nil
}
