package matching

import (
	"context"
	"sync"

	"visitcare/models"
	"visitcare/services/routing"

	"go.uber.org/zap"
)

// Classifier runs the grouped isoline fan-out and classifies each
// candidate's anchor point against the returned regions.
type Classifier struct {
	Provider routing.Provider
	// DefaultConstraints serve groups whose profile is empty.
	DefaultConstraints []models.TravelConstraint
	// MaxConcurrent bounds the number of in-flight group computations.
	MaxConcurrent int
	Logger        *zap.Logger
}

// Classify fans out one worker per constraint group. A provider failure is
// confined to its group: every member gets feasible=false with
// ReasonGeoProviderError while sibling groups classify normally.
func Classify(ctx context.Context, c Classifier, groups []ConstraintGroup, origin models.GeoPoint) map[string]models.FeasibilityVerdict {
	verdicts := make(map[string]models.FeasibilityVerdict)
	if len(groups) == 0 {
		return verdicts
	}

	limit := c.MaxConcurrent
	if limit <= 0 {
		limit = 4
	}
	sem := make(chan struct{}, limit)
	results := make(chan []models.FeasibilityVerdict, len(groups))
	var wg sync.WaitGroup

	for _, group := range groups {
		wg.Add(1)
		go func(group ConstraintGroup) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- classifyGroup(ctx, c, group, origin)
		}(group)
	}

	wg.Wait()
	close(results)

	for batch := range results {
		for _, v := range batch {
			verdicts[v.CandidateID] = v
		}
	}
	return verdicts
}

func classifyGroup(ctx context.Context, c Classifier, group ConstraintGroup, origin models.GeoPoint) []models.FeasibilityVerdict {
	constraints := group.Constraints
	if len(constraints) == 0 {
		constraints = c.DefaultConstraints
	}

	originPt := routing.Point{Lat: origin.Lat(), Lng: origin.Lng()}
	var polygons []routing.Polygon
	for _, tc := range constraints {
		for _, rc := range toRoutingConstraints(tc) {
			polys, err := c.Provider.Isoline(ctx, originPt, rc)
			if err != nil {
				if c.Logger != nil {
					c.Logger.Warn("isoline request failed",
						zap.String("signature", group.Signature),
						zap.Error(err))
				}
				return failGroup(group)
			}
			polygons = append(polygons, polys...)
		}
	}
	if len(polygons) == 0 {
		return failGroup(group)
	}

	verdicts := make([]models.FeasibilityVerdict, 0, len(group.Members))
	for _, member := range group.Members {
		pt := routing.Point{Lat: member.Anchor.Lat(), Lng: member.Anchor.Lng()}
		feasible := false
		for _, poly := range polygons {
			if poly.Contains(pt) {
				feasible = true
				break
			}
		}
		verdict := models.FeasibilityVerdict{CandidateID: member.ID, Feasible: feasible}
		if !feasible {
			verdict.Reason = "anchor location is outside the reachable area"
		}
		verdicts = append(verdicts, verdict)
	}
	return verdicts
}

// toRoutingConstraints expands one schedule constraint into its isoline
// requests. A rule may set a distance limit, a duration limit, or both;
// satisfying either one is sufficient, so each becomes its own region.
func toRoutingConstraints(tc models.TravelConstraint) []routing.Constraint {
	var constraints []routing.Constraint
	if tc.DistanceMeters > 0 {
		constraints = append(constraints, routing.Constraint{Type: routing.ConstraintDistance, Value: tc.DistanceMeters})
	}
	if tc.DurationSeconds > 0 {
		constraints = append(constraints, routing.Constraint{Type: routing.ConstraintDuration, Value: tc.DurationSeconds})
	}
	return constraints
}

func failGroup(group ConstraintGroup) []models.FeasibilityVerdict {
	verdicts := make([]models.FeasibilityVerdict, 0, len(group.Members))
	for _, member := range group.Members {
		verdicts = append(verdicts, models.FeasibilityVerdict{
			CandidateID: member.ID,
			Feasible:    false,
			Reason:      ReasonGeoProviderError,
		})
	}
	return verdicts
}
