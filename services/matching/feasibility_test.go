package matching

import (
	"context"
	"sync"
	"testing"

	"visitcare/models"
	"visitcare/services/routing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns an axis-aligned polygon around a center point.
func square(lat, lng, half float64) routing.Polygon {
	return routing.Polygon{Outer: routing.Ring{
		{Lat: lat - half, Lng: lng - half},
		{Lat: lat - half, Lng: lng + half},
		{Lat: lat + half, Lng: lng + half},
		{Lat: lat + half, Lng: lng - half},
	}}
}

// fakeProvider serves canned polygons per constraint and can fail selectively.
type fakeProvider struct {
	mu       sync.Mutex
	calls    []routing.Constraint
	failFor  map[string]bool // keyed by constraint type
	polygons map[string][]routing.Polygon
	fallback []routing.Polygon
}

func (f *fakeProvider) Isoline(_ context.Context, _ routing.Point, c routing.Constraint) ([]routing.Polygon, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.failFor[c.Type] {
		return nil, &routing.ProviderError{Status: 503, Message: "upstream timeout"}
	}
	if polys, ok := f.polygons[c.Type]; ok {
		return polys, nil
	}
	return f.fallback, nil
}

var patientGeo = models.NewGeoPoint(1.0, 2.0)

func TestClassifyInsideAndOutside(t *testing.T) {
	provider := &fakeProvider{fallback: []routing.Polygon{square(1.0, 2.0, 0.5)}}
	inside := models.Candidate{ID: "x", Anchor: models.NewGeoPoint(1.0, 2.2), Constraints: []models.TravelConstraint{{DistanceMeters: 5000}}}
	outside := models.Candidate{ID: "z", Anchor: models.NewGeoPoint(5.0, 5.0), Constraints: []models.TravelConstraint{{DistanceMeters: 5000}}}

	groups := GroupBySignature([]models.Candidate{inside, outside})
	verdicts := Classify(context.Background(), Classifier{Provider: provider}, groups, patientGeo)

	require.Len(t, verdicts, 2)
	assert.True(t, verdicts["x"].Feasible)
	assert.False(t, verdicts["z"].Feasible)
	assert.NotEmpty(t, verdicts["z"].Reason)
	// One grouped fan-out, one isoline call.
	assert.Len(t, provider.calls, 1)
}

func TestClassifyAnyConstraintSuffices(t *testing.T) {
	// The distance region misses the anchor, the duration region covers it.
	provider := &fakeProvider{polygons: map[string][]routing.Polygon{
		routing.ConstraintDistance: {square(9.0, 9.0, 0.1)},
		routing.ConstraintDuration: {square(1.0, 2.0, 1.0)},
	}}
	cand := models.Candidate{
		ID:     "x",
		Anchor: models.NewGeoPoint(1.2, 2.2),
		Constraints: []models.TravelConstraint{
			{DistanceMeters: 5000, DurationSeconds: 1800},
		},
	}

	verdicts := Classify(context.Background(), Classifier{Provider: provider}, GroupBySignature([]models.Candidate{cand}), patientGeo)
	assert.True(t, verdicts["x"].Feasible)
	assert.Len(t, provider.calls, 2)
}

func TestClassifyFailureIsIsolatedPerGroup(t *testing.T) {
	provider := &fakeProvider{
		failFor:  map[string]bool{routing.ConstraintDistance: true},
		polygons: map[string][]routing.Polygon{routing.ConstraintDuration: {square(1.0, 2.0, 0.5)}},
	}
	groupA := models.Candidate{ID: "a", Anchor: models.NewGeoPoint(1.0, 2.1), Constraints: []models.TravelConstraint{{DistanceMeters: 5000}}}
	groupB1 := models.Candidate{ID: "b1", Anchor: models.NewGeoPoint(1.0, 2.1), Constraints: []models.TravelConstraint{{DurationSeconds: 1800}}}
	groupB2 := models.Candidate{ID: "b2", Anchor: models.NewGeoPoint(7.0, 7.0), Constraints: []models.TravelConstraint{{DurationSeconds: 1800}}}

	verdicts := Classify(context.Background(), Classifier{Provider: provider},
		GroupBySignature([]models.Candidate{groupA, groupB1, groupB2}), patientGeo)

	require.Len(t, verdicts, 3)
	assert.False(t, verdicts["a"].Feasible)
	assert.Equal(t, ReasonGeoProviderError, verdicts["a"].Reason)
	assert.True(t, verdicts["b1"].Feasible, "sibling group must classify normally")
	assert.False(t, verdicts["b2"].Feasible)
	assert.NotEqual(t, ReasonGeoProviderError, verdicts["b2"].Reason)
}

func TestClassifyDefaultProfile(t *testing.T) {
	provider := &fakeProvider{fallback: []routing.Polygon{square(1.0, 2.0, 0.5)}}
	cand := models.Candidate{ID: "x", Anchor: models.NewGeoPoint(1.0, 2.1)}

	verdicts := Classify(context.Background(), Classifier{
		Provider:           provider,
		DefaultConstraints: []models.TravelConstraint{{DistanceMeters: 10000}},
	}, GroupBySignature([]models.Candidate{cand}), patientGeo)

	assert.True(t, verdicts["x"].Feasible)
	require.Len(t, provider.calls, 1)
	assert.Equal(t, routing.ConstraintDistance, provider.calls[0].Type)
	assert.Equal(t, 10000, provider.calls[0].Value)
}
