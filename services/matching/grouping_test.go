package matching

import (
	"testing"

	"visitcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureIsOrderIndependent(t *testing.T) {
	first := []models.TravelConstraint{{DistanceMeters: 5000}, {DurationSeconds: 1800}}
	second := []models.TravelConstraint{{DurationSeconds: 1800}, {DistanceMeters: 5000}}

	assert.Equal(t, Signature(first), Signature(second))
	assert.Equal(t, "0-1800|5000-0", Signature(first))
}

func TestSignatureDropsMalformedEntries(t *testing.T) {
	constraints := []models.TravelConstraint{
		{DistanceMeters: -100},
		{},
		{DistanceMeters: 5000},
	}
	assert.Equal(t, "5000-0", Signature(constraints))

	// A fully malformed profile falls back to the default group.
	assert.Equal(t, DefaultSignature, Signature([]models.TravelConstraint{{DistanceMeters: -1}}))
	assert.Equal(t, DefaultSignature, Signature(nil))
}

func TestGroupBySignature(t *testing.T) {
	candA := models.Candidate{ID: "a", Constraints: []models.TravelConstraint{{DistanceMeters: 5000}, {DurationSeconds: 1800}}}
	candB := models.Candidate{ID: "b", Constraints: []models.TravelConstraint{{DurationSeconds: 1800}, {DistanceMeters: 5000}}}
	candC := models.Candidate{ID: "c"}
	candD := models.Candidate{ID: "d", Constraints: []models.TravelConstraint{{DistanceMeters: 3000}}}

	groups := GroupBySignature([]models.Candidate{candA, candB, candC, candD})
	require.Len(t, groups, 3)

	bySig := make(map[string][]string)
	for _, g := range groups {
		for _, m := range g.Members {
			bySig[g.Signature] = append(bySig[g.Signature], m.ID)
		}
	}
	assert.ElementsMatch(t, []string{"a", "b"}, bySig["0-1800|5000-0"])
	assert.ElementsMatch(t, []string{"c"}, bySig[DefaultSignature])
	assert.ElementsMatch(t, []string{"d"}, bySig["3000-0"])

	// Deterministic fan-out order.
	assert.Equal(t, "0-1800|5000-0", groups[0].Signature)
	assert.Equal(t, "3000-0", groups[1].Signature)
	assert.Equal(t, DefaultSignature, groups[2].Signature)
}
