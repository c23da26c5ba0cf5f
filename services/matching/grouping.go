package matching

import (
	"fmt"
	"sort"
	"strings"

	"visitcare/models"
)

// DefaultSignature keys the group of candidates with no usable travel
// constraints; the classifier substitutes the system default profile.
const DefaultSignature = "default"

// ConstraintGroup is a set of candidates sharing one normalized travel
// constraint profile, so a single isoline fan-out can serve all of them.
type ConstraintGroup struct {
	Signature   string
	Constraints []models.TravelConstraint
	Members     []models.Candidate
}

// NormalizeConstraints drops malformed entries (negative values, or neither
// limit set) and sorts the rest ascending by distance then duration, making
// the profile order-independent.
func NormalizeConstraints(constraints []models.TravelConstraint) []models.TravelConstraint {
	var normalized []models.TravelConstraint
	for _, c := range constraints {
		if c.DistanceMeters < 0 || c.DurationSeconds < 0 {
			continue
		}
		if c.DistanceMeters == 0 && c.DurationSeconds == 0 {
			continue
		}
		normalized = append(normalized, c)
	}
	sort.Slice(normalized, func(i, j int) bool {
		if normalized[i].DistanceMeters != normalized[j].DistanceMeters {
			return normalized[i].DistanceMeters < normalized[j].DistanceMeters
		}
		return normalized[i].DurationSeconds < normalized[j].DurationSeconds
	})
	return normalized
}

// Signature serializes a normalized profile to its canonical group key.
func Signature(constraints []models.TravelConstraint) string {
	normalized := NormalizeConstraints(constraints)
	if len(normalized) == 0 {
		return DefaultSignature
	}
	parts := make([]string, 0, len(normalized))
	for _, c := range normalized {
		parts = append(parts, fmt.Sprintf("%d-%d", c.DistanceMeters, c.DurationSeconds))
	}
	return strings.Join(parts, "|")
}

// GroupBySignature partitions candidates into constraint groups. Groups are
// returned sorted by signature for deterministic fan-out.
func GroupBySignature(candidates []models.Candidate) []ConstraintGroup {
	index := make(map[string]*ConstraintGroup)
	for _, cand := range candidates {
		sig := Signature(cand.Constraints)
		group, ok := index[sig]
		if !ok {
			group = &ConstraintGroup{
				Signature:   sig,
				Constraints: NormalizeConstraints(cand.Constraints),
			}
			index[sig] = group
		}
		group.Members = append(group.Members, cand)
	}

	groups := make([]ConstraintGroup, 0, len(index))
	for _, g := range index {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Signature < groups[j].Signature })
	return groups
}
