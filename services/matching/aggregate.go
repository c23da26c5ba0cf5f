package matching

import "visitcare/models"

// Aggregate joins temporal and geo verdicts per candidate and partitions the
// output: available & feasible first, then available & not feasible, then
// unavailable. Within a partition the candidate order is preserved; any
// further ranking is the caller's concern.
func Aggregate(candidates []models.Candidate, availability map[string]AvailabilityResult, feasibility map[string]models.FeasibilityVerdict) []models.MatchResult {
	var feasibleOnes, notFeasible, unavailable []models.MatchResult

	for _, cand := range candidates {
		avail := availability[cand.ID]
		result := models.MatchResult{
			CandidateID:         cand.ID,
			TemporallyAvailable: avail.Available,
		}

		if !avail.Available {
			result.UnavailableReason = avail.Reason()
			result.UnavailableDetails = avail.Details()
			result.State = models.StateUnavailable
			unavailable = append(unavailable, result)
			continue
		}

		verdict, classified := feasibility[cand.ID]
		switch {
		case !classified || verdict.Reason == ReasonGeoProviderError:
			feasible := false
			result.Feasible = &feasible
			result.FeasibilityReason = ReasonGeoProviderError
			result.State = models.StateFeasibilityUnknown
			notFeasible = append(notFeasible, result)
		case verdict.Feasible:
			feasible := true
			result.Feasible = &feasible
			result.State = models.StateFeasible
			feasibleOnes = append(feasibleOnes, result)
		default:
			feasible := false
			result.Feasible = &feasible
			result.FeasibilityReason = verdict.Reason
			result.State = models.StateNotFeasible
			notFeasible = append(notFeasible, result)
		}
	}

	merged := make([]models.MatchResult, 0, len(candidates))
	merged = append(merged, feasibleOnes...)
	merged = append(merged, notFeasible...)
	merged = append(merged, unavailable...)
	return merged
}
