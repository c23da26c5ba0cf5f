package matching

import (
	"strings"

	"visitcare/models"
)

// FilterCriteria narrows the raw therapist pool before any expensive check.
type FilterCriteria struct {
	ServiceID        string
	Region           string
	GenderPreference string
	// RegionAliases maps a metro region id to the wider administrative
	// area whose therapists it also admits.
	RegionAliases map[string]string
}

// FilterCandidates restricts the pool to active therapists offering the
// service with usable coordinates, applies the region rule, de-duplicates by
// id and applies the gender preference. Output order is unspecified;
// ordering is the aggregator's concern.
func FilterCandidates(pool []models.Therapist, crit FilterCriteria) []models.Therapist {
	seen := make(map[string]bool, len(pool))
	var filtered []models.Therapist

	for _, t := range pool {
		if !t.Profile.Active || !t.OffersService(crit.ServiceID) {
			continue
		}
		if !t.Profile.HomeGeo.Valid() {
			continue
		}
		if !regionAdmits(t, crit.Region, crit.RegionAliases) {
			continue
		}
		if seen[t.ID] {
			continue
		}
		if !genderMatches(t.Profile.Gender, crit.GenderPreference) {
			continue
		}
		seen[t.ID] = true
		filtered = append(filtered, t)
	}
	return filtered
}

// regionAdmits applies the region rule: a therapist whose schedule is
// region-restricted must be anchored in the requested region (or a region
// the requested one aliases to); unrestricted therapists are admitted
// regardless of region.
func regionAdmits(t models.Therapist, region string, aliases map[string]string) bool {
	if !t.Schedule.RegionRestricted {
		return true
	}
	anchor := strings.ToLower(strings.TrimSpace(t.Profile.Region))
	requested := strings.ToLower(strings.TrimSpace(region))
	if anchor == requested {
		return true
	}
	if alias, ok := aliases[requested]; ok && anchor == strings.ToLower(alias) {
		return true
	}
	return false
}

func genderMatches(gender, preference string) bool {
	preference = strings.TrimSpace(preference)
	if preference == "" || strings.EqualFold(preference, models.GenderNoPreference) {
		return true
	}
	return strings.EqualFold(gender, preference)
}
