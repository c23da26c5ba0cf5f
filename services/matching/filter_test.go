package matching

import (
	"testing"

	"visitcare/models"

	"github.com/stretchr/testify/assert"
)

func poolTherapist(id, region, gender string, restricted bool) models.Therapist {
	return models.Therapist{
		ID: id,
		Profile: models.TherapistProfile{
			Name:     "T " + id,
			Gender:   gender,
			Region:   region,
			Active:   true,
			HomeGeo:  models.NewGeoPoint(1.0, 2.0),
			Services: []string{"physio-home"},
		},
		Schedule: models.ScheduleModel{Timezone: "UTC", RegionRestricted: restricted},
	}
}

func TestFilterCandidates(t *testing.T) {
	crit := FilterCriteria{ServiceID: "physio-home", Region: "r1"}

	t.Run("DropsInactiveWrongServiceAndZeroCoords", func(t *testing.T) {
		inactive := poolTherapist("a", "r1", "female", false)
		inactive.Profile.Active = false
		wrongService := poolTherapist("b", "r1", "female", false)
		wrongService.Profile.Services = []string{"speech-home"}
		noCoords := poolTherapist("c", "r1", "female", false)
		noCoords.Profile.HomeGeo = models.GeoPoint{Type: "Point", Coordinates: []float64{0, 0}}
		keeper := poolTherapist("d", "r1", "female", false)

		out := FilterCandidates([]models.Therapist{inactive, wrongService, noCoords, keeper}, crit)
		assert.Len(t, out, 1)
		assert.Equal(t, "d", out[0].ID)
	})

	t.Run("RegionRestrictedMustMatch", func(t *testing.T) {
		restrictedElsewhere := poolTherapist("a", "r2", "female", true)
		restrictedHere := poolTherapist("b", "r1", "female", true)
		unrestrictedElsewhere := poolTherapist("c", "r2", "female", false)

		out := FilterCandidates([]models.Therapist{restrictedElsewhere, restrictedHere, unrestrictedElsewhere}, crit)
		ids := []string{out[0].ID, out[1].ID}
		assert.Len(t, out, 2)
		assert.Contains(t, ids, "b")
		assert.Contains(t, ids, "c")
	})

	t.Run("MetroAliasAdmitsWiderArea", func(t *testing.T) {
		metroCrit := FilterCriteria{
			ServiceID:     "physio-home",
			Region:        "jakarta-metro",
			RegionAliases: map[string]string{"jakarta-metro": "jabodetabek"},
		}
		wider := poolTherapist("a", "jabodetabek", "female", true)
		other := poolTherapist("b", "bandung", "female", true)

		out := FilterCandidates([]models.Therapist{wider, other}, metroCrit)
		assert.Len(t, out, 1)
		assert.Equal(t, "a", out[0].ID)
	})

	t.Run("DeduplicatesByID", func(t *testing.T) {
		dup := poolTherapist("a", "r1", "female", false)
		out := FilterCandidates([]models.Therapist{dup, dup, dup}, crit)
		assert.Len(t, out, 1)
	})

	t.Run("GenderPreference", func(t *testing.T) {
		female := poolTherapist("a", "r1", "female", false)
		male := poolTherapist("b", "r1", "male", false)

		withPref := crit
		withPref.GenderPreference = "female"
		out := FilterCandidates([]models.Therapist{female, male}, withPref)
		assert.Len(t, out, 1)
		assert.Equal(t, "a", out[0].ID)

		noPref := crit
		noPref.GenderPreference = models.GenderNoPreference
		out = FilterCandidates([]models.Therapist{female, male}, noPref)
		assert.Len(t, out, 2)
	})
}
