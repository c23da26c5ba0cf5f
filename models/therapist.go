package models

import (
	"strings"
	"time"
)

// TravelConstraint is one distance or duration limit from a therapist's
// travel-feasibility profile. Either field may be zero; an entry with both
// fields zero (or negative values) is malformed and dropped during grouping.
type TravelConstraint struct {
	DistanceMeters  int `bson:"distanceMeters,omitempty" json:"distanceMeters,omitempty"`
	DurationSeconds int `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
}

// TherapistProfile holds the public-facing and filtering fields.
type TherapistProfile struct {
	Name     string   `bson:"name" json:"name"`
	Gender   string   `bson:"gender" json:"gender"`
	Region   string   `bson:"region" json:"region"`
	Address  string   `bson:"address,omitempty" json:"address,omitempty"`
	Active   bool     `bson:"active" json:"active"`
	HomeGeo  GeoPoint `bson:"homeGeo" json:"homeGeo"`
	Services []string `bson:"services" json:"services"`
}

// Therapist is the pool entry the matching engine works against.
type Therapist struct {
	ID                string             `bson:"id" json:"id"`
	Profile           TherapistProfile   `bson:"profile" json:"profile"`
	Schedule          ScheduleModel      `bson:"schedule" json:"schedule"`
	TravelConstraints []TravelConstraint `bson:"travelConstraints,omitempty" json:"travelConstraints,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// OffersService reports whether the therapist offers the given service.
func (t Therapist) OffersService(serviceID string) bool {
	for _, s := range t.Profile.Services {
		if strings.EqualFold(s, serviceID) {
			return true
		}
	}
	return false
}
