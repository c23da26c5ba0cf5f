package routing

import (
	"context"
	"fmt"
)

// Constraint types accepted by an isoline request.
const (
	ConstraintDistance = "distance" // value in meters
	ConstraintDuration = "duration" // value in seconds
)

// Constraint is one reachability limit for an isoline computation.
type Constraint struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Provider computes reachable-region polygons around an origin point.
// Implementations must surface failures as a *ProviderError, never panic.
type Provider interface {
	Isoline(ctx context.Context, origin Point, constraint Constraint) ([]Polygon, error)
}

// ProviderError is a typed failure from the routing provider.
type ProviderError struct {
	Status  int
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("routing provider error (status %d): %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("routing provider error (status %d): %s", e.Status, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
