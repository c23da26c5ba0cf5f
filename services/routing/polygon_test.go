package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unitSquare() Polygon {
	return Polygon{Outer: Ring{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 1, Lng: 1},
		{Lat: 1, Lng: 0},
	}}
}

func TestPolygonContains(t *testing.T) {
	poly := unitSquare()

	assert.True(t, poly.Contains(Point{Lat: 0.5, Lng: 0.5}))
	assert.False(t, poly.Contains(Point{Lat: 1.5, Lng: 0.5}))
	assert.False(t, poly.Contains(Point{Lat: 0.5, Lng: -0.1}))
}

func TestPolygonContainsWithHole(t *testing.T) {
	poly := unitSquare()
	poly.Holes = []Ring{{
		{Lat: 0.4, Lng: 0.4},
		{Lat: 0.4, Lng: 0.6},
		{Lat: 0.6, Lng: 0.6},
		{Lat: 0.6, Lng: 0.4},
	}}

	assert.True(t, poly.Contains(Point{Lat: 0.2, Lng: 0.2}))
	assert.False(t, poly.Contains(Point{Lat: 0.5, Lng: 0.5}), "points inside a hole are outside the region")
}

func TestPolygonContainsConcave(t *testing.T) {
	// L-shaped region: the notch (top-right quadrant) is outside.
	poly := Polygon{Outer: Ring{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 2},
		{Lat: 1, Lng: 2},
		{Lat: 1, Lng: 1},
		{Lat: 2, Lng: 1},
		{Lat: 2, Lng: 0},
	}}

	assert.True(t, poly.Contains(Point{Lat: 0.5, Lng: 1.5}))
	assert.True(t, poly.Contains(Point{Lat: 1.5, Lng: 0.5}))
	assert.False(t, poly.Contains(Point{Lat: 1.5, Lng: 1.5}))
}

func TestDegenerateRing(t *testing.T) {
	poly := Polygon{Outer: Ring{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}}
	assert.False(t, poly.Contains(Point{Lat: 0.5, Lng: 0.5}))
}
