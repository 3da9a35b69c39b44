package geo

import (
	"math"
	"testing"
)

func TestHaversineKMZero(t *testing.T) {
	if d := HaversineKM(40.7128, -74.0060, 40.7128, -74.0060); d != 0 {
		t.Errorf("same point distance = %v, want 0", d)
	}
}

func TestHaversineKMKnownPair(t *testing.T) {
	// Manhattan to JFK, roughly 21km.
	d := HaversineKM(40.7128, -74.0060, 40.6413, -73.7781)
	if math.Abs(d-21.3) > 1.0 {
		t.Errorf("NYC to JFK = %v km, want ~21.3", d)
	}
}

func TestHaversineKMSymmetric(t *testing.T) {
	a := HaversineKM(51.5074, -0.1278, 48.8566, 2.3522)
	b := HaversineKM(48.8566, 2.3522, 51.5074, -0.1278)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}
