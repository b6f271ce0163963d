package geo

import (
	"math/rand"
	"testing"
)

func almost(a, b, eps float64) bool {
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func TestDistance_SamePoint(t *testing.T) {
	p := Coordinate{Lat: 37.5665, Lng: 126.9780}
	if d := Distance(p, p); d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestDistance_Seoul_Busan(t *testing.T) {
	// Seoul to Busan: ~325 km
	seoul := Coordinate{Lat: 37.5665, Lng: 126.9780}
	busan := Coordinate{Lat: 35.1796, Lng: 129.0756}
	d := Distance(seoul, busan)
	if !almost(d, 325, 5) {
		t.Fatalf("want ~325km, got %.1fkm", d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		a := Coordinate{Lat: rng.Float64()*180 - 90, Lng: rng.Float64()*360 - 180}
		b := Coordinate{Lat: rng.Float64()*180 - 90, Lng: rng.Float64()*360 - 180}
		if ab, ba := Distance(a, b), Distance(b, a); ab != ba {
			t.Fatalf("asymmetric distance: %f vs %f for %v %v", ab, ba, a, b)
		}
	}
}

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinate
		want bool
	}{
		{"seoul", Coordinate{37.5665, 126.9780}, true},
		{"lat boundary", Coordinate{90, 0}, true},
		{"lng boundary", Coordinate{0, -180}, true},
		{"lat too high", Coordinate{90.001, 0}, false},
		{"lat too low", Coordinate{-91, 0}, false},
		{"lng too high", Coordinate{0, 180.5}, false},
		{"lng too low", Coordinate{0, -181}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Fatalf("Valid(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestBoundingBoxAround_SupersetOfDisc(t *testing.T) {
	center := Coordinate{Lat: 37.5, Lng: 127.0}
	radius := 5.0
	box := BoundingBoxAround(center, radius)

	// Every point within the disc must fall inside the box.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		p := Coordinate{
			Lat: center.Lat + (rng.Float64()*2-1)*0.05,
			Lng: center.Lng + (rng.Float64()*2-1)*0.07,
		}
		if Distance(center, p) <= radius && !box.Contains(p) {
			t.Fatalf("point %v inside disc but outside box %v", p, box)
		}
	}
}

func TestBoundingBoxAround_LongitudeWidensWithLatitude(t *testing.T) {
	equator := BoundingBoxAround(Coordinate{Lat: 0, Lng: 0}, 10)
	north := BoundingBoxAround(Coordinate{Lat: 60, Lng: 0}, 10)

	eqWidth := equator.NorthEast.Lng - equator.SouthWest.Lng
	noWidth := north.NorthEast.Lng - north.SouthWest.Lng
	if noWidth <= eqWidth {
		t.Fatalf("lng delta at 60N (%f) should exceed equator (%f)", noWidth, eqWidth)
	}
}

func TestGazetteer_Nearest(t *testing.T) {
	g := NewGazetteer([]Region{
		{Name: "강남", Center: Coordinate{Lat: 37.498, Lng: 127.028}},
		{Name: "홍대", Center: Coordinate{Lat: 37.557, Lng: 126.925}},
	})

	name, ok := g.Nearest(Coordinate{Lat: 37.499, Lng: 127.029})
	if !ok || name != "강남" {
		t.Fatalf("want 강남, got %q (ok=%v)", name, ok)
	}
}

func TestGazetteer_Nearest_Deterministic(t *testing.T) {
	g := DefaultGazetteer()
	c := Coordinate{Lat: 37.55, Lng: 127.0}
	first, _ := g.Nearest(c)
	for i := 0; i < 10; i++ {
		if name, _ := g.Nearest(c); name != first {
			t.Fatalf("nondeterministic: %q then %q", first, name)
		}
	}
}

func TestGazetteer_Nearest_TieBreaksOnTableOrder(t *testing.T) {
	center := Coordinate{Lat: 37.5, Lng: 127.0}
	g := NewGazetteer([]Region{
		{Name: "first", Center: center},
		{Name: "second", Center: center},
	})
	if name, _ := g.Nearest(Coordinate{Lat: 37.6, Lng: 127.1}); name != "first" {
		t.Fatalf("tie should resolve to first table entry, got %q", name)
	}
}

func TestGazetteer_Nearest_Empty(t *testing.T) {
	var g Gazetteer
	if name, ok := g.Nearest(Coordinate{Lat: 37.5, Lng: 127.0}); ok || name != "" {
		t.Fatalf("empty gazetteer should return not-ok, got %q (ok=%v)", name, ok)
	}
}
