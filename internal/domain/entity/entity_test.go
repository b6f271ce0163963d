package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/ondo-cloud/proxi/internal/domain/geo"
)

func validAnchor() *GeoAnchor {
	return &GeoAnchor{
		Coordinate: geo.Coordinate{Lat: 37.498, Lng: 127.028},
		Geohash:    "wydm6u",
		Region:     "강남",
	}
}

func TestNew_Valid(t *testing.T) {
	e, err := New(
		"listing-1", KindListing, validAnchor(),
		map[string]string{FieldCategory: "camera", FieldBrand: "Canon"},
		map[string]float64{FieldPrice: 250000},
		map[string]bool{FieldNegotiable: true},
		[]string{"캐논 EOS R6", "풀프레임 미러리스"},
		time.Now(), StatusActive, 3,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID() != "listing-1" || e.Kind() != KindListing {
		t.Fatalf("wrong identity: %s %s", e.ID(), e.Kind())
	}
	if v, ok := e.Numeric(FieldPrice); !ok || v != 250000 {
		t.Fatalf("price not preserved: %f %v", v, ok)
	}
}

func TestNew_Invalid(t *testing.T) {
	anchor := validAnchor()
	badAnchor := &GeoAnchor{Coordinate: geo.Coordinate{Lat: 95, Lng: 127}}
	now := time.Now()

	tests := []struct {
		name   string
		id     string
		kind   Kind
		anchor *GeoAnchor
		title  []string
		status Status
	}{
		{"empty id", "", KindVenue, anchor, []string{"t"}, StatusActive},
		{"bad id chars", "a b", KindVenue, anchor, []string{"t"}, StatusActive},
		{"bad kind", "a", Kind("shop"), anchor, []string{"t"}, StatusActive},
		{"out-of-range coords", "a", KindVenue, badAnchor, []string{"t"}, StatusActive},
		{"no title", "a", KindVenue, anchor, nil, StatusActive},
		{"bad status", "a", KindVenue, anchor, []string{"t"}, Status("archived")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.kind, tt.anchor, nil, nil, nil, tt.title, now, tt.status, 0)
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_StatusDefaultsToActive(t *testing.T) {
	e, err := New("a", KindVenue, nil, nil, nil, nil, []string{"t"}, time.Now(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status() != StatusActive {
		t.Fatalf("want active, got %s", e.Status())
	}
}

func TestSearchBlob(t *testing.T) {
	e := Reconstruct(
		"l1", KindListing, validAnchor(),
		map[string]string{FieldBrand: "Canon"},
		nil, nil,
		[]string{"EOS R6", "Full Frame"},
		time.Now(), StatusActive, 0,
	)

	blob := e.SearchBlob()
	for _, want := range []string{"eos r6", "full frame", "강남", "canon"} {
		if !strings.Contains(blob, want) {
			t.Fatalf("blob %q missing %q", blob, want)
		}
	}
	if blob != strings.ToLower(blob) {
		t.Fatalf("blob not case-folded: %q", blob)
	}
}

func TestNew_ClonesInputs(t *testing.T) {
	tags := map[string]string{FieldCategory: "camera"}
	e, err := New("a", KindListing, nil, tags, nil, nil, []string{"t"}, time.Now(), StatusActive, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tags[FieldCategory] = "mutated"
	if v, _ := e.Tag(FieldCategory); v != "camera" {
		t.Fatalf("entity observed caller mutation: %q", v)
	}
}
