package filter

import (
	"testing"
	"time"

	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
)

func f64(v float64) *float64 { return &v }

func listingAt(id string, lat, lng float64, price float64) entity.Entity {
	return entity.Reconstruct(
		id, entity.KindListing,
		&entity.GeoAnchor{Coordinate: geo.Coordinate{Lat: lat, Lng: lng}, Region: "강남"},
		map[string]string{entity.FieldCategory: "camera"},
		map[string]float64{entity.FieldPrice: price},
		map[string]bool{entity.FieldNegotiable: true},
		[]string{"Canon EOS R6", "mirrorless body"},
		time.Now(), entity.StatusActive, 0,
	)
}

func TestApply_EmptyPipelineIsIdentity(t *testing.T) {
	items := []entity.Entity{
		listingAt("a", 37.5, 127.0, 100),
		listingAt("b", 37.6, 127.1, 200),
	}
	out := Apply(nil, items)
	if len(out) != len(items) {
		t.Fatalf("identity violated: %d != %d", len(out), len(items))
	}
	for i := range out {
		if out[i].ID() != items[i].ID() {
			t.Fatalf("order changed at %d: %s != %s", i, out[i].ID(), items[i].ID())
		}
	}
}

func TestGeoRadius_ExactCutCorrectsBoundingBox(t *testing.T) {
	center := geo.Coordinate{Lat: 37.5, Lng: 127.0}
	// ~4.9km north vs ~5.1km north of center (1 deg lat ~ 111km).
	near := listingAt("near", 37.5+4.9/111.0, 127.0, 100)
	far := listingAt("far", 37.5+5.1/111.0, 127.0, 100)

	box := geo.BoundingBoxAround(center, 5)
	if !box.Contains(near.Geo().Coordinate) || !box.Contains(far.Geo().Coordinate) {
		t.Fatal("both candidates should pass the coarse box")
	}

	p, err := NewGeoRadius(center, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := Apply([]Predicate{p}, []entity.Entity{near, far})
	if len(out) != 1 || out[0].ID() != "near" {
		t.Fatalf("exact cut failed: %v", ids(out))
	}
}

func TestGeoRadius_Idempotent(t *testing.T) {
	center := geo.Coordinate{Lat: 37.5, Lng: 127.0}
	items := []entity.Entity{
		listingAt("a", 37.51, 127.0, 0),
		listingAt("b", 37.7, 127.0, 0),
		listingAt("c", 37.5, 127.02, 0),
	}
	p, _ := NewGeoRadius(center, 5)

	once := Apply([]Predicate{p}, items)
	twice := Apply([]Predicate{p}, once)
	if len(once) != len(twice) {
		t.Fatalf("not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID() != twice[i].ID() {
			t.Fatalf("order changed on second cut at %d", i)
		}
	}
}

func TestGeoRadius_MissingAnchorExcluded(t *testing.T) {
	noGeo := entity.Reconstruct("x", entity.KindListing, nil, nil, nil, nil,
		[]string{"t"}, time.Now(), entity.StatusActive, 0)
	p, _ := NewGeoRadius(geo.Coordinate{Lat: 37.5, Lng: 127.0}, 100)
	if p.Matches(&noGeo) {
		t.Fatal("entity without coordinates must be treated as infinitely far")
	}
}

func TestRange_InclusiveBounds(t *testing.T) {
	p, err := NewRange(entity.FieldPrice, f64(10000), f64(50000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := []entity.Entity{
		listingAt("low", 37.5, 127.0, 5000),
		listingAt("mid", 37.5, 127.0, 20000),
		listingAt("high", 37.5, 127.0, 60000),
		listingAt("min-edge", 37.5, 127.0, 10000),
		listingAt("max-edge", 37.5, 127.0, 50000),
	}
	out := Apply([]Predicate{p}, items)
	want := map[string]bool{"mid": true, "min-edge": true, "max-edge": true}
	if len(out) != 3 {
		t.Fatalf("want 3 survivors, got %v", ids(out))
	}
	for _, e := range out {
		if !want[e.ID()] {
			t.Fatalf("unexpected survivor %s", e.ID())
		}
	}
}

func TestRange_NonPositiveBoundIsUnbounded(t *testing.T) {
	p, err := NewRange(entity.FieldPrice, f64(-5), f64(50000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if min, _ := p.Bounds(); min != nil {
		t.Fatalf("negative min should be dropped, got %f", *min)
	}
	cheap := listingAt("cheap", 37.5, 127.0, 1)
	if !p.Matches(&cheap) {
		t.Fatal("unbounded min should admit any price below max")
	}

	if _, err := NewRange(entity.FieldPrice, f64(-1), nil); err == nil {
		t.Fatal("range with no effective bound should be rejected")
	}
}

func TestRange_MissingNumericExcluded(t *testing.T) {
	p, _ := NewRange(entity.FieldArea, f64(10), f64(40))
	e := listingAt("no-area", 37.5, 127.0, 100)
	if p.Matches(&e) {
		t.Fatal("entity without the numeric attribute must not match a range facet")
	}
}

func TestIn_MembershipIncludingRegionAndStatus(t *testing.T) {
	e := listingAt("a", 37.5, 127.0, 100)

	region, _ := NewIn("region", []string{"홍대", "강남"})
	if !region.Matches(&e) {
		t.Fatal("region membership should read the denormalized anchor label")
	}

	status, _ := NewIn("status", []string{"sold"})
	if status.Matches(&e) {
		t.Fatal("active entity should not match sold status facet")
	}
}

func TestBool_StrictEquality(t *testing.T) {
	e := listingAt("a", 37.5, 127.0, 100)

	yes, _ := NewBool(entity.FieldNegotiable, true)
	no, _ := NewBool(entity.FieldNegotiable, false)
	if !yes.Matches(&e) || no.Matches(&e) {
		t.Fatal("boolean facet must be a strict equality")
	}

	// Absent attribute reads as false.
	unset, _ := NewBool(entity.FieldParking, false)
	if !unset.Matches(&e) {
		t.Fatal("absent boolean attribute should read as false")
	}
}

func TestTextContains_CaseFolded(t *testing.T) {
	e := listingAt("a", 37.5, 127.0, 100)
	p, err := NewTextContains("  EOS r6 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Matches(&e) {
		t.Fatal("case-folded substring should hit the blob")
	}
	miss, _ := NewTextContains("nikon")
	if miss.Matches(&e) {
		t.Fatal("non-substring should not hit")
	}
}

func TestApply_StageOrderGeoFirstTextLast(t *testing.T) {
	text, _ := NewTextContains("canon")
	rng, _ := NewRange(entity.FieldPrice, f64(1), nil)
	radius, _ := NewGeoRadius(geo.Coordinate{Lat: 37.5, Lng: 127.0}, 5)

	preds := []Predicate{text, rng, radius}
	stages := []Stage{StageGeo, StageRange, StageText}

	// Apply sorts stably by stage; verify the declared stage ranks.
	if radius.Stage() != stages[0] || rng.Stage() != stages[1] || text.Stage() != stages[2] {
		t.Fatal("stage ranks out of order")
	}

	items := []entity.Entity{listingAt("a", 37.5, 127.0, 100)}
	out := Apply(preds, items)
	if len(out) != 1 {
		t.Fatalf("pipeline dropped a matching candidate: %v", ids(out))
	}
}

func TestNewPredicates_Invalid(t *testing.T) {
	if _, err := NewEq("", "v"); err == nil {
		t.Fatal("empty field should be rejected")
	}
	if _, err := NewIn("category", nil); err == nil {
		t.Fatal("empty membership list should be rejected")
	}
	if _, err := NewTextContains("   "); err == nil {
		t.Fatal("blank query should be rejected")
	}
	if _, err := NewGeoRadius(geo.Coordinate{Lat: 91, Lng: 0}, 5); err == nil {
		t.Fatal("invalid center should be rejected")
	}
	if _, err := NewGeoRadius(geo.Coordinate{Lat: 37, Lng: 127}, 0); err == nil {
		t.Fatal("zero radius should be rejected")
	}
}

func ids(items []entity.Entity) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID()
	}
	return out
}
