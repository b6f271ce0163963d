package geo

// Region is a named region center in the gazetteer.
type Region struct {
	Name   string
	Center Coordinate
}

// Gazetteer is a fixed, ordered table of named region centers used for
// nearest-region classification. Table order is the tie-break: when two
// regions are equidistant, the earlier entry wins.
type Gazetteer struct {
	regions []Region
}

// NewGazetteer creates a gazetteer preserving the given region order.
func NewGazetteer(regions []Region) Gazetteer {
	rs := make([]Region, len(regions))
	copy(rs, regions)
	return Gazetteer{regions: rs}
}

// Regions returns the region table in order.
func (g Gazetteer) Regions() []Region { return g.regions }

// IsEmpty reports whether the gazetteer has no entries.
func (g Gazetteer) IsEmpty() bool { return len(g.regions) == 0 }

// Nearest returns the name of the region whose center is closest to the
// coordinate. Returns "" and false only for an empty gazetteer.
func (g Gazetteer) Nearest(c Coordinate) (string, bool) {
	if len(g.regions) == 0 {
		return "", false
	}

	best := g.regions[0].Name
	bestDist := Distance(c, g.regions[0].Center)
	for _, r := range g.regions[1:] {
		if d := Distance(c, r.Center); d < bestDist {
			best = r.Name
			bestDist = d
		}
	}
	return best, true
}

// DefaultGazetteer returns the built-in table of Seoul district centers.
// Deployments with a different service area override it in config.
func DefaultGazetteer() Gazetteer {
	return NewGazetteer([]Region{
		{Name: "강남", Center: Coordinate{Lat: 37.498, Lng: 127.028}},
		{Name: "홍대", Center: Coordinate{Lat: 37.557, Lng: 126.925}},
		{Name: "잠실", Center: Coordinate{Lat: 37.513, Lng: 127.100}},
		{Name: "성수", Center: Coordinate{Lat: 37.544, Lng: 127.056}},
		{Name: "이태원", Center: Coordinate{Lat: 37.534, Lng: 126.994}},
		{Name: "신촌", Center: Coordinate{Lat: 37.555, Lng: 126.937}},
		{Name: "건대", Center: Coordinate{Lat: 37.540, Lng: 127.069}},
		{Name: "노원", Center: Coordinate{Lat: 37.655, Lng: 127.061}},
	})
}
