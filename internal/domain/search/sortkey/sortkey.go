package sortkey

// Key selects the result ordering when no geo center is supplied.
// A geo search always orders by distance and ignores the key.
type Key string

// Sort key constants.
const (
	// Latest orders by creation time, newest first (the default).
	Latest    Key = "latest"
	Oldest    Key = "oldest"
	PriceLow  Key = "price_low"
	PriceHigh Key = "price_high"
	// Popular orders by view count, descending.
	Popular Key = "popular"
)

// IsValid checks if the key is one of the supported values.
func (k Key) IsValid() bool {
	return k == Latest || k == Oldest || k == PriceLow || k == PriceHigh || k == Popular
}
