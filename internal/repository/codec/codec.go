// Package codec maps domain entities to and from the flat hash fields
// the store keeps. Both the catalog (write) and search (read) repositories
// share one encoding so records round-trip regardless of which side
// touched them last.
package codec

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ondo-cloud/proxi/internal/db"
	"github.com/ondo-cloud/proxi/internal/domain/entity"
	"github.com/ondo-cloud/proxi/internal/domain/geo"
)

// System hash fields. Attribute fields carry a type prefix so a brand
// named "300" never turns into a numeric on the way back.
const (
	fieldID        = "__id"
	fieldKind      = "__kind"
	fieldText      = "__text"
	fieldCreatedAt = "__created_at"
	fieldStatus    = "__status"
	fieldViews     = "__views"
	fieldLat       = "__lat"
	fieldLng       = "__lng"
	fieldGeohash   = "__geohash"
	fieldRegion    = "__region"

	tagPrefix  = "t:"
	numPrefix  = "n:"
	boolPrefix = "b:"
)

// OrderedFieldLat is the ordered-index field backing bounding-box range
// clauses.
const OrderedFieldLat = "lat"

// EncodeEntity converts a domain entity into the store write shape,
// including the secondary index memberships and ordered index scores.
func EncodeEntity(e *entity.Entity) (*db.EntityRecord, error) {
	fields := make(map[string]string, 10+len(e.Tags())+len(e.Numerics())+len(e.Bools()))

	fields[fieldID] = e.ID()
	fields[fieldKind] = string(e.Kind())
	fields[fieldStatus] = string(e.Status())
	fields[fieldCreatedAt] = e.CreatedAt().UTC().Format(time.RFC3339Nano)
	fields[fieldViews] = strconv.FormatInt(e.Views(), 10)

	text, err := json.Marshal(e.FreeText())
	if err != nil {
		return nil, err
	}
	fields[fieldText] = string(text)

	ordered := map[string]float64{}
	members := []db.Equality{{Field: "status", Value: string(e.Status())}}

	if anchor := e.Geo(); anchor != nil {
		fields[fieldLat] = strconv.FormatFloat(anchor.Coordinate.Lat, 'f', -1, 64)
		fields[fieldLng] = strconv.FormatFloat(anchor.Coordinate.Lng, 'f', -1, 64)
		fields[fieldGeohash] = anchor.Geohash
		fields[fieldRegion] = anchor.Region
		ordered[OrderedFieldLat] = anchor.Coordinate.Lat
		if anchor.Region != "" {
			members = append(members, db.Equality{Field: "region", Value: anchor.Region})
		}
	}

	for k, v := range e.Tags() {
		fields[tagPrefix+k] = v
		members = append(members, db.Equality{Field: k, Value: v})
	}
	for k, v := range e.Numerics() {
		fields[numPrefix+k] = strconv.FormatFloat(v, 'f', -1, 64)
		switch k {
		case entity.FieldPrice, entity.FieldArea:
			ordered[k] = v
		}
	}
	for k, v := range e.Bools() {
		fields[boolPrefix+k] = strconv.FormatBool(v)
	}

	return &db.EntityRecord{
		Kind:    string(e.Kind()),
		ID:      e.ID(),
		Fields:  fields,
		Ordered: ordered,
		Members: members,
	}, nil
}

// DecodeRecord hydrates a domain entity from a raw store record.
// Unknown "__"-prefixed fields (store-internal bookkeeping) are skipped.
func DecodeRecord(rec db.Record) entity.Entity {
	var (
		id, kind, region, ghash string
		status                  entity.Status
		freeText                []string
		createdAt               time.Time
		views                   int64
		lat, lng                float64
		hasLat, hasLng          bool
	)
	tags := make(map[string]string)
	numerics := make(map[string]float64)
	bools := make(map[string]bool)

	for k, v := range rec.Fields {
		switch {
		case k == fieldID:
			id = v
		case k == fieldKind:
			kind = v
		case k == fieldStatus:
			status = entity.Status(v)
		case k == fieldCreatedAt:
			createdAt, _ = time.Parse(time.RFC3339Nano, v)
		case k == fieldViews:
			views, _ = strconv.ParseInt(v, 10, 64)
		case k == fieldText:
			_ = json.Unmarshal([]byte(v), &freeText)
		case k == fieldLat:
			lat, _ = strconv.ParseFloat(v, 64)
			hasLat = true
		case k == fieldLng:
			lng, _ = strconv.ParseFloat(v, 64)
			hasLng = true
		case k == fieldGeohash:
			ghash = v
		case k == fieldRegion:
			region = v
		case strings.HasPrefix(k, tagPrefix):
			tags[k[len(tagPrefix):]] = v
		case strings.HasPrefix(k, numPrefix):
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				numerics[k[len(numPrefix):]] = f
			}
		case strings.HasPrefix(k, boolPrefix):
			if b, err := strconv.ParseBool(v); err == nil {
				bools[k[len(boolPrefix):]] = b
			}
		}
	}

	var anchor *entity.GeoAnchor
	if hasLat && hasLng {
		anchor = &entity.GeoAnchor{
			Coordinate: geo.Coordinate{Lat: lat, Lng: lng},
			Geohash:    ghash,
			Region:     region,
		}
	}

	return entity.Reconstruct(
		id, entity.Kind(kind), anchor,
		tags, numerics, bools,
		freeText, createdAt, status, views,
	)
}
