package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search request or filter.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidCoordinate signals an out-of-range latitude or longitude.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrNotFound signals a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable signals a store-level query failure. The search
	// facade converts it to an empty result (fail-soft); the write path
	// propagates it.
	ErrStoreUnavailable = errors.New("store unavailable")
)
