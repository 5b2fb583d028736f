package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrMarketDataUnavailable is returned when a market could not be fetched
	ErrMarketDataUnavailable = errors.New("market data unavailable")

	// ErrSnapshotNotFound is returned when a stored snapshot does not exist
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSemanticMatchUnavailable is returned when the AI matching delegate
	// is disabled or failed; callers fall back to keyword matching
	ErrSemanticMatchUnavailable = errors.New("semantic matcher unavailable")
)
