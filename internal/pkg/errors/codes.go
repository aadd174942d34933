package errors

import "net/http"

var (
	ErrStationNotFound = New(
		"STATION_NOT_FOUND",
		"Station not found",
		http.StatusNotFound,
	)

	ErrStateNotFound = New(
		"STATE_NOT_FOUND",
		"No stations registered for this state",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrMissingSearchQuery = New(
		"MISSING_SEARCH_QUERY",
		"Search query parameter is required",
		http.StatusBadRequest,
	)

	ErrInvalidSortField = New(
		"INVALID_SORT_FIELD",
		"Unknown price field for sorting",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrSnapshotUnavailable = New(
		"SNAPSHOT_UNAVAILABLE",
		"No dataset snapshot has been published yet",
		http.StatusInternalServerError,
	)

	ErrStoreError = New(
		"STORE_ERROR",
		"Snapshot store operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
