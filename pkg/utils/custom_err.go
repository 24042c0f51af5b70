package utils

import "errors"

var (
	ErrRoadTripNotFound   = errors.New("road trip not found")
	ErrWaypointNotFound   = errors.New("waypoint not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUpstreamFailure    = errors.New("upstream failure")
	ErrDatabaseError      = errors.New("database error")
)
