package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

var serviceErrors = []struct {
	err     error
	code    int
	message string
}{
	{ErrRoadTripNotFound, http.StatusNotFound, "Road trip not found"},
	{ErrWaypointNotFound, http.StatusNotFound, "Waypoint not found"},
	{ErrSessionNotFound, http.StatusNotFound, "Session not found"},
	{ErrUserNotFound, http.StatusNotFound, "User not found"},
	{ErrSessionExpired, http.StatusGone, "Session expired"},
	{ErrAccessDenied, http.StatusForbidden, "Access denied"},
	{ErrInvalidCoordinates, http.StatusBadRequest, "Latitude must be within [-90, 90] and longitude within [-180, 180]"},
	{ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{ErrEmailAlreadyExists, http.StatusConflict, "Email already registered"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrUpstreamFailure, http.StatusBadGateway, "Upstream service unavailable"},
}

// HandleServiceError maps a service sentinel to its HTTP status. Anything unrecognised,
// including ErrDatabaseError, is logged and reported as a 500.
func HandleServiceError(c *gin.Context, err error) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			RespondError(c, se.code, se.message)
			return
		}
	}

	Logger(c).Error("unhandled service error", zap.Error(err))
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}

// Logger returns the request-scoped logger installed by the logging middleware,
// or a no-op logger outside a request.
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}
