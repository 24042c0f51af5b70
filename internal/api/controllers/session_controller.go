package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"roadtrip/internal/models/request_models"
	"roadtrip/internal/models/response_models"
	"roadtrip/internal/realtime"
	"roadtrip/internal/services"
	"roadtrip/pkg/utils"
)

type SessionController struct {
	sessionService services.SessionServiceInterface
	gateway        *realtime.Gateway
}

func NewSessionController(sessionService services.SessionServiceInterface, gateway *realtime.Gateway) *SessionController {
	return &SessionController{sessionService: sessionService, gateway: gateway}
}

// CreateSession godoc
// @Summary Start a live session, replacing any active one for the trip
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Success 201 {object} utils.APIResponse
// @Router /roadtrips/{id}/sessions [post]
func (s *SessionController) CreateSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	session, err := s.sessionService.CreateSession(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, session, "Live session started")
}

// GetActiveSession godoc
// @Summary The trip's unexpired session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roadtrips/{id}/sessions/active [get]
func (s *SessionController) GetActiveSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	session, err := s.sessionService.GetActiveSession(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, session, "")
}

// GetSession godoc
// @Summary A session whether or not it expired
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session id"
// @Success 200 {object} utils.APIResponse
// @Router /sessions/{sessionId} [get]
func (s *SessionController) GetSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := s.sessionService.GetSession(c.Request.Context(), userID, c.Param("sessionId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, session, "")
}

// ExtendSession godoc
// @Summary Push a session's expiry to now + hours (default 24)
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session id"
// @Param request body request_models.ExtendSessionRequest false "Hours"
// @Success 200 {object} utils.APIResponse
// @Router /sessions/{sessionId}/extend [patch]
func (s *SessionController) ExtendSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.ExtendSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	session, err := s.sessionService.ExtendSession(c.Request.Context(), userID, c.Param("sessionId"), req.Hours)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, session, "Session extended")
}

// EndSession godoc
// @Summary End a session; ending one that is already gone succeeds
// @Tags Sessions
// @Security BearerAuth
// @Param sessionId path string true "Session id"
// @Success 204
// @Router /sessions/{sessionId} [delete]
func (s *SessionController) EndSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := s.sessionService.EndSession(c.Request.Context(), userID, c.Param("sessionId")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}

// GetUserActiveSessions godoc
// @Summary Unexpired sessions of every trip the caller takes part in
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /sessions/user/active [get]
func (s *SessionController) GetUserActiveSessions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sessions, err := s.sessionService.GetUserActiveSessions(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sessions, "")
}

// CleanupExpiredSessions godoc
// @Summary Delete every expired session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /sessions/cleanup [post]
func (s *SessionController) CleanupExpiredSessions(c *gin.Context) {
	n, err := s.sessionService.CleanupExpiredSessions(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.CleanupResponse{Deleted: n}, "")
}

// GetParticipants godoc
// @Summary Who is connected to a session right now
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session id"
// @Success 200 {object} utils.APIResponse
// @Router /sessions/{sessionId}/participants [get]
func (s *SessionController) GetParticipants(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionId")

	if _, err := s.sessionService.GetSession(c.Request.Context(), userID, sessionID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, s.gateway.Participants(sessionID), "")
}
