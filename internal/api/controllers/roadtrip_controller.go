package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"roadtrip/internal/models/request_models"
	"roadtrip/internal/services"
	"roadtrip/pkg/utils"
)

type RoadTripController struct {
	roadTripService services.RoadTripServiceInterface
}

func NewRoadTripController(roadTripService services.RoadTripServiceInterface) *RoadTripController {
	return &RoadTripController{roadTripService: roadTripService}
}

// CreateRoadTrip godoc
// @Summary Create a road trip owned by the caller
// @Tags RoadTrips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateRoadTripRequest true "Road trip"
// @Success 201 {object} utils.APIResponse
// @Router /roadtrips [post]
func (r *RoadTripController) CreateRoadTrip(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.CreateRoadTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := r.roadTripService.CreateRoadTrip(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, trip, "Road trip created")
}

// ListRoadTrips godoc
// @Summary Road trips the caller owns or belongs to
// @Tags RoadTrips
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips [get]
func (r *RoadTripController) ListRoadTrips(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	trips, err := r.roadTripService.ListRoadTrips(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trips, "")
}

// GetRoadTrip godoc
// @Summary Road trip with owner, members and ordered waypoints
// @Tags RoadTrips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roadtrips/{id} [get]
func (r *RoadTripController) GetRoadTrip(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	trip, err := r.roadTripService.GetRoadTrip(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "")
}

// UpdateRoadTrip godoc
// @Summary Rename a road trip (owner only)
// @Tags RoadTrips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Param request body request_models.UpdateRoadTripRequest true "New name"
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips/{id} [put]
func (r *RoadTripController) UpdateRoadTrip(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request_models.UpdateRoadTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := r.roadTripService.UpdateRoadTrip(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Road trip updated")
}

// DeleteRoadTrip godoc
// @Summary Delete a road trip with its waypoints and sessions (owner only)
// @Tags RoadTrips
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Success 204
// @Router /roadtrips/{id} [delete]
func (r *RoadTripController) DeleteRoadTrip(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := r.roadTripService.DeleteRoadTrip(c.Request.Context(), userID, tripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}

// AddMember godoc
// @Summary Add a member by email (owner only)
// @Tags RoadTrips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Param request body request_models.AddMemberRequest true "Member email"
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips/{id}/members [post]
func (r *RoadTripController) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request_models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := r.roadTripService.AddMember(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Member added")
}

// RemoveMember godoc
// @Summary Remove a member (owner only, never the owner)
// @Tags RoadTrips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Param memberId path string true "Account id"
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips/{id}/members/{memberId} [delete]
func (r *RoadTripController) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "memberId")
	if !ok {
		return
	}

	trip, err := r.roadTripService.RemoveMember(c.Request.Context(), userID, tripID, memberID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Member removed")
}
