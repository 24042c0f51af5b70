package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"roadtrip/internal/models/request_models"
	"roadtrip/internal/services"
	"roadtrip/pkg/utils"
)

type WaypointController struct {
	waypointService services.WaypointServiceInterface
}

func NewWaypointController(waypointService services.WaypointServiceInterface) *WaypointController {
	return &WaypointController{waypointService: waypointService}
}

// ListWaypoints godoc
// @Summary Waypoints of a trip in order
// @Tags Waypoints
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips/{id}/waypoints [get]
func (w *WaypointController) ListWaypoints(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	wps, err := w.waypointService.ListWaypoints(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, wps, "")
}

// AddWaypoint godoc
// @Summary Append a waypoint to the end of the trip
// @Tags Waypoints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Param request body request_models.CreateWaypointRequest true "Waypoint"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /roadtrips/{id}/waypoints [post]
func (w *WaypointController) AddWaypoint(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request_models.CreateWaypointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	wp, err := w.waypointService.AddWaypoint(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, wp, "Waypoint added")
}

// UpdateWaypoint godoc
// @Summary Patch a waypoint; a present order moves it
// @Tags Waypoints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Param waypointId path string true "Waypoint id"
// @Param request body request_models.UpdateWaypointRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips/{id}/waypoints/{waypointId} [put]
func (w *WaypointController) UpdateWaypoint(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	waypointID, ok := uuidParam(c, "waypointId")
	if !ok {
		return
	}
	var req request_models.UpdateWaypointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	wp, err := w.waypointService.UpdateWaypoint(c.Request.Context(), userID, tripID, waypointID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, wp, "Waypoint updated")
}

// ReorderWaypoint godoc
// @Summary Move a waypoint; out-of-range targets are clamped
// @Tags Waypoints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Param waypointId path string true "Waypoint id"
// @Param request body request_models.ReorderWaypointRequest true "Target position"
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips/{id}/waypoints/{waypointId}/order [put]
func (w *WaypointController) ReorderWaypoint(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	waypointID, ok := uuidParam(c, "waypointId")
	if !ok {
		return
	}
	var req request_models.ReorderWaypointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	wps, err := w.waypointService.ReorderWaypoint(c.Request.Context(), userID, tripID, waypointID, *req.Order)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, wps, "Waypoints reordered")
}

// RemoveWaypoint godoc
// @Summary Delete a waypoint and renumber the rest
// @Tags Waypoints
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Param waypointId path string true "Waypoint id"
// @Success 204
// @Router /roadtrips/{id}/waypoints/{waypointId} [delete]
func (w *WaypointController) RemoveWaypoint(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	waypointID, ok := uuidParam(c, "waypointId")
	if !ok {
		return
	}

	if err := w.waypointService.RemoveWaypoint(c.Request.Context(), userID, tripID, waypointID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}

// NormalizeWaypoints godoc
// @Summary Renumber a trip's waypoints 0..n-1
// @Tags Waypoints
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips/{id}/waypoints/normalize [post]
func (w *WaypointController) NormalizeWaypoints(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	wps, err := w.waypointService.NormalizeWaypoints(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, wps, "")
}
