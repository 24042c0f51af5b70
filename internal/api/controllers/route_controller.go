package controllers

import (
	"github.com/gin-gonic/gin"
	"roadtrip/internal/services"
	"roadtrip/pkg/utils"
)

type RouteController struct {
	routeService services.RouteServiceInterface
}

func NewRouteController(routeService services.RouteServiceInterface) *RouteController {
	return &RouteController{routeService: routeService}
}

// GetRoute godoc
// @Summary Driving legs between the trip's waypoints
// @Description Always 200 for a visible trip; available is false when the routing provider failed.
// @Tags Route
// @Produce json
// @Security BearerAuth
// @Param id path string true "Road trip id"
// @Success 200 {object} utils.APIResponse
// @Router /roadtrips/{id}/route [get]
func (r *RouteController) GetRoute(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	route, err := r.routeService.RoadTripRoute(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, route, "")
}
