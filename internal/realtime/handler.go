package realtime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"roadtrip/internal/config"
	"roadtrip/pkg/middleware"
	"roadtrip/pkg/utils"
)

// Handler upgrades authenticated HTTP requests to realtime connections.
type Handler struct {
	gateway    *Gateway
	jwt        *utils.JWTManager
	upgrader   websocket.Upgrader
	sendBuffer int
	log        *zap.Logger
}

func NewHandler(gateway *Gateway, jwt *utils.JWTManager, cfg *config.Config, log *zap.Logger) *Handler {
	allowed := strings.TrimRight(cfg.FrontendURL, "/")
	return &Handler{
		gateway: gateway,
		jwt:     jwt,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowed == "" || origin == "" || origin == allowed
			},
		},
		sendBuffer: cfg.SendBuffer,
		log:        log.Named("realtime"),
	}
}

// identityFromRequest reads the JWT from ?token= or the Authorization header.
func (h *Handler) identityFromRequest(c *gin.Context) (Identity, bool) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		var ok bool
		if token, ok = middleware.BearerToken(c); !ok {
			return Identity{}, false
		}
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		return Identity{}, false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil || strings.TrimSpace(claims.DisplayName) == "" {
		return Identity{}, false
	}
	return Identity{UserID: userID, DisplayName: claims.DisplayName, Avatar: claims.Avatar}, true
}

// ServeWS godoc
// @Summary Open a realtime collaboration connection
// @Tags realtime
// @Param token query string false "JWT access token when no Authorization header can be sent"
// @Success 101
// @Failure 401 {object} utils.APIResponse
// @Router /ws [get]
func (h *Handler) ServeWS(c *gin.Context) {
	identity, ok := h.identityFromRequest(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Missing or invalid identity")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the request
		h.log.Debug("websocket upgrade", zap.Error(err))
		return
	}

	h.gateway.Serve(c.Request.Context(), conn, identity, h.sendBuffer)
}
