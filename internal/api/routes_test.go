package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"go.uber.org/zap"
	"roadtrip/internal/api/controllers"
	"roadtrip/internal/config"
	"roadtrip/internal/infra/testdb"
	"roadtrip/internal/realtime"
	"roadtrip/internal/repositories"
	"roadtrip/internal/services"
	"roadtrip/pkg/utils"
)

type apiHarness struct {
	router *gin.Engine
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newAPIHarness(t *testing.T) *apiHarness {
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t)
	log := zap.NewNop()
	cfg := &config.Config{
		Env:           "test",
		JWTSecret:     "secret",
		JWTTTL:        time.Hour,
		SessionTTL:    24 * time.Hour,
		MapboxProfile: "driving",
		RouteCacheTTL: time.Minute,
		RouteTimeout:  time.Second,
		SendBuffer:    8,
	}

	accounts := repositories.NewAccountRepository(db)
	trips := repositories.NewRoadTripRepository(db)
	waypoints := repositories.NewWaypointRepository(db)
	sessions := repositories.NewSessionRepository(db)

	jwt := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	sessionService := services.NewSessionService(sessions, trips, cfg, log)
	gateway := realtime.NewGateway(sessionService, realtime.Options{EvictEmptyRooms: true}, log)

	ctl := Controllers{
		Accounts:  controllers.NewAccountController(services.NewAccountService(accounts, jwt, log)),
		RoadTrips: controllers.NewRoadTripController(services.NewRoadTripService(trips, accounts, services.NewMailService(cfg, log), log)),
		Waypoints: controllers.NewWaypointController(services.NewWaypointService(trips, waypoints, log)),
		Sessions:  controllers.NewSessionController(sessionService, gateway),
		Routes:    controllers.NewRouteController(services.NewRouteService(trips, services.NewMapboxDirectionsClient(cfg), cfg, log)),
		Realtime:  realtime.NewHandler(gateway, jwt, cfg, log),
	}

	r := gin.New()
	RegisterRoutes(r, jwt, ctl)
	return &apiHarness{router: r}
}

func (h *apiHarness) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func (h *apiHarness) signUp(t *testing.T, name, email string) string {
	t.Helper()
	code, _ := h.do(t, http.MethodPost, "/api/accounts/register", "", map[string]string{
		"display_name": name, "email": email, "password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, code)

	code, env := h.do(t, http.MethodPost, "/api/accounts/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(env.Data, &login)
	return login.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type tripView struct {
	ID      string `json:"id"`
	Members []struct {
		ID string `json:"id"`
	} `json:"members"`
}

type waypointView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type sessionView struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	Expired   bool      `json:"expired"`
	RoadTrip  *tripView `json:"road_trip"`
}

func TestRequiresAuthentication(t *testing.T) {
	h := newAPIHarness(t)
	code, env := h.do(t, http.MethodGet, "/api/roadtrips", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "error", env.Status)
}

func TestWaypointOrderingOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	token := h.signUp(t, "Ada", "ada@example.com")

	code, env := h.do(t, http.MethodPost, "/api/roadtrips", token, map[string]string{"name": "Coast"})
	assert.Equal(t, http.StatusCreated, code)
	trip := decode[tripView](t, env.Data)
	base := "/api/roadtrips/" + trip.ID + "/waypoints"

	ids := map[string]string{}
	for i, name := range []string{"A", "B", "C"} {
		code, env = h.do(t, http.MethodPost, base, token, map[string]any{
			"name": name, "latitude": 40.0 + float64(i), "longitude": -70.0,
		})
		assert.Equal(t, http.StatusCreated, code)
		wp := decode[waypointView](t, env.Data)
		assert.Equal(t, i, wp.Order)
		ids[name] = wp.ID
	}

	code, env = h.do(t, http.MethodPut, base+"/"+ids["C"]+"/order", token, map[string]int{"order": 0})
	assert.Equal(t, http.StatusOK, code)
	list := decode[[]waypointView](t, env.Data)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, "A", list[1].Name)
	assert.Equal(t, "B", list[2].Name)

	code, _ = h.do(t, http.MethodPost, base, token, map[string]any{"name": "Bad", "latitude": 95, "longitude": 0})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(t, http.MethodDelete, base+"/"+ids["C"], token, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, env = h.do(t, http.MethodGet, base, token, nil)
	assert.Equal(t, http.StatusOK, code)
	list = decode[[]waypointView](t, env.Data)
	assert.Equal(t, 2, len(list))
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, 0, list[0].Order)
	assert.Equal(t, 1, list[1].Order)

	code, _ = h.do(t, http.MethodDelete, base+"/"+ids["C"], token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	// no routing token configured: the route is reported unavailable, not failed
	code, env = h.do(t, http.MethodGet, "/api/roadtrips/"+trip.ID+"/route", token, nil)
	assert.Equal(t, http.StatusOK, code)
	route := decode[struct {
		Available bool `json:"available"`
	}](t, env.Data)
	assert.Equal(t, false, route.Available)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	owner := h.signUp(t, "Ada", "ada@example.com")
	friend := h.signUp(t, "Grace", "grace@example.com")
	stranger := h.signUp(t, "Linus", "linus@example.com")

	_, env := h.do(t, http.MethodPost, "/api/roadtrips", owner, map[string]string{"name": "Coast"})
	trip := decode[tripView](t, env.Data)

	code, env := h.do(t, http.MethodPost, "/api/roadtrips/"+trip.ID+"/members", owner, map[string]string{"email": "grace@example.com"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, len(decode[tripView](t, env.Data).Members))

	code, _ = h.do(t, http.MethodGet, "/api/roadtrips/"+trip.ID+"/sessions/active", friend, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = h.do(t, http.MethodPost, "/api/roadtrips/"+trip.ID+"/sessions", friend, nil)
	assert.Equal(t, http.StatusCreated, code)
	first := decode[sessionView](t, env.Data)
	assert.Equal(t, trip.ID, first.RoadTrip.ID)

	code, env = h.do(t, http.MethodPost, "/api/roadtrips/"+trip.ID+"/sessions", owner, nil)
	assert.Equal(t, http.StatusCreated, code)
	second := decode[sessionView](t, env.Data)

	code, env = h.do(t, http.MethodGet, "/api/roadtrips/"+trip.ID+"/sessions/active", owner, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, second.ID, decode[sessionView](t, env.Data).ID)

	code, _ = h.do(t, http.MethodGet, "/api/sessions/"+first.ID, owner, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(t, http.MethodGet, "/api/sessions/"+second.ID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = h.do(t, http.MethodPatch, "/api/sessions/"+second.ID+"/extend", owner, map[string]int{"hours": 48})
	assert.Equal(t, http.StatusOK, code)
	extended := decode[sessionView](t, env.Data)
	assert.Equal(t, true, extended.ExpiresAt.After(second.ExpiresAt))

	code, _ = h.do(t, http.MethodPatch, "/api/sessions/"+second.ID+"/extend", owner, map[string]int{"hours": -1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = h.do(t, http.MethodGet, "/api/sessions/user/active", friend, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, len(decode[[]sessionView](t, env.Data)))

	code, env = h.do(t, http.MethodGet, "/api/sessions/"+second.ID+"/participants", friend, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, len(decode[[]realtime.Participant](t, env.Data)))

	code, _ = h.do(t, http.MethodDelete, "/api/sessions/"+second.ID, friend, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = h.do(t, http.MethodDelete, "/api/sessions/"+second.ID, friend, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, env = h.do(t, http.MethodPost, "/api/sessions/cleanup", owner, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(0), decode[struct {
		Deleted int64 `json:"deleted"`
	}](t, env.Data).Deleted)
}

func TestTripAccessMapping(t *testing.T) {
	h := newAPIHarness(t)
	owner := h.signUp(t, "Ada", "ada@example.com")
	stranger := h.signUp(t, "Linus", "linus@example.com")

	_, env := h.do(t, http.MethodPost, "/api/roadtrips", owner, map[string]string{"name": "Coast"})
	trip := decode[tripView](t, env.Data)

	code, _ := h.do(t, http.MethodGet, "/api/roadtrips/"+trip.ID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(t, http.MethodGet, "/api/roadtrips/not-a-uuid", owner, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(t, http.MethodGet, "/api/roadtrips/3f1c7a52-9a56-4c39-8f8d-3b0b7c6f7a11", owner, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(t, http.MethodPost, "/api/roadtrips/"+trip.ID+"/members", owner, map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(t, http.MethodPost, "/api/accounts/register", "", map[string]string{
		"display_name": "Ada", "email": "ada@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = h.do(t, http.MethodDelete, "/api/roadtrips/"+trip.ID, owner, nil)
	assert.Equal(t, http.StatusNoContent, code)
}
