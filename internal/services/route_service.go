package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
	"roadtrip/internal/config"
	"roadtrip/internal/models/response_models"
	"roadtrip/internal/repositories"
	"roadtrip/pkg/utils"
)

type Coordinate struct {
	Lat float64
	Lng float64
}

type RouteLeg struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Route holds one leg per consecutive coordinate pair. Geometry is the provider's
// GeoJSON line, passed through untouched.
type Route struct {
	Legs            []RouteLeg
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        json.RawMessage
}

type RouteComputer interface {
	ComputeRoute(ctx context.Context, coords []Coordinate) (*Route, error)
}

// -------------- Mapbox Directions client ---------------

type MapboxDirectionsClient struct {
	HTTP        *http.Client
	BaseURL     string
	AccessToken string
	Profile     string
	Cache       *ttlcache.Cache[uint64, *Route]
}

func NewMapboxDirectionsClient(cfg *config.Config) *MapboxDirectionsClient {
	cache := ttlcache.New[uint64, *Route](
		ttlcache.WithTTL[uint64, *Route](cfg.RouteCacheTTL),
		ttlcache.WithCapacity[uint64, *Route](1024),
	)
	return &MapboxDirectionsClient{
		HTTP:        &http.Client{Timeout: cfg.RouteTimeout},
		BaseURL:     strings.TrimRight(cfg.MapboxBaseURL, "/"),
		AccessToken: cfg.MapboxAccessToken,
		Profile:     cfg.MapboxProfile,
		Cache:       cache,
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (c *MapboxDirectionsClient) cacheKey(coordStr string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(c.Profile)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(coordStr)
	return d.Sum64()
}

// ComputeRoute returns an empty route for fewer than two coordinates without calling out.
func (c *MapboxDirectionsClient) ComputeRoute(ctx context.Context, coords []Coordinate) (*Route, error) {
	if len(coords) < 2 {
		return &Route{Legs: []RouteLeg{}}, nil
	}
	if c.AccessToken == "" {
		return nil, fmt.Errorf("%w: mapbox access token not configured", utils.ErrUpstreamFailure)
	}

	parts := make([]string, 0, len(coords))
	for _, p := range coords {
		parts = append(parts, formatCoord(p.Lng)+","+formatCoord(p.Lat))
	}
	coordStr := strings.Join(parts, ";")

	key := c.cacheKey(coordStr)
	if item := c.Cache.Get(key); item != nil {
		return item.Value(), nil
	}

	u, err := url.Parse(fmt.Sprintf("%s/directions/v5/mapbox/%s/%s", c.BaseURL, c.Profile, coordStr))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstreamFailure, err)
	}
	q := url.Values{}
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	q.Set("access_token", c.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstreamFailure, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: mapbox directions: %v", utils.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: mapbox directions bad status: %s", utils.ErrUpstreamFailure, resp.Status)
	}

	var payload struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64         `json:"distance"`
			Duration float64         `json:"duration"`
			Geometry json.RawMessage `json:"geometry"`
			Legs     []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: mapbox decode: %v", utils.ErrUpstreamFailure, err)
	}
	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return nil, fmt.Errorf("%w: mapbox returned code %q", utils.ErrUpstreamFailure, payload.Code)
	}

	best := payload.Routes[0]
	if len(best.Legs) != len(coords)-1 {
		return nil, fmt.Errorf("%w: expected %d legs, got %d", utils.ErrUpstreamFailure, len(coords)-1, len(best.Legs))
	}

	route := &Route{
		Legs:            make([]RouteLeg, 0, len(best.Legs)),
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Geometry:        best.Geometry,
	}
	for _, l := range best.Legs {
		route.Legs = append(route.Legs, RouteLeg{DistanceMeters: l.Distance, DurationSeconds: l.Duration})
	}

	c.Cache.Set(key, route, ttlcache.DefaultTTL)
	return route, nil
}

// -------------- Trip route ---------------

type RouteServiceInterface interface {
	// RoadTripRoute never fails on provider errors; it reports Available=false instead.
	RoadTripRoute(ctx context.Context, userID, tripID uuid.UUID) (*response_models.RouteResponse, error)
}

type RouteService struct {
	tripRepo repositories.RoadTripRepository
	client   RouteComputer
	timeout  time.Duration
	log      *zap.Logger
}

func NewRouteService(tripRepo repositories.RoadTripRepository, client RouteComputer, cfg *config.Config, log *zap.Logger) RouteServiceInterface {
	return &RouteService{
		tripRepo: tripRepo,
		client:   client,
		timeout:  cfg.RouteTimeout,
		log:      log.Named("route"),
	}
}

func (s *RouteService) RoadTripRoute(ctx context.Context, userID, tripID uuid.UUID) (*response_models.RouteResponse, error) {
	trip, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID)
	if err != nil {
		return nil, err
	}

	coords := make([]Coordinate, 0, len(trip.Waypoints))
	for _, wp := range trip.Waypoints {
		coords = append(coords, Coordinate{Lat: wp.Latitude, Lng: wp.Longitude})
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	route, err := s.client.ComputeRoute(ctx, coords)
	if err != nil {
		s.log.Warn("route unavailable",
			zap.String("road_trip_id", tripID.String()),
			zap.Int("waypoints", len(coords)),
			zap.Error(err))
		return &response_models.RouteResponse{Available: false, Legs: []response_models.RouteLegResponse{}}, nil
	}

	resp := &response_models.RouteResponse{
		Available:       true,
		Legs:            make([]response_models.RouteLegResponse, 0, len(route.Legs)),
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Geometry:        route.Geometry,
	}
	for _, l := range route.Legs {
		resp.Legs = append(resp.Legs, response_models.RouteLegResponse{
			DistanceMeters:  l.DistanceMeters,
			DurationSeconds: l.DurationSeconds,
		})
	}
	return resp, nil
}
