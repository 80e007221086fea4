package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/service"
	"Kyusei-App/internal/infrastructure/geocoding"
	repoimpl "Kyusei-App/internal/repository"
	"Kyusei-App/internal/usecase"
)

type halfRNG struct{}

func (halfRNG) Float64() float64 { return 0.5 }

type failingHealth struct{}

func (failingHealth) HealthCheck(ctx context.Context) error { return errors.New("db down") }

type testServer struct {
	router   *gin.Engine
	overlays usecase.OverlayUseCase
}

func newTestServer(t *testing.T, health HealthChecker) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repoimpl.NewMemoryRepositories()
	calendar := service.DefaultStarCalendar()
	overlays := usecase.NewOverlayUseCase(calendar, service.GridOptions{RadiusKm: 10, CellSizeKm: 1, Workers: 2, Grouping: service.GroupingMerge}, time.Hour)
	t.Cleanup(overlays.Close)

	router := NewRouter(RouterDeps{
		Location: NewLocationHandler(usecase.NewLocationUseCase(geocoding.NewMockGeocoder(halfRNG{}), repos.Locations, repos.Markers, repos.FengShuiAnalysis)),
		Kyusei:   NewKyuseiHandler(usecase.NewKyuseiUseCase(calendar, repos.KyuseiAnalysis, repos.UserProfiles)),
		Overlay:  NewOverlayHandler(overlays),
		Health:   health,
	})
	return &testServer{router: router, overlays: overlays}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	w := newTestServer(t, nil).do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, w)["status"])

	w = newTestServer(t, failingHealth{}).do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGeocode(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/geocode", map[string]string{"address": "渋谷駅"})
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[model.GeocodeResult](t, w)
	assert.Equal(t, "東京都渋谷区", result.FormattedAddress)

	w = s.do(t, http.MethodPost, "/api/geocode", map[string]string{"address": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode[map[string]any](t, w)["error"])

	req := httptest.NewRequest(http.MethodPost, "/api/geocode", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocationsAndMarkers(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/locations", map[string]any{
		"name": "自宅", "address": "東京都港区", "latitude": 35.6812, "longitude": 139.7287,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loc := decode[model.Location](t, w)
	idPath := "/api/locations/" + strconv.FormatInt(loc.ID, 10)

	w = s.do(t, http.MethodGet, idPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/locations?lat=35.6813&lng=139.7288", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, loc.ID, decode[model.Location](t, w).ID)

	w = s.do(t, http.MethodPut, idPath, map[string]any{"name": "新居"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "新居", decode[model.Location](t, w).Name)

	w = s.do(t, http.MethodGet, "/api/locations/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, "/api/locations/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/locations", map[string]any{"name": "x", "address": "y", "latitude": 100, "longitude": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/markers", map[string]any{"locationId": loc.ID, "latitude": 35.68, "longitude": 139.73})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	marker := decode[model.Marker](t, w)
	markerPath := "/api/markers/" + strconv.FormatInt(marker.ID, 10)

	w = s.do(t, http.MethodGet, "/api/markers?locationId="+strconv.FormatInt(loc.ID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Marker](t, w), 1)

	w = s.do(t, http.MethodPut, markerPath, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[model.Marker](t, w).IsActive)

	w = s.do(t, http.MethodDelete, markerPath, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, markerPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFengShuiEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/locations", map[string]any{
		"name": "自宅", "address": "東京都港区", "latitude": 35.6812, "longitude": 139.7287,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	loc := decode[model.Location](t, w)

	w = s.do(t, http.MethodPost, "/api/feng-shui-analysis", map[string]any{"locationId": loc.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/feng-shui-analysis/"+strconv.FormatInt(loc.ID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details []model.FengShuiDirectionDetail
	require.NoError(t, json.Unmarshal([]byte(decode[model.FengShuiAnalysis](t, w).Directions), &details))
	assert.Len(t, details, 8)

	w = s.do(t, http.MethodPost, "/api/feng-shui-analysis", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/feng-shui-analysis/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/feng-shui/direction?bearing=180", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dir := decode[model.FengShuiDirection](t, w)
	assert.Equal(t, model.DirectionSouth, dir.Primary)
	assert.Equal(t, model.ElementFire, dir.Element)

	w = s.do(t, http.MethodGet, "/api/feng-shui/direction", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestElevationAndDirections(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/elevation?lat=35.6812&lng=139.7287", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]float64](t, w)
	assert.Equal(t, helper.MockElevation(35.6812, 139.7287), body["elevation"])

	w = s.do(t, http.MethodGet, "/api/elevation?lat=abc&lng=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/directions?lat=35.6812&lng=139.7287&radius=2000&secondary=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fc := decode[map[string]any](t, w)
	assert.Equal(t, "FeatureCollection", fc["type"])
	assert.Len(t, fc["features"], 8)

	w = s.do(t, http.MethodGet, "/api/directions?lat=35.6812&lng=139.7287&primary=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKyuseiEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/kyusei/stars", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]model.KyuseiStar](t, w)["stars"], 9)

	analysis := map[string]any{
		"birthDate": map[string]int{"year": 1990, "month": 5, "day": 20},
		"moveYear":  2024,
		"moveMonth": 6,
	}
	w = s.do(t, http.MethodPost, "/api/kyusei/analysis", analysis)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[model.KyuseiAnalysisResponse](t, w)
	assert.Empty(t, resp.ID)
	assert.Equal(t, 3, resp.HomeStar.Number)

	analysis["sessionId"] = "s1"
	analysis["locationId"] = 5
	w = s.do(t, http.MethodPost, "/api/kyusei/analysis", analysis)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saved := decode[model.KyuseiAnalysisResponse](t, w)
	assert.NotEmpty(t, saved.ID)

	w = s.do(t, http.MethodGet, "/api/kyusei/analyses?session_id=s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[map[string][]model.KyuseiAnalysis](t, w)["analyses"]
	require.Len(t, history, 1)
	assert.Equal(t, saved.ID, history[0].ID)

	w = s.do(t, http.MethodGet, "/api/kyusei/analysis/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, saved.ID, decode[model.KyuseiAnalysis](t, w).ID)

	w = s.do(t, http.MethodGet, "/api/profiles/s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[model.UserProfile](t, w)
	require.NotNil(t, profile.HomeStar)
	assert.Equal(t, 3, *profile.HomeStar)

	w = s.do(t, http.MethodGet, "/api/kyusei/analyses", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/profiles/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	analysis["birthDate"] = map[string]int{"year": 2023, "month": 2, "day": 30}
	w = s.do(t, http.MethodPost, "/api/kyusei/analysis", analysis)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	analysis["moveMonth"] = 13
	w = s.do(t, http.MethodPost, "/api/kyusei/analysis", analysis)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "moveMonth", decode[map[string]any](t, w)["field"])
}

func TestOverlayEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/overlays", map[string]any{
		"sessionId": "s1",
		"home":      map[string]float64{"lat": 35.6812, "lng": 139.7287},
		"birthDate": map[string]int{"year": 1990, "month": 5, "day": 20},
		"moveYear":  2024,
		"moveMonth": 6,
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	jobID := decode[map[string]string](t, w)["job_id"]
	require.NotEmpty(t, jobID)

	job, err := s.overlays.Wait(context.Background(), jobID)
	require.NoError(t, err)
	require.Equal(t, model.BuildStateDone, job.State)

	w = s.do(t, http.MethodGet, "/api/overlays/"+jobID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[usecase.OverlayJob](t, w)
	assert.Equal(t, model.BuildStateDone, view.State)
	require.NotNil(t, view.Stats)
	assert.Equal(t, job.Stats.TotalCells, view.Stats.TotalCells)

	w = s.do(t, http.MethodGet, "/api/overlays/"+jobID+"?format=geojson", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fc := decode[map[string]any](t, w)
	assert.Equal(t, "FeatureCollection", fc["type"])
	assert.Len(t, fc["features"], job.Stats.GoodPolygons+job.Stats.BadPolygons)

	w = s.do(t, http.MethodGet, "/api/overlays/"+jobID+"?format=kml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/overlays/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodDelete, "/api/overlays/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/overlays", map[string]any{
		"home":      map[string]float64{"lat": 135, "lng": 0},
		"birthDate": map[string]int{"year": 1990, "month": 5, "day": 20},
		"moveYear":  2024,
		"moveMonth": 6,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/overlays", map[string]any{
		"sessionId": "s1",
		"home":      map[string]float64{"lat": 35.6812, "lng": 139.7287},
		"birthDate": map[string]int{"year": 1990, "month": 5, "day": 20},
		"moveYear":  2024,
		"moveMonth": 6,
		"options":   map[string]float64{"radiusKm": 20000, "cellSizeKm": 0.001},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}
