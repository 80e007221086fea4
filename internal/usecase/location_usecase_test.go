package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/infrastructure/geocoding"
	repoimpl "Kyusei-App/internal/repository"
)

type halfRNG struct{}

func (halfRNG) Float64() float64 { return 0.5 }

func newTestLocationUseCase(t *testing.T) LocationUseCase {
	t.Helper()
	repos := repoimpl.NewMemoryRepositories()
	return NewLocationUseCase(geocoding.NewMockGeocoder(halfRNG{}), repos.Locations, repos.Markers, repos.FengShuiAnalysis)
}

func ptr[T any](v T) *T { return &v }

func createTestLocation(t *testing.T, u LocationUseCase) *model.Location {
	t.Helper()
	loc, err := u.CreateLocation(context.Background(), &model.LocationInput{
		Name:      ptr("自宅"),
		Address:   ptr("東京都港区"),
		Latitude:  ptr(35.6812),
		Longitude: ptr(139.7287),
	})
	require.NoError(t, err)
	return loc
}

func TestLocationUseCase_Geocode(t *testing.T) {
	u := newTestLocationUseCase(t)
	ctx := context.Background()

	result, err := u.Geocode(ctx, "大阪駅")
	require.NoError(t, err)
	assert.Equal(t, "大阪府大阪市", result.FormattedAddress)
	assert.InDelta(t, 34.6937, result.Lat, 1e-9)

	_, err = u.Geocode(ctx, "   ")
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestLocationUseCase_LocationLifecycle(t *testing.T) {
	u := newTestLocationUseCase(t)
	ctx := context.Background()

	loc := createTestLocation(t, u)
	assert.NotZero(t, loc.ID)

	got, err := u.GetLocation(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "自宅", got.Name)

	near, err := u.FindLocation(ctx, model.Position{Lat: 35.6815, Lng: 139.7290})
	require.NoError(t, err)
	assert.Equal(t, loc.ID, near.ID)

	_, err = u.FindLocation(ctx, model.Position{Lat: 35.70, Lng: 139.7287})
	assert.True(t, errors.Is(err, model.ErrNotFound))

	updated, err := u.UpdateLocation(ctx, loc.ID, &model.LocationInput{Name: ptr("新居"), Elevation: ptr(12.5)})
	require.NoError(t, err)
	assert.Equal(t, "新居", updated.Name)
	assert.Equal(t, "東京都港区", updated.Address)
	require.NotNil(t, updated.Elevation)
	assert.Equal(t, 12.5, *updated.Elevation)

	_, err = u.UpdateLocation(ctx, loc.ID, &model.LocationInput{Latitude: ptr(95.0)})
	assert.True(t, errors.Is(err, model.ErrInvalidPosition))
	_, err = u.UpdateLocation(ctx, 999, &model.LocationInput{Name: ptr("x")})
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestLocationUseCase_CreateLocationValidation(t *testing.T) {
	u := newTestLocationUseCase(t)
	ctx := context.Background()

	_, err := u.CreateLocation(ctx, &model.LocationInput{Name: ptr("自宅")})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	_, err = u.CreateLocation(ctx, &model.LocationInput{
		Name: ptr("自宅"), Address: ptr("x"), Latitude: ptr(10.0), Longitude: ptr(200.0),
	})
	assert.True(t, errors.Is(err, model.ErrInvalidPosition))
}

func TestLocationUseCase_Markers(t *testing.T) {
	u := newTestLocationUseCase(t)
	ctx := context.Background()
	loc := createTestLocation(t, u)

	marker, err := u.CreateMarker(ctx, &model.MarkerInput{LocationID: &loc.ID, Latitude: ptr(35.68), Longitude: ptr(139.73)})
	require.NoError(t, err)
	assert.Equal(t, model.MarkerTypePoint, marker.Type)
	assert.True(t, marker.IsActive)

	_, err = u.CreateMarker(ctx, &model.MarkerInput{Latitude: ptr(35.0), Longitude: ptr(139.0), Type: ptr(model.MarkerTypeCenter)})
	require.NoError(t, err)

	all, err := u.ListMarkers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	scoped, err := u.ListMarkers(ctx, &loc.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, marker.ID, scoped[0].ID)

	updated, err := u.UpdateMarker(ctx, marker.ID, &model.MarkerInput{IsActive: ptr(false), Type: ptr(model.MarkerTypeFengShui)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, model.MarkerTypeFengShui, updated.Type)

	require.NoError(t, u.DeleteMarker(ctx, marker.ID))
	assert.True(t, errors.Is(u.DeleteMarker(ctx, marker.ID), model.ErrNotFound))
}

func TestLocationUseCase_MarkerValidation(t *testing.T) {
	u := newTestLocationUseCase(t)
	ctx := context.Background()

	_, err := u.CreateMarker(ctx, &model.MarkerInput{Latitude: ptr(35.0)})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	_, err = u.CreateMarker(ctx, &model.MarkerInput{Latitude: ptr(35.0), Longitude: ptr(139.0), Type: ptr("circle")})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	_, err = u.CreateMarker(ctx, &model.MarkerInput{LocationID: ptr(int64(42)), Latitude: ptr(35.0), Longitude: ptr(139.0)})
	assert.True(t, errors.Is(err, model.ErrNotFound))
	_, err = u.UpdateMarker(ctx, 1, &model.MarkerInput{Longitude: ptr(-181.0)})
	assert.True(t, errors.Is(err, model.ErrInvalidPosition))
}

func TestLocationUseCase_FengShuiAnalysis(t *testing.T) {
	u := newTestLocationUseCase(t)
	ctx := context.Background()
	loc := createTestLocation(t, u)

	computed, err := u.CreateFengShuiAnalysis(ctx, &model.FengShuiAnalysisRequest{LocationID: loc.ID})
	require.NoError(t, err)

	var details []model.FengShuiDirectionDetail
	require.NoError(t, json.Unmarshal([]byte(computed.Directions), &details))
	require.Len(t, details, 8)
	assert.Equal(t, model.DirectionNorth, details[0].Direction)
	assert.Greater(t, details[0].Optimal.Lat, loc.Latitude)

	custom, err := u.CreateFengShuiAnalysis(ctx, &model.FengShuiAnalysisRequest{LocationID: loc.ID, Directions: `{"note":"manual"}`})
	require.NoError(t, err)

	latest, err := u.GetFengShuiAnalysis(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, custom.ID, latest.ID)
	assert.JSONEq(t, `{"note":"manual"}`, latest.Directions)

	_, err = u.CreateFengShuiAnalysis(ctx, &model.FengShuiAnalysisRequest{LocationID: loc.ID, Directions: "not json"})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	_, err = u.CreateFengShuiAnalysis(ctx, &model.FengShuiAnalysisRequest{LocationID: 999})
	assert.True(t, errors.Is(err, model.ErrNotFound))
	_, err = u.GetFengShuiAnalysis(ctx, 999)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestLocationUseCase_ElevationAndDirections(t *testing.T) {
	u := newTestLocationUseCase(t)
	center := model.Position{Lat: 35.6812, Lng: 139.7287}

	elevation, err := u.Elevation(center)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elevation, 0.0)
	_, err = u.Elevation(model.Position{Lat: -91})
	assert.True(t, errors.Is(err, model.ErrInvalidPosition))

	assert.Equal(t, model.DirectionEast, u.FengShuiDirection(90).Primary)

	fc, err := u.DirectionLines(center, 5000, true, false)
	require.NoError(t, err)
	require.Len(t, fc.Features, 8)
	line, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, center.ToPoint(), line[0])

	_, err = u.DirectionLines(center, 0, true, true)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}
