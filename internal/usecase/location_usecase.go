package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/repository"
	"Kyusei-App/internal/domain/service"
)

// Geocoder 住所を座標に変換する
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*model.GeocodeResult, error)
}

type LocationUseCase interface {
	Geocode(ctx context.Context, address string) (*model.GeocodeResult, error)

	GetLocation(ctx context.Context, id int64) (*model.Location, error)
	// FindLocation は座標が近い既存の地点を返す
	FindLocation(ctx context.Context, pos model.Position) (*model.Location, error)
	CreateLocation(ctx context.Context, input *model.LocationInput) (*model.Location, error)
	UpdateLocation(ctx context.Context, id int64, input *model.LocationInput) (*model.Location, error)

	ListMarkers(ctx context.Context, locationID *int64) ([]model.Marker, error)
	CreateMarker(ctx context.Context, input *model.MarkerInput) (*model.Marker, error)
	UpdateMarker(ctx context.Context, id int64, input *model.MarkerInput) (*model.Marker, error)
	DeleteMarker(ctx context.Context, id int64) error

	GetFengShuiAnalysis(ctx context.Context, locationID int64) (*model.FengShuiAnalysis, error)
	// CreateFengShuiAnalysis は Directions が空なら地点の8方位を計算して保存する
	CreateFengShuiAnalysis(ctx context.Context, req *model.FengShuiAnalysisRequest) (*model.FengShuiAnalysis, error)

	Elevation(pos model.Position) (float64, error)
	FengShuiDirection(bearing float64) model.FengShuiDirection
	DirectionLines(center model.Position, radiusMeters float64, showPrimary, showSecondary bool) (*geojson.FeatureCollection, error)
}

type locationUseCaseImpl struct {
	geocoder  Geocoder
	locations repository.LocationsRepository
	markers   repository.MarkersRepository
	fengShui  repository.FengShuiAnalysisRepository
}

// NewLocationUseCase 新しいLocationUseCaseインスタンスを作成
func NewLocationUseCase(
	geocoder Geocoder,
	locations repository.LocationsRepository,
	markers repository.MarkersRepository,
	fengShui repository.FengShuiAnalysisRepository,
) LocationUseCase {
	return &locationUseCaseImpl{
		geocoder:  geocoder,
		locations: locations,
		markers:   markers,
		fengShui:  fengShui,
	}
}

func (u *locationUseCaseImpl) Geocode(ctx context.Context, address string) (*model.GeocodeResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, eris.Wrap(model.ErrInvalidInput, "address is required")
	}
	return u.geocoder.Geocode(ctx, address)
}

func (u *locationUseCaseImpl) GetLocation(ctx context.Context, id int64) (*model.Location, error) {
	return u.locations.GetByID(ctx, id)
}

func (u *locationUseCaseImpl) FindLocation(ctx context.Context, pos model.Position) (*model.Location, error) {
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	return u.locations.GetByCoordinates(ctx, pos.Lat, pos.Lng, repository.DefaultCoordinateTolerance)
}

func (u *locationUseCaseImpl) CreateLocation(ctx context.Context, input *model.LocationInput) (*model.Location, error) {
	if input == nil || input.Name == nil || input.Address == nil || input.Latitude == nil || input.Longitude == nil {
		return nil, eris.Wrap(model.ErrInvalidInput, "name, address, latitude, longitude are required")
	}
	if strings.TrimSpace(*input.Name) == "" {
		return nil, eris.Wrap(model.ErrInvalidInput, "name must not be empty")
	}
	pos := model.Position{Lat: *input.Latitude, Lng: *input.Longitude}
	if err := pos.Validate(); err != nil {
		return nil, err
	}

	loc := &model.Location{
		Name:      *input.Name,
		Address:   *input.Address,
		Latitude:  pos.Lat,
		Longitude: pos.Lng,
		Elevation: input.Elevation,
	}
	if err := u.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	zap.L().Info("📍 地点を登録", zap.Int64("location_id", loc.ID), zap.String("name", loc.Name))
	return loc, nil
}

func (u *locationUseCaseImpl) UpdateLocation(ctx context.Context, id int64, input *model.LocationInput) (*model.Location, error) {
	if input == nil {
		return nil, eris.Wrap(model.ErrInvalidInput, "body is required")
	}
	if input.Latitude != nil || input.Longitude != nil {
		current, err := u.locations.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		pos := current.Position()
		if input.Latitude != nil {
			pos.Lat = *input.Latitude
		}
		if input.Longitude != nil {
			pos.Lng = *input.Longitude
		}
		if err := pos.Validate(); err != nil {
			return nil, err
		}
	}
	return u.locations.Update(ctx, id, input)
}

func validMarkerType(t string) bool {
	switch t {
	case model.MarkerTypePoint, model.MarkerTypeCenter, model.MarkerTypeFengShui:
		return true
	}
	return false
}

func (u *locationUseCaseImpl) ListMarkers(ctx context.Context, locationID *int64) ([]model.Marker, error) {
	return u.markers.List(ctx, locationID)
}

func (u *locationUseCaseImpl) CreateMarker(ctx context.Context, input *model.MarkerInput) (*model.Marker, error) {
	if input == nil || input.Latitude == nil || input.Longitude == nil {
		return nil, eris.Wrap(model.ErrInvalidInput, "latitude and longitude are required")
	}
	pos := model.Position{Lat: *input.Latitude, Lng: *input.Longitude}
	if err := pos.Validate(); err != nil {
		return nil, err
	}

	marker := &model.Marker{
		LocationID: input.LocationID,
		Latitude:   pos.Lat,
		Longitude:  pos.Lng,
		Type:       model.MarkerTypePoint,
		IsActive:   true,
	}
	if input.Type != nil {
		marker.Type = *input.Type
	}
	if !validMarkerType(marker.Type) {
		return nil, eris.Wrapf(model.ErrInvalidInput, "unknown marker type %q", marker.Type)
	}
	if input.IsActive != nil {
		marker.IsActive = *input.IsActive
	}
	if marker.LocationID != nil {
		if _, err := u.locations.GetByID(ctx, *marker.LocationID); err != nil {
			return nil, err
		}
	}

	if err := u.markers.Create(ctx, marker); err != nil {
		return nil, err
	}
	return marker, nil
}

func (u *locationUseCaseImpl) UpdateMarker(ctx context.Context, id int64, input *model.MarkerInput) (*model.Marker, error) {
	if input == nil {
		return nil, eris.Wrap(model.ErrInvalidInput, "body is required")
	}
	if input.Type != nil && !validMarkerType(*input.Type) {
		return nil, eris.Wrapf(model.ErrInvalidInput, "unknown marker type %q", *input.Type)
	}
	if input.Latitude != nil && (*input.Latitude < -90 || *input.Latitude > 90) {
		return nil, eris.Wrapf(model.ErrInvalidPosition, "latitude %v", *input.Latitude)
	}
	if input.Longitude != nil && (*input.Longitude < -180 || *input.Longitude > 180) {
		return nil, eris.Wrapf(model.ErrInvalidPosition, "longitude %v", *input.Longitude)
	}
	return u.markers.Update(ctx, id, input)
}

func (u *locationUseCaseImpl) DeleteMarker(ctx context.Context, id int64) error {
	return u.markers.Delete(ctx, id)
}

func (u *locationUseCaseImpl) GetFengShuiAnalysis(ctx context.Context, locationID int64) (*model.FengShuiAnalysis, error) {
	return u.fengShui.GetByLocationID(ctx, locationID)
}

// FengShuiDetails 中心から見た8方位の風水情報
func FengShuiDetails(center model.Position) []model.FengShuiDirectionDetail {
	details := make([]model.FengShuiDirectionDetail, 0, len(model.Directions))
	for _, d := range model.Directions {
		fs := service.GetFengShuiDirection(d.Angle)
		details = append(details, model.FengShuiDirectionDetail{
			Direction: d.Name,
			Angle:     d.Angle,
			Element:   fs.Element,
			Fortune:   fs.Fortune,
			Optimal:   service.CalculateOptimalPosition(center, d.Name),
		})
	}
	return details
}

func (u *locationUseCaseImpl) CreateFengShuiAnalysis(ctx context.Context, req *model.FengShuiAnalysisRequest) (*model.FengShuiAnalysis, error) {
	if req == nil || req.LocationID <= 0 {
		return nil, eris.Wrap(model.ErrInvalidInput, "locationId is required")
	}
	loc, err := u.locations.GetByID(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	directions := req.Directions
	if directions == "" {
		raw, err := json.Marshal(FengShuiDetails(loc.Position()))
		if err != nil {
			return nil, eris.Wrap(err, "風水分析のエンコード失敗")
		}
		directions = string(raw)
	} else if !json.Valid([]byte(directions)) {
		return nil, eris.Wrap(model.ErrInvalidInput, "directions must be a JSON string")
	}

	analysis := &model.FengShuiAnalysis{LocationID: loc.ID, Directions: directions}
	if err := u.fengShui.Create(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (u *locationUseCaseImpl) Elevation(pos model.Position) (float64, error) {
	if err := pos.Validate(); err != nil {
		return 0, err
	}
	return helper.MockElevation(pos.Lat, pos.Lng), nil
}

func (u *locationUseCaseImpl) FengShuiDirection(bearing float64) model.FengShuiDirection {
	return service.GetFengShuiDirection(bearing)
}

func (u *locationUseCaseImpl) DirectionLines(center model.Position, radiusMeters float64, showPrimary, showSecondary bool) (*geojson.FeatureCollection, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if !(radiusMeters > 0) {
		return nil, eris.Wrapf(model.ErrInvalidInput, "radius must be positive: %v", radiusMeters)
	}
	lines := service.DirectionLines(center, radiusMeters, showPrimary, showSecondary)
	return helper.DirectionLinesFeatureCollection(lines), nil
}
