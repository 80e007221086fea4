package repository

import (
	"context"

	"Kyusei-App/internal/domain/model"
)

// DefaultCoordinateTolerance 座標一致とみなす緯度経度の差（度）
const DefaultCoordinateTolerance = 0.001

type LocationsRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Location, error)
	// GetByCoordinates 緯度・経度の差がどちらも tolerance 以内の最初の地点
	GetByCoordinates(ctx context.Context, lat, lng, tolerance float64) (*model.Location, error)
	Create(ctx context.Context, location *model.Location) error
	Update(ctx context.Context, id int64, input *model.LocationInput) (*model.Location, error)
}
