package repository

import (
	"context"

	"Kyusei-App/internal/domain/model"
)

type MarkersRepository interface {
	// List locationID が nil なら全件
	List(ctx context.Context, locationID *int64) ([]model.Marker, error)
	Create(ctx context.Context, marker *model.Marker) error
	Update(ctx context.Context, id int64, input *model.MarkerInput) (*model.Marker, error)
	Delete(ctx context.Context, id int64) error
}
