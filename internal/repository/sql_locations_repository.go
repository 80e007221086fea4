package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/repository"
	"Kyusei-App/internal/infrastructure/database"
)

const locationColumns = `id, name, address, latitude, longitude, elevation, created_at`

type SQLLocationsRepository struct {
	client *database.SQLClient
}

func NewSQLLocationsRepository(client *database.SQLClient) repository.LocationsRepository {
	return &SQLLocationsRepository{client: client}
}

func scanLocation(row scannable) (*model.Location, error) {
	var loc model.Location
	var elevation sql.NullFloat64
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude, &elevation, &loc.CreatedAt); err != nil {
		return nil, err
	}
	loc.Elevation = float64Ptr(elevation)
	return &loc, nil
}

func (r *SQLLocationsRepository) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	row := r.client.DB.QueryRowContext(ctx,
		r.client.Rebind(`SELECT `+locationColumns+` FROM locations WHERE id = ?`), id)
	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "location %d", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "地点 %d の取得失敗", id)
	}
	return loc, nil
}

func (r *SQLLocationsRepository) GetByCoordinates(ctx context.Context, lat, lng, tolerance float64) (*model.Location, error) {
	row := r.client.DB.QueryRowContext(ctx,
		r.client.Rebind(`SELECT `+locationColumns+` FROM locations
			WHERE ABS(latitude - ?) <= ? AND ABS(longitude - ?) <= ?
			ORDER BY id LIMIT 1`),
		lat, tolerance, lng, tolerance)
	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "location near (%v, %v)", lat, lng)
	}
	if err != nil {
		return nil, eris.Wrap(err, "座標による地点の検索失敗")
	}
	return loc, nil
}

func (r *SQLLocationsRepository) Create(ctx context.Context, location *model.Location) error {
	now := time.Now().UTC()
	err := r.client.DB.QueryRowContext(ctx,
		r.client.Rebind(`INSERT INTO locations (name, address, latitude, longitude, elevation, created_at)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		location.Name, location.Address, location.Latitude, location.Longitude, nullFloat64(location.Elevation), now,
	).Scan(&location.ID)
	if err != nil {
		return eris.Wrap(err, "地点の保存失敗")
	}
	location.CreatedAt = now
	return nil
}

func (r *SQLLocationsRepository) Update(ctx context.Context, id int64, input *model.LocationInput) (*model.Location, error) {
	var set updateSet
	if input != nil {
		if input.Name != nil {
			set.add("name", *input.Name)
		}
		if input.Address != nil {
			set.add("address", *input.Address)
		}
		if input.Latitude != nil {
			set.add("latitude", *input.Latitude)
		}
		if input.Longitude != nil {
			set.add("longitude", *input.Longitude)
		}
		if input.Elevation != nil {
			set.add("elevation", *input.Elevation)
		}
	}
	if set.empty() {
		return r.GetByID(ctx, id)
	}

	res, err := r.client.DB.ExecContext(ctx,
		r.client.Rebind(`UPDATE locations SET `+set.clause()+` WHERE id = ?`),
		append(set.args, id)...)
	if err != nil {
		return nil, eris.Wrapf(err, "地点 %d の更新失敗", id)
	}
	if err := checkRowsAffected(res, "location", id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
