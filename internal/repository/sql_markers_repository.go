package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/repository"
	"Kyusei-App/internal/infrastructure/database"
)

const markerColumns = `id, location_id, latitude, longitude, type, is_active, created_at`

type SQLMarkersRepository struct {
	client *database.SQLClient
}

func NewSQLMarkersRepository(client *database.SQLClient) repository.MarkersRepository {
	return &SQLMarkersRepository{client: client}
}

func scanMarker(row scannable) (*model.Marker, error) {
	var m model.Marker
	var locationID sql.NullInt64
	if err := row.Scan(&m.ID, &locationID, &m.Latitude, &m.Longitude, &m.Type, &m.IsActive, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.LocationID = int64Ptr(locationID)
	return &m, nil
}

func (r *SQLMarkersRepository) get(ctx context.Context, id int64) (*model.Marker, error) {
	row := r.client.DB.QueryRowContext(ctx,
		r.client.Rebind(`SELECT `+markerColumns+` FROM markers WHERE id = ?`), id)
	m, err := scanMarker(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(model.ErrNotFound, "marker %d", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "マーカー %d の取得失敗", id)
	}
	return m, nil
}

func (r *SQLMarkersRepository) List(ctx context.Context, locationID *int64) ([]model.Marker, error) {
	query := `SELECT ` + markerColumns + ` FROM markers`
	var args []any
	if locationID != nil {
		query += ` WHERE location_id = ?`
		args = append(args, *locationID)
	}
	query += ` ORDER BY id`

	rows, err := r.client.DB.QueryContext(ctx, r.client.Rebind(query), args...)
	if err != nil {
		return nil, eris.Wrap(err, "マーカー一覧の取得失敗")
	}
	defer rows.Close()

	markers := make([]model.Marker, 0)
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, eris.Wrap(err, "マーカーデータスキャンエラー")
		}
		markers = append(markers, *m)
	}
	return markers, eris.Wrap(rows.Err(), "マーカー一覧の読み込み失敗")
}

func (r *SQLMarkersRepository) Create(ctx context.Context, marker *model.Marker) error {
	now := time.Now().UTC()
	err := r.client.DB.QueryRowContext(ctx,
		r.client.Rebind(`INSERT INTO markers (location_id, latitude, longitude, type, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		nullInt64(marker.LocationID), marker.Latitude, marker.Longitude, marker.Type, marker.IsActive, now,
	).Scan(&marker.ID)
	if err != nil {
		return eris.Wrap(err, "マーカーの保存失敗")
	}
	marker.CreatedAt = now
	return nil
}

func (r *SQLMarkersRepository) Update(ctx context.Context, id int64, input *model.MarkerInput) (*model.Marker, error) {
	var set updateSet
	if input != nil {
		if input.LocationID != nil {
			set.add("location_id", *input.LocationID)
		}
		if input.Latitude != nil {
			set.add("latitude", *input.Latitude)
		}
		if input.Longitude != nil {
			set.add("longitude", *input.Longitude)
		}
		if input.Type != nil {
			set.add("type", *input.Type)
		}
		if input.IsActive != nil {
			set.add("is_active", *input.IsActive)
		}
	}
	if set.empty() {
		return r.get(ctx, id)
	}

	res, err := r.client.DB.ExecContext(ctx,
		r.client.Rebind(`UPDATE markers SET `+set.clause()+` WHERE id = ?`),
		append(set.args, id)...)
	if err != nil {
		return nil, eris.Wrapf(err, "マーカー %d の更新失敗", id)
	}
	if err := checkRowsAffected(res, "marker", id); err != nil {
		return nil, err
	}
	return r.get(ctx, id)
}

func (r *SQLMarkersRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.client.DB.ExecContext(ctx, r.client.Rebind(`DELETE FROM markers WHERE id = ?`), id)
	if err != nil {
		return eris.Wrapf(err, "マーカー %d の削除失敗", id)
	}
	return checkRowsAffected(res, "marker", id)
}
