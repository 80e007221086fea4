package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/repository"
	"Kyusei-App/internal/infrastructure/database"
)

type SQLFengShuiAnalysisRepository struct {
	client *database.SQLClient
}

func NewSQLFengShuiAnalysisRepository(client *database.SQLClient) repository.FengShuiAnalysisRepository {
	return &SQLFengShuiAnalysisRepository{client: client}
}

func (r *SQLFengShuiAnalysisRepository) GetByLocationID(ctx context.Context, locationID int64) (*model.FengShuiAnalysis, error) {
	var a model.FengShuiAnalysis
	err := r.client.DB.QueryRowContext(ctx,
		r.client.Rebind(`SELECT id, location_id, directions, analysis_date FROM feng_shui_analysis
			WHERE location_id = ? ORDER BY id DESC LIMIT 1`), locationID,
	).Scan(&a.ID, &a.LocationID, &a.Directions, &a.AnalysisDate)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(model.ErrNotFound, "feng shui analysis for location %d", locationID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "地点 %d の風水分析の取得失敗", locationID)
	}
	return &a, nil
}

func (r *SQLFengShuiAnalysisRepository) Create(ctx context.Context, analysis *model.FengShuiAnalysis) error {
	now := time.Now().UTC()
	err := r.client.DB.QueryRowContext(ctx,
		r.client.Rebind(`INSERT INTO feng_shui_analysis (location_id, directions, analysis_date)
			VALUES (?, ?, ?) RETURNING id`),
		analysis.LocationID, analysis.Directions, now,
	).Scan(&analysis.ID)
	if err != nil {
		return eris.Wrap(err, "風水分析の保存失敗")
	}
	analysis.AnalysisDate = now
	return nil
}

const kyuseiAnalysisColumns = `id, session_id, location_id, birth_date, move_year, move_month, home_star,
	good_sectors, bad_directions, recommendation, created_at`

type SQLKyuseiAnalysisRepository struct {
	client *database.SQLClient
}

func NewSQLKyuseiAnalysisRepository(client *database.SQLClient) repository.KyuseiAnalysisRepository {
	return &SQLKyuseiAnalysisRepository{client: client}
}

func scanKyuseiAnalysis(row scannable) (*model.KyuseiAnalysis, error) {
	var a model.KyuseiAnalysis
	var locationID sql.NullInt64
	var birthDate, goodSectors, badDirections string
	if err := row.Scan(&a.ID, &a.SessionID, &locationID, &birthDate, &a.MoveYear, &a.MoveMonth, &a.HomeStar,
		&goodSectors, &badDirections, &a.Recommendation, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.LocationID = int64Ptr(locationID)
	if err := json.Unmarshal([]byte(birthDate), &a.BirthDate); err != nil {
		return nil, eris.Wrap(err, "birth_date JSONパースエラー")
	}
	if err := json.Unmarshal([]byte(goodSectors), &a.GoodSectors); err != nil {
		return nil, eris.Wrap(err, "good_sectors JSONパースエラー")
	}
	if err := json.Unmarshal([]byte(badDirections), &a.BadDirections); err != nil {
		return nil, eris.Wrap(err, "bad_directions JSONパースエラー")
	}
	return &a, nil
}

func (r *SQLKyuseiAnalysisRepository) Create(ctx context.Context, analysis *model.KyuseiAnalysis) error {
	if analysis.ID == "" {
		return eris.New("kyusei analysis: id is required")
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}
	birthDate, err := json.Marshal(analysis.BirthDate)
	if err != nil {
		return eris.Wrap(err, "birth_date のエンコード失敗")
	}
	goodSectors, err := json.Marshal(analysis.GoodSectors)
	if err != nil {
		return eris.Wrap(err, "good_sectors のエンコード失敗")
	}
	badDirections, err := json.Marshal(analysis.BadDirections)
	if err != nil {
		return eris.Wrap(err, "bad_directions のエンコード失敗")
	}

	_, err = r.client.DB.ExecContext(ctx,
		r.client.Rebind(`INSERT INTO kyusei_analysis (`+kyuseiAnalysisColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		analysis.ID, analysis.SessionID, nullInt64(analysis.LocationID), string(birthDate),
		analysis.MoveYear, analysis.MoveMonth, analysis.HomeStar,
		string(goodSectors), string(badDirections), analysis.Recommendation, analysis.CreatedAt,
	)
	return eris.Wrapf(err, "九星気学分析 %s の保存失敗", analysis.ID)
}

func (r *SQLKyuseiAnalysisRepository) GetByLocationID(ctx context.Context, locationID int64) (*model.KyuseiAnalysis, error) {
	row := r.client.DB.QueryRowContext(ctx,
		r.client.Rebind(`SELECT `+kyuseiAnalysisColumns+` FROM kyusei_analysis
			WHERE location_id = ? ORDER BY created_at DESC, id LIMIT 1`), locationID)
	a, err := scanKyuseiAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(model.ErrNotFound, "kyusei analysis for location %d", locationID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "地点 %d の九星気学分析の取得失敗", locationID)
	}
	return a, nil
}

func (r *SQLKyuseiAnalysisRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.KyuseiAnalysis, error) {
	query := `SELECT ` + kyuseiAnalysisColumns + ` FROM kyusei_analysis
		WHERE session_id = ? ORDER BY created_at DESC, id`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.client.DB.QueryContext(ctx, r.client.Rebind(query), args...)
	if err != nil {
		return nil, eris.Wrapf(err, "セッション %s の分析履歴の取得失敗", sessionID)
	}
	defer rows.Close()

	list := make([]model.KyuseiAnalysis, 0)
	for rows.Next() {
		a, err := scanKyuseiAnalysis(rows)
		if err != nil {
			return nil, eris.Wrap(err, "九星気学分析スキャンエラー")
		}
		list = append(list, *a)
	}
	return list, eris.Wrap(rows.Err(), "分析履歴の読み込み失敗")
}

type SQLUserProfilesRepository struct {
	client *database.SQLClient
}

func NewSQLUserProfilesRepository(client *database.SQLClient) repository.UserProfilesRepository {
	return &SQLUserProfilesRepository{client: client}
}

func scanUserProfile(row scannable) (*model.UserProfile, error) {
	var p model.UserProfile
	var birthDate sql.NullString
	var homeStar sql.NullInt64
	var homeLat, homeLng sql.NullFloat64
	if err := row.Scan(&p.ID, &p.SessionID, &birthDate, &homeStar, &homeLat, &homeLng, &p.CreatedAt); err != nil {
		return nil, err
	}
	if birthDate.Valid {
		var d model.BirthDate
		if err := json.Unmarshal([]byte(birthDate.String), &d); err != nil {
			return nil, eris.Wrap(err, "birth_date JSONパースエラー")
		}
		p.BirthDate = &d
	}
	if homeStar.Valid {
		v := int(homeStar.Int64)
		p.HomeStar = &v
	}
	p.HomeLat = float64Ptr(homeLat)
	p.HomeLng = float64Ptr(homeLng)
	return &p, nil
}

func (r *SQLUserProfilesRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.UserProfile, error) {
	return r.get(ctx, r.client.DB, sessionID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLUserProfilesRepository) get(ctx context.Context, q queryRower, sessionID string) (*model.UserProfile, error) {
	row := q.QueryRowContext(ctx,
		r.client.Rebind(`SELECT id, session_id, birth_date, home_star, home_lat, home_lng, created_at
			FROM user_profiles WHERE session_id = ?`), sessionID)
	p, err := scanUserProfile(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(model.ErrNotFound, "user profile %s", sessionID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "プロフィール %s の取得失敗", sessionID)
	}
	return p, nil
}

func (r *SQLUserProfilesRepository) Save(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	tx, err := r.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "トランザクション開始失敗")
	}
	defer tx.Rollback()

	current, err := r.get(ctx, tx, profile.SessionID)
	switch {
	case err == nil:
	case eris.Is(err, model.ErrNotFound):
		current = &model.UserProfile{SessionID: profile.SessionID, CreatedAt: time.Now().UTC()}
	default:
		return nil, err
	}
	mergeUserProfile(current, profile)

	var birthDate sql.NullString
	if current.BirthDate != nil {
		b, err := json.Marshal(current.BirthDate)
		if err != nil {
			return nil, eris.Wrap(err, "birth_date のエンコード失敗")
		}
		birthDate = sql.NullString{String: string(b), Valid: true}
	}
	var homeStar sql.NullInt64
	if current.HomeStar != nil {
		homeStar = sql.NullInt64{Int64: int64(*current.HomeStar), Valid: true}
	}

	if current.ID == 0 {
		err = tx.QueryRowContext(ctx,
			r.client.Rebind(`INSERT INTO user_profiles (session_id, birth_date, home_star, home_lat, home_lng, created_at)
				VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
			current.SessionID, birthDate, homeStar, nullFloat64(current.HomeLat), nullFloat64(current.HomeLng), current.CreatedAt,
		).Scan(&current.ID)
	} else {
		_, err = tx.ExecContext(ctx,
			r.client.Rebind(`UPDATE user_profiles SET birth_date = ?, home_star = ?, home_lat = ?, home_lng = ?
				WHERE session_id = ?`),
			birthDate, homeStar, nullFloat64(current.HomeLat), nullFloat64(current.HomeLng), current.SessionID,
		)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "プロフィール %s の保存失敗", profile.SessionID)
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "コミット失敗")
	}
	return current, nil
}
