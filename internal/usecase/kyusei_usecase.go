package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/repository"
	"Kyusei-App/internal/domain/service"
)

// DefaultAnalysesLimit 履歴一覧の最大件数
const DefaultAnalysesLimit = 10

type KyuseiUseCase interface {
	// ListStars は九星の一覧を番号順に返す
	ListStars() []model.KyuseiStar

	// Analyze は本命星と吉方位を計算し、SessionID があれば履歴とプロフィールに保存する
	Analyze(ctx context.Context, req *model.KyuseiAnalysisRequest) (*model.KyuseiAnalysisResponse, error)

	// ListAnalyses はセッションの分析履歴を新しい順に返す
	ListAnalyses(ctx context.Context, sessionID string) ([]model.KyuseiAnalysis, error)

	// GetAnalysisByLocation は地点に紐づく最新の分析を返す
	GetAnalysisByLocation(ctx context.Context, locationID int64) (*model.KyuseiAnalysis, error)

	// GetProfile はセッションのプロフィールを返す
	GetProfile(ctx context.Context, sessionID string) (*model.UserProfile, error)
}

type kyuseiUseCaseImpl struct {
	calendar   service.StarCalendar
	classifier *service.SectorClassifier
	analyses   repository.KyuseiAnalysisRepository
	profiles   repository.UserProfilesRepository
	newID      func() string
	now        func() time.Time
}

// NewKyuseiUseCase 新しいKyuseiUseCaseインスタンスを作成
func NewKyuseiUseCase(
	calendar service.StarCalendar,
	analyses repository.KyuseiAnalysisRepository,
	profiles repository.UserProfilesRepository,
) KyuseiUseCase {
	return &kyuseiUseCaseImpl{
		calendar:   calendar,
		classifier: service.NewSectorClassifier(calendar),
		analyses:   analyses,
		profiles:   profiles,
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (u *kyuseiUseCaseImpl) ListStars() []model.KyuseiStar {
	stars := make([]model.KyuseiStar, 0, len(model.KyuseiStars))
	for _, s := range model.KyuseiStars {
		stars = append(stars, s)
	}
	sort.Slice(stars, func(i, j int) bool { return stars[i].Number < stars[j].Number })
	return stars
}

// compute は保存せずに分析結果だけを計算する
func (u *kyuseiUseCaseImpl) compute(birth model.BirthDate, moveYear, moveMonth int) (model.KyuseiAnalysisResult, error) {
	if err := birth.Validate(); err != nil {
		return model.KyuseiAnalysisResult{}, eris.Wrap(err, "生年月日")
	}
	if err := model.ValidateYearMonth(moveYear, moveMonth); err != nil {
		return model.KyuseiAnalysisResult{}, eris.Wrap(err, "移転年月")
	}
	homeStar, err := u.calendar.HomeStar(birth.Year, birth.Month, birth.Day)
	if err != nil {
		return model.KyuseiAnalysisResult{}, err
	}
	return u.classifier.Analyze(homeStar, moveYear, moveMonth), nil
}

func (u *kyuseiUseCaseImpl) Analyze(ctx context.Context, req *model.KyuseiAnalysisRequest) (*model.KyuseiAnalysisResponse, error) {
	if req.Home != nil {
		if err := req.Home.Validate(); err != nil {
			return nil, err
		}
	}
	result, err := u.compute(req.BirthDate, req.MoveYear, req.MoveMonth)
	if err != nil {
		return nil, err
	}
	log := zap.L().With(
		zap.String("session_id", req.SessionID),
		zap.Int("home_star", result.HomeStar.Number),
		zap.Int("move_year", req.MoveYear),
		zap.Int("move_month", req.MoveMonth),
	)
	log.Info("🔮 九星気学分析", zap.Int("good_sectors", result.TotalGoodSectors))

	resp := &model.KyuseiAnalysisResponse{KyuseiAnalysisResult: result}
	if req.SessionID == "" {
		return resp, nil
	}

	analysis := &model.KyuseiAnalysis{
		ID:             u.newID(),
		SessionID:      req.SessionID,
		LocationID:     req.LocationID,
		BirthDate:      req.BirthDate,
		MoveYear:       req.MoveYear,
		MoveMonth:      req.MoveMonth,
		HomeStar:       result.HomeStar.Number,
		GoodSectors:    result.GoodSectors,
		BadDirections:  result.BadDirections,
		Recommendation: result.Recommendation,
		CreatedAt:      u.now(),
	}
	if err := u.analyses.Create(ctx, analysis); err != nil {
		return nil, eris.Wrap(err, "分析履歴の保存に失敗")
	}

	homeStar := result.HomeStar.Number
	birth := req.BirthDate
	profile := &model.UserProfile{SessionID: req.SessionID, BirthDate: &birth, HomeStar: &homeStar}
	if req.Home != nil {
		profile.HomeLat = &req.Home.Lat
		profile.HomeLng = &req.Home.Lng
	}
	if _, err := u.profiles.Save(ctx, profile); err != nil {
		return nil, eris.Wrap(err, "プロフィールの保存に失敗")
	}

	log.Debug("💾 分析履歴を保存", zap.String("analysis_id", analysis.ID))
	resp.ID = analysis.ID
	return resp, nil
}

func (u *kyuseiUseCaseImpl) ListAnalyses(ctx context.Context, sessionID string) ([]model.KyuseiAnalysis, error) {
	if sessionID == "" {
		return nil, eris.Wrap(model.ErrInvalidInput, "session_id is required")
	}
	return u.analyses.ListBySession(ctx, sessionID, DefaultAnalysesLimit)
}

func (u *kyuseiUseCaseImpl) GetAnalysisByLocation(ctx context.Context, locationID int64) (*model.KyuseiAnalysis, error) {
	return u.analyses.GetByLocationID(ctx, locationID)
}

func (u *kyuseiUseCaseImpl) GetProfile(ctx context.Context, sessionID string) (*model.UserProfile, error) {
	if sessionID == "" {
		return nil, eris.Wrap(model.ErrInvalidInput, "session_id is required")
	}
	return u.profiles.GetBySessionID(ctx, sessionID)
}
