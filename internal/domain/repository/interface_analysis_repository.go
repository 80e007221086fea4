package repository

import (
	"context"

	"Kyusei-App/internal/domain/model"
)

type FengShuiAnalysisRepository interface {
	GetByLocationID(ctx context.Context, locationID int64) (*model.FengShuiAnalysis, error)
	Create(ctx context.Context, analysis *model.FengShuiAnalysis) error
}

// KyuseiAnalysisRepository 九星気学分析の履歴。ID は呼び出し側で採番する
type KyuseiAnalysisRepository interface {
	Create(ctx context.Context, analysis *model.KyuseiAnalysis) error
	// GetByLocationID 地点に紐づく最新の分析
	GetByLocationID(ctx context.Context, locationID int64) (*model.KyuseiAnalysis, error)
	// ListBySession 新しい順に最大 limit 件
	ListBySession(ctx context.Context, sessionID string, limit int) ([]model.KyuseiAnalysis, error)
}

type UserProfilesRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (*model.UserProfile, error)
	// Save セッションのプロフィールがなければ作成し、あれば nil 以外の項目を更新する
	Save(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error)
}
