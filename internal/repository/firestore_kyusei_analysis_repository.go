package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"Kyusei-App/internal/domain/model"
	"Kyusei-App/internal/domain/repository"
)

// KyuseiAnalysesCollection 九星気学分析を保存するコレクション名
const KyuseiAnalysesCollection = "kyuseiAnalyses"

// GetByLocationID と ListBySession は等価条件と created_at 降順を組み合わせるため
// 複合インデックスが必要。定義はリポジトリ直下の firestore.indexes.json にあり
// `firebase deploy --only firestore:indexes` で反映する
const (
	fieldLocationID = "location_id"
	fieldSessionID  = "session_id"
	fieldCreatedAt  = "created_at"
)

// FirestoreKyuseiAnalysisRepository Firestoreを使用した九星気学分析の履歴リポジトリ
type FirestoreKyuseiAnalysisRepository struct {
	client *firestore.Client
}

// NewFirestoreKyuseiAnalysisRepository 新しいFirestoreKyuseiAnalysisRepositoryインスタンスを作成
func NewFirestoreKyuseiAnalysisRepository(client *firestore.Client) repository.KyuseiAnalysisRepository {
	return &FirestoreKyuseiAnalysisRepository{client: client}
}

func (r *FirestoreKyuseiAnalysisRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(KyuseiAnalysesCollection)
}

// Create は分析を analysis.ID をドキュメントIDとして保存する
func (r *FirestoreKyuseiAnalysisRepository) Create(ctx context.Context, analysis *model.KyuseiAnalysis) error {
	if analysis.ID == "" {
		return eris.New("kyusei analysis: id is required")
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection().Doc(analysis.ID).Set(ctx, analysis); err != nil {
		zap.L().Error("❌ 九星気学分析の保存に失敗", zap.String("id", analysis.ID), zap.Error(err))
		return eris.Wrapf(err, "九星気学分析 %s の保存に失敗しました", analysis.ID)
	}
	zap.L().Debug("✅ 九星気学分析を保存", zap.String("id", analysis.ID))
	return nil
}

// Get はドキュメントIDで分析を取得する
func (r *FirestoreKyuseiAnalysisRepository) Get(ctx context.Context, id string) (*model.KyuseiAnalysis, error) {
	doc, err := r.collection().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, eris.Wrapf(model.ErrNotFound, "kyusei analysis %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "九星気学分析 %s の取得に失敗しました", id)
	}
	return decodeKyuseiAnalysis(doc)
}

func (r *FirestoreKyuseiAnalysisRepository) GetByLocationID(ctx context.Context, locationID int64) (*model.KyuseiAnalysis, error) {
	list, err := r.query(ctx, r.collection().
		Where(fieldLocationID, "==", locationID).
		OrderBy(fieldCreatedAt, firestore.Desc).
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, eris.Wrapf(model.ErrNotFound, "kyusei analysis for location %d", locationID)
	}
	return &list[0], nil
}

func (r *FirestoreKyuseiAnalysisRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.KyuseiAnalysis, error) {
	q := r.collection().
		Where(fieldSessionID, "==", sessionID).
		OrderBy(fieldCreatedAt, firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.query(ctx, q)
}

func (r *FirestoreKyuseiAnalysisRepository) query(ctx context.Context, q firestore.Query) ([]model.KyuseiAnalysis, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	list := make([]model.KyuseiAnalysis, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "九星気学分析の検索に失敗しました")
		}
		a, err := decodeKyuseiAnalysis(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, nil
}

func decodeKyuseiAnalysis(doc *firestore.DocumentSnapshot) (*model.KyuseiAnalysis, error) {
	var a model.KyuseiAnalysis
	if err := doc.DataTo(&a); err != nil {
		return nil, eris.Wrap(err, "データの変換に失敗しました")
	}
	a.ID = doc.Ref.ID
	return &a, nil
}
