package model

// KyuseiAnalysisRequest 九星気学分析のリクエスト
type KyuseiAnalysisRequest struct {
	SessionID  string    `json:"sessionId"`
	BirthDate  BirthDate `json:"birthDate"`
	MoveYear   int       `json:"moveYear"`
	MoveMonth  int       `json:"moveMonth"`
	LocationID *int64    `json:"locationId,omitempty"`
	Home       *Position `json:"home,omitempty"` // 指定があればプロフィールに保存する
}

// KyuseiAnalysisResponse 分析結果。SessionID がない場合は保存しないので ID は空
type KyuseiAnalysisResponse struct {
	ID string `json:"id,omitempty"`
	KyuseiAnalysisResult
}

// FengShuiAnalysisRequest 風水分析の作成リクエスト。Directions が空なら地点から計算する
type FengShuiAnalysisRequest struct {
	LocationID int64  `json:"locationId"`
	Directions string `json:"directions"`
}

// FengShuiDirectionDetail 地点から見た1方位の風水情報
type FengShuiDirectionDetail struct {
	Direction string   `json:"direction"`
	Angle     float64  `json:"angle"`
	Element   string   `json:"element"`
	Fortune   Fortune  `json:"fortune"`
	Optimal   Position `json:"optimal"` // 100m 先の地点
}
