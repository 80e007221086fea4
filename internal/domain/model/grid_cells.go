package model

import "github.com/paulmach/orb"

// GridCell 吉凶判定済みのグリッドセル
type GridCell struct {
	Row        int      `json:"row"`        // 格子の行番号（南から）
	Col        int      `json:"col"`        // 格子の列番号（西から）
	Lat        float64  `json:"lat"`        // セル中心の緯度
	Lng        float64  `json:"lng"`        // セル中心の経度
	Bearing    float64  `json:"bearing"`    // 自宅からの方位角
	IsGood     bool     `json:"isGood"`     // 吉方位か
	CellBounds orb.Ring `json:"cellBounds"` // 閉じた5点リング（[経度, 緯度]）
}

// OverlayData 地図オーバーレイ用の全データ
type OverlayData struct {
	GoodCells    []GridCell    `json:"goodCells"`
	BadCells     []GridCell    `json:"badCells"`
	GoodPolygons []orb.Polygon `json:"goodPolygons"`
	BadPolygons  []orb.Polygon `json:"badPolygons"`
}

// GridStats デバッグ用の集計
type GridStats struct {
	TotalCells   int `json:"totalCells"`
	GoodCells    int `json:"goodCells"`
	BadCells     int `json:"badCells"`
	GoodPolygons int `json:"goodPolygons"`
	BadPolygons  int `json:"badPolygons"`
}

// BuildState オーバーレイ構築の状態
type BuildState string

const (
	BuildStateIdle        BuildState = "idle"
	BuildStateGenerating  BuildState = "generating"
	BuildStateClassifying BuildState = "classifying"
	BuildStateGrouping    BuildState = "grouping"
	BuildStateDone        BuildState = "done"
	BuildStateCanceled    BuildState = "canceled"
	BuildStateFailed      BuildState = "failed"
)

// Progress 進捗通知。Fraction は [0,1] で単調非減少
type Progress struct {
	State    BuildState `json:"state"`
	Fraction float64    `json:"fraction"`
}

// ProgressFunc 進捗コールバック
type ProgressFunc func(Progress)
