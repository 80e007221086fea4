package model

import "time"

// Location 保存された地点
type Location struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Elevation *float64  `json:"elevation,omitempty" db:"elevation"` // NULLABLE
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Position 地点の座標
func (l *Location) Position() Position {
	return Position{Lat: l.Latitude, Lng: l.Longitude}
}

// LocationInput 作成・更新用の入力。更新時は nil のフィールドを変更しない
type LocationInput struct {
	Name      *string  `json:"name"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation"`
}

// Marker 地図上のマーカー
type Marker struct {
	ID         int64     `json:"id" db:"id"`
	LocationID *int64    `json:"locationId,omitempty" db:"location_id"`
	Latitude   float64   `json:"latitude" db:"latitude"`
	Longitude  float64   `json:"longitude" db:"longitude"`
	Type       string    `json:"type" db:"type"` // point, center, feng-shui
	IsActive   bool      `json:"isActive" db:"is_active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// MarkerInput マーカーの作成・更新用の入力
type MarkerInput struct {
	LocationID *int64   `json:"locationId"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Type       *string  `json:"type"`
	IsActive   *bool    `json:"isActive"`
}

// マーカー種別
const (
	MarkerTypePoint    = "point"
	MarkerTypeCenter   = "center"
	MarkerTypeFengShui = "feng-shui"
)

// FengShuiAnalysis 地点ごとの風水分析（方位計算結果はJSON文字列）
type FengShuiAnalysis struct {
	ID           int64     `json:"id" db:"id"`
	LocationID   int64     `json:"locationId" db:"location_id"`
	Directions   string    `json:"directions" db:"directions"`
	AnalysisDate time.Time `json:"analysisDate" db:"analysis_date"`
}

// KyuseiAnalysis 保存された九星気学の分析
type KyuseiAnalysis struct {
	ID             string    `json:"id" db:"id" firestore:"-"`
	SessionID      string    `json:"sessionId" db:"session_id" firestore:"session_id"`
	LocationID     *int64    `json:"locationId,omitempty" db:"location_id" firestore:"location_id"`
	BirthDate      BirthDate `json:"birthDate" db:"-" firestore:"birth_date"`
	MoveYear       int       `json:"moveYear" db:"move_year" firestore:"move_year"`
	MoveMonth      int       `json:"moveMonth" db:"move_month" firestore:"move_month"`
	HomeStar       int       `json:"homeStar" db:"home_star" firestore:"home_star"`
	GoodSectors    []Sector  `json:"goodSectors" db:"-" firestore:"good_sectors"`
	BadDirections  []string  `json:"badDirections" db:"-" firestore:"bad_directions"`
	Recommendation string    `json:"recommendation" db:"recommendation" firestore:"recommendation"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at" firestore:"created_at"`
}

// UserProfile セッション単位の利用者情報
type UserProfile struct {
	ID        int64      `json:"id" db:"id"`
	SessionID string     `json:"sessionId" db:"session_id"`
	BirthDate *BirthDate `json:"birthDate,omitempty" db:"-"`
	HomeStar  *int       `json:"homeStar,omitempty" db:"home_star"`
	HomeLat   *float64   `json:"homeLat,omitempty" db:"home_lat"`
	HomeLng   *float64   `json:"homeLng,omitempty" db:"home_lng"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
