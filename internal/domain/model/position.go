package model

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
)

// Position 緯度経度（度）を表す不変の値型
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToPoint orb.Point（[経度, 緯度]）に変換
func (p Position) ToPoint() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// PositionFromPoint orb.Point から Position を作成
func PositionFromPoint(pt orb.Point) Position {
	return Position{Lat: pt.Lat(), Lng: pt.Lon()}
}

// Validate 入力境界での座標チェック。GeoMath はこのチェック済みの値だけを受け取る
func (p Position) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return eris.Wrapf(ErrInvalidPosition, "座標が有限値ではありません (%v, %v)", p.Lat, p.Lng)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return eris.Wrapf(ErrInvalidPosition, "緯度は-90から90の範囲で指定してください: %v", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return eris.Wrapf(ErrInvalidPosition, "経度は-180から180の範囲で指定してください: %v", p.Lng)
	}
	return nil
}
