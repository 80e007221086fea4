package model

// DirectionLine 中心から伸びる方位線
type DirectionLine struct {
	Name  string   `json:"name"`
	Angle float64  `json:"angle"`
	Color string   `json:"color"`
	Type  string   `json:"type"` // "primary" or "secondary"
	Start Position `json:"start"`
	End   Position `json:"end"`
	Label Position `json:"label"`
}

// FengShuiDirection 方位角に対する風水の判定
type FengShuiDirection struct {
	Primary   string  `json:"primary"`
	Secondary string  `json:"secondary"`
	Element   string  `json:"element"`
	Fortune   Fortune `json:"fortune"`
}

// GeocodeResult ジオコーディング結果
type GeocodeResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formattedAddress"`
}
