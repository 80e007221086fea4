package model

// KyuseiStar 九星（本命星）の定義
type KyuseiStar struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Element string `json:"element"`
}

// KyuseiStars は1〜9の静的テーブル
var KyuseiStars = map[int]KyuseiStar{
	1: {Number: 1, Name: "一白水星", Element: ElementWater},
	2: {Number: 2, Name: "二黒土星", Element: ElementEarth},
	3: {Number: 3, Name: "三碧木星", Element: ElementWood},
	4: {Number: 4, Name: "四緑木星", Element: ElementWood},
	5: {Number: 5, Name: "五黄土星", Element: ElementEarth},
	6: {Number: 6, Name: "六白金星", Element: ElementMetal},
	7: {Number: 7, Name: "七赤金星", Element: ElementMetal},
	8: {Number: 8, Name: "八白土星", Element: ElementEarth},
	9: {Number: 9, Name: "九紫火星", Element: ElementFire},
}

// GetKyuseiStar は番号から星を取得する
func GetKyuseiStar(number int) (KyuseiStar, bool) {
	star, ok := KyuseiStars[number]
	return star, ok
}

// Direction 8方位の1つ。Range は角度を中心とした45°幅の境界（北は 337.5〜22.5 で0°をまたぐ）
type Direction struct {
	Name  string     `json:"name"`
	Angle float64    `json:"angle"`
	Range [2]float64 `json:"range"`
}

// Directions は北から時計回りの順序付きテーブル。セクター生成はこの順序で行う
var Directions = []Direction{
	{Name: DirectionNorth, Angle: 0, Range: [2]float64{337.5, 22.5}},
	{Name: DirectionNorthEast, Angle: 45, Range: [2]float64{22.5, 67.5}},
	{Name: DirectionEast, Angle: 90, Range: [2]float64{67.5, 112.5}},
	{Name: DirectionSouthEast, Angle: 135, Range: [2]float64{112.5, 157.5}},
	{Name: DirectionSouth, Angle: 180, Range: [2]float64{157.5, 202.5}},
	{Name: DirectionSouthWest, Angle: 225, Range: [2]float64{202.5, 247.5}},
	{Name: DirectionWest, Angle: 270, Range: [2]float64{247.5, 292.5}},
	{Name: DirectionNorthWest, Angle: 315, Range: [2]float64{292.5, 337.5}},
}

// GetDirection は方位名からテーブルの定義を取得する
func GetDirection(name string) (Direction, bool) {
	for _, d := range Directions {
		if d.Name == name {
			return d, true
		}
	}
	return Direction{}, false
}

// StarCompatibility は本命星と相性の良い方位
var StarCompatibility = map[int][]string{
	1: {DirectionSouthEast, DirectionSouth},     // 水は木・火と相性良し
	2: {DirectionNorthEast, DirectionSouthWest}, // 土星は本位
	3: {DirectionSouth, DirectionSouthEast},     // 木は火・木と相性良し
	4: {DirectionSouth, DirectionSouthEast},
	5: {DirectionNorthEast, DirectionSouthWest},
	6: {DirectionNorthWest, DirectionWest}, // 金星は本位
	7: {DirectionNorthWest, DirectionWest},
	8: {DirectionNorthEast, DirectionSouthWest},
	9: {DirectionEast, DirectionSouthEast}, // 火は木と相性良し
}

// Sector 方位帯。Start > End のときは0°をまたぐ
type Sector struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Direction string  `json:"direction"`
	Star      int     `json:"star"`
	IsGood    bool    `json:"isGood"`
}

// Contains 方位角がセクターに含まれるか（両端を含む）
func (s Sector) Contains(bearing float64) bool {
	if s.Start > s.End {
		return bearing >= s.Start || bearing <= s.End
	}
	return bearing >= s.Start && bearing <= s.End
}

// StarArrangement 年盤・月盤の中宮
type StarArrangement struct {
	YearStar  int `json:"yearStar"`
	MonthStar int `json:"monthStar"`
}

// KyuseiAnalysisResult 九星気学の分析結果
type KyuseiAnalysisResult struct {
	HomeStar         KyuseiStar      `json:"homenStar"`
	Arrangement      StarArrangement `json:"arrangement"`
	GoodSectors      []Sector        `json:"goodSectors"`
	BadDirections    []string        `json:"badDirections"`
	TotalGoodSectors int             `json:"totalGoodSectors"`
	Recommendation   string          `json:"recommendation"`
}
