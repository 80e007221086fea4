package model

// DirectionConstants は8方位の名称（日本語表記をそのまま識別子として使う）
const (
	DirectionNorth     = "北"
	DirectionNorthEast = "北東"
	DirectionEast      = "東"
	DirectionSouthEast = "南東"
	DirectionSouth     = "南"
	DirectionSouthWest = "南西"
	DirectionWest      = "西"
	DirectionNorthWest = "北西"
)

// ElementConstants は五行
const (
	ElementWater = "水"
	ElementFire  = "火"
	ElementWood  = "木"
	ElementMetal = "金"
	ElementEarth = "土"
)

// Fortune 方位の吉凶
type Fortune string

const (
	FortuneAuspicious   Fortune = "auspicious"
	FortuneInauspicious Fortune = "inauspicious"
	FortuneNeutral      Fortune = "neutral"
)

// DirectionCodeMap は方位名から英字コードへのマッピング
var DirectionCodeMap = map[string]string{
	DirectionNorth:     "N",
	DirectionNorthEast: "NE",
	DirectionEast:      "E",
	DirectionSouthEast: "SE",
	DirectionSouth:     "S",
	DirectionSouthWest: "SW",
	DirectionWest:      "W",
	DirectionNorthWest: "NW",
}

// GetDirectionCode は方位名から英字コードを取得する
func GetDirectionCode(name string) string {
	if code, ok := DirectionCodeMap[name]; ok {
		return code
	}
	return name // 未知の方位はそのまま返す
}

// GetPrimaryDirections は四正（北・東・南・西）の一覧を取得する
func GetPrimaryDirections() []string {
	return []string{
		DirectionNorth,
		DirectionEast,
		DirectionSouth,
		DirectionWest,
	}
}

// GetSecondaryDirections は四隅（北東・南東・南西・北西）の一覧を取得する
func GetSecondaryDirections() []string {
	return []string{
		DirectionNorthEast,
		DirectionSouthEast,
		DirectionSouthWest,
		DirectionNorthWest,
	}
}

// GetAllDirections は北から時計回りの8方位を取得する
func GetAllDirections() []string {
	directions := make([]string, 0, len(Directions))
	for _, d := range Directions {
		directions = append(directions, d.Name)
	}
	return directions
}
