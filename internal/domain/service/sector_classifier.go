package service

import (
	"fmt"

	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
)

// GoodSectorHalfWidth 吉方位帯の片側幅（度）。吉方位帯は30°幅で、
// 方位の45° Range（風水判定で使用）とは別の規約
const GoodSectorHalfWidth = 15.0

// NoGoodDirectionMessage 吉方位がないときの推奨文
const NoGoodDirectionMessage = "今月は移転に適さない時期です"

// SectorClassifier 本命星と年月から吉方位帯・凶方位を求める
type SectorClassifier struct {
	calendar StarCalendar
}

// NewSectorClassifier 新しいSectorClassifierを作成
func NewSectorClassifier(calendar StarCalendar) *SectorClassifier {
	return &SectorClassifier{calendar: calendar}
}

// BadDirections 凶方位を返す。
// 五黄殺・暗剣殺・歳破は計算せず、鬼門・裏鬼門（北東・南西）を年月に関係なく凶とする
func (s *SectorClassifier) BadDirections(year, month int) []string {
	return []string{model.DirectionNorthEast, model.DirectionSouthWest}
}

// IsCompatible 本命星と方位の相性。範囲外の星はどの方位とも相性なし
func IsCompatible(homeStar int, direction string) bool {
	for _, d := range model.StarCompatibility[homeStar] {
		if d == direction {
			return true
		}
	}
	return false
}

// GoodSectors 吉方位帯を方位テーブルの順に返す
func (s *SectorClassifier) GoodSectors(homeStar, year, month int) []model.Sector {
	bad := make(map[string]struct{})
	for _, d := range s.BadDirections(year, month) {
		bad[d] = struct{}{}
	}

	sectors := make([]model.Sector, 0, 2)
	for _, dir := range model.Directions {
		if _, isBad := bad[dir.Name]; isBad {
			continue
		}
		if !IsCompatible(homeStar, dir.Name) {
			continue
		}
		sectors = append(sectors, model.Sector{
			Start:     helper.NormalizeDegrees(dir.Angle - GoodSectorHalfWidth),
			End:       helper.NormalizeDegrees(dir.Angle + GoodSectorHalfWidth),
			Direction: dir.Name,
			Star:      homeStar,
			IsGood:    true,
		})
	}
	return sectors
}

// Analyze 九星気学の分析結果をまとめる。
// month は呼び出し側で検証済みであること。範囲外の場合 Arrangement はゼロ値になる
func (s *SectorClassifier) Analyze(homeStar, year, month int) model.KyuseiAnalysisResult {
	star, _ := model.GetKyuseiStar(homeStar)
	goodSectors := s.GoodSectors(homeStar, year, month)
	arrangement, _ := s.calendar.StarArrangement(year, month)

	return model.KyuseiAnalysisResult{
		HomeStar:         star,
		Arrangement:      arrangement,
		GoodSectors:      goodSectors,
		BadDirections:    s.BadDirections(year, month),
		TotalGoodSectors: len(goodSectors),
		Recommendation:   Recommendation(goodSectors),
	}
}

// Recommendation 最初の吉方位帯を推奨する
func Recommendation(goodSectors []model.Sector) string {
	if len(goodSectors) == 0 {
		return NoGoodDirectionMessage
	}
	return fmt.Sprintf("%s方向が最も適しています", goodSectors[0].Direction)
}
