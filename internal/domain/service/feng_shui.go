package service

import (
	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
)

// DefaultOptimalDirection 方位名が不明なときの既定（南東）
const DefaultOptimalDirection = model.DirectionSouthEast

// optimalOffsetMeters 最適位置の移動距離
const optimalOffsetMeters = 100.0

var fengShuiAttributes = map[string]struct {
	element string
	fortune model.Fortune
}{
	model.DirectionNorth:     {model.ElementWater, model.FortuneNeutral},
	model.DirectionNorthEast: {model.ElementEarth, model.FortuneInauspicious},
	model.DirectionEast:      {model.ElementWood, model.FortuneAuspicious},
	model.DirectionSouthEast: {model.ElementWood, model.FortuneAuspicious},
	model.DirectionSouth:     {model.ElementFire, model.FortuneAuspicious},
	model.DirectionSouthWest: {model.ElementEarth, model.FortuneInauspicious},
	model.DirectionWest:      {model.ElementMetal, model.FortuneNeutral},
	model.DirectionNorthWest: {model.ElementMetal, model.FortuneAuspicious},
}

// OctantOf 方位角が属する方位。45°の Range を [start, end) で判定する
func OctantOf(bearing float64) model.Direction {
	b := helper.NormalizeDegrees(bearing)
	for _, d := range model.Directions {
		start, end := d.Range[0], d.Range[1]
		if start > end {
			if b >= start || b < end {
				return d
			}
			continue
		}
		if b >= start && b < end {
			return d
		}
	}
	return model.Directions[0]
}

// GetFengShuiDirection 方位角に対する風水の判定
func GetFengShuiDirection(bearing float64) model.FengShuiDirection {
	dir := OctantOf(bearing)
	attr := fengShuiAttributes[dir.Name]
	return model.FengShuiDirection{
		Primary: dir.Name,
		Element: attr.element,
		Fortune: attr.fortune,
	}
}

// CalculateOptimalPosition 指定方位へ100m移動した地点を返す
func CalculateOptimalPosition(center model.Position, targetDirection string) model.Position {
	dir, ok := model.GetDirection(targetDirection)
	if !ok {
		dir, _ = model.GetDirection(DefaultOptimalDirection)
	}
	return helper.Destination(center, dir.Angle, optimalOffsetMeters)
}
