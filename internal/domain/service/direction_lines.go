package service

import (
	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
)

// 方位線の色
const (
	PrimaryLineColor   = "#1976D2"
	SecondaryLineColor = "#FF6B35"
)

// labelDistanceRatio ラベルは線の90%の位置に置く
const labelDistanceRatio = 0.9

// DirectionLines 中心から半径 radiusMeters の8方位線を返す（四正→四隅の順）
func DirectionLines(center model.Position, radiusMeters float64, showPrimary, showSecondary bool) []model.DirectionLine {
	lines := make([]model.DirectionLine, 0, 8)
	if showPrimary {
		for _, name := range model.GetPrimaryDirections() {
			lines = append(lines, directionLine(center, name, "primary", PrimaryLineColor, radiusMeters))
		}
	}
	if showSecondary {
		for _, name := range model.GetSecondaryDirections() {
			lines = append(lines, directionLine(center, name, "secondary", SecondaryLineColor, radiusMeters))
		}
	}
	return lines
}

func directionLine(center model.Position, name, lineType, color string, radiusMeters float64) model.DirectionLine {
	dir, _ := model.GetDirection(name)
	return model.DirectionLine{
		Name:  dir.Name,
		Angle: dir.Angle,
		Color: color,
		Type:  lineType,
		Start: center,
		End:   helper.Destination(center, dir.Angle, radiusMeters),
		Label: helper.Destination(center, dir.Angle, radiusMeters*labelDistanceRatio),
	}
}
