package helper

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"Kyusei-App/internal/domain/model"
)

// OverlayFeatureCollection 吉凶ポリゴンを GeoJSON FeatureCollection に変換する。
// 各 Feature は properties.fortune に "good" / "bad" を持つ
func OverlayFeatureCollection(overlay *model.OverlayData) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if overlay == nil {
		return fc
	}
	appendPolygons(fc, overlay.GoodPolygons, "good")
	appendPolygons(fc, overlay.BadPolygons, "bad")
	return fc
}

func appendPolygons(fc *geojson.FeatureCollection, polygons []orb.Polygon, fortune string) {
	for _, p := range polygons {
		f := geojson.NewFeature(p)
		f.Properties["fortune"] = fortune
		fc.Append(f)
	}
}

// DirectionLinesFeatureCollection 方位線を LineString、ラベル位置を Point として出力する
func DirectionLinesFeatureCollection(lines []model.DirectionLine) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range lines {
		line := geojson.NewFeature(orb.LineString{l.Start.ToPoint(), l.End.ToPoint()})
		line.Properties["name"] = l.Name
		line.Properties["angle"] = l.Angle
		line.Properties["color"] = l.Color
		line.Properties["type"] = l.Type
		fc.Append(line)

		label := geojson.NewFeature(l.Label.ToPoint())
		label.Properties["name"] = l.Name
		label.Properties["role"] = "label"
		fc.Append(label)
	}
	return fc
}

// BoundOfCells セル群を囲む矩形。セルがなければ false
func BoundOfCells(cells []model.GridCell) (orb.Bound, bool) {
	if len(cells) == 0 {
		return orb.Bound{}, false
	}
	bound := cells[0].CellBounds.Bound()
	for _, c := range cells[1:] {
		bound = bound.Union(c.CellBounds.Bound())
	}
	return bound, true
}
