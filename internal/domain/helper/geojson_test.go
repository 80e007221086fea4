package helper

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kyusei-App/internal/domain/model"
)

func square(x, y float64) orb.Ring {
	return orb.Ring{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}
}

func TestOverlayFeatureCollection(t *testing.T) {
	overlay := &model.OverlayData{
		GoodPolygons: []orb.Polygon{{square(0, 0)}},
		BadPolygons:  []orb.Polygon{{square(1, 0)}, {square(2, 0)}},
	}

	fc := OverlayFeatureCollection(overlay)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "good", fc.Features[0].Properties["fortune"])
	assert.Equal(t, "bad", fc.Features[2].Properties["fortune"])

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	decoded, err := geojson.UnmarshalFeatureCollection(raw)
	require.NoError(t, err)
	require.Len(t, decoded.Features, 3)
	assert.Equal(t, "Polygon", decoded.Features[1].Geometry.GeoJSONType())

	assert.Empty(t, OverlayFeatureCollection(nil).Features)
}

func TestDirectionLinesFeatureCollection(t *testing.T) {
	center := model.Position{Lat: 35, Lng: 135}
	lines := []model.DirectionLine{{
		Name: model.DirectionNorth, Angle: 0, Color: "#1976D2", Type: "primary",
		Start: center, End: Destination(center, 0, 1000), Label: Destination(center, 0, 900),
	}}

	fc := DirectionLinesFeatureCollection(lines)
	require.Len(t, fc.Features, 2)

	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.Point{135, 35}, ls[0])
	assert.Equal(t, "primary", fc.Features[0].Properties["type"])

	_, ok = fc.Features[1].Geometry.(orb.Point)
	assert.True(t, ok)
}

func TestBoundOfCells(t *testing.T) {
	_, ok := BoundOfCells(nil)
	assert.False(t, ok)

	b, ok := BoundOfCells([]model.GridCell{{CellBounds: square(0, 0)}, {CellBounds: square(3, 2)}})
	require.True(t, ok)
	assert.Equal(t, orb.Point{0, 0}, b.Min)
	assert.Equal(t, orb.Point{4, 3}, b.Max)
}
