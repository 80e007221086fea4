package service

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kyusei-App/internal/domain/model"
)

func totalArea(polygons []orb.Polygon) float64 {
	sum := 0.0
	for _, p := range polygons {
		sum += planar.Area(p)
	}
	return sum
}

func TestIdentityGrouper(t *testing.T) {
	assert.Empty(t, IdentityGrouper{}.Group(nil))

	cells, err := GenerateFortuneGrid(context.Background(), tokyoHome, nil, smallGridOptions(), nil)
	require.NoError(t, err)

	polygons := IdentityGrouper{}.Group(cells)
	require.Len(t, polygons, len(cells))
	for i, p := range polygons {
		assert.Equal(t, cells[i].CellBounds, p[0])
	}
}

func TestRectMergeGrouper_PreservesCoverage(t *testing.T) {
	sectors := newTestClassifier().GoodSectors(1, 2024, 6)
	cells, err := GenerateFortuneGrid(context.Background(), tokyoHome, sectors, smallGridOptions(), nil)
	require.NoError(t, err)
	good, bad := PartitionCells(cells)

	for _, part := range [][]model.GridCell{good, bad} {
		identity := IdentityGrouper{}.Group(part)
		merged := RectMergeGrouper{}.Group(part)

		assert.Less(t, len(merged), len(identity))
		assert.InEpsilon(t, totalArea(identity), totalArea(merged), 1e-6)

		// 各セル中心はちょうど1つの矩形に含まれる
		for _, c := range part {
			hits := 0
			for _, p := range merged {
				if planar.PolygonContains(p, orb.Point{c.Lng, c.Lat}) {
					hits++
				}
			}
			assert.Equal(t, 1, hits, "row=%d col=%d", c.Row, c.Col)
		}
	}
}

func TestRectMergeGrouper_FullBlock(t *testing.T) {
	l := newLattice(tokyoHome, smallGridOptions())
	var cells []model.GridCell
	for row := 3; row < 6; row++ {
		for col := 2; col < 7; col++ {
			pos := model.Position{Lat: l.minLat + float64(row)*l.latStep, Lng: l.minLng + float64(col)*l.lngStep}
			cells = append(cells, model.GridCell{Row: row, Col: col, Lat: pos.Lat, Lng: pos.Lng, CellBounds: l.cellBounds(pos)})
		}
	}

	merged := RectMergeGrouper{}.Group(cells)
	require.Len(t, merged, 1)

	ring := merged[0][0]
	assert.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
	assert.Equal(t, cells[0].CellBounds[0], ring[0])
	assert.Equal(t, cells[len(cells)-1].CellBounds[2], ring[2])
}

func TestRectMergeGrouper_SplitsGaps(t *testing.T) {
	l := newLattice(tokyoHome, smallGridOptions())
	mk := func(row, col int) model.GridCell {
		pos := model.Position{Lat: l.minLat + float64(row)*l.latStep, Lng: l.minLng + float64(col)*l.lngStep}
		return model.GridCell{Row: row, Col: col, Lat: pos.Lat, Lng: pos.Lng, CellBounds: l.cellBounds(pos)}
	}
	// 行2: 列1-2 と 列4、行4: 列1-2（行3が空いているので縦には結合しない）
	cells := []model.GridCell{mk(4, 2), mk(2, 1), mk(2, 2), mk(2, 4), mk(4, 1)}

	merged := RectMergeGrouper{}.Group(cells)
	assert.Len(t, merged, 3)
}

func TestGrouperFor(t *testing.T) {
	assert.IsType(t, IdentityGrouper{}, GrouperFor(GroupingIdentity))
	assert.IsType(t, IdentityGrouper{}, GrouperFor(""))
	assert.IsType(t, RectMergeGrouper{}, GrouperFor(GroupingMerge))
}
