package service

import (
	"sort"

	"github.com/paulmach/orb"

	"Kyusei-App/internal/domain/model"
)

// PolygonGrouper 同じ判定のセル群を描画用ポリゴンにまとめる
type PolygonGrouper interface {
	Group(cells []model.GridCell) []orb.Polygon
}

// GrouperFor 方式に応じたグルーパーを返す
func GrouperFor(policy GroupingPolicy) PolygonGrouper {
	if policy == GroupingMerge {
		return RectMergeGrouper{}
	}
	return IdentityGrouper{}
}

// IdentityGrouper 1セルを1ポリゴンとして返す
type IdentityGrouper struct{}

// Group セルの境界をそのままポリゴンにする
func (IdentityGrouper) Group(cells []model.GridCell) []orb.Polygon {
	polygons := make([]orb.Polygon, 0, len(cells))
	for _, c := range cells {
		polygons = append(polygons, orb.Polygon{c.CellBounds})
	}
	return polygons
}

// RectMergeGrouper 行内で連続するセルをランにまとめ、
// 同じ列範囲のランが連続する行にあれば縦方向にも結合して矩形にする。
// 覆う範囲はセルの和集合と一致する
type RectMergeGrouper struct{}

type cellRun struct {
	row, colStart, colEnd int
	west, east            float64
	south, north          float64
}

type mergedRect struct {
	rowStart, rowEnd int
	colStart         int
	west, east       float64
	south, north     float64
}

// Group 隣接セルを矩形に結合する
func (RectMergeGrouper) Group(cells []model.GridCell) []orb.Polygon {
	if len(cells) == 0 {
		return []orb.Polygon{}
	}

	sorted := make([]model.GridCell, len(cells))
	copy(sorted, cells)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	done := make([]mergedRect, 0)
	active := make(map[[2]int]*mergedRect)

	flushBefore := func(row int) {
		for key, r := range active {
			if r.rowEnd < row-1 {
				done = append(done, *r)
				delete(active, key)
			}
		}
	}
	addRun := func(run cellRun) {
		key := [2]int{run.colStart, run.colEnd}
		if r, ok := active[key]; ok && r.rowEnd == run.row-1 {
			r.rowEnd = run.row
			r.north = run.north
			return
		}
		active[key] = &mergedRect{
			rowStart: run.row,
			rowEnd:   run.row,
			colStart: run.colStart,
			west:     run.west,
			east:     run.east,
			south:    run.south,
			north:    run.north,
		}
	}

	currentRow := sorted[0].Row
	var run *cellRun
	for _, c := range sorted {
		if c.Row != currentRow {
			addRun(*run)
			run = nil
			currentRow = c.Row
			flushBefore(currentRow)
		}
		if run != nil && c.Col == run.colEnd+1 {
			run.colEnd = c.Col
			run.east = c.CellBounds[2][0]
			continue
		}
		if run != nil {
			addRun(*run)
		}
		run = &cellRun{
			row:      c.Row,
			colStart: c.Col,
			colEnd:   c.Col,
			west:     c.CellBounds[0][0],
			east:     c.CellBounds[2][0],
			south:    c.CellBounds[0][1],
			north:    c.CellBounds[2][1],
		}
	}
	if run != nil {
		addRun(*run)
	}
	for _, r := range active {
		done = append(done, *r)
	}

	sort.Slice(done, func(i, j int) bool {
		if done[i].rowStart != done[j].rowStart {
			return done[i].rowStart < done[j].rowStart
		}
		return done[i].colStart < done[j].colStart
	})

	polygons := make([]orb.Polygon, 0, len(done))
	for _, r := range done {
		polygons = append(polygons, orb.Polygon{orb.Ring{
			{r.west, r.south},
			{r.east, r.south},
			{r.east, r.north},
			{r.west, r.north},
			{r.west, r.south},
		}})
	}
	return polygons
}
