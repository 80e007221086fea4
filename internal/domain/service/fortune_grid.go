package service

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
)

// デフォルトのグリッド設定
const (
	DefaultRadiusKm   = 120.0
	DefaultCellSizeKm = 1.0
	DefaultMaxCells   = 2_000_000 // 円形クリップ前の格子点数の上限
)

// GroupingPolicy セルをポリゴンにまとめる方式
type GroupingPolicy string

const (
	GroupingIdentity GroupingPolicy = "identity" // 1セル1ポリゴン
	GroupingMerge    GroupingPolicy = "merge"    // 隣接セルを矩形に結合
)

// GridOptions グリッド生成の設定
type GridOptions struct {
	RadiusKm   float64        `json:"radiusKm"`
	CellSizeKm float64        `json:"cellSizeKm"`
	Workers    int            `json:"-"` // 0以下なら GOMAXPROCS
	Grouping   GroupingPolicy `json:"grouping"`
	MaxCells   int            `json:"-"` // 0以下なら DefaultMaxCells
}

// DefaultGridOptions 半径120km・1kmメッシュ
func DefaultGridOptions() GridOptions {
	return GridOptions{
		RadiusKm:   DefaultRadiusKm,
		CellSizeKm: DefaultCellSizeKm,
		Grouping:   GroupingIdentity,
	}
}

// Validate 設定値のチェック
func (o GridOptions) Validate() error {
	if !(o.RadiusKm > 0) || math.IsInf(o.RadiusKm, 0) {
		return eris.Wrapf(model.ErrInvalidOptions, "radiusKm must be positive: %v", o.RadiusKm)
	}
	if !(o.CellSizeKm > 0) || math.IsInf(o.CellSizeKm, 0) {
		return eris.Wrapf(model.ErrInvalidOptions, "cellSizeKm must be positive: %v", o.CellSizeKm)
	}
	if o.CellSizeKm > 2*o.RadiusKm {
		return eris.Wrapf(model.ErrInvalidOptions, "cellSizeKm %v exceeds grid diameter", o.CellSizeKm)
	}
	// 整数に変換する前に浮動小数点で格子点数を見積もる
	side := math.Floor(2*o.RadiusKm/o.CellSizeKm+1e-9) + 1
	if side*side > float64(o.maxCells()) {
		return eris.Wrapf(model.ErrInvalidOptions, "grid of %.0f x %.0f cells exceeds limit %d", side, side, o.maxCells())
	}
	switch o.Grouping {
	case "", GroupingIdentity, GroupingMerge:
	default:
		return eris.Wrapf(model.ErrInvalidOptions, "unknown grouping %q", o.Grouping)
	}
	return nil
}

func (o GridOptions) maxCells() int {
	if o.MaxCells > 0 {
		return o.MaxCells
	}
	return DefaultMaxCells
}

func (o GridOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// lattice 自宅を中心とした正方格子。経度方向の換算は自宅の緯度で固定する
type lattice struct {
	home    model.Position
	minLat  float64
	minLng  float64
	latStep float64
	lngStep float64
	halfLat float64
	halfLng float64
	size    int // 行数 = 列数
	radiusM float64
}

func newLattice(home model.Position, opts GridOptions) lattice {
	latDegrees := helper.KmToDegreesLat(opts.RadiusKm)
	lngDegrees := helper.KmToDegreesLng(opts.RadiusKm, home.Lat)
	steps := int(math.Floor(2*opts.RadiusKm/opts.CellSizeKm + 1e-9))

	return lattice{
		home:    home,
		minLat:  home.Lat - latDegrees,
		minLng:  home.Lng - lngDegrees,
		latStep: helper.KmToDegreesLat(opts.CellSizeKm),
		lngStep: helper.KmToDegreesLng(opts.CellSizeKm, home.Lat),
		halfLat: helper.KmToDegreesLat(opts.CellSizeKm / 2),
		halfLng: helper.KmToDegreesLng(opts.CellSizeKm/2, home.Lat),
		size:    steps + 1,
		radiusM: opts.RadiusKm * 1000,
	}
}

// candidates 円形クリップ前の格子点数
func (l lattice) candidates() int {
	return l.size * l.size
}

// cell 格子点を判定する。半径外なら false
func (l lattice) cell(row, col int, sectors []model.Sector) (model.GridCell, bool) {
	pos := model.Position{
		Lat: l.minLat + float64(row)*l.latStep,
		Lng: l.minLng + float64(col)*l.lngStep,
	}
	if helper.Distance(l.home, pos) > l.radiusM {
		return model.GridCell{}, false
	}

	bearing := helper.Bearing(l.home, pos)
	return model.GridCell{
		Row:        row,
		Col:        col,
		Lat:        pos.Lat,
		Lng:        pos.Lng,
		Bearing:    bearing,
		IsGood:     IsBearingGood(bearing, sectors),
		CellBounds: l.cellBounds(pos),
	}, true
}

// cellBounds 南西・南東・北東・北西・南西（閉じる）の順のリング
func (l lattice) cellBounds(center model.Position) orb.Ring {
	south := center.Lat - l.halfLat
	north := center.Lat + l.halfLat
	west := center.Lng - l.halfLng
	east := center.Lng + l.halfLng
	return orb.Ring{
		{west, south},
		{east, south},
		{east, north},
		{west, north},
		{west, south},
	}
}

// IsBearingGood 方位角がいずれかの吉方位帯に含まれるか
func IsBearingGood(bearing float64, goodSectors []model.Sector) bool {
	for _, s := range goodSectors {
		if s.Contains(bearing) {
			return true
		}
	}
	return false
}

// GenerateFortuneGrid 自宅周辺の格子点を判定してセルを返す（行優先順）。
// 行をワーカーに分配し、各行の境界で ctx のキャンセルを確認する
func GenerateFortuneGrid(ctx context.Context, home model.Position, goodSectors []model.Sector, opts GridOptions, onRow func(done, total int)) ([]model.GridCell, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	l := newLattice(home, opts)
	workers := opts.workers()
	chunkRows := l.size / (workers * 4)
	if chunkRows < 1 {
		chunkRows = 1
	}
	shardCount := (l.size + chunkRows - 1) / chunkRows
	shards := make([][]model.GridCell, shardCount)

	var rowsDone atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for shard := 0; shard < shardCount; shard++ {
		firstRow := shard * chunkRows
		lastRow := min(firstRow+chunkRows, l.size)
		g.Go(func() error {
			var cells []model.GridCell
			for row := firstRow; row < lastRow; row++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				for col := 0; col < l.size; col++ {
					if c, ok := l.cell(row, col, goodSectors); ok {
						cells = append(cells, c)
					}
				}
				done := rowsDone.Add(1)
				if onRow != nil {
					onRow(int(done), l.size)
				}
			}
			shards[shard] = cells
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, s := range shards {
		total += len(s)
	}
	cells := make([]model.GridCell, 0, total)
	for _, s := range shards {
		cells = append(cells, s...)
	}
	return cells, nil
}

// PartitionCells 吉凶でセルを分ける
func PartitionCells(cells []model.GridCell) (good, bad []model.GridCell) {
	good = make([]model.GridCell, 0)
	bad = make([]model.GridCell, 0)
	for _, c := range cells {
		if c.IsGood {
			good = append(good, c)
		} else {
			bad = append(bad, c)
		}
	}
	return good, bad
}

// progressReporter 進捗を直列化し、値が減らないようにする
type progressReporter struct {
	mu   sync.Mutex
	last float64
	fn   model.ProgressFunc
}

func (r *progressReporter) report(state model.BuildState, fraction float64) {
	if r.fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if fraction < r.last {
		fraction = r.last
	}
	if fraction > 1 {
		fraction = 1
	}
	r.last = fraction
	r.fn(model.Progress{State: state, Fraction: fraction})
}

// BuildLuckOverlay 吉凶オーバーレイを構築する。
// Idle → Generating → Classifying → Grouping → Done の単発処理で、完了時のデータのみ返す。
// ctx がキャンセルされた場合は model.ErrBuildCanceled を返しデータは返さない
func BuildLuckOverlay(ctx context.Context, home model.Position, goodSectors []model.Sector, opts GridOptions, onProgress model.ProgressFunc) (*model.OverlayData, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := zap.L().With(
		zap.Float64("home_lat", home.Lat),
		zap.Float64("home_lng", home.Lng),
		zap.Float64("radius_km", opts.RadiusKm),
		zap.Float64("cell_size_km", opts.CellSizeKm),
	)
	reporter := &progressReporter{fn: onProgress}

	reporter.report(model.BuildStateIdle, 0)
	reporter.report(model.BuildStateGenerating, 0.1)

	cells, err := GenerateFortuneGrid(ctx, home, goodSectors, opts, func(done, total int) {
		reporter.report(model.BuildStateGenerating, 0.1+0.4*float64(done)/float64(total))
	})
	if err != nil {
		return nil, canceledOr(ctx, err)
	}
	log.Debug("🧮 グリッド生成完了", zap.Int("cells", len(cells)))
	reporter.report(model.BuildStateClassifying, 0.5)

	goodCells, badCells := PartitionCells(cells)
	if err := ctx.Err(); err != nil {
		return nil, canceledOr(ctx, err)
	}
	reporter.report(model.BuildStateGrouping, 0.8)

	grouper := GrouperFor(opts.Grouping)
	goodPolygons := grouper.Group(goodCells)
	badPolygons := grouper.Group(badCells)
	if err := ctx.Err(); err != nil {
		return nil, canceledOr(ctx, err)
	}

	overlay := &model.OverlayData{
		GoodCells:    goodCells,
		BadCells:     badCells,
		GoodPolygons: goodPolygons,
		BadPolygons:  badPolygons,
	}
	reporter.report(model.BuildStateDone, 1.0)

	stats := GetGridStats(overlay)
	log.Info("✅ オーバーレイ構築完了",
		zap.Int("total_cells", stats.TotalCells),
		zap.Int("good_cells", stats.GoodCells),
		zap.Int("good_polygons", stats.GoodPolygons),
		zap.Int("bad_polygons", stats.BadPolygons),
	)
	return overlay, nil
}

func canceledOr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return eris.Wrapf(model.ErrBuildCanceled, "%v", ctxErr)
	}
	return err
}

// GetGridStats オーバーレイの集計
func GetGridStats(overlay *model.OverlayData) model.GridStats {
	if overlay == nil {
		return model.GridStats{}
	}
	return model.GridStats{
		TotalCells:   len(overlay.GoodCells) + len(overlay.BadCells),
		GoodCells:    len(overlay.GoodCells),
		BadCells:     len(overlay.BadCells),
		GoodPolygons: len(overlay.GoodPolygons),
		BadPolygons:  len(overlay.BadPolygons),
	}
}
