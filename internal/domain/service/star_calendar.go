package service

import (
	"github.com/rotisserie/eris"

	"Kyusei-App/internal/domain/model"
)

// KyuseiBaseYear 明治7年（1874年）を基準年とする
const KyuseiBaseYear = 1874

// MonthDay 月日
type MonthDay struct {
	Month int
	Day   int
}

// DefaultSpringStart 立春の固定近似（2月4日）。二十四節気の計算は行わない
var DefaultSpringStart = MonthDay{Month: 2, Day: 4}

// monthStarTables は year%3 ごとの月盤中宮（1月〜12月）
var monthStarTables = map[int][12]int{
	1: {6, 5, 4, 3, 2, 1, 9, 8, 7, 6, 5, 4}, // 甲・丁年
	2: {3, 2, 1, 9, 8, 7, 6, 5, 4, 3, 2, 1}, // 乙・戊年
	0: {9, 8, 7, 6, 5, 4, 3, 2, 1, 9, 8, 7}, // 丙・己年
}

// StarCalendar 生年月日から本命星を求める
type StarCalendar struct {
	BaseYear    int
	SpringStart MonthDay
}

// DefaultStarCalendar 基準年1874・立春2月4日のカレンダー
func DefaultStarCalendar() StarCalendar {
	return StarCalendar{BaseYear: KyuseiBaseYear, SpringStart: DefaultSpringStart}
}

// NewStarCalendar 立春の日付を指定してカレンダーを作成する
func NewStarCalendar(springStart MonthDay) (StarCalendar, error) {
	if err := model.ValidateDate(2000, springStart.Month, springStart.Day); err != nil {
		return StarCalendar{}, eris.Wrap(err, "立春の日付が不正です")
	}
	return StarCalendar{BaseYear: KyuseiBaseYear, SpringStart: springStart}, nil
}

// AdjustedYear 立春前の日付は前年として扱う
func (c StarCalendar) AdjustedYear(year, month, day int) int {
	if month < c.SpringStart.Month || (month == c.SpringStart.Month && day < c.SpringStart.Day) {
		return year - 1
	}
	return year
}

// HomeStar 本命星（1〜9）を計算する。日付の実在チェックは呼び出し側で行う
func (c StarCalendar) HomeStar(year, month, day int) (int, error) {
	diff := c.AdjustedYear(year, month, day) - c.BaseYear
	star := 11 - floorMod(diff, 9)
	if star > 9 {
		star -= 9
	}
	if star < 1 || star > 9 {
		return 0, eris.Wrapf(model.ErrStarOutOfRange, "year=%d month=%d day=%d star=%d", year, month, day, star)
	}
	return star, nil
}

// StarArrangement 年盤・月盤の中宮を計算する。
// 年盤は year の1月1日時点の本命星で、立春前なので前年の星になる（2024年は6）
func (c StarCalendar) StarArrangement(year, month int) (model.StarArrangement, error) {
	if month < 1 || month > 12 {
		return model.StarArrangement{}, eris.Wrapf(model.ErrInvalidDate, "月は1から12の範囲で指定してください: %d", month)
	}
	yearStar, err := c.HomeStar(year, 1, 1)
	if err != nil {
		return model.StarArrangement{}, err
	}
	table := monthStarTables[floorMod(year, 3)]
	return model.StarArrangement{
		YearStar:  yearStar,
		MonthStar: table[month-1],
	}, nil
}

// floorMod は常に [0,n) を返す剰余
func floorMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
