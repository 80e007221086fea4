package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// BirthDate 生年月日
type BirthDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Validate 実在するグレゴリオ暦の日付かを確認する
func (d BirthDate) Validate() error {
	return ValidateDate(d.Year, d.Month, d.Day)
}

// ValidateDate time.Date の正規化結果と比較して存在しない日付（2月30日など）を弾く
func ValidateDate(year, month, day int) error {
	if month < 1 || month > 12 {
		return eris.Wrapf(ErrInvalidDate, "月は1から12の範囲で指定してください: %d", month)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return eris.Wrapf(ErrInvalidDate, "存在しない日付です: %04d-%02d-%02d", year, month, day)
	}
	return nil
}

// ValidateYearMonth 移転年月のチェック
func ValidateYearMonth(year, month int) error {
	return ValidateDate(year, month, 1)
}
