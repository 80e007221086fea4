package repository

import (
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"

	"Kyusei-App/internal/domain/model"
)

type scannable interface {
	Scan(dest ...any) error
}

// updateSet UPDATE 文の SET 句を組み立てる
type updateSet struct {
	columns []string
	args    []any
}

func (u *updateSet) add(column string, value any) {
	u.columns = append(u.columns, column+" = ?")
	u.args = append(u.args, value)
}

func (u *updateSet) empty() bool {
	return len(u.columns) == 0
}

func (u *updateSet) clause() string {
	return strings.Join(u.columns, ", ")
}

// checkRowsAffected 更新行が0件なら model.ErrNotFound
func checkRowsAffected(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(model.ErrNotFound, "%s %v", entity, id)
	}
	return nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func float64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
