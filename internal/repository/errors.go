package repository

import (
	"time"

	"gorm.io/gorm"
)

// Sentinels returned by every repository. The GORM connection is opened with
// TranslateError so unique-constraint violations surface as ErrDuplicado.
var (
	ErrNotFound  = gorm.ErrRecordNotFound
	ErrDuplicado = gorm.ErrDuplicatedKey
)

// Page normalizes page/limit the same way for every listing.
func Page(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return page, limit, (page - 1) * limit
}

// RangoFechas is an inclusive date range filter; nil bounds are open. Hasta
// covers the whole day so it also works on timestamp columns.
type RangoFechas struct {
	Desde *time.Time
	Hasta *time.Time
}

func (r RangoFechas) aplicar(q *gorm.DB, columna string) *gorm.DB {
	if r.Desde != nil {
		q = q.Where(columna+" >= ?", *r.Desde)
	}
	if r.Hasta != nil {
		q = q.Where(columna+" < ?", r.Hasta.AddDate(0, 0, 1))
	}
	return q
}
