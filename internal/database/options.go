package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/archmapio/archmap/domain/catalog"
)

// ApplyOptions builds a catalog.Query from the given options and applies it
// to a GORM session.
func ApplyOptions(db *gorm.DB, options ...catalog.Option) *gorm.DB {
	q := catalog.BuildQuery(options...)

	db = applyConditions(db, q)

	for _, ord := range q.Orders() {
		dir := "ASC"
		if !ord.Ascending() {
			dir = "DESC"
		}
		db = db.Order(fmt.Sprintf("%s %s", ord.Field(), dir))
	}

	if q.LimitValue() > 0 {
		db = db.Limit(q.LimitValue())
	}
	if q.OffsetValue() > 0 {
		db = db.Offset(q.OffsetValue())
	}

	return db
}

// ApplyConditions applies only WHERE conditions (no limit/offset/order),
// for COUNT queries.
func ApplyConditions(db *gorm.DB, options ...catalog.Option) *gorm.DB {
	return applyConditions(db, catalog.BuildQuery(options...))
}

func applyConditions(db *gorm.DB, q catalog.Query) *gorm.DB {
	for _, cond := range q.Conditions() {
		if cond.In() {
			db = db.Where(fmt.Sprintf("%s IN ?", cond.Field()), cond.Value())
		} else {
			db = db.Where(fmt.Sprintf("%s = ?", cond.Field()), cond.Value())
		}
	}
	return db
}
