package curriculum

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
)

// byOrder sorts on the reserved "order" column; gorm quotes it per dialect.
var byOrder = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

// orderedTable is the shared CRUD of curriculum rows positioned under a parent.
type orderedTable[T any] struct {
	db        *gorm.DB
	pkCol     string
	parentCol string
}

func (o orderedTable[T]) create(dbc dbctx.Context, row *T) error {
	return dbc.DB(o.db).Create(row).Error
}

func (o orderedTable[T]) getByID(dbc dbctx.Context, id uuid.UUID) (*T, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*T
	if err := dbc.DB(o.db).Where(o.pkCol+" = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (o orderedTable[T]) listByParent(dbc dbctx.Context, parentID uuid.UUID) ([]*T, error) {
	var out []*T
	q := dbc.DB(o.db)
	if o.parentCol != "" {
		if parentID == uuid.Nil {
			return out, nil
		}
		q = q.Where(o.parentCol+" = ?", parentID)
	}
	if err := q.Order(byOrder).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (o orderedTable[T]) countByParent(dbc dbctx.Context, parentID uuid.UUID) (int64, error) {
	var n int64
	q := dbc.DB(o.db).Model(new(T))
	if o.parentCol != "" {
		q = q.Where(o.parentCol+" = ?", parentID)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// update writes every column except created_at.
func (o orderedTable[T]) update(dbc dbctx.Context, row *T) error {
	return dbc.DB(o.db).Model(row).Select("*").Omit("created_at").Updates(row).Error
}

func (o orderedTable[T]) delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(o.db).Where(o.pkCol+" = ?", id).Delete(new(T)).Error
}

func (o orderedTable[T]) updateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error {
	t := dbc.DB(o.db)
	for id, ord := range orders {
		res := t.Model(new(T)).Where(o.pkCol+" = ?", id).Update("order", ord)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("update order: row %s not found", id)
		}
	}
	return nil
}
