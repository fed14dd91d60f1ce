// Package complaints — repository.go работает с листом «жалобы».
// Все точечные обновления идут через поиск строки по id на момент
// записи: номер строки нигде не хранится между операциями.
package complaints

import (
	"context"
	"fmt"

	"clanbot/internal/common"
	"clanbot/internal/sheets"
)

type Repository struct {
	store sheets.Store
}

func NewRepository(store sheets.Store) *Repository {
	return &Repository{store: store}
}

// List возвращает все жалобы по порядку листа.
func (r *Repository) List(ctx context.Context) ([]Complaint, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableComplaints)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения жалоб: %w", err)
	}
	out := make([]Complaint, 0, len(rows))
	for _, row := range rows {
		c := fromRow(row)
		if c.ID == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Append дописывает жалобу в конец листа.
func (r *Repository) Append(ctx context.Context, c Complaint) error {
	if err := r.store.AppendRow(ctx, sheets.TableComplaints, toRow(c)); err != nil {
		return fmt.Errorf("ошибка записи жалобы: %w", err)
	}
	return nil
}

// FindByID ищет жалобу по id. Если не найдена — common.ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, id string) (Complaint, error) {
	c, _, err := r.findWithIndex(ctx, id)
	return c, err
}

// UpdateCell обновляет одну колонку жалобы, найдя её строку по id
// непосредственно перед записью.
func (r *Repository) UpdateCell(ctx context.Context, id string, col int, value string) error {
	_, idx, err := r.findWithIndex(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.UpdateCell(ctx, sheets.TableComplaints, idx, col, value); err != nil {
		return fmt.Errorf("ошибка обновления жалобы %s: %w", id, err)
	}
	return nil
}

func (r *Repository) findWithIndex(ctx context.Context, id string) (Complaint, int, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableComplaints)
	if err != nil {
		return Complaint{}, 0, fmt.Errorf("ошибка чтения жалоб: %w", err)
	}
	for i, row := range rows {
		c := fromRow(row)
		if c.ID == id {
			return c, i, nil
		}
	}
	return Complaint{}, 0, common.ErrNotFound
}
