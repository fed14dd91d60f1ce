// Package applications — repository.go работает с листом «заявки».
package applications

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

// List возвращает все заявки по порядку подачи.
func (r *Repository) List(ctx context.Context) ([]Application, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableApplications)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения заявок: %w", err)
	}
	out := make([]Application, 0, len(rows))
	for _, row := range rows {
		a := fromRow(row)
		if a.ID == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Append дописывает заявку в конец листа.
func (r *Repository) Append(ctx context.Context, a Application) error {
	if err := r.store.AppendRow(ctx, sheets.TableApplications, toRow(a)); err != nil {
		return fmt.Errorf("ошибка записи заявки: %w", err)
	}
	return nil
}

// FindByID ищет заявку по id. Если не найдена — common.ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, id string) (Application, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableApplications)
	if err != nil {
		return Application{}, fmt.Errorf("ошибка чтения заявок: %w", err)
	}
	for _, row := range rows {
		a := fromRow(row)
		if a.ID == id {
			return a, nil
		}
	}
	return Application{}, common.ErrNotFound
}

// UpdateStatus записывает решение по заявке, найдя её строку по id
// непосредственно перед записью.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	rows, err := r.store.ListRows(ctx, sheets.TableApplications)
	if err != nil {
		return fmt.Errorf("ошибка чтения заявок: %w", err)
	}
	for i, row := range rows {
		if fromRow(row).ID == id {
			if err := r.store.UpdateCell(ctx, sheets.TableApplications, i, sheets.ApplicationColStatus, status); err != nil {
				return fmt.Errorf("ошибка обновления заявки %s: %w", id, err)
			}
			return nil
		}
	}
	return common.ErrNotFound
}
