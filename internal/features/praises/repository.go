// Package praises — repository.go работает с листом «Похвала».
package praises

import (
	"context"
	"fmt"

	"clanbot/internal/sheets"
)

type Repository struct {
	store sheets.Store
}

func NewRepository(store sheets.Store) *Repository {
	return &Repository{store: store}
}

// List возвращает все записи похвалы по порядку листа.
func (r *Repository) List(ctx context.Context) ([]Praise, error) {
	rows, err := r.store.ListRows(ctx, sheets.TablePraises)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения похвалы: %w", err)
	}
	out := make([]Praise, 0, len(rows))
	for _, row := range rows {
		p := fromRow(row)
		if p.Nickname == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Append дописывает запись похвалы в конец листа.
func (r *Repository) Append(ctx context.Context, p Praise) error {
	if err := r.store.AppendRow(ctx, sheets.TablePraises, toRow(p)); err != nil {
		return fmt.Errorf("ошибка записи похвалы: %w", err)
	}
	return nil
}
