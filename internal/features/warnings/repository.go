// Package warnings — repository.go работает с листом «преды».
package warnings

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

// List возвращает все преды по порядку листа.
func (r *Repository) List(ctx context.Context) ([]Warning, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableWarnings)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения предов: %w", err)
	}
	out := make([]Warning, 0, len(rows))
	for _, row := range rows {
		w := fromRow(row)
		if w.Nickname == "" {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// Append дописывает пред в конец листа.
func (r *Repository) Append(ctx context.Context, w Warning) error {
	if err := r.store.AppendRow(ctx, sheets.TableWarnings, toRow(w)); err != nil {
		return fmt.Errorf("ошибка записи преда: %w", err)
	}
	return nil
}
