// Package reports — repository.go работает с листом «шаблоны отчётов».
package reports

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

// List возвращает все шаблоны по порядку листа.
func (r *Repository) List(ctx context.Context) ([]Template, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableTemplates)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения шаблонов: %w", err)
	}
	out := make([]Template, 0, len(rows))
	for _, row := range rows {
		t := fromRow(row)
		if t.ID == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Append дописывает шаблон в конец листа.
func (r *Repository) Append(ctx context.Context, t Template) error {
	if err := r.store.AppendRow(ctx, sheets.TableTemplates, toRow(t)); err != nil {
		return fmt.Errorf("ошибка записи шаблона: %w", err)
	}
	return nil
}

// FindByID ищет шаблон по id. Если не найден — common.ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, id string) (Template, error) {
	t, _, err := r.findWithIndex(ctx, id)
	return t, err
}

// UpdateCell обновляет одну колонку шаблона по id.
func (r *Repository) UpdateCell(ctx context.Context, id string, col int, value string) error {
	_, idx, err := r.findWithIndex(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.UpdateCell(ctx, sheets.TableTemplates, idx, col, value); err != nil {
		return fmt.Errorf("ошибка обновления шаблона %s: %w", id, err)
	}
	return nil
}

// Delete удаляет шаблон по id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, idx, err := r.findWithIndex(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.DeleteRow(ctx, sheets.TableTemplates, idx); err != nil {
		return fmt.Errorf("ошибка удаления шаблона %s: %w", id, err)
	}
	return nil
}

// SetActiveExclusive делает активным только шаблон с данным id,
// снимая флаг со всех остальных полным проходом по листу.
func (r *Repository) SetActiveExclusive(ctx context.Context, id string) error {
	rows, err := r.store.ListRows(ctx, sheets.TableTemplates)
	if err != nil {
		return fmt.Errorf("ошибка чтения шаблонов: %w", err)
	}

	found := false
	for i, row := range rows {
		t := fromRow(row)
		if t.ID == "" {
			continue
		}
		want := ""
		if t.ID == id {
			want = activeFlag
			found = true
		}
		current := row.Cell(sheets.TemplateColActive)
		if current == want {
			continue
		}
		if err := r.store.UpdateCell(ctx, sheets.TableTemplates, i, sheets.TemplateColActive, want); err != nil {
			return fmt.Errorf("ошибка переключения шаблона %s: %w", t.ID, err)
		}
	}

	if !found {
		return common.ErrNotFound
	}
	return nil
}

func (r *Repository) findWithIndex(ctx context.Context, id string) (Template, int, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableTemplates)
	if err != nil {
		return Template{}, 0, fmt.Errorf("ошибка чтения шаблонов: %w", err)
	}
	for i, row := range rows {
		t := fromRow(row)
		if t.ID == id {
			return t, i, nil
		}
	}
	return Template{}, 0, common.ErrNotFound
}
