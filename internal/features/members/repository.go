// Package members — repository.go отвечает за все операции
// с листами «участники клана» и «роли».
package members

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"clanbot/internal/common"
	"clanbot/internal/sheets"
)

type Repository struct {
	store sheets.Store
}

func NewRepository(store sheets.Store) *Repository {
	return &Repository{store: store}
}

// List возвращает всех участников клана по порядку листа.
func (r *Repository) List(ctx context.Context) ([]Member, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableMembers)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения участников: %w", err)
	}

	out := make([]Member, 0, len(rows))
	for _, row := range rows {
		m := fromRow(row)
		if m.Nickname == "" {
			// пустые строки листа пропускаем
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// FindByNickname ищет участника по точному нику (пробелы по краям не считаются).
// Если не найден — common.ErrNotFound.
func (r *Repository) FindByNickname(ctx context.Context, nickname string) (Member, error) {
	m, _, err := r.findWithIndex(ctx, nickname)
	return m, err
}

// FindByLinkedID ищет участника по привязанному Telegram user ID.
func (r *Repository) FindByLinkedID(ctx context.Context, chatID int64) (Member, error) {
	all, err := r.List(ctx)
	if err != nil {
		return Member{}, err
	}
	for _, m := range all {
		if m.LinkedID != 0 && m.LinkedID == chatID {
			return m, nil
		}
	}
	return Member{}, common.ErrNotFound
}

// Create добавляет нового участника в лист.
func (r *Repository) Create(ctx context.Context, m Member) error {
	if err := r.store.AppendRow(ctx, sheets.TableMembers, toRow(m)); err != nil {
		return fmt.Errorf("ошибка добавления участника: %w", err)
	}
	return nil
}

// UpdateRole записывает роль участника.
func (r *Repository) UpdateRole(ctx context.Context, nickname, role string) error {
	return r.updateCell(ctx, nickname, sheets.MemberColRole, role)
}

// UpdateLink записывает привязку Telegram-аккаунта.
func (r *Repository) UpdateLink(ctx context.Context, nickname, username string, chatID int64) error {
	if err := r.updateCell(ctx, nickname, sheets.MemberColLinkedUsername, username); err != nil {
		return err
	}
	return r.updateCell(ctx, nickname, sheets.MemberColLinkedID, strconv.FormatInt(chatID, 10))
}

// UpdateCounts обновляет кэш числа предов и похвал в строке участника.
// Кэш нужен только для читаемости листа — бот всегда пересчитывает.
func (r *Repository) UpdateCounts(ctx context.Context, nickname string, warns, praises int) error {
	if err := r.updateCell(ctx, nickname, sheets.MemberColWarnCount, strconv.Itoa(warns)); err != nil {
		return err
	}
	return r.updateCell(ctx, nickname, sheets.MemberColPraiseCount, strconv.Itoa(praises))
}

// RoleTags возвращает каталог ролей клана (лист «роли», по порядку).
func (r *Repository) RoleTags(ctx context.Context) ([]string, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableRoles)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ролей: %w", err)
	}
	var out []string
	for _, row := range rows {
		tag := strings.TrimSpace(row.Cell(0))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out, nil
}

// findWithIndex находит участника и индекс его строки в листе.
// Индекс нужен только внутри репозитория для точечных обновлений.
func (r *Repository) findWithIndex(ctx context.Context, nickname string) (Member, int, error) {
	rows, err := r.store.ListRows(ctx, sheets.TableMembers)
	if err != nil {
		return Member{}, 0, fmt.Errorf("ошибка чтения участников: %w", err)
	}

	want := strings.TrimSpace(nickname)
	for i, row := range rows {
		m := fromRow(row)
		if m.Nickname != "" && m.Nickname == want {
			return m, i, nil
		}
	}
	return Member{}, 0, common.ErrNotFound
}

func (r *Repository) updateCell(ctx context.Context, nickname string, col int, value string) error {
	_, idx, err := r.findWithIndex(ctx, nickname)
	if err != nil {
		return err
	}
	if err := r.store.UpdateCell(ctx, sheets.TableMembers, idx, col, value); err != nil {
		return fmt.Errorf("ошибка обновления участника %q: %w", nickname, err)
	}
	return nil
}
