// Package audit — service.go пишет и читает журнал действий.
// Запись журнала никогда не валит основное действие: ошибка
// логируется и глотается на месте.
package audit

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
	"clanbot/internal/sheets"
)

// Service ведёт журнал действий.
type Service struct {
	store sheets.Store
}

// NewService создаёт сервис журнала.
func NewService(store sheets.Store) *Service {
	return &Service{store: store}
}

// Record дописывает запись в журнал. Ошибки не возвращает:
// журнал вторичен, действие уже совершено.
func (s *Service) Record(ctx context.Context, action, actor string, actorID int64, target string) {
	e := Entry{
		Action:    action,
		Actor:     actor,
		ActorID:   strconv.FormatInt(actorID, 10),
		Target:    target,
		Timestamp: common.FormatDateTime(common.MoscowTime()),
	}
	if err := s.store.AppendRow(ctx, sheets.TableLogs, toRow(e)); err != nil {
		log.WithError(err).WithField("action", action).Warn("не удалось записать лог действия")
	}
}

// List возвращает последние limit записей журнала (новые в конце).
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.store.ListRows(ctx, sheets.TableLogs)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения логов: %w", err)
	}

	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e := fromRow(row)
		if e.Action == "" {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Clear удаляет все записи журнала. Только для админов —
// авторизацию проверяет роутер.
func (s *Service) Clear(ctx context.Context) error {
	rows, err := s.store.ListRows(ctx, sheets.TableLogs)
	if err != nil {
		return fmt.Errorf("ошибка чтения логов: %w", err)
	}
	// Удаляем с конца, чтобы индексы оставшихся строк не сдвигались.
	for i := len(rows) - 1; i >= 0; i-- {
		if err := s.store.DeleteRow(ctx, sheets.TableLogs, i); err != nil {
			return fmt.Errorf("ошибка очистки логов: %w", err)
		}
	}
	return nil
}
