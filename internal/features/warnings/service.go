// Package warnings — service.go содержит бизнес-логику предов.
// Авторизацию (пред выдаёт только админ) проверяет роутер —
// сервис просто пишет запись.
package warnings

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
)

// Service управляет предами.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис предов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record выдаёт пред участнику.
func (s *Service) Record(ctx context.Context, target, reason string) error {
	w := Warning{
		Nickname: strings.TrimSpace(target),
		Reason:   strings.TrimSpace(reason),
		Date:     common.FormatDate(common.MoscowTime()),
	}
	if err := s.repo.Append(ctx, w); err != nil {
		return err
	}

	log.WithField("nickname", w.Nickname).Info("Пред записан")
	return nil
}

// CountFor возвращает число предов участника.
func (s *Service) CountFor(ctx context.Context, nickname string) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	nickname = strings.TrimSpace(nickname)
	count := 0
	for _, w := range all {
		if w.Nickname == nickname {
			count++
		}
	}
	return count, nil
}

// ListFor возвращает преды участника с причинами (для карточки профиля).
func (s *Service) ListFor(ctx context.Context, nickname string) ([]Warning, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	nickname = strings.TrimSpace(nickname)
	var out []Warning
	for _, w := range all {
		if w.Nickname == nickname {
			out = append(out, w)
		}
	}
	return out, nil
}
