// Package members — service.go содержит бизнес-логику управления участниками.
package members

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
)

// Counter считает записи по нику участника.
// Реализуется сервисами предов и похвалы.
type Counter interface {
	CountFor(ctx context.Context, nickname string) (int, error)
}

// Profile — профиль участника с пересчитанными счётчиками.
// Счётчики считаются по листам «преды» и «Похвала» на момент запроса,
// кэш в строке участника — только для читаемости таблицы.
type Profile struct {
	Member
	Warns   int
	Praises int
}

// Service управляет участниками клана.
type Service struct {
	repo    *Repository
	warns   Counter
	praises Counter
}

// NewService создаёт сервис участников.
func NewService(repo *Repository, warns, praises Counter) *Service {
	return &Service{repo: repo, warns: warns, praises: praises}
}

// ResolveProfile возвращает профиль участника по нику.
// Заодно освежает кэш счётчиков в строке листа; ошибка кэша не фатальна.
func (s *Service) ResolveProfile(ctx context.Context, nickname string) (Profile, error) {
	m, err := s.repo.FindByNickname(ctx, nickname)
	if err != nil {
		return Profile{}, err
	}

	warns, err := s.warns.CountFor(ctx, m.Nickname)
	if err != nil {
		return Profile{}, fmt.Errorf("ошибка подсчёта предов: %w", err)
	}
	praises, err := s.praises.CountFor(ctx, m.Nickname)
	if err != nil {
		return Profile{}, fmt.Errorf("ошибка подсчёта похвал: %w", err)
	}

	if err := s.repo.UpdateCounts(ctx, m.Nickname, warns, praises); err != nil {
		log.WithError(err).WithField("nickname", m.Nickname).Warn("не удалось обновить кэш счётчиков")
	}

	return Profile{Member: m, Warns: warns, Praises: praises}, nil
}

// FindByLinkedID возвращает участника, к которому привязан Telegram-аккаунт.
func (s *Service) FindByLinkedID(ctx context.Context, chatID int64) (Member, error) {
	return s.repo.FindByLinkedID(ctx, chatID)
}

// IsLinked сообщает, привязан ли Telegram-аккаунт к какому-нибудь участнику.
func (s *Service) IsLinked(ctx context.Context, chatID int64) bool {
	_, err := s.repo.FindByLinkedID(ctx, chatID)
	return err == nil
}

// List возвращает всех участников клана.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

// FilterByRole возвращает участников с данной ролью.
func (s *Service) FilterByRole(ctx context.Context, role string) ([]Member, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Member
	for _, m := range all {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out, nil
}

// RoleTags возвращает каталог ролей клана.
func (s *Service) RoleTags(ctx context.Context) ([]string, error) {
	return s.repo.RoleTags(ctx)
}

// AssignRole назначает участнику роль из каталога.
func (s *Service) AssignRole(ctx context.Context, nickname, role string) error {
	tags, err := s.repo.RoleTags(ctx)
	if err != nil {
		return err
	}
	known := false
	for _, t := range tags {
		if t == role {
			known = true
			break
		}
	}
	if !known {
		return common.ErrUnknownRole
	}

	if err := s.repo.UpdateRole(ctx, nickname, role); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"nickname": nickname,
		"role":     role,
	}).Info("Роль назначена")
	return nil
}

// LinkIdentity привязывает Telegram-аккаунт к участнику.
// Привязка строго один к одному, проверка в обе стороны: если chatID
// уже привязан к другому нику — ErrAlreadyLinked; если у участника
// уже привязан чужой аккаунт — ErrNicknameTaken (иначе второй
// пользователь молча перехватил бы чужой профиль и все проверки
// личности по нему).
func (s *Service) LinkIdentity(ctx context.Context, nickname, username string, chatID int64) error {
	existing, err := s.repo.FindByLinkedID(ctx, chatID)
	if err == nil && existing.Nickname != nickname {
		return common.ErrAlreadyLinked
	}
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	target, err := s.repo.FindByNickname(ctx, nickname)
	if err != nil {
		return err
	}
	if target.LinkedID != 0 && target.LinkedID != chatID {
		return common.ErrNicknameTaken
	}

	if err := s.repo.UpdateLink(ctx, nickname, username, chatID); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"nickname": nickname,
		"chat_id":  chatID,
	}).Info("Аккаунт привязан к участнику")
	return nil
}

// CreateFromApplication создаёт участника по принятой заявке
// и сразу привязывает его Telegram-аккаунт.
func (s *Service) CreateFromApplication(ctx context.Context, nickname, externalID, username string, chatID int64) error {
	if existing, err := s.repo.FindByLinkedID(ctx, chatID); err == nil {
		return fmt.Errorf("%w (ник %s)", common.ErrAlreadyLinked, existing.Nickname)
	}

	m := Member{
		Nickname:       nickname,
		ExternalID:     externalID,
		WarnCount:      "0",
		PraiseCount:    "0",
		Score:          "0",
		Desirability:   "N/A",
		LinkedUsername: username,
		LinkedID:       chatID,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"nickname": nickname,
		"chat_id":  chatID,
	}).Info("Новый участник клана создан по заявке")
	return nil
}
