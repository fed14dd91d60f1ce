// Package applications — service.go содержит жизненный цикл заявки:
// подача с валидацией, принятие (создаёт участника), отклонение.
package applications

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
)

// Минимальная длина игрового ID. Реальные Steam64-идентификаторы —
// 17 цифр, но старые таблицы встречаются и с короткими ID.
const externalIDMinLen = 10

// MemberCreator создаёт участника по принятой заявке —
// реализуется сервисом участников.
type MemberCreator interface {
	CreateFromApplication(ctx context.Context, nickname, externalID, username string, chatID int64) error
}

// Notify шлёт личное сообщение пользователю (best-effort, без результата).
type Notify func(chatID int64, text string)

// Service управляет заявками.
type Service struct {
	repo       *Repository
	members    MemberCreator
	notify     Notify
	inviteLink string
}

// NewService создаёт сервис заявок.
func NewService(repo *Repository, members MemberCreator, notify Notify, inviteLink string) *Service {
	return &Service{repo: repo, members: members, notify: notify, inviteLink: inviteLink}
}

// ValidateExternalID проверяет формат игрового ID:
// только цифры, не короче externalIDMinLen.
func ValidateExternalID(id string) error {
	id = strings.TrimSpace(id)
	if len(id) < externalIDMinLen {
		return common.ErrInvalidExternalID
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return common.ErrInvalidExternalID
		}
	}
	return nil
}

// Submit подаёт заявку. У одного Telegram-аккаунта может быть
// не больше одной заявки на рассмотрении.
func (s *Service) Submit(ctx context.Context, nickname, externalID, username string, chatID int64) (string, error) {
	if err := ValidateExternalID(externalID); err != nil {
		return "", err
	}
	if _, err := s.PendingFor(ctx, chatID); err == nil {
		return "", common.ErrPendingApplication
	}

	a := Application{
		ID:         uuid.NewString(),
		Nickname:   strings.TrimSpace(nickname),
		ExternalID: strings.TrimSpace(externalID),
		Username:   username,
		ChatID:     chatID,
		Date:       common.FormatDate(common.MoscowTime()),
		Status:     StatusPending,
	}
	if err := s.repo.Append(ctx, a); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"application_id": a.ID,
		"nickname":       a.Nickname,
	}).Info("Заявка подана")
	return a.ID, nil
}

// PendingFor возвращает заявку пользователя, ждущую решения.
func (s *Service) PendingFor(ctx context.Context, chatID int64) (Application, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Application{}, err
	}
	for _, a := range all {
		if a.ChatID == chatID && a.IsPending() {
			return a, nil
		}
	}
	return Application{}, common.ErrNotFound
}

// ListPending возвращает все заявки на рассмотрении.
func (s *Service) ListPending(ctx context.Context) ([]Application, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Application
	for _, a := range all {
		if a.IsPending() {
			out = append(out, a)
		}
	}
	return out, nil
}

// Accept принимает заявку: создаёт участника с привязкой аккаунта
// и шлёт кандидату приглашение.
func (s *Service) Accept(ctx context.Context, id string) (Application, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if !a.IsPending() {
		return Application{}, common.ErrApplicationDecided
	}

	if err := s.members.CreateFromApplication(ctx, a.Nickname, a.ExternalID, a.Username, a.ChatID); err != nil {
		return Application{}, fmt.Errorf("ошибка создания участника: %w", err)
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusAccepted); err != nil {
		return Application{}, err
	}

	text := fmt.Sprintf("✅ Ваша заявка принята! Добро пожаловать в клан, %s.", a.Nickname)
	if s.inviteLink != "" {
		text += "\nСсылка на чат клана: " + s.inviteLink
	}
	s.notify(a.ChatID, text)

	log.WithField("application_id", id).Info("Заявка принята")
	a.Status = StatusAccepted
	return a, nil
}

// Reject отклоняет заявку и уведомляет кандидата.
func (s *Service) Reject(ctx context.Context, id string) (Application, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if !a.IsPending() {
		return Application{}, common.ErrApplicationDecided
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusRejected); err != nil {
		return Application{}, err
	}
	s.notify(a.ChatID, "❌ Ваша заявка отклонена.")

	log.WithField("application_id", id).Info("Заявка отклонена")
	a.Status = StatusRejected
	return a, nil
}
