// Package complaints — service.go содержит жизненный цикл жалобы:
// подача, запрос доказательств, решение.
// Авторизацию админских переходов проверяет роутер.
package complaints

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
	"clanbot/internal/sheets"
)

// WarningRecorder выдаёт пред — реализуется сервисом предов.
type WarningRecorder interface {
	Record(ctx context.Context, target, reason string) error
}

// Notify шлёт личное сообщение пользователю. Доставка best-effort:
// результат игнорируется по контракту, подпись без error — осознанно.
type Notify func(chatID int64, text string)

// Service управляет жалобами.
type Service struct {
	repo   *Repository
	warns  WarningRecorder
	notify Notify
}

// NewService создаёт сервис жалоб.
func NewService(repo *Repository, warns WarningRecorder, notify Notify) *Service {
	return &Service{repo: repo, warns: warns, notify: notify}
}

// Submit подаёт новую жалобу. Возвращает её id.
func (s *Service) Submit(ctx context.Context, submitter string, submitterID int64, target, reason string) (string, error) {
	c := Complaint{
		ID:          uuid.NewString(),
		Submitter:   strings.TrimSpace(submitter),
		SubmitterID: submitterID,
		Target:      strings.TrimSpace(target),
		Reason:      strings.TrimSpace(reason),
		Date:        common.FormatDate(common.MoscowTime()),
		Status:      StatusActive,
	}
	if err := s.repo.Append(ctx, c); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"complaint_id": c.ID,
		"target":       c.Target,
	}).Info("Жалоба подана")
	return c.ID, nil
}

// ListActive возвращает открытые жалобы по порядку подачи.
func (s *Service) ListActive(ctx context.Context) ([]Complaint, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Complaint
	for _, c := range all {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get возвращает жалобу по id.
func (s *Service) Get(ctx context.Context, id string) (Complaint, error) {
	return s.repo.FindByID(ctx, id)
}

// ResolveWithWarning закрывает жалобу с выдачей преда её цели.
// Сначала пред, потом закрытие: если запись преда не удалась,
// жалоба остаётся активной и решение можно повторить.
// Подавшему уходит уведомление (best-effort).
func (s *Service) ResolveWithWarning(ctx context.Context, id, resolver string) (Complaint, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Complaint{}, err
	}
	if !c.IsActive() {
		return Complaint{}, common.ErrComplaintClosed
	}

	reason := fmt.Sprintf("по жалобе от %s: %s", c.Submitter, c.Reason)
	if err := s.warns.Record(ctx, c.Target, reason); err != nil {
		return Complaint{}, fmt.Errorf("пред не записан, жалоба осталась активной: %w", err)
	}

	c, err = s.close(ctx, id, resolver)
	if err != nil {
		return Complaint{}, err
	}

	if c.SubmitterID != 0 {
		s.notify(c.SubmitterID, fmt.Sprintf("⚠ Ваша жалоба на %s рассмотрена: участнику выдан пред.", c.Target))
	}
	return c, nil
}

// CloseNoAction закрывает жалобу без последствий для цели.
func (s *Service) CloseNoAction(ctx context.Context, id, resolver string) (Complaint, error) {
	c, err := s.close(ctx, id, resolver)
	if err != nil {
		return Complaint{}, err
	}
	if c.SubmitterID != 0 {
		s.notify(c.SubmitterID, fmt.Sprintf("Ваша жалоба на %s рассмотрена и закрыта без санкций.", c.Target))
	}
	return c, nil
}

// RequestProof просит подавшего прислать доказательства.
// Жалоба остаётся активной; следующий текст подавшего попадёт
// в AppendProof через состояние его диалога.
func (s *Service) RequestProof(ctx context.Context, id string) (Complaint, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Complaint{}, err
	}
	if !c.IsActive() {
		return Complaint{}, common.ErrComplaintClosed
	}
	if c.SubmitterID != 0 {
		s.notify(c.SubmitterID, fmt.Sprintf("По вашей жалобе на %s нужны доказательства. Пришлите их следующим сообщением.", c.Target))
	}
	return c, nil
}

// AppendProof дописывает текст к доказательствам жалобы.
func (s *Service) AppendProof(ctx context.Context, id, proof string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsActive() {
		return common.ErrComplaintClosed
	}

	combined := strings.TrimSpace(proof)
	if c.Proof != "" {
		combined = c.Proof + "\n" + combined
	}
	return s.repo.UpdateCell(ctx, id, sheets.ComplaintColProof, combined)
}

// close переводит жалобу в «закрыта» и пишет, кто и когда это сделал.
func (s *Service) close(ctx context.Context, id, resolver string) (Complaint, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Complaint{}, err
	}
	if !c.IsActive() {
		return Complaint{}, common.ErrComplaintClosed
	}

	if err := s.repo.UpdateCell(ctx, id, sheets.ComplaintColStatus, StatusClosed); err != nil {
		return Complaint{}, err
	}
	resolvedBy := fmt.Sprintf("%s, %s", resolver, common.FormatDateTime(common.MoscowTime()))
	if err := s.repo.UpdateCell(ctx, id, sheets.ComplaintColResolver, resolvedBy); err != nil {
		return Complaint{}, err
	}

	c.Status = StatusClosed
	c.Resolver = resolvedBy

	log.WithFields(log.Fields{
		"complaint_id": id,
		"resolver":     resolver,
	}).Info("Жалоба закрыта")
	return c, nil
}
