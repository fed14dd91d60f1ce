// Package reports — service.go содержит логику отчёта:
// CRUD шаблонов, подстановку плейсхолдеров и еженедельную задачу.
package reports

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
	"clanbot/internal/features/praises"
	"clanbot/internal/sheets"
)

// Поддерживаемые плейсхолдеры шаблона.
const (
	PlaceholderTopList   = "{top_list}"
	PlaceholderDate      = "{date}"
	PlaceholderWeekStart = "{week_start}"
)

// leftoverPlaceholder ловит плейсхолдеры, оставшиеся после подстановки.
// Неизвестный плейсхолдер в шаблоне — ошибка форматирования, не молчим.
var leftoverPlaceholder = regexp.MustCompile(`\{[a-zA-Z_]+\}`)

// TopProvider считает топ похвалы — реализуется сервисом похвалы.
type TopProvider interface {
	Top(ctx context.Context, windowDays, limit int) ([]praises.TopEntry, error)
}

// Post публикует готовый отчёт в чат клана (best-effort).
type Post func(text string)

// Service управляет шаблонами и отчётами.
type Service struct {
	repo       *Repository
	top        TopProvider
	post       Post
	topLimit   int
	windowDays int
}

// NewService создаёт сервис отчётов.
func NewService(repo *Repository, top TopProvider, post Post, topLimit, windowDays int) *Service {
	return &Service{repo: repo, top: top, post: post, topLimit: topLimit, windowDays: windowDays}
}

// List возвращает все шаблоны.
func (s *Service) List(ctx context.Context) ([]Template, error) {
	return s.repo.List(ctx)
}

// Get возвращает шаблон по id.
func (s *Service) Get(ctx context.Context, id string) (Template, error) {
	return s.repo.FindByID(ctx, id)
}

// Create создаёт шаблон. Новый шаблон неактивен — включают отдельно.
func (s *Service) Create(ctx context.Context, name, body string) (Template, error) {
	t := Template{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(name),
		Body: body,
	}
	if err := s.repo.Append(ctx, t); err != nil {
		return Template{}, err
	}
	log.WithField("template_id", t.ID).Info("Шаблон отчёта создан")
	return t, nil
}

// EditField обновляет поле шаблона ("name" или "body").
func (s *Service) EditField(ctx context.Context, id, field, value string) error {
	var col int
	switch field {
	case "name":
		col = sheets.TemplateColName
		value = strings.TrimSpace(value)
	case "body":
		col = sheets.TemplateColBody
	default:
		return fmt.Errorf("неизвестное поле шаблона %q", field)
	}
	return s.repo.UpdateCell(ctx, id, col, value)
}

// Delete удаляет шаблон.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Activate делает шаблон активным. Активен всегда не больше одного:
// флаг снимается со всех остальных за один проход.
func (s *Service) Activate(ctx context.Context, id string) error {
	if err := s.repo.SetActiveExclusive(ctx, id); err != nil {
		return err
	}
	log.WithField("template_id", id).Info("Шаблон отчёта активирован")
	return nil
}

// Active возвращает активный шаблон или ErrNoActiveTemplate.
func (s *Service) Active(ctx context.Context) (Template, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Template{}, err
	}
	for _, t := range all {
		if t.Active {
			return t, nil
		}
	}
	return Template{}, common.ErrNoActiveTemplate
}

// Render собирает отчёт по активному шаблону.
// Подставляются {top_list}, {date} и {week_start}; если после
// подстановки в тексте остался плейсхолдер — шаблон кривой,
// возвращаем ошибку, а не публикуем мусор.
func (s *Service) Render(ctx context.Context) (string, error) {
	t, err := s.Active(ctx)
	if err != nil {
		return "", err
	}

	entries, err := s.top.Top(ctx, s.windowDays, s.topLimit)
	if err != nil {
		return "", fmt.Errorf("ошибка подсчёта топа: %w", err)
	}

	now := common.MoscowTime()
	weekStart := now.AddDate(0, 0, -s.windowDays)

	r := strings.NewReplacer(
		PlaceholderTopList, formatTopList(entries),
		PlaceholderDate, common.FormatDate(now),
		PlaceholderWeekStart, common.FormatDate(weekStart),
	)
	text := r.Replace(t.Body)

	if left := leftoverPlaceholder.FindString(text); left != "" {
		return "", fmt.Errorf("неизвестный плейсхолдер %s в шаблоне %q", left, t.Name)
	}
	return text, nil
}

// RunWeeklyReportJob собирает и публикует еженедельный отчёт.
// Вызывается планировщиком; любые ошибки логируются и не
// распространяются — планировщик не должен падать.
func (s *Service) RunWeeklyReportJob(ctx context.Context) {
	text, err := s.Render(ctx)
	if err != nil {
		log.WithError(err).Error("Еженедельный отчёт не собран")
		return
	}
	s.post(text)
	log.Info("Еженедельный отчёт опубликован")
}

// formatTopList форматирует топ в строки вида «1. ник — 3 похвалы».
func formatTopList(entries []praises.TopEntry) string {
	if len(entries) == 0 {
		return "за неделю никого не похвалили"
	}
	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, e.Nickname,
			common.FormatCount(e.Count, "похвала", "похвалы", "похвал")))
	}
	return strings.TrimRight(sb.String(), "\n")
}
