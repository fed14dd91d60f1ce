// Package praises — service.go содержит бизнес-логику похвалы:
// запрет хвалить себя и подсчёт топа за период.
package praises

import (
	"context"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
)

// Service управляет похвалой.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис похвалы.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record записывает похвалу участнику.
// Хвалить самого себя нельзя: сравниваем имя хвалящего с ником
// без учёта регистра.
func (s *Service) Record(ctx context.Context, target, issuer, reason string) error {
	target = strings.TrimSpace(target)
	if strings.EqualFold(strings.TrimSpace(issuer), target) {
		return common.ErrSelfPraise
	}

	p := Praise{
		Nickname: target,
		Issuer:   strings.TrimSpace(issuer),
		Reason:   strings.TrimSpace(reason),
		Date:     common.FormatDate(common.MoscowTime()),
	}
	if err := s.repo.Append(ctx, p); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"nickname": target,
		"issuer":   p.Issuer,
	}).Info("Похвала записана")
	return nil
}

// CountFor возвращает число похвал участника за всё время.
func (s *Service) CountFor(ctx context.Context, nickname string) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	nickname = strings.TrimSpace(nickname)
	count := 0
	for _, p := range all {
		if p.Nickname == nickname {
			count++
		}
	}
	return count, nil
}

// ListFor возвращает похвалы участника за всё время.
func (s *Service) ListFor(ctx context.Context, nickname string) ([]Praise, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	nickname = strings.TrimSpace(nickname)
	var out []Praise
	for _, p := range all {
		if p.Nickname == nickname {
			out = append(out, p)
		}
	}
	return out, nil
}

// Top считает топ хвалёных участников.
//
// windowDays > 0 — учитываются записи за последние windowDays дней,
// windowDays = 0 — за всё время. Записи с нечитаемой датой молча
// пропускаются: таблицу правят руками, кривые ячейки — норма.
// Сортировка по убыванию числа похвал устойчивая: при равенстве
// порядок — как записи впервые встретились в листе.
func (s *Service) Top(ctx context.Context, windowDays, limit int) ([]TopEntry, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := common.MoscowTime()
	counts := make(map[string]int)
	var order []string // ники в порядке первого появления

	for _, p := range all {
		if windowDays > 0 {
			date, err := common.ParseDate(p.Date)
			if err != nil {
				continue
			}
			if now.Sub(date) > time.Duration(windowDays)*24*time.Hour {
				continue
			}
		}
		if _, seen := counts[p.Nickname]; !seen {
			order = append(order, p.Nickname)
		}
		counts[p.Nickname]++
	}

	entries := make([]TopEntry, 0, len(order))
	for _, nick := range order {
		entries = append(entries, TopEntry{Nickname: nick, Count: counts[nick]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
