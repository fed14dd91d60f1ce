// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: еженедельная публикация
// отчёта по активному шаблону.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"clanbot/internal/config"
	"clanbot/internal/features/reports"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	reportService *reports.Service
	reportCron    string
}

// NewScheduler создаёт планировщик задач в часовом поясе из конфига.
func NewScheduler(cfg *config.Config, reportService *reports.Service) *Scheduler {
	loc, err := time.LoadLocation(cfg.AppTimezone)
	if err != nil {
		log.WithError(err).Warnf("Не удалось загрузить %s, используем UTC+3", cfg.AppTimezone)
		loc = time.FixedZone("MSK", 3*60*60)
	}

	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		reportService: reportService,
		reportCron:    cfg.ReportCron,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	// Еженедельный отчёт по расписанию из REPORT_CRON
	_, err := s.cron.AddFunc(s.reportCron, func() {
		log.Info("[CRON] Публикация еженедельного отчёта")
		s.reportService.RunWeeklyReportJob(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.WithField("schedule", s.reportCron).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и дожидается текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
