package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/WooodHead/blog-be-next/internal/ids"
	"github.com/WooodHead/blog-be-next/internal/models"
	"github.com/WooodHead/blog-be-next/internal/repository"
	"github.com/WooodHead/blog-be-next/internal/service"
)

// Scheduler records a daily bandwidth snapshot from the hosting
// provider so the dashboard can chart usage history.
type Scheduler struct {
	cron      *cron.Cron
	bandwagon *service.BandwagonService
	snapshots *repository.SnapshotRepository
	log       zerolog.Logger
}

func NewScheduler(bandwagon *service.BandwagonService, snapshots *repository.SnapshotRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		bandwagon: bandwagon,
		snapshots: snapshots,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.recordUsageSnapshot); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits up to five seconds for a running job
// to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) recordUsageSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := s.bandwagon.GetServiceInfo(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("usage snapshot fetch failed")
		return
	}

	snapshot := models.UsageSnapshot{
		ID:         ids.New(),
		DataUsed:   info.DataCounter * info.MonthlyDataMultiplier,
		DataLimit:  info.PlanMonthlyData * info.MonthlyDataMultiplier,
		RecordedAt: time.Now(),
	}

	if err := s.snapshots.Insert(ctx, snapshot); err != nil {
		s.log.Error().Err(err).Msg("usage snapshot insert failed")
		return
	}

	s.log.Info().
		Int64("data_used", snapshot.DataUsed).
		Int64("data_limit", snapshot.DataLimit).
		Msg("usage snapshot recorded")
}
