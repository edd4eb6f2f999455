package jobs

import (
	"context"
	"time"

	"cantina/internal/config"
	"cantina/internal/models"
	"cantina/internal/repositories"
	"cantina/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the nightly maintenance work: completing past meal
// slots and exporting kitchen reports.
type Scheduler struct {
	scheduler   gocron.Scheduler
	orderRepo   repositories.OrderRepository
	canteenRepo repositories.CanteenRepository
	reports     services.ReportService
	cfg         *config.JobsConfig
	now         services.Clock
}

func NewScheduler(orderRepo repositories.OrderRepository, canteenRepo repositories.CanteenRepository,
	reports services.ReportService, cfg *config.JobsConfig, now services.Clock) (*Scheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}

	s := &Scheduler{
		scheduler:   scheduler,
		orderRepo:   orderRepo,
		canteenRepo: canteenRepo,
		reports:     reports,
		cfg:         cfg,
		now:         now,
	}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	log.Info().Msg("starting background job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) registerJobs() error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.cfg.CompletionSweepCron, false),
		gocron.NewTask(s.RunCompletionSweep, context.Background()),
		gocron.WithName("order-completion-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	_, err = s.scheduler.NewJob(
		gocron.CronJob(s.cfg.ReportExportCron, false),
		gocron.NewTask(s.RunReportExport, context.Background()),
		gocron.WithName("meal-report-export"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// RunCompletionSweep marks every placed order from a past day as
// completed. Placed orders for today are left alone; the slot may still
// be within its cancellation window.
func (s *Scheduler) RunCompletionSweep(ctx context.Context) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	completed, err := s.orderRepo.CompletePastPlaced(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("order completion sweep failed")
		return
	}
	log.Info().Int64("orders_completed", completed).Msg("order completion sweep finished")
}

// RunReportExport writes the day's per-canteen meal reports to object
// storage, one CSV per canteen and meal slot.
func (s *Scheduler) RunReportExport(ctx context.Context) {
	now := s.now()
	reportDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	canteenIDs, err := s.canteenRepo.ListActiveIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("meal report export: listing canteens failed")
		return
	}

	for _, canteenID := range canteenIDs {
		for _, mealType := range []string{models.MealBreakfast, models.MealLunch, models.MealDinner} {
			objectName, err := s.reports.ExportMealReport(ctx, canteenID, reportDate, mealType)
			if err != nil {
				log.Error().Err(err).
					Str("canteen_id", canteenID.String()).
					Str("meal_type", mealType).
					Msg("meal report export failed")
				continue
			}
			log.Info().Str("object", objectName).Msg("meal report exported")
		}
	}
}
