package services

import (
	"context"
	"fmt"
	"time"

	"cantina/internal/caching"
	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const mealStatsTTL = 2 * time.Minute

// StatisticsService derives per-dish and per-user summaries for one meal
// slot from committed orders. Read-only; the aggregates run inside one
// repeatable-read snapshot so a commit landing mid-read cannot skew the
// totals against each other.
type StatisticsService interface {
	MealStatistics(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (*models.MealStatistics, error)
}

type statisticsService struct {
	pool  TxBeginner
	cache caching.CacheService
}

func NewStatisticsService(pool TxBeginner, cache caching.CacheService) StatisticsService {
	return &statisticsService{pool: pool, cache: cache}
}

func (s *statisticsService) MealStatistics(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (*models.MealStatistics, error) {
	if !models.ValidMealType(mealType) {
		return nil, common.InvalidParam("unknown meal type")
	}

	if s.cache != nil {
		if cached, _ := s.cache.GetMealStatistics(ctx, canteenID, orderDate, mealType); cached != nil {
			return cached, nil
		}
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin statistics read: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	statsRepo := repositories.NewStatisticsRepo(tx)
	dishStats, err := statsRepo.DishStats(ctx, canteenID, orderDate, mealType)
	if err != nil {
		return nil, fmt.Errorf("aggregate dish statistics: %w", err)
	}
	userStats, err := statsRepo.UserStats(ctx, canteenID, orderDate, mealType)
	if err != nil {
		return nil, fmt.Errorf("aggregate user statistics: %w", err)
	}
	totalOrders, err := statsRepo.CountActiveOrders(ctx, canteenID, orderDate, mealType)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("close statistics read: %w", err)
	}

	stats := &models.MealStatistics{
		DishStatistics: dishStats,
		UserStatistics: userStats,
		TotalOrders:    totalOrders,
	}

	if s.cache != nil {
		if err := s.cache.SetMealStatistics(ctx, canteenID, orderDate, mealType, stats, mealStatsTTL); err != nil {
			log.Debug().Err(err).Msg("meal statistics cache write failed")
		}
	}
	return stats, nil
}
