package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cantina/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CacheService caches the hot read paths: published menus and per-slot
// meal statistics. Misses and Redis failures both return (nil, nil) so a
// degraded cache never takes the service down.
type CacheService interface {
	GetMenu(ctx context.Context, menuID uuid.UUID) (*models.Menu, error)
	SetMenu(ctx context.Context, menu *models.Menu, ttl time.Duration) error
	DeleteMenu(ctx context.Context, menuID uuid.UUID) error

	GetMealStatistics(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (*models.MealStatistics, error)
	SetMealStatistics(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string, stats *models.MealStatistics, ttl time.Duration) error
	DeleteMealStatistics(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis ping failed, cache will be bypassed until it recovers")
	}

	return &redisCacheService{client: client}
}

func menuKey(menuID uuid.UUID) string {
	return fmt.Sprintf("menu:%s", menuID)
}

func mealStatsKey(canteenID uuid.UUID, orderDate time.Time, mealType string) string {
	return fmt.Sprintf("mealstats:%s:%s:%s", canteenID, orderDate.Format("2006-01-02"), mealType)
}

func (s *redisCacheService) GetMenu(ctx context.Context, menuID uuid.UUID) (*models.Menu, error) {
	data, err := s.client.Get(ctx, menuKey(menuID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		log.Debug().Err(err).Msg("menu cache read failed")
		return nil, nil
	}

	menu := &models.Menu{}
	if err := json.Unmarshal(data, menu); err != nil {
		return nil, nil
	}
	return menu, nil
}

func (s *redisCacheService) SetMenu(ctx context.Context, menu *models.Menu, ttl time.Duration) error {
	data, err := json.Marshal(menu)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, menuKey(menu.ID), data, ttl).Err()
}

func (s *redisCacheService) DeleteMenu(ctx context.Context, menuID uuid.UUID) error {
	return s.client.Del(ctx, menuKey(menuID)).Err()
}

func (s *redisCacheService) GetMealStatistics(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (*models.MealStatistics, error) {
	data, err := s.client.Get(ctx, mealStatsKey(canteenID, orderDate, mealType)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		log.Debug().Err(err).Msg("meal statistics cache read failed")
		return nil, nil
	}

	stats := &models.MealStatistics{}
	if err := json.Unmarshal(data, stats); err != nil {
		return nil, nil
	}
	return stats, nil
}

func (s *redisCacheService) SetMealStatistics(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string, stats *models.MealStatistics, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, mealStatsKey(canteenID, orderDate, mealType), data, ttl).Err()
}

func (s *redisCacheService) DeleteMealStatistics(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) error {
	return s.client.Del(ctx, mealStatsKey(canteenID, orderDate, mealType)).Err()
}
