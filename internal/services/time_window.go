package services

import (
	"fmt"
	"time"

	"cantina/internal/config"
	"cantina/internal/models"
)

// Clock supplies the current time; injected so window decisions are
// testable against fixed instants.
type Clock func() time.Time

type cutoff struct {
	hour   int
	minute int
}

// TimeWindowPolicy decides whether an order action is still permitted for
// a meal slot. Pure function of the wall clock and the configured cutoffs:
// future dates are always open, today is open strictly before the meal's
// cutoff, past dates are always closed.
type TimeWindowPolicy struct {
	cutoffs map[string]cutoff
	now     Clock
}

func NewTimeWindowPolicy(meals *config.MealConfig, now Clock) (*TimeWindowPolicy, error) {
	if now == nil {
		now = time.Now
	}

	cutoffs := make(map[string]cutoff, 3)
	for _, mealType := range []string{models.MealBreakfast, models.MealLunch, models.MealDinner} {
		raw := meals.Cutoff(mealType)
		var c cutoff
		if _, err := fmt.Sscanf(raw, "%d:%d", &c.hour, &c.minute); err != nil {
			return nil, fmt.Errorf("invalid cutoff %q for %s: %w", raw, mealType, err)
		}
		if c.hour < 0 || c.hour > 23 || c.minute < 0 || c.minute > 59 {
			return nil, fmt.Errorf("invalid cutoff %q for %s", raw, mealType)
		}
		cutoffs[mealType] = c
	}

	return &TimeWindowPolicy{cutoffs: cutoffs, now: now}, nil
}

// WithinWindow reports whether ordering actions for (mealType, targetDate)
// are still open. Unknown meal types are never open.
func (p *TimeWindowPolicy) WithinWindow(mealType string, targetDate time.Time) bool {
	c, ok := p.cutoffs[mealType]
	if !ok {
		return false
	}

	now := p.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case target.After(today):
		return true
	case target.Before(today):
		return false
	default:
		cutoffAt := time.Date(now.Year(), now.Month(), now.Day(), c.hour, c.minute, 0, 0, now.Location())
		return now.Before(cutoffAt)
	}
}
