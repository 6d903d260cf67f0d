package services

import (
	"context"

	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/models"
	"github.com/diewo77/food-tracker/internal/nutrition"
)

// TrackerService ties the catalog, the calculator and the log store together.
type TrackerService struct {
	Catalog *catalog.Catalog
	Logs    *FoodLogService
}

func NewTrackerService(c *catalog.Catalog, logs *FoodLogService) *TrackerService {
	return &TrackerService{Catalog: c, Logs: logs}
}

// Summary is a user's full log with its cumulative totals.
type Summary struct {
	Entries []models.FoodLog `json:"entries"`
	Totals  models.Macros    `json:"totals"`
}

// AddFood scales the catalog entry for foodName to grams and appends the row.
func (s *TrackerService) AddFood(ctx context.Context, userID uint, foodName string, grams float64) (*models.FoodLog, error) {
	entry, err := s.Catalog.Lookup(foodName)
	if err != nil {
		return nil, err
	}
	m, err := nutrition.Scale(entry, grams)
	if err != nil {
		return nil, err
	}
	row := &models.FoodLog{UserID: userID, FoodName: entry.FoodName, Weight: grams}
	row.SetMacros(m)
	if err := s.Logs.Append(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Summary loads the user's log and sums it.
func (s *TrackerService) Summary(ctx context.Context, userID uint) (*Summary, error) {
	rows, err := s.Logs.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Summary{Entries: rows, Totals: nutrition.Sum(rows)}, nil
}
