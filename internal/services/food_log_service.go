package services

import (
	"context"
	"fmt"

	"github.com/diewo77/food-tracker/internal/models"
	"gorm.io/gorm"
)

// FoodLogService is the append-only log store backed by the food_logs table.
type FoodLogService struct{ DB *gorm.DB }

func NewFoodLogService(db *gorm.DB) *FoodLogService { return &FoodLogService{DB: db} }

// Append inserts entry and fills its ID and CreatedAt.
func (s *FoodLogService) Append(ctx context.Context, entry *models.FoodLog) error {
	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append food log: %w", err)
	}
	return nil
}

// ListForUser returns every row of userID in insertion order.
func (s *FoodLogService) ListForUser(ctx context.Context, userID uint) ([]models.FoodLog, error) {
	logs := []models.FoodLog{}
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list food logs: %w", err)
	}
	return logs, nil
}
