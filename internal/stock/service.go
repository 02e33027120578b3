package stock

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/models"
)

var ErrNotFound = errors.New("not found")

type Service struct {
	DB *gorm.DB
}

func (s *Service) Get(ctx context.Context, tvID uint) (uint, error) {
	var level models.StockLevel
	err := s.DB.WithContext(ctx).Where("television_id = ?", tvID).First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return level.Quantity, nil
}

// Set replaces the on-hand quantity for a television, creating the stock
// row on first use.
func (s *Service) Set(ctx context.Context, tvID uint, quantity uint) (*models.StockLevel, error) {
	var tv models.Television
	if err := s.DB.WithContext(ctx).First(&tv, tvID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: television %d", ErrNotFound, tvID)
		}
		return nil, err
	}

	var level models.StockLevel
	err := s.DB.WithContext(ctx).Where("television_id = ?", tvID).First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		level = models.StockLevel{TelevisionID: tvID, Quantity: quantity}
		if err := s.DB.WithContext(ctx).Create(&level).Error; err != nil {
			return nil, err
		}
		return &level, nil
	}
	if err != nil {
		return nil, err
	}

	level.Quantity = quantity
	if err := s.DB.WithContext(ctx).Save(&level).Error; err != nil {
		return nil, err
	}
	return &level, nil
}
