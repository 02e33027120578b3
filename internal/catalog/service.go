package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation")
	ErrConflict   = errors.New("conflict")
)

// SmartFilter narrows the listing to smart or non-smart sets. The zero value
// imposes no constraint.
type SmartFilter string

const (
	SmartAny      SmartFilter = "any"
	SmartOnly     SmartFilter = "smart"
	NonSmartOnly  SmartFilter = "non-smart"
	minReleaseYear            = 2010
)

// ParseSmartFilter rejects unknown values instead of silently ignoring them.
func ParseSmartFilter(raw string) (SmartFilter, error) {
	switch raw {
	case "", string(SmartAny):
		return SmartAny, nil
	case string(SmartOnly):
		return SmartOnly, nil
	case string(NonSmartOnly):
		return NonSmartOnly, nil
	default:
		return "", fmt.Errorf("%w: unknown smart filter %q", ErrNotFound, raw)
	}
}

// Filter is a pure conjunction: every supplied (non-empty) field must match,
// omitted fields impose no constraint.
type Filter struct {
	Brands          []string
	Technologies    []string
	Resolutions     []string
	Smart           SmartFilter
	OperationSystem string
	FreeText        string
}

type Service struct {
	DB *gorm.DB
}

func (s *Service) televisionQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&models.Television{}).
		Joins("JOIN brands ON brands.id = televisions.brand_id").
		Joins("JOIN tv_display_technologies ON tv_display_technologies.id = televisions.display_technology_id").
		Joins("JOIN tv_display_resolutions ON tv_display_resolutions.id = televisions.display_resolution_id").
		Joins("JOIN tv_operation_systems ON tv_operation_systems.id = televisions.operation_system_id")
}

// ListTelevisions is a pure read, no side effects.
func (s *Service) ListTelevisions(ctx context.Context, f Filter) ([]models.Television, error) {
	q := s.televisionQuery(ctx)

	if len(f.Brands) > 0 {
		q = q.Where("brands.name IN ?", f.Brands)
	}
	if len(f.Technologies) > 0 {
		q = q.Where("tv_display_technologies.name IN ?", f.Technologies)
	}
	if len(f.Resolutions) > 0 {
		q = q.Where("tv_display_resolutions.name IN ?", f.Resolutions)
	}
	switch f.Smart {
	case SmartOnly:
		q = q.Where("televisions.smart_tv = ?", true)
	case NonSmartOnly:
		q = q.Where("televisions.smart_tv = ?", false)
	case SmartAny, "":
	default:
		return nil, fmt.Errorf("%w: unknown smart filter %q", ErrNotFound, f.Smart)
	}
	if f.OperationSystem != "" {
		q = q.Where("tv_operation_systems.name = ?", f.OperationSystem)
	}
	if f.FreeText != "" {
		needle := "%" + strings.ToLower(f.FreeText) + "%"
		q = q.Where(
			"LOWER(brands.name) LIKE ? OR LOWER(tv_display_technologies.name) LIKE ? OR LOWER(televisions.brand_model) LIKE ?",
			needle, needle, needle,
		)
	}

	var tvs []models.Television
	err := q.Distinct("televisions.*").
		Preload("Brand").
		Preload("DisplayTechnology").
		Preload("DisplayResolution").
		Preload("OperationSystem").
		Preload("Categories").
		Order("televisions.id ASC").
		Find(&tvs).Error
	if err != nil {
		return nil, err
	}
	return tvs, nil
}

// GetTelevision returns the item and its current stock level. A television
// without a stock row reads as quantity 0.
func (s *Service) GetTelevision(ctx context.Context, id uint) (*models.Television, uint, error) {
	var tv models.Television
	err := s.DB.WithContext(ctx).
		Preload("Brand").
		Preload("DisplayTechnology").
		Preload("DisplayResolution").
		Preload("OperationSystem").
		Preload("Categories").
		First(&tv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, fmt.Errorf("%w: television %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, 0, err
	}

	var stock models.StockLevel
	err = s.DB.WithContext(ctx).Where("television_id = ?", id).First(&stock).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, err
	}
	return &tv, stock.Quantity, nil
}

func (s *Service) ListMobilePhones(ctx context.Context) ([]models.MobilePhone, error) {
	var phones []models.MobilePhone
	err := s.DB.WithContext(ctx).
		Preload("Brand").
		Preload("OperationSystem").
		Preload("RAM").
		Preload("UserMemory").
		Preload("Construction").
		Preload("Display").
		Preload("Categories").
		Order("id ASC").
		Find(&phones).Error
	if err != nil {
		return nil, err
	}
	return phones, nil
}

func validateTelevision(tv *models.Television) error {
	if tv.BrandModel == "" {
		return fmt.Errorf("%w: brand_model required", ErrValidation)
	}
	if tv.ReleasedYear < minReleaseYear || tv.ReleasedYear > time.Now().Year() {
		return fmt.Errorf("%w: released_year must be between %d and %d", ErrValidation, minReleaseYear, time.Now().Year())
	}
	if tv.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return nil
}

func (s *Service) CreateTelevision(ctx context.Context, tv *models.Television) error {
	if err := validateTelevision(tv); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Create(tv).Error
}

func (s *Service) UpdateTelevision(ctx context.Context, tv *models.Television) error {
	if err := validateTelevision(tv); err != nil {
		return err
	}
	var existing models.Television
	if err := s.DB.WithContext(ctx).First(&existing, tv.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: television %d", ErrNotFound, tv.ID)
		}
		return err
	}
	return s.DB.WithContext(ctx).Save(tv).Error
}

// DeleteTelevision refuses to remove an item referenced by a placed order,
// orders keep their purchased items.
func (s *Service) DeleteTelevision(ctx context.Context, id uint) error {
	var tv models.Television
	if err := s.DB.WithContext(ctx).First(&tv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: television %d", ErrNotFound, id)
		}
		return err
	}

	var refs int64
	if err := s.DB.WithContext(ctx).Table("order_televisions").
		Where("television_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: television %d is referenced by %d order(s)", ErrConflict, id, refs)
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("television_id = ?", id).Delete(&models.StockLevel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Television{}, id).Error
	})
}

// CreateBrand surfaces a duplicate name as a conflict the caller can render
// as a validation message, not a crash.
func (s *Service) CreateBrand(ctx context.Context, brand *models.Brand) error {
	if brand.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	var existing models.Brand
	err := s.DB.WithContext(ctx).Where("name = ?", brand.Name).First(&existing).Error
	if err == nil {
		return fmt.Errorf("%w: brand %q already exists", ErrConflict, brand.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := s.DB.WithContext(ctx).Create(brand).Error; err != nil {
		// unique index still guards the concurrent duplicate
		return fmt.Errorf("%w: brand %q already exists", ErrConflict, brand.Name)
	}
	return nil
}
