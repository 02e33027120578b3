package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/authz"
	"github.com/onlineshop/tvshop/internal/logging"
	"github.com/onlineshop/tvshop/internal/models"
	"github.com/onlineshop/tvshop/internal/session"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrEmptyCart = errors.New("cart is empty")
)

type Service struct {
	DB    *gorm.DB
	Store session.Store
}

// FormDefaults pre-populates the checkout form from the user's profile.
// A user without a profile gets a blank form.
func (s *Service) FormDefaults(ctx context.Context, userID uint) (*CheckoutForm, error) {
	var profile models.Profile
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CheckoutForm{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &CheckoutForm{
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Address:     profile.Address,
		City:        profile.City,
		Zipcode:     profile.Zipcode,
		PhoneNumber: profile.PhoneNumber,
	}, nil
}

// Checkout turns the session cart into a persisted order. Creating the
// order, linking its items and finalizing the status run in one DB
// transaction; the cart is cleared only after the transaction commits, so a
// failure partway never leaves a half-linked order with an emptied cart.
func (s *Service) Checkout(ctx context.Context, userID uint, sessionKey string, form CheckoutForm) (*models.Order, error) {
	cart, err := s.Store.GetCart(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	if form.UseProfileData {
		defaults, err := s.FormDefaults(ctx, userID)
		if err != nil {
			return nil, err
		}
		use := form.UseProfileData
		form = *defaults
		form.UseProfileData = use
	}

	if fieldErrs := form.Validate(); fieldErrs != nil {
		return nil, fieldErrs
	}

	order := models.Order{
		OrderID:     uuid.New(),
		UserID:      userID,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Address:     form.Address,
		City:        form.City,
		Zipcode:     form.Zipcode,
		PhoneNumber: form.PhoneNumber,
		Status:      models.OrderStatusSubmitted,
		CreatedAt:   time.Now(),
	}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for key := range cart {
			tvID, err := strconv.ParseUint(key, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad cart key %q", ErrNotFound, key)
			}
			var tv models.Television
			if err := tx.First(&tv, uint(tvID)).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: television %d no longer available", ErrNotFound, tvID)
				}
				return err
			}
			if err := tx.Model(&order).Association("Televisions").Append(&tv); err != nil {
				return err
			}
		}
		return tx.Model(&order).Update("status", models.OrderStatusSubmitted).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	// Order is durable at this point; a failed cart clear only leaves a
	// stale cart behind, never a broken order.
	if err := s.Store.DeleteCart(ctx, sessionKey); err != nil {
		logging.FromContext(ctx).Warn("cart_clear_failed", "user_id", userID, "error", err)
	}
	return &order, nil
}

// Get resolves an order by its public UUID. A requester who is neither the
// owner nor a superuser gets not-found, never forbidden, so order existence
// is not confirmed to unauthorized parties.
func (s *Service) Get(ctx context.Context, orderID uuid.UUID, requester authz.Principal) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("Televisions").
		Preload("Televisions.Brand").
		Preload("MobilePhones").
		Where("order_id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != requester.UserID && !requester.Superuser {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return &order, nil
}

// List returns the requester's own orders, newest first.
func (s *Service) List(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Televisions").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
