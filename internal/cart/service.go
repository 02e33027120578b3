package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/models"
	"github.com/onlineshop/tvshop/internal/session"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrOutOfStock       = errors.New("out of stock")
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// View is the cart plus its derived aggregates, both recomputed on every
// read, never stored.
type View struct {
	Items      models.Cart     `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalItems int             `json:"total_items"`
}

type Service struct {
	DB    *gorm.DB
	Store session.Store
}

// Add puts one unit of a television into the session cart. The stock check
// is read-then-compare with no locking; two sessions racing on the last
// unit can both pass it. A transactional decrement would close that.
func (s *Service) Add(ctx context.Context, sessionKey string, tvID uint) (models.Cart, error) {
	var tv models.Television
	err := s.DB.WithContext(ctx).Preload("Brand").First(&tv, tvID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: television %d", ErrNotFound, tvID)
	}
	if err != nil {
		return nil, err
	}

	var stock models.StockLevel
	err = s.DB.WithContext(ctx).Where("television_id = ?", tvID).First(&stock).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart, err := s.Store.GetCart(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	key := strconv.FormatUint(uint64(tvID), 10)
	entry, inCart := cart[key]
	if inCart {
		if uint(entry.Quantity)+1 > stock.Quantity {
			return nil, fmt.Errorf("%w: %d of %q already in cart, stock is %d",
				ErrCapacityExceeded, entry.Quantity, tv.BrandModel, stock.Quantity)
		}
		entry.Quantity++
		cart[key] = entry
	} else {
		if stock.Quantity < 1 {
			return nil, fmt.Errorf("%w: %q", ErrOutOfStock, tv.BrandModel)
		}
		cart[key] = models.CartEntry{
			Name:     tv.Brand.Name,
			Model:    tv.BrandModel,
			Price:    tv.Price.StringFixed(2),
			Quantity: 1,
		}
	}

	if err := s.Store.SetCart(ctx, sessionKey, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove takes one unit out of the cart. Removing an absent item is a no-op.
func (s *Service) Remove(ctx context.Context, sessionKey string, tvID uint) (models.Cart, error) {
	cart, err := s.Store.GetCart(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	key := strconv.FormatUint(uint64(tvID), 10)
	entry, ok := cart[key]
	if !ok {
		return cart, nil
	}

	if entry.Quantity > 1 {
		entry.Quantity--
		cart[key] = entry
	} else {
		delete(cart, key)
	}

	if err := s.Store.SetCart(ctx, sessionKey, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ViewCart is a pure read.
func (s *Service) ViewCart(ctx context.Context, sessionKey string) (*View, error) {
	cart, err := s.Store.GetCart(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := 0
	for _, entry := range cart {
		price, err := decimal.NewFromString(entry.Price)
		if err != nil {
			return nil, fmt.Errorf("corrupt price snapshot %q: %w", entry.Price, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		items += entry.Quantity
	}

	return &View{Items: cart, TotalPrice: total, TotalItems: items}, nil
}
