package order

import (
	"context"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/authz"
	"github.com/onlineshop/tvshop/internal/config"
	"github.com/onlineshop/tvshop/internal/models"
	"github.com/onlineshop/tvshop/internal/session"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return &Service{DB: db, Store: session.NewMemoryStore()}, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedTelevision(t *testing.T, db *gorm.DB, model string) models.Television {
	t.Helper()
	brand := models.Brand{Name: "Brand " + model}
	require.NoError(t, db.Create(&brand).Error)
	tech := models.TVDisplayTechnology{Name: "Tech " + model}
	require.NoError(t, db.Create(&tech).Error)
	res := models.TVDisplayResolution{Name: "Res " + model}
	require.NoError(t, db.Create(&res).Error)
	osys := models.TVOperationSystem{Name: "OS " + model}
	require.NoError(t, db.Create(&osys).Error)

	tv := models.Television{
		BrandID:             brand.ID,
		BrandModel:          model,
		ReleasedYear:        2021,
		ScreenSize:          55,
		DisplayTechnologyID: tech.ID,
		DisplayResolutionID: res.ID,
		OperationSystemID:   osys.ID,
		Price:               decimal.RequireFromString("499.99"),
	}
	require.NoError(t, db.Create(&tv).Error)
	return tv
}

func cartWith(t *testing.T, store session.Store, key string, tvs ...models.Television) {
	t.Helper()
	cart := models.Cart{}
	for _, tv := range tvs {
		cart[strconv.FormatUint(uint64(tv.ID), 10)] = models.CartEntry{
			Name:     tv.BrandModel,
			Model:    tv.BrandModel,
			Price:    tv.Price.StringFixed(2),
			Quantity: 1,
		}
	}
	require.NoError(t, store.SetCart(context.Background(), key, cart))
}

func validForm() CheckoutForm {
	return CheckoutForm{
		FirstName:   "Jan",
		LastName:    "Novak",
		Address:     "Main 1",
		City:        "Prague",
		Zipcode:     "11000",
		PhoneNumber: "+420123456789",
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db, "jan")
	tv := seedTelevision(t, db, "OLED55")
	cartWith(t, svc.Store, "sess", tv)

	placed, err := svc.Checkout(ctx, user.ID, "sess", validForm())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, placed.OrderID)
	require.Equal(t, models.OrderStatusSubmitted, placed.Status)
	require.Equal(t, user.ID, placed.UserID)
	require.Equal(t, "Jan", placed.FirstName)

	var stored models.Order
	require.NoError(t, db.Preload("Televisions").Where("order_id = ?", placed.OrderID).First(&stored).Error)
	require.Len(t, stored.Televisions, 1)
	require.Equal(t, tv.ID, stored.Televisions[0].ID)

	remaining, err := svc.Store.GetCart(ctx, "sess")
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestCheckoutGeneratesDistinctUUIDs(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db, "jan")
	tv := seedTelevision(t, db, "OLED55")

	cartWith(t, svc.Store, "sess", tv)
	first, err := svc.Checkout(ctx, user.ID, "sess", validForm())
	require.NoError(t, err)

	cartWith(t, svc.Store, "sess", tv)
	second, err := svc.Checkout(ctx, user.ID, "sess", validForm())
	require.NoError(t, err)

	require.NotEqual(t, first.OrderID, second.OrderID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "jan")

	_, err := svc.Checkout(context.Background(), user.ID, "sess", validForm())
	require.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCheckoutValidationFailureLeavesCart(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db, "jan")
	tv := seedTelevision(t, db, "OLED55")
	cartWith(t, svc.Store, "sess", tv)

	form := validForm()
	form.PhoneNumber = "not-a-phone"
	_, err := svc.Checkout(ctx, user.ID, "sess", form)
	require.ErrorIs(t, err, ErrValidation)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Contains(t, fieldErrs, "phone_number")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)

	remaining, err := svc.Store.GetCart(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}

func TestCheckoutProfileOverlayWins(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db, "jan")
	require.NoError(t, db.Create(&models.Profile{
		UserID:      user.ID,
		FirstName:   "Pavel",
		LastName:    "Svoboda",
		Address:     "Side 9",
		City:        "Brno",
		Zipcode:     "60200",
		PhoneNumber: "+420987654321",
	}).Error)
	tv := seedTelevision(t, db, "OLED55")
	cartWith(t, svc.Store, "sess", tv)

	form := validForm()
	form.UseProfileData = true
	placed, err := svc.Checkout(ctx, user.ID, "sess", form)
	require.NoError(t, err)

	require.Equal(t, "Pavel", placed.FirstName)
	require.Equal(t, "Brno", placed.City)
	require.Equal(t, "+420987654321", placed.PhoneNumber)
}

func TestCheckoutVanishedItemRollsBack(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db, "jan")

	cart := models.Cart{"777": {Name: "Ghost", Model: "Ghost", Price: "1.00", Quantity: 1}}
	require.NoError(t, svc.Store.SetCart(ctx, "sess", cart))

	_, err := svc.Checkout(ctx, user.ID, "sess", validForm())
	require.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count, "half-linked order must not survive the rollback")

	remaining, err := svc.Store.GetCart(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, remaining, 1, "cart must stay intact when checkout fails")
}

func TestGetOrderAccessControl(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")
	tv := seedTelevision(t, db, "OLED55")
	cartWith(t, svc.Store, "sess", tv)

	placed, err := svc.Checkout(ctx, owner.ID, "sess", validForm())
	require.NoError(t, err)

	_, err = svc.Get(ctx, placed.OrderID, authz.Principal{UserID: owner.ID})
	require.NoError(t, err)

	_, err = svc.Get(ctx, placed.OrderID, authz.Principal{UserID: other.ID})
	require.ErrorIs(t, err, ErrNotFound, "non-owner must not learn the order exists")

	_, err = svc.Get(ctx, placed.OrderID, authz.Principal{UserID: other.ID, Superuser: true})
	require.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), authz.Principal{UserID: other.ID})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db, "jan")
	stranger := seedUser(t, db, "stranger")
	tv := seedTelevision(t, db, "OLED55")

	cartWith(t, svc.Store, "sess", tv)
	first, err := svc.Checkout(ctx, user.ID, "sess", validForm())
	require.NoError(t, err)

	cartWith(t, svc.Store, "sess", tv)
	second, err := svc.Checkout(ctx, user.ID, "sess", validForm())
	require.NoError(t, err)

	cartWith(t, svc.Store, "sess2", tv)
	_, err = svc.Checkout(ctx, stranger.ID, "sess2", validForm())
	require.NoError(t, err)

	orders, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, second.OrderID, orders[0].OrderID)
	require.Equal(t, first.OrderID, orders[1].OrderID)
}
