package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/config"
	"github.com/onlineshop/tvshop/internal/models"
)

type fixture struct {
	svc *Service
	db  *gorm.DB

	lg, samsung     models.Brand
	led, oled       models.TVDisplayTechnology
	uhd, fhd        models.TVDisplayResolution
	webos, tizen    models.TVOperationSystem
	lgLED, lgOLED   models.Television
	samsungLED      models.Television
	samsungNonSmart models.Television
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	f := &fixture{svc: &Service{DB: db}, db: db}

	f.lg = models.Brand{Name: "LG"}
	f.samsung = models.Brand{Name: "Samsung"}
	require.NoError(t, db.Create(&f.lg).Error)
	require.NoError(t, db.Create(&f.samsung).Error)

	f.led = models.TVDisplayTechnology{Name: "LED"}
	f.oled = models.TVDisplayTechnology{Name: "OLED"}
	require.NoError(t, db.Create(&f.led).Error)
	require.NoError(t, db.Create(&f.oled).Error)

	f.uhd = models.TVDisplayResolution{Name: "4K"}
	f.fhd = models.TVDisplayResolution{Name: "FullHD"}
	require.NoError(t, db.Create(&f.uhd).Error)
	require.NoError(t, db.Create(&f.fhd).Error)

	f.webos = models.TVOperationSystem{Name: "WebOS"}
	f.tizen = models.TVOperationSystem{Name: "Tizen"}
	require.NoError(t, db.Create(&f.webos).Error)
	require.NoError(t, db.Create(&f.tizen).Error)

	newTV := func(brand models.Brand, model string, tech models.TVDisplayTechnology,
		res models.TVDisplayResolution, osys models.TVOperationSystem, smart bool) models.Television {
		tv := models.Television{
			BrandID:             brand.ID,
			BrandModel:          model,
			ReleasedYear:        2022,
			ScreenSize:          55,
			SmartTV:             smart,
			RefreshRate:         60,
			DisplayTechnologyID: tech.ID,
			DisplayResolutionID: res.ID,
			OperationSystemID:   osys.ID,
			Price:               decimal.RequireFromString("500.00"),
		}
		require.NoError(t, db.Create(&tv).Error)
		return tv
	}

	f.lgLED = newTV(f.lg, "LG-LED-1", f.led, f.uhd, f.webos, true)
	f.lgOLED = newTV(f.lg, "LG-OLED-1", f.oled, f.uhd, f.webos, true)
	f.samsungLED = newTV(f.samsung, "SM-LED-1", f.led, f.fhd, f.tizen, true)
	f.samsungNonSmart = newTV(f.samsung, "SM-BASIC-1", f.led, f.fhd, f.tizen, false)
	return f
}

func ids(tvs []models.Television) []uint {
	out := make([]uint, len(tvs))
	for i, tv := range tvs {
		out[i] = tv.ID
	}
	return out
}

func TestListNoFilterReturnsEverything(t *testing.T) {
	f := newFixture(t)
	tvs, err := f.svc.ListTelevisions(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, tvs, 4)
}

func TestFilterByTechnology(t *testing.T) {
	f := newFixture(t)
	tvs, err := f.svc.ListTelevisions(context.Background(), Filter{Technologies: []string{"LED"}})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{f.lgLED.ID, f.samsungLED.ID, f.samsungNonSmart.ID}, ids(tvs))
	for _, tv := range tvs {
		require.Equal(t, "LED", tv.DisplayTechnology.Name)
	}
}

func TestFilterConjunction(t *testing.T) {
	f := newFixture(t)
	tvs, err := f.svc.ListTelevisions(context.Background(), Filter{
		Technologies: []string{"LED"},
		Brands:       []string{"LG"},
	})
	require.NoError(t, err)
	require.Equal(t, []uint{f.lgLED.ID}, ids(tvs))
}

func TestFilterSmart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	smart, err := f.svc.ListTelevisions(ctx, Filter{Smart: SmartOnly})
	require.NoError(t, err)
	require.Len(t, smart, 3)

	nonSmart, err := f.svc.ListTelevisions(ctx, Filter{Smart: NonSmartOnly})
	require.NoError(t, err)
	require.Equal(t, []uint{f.samsungNonSmart.ID}, ids(nonSmart))
}

func TestUnknownSmartValueIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := ParseSmartFilter("sorta-smart")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ListTelevisions(context.Background(), Filter{Smart: "sorta-smart"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFreeTextMatchesBrandTechnologyAndModel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	byBrand, err := f.svc.ListTelevisions(ctx, Filter{FreeText: "lg"})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{f.lgLED.ID, f.lgOLED.ID}, ids(byBrand))

	byTech, err := f.svc.ListTelevisions(ctx, Filter{FreeText: "oled"})
	require.NoError(t, err)
	require.Equal(t, []uint{f.lgOLED.ID}, ids(byTech))

	byModel, err := f.svc.ListTelevisions(ctx, Filter{FreeText: "sm-basic"})
	require.NoError(t, err)
	require.Equal(t, []uint{f.samsungNonSmart.ID}, ids(byModel))
}

func TestFreeTextCombinesWithFilters(t *testing.T) {
	f := newFixture(t)
	tvs, err := f.svc.ListTelevisions(context.Background(), Filter{
		FreeText: "lg",
		Smart:    SmartOnly,
		Brands:   []string{"LG"},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{f.lgLED.ID, f.lgOLED.ID}, ids(tvs))
}

func TestGetTelevisionWithStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Create(&models.StockLevel{TelevisionID: f.lgLED.ID, Quantity: 7}).Error)

	tv, qty, err := f.svc.GetTelevision(ctx, f.lgLED.ID)
	require.NoError(t, err)
	require.Equal(t, "LG-LED-1", tv.BrandModel)
	require.Equal(t, uint(7), qty)

	_, qty, err = f.svc.GetTelevision(ctx, f.lgOLED.ID)
	require.NoError(t, err)
	require.Zero(t, qty, "no stock row reads as zero")

	_, _, err = f.svc.GetTelevision(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTelevisionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	badYear := models.Television{
		BrandID:             f.lg.ID,
		BrandModel:          "TooOld",
		ReleasedYear:        2009,
		DisplayTechnologyID: f.led.ID,
		DisplayResolutionID: f.uhd.ID,
		OperationSystemID:   f.webos.ID,
	}
	require.ErrorIs(t, f.svc.CreateTelevision(ctx, &badYear), ErrValidation)

	badYear.ReleasedYear = time.Now().Year() + 1
	require.ErrorIs(t, f.svc.CreateTelevision(ctx, &badYear), ErrValidation)

	negative := badYear
	negative.ReleasedYear = 2020
	negative.Price = decimal.RequireFromString("-1")
	require.ErrorIs(t, f.svc.CreateTelevision(ctx, &negative), ErrValidation)
}

func TestDeleteTelevisionReferencedByOrderConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := models.User{Username: "jan", PasswordHash: "x"}
	require.NoError(t, f.db.Create(&user).Error)
	order := models.Order{OrderID: uuid.New(), UserID: user.ID, Status: models.OrderStatusSubmitted, CreatedAt: time.Now()}
	require.NoError(t, f.db.Create(&order).Error)
	require.NoError(t, f.db.Model(&order).Association("Televisions").Append(&f.lgLED))

	err := f.svc.DeleteTelevision(ctx, f.lgLED.ID)
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, f.svc.DeleteTelevision(ctx, f.lgOLED.ID))
	_, _, err = f.svc.GetTelevision(ctx, f.lgOLED.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBrandDuplicateIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fresh := models.Brand{Name: "Philips"}
	require.NoError(t, f.svc.CreateBrand(ctx, &fresh))

	dup := models.Brand{Name: "LG"}
	require.ErrorIs(t, f.svc.CreateBrand(ctx, &dup), ErrConflict)

	empty := models.Brand{}
	require.ErrorIs(t, f.svc.CreateBrand(ctx, &empty), ErrValidation)
}
