package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/catalog"
	"github.com/onlineshop/tvshop/internal/logging"
	"github.com/onlineshop/tvshop/internal/models"
	"github.com/onlineshop/tvshop/internal/mykafka"
)

type CatalogHandler struct {
	DB       *gorm.DB
	Svc      *catalog.Service
	Producer *mykafka.Producer
}

func catalogError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Home is the landing page payload: catalog counts only.
func (h *CatalogHandler) Home(c echo.Context) error {
	var tvs, phones int64
	if err := h.DB.Model(&models.Television{}).Count(&tvs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&models.MobilePhone{}).Count(&phones).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"televisions":   tvs,
		"mobile_phones": phones,
	})
}

func (h *CatalogHandler) ListTelevisions(c echo.Context) error {
	smart, err := catalog.ParseSmartFilter(c.QueryParam("smart"))
	if err != nil {
		return catalogError(err)
	}

	params := c.QueryParams()
	filter := catalog.Filter{
		Brands:          params["brand"],
		Technologies:    params["technology"],
		Resolutions:     params["resolution"],
		Smart:           smart,
		OperationSystem: c.QueryParam("os"),
		FreeText:        c.QueryParam("q"),
	}

	tvs, err := h.Svc.ListTelevisions(c.Request().Context(), filter)
	if err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": tvs, "total": len(tvs)})
}

func (h *CatalogHandler) GetTelevision(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tv, stockQty, err := h.Svc.GetTelevision(c.Request().Context(), id)
	if err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"television": tv, "stock": stockQty})
}

type televisionRequest struct {
	BrandID             uint            `json:"brand_id"`
	BrandModel          string          `json:"brand_model"`
	ReleasedYear        int             `json:"released_year"`
	ScreenSize          int             `json:"screen_size"`
	SmartTV             bool            `json:"smart_tv"`
	RefreshRate         int             `json:"refresh_rate"`
	DisplayTechnologyID uint            `json:"display_technology_id"`
	DisplayResolutionID uint            `json:"display_resolution_id"`
	OperationSystemID   uint            `json:"operation_system_id"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	ImagePath           string          `json:"image_path"`
}

func (r televisionRequest) model() models.Television {
	return models.Television{
		BrandID:             r.BrandID,
		BrandModel:          r.BrandModel,
		ReleasedYear:        r.ReleasedYear,
		ScreenSize:          r.ScreenSize,
		SmartTV:             r.SmartTV,
		RefreshRate:         r.RefreshRate,
		DisplayTechnologyID: r.DisplayTechnologyID,
		DisplayResolutionID: r.DisplayResolutionID,
		OperationSystemID:   r.OperationSystemID,
		Description:         r.Description,
		Price:               r.Price,
		ImagePath:           r.ImagePath,
	}
}

func (h *CatalogHandler) CreateTelevision(c echo.Context) error {
	var req televisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	tv := req.model()
	if err := h.Svc.CreateTelevision(c.Request().Context(), &tv); err != nil {
		return catalogError(err)
	}

	publishEvent(c, h.Producer, "catalog_events", tv.BrandModel, map[string]any{
		"type":          "tv_created",
		"television_id": tv.ID,
	})
	logging.FromContext(c.Request().Context()).Info("tv_created", "television_id", tv.ID)
	return c.JSON(http.StatusCreated, tv)
}

func (h *CatalogHandler) UpdateTelevision(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req televisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	tv := req.model()
	tv.ID = id
	if err := h.Svc.UpdateTelevision(c.Request().Context(), &tv); err != nil {
		return catalogError(err)
	}

	publishEvent(c, h.Producer, "catalog_events", tv.BrandModel, map[string]any{
		"type":          "tv_updated",
		"television_id": tv.ID,
	})
	return c.JSON(http.StatusOK, tv)
}

func (h *CatalogHandler) DeleteTelevision(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteTelevision(c.Request().Context(), id); err != nil {
		return catalogError(err)
	}

	publishEvent(c, h.Producer, "catalog_events", c.Param("id"), map[string]any{
		"type":          "tv_deleted",
		"television_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) CreateBrand(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	brand := models.Brand{Name: req.Name}
	if err := h.Svc.CreateBrand(c.Request().Context(), &brand); err != nil {
		return catalogError(err)
	}

	publishEvent(c, h.Producer, "catalog_events", brand.Name, map[string]any{
		"type":     "brand_created",
		"brand_id": brand.ID,
	})
	return c.JSON(http.StatusCreated, brand)
}

func (h *CatalogHandler) ListMobilePhones(c echo.Context) error {
	phones, err := h.Svc.ListMobilePhones(c.Request().Context())
	if err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": phones, "total": len(phones)})
}
