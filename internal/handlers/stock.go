package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onlineshop/tvshop/internal/mykafka"
	"github.com/onlineshop/tvshop/internal/stock"
)

type StockHandler struct {
	Svc      *stock.Service
	Producer *mykafka.Producer
}

func (h *StockHandler) Get(c echo.Context) error {
	tvID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	qty, err := h.Svc.Get(c.Request().Context(), tvID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"television_id": tvID, "quantity": qty})
}

func (h *StockHandler) Set(c echo.Context) error {
	tvID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	level, err := h.Svc.Set(c.Request().Context(), tvID, req.Quantity)
	if err != nil {
		if errors.Is(err, stock.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.Producer, "catalog_events", c.Param("id"), map[string]any{
		"type":          "stock_set",
		"television_id": tvID,
		"quantity":      level.Quantity,
	})
	return c.JSON(http.StatusOK, level)
}
