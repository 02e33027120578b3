package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/onlineshop/tvshop/internal/logging"
	"github.com/onlineshop/tvshop/internal/mykafka"
	"github.com/onlineshop/tvshop/internal/order"
)

type OrderHandler struct {
	Svc      *order.Service
	Producer *mykafka.Producer
}

// CheckoutForm returns the shipping form pre-populated from the profile.
func (h *OrderHandler) CheckoutForm(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	defaults, err := h.Svc.FormDefaults(c.Request().Context(), p.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, defaults)
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var form order.CheckoutForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	placed, err := h.Svc.Checkout(ctx, p.UserID, sessionKey(p.UserID), form)
	if err != nil {
		var fieldErrs order.FieldErrors
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			l.Warn("checkout_rejected", "reason", "empty cart", "user_id", p.UserID)
			return c.Redirect(http.StatusSeeOther, "/cart")
		case errors.As(err, &fieldErrs):
			l.Warn("checkout_rejected", "reason", "validation", "user_id", p.UserID)
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrs})
		case errors.Is(err, order.ErrNotFound):
			l.Warn("checkout_rejected", "reason", "item vanished", "user_id", p.UserID, "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			l.Error("checkout_failed", "user_id", p.UserID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	publishEvent(c, h.Producer, "order_events", placed.OrderID.String(), map[string]any{
		"type":     "order_placed",
		"user_id":  p.UserID,
		"order_id": placed.OrderID.String(),
	})
	l.Info("order_placed", "user_id", p.UserID, "order_id", placed.OrderID.String())

	c.Response().Header().Set("Location", "/order/success/"+placed.OrderID.String())
	return c.JSON(http.StatusCreated, placed)
}

func (h *OrderHandler) getByUUID(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	orderID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	placed, err := h.Svc.Get(c.Request().Context(), orderID, p)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, placed)
}

// Success is the confirmation view right after checkout.
func (h *OrderHandler) Success(c echo.Context) error { return h.getByUUID(c) }

// Detail is the order view from the order history.
func (h *OrderHandler) Detail(c echo.Context) error { return h.getByUUID(c) }

func (h *OrderHandler) List(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	orders, err := h.Svc.List(c.Request().Context(), p.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"data": orders, "total": len(orders)})
}
