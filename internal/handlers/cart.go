package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/onlineshop/tvshop/internal/cart"
	"github.com/onlineshop/tvshop/internal/logging"
	"github.com/onlineshop/tvshop/internal/mykafka"
)

type CartHandler struct {
	Svc      *cart.Service
	Producer *mykafka.Producer
}

// sessionKey scopes the cart to the authenticated user.
func sessionKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func (h *CartHandler) Add(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	tvID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	updated, err := h.Svc.Add(ctx, sessionKey(p.UserID), tvID)
	switch {
	case err == nil:
	case errors.Is(err, cart.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrOutOfStock), errors.Is(err, cart.ErrCapacityExceeded):
		// user-correctable: the cart is unchanged, the message says why
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.Producer, "cart_events", sessionKey(p.UserID), map[string]any{
		"type":          "item_added",
		"user_id":       p.UserID,
		"television_id": tvID,
	})
	logging.FromContext(ctx).Info("cart_item_added", "user_id", p.UserID, "television_id", tvID)
	return c.JSON(http.StatusOK, updated)
}

func (h *CartHandler) Remove(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	tvID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	updated, err := h.Svc.Remove(c.Request().Context(), sessionKey(p.UserID), tvID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.Producer, "cart_events", sessionKey(p.UserID), map[string]any{
		"type":          "item_removed",
		"user_id":       p.UserID,
		"television_id": tvID,
	})
	return c.JSON(http.StatusOK, updated)
}

func (h *CartHandler) View(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.ViewCart(c.Request().Context(), sessionKey(p.UserID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}
