package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onlineshop/tvshop/internal/authz"
	"github.com/onlineshop/tvshop/internal/logging"
	mwauth "github.com/onlineshop/tvshop/internal/middleware/auth"
	"github.com/onlineshop/tvshop/internal/mykafka"
)

func requirePrincipal(c echo.Context) (authz.Principal, error) {
	p, ok := mwauth.Principal(c)
	if !ok {
		return authz.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return p, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// publishEvent is fire-and-forget: a broker outage must not fail the request.
func publishEvent(c echo.Context, producer *mykafka.Producer, topic, key string, event map[string]any) {
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "topic", topic, "error", err)
	}
}
