package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/onlineshop/tvshop/internal/authz"
	"github.com/onlineshop/tvshop/internal/cart"
	"github.com/onlineshop/tvshop/internal/catalog"
	"github.com/onlineshop/tvshop/internal/config"
	"github.com/onlineshop/tvshop/internal/es"
	"github.com/onlineshop/tvshop/internal/handlers"
	"github.com/onlineshop/tvshop/internal/logging"
	"github.com/onlineshop/tvshop/internal/middleware/csrf"
	"github.com/onlineshop/tvshop/internal/mykafka"
	"github.com/onlineshop/tvshop/internal/order"
	"github.com/onlineshop/tvshop/internal/session"
	"github.com/onlineshop/tvshop/internal/service/token"
	"github.com/onlineshop/tvshop/internal/stock"
	httpserver "github.com/onlineshop/tvshop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	store, err := session.NewRedisStore(configuration.REDIS_ADDR)
	if err != nil {
		log.Fatalf("session store init failed: %v", err)
	}

	brokers := []string{configuration.KAFKA_ADDRESS}
	topics := []string{"user_events", "catalog_events", "cart_events", "order_events"}
	prod, err := mykafka.NewProducer(brokers, topics)
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	tokenSvc := &token.TokenService{
		DB:            db,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}
	catalogSvc := &catalog.Service{DB: db}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(csrf.Middleware(csrf.Config{
		SkipPaths: []string{"/register", "/login", "/health/live", "/health/ready"},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{DB: db, TokenSvc: tokenSvc, Producer: prod},
		CatalogHandler: &handlers.CatalogHandler{DB: db, Svc: catalogSvc, Producer: prod},
		CartHandler:    &handlers.CartHandler{Svc: &cart.Service{DB: db, Store: store}, Producer: prod},
		OrderHandler:   &handlers.OrderHandler{Svc: &order.Service{DB: db, Store: store}, Producer: prod},
		StockHandler:   &handlers.StockHandler{Svc: &stock.Service{DB: db}, Producer: prod},
		ProfileHandler: &handlers.ProfileHandler{DB: db},
		SearchHandler:  &handlers.SearchHandler{ES: esClient, Index: "televisions"},
		TokenSvc:       tokenSvc,
		Policy:         authz.GroupPolicy{},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("session store close error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
