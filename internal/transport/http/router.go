package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/onlineshop/tvshop/internal/authz"
	"github.com/onlineshop/tvshop/internal/handlers"
	mwauth "github.com/onlineshop/tvshop/internal/middleware/auth"
	"github.com/onlineshop/tvshop/internal/service/token"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	CatalogHandler *handlers.CatalogHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	StockHandler   *handlers.StockHandler
	ProfileHandler *handlers.ProfileHandler
	SearchHandler  *handlers.SearchHandler
	TokenSvc       *token.TokenService
	Policy         authz.Policy
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	login := mwauth.RequireLogin(d.TokenSvc)
	tvAdmin := mwauth.RequireCatalogAdmin(d.TokenSvc, d.Policy)
	stockAdmin := mwauth.RequireStockAdmin(d.TokenSvc, d.Policy)

	e.GET("/", d.CatalogHandler.Home)
	e.GET("/search", d.SearchHandler.Search)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout)
	e.POST("/password", d.AuthHandler.ChangePassword, login)

	e.GET("/profile", d.ProfileHandler.Get, login)
	e.PATCH("/profile", d.ProfileHandler.Update, login)

	e.GET("/tv/list", d.CatalogHandler.ListTelevisions)
	e.GET("/tv/:id", d.CatalogHandler.GetTelevision)
	e.POST("/tv/create", d.CatalogHandler.CreateTelevision, tvAdmin)
	e.PATCH("/tv/update/:id", d.CatalogHandler.UpdateTelevision, tvAdmin)
	e.DELETE("/tv/delete/:id", d.CatalogHandler.DeleteTelevision, tvAdmin)
	e.POST("/brand/create", d.CatalogHandler.CreateBrand, tvAdmin)
	e.GET("/mobile/list", d.CatalogHandler.ListMobilePhones)

	e.GET("/stock/:id", d.StockHandler.Get)
	e.POST("/stock/:id", d.StockHandler.Set, stockAdmin)

	e.GET("/cart", d.CartHandler.View, login)
	e.GET("/cart/add/:id", d.CartHandler.Add, login)
	e.POST("/cart/remove/:id", d.CartHandler.Remove, login)

	e.GET("/checkout", d.OrderHandler.CheckoutForm, login)
	e.POST("/checkout", d.OrderHandler.Checkout, login)
	e.GET("/orders", d.OrderHandler.List, login)
	e.GET("/order/success/:uuid", d.OrderHandler.Success, login)
	e.GET("/order/:uuid", d.OrderHandler.Detail, login)
}
