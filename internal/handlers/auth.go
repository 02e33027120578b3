package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/hash"
	mwauth "github.com/onlineshop/tvshop/internal/middleware/auth"
	"github.com/onlineshop/tvshop/internal/models"
	"github.com/onlineshop/tvshop/internal/mykafka"
	"github.com/onlineshop/tvshop/internal/service/token"
)

type AuthHandler struct {
	DB       *gorm.DB
	TokenSvc *token.TokenService
	Producer *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password required")
	}

	var existing models.User
	err := h.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// empty profile so checkout pre-population has a row to read
	profile := models.Profile{UserID: user.ID}
	if err := h.DB.Create(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.Producer, "user_events", user.Username, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
	})
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.Preload("Groups").Where("username = ?", req.Username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	access, refresh, err := h.TokenSvc.IssueTokens(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(mwauth.CreateCookie("accessToken", access, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(mwauth.CreateCookie("refreshToken", refresh, "/", time.Now().Add(token.RefreshTTL)))

	publishEvent(c, h.Producer, "user_events", user.Username, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new password required")
	}

	var user models.User
	if err := h.DB.First(&user, p.UserID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !hash.CheckPassword(user.PasswordHash, req.OldPassword) {
		return echo.NewHTTPError(http.StatusForbidden, "wrong password")
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&user).Update("password_hash", pwHash).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// cut off every other session of this user
	if err := h.DB.Model(&models.RefreshToken{}).
		Where("user_id = ?", user.ID).
		Update("revoked", true).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.Producer, "user_events", user.Username, map[string]any{
		"type":    "password_changed",
		"user_id": user.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err == nil && refreshCookie.Value != "" {
		if err := h.TokenSvc.Revoke(refreshCookie.Value); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(mwauth.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(mwauth.CreateCookie("refreshToken", "", "/", expired))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
