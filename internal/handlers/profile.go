package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/models"
)

type ProfileHandler struct {
	DB *gorm.DB
}

var profilePhoneRe = regexp.MustCompile(`^\+?\d+$`)

func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var profile models.Profile
	if err := h.DB.Where("user_id = ?", p.UserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		PhoneNumber string `json:"phone_number"`
		Address     string `json:"address"`
		City        string `json:"city"`
		Zipcode     string `json:"zipcode"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	// same phone rule as the checkout form
	if req.PhoneNumber != "" && (!profilePhoneRe.MatchString(req.PhoneNumber) || len(req.PhoneNumber) < 9) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": map[string]string{"phone_number": "invalid phone number format"},
		})
	}

	var profile models.Profile
	if err := h.DB.Where("user_id = ?", p.UserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile.FirstName = req.FirstName
	profile.LastName = req.LastName
	profile.PhoneNumber = req.PhoneNumber
	profile.Address = req.Address
	profile.City = req.City
	profile.Zipcode = req.Zipcode

	if err := h.DB.Save(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}
