package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onlineshop/tvshop/internal/authz"
	"github.com/onlineshop/tvshop/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func principalClaims(user models.User) jwt.MapClaims {
	groups := make([]string, 0, len(user.Groups))
	for _, g := range user.Groups {
		groups = append(groups, g.Name)
	}
	return jwt.MapClaims{
		"sub":       user.ID,
		"username":  user.Username,
		"superuser": user.Superuser,
		"groups":    groups,
	}
}

func principalFromClaims(claims jwt.MapClaims) (authz.Principal, error) {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return authz.Principal{}, fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}
	p := authz.Principal{UserID: uint(sub)}
	if name, ok := claims["username"].(string); ok {
		p.Username = name
	}
	if su, ok := claims["superuser"].(bool); ok {
		p.Superuser = su
	}
	if raw, ok := claims["groups"].([]interface{}); ok {
		for _, g := range raw {
			if name, ok := g.(string); ok {
				p.Groups = append(p.Groups, name)
			}
		}
	}
	return p, nil
}

// IssueTokens signs an access/refresh pair for a freshly authenticated user
// and persists the refresh token so it can be revoked.
func (t *TokenService) IssueTokens(user models.User) (string, string, error) {
	accessClaims := principalClaims(user)
	accessClaims["exp"] = time.Now().Add(AccessTTL).Unix()
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(t.JWTSecret)
	if err != nil {
		return "", "", err
	}

	refreshExp := time.Now().Add(RefreshTTL)
	refreshClaims := principalClaims(user)
	refreshClaims["exp"] = refreshExp.Unix()
	refreshClaims["typ"] = "refresh"
	// jti keeps back-to-back logins from minting identical tokens,
	// which would collide on the unique column
	refreshClaims["jti"] = uuid.NewString()
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(t.RefreshSecret)
	if err != nil {
		return "", "", err
	}

	stored := models.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := t.DB.Create(&stored).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func parse(raw string, secret []byte) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse claims", ErrInvalidToken)
	}
	return claims, nil
}

// ParseAccess validates an access token and returns the principal it carries.
// jwt.ErrTokenExpired is passed through so callers can fall back to a rotate.
func (t *TokenService) ParseAccess(raw string) (authz.Principal, error) {
	claims, err := parse(raw, t.JWTSecret)
	if err != nil {
		return authz.Principal{}, err
	}
	return principalFromClaims(claims)
}

// Rotate exchanges a valid, unrevoked refresh token for a fresh pair.
func (t *TokenService) Rotate(rawRefresh string) (string, string, authz.Principal, error) {
	claims, err := parse(rawRefresh, t.RefreshSecret)
	if err != nil {
		return "", "", authz.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if typ, ok := claims["typ"].(string); !ok || typ != "refresh" {
		return "", "", authz.Principal{}, fmt.Errorf("%w: not a refresh token", ErrInvalidToken)
	}

	var stored models.RefreshToken
	if err := t.DB.Where("token = ?", rawRefresh).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", authz.Principal{}, fmt.Errorf("%w: unknown refresh token", ErrInvalidToken)
		}
		return "", "", authz.Principal{}, err
	}
	if stored.Revoked {
		return "", "", authz.Principal{}, fmt.Errorf("%w: refresh token revoked", ErrInvalidToken)
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return "", "", authz.Principal{}, fmt.Errorf("%w: refresh token expired", ErrInvalidToken)
	}

	// groups may have changed since login, re-read the user
	var user models.User
	if err := t.DB.Preload("Groups").First(&user, stored.UserID).Error; err != nil {
		return "", "", authz.Principal{}, err
	}

	if err := t.DB.Model(&stored).Update("revoked", true).Error; err != nil {
		return "", "", authz.Principal{}, err
	}

	access, refresh, err := t.IssueTokens(user)
	if err != nil {
		return "", "", authz.Principal{}, err
	}
	p, err := t.ParseAccess(access)
	if err != nil {
		return "", "", authz.Principal{}, err
	}
	return access, refresh, p, nil
}

// Revoke marks a refresh token as unusable (logout).
func (t *TokenService) Revoke(rawRefresh string) error {
	return t.DB.Model(&models.RefreshToken{}).
		Where("token = ?", rawRefresh).
		Update("revoked", true).Error
}
