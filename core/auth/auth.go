package auth

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"cavina.GO/config"
	authRepo "cavina.GO/model/repository/auth"
)

// Middleware returns the auth middleware based on AUTH_TYPE env var.
// Terminal paths and the graphql read side carry their own protection and
// are skipped here.
func Middleware(db *gorm.DB) echo.MiddlewareFunc {
	skipper := buildSkipper()
	authType := os.Getenv("AUTH_TYPE")
	switch authType {
	case "key":
		return keyAuth(skipper)
	case "token":
		return tokenAuth(authRepo.NewAuthRepository(db), skipper)
	default:
		return basicAuth(skipper)
	}
}

func buildSkipper() middleware.Skipper {
	skipPaths := config.GetAuthSkipperPaths()
	return func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
}

func basicAuth(skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			return username == os.Getenv("API_USER") && password == os.Getenv("API_PASS"), nil
		},
		Skipper: skipper,
	})
}

func keyAuth(skipper middleware.Skipper) echo.MiddlewareFunc {
	apiKey := os.Getenv("API_KEY")
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			return key == apiKey, nil
		},
		Skipper: skipper,
	})
}

func tokenAuth(repo *authRepo.AuthRepository, skipper middleware.Skipper) echo.MiddlewareFunc {
	staticKey := os.Getenv("API_KEY")
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(token string, c echo.Context) (bool, error) {
			if staticKey != "" && token == staticKey {
				c.Set("auth_type", "static")
				return true, nil
			}
			ok, err := repo.ValidateToken(token)
			if err != nil || !ok {
				return false, nil
			}
			c.Set("auth_type", "token")
			c.Set("auth_token", token)
			return true, nil
		},
		Skipper: skipper,
	})
}

// RequirePermission gates a route on a role permission, e.g. "stock.write".
// Static-key and basic-auth callers pass unconditionally; token callers must
// hold a role that grants the permission.
func RequirePermission(db *gorm.DB, permission string) echo.MiddlewareFunc {
	repo := authRepo.NewAuthRepository(db)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := c.Get("auth_token").(string)
			if token == "" {
				return next(c)
			}
			ok, err := repo.TokenHasPermission(token, permission)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "permission check failed")
			}
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "missing permission: "+permission)
			}
			return next(c)
		}
	}
}
