package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set for downstream handlers after a token is verified.
const (
	CtxUserID = "userID"
	CtxRol    = "rol"
	CtxNombre = "nombre"
)

// RequireRoles verifies the bearer token and gates the route to the given
// roles. With no roles listed any authenticated user passes.
func RequireRoles(secret []byte, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token not provided")
			}
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			rol, ok := claims["rol"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			if len(roles) > 0 && !contains(roles, rol) {
				return echo.NewHTTPError(http.StatusForbidden, "rol not allowed for this operation")
			}

			c.Set(CtxUserID, uint(sub))
			c.Set(CtxRol, rol)
			if nombre, ok := claims["nombre"].(string); ok {
				c.Set(CtxNombre, nombre)
			}
			return next(c)
		}
	}
}

func contains(roles []string, rol string) bool {
	for _, r := range roles {
		if r == rol {
			return true
		}
	}
	return false
}

// UserID returns the authenticated user id set by RequireRoles.
func UserID(c echo.Context) uint {
	if v, ok := c.Get(CtxUserID).(uint); ok {
		return v
	}
	return 0
}

// Rol returns the authenticated role set by RequireRoles.
func Rol(c echo.Context) string {
	if v, ok := c.Get(CtxRol).(string); ok {
		return v
	}
	return ""
}
