package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"larsbees/entities"
)

const SessionCookie = "larsbees_session"

type TokenParser interface {
	ParseToken(raw string) (uint, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*entities.User, error)
}

// Session reads the session token from the Authorization header or the
// session cookie, loads the user and stores it on the context as "uid" and
// "user". Requests without a valid session get 401.
func Session(tokens TokenParser, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				if ck, err := c.Cookie(SessionCookie); err == nil {
					raw = ck.Value
				}
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "login required"})
			}
			uid, err := tokens.ParseToken(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session"})
			}
			u, err := users.FindByID(c.Request().Context(), uid)
			if err != nil || !u.IsActive {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session"})
			}
			c.Set("uid", u.UserID)
			c.Set("user", u)
			return next(c)
		}
	}
}

// AdminOnly must run after Session.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil || !u.CanEditUsers() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

func UID(c echo.Context) uint {
	uid, _ := c.Get("uid").(uint)
	return uid
}

func CurrentUser(c echo.Context) *entities.User {
	u, _ := c.Get("user").(*entities.User)
	return u
}

func bearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// ParamID parses a positive numeric path parameter.
func ParamID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
