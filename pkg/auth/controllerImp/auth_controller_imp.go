package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"larsbees/pkg/auth/controller"
	"larsbees/pkg/auth/service"
	"larsbees/pkg/middleware"
)

type authCtrl struct {
	svc          service.AuthService
	log          *zap.Logger
	secureCookie bool
}

func NewAuthController(svc service.AuthService, log *zap.Logger, secureCookie bool) controller.AuthController {
	return &authCtrl{svc: svc, log: log, secureCookie: secureCookie}
}

func (h *authCtrl) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	u, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	h.log.Info("user registered", zap.Uint("uid", u.UserID), zap.String("username", u.Username))
	return c.JSON(http.StatusCreated, u)
}

func (h *authCtrl) Login(c echo.Context) error {
	var req service.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sess, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		h.log.Warn("login failed", zap.String("username", req.Username), zap.Error(err))
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, sess)
}

func (h *authCtrl) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "You have been logged out."})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	u := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, map[string]any{
		"user":          u,
		"full_name":     u.FullName(),
		"calendar_feed": "/calendar/" + u.CalendarToken + "/feed.ics",
	})
}
