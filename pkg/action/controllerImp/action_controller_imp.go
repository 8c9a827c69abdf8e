package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"larsbees/pkg/action/service"
	"larsbees/pkg/middleware"
)

type ActionCtrl struct{ svc service.ActionService }

func New(svc service.ActionService) *ActionCtrl { return &ActionCtrl{svc} }

func (h *ActionCtrl) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	archived := c.QueryParam("archived") == "true"
	out, err := h.svc.List(c.Request().Context(), middleware.UID(c), page, archived)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ActionCtrl) Create(c echo.Context) error {
	var req service.LogInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a, err := h.svc.Log(c.Request().Context(), middleware.UID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Quick answers in the {success, message} shape the quick-log buttons expect.
func (h *ActionCtrl) Quick(c echo.Context) error {
	var req service.QuickLogInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Missing required fields"})
	}
	out, err := h.svc.QuickLog(c.Request().Context(), middleware.UID(c), req)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": "Missing required fields"})
	case err != nil:
		status, msg := middleware.StatusOf(err)
		if status == http.StatusNotFound {
			msg = "Invalid site"
		}
		return c.JSON(status, map[string]any{"success": false, "message": msg})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ActionCtrl) Archive(c echo.Context) error   { return h.setArchived(c, true) }
func (h *ActionCtrl) Unarchive(c echo.Context) error { return h.setArchived(c, false) }

func (h *ActionCtrl) setArchived(c echo.Context, archived bool) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.SetArchived(c.Request().Context(), middleware.UID(c), id, archived); err != nil {
		return err
	}
	msg := "Action archived"
	if !archived {
		msg = "Action unarchived"
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (h *ActionCtrl) ListBySite(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.svc.ListBySite(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
