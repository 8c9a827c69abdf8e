package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"larsbees/pkg/middleware"
	"larsbees/pkg/site/service"
)

type SiteCtrl struct{ svc service.SiteService }

func New(svc service.SiteService) *SiteCtrl { return &SiteCtrl{svc} }

func (h *SiteCtrl) Create(c echo.Context) error {
	var req service.SiteInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.svc.Create(c.Request().Context(), middleware.UID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SiteCtrl) List(c echo.Context) error {
	out, err := h.svc.List(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SiteCtrl) Get(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.svc.Get(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SiteCtrl) Update(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.SiteInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.svc.Update(c.Request().Context(), middleware.UID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SiteCtrl) Patch(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.SitePatch
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.svc.Patch(c.Request().Context(), middleware.UID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SiteCtrl) Delete(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), middleware.UID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SiteCtrl) FieldReport(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.FieldReportInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	out, err := h.svc.FieldReport(c.Request().Context(), middleware.UID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SiteCtrl) MapData(c echo.Context) error {
	out, err := h.svc.MapData(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
