package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"larsbees/pkg/middleware"
	"larsbees/pkg/report/service"
)

type ReportCtrl struct{ svc service.ReportService }

func New(svc service.ReportService) *ReportCtrl { return &ReportCtrl{svc} }

func (h *ReportCtrl) Data(c echo.Context) error {
	out, err := h.svc.Data(c.Request().Context(), middleware.UID(c), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportCtrl) Dashboard(c echo.Context) error {
	out, err := h.svc.Dashboard(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
