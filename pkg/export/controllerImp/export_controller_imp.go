package controllerImp

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"larsbees/pkg/export"
	"larsbees/pkg/export/service"
	"larsbees/pkg/middleware"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportCtrl struct {
	svc service.ExportService
	log *zap.Logger
}

func New(svc service.ExportService, log *zap.Logger) *ExportCtrl { return &ExportCtrl{svc: svc, log: log} }

// CSV serves /export/:entity where the param is e.g. "sites.csv".
func (h *ExportCtrl) CSV(c echo.Context) error {
	entity, ok := strings.CutSuffix(c.Param("entity"), ".csv")
	if !ok {
		return export.ErrUnknownEntity
	}
	t, err := h.svc.Table(c.Request().Context(), middleware.UID(c), entity)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, *t); err != nil {
		return err
	}
	attach(c, export.Filename(entity, "csv", time.Now()))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportCtrl) Workbook(c echo.Context) error {
	f, err := h.svc.Workbook(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			h.log.Warn("close workbook", zap.Error(err))
		}
	}()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}
	attach(c, export.Filename("workbook", "xlsx", time.Now()))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func attach(c echo.Context, name string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
}
