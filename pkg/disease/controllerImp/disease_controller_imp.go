package controllerImp

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/dates"
	"larsbees/pkg/disease/repository"
	"larsbees/pkg/middleware"
)

type DiseaseCtrl struct {
	repo  repository.DiseaseRepository
	guard *access.Guard
}

func New(repo repository.DiseaseRepository, guard *access.Guard) *DiseaseCtrl {
	return &DiseaseCtrl{repo: repo, guard: guard}
}

type reportReq struct {
	SiteID          uint   `json:"site_id" validate:"required"`
	AFBCount        int    `json:"afb_count" validate:"gte=0"`
	VarroaCount     int    `json:"varroa_count" validate:"gte=0"`
	ChalkbroodCount int    `json:"chalkbrood_count" validate:"gte=0"`
	SacbroodCount   int    `json:"sacbrood_count" validate:"gte=0"`
	DWVCount        int    `json:"dwv_count" validate:"gte=0"`
	ReportDate      string `json:"report_date"`
	Notes           string `json:"notes"`
}

func (h *DiseaseCtrl) bind(c echo.Context) (*reportReq, time.Time, error) {
	var req reportReq
	if err := c.Bind(&req); err != nil {
		return nil, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "bad json")
	}
	if err := c.Validate(&req); err != nil {
		return nil, time.Time{}, err
	}
	if _, err := h.guard.Site(c.Request().Context(), middleware.UID(c), req.SiteID); err != nil {
		return nil, time.Time{}, err
	}
	at := time.Now().UTC()
	if strings.TrimSpace(req.ReportDate) != "" {
		t, err := dates.Parse(req.ReportDate)
		if err != nil {
			return nil, time.Time{}, err
		}
		at = t
	}
	return &req, at, nil
}

func (r *reportReq) apply(d *entities.DiseaseReport, at time.Time) {
	d.SiteID = r.SiteID
	d.AFBCount = r.AFBCount
	d.VarroaCount = r.VarroaCount
	d.ChalkbroodCount = r.ChalkbroodCount
	d.SacbroodCount = r.SacbroodCount
	d.DWVCount = r.DWVCount
	d.ReportDate = at
	d.Notes = r.Notes
}

func (h *DiseaseCtrl) Create(c echo.Context) error {
	req, at, err := h.bind(c)
	if err != nil {
		return err
	}
	d := &entities.DiseaseReport{UserID: middleware.UID(c)}
	req.apply(d, at)
	if err := h.repo.Create(c.Request().Context(), d); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DiseaseCtrl) List(c echo.Context) error {
	from, to, err := dates.Range(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return err
	}
	f := repository.ListFilter{From: from, To: to}
	if v := c.QueryParam("site_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid site_id"})
		}
		sid := uint(id)
		f.SiteID = &sid
	}
	out, err := h.repo.List(c.Request().Context(), middleware.UID(c), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiseaseCtrl) Get(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.guard.DiseaseReport(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DiseaseCtrl) Update(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.guard.DiseaseReport(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	req, at, err := h.bind(c)
	if err != nil {
		return err
	}
	req.apply(d, at)
	d.Site = nil
	if err := h.repo.Update(c.Request().Context(), d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DiseaseCtrl) Delete(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.guard.DiseaseReport(c.Request().Context(), middleware.UID(c), id); err != nil {
		return err
	}
	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
