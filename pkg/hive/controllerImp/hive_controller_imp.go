package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/hive/repository"
	"larsbees/pkg/middleware"
)

type HiveCtrl struct {
	repo  repository.HiveRepository
	guard *access.Guard
}

func New(repo repository.HiveRepository, guard *access.Guard) *HiveCtrl {
	return &HiveCtrl{repo: repo, guard: guard}
}

type hiveReq struct {
	HiveNumber   string `json:"hive_number" validate:"required,max=50"`
	Status       string `json:"status" validate:"omitempty,oneof=healthy infected quarantine weak queenless dead"`
	HiveStrength string `json:"hive_strength" validate:"omitempty,oneof=strong medium weak nuc"`
	Notes        string `json:"notes"`
}

func (r hiveReq) apply(h *entities.IndividualHive) {
	h.HiveNumber = strings.TrimSpace(r.HiveNumber)
	h.Status = r.Status
	if h.Status == "" {
		h.Status = "healthy"
	}
	h.HiveStrength = r.HiveStrength
	if h.HiveStrength == "" {
		h.HiveStrength = "medium"
	}
	h.Notes = r.Notes
}

func bindHive(c echo.Context) (*hiveReq, error) {
	var req hiveReq
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "bad json")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *HiveCtrl) Create(c echo.Context) error {
	siteID, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.guard.Site(c.Request().Context(), middleware.UID(c), siteID); err != nil {
		return err
	}
	req, err := bindHive(c)
	if err != nil {
		return err
	}
	hv := &entities.IndividualHive{SiteID: siteID, IsActive: true}
	req.apply(hv)
	if err := h.repo.Create(c.Request().Context(), hv); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, hv)
}

func (h *HiveCtrl) ListBySite(c echo.Context) error {
	siteID, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.guard.Site(c.Request().Context(), middleware.UID(c), siteID); err != nil {
		return err
	}
	out, err := h.repo.ListBySite(c.Request().Context(), siteID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// MapHives is the compact hive list the map popup loads.
func (h *HiveCtrl) MapHives(c echo.Context) error {
	siteID, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.guard.Site(c.Request().Context(), middleware.UID(c), siteID); err != nil {
		return err
	}
	list, err := h.repo.ListBySite(c.Request().Context(), siteID)
	if err != nil {
		return err
	}
	type item struct {
		ID         uint   `json:"id"`
		HiveNumber string `json:"hive_number"`
		Status     string `json:"status"`
		Notes      string `json:"notes"`
	}
	out := make([]item, 0, len(list))
	for _, hv := range list {
		out = append(out, item{ID: hv.HiveID, HiveNumber: hv.HiveNumber, Status: hv.Status, Notes: hv.Notes})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *HiveCtrl) Get(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	hv, err := h.guard.Hive(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hv)
}

func (h *HiveCtrl) Update(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	hv, err := h.guard.Hive(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	req, err := bindHive(c)
	if err != nil {
		return err
	}
	req.apply(hv)
	hv.Site = nil
	if err := h.repo.Update(c.Request().Context(), hv); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hv)
}

func (h *HiveCtrl) Delete(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.guard.Hive(c.Request().Context(), middleware.UID(c), id); err != nil {
		return err
	}
	if err := h.repo.Deactivate(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
