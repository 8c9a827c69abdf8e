package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"larsbees/pkg/middleware"
	"larsbees/pkg/schedule/service"
)

type ScheduleCtrl struct{ svc service.ScheduleService }

func New(svc service.ScheduleService) *ScheduleCtrl { return &ScheduleCtrl{svc} }

/* ===== templates ===== */

func (h *ScheduleCtrl) ListTemplates(c echo.Context) error {
	out, err := h.svc.ListTemplates(c.Request().Context(), middleware.UID(c), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScheduleCtrl) CreateTemplate(c echo.Context) error {
	var req service.TemplateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t, err := h.svc.CreateTemplate(c.Request().Context(), middleware.UID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *ScheduleCtrl) GetTemplate(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.GetTemplate(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ScheduleCtrl) UpdateTemplate(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.TemplateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t, err := h.svc.UpdateTemplate(c.Request().Context(), middleware.UID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ScheduleCtrl) DeleteTemplate(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTemplate(c.Request().Context(), middleware.UID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ScheduleCtrl) Suggestions(c echo.Context) error {
	out, err := h.svc.Suggestions(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

/* ===== tasks ===== */

func (h *ScheduleCtrl) ListTasks(c echo.Context) error {
	q := service.TaskQuery{From: c.QueryParam("from"), To: c.QueryParam("to"), Status: c.QueryParam("status")}
	out, err := h.svc.ListTasks(c.Request().Context(), middleware.UID(c), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScheduleCtrl) CreateTask(c echo.Context) error {
	var req service.ScheduleInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t, err := h.svc.Schedule(c.Request().Context(), middleware.UID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *ScheduleCtrl) Quick(c echo.Context) error {
	var req service.QuickInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	out, err := h.svc.QuickSchedule(c.Request().Context(), middleware.UID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ScheduleCtrl) GetTask(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.GetTask(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ScheduleCtrl) Start(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.Start(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ScheduleCtrl) Complete(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.svc.Complete(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScheduleCtrl) Cancel(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.Cancel(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ScheduleCtrl) Next(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.svc.Next(c.Request().Context(), middleware.UID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScheduleCtrl) PatchAssignment(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.AssignmentPatch
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a, err := h.svc.PatchAssignment(c.Request().Context(), middleware.UID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Calendar serves the JSON items the calendar view reads.
func (h *ScheduleCtrl) Calendar(c echo.Context) error {
	out, err := h.svc.Calendar(c.Request().Context(), middleware.UID(c), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
