package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"larsbees/entities"
	"larsbees/pkg/tasktype/repository"
)

type TaskTypeCtrl struct{ repo repository.TaskTypeRepository }

func New(repo repository.TaskTypeRepository) *TaskTypeCtrl { return &TaskTypeCtrl{repo} }

// List returns the catalog, optionally grouped by category with ?grouped=true.
func (h *TaskTypeCtrl) List(c echo.Context) error {
	list, err := h.repo.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	if c.QueryParam("grouped") != "true" {
		return c.JSON(http.StatusOK, list)
	}
	grouped := map[string][]entities.TaskType{}
	for _, tt := range list {
		grouped[tt.Category] = append(grouped[tt.Category], tt)
	}
	return c.JSON(http.StatusOK, grouped)
}
