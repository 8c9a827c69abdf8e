package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"larsbees/entities"
)

var appStart = time.Now()

type HealthCtrl struct {
	db     *gorm.DB
	dbPath string
}

func NewHealthCtrl(db *gorm.DB, dbPath string) *HealthCtrl { return &HealthCtrl{db: db, dbPath: dbPath} }

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK, dbErr := true, ""
	sqlDB, err := h.db.DB()
	if err != nil {
		dbOK, dbErr = false, "db.DB(): "+err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbOK, dbErr = false, "ping: "+err.Error()
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}

	type sub struct {
		OK  bool   `json:"ok"`
		Err string `json:"err,omitempty"`
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": dbOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": sub{OK: dbOK, Err: dbErr},
		},
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// DBInfo reports row counts. Registered only in debug mode.
func (h *HealthCtrl) DBInfo(c echo.Context) error {
	db := h.db.WithContext(c.Request().Context())
	counts := map[string]int64{}
	for name, model := range map[string]any{
		"users":           &entities.User{},
		"sites":           &entities.Site{},
		"hives":           &entities.IndividualHive{},
		"actions":         &entities.HiveAction{},
		"task_types":      &entities.TaskType{},
		"disease_reports": &entities.DiseaseReport{},
		"task_templates":  &entities.TaskTemplate{},
		"scheduled_tasks": &entities.ScheduledTask{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			return err
		}
		counts[name] = n
	}
	return c.JSON(http.StatusOK, map[string]any{
		"database": h.dbPath,
		"counts":   counts,
	})
}
