package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	actionCtrlImp "larsbees/pkg/action/controllerImp"
	adminCtrlImp "larsbees/pkg/admin/controllerImp"
	authCtrl "larsbees/pkg/auth/controller"
	calendarCtrlImp "larsbees/pkg/calendar/controllerImp"
	diseaseCtrlImp "larsbees/pkg/disease/controllerImp"
	exportCtrlImp "larsbees/pkg/export/controllerImp"
	healthCtrlImp "larsbees/pkg/health/controllerImp"
	hiveCtrlImp "larsbees/pkg/hive/controllerImp"
	"larsbees/pkg/metrics"
	"larsbees/pkg/middleware"
	reportCtrlImp "larsbees/pkg/report/controllerImp"
	scheduleCtrlImp "larsbees/pkg/schedule/controllerImp"
	siteCtrlImp "larsbees/pkg/site/controllerImp"
	taskTypeCtrlImp "larsbees/pkg/tasktype/controllerImp"
)

type Controllers struct {
	Auth     authCtrl.AuthController
	Sites    *siteCtrlImp.SiteCtrl
	Hives    *hiveCtrlImp.HiveCtrl
	Types    *taskTypeCtrlImp.TaskTypeCtrl
	Actions  *actionCtrlImp.ActionCtrl
	Disease  *diseaseCtrlImp.DiseaseCtrl
	Schedule *scheduleCtrlImp.ScheduleCtrl
	Feed     *calendarCtrlImp.FeedCtrl
	Reports  *reportCtrlImp.ReportCtrl
	Exports  *exportCtrlImp.ExportCtrl
	Admin    *adminCtrlImp.AdminCtrl
	Health   *healthCtrlImp.HealthCtrl
}

type Options struct {
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Session echo.MiddlewareFunc
	Debug   bool
}

func New(e *echo.Echo, h Controllers, o Options) *echo.Echo {
	e.HTTPErrorHandler = middleware.ErrorHandler(o.Log)
	e.Validator = middleware.NewValidator()

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())
	// metrics wraps the logger, which writes the error response first
	if o.Metrics != nil {
		e.Use(o.Metrics.Middleware())
		e.GET("/metrics", o.Metrics.Handler())
	}
	e.Use(middleware.RequestLogger(o.Log))

	// public
	e.GET("/health", h.Health.Health)
	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)
	e.POST("/auth/logout", h.Auth.Logout)
	e.GET("/calendar/:token/feed.ics", h.Feed.Feed)

	api := e.Group("", o.Session)
	api.GET("/auth/whoami", h.Auth.WhoAmI)
	api.GET("/dashboard", h.Reports.Dashboard)

	// sites + hives
	api.GET("/sites", h.Sites.List)
	api.POST("/sites", h.Sites.Create)
	api.GET("/sites/:id", h.Sites.Get)
	api.PUT("/sites/:id", h.Sites.Update)
	api.PATCH("/sites/:id", h.Sites.Patch)
	api.DELETE("/sites/:id", h.Sites.Delete)
	api.POST("/sites/:id/field-report", h.Sites.FieldReport)
	api.GET("/sites/:id/actions", h.Actions.ListBySite)
	api.GET("/sites/:id/hives", h.Hives.ListBySite)
	api.POST("/sites/:id/hives", h.Hives.Create)
	api.GET("/api/sites", h.Sites.MapData)
	api.GET("/api/sites/:id/hives", h.Hives.MapHives)
	api.GET("/hives/:id", h.Hives.Get)
	api.PUT("/hives/:id", h.Hives.Update)
	api.DELETE("/hives/:id", h.Hives.Delete)

	// actions + disease
	api.GET("/task-types", h.Types.List)
	api.GET("/actions", h.Actions.List)
	api.POST("/actions", h.Actions.Create)
	api.POST("/actions/quick", h.Actions.Quick)
	api.POST("/actions/:id/archive", h.Actions.Archive)
	api.POST("/actions/:id/unarchive", h.Actions.Unarchive)
	api.GET("/disease-reports", h.Disease.List)
	api.POST("/disease-reports", h.Disease.Create)
	api.GET("/disease-reports/:id", h.Disease.Get)
	api.PUT("/disease-reports/:id", h.Disease.Update)
	api.DELETE("/disease-reports/:id", h.Disease.Delete)

	// scheduler
	s := api.Group("/scheduler")
	s.GET("/templates", h.Schedule.ListTemplates)
	s.POST("/templates", h.Schedule.CreateTemplate)
	s.GET("/templates/:id", h.Schedule.GetTemplate)
	s.PUT("/templates/:id", h.Schedule.UpdateTemplate)
	s.DELETE("/templates/:id", h.Schedule.DeleteTemplate)
	s.GET("/suggestions", h.Schedule.Suggestions)
	s.GET("/tasks", h.Schedule.ListTasks)
	s.POST("/tasks", h.Schedule.CreateTask)
	s.GET("/tasks/:id", h.Schedule.GetTask)
	s.POST("/tasks/:id/start", h.Schedule.Start)
	s.POST("/tasks/:id/complete", h.Schedule.Complete)
	s.POST("/tasks/:id/cancel", h.Schedule.Cancel)
	s.GET("/tasks/:id/next", h.Schedule.Next)
	s.POST("/quick", h.Schedule.Quick)
	s.PATCH("/assignments/:id", h.Schedule.PatchAssignment)
	api.GET("/api/calendar", h.Schedule.Calendar)

	// reports + exports
	api.GET("/reports/data", h.Reports.Data)
	api.GET("/export/workbook.xlsx", h.Exports.Workbook)
	api.GET("/export/:entity", h.Exports.CSV)

	admin := api.Group("/admin", middleware.AdminOnly())
	admin.GET("/users", h.Admin.List)
	admin.POST("/users", h.Admin.Create)
	admin.GET("/users/:id", h.Admin.Get)
	admin.PUT("/users/:id", h.Admin.Update)
	admin.DELETE("/users/:id", h.Admin.Delete)

	if o.Debug {
		api.GET("/debug/db-info", h.Health.DBInfo)
	}
	return e
}
