package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	userRepo "larsbees/pkg/auth/repository"
	"larsbees/pkg/calendar"
	"larsbees/pkg/schedule/service"
)

// FeedCtrl serves the subscription feed. Calendar clients cannot hold a
// session, so the user is found by the token in the URL.
type FeedCtrl struct {
	users userRepo.UserRepository
	tasks service.ScheduleService
}

func New(users userRepo.UserRepository, tasks service.ScheduleService) *FeedCtrl {
	return &FeedCtrl{users: users, tasks: tasks}
}

func (h *FeedCtrl) Feed(c echo.Context) error {
	ctx := c.Request().Context()
	u, err := h.users.FindByCalendarToken(ctx, c.Param("token"))
	if err != nil {
		return err
	}
	tasks, err := h.tasks.Upcoming(ctx, u.UserID)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="BeeMarshall-Scheduled-Tasks.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.Feed(tasks, time.Now())))
}
