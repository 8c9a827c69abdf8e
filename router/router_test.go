package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/metrics"
	"larsbees/pkg/middleware"
	"larsbees/pkg/testutil"

	actionCtrlImp "larsbees/pkg/action/controllerImp"
	actionRepoImp "larsbees/pkg/action/repositoryImp"
	actionSvcImp "larsbees/pkg/action/serviceImp"
	adminCtrlImp "larsbees/pkg/admin/controllerImp"
	adminSvcImp "larsbees/pkg/admin/serviceImp"
	authCtrlImp "larsbees/pkg/auth/controllerImp"
	authRepoImp "larsbees/pkg/auth/repositoryImp"
	authSvcImp "larsbees/pkg/auth/serviceImp"
	calendarCtrlImp "larsbees/pkg/calendar/controllerImp"
	diseaseCtrlImp "larsbees/pkg/disease/controllerImp"
	diseaseRepoImp "larsbees/pkg/disease/repositoryImp"
	exportCtrlImp "larsbees/pkg/export/controllerImp"
	exportSvcImp "larsbees/pkg/export/serviceImp"
	healthCtrlImp "larsbees/pkg/health/controllerImp"
	hiveCtrlImp "larsbees/pkg/hive/controllerImp"
	hiveRepoImp "larsbees/pkg/hive/repositoryImp"
	reportCtrlImp "larsbees/pkg/report/controllerImp"
	reportSvcImp "larsbees/pkg/report/serviceImp"
	scheduleCtrlImp "larsbees/pkg/schedule/controllerImp"
	scheduleSvcImp "larsbees/pkg/schedule/serviceImp"
	siteCtrlImp "larsbees/pkg/site/controllerImp"
	siteSvcImp "larsbees/pkg/site/serviceImp"
	taskTypeCtrlImp "larsbees/pkg/tasktype/controllerImp"
	taskTypeRepoImp "larsbees/pkg/tasktype/repositoryImp"
)

func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	m := metrics.New()
	guard := access.NewGuard(db)
	users := authRepoImp.New(db)
	authSvc := authSvcImp.New(users, "test-secret", time.Hour, 24*time.Hour)
	types := taskTypeRepoImp.New(db)
	sched := scheduleSvcImp.New(db, guard, m, log)

	e := echo.New()
	New(e, Controllers{
		Auth:     authCtrlImp.NewAuthController(authSvc, log, false),
		Sites:    siteCtrlImp.New(siteSvcImp.New(db, guard, m, log)),
		Hives:    hiveCtrlImp.New(hiveRepoImp.New(db), guard),
		Types:    taskTypeCtrlImp.New(types),
		Actions:  actionCtrlImp.New(actionSvcImp.New(actionRepoImp.New(db), types, guard, 50, m, log)),
		Disease:  diseaseCtrlImp.New(diseaseRepoImp.New(db), guard),
		Schedule: scheduleCtrlImp.New(sched),
		Feed:     calendarCtrlImp.New(users, sched),
		Reports:  reportCtrlImp.New(reportSvcImp.New(db)),
		Exports:  exportCtrlImp.New(exportSvcImp.New(db, m), log),
		Admin:    adminCtrlImp.New(adminSvcImp.New(users, authSvc, log)),
		Health:   healthCtrlImp.NewHealthCtrl(db, "test.db"),
	}, Options{Log: log, Metrics: m, Session: middleware.Session(authSvc, users)})
	return e, db
}

type client struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: c.token})
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// signUp registers and logs in a user and returns a client holding its cookie.
func signUp(t *testing.T, e *echo.Echo, name string) *client {
	t.Helper()
	c := &client{t: t, e: e}
	rec := c.do(http.MethodPost, "/auth/register", map[string]string{
		"username": name, "email": name + "@example.com", "password": "hunter22", "password2": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return login(t, e, name, "hunter22")
}

func login(t *testing.T, e *echo.Echo, name, password string) *client {
	t.Helper()
	c := &client{t: t, e: e}
	rec := c.do(http.MethodPost, "/auth/login", map[string]string{"username": name, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			c.token = ck.Value
		}
	}
	require.NotEmpty(t, c.token)
	return c
}

func TestPublicRoutes(t *testing.T) {
	e, _ := newServer(t)
	anon := &client{t: t, e: e}

	rec := anon.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = anon.do(http.MethodGet, "/sites", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"login required"}`, rec.Body.String())

	rec = anon.do(http.MethodPost, "/auth/login", map[string]string{"username": "ghost", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = anon.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "larsbees_http_requests_total")
}

func TestSitesAreIsolatedPerUser(t *testing.T) {
	e, _ := newServer(t)
	alice := signUp(t, e, "alice")
	bob := signUp(t, e, "bob")

	rec := alice.do(http.MethodPost, "/sites", map[string]any{"name": "North Field", "latitude": 40.7128, "longitude": -74.006, "hive_count": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	site := decode[entities.Site](t, rec)

	rec = alice.do(http.MethodPost, "/sites", map[string]any{"latitude": 12})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "Name")

	path := fmt.Sprintf("/sites/%d", site.SiteID)
	assert.Equal(t, http.StatusOK, alice.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, path, nil).Code)

	rec = bob.do(http.MethodGet, "/sites", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]entities.Site](t, rec))

	rec = bob.do(http.MethodPost, "/actions", map[string]any{"site_id": site.SiteID, "custom_task_name": "peek"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodGet, "/sites/abc", nil).Code)
}

func TestScheduleCompleteOverHTTP(t *testing.T) {
	e, db := newServer(t)
	alice := signUp(t, e, "alice")
	rec := alice.do(http.MethodPost, "/sites", map[string]any{"name": "North Field"})
	require.Equal(t, http.StatusCreated, rec.Code)
	site := decode[entities.Site](t, rec)
	tpl := testutil.SystemTemplate(t, db, "General Inspection")

	start := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	rec = alice.do(http.MethodPost, "/scheduler/tasks", map[string]any{
		"template_id": tpl.TemplateID, "scheduled_date": start,
		"is_recurring": true, "recurrence_pattern": "weekly", "site_ids": []uint{site.SiteID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[map[string]any](t, rec)
	id := uint(task["task_id"].(float64))

	rec = alice.do(http.MethodPost, fmt.Sprintf("/scheduler/tasks/%d/complete", id), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]map[string]any](t, rec)
	assert.Equal(t, "completed", res["task"]["status"])
	require.NotNil(t, res["next_task"])
	assert.EqualValues(t, id, res["next_task"]["parent_task_id"])

	rec = alice.do(http.MethodPost, fmt.Sprintf("/scheduler/tasks/%d/complete", id), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	bob := signUp(t, e, "bob")
	rec = bob.do(http.MethodPost, "/scheduler/tasks", map[string]any{
		"template_id": tpl.TemplateID, "scheduled_date": start, "site_ids": []uint{site.SiteID},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarFeed(t *testing.T) {
	e, db := newServer(t)
	alice := signUp(t, e, "alice")
	tpl := testutil.SystemTemplate(t, db, "Harvest Honey")
	rec := alice.do(http.MethodPost, "/scheduler/tasks", map[string]any{
		"template_id": tpl.TemplateID, "scheduled_date": time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = alice.do(http.MethodGet, "/auth/whoami", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[map[string]any](t, rec)["calendar_feed"].(string)

	anon := &client{t: t, e: e}
	rec = anon.do(http.MethodGet, feed, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/calendar"))
	assert.Contains(t, rec.Body.String(), "SUMMARY:Harvest Honey")

	rec = anon.do(http.MethodGet, "/calendar/not-a-token/feed.ics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCSV(t *testing.T) {
	e, _ := newServer(t)
	alice := signUp(t, e, "alice")
	for _, name := range []string{"North Field", "South Meadow"} {
		require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/sites", map[string]any{"name": name}).Code)
	}

	rec := alice.do(http.MethodGet, "/export/sites.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv"))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "sites_export_")
	assert.Equal(t, 3, strings.Count(rec.Body.String(), "\n"))

	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, "/export/passwords.csv", nil).Code)

	rec = alice.do(http.MethodGet, "/export/workbook.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestAdminRoutes(t *testing.T) {
	e, db := newServer(t)
	staff := signUp(t, e, "worker")
	assert.Equal(t, http.StatusForbidden, staff.do(http.MethodGet, "/admin/users", nil).Code)

	var boss entities.User
	require.NoError(t, db.Where("username = ?", "worker").First(&boss).Error)
	require.NoError(t, db.Model(&boss).Updates(map[string]any{"is_admin": true, "can_manage_users": true}).Error)
	rec := staff.do(http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = staff.do(http.MethodDelete, fmt.Sprintf("/admin/users/%d", boss.UserID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiseaseReportsAreIsolatedPerUser(t *testing.T) {
	e, _ := newServer(t)
	alice := signUp(t, e, "alice")
	bob := signUp(t, e, "bob")

	rec := alice.do(http.MethodPost, "/sites", map[string]any{"name": "North Field"})
	require.Equal(t, http.StatusCreated, rec.Code)
	site := decode[entities.Site](t, rec)
	rec = bob.do(http.MethodPost, "/sites", map[string]any{"name": "Bob's Yard"})
	require.Equal(t, http.StatusCreated, rec.Code)
	bobSite := decode[entities.Site](t, rec)

	var reports []entities.DiseaseReport
	for _, day := range []string{"2025-03-01", "2025-04-15", "2025-05-30"} {
		rec = alice.do(http.MethodPost, "/disease-reports", map[string]any{"site_id": site.SiteID, "varroa_count": 2, "report_date": day})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		reports = append(reports, decode[entities.DiseaseReport](t, rec))
	}

	rec = alice.do(http.MethodGet, "/disease-reports?from=2025-04-01&to=2025-05-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inWindow := decode[[]entities.DiseaseReport](t, rec)
	require.Len(t, inWindow, 2)
	assert.Equal(t, reports[2].ReportID, inWindow[0].ReportID)
	assert.Equal(t, reports[1].ReportID, inWindow[1].ReportID)
	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodGet, "/disease-reports?from=someday", nil).Code)

	path := fmt.Sprintf("/disease-reports/%d", reports[0].ReportID)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, path, nil).Code)
	rec = bob.do(http.MethodPut, path, map[string]any{"site_id": bobSite.SiteID, "afb_count": 9})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, path, nil).Code)
	rec = bob.do(http.MethodPost, "/disease-reports", map[string]any{"site_id": site.SiteID, "afb_count": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = bob.do(http.MethodGet, "/disease-reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]entities.DiseaseReport](t, rec))

	rec = alice.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[entities.DiseaseReport](t, rec)
	assert.Equal(t, 0, got.AFBCount)
	assert.Equal(t, 2, got.VarroaCount)

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, path, nil).Code)
}

func TestActionsAreIsolatedPerUser(t *testing.T) {
	e, db := newServer(t)
	alice := signUp(t, e, "alice")
	bob := signUp(t, e, "bob")

	rec := alice.do(http.MethodPost, "/sites", map[string]any{"name": "North Field"})
	require.Equal(t, http.StatusCreated, rec.Code)
	site := decode[entities.Site](t, rec)
	rec = alice.do(http.MethodPost, "/actions", map[string]any{"site_id": site.SiteID, "custom_task_name": "Moved hive stand"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	action := decode[entities.HiveAction](t, rec)

	archive := fmt.Sprintf("/actions/%d/archive", action.ActionID)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodPost, archive, nil).Code)
	var stored entities.HiveAction
	require.NoError(t, db.First(&stored, action.ActionID).Error)
	assert.False(t, stored.IsArchived)
	assert.Equal(t, http.StatusOK, alice.do(http.MethodPost, archive, nil).Code)

	insp := testutil.TaskType(t, db, "General Inspection")
	rec = bob.do(http.MethodPost, "/actions/quick", map[string]any{"task_ids": []uint{insp.TaskTypeID}, "site_id": site.SiteID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["success"])

	rec = bob.do(http.MethodGet, fmt.Sprintf("/sites/%d/actions", site.SiteID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHivesAreIsolatedPerUser(t *testing.T) {
	e, _ := newServer(t)
	alice := signUp(t, e, "alice")
	bob := signUp(t, e, "bob")

	rec := alice.do(http.MethodPost, "/sites", map[string]any{"name": "North Field"})
	require.Equal(t, http.StatusCreated, rec.Code)
	site := decode[entities.Site](t, rec)
	hives := fmt.Sprintf("/sites/%d/hives", site.SiteID)

	rec = alice.do(http.MethodPost, hives, map[string]any{"hive_number": "H-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	hive := decode[entities.IndividualHive](t, rec)
	assert.Equal(t, "healthy", hive.Status)
	assert.Equal(t, "medium", hive.HiveStrength)

	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodPost, hives, map[string]any{"hive_number": "H-2", "status": "sleepy"}).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodPost, hives, map[string]any{"hive_number": "B-1"}).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, hives, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, fmt.Sprintf("/api/sites/%d/hives", site.SiteID), nil).Code)

	path := fmt.Sprintf("/hives/%d", hive.HiveID)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodPut, path, map[string]any{"hive_number": "stolen"}).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, path, nil).Code)

	rec = alice.do(http.MethodPut, path, map[string]any{"hive_number": "H-1", "status": "queenless", "hive_strength": "weak"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "queenless", decode[entities.IndividualHive](t, rec).Status)

	rec = alice.do(http.MethodGet, fmt.Sprintf("/api/sites/%d/hives", site.SiteID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, path, nil).Code)
	rec = alice.do(http.MethodGet, hives, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]entities.IndividualHive](t, rec))
}
