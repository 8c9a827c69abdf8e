package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larsbees/entities"
)

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSitesCSVLineCount(t *testing.T) {
	sites := []entities.Site{
		{SiteID: 1, Name: "North Field", Latitude: 40.7128, Longitude: -74.006, HiveCount: 5},
		{SiteID: 2, Name: "South Meadow", HiveCount: 8, Notes: "gate, code 1234"},
		{SiteID: 3, Name: "East Garden", HiveCount: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, SitesTable(sites)))

	assert.Equal(t, len(sites)+1, strings.Count(buf.String(), "\n"))
	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, len(sites)+1)
	for _, r := range rows {
		assert.Len(t, r, len(siteHeader))
	}
	assert.Equal(t, "North Field", rows[1][1])
	assert.Equal(t, "40.7128", rows[1][3])
	assert.Equal(t, "gate, code 1234", rows[2][20])
}

func TestActionsTableNullsAreEmpty(t *testing.T) {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	actions := []entities.HiveAction{{
		ActionID: 7, TaskName: "Varroa Treatment", Kind: entities.KindTreatment,
		ActionDate: at, Site: &entities.Site{Name: "North Field"},
	}}
	tbl := ActionsTable(actions)
	require.Len(t, tbl.Rows, 1)
	row := tbl.Rows[0]
	assert.Equal(t, "North Field", row[1])
	assert.Equal(t, "", row[2], "no hive")
	assert.Equal(t, "2025-03-01 00:00:00", row[6])
	assert.Equal(t, "", row[8], "user not loaded")
	assert.Equal(t, "", row[9], "zero created_at")
}

func TestComprehensiveTable(t *testing.T) {
	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC)
	sites := []entities.Site{{SiteID: 1, Name: "North Field", HiveCount: 5}, {SiteID: 2, Name: "Empty"}}
	hives := []entities.IndividualHive{{SiteID: 1}, {SiteID: 1}}
	actions := []entities.HiveAction{{SiteID: 1, ActionDate: d2}, {SiteID: 1, ActionDate: d1}}
	reports := []entities.DiseaseReport{{SiteID: 1, VarroaCount: 4, AFBCount: 1}}

	tbl := ComprehensiveTable(sites, hives, actions, reports)

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"North Field", "0", "0", "5", "2", "", "No", "2", "2025-04-02 08:30:00", "1", "5"}, tbl.Rows[0])
	assert.Equal(t, "", tbl.Rows[1][8], "no actions")
	assert.Equal(t, "0", tbl.Rows[1][7])
}

func TestWorkbookSheets(t *testing.T) {
	f, err := Workbook(
		SitesTable([]entities.Site{{SiteID: 1, Name: "North Field"}}),
		HivesTable(nil),
	)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{Sites, Hives}, f.GetSheetList())
	v, err := f.GetCellValue(Sites, "B2")
	require.NoError(t, err)
	assert.Equal(t, "North Field", v)
	h, err := f.GetCellValue(Hives, "C1")
	require.NoError(t, err)
	assert.Equal(t, "Hive Number", h)
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "actions_export_20250301_140509.csv", Filename(Actions, "csv", now))
}
