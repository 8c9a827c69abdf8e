// Package export renders the user's records as CSV files and as one XLSX
// workbook. Every table has a fixed header; missing values are empty cells.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"larsbees/entities"
	"larsbees/pkg/apperr"
	"larsbees/pkg/dates"
)

var ErrUnknownEntity = fmt.Errorf("%w: unknown export", apperr.ErrNotFound)

const (
	Sites          = "sites"
	Actions        = "actions"
	DiseaseReports = "disease-reports"
	Hives          = "hives"
	Comprehensive  = "comprehensive"
)

type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

var (
	siteHeader = []string{
		"ID", "Site Name", "Description", "Latitude", "Longitude", "Hive Count",
		"Harvest Timeline", "Sugar Requirements", "Functional Classification",
		"Seasonal Classification", "Access Type", "Contact Before Visit", "Quarantine",
		"Site Strength", "Strong Hives", "Medium Hives", "Weak Hives",
		"Landowner Name", "Landowner Phone", "Landowner Email", "Notes", "Created At",
	}
	actionHeader = []string{
		"ID", "Site Name", "Hive Number", "Task Name", "Kind", "Description",
		"Action Date", "Archived", "Logged By", "Created At",
	}
	diseaseHeader = []string{
		"ID", "Site Name", "Report Date", "AFB", "Varroa", "Chalkbrood", "Sacbrood", "DWV",
		"Total", "Notes",
	}
	hiveHeader = []string{
		"ID", "Site Name", "Hive Number", "Status", "Strength", "Notes", "Created At",
	}
	comprehensiveHeader = []string{
		"Site Name", "Latitude", "Longitude", "Hive Count", "Individual Hives",
		"Site Strength", "Quarantine", "Total Actions", "Last Action Date",
		"Disease Reports", "Disease Observations",
	}
)

func SitesTable(sites []entities.Site) Table {
	t := Table{Name: Sites, Header: siteHeader}
	for _, s := range sites {
		t.Rows = append(t.Rows, []string{
			id(s.SiteID), s.Name, s.Description, float(s.Latitude), float(s.Longitude),
			strconv.Itoa(s.HiveCount), s.HarvestTimeline, s.SugarRequirements,
			s.FunctionalClassification, s.SeasonalClassification, s.AccessType,
			yesNo(s.ContactBeforeVisit), yesNo(s.IsQuarantine), s.SiteStrength,
			strconv.Itoa(s.StrongHives), strconv.Itoa(s.MediumHives), strconv.Itoa(s.WeakHives),
			s.LandownerName, s.LandownerPhone, s.LandownerEmail, s.Notes, dates.Format(&s.CreatedAt),
		})
	}
	return t
}

// ActionsTable expects Site, Hive and User to be loaded.
func ActionsTable(actions []entities.HiveAction) Table {
	t := Table{Name: Actions, Header: actionHeader}
	for _, a := range actions {
		var site, hive, user string
		if a.Site != nil {
			site = a.Site.Name
		}
		if a.Hive != nil {
			hive = a.Hive.HiveNumber
		}
		if a.User != nil {
			user = a.User.Username
		}
		t.Rows = append(t.Rows, []string{
			id(a.ActionID), site, hive, a.TaskName, string(a.Kind), a.Description,
			dates.Format(&a.ActionDate), yesNo(a.IsArchived), user, dates.Format(&a.CreatedAt),
		})
	}
	return t
}

func DiseaseTable(reports []entities.DiseaseReport) Table {
	t := Table{Name: DiseaseReports, Header: diseaseHeader}
	for _, r := range reports {
		var site string
		if r.Site != nil {
			site = r.Site.Name
		}
		t.Rows = append(t.Rows, []string{
			id(r.ReportID), site, dates.Format(&r.ReportDate),
			strconv.Itoa(r.AFBCount), strconv.Itoa(r.VarroaCount), strconv.Itoa(r.ChalkbroodCount),
			strconv.Itoa(r.SacbroodCount), strconv.Itoa(r.DWVCount), strconv.Itoa(r.Total()), r.Notes,
		})
	}
	return t
}

func HivesTable(hives []entities.IndividualHive) Table {
	t := Table{Name: Hives, Header: hiveHeader}
	for _, h := range hives {
		var site string
		if h.Site != nil {
			site = h.Site.Name
		}
		t.Rows = append(t.Rows, []string{
			id(h.HiveID), site, h.HiveNumber, h.Status, h.HiveStrength, h.Notes, dates.Format(&h.CreatedAt),
		})
	}
	return t
}

// ComprehensiveTable summarises each site with its hives, actions and
// disease reports.
func ComprehensiveTable(sites []entities.Site, hives []entities.IndividualHive, actions []entities.HiveAction, reports []entities.DiseaseReport) Table {
	type agg struct {
		hives, actions, reports, observations int
		last                                  *time.Time
	}
	by := map[uint]*agg{}
	get := func(siteID uint) *agg {
		if by[siteID] == nil {
			by[siteID] = &agg{}
		}
		return by[siteID]
	}
	for _, h := range hives {
		get(h.SiteID).hives++
	}
	for i, a := range actions {
		g := get(a.SiteID)
		g.actions++
		if g.last == nil || a.ActionDate.After(*g.last) {
			g.last = &actions[i].ActionDate
		}
	}
	for _, r := range reports {
		g := get(r.SiteID)
		g.reports++
		g.observations += r.Total()
	}

	t := Table{Name: Comprehensive, Header: comprehensiveHeader}
	for _, s := range sites {
		g := get(s.SiteID)
		t.Rows = append(t.Rows, []string{
			s.Name, float(s.Latitude), float(s.Longitude), strconv.Itoa(s.HiveCount),
			strconv.Itoa(g.hives), s.SiteStrength, yesNo(s.IsQuarantine),
			strconv.Itoa(g.actions), dates.Format(g.last),
			strconv.Itoa(g.reports), strconv.Itoa(g.observations),
		})
	}
	return t
}

func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write %s csv: %w", t.Name, err)
	}
	return nil
}

// Workbook puts each table on its own sheet, in order.
func Workbook(tables ...Table) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, t := range tables {
		sheet := t.Name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := writeRow(f, sheet, 1, t.Header); err != nil {
			return nil, err
		}
		for r, row := range t.Rows {
			if err := writeRow(f, sheet, r+2, row); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

// Filename is "{entity}_export_{YYYYMMDD_HHMMSS}.{ext}".
func Filename(entity, ext string, now time.Time) string {
	return fmt.Sprintf("%s_export_%s.%s", entity, now.UTC().Format(dates.Stamp), ext)
}

func id(v uint) string { return strconv.FormatUint(uint64(v), 10) }

func float(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
