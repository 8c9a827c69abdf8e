package serviceImp

import (
	"context"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"larsbees/entities"
	actionRepo "larsbees/pkg/action/repository"
	actionRepoImp "larsbees/pkg/action/repositoryImp"
	diseaseRepo "larsbees/pkg/disease/repository"
	diseaseRepoImp "larsbees/pkg/disease/repositoryImp"
	"larsbees/pkg/export"
	"larsbees/pkg/export/service"
	hiveRepo "larsbees/pkg/hive/repository"
	hiveRepoImp "larsbees/pkg/hive/repositoryImp"
	"larsbees/pkg/metrics"
	siteRepo "larsbees/pkg/site/repository"
	siteRepoImp "larsbees/pkg/site/repositoryImp"
)

type exportSvc struct {
	sites   siteRepo.SiteRepository
	hives   hiveRepo.HiveRepository
	actions actionRepo.ActionRepository
	disease diseaseRepo.DiseaseRepository
	metrics *metrics.Metrics
}

func New(db *gorm.DB, m *metrics.Metrics) service.ExportService {
	return &exportSvc{
		sites:   siteRepoImp.New(db),
		hives:   hiveRepoImp.New(db),
		actions: actionRepoImp.New(db),
		disease: diseaseRepoImp.New(db),
		metrics: m,
	}
}

type data struct {
	sites   []entities.Site
	hives   []entities.IndividualHive
	actions []entities.HiveAction
	reports []entities.DiseaseReport
}

// load reads only what the named tables need.
func (s *exportSvc) load(ctx context.Context, uid uint, names ...string) (*data, error) {
	need := map[string]bool{}
	for _, e := range names {
		need[e] = true
	}
	all := need[export.Comprehensive]
	d := &data{}
	var err error
	if all || need[export.Sites] {
		if d.sites, err = s.sites.ListActive(ctx, uid); err != nil {
			return nil, err
		}
	}
	if all || need[export.Hives] {
		if d.hives, err = s.hives.ListOwned(ctx, uid); err != nil {
			return nil, err
		}
	}
	if all || need[export.Actions] {
		if d.actions, err = s.actions.List(ctx, uid, actionRepo.ListFilter{IncludeArchived: true}); err != nil {
			return nil, err
		}
	}
	if all || need[export.DiseaseReports] {
		if d.reports, err = s.disease.List(ctx, uid, diseaseRepo.ListFilter{}); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *data) table(entity string) (export.Table, error) {
	switch entity {
	case export.Sites:
		return export.SitesTable(d.sites), nil
	case export.Actions:
		return export.ActionsTable(d.actions), nil
	case export.DiseaseReports:
		return export.DiseaseTable(d.reports), nil
	case export.Hives:
		return export.HivesTable(d.hives), nil
	case export.Comprehensive:
		return export.ComprehensiveTable(d.sites, d.hives, d.actions, d.reports), nil
	}
	return export.Table{}, export.ErrUnknownEntity
}

func (s *exportSvc) Table(ctx context.Context, uid uint, entity string) (*export.Table, error) {
	d, err := s.load(ctx, uid, entity)
	if err != nil {
		return nil, err
	}
	t, err := d.table(entity)
	if err != nil {
		return nil, err
	}
	s.metrics.Exported(entity, "csv")
	return &t, nil
}

func (s *exportSvc) Workbook(ctx context.Context, uid uint) (*excelize.File, error) {
	return s.workbook(ctx, uid, export.Sites, export.Hives, export.Actions, export.DiseaseReports)
}

func (s *exportSvc) workbook(ctx context.Context, uid uint, names ...string) (*excelize.File, error) {
	d, err := s.load(ctx, uid, names...)
	if err != nil {
		return nil, err
	}
	tables := make([]export.Table, 0, len(names))
	for _, n := range names {
		t, err := d.table(n)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	f, err := export.Workbook(tables...)
	if err != nil {
		return nil, err
	}
	s.metrics.Exported("workbook", "xlsx")
	return f, nil
}
