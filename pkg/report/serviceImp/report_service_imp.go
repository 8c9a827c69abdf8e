package serviceImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"larsbees/entities"
	actionRepo "larsbees/pkg/action/repository"
	actionRepoImp "larsbees/pkg/action/repositoryImp"
	"larsbees/pkg/dates"
	diseaseRepo "larsbees/pkg/disease/repository"
	diseaseRepoImp "larsbees/pkg/disease/repositoryImp"
	"larsbees/pkg/report"
	"larsbees/pkg/report/service"
	scheduleRepo "larsbees/pkg/schedule/repository"
	scheduleRepoImp "larsbees/pkg/schedule/repositoryImp"
	siteRepo "larsbees/pkg/site/repository"
	siteRepoImp "larsbees/pkg/site/repositoryImp"
)

const recentActions = 10

type reportSvc struct {
	sites   siteRepo.SiteRepository
	actions actionRepo.ActionRepository
	disease diseaseRepo.DiseaseRepository
	tasks   scheduleRepo.ScheduleRepository
	now     func() time.Time
}

func New(db *gorm.DB) service.ReportService {
	return &reportSvc{
		sites:   siteRepoImp.New(db),
		actions: actionRepoImp.New(db),
		disease: diseaseRepoImp.New(db),
		tasks:   scheduleRepoImp.New(db),
		now:     time.Now,
	}
}

func (s *reportSvc) Data(ctx context.Context, uid uint, fromRaw, toRaw string) (*report.Report, error) {
	from, to, err := dates.Range(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	defFrom, defTo := report.DefaultWindow(s.now())
	if from == nil {
		from = &defFrom
	}
	if to == nil {
		to = &defTo
	}
	if to.Before(*from) {
		return nil, report.ErrInvalidRange
	}
	sites, err := s.sites.ListActive(ctx, uid)
	if err != nil {
		return nil, err
	}
	acts, err := s.actions.List(ctx, uid, actionRepo.ListFilter{From: from, To: to, IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	reps, err := s.disease.List(ctx, uid, diseaseRepo.ListFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	r := report.Build(sites, acts, reps, *from, *to)
	return &r, nil
}

func (s *reportSvc) Dashboard(ctx context.Context, uid uint) (*service.Dashboard, error) {
	sites, err := s.sites.ListActive(ctx, uid)
	if err != nil {
		return nil, err
	}
	recent, err := s.actions.Recent(ctx, uid, recentActions)
	if err != nil {
		return nil, err
	}
	open, err := s.tasks.ListTasks(ctx, uid, scheduleRepo.TaskFilter{OpenOnly: true})
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []entities.HiveAction{}
	}
	out := &service.Dashboard{TotalSites: len(sites), RecentActions: recent, OpenTasks: len(open)}
	for _, st := range sites {
		out.TotalHives += st.HiveCount
	}
	now := s.now().UTC()
	for _, t := range open {
		if t.IsOverdue(now) {
			out.OverdueTasks++
		}
	}
	return out, nil
}
