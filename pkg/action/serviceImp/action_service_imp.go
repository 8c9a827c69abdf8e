package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/action/repository"
	"larsbees/pkg/action/service"
	"larsbees/pkg/dates"
	"larsbees/pkg/metrics"
	ttRepo "larsbees/pkg/tasktype/repository"
)

type actionSvc struct {
	repo    repository.ActionRepository
	types   ttRepo.TaskTypeRepository
	guard   *access.Guard
	perPage int
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func New(repo repository.ActionRepository, types ttRepo.TaskTypeRepository, guard *access.Guard, perPage int, m *metrics.Metrics, log *zap.Logger) service.ActionService {
	if perPage <= 0 {
		perPage = 50
	}
	return &actionSvc{repo: repo, types: types, guard: guard, perPage: perPage, metrics: m, log: log, now: time.Now}
}

func (s *actionSvc) actionDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return s.now().UTC(), nil
	}
	return dates.Parse(raw)
}

// hiveOnSite checks that hiveID (if any) is an owned hive of siteID.
func (s *actionSvc) hiveOnSite(ctx context.Context, uid, siteID uint, hiveID *uint) error {
	if hiveID == nil || *hiveID == 0 {
		return nil
	}
	h, err := s.guard.Hive(ctx, uid, *hiveID)
	if err != nil {
		return err
	}
	if h.SiteID != siteID {
		return access.ErrNotFound
	}
	return nil
}

func (s *actionSvc) Log(ctx context.Context, uid uint, in service.LogInput) (*entities.HiveAction, error) {
	if _, err := s.guard.Site(ctx, uid, in.SiteID); err != nil {
		return nil, err
	}
	if in.HiveID != nil && *in.HiveID == 0 {
		in.HiveID = nil
	}
	if err := s.hiveOnSite(ctx, uid, in.SiteID, in.HiveID); err != nil {
		return nil, err
	}
	at, err := s.actionDate(in.ActionDate)
	if err != nil {
		return nil, err
	}
	var tt *entities.TaskType
	if in.TaskTypeID != nil && *in.TaskTypeID > 0 {
		tt, err = s.types.FindByID(ctx, *in.TaskTypeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrUnknownTask
		}
		if err != nil {
			return nil, err
		}
	} else if strings.TrimSpace(in.CustomTaskName) == "" {
		return nil, service.ErrNoTaskName
	}
	a := entities.NewHiveAction(uid, in.SiteID, in.HiveID, tt, strings.TrimSpace(in.CustomTaskName), at)
	a.Description = in.Description
	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, fmt.Errorf("create action: %w", err)
	}
	s.metrics.ActionLogged(string(a.Kind))
	return &a, nil
}

func (s *actionSvc) QuickLog(ctx context.Context, uid uint, in service.QuickLogInput) (*service.QuickLogResult, error) {
	if len(in.TaskIDs) == 0 || in.SiteID == 0 {
		return nil, service.ErrMissingFields
	}
	if _, err := s.guard.Site(ctx, uid, in.SiteID); err != nil {
		return nil, err
	}
	if in.HiveID != nil && *in.HiveID == 0 {
		in.HiveID = nil
	}
	if err := s.hiveOnSite(ctx, uid, in.SiteID, in.HiveID); err != nil {
		return nil, err
	}
	at, err := s.actionDate(in.ActionDate)
	if err != nil {
		return nil, err
	}
	types, err := s.types.FindByIDs(ctx, in.TaskIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*entities.TaskType, len(types))
	for i := range types {
		byID[types[i].TaskTypeID] = &types[i]
	}
	var batch []entities.HiveAction
	names := []string{}
	for _, id := range in.TaskIDs {
		tt, ok := byID[id]
		if !ok {
			continue
		}
		batch = append(batch, entities.NewHiveAction(uid, in.SiteID, in.HiveID, tt, "", at))
		names = append(names, tt.Name)
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("quick log: %w", err)
	}
	for _, a := range batch {
		s.metrics.ActionLogged(string(a.Kind))
	}
	if skipped := len(in.TaskIDs) - len(batch); skipped > 0 {
		s.log.Debug("quick log skipped unknown task types", zap.Uint("uid", uid), zap.Int("skipped", skipped))
	}
	return &service.QuickLogResult{
		Success: true,
		Message: fmt.Sprintf("%d action(s) logged successfully", len(batch)),
		Actions: names,
	}, nil
}

func (s *actionSvc) List(ctx context.Context, uid uint, page int, archived bool) (*service.Page, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.repo.Page(ctx, uid, archived, (page-1)*s.perPage, s.perPage)
	if err != nil {
		return nil, err
	}
	pages := int((total + int64(s.perPage) - 1) / int64(s.perPage))
	return &service.Page{
		Items:    items,
		Page:     page,
		PerPage:  s.perPage,
		Total:    total,
		Pages:    pages,
		HasNext:  page < pages,
		HasPrev:  page > 1,
		Archived: archived,
	}, nil
}

func (s *actionSvc) ListBySite(ctx context.Context, uid, siteID uint) ([]entities.HiveAction, error) {
	if _, err := s.guard.Site(ctx, uid, siteID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, uid, repository.ListFilter{SiteID: &siteID})
}

func (s *actionSvc) SetArchived(ctx context.Context, uid, id uint, archived bool) error {
	if _, err := s.guard.Action(ctx, uid, id); err != nil {
		return err
	}
	return s.repo.SetArchived(ctx, id, archived)
}
