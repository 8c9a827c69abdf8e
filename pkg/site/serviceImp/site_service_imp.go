package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/access"
	actionRepoImp "larsbees/pkg/action/repositoryImp"
	"larsbees/pkg/dates"
	diseaseRepoImp "larsbees/pkg/disease/repositoryImp"
	"larsbees/pkg/metrics"
	"larsbees/pkg/site/repository"
	"larsbees/pkg/site/repositoryImp"
	"larsbees/pkg/site/service"
	ttRepoImp "larsbees/pkg/tasktype/repositoryImp"
)

type siteSvc struct {
	db      *gorm.DB
	repo    repository.SiteRepository
	guard   *access.Guard
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func New(db *gorm.DB, guard *access.Guard, m *metrics.Metrics, log *zap.Logger) service.SiteService {
	return &siteSvc{db: db, repo: repositoryImp.New(db), guard: guard, metrics: m, log: log, now: time.Now}
}

func (s *siteSvc) Create(ctx context.Context, uid uint, in service.SiteInput) (*entities.Site, error) {
	site := &entities.Site{UserID: uid, IsActive: true}
	applyInput(site, in)
	if err := s.repo.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	s.log.Info("site created", zap.Uint("uid", uid), zap.Uint("site_id", site.SiteID))
	return site, nil
}

func (s *siteSvc) Get(ctx context.Context, uid, id uint) (*entities.Site, error) {
	return s.guard.Site(ctx, uid, id)
}

func (s *siteSvc) List(ctx context.Context, uid uint) ([]entities.Site, error) {
	return s.repo.ListActive(ctx, uid)
}

func (s *siteSvc) Update(ctx context.Context, uid, id uint, in service.SiteInput) (*entities.Site, error) {
	site, err := s.guard.Site(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	applyInput(site, in)
	if err := s.repo.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteSvc) Patch(ctx context.Context, uid, id uint, p service.SitePatch) (*entities.Site, error) {
	site, err := s.guard.Site(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		site.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		site.Description = *p.Description
	}
	if p.Latitude != nil {
		site.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		site.Longitude = *p.Longitude
	}
	if p.HiveCount != nil {
		site.HiveCount = *p.HiveCount
	}
	if p.HarvestTimeline != nil {
		site.HarvestTimeline = *p.HarvestTimeline
	}
	if p.SugarRequirements != nil {
		site.SugarRequirements = *p.SugarRequirements
	}
	if p.Notes != nil {
		site.Notes = *p.Notes
	}
	if p.FunctionalClassification != nil {
		site.FunctionalClassification = *p.FunctionalClassification
	}
	if p.SeasonalClassification != nil {
		site.SeasonalClassification = *p.SeasonalClassification
	}
	if p.AccessType != nil {
		site.AccessType = *p.AccessType
	}
	if p.ContactBeforeVisit != nil {
		site.ContactBeforeVisit = *p.ContactBeforeVisit
	}
	if p.IsQuarantine != nil {
		site.IsQuarantine = *p.IsQuarantine
	}
	if p.SiteStrength != nil {
		site.SiteStrength = *p.SiteStrength
	}
	if err := s.repo.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteSvc) Delete(ctx context.Context, uid, id uint) error {
	if _, err := s.guard.Site(ctx, uid, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info("site deactivated", zap.Uint("uid", uid), zap.Uint("site_id", id))
	return nil
}

// FieldReport updates the site counts and writes the ticked actions and the
// optional disease report in one transaction.
func (s *siteSvc) FieldReport(ctx context.Context, uid, id uint, in service.FieldReportInput) (*service.FieldReportResult, error) {
	at := s.now().UTC()
	if strings.TrimSpace(in.ReportDate) != "" {
		t, err := dates.Parse(in.ReportDate)
		if err != nil {
			return nil, err
		}
		at = t
	}
	out := &service.FieldReportResult{Actions: []entities.HiveAction{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		site, err := s.guard.WithTx(tx).Site(ctx, uid, id)
		if err != nil {
			return err
		}
		setInt(&site.SingleBroodBoxes, in.SingleBroodBoxes)
		setInt(&site.DoubleBroodBoxes, in.DoubleBroodBoxes)
		setInt(&site.Nucs, in.Nucs)
		setInt(&site.DeadHives, in.DeadHives)
		setInt(&site.TopSplits, in.TopSplits)
		setInt(&site.StrongHives, in.StrongHives)
		setInt(&site.MediumHives, in.MediumHives)
		setInt(&site.WeakHives, in.WeakHives)
		if in.IsQuarantine != nil {
			site.IsQuarantine = *in.IsQuarantine
		}
		if err := repositoryImp.New(tx).Update(ctx, site); err != nil {
			return fmt.Errorf("update site: %w", err)
		}
		out.Site = site

		types, err := ttRepoImp.New(tx).FindByIDs(ctx, in.TaskTypeIDs)
		if err != nil {
			return err
		}
		for i := range types {
			a := entities.NewHiveAction(uid, site.SiteID, nil, &types[i], "", at)
			a.Description = in.Notes
			out.Actions = append(out.Actions, a)
		}
		if err := actionRepoImp.New(tx).CreateBatch(ctx, out.Actions); err != nil {
			return fmt.Errorf("log actions: %w", err)
		}

		if d := in.Disease; d != nil {
			rep := &entities.DiseaseReport{
				SiteID: site.SiteID, UserID: uid, ReportDate: at, Notes: in.Notes,
				AFBCount: d.AFB, VarroaCount: d.Varroa, ChalkbroodCount: d.Chalkbrood,
				SacbroodCount: d.Sacbrood, DWVCount: d.DWV,
			}
			if err := diseaseRepoImp.New(tx).Create(ctx, rep); err != nil {
				return fmt.Errorf("disease report: %w", err)
			}
			out.DiseaseReport = rep
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, a := range out.Actions {
		s.metrics.ActionLogged(string(a.Kind))
	}
	return out, nil
}

func (s *siteSvc) MapData(ctx context.Context, uid uint) ([]service.MapSite, error) {
	sites, err := s.repo.ListActive(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]service.MapSite, 0, len(sites))
	for _, st := range sites {
		out = append(out, service.MapSite{
			ID: st.SiteID, Name: st.Name, Description: st.Description,
			Latitude: st.Latitude, Longitude: st.Longitude, HiveCount: st.HiveCount,
			HarvestTimeline: st.HarvestTimeline, SugarRequirements: st.SugarRequirements,
			IsQuarantine: st.IsQuarantine, SiteStrength: st.SiteStrength,
		})
	}
	return out, nil
}

func applyInput(site *entities.Site, in service.SiteInput) {
	site.Name = strings.TrimSpace(in.Name)
	site.Description = in.Description
	site.Latitude = in.Latitude
	site.Longitude = in.Longitude
	site.HiveCount = in.HiveCount
	if site.HiveCount == 0 {
		site.HiveCount = 1
	}
	site.HarvestTimeline = in.HarvestTimeline
	site.SugarRequirements = in.SugarRequirements
	site.Notes = in.Notes
	site.LandownerName = in.LandownerName
	site.LandownerPhone = in.LandownerPhone
	site.LandownerEmail = in.LandownerEmail
	site.LandownerAddress = in.LandownerAddress
	site.FunctionalClassification = orDefault(in.FunctionalClassification, "production")
	site.SeasonalClassification = orDefault(in.SeasonalClassification, "summer")
	site.AccessType = orDefault(in.AccessType, "all_weather")
	site.ContactBeforeVisit = in.ContactBeforeVisit
	site.IsQuarantine = in.IsQuarantine
	site.SingleBroodBoxes = in.SingleBroodBoxes
	site.DoubleBroodBoxes = in.DoubleBroodBoxes
	site.Nucs = in.Nucs
	site.DeadHives = in.DeadHives
	site.TopSplits = in.TopSplits
	site.StrongHives = in.StrongHives
	site.MediumHives = in.MediumHives
	site.WeakHives = in.WeakHives
	site.SiteStrength = orDefault(in.SiteStrength, "medium")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
