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
	"larsbees/pkg/dates"
	"larsbees/pkg/metrics"
	"larsbees/pkg/recurrence"
	"larsbees/pkg/schedule/repository"
	"larsbees/pkg/schedule/repositoryImp"
	"larsbees/pkg/schedule/service"
	siteRepoImp "larsbees/pkg/site/repositoryImp"
)

// visitHour is the start time given to a visit scheduled by day only.
const visitHour = 9

type scheduleSvc struct {
	db      *gorm.DB
	repo    repository.ScheduleRepository
	guard   *access.Guard
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func New(db *gorm.DB, guard *access.Guard, m *metrics.Metrics, log *zap.Logger) service.ScheduleService {
	return &scheduleSvc{db: db, repo: repositoryImp.New(db), guard: guard, metrics: m, log: log, now: time.Now}
}

/* ===== templates ===== */

func (s *scheduleSvc) ListTemplates(ctx context.Context, uid uint, category string) ([]entities.TaskTemplate, error) {
	return s.repo.ListTemplates(ctx, uid, category)
}

func (s *scheduleSvc) GetTemplate(ctx context.Context, uid, id uint) (*entities.TaskTemplate, error) {
	return s.guard.Template(ctx, uid, id)
}

func (s *scheduleSvc) CreateTemplate(ctx context.Context, uid uint, in service.TemplateInput) (*entities.TaskTemplate, error) {
	owner := uid
	t := &entities.TaskTemplate{UserID: &owner, IsActive: true}
	applyTemplate(t, in)
	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}

func (s *scheduleSvc) UpdateTemplate(ctx context.Context, uid, id uint, in service.TemplateInput) (*entities.TaskTemplate, error) {
	t, err := s.guard.OwnTemplate(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	applyTemplate(t, in)
	if err := s.repo.UpdateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *scheduleSvc) DeleteTemplate(ctx context.Context, uid, id uint) error {
	if _, err := s.guard.OwnTemplate(ctx, uid, id); err != nil {
		return err
	}
	return s.repo.DeactivateTemplate(ctx, id)
}

func (s *scheduleSvc) Suggestions(ctx context.Context, uid uint) ([]entities.TaskTemplate, error) {
	all, err := s.repo.ListTemplates(ctx, uid, "")
	if err != nil {
		return nil, err
	}
	month := s.now().UTC().Month()
	out := []entities.TaskTemplate{}
	for _, t := range all {
		if t.InSeason(month) {
			out = append(out, t)
		}
	}
	return out, nil
}

func applyTemplate(t *entities.TaskTemplate, in service.TemplateInput) {
	t.Name = strings.TrimSpace(in.Name)
	t.Description = in.Description
	t.Category = in.Category
	t.EstimatedDuration = in.EstimatedDuration
	if t.EstimatedDuration == 0 {
		t.EstimatedDuration = 60
	}
	t.Priority = in.Priority
	if t.Priority == "" {
		t.Priority = "medium"
	}
	t.IsSeasonal = in.IsSeasonal
	t.SeasonMonths = in.SeasonMonths
	t.ChecklistItems = in.ChecklistItems
	t.EquipmentNeeded = in.EquipmentNeeded
	t.SuppliesNeeded = in.SuppliesNeeded
	t.WeatherDependent = in.WeatherDependent
	t.MinTemperature = in.MinTemperature
	t.MaxTemperature = in.MaxTemperature
	t.AvoidRain = in.AvoidRain
	t.BestTimeOfDay = in.BestTimeOfDay
}

/* ===== tasks ===== */

func (s *scheduleSvc) Schedule(ctx context.Context, uid uint, in service.ScheduleInput) (*service.TaskView, error) {
	start, err := dates.Parse(in.ScheduledDate)
	if err != nil {
		return nil, err
	}
	due, err := dates.ParseOptional(in.DueDate)
	if err != nil {
		return nil, err
	}
	if due != nil && due.Before(start) {
		return nil, service.ErrDueBeforeStart
	}
	task := &entities.ScheduledTask{
		UserID:        uid,
		TemplateID:    in.TemplateID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		ScheduledDate: start,
		DueDate:       due,
		Priority:      in.Priority,
		Status:        entities.StatusPending,
	}
	if in.IsRecurring {
		end, err := dates.ParseOptional(in.RecurrenceEndDate)
		if err != nil {
			return nil, err
		}
		interval := in.RecurrenceInterval
		if interval == 0 {
			interval = 1
		}
		rule := recurrence.Rule{Pattern: recurrence.Pattern(in.RecurrencePattern), Interval: interval, End: end}
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		task.IsRecurring = true
		task.RecurrencePattern = in.RecurrencePattern
		task.RecurrenceInterval = interval
		task.RecurrenceEndDate = end
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guard := s.guard.WithTx(tx)
		tpl, err := guard.Template(ctx, uid, in.TemplateID)
		if err != nil {
			return err
		}
		fillFromTemplate(task, tpl, in.EstimatedDuration)
		targets, err := s.targets(ctx, tx, guard, uid, in)
		if err != nil {
			return err
		}
		return s.insert(ctx, repositoryImp.New(tx), task, targets, in.Notes)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.TaskScheduled(1)
	s.log.Info("task scheduled", zap.Uint("uid", uid), zap.Uint("task_id", task.TaskID),
		zap.Int("assignments", len(task.Assignments)))
	v := service.ViewOf(*task, s.now().UTC())
	return &v, nil
}

// QuickSchedule books the next visit to a site. Without a date the visit is
// tomorrow morning.
func (s *scheduleSvc) QuickSchedule(ctx context.Context, uid uint, in service.QuickInput) ([]service.TaskView, error) {
	var start time.Time
	if strings.TrimSpace(in.ScheduledDate) == "" {
		y, m, d := s.now().UTC().AddDate(0, 0, 1).Date()
		start = time.Date(y, m, d, visitHour, 0, 0, 0, time.UTC)
	} else {
		t, err := dates.Parse(in.ScheduledDate)
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(in.ScheduledDate)) == len(dates.Day) {
			t = t.Add(visitHour * time.Hour)
		}
		start = t
	}
	var tasks []entities.ScheduledTask
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guard := s.guard.WithTx(tx)
		if _, err := guard.Site(ctx, uid, in.SiteID); err != nil {
			return err
		}
		repo := repositoryImp.New(tx)
		for _, id := range in.TemplateIDs {
			tpl, err := guard.Template(ctx, uid, id)
			if err != nil {
				return err
			}
			task := &entities.ScheduledTask{
				UserID: uid, TemplateID: id, ScheduledDate: start,
				Priority: in.Priority, Status: entities.StatusPending,
			}
			fillFromTemplate(task, tpl, 0)
			if err := s.insert(ctx, repo, task, []entities.Target{entities.SiteTarget{SiteID: in.SiteID}}, in.Notes); err != nil {
				return err
			}
			tasks = append(tasks, *task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.TaskScheduled(len(tasks))
	now := s.now().UTC()
	out := make([]service.TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, service.ViewOf(t, now))
	}
	return out, nil
}

func fillFromTemplate(task *entities.ScheduledTask, tpl *entities.TaskTemplate, duration int) {
	task.Template = tpl
	if task.Title == "" {
		task.Title = tpl.Name
	}
	if task.Description == "" {
		task.Description = tpl.Description
	}
	if task.Priority == "" {
		task.Priority = tpl.Priority
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	task.EstimatedDuration = duration
	if task.EstimatedDuration == 0 {
		task.EstimatedDuration = tpl.EstimatedDuration
	}
}

// targets resolves the fan-out of a task. Any target the user does not own
// fails the whole request.
func (s *scheduleSvc) targets(ctx context.Context, tx *gorm.DB, guard *access.Guard, uid uint, in service.ScheduleInput) ([]entities.Target, error) {
	var out []entities.Target
	if in.AssignToAll {
		sites, err := siteRepoImp.New(tx).ListActive(ctx, uid)
		if err != nil {
			return nil, err
		}
		for _, st := range sites {
			out = append(out, entities.SiteTarget{SiteID: st.SiteID})
		}
		return out, nil
	}
	seen := map[entities.Target]bool{}
	add := func(t entities.Target) error {
		if seen[t] {
			return nil
		}
		if err := guard.Target(ctx, uid, t); err != nil {
			return fmt.Errorf("%s %d: %w", t.Kind(), t.ID(), err)
		}
		seen[t] = true
		out = append(out, t)
		return nil
	}
	for _, id := range in.SiteIDs {
		if err := add(entities.SiteTarget{SiteID: id}); err != nil {
			return nil, err
		}
	}
	for _, id := range in.HiveIDs {
		if err := add(entities.HiveTarget{HiveID: id}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *scheduleSvc) insert(ctx context.Context, repo repository.ScheduleRepository, task *entities.ScheduledTask, targets []entities.Target, notes string) error {
	if err := repo.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	task.Assignments = make([]entities.TaskAssignment, 0, len(targets))
	for _, t := range targets {
		a := entities.NewAssignment(task.TaskID, t)
		a.Notes = notes
		task.Assignments = append(task.Assignments, a)
	}
	if err := repo.CreateAssignments(ctx, task.Assignments); err != nil {
		return fmt.Errorf("create assignments: %w", err)
	}
	return nil
}

func (s *scheduleSvc) ListTasks(ctx context.Context, uid uint, q service.TaskQuery) ([]service.TaskView, error) {
	from, to, err := dates.Range(q.From, q.To)
	if err != nil {
		return nil, err
	}
	f := repository.TaskFilter{From: from, To: to}
	now := s.now().UTC()
	// overdue is derived, so filter it after the read
	overdueOnly := q.Status == string(entities.StatusOverdue)
	if overdueOnly {
		f.OpenOnly = true
	} else {
		f.Status = entities.TaskStatus(q.Status)
	}
	tasks, err := s.repo.ListTasks(ctx, uid, f)
	if err != nil {
		return nil, err
	}
	out := make([]service.TaskView, 0, len(tasks))
	for _, t := range tasks {
		if overdueOnly && !t.IsOverdue(now) {
			continue
		}
		out = append(out, service.ViewOf(t, now))
	}
	return out, nil
}

func (s *scheduleSvc) GetTask(ctx context.Context, uid, id uint) (*service.TaskView, error) {
	t, err := s.guard.ScheduledTask(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	v := service.ViewOf(*t, s.now().UTC())
	return &v, nil
}

func (s *scheduleSvc) Start(ctx context.Context, uid, id uint) (*service.TaskView, error) {
	t, err := s.guard.ScheduledTask(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if t.Status != entities.StatusPending {
		return nil, fmt.Errorf("start %s task: %w", t.Status, service.ErrInvalidTransition)
	}
	t.Status = entities.StatusInProgress
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	v := service.ViewOf(*t, s.now().UTC())
	return &v, nil
}

func (s *scheduleSvc) Cancel(ctx context.Context, uid, id uint) (*service.TaskView, error) {
	t, err := s.guard.ScheduledTask(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if !t.Status.Open() {
		return nil, fmt.Errorf("cancel %s task: %w", t.Status, service.ErrInvalidTransition)
	}
	t.Status = entities.StatusCancelled
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	v := service.ViewOf(*t, s.now().UTC())
	return &v, nil
}

// Complete closes the task and every assignment together. A recurring task
// also gets its next occurrence, with the same targets, in the same
// transaction.
func (s *scheduleSvc) Complete(ctx context.Context, uid, id uint) (*service.CompleteResult, error) {
	now := s.now().UTC()
	out := &service.CompleteResult{}
	var next *entities.ScheduledTask
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.guard.WithTx(tx).ScheduledTask(ctx, uid, id)
		if err != nil {
			return err
		}
		if !t.Status.Open() {
			return fmt.Errorf("complete %s task: %w", t.Status, service.ErrInvalidTransition)
		}
		repo := repositoryImp.New(tx)
		t.Status = entities.StatusCompleted
		t.CompletedAt = &now
		if err := repo.UpdateTask(ctx, t); err != nil {
			return err
		}
		if _, err := repo.CompleteAssignments(ctx, t.TaskID, now); err != nil {
			return fmt.Errorf("complete assignments: %w", err)
		}
		for i := range t.Assignments {
			t.Assignments[i].Status = entities.StatusCompleted
			t.Assignments[i].CompletedAt = &now
		}
		out.Task = service.ViewOf(*t, now)

		anchor, err := chainStart(ctx, repo, t)
		if err != nil {
			return err
		}
		at, ok, err := recurrence.NextOccurrence(*t, anchor, now)
		if err != nil || !ok {
			return err
		}
		next = nextOf(t, at)
		if err := repo.CreateTask(ctx, next); err != nil {
			return fmt.Errorf("create next occurrence: %w", err)
		}
		for _, a := range t.Assignments {
			tg := a.Target()
			if tg == nil {
				continue
			}
			c := entities.NewAssignment(next.TaskID, tg)
			c.Notes = a.Notes
			c.EstimatedDuration = a.EstimatedDuration
			next.Assignments = append(next.Assignments, c)
		}
		if err := repo.CreateAssignments(ctx, next.Assignments); err != nil {
			return fmt.Errorf("clone assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.TaskCompleted()
	if next != nil {
		s.metrics.TaskScheduled(1)
		v := service.ViewOf(*next, now)
		out.Next = &v
		s.log.Info("recurring task advanced", zap.Uint("task_id", id), zap.Uint("next_task_id", next.TaskID),
			zap.Time("next_date", next.ScheduledDate))
	}
	return out, nil
}

// nextOf copies t into a pending occurrence at the given date. A due date
// keeps its distance from the scheduled date.
func nextOf(t *entities.ScheduledTask, at time.Time) *entities.ScheduledTask {
	parent := t.TaskID
	n := &entities.ScheduledTask{
		UserID:             t.UserID,
		TemplateID:         t.TemplateID,
		Title:              t.Title,
		Description:        t.Description,
		ScheduledDate:      at,
		EstimatedDuration:  t.EstimatedDuration,
		Status:             entities.StatusPending,
		Priority:           t.Priority,
		IsRecurring:        true,
		RecurrencePattern:  t.RecurrencePattern,
		RecurrenceInterval: t.RecurrenceInterval,
		RecurrenceEndDate:  t.RecurrenceEndDate,
		ParentTaskID:       &parent,
		Template:           t.Template,
	}
	if t.DueDate != nil {
		due := at.Add(t.DueDate.Sub(t.ScheduledDate))
		n.DueDate = &due
	}
	return n
}

// chainStart walks the parent links back to the first occurrence and returns
// its scheduled date.
func chainStart(ctx context.Context, repo repository.ScheduleRepository, t *entities.ScheduledTask) (time.Time, error) {
	anchor, parent := t.ScheduledDate, t.ParentTaskID
	seen := map[uint]bool{t.TaskID: true}
	for parent != nil && !seen[*parent] {
		seen[*parent] = true
		p, date, err := repo.ParentOf(ctx, *parent)
		if err != nil {
			return time.Time{}, fmt.Errorf("walk recurrence chain: %w", err)
		}
		anchor, parent = date, p
	}
	return anchor, nil
}

func (s *scheduleSvc) Next(ctx context.Context, uid, id uint) (*service.NextOccurrence, error) {
	t, err := s.guard.ScheduledTask(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	anchor, err := chainStart(ctx, s.repo, t)
	if err != nil {
		return nil, err
	}
	at, ok, err := recurrence.NextOccurrence(*t, anchor, s.now().UTC())
	if err != nil {
		return nil, err
	}
	out := &service.NextOccurrence{HasNext: ok}
	if ok {
		out.NextDate = &at
	}
	return out, nil
}

func (s *scheduleSvc) PatchAssignment(ctx context.Context, uid, id uint, p service.AssignmentPatch) (*entities.TaskAssignment, error) {
	a, err := s.guard.Assignment(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if p.Status != nil && *p.Status != a.Status {
		switch *p.Status {
		case entities.StatusInProgress, entities.StatusCompleted, entities.StatusSkipped:
		default:
			return nil, fmt.Errorf("assignment status %q: %w", *p.Status, service.ErrInvalidTransition)
		}
		if !a.Status.Open() {
			return nil, fmt.Errorf("assignment is %s: %w", a.Status, service.ErrInvalidTransition)
		}
		a.Status = *p.Status
		if a.Status == entities.StatusCompleted {
			now := s.now().UTC()
			a.CompletedAt = &now
		}
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.EstimatedDuration != nil {
		d := *p.EstimatedDuration
		a.EstimatedDuration = &d
	}
	if err := s.repo.UpdateAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

/* ===== calendar ===== */

func (s *scheduleSvc) Calendar(ctx context.Context, uid uint, from, to string) ([]service.CalendarItem, error) {
	f, t, err := dates.Range(from, to)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasks(ctx, uid, repository.TaskFilter{From: f, To: t})
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	out := make([]service.CalendarItem, 0, len(tasks))
	for _, task := range tasks {
		item := service.CalendarItem{
			ID:       task.TaskID,
			Title:    task.Title,
			Start:    task.ScheduledDate,
			End:      task.DueDate,
			Status:   task.EffectiveStatus(now),
			Priority: task.Priority,
			Sites:    task.SiteNames(),
			Overdue:  task.IsOverdue(now),
		}
		if task.Template != nil {
			item.Category = task.Template.Category
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *scheduleSvc) Upcoming(ctx context.Context, uid uint) ([]entities.ScheduledTask, error) {
	y, m, d := s.now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return s.repo.ListTasks(ctx, uid, repository.TaskFilter{From: &today, OpenOnly: true})
}
