// Package report aggregates sites, hive actions and disease reports into the
// series and totals shown on the analytics page. Nothing is cached; every
// call works from the rows it is given.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"larsbees/entities"
	"larsbees/pkg/apperr"
)

var ErrInvalidRange = fmt.Errorf("%w: from is after to", apperr.ErrInvalid)

type MonthPoint struct {
	Month          string  `json:"month"` // YYYY-MM
	WeightedScore  float64 `json:"weighted_score"`
	Supers         int     `json:"supers"`
	DeadHives      int     `json:"dead_hives"`
	DiseaseSamples int     `json:"disease_observations"`
}

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Breakdowns struct {
	DeathReasons   []Count `json:"death_reasons"`
	Disease        []Count `json:"disease"`
	RequeenReasons []Count `json:"requeen_reasons"`
	Consumables    []Count `json:"consumables"`
}

type Summary struct {
	StrongHives     int     `json:"strong_hives"`
	MediumHives     int     `json:"medium_hives"`
	WeakHives       int     `json:"weak_hives"`
	TotalHives      int     `json:"total_hives"`
	Actions         int     `json:"total_actions"`
	DiseaseReports  int     `json:"total_disease_reports"`
	QuarantineSites int     `json:"quarantine_sites"`
	HealthScore     float64 `json:"health_score"`
}

type Report struct {
	From       time.Time    `json:"from"`
	To         time.Time    `json:"to"`
	Monthly    []MonthPoint `json:"monthly"`
	Breakdowns Breakdowns   `json:"breakdowns"`
	Summary    Summary      `json:"summary"`
}

// Build aggregates over [from, to]. sites are the user's active sites;
// actions and reports may include rows outside the window, they are skipped.
func Build(sites []entities.Site, actions []entities.HiveAction, reports []entities.DiseaseReport, from, to time.Time) Report {
	from, to = from.UTC(), to.UTC()
	in := func(t time.Time) bool { return !t.Before(from) && !t.After(to) }

	var acts []entities.HiveAction
	for _, a := range actions {
		if in(a.ActionDate) {
			acts = append(acts, a)
		}
	}
	var reps []entities.DiseaseReport
	for _, r := range reports {
		if in(r.ReportDate) {
			reps = append(reps, r)
		}
	}
	return Report{
		From:       from,
		To:         to,
		Monthly:    monthly(sites, acts, reps, from, to),
		Breakdowns: breakdowns(acts, reps),
		Summary:    summarize(sites, acts, reps),
	}
}

func monthly(sites []entities.Site, acts []entities.HiveAction, reps []entities.DiseaseReport, from, to time.Time) []MonthPoint {
	idx := map[string]int{}
	var out []MonthPoint
	for m := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(to); m = m.AddDate(0, 1, 0) {
		end := m.AddDate(0, 1, 0).Add(-time.Nanosecond)
		p := MonthPoint{Month: m.Format("2006-01")}
		for _, s := range sites {
			if !s.CreatedAt.After(end) {
				p.WeightedScore += s.WeightedStrength()
			}
		}
		idx[p.Month] = len(out)
		out = append(out, p)
	}
	for _, a := range acts {
		i, ok := idx[a.ActionDate.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		switch a.Kind {
		case entities.KindSuper:
			out[i].Supers++
		case entities.KindDeath:
			out[i].DeadHives++
		}
	}
	for _, r := range reps {
		if i, ok := idx[r.ReportDate.UTC().Format("2006-01")]; ok {
			out[i].DiseaseSamples += r.Total()
		}
	}
	return out
}

func breakdowns(acts []entities.HiveAction, reps []entities.DiseaseReport) Breakdowns {
	deaths, requeens, consumables := map[string]int{}, map[string]int{}, map[string]int{}
	for _, a := range acts {
		switch {
		case a.Kind == entities.KindDeath:
			deaths[reason(a)]++
		case a.Kind == entities.KindRequeen:
			requeens[reason(a)]++
		case a.Kind.Consumable():
			consumables[a.TaskName]++
		}
	}
	var afb, varroa, chalk, sac, dwv int
	for _, r := range reps {
		afb += r.AFBCount
		varroa += r.VarroaCount
		chalk += r.ChalkbroodCount
		sac += r.SacbroodCount
		dwv += r.DWVCount
	}
	return Breakdowns{
		DeathReasons:   sorted(deaths),
		RequeenReasons: sorted(requeens),
		Consumables:    sorted(consumables),
		Disease: []Count{
			{"AFB", afb}, {"Varroa", varroa}, {"Chalkbrood", chalk}, {"Sacbrood", sac}, {"DWV", dwv},
		},
	}
}

// reason is the free-text description of an action, or its task name.
func reason(a entities.HiveAction) string {
	if d := strings.TrimSpace(a.Description); d != "" {
		return d
	}
	return a.TaskName
}

func sorted(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func summarize(sites []entities.Site, acts []entities.HiveAction, reps []entities.DiseaseReport) Summary {
	s := Summary{Actions: len(acts), DiseaseReports: len(reps)}
	var weighted float64
	for _, site := range sites {
		s.StrongHives += site.StrongHives
		s.MediumHives += site.MediumHives
		s.WeakHives += site.WeakHives
		weighted += site.WeightedStrength()
		if site.IsQuarantine {
			s.QuarantineSites++
		}
	}
	s.TotalHives = s.StrongHives + s.MediumHives + s.WeakHives
	s.HealthScore = HealthScore(weighted, s.TotalHives)
	return s
}

// HealthScore is the weighted strength as a percentage of an all-strong
// apiary, to one decimal. No hives scores 0.
func HealthScore(weighted float64, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(1000*weighted/float64(total)) / 10
}

// DefaultWindow covers the twelve calendar months ending with now.
func DefaultWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	return from, now
}
