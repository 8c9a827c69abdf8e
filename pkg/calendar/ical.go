// Package calendar renders scheduled tasks as an iCalendar subscription feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"larsbees/entities"
)

const (
	ProductID = "-//BeeMarshall//Task Calendar//EN"
	Name      = "BeeMarshall Scheduled Tasks"

	startHour = 9
	duration  = 2 * time.Hour
)

// Feed builds the calendar for tasks. A task stored at midnight is placed at
// 9:00; every event lasts two hours.
func Feed(tasks []entities.ScheduledTask, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(Name)
	cal.SetXWRCalDesc("Scheduled beekeeping tasks")
	cal.SetXWRTimezone("UTC")

	now = now.UTC()
	for _, t := range tasks {
		start := t.ScheduledDate.UTC()
		if start.Hour() == 0 && start.Minute() == 0 && start.Second() == 0 {
			start = start.Add(startHour * time.Hour)
		}
		sites := t.SiteNames()

		ev := cal.AddEvent(fmt.Sprintf("%d@beemarshall.com", t.TaskID))
		ev.SetDtStampTime(now)
		ev.SetCreatedTime(t.CreatedAt.UTC())
		ev.SetModifiedAt(t.UpdatedAt.UTC())
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(duration))
		ev.SetSummary(t.Title)
		ev.SetDescription(description(t, sites))
		ev.SetLocation(location(sites))
		ev.SetStatus(ics.ObjectStatusConfirmed)
		ev.SetPriority(Priority(t.Priority))
		ev.AddCategory("BEEKEEPING")
		ev.AddCategory("APIARY")
	}
	return cal.Serialize()
}

// Priority maps a task priority onto the iCalendar 1-9 scale.
func Priority(p string) int {
	switch p {
	case "urgent":
		return 1
	case "high":
		return 2
	}
	return 3
}

func description(t entities.ScheduledTask, sites []string) string {
	var b strings.Builder
	if len(sites) > 0 {
		fmt.Fprintf(&b, "Sites: %s\n", strings.Join(sites, ", "))
	}
	fmt.Fprintf(&b, "Priority: %s\n", t.Priority)
	if t.Template != nil {
		fmt.Fprintf(&b, "Type: %s\n", t.Template.Category)
	}
	if t.Description != "" {
		fmt.Fprintf(&b, "Notes: %s\n", t.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func location(sites []string) string {
	if len(sites) == 0 {
		return "Apiary Location"
	}
	return sites[0]
}
