package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larsbees/entities"
)

func TestFeed(t *testing.T) {
	siteID := uint(3)
	tasks := []entities.ScheduledTask{
		{
			TaskID: 7, Title: "Harvest Honey", Priority: "high",
			ScheduledDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			Template:      &entities.TaskTemplate{Category: "Harvest"},
			Assignments: []entities.TaskAssignment{
				{SiteID: &siteID, Site: &entities.Site{Name: "North Field"}},
			},
		},
		{
			TaskID: 8, Title: "Queen Check", Priority: "urgent",
			ScheduledDate: time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC),
		},
	}

	out := Feed(tasks, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	assert.Contains(t, out, "PRODID:"+ProductID)
	assert.Contains(t, out, "X-WR-CALNAME:"+Name)
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "7@beemarshall.com", first.Id())
	start, err := first.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)), start)
	end, err := first.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, end.Sub(start))
	assert.Equal(t, "North Field", first.GetProperty(ics.ComponentPropertyLocation).Value)
	assert.Equal(t, "2", first.GetProperty(ics.ComponentPropertyPriority).Value)

	second := events[1]
	start, err = second.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC)), "a set time is kept")
	assert.Equal(t, "Apiary Location", second.GetProperty(ics.ComponentPropertyLocation).Value)
	assert.Equal(t, "1", second.GetProperty(ics.ComponentPropertyPriority).Value)
}

func TestFeedEmpty(t *testing.T) {
	out := Feed(nil, time.Now())
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 1, Priority("urgent"))
	assert.Equal(t, 2, Priority("high"))
	assert.Equal(t, 3, Priority("medium"))
	assert.Equal(t, 3, Priority(""))
}
