// Package reminders buckets client follow-up dates relative to the current
// calendar day.
package reminders

import (
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
)

type Bucket string

const (
	Overdue  Bucket = "overdue"
	Today    Bucket = "today"
	Tomorrow Bucket = "tomorrow"
	ThisWeek Bucket = "thisWeek"
	Upcoming Bucket = "upcoming"
)

// DashboardLimit is the size of the dashboard priority list.
const DashboardLimit = 5

// Buckets partitions clients with a reminder into five disjoint groups, each
// ordered by reminder time ascending.
type Buckets struct {
	Overdue  []models.Client `json:"overdue"`
	Today    []models.Client `json:"today"`
	Tomorrow []models.Client `json:"tomorrow"`
	ThisWeek []models.Client `json:"thisWeek"`
	Upcoming []models.Client `json:"upcoming"`
}

func (b Buckets) Total() int {
	return len(b.Overdue) + len(b.Today) + len(b.Tomorrow) + len(b.ThisWeek) + len(b.Upcoming)
}

// PriorityReminder is a client tagged with the bucket it came from.
type PriorityReminder struct {
	models.Client
	Priority Bucket `json:"priority"`
}

// startOfDay truncates t to midnight in loc. Calendar arithmetic goes through
// time.Date so DST transitions do not shift the boundary.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Classify returns the bucket for a reminder at `at`, comparing calendar days
// in now's location.
func Classify(at, now time.Time) Bucket {
	loc := now.Location()
	today := startOfDay(now, loc)
	day := startOfDay(at, loc)
	tomorrow := today.AddDate(0, 0, 1)
	weekEnd := today.AddDate(0, 0, 7)

	switch {
	case day.Before(today):
		return Overdue
	case day.Equal(today):
		return Today
	case day.Equal(tomorrow):
		return Tomorrow
	case !day.After(weekEnd):
		return ThisWeek
	default:
		return Upcoming
	}
}

// Categorize buckets every client with a non-nil ToContact. Clients without a
// reminder are dropped.
func Categorize(clients []models.Client, now time.Time) Buckets {
	withReminder := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		if c.ToContact != nil {
			withReminder = append(withReminder, c)
		}
	}
	sort.SliceStable(withReminder, func(i, j int) bool {
		return withReminder[i].ToContact.Before(*withReminder[j].ToContact)
	})

	b := Buckets{
		Overdue:  []models.Client{},
		Today:    []models.Client{},
		Tomorrow: []models.Client{},
		ThisWeek: []models.Client{},
		Upcoming: []models.Client{},
	}
	for _, c := range withReminder {
		switch Classify(*c.ToContact, now) {
		case Overdue:
			b.Overdue = append(b.Overdue, c)
		case Today:
			b.Today = append(b.Today, c)
		case Tomorrow:
			b.Tomorrow = append(b.Tomorrow, c)
		case ThisWeek:
			b.ThisWeek = append(b.ThisWeek, c)
		default:
			b.Upcoming = append(b.Upcoming, c)
		}
	}
	return b
}

// PriorityList concatenates overdue, today, tomorrow and this week, capped at
// limit entries. Upcoming reminders never appear.
func PriorityList(b Buckets, limit int) []PriorityReminder {
	if limit <= 0 {
		return []PriorityReminder{}
	}
	out := make([]PriorityReminder, 0, limit)
	groups := []struct {
		name    Bucket
		clients []models.Client
	}{
		{Overdue, b.Overdue},
		{Today, b.Today},
		{Tomorrow, b.Tomorrow},
		{ThisWeek, b.ThisWeek},
	}
	for _, g := range groups {
		for _, c := range g.clients {
			if len(out) >= limit {
				return out
			}
			out = append(out, PriorityReminder{Client: c, Priority: g.name})
		}
	}
	return out
}
