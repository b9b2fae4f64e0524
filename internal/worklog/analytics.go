package worklog

import (
	"sort"
	"time"

	"github.com/pollenhq/pollen/internal/store"
)

// CategoryMinutes is one slice of the per-category time breakdown.
type CategoryMinutes struct {
	Category store.Category `json:"category"`
	Minutes  int            `json:"minutes"`
}

// DayEffort is one day of the 7-day effort trend, oldest first.
type DayEffort struct {
	Label   string `json:"label"` // short weekday name
	Minutes int    `json:"minutes"`
	Count   int    `json:"count"`
}

// Summary aggregates the owner's logs for the dashboard and analytics
// views.
type Summary struct {
	TotalLogs      int               `json:"total_logs"`
	CompletedLogs  int               `json:"completed_logs"`
	TotalMinutes   int               `json:"total_minutes"`
	WeekMinutes    int               `json:"week_minutes"`
	WeekLogs       int               `json:"week_logs"`
	TodayMinutes   int               `json:"today_minutes"`
	TodayLogs      int               `json:"today_logs"`
	StreakDays     int               `json:"streak_days"`
	TopCategory    string            `json:"top_category"`
	Categories     []CategoryMinutes `json:"categories"`
	Trend          []DayEffort       `json:"trend"`
	Recent         []store.WorkLog   `json:"recent"`
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func millisToDay(ms int64, loc *time.Location) string {
	return dayKey(time.UnixMilli(ms).In(loc))
}

// Summarize computes the dashboard aggregates at the given instant. Day
// boundaries follow now's location.
func Summarize(logs []store.WorkLog, now time.Time) Summary {
	loc := now.Location()
	weekAgo := now.AddDate(0, 0, -7).UnixMilli()
	today := dayKey(now)

	sum := Summary{TopCategory: "—"}
	sum.TotalLogs = len(logs)

	byCategory := map[store.Category]int{}
	logDays := map[string]bool{}
	for _, l := range logs {
		sum.TotalMinutes += l.TimeSpent
		if l.Status == store.StatusDone {
			sum.CompletedLogs++
		}
		day := millisToDay(l.CreatedAt, loc)
		logDays[day] = true
		if day == today {
			sum.TodayMinutes += l.TimeSpent
			sum.TodayLogs++
		}
		if l.CreatedAt > weekAgo {
			sum.WeekMinutes += l.TimeSpent
			sum.WeekLogs++
			byCategory[l.Category] += l.TimeSpent
		}
	}

	// Consecutive days with at least one log, counting back from today.
	cursor := now
	for logDays[dayKey(cursor)] {
		sum.StreakDays++
		cursor = cursor.AddDate(0, 0, -1)
	}

	for cat, minutes := range byCategory {
		sum.Categories = append(sum.Categories, CategoryMinutes{Category: cat, Minutes: minutes})
	}
	sort.SliceStable(sum.Categories, func(i, j int) bool {
		if sum.Categories[i].Minutes != sum.Categories[j].Minutes {
			return sum.Categories[i].Minutes > sum.Categories[j].Minutes
		}
		return sum.Categories[i].Category < sum.Categories[j].Category
	})
	if len(sum.Categories) > 0 {
		sum.TopCategory = string(sum.Categories[0].Category)
	}

	// Last seven days, oldest first.
	sum.Trend = make([]DayEffort, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		key := dayKey(d)
		entry := DayEffort{Label: d.Format("Mon")}
		for _, l := range logs {
			if millisToDay(l.CreatedAt, loc) == key {
				entry.Minutes += l.TimeSpent
				entry.Count++
			}
		}
		sum.Trend = append(sum.Trend, entry)
	}

	display := SortForDisplay(logs)
	if len(display) > 5 {
		display = display[:5]
	}
	sum.Recent = display
	return sum
}

// SplitHours breaks a minute total into whole hours and leftover minutes
// for display.
func SplitHours(minutes int) (int, int) {
	return minutes / 60, minutes % 60
}
