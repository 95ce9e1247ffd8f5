package app

import (
	"math"
	"time"

	"facility_reports/internal/domain/report"
)

// DashboardStats are the admin dashboard counters. They are never stored; they are a
// function of the report collection and the current time.
type DashboardStats struct {
	ActiveIssues      int     `json:"activeIssues"`
	ResolvedToday     int     `json:"resolvedToday"`
	ResolvedYesterday int     `json:"resolvedYesterday"`
	TrendPercentage   float64 `json:"resolvedTrendPercentage"`
}

// ComputeStats derives the dashboard counters. It has no side effects.
func ComputeStats(reports []report.Report, now time.Time) DashboardStats {
	var stats DashboardStats
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	for _, r := range reports {
		switch r.Status {
		case report.StatusPending:
			stats.ActiveIssues++
		case report.StatusResolved:
			at := r.ResolutionTime().In(now.Location())
			switch {
			case !at.Before(today) && at.Before(tomorrow):
				stats.ResolvedToday++
			case !at.Before(yesterday) && at.Before(today):
				stats.ResolvedYesterday++
			}
		}
	}
	stats.TrendPercentage = trend(stats.ResolvedToday, stats.ResolvedYesterday)
	return stats
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// trend is the day-over-day change in resolutions, rounded to one decimal.
func trend(today, yesterday int) float64 {
	if yesterday == 0 {
		if today == 0 {
			return 0
		}
		return 100
	}
	pct := float64(today-yesterday) / float64(yesterday) * 100
	return math.Round(pct*10) / 10
}
