// Package report computes the dashboard's aggregate metrics and chart series from sales records.
//
// Every function is a pure computation over the loaded records and is re-run on each render.
package report

import (
	"sort"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
)

const (
	// TotalRooms is the hotel's room inventory per night.
	TotalRooms = 20
	// TargetRevenue is the monthly revenue goal.
	TargetRevenue = 1_000_000
)

// DailyRevenue is one point of the daily revenue line chart.
type DailyRevenue struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

// RoomTypeCount is one slice of the room type ring chart.
type RoomTypeCount struct {
	RoomType string `json:"roomType"`
	Count    int    `json:"count"`
}

// TotalRevenue sums revenue across all records.
func TotalRevenue(records []model.SalesRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Revenue
	}
	return total
}

// DistinctDays counts the calendar days present in records.
func DistinctDays(records []model.SalesRecord) int {
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		days[model.DayKey(r.Date)] = struct{}{}
	}
	return len(days)
}

// OccupancyRate returns sold rooms over available room-nights as a percentage.
// The second result is false when there is nothing to divide by; the rate is then 0.
func OccupancyRate(records []model.SalesRecord, totalRoomsPerDay, distinctDateCount int) (float64, bool) {
	if distinctDateCount <= 0 || totalRoomsPerDay <= 0 {
		return 0, false
	}
	return float64(len(records)) / float64(distinctDateCount*totalRoomsPerDay) * 100, true
}

// GoalCompletionRate returns revenue as a percentage of target. It is not clamped.
func GoalCompletionRate(totalRevenue, targetRevenue float64) float64 {
	if targetRevenue <= 0 {
		return 0
	}
	return totalRevenue / targetRevenue * 100
}

// GoalProgress clamps a completion rate to [0, 100] for the progress bar.
func GoalProgress(rate float64) float64 {
	switch {
	case rate < 0:
		return 0
	case rate > 100:
		return 100
	default:
		return rate
	}
}

// DailyRevenueSeries sums revenue per calendar day, oldest day first.
func DailyRevenueSeries(records []model.SalesRecord) []DailyRevenue {
	sums := make(map[string]*DailyRevenue)
	for _, r := range records {
		key := model.DayKey(r.Date)
		point, ok := sums[key]
		if !ok {
			point = &DailyRevenue{Date: model.Day(r.Date)}
			sums[key] = point
		}
		point.Revenue += r.Revenue
	}

	series := make([]DailyRevenue, 0, len(sums))
	for _, point := range sums {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// RoomTypeDistribution counts records per room type, most sold first.
// Ties keep the order in which the room type first appeared.
func RoomTypeDistribution(records []model.SalesRecord) []RoomTypeCount {
	index := make(map[string]int)
	var counts []RoomTypeCount
	for _, r := range records {
		i, ok := index[r.RoomType]
		if !ok {
			i = len(counts)
			index[r.RoomType] = i
			counts = append(counts, RoomTypeCount{RoomType: r.RoomType})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
