package report

import (
	"math"
	"testing"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func scenarioRecords() []model.SalesRecord {
	return []model.SalesRecord{
		{Date: day("2024-01-01"), RoomType: "Standard", Revenue: 100},
		{Date: day("2024-01-01"), RoomType: "Deluxe", Revenue: 200},
		{Date: day("2024-01-02"), RoomType: "Standard", Revenue: 150},
	}
}

func TestTotalRevenue(t *testing.T) {
	assert.Zero(t, TotalRevenue(nil))
	assert.Zero(t, TotalRevenue([]model.SalesRecord{}))
	assert.InDelta(t, 450, TotalRevenue(scenarioRecords()), 1e-9)
}

func TestTotalRevenue_OrderIndependent(t *testing.T) {
	records := scenarioRecords()
	reversed := make([]model.SalesRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	rotated := append(model.CloneRecords(records[1:]), records[0])

	want := TotalRevenue(records)
	assert.InDelta(t, want, TotalRevenue(reversed), 1e-9)
	assert.InDelta(t, want, TotalRevenue(rotated), 1e-9)
}

func TestOccupancyRate(t *testing.T) {
	tests := []struct {
		name    string
		records []model.SalesRecord
		rooms   int
		days    int
		want    float64
		wantOK  bool
	}{
		{name: "scenario", records: scenarioRecords(), rooms: 20, days: 2, want: 7.5, wantOK: true},
		{name: "no days", records: nil, rooms: 20, days: 0, want: 0, wantOK: false},
		{name: "no rooms", records: scenarioRecords(), rooms: 0, days: 2, want: 0, wantOK: false},
		{name: "full house", records: make([]model.SalesRecord, 20), rooms: 20, days: 1, want: 100, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OccupancyRate(tt.records, tt.rooms, tt.days)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got))
			assert.False(t, math.IsInf(got, 0))
		})
	}
}

func TestGoalCompletion(t *testing.T) {
	assert.InDelta(t, 45, GoalCompletionRate(450_000, TargetRevenue), 1e-9)
	assert.InDelta(t, 150, GoalCompletionRate(1_500_000, TargetRevenue), 1e-9)
	assert.Zero(t, GoalCompletionRate(0, TargetRevenue))
	assert.Zero(t, GoalCompletionRate(100, 0))

	assert.InDelta(t, 100, GoalProgress(150), 1e-9)
	assert.InDelta(t, 0, GoalProgress(-5), 1e-9)
	assert.InDelta(t, 42.5, GoalProgress(42.5), 1e-9)
}

func TestDailyRevenueSeries(t *testing.T) {
	records := []model.SalesRecord{
		{Date: day("2024-01-03"), RoomType: "Suite", Revenue: 500},
		{Date: day("2024-01-01"), RoomType: "Standard", Revenue: 100},
		{Date: day("2024-01-03").Add(15 * time.Hour), RoomType: "Standard", Revenue: 80},
		{Date: day("2024-01-02"), RoomType: "Deluxe", Revenue: 200},
		{Date: day("2024-01-01"), RoomType: "Deluxe", Revenue: 250},
	}

	series := DailyRevenueSeries(records)
	require.Len(t, series, 3)

	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Date.Before(series[i].Date), "series must be ascending")
	}

	want := map[string]float64{"2024-01-01": 350, "2024-01-02": 200, "2024-01-03": 580}
	var seriesTotal float64
	for _, point := range series {
		assert.InDelta(t, want[model.DayKey(point.Date)], point.Revenue, 1e-9)
		seriesTotal += point.Revenue
	}
	assert.InDelta(t, TotalRevenue(records), seriesTotal, 1e-9)

	assert.Empty(t, DailyRevenueSeries(nil))
}

func TestRoomTypeDistribution(t *testing.T) {
	records := []model.SalesRecord{
		{Date: day("2024-01-01"), RoomType: "Standard"},
		{Date: day("2024-01-01"), RoomType: "Deluxe"},
		{Date: day("2024-01-02"), RoomType: "Suite"},
		{Date: day("2024-01-02"), RoomType: "Deluxe"},
		{Date: day("2024-01-03"), RoomType: "Standard"},
		{Date: day("2024-01-03"), RoomType: "Deluxe"},
	}

	got := RoomTypeDistribution(records)
	assert.Equal(t, []RoomTypeCount{
		{RoomType: "Deluxe", Count: 3},
		{RoomType: "Standard", Count: 2},
		{RoomType: "Suite", Count: 1},
	}, got)

	assert.Empty(t, RoomTypeDistribution(nil))
}

func TestSummarize_Scenario(t *testing.T) {
	s := Summarize(scenarioRecords(), 20, TargetRevenue)

	assert.False(t, s.Empty)
	assert.InDelta(t, 450, s.TotalRevenue, 1e-9)
	assert.Equal(t, 3, s.SoldRooms)
	assert.Equal(t, 2, s.DistinctDays)
	assert.True(t, s.HasOccupancy)
	assert.InDelta(t, 7.5, s.Occupancy, 1e-9)
	assert.InDelta(t, 0.045, s.GoalCompletion, 1e-9)
	assert.Equal(t, []DailyRevenue{
		{Date: day("2024-01-01"), Revenue: 300},
		{Date: day("2024-01-02"), Revenue: 150},
	}, s.Daily)
}

func TestSummarize_Empty(t *testing.T) {
	s := SummarizeDefault(nil)

	assert.True(t, s.Empty)
	assert.Zero(t, s.TotalRevenue)
	assert.Zero(t, s.GoalCompletion)
	assert.Zero(t, s.GoalProgress)
	assert.False(t, s.HasOccupancy)
	assert.False(t, math.IsNaN(s.Occupancy))
	assert.Equal(t, TotalRooms, s.TotalRooms)
	assert.InDelta(t, float64(TargetRevenue), s.TargetRevenue, 1e-9)
}
