package report

import "github.com/Veraticus/hotelpro/internal/model"

// Summary is everything the dashboard renders for one set of records.
type Summary struct {
	Daily          []DailyRevenue  `json:"daily"`
	RoomTypes      []RoomTypeCount `json:"roomTypes"`
	TotalRevenue   float64         `json:"totalRevenue"`
	TargetRevenue  float64         `json:"targetRevenue"`
	Occupancy      float64         `json:"occupancy"`
	GoalCompletion float64         `json:"goalCompletion"`
	GoalProgress   float64         `json:"goalProgress"`
	SoldRooms      int             `json:"soldRooms"`
	DistinctDays   int             `json:"distinctDays"`
	TotalRooms     int             `json:"totalRooms"`
	HasOccupancy   bool            `json:"hasOccupancy"`
	Empty          bool            `json:"empty"`
}

// Summarize computes all metrics and series for records.
func Summarize(records []model.SalesRecord, totalRooms int, targetRevenue float64) Summary {
	total := TotalRevenue(records)
	days := DistinctDays(records)
	occupancy, ok := OccupancyRate(records, totalRooms, days)
	completion := GoalCompletionRate(total, targetRevenue)

	return Summary{
		TotalRevenue:   total,
		TargetRevenue:  targetRevenue,
		SoldRooms:      len(records),
		DistinctDays:   days,
		TotalRooms:     totalRooms,
		Occupancy:      occupancy,
		HasOccupancy:   ok,
		GoalCompletion: completion,
		GoalProgress:   GoalProgress(completion),
		Daily:          DailyRevenueSeries(records),
		RoomTypes:      RoomTypeDistribution(records),
		Empty:          len(records) == 0,
	}
}

// SummarizeDefault uses the hotel's fixed room inventory and revenue target.
func SummarizeDefault(records []model.SalesRecord) Summary {
	return Summarize(records, TotalRooms, TargetRevenue)
}
