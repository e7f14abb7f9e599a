package storage

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
)

// sampleRoomTypes lists the rooms the sample generator sells, with nightly price bounds.
var sampleRoomTypes = []struct {
	name     string
	min, max float64
}{
	{name: "Standard", min: 80_000, max: 120_000},
	{name: "Deluxe", min: 130_000, max: 180_000},
	{name: "Suite", min: 250_000, max: 400_000},
	{name: "Family", min: 150_000, max: 220_000},
}

// SampleRecords generates days of plausible sales ending on end, one record per room sold.
// At most maxRoomsPerDay rooms are sold on any day. The same rng seed yields the same data.
func SampleRecords(rng *rand.Rand, end time.Time, days, maxRoomsPerDay int) []model.SalesRecord {
	if days <= 0 || maxRoomsPerDay <= 0 {
		return nil
	}

	end = model.Day(end)
	var records []model.SalesRecord
	for d := days - 1; d >= 0; d-- {
		date := end.AddDate(0, 0, -d)
		sold := 1 + rng.IntN(maxRoomsPerDay)
		for range sold {
			room := sampleRoomTypes[rng.IntN(len(sampleRoomTypes))]
			price := room.min + rng.Float64()*(room.max-room.min)
			records = append(records, model.SalesRecord{
				Date:     date,
				RoomType: room.name,
				Revenue:  math.Round(price/1000) * 1000,
			})
		}
	}
	return records
}
