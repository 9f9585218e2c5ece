package opt

import (
	"math"

	"tripagent/internal/model"
)

// HardLimits are fixed daily ceilings, distinct from the soft ScoreConfig
// budgets. Threaded as a parameter so tests can override them.
type HardLimits struct {
	MaxDailyKm      float64
	MaxDailyMinutes map[model.TransportMode]float64
}

func DefaultHardLimits() HardLimits {
	return HardLimits{
		MaxDailyKm: 6.0,
		MaxDailyMinutes: map[model.TransportMode]float64{
			model.Walk:    240,
			model.Transit: 300,
			model.Taxi:    360,
		},
	}
}

// Violation reports one day over a hard cap.
type Violation struct {
	Day      int     `json:"day"`
	Measured float64 `json:"measured"`
	Limit    float64 `json:"limit"`
}

// CheckDailyDistance reports each day whose route length exceeds the km cap.
func CheckDailyDistance(it *model.Itinerary, lim HardLimits) []Violation {
	var out []Violation
	for _, day := range it.Days {
		total := RouteKm(day.Spots)
		if total > lim.MaxDailyKm {
			out = append(out, Violation{Day: day.Day, Measured: round2(total), Limit: lim.MaxDailyKm})
		}
	}
	return out
}

// CheckDailyTime reports each day whose travel time under mode exceeds the
// per-mode minute cap.
func CheckDailyTime(it *model.Itinerary, mode model.TransportMode, lim HardLimits) []Violation {
	limit := lim.MaxDailyMinutes[mode]
	var out []Violation
	for _, day := range it.Days {
		total := RouteMinutes(day.Spots, mode)
		if total > limit {
			out = append(out, Violation{Day: day.Day, Measured: round1(total), Limit: limit})
		}
	}
	return out
}

// Repair relocates spots out of distance-violating days, in place. For each
// violating day with more than one spot it pops the last spot of the route
// and appends it to the other non-empty day whose current last spot is
// nearest (first day wins on ties). A spot with no eligible destination is
// returned in the dropped slice rather than silently lost. A single pass is
// not guaranteed to converge; callers re-run CheckDailyDistance afterward.
// Destination routes are not reordered here.
func Repair(it *model.Itinerary, lim HardLimits) []model.Spot {
	violations := CheckDailyDistance(it, lim)
	var dropped []model.Spot

	for _, v := range violations {
		day := &it.Days[v.Day-1]
		if len(day.Spots) <= 1 {
			continue
		}
		moved := day.Spots[len(day.Spots)-1]
		day.Spots = day.Spots[:len(day.Spots)-1]

		target := -1
		minDist := math.MaxFloat64
		for i := range it.Days {
			other := &it.Days[i]
			if other.Day == day.Day || len(other.Spots) == 0 {
				continue
			}
			if d := Distance(moved, other.Spots[len(other.Spots)-1]); d < minDist {
				minDist = d
				target = i
			}
		}
		if target >= 0 {
			it.Days[target].Spots = append(it.Days[target].Spots, moved)
		} else {
			dropped = append(dropped, moved)
		}
	}
	return dropped
}
