package opt

import (
	"errors"
	"sort"

	"tripagent/internal/model"
)

// ErrDayCount signals a caller contract violation (day count must be >= 1).
var ErrDayCount = errors.New("day count must be a positive integer")

// PartitionStrategy splits a spatially sorted spot sequence across days.
type PartitionStrategy interface {
	Name() string
	Split(spots []model.Spot, days int) [][]model.Spot
}

// RoundRobin assigns spot i to day i mod days: lossless, day sizes differ by
// at most one. This is the default strategy.
type RoundRobin struct{}

func (RoundRobin) Name() string { return "round_robin" }

func (RoundRobin) Split(spots []model.Spot, days int) [][]model.Spot {
	parts := make([][]model.Spot, days)
	for i, s := range spots {
		parts[i%days] = append(parts[i%days], s)
	}
	return parts
}

// Chunked is the legacy contiguous split: blocks of floor(n/days), with
// overflow chunks beyond the day count dropped. Lossy when days does not
// divide the spot count; kept for compatibility, not used by default.
type Chunked struct{}

func (Chunked) Name() string { return "chunked" }

func (Chunked) Split(spots []model.Spot, days int) [][]model.Spot {
	size := len(spots) / days
	if size < 1 {
		size = 1
	}
	var parts [][]model.Spot
	for i := 0; i < len(spots); i += size {
		end := i + size
		if end > len(spots) {
			end = len(spots)
		}
		parts = append(parts, spots[i:end])
	}
	if len(parts) > days {
		parts = parts[:days]
	}
	for len(parts) < days {
		parts = append(parts, nil)
	}
	return parts
}

// BuildOptions tunes construction. Zero value means distance-based costing
// and the round-robin partition.
type BuildOptions struct {
	Mode     model.TransportMode
	Strategy PartitionStrategy
}

// BuildInitial produces the seed itinerary: sort all spots by (lon, lat) as a
// cheap spatial locality proxy, partition across days, then order each day by
// nearest-neighbor chaining. An empty spot list yields all-empty days.
func BuildInitial(city string, spots []model.Spot, days int, opts BuildOptions) (*model.Itinerary, error) {
	if days <= 0 {
		return nil, ErrDayCount
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = RoundRobin{}
	}

	sorted := make([]model.Spot, len(spots))
	copy(sorted, spots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Lon != sorted[j].Lon {
			return sorted[i].Lon < sorted[j].Lon
		}
		return sorted[i].Lat < sorted[j].Lat
	})

	parts := strategy.Split(sorted, days)

	it := &model.Itinerary{City: city, Days: make([]model.DayPlan, days)}
	for i := 0; i < days; i++ {
		var part []model.Spot
		if i < len(parts) {
			part = parts[i]
		}
		ordered := nearestNeighborPath(part, opts.Mode)
		it.Days[i] = model.DayPlan{
			Day:             i + 1,
			Spots:           ordered,
			TotalDistanceKm: round2(RouteKm(ordered)),
		}
	}
	return it, nil
}

// nearestNeighborPath orders spots greedily: start from the first spot and
// repeatedly append the unvisited spot with the cheapest leg from the last
// appended one. Ties keep encounter order. O(n^2), fine for day-sized inputs.
func nearestNeighborPath(spots []model.Spot, mode model.TransportMode) []model.Spot {
	if len(spots) == 0 {
		return []model.Spot{}
	}
	unvisited := make([]model.Spot, len(spots))
	copy(unvisited, spots)

	path := make([]model.Spot, 0, len(spots))
	path = append(path, unvisited[0])
	unvisited = unvisited[1:]

	for len(unvisited) > 0 {
		last := path[len(path)-1]
		next := 0
		nextCost := legCost(last, unvisited[0], mode)
		for i := 1; i < len(unvisited); i++ {
			if c := legCost(last, unvisited[i], mode); c < nextCost {
				next = i
				nextCost = c
			}
		}
		path = append(path, unvisited[next])
		unvisited = append(unvisited[:next], unvisited[next+1:]...)
	}
	return path
}
