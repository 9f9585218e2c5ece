package opt

import "tripagent/internal/model"

// BalanceDay performs a single best-effort indoor/outdoor swap for the day at
// dayIdx (0-based): if the day holds an outdoor spot, the first indoor spot
// of the first other day that has one is exchanged with the day's first
// outdoor spot. Both spots are appended to their new day; route order is not
// otherwise preserved. Returns false (no mutation) when the day has no
// outdoor spot or no donor day exists.
func BalanceDay(it *model.Itinerary, dayIdx int) bool {
	if dayIdx < 0 || dayIdx >= len(it.Days) {
		return false
	}
	day := &it.Days[dayIdx]

	outIdx := -1
	for i, s := range day.Spots {
		if IsOutdoor(s) {
			outIdx = i
			break
		}
	}
	if outIdx < 0 {
		return false
	}

	for j := range it.Days {
		other := &it.Days[j]
		if other.Day == day.Day {
			continue
		}
		inIdx := -1
		for i, s := range other.Spots {
			if IsIndoor(s) {
				inIdx = i
				break
			}
		}
		if inIdx < 0 {
			continue
		}

		outSpot := day.Spots[outIdx]
		inSpot := other.Spots[inIdx]
		day.Spots = append(day.Spots[:outIdx], day.Spots[outIdx+1:]...)
		other.Spots = append(other.Spots[:inIdx], other.Spots[inIdx+1:]...)
		day.Spots = append(day.Spots, inSpot)
		other.Spots = append(other.Spots, outSpot)
		return true
	}
	return false
}

// Balance sweeps every day through BalanceDay and returns the number of swaps
// performed. This is the caller-side loop for a full best-effort rebalance.
func Balance(it *model.Itinerary) int {
	swaps := 0
	for i := range it.Days {
		if BalanceDay(it, i) {
			swaps++
		}
	}
	return swaps
}
