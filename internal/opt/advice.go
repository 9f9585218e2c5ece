package opt

import (
	"fmt"
	"time"

	"tripagent/internal/model"
)

// Advice flags days whose routes are mostly outdoor so the caller can suggest
// checking the forecast for the concrete calendar date. Pure derivation from
// the classifier; no weather API is consulted here.
func Advice(it *model.Itinerary, start time.Time) []string {
	var out []string
	for _, day := range it.Days {
		if len(day.Spots) == 0 {
			continue
		}
		outdoor := 0
		for _, s := range day.Spots {
			if IsOutdoor(s) {
				outdoor++
			}
		}
		if outdoor*2 <= len(day.Spots) {
			continue
		}
		date := start.AddDate(0, 0, day.Day-1)
		out = append(out, fmt.Sprintf(
			"Day %d (%s): %d of %d spots are outdoor; check the weather forecast before heading out",
			day.Day, date.Format("2006-01-02"), outdoor, len(day.Spots)))
	}
	return out
}
