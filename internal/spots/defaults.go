package spots

import "tripagent/internal/model"

// Per-category defaults for spot fields the scrapers leave empty.
var (
	defaultDurations = map[string]int{
		"outdoor":  60,
		"indoor":   90,
		"temple":   45,
		"shopping": 60,
		"museum":   90,
		"food":     60,
	}
	defaultRatings = map[string]float64{
		"outdoor":  4.2,
		"indoor":   4.3,
		"temple":   4.1,
		"shopping": 3.9,
		"museum":   4.5,
		"food":     4.0,
	}
	defaultDescriptions = map[string]string{
		"outdoor":  "Popular outdoor attraction with scenic views and good photo opportunities.",
		"indoor":   "Well-curated indoor spot; expect exhibits or sheltered activities.",
		"temple":   "Historic or religious site, usually quiet and culturally significant.",
		"shopping": "Shopping area with stores and local vendors; good for browsing.",
		"museum":   "High-quality museum with notable collections; allow more time.",
		"food":     "Recommended local food spot; good for meals and tasting local cuisine.",
	}
)

const (
	fallbackDuration    = 60
	fallbackRating      = 4.0
	fallbackDescription = "Popular attraction with local appeal."
)

// ApplyDefaults fills missing duration, rating, and description from the
// per-category tables, in place. Returns how many spots were changed.
func ApplyDefaults(list []model.Spot) int {
	changed := 0
	for i := range list {
		s := &list[i]
		touched := false
		if s.DurationMinutes == 0 {
			if d, ok := defaultDurations[s.Category]; ok {
				s.DurationMinutes = d
			} else {
				s.DurationMinutes = fallbackDuration
			}
			touched = true
		}
		if s.Rating == 0 {
			if r, ok := defaultRatings[s.Category]; ok {
				s.Rating = r
			} else {
				s.Rating = fallbackRating
			}
			touched = true
		}
		if s.Description == "" {
			if d, ok := defaultDescriptions[s.Category]; ok {
				s.Description = d
			} else {
				s.Description = fallbackDescription
			}
			touched = true
		}
		if touched {
			changed++
		}
	}
	return changed
}
