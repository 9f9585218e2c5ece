package spots

import (
	"fmt"
	"strings"

	"tripagent/internal/model"
)

// Report is the outcome of a data-quality audit over one city's spots.
type Report struct {
	Total int
	Clean int

	MissingFields       []string
	InvalidCoords       []string
	DuplicateLocations  []string
	SuspiciousNames     []string
	GenericDescriptions []string
	InvalidRatings      []string
	InvalidDurations    []string
}

func (r Report) Issues() int {
	return len(r.MissingFields) + len(r.InvalidCoords) + len(r.DuplicateLocations) +
		len(r.SuspiciousNames) + len(r.GenericDescriptions) + len(r.InvalidRatings) +
		len(r.InvalidDurations)
}

// Summary renders the report for the CLI.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d spots checked, %d clean, %d issues\n", r.Total, r.Clean, r.Issues())
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s (%d):\n", title, len(items))
		for _, it := range items {
			fmt.Fprintf(&b, "  - %s\n", it)
		}
	}
	section("missing fields", r.MissingFields)
	section("invalid coordinates", r.InvalidCoords)
	section("duplicate locations", r.DuplicateLocations)
	section("suspicious names", r.SuspiciousNames)
	section("generic descriptions", r.GenericDescriptions)
	section("invalid ratings", r.InvalidRatings)
	section("invalid durations", r.InvalidDurations)
	return b.String()
}

// Audit runs the data-quality checks over a city's spots: missing fields,
// out-of-range coordinates, duplicate locations on a 4-decimal grid,
// suspicious names, placeholder descriptions, and out-of-range
// ratings/durations.
func Audit(city string, list []model.Spot) Report {
	r := Report{Total: len(list)}
	seen := map[string]string{} // coordinate grid cell -> first spot name

	for i, s := range list {
		clean := true
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}

		if strings.TrimSpace(s.Name) == "" {
			r.MissingFields = append(r.MissingFields, fmt.Sprintf("%s: spot %s missing 'name'", city, name))
			clean = false
		}
		if s.Category == "" {
			r.MissingFields = append(r.MissingFields, fmt.Sprintf("%s: %s missing 'category'", city, name))
			clean = false
		}

		if s.Lat < -90 || s.Lat > 90 || s.Lon < -180 || s.Lon > 180 {
			r.InvalidCoords = append(r.InvalidCoords, fmt.Sprintf("%s: %s has invalid coordinates (%v, %v)", city, name, s.Lat, s.Lon))
			clean = false
		} else {
			cell := fmt.Sprintf("%.4f,%.4f", s.Lat, s.Lon)
			if first, dup := seen[cell]; dup {
				r.DuplicateLocations = append(r.DuplicateLocations, fmt.Sprintf("%s: (%v, %v) shared by %s and %s", city, s.Lat, s.Lon, first, name))
				clean = false
			} else {
				seen[cell] = name
			}
		}

		if strings.ContainsAny(s.Name, `"\`) {
			r.SuspiciousNames = append(r.SuspiciousNames, fmt.Sprintf("%s: suspicious name %q", city, s.Name))
			clean = false
		}

		if d := strings.TrimSpace(s.Description); d != "" && isPlaceholder(d) {
			r.GenericDescriptions = append(r.GenericDescriptions, fmt.Sprintf("%s: %s has a placeholder description", city, name))
			clean = false
		}

		if s.Rating != 0 && (s.Rating < 1 || s.Rating > 5) {
			r.InvalidRatings = append(r.InvalidRatings, fmt.Sprintf("%s: %s rating %v out of range", city, name, s.Rating))
			clean = false
		}
		if s.DurationMinutes < 0 {
			r.InvalidDurations = append(r.InvalidDurations, fmt.Sprintf("%s: %s duration %d is negative", city, name, s.DurationMinutes))
			clean = false
		}

		if clean {
			r.Clean++
		}
	}
	return r
}

func isPlaceholder(desc string) bool {
	lower := strings.ToLower(desc)
	for _, p := range []string{"todo", "tbd", "lorem ipsum", "placeholder", "description here"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
