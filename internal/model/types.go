package model

import "fmt"

// Spot is a single point of interest. Spots are loaded once per planning
// request and treated as read-only; identity is name+coordinates.
type Spot struct {
	Name            string  `json:"name"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	Category        string  `json:"category"` // outdoor / indoor / museum / temple / shopping / food / history / sightseeing / ...
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	Description     string  `json:"description,omitempty"`
}

// TransportMode selects the speed/overhead profile used for travel costing.
// The zero value means "no mode": costs fall back to plain distance.
type TransportMode string

const (
	Walk    TransportMode = "walk"
	Transit TransportMode = "transit"
	Taxi    TransportMode = "taxi"
)

func ParseTransportMode(s string) (TransportMode, error) {
	switch TransportMode(s) {
	case Walk, Transit, Taxi:
		return TransportMode(s), nil
	}
	return "", fmt.Errorf("invalid transport mode %q (must be one of: walk, transit, taxi)", s)
}

// DayPlan is one day of an itinerary. Spots is the visiting order.
// TotalDistanceKm is derived and refreshed on every scoring pass; it is not
// authoritative between passes.
type DayPlan struct {
	Day             int     `json:"day"`
	Spots           []Spot  `json:"spots"`
	TotalDistanceKm float64 `json:"total_distance_km"`
}

// Itinerary partitions all input spots into days plus per-day visiting order.
// Every input spot appears in exactly one day across the whole itinerary.
type Itinerary struct {
	City string    `json:"city"`
	Days []DayPlan `json:"days"`
}

// Clone returns a deep copy. Optimizer trials mutate a clone so the retained
// best candidate is never aliased by a rejected mutation.
func (it *Itinerary) Clone() *Itinerary {
	out := &Itinerary{City: it.City, Days: make([]DayPlan, len(it.Days))}
	for i, d := range it.Days {
		spots := make([]Spot, len(d.Spots))
		copy(spots, d.Spots)
		out.Days[i] = DayPlan{Day: d.Day, Spots: spots, TotalDistanceKm: d.TotalDistanceKm}
	}
	return out
}

// SpotCount returns the number of spots across all days.
func (it *Itinerary) SpotCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Spots)
	}
	return n
}

// AllSpots returns every spot across all days in day order.
func (it *Itinerary) AllSpots() []Spot {
	out := make([]Spot, 0, it.SpotCount())
	for _, d := range it.Days {
		out = append(out, d.Spots...)
	}
	return out
}

// ===== API wire types =====

// PlanRequest is the body of POST /v1/plan.
type PlanRequest struct {
	City          string         `json:"city"`
	Days          int            `json:"days,omitempty"`       // default 3
	Preference    string         `json:"preference,omitempty"` // walk / transit / taxi; empty = distance costing
	SelectedSpots []string       `json:"selected_spots,omitempty"`
	Trials        int            `json:"trials,omitempty"` // default 200
	StartDate     string         `json:"start_date,omitempty"`
	Config        *ScoreConfigIn `json:"config,omitempty"`
}

// ScoreConfigIn overrides individual scoring knobs; nil fields keep defaults.
type ScoreConfigIn struct {
	MaxDailyKm          *float64 `json:"max_daily_km,omitempty"`
	ExceedKmPenalty     *float64 `json:"exceed_km_penalty,omitempty"`
	ExceedMinutePenalty *float64 `json:"exceed_minute_penalty,omitempty"`
	OneSpotDayPenalty   *float64 `json:"one_spot_day_penalty,omitempty"`
	MinSpotsPerDay      *int     `json:"min_spots_per_day,omitempty"`
}

// PlanResponse is the data field of a successful plan call.
type PlanResponse struct {
	Score         float64   `json:"score"`
	Reasons       []string  `json:"reasons"`
	Itinerary     Itinerary `json:"itinerary"`
	WeatherAdvice []string  `json:"weather_advice,omitempty"`
}

// SaveRequest is the body of POST /v1/itineraries.
type SaveRequest struct {
	Itinerary  *Itinerary `json:"itinerary"`
	TTLDays    int        `json:"ttl_days,omitempty"` // default 30
	Persistent bool       `json:"persistent,omitempty"`
}

// SaveResponse describes a stored share record.
type SaveResponse struct {
	ShareID       string `json:"share_id"`
	ShareURL      string `json:"share_url"`
	CreatedAt     string `json:"created_at"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	ExpiresInDays int    `json:"expires_in_days,omitempty"`
}
