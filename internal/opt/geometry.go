package opt

import (
	"math"

	"tripagent/internal/model"
)

// kmPerDegree is the flat-earth scale factor: one degree of latitude (and,
// approximately, longitude at mid latitudes) spans ~111 km. Good enough for
// intra-city spans; road-network distances are out of scope.
const kmPerDegree = 111.0

var (
	modeSpeedKph = map[model.TransportMode]float64{
		model.Walk:    5,
		model.Transit: 30,
		model.Taxi:    35,
	}
	// per-leg fixed overhead in minutes; transit carries a wait time
	modeOverheadMin = map[model.TransportMode]float64{
		model.Walk:    0,
		model.Transit: 5,
		model.Taxi:    0,
	}
)

// Distance returns the flat Euclidean distance between two spots in km.
// Symmetric, zero iff the coordinates are equal.
func Distance(a, b model.Spot) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat+dLon*dLon) * kmPerDegree
}

// TravelCost converts the leg distance to minutes under the given mode:
// distance/speed plus the mode's fixed overhead. Monotonic in distance for a
// fixed mode. Mode must be one of the parsed TransportMode values.
func TravelCost(a, b model.Spot, mode model.TransportMode) float64 {
	d := Distance(a, b)
	return d/modeSpeedKph[mode]*60 + modeOverheadMin[mode]
}

// legCost is the nearest-neighbor ordering key: travel minutes when a mode is
// set, plain distance otherwise.
func legCost(a, b model.Spot, mode model.TransportMode) float64 {
	if mode == "" {
		return Distance(a, b)
	}
	return TravelCost(a, b, mode)
}

// RouteKm sums the consecutive-leg distances of a visiting order.
func RouteKm(spots []model.Spot) float64 {
	total := 0.0
	for i := 0; i < len(spots)-1; i++ {
		total += Distance(spots[i], spots[i+1])
	}
	return total
}

// RouteMinutes sums the consecutive-leg travel minutes under a mode.
func RouteMinutes(spots []model.Spot, mode model.TransportMode) float64 {
	total := 0.0
	for i := 0; i < len(spots)-1; i++ {
		total += TravelCost(spots[i], spots[i+1], mode)
	}
	return total
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
