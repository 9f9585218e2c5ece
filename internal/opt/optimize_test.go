package opt

import (
	"math/rand"
	"reflect"
	"testing"

	"tripagent/internal/model"
)

// cityGrid is a 12-spot cluster with enough spread for mutations to matter.
func cityGrid() []model.Spot {
	var out []model.Spot
	for i := 0; i < 12; i++ {
		out = append(out, model.Spot{
			Name:     string(rune('a' + i)),
			Lat:      35.0 + float64(i%4)*0.015,
			Lon:      139.0 + float64(i/4)*0.02,
			Category: "sightseeing",
		})
	}
	return out
}

func TestPlanZeroTrialsEqualsSeed(t *testing.T) {
	spots := cityGrid()
	cfg := DefaultScoreConfig()
	res, err := Plan("tokyo", spots, PlanOptions{Days: 3, Trials: 0, Config: cfg})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	seed, err := BuildInitial("tokyo", spots, 3, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildInitial: %v", err)
	}
	seedScore, _ := Score(seed, cfg)
	if res.Score != seedScore {
		t.Fatalf("trials=0 score %v, want seed score %v", res.Score, seedScore)
	}
	if !reflect.DeepEqual(res.Itinerary, seed) {
		t.Fatalf("trials=0 must return the seed itinerary")
	}
}

func TestPlanDeterministic(t *testing.T) {
	spots := cityGrid()
	o := PlanOptions{Days: 3, Trials: 150}
	a, err := Plan("tokyo", spots, o)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	b, err := Plan("tokyo", spots, o)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if a.Score != b.Score {
		t.Fatalf("scores differ: %v vs %v", a.Score, b.Score)
	}
	if !reflect.DeepEqual(a.Itinerary, b.Itinerary) {
		t.Fatalf("itineraries differ across identical runs")
	}
	if !reflect.DeepEqual(a.Metrics, b.Metrics) {
		t.Fatalf("metrics differ: %+v vs %+v", a.Metrics, b.Metrics)
	}
}

func TestPlanScoreNonIncreasingInTrials(t *testing.T) {
	spots := cityGrid()
	prev := -1.0
	for _, trials := range []int{0, 25, 100, 400} {
		res, err := Plan("tokyo", spots, PlanOptions{Days: 3, Trials: trials})
		if err != nil {
			t.Fatalf("Plan(trials=%d): %v", trials, err)
		}
		if prev >= 0 && res.Score > prev+1e-9 {
			t.Fatalf("score increased with trials: %v -> %v", prev, res.Score)
		}
		prev = res.Score
	}
}

func TestPlanPreservesPartition(t *testing.T) {
	spots := cityGrid()
	res, err := Plan("tokyo", spots, PlanOptions{Days: 4, Trials: 300})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	samePartition(t, res.Itinerary, spots)
	if res.Metrics.Trials != 300 {
		t.Fatalf("trials recorded = %d", res.Metrics.Trials)
	}
	if res.Metrics.Moves+res.Metrics.Swaps+res.Metrics.Noops != 300 {
		t.Fatalf("operator counts don't add up: %+v", res.Metrics)
	}
}

func TestPlanBestNotAliasedByCurrent(t *testing.T) {
	spots := cityGrid()
	res, err := Plan("tokyo", spots, PlanOptions{Days: 3, Trials: 50})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	// mutating the returned itinerary and re-planning must not interfere
	res.Itinerary.Days[0].Spots = nil
	again, err := Plan("tokyo", spots, PlanOptions{Days: 3, Trials: 50})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	samePartition(t, again.Itinerary, spots)
}

func TestPlanDayCountContract(t *testing.T) {
	if _, err := Plan("tokyo", cityGrid(), PlanOptions{Days: 0, Trials: 10}); err == nil {
		t.Fatalf("days=0 must fail")
	}
}

func TestPlanNoEligibleMutationIsNoop(t *testing.T) {
	// a single spot on a single day: neither operator ever applies
	one := []model.Spot{spot("a", 35.0, 139.0)}
	res, err := Plan("tokyo", one, PlanOptions{Days: 1, Trials: 20})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if res.Metrics.Noops != 20 {
		t.Fatalf("noops = %d, want 20", res.Metrics.Noops)
	}
	if res.Itinerary.SpotCount() != 1 {
		t.Fatalf("spot count = %d", res.Itinerary.SpotCount())
	}
}

func TestMutateMovePreservesPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	it, err := BuildInitial("x", cityGrid(), 3, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildInitial: %v", err)
	}
	for i := 0; i < 200; i++ {
		mutateMove(it, "", rng)
		mutateSwap(it, "", rng)
		if it.SpotCount() != 12 {
			t.Fatalf("partition broken after %d mutations: %d spots", i, it.SpotCount())
		}
	}
	samePartition(t, it, cityGrid())
}

func TestAnnealingAcceptsWorseOccasionally(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := &Annealing{Temp: 10, Cooling: 0.99}
	worse := 0
	for i := 0; i < 1000; i++ {
		if a.Accept(5.0, 4.9, rng) {
			worse++
		}
	}
	if worse == 0 {
		t.Fatalf("annealing should accept some worse candidates at high temperature")
	}
	if !(StrictImprovement{}).Accept(4.8, 4.9, rng) {
		t.Fatalf("strict improvement must accept a better candidate")
	}
	if (StrictImprovement{}).Accept(4.9, 4.9, rng) {
		t.Fatalf("strict improvement must reject an equal candidate")
	}
}

func TestCloneIsDeep(t *testing.T) {
	it, err := BuildInitial("x", cityGrid(), 3, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildInitial: %v", err)
	}
	c := it.Clone()
	c.Days[0].Spots[0].Name = "mutated"
	if it.Days[0].Spots[0].Name == "mutated" {
		t.Fatalf("clone shares spot storage with the original")
	}
}
