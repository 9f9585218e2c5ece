package opt

import (
	"math"
	"math/rand"

	"tripagent/internal/model"
)

const (
	// DefaultTrials is the trial budget applied by callers when the request
	// leaves it unset.
	DefaultTrials = 200

	// defaultSeed keeps repeated runs on identical input bit-identical.
	// Reproducibility matters more than variety here.
	defaultSeed = 42

	moveProbability = 0.6
)

// AcceptancePolicy decides whether a scored candidate replaces the current
// walk position. Swapping the policy does not touch the mutation operators.
type AcceptancePolicy interface {
	Accept(candidate, best float64, rng *rand.Rand) bool
}

// StrictImprovement is the default: accept only strictly better candidates.
// A pure ascent with no escape from local optima.
type StrictImprovement struct{}

func (StrictImprovement) Accept(candidate, best float64, _ *rand.Rand) bool {
	return candidate < best
}

// Annealing occasionally accepts worse candidates with probability
// exp(-delta/temp), cooling each call.
type Annealing struct {
	Temp    float64
	Cooling float64
}

func (a *Annealing) Accept(candidate, best float64, rng *rand.Rand) bool {
	if a.Temp <= 0 {
		a.Temp = 1
	}
	cool := a.Cooling
	if cool <= 0 || cool >= 1 {
		cool = 0.995
	}
	delta := candidate - best
	ok := delta < 0 || rng.Float64() < math.Exp(-delta/(a.Temp+1e-9))
	a.Temp *= cool
	return ok
}

// PlanOptions configures a planning run. Zero values mean: distance costing,
// DefaultScoreConfig, round-robin partition, strict-improvement acceptance,
// fixed default seed. Trials is taken literally; Trials=0 returns the seed
// itinerary unchanged.
type PlanOptions struct {
	Days       int
	Trials     int
	Seed       int64
	Mode       model.TransportMode
	Config     ScoreConfig
	Strategy   PartitionStrategy
	Acceptance AcceptancePolicy
}

// Metrics records what a planning run did, for the admin surface.
type Metrics struct {
	Trials        int     `json:"trials"`
	Moves         int     `json:"moves"`
	Swaps         int     `json:"swaps"`
	Noops         int     `json:"noops"`
	Improvements  int     `json:"improvements"`
	AcceptedWorse int     `json:"acceptedWorse"`
	SeedScore     float64 `json:"seedScore"`
	BestScore     float64 `json:"bestScore"`
}

// Result is the outcome of Plan.
type Result struct {
	Itinerary *model.Itinerary
	Score     float64
	Reasons   []string
	Metrics   Metrics
}

// Plan runs stochastic hill-climbing over move/swap mutations with a fixed
// trial budget: seed via BuildInitial, then per trial clone the current
// candidate, mutate it (move with probability 0.6, swap otherwise), rescore,
// and consult the acceptance policy. The best candidate observed is returned
// with its score and violation reasons. Deterministic for a fixed seed.
func Plan(city string, spots []model.Spot, o PlanOptions) (Result, error) {
	cfg := o.Config
	if cfg.MaxDailyKm == 0 && cfg.MaxDailyMinutes == nil {
		cfg = DefaultScoreConfig()
	}
	seed := o.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed))

	current, err := BuildInitial(city, spots, o.Days, BuildOptions{Mode: o.Mode, Strategy: o.Strategy})
	if err != nil {
		return Result{}, err
	}
	bestScore, bestReasons := Score(current, cfg)
	best := current.Clone()

	accept := o.Acceptance
	if accept == nil {
		accept = StrictImprovement{}
	}

	m := Metrics{SeedScore: bestScore, BestScore: bestScore}
	for i := 0; i < o.Trials; i++ {
		m.Trials++
		cand := current.Clone()
		var mutated bool
		if rng.Float64() < moveProbability {
			mutated = mutateMove(cand, o.Mode, rng)
			if mutated {
				m.Moves++
			}
		} else {
			mutated = mutateSwap(cand, o.Mode, rng)
			if mutated {
				m.Swaps++
			}
		}
		if !mutated {
			// no eligible day for this operator; not a failure
			m.Noops++
			continue
		}
		candScore, candReasons := Score(cand, cfg)
		if accept.Accept(candScore, bestScore, rng) {
			current = cand
			if candScore < bestScore {
				bestScore = candScore
				bestReasons = candReasons
				best = cand.Clone()
				m.Improvements++
				m.BestScore = candScore
			} else {
				m.AcceptedWorse++
			}
		}
	}

	// refresh the derived per-day totals on the returned copy
	Score(best, cfg)
	return Result{Itinerary: best, Score: bestScore, Reasons: bestReasons, Metrics: m}, nil
}

// mutateMove removes a uniformly random spot from a random day holding at
// least two and appends it to a random other day, then re-runs
// nearest-neighbor ordering on both affected days. The partition invariant
// holds throughout: the spot is never absent from or present in two days at
// any observable point.
func mutateMove(it *model.Itinerary, mode model.TransportMode, rng *rand.Rand) bool {
	if len(it.Days) < 2 {
		return false
	}
	var eligible []int
	for i := range it.Days {
		if len(it.Days[i].Spots) >= 2 {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return false
	}
	from := eligible[rng.Intn(len(eligible))]

	to := rng.Intn(len(it.Days) - 1)
	if to >= from {
		to++
	}

	src := &it.Days[from]
	dst := &it.Days[to]
	k := rng.Intn(len(src.Spots))
	moved := src.Spots[k]
	src.Spots = append(src.Spots[:k], src.Spots[k+1:]...)
	dst.Spots = append(dst.Spots, moved)

	reorderDay(src, mode)
	reorderDay(dst, mode)
	return true
}

// mutateSwap exchanges a uniformly random spot between two distinct random
// non-empty days, then re-runs nearest-neighbor ordering on both.
func mutateSwap(it *model.Itinerary, mode model.TransportMode, rng *rand.Rand) bool {
	var eligible []int
	for i := range it.Days {
		if len(it.Days[i].Spots) >= 1 {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) < 2 {
		return false
	}
	a := rng.Intn(len(eligible))
	b := rng.Intn(len(eligible) - 1)
	if b >= a {
		b++
	}
	da := &it.Days[eligible[a]]
	db := &it.Days[eligible[b]]

	i := rng.Intn(len(da.Spots))
	j := rng.Intn(len(db.Spots))
	da.Spots[i], db.Spots[j] = db.Spots[j], da.Spots[i]

	reorderDay(da, mode)
	reorderDay(db, mode)
	return true
}

func reorderDay(day *model.DayPlan, mode model.TransportMode) {
	day.Spots = nearestNeighborPath(day.Spots, mode)
	day.TotalDistanceKm = round2(RouteKm(day.Spots))
}
