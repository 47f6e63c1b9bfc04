package simulation

import (
	"math"
	"math/rand"
	"sync"
)

// Params are the score-model tunables. Only monotonicity and boundedness
// are load-bearing: a stronger side always gets a higher goal expectation,
// and expectations saturate so mismatches stay plausible.
type Params struct {
	// BaseExpectedGoals is the per-side expectation for two equal sides.
	BaseExpectedGoals float64
	// HomeAdvantage is added to the home side's expectation.
	HomeAdvantage float64
	// StrengthScale bounds how many extra (or fewer) expected goals the
	// strength gap can contribute.
	StrengthScale float64
	// StrengthSpread is the rating gap at which the contribution reaches
	// tanh(1) of its bound, giving diminishing returns beyond it.
	StrengthSpread float64
	// MinExpectedGoals keeps even hopeless sides capable of scoring.
	MinExpectedGoals float64
	// MaxGoals hard-caps a side's goals in one match.
	MaxGoals int
}

func DefaultParams() Params {
	return Params{
		BaseExpectedGoals: 1.25,
		HomeAdvantage:     0.25,
		StrengthScale:     0.90,
		StrengthSpread:    25,
		MinExpectedGoals:  0.15,
		MaxGoals:          9,
	}
}

func (p Params) normalized() Params {
	defaults := DefaultParams()
	if p.BaseExpectedGoals <= 0 {
		p.BaseExpectedGoals = defaults.BaseExpectedGoals
	}
	if p.HomeAdvantage < 0 {
		p.HomeAdvantage = defaults.HomeAdvantage
	}
	if p.StrengthScale <= 0 {
		p.StrengthScale = defaults.StrengthScale
	}
	if p.StrengthSpread <= 0 {
		p.StrengthSpread = defaults.StrengthSpread
	}
	if p.MinExpectedGoals <= 0 {
		p.MinExpectedGoals = defaults.MinExpectedGoals
	}
	if p.MaxGoals < 1 {
		p.MaxGoals = defaults.MaxGoals
	}
	return p
}

// Score is one simulated final score.
type Score struct {
	Home int
	Away int
}

// Engine draws match scores from team strengths. Safe for concurrent use;
// the gameweek batch simulator shares one engine across its workers.
type Engine struct {
	params Params

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine builds an engine seeded for reproducible draws. Callers that
// want wall-clock randomness pass a time-derived seed.
func NewEngine(params Params, seed int64) *Engine {
	return &Engine{
		params: params.normalized(),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Simulate draws a final score for home vs away strength (roster-rating
// scale, roughly 0..100).
func (e *Engine) Simulate(homeStrength, awayStrength float64) Score {
	homeXG := e.expectedGoals(homeStrength, awayStrength, true)
	awayXG := e.expectedGoals(awayStrength, homeStrength, false)

	e.mu.Lock()
	home := drawGoals(e.rng, homeXG, e.params.MaxGoals)
	away := drawGoals(e.rng, awayXG, e.params.MaxGoals)
	e.mu.Unlock()

	return Score{Home: home, Away: away}
}

// expectedGoals maps the strength differential through tanh so the edge a
// stronger side gains saturates instead of growing without bound.
func (e *Engine) expectedGoals(own, opponent float64, home bool) float64 {
	xg := e.params.BaseExpectedGoals
	xg += e.params.StrengthScale * math.Tanh((own-opponent)/e.params.StrengthSpread)
	if home {
		xg += e.params.HomeAdvantage
	}
	if xg < e.params.MinExpectedGoals {
		xg = e.params.MinExpectedGoals
	}

	return xg
}

// drawGoals samples a Poisson variate (Knuth's product method) capped at
// maxGoals. The cap keeps scorelines inside plausible football territory.
func drawGoals(rng *rand.Rand, lambda float64, maxGoals int) int {
	threshold := math.Exp(-lambda)
	product := rng.Float64()
	goals := 0
	for product > threshold && goals < maxGoals {
		goals++
		product *= rng.Float64()
	}

	return goals
}
