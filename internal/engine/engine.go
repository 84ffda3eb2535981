package engine

import (
	"math/rand"

	"github.com/pdamaso/cityfall/internal/game"
)

// Rand is the randomness seam. Production code uses the math/rand default;
// tests inject seeded sources so traitor rolls and target attempts are
// deterministic.
type Rand interface {
	Intn(n int) int
}

type defaultRand struct{}

func (defaultRand) Intn(n int) int { return rand.Intn(n) }

// TallyScorer derives the success chance of a target attempt from the state
// of the session and the target's node. It is a collaborator seam so the
// scoring rules can evolve independently of the resolver.
type TallyScorer interface {
	TargetChance(s *game.Session, t *game.Target, n *game.Node) int
}

// statScorer is the default scorer: the profile's base chance shifted by
// district support and security, clamped to [0, 100].
type statScorer struct {
	catalog *game.Catalog
}

func (sc statScorer) TargetChance(s *game.Session, t *game.Target, n *game.Node) int {
	chance := 50
	if p := sc.catalog.TargetProfileNamed(t.Profile); p != nil {
		chance = p.BaseChance
	}
	chance += n.Support * 10
	chance -= n.Security * 10
	if chance < 0 {
		chance = 0
	}
	if chance > 100 {
		chance = 100
	}
	return chance
}

// Engine is the turn and action resolution core. It holds no session state:
// every method operates on a caller-supplied *game.Session and leaves it in a
// consistent state. The engine is not safe for concurrent use on the same
// session; callers serialize access per session (see the service layer).
type Engine struct {
	catalog *game.Catalog
	tuning  game.Tuning
	rng     Rand
	scorer  TallyScorer
}

// New creates an engine over the given content catalog with the default
// randomness source and tally scorer.
func New(catalog *game.Catalog) *Engine {
	return &Engine{
		catalog: catalog,
		tuning:  catalog.Tuning,
		rng:     defaultRand{},
		scorer:  statScorer{catalog: catalog},
	}
}

// NewWithRand creates an engine with an injected randomness source.
func NewWithRand(catalog *game.Catalog, rng Rand) *Engine {
	e := New(catalog)
	e.rng = rng
	return e
}

// SetScorer overrides the target tally scorer.
func (en *Engine) SetScorer(sc TallyScorer) { en.scorer = sc }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
