package engine

import (
	"math/rand"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
)

// ActionPolicy produces an opposing actor's zone choices for one round.
// The PvE monster policy is the only implementation; it keeps the session
// testable with a deterministic fake.
type ActionPolicy interface {
	Generate() battle.RoundActions
}

// MonsterPolicy draws zones uniformly at random from the defendable set.
// It is intentionally unintelligent: no reaction to player history, no
// back-zone access. Attack zones may repeat; defended zones are distinct so
// generated actions always satisfy the round shape.
type MonsterPolicy struct {
	rng *rand.Rand
}

// NewMonsterPolicy creates a policy backed by the given source. Pass a
// seeded source in tests for reproducible rounds.
func NewMonsterPolicy(rng *rand.Rand) *MonsterPolicy {
	return &MonsterPolicy{rng: rng}
}

func (p *MonsterPolicy) Generate() battle.RoundActions {
	var a battle.RoundActions
	for i := range a.Attacks {
		a.Attacks[i] = battle.DefendableZones[p.rng.Intn(len(battle.DefendableZones))]
	}
	perm := p.rng.Perm(len(battle.DefendableZones))
	for i := range a.Defenses {
		a.Defenses[i] = battle.DefendableZones[perm[i]]
	}
	return a
}
