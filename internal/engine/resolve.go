package engine

import (
	"errors"
	"math"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
)

// armorFactor is the fraction of armor subtracted from a blocked hit.
const armorFactor = 0.3

var (
	ErrBadAttackZone    = errors.New("attack targets an unknown zone")
	ErrBadDefenseZone   = errors.New("defense targets a non-defendable zone")
	ErrDuplicateDefense = errors.New("defended zones must be distinct")
	ErrBackAttackLocked = errors.New("back attack requires the back-attack capability")
)

// Resolve computes the damage one actor deals in a single exchange.
// Each of the two attacks lands either blocked (the zone is among the three
// defended ones) or clean. A blocked hit is reduced by a fraction of the
// defender's armor and never goes negative; a clean hit deals baseDamage in
// full. Contributions are floored per attack and summed.
//
// Resolve is pure and symmetric: both PvE and PvP call it once per
// direction per round.
func Resolve(attacks [battle.AttackCount]battle.Zone, defenses [battle.DefenseCount]battle.Zone, baseDamage, armor int) int {
	total := 0
	for _, atk := range attacks {
		blocked := false
		for _, def := range defenses {
			if atk == def {
				blocked = true
				break
			}
		}
		if blocked {
			reduced := math.Floor(float64(baseDamage) - float64(armor)*armorFactor)
			if reduced > 0 {
				total += int(reduced)
			}
		} else {
			total += baseDamage
		}
	}
	return total
}

// ValidateActions checks a submitted action set against the zone rules:
// both attacks must target attackable zones (the back zone only with the
// capability unlocked) and the three defenses must be distinct zones drawn
// from the defendable set.
func ValidateActions(a battle.RoundActions, backUnlocked bool) error {
	for _, atk := range a.Attacks {
		if atk == battle.ZoneBack && !backUnlocked {
			return ErrBackAttackLocked
		}
		if !battle.Attackable(atk, backUnlocked) {
			return ErrBadAttackZone
		}
	}
	seen := make(map[battle.Zone]struct{}, battle.DefenseCount)
	for _, def := range a.Defenses {
		if !battle.Defendable(def) {
			return ErrBadDefenseZone
		}
		if _, dup := seen[def]; dup {
			return ErrDuplicateDefense
		}
		seen[def] = struct{}{}
	}
	return nil
}
