package battle

import "errors"

var (
	ErrAttackCount  = errors.New("exactly two attack zones are required")
	ErrDefenseCount = errors.New("exactly three defense zones are required")
)

// ActionsFromSlices converts client-submitted zone lists into a RoundActions
// value, enforcing the fixed round shape. Zone legality (defendable set,
// back-attack capability, distinct defenses) is checked separately by the
// engine.
func ActionsFromSlices(attacks, defenses []Zone) (RoundActions, error) {
	var a RoundActions
	if len(attacks) != AttackCount {
		return a, ErrAttackCount
	}
	if len(defenses) != DefenseCount {
		return a, ErrDefenseCount
	}
	copy(a.Attacks[:], attacks)
	copy(a.Defenses[:], defenses)
	return a, nil
}
