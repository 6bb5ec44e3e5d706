package battle

// Zone is one of the fixed body locations targeted by attacks and defenses.
// Using a dedicated type instead of plain string makes code safer and
// self-documenting.
type Zone string

const (
	ZoneHead    Zone = "head"
	ZoneChest   Zone = "chest"
	ZoneStomach Zone = "stomach"
	ZoneLegs    Zone = "legs"
	// ZoneBack can only be attacked by characters that unlocked the
	// back-attack capability. It can never be defended.
	ZoneBack Zone = "back"
)

// DefendableZones is the symmetric zone set every actor may defend (and
// attack). The back zone is deliberately excluded: it is attack-only.
var DefendableZones = []Zone{ZoneHead, ZoneChest, ZoneStomach, ZoneLegs}

const (
	// AttackCount and DefenseCount fix the shape of every round: two attack
	// picks against three distinct defended zones, so the defender always
	// leaves exactly one symmetric zone open.
	AttackCount  = 2
	DefenseCount = 3
)

// Defendable reports whether z belongs to the symmetric defendable set.
func Defendable(z Zone) bool {
	for _, d := range DefendableZones {
		if d == z {
			return true
		}
	}
	return false
}

// Attackable reports whether z is a legal attack target for an actor.
// The back zone requires the back-attack capability.
func Attackable(z Zone, backUnlocked bool) bool {
	if z == ZoneBack {
		return backUnlocked
	}
	return Defendable(z)
}
