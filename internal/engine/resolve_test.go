package engine

import (
	"math/rand"
	"testing"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
)

func TestResolve_BlockedAndClean(t *testing.T) {
	// head is defended (20 - 10*0.3 = 17), chest is open (20).
	attacks := [2]battle.Zone{battle.ZoneHead, battle.ZoneChest}
	defenses := [3]battle.Zone{battle.ZoneHead, battle.ZoneStomach, battle.ZoneLegs}
	got := Resolve(attacks, defenses, 20, 10)
	if got != 37 {
		t.Fatalf("expected 37 damage, got %d", got)
	}
}

func TestResolve_ArmorFloorsAtZero(t *testing.T) {
	// Both attacks blocked; 20 - 100*0.3 < 0 floors each contribution at 0.
	attacks := [2]battle.Zone{battle.ZoneHead, battle.ZoneChest}
	defenses := [3]battle.Zone{battle.ZoneHead, battle.ZoneChest, battle.ZoneLegs}
	got := Resolve(attacks, defenses, 20, 100)
	if got != 0 {
		t.Fatalf("expected 0 damage, got %d", got)
	}
}

func TestResolve_ZeroBaseDamage(t *testing.T) {
	attacks := [2]battle.Zone{battle.ZoneHead, battle.ZoneChest}
	defenses := [3]battle.Zone{battle.ZoneStomach, battle.ZoneChest, battle.ZoneLegs}
	if got := Resolve(attacks, defenses, 0, 5); got != 0 {
		t.Fatalf("expected 0 damage with zero base damage, got %d", got)
	}
}

func TestResolve_RepeatedAttackZone(t *testing.T) {
	// Both attacks on the same open zone deal full damage twice.
	attacks := [2]battle.Zone{battle.ZoneLegs, battle.ZoneLegs}
	defenses := [3]battle.Zone{battle.ZoneHead, battle.ZoneChest, battle.ZoneStomach}
	if got := Resolve(attacks, defenses, 15, 50); got != 30 {
		t.Fatalf("expected 30 damage, got %d", got)
	}
}

func TestResolve_NeverNegative(t *testing.T) {
	defenses := [3]battle.Zone{battle.ZoneHead, battle.ZoneChest, battle.ZoneStomach}
	for baseDamage := 0; baseDamage <= 30; baseDamage += 5 {
		for armor := 0; armor <= 120; armor += 10 {
			got := Resolve([2]battle.Zone{battle.ZoneHead, battle.ZoneChest}, defenses, baseDamage, armor)
			if got < 0 {
				t.Fatalf("damage went negative (%d) for baseDamage=%d armor=%d", got, baseDamage, armor)
			}
			if got > 2*baseDamage {
				t.Fatalf("damage %d exceeds two clean hits for baseDamage=%d armor=%d", got, baseDamage, armor)
			}
		}
	}
}

func TestValidateActions(t *testing.T) {
	valid := battle.RoundActions{
		Attacks:  [2]battle.Zone{battle.ZoneHead, battle.ZoneChest},
		Defenses: [3]battle.Zone{battle.ZoneHead, battle.ZoneChest, battle.ZoneLegs},
	}
	if err := ValidateActions(valid, false); err != nil {
		t.Fatalf("valid actions rejected: %v", err)
	}

	back := valid
	back.Attacks[0] = battle.ZoneBack
	if err := ValidateActions(back, false); err != ErrBackAttackLocked {
		t.Fatalf("expected ErrBackAttackLocked, got %v", err)
	}
	if err := ValidateActions(back, true); err != nil {
		t.Fatalf("back attack with capability rejected: %v", err)
	}

	dup := valid
	dup.Defenses[2] = dup.Defenses[0]
	if err := ValidateActions(dup, false); err != ErrDuplicateDefense {
		t.Fatalf("expected ErrDuplicateDefense, got %v", err)
	}

	badDef := valid
	badDef.Defenses[1] = battle.ZoneBack
	if err := ValidateActions(badDef, false); err != ErrBadDefenseZone {
		t.Fatalf("expected ErrBadDefenseZone, got %v", err)
	}

	badAtk := valid
	badAtk.Attacks[1] = battle.Zone("tail")
	if err := ValidateActions(badAtk, false); err != ErrBadAttackZone {
		t.Fatalf("expected ErrBadAttackZone, got %v", err)
	}
}

func TestMonsterPolicy_GeneratesLegalActions(t *testing.T) {
	policy := NewMonsterPolicy(rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		a := policy.Generate()
		if err := ValidateActions(a, false); err != nil {
			t.Fatalf("monster policy produced illegal actions %+v: %v", a, err)
		}
		for _, atk := range a.Attacks {
			if atk == battle.ZoneBack {
				t.Fatalf("monster policy attacked the back zone")
			}
		}
	}
}
