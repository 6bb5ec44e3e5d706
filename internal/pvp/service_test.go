package pvp

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/loot"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/reward"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"
)

// fakeStore records writes for assertions. A non-nil writeErr makes every
// write fail.
type fakeStore struct {
	snapshots map[uint]*storage.CharacterSnapshot
	writeErr  error

	goldByChar map[uint]int
	hpByChar   map[uint]int
	outcomes   map[uint]bool
	logs       []*storage.BattleLog
}

func newFakeStore(snaps ...*storage.CharacterSnapshot) *fakeStore {
	f := &fakeStore{
		snapshots:  make(map[uint]*storage.CharacterSnapshot),
		goldByChar: make(map[uint]int),
		hpByChar:   make(map[uint]int),
		outcomes:   make(map[uint]bool),
	}
	for _, s := range snaps {
		f.snapshots[s.CharacterID] = s
	}
	return f
}

func (f *fakeStore) GetCharacterSnapshot(id uint) (*storage.CharacterSnapshot, error) {
	if s, ok := f.snapshots[id]; ok {
		return s, nil
	}
	return nil, storage.ErrCharacterNotFound
}

func (f *fakeStore) SaveBattleLog(log *storage.BattleLog) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeStore) ApplyBattleRewards(characterID uint, goldDelta, expDelta int) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.goldByChar[characterID] += goldDelta
	return nil
}

func (f *fakeStore) ApplyLoot(characterID uint, drops []battle.LootDrop) error { return f.writeErr }

func (f *fakeStore) SetCurrentHP(characterID uint, hp int) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.hpByChar[characterID] = hp
	return nil
}

func (f *fakeStore) RecordBattleOutcome(characterID uint, won bool) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.outcomes[characterID] = won
	return nil
}

type recordedEvent struct {
	CharacterID uint
	Type        string
}

type fakeNotifier struct {
	events []recordedEvent
}

func (f *fakeNotifier) Notify(characterID uint, eventType string, payload interface{}) {
	f.events = append(f.events, recordedEvent{CharacterID: characterID, Type: eventType})
}

func snapshot(id uint, hp, damage, armor int) *storage.CharacterSnapshot {
	return &storage.CharacterSnapshot{
		CharacterID: id,
		HP:          hp,
		MaxHP:       hp,
		BaseDamage:  damage,
		BaseArmor:   armor,
	}
}

func newTestService(store *fakeStore, notifier Notifier) *Service {
	rewards := reward.NewApplier(store, loot.NewGenerator(nil, rand.New(rand.NewSource(1))), nil)
	return NewService(store, rewards, notifier, 50, time.Minute, 5*time.Minute)
}

var (
	openLegs = battle.RoundActions{
		Attacks:  [2]battle.Zone{battle.ZoneHead, battle.ZoneChest},
		Defenses: [3]battle.Zone{battle.ZoneHead, battle.ZoneChest, battle.ZoneStomach},
	}
	attackLegs = battle.RoundActions{
		Attacks:  [2]battle.Zone{battle.ZoneLegs, battle.ZoneLegs},
		Defenses: [3]battle.Zone{battle.ZoneHead, battle.ZoneChest, battle.ZoneStomach},
	}
)

func TestJoin_FIFOPairing(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 100, 10, 0), snapshot(3, 100, 10, 0))
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	r1, err := svc.Join(1)
	if err != nil || r1.Matched {
		t.Fatalf("first joiner must wait: %+v err=%v", r1, err)
	}
	if svc.QueueLen() != 1 {
		t.Fatalf("expected 1 queued, got %d", svc.QueueLen())
	}

	r2, err := svc.Join(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r2.Matched || r2.Match == nil {
		t.Fatalf("second joiner must create a match: %+v", r2)
	}
	if svc.QueueLen() != 0 {
		t.Fatalf("queue must drain on pairing, got %d", svc.QueueLen())
	}
	ids := [2]uint{r2.Match.Players[0].CharacterID, r2.Match.Players[1].CharacterID}
	if ids != [2]uint{1, 2} {
		t.Fatalf("expected the two longest-waiting characters paired in order, got %v", ids)
	}

	found := 0
	for _, e := range notifier.events {
		if e.Type == "match_found" {
			found++
		}
	}
	if found != 2 {
		t.Fatalf("expected match_found delivered to both players, got %d", found)
	}
}

func TestJoin_Idempotent(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 100, 10, 0))
	svc := newTestService(store, nil)

	first, _ := svc.Join(1)
	again, err := svc.Join(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Matched || again.Entry == nil || !again.Entry.JoinedAt.Equal(first.Entry.JoinedAt) {
		t.Fatalf("re-join must return the existing entry: %+v", again)
	}
	if svc.QueueLen() != 1 {
		t.Fatalf("re-join must not duplicate the entry, queue=%d", svc.QueueLen())
	}

	paired, _ := svc.Join(2)
	rejoin, err := svc.Join(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rejoin.Matched || rejoin.Match == nil || rejoin.Match.ID != paired.Match.ID {
		t.Fatalf("joining while matched must return the active match: %+v", rejoin)
	}
}

func TestLeave(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 100, 10, 0), snapshot(3, 100, 10, 0))
	svc := newTestService(store, nil)

	svc.Join(1)
	if !svc.Leave(1) {
		t.Fatalf("expected removal of queued character")
	}
	if svc.Leave(1) {
		t.Fatalf("second leave must be a no-op")
	}

	// Character 1 left, so 2 and 3 pair together.
	svc.Join(1)
	svc.Leave(1)
	svc.Join(2)
	r, _ := svc.Join(3)
	if !r.Matched {
		t.Fatalf("expected 2 and 3 to pair")
	}
	if svc.Leave(2) {
		t.Fatalf("leave must not remove a matched character")
	}
}

func TestSubmitActions_BarrierAndOverwrite(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 100, 10, 0))
	svc := newTestService(store, nil)
	svc.Join(1)
	r, _ := svc.Join(2)
	matchID := r.Match.ID

	// First submission waits for the opponent.
	result, resolved, err := svc.SubmitActions(matchID, 1, attackLegs)
	if err != nil || resolved || result != nil {
		t.Fatalf("round must not resolve with one submission: %+v resolved=%v err=%v", result, resolved, err)
	}

	// Re-submission before resolution overwrites, not double-applies.
	if _, resolved, err := svc.SubmitActions(matchID, 1, openLegs); err != nil || resolved {
		t.Fatalf("overwrite must not resolve: resolved=%v err=%v", resolved, err)
	}

	result, resolved, err = svc.SubmitActions(matchID, 2, attackLegs)
	if err != nil || !resolved {
		t.Fatalf("round must resolve once both submitted: resolved=%v err=%v", resolved, err)
	}
	// Player 1's effective actions are the overwrite: head and chest are
	// both defended by the opponent but armor 0 means blocked hits still
	// deal full 10+10 = 20. Player 2 attacks legs twice, undefended, for
	// 10+10 = 20.
	if result.Sides[0].DamageTaken != 20 || result.Sides[1].DamageTaken != 20 {
		t.Fatalf("unexpected damage: %+v", result.Sides)
	}
	if result.Sides[0].HP != 80 || result.Sides[1].HP != 80 {
		t.Fatalf("unexpected HP: %+v", result.Sides)
	}
	if result.Finished {
		t.Fatalf("match must continue above zero HP")
	}

	view, _ := svc.GetMatch(matchID)
	if view.Round != 2 {
		t.Fatalf("round counter must advance, got %d", view.Round)
	}
	if view.Players[0].Submitted || view.Players[1].Submitted {
		t.Fatalf("pending slots must clear after resolution")
	}
}

func TestSubmitActions_Validation(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 100, 10, 0))
	svc := newTestService(store, nil)
	svc.Join(1)
	r, _ := svc.Join(2)

	if _, _, err := svc.SubmitActions("missing", 1, openLegs); err != ErrMatchNotFound {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
	if _, _, err := svc.SubmitActions(r.Match.ID, 99, openLegs); err != ErrNotInMatch {
		t.Fatalf("expected ErrNotInMatch, got %v", err)
	}
	bad := openLegs
	bad.Defenses[1] = bad.Defenses[0]
	if _, _, err := svc.SubmitActions(r.Match.ID, 1, bad); err == nil {
		t.Fatalf("expected duplicate-defense rejection")
	}
}

func TestSubmitActions_SimultaneousDamageAndWinner(t *testing.T) {
	// Character 2 hits hard enough to kill; character 1 does not.
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 30, 60, 0))
	svc := newTestService(store, nil)
	svc.Join(1)
	r, _ := svc.Join(2)
	matchID := r.Match.ID

	svc.SubmitActions(matchID, 1, attackLegs)
	result, resolved, err := svc.SubmitActions(matchID, 2, attackLegs)
	if err != nil || !resolved {
		t.Fatalf("unexpected: resolved=%v err=%v", resolved, err)
	}
	// Both sides take full damage even though character 1 died: PvP has no
	// initiative skip.
	if result.Sides[0].HP != 0 || result.Sides[1].HP != 10 {
		t.Fatalf("unexpected HP after simultaneous damage: %+v", result.Sides)
	}
	if !result.Finished || result.WinnerID != 2 || result.Draw {
		t.Fatalf("expected finished match won by 2: %+v", result)
	}

	if store.goldByChar[2] != 50 {
		t.Fatalf("winner must receive the gold reward, got %d", store.goldByChar[2])
	}
	if store.goldByChar[1] != 0 {
		t.Fatalf("loser must not receive gold, got %d", store.goldByChar[1])
	}
	if store.hpByChar[1] != 0 || store.hpByChar[2] != 10 {
		t.Fatalf("expected HP write-back, got %v", store.hpByChar)
	}
	if won := store.outcomes[2]; !won {
		t.Fatalf("expected recorded win for 2")
	}
	if len(store.logs) != 2 {
		t.Fatalf("expected one archive row per participant, got %d", len(store.logs))
	}

	// Both participants are deregistered: the match is gone and both can
	// queue again.
	if _, err := svc.GetMatch(matchID); err != ErrMatchNotFound {
		t.Fatalf("expected match eviction, got %v", err)
	}
	if _, ok := svc.MatchFor(1); ok {
		t.Fatalf("character 1 must be deregistered")
	}
	if res, _ := svc.Join(1); res.Matched {
		t.Fatalf("character must be free to re-queue")
	}
}

func TestSubmitActions_DoubleKOIsDraw(t *testing.T) {
	store := newFakeStore(snapshot(1, 20, 60, 0), snapshot(2, 20, 60, 0))
	svc := newTestService(store, nil)
	svc.Join(1)
	r, _ := svc.Join(2)

	svc.SubmitActions(r.Match.ID, 1, attackLegs)
	result, _, err := svc.SubmitActions(r.Match.ID, 2, attackLegs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Finished || !result.Draw || result.WinnerID != 0 {
		t.Fatalf("expected a draw: %+v", result)
	}
	if store.goldByChar[1] != 0 || store.goldByChar[2] != 0 {
		t.Fatalf("a draw must not pay out: %v", store.goldByChar)
	}
	if len(store.outcomes) != 0 {
		t.Fatalf("a draw must not record win/loss: %v", store.outcomes)
	}
}

func TestSubmitActions_FinishedMatchRejects(t *testing.T) {
	store := newFakeStore(snapshot(1, 10, 60, 0), snapshot(2, 100, 60, 0))
	svc := newTestService(store, nil)
	svc.Join(1)
	r, _ := svc.Join(2)

	svc.SubmitActions(r.Match.ID, 1, attackLegs)
	svc.SubmitActions(r.Match.ID, 2, attackLegs)
	// The match has been evicted after finishing.
	if _, _, err := svc.SubmitActions(r.Match.ID, 1, attackLegs); err != ErrMatchNotFound {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestSweepMatches_ForfeitsSilentSide(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 100, 10, 0))
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)
	svc.Join(1)
	r, _ := svc.Join(2)

	svc.SubmitActions(r.Match.ID, 1, attackLegs)

	// Before the deadline nothing happens.
	if n := svc.SweepMatches(time.Now()); n != 0 {
		t.Fatalf("sweep before deadline closed %d matches", n)
	}
	if n := svc.SweepMatches(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected 1 forfeited match, got %d", n)
	}
	if store.goldByChar[1] != 50 {
		t.Fatalf("submitting side must win the forfeit payout, got %v", store.goldByChar)
	}
	if won, ok := store.outcomes[1]; !ok || !won {
		t.Fatalf("expected recorded win for the submitting side")
	}
	if _, err := svc.GetMatch(r.Match.ID); err != ErrMatchNotFound {
		t.Fatalf("forfeited match must be evicted")
	}
}

func TestSweepMatches_BothSilentIsDraw(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 100, 10, 0))
	svc := newTestService(store, nil)
	svc.Join(1)
	svc.Join(2)

	if n := svc.SweepMatches(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected 1 closed match, got %d", n)
	}
	if len(store.outcomes) != 0 {
		t.Fatalf("a timeout draw must not record outcomes: %v", store.outcomes)
	}
}

func TestSweepQueue_ExpiresIdleEntries(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0))
	svc := newTestService(store, nil)
	svc.Join(1)

	if dropped := svc.SweepQueue(time.Now()); len(dropped) != 0 {
		t.Fatalf("fresh entry must not expire: %v", dropped)
	}
	dropped := svc.SweepQueue(time.Now().Add(10 * time.Minute))
	if len(dropped) != 1 || dropped[0] != 1 {
		t.Fatalf("expected character 1 expired, got %v", dropped)
	}
	if svc.QueueLen() != 0 {
		t.Fatalf("expired entry must leave the queue")
	}
}

func TestSubmitActions_FinishSurvivesStoreFailures(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 30, 60, 0))
	store.writeErr = errors.New("db down")
	svc := newTestService(store, nil)
	svc.Join(1)
	r, _ := svc.Join(2)
	matchID := r.Match.ID

	svc.SubmitActions(matchID, 1, attackLegs)
	// Payout, HP write-back and archive all fail; the resolution and the
	// terminal bookkeeping still complete.
	result, resolved, err := svc.SubmitActions(matchID, 2, attackLegs)
	if err != nil || !resolved {
		t.Fatalf("round must resolve despite store failures: resolved=%v err=%v", resolved, err)
	}
	if !result.Finished || result.WinnerID != 2 {
		t.Fatalf("expected finished match won by 2: %+v", result)
	}
	if _, err := svc.GetMatch(matchID); err != ErrMatchNotFound {
		t.Fatalf("match must still be evicted, got %v", err)
	}
	if res, _ := svc.Join(1); res.Matched {
		t.Fatalf("participants must be deregistered")
	}
}

func TestSubmitActions_EmitsMatchEnd(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 30, 60, 0))
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)
	svc.Join(1)
	r, _ := svc.Join(2)

	svc.SubmitActions(r.Match.ID, 1, attackLegs)
	svc.SubmitActions(r.Match.ID, 2, attackLegs)

	// Each participant hears the final round before the terminal event.
	for _, id := range []uint{1, 2} {
		lastResult, matchEnd := -1, -1
		for i, e := range notifier.events {
			if e.CharacterID != id {
				continue
			}
			switch e.Type {
			case "round_result":
				lastResult = i
			case "match_end":
				matchEnd = i
			}
		}
		if matchEnd == -1 {
			t.Fatalf("character %d never received match_end: %v", id, notifier.events)
		}
		if lastResult == -1 || lastResult > matchEnd {
			t.Fatalf("round_result must precede match_end for character %d: %v", id, notifier.events)
		}
	}
}

func TestDisconnect_RemovesQueuedOnly(t *testing.T) {
	store := newFakeStore(snapshot(1, 100, 10, 0), snapshot(2, 100, 10, 0), snapshot(3, 100, 10, 0))
	svc := newTestService(store, nil)

	svc.Join(1)
	svc.Disconnect(1)
	if svc.QueueLen() != 0 {
		t.Fatalf("disconnect must drop the queued entry")
	}

	svc.Join(2)
	r, _ := svc.Join(3)
	svc.Disconnect(2)
	if _, err := svc.GetMatch(r.Match.ID); err != nil {
		t.Fatalf("disconnect must not terminate an active match: %v", err)
	}
}
