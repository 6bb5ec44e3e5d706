package pve

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/engine"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/reward"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/stats"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"

	"github.com/google/uuid"
)

// healFraction of max HP is restored between monsters, capped at max.
const healFraction = 0.3

var (
	ErrBattleNotFound  = errors.New("battle not found")
	ErrBattleNotActive = errors.New("battle is not active")
	ErrDungeonNotFound = errors.New("dungeon not found")
	ErrCharacterBusy   = errors.New("character already has an active battle")
)

// Notifier delivers battle events to a character's connected clients.
type Notifier interface {
	Notify(characterID uint, eventType string, payload interface{})
}

// Repo is the slice of the store the service reads snapshots from and
// archives finished battles to.
type Repo interface {
	GetCharacterSnapshot(id uint) (*storage.CharacterSnapshot, error)
	SaveBattleLog(log *storage.BattleLog) error
}

// Service owns all live PvE sessions: an id-indexed arena plus a
// character index ensuring one active battle per character. Constructed
// once in main and injected into handlers, never package-global.
type Service struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	byCharacter map[uint]string

	repo     Repo
	rewards  *reward.Applier
	policy   engine.ActionPolicy
	dungeons map[string]battle.Dungeon
	notifier Notifier
	rng      *rand.Rand
}

func NewService(repo Repo, rewards *reward.Applier, policy engine.ActionPolicy, dungeons []battle.Dungeon, notifier Notifier, rng *rand.Rand) *Service {
	dm := make(map[string]battle.Dungeon, len(dungeons))
	for _, d := range dungeons {
		dm[d.DungeonID] = d
	}
	return &Service{
		sessions:    make(map[string]*Session),
		byCharacter: make(map[uint]string),
		repo:        repo,
		rewards:     rewards,
		policy:      policy,
		dungeons:    dm,
		notifier:    notifier,
		rng:         rng,
	}
}

// StartBattle creates a session from the persisted character snapshot and
// the configured dungeon. The character fights the first monster at its
// full HP; initiative is a coin flip.
func (s *Service) StartBattle(characterID uint, dungeonID string) (View, error) {
	dungeon, ok := s.dungeons[dungeonID]
	if !ok {
		return View{}, ErrDungeonNotFound
	}
	snap, err := s.repo.GetCharacterSnapshot(characterID)
	if err != nil {
		return View{}, err
	}
	profile := stats.EffectiveProfile(snap)

	sess := &Session{
		ID:          uuid.NewString(),
		Player:      profile,
		Dungeon:     dungeon,
		MonsterHP:   dungeon.Monsters[0].MaxHP,
		PlayerFirst: s.rng.Intn(2) == 0,
		Status:      battle.BattleActive,
	}
	// Snapshot before the session becomes reachable; no lock needed yet.
	v := sess.view()

	s.mu.Lock()
	if _, busy := s.byCharacter[characterID]; busy {
		s.mu.Unlock()
		return View{}, ErrCharacterBusy
	}
	s.sessions[sess.ID] = sess
	s.byCharacter[characterID] = sess.ID
	s.mu.Unlock()

	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID:    sess.ID,
		constants.LogFieldCharacterID: characterID,
		constants.LogFieldDungeonID:   dungeonID,
	})
	s.notify(characterID, "round_start", v)
	return v, nil
}

// GetBattle returns a snapshot of the session or ErrBattleNotFound.
func (s *Service) GetBattle(battleID string) (View, error) {
	sess := s.lookup(battleID)
	if sess == nil {
		return View{}, ErrBattleNotFound
	}
	return sess.View(), nil
}

func (s *Service) lookup(battleID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[battleID]
}

// SubmitRound resolves one round of the battle against the current monster.
// The opponent's zone choices come from the action policy; damage applies
// in initiative order and a lethal first strike skips the second side's
// damage for the round.
func (s *Service) SubmitRound(battleID string, actions battle.RoundActions) (battle.RoundResult, error) {
	sess := s.lookup(battleID)
	if sess == nil {
		return battle.RoundResult{}, ErrBattleNotFound
	}

	sess.mu.Lock()
	if sess.Status != battle.BattleActive {
		sess.mu.Unlock()
		return battle.RoundResult{}, ErrBattleNotActive
	}
	if err := engine.ValidateActions(actions, sess.Player.BackAttack); err != nil {
		sess.mu.Unlock()
		return battle.RoundResult{}, err
	}

	monster := sess.currentMonster()
	monsterActions := s.policy.Generate()

	damageToMonster := engine.Resolve(actions.Attacks, monsterActions.Defenses, sess.Player.Damage, monster.Armor)
	damageToPlayer := engine.Resolve(monsterActions.Attacks, actions.Defenses, monster.Damage, sess.Player.Armor)

	result := battle.RoundResult{
		Round:           len(sess.History) + 1,
		PlayerActions:   actions,
		OpponentActions: monsterActions,
		PlayerFirst:     sess.PlayerFirst,
	}

	// Initiative order: if the first-acting side's damage is lethal the
	// second side never strikes this round.
	if sess.PlayerFirst {
		sess.MonsterHP -= damageToMonster
		result.DamageToMonster = damageToMonster
		if sess.MonsterHP > 0 {
			sess.Player.HP -= damageToPlayer
			result.DamageToPlayer = damageToPlayer
		}
	} else {
		sess.Player.HP -= damageToPlayer
		result.DamageToPlayer = damageToPlayer
		if sess.Player.HP > 0 {
			sess.MonsterHP -= damageToMonster
			result.DamageToMonster = damageToMonster
		}
	}
	if sess.Player.HP < 0 {
		sess.Player.HP = 0
	}
	if sess.MonsterHP < 0 {
		sess.MonsterHP = 0
	}

	switch {
	case sess.Player.HP <= 0:
		sess.Status = battle.BattleLost
	case sess.MonsterHP <= 0:
		result.MonsterDefeated = true
		result.Loot = s.advanceMonster(sess, monster)
	}

	result.PlayerHP = sess.Player.HP
	result.OpponentHP = sess.MonsterHP
	sess.History = append(sess.History, result)

	characterID := sess.Player.CharacterID
	terminal := sess.Status != battle.BattleActive
	sess.mu.Unlock()

	// Delivery happens outside the session mutex so a slow client cannot
	// block the battle.
	s.notify(characterID, "round_result", result)
	if terminal {
		s.finish(sess)
	}
	return result, nil
}

// advanceMonster handles a defeated monster: grants the per-monster reward
// share, then either moves to the next monster (fresh HP, new initiative,
// partial heal) or ends the battle won with a full heal. Returns the loot
// rolled for the kill. Callers hold the session mutex.
func (s *Service) advanceMonster(sess *Session, killed *battle.Monster) []battle.LootDrop {
	n := len(sess.Dungeon.Monsters)
	goldShare := sess.Dungeon.GoldReward / n
	expShare := sess.Dungeon.ExpReward / n

	last := sess.MonsterIndex == n-1
	if last {
		// The final share absorbs integer-division remainders so the
		// dungeon total always pays out exactly.
		goldShare = sess.Dungeon.GoldReward - goldShare*(n-1)
		expShare = sess.Dungeon.ExpReward - expShare*(n-1)
	}
	drops := s.rewards.GrantMonsterReward(sess.Player.CharacterID, killed.MonsterID, goldShare, expShare)

	if last {
		sess.Status = battle.BattleWon
		sess.Player.HP = sess.Player.MaxHP
		return drops
	}

	sess.MonsterIndex++
	sess.MonsterHP = sess.currentMonster().MaxHP
	sess.PlayerFirst = s.rng.Intn(2) == 0
	heal := int(float64(sess.Player.MaxHP) * healFraction)
	sess.Player.HP += heal
	if sess.Player.HP > sess.Player.MaxHP {
		sess.Player.HP = sess.Player.MaxHP
	}
	return drops
}

// finish persists terminal state, archives the session and evicts it from
// the arena. Reward bookkeeping is best-effort; the already-returned round
// result is the combat truth. Callers must not hold the session mutex:
// finish snapshots the terminal state under it and releases it before any
// store or transport call.
func (s *Service) finish(sess *Session) {
	sess.mu.Lock()
	won := sess.Status == battle.BattleWon
	outcome := string(sess.Status)
	characterID := sess.Player.CharacterID
	hp := sess.Player.HP
	dungeonID := sess.Dungeon.DungeonID
	rounds := len(sess.History)
	history, err := json.Marshal(sess.History)
	if err != nil {
		history = nil
	}
	v := sess.view()
	sess.mu.Unlock()

	s.rewards.SetHP(characterID, hp)
	s.rewards.RecordOutcome(characterID, won)

	if err := s.repo.SaveBattleLog(&storage.BattleLog{
		SessionID:   sess.ID,
		Kind:        "pve",
		CharacterID: characterID,
		DungeonID:   dungeonID,
		Outcome:     outcome,
		Rounds:      rounds,
		HistoryJSON: history,
	}); err != nil {
		logging.Error("failed to archive battle", err, logging.Fields{
			constants.LogFieldBattleID: sess.ID,
		})
	}

	s.mu.Lock()
	delete(s.sessions, sess.ID)
	delete(s.byCharacter, characterID)
	s.mu.Unlock()

	logging.Info("battle finished", logging.Fields{
		constants.LogFieldBattleID:    sess.ID,
		constants.LogFieldCharacterID: characterID,
		"outcome":                     outcome,
	})
	s.notify(characterID, "battle_end", v)
}

func (s *Service) notify(characterID uint, eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(characterID, eventType, payload)
}
