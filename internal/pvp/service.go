package pvp

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/engine"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/reward"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/stats"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrMatchNotActive = errors.New("match is not active")
	ErrNotInMatch     = errors.New("character is not in this match")
)

// Notifier delivers match events to a character's connected clients.
type Notifier interface {
	Notify(characterID uint, eventType string, payload interface{})
}

// Repo is the slice of the store the service reads snapshots from and
// archives finished matches to.
type Repo interface {
	GetCharacterSnapshot(id uint) (*storage.CharacterSnapshot, error)
	SaveBattleLog(log *storage.BattleLog) error
}

type queueEntry struct {
	battle.QueueEntry
	profile battle.CombatProfile
}

// Service owns matchmaking state: the FIFO queue, the live matches and the
// character-to-match index. It is constructed once in main and injected
// into handlers and the websocket hub — never package-global — so tests
// build isolated instances.
type Service struct {
	mu          sync.Mutex
	queue       []queueEntry
	matches     map[string]*Match
	charToMatch map[uint]string

	repo       Repo
	rewards    *reward.Applier
	notifier   Notifier
	goldReward int
	// actionTimeout bounds each round; the sweeper forfeits silent players
	// past the deadline.
	actionTimeout time.Duration
	// queueTTL expires entries that waited unmatched too long.
	queueTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repo, rewards *reward.Applier, notifier Notifier, goldReward int, actionTimeout, queueTTL time.Duration) *Service {
	return &Service{
		matches:       make(map[string]*Match),
		charToMatch:   make(map[uint]string),
		repo:          repo,
		rewards:       rewards,
		notifier:      notifier,
		goldReward:    goldReward,
		actionTimeout: actionTimeout,
		queueTTL:      queueTTL,
		now:           time.Now,
	}
}

// JoinResult is the outcome of a queue join: either a waiting entry or the
// match the character now belongs to (also returned on idempotent re-join).
type JoinResult struct {
	Matched bool               `json:"matched"`
	Entry   *battle.QueueEntry `json:"entry,omitempty"`
	Match   *View              `json:"match,omitempty"`
}

// Join adds a character to the matchmaking queue. Joining while already
// queued returns the existing entry; joining while in an active match
// returns that match. As soon as two entries wait, the two longest-waiting
// are paired — FIFO, no rating.
func (s *Service) Join(characterID uint) (JoinResult, error) {
	snap, err := s.repo.GetCharacterSnapshot(characterID)
	if err != nil {
		return JoinResult{}, err
	}
	profile := stats.EffectiveProfile(snap)

	s.mu.Lock()
	if matchID, ok := s.charToMatch[characterID]; ok {
		m := s.matches[matchID]
		s.mu.Unlock()
		v := m.View()
		return JoinResult{Matched: true, Match: &v}, nil
	}
	for i := range s.queue {
		if s.queue[i].CharacterID == characterID {
			entry := s.queue[i].QueueEntry
			s.mu.Unlock()
			return JoinResult{Entry: &entry}, nil
		}
	}

	entry := queueEntry{
		QueueEntry: battle.QueueEntry{CharacterID: characterID, JoinedAt: s.now()},
		profile:    profile,
	}
	s.queue = append(s.queue, entry)
	if len(s.queue) < 2 {
		e := entry.QueueEntry
		s.mu.Unlock()
		logging.Info("character queued for pvp", logging.Fields{
			constants.LogFieldCharacterID: characterID,
		})
		return JoinResult{Entry: &e}, nil
	}

	// Pop the two oldest entries and pair them.
	a, b := s.queue[0], s.queue[1]
	s.queue = s.queue[2:]
	m := s.createMatchLocked(a, b)
	s.mu.Unlock()

	v := m.View()
	logging.Info("match created", logging.Fields{
		constants.LogFieldMatchID: m.ID,
		"character_a":             a.CharacterID,
		"character_b":             b.CharacterID,
	})
	s.notify(a.CharacterID, "match_found", v)
	s.notify(b.CharacterID, "match_found", v)
	return JoinResult{Matched: true, Match: &v}, nil
}

// createMatchLocked registers a new match for two queue entries. Callers
// hold the service mutex.
func (s *Service) createMatchLocked(a, b queueEntry) *Match {
	id, err := gonanoid.New()
	if err != nil {
		// nanoid only fails when the OS entropy source does; fall back to a
		// timestamp id rather than refusing the match.
		id = s.now().Format("20060102150405.000000000")
	}
	m := &Match{
		ID:       id,
		Status:   battle.MatchActive,
		Round:    1,
		Deadline: s.now().Add(s.actionTimeout),
	}
	m.Players[0] = &playerSlot{Profile: a.profile, HP: a.profile.HP}
	m.Players[1] = &playerSlot{Profile: b.profile, HP: b.profile.HP}
	s.matches[m.ID] = m
	s.charToMatch[a.CharacterID] = m.ID
	s.charToMatch[b.CharacterID] = m.ID
	return m
}

// Leave removes a queued (not yet matched) character. Returns whether a
// removal occurred; an already-matched character must finish the match.
func (s *Service) Leave(characterID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.queue {
		if s.queue[i].CharacterID == characterID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Disconnect is invoked by the transport when a character's connection
// drops. Queued entries are removed immediately; an active match is left to
// the deadline sweeper so a quick reconnect does not forfeit.
func (s *Service) Disconnect(characterID uint) {
	if s.Leave(characterID) {
		logging.Info("queued character disconnected", logging.Fields{
			constants.LogFieldCharacterID: characterID,
		})
	}
}

// QueueLen reports how many characters are waiting.
func (s *Service) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// GetMatch returns a snapshot of the match or ErrMatchNotFound.
func (s *Service) GetMatch(matchID string) (View, error) {
	s.mu.Lock()
	m := s.matches[matchID]
	s.mu.Unlock()
	if m == nil {
		return View{}, ErrMatchNotFound
	}
	return m.View(), nil
}

// MatchFor returns the id of the character's active match, if any.
func (s *Service) MatchFor(characterID uint) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.charToMatch[characterID]
	return id, ok
}

// SubmitActions stores a participant's actions for the current round and
// resolves the round once both sides have submitted. Submitting again
// before resolution overwrites the earlier set. The waiting side never
// blocks: the submission is retained on the match until the opponent's
// arrives.
func (s *Service) SubmitActions(matchID string, characterID uint, actions battle.RoundActions) (*RoundResult, bool, error) {
	s.mu.Lock()
	m := s.matches[matchID]
	s.mu.Unlock()
	if m == nil {
		return nil, false, ErrMatchNotFound
	}

	m.mu.Lock()
	if m.Status != battle.MatchActive {
		m.mu.Unlock()
		return nil, false, ErrMatchNotActive
	}
	self, other := m.slotFor(characterID)
	if self == nil {
		m.mu.Unlock()
		return nil, false, ErrNotInMatch
	}
	if err := engine.ValidateActions(actions, self.Profile.BackAttack); err != nil {
		m.mu.Unlock()
		return nil, false, err
	}

	a := actions
	self.Pending = &a
	if other.Pending == nil {
		m.mu.Unlock()
		return nil, false, nil
	}

	result := s.resolveRoundLocked(m)
	finished := m.Status == battle.MatchFinished
	m.mu.Unlock()

	s.notify(m.Players[0].Profile.CharacterID, "round_result", result)
	s.notify(m.Players[1].Profile.CharacterID, "round_result", result)
	if finished {
		s.finishMatch(m)
	}
	return result, true, nil
}

// resolveRoundLocked applies one rendezvous'd round. Unlike PvE there is no
// initiative skip: both action sets were committed before either outcome
// was known, so both sides take full computed damage — which is why both
// can reach zero in the same round. Callers hold the match mutex.
func (s *Service) resolveRoundLocked(m *Match) *RoundResult {
	p0, p1 := m.Players[0], m.Players[1]
	a0, a1 := *p0.Pending, *p1.Pending

	dmgTo1 := engine.Resolve(a0.Attacks, a1.Defenses, p0.Profile.Damage, p1.Profile.Armor)
	dmgTo0 := engine.Resolve(a1.Attacks, a0.Defenses, p1.Profile.Damage, p0.Profile.Armor)

	p0.HP -= dmgTo0
	p1.HP -= dmgTo1
	if p0.HP < 0 {
		p0.HP = 0
	}
	if p1.HP < 0 {
		p1.HP = 0
	}
	p0.Pending = nil
	p1.Pending = nil

	result := &RoundResult{
		MatchID: m.ID,
		Round:   m.Round,
		Sides: [2]RoundSide{
			{CharacterID: p0.Profile.CharacterID, Actions: a0, DamageTaken: dmgTo0, HP: p0.HP},
			{CharacterID: p1.Profile.CharacterID, Actions: a1, DamageTaken: dmgTo1, HP: p1.HP},
		},
	}
	m.History = append(m.History, result.Sides[0], result.Sides[1])

	if p0.HP <= 0 || p1.HP <= 0 {
		m.Status = battle.MatchFinished
		m.Deadline = time.Time{}
		switch {
		case p0.HP <= 0 && p1.HP <= 0:
			// Simultaneous double KO is a draw: no winner, no payout.
			m.Draw = true
		case p1.HP <= 0:
			m.WinnerID = p0.Profile.CharacterID
		default:
			m.WinnerID = p1.Profile.CharacterID
		}
		result.Finished = true
		result.WinnerID = m.WinnerID
		result.Draw = m.Draw
		return result
	}

	m.Round++
	m.Deadline = s.now().Add(s.actionTimeout)
	return result
}

// finishMatch applies terminal bookkeeping after the match mutex has been
// released: payout, HP write-back, stats and archive — all best-effort —
// then deregistration of both participants.
func (s *Service) finishMatch(m *Match) {
	p0, p1 := m.Players[0], m.Players[1]
	if m.WinnerID != 0 {
		s.rewards.GrantGold(m.WinnerID, s.goldReward)
	}
	for _, p := range m.Players {
		s.rewards.SetHP(p.Profile.CharacterID, p.HP)
		if !m.Draw {
			s.rewards.RecordOutcome(p.Profile.CharacterID, p.Profile.CharacterID == m.WinnerID)
		}
	}

	outcome := "draw"
	if m.WinnerID != 0 {
		outcome = "won"
	}
	history, err := json.Marshal(m.History)
	if err != nil {
		history = nil
	}
	for i, p := range m.Players {
		o := outcome
		if m.WinnerID != 0 && p.Profile.CharacterID != m.WinnerID {
			o = "lost"
		}
		opp := m.Players[1-i]
		if err := s.repo.SaveBattleLog(&storage.BattleLog{
			SessionID:   m.ID,
			Kind:        "pvp",
			CharacterID: p.Profile.CharacterID,
			OpponentID:  opp.Profile.CharacterID,
			Outcome:     o,
			Rounds:      m.Round,
			GoldAwarded: s.goldIfWinner(p.Profile.CharacterID, m.WinnerID),
			HistoryJSON: history,
		}); err != nil {
			logging.Error("failed to archive match", err, logging.Fields{
				constants.LogFieldMatchID: m.ID,
			})
		}
	}

	s.mu.Lock()
	delete(s.matches, m.ID)
	delete(s.charToMatch, p0.Profile.CharacterID)
	delete(s.charToMatch, p1.Profile.CharacterID)
	s.mu.Unlock()

	logging.Info("match finished", logging.Fields{
		constants.LogFieldMatchID: m.ID,
		"winner_id":               m.WinnerID,
		"draw":                    m.Draw,
	})

	v := m.View()
	s.notify(p0.Profile.CharacterID, "match_end", v)
	s.notify(p1.Profile.CharacterID, "match_end", v)
}

func (s *Service) goldIfWinner(characterID, winnerID uint) int {
	if characterID == winnerID && winnerID != 0 {
		return s.goldReward
	}
	return 0
}

func (s *Service) notify(characterID uint, eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(characterID, eventType, payload)
}
