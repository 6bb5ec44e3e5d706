package pve

import (
	"sync"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
)

// Session owns one player-vs-dungeon encounter. All mutation happens under
// the session's own mutex so concurrent submissions for the same battle
// serialize while unrelated battles run independently.
type Session struct {
	mu sync.Mutex

	ID      string
	Player  battle.CombatProfile
	Dungeon battle.Dungeon

	MonsterIndex int
	MonsterHP    int
	// PlayerFirst is the initiative flag: whose damage applies first within
	// a round. Re-rolled on every monster transition.
	PlayerFirst bool

	Status  battle.BattleStatus
	History []battle.RoundResult
}

// currentMonster returns the monster the session is fighting. Callers hold
// the session mutex.
func (s *Session) currentMonster() *battle.Monster {
	return &s.Dungeon.Monsters[s.MonsterIndex]
}

// View is the snapshot of a session returned to clients. It is safe to
// marshal after the session mutex is released.
type View struct {
	ID           string               `json:"id"`
	CharacterID  uint                 `json:"character_id"`
	DungeonID    string               `json:"dungeon_id"`
	Status       battle.BattleStatus  `json:"status"`
	PlayerHP     int                  `json:"player_hp"`
	PlayerMaxHP  int                  `json:"player_max_hp"`
	MonsterIndex int                  `json:"monster_index"`
	MonsterCount int                  `json:"monster_count"`
	Monster      battle.Monster       `json:"monster"`
	MonsterHP    int                  `json:"monster_hp"`
	PlayerFirst  bool                 `json:"player_first"`
	History      []battle.RoundResult `json:"history"`
}

func (s *Session) view() View {
	history := make([]battle.RoundResult, len(s.History))
	copy(history, s.History)
	return View{
		ID:           s.ID,
		CharacterID:  s.Player.CharacterID,
		DungeonID:    s.Dungeon.DungeonID,
		Status:       s.Status,
		PlayerHP:     s.Player.HP,
		PlayerMaxHP:  s.Player.MaxHP,
		MonsterIndex: s.MonsterIndex,
		MonsterCount: len(s.Dungeon.Monsters),
		Monster:      *s.currentMonster(),
		MonsterHP:    s.MonsterHP,
		PlayerFirst:  s.PlayerFirst,
		History:      history,
	}
}

// View returns a consistent snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}
