package pvp

import (
	"sync"
	"time"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
)

// playerSlot tracks one participant's live match state, including the
// pending-actions slot that implements the round rendezvous: a round only
// resolves once both slots are non-nil, and no request ever blocks waiting
// for the opponent.
type playerSlot struct {
	Profile battle.CombatProfile
	HP      int
	Pending *battle.RoundActions
}

// Match owns one active two-player match. Like PvE sessions, a match is its
// own mutual-exclusion domain: per-match locking keeps concurrent matches
// independent.
type Match struct {
	mu sync.Mutex

	ID      string
	Players [2]*playerSlot
	Round   int
	Status  battle.MatchStatus
	// WinnerID is zero while active and on a draw.
	WinnerID uint
	Draw     bool
	// Deadline bounds how long the match waits for the current round's
	// submissions before the sweeper forfeits the silent side.
	Deadline time.Time

	History []RoundSide
}

func (m *Match) slotFor(characterID uint) (*playerSlot, *playerSlot) {
	if m.Players[0].Profile.CharacterID == characterID {
		return m.Players[0], m.Players[1]
	}
	if m.Players[1].Profile.CharacterID == characterID {
		return m.Players[1], m.Players[0]
	}
	return nil, nil
}

// RoundSide is one participant's slice of a resolved round.
type RoundSide struct {
	CharacterID uint                `json:"character_id"`
	Actions     battle.RoundActions `json:"actions"`
	DamageTaken int                 `json:"damage_taken"`
	HP          int                 `json:"hp"`
}

// RoundResult is broadcast to both participants after a resolution.
type RoundResult struct {
	MatchID  string       `json:"match_id"`
	Round    int          `json:"round"`
	Sides    [2]RoundSide `json:"sides"`
	Finished bool         `json:"finished"`
	WinnerID uint         `json:"winner_id,omitempty"`
	Draw     bool         `json:"draw,omitempty"`
}

// PlayerView is one participant as shown in a match snapshot. Pending
// actions are reduced to a submitted flag so clients cannot peek at the
// opponent's zone picks before resolution.
type PlayerView struct {
	CharacterID uint   `json:"character_id"`
	Name        string `json:"name"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
	Submitted   bool   `json:"submitted"`
}

// View is a consistent snapshot of a match.
type View struct {
	ID       string             `json:"id"`
	Status   battle.MatchStatus `json:"status"`
	Round    int                `json:"round"`
	Players  [2]PlayerView      `json:"players"`
	WinnerID uint               `json:"winner_id,omitempty"`
	Draw     bool               `json:"draw,omitempty"`
	Deadline time.Time          `json:"deadline"`
}

func (m *Match) view() View {
	v := View{
		ID:       m.ID,
		Status:   m.Status,
		Round:    m.Round,
		WinnerID: m.WinnerID,
		Draw:     m.Draw,
		Deadline: m.Deadline,
	}
	for i, p := range m.Players {
		v.Players[i] = PlayerView{
			CharacterID: p.Profile.CharacterID,
			Name:        p.Profile.Name,
			HP:          p.HP,
			MaxHP:       p.Profile.MaxHP,
			Submitted:   p.Pending != nil,
		}
	}
	return v
}

// View returns a consistent snapshot of the match.
func (m *Match) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view()
}
