package pvp

import (
	"time"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"
)

// SweepMatches forfeits matches whose round deadline has passed.
// Exactly one side submitted -> that side wins by forfeit; neither side
// submitted -> the match ends in a draw. Returns how many matches were
// closed.
func (s *Service) SweepMatches(now time.Time) int {
	s.mu.Lock()
	expired := make([]*Match, 0)
	for _, m := range s.matches {
		expired = append(expired, m)
	}
	s.mu.Unlock()

	closed := 0
	for _, m := range expired {
		m.mu.Lock()
		if m.Status != battle.MatchActive || m.Deadline.IsZero() || m.Deadline.After(now) {
			m.mu.Unlock()
			continue
		}
		p0, p1 := m.Players[0], m.Players[1]
		m.Status = battle.MatchFinished
		m.Deadline = time.Time{}
		switch {
		case p0.Pending != nil && p1.Pending == nil:
			m.WinnerID = p0.Profile.CharacterID
		case p1.Pending != nil && p0.Pending == nil:
			m.WinnerID = p1.Profile.CharacterID
		default:
			m.Draw = true
		}
		p0.Pending = nil
		p1.Pending = nil
		result := &RoundResult{
			MatchID: m.ID,
			Round:   m.Round,
			Sides: [2]RoundSide{
				{CharacterID: p0.Profile.CharacterID, HP: p0.HP},
				{CharacterID: p1.Profile.CharacterID, HP: p1.HP},
			},
			Finished: true,
			WinnerID: m.WinnerID,
			Draw:     m.Draw,
		}
		m.mu.Unlock()

		logging.Info("match forfeited on timeout", logging.Fields{
			constants.LogFieldMatchID: m.ID,
			"winner_id":               m.WinnerID,
			"draw":                    m.Draw,
		})
		s.notify(p0.Profile.CharacterID, "round_result", result)
		s.notify(p1.Profile.CharacterID, "round_result", result)
		s.finishMatch(m)
		closed++
	}
	return closed
}

// SweepQueue drops entries that waited unmatched longer than the queue TTL.
// Returns the expired character ids.
func (s *Service) SweepQueue(now time.Time) []uint {
	cutoff := now.Add(-s.queueTTL)

	s.mu.Lock()
	kept := s.queue[:0]
	var dropped []uint
	for _, e := range s.queue {
		if e.JoinedAt.Before(cutoff) {
			dropped = append(dropped, e.CharacterID)
			continue
		}
		kept = append(kept, e)
	}
	s.queue = kept
	s.mu.Unlock()

	for _, id := range dropped {
		logging.Info("queue entry expired", logging.Fields{
			constants.LogFieldCharacterID: id,
		})
		s.notify(id, "queue_expired", nil)
	}
	return dropped
}
