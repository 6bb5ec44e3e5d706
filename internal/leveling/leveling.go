package leveling

import (
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"
)

// StatPointsPerLevel is granted for every level gained.
const StatPointsPerLevel = 3

// defaultThresholds maps level index -> total experience required to reach
// level index+2 (thresholds[0] is the exp needed for level 2). Used when the
// config provides no level_exp table.
var defaultThresholds = []int{100, 300, 700, 1500, 3100, 6300, 12700, 25500}

// Repo is the slice of the store the leveler reads and writes.
type Repo interface {
	GetCharacterByID(id uint) (*storage.Character, error)
	AddLevels(characterID uint, levels, statPoints int) error
}

// Service checks accumulated experience against the level table and grants
// levels plus free stat points through the store.
type Service struct {
	repo       Repo
	thresholds []int
}

func NewService(repo Repo, thresholds []int) *Service {
	if len(thresholds) == 0 {
		thresholds = defaultThresholds
	}
	return &Service{repo: repo, thresholds: thresholds}
}

// LevelForExp returns the level a character with the given total experience
// should hold. Levels start at 1; experience past the last threshold caps at
// the table's top level.
func (s *Service) LevelForExp(exp int) int {
	level := 1
	for _, need := range s.thresholds {
		if exp < need {
			break
		}
		level++
	}
	return level
}

// CheckAndLevelUp compares the character's persisted experience with its
// persisted level and applies any pending level-ups. Returns levels gained.
func (s *Service) CheckAndLevelUp(characterID uint) (int, error) {
	c, err := s.repo.GetCharacterByID(characterID)
	if err != nil {
		return 0, err
	}
	target := s.LevelForExp(c.Experience)
	gained := target - c.Level
	if gained <= 0 {
		return 0, nil
	}
	if err := s.repo.AddLevels(characterID, gained, gained*StatPointsPerLevel); err != nil {
		return 0, err
	}
	return gained, nil
}
