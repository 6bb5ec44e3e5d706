package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/stats"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"

	"github.com/gin-gonic/gin"
)

// GetCharacter returns a character's effective combat snapshot: base stats
// with equipped-item bonuses folded in.
func (h *BattleHandler) GetCharacter(c *gin.Context) {
	characterID, err := strconv.ParseUint(c.Param("characterID"), 10, 32)
	if err != nil || characterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidCharacterID})
		return
	}
	snap, err := h.repo.GetCharacterSnapshot(uint(characterID))
	if err != nil {
		if errors.Is(err, storage.ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, stats.EffectiveProfile(snap))
}

const battleLogLimit = 20

// GetBattleHistory returns the character's most recent archived battles.
func (h *BattleHandler) GetBattleHistory(c *gin.Context) {
	characterID, err := strconv.ParseUint(c.Param("characterID"), 10, 32)
	if err != nil || characterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidCharacterID})
		return
	}
	logs, err := h.repo.GetBattleLogs(uint(characterID), battleLogLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetItem returns one item template from the seeded catalog.
func (h *BattleHandler) GetItem(c *gin.Context) {
	tpl, err := h.repo.GetItemTemplateByKey(c.Param("itemKey"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrItemNotFound})
		return
	}
	c.JSON(http.StatusOK, tpl)
}
