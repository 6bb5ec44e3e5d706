package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/pvp"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"

	"github.com/gin-gonic/gin"
)

// JoinQueueRequest enqueues a character for PvP matchmaking.
type JoinQueueRequest struct {
	CharacterID uint `json:"character_id"`
}

// JoinQueue adds the character to the matchmaking queue or returns the
// match it already belongs to.
func (h *BattleHandler) JoinQueue(c *gin.Context) {
	var req JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CharacterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	result, err := h.pvp.Join(req.CharacterID)
	if err != nil {
		if errors.Is(err, storage.ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedJoinQueue})
		return
	}
	c.JSON(http.StatusOK, result)
}

// LeaveQueue removes a queued (not yet matched) character.
func (h *BattleHandler) LeaveQueue(c *gin.Context) {
	characterID, err := strconv.ParseUint(c.Param("characterID"), 10, 32)
	if err != nil || characterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidCharacterID})
		return
	}
	removed := h.pvp.Leave(uint(characterID))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// GetMatch returns the current state of a PvP match.
func (h *BattleHandler) GetMatch(c *gin.Context) {
	view, err := h.pvp.GetMatch(c.Param("matchID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitActionsRequest carries one participant's zone choices for the
// current match round.
type SubmitActionsRequest struct {
	CharacterID uint          `json:"character_id"`
	Attacks     []battle.Zone `json:"attacks"`
	Defenses    []battle.Zone `json:"defenses"`
}

// SubmitMatchActions stores a participant's actions; the round resolves
// once the opponent has also submitted.
func (h *BattleHandler) SubmitMatchActions(c *gin.Context) {
	var req SubmitActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CharacterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	actions, err := battle.ActionsFromSlices(req.Attacks, req.Defenses)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		return
	}

	result, resolved, err := h.pvp.SubmitActions(c.Param("matchID"), req.CharacterID, actions)
	if err != nil {
		switch {
		case errors.Is(err, pvp.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
		case errors.Is(err, pvp.ErrMatchNotActive):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrMatchNotActive})
		case errors.Is(err, pvp.ErrNotInMatch):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInMatch})
		case isValidationErr(err):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreActions})
		}
		return
	}

	if resolved {
		c.JSON(http.StatusOK, result)
	} else {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Actions stored. Waiting for opponent."})
	}
}
