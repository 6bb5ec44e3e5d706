package api

import (
	"errors"
	"net/http"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/engine"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/pve"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"

	"github.com/gin-gonic/gin"
)

// StartBattleRequest starts a PvE dungeon battle for a character.
type StartBattleRequest struct {
	CharacterID uint   `json:"character_id"`
	DungeonID   string `json:"dungeon_id"`
}

// StartBattle creates a new PvE session from persisted character data.
func (h *BattleHandler) StartBattle(c *gin.Context) {
	var req StartBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CharacterID == 0 || req.DungeonID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	view, err := h.pve.StartBattle(req.CharacterID, req.DungeonID)
	if err != nil {
		switch {
		case errors.Is(err, pve.ErrDungeonNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrDungeonNotFound})
		case errors.Is(err, storage.ErrCharacterNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
		case errors.Is(err, pve.ErrCharacterBusy):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleInProgress})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStartBattle})
		}
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetBattle returns the current state of a PvE session.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	view, err := h.pve.GetBattle(c.Param("battleID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitRound resolves one PvE round with the submitted zone choices.
func (h *BattleHandler) SubmitRound(c *gin.Context) {
	var req ActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	actions, err := battle.ActionsFromSlices(req.Attacks, req.Defenses)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		return
	}

	result, err := h.pve.SubmitRound(c.Param("battleID"), actions)
	if err != nil {
		switch {
		case errors.Is(err, pve.ErrBattleNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case errors.Is(err, pve.ErrBattleNotActive):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleNotActive})
		case isValidationErr(err):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedResolveRound})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListDungeons returns the configured dungeons.
func (h *BattleHandler) ListDungeons(c *gin.Context) {
	c.JSON(http.StatusOK, h.dungeons)
}

// isValidationErr reports whether err is an illegal zone selection.
func isValidationErr(err error) bool {
	return errors.Is(err, engine.ErrBadAttackZone) ||
		errors.Is(err, engine.ErrBadDefenseZone) ||
		errors.Is(err, engine.ErrDuplicateDefense) ||
		errors.Is(err, engine.ErrBackAttackLocked)
}
