package api

import (
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/pve"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/pvp"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	repo     storage.Repository
	pve      *pve.Service
	pvp      *pvp.Service
	dungeons []battle.Dungeon
}

// NewBattleHandler creates a BattleHandler over the session services, the
// store and the configured dungeon list.
func NewBattleHandler(repo storage.Repository, pveSvc *pve.Service, pvpSvc *pvp.Service, dungeons []battle.Dungeon) *BattleHandler {
	return &BattleHandler{repo: repo, pve: pveSvc, pvp: pvpSvc, dungeons: dungeons}
}

// ActionsRequest is the round-submission body shared by PvE and PvP
// endpoints.
type ActionsRequest struct {
	Attacks  []battle.Zone `json:"attacks"`
	Defenses []battle.Zone `json:"defenses"`
}
