package constants

// Centralized constants for routes, JSON keys and API error strings.

// Routes used by the backend router
const (
	RouteAPIPrefix    = "/api"
	RouteDungeons     = "/dungeons"
	RouteCharacter    = "/characters/:characterID"
	RouteBattleLogs   = "/characters/:characterID/battles"
	RouteItem         = "/items/:itemKey"
	RouteBattles      = "/battles"
	RouteBattleByID   = "/battles/:battleID"
	RouteBattleRound  = "/battles/:battleID/round"
	RouteQueueJoin    = "/pvp/queue"
	RouteQueueLeave   = "/pvp/queue/:characterID"
	RouteMatchByID    = "/pvp/matches/:matchID"
	RouteMatchActions = "/pvp/matches/:matchID/actions"
	RouteWebsocket    = "/ws"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrInvalidCharacterID = "Invalid character ID"
	ErrCharacterNotFound  = "Character not found"
	ErrDungeonNotFound    = "Dungeon not found"
	ErrBattleNotFound     = "Battle not found"
	ErrItemNotFound       = "Item not found"
	ErrBattleNotActive    = "Battle is not active"
	ErrBattleInProgress   = "Character already has an active battle"
	ErrMatchNotFound      = "Match not found"
	ErrMatchNotActive     = "Match is not active"
	ErrNotInMatch         = "Character is not in this match"
	ErrFailedStartBattle  = "Failed to start battle"
	ErrFailedResolveRound = "Failed to resolve round"
	ErrFailedJoinQueue    = "Failed to join queue"
	ErrFailedStoreActions = "Failed to store actions"
)

// Logging field names
const (
	LogFieldBattleID    = "battle_id"
	LogFieldMatchID     = "match_id"
	LogFieldCharacterID = "character_id"
	LogFieldDungeonID   = "dungeon_id"
	LogFieldMonsterID   = "monster_id"
	LogFieldAddr        = "addr"
)
