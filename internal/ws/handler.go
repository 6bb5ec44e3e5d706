package ws

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/battle"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/pvp"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// inbound is a client-to-server message. Only PvP action submission flows
// through the socket; everything else uses the HTTP API.
type inbound struct {
	Type     string        `json:"type"`
	MatchID  string        `json:"match_id,omitempty"`
	Attacks  []battle.Zone `json:"attacks,omitempty"`
	Defenses []battle.Zone `json:"defenses,omitempty"`
}

// Handler upgrades HTTP requests to websocket connections and routes
// inbound action submissions into the pvp service.
type Handler struct {
	hub *Hub
	pvp *pvp.Service
}

func NewHandler(hub *Hub, pvpSvc *pvp.Service) *Handler {
	return &Handler{hub: hub, pvp: pvpSvc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	characterID, err := strconv.ParseUint(r.URL.Query().Get("character_id"), 10, 32)
	if err != nil || characterID == 0 {
		http.Error(w, "character_id query parameter required", http.StatusBadRequest)
		return
	}
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logging.Error("failed to accept websocket", err, nil)
		return
	}

	cid := uint(characterID)
	c := &client{conn: conn}
	h.hub.register(cid, c)
	logging.Info("websocket attached", logging.Fields{
		constants.LogFieldCharacterID: cid,
	})

	h.readLoop(r.Context(), cid, c)

	h.hub.unregister(cid, c)
	h.pvp.Disconnect(cid)
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Handler) readLoop(ctx context.Context, characterID uint, c *client) {
	for {
		var msg inbound
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			return
		}
		switch msg.Type {
		case "pvp_actions":
			h.handleActions(characterID, c, msg)
		default:
			_ = c.send(Event{Type: "error", Payload: "unknown message type"})
		}
	}
}

func (h *Handler) handleActions(characterID uint, c *client, msg inbound) {
	actions, err := battle.ActionsFromSlices(msg.Attacks, msg.Defenses)
	if err != nil {
		_ = c.send(Event{Type: "error", Payload: err.Error()})
		return
	}
	matchID := msg.MatchID
	if matchID == "" {
		// Convenience: an omitted match id targets the character's only
		// active match.
		id, ok := h.pvp.MatchFor(characterID)
		if !ok {
			_ = c.send(Event{Type: "error", Payload: pvp.ErrMatchNotFound.Error()})
			return
		}
		matchID = id
	}
	_, resolved, err := h.pvp.SubmitActions(matchID, characterID, actions)
	if err != nil {
		_ = c.send(Event{Type: "error", Payload: err.Error()})
		return
	}
	if !resolved {
		// The round result itself is broadcast by the service once the
		// opponent submits; acknowledge the stored actions meanwhile.
		_ = c.send(Event{Type: "actions_stored", Payload: matchID})
	}
}
