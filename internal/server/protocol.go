package server

import "github.com/cardforge/duel-engine/internal/game"

// Command is one client request. Fields beyond Type are read per
// command; unused fields are ignored.
type Command struct {
	Type   string `json:"type"`
	GameID string `json:"game_id,omitempty"`

	// create
	Players []string `json:"players,omitempty"`

	// join
	Player game.ObjectID `json:"player,omitempty"`

	// play_card / play_ability
	Card       game.ObjectID `json:"card,omitempty"`
	Ability    int           `json:"ability,omitempty"`
	Mana       string        `json:"mana,omitempty"`      // mana cost payment
	CostCard   game.ObjectID `json:"cost_card,omitempty"` // tap/sacrifice payment
	EffectMana string        `json:"effect_mana,omitempty"`

	// targeting
	TargetPlayer game.ObjectID `json:"target_player,omitempty"`
	TargetCard   game.ObjectID `json:"target_card,omitempty"`

	// combat
	Attacker   game.ObjectID `json:"attacker,omitempty"`
	Blocker    game.ObjectID `json:"blocker,omitempty"`
	AttackType string        `json:"attack_type,omitempty"` // "first_strike" or "regular"
	Damage     int           `json:"damage,omitempty"`

	// resolve / discard
	Cards []game.ObjectID `json:"cards,omitempty"`
}

// Response is the server's answer to one command.
type Response struct {
	Type    string         `json:"type"` // "ok" or "error"
	Error   string         `json:"error,omitempty"`
	View    *game.GameView `json:"view,omitempty"`
	Pending *PendingView   `json:"pending,omitempty"`
}

// PendingView tells the client which player owes a choice for the
// entry being resolved.
type PendingView struct {
	Player game.ObjectID `json:"player"`
	Kind   string        `json:"kind"` // "mana" or "discard"
	Count  int           `json:"count,omitempty"`
}

func errorResponse(msg string) Response {
	return Response{Type: "error", Error: msg}
}

func okResponse(g *game.Game) Response {
	view := g.View()
	return Response{Type: "ok", View: &view}
}

func pendingView(pc *game.PendingChoice) *PendingView {
	if pc == nil {
		return nil
	}
	pv := &PendingView{Player: pc.PlayerID}
	switch e := pc.Effect.(type) {
	case game.ManaEffect:
		pv.Kind = "mana"
		pv.Count = e.Amount.Total()
	case game.DiscardEffect:
		pv.Kind = "discard"
		pv.Count = e.Count
	}
	return pv
}
