package game

import "sort"

// Snapshot views for drivers. Views carry only what a client renders;
// they are plain data and safe to marshal after the engine mutex is
// released.

// GameView is a full snapshot of one game's visible state.
type GameView struct {
	GameID       string       `json:"game_id"`
	Step         string       `json:"step"`
	ActivePlayer ObjectID     `json:"active_player"`
	Priority     ObjectID     `json:"priority,omitempty"`
	Over         bool         `json:"over"`
	Loser        ObjectID     `json:"loser,omitempty"`
	Players      []PlayerView `json:"players"`
	Stack        []StackView  `json:"stack"`
	Combat       []AttackView `json:"combat,omitempty"`
}

// PlayerView is one player's visible state.
type PlayerView struct {
	ID           ObjectID   `json:"id"`
	Name         string     `json:"name"`
	Life         int        `json:"life"`
	ManaPool     string     `json:"mana_pool"`
	LibraryCount int        `json:"library_count"`
	Hand         []CardView `json:"hand"`
	Battlefield  []CardView `json:"battlefield"`
	Graveyard    []CardView `json:"graveyard"`
}

// CardView is one card's visible state.
type CardView struct {
	ID                ObjectID `json:"id"`
	Name              string   `json:"name,omitempty"`
	Type              string   `json:"type"`
	Power             int      `json:"power,omitempty"`
	Toughness         int      `json:"toughness,omitempty"`
	Tapped            bool     `json:"tapped,omitempty"`
	SummoningSickness bool     `json:"summoning_sickness,omitempty"`
	Abilities         []string `json:"abilities,omitempty"`
}

// StackView is one waiting stack entry, top last.
type StackView struct {
	Player ObjectID `json:"player"`
	Card   ObjectID `json:"card,omitempty"`
	Spell  bool     `json:"spell"`
}

// AttackView is one declared attacker and its blockers.
type AttackView struct {
	Attacker ObjectID   `json:"attacker"`
	Target   ObjectID   `json:"target"`
	Blockers []ObjectID `json:"blockers,omitempty"`
}

// View snapshots the game.
func (g *Game) View() GameView {
	view := GameView{
		GameID:       g.ID.String(),
		Step:         string(g.Turn.Step),
		ActivePlayer: g.Turn.ActivePlayer,
		Over:         g.Over(),
		Loser:        g.Loser,
	}
	if g.Turn.Priority != nil {
		view.Priority = g.Turn.Priority.PlayerID
	}

	for _, p := range g.Players {
		view.Players = append(view.Players, PlayerView{
			ID:           p.ID,
			Name:         p.Name,
			Life:         p.Life,
			ManaPool:     p.Mana.String(),
			LibraryCount: len(p.Library),
			Hand:         g.cardViews(p.Hand),
			Battlefield:  g.cardViews(p.Battlefield),
			Graveyard:    g.cardViews(p.Graveyard),
		})
	}

	for _, entry := range g.Stack {
		view.Stack = append(view.Stack, StackView{
			Player: entry.PlayerID,
			Card:   entry.CardID,
			Spell:  entry.Kind == KindSpell,
		})
	}

	for _, attackerID := range g.Turn.Combat.AttackerIDs() {
		attacker := g.Turn.Combat.Attacker(attackerID)
		view.Combat = append(view.Combat, AttackView{
			Attacker: attackerID,
			Target:   attacker.Target,
			Blockers: append([]ObjectID(nil), attacker.Blockers...),
		})
	}
	return view
}

func (g *Game) cardViews(ids []ObjectID) []CardView {
	views := make([]CardView, 0, len(ids))
	for _, id := range ids {
		card := g.Card(id)
		if card == nil {
			continue
		}
		cv := CardView{
			ID:     id,
			Name:   card.Name,
			Type:   string(card.Kind),
			Tapped: card.State.Tapped.Current,
		}
		if card.Kind == TypeCreature {
			cv.Power = card.State.Power.Current
			cv.Toughness = card.State.Toughness.Current
			cv.SummoningSickness = card.State.SummoningSickness.Current
		}
		for ability := range card.StaticAbilities {
			cv.Abilities = append(cv.Abilities, string(ability))
		}
		sort.Strings(cv.Abilities)
		views = append(views, cv)
	}
	return views
}
