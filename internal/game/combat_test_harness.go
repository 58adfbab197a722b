package game

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

// CombatTestHarness provides utilities for setting up and running combat
// scenarios in tests.
type CombatTestHarness struct {
	t        *testing.T
	Game     *Game
	Player   ObjectID
	Opponent ObjectID
}

// NewCombatTestHarness creates a two player game ready for combat tests.
func NewCombatTestHarness(t *testing.T) *CombatTestHarness {
	g := NewGame(zaptest.NewLogger(t))
	player := g.AddPlayer("player")
	opponent := g.AddPlayer("opponent")
	return &CombatTestHarness{
		t:        t,
		Game:     g,
		Player:   player.ID,
		Opponent: opponent.ID,
	}
}

// CreatureSpec defines the properties of a test creature.
type CreatureSpec struct {
	Owner     ObjectID
	Power     int
	Toughness int
	Abilities []StaticAbility
}

// CreateCreature adds a creature to the battlefield.
func (h *CombatTestHarness) CreateCreature(spec CreatureSpec) ObjectID {
	card := NewCreature(spec.Owner, spec.Power, spec.Toughness)
	for _, ability := range spec.Abilities {
		card.Grant(ability)
	}
	id := h.Game.AddCard(card)
	h.Game.PutOnBattlefield(id)
	return id
}

// CreateAttacker adds a hasty creature for the attacking player, so it
// can attack the turn it enters.
func (h *CombatTestHarness) CreateAttacker(power, toughness int, abilities ...StaticAbility) ObjectID {
	return h.CreateCreature(CreatureSpec{
		Owner:     h.Player,
		Power:     power,
		Toughness: toughness,
		Abilities: append([]StaticAbility{Haste}, abilities...),
	})
}

// CreateBlocker adds a creature for the defending player.
func (h *CombatTestHarness) CreateBlocker(power, toughness int, abilities ...StaticAbility) ObjectID {
	return h.CreateCreature(CreatureSpec{
		Owner:     h.Opponent,
		Power:     power,
		Toughness: toughness,
		Abilities: abilities,
	})
}

// DeclareAttacker runs the declare attackers step with the single
// attacker swinging at the opponent.
func (h *CombatTestHarness) DeclareAttacker(attackerID ObjectID) {
	g := h.Game
	g.DeclareAttackersStepStart()
	if !g.DeclareAttacker(attackerID, h.Opponent) {
		h.t.Fatalf("could not declare attacker %d", attackerID)
	}
	g.DeclareAttackersStepEnd()
}

// DeclareBlockers runs the declare blockers step with the given blockers
// all blocking the attacker.
func (h *CombatTestHarness) DeclareBlockers(attackerID ObjectID, blockerIDs ...ObjectID) {
	g := h.Game
	g.DeclareBlockersStepStart()
	for _, blockerID := range blockerIDs {
		if !g.DeclareBlocker(blockerID, attackerID) {
			h.t.Fatalf("could not declare blocker %d", blockerID)
		}
	}
	g.DeclareBlockersStepEnd()
}

// RunCombat declares the attacker and blockers, auto-assigns damage and
// resolves the damage step.
func (h *CombatTestHarness) RunCombat(attackerID ObjectID, blockerIDs ...ObjectID) {
	h.DeclareAttacker(attackerID)
	h.DeclareBlockers(attackerID, blockerIDs...)
	h.Game.CombatDamageStepStart()
	if !h.Game.CombatDamageStepEnd() {
		h.t.Fatalf("combat damage step refused to resolve")
	}
}

// AssertZone fails the test when the card is not in the expected zone.
func (h *CombatTestHarness) AssertZone(cardID ObjectID, zone Zone) {
	h.t.Helper()
	card := h.Game.Card(cardID)
	if card == nil {
		h.t.Fatalf("card %d does not exist", cardID)
	}
	if card.Zone != zone {
		h.t.Errorf("card %d in zone %s, want %s", cardID, card.Zone, zone)
	}
}

// AssertLife fails the test when the player's life differs.
func (h *CombatTestHarness) AssertLife(playerID ObjectID, life int) {
	h.t.Helper()
	player := h.Game.Player(playerID)
	if player == nil {
		h.t.Fatalf("player %d does not exist", playerID)
	}
	if player.Life != life {
		h.t.Errorf("player %d life = %d, want %d", playerID, player.Life, life)
	}
}

// AssertToughness fails the test when the card's current toughness
// differs.
func (h *CombatTestHarness) AssertToughness(cardID ObjectID, toughness int) {
	h.t.Helper()
	card := h.Game.Card(cardID)
	if card == nil {
		h.t.Fatalf("card %d does not exist", cardID)
	}
	if got := card.State.Toughness.Current; got != toughness {
		h.t.Errorf("card %d toughness = %d, want %d", cardID, got, toughness)
	}
}
