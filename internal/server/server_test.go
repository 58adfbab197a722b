package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cardforge/duel-engine/internal/game"
	"github.com/cardforge/duel-engine/internal/game/mana"
)

func newTestServer(t *testing.T) (*Server, *game.Game, *connection, *connection) {
	t.Helper()
	s := New(game.NewEngine(game.DefaultGameParams(), zaptest.NewLogger(t)), zaptest.NewLogger(t))

	c1 := &connection{server: s}
	resp := s.handle(c1, Command{Type: "create", Players: []string{"alice", "bob"}})
	require.Equal(t, "ok", resp.Type, resp.Error)

	g, err := s.engine.Game(c1.gameID)
	require.NoError(t, err)

	c2 := &connection{server: s, gameID: g.ID, playerID: g.Players[1].ID}
	return s, g, c1, c2
}

func TestCreateBindsFirstPlayer(t *testing.T) {
	_, g, c1, _ := newTestServer(t)
	assert.Equal(t, g.ID, c1.gameID)
	assert.Equal(t, g.Players[0].ID, c1.playerID)
}

func TestJoinValidation(t *testing.T) {
	s, g, _, _ := newTestServer(t)

	c := &connection{server: s}
	resp := s.handle(c, Command{Type: "join", GameID: "not-a-uuid"})
	assert.Equal(t, "error", resp.Type)

	resp = s.handle(c, Command{Type: "join", GameID: g.ID.String(), Player: 999})
	assert.Equal(t, "error", resp.Type)

	resp = s.handle(c, Command{Type: "join", GameID: g.ID.String(), Player: g.Players[1].ID})
	require.Equal(t, "ok", resp.Type)
	assert.Equal(t, g.Players[1].ID, c.playerID)
}

func TestCommandsRequireGame(t *testing.T) {
	s, _, _, _ := newTestServer(t)
	c := &connection{server: s}
	resp := s.handle(c, Command{Type: "pass_priority"})
	assert.Equal(t, "error", resp.Type)
}

func TestPlayLandCommand(t *testing.T) {
	s, g, c1, _ := newTestServer(t)
	g.Turn.Step = game.StepPrecombat
	g.Turn.Priority = game.NewPriority(c1.playerID)

	land := g.AddCard(game.NewLand(c1.playerID))
	g.PutInHand(land)

	resp := s.handle(c1, Command{Type: "play_card", Card: land})
	require.Equal(t, "ok", resp.Type, resp.Error)
	assert.True(t, g.InZone(land, game.ZoneBattlefield))

	// One land per turn.
	second := g.AddCard(game.NewLand(c1.playerID))
	g.PutInHand(second)
	resp = s.handle(c1, Command{Type: "play_card", Card: second})
	assert.Equal(t, "error", resp.Type)
}

func TestPassPriorityResolvesStack(t *testing.T) {
	s, g, c1, c2 := newTestServer(t)
	g.Turn.Step = game.StepPrecombat
	g.Turn.Priority = game.NewPriority(c1.playerID)

	bolt := game.NewInstant(c1.playerID)
	bolt.SpellAbility = &game.SpellAbility{
		Effect: game.DamageEffect{Amount: 3},
		Target: game.PlayerTarget{},
	}
	id := g.AddCard(bolt)
	g.PutInHand(id)

	resp := s.handle(c1, Command{Type: "play_card", Card: id, TargetPlayer: c2.playerID})
	require.Equal(t, "ok", resp.Type, resp.Error)
	require.Len(t, g.Stack, 1)

	resp = s.handle(c1, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)
	resp = s.handle(c2, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)

	assert.Empty(t, g.Stack)
	assert.Equal(t, 17, g.Player(c2.playerID).Life)
	assert.True(t, g.InZone(id, game.ZoneGraveyard))
}

func TestPassPriorityRejectsWrongPlayer(t *testing.T) {
	s, g, _, c2 := newTestServer(t)
	g.Turn.Step = game.StepPrecombat
	g.Turn.Priority = game.NewPriority(g.Players[0].ID)

	resp := s.handle(c2, Command{Type: "pass_priority"})
	assert.Equal(t, "error", resp.Type)
}

func TestCombatCommandFlow(t *testing.T) {
	s, g, c1, c2 := newTestServer(t)

	attacker := game.NewCreature(c1.playerID, 3, 3)
	attacker.Grant(game.Haste)
	attackerID := g.AddCard(attacker)
	g.PutOnBattlefield(attackerID)

	blockerID := g.AddCard(game.NewCreature(c2.playerID, 1, 1))
	g.PutOnBattlefield(blockerID)

	g.DeclareAttackersStepStart()

	resp := s.handle(c1, Command{Type: "declare_attacker", Attacker: attackerID})
	require.Equal(t, "ok", resp.Type, resp.Error)

	// The active player closes the declaration window.
	resp = s.handle(c1, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)

	// Both pass; blockers are up next.
	s.handle(c1, Command{Type: "pass_priority"})
	resp = s.handle(c2, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)
	require.Equal(t, game.StepDeclareBlockers, g.Turn.Step)

	resp = s.handle(c2, Command{Type: "declare_blocker", Blocker: blockerID, Attacker: attackerID})
	require.Equal(t, "ok", resp.Type, resp.Error)
	resp = s.handle(c2, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)

	// Both pass into the damage step, then through it.
	s.handle(c1, Command{Type: "pass_priority"})
	s.handle(c2, Command{Type: "pass_priority"})
	require.Equal(t, game.StepCombatDamage, g.Turn.Step)
	s.handle(c1, Command{Type: "pass_priority"})
	resp = s.handle(c2, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)

	assert.Equal(t, game.StepCombatEnd, g.Turn.Step)
	assert.True(t, g.InZone(blockerID, game.ZoneGraveyard))
	assert.True(t, g.InZone(attackerID, game.ZoneBattlefield))
	assert.Equal(t, 20, g.Player(c2.playerID).Life)
}

func TestCleanupDiscardCommand(t *testing.T) {
	s, g, c1, _ := newTestServer(t)
	g.Turn.Step = game.StepEnd
	g.Turn.Priority = game.NewPriority(c1.playerID)

	hand := make([]game.ObjectID, 8)
	for i := range hand {
		hand[i] = g.AddCard(game.NewLand(c1.playerID))
		g.PutInHand(hand[i])
	}
	// Something to draw next turn so the turn handoff does not lose.
	for _, p := range g.Players {
		g.PutOnDeckTop(g.AddCard(game.NewLand(p.ID)), p.ID)
	}

	resp := s.handle(c1, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)
	c2 := &connection{server: s, gameID: g.ID, playerID: g.Players[1].ID}
	resp = s.handle(c2, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)

	require.NotNil(t, resp.Pending)
	assert.Equal(t, "discard", resp.Pending.Kind)
	assert.Equal(t, 1, resp.Pending.Count)
	assert.Equal(t, c1.playerID, resp.Pending.Player)

	// Wrong count is rejected.
	resp = s.handle(c1, Command{Type: "discard", Cards: hand[:2]})
	assert.Equal(t, "error", resp.Type)

	resp = s.handle(c1, Command{Type: "discard", Cards: hand[:1]})
	require.Equal(t, "ok", resp.Type, resp.Error)
	assert.Len(t, g.Player(c1.playerID).Hand, 7)

	// The turn moved on to the opponent.
	assert.Equal(t, g.Players[1].ID, g.Turn.ActivePlayer)
	assert.Equal(t, game.StepUpkeep, g.Turn.Step)
}

func TestResolveChoiceRejectsWrongPlayer(t *testing.T) {
	s, g, c1, c2 := newTestServer(t)
	g.Turn.Step = game.StepPrecombat
	g.Turn.Priority = game.NewPriority(c1.playerID)

	keep := g.AddCard(game.NewLand(c1.playerID))
	g.PutInHand(keep)

	spell := game.NewSorcery(c1.playerID)
	spell.SpellAbility = &game.SpellAbility{
		Effect: game.DiscardEffect{Count: 1},
		Target: game.OwnerTarget{},
	}
	id := g.AddCard(spell)
	g.PutInHand(id)

	resp := s.handle(c1, Command{Type: "play_card", Card: id})
	require.Equal(t, "ok", resp.Type, resp.Error)
	s.handle(c1, Command{Type: "pass_priority"})
	resp = s.handle(c2, Command{Type: "pass_priority"})
	require.Equal(t, "ok", resp.Type, resp.Error)

	// The discard choice belongs to the caster, not the opponent.
	require.NotNil(t, resp.Pending)
	require.Equal(t, c1.playerID, resp.Pending.Player)

	resp = s.handle(c2, Command{Type: "resolve", Cards: []game.ObjectID{keep}})
	assert.Equal(t, "error", resp.Type)
	assert.True(t, g.InZone(keep, game.ZoneHand))

	resp = s.handle(c1, Command{Type: "resolve", Cards: []game.ObjectID{keep}})
	require.Equal(t, "ok", resp.Type, resp.Error)
	assert.True(t, g.InZone(keep, game.ZoneGraveyard))
}

func TestResolveManaChoice(t *testing.T) {
	s, g, c1, _ := newTestServer(t)
	g.Turn.Step = game.StepPrecombat
	g.Turn.Priority = game.NewPriority(c1.playerID)

	land := game.NewLand(c1.playerID)
	land.ActivatedAbilities = []game.ActivatedAbility{{
		Cost:   game.TapCost{What: game.SourceTarget{}},
		Effect: game.ManaEffect{Amount: mana.MustParse("*")},
		Target: game.OwnerTarget{},
	}}
	id := g.AddCard(land)
	g.PutOnBattlefield(id)

	resp := s.handle(c1, Command{
		Type:       "play_ability",
		Card:       id,
		CostCard:   id,
		EffectMana: "U",
	})
	require.Equal(t, "ok", resp.Type, resp.Error)
	assert.Equal(t, 1, g.Player(c1.playerID).Mana.Blue)
}
