package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cardforge/duel-engine/internal/game/mana"
)

func newTestGame(t *testing.T) (*Game, *Player, *Player) {
	t.Helper()
	g := NewGame(zaptest.NewLogger(t))
	p1 := g.AddPlayer("alice")
	p2 := g.AddPlayer("bob")
	return g, p1, p2
}

func TestStartResolvePanicsOnEmptyStack(t *testing.T) {
	g, _, _ := newTestGame(t)
	require.Panics(t, func() { g.StartResolve() })
}

func TestEndResolvePanicsWithoutResolving(t *testing.T) {
	g, _, _ := newTestGame(t)
	require.Panics(t, func() { g.EndResolve() })
}

func TestResolveStepWithoutResolvingEntry(t *testing.T) {
	g, p1, _ := newTestGame(t)
	g.pushStack(&Resolve{Effect: NoEffect{}, Action: *NewAction(p1.ID, 0), PlayerID: p1.ID})

	_, err := g.ResolveStep(PendingChoice{Choice: NoChoice{}})
	assert.ErrorIs(t, err, ErrEmptyStack)
}

func TestStackResolvesInReverseOrder(t *testing.T) {
	g, p1, _ := newTestGame(t)

	first := &Resolve{Effect: NoEffect{}, Action: *NewAction(p1.ID, 0), PlayerID: p1.ID}
	second := &Resolve{Effect: NoEffect{}, Action: *NewAction(p1.ID, 0), PlayerID: p1.ID}
	g.pushStack(first)
	g.pushStack(second)

	g.StartResolve()
	assert.Same(t, second, g.Resolving())
	_, err := g.ResolveStep(PendingChoice{Choice: NoChoice{}})
	require.NoError(t, err)
	g.EndResolve()

	g.StartResolve()
	assert.Same(t, first, g.Resolving())
}

func TestEndResolveRoutesPermanentToBattlefield(t *testing.T) {
	g, p1, _ := newTestGame(t)
	creature := g.AddCard(NewCreature(p1.ID, 2, 2))
	g.PutOnStack(creature)

	g.pushStack(&Resolve{
		Kind:     KindSpell,
		CardID:   creature,
		Effect:   NoEffect{},
		Action:   *NewAction(p1.ID, creature),
		PlayerID: p1.ID,
	})
	require.NoError(t, g.ResolveAuto())

	assert.Equal(t, ZoneBattlefield, g.Card(creature).Zone)
	assert.True(t, g.Card(creature).State.SummoningSickness.Current)
}

func TestEndResolveRoutesInstantToGraveyard(t *testing.T) {
	g, p1, p2 := newTestGame(t)
	bolt := NewInstant(p1.ID)
	bolt.SpellAbility = &SpellAbility{Effect: DamageEffect{Amount: 3}, Target: PlayerTarget{}}
	id := g.AddCard(bolt)
	g.PutOnStack(id)

	action := NewAction(p1.ID, id)
	action.SetRequiredTarget(PlayerTarget{})
	action.Choices.Target = PlayerChoice{Player: p2.ID}
	g.pushStack(&Resolve{
		Kind:     KindSpell,
		CardID:   id,
		Effect:   bolt.SpellAbility.Effect,
		Action:   *action,
		PlayerID: p1.ID,
	})
	require.NoError(t, g.ResolveAuto())

	assert.Equal(t, ZoneGraveyard, g.Card(id).Zone)
	assert.Equal(t, 17, g.Player(p2.ID).Life)
}

func TestEndResolveReopensPriority(t *testing.T) {
	g, p1, _ := newTestGame(t)
	g.Turn.Priority = nil

	g.pushStack(&Resolve{Effect: NoEffect{}, Action: *NewAction(p1.ID, 0), PlayerID: p1.ID})
	require.NoError(t, g.ResolveAuto())

	require.NotNil(t, g.Turn.Priority)
	assert.Equal(t, g.Turn.ActivePlayer, g.Turn.Priority.PlayerID)
}

func TestResolveSequencePausesForDiscard(t *testing.T) {
	g, p1, _ := newTestGame(t)

	deck := make([]ObjectID, 3)
	for i := range deck {
		deck[i] = g.AddCard(NewLand(p1.ID))
		g.PutOnDeckTop(deck[i], p1.ID)
	}

	action := NewAction(p1.ID, 0)
	action.SetRequiredTarget(OwnerTarget{})
	g.pushStack(&Resolve{
		Effect: EffectSequence{Effects: []Effect{
			DrawEffect{Count: 2},
			DiscardEffect{Count: 1},
		}},
		Action:   *action,
		PlayerID: p1.ID,
	})

	g.StartResolve()
	pending, err := g.ResolveStep(PendingChoice{Choice: NoChoice{}})
	require.NoError(t, err)

	// The draw resolved unattended; the discard waits on the drawer.
	require.NotNil(t, pending)
	assert.Equal(t, p1.ID, pending.PlayerID)
	assert.IsType(t, DiscardEffect{}, pending.Effect)
	assert.Len(t, g.Player(p1.ID).Hand, 2)

	drawn := g.Player(p1.ID).Hand[0]
	pending.Choice = CardChoice{Card: drawn}
	next, err := g.ResolveStep(*pending)
	require.NoError(t, err)
	assert.Nil(t, next)
	g.EndResolve()

	assert.Equal(t, ZoneGraveyard, g.Card(drawn).Zone)
	assert.Len(t, g.Player(p1.ID).Hand, 1)
}

func TestResolveRejectsDiscardOutsideHand(t *testing.T) {
	g, p1, _ := newTestGame(t)
	land := g.AddCard(NewLand(p1.ID))
	g.PutOnBattlefield(land)

	action := NewAction(p1.ID, 0)
	action.SetRequiredTarget(OwnerTarget{})
	g.pushStack(&Resolve{
		Effect:   DiscardEffect{Count: 1},
		Action:   *action,
		PlayerID: p1.ID,
	})

	g.StartResolve()
	_, err := g.ResolveStep(PendingChoice{Choice: CardChoice{Card: land}, PlayerID: p1.ID})
	assert.ErrorIs(t, err, ErrInvalidChoice)

	// The entry is still resolving and can be retried.
	require.NotNil(t, g.Resolving())
}

func TestResolveRejectsShortManaChoice(t *testing.T) {
	g, p1, _ := newTestGame(t)

	g.pushStack(&Resolve{
		Effect:   ManaEffect{Amount: mana.Mana{Any: 1}},
		Action:   *NewAction(p1.ID, 0),
		PlayerID: p1.ID,
	})

	g.StartResolve()
	_, err := g.ResolveStep(PendingChoice{Choice: ManaChoice{}, PlayerID: p1.ID})
	assert.ErrorIs(t, err, ErrInvalidChoice)

	_, err = g.ResolveStep(PendingChoice{
		Choice:   ManaChoice{Amount: mana.Mana{Red: 1}},
		PlayerID: p1.ID,
	})
	require.NoError(t, err)
	g.EndResolve()

	assert.Equal(t, 1, g.Player(p1.ID).Mana.Red)
}

func TestDealPlayerDamageLethal(t *testing.T) {
	g, _, p2 := newTestGame(t)
	p2.Life = 2

	g.DealPlayerDamage(p2.ID, 3)

	assert.True(t, g.Over())
	assert.Equal(t, p2.ID, g.Loser)
}

func TestDealDamageDestroysCreature(t *testing.T) {
	g, p1, _ := newTestGame(t)
	creature := g.AddCard(NewCreature(p1.ID, 2, 2))
	g.PutOnBattlefield(creature)

	g.DealDamage(creature, 1)
	assert.Equal(t, ZoneBattlefield, g.Card(creature).Zone)
	assert.Equal(t, 1, g.Card(creature).State.Toughness.Current)

	g.DealDamage(creature, 1)
	assert.Equal(t, ZoneGraveyard, g.Card(creature).Zone)
}
