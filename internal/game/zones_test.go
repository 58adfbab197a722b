package game

import "testing"

func TestZoneChangeResetsCardState(t *testing.T) {
	g, p1, _ := newTestGame(t)
	creature := g.AddCard(NewCreature(p1.ID, 2, 2))
	g.PutOnBattlefield(creature)

	card := g.Card(creature)
	card.State.Toughness.Current = 1
	card.State.Tapped.Current = true

	g.PutOnGraveyard(creature)
	g.PutOnBattlefield(creature)

	if card.State.Toughness.Current != 2 {
		t.Error("damage must not follow a card across zones")
	}
	if card.State.Tapped.Current {
		t.Error("tapped state must not follow a card across zones")
	}
	if !card.State.SummoningSickness.Current {
		t.Error("a creature re-enters the battlefield sick")
	}
}

func TestZoneChangeMovesBetweenOwnerLists(t *testing.T) {
	g, p1, _ := newTestGame(t)
	creature := g.AddCard(NewCreature(p1.ID, 1, 1))

	g.PutInHand(creature)
	if len(p1.Hand) != 1 {
		t.Fatal("card missing from hand")
	}

	g.PutOnBattlefield(creature)
	if len(p1.Hand) != 0 || len(p1.Battlefield) != 1 {
		t.Error("card must leave the hand list when it hits the battlefield")
	}
	if !g.InZone(creature, ZoneBattlefield) {
		t.Error("InZone disagrees with the card's zone")
	}
}

func TestHasteSkipsSummoningSickness(t *testing.T) {
	g, p1, _ := newTestGame(t)
	creature := NewCreature(p1.ID, 2, 2)
	creature.Grant(Haste)
	id := g.AddCard(creature)

	g.PutOnBattlefield(id)

	if g.Card(id).State.SummoningSickness.Current {
		t.Error("haste creature must enter without sickness")
	}
}

func TestValueResetRestoresDefault(t *testing.T) {
	v := NewValue(4)
	v.Current = 1
	v.Reset()
	if v.Current != 4 {
		t.Errorf("current = %d, want 4", v.Current)
	}
}
