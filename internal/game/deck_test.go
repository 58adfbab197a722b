package game

import "testing"

func TestDrawFollowsDeckOrder(t *testing.T) {
	g, p1, _ := newTestGame(t)

	bottom := g.AddCard(NewLand(p1.ID))
	top := g.AddCard(NewLand(p1.ID))
	g.PutOnDeckTop(bottom, p1.ID)
	g.PutOnDeckTop(top, p1.ID)

	drawn, ok := g.DrawCard(p1.ID)
	if !ok || drawn != top {
		t.Fatalf("drew %d, want top card %d", drawn, top)
	}
	if g.Card(drawn).Zone != ZoneHand {
		t.Error("drawn card must be in hand")
	}

	drawn, _ = g.DrawCard(p1.ID)
	if drawn != bottom {
		t.Fatalf("drew %d, want bottom card %d", drawn, bottom)
	}
}

func TestPutOnDeckBottom(t *testing.T) {
	g, p1, _ := newTestGame(t)

	first := g.AddCard(NewLand(p1.ID))
	second := g.AddCard(NewLand(p1.ID))
	g.PutOnDeckTop(first, p1.ID)
	g.PutOnDeckBottom(second, p1.ID)

	drawn, _ := g.DrawCard(p1.ID)
	if drawn != first {
		t.Errorf("drew %d, want %d; bottomed card must come last", drawn, first)
	}
}

func TestPutOnDeckTopFromHand(t *testing.T) {
	g, p1, _ := newTestGame(t)
	card := g.AddCard(NewLand(p1.ID))
	g.PutInHand(card)

	g.PutOnDeckTop(card, p1.ID)

	if len(p1.Hand) != 0 {
		t.Error("card must leave the hand when it goes back to the library")
	}
	if len(p1.Library) != 1 || !g.InZone(card, ZoneLibrary) {
		t.Error("card must be in the library")
	}
}

func TestDrawFromEmptyLibraryLoses(t *testing.T) {
	g, p1, _ := newTestGame(t)

	_, ok := g.DrawCard(p1.ID)
	if ok {
		t.Fatal("draw from empty library must fail")
	}
	if !g.Over() || g.Loser != p1.ID {
		t.Error("drawing from an empty library loses the game")
	}
}

func TestShuffleKeepsCards(t *testing.T) {
	g, p1, _ := newTestGame(t)

	want := make(map[ObjectID]bool)
	for i := 0; i < 10; i++ {
		id := g.AddCard(NewLand(p1.ID))
		g.PutOnDeckTop(id, p1.ID)
		want[id] = true
	}

	g.ShuffleDeck(p1.ID)

	if len(p1.Library) != len(want) {
		t.Fatalf("library size = %d, want %d", len(p1.Library), len(want))
	}
	for _, id := range p1.Library {
		if !want[id] {
			t.Errorf("unexpected card %d after shuffle", id)
		}
	}
}
