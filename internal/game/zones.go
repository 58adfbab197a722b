package game

import "github.com/cardforge/duel-engine/internal/game/events"

// Zone movement is centralized here so every transition resets the
// card's state, re-applies zone-dependent static abilities and keeps the
// owner's zone lists consistent.

// PutOnBattlefield moves the card to the battlefield.
func (g *Game) PutOnBattlefield(cardID ObjectID) {
	g.changeZone(cardID, ZoneBattlefield)
}

// PutOnGraveyard moves the card to its owner's graveyard.
func (g *Game) PutOnGraveyard(cardID ObjectID) {
	g.changeZone(cardID, ZoneGraveyard)
}

// PutOnStack marks the card as a spell waiting on the stack.
func (g *Game) PutOnStack(cardID ObjectID) {
	g.changeZone(cardID, ZoneStack)
}

// PutInHand moves the card to its owner's hand.
func (g *Game) PutInHand(cardID ObjectID) {
	g.changeZone(cardID, ZoneHand)
}

func (g *Game) changeZone(cardID ObjectID, zone Zone) {
	card := g.Card(cardID)
	if card == nil {
		return
	}

	from := card.Zone
	card.Zone = zone
	card.State.Reset()
	g.applyStaticAbilities(card)

	if owner := g.Player(card.OwnerID); owner != nil {
		owner.Library = removeID(owner.Library, cardID)
		owner.Hand = removeID(owner.Hand, cardID)
		owner.Battlefield = removeID(owner.Battlefield, cardID)
		owner.Graveyard = removeID(owner.Graveyard, cardID)

		switch zone {
		case ZoneHand:
			owner.Hand = append(owner.Hand, cardID)
		case ZoneBattlefield:
			owner.Battlefield = append(owner.Battlefield, cardID)
		case ZoneGraveyard:
			owner.Graveyard = append(owner.Graveyard, cardID)
		case ZoneLibrary:
			owner.Library = append(owner.Library, cardID)
		}
	}

	if from != zone {
		g.bus.Publish(events.Event{
			Type:   events.EventZoneChange,
			Player: card.OwnerID,
			Card:   cardID,
		})
	}
}

// applyStaticAbilities re-establishes zone-dependent baselines after a
// zone change. Haste removes the summoning sickness default entirely.
func (g *Game) applyStaticAbilities(card *Card) {
	if card.Has(Haste) {
		card.State.SummoningSickness = NewValue(false)
	}
}

// InZone reports whether the card currently sits in the given zone.
func (g *Game) InZone(cardID ObjectID, zone Zone) bool {
	card := g.Card(cardID)
	return card != nil && card.Zone == zone
}

func removeID(ids []ObjectID, id ObjectID) []ObjectID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
