package game

import (
	"math/rand"

	"github.com/cardforge/duel-engine/internal/game/events"
)

// The library is an ordered slice per player; the last element is the
// top of the deck.

// DrawCard moves the top library card to the player's hand and reports
// it. Drawing from an empty library loses the game.
func (g *Game) DrawCard(playerID ObjectID) (ObjectID, bool) {
	player := g.Player(playerID)
	if player == nil {
		return 0, false
	}

	if len(player.Library) == 0 {
		g.Loser = playerID
		return 0, false
	}

	cardID := player.Library[len(player.Library)-1]
	player.Library = player.Library[:len(player.Library)-1]
	player.Hand = append(player.Hand, cardID)

	card := g.Card(cardID)
	if card == nil {
		panic("game: library references a card that does not exist")
	}
	card.Zone = ZoneHand

	g.dispatch(events.Event{
		Type:   events.EventDrawCard,
		Player: playerID,
		Card:   cardID,
	})
	return cardID, true
}

// PutOnDeckTop places the card on top of the player's library.
func (g *Game) PutOnDeckTop(cardID, playerID ObjectID) {
	g.putInLibrary(cardID, playerID, true)
}

// PutOnDeckBottom places the card at the bottom of the player's library.
func (g *Game) PutOnDeckBottom(cardID, playerID ObjectID) {
	g.putInLibrary(cardID, playerID, false)
}

func (g *Game) putInLibrary(cardID, playerID ObjectID, top bool) {
	player := g.Player(playerID)
	if player == nil {
		return
	}
	card := g.Card(cardID)
	if card == nil {
		panic("game: placing a card that does not exist")
	}

	// Leaving any other zone for the library resets the card like every
	// other zone change does.
	if owner := g.Player(card.OwnerID); owner != nil {
		owner.Library = removeID(owner.Library, cardID)
		owner.Hand = removeID(owner.Hand, cardID)
		owner.Battlefield = removeID(owner.Battlefield, cardID)
		owner.Graveyard = removeID(owner.Graveyard, cardID)
	}
	card.State.Reset()
	g.applyStaticAbilities(card)

	if top {
		player.Library = append(player.Library, cardID)
	} else {
		player.Library = append([]ObjectID{cardID}, player.Library...)
	}
	card.Zone = ZoneLibrary
}

// ShuffleDeck randomizes the order of the player's library.
func (g *Game) ShuffleDeck(playerID ObjectID) {
	player := g.Player(playerID)
	if player == nil {
		return
	}
	rand.Shuffle(len(player.Library), func(i, j int) {
		player.Library[i], player.Library[j] = player.Library[j], player.Library[i]
	})
}
