// Package game implements the rules engine for a two player card duel:
// the turn/step/priority state machine, the LIFO stack with multi-step
// choice resolution, the cost/target/effect requirement algebra, and the
// combat damage engine.
package game

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardforge/duel-engine/internal/game/events"
	"github.com/cardforge/duel-engine/internal/game/mana"
)

// ObjectID identifies a card or player inside one game. IDs are handed
// out by the game registry and are never reused; 0 means "no object".
type ObjectID = int

// Default player parameters. A server may override them per game.
const (
	DefaultStartingLife  = 20
	DefaultHandSizeLimit = 7
	DefaultLandLimit     = 1
)

// Game is the registry and single mutation point for one duel. All rules
// operations are methods on it; the engine is fully synchronous and a
// Game must not be shared between goroutines without external locking.
type Game struct {
	ID      uuid.UUID
	Players []*Player
	Turn    *Turn
	Loser   ObjectID // 0 while the game is ongoing

	// Stack is the LIFO waiting list; the entry being resolved right
	// now is held separately in resolving.
	Stack     []*Resolve
	resolving *Resolve

	cards     map[ObjectID]*Card
	cardOrder []ObjectID
	nextID    ObjectID

	bus *events.Bus
	log *zap.Logger
}

// NewGame creates an empty game with no players.
func NewGame(logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		ID:     uuid.New(),
		cards:  make(map[ObjectID]*Card),
		nextID: 1,
		bus:    events.NewBus(),
		log:    logger,
	}
}

// Player holds one player's life, mana pool and zone contents. Zone
// slices are ordered; the library's last element is the top of the deck.
type Player struct {
	ID   ObjectID
	Name string
	Life int
	Mana mana.Mana

	HandSizeLimit Value[int]
	LandLimit     Value[int]

	Library     []ObjectID
	Hand        []ObjectID
	Battlefield []ObjectID
	Graveyard   []ObjectID
}

// AddPlayer registers a new player with default life and limits. The
// first added player becomes the active player of the first turn.
func (g *Game) AddPlayer(name string) *Player {
	p := &Player{
		ID:            g.nextID,
		Name:          name,
		Life:          DefaultStartingLife,
		HandSizeLimit: NewValue(DefaultHandSizeLimit),
		LandLimit:     NewValue(DefaultLandLimit),
	}
	g.nextID++
	g.Players = append(g.Players, p)
	if g.Turn == nil {
		g.Turn = NewTurn(p.ID)
	}
	g.log.Debug("player joined", zap.String("game", g.ID.String()), zap.Int("player", p.ID), zap.String("name", name))
	return p
}

// AddCard registers the card and assigns its ID. The card starts outside
// of any zone; move it with PutInHand, PutOnBattlefield or the deck
// helpers.
func (g *Game) AddCard(card *Card) ObjectID {
	card.ID = g.nextID
	g.nextID++
	g.cards[card.ID] = card
	g.cardOrder = append(g.cardOrder, card.ID)
	return card.ID
}

// Card returns the card with the given ID, or nil.
func (g *Game) Card(id ObjectID) *Card {
	return g.cards[id]
}

// Player returns the player with the given ID, or nil.
func (g *Game) Player(id ObjectID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// NextPlayer returns the player after the given one in turn order.
func (g *Game) NextPlayer(id ObjectID) ObjectID {
	for i, p := range g.Players {
		if p.ID == id {
			return g.Players[(i+1)%len(g.Players)].ID
		}
	}
	if len(g.Players) > 0 {
		return g.Players[0].ID
	}
	return 0
}

// Over reports whether a player has lost.
func (g *Game) Over() bool {
	return g.Loser != 0
}

// AddMana adds mana directly to a player's pool. Used by mana effects
// and by tests seeding a pool.
func (g *Game) AddMana(playerID ObjectID, amount mana.Mana) {
	if p := g.Player(playerID); p != nil {
		p.Mana = p.Mana.Add(amount)
	}
}

// Events exposes the game's event bus so drivers can observe state
// changes.
func (g *Game) Events() *events.Bus {
	return g.bus
}

// allCards iterates registered cards in registration order.
func (g *Game) allCards() []*Card {
	cards := make([]*Card, 0, len(g.cardOrder))
	for _, id := range g.cardOrder {
		cards = append(cards, g.cards[id])
	}
	return cards
}
