package game

import (
	"github.com/cardforge/duel-engine/internal/game/events"
	"github.com/cardforge/duel-engine/internal/game/mana"
)

// Zone names the place a card currently sits in.
type Zone string

const (
	ZoneNone        Zone = "NONE"
	ZoneLibrary     Zone = "LIBRARY"
	ZoneHand        Zone = "HAND"
	ZoneStack       Zone = "STACK"
	ZoneBattlefield Zone = "BATTLEFIELD"
	ZoneGraveyard   Zone = "GRAVEYARD"
)

// CardType is the card's printed type.
type CardType string

const (
	TypeLand        CardType = "LAND"
	TypeCreature    CardType = "CREATURE"
	TypeArtifact    CardType = "ARTIFACT"
	TypeEnchantment CardType = "ENCHANTMENT"
	TypeInstant     CardType = "INSTANT"
	TypeSorcery     CardType = "SORCERY"
)

// Permanent reports whether a resolved spell of this type stays on the
// battlefield.
func (t CardType) Permanent() bool {
	switch t {
	case TypeLand, TypeCreature, TypeArtifact, TypeEnchantment:
		return true
	default:
		return false
	}
}

// StaticAbility is a keyword that changes rules hooks without resolving
// through the stack.
type StaticAbility string

const (
	Haste        StaticAbility = "HASTE"
	Flying       StaticAbility = "FLYING"
	Reach        StaticAbility = "REACH"
	Vigilance    StaticAbility = "VIGILANCE"
	Defender     StaticAbility = "DEFENDER"
	FirstStrike  StaticAbility = "FIRST_STRIKE"
	DoubleStrike StaticAbility = "DOUBLE_STRIKE"
	Trample      StaticAbility = "TRAMPLE"
	Deathtouch   StaticAbility = "DEATHTOUCH"
)

// CardState is the modifiable part of a card. Current values drift
// during a turn; defaults are the printed baseline re-established on
// zone changes.
type CardState struct {
	Power             Value[int]
	Toughness         Value[int]
	Tapped            Value[bool]
	SummoningSickness Value[bool]
}

// Restore resets power and toughness only. Used by the cleanup step;
// tapped state persists across turns.
func (s *CardState) Restore() {
	s.Power.Reset()
	s.Toughness.Reset()
}

// Reset restores the whole state to its defaults. Used on zone changes.
func (s *CardState) Reset() {
	s.Power.Reset()
	s.Toughness.Reset()
	s.Tapped.Reset()
	s.SummoningSickness.Reset()
}

// Card is one game object. Abilities are static data read by the action
// factories; all mutation goes through the game methods.
type Card struct {
	ID      ObjectID
	OwnerID ObjectID
	Name    string
	Kind    CardType
	Cost    Cost
	Zone    Zone
	State   CardState

	// SpellAbility is the effect performed when the card is cast as a
	// spell. Nil for vanilla permanents.
	SpellAbility *SpellAbility

	ActivatedAbilities []ActivatedAbility
	TriggeredAbilities []TriggeredAbility
	StaticAbilities    map[StaticAbility]bool
}

func newCard(owner ObjectID, kind CardType) *Card {
	return &Card{
		OwnerID:         owner,
		Kind:            kind,
		Cost:            NoCost{},
		Zone:            ZoneNone,
		StaticAbilities: make(map[StaticAbility]bool),
	}
}

// NewCreature builds a creature card with the given base power and
// toughness. Creatures enter play with summoning sickness.
func NewCreature(owner ObjectID, power, toughness int) *Card {
	c := newCard(owner, TypeCreature)
	c.State.Power = NewValue(power)
	c.State.Toughness = NewValue(toughness)
	c.State.SummoningSickness = NewValue(true)
	return c
}

func NewLand(owner ObjectID) *Card        { return newCard(owner, TypeLand) }
func NewArtifact(owner ObjectID) *Card    { return newCard(owner, TypeArtifact) }
func NewEnchantment(owner ObjectID) *Card { return newCard(owner, TypeEnchantment) }
func NewInstant(owner ObjectID) *Card     { return newCard(owner, TypeInstant) }
func NewSorcery(owner ObjectID) *Card     { return newCard(owner, TypeSorcery) }

// Has reports whether the card carries the keyword.
func (c *Card) Has(ability StaticAbility) bool {
	return c.StaticAbilities[ability]
}

// Grant adds a keyword ability to the card.
func (c *Card) Grant(ability StaticAbility) {
	c.StaticAbilities[ability] = true
}

// ManaCostOf is a convenience for building cards: it parses a cost
// string into a mana cost requirement.
func ManaCostOf(s string) Cost {
	return ManaCost{Amount: mana.MustParse(s)}
}

// tap marks the card tapped if it is an untapped permanent.
func (c *Card) tap() bool {
	if c.Zone == ZoneBattlefield && !c.State.Tapped.Current {
		c.State.Tapped.Current = true
		return true
	}
	return false
}

// untap clears the tapped flag if it is a tapped permanent.
func (c *Card) untap() bool {
	if c.Zone == ZoneBattlefield && c.State.Tapped.Current {
		c.State.Tapped.Current = false
		return true
	}
	return false
}

// TapCard taps the card and notifies triggered abilities. The source is
// the object whose cost or effect caused the tap, 0 for game actions.
func (g *Game) TapCard(cardID, source ObjectID) bool {
	card := g.Card(cardID)
	if card == nil || !card.tap() {
		return false
	}
	g.dispatch(events.Event{
		Type:   events.EventTap,
		Player: card.OwnerID,
		Card:   cardID,
		Source: source,
	})
	return true
}

// UntapCard untaps the card and notifies triggered abilities.
func (g *Game) UntapCard(cardID, source ObjectID) bool {
	card := g.Card(cardID)
	if card == nil || !card.untap() {
		return false
	}
	g.dispatch(events.Event{
		Type:   events.EventUntap,
		Player: card.OwnerID,
		Card:   cardID,
		Source: source,
	})
	return true
}
