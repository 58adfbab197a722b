package game

import (
	"go.uber.org/zap"

	"github.com/cardforge/duel-engine/internal/game/events"
)

// Action factories and the play entry points. Factories read a card's
// static requirement and seed default choices; the caller fills in the
// rest and submits the action back through PlayCard or PlayAbility.

// CreateCardAction builds the action for casting the card as a spell.
// Returns nil when the play is illegal right now.
func (g *Game) CreateCardAction(cardID, playerID ObjectID) *Action {
	if !g.CanPlayCard(cardID, playerID) {
		return nil
	}
	card := g.Card(cardID)
	if card == nil {
		return nil
	}

	action := NewAction(playerID, cardID)
	action.SetRequiredCost(card.Cost)
	if card.SpellAbility != nil {
		action.SetRequiredTarget(card.SpellAbility.Target)
	}
	return action
}

// CanPlayCard checks the timing rules: the player must hold priority and
// own the card; instants are otherwise unrestricted, everything else is
// sorcery speed (empty stack, main phase, active player), and lands are
// additionally capped per turn.
func (g *Game) CanPlayCard(cardID, playerID ObjectID) bool {
	priority := g.Turn.Priority
	if priority == nil || priority.PlayerID != playerID {
		return false
	}

	card := g.Card(cardID)
	if card == nil || card.OwnerID != playerID {
		return false
	}
	if card.Kind == TypeInstant {
		return true
	}

	sorcerySpeed := len(g.Stack) == 0 &&
		g.Turn.Step.Main() &&
		g.Turn.ActivePlayer == playerID
	if !sorcerySpeed {
		return false
	}

	if card.Kind == TypeLand {
		player := g.Player(playerID)
		return player != nil && g.Turn.LandsPlayed < player.LandLimit.Current
	}
	return true
}

// PlayCard validates and pays the action, then either moves a land
// straight to the battlefield or pushes a spell entry on the stack.
func (g *Game) PlayCard(cardID ObjectID, action *Action) bool {
	if action == nil || !g.CanPlayCard(cardID, action.PlayerID) {
		return false
	}
	if !action.Valid(g) {
		return false
	}
	if !action.Pay(g) {
		return false
	}

	card := g.Card(cardID)
	if card == nil {
		return false
	}

	if card.Kind == TypeLand {
		// Lands bypass the stack.
		g.Turn.LandsPlayed++
		g.PutOnBattlefield(cardID)
	} else {
		effect := Effect(NoEffect{})
		if card.SpellAbility != nil {
			effect = card.SpellAbility.Effect
		}
		g.pushStack(&Resolve{
			Kind:     KindSpell,
			CardID:   cardID,
			Effect:   effect,
			Action:   *action,
			PlayerID: card.OwnerID,
		})
		g.PutOnStack(cardID)
		g.bus.Publish(events.Event{
			Type:   events.EventCastSpell,
			Player: action.PlayerID,
			Card:   cardID,
		})
	}

	g.log.Debug("card played", zap.Int("player", action.PlayerID), zap.Int("card", cardID))
	g.actionTaken()
	return true
}

// CanPlayAbility checks ability timing: the player must hold priority
// and control the permanent on the battlefield.
func (g *Game) CanPlayAbility(cardID, playerID ObjectID) bool {
	priority := g.Turn.Priority
	if priority == nil || priority.PlayerID != playerID {
		return false
	}
	card := g.Card(cardID)
	return card != nil && card.OwnerID == playerID && card.Zone == ZoneBattlefield
}

// CreateAbilityAction builds the action for one of the card's activated
// abilities. Returns nil when the play is illegal right now.
func (g *Game) CreateAbilityAction(playerID, cardID ObjectID, ability int) *Action {
	if !g.CanPlayAbility(cardID, playerID) {
		return nil
	}
	card := g.Card(cardID)
	if ability < 0 || ability >= len(card.ActivatedAbilities) {
		return nil
	}

	aa := card.ActivatedAbilities[ability]
	action := NewAction(playerID, cardID)
	action.SetRequiredCost(aa.Cost)
	action.SetRequiredTarget(aa.Target)
	action.SetRequiredEffect(aa.Effect)
	return action
}

// PlayAbility validates and pays the action, then pushes the ability on
// the stack. Mana abilities are the documented exception: they resolve
// synchronously, back to back, without ever waiting on the stack.
func (g *Game) PlayAbility(cardID ObjectID, ability int, action *Action) bool {
	if action == nil || !g.CanPlayAbility(cardID, action.PlayerID) {
		return false
	}
	card := g.Card(cardID)
	if ability < 0 || ability >= len(card.ActivatedAbilities) {
		return false
	}
	aa := card.ActivatedAbilities[ability]
	playerID := action.PlayerID

	if !action.Valid(g) {
		return false
	}
	if !action.Pay(g) {
		return false
	}

	choice := action.Choices.Effect
	g.pushStack(&Resolve{
		Kind:     KindAbility,
		Effect:   aa.Effect,
		Action:   *action,
		PlayerID: playerID,
	})
	g.bus.Publish(events.Event{
		Type:   events.EventActivatedAbility,
		Player: playerID,
		Card:   cardID,
	})

	if _, isMana := aa.Effect.(ManaEffect); isMana {
		g.StartResolve()
		if _, err := g.ResolveStep(PendingChoice{
			Choice:   choice,
			PlayerID: playerID,
			Effect:   aa.Effect,
		}); err != nil {
			// The action already validated; a failure here is a
			// modeling bug, not player error.
			panic(err)
		}
		g.EndResolve()
	}

	g.log.Debug("ability played", zap.Int("player", playerID), zap.Int("card", cardID), zap.Int("ability", ability))
	g.actionTaken()
	return true
}

// actionTaken resets the priority pass record after a successful action:
// every other player must pass again.
func (g *Game) actionTaken() {
	if g.Turn.Priority != nil {
		g.Turn.Priority.Reset()
	}
}

// dispatch publishes the event and queues any triggered abilities whose
// condition matches. Triggers are pushed on the waiting stack, never
// interleaved with the entry currently resolving.
func (g *Game) dispatch(ev events.Event) {
	g.bus.Publish(ev)

	for _, card := range g.allCards() {
		if card.Zone != ZoneBattlefield {
			continue
		}
		for _, ta := range card.TriggeredAbilities {
			if !conditionMatches(ta.Condition, card, ev) {
				continue
			}
			action := NewAction(card.OwnerID, card.ID)
			action.SetRequiredTarget(ta.Target)
			action.SetRequiredEffect(ta.Effect)
			g.pushStack(&Resolve{
				Kind:     KindAbility,
				Effect:   ta.Effect,
				Action:   *action,
				PlayerID: card.OwnerID,
			})
			g.log.Debug("ability triggered", zap.Int("card", card.ID), zap.String("event", string(ev.Type)))
		}
	}
}

func conditionMatches(cond Condition, card *Card, ev events.Event) bool {
	switch c := cond.(type) {
	case TapCondition:
		return ev.Type == events.EventTap && matchesTargetCard(c.What, card, ev.Card)
	case UntapCondition:
		return ev.Type == events.EventUntap && matchesTargetCard(c.What, card, ev.Card)
	case DrawCondition:
		return ev.Type == events.EventDrawCard && ev.Player == card.OwnerID
	case StepCondition:
		return ev.Type == events.EventStepChanged && ev.Step == string(c.Step)
	default:
		return false
	}
}

func matchesTargetCard(target Target, card *Card, eventCard ObjectID) bool {
	switch target.(type) {
	case SourceTarget:
		return eventCard == card.ID
	case NoTarget:
		return true
	default:
		return false
	}
}
