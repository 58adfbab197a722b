package game

import "github.com/cardforge/duel-engine/internal/game/mana"

// The requirement triple (Cost, Target, Effect) and the Choice values a
// player supplies against it are closed sum types. Every variant is
// handled by exhaustive type switches in the action and resolve paths;
// an unhandled variant surfaces as ErrUnknownEffect rather than silently
// doing nothing.

// Cost describes what must be paid to take an action.
type Cost interface{ isCost() }

// NoCost is a free action.
type NoCost struct{}

// ManaCost requires paying the given mana amount from the actor's pool.
type ManaCost struct{ Amount mana.Mana }

// TapCost requires tapping the described permanent.
type TapCost struct{ What Target }

// SacrificeCost requires moving the described permanent to the
// graveyard.
type SacrificeCost struct{ What Target }

// CompositeCost requires paying every sub-cost.
type CompositeCost struct{ Costs []Cost }

func (NoCost) isCost()        {}
func (ManaCost) isCost()      {}
func (TapCost) isCost()       {}
func (SacrificeCost) isCost() {}
func (CompositeCost) isCost() {}

// Target describes whom an effect or cost may apply to.
type Target interface{ isTarget() }

// NoTarget means the effect is untargeted.
type NoTarget struct{}

// SourceTarget is the card the action originates from.
type SourceTarget struct{}

// OwnerTarget is the acting player.
type OwnerTarget struct{}

// PlayerTarget is any player.
type PlayerTarget struct{}

// CreatureTarget is any creature on the battlefield.
type CreatureTarget struct{}

// AnyOfTarget lets the player pick which alternative applies.
type AnyOfTarget struct{ Options []Target }

func (NoTarget) isTarget()       {}
func (SourceTarget) isTarget()   {}
func (OwnerTarget) isTarget()    {}
func (PlayerTarget) isTarget()   {}
func (CreatureTarget) isTarget() {}
func (AnyOfTarget) isTarget()    {}

// Effect describes what an ability does when it resolves.
type Effect interface{ isEffect() }

// NoEffect resolves without touching game state. Vanilla permanent
// spells carry it so resolution still routes them to the battlefield.
type NoEffect struct{}

// ManaEffect adds mana to the owner's pool. An amount with a wildcard
// component asks the player to choose the produced colors.
type ManaEffect struct{ Amount mana.Mana }

// DamageEffect deals the amount to the action's target.
type DamageEffect struct{ Amount int }

// DiscardEffect makes the targeted player discard the given number of
// cards of their choice.
type DiscardEffect struct{ Count int }

// DrawEffect makes the targeted player draw cards.
type DrawEffect struct{ Count int }

// EffectSequence resolves its sub-effects front to back, pausing for
// player input only at steps that need it.
type EffectSequence struct{ Effects []Effect }

func (NoEffect) isEffect()       {}
func (ManaEffect) isEffect()     {}
func (DamageEffect) isEffect()   {}
func (DiscardEffect) isEffect()  {}
func (DrawEffect) isEffect()     {}
func (EffectSequence) isEffect() {}

// RequiredChoice returns the shape of player input the effect needs to
// resolve: NoChoice when it resolves unattended.
func RequiredChoice(effect Effect) Choice {
	switch e := effect.(type) {
	case ManaEffect:
		if e.Amount.Any > 0 {
			return ManaChoice{}
		}
		return NoChoice{}
	case DiscardEffect:
		choices := make([]Choice, e.Count)
		for i := range choices {
			choices[i] = CardChoice{}
		}
		return ChoiceList{Choices: choices}
	case EffectSequence:
		choices := make([]Choice, 0, len(e.Effects))
		for _, sub := range e.Effects {
			choices = append(choices, RequiredChoice(sub))
		}
		return ChoiceList{Choices: choices}
	default:
		return NoChoice{}
	}
}

// choiceNeeded reports whether the required choice shape actually asks
// for player input.
func choiceNeeded(c Choice) bool {
	_, none := c.(NoChoice)
	return !none
}

// Choice is a player's concrete selection answering a requirement. The
// same Choice value answers the cost, target and effect sub-questions of
// one Action.
type Choice interface{ isChoice() }

// NoChoice answers requirements that need no input.
type NoChoice struct{}

// ManaChoice selects a concrete mana amount, either as a payment or as
// the colors produced by a wildcard mana effect.
type ManaChoice struct{ Amount mana.Mana }

// PlayerChoice selects a player.
type PlayerChoice struct{ Player ObjectID }

// CardChoice selects a card.
type CardChoice struct{ Card ObjectID }

// ChoiceList answers a conjunction requirement member by member.
type ChoiceList struct{ Choices []Choice }

func (NoChoice) isChoice()     {}
func (ManaChoice) isChoice()   {}
func (PlayerChoice) isChoice() {}
func (CardChoice) isChoice()   {}
func (ChoiceList) isChoice()   {}

// SpellAbility is what a card does when cast as a spell.
type SpellAbility struct {
	Effect Effect
	Target Target
}

// ActivatedAbility is an ability a player may pay for while the card is
// on the battlefield.
type ActivatedAbility struct {
	Cost   Cost
	Effect Effect
	Target Target
}

// TriggeredAbility fires automatically when its condition matches a
// dispatched event.
type TriggeredAbility struct {
	Condition Condition
	Effect    Effect
	Target    Target
}

// Condition selects which events a triggered ability reacts to.
type Condition interface{ isCondition() }

// TapCondition fires when the described permanent becomes tapped.
type TapCondition struct{ What Target }

// UntapCondition fires when the described permanent becomes untapped.
type UntapCondition struct{ What Target }

// DrawCondition fires when the card's owner draws.
type DrawCondition struct{}

// StepCondition fires when the given step begins.
type StepCondition struct{ Step Step }

func (TapCondition) isCondition()   {}
func (UntapCondition) isCondition() {}
func (DrawCondition) isCondition()  {}
func (StepCondition) isCondition()  {}
