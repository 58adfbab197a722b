package game

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cardforge/duel-engine/internal/game/events"
)

// Resolution errors. EmptyStack signals misuse of the resolve protocol;
// the others reject individual player choices without corrupting state.
var (
	ErrEmptyStack         = errors.New("game: stack is empty")
	ErrInvalidChoice      = errors.New("game: invalid choice")
	ErrInvalidTarget      = errors.New("game: invalid target")
	ErrUnknownEffect      = errors.New("game: unknown effect")
	ErrUnknownActionOwner = errors.New("game: unknown action owner")
)

// ResolveKind distinguishes spells, which move their card between zones
// when finished, from abilities, which leave the source alone.
type ResolveKind int

const (
	KindAbility ResolveKind = iota
	KindSpell
)

// Resolve is one stack entry: the effect still to apply, the action that
// produced it and the controlling player. A spell entry also remembers
// its card.
type Resolve struct {
	Kind     ResolveKind
	CardID   ObjectID // set for spells
	Effect   Effect
	Action   Action
	PlayerID ObjectID
}

// PendingChoice describes the player input the resolving entry is
// waiting for: who must choose, for which effect, and the choice they
// supplied.
type PendingChoice struct {
	Choice   Choice
	PlayerID ObjectID
	Effect   Effect
}

func (g *Game) pushStack(entry *Resolve) {
	g.Stack = append(g.Stack, entry)
}

// StartResolve pops the top stack entry into the resolving slot. Calling
// it with an empty stack is a contract violation and panics.
func (g *Game) StartResolve() {
	if len(g.Stack) == 0 {
		panic("game: StartResolve with an empty stack")
	}
	g.resolving = g.Stack[len(g.Stack)-1]
	g.Stack = g.Stack[:len(g.Stack)-1]
	g.log.Debug("resolving stack entry",
		zap.Int("player", g.resolving.PlayerID),
		zap.Int("card", g.resolving.CardID))
}

// Resolving returns the entry currently being resolved, or nil.
func (g *Game) Resolving() *Resolve {
	return g.resolving
}

// ResolveStep applies the next sub-effect of the resolving entry using
// the supplied choice and returns the choice the player must make next,
// or nil when the entry is fully resolved and EndResolve may be called.
//
// When the following sub-effect needs no player decision it is resolved
// recursively with an empty choice, so compound effects pause only at
// the steps that actually require input.
func (g *Game) ResolveStep(pc PendingChoice) (*PendingChoice, error) {
	res := g.resolving
	if res == nil {
		return nil, ErrEmptyStack
	}

	seq, ok := res.Effect.(EffectSequence)
	if !ok {
		if err := g.applyEffect(res.Effect, &res.Action, pc); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if len(seq.Effects) > 0 {
		head := seq.Effects[0]
		seq.Effects = seq.Effects[1:]
		res.Effect = seq
		if err := g.applyEffect(head, &res.Action, pc); err != nil {
			// Put the failed sub-effect back so the player can retry
			// with a legal choice.
			res.Effect = EffectSequence{Effects: append([]Effect{head}, seq.Effects...)}
			return nil, err
		}
	}
	if len(seq.Effects) == 0 {
		return nil, nil
	}

	next := g.NextPendingChoice()
	if next == nil {
		// The next sub-effect resolves unattended.
		return g.ResolveStep(PendingChoice{Choice: NoChoice{}})
	}
	return next, nil
}

// ResolveAuto resolves the top stack entry end to end for effects that
// require no player choices.
func (g *Game) ResolveAuto() error {
	g.StartResolve()
	if _, err := g.ResolveStep(PendingChoice{Choice: NoChoice{}}); err != nil {
		return err
	}
	g.EndResolve()
	return nil
}

// EndResolve finishes the resolving entry: a spell's card is routed to
// the battlefield (permanents) or the graveyard (instants and
// sorceries), and priority reopens for the active player. Calling it
// with no resolving entry is a contract violation.
func (g *Game) EndResolve() {
	res := g.resolving
	if res == nil {
		panic("game: EndResolve without a resolving entry")
	}

	if res.Kind == KindSpell {
		if card := g.Card(res.CardID); card != nil {
			if card.Kind.Permanent() {
				g.PutOnBattlefield(res.CardID)
			} else {
				g.PutOnGraveyard(res.CardID)
			}
		}
	}

	g.resolving = nil
	g.Turn.Priority = NewPriority(g.Turn.ActivePlayer)
	g.bus.Publish(events.Event{
		Type:   events.EventStackResolved,
		Player: res.PlayerID,
		Card:   res.CardID,
	})
}

// NextPendingChoice describes the input needed by the resolving entry's
// next sub-effect, or nil when none is needed.
func (g *Game) NextPendingChoice() *PendingChoice {
	res := g.resolving
	if res == nil {
		return nil
	}

	effect := res.Effect
	if seq, ok := effect.(EffectSequence); ok {
		if len(seq.Effects) == 0 {
			return nil
		}
		effect = seq.Effects[0]
	}

	if !choiceNeeded(RequiredChoice(effect)) {
		return nil
	}

	switch effect.(type) {
	case ManaEffect:
		return &PendingChoice{Choice: NoChoice{}, PlayerID: res.PlayerID, Effect: effect}

	case DiscardEffect:
		// Discard is answered by whoever the action targets.
		playerID := res.PlayerID
		switch tc := res.Action.Choices.Target.(type) {
		case PlayerChoice:
			playerID = tc.Player
		default:
			if _, owner := res.Action.Required.Target.(OwnerTarget); !owner {
				return nil
			}
		}
		return &PendingChoice{Choice: NoChoice{}, PlayerID: playerID, Effect: effect}

	default:
		return nil
	}
}

// applyEffect validates the choice against the effect being applied and
// mutates game state accordingly.
func (g *Game) applyEffect(effect Effect, action *Action, pc PendingChoice) error {
	if !g.validResolveChoice(effect, pc) {
		return ErrInvalidChoice
	}

	owner := g.Player(action.PlayerID)
	if owner == nil {
		return ErrUnknownActionOwner
	}

	switch e := effect.(type) {
	case NoEffect:
		return nil

	case ManaEffect:
		if e.Amount.Any > 0 {
			mc, ok := pc.Choice.(ManaChoice)
			if !ok {
				return ErrInvalidChoice
			}
			owner.Mana = owner.Mana.Add(mc.Amount)
		} else {
			owner.Mana = owner.Mana.Add(e.Amount)
		}
		return nil

	case DamageEffect:
		switch target := action.Choices.Target.(type) {
		case PlayerChoice:
			g.DealPlayerDamage(target.Player, e.Amount)
		case CardChoice:
			g.DealDamage(target.Card, e.Amount)
		default:
			return ErrInvalidTarget
		}
		return nil

	case DiscardEffect:
		switch choice := pc.Choice.(type) {
		case ChoiceList:
			if len(choice.Choices) != e.Count {
				return ErrInvalidChoice
			}
			for _, member := range choice.Choices {
				if cc, ok := member.(CardChoice); ok {
					g.PutOnGraveyard(cc.Card)
				}
			}
		case CardChoice:
			g.PutOnGraveyard(choice.Card)
		default:
			return ErrInvalidChoice
		}
		return nil

	case DrawEffect:
		switch action.Required.Target.(type) {
		case OwnerTarget:
			for i := 0; i < e.Count; i++ {
				g.DrawCard(action.PlayerID)
			}
		case PlayerTarget:
			pc, ok := action.Choices.Target.(PlayerChoice)
			if !ok {
				return ErrInvalidTarget
			}
			for i := 0; i < e.Count; i++ {
				g.DrawCard(pc.Player)
			}
		default:
			return ErrInvalidTarget
		}
		return nil

	default:
		return ErrUnknownEffect
	}
}

// validResolveChoice is the effect-specific predicate on the choice a
// player supplied while resolving.
func (g *Game) validResolveChoice(effect Effect, pc PendingChoice) bool {
	switch e := effect.(type) {
	case ManaEffect:
		if e.Amount.Any == 0 {
			return true
		}
		mc, ok := pc.Choice.(ManaChoice)
		return ok && mc.Amount.Enough(e.Amount)

	case DiscardEffect:
		inHand := func(c Choice) bool {
			cc, ok := c.(CardChoice)
			if !ok {
				return false
			}
			card := g.Card(cc.Card)
			return card != nil && card.OwnerID == pc.PlayerID && card.Zone == ZoneHand
		}
		switch choice := pc.Choice.(type) {
		case CardChoice:
			return e.Count == 1 && inHand(choice)
		case ChoiceList:
			if len(choice.Choices) != e.Count {
				return false
			}
			for _, member := range choice.Choices {
				if !inHand(member) {
					return false
				}
			}
			return true
		default:
			return false
		}

	default:
		return true
	}
}

// DealPlayerDamage subtracts life and ends the game when it reaches
// zero.
func (g *Game) DealPlayerDamage(playerID ObjectID, damage int) {
	if damage <= 0 {
		return
	}
	player := g.Player(playerID)
	if player == nil {
		return
	}
	player.Life -= damage
	g.bus.Publish(events.Event{
		Type:   events.EventDamagedPlayer,
		Player: playerID,
		Amount: damage,
	})
	if player.Life <= 0 {
		g.Loser = playerID
		g.bus.Publish(events.Event{Type: events.EventGameOver, Player: playerID})
	}
}

// DealDamage applies non-combat damage to a creature, destroying it when
// its toughness is gone.
func (g *Game) DealDamage(cardID ObjectID, damage int) {
	if damage <= 0 {
		return
	}
	card := g.Card(cardID)
	if card == nil || card.Kind != TypeCreature {
		return
	}
	card.State.Toughness.Current -= damage
	if card.State.Toughness.Current <= 0 {
		g.PutOnGraveyard(cardID)
		g.bus.Publish(events.Event{
			Type:   events.EventPermanentDied,
			Player: card.OwnerID,
			Card:   cardID,
		})
	}
}
