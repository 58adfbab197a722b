package game

import "github.com/cardforge/duel-engine/internal/game/mana"

// Action binds a requirement triple to the choices one actor made for
// it. It is created by an action factory, filled in by the caller and
// consumed exactly once by Pay before being embedded in a stack entry.
type Action struct {
	PlayerID ObjectID
	CardID   ObjectID
	Required Required
	Choices  Choices
}

// Required is the static (cost, target, effect) description the action
// must satisfy.
type Required struct {
	Cost   Cost
	Target Target
	Effect Effect
}

// Choices are the player's concrete selections answering the
// requirement.
type Choices struct {
	Cost   Choice
	Target Choice
	Effect Choice
}

// NewAction creates an empty action for the player and source card.
func NewAction(playerID, cardID ObjectID) *Action {
	return &Action{
		PlayerID: playerID,
		CardID:   cardID,
		Required: Required{Cost: NoCost{}, Target: NoTarget{}, Effect: NoEffect{}},
		Choices:  Choices{Cost: NoChoice{}, Target: NoChoice{}, Effect: NoChoice{}},
	}
}

// SetRequiredCost records the cost the action must pay.
func (a *Action) SetRequiredCost(cost Cost) {
	a.Required.Cost = cost
}

// SetRequiredTarget records the target requirement. An Owner target is
// seeded with the actor so callers need not fill it in.
func (a *Action) SetRequiredTarget(target Target) {
	if _, ok := target.(OwnerTarget); ok {
		a.Choices.Target = PlayerChoice{Player: a.PlayerID}
	}
	a.Required.Target = target
}

// SetRequiredEffect records the effect requirement.
func (a *Action) SetRequiredEffect(effect Effect) {
	a.Required.Effect = effect
}

// Valid reports whether the action's choices satisfy its requirement.
// It is a pure predicate: repeated calls never mutate game state.
func (a *Action) Valid(g *Game) bool {
	return a.validCost(g, a.Required.Cost, a.Choices.Cost) &&
		a.validTarget(g, a.Required.Target, a.Choices.Target) &&
		a.validEffect(g)
}

func (a *Action) validCost(g *Game, cost Cost, choice Choice) bool {
	switch c := cost.(type) {
	case NoCost:
		return true

	case ManaCost:
		mc, ok := choice.(ManaChoice)
		if !ok || !mc.Amount.Enough(c.Amount) {
			return false
		}
		// The chosen payment must actually sit in the actor's pool.
		player := g.Player(a.PlayerID)
		return player != nil && player.Mana.Contains(mc.Amount)

	case TapCost:
		cc, ok := choice.(CardChoice)
		if !ok {
			return false
		}
		if _, source := c.What.(SourceTarget); source && cc.Card != a.CardID {
			return false
		}
		card := g.Card(cc.Card)
		if card == nil || card.Zone != ZoneBattlefield || card.State.Tapped.Current {
			return false
		}
		if card.Kind == TypeCreature && card.State.SummoningSickness.Current {
			return false
		}
		return true

	case SacrificeCost:
		cc, ok := choice.(CardChoice)
		if !ok {
			return false
		}
		switch c.What.(type) {
		case SourceTarget:
			return cc.Card == a.CardID
		case CreatureTarget:
			card := g.Card(cc.Card)
			return card != nil && card.Kind == TypeCreature &&
				card.Zone == ZoneBattlefield && card.OwnerID == a.PlayerID
		default:
			return false
		}

	case CompositeCost:
		// Each sub-cost is tried against the members of one choice
		// conjunction; a member may satisfy at most one sub-cost.
		list, ok := choice.(ChoiceList)
		if !ok {
			return false
		}
		used := make([]bool, len(list.Choices))
		var totalMana mana.Mana
		cards := make(map[ObjectID]bool)
		for _, sub := range c.Costs {
			matched := false
			for i, member := range list.Choices {
				if used[i] {
					continue
				}
				if a.validCost(g, sub, member) {
					used[i] = true
					matched = true
					// Sub-costs valid one by one must also be payable
					// together: mana payments draw on one pool and a
					// card can be spent at most once.
					switch m := member.(type) {
					case ManaChoice:
						totalMana = totalMana.Add(m.Amount)
					case CardChoice:
						if cards[m.Card] {
							return false
						}
						cards[m.Card] = true
					}
					break
				}
			}
			if !matched {
				return false
			}
		}
		if totalMana.IsEmpty() {
			return true
		}
		player := g.Player(a.PlayerID)
		return player != nil && player.Mana.Contains(totalMana)

	default:
		return false
	}
}

func (a *Action) validTarget(g *Game, target Target, choice Choice) bool {
	switch t := target.(type) {
	case NoTarget:
		return true

	case SourceTarget:
		cc, ok := choice.(CardChoice)
		return ok && cc.Card == a.CardID

	case OwnerTarget:
		pc, ok := choice.(PlayerChoice)
		return ok && pc.Player == a.PlayerID

	case PlayerTarget:
		pc, ok := choice.(PlayerChoice)
		return ok && g.Player(pc.Player) != nil

	case CreatureTarget:
		cc, ok := choice.(CardChoice)
		if !ok {
			return false
		}
		card := g.Card(cc.Card)
		return card != nil && card.Kind == TypeCreature && card.Zone == ZoneBattlefield

	case AnyOfTarget:
		for _, option := range t.Options {
			if a.validTarget(g, option, choice) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

func (a *Action) validEffect(g *Game) bool {
	switch e := a.Required.Effect.(type) {
	case ManaEffect:
		if e.Amount.Any == 0 {
			return true
		}
		mc, ok := a.Choices.Effect.(ManaChoice)
		return ok && mc.Amount.Enough(e.Amount)

	case DiscardEffect:
		list, ok := a.Choices.Effect.(ChoiceList)
		if !ok || len(list.Choices) != e.Count {
			return false
		}
		for _, member := range list.Choices {
			cc, ok := member.(CardChoice)
			if !ok {
				return false
			}
			card := g.Card(cc.Card)
			if card == nil || card.OwnerID != a.PlayerID {
				return false
			}
		}
		return true

	default:
		return true
	}
}

// Pay performs the side effects matching the validated cost: deducts
// mana, taps the chosen card, or sacrifices it. Callers must invoke Pay
// only after Valid returned true and at most once per action.
func (a *Action) Pay(g *Game) bool {
	return a.payCost(g, a.Required.Cost, a.Choices.Cost)
}

func (a *Action) payCost(g *Game, cost Cost, choice Choice) bool {
	switch c := cost.(type) {
	case NoCost:
		return true

	case ManaCost:
		mc, ok := choice.(ManaChoice)
		if !ok {
			return false
		}
		player := g.Player(a.PlayerID)
		if player == nil || !player.Mana.Contains(mc.Amount) {
			return false
		}
		player.Mana = player.Mana.Subtract(mc.Amount)
		return true

	case TapCost:
		cc, ok := choice.(CardChoice)
		if !ok {
			return false
		}
		return g.TapCard(cc.Card, a.CardID)

	case SacrificeCost:
		cc, ok := choice.(CardChoice)
		if !ok {
			return false
		}
		g.PutOnGraveyard(cc.Card)
		return true

	case CompositeCost:
		list, ok := choice.(ChoiceList)
		if !ok {
			return false
		}
		used := make([]bool, len(list.Choices))
		for _, sub := range c.Costs {
			paid := false
			for i, member := range list.Choices {
				if used[i] || !a.validCost(g, sub, member) {
					continue
				}
				if !a.payCost(g, sub, member) {
					return false
				}
				used[i] = true
				paid = true
				break
			}
			if !paid {
				return false
			}
		}
		return true

	default:
		return false
	}
}
