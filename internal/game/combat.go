package game

import (
	"github.com/cardforge/duel-engine/internal/game/events"
)

// AttackType orders combat damage: the first strike pass resolves before
// the regular pass.
type AttackType int

const (
	AttackRegular AttackType = iota
	AttackFirstStrike
)

var attackTypeOrder = []AttackType{AttackFirstStrike, AttackRegular}

// Attack is one damage pass of one attacker: its power for the pass
// (current tracks the still unassigned "spillable" remainder) and the
// damage assigned per blocker.
type Attack struct {
	Power       Value[int]
	Assignments map[ObjectID]int
}

// NewAttack creates an attack record for a creature with the given
// power.
func NewAttack(power int) *Attack {
	return &Attack{
		Power:       NewValue(power),
		Assignments: make(map[ObjectID]int),
	}
}

// AssignedTotal sums the damage assigned across blockers.
func (a *Attack) AssignedTotal() int {
	total := 0
	for _, dmg := range a.Assignments {
		total += dmg
	}
	return total
}

// Attacker is one declared attacker: the player it attacks, its damage
// passes, and the blockers standing in its way.
type Attacker struct {
	ID       ObjectID
	Target   ObjectID
	Attacks  map[AttackType]*Attack
	Blockers []ObjectID
	Blocked  bool
}

// Combat is the per-turn combat sub-state. It is created fresh when
// attackers are declared and discarded with the turn.
type Combat struct {
	attackers map[ObjectID]*Attacker
	order     []ObjectID

	// blockerToughness is the shared damage budget per blocker, shared
	// across passes and attackers. Set when the damage step starts.
	blockerToughness map[ObjectID]int

	// deathtouched marks creatures that took nonzero damage from a
	// deathtouch source; they are dead regardless of toughness.
	deathtouched map[ObjectID]bool
}

// NewCombat returns empty combat state.
func NewCombat() *Combat {
	return &Combat{
		attackers:        make(map[ObjectID]*Attacker),
		blockerToughness: make(map[ObjectID]int),
		deathtouched:     make(map[ObjectID]bool),
	}
}

// Attacker returns the record for a declared attacker, or nil.
func (c *Combat) Attacker(id ObjectID) *Attacker {
	return c.attackers[id]
}

// AttackerIDs lists declared attackers in declaration order.
func (c *Combat) AttackerIDs() []ObjectID {
	return append([]ObjectID(nil), c.order...)
}

// BlockerIDs lists all declared blockers in declaration order.
func (c *Combat) BlockerIDs() []ObjectID {
	var blockers []ObjectID
	for _, id := range c.order {
		blockers = append(blockers, c.attackers[id].Blockers...)
	}
	return blockers
}

// Combatants lists attackers then blockers.
func (c *Combat) Combatants() []ObjectID {
	return append(c.AttackerIDs(), c.BlockerIDs()...)
}

// DeclareAttackersStepStart resets combat state. No priority window is
// open while attackers are being declared.
func (g *Game) DeclareAttackersStepStart() {
	g.Turn.Step = StepDeclareAttackers
	g.Turn.Priority = nil
	g.Turn.Combat = NewCombat()
}

// CanDeclareAttacker checks attacker legality: an untapped, non
// summoning-sick creature controlled by the active player, without
// Defender.
func (g *Game) CanDeclareAttacker(cardID ObjectID) bool {
	card := g.Card(cardID)
	if card == nil {
		return false
	}
	if card.OwnerID != g.Turn.ActivePlayer ||
		card.Zone != ZoneBattlefield ||
		card.Kind != TypeCreature {
		return false
	}
	if card.Has(Defender) {
		return false
	}
	return !card.State.Tapped.Current && !card.State.SummoningSickness.Current
}

// DeclareAttacker records the creature attacking the target player. A
// double strike creature gets both damage passes, a first strike
// creature only the early one, everything else only the regular one.
func (g *Game) DeclareAttacker(cardID, target ObjectID) bool {
	if !g.CanDeclareAttacker(cardID) {
		return false
	}
	card := g.Card(cardID)

	attacks := make(map[AttackType]*Attack)
	power := card.State.Power.Current
	switch {
	case card.Has(DoubleStrike):
		attacks[AttackFirstStrike] = NewAttack(power)
		attacks[AttackRegular] = NewAttack(power)
	case card.Has(FirstStrike):
		attacks[AttackFirstStrike] = NewAttack(power)
	default:
		attacks[AttackRegular] = NewAttack(power)
	}

	combat := g.Turn.Combat
	combat.attackers[cardID] = &Attacker{
		ID:      cardID,
		Target:  target,
		Attacks: attacks,
	}
	combat.order = append(combat.order, cardID)
	g.bus.Publish(events.Event{
		Type:   events.EventDeclaredAttacker,
		Player: card.OwnerID,
		Card:   cardID,
	})
	return true
}

// DeclareAttackersStepEnd taps the declared attackers (Vigilance keeps
// them untapped) and reopens priority.
func (g *Game) DeclareAttackersStepEnd() {
	for _, id := range g.Turn.Combat.AttackerIDs() {
		if card := g.Card(id); card != nil && !card.Has(Vigilance) {
			card.tap()
		}
	}
	g.dispatchStep(StepDeclareAttackers)
	g.Turn.Priority = NewPriority(g.Turn.ActivePlayer)
}

// DeclareBlockersStepStart closes priority while blockers are declared.
func (g *Game) DeclareBlockersStepStart() {
	g.Turn.Step = StepDeclareBlockers
	g.Turn.Priority = nil
}

// CanDeclareBlocker checks blocker legality: an untapped creature
// controlled by the defending player; Flying attackers are blockable
// only by Flying or Reach.
func (g *Game) CanDeclareBlocker(blockerID, attackerID ObjectID) bool {
	attacker := g.Turn.Combat.Attacker(attackerID)
	if attacker == nil {
		return false
	}
	attackerCard := g.Card(attackerID)
	blocker := g.Card(blockerID)
	if attackerCard == nil || blocker == nil {
		return false
	}

	if blocker.OwnerID != attacker.Target ||
		blocker.Zone != ZoneBattlefield ||
		blocker.Kind != TypeCreature ||
		blocker.State.Tapped.Current {
		return false
	}

	if attackerCard.Has(Flying) && !blocker.Has(Flying) && !blocker.Has(Reach) {
		return false
	}
	return true
}

// DeclareBlocker adds the blocker to the attacker's blocker list.
// Multiple blockers may block one attacker.
func (g *Game) DeclareBlocker(blockerID, attackerID ObjectID) bool {
	if !g.CanDeclareBlocker(blockerID, attackerID) {
		return false
	}
	attacker := g.Turn.Combat.Attacker(attackerID)
	for _, id := range attacker.Blockers {
		if id == blockerID {
			return false
		}
	}
	attacker.Blockers = append(attacker.Blockers, blockerID)
	g.bus.Publish(events.Event{
		Type:   events.EventDeclaredBlocker,
		Player: attacker.Target,
		Card:   blockerID,
		Source: attackerID,
	})
	return true
}

// DeclareBlockersStepEnd reopens priority.
func (g *Game) DeclareBlockersStepEnd() {
	g.dispatchStep(StepDeclareBlockers)
	g.Turn.Priority = NewPriority(g.Turn.ActivePlayer)
}

// CombatDamageStepStart snapshots every blocker's toughness as its
// damage budget and auto-distributes each attack's power left to right
// across its blockers, leaving any remainder as the attacker's spillable
// power.
func (g *Game) CombatDamageStepStart() {
	g.Turn.Step = StepCombatDamage
	combat := g.Turn.Combat

	for _, attackerID := range combat.order {
		for _, blockerID := range combat.attackers[attackerID].Blockers {
			toughness := 0
			if card := g.Card(blockerID); card != nil {
				toughness = card.State.Toughness.Current
			}
			combat.blockerToughness[blockerID] = toughness
		}
	}

	for _, at := range attackTypeOrder {
		for _, attackerID := range combat.order {
			attacker := combat.attackers[attackerID]
			attack, ok := attacker.Attacks[at]
			if !ok {
				continue
			}

			damageLeft := attack.Power.Default
			for _, blockerID := range attacker.Blockers {
				if damageLeft <= 0 {
					break
				}
				budget := combat.blockerToughness[blockerID]
				damage := min(budget, damageLeft)
				combat.blockerToughness[blockerID] = budget - damage
				attack.Assignments[blockerID] = damage
				damageLeft -= damage
				attack.Power.Current = damageLeft
			}
		}
	}
}

// ResetCombatAssignments undoes the attacker's automatic assignments,
// restoring its spillable power and the blockers' damage budgets, so a
// caller can assign manually.
func (g *Game) ResetCombatAssignments(attackerID ObjectID) {
	combat := g.Turn.Combat
	attacker := combat.Attacker(attackerID)
	if attacker == nil {
		return
	}
	for _, attack := range attacker.Attacks {
		attack.Power.Reset()
		for blockerID, damage := range attack.Assignments {
			combat.blockerToughness[blockerID] += damage
		}
		attack.Assignments = make(map[ObjectID]int)
	}
}

// AssignCombatDamage overrides the damage the attacker assigns to one
// blocker for one pass. The amount must be non-negative, fit in the
// blocker's remaining budget, and the adjustment must fit in the
// attacker's remaining spillable power.
func (g *Game) AssignCombatDamage(attackerID, blockerID ObjectID, at AttackType, damage int) bool {
	if damage < 0 {
		return false
	}
	combat := g.Turn.Combat

	budget, blocking := combat.blockerToughness[blockerID]
	if !blocking || damage > budget {
		return false
	}

	attacker := combat.Attacker(attackerID)
	if attacker == nil {
		return false
	}
	attack, ok := attacker.Attacks[at]
	if !ok {
		return false
	}

	current := attack.Assignments[blockerID]
	extra := damage - current
	if extra > attack.Power.Current {
		return false
	}

	attack.Power.Current -= extra
	attack.Assignments[blockerID] = damage
	combat.blockerToughness[blockerID] = budget - extra
	return true
}

// IsCombatDamageAssigned is the closing gate on the damage step: no
// attack may still hold spillable power while one of its blockers has
// remaining damage budget, so lethal assignment cannot be skipped. The
// check is pure.
func (g *Game) IsCombatDamageAssigned() bool {
	combat := g.Turn.Combat
	for _, attackerID := range combat.order {
		attacker := combat.attackers[attackerID]
		for _, attack := range attacker.Attacks {
			if attack.Power.Current <= 0 {
				continue
			}
			for _, blockerID := range attacker.Blockers {
				if combat.blockerToughness[blockerID] > 0 {
					return false
				}
			}
		}
	}
	return true
}

// CombatDamageStepEnd resolves both damage passes and then destroys all
// casualties in one batch. It refuses to run while lethal assignment is
// incomplete.
func (g *Game) CombatDamageStepEnd() bool {
	if !g.IsCombatDamageAssigned() {
		return false
	}
	combat := g.Turn.Combat

	attackersFirst, attackersLast := g.splitFirstStrike(combat.AttackerIDs())
	blockersFirst, blockersLast := g.splitFirstStrike(combat.BlockerIDs())

	g.dealCombatDamagePass(attackersFirst, blockersFirst, AttackFirstStrike)

	// Casualties of the first strike pass deal no regular damage.
	for id := range attackersLast {
		if !g.combatAlive(id) {
			delete(attackersLast, id)
		}
	}
	for id := range blockersLast {
		if !g.combatAlive(id) {
			delete(blockersLast, id)
		}
	}
	g.dealCombatDamagePass(attackersLast, blockersLast, AttackRegular)

	// Simultaneous destruction: nothing escapes by being removed mid
	// calculation.
	var dead []ObjectID
	for _, id := range combat.Combatants() {
		if !g.combatAlive(id) {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		card := g.Card(id)
		g.PutOnGraveyard(id)
		if card != nil {
			g.bus.Publish(events.Event{
				Type:   events.EventPermanentDied,
				Player: card.OwnerID,
				Card:   id,
			})
		}
	}
	return true
}

// splitFirstStrike partitions creatures into first strike pass and
// regular pass participants; double strikers appear in both.
func (g *Game) splitFirstStrike(creatures []ObjectID) (first, last map[ObjectID]bool) {
	first = make(map[ObjectID]bool)
	last = make(map[ObjectID]bool)
	for _, id := range creatures {
		card := g.Card(id)
		if card == nil {
			continue
		}
		switch {
		case card.Has(DoubleStrike):
			first[id] = true
			last[id] = true
		case card.Has(FirstStrike):
			first[id] = true
		default:
			last[id] = true
		}
	}
	return first, last
}

// dealCombatDamagePass applies one pass: blockers take their assigned
// damage, attackers take the sum of their blockers' power, and unblocked
// or trampling attackers send their spillable power to the defending
// player.
func (g *Game) dealCombatDamagePass(canAttack, canCounter map[ObjectID]bool, at AttackType) {
	combat := g.Turn.Combat

	for _, attackerID := range combat.order {
		attacker := combat.attackers[attackerID]
		attackerCard := g.Card(attackerID)
		if attackerCard == nil {
			continue
		}

		trample := attackerCard.Has(Trample)
		attacker.Blocked = !trample && len(attacker.Blockers) > 0

		for _, blockerID := range attacker.Blockers {
			blockerCard := g.Card(blockerID)
			if blockerCard == nil {
				continue
			}

			if canAttack[attackerID] {
				if attack, ok := attacker.Attacks[at]; ok {
					dealt := attack.Assignments[blockerID]
					blockerCard.State.Toughness.Current -= dealt
					if dealt > 0 && attackerCard.Has(Deathtouch) {
						combat.deathtouched[blockerID] = true
					}
				}
			}

			if canCounter[blockerID] {
				taken := blockerCard.State.Power.Current
				attackerCard.State.Toughness.Current -= taken
				if taken > 0 && blockerCard.Has(Deathtouch) {
					combat.deathtouched[attackerID] = true
				}
			}
		}

		if attack, ok := attacker.Attacks[at]; ok {
			if !attacker.Blocked && canAttack[attackerID] {
				g.DealPlayerDamage(attacker.Target, attack.Power.Current)
			}
		}
	}
}

// combatAlive reports whether the creature is still on the battlefield
// with positive toughness and untouched by deathtouch.
func (g *Game) combatAlive(cardID ObjectID) bool {
	card := g.Card(cardID)
	if card == nil || card.Zone != ZoneBattlefield {
		return false
	}
	if card.State.Toughness.Current <= 0 {
		return false
	}
	return !g.Turn.Combat.deathtouched[cardID]
}
