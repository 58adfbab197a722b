package game

import (
	"github.com/cardforge/duel-engine/internal/game/events"
)

// Step is one state of the turn machine. Steps advance linearly and
// cycle across turns.
type Step string

const (
	StepUntap            Step = "UNTAP"
	StepUpkeep           Step = "UPKEEP"
	StepDraw             Step = "DRAW"
	StepPrecombat        Step = "PRECOMBAT_MAIN"
	StepCombatBegin      Step = "COMBAT_BEGIN"
	StepDeclareAttackers Step = "DECLARE_ATTACKERS"
	StepDeclareBlockers  Step = "DECLARE_BLOCKERS"
	StepCombatDamage     Step = "COMBAT_DAMAGE"
	StepCombatEnd        Step = "COMBAT_END"
	StepPostcombat       Step = "POSTCOMBAT_MAIN"
	StepEnd              Step = "END"
	StepCleanup          Step = "CLEANUP"
)

// Main reports whether the step is a main phase, where sorcery speed
// actions are legal.
func (s Step) Main() bool {
	return s == StepPrecombat || s == StepPostcombat
}

// Order lists the steps in turn order.
var StepOrder = []Step{
	StepUntap, StepUpkeep, StepDraw, StepPrecombat,
	StepCombatBegin, StepDeclareAttackers, StepDeclareBlockers,
	StepCombatDamage, StepCombatEnd,
	StepPostcombat, StepEnd, StepCleanup,
}

// Turn holds one turn's progression state. A fresh Turn replaces it when
// the turn passes to the next player.
type Turn struct {
	Step         Step
	Priority     *Priority
	Combat       *Combat
	ActivePlayer ObjectID
	LandsPlayed  int
}

// NewTurn starts a turn for the given player at the untap step.
func NewTurn(playerID ObjectID) *Turn {
	return &Turn{
		Step:         StepUntap,
		Combat:       NewCombat(),
		ActivePlayer: playerID,
	}
}

// Priority tracks who may act and who has passed since the window last
// reset.
type Priority struct {
	PlayerID ObjectID
	passes   map[ObjectID]bool
}

// NewPriority opens a fresh window for the given player.
func NewPriority(playerID ObjectID) *Priority {
	return &Priority{PlayerID: playerID, passes: make(map[ObjectID]bool)}
}

// Pass records the holder's pass and hands priority to the next player.
func (p *Priority) Pass(next ObjectID) {
	p.passes[p.PlayerID] = true
	p.PlayerID = next
}

// Reset clears the pass record. Happens on every new step, on stack
// resolution, and after any successful action.
func (p *Priority) Reset() {
	p.passes = make(map[ObjectID]bool)
}

// Passed reports whether the player has passed since the last reset.
func (p *Priority) Passed(playerID ObjectID) bool {
	return p.passes[playerID]
}

// AllPassed reports whether every player has passed consecutively.
func (g *Game) AllPassed() bool {
	if g.Turn.Priority == nil {
		return false
	}
	for _, p := range g.Players {
		if !g.Turn.Priority.Passed(p.ID) {
			return false
		}
	}
	return true
}

// PassPriority records a pass by the current priority holder and hands
// priority to the next player in turn order.
func (g *Game) PassPriority() {
	if g.Turn.Priority == nil {
		return
	}
	g.Turn.Priority.Pass(g.NextPlayer(g.Turn.Priority.PlayerID))
}

// PassTurn replaces the turn state, handing the turn to the next player.
func (g *Game) PassTurn() {
	next := g.NextPlayer(g.Turn.ActivePlayer)
	g.Turn = NewTurn(next)
	g.bus.Publish(events.Event{Type: events.EventTurnStarted, Player: next})
}

// UntapStep untaps the active player's permanents and clears summoning
// sickness from their creatures. No priority window opens.
func (g *Game) UntapStep() {
	g.Turn.Step = StepUntap

	for _, card := range g.allCards() {
		if card.OwnerID != g.Turn.ActivePlayer || card.Zone != ZoneBattlefield {
			continue
		}
		if card.State.Tapped.Current {
			g.UntapCard(card.ID, 0)
		}
		if card.Kind == TypeCreature {
			card.State.SummoningSickness.Current = false
		}
	}

	g.dispatchStep(StepUntap)
}

// UpkeepStep opens the turn's first priority window.
func (g *Game) UpkeepStep() {
	g.changeStep(StepUpkeep)
}

// DrawStep draws the active player's card for the turn, then opens
// priority.
func (g *Game) DrawStep() {
	g.Turn.Step = StepDraw
	g.DrawCard(g.Turn.ActivePlayer)
	g.dispatchStep(StepDraw)
	g.Turn.Priority = NewPriority(g.Turn.ActivePlayer)
}

func (g *Game) PrecombatStep() {
	g.changeStep(StepPrecombat)
}

func (g *Game) CombatBeginStep() {
	g.changeStep(StepCombatBegin)
}

func (g *Game) CombatEndStep() {
	g.changeStep(StepCombatEnd)
}

func (g *Game) PostcombatStep() {
	g.changeStep(StepPostcombat)
}

func (g *Game) EndStep() {
	g.changeStep(StepEnd)
}

// CleanupStep restores creatures to their printed power and toughness
// and, when the active player is over their hand limit, returns the
// forced discard action they must complete.
func (g *Game) CleanupStep() *Action {
	g.Turn.Step = StepCleanup

	for _, card := range g.allCards() {
		if card.Kind == TypeCreature {
			card.State.Restore()
		}
	}
	g.Turn.Priority = nil

	player := g.Player(g.Turn.ActivePlayer)
	if player == nil {
		return nil
	}
	if over := len(player.Hand) - player.HandSizeLimit.Current; over > 0 {
		action := NewAction(player.ID, 0)
		action.SetRequiredEffect(DiscardEffect{Count: over})
		return action
	}
	return nil
}

// changeStep is the common step entry: mana pools empty, a step event
// fires, and a fresh priority window opens for the active player.
func (g *Game) changeStep(step Step) {
	g.Turn.Step = step

	for _, player := range g.Players {
		player.Mana.Clear()
	}

	g.dispatchStep(step)
	g.Turn.Priority = NewPriority(g.Turn.ActivePlayer)
}

func (g *Game) dispatchStep(step Step) {
	g.dispatch(events.Event{
		Type:   events.EventStepChanged,
		Player: g.Turn.ActivePlayer,
		Step:   string(step),
	})
}
