package server

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardforge/duel-engine/internal/game"
	"github.com/cardforge/duel-engine/internal/game/mana"
)

func (s *Server) handle(c *connection, cmd Command) Response {
	switch cmd.Type {
	case "create":
		return s.handleCreate(c, cmd)
	case "join":
		return s.handleJoin(c, cmd)
	}

	if c.gameID == uuid.Nil {
		return errorResponse("join a game first")
	}

	resp := errorResponse("game not found")
	_ = s.engine.Do(c.gameID, func(g *game.Game) error {
		resp = s.handleGameCommand(c, g, cmd)
		return nil
	})
	return resp
}

func (s *Server) handleCreate(c *connection, cmd Command) Response {
	if len(cmd.Players) != 2 {
		return errorResponse("create needs exactly two player names")
	}
	g := s.engine.CreateGame(cmd.Players...)
	c.gameID = g.ID
	c.playerID = g.Players[0].ID
	return okResponse(g)
}

func (s *Server) handleJoin(c *connection, cmd Command) Response {
	id, err := uuid.Parse(cmd.GameID)
	if err != nil {
		return errorResponse("bad game id")
	}
	g, err := s.engine.Game(id)
	if err != nil {
		return errorResponse("game not found")
	}
	if g.Player(cmd.Player) == nil {
		return errorResponse("no such player")
	}
	c.gameID = id
	c.playerID = cmd.Player
	return okResponse(g)
}

func (s *Server) handleGameCommand(c *connection, g *game.Game, cmd Command) Response {
	switch cmd.Type {
	case "view":
		return okResponse(g)
	case "play_card":
		return s.handlePlayCard(c, g, cmd)
	case "play_ability":
		return s.handlePlayAbility(c, g, cmd)
	case "pass_priority":
		return s.handlePassPriority(c, g)
	case "declare_attacker":
		return s.handleDeclareAttacker(c, g, cmd)
	case "declare_blocker":
		return s.handleDeclareBlocker(c, g, cmd)
	case "assign_damage":
		return s.handleAssignDamage(c, g, cmd)
	case "reset_damage":
		g.ResetCombatAssignments(cmd.Attacker)
		return okResponse(g)
	case "resolve":
		return s.handleResolve(c, g, cmd)
	case "discard":
		return s.handleDiscard(c, g, cmd)
	default:
		s.log.Warn("unknown command", zap.String("type", cmd.Type))
		return errorResponse("unknown command: " + cmd.Type)
	}
}

func (s *Server) handlePlayCard(c *connection, g *game.Game, cmd Command) Response {
	action := g.CreateCardAction(cmd.Card, c.playerID)
	if action == nil {
		return errorResponse("card cannot be played now")
	}
	if resp := applyChoices(action, cmd); resp != nil {
		return *resp
	}
	if !g.PlayCard(cmd.Card, action) {
		return errorResponse("play rejected")
	}
	return okResponse(g)
}

func (s *Server) handlePlayAbility(c *connection, g *game.Game, cmd Command) Response {
	card := g.Card(cmd.Card)
	if card == nil || card.OwnerID != c.playerID {
		return errorResponse("not your card")
	}
	action := g.CreateAbilityAction(c.playerID, cmd.Card, cmd.Ability)
	if action == nil {
		return errorResponse("ability cannot be played now")
	}
	if resp := applyChoices(action, cmd); resp != nil {
		return *resp
	}
	if !g.PlayAbility(cmd.Card, cmd.Ability, action) {
		return errorResponse("ability rejected")
	}
	return okResponse(g)
}

// applyChoices fills the action's choices from the command, or returns
// an error response.
func applyChoices(action *game.Action, cmd Command) *Response {
	var costChoices []game.Choice
	if cmd.Mana != "" {
		amount, err := mana.Parse(cmd.Mana)
		if err != nil {
			resp := errorResponse("bad mana payment: " + err.Error())
			return &resp
		}
		costChoices = append(costChoices, game.ManaChoice{Amount: amount})
	}
	if cmd.CostCard != 0 {
		costChoices = append(costChoices, game.CardChoice{Card: cmd.CostCard})
	}
	switch len(costChoices) {
	case 0:
	case 1:
		action.Choices.Cost = costChoices[0]
	default:
		action.Choices.Cost = game.ChoiceList{Choices: costChoices}
	}

	if cmd.TargetPlayer != 0 {
		action.Choices.Target = game.PlayerChoice{Player: cmd.TargetPlayer}
	} else if cmd.TargetCard != 0 {
		action.Choices.Target = game.CardChoice{Card: cmd.TargetCard}
	}

	if cmd.EffectMana != "" {
		amount, err := mana.Parse(cmd.EffectMana)
		if err != nil {
			resp := errorResponse("bad mana choice: " + err.Error())
			return &resp
		}
		action.Choices.Effect = game.ManaChoice{Amount: amount}
	}
	return nil
}

func (s *Server) handlePassPriority(c *connection, g *game.Game) Response {
	if g.Over() {
		return errorResponse("game is over")
	}

	if g.Turn.Priority == nil {
		// Declaration windows have no priority; a pass from the
		// deciding player closes them.
		decider := g.Turn.ActivePlayer
		if g.Turn.Step == game.StepDeclareBlockers {
			decider = g.NextPlayer(g.Turn.ActivePlayer)
		}
		if c.playerID != decider {
			return errorResponse("waiting on another player")
		}
		return s.advance(c, g)
	}
	if g.Turn.Priority.PlayerID != c.playerID {
		return errorResponse("you do not have priority")
	}

	g.PassPriority()
	if !g.AllPassed() {
		return okResponse(g)
	}

	// Everyone passed: resolve the stack top, or move to the next step.
	if len(g.Stack) > 0 {
		return s.resolveTop(g)
	}
	return s.advance(c, g)
}

// resolveTop starts resolving the top stack entry and runs it as far as
// the first required player choice.
func (s *Server) resolveTop(g *game.Game) Response {
	g.StartResolve()
	if pending := g.NextPendingChoice(); pending != nil {
		resp := okResponse(g)
		resp.Pending = pendingView(pending)
		return resp
	}
	next, err := g.ResolveStep(game.PendingChoice{Choice: game.NoChoice{}})
	if err != nil {
		return errorResponse(err.Error())
	}
	if next != nil {
		resp := okResponse(g)
		resp.Pending = pendingView(next)
		return resp
	}
	g.EndResolve()
	return okResponse(g)
}

func (s *Server) handleResolve(c *connection, g *game.Game, cmd Command) Response {
	if g.Resolving() == nil {
		if len(g.Stack) == 0 {
			return errorResponse("nothing to resolve")
		}
		return s.resolveTop(g)
	}

	pending := g.NextPendingChoice()
	if pending == nil {
		return errorResponse("no choice is pending")
	}
	if pending.PlayerID != c.playerID {
		return errorResponse("waiting on another player's choice")
	}
	pending.Choice = choiceFromCommand(cmd)

	next, err := g.ResolveStep(*pending)
	if err != nil {
		return errorResponse(err.Error())
	}
	if next != nil {
		resp := okResponse(g)
		resp.Pending = pendingView(next)
		return resp
	}
	g.EndResolve()
	return okResponse(g)
}

func choiceFromCommand(cmd Command) game.Choice {
	if cmd.EffectMana != "" {
		if amount, err := mana.Parse(cmd.EffectMana); err == nil {
			return game.ManaChoice{Amount: amount}
		}
	}
	switch len(cmd.Cards) {
	case 0:
	case 1:
		return game.CardChoice{Card: cmd.Cards[0]}
	default:
		choices := make([]game.Choice, len(cmd.Cards))
		for i, id := range cmd.Cards {
			choices[i] = game.CardChoice{Card: id}
		}
		return game.ChoiceList{Choices: choices}
	}
	return game.NoChoice{}
}

func (s *Server) handleDeclareAttacker(c *connection, g *game.Game, cmd Command) Response {
	if c.playerID != g.Turn.ActivePlayer {
		return errorResponse("only the active player declares attackers")
	}
	target := cmd.TargetPlayer
	if target == 0 {
		target = g.NextPlayer(g.Turn.ActivePlayer)
	}
	if !g.DeclareAttacker(cmd.Attacker, target) {
		return errorResponse("attacker rejected")
	}
	return okResponse(g)
}

func (s *Server) handleDeclareBlocker(c *connection, g *game.Game, cmd Command) Response {
	blocker := g.Card(cmd.Blocker)
	if blocker == nil || blocker.OwnerID != c.playerID {
		return errorResponse("not your creature")
	}
	if !g.DeclareBlocker(cmd.Blocker, cmd.Attacker) {
		return errorResponse("blocker rejected")
	}
	return okResponse(g)
}

func (s *Server) handleAssignDamage(c *connection, g *game.Game, cmd Command) Response {
	if c.playerID != g.Turn.ActivePlayer {
		return errorResponse("only the active player assigns combat damage")
	}
	at := game.AttackRegular
	if cmd.AttackType == "first_strike" {
		at = game.AttackFirstStrike
	}
	if !g.AssignCombatDamage(cmd.Attacker, cmd.Blocker, at, cmd.Damage) {
		return errorResponse("assignment rejected")
	}
	return okResponse(g)
}

// advance runs the next transition of the turn machine.
func (s *Server) advance(c *connection, g *game.Game) Response {
	switch g.Turn.Step {
	case game.StepUntap:
		g.UpkeepStep()
	case game.StepUpkeep:
		g.DrawStep()
	case game.StepDraw:
		g.PrecombatStep()
	case game.StepPrecombat:
		g.CombatBeginStep()
	case game.StepCombatBegin:
		g.DeclareAttackersStepStart()
	case game.StepDeclareAttackers:
		if g.Turn.Priority == nil {
			g.DeclareAttackersStepEnd()
		} else {
			g.DeclareBlockersStepStart()
		}
	case game.StepDeclareBlockers:
		if g.Turn.Priority == nil {
			g.DeclareBlockersStepEnd()
		} else {
			g.CombatDamageStepStart()
			g.Turn.Priority.Reset()
		}
	case game.StepCombatDamage:
		if !g.CombatDamageStepEnd() {
			return errorResponse("combat damage is not fully assigned")
		}
		g.CombatEndStep()
	case game.StepCombatEnd:
		g.PostcombatStep()
	case game.StepPostcombat:
		g.EndStep()
	case game.StepEnd:
		if action := g.CleanupStep(); action != nil {
			s.mu.Lock()
			s.cleanup[c.gameID] = action
			s.mu.Unlock()
			resp := okResponse(g)
			discard := action.Required.Effect.(game.DiscardEffect)
			resp.Pending = &PendingView{Player: action.PlayerID, Kind: "discard", Count: discard.Count}
			return resp
		}
		s.finishTurn(g)
	case game.StepCleanup:
		s.mu.Lock()
		_, blocked := s.cleanup[c.gameID]
		s.mu.Unlock()
		if blocked {
			return errorResponse("discard down to hand size first")
		}
		s.finishTurn(g)
	}
	return okResponse(g)
}

func (s *Server) finishTurn(g *game.Game) {
	g.PassTurn()
	g.UntapStep()
	g.UpkeepStep()
}

// handleDiscard completes the forced cleanup discard.
func (s *Server) handleDiscard(c *connection, g *game.Game, cmd Command) Response {
	s.mu.Lock()
	action, ok := s.cleanup[c.gameID]
	s.mu.Unlock()
	if !ok {
		return errorResponse("no discard is pending")
	}
	if action.PlayerID != c.playerID {
		return errorResponse("not your discard")
	}

	choices := make([]game.Choice, len(cmd.Cards))
	for i, id := range cmd.Cards {
		if !g.InZone(id, game.ZoneHand) {
			return errorResponse("card not in hand")
		}
		choices[i] = game.CardChoice{Card: id}
	}
	action.Choices.Effect = game.ChoiceList{Choices: choices}
	if !action.Valid(g) {
		return errorResponse("wrong discard selection")
	}

	for _, id := range cmd.Cards {
		g.PutOnGraveyard(id)
	}
	s.mu.Lock()
	delete(s.cleanup, c.gameID)
	s.mu.Unlock()

	s.finishTurn(g)
	return okResponse(g)
}
