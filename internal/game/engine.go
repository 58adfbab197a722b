package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrGameNotFound is returned when an engine lookup misses.
var ErrGameNotFound = errors.New("game: no such game")

// GameParams overrides the default player setup for hosted games.
type GameParams struct {
	StartingLife  int
	HandSizeLimit int
	LandLimit     int
}

// DefaultGameParams returns the standard duel setup.
func DefaultGameParams() GameParams {
	return GameParams{
		StartingLife:  DefaultStartingLife,
		HandSizeLimit: DefaultHandSizeLimit,
		LandLimit:     DefaultLandLimit,
	}
}

// Engine hosts games for a driver. A Game itself is single threaded;
// the engine mutex serializes all access from connection goroutines.
type Engine struct {
	mu     sync.Mutex
	games  map[uuid.UUID]*Game
	params GameParams
	log    *zap.Logger
}

// NewEngine creates an empty engine.
func NewEngine(params GameParams, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		games:  make(map[uuid.UUID]*Game),
		params: params,
		log:    logger,
	}
}

// CreateGame hosts a new game with the given players.
func (e *Engine) CreateGame(playerNames ...string) *Game {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := NewGame(e.log.Named("game"))
	for _, name := range playerNames {
		p := g.AddPlayer(name)
		p.Life = e.params.StartingLife
		p.HandSizeLimit = NewValue(e.params.HandSizeLimit)
		p.LandLimit = NewValue(e.params.LandLimit)
	}
	e.games[g.ID] = g
	e.log.Info("game created",
		zap.String("game", g.ID.String()),
		zap.Int("players", len(playerNames)))
	return g
}

// Game returns the hosted game, or ErrGameNotFound.
func (e *Engine) Game(id uuid.UUID) (*Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// RemoveGame drops a finished game from the host.
func (e *Engine) RemoveGame(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.games, id)
}

// Do runs fn against the hosted game under the engine mutex, keeping
// the single threaded engine contract for concurrent drivers.
func (e *Engine) Do(id uuid.UUID, fn func(*Game) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.games[id]
	if !ok {
		return ErrGameNotFound
	}
	return fn(g)
}
