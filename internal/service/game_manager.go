package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbeisheim/clickchess-backend/internal/model"
	"github.com/benbeisheim/clickchess-backend/internal/storage"
	"github.com/benbeisheim/clickchess-backend/internal/ws"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrGameOver     = errors.New("game is over")
	ErrInvalidCell  = errors.New("cell is off the board")
)

// Scheduler runs f once after d. It is never cancelled; the task checks
// whether it is still relevant when it runs.
type Scheduler func(d time.Duration, f func())

func afterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// ResultRecorder persists finished games.
type ResultRecorder interface {
	RecordResult(r storage.GameResult, computerMode bool, computerColor string) error
}

// session serialises every interaction on one game and remembers which
// epochs already had their result recorded.
type session struct {
	mu          sync.Mutex
	game        *model.Game
	connections *GameConnections
	recorded    map[uint64]bool
}

type GameManager struct {
	games    map[string]*session
	mu       sync.RWMutex
	recorder ResultRecorder
	logger   *zap.Logger
	delay    time.Duration
	schedule Scheduler
	newRNG   func() *rand.Rand
}

type Option func(*GameManager)

func WithOpponentDelay(d time.Duration) Option {
	return func(gm *GameManager) { gm.delay = d }
}

func WithScheduler(s Scheduler) Option {
	return func(gm *GameManager) { gm.schedule = s }
}

// WithRandSource sets the RNG factory used for each new game's computer
// opponent.
func WithRandSource(f func() *rand.Rand) Option {
	return func(gm *GameManager) { gm.newRNG = f }
}

// NewGameManager builds a manager. recorder may be nil, in which case
// finished games are not persisted.
func NewGameManager(recorder ResultRecorder, logger *zap.Logger, opts ...Option) *GameManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	gm := &GameManager{
		games:    make(map[string]*session),
		recorder: recorder,
		logger:   logger,
		delay:    500 * time.Millisecond,
		schedule: afterFunc,
		newRNG:   func() *rand.Rand { return nil },
	}
	for _, opt := range opts {
		opt(gm)
	}
	return gm
}

func (gm *GameManager) CreateGame(gameID string, cfg model.Config) (model.RenderState, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return model.RenderState{}, fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}

	state := gm.addGame(gameID, model.NewGame(cfg, gm.newRNG()))
	gm.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.String("mode", string(state.Mode)),
		zap.String("white", state.Players.White),
		zap.String("black", state.Players.Black),
	)
	return state, nil
}

// addGame registers g under gameID. Callers hold gm.mu.
func (gm *GameManager) addGame(gameID string, g *model.Game) model.RenderState {
	gm.games[gameID] = &session{
		game:        g,
		connections: NewGameConnections(),
		recorded:    make(map[uint64]bool),
	}
	return g.RenderState()
}

func (gm *GameManager) session(gameID string) (*session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return s, nil
}

func (gm *GameManager) GetGameState(gameID string) (model.RenderState, error) {
	s, err := gm.session(gameID)
	if err != nil {
		return model.RenderState{}, err
	}
	return s.game.RenderState(), nil
}

// SelectCell forwards a click to the game. Once the game has an outcome the
// click is refused with ErrGameOver.
func (gm *GameManager) SelectCell(gameID string, row, col int) (model.RenderState, error) {
	s, err := gm.session(gameID)
	if err != nil {
		return model.RenderState{}, err
	}
	if !model.IsValidCell(row, col) {
		return model.RenderState{}, fmt.Errorf("%w: (%d,%d)", ErrInvalidCell, row, col)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Outcome() != nil {
		return s.game.RenderState(), ErrGameOver
	}

	res := s.game.OnCellSelected(row, col)
	state := s.game.RenderState()
	if res.Moved {
		gm.logger.Debug("move played",
			zap.String("game_id", gameID),
			zap.Int("row", row),
			zap.Int("col", col),
			zap.Int("ply", state.Plies),
		)
		gm.recordOutcome(gameID, s, state)
	}
	if res.OpponentDue {
		gm.scheduleOpponent(gameID, state.Epoch)
	}
	s.connections.Broadcast(state, gm.logger)
	return state, nil
}

func (gm *GameManager) ResetGame(gameID string, cfg model.Config) (model.RenderState, error) {
	s, err := gm.session(gameID)
	if err != nil {
		return model.RenderState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.Reset(cfg)
	state := s.game.RenderState()
	gm.logger.Info("game reset",
		zap.String("game_id", gameID),
		zap.String("mode", string(state.Mode)),
		zap.Uint64("epoch", state.Epoch),
	)
	s.connections.Broadcast(state, gm.logger)
	return state, nil
}

func (gm *GameManager) scheduleOpponent(gameID string, epoch uint64) {
	gm.schedule(gm.delay, func() {
		gm.runOpponent(gameID, epoch)
	})
}

// runOpponent is the deferred computer move. It does nothing if the game is
// gone, was reset, or is no longer waiting on the computer.
func (gm *GameManager) runOpponent(gameID string, epoch uint64) {
	s, err := gm.session(gameID)
	if err != nil {
		gm.logger.Debug("opponent task for missing game", zap.String("game_id", gameID))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plies := s.game.Plies()
	mv, acted := s.game.PlayOpponentMove(epoch)
	if !acted {
		gm.logger.Debug("stale opponent task", zap.String("game_id", gameID), zap.Uint64("epoch", epoch))
		return
	}
	state := s.game.RenderState()
	if state.Plies == plies {
		gm.logger.Debug("computer has no legal move", zap.String("game_id", gameID), zap.Uint64("epoch", epoch))
	} else {
		gm.logger.Debug("computer moved",
			zap.String("game_id", gameID),
			zap.Int("from_row", mv.From.Row),
			zap.Int("from_col", mv.From.Col),
			zap.Int("to_row", mv.To.Row),
			zap.Int("to_col", mv.To.Col),
		)
	}
	gm.recordOutcome(gameID, s, state)
	s.connections.Broadcast(state, gm.logger)
}

// recordOutcome persists a finished game once per epoch. Callers hold s.mu.
func (gm *GameManager) recordOutcome(gameID string, s *session, state model.RenderState) {
	if state.Outcome == nil || s.recorded[state.Epoch] {
		return
	}
	s.recorded[state.Epoch] = true
	gm.logger.Info("game finished",
		zap.String("game_id", gameID),
		zap.String("winner", string(state.Outcome.Winner)),
		zap.String("reason", state.Outcome.Reason),
		zap.Int("plies", state.Plies),
	)
	if gm.recorder == nil {
		return
	}

	result := storage.GameResult{
		GameID:     gameID,
		Epoch:      state.Epoch,
		Mode:       string(state.Mode),
		Winner:     string(state.Outcome.Winner),
		Loser:      string(state.Outcome.Loser),
		Reason:     state.Outcome.Reason,
		WhiteName:  state.Players.White,
		BlackName:  state.Players.Black,
		Plies:      state.Plies,
		FinishedAt: time.Now(),
	}
	if err := gm.recorder.RecordResult(result, state.Mode != model.PolicyHuman, string(model.ComputerColor)); err != nil {
		gm.logger.Error("failed to record result", zap.String("game_id", gameID), zap.Error(err))
	}
}

// RegisterConnection attaches a socket to a game and sends it the current
// state.
func (gm *GameManager) RegisterConnection(gameID, playerID string, conn Conn) error {
	s, err := gm.session(gameID)
	if err != nil {
		return err
	}
	if err := s.connections.Add(playerID, conn); err != nil {
		return err
	}
	gm.logger.Debug("connection registered", zap.String("game_id", gameID), zap.String("player_id", playerID))
	return s.connections.Send(conn, ws.MessageTypeGameState, s.game.RenderState())
}

// SendError reports a failed request to a single socket of the game.
func (gm *GameManager) SendError(gameID string, conn Conn, text string) error {
	s, err := gm.session(gameID)
	if err != nil {
		return err
	}
	return s.connections.Send(conn, ws.MessageTypeError, text)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn Conn) {
	s, err := gm.session(gameID)
	if err != nil {
		return
	}
	if s.connections.Remove(playerID, conn) {
		gm.logger.Debug("connection unregistered", zap.String("game_id", gameID), zap.String("player_id", playerID))
	}
}
