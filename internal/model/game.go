package model

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

const ReasonCheckmate = "checkmate"

type Outcome struct {
	Winner PlayerColor `json:"winner"`
	Loser  PlayerColor `json:"loser"`
	Reason string      `json:"reason"`
}

// SelectionResult tells the caller what a click did.
type SelectionResult struct {
	Selected    bool
	Moved       bool
	OpponentDue bool
	GameOver    bool
}

// RenderState is everything a client needs to redraw the board.
type RenderState struct {
	Board                   [][]*PieceView `json:"board"`
	SelectedCell            *Cell          `json:"selectedCell"`
	HighlightedDestinations []Move         `json:"highlightedDestinations"`
	TurnLabel               string         `json:"turnLabel"`
	OutcomeMessage          *string        `json:"outcomeMessage"`
	Outcome                 *Outcome       `json:"outcome"`
	ToMove                  PlayerColor    `json:"toMove"`
	Mode                    OpponentPolicy `json:"mode"`
	Players                 Players        `json:"players"`
	InCheck                 bool           `json:"inCheck"`
	Plies                   int            `json:"plies"`
	Epoch                   uint64         `json:"epoch"`
}

// Game is the turn state machine around a Board. All exported methods are
// safe to call from several goroutines; each runs to completion before the
// next starts.
type Game struct {
	mu                sync.Mutex
	board             *Board
	currentTurn       PlayerColor
	selected          *Cell
	legalDestinations []Move
	policy            OpponentPolicy
	players           Players
	outcome           *Outcome
	plies             int
	epoch             uint64
	rng               *rand.Rand
}

// NewGame starts a game from the standard position. A nil rng gets a randomly
// seeded source.
func NewGame(cfg Config, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g := &Game{rng: rng}
	g.reset(cfg)
	return g
}

// NewGameFromPosition starts a game from b with toMove to play. The game
// takes ownership of b.
func NewGameFromPosition(cfg Config, b *Board, toMove PlayerColor, rng *rand.Rand) *Game {
	g := NewGame(cfg, rng)
	g.board = b
	g.currentTurn = toMove
	return g
}

// Reset restores the starting position and applies cfg. Any deferred
// opponent move scheduled against the previous epoch becomes stale.
func (g *Game) Reset(cfg Config) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.reset(cfg)
	g.epoch++
}

func (g *Game) reset(cfg Config) {
	cfg = cfg.Normalize()
	g.board = NewBoard()
	g.currentTurn = PlayerColorWhite
	g.clearSelection()
	g.policy = cfg.Mode
	g.players = Players{White: cfg.WhiteName, Black: cfg.BlackName}
	g.outcome = nil
	g.plies = 0
}

// OnCellSelected handles one click on (row, col). Clicking a highlighted
// destination plays the selected piece there; clicking one of the mover's
// pieces selects it; anything else clears the selection. Clicks are ignored
// off the board, after the game ended, and while the computer is to move.
func (g *Game) OnCellSelected(row, col int) SelectionResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.board.IsValidCell(row, col) || g.outcome != nil || g.isComputerTurn() {
		return SelectionResult{}
	}

	if g.selected != nil && containsMove(g.legalDestinations, row, col) {
		piece := g.board.GetPiece(g.selected.Row, g.selected.Col)
		g.applyMove(piece, row, col)
		return SelectionResult{
			Moved:       true,
			OpponentDue: g.opponentDue(),
			GameOver:    g.outcome != nil,
		}
	}

	piece := g.board.GetPiece(row, col)
	if piece != nil && piece.Color == g.currentTurn {
		g.selected = &Cell{Row: row, Col: col}
		g.legalDestinations = FilterLegalMoves(g.board, piece)
		return SelectionResult{Selected: true}
	}

	g.clearSelection()
	return SelectionResult{}
}

// PlayOpponentMove lets the computer move if epoch is still current and it is
// the computer's turn. It returns false when there was nothing to do. A
// computer with no legal move loses.
func (g *Game) PlayOpponentMove(epoch uint64) (PlannedMove, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if epoch != g.epoch || !g.opponentDue() {
		return PlannedMove{}, false
	}

	mv, ok := ChooseMove(g.policy, g.board, g.currentTurn, g.rng)
	if !ok {
		g.outcome = &Outcome{Winner: g.currentTurn.Opponent(), Loser: g.currentTurn, Reason: ReasonCheckmate}
		return PlannedMove{}, true
	}
	g.applyMove(g.board.GetPiece(mv.From.Row, mv.From.Col), mv.To.Row, mv.To.Col)
	return mv, true
}

func (g *Game) applyMove(piece *Piece, row, col int) {
	g.board.ApplyMove(piece, row, col)
	g.clearSelection()
	g.plies++
	g.switchTurn()
	if IsCheckmate(g.board, g.currentTurn) {
		g.outcome = &Outcome{Winner: g.currentTurn.Opponent(), Loser: g.currentTurn, Reason: ReasonCheckmate}
	}
}

func (g *Game) switchTurn() {
	g.currentTurn = g.currentTurn.Opponent()
}

func (g *Game) clearSelection() {
	g.selected = nil
	g.legalDestinations = []Move{}
}

func (g *Game) isComputerTurn() bool {
	return g.policy != PolicyHuman && g.currentTurn == ComputerColor
}

func (g *Game) opponentDue() bool {
	return g.outcome == nil && g.isComputerTurn()
}

func (g *Game) RenderState() RenderState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := RenderState{
		Board:                   g.board.Snapshot(),
		HighlightedDestinations: append([]Move{}, g.legalDestinations...),
		TurnLabel:               fmt.Sprintf("%s's turn (%s)", g.players.Name(g.currentTurn), g.currentTurn.Label()),
		ToMove:                  g.currentTurn,
		Mode:                    g.policy,
		Players:                 g.players,
		InCheck:                 IsInCheck(g.board, g.currentTurn),
		Plies:                   g.plies,
		Epoch:                   g.epoch,
	}
	if g.selected != nil {
		cell := *g.selected
		state.SelectedCell = &cell
	}
	if g.outcome != nil {
		outcome := *g.outcome
		msg := fmt.Sprintf("Checkmate! %s wins.", g.players.Name(outcome.Winner))
		state.Outcome = &outcome
		state.OutcomeMessage = &msg
	}
	return state
}

// Outcome returns nil while the game is in progress.
func (g *Game) Outcome() *Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.outcome == nil {
		return nil
	}
	outcome := *g.outcome
	return &outcome
}

func (g *Game) Epoch() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.epoch
}

func (g *Game) Mode() OpponentPolicy {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.policy
}

func (g *Game) Players() Players {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.players
}

func (g *Game) CurrentTurn() PlayerColor {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.currentTurn
}

func (g *Game) Plies() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.plies
}

// Board returns a copy of the current position.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.Clone()
}
