package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

var pieceSymbols = map[PieceType][2]string{
	King:   {"♔", "♚"},
	Queen:  {"♕", "♛"},
	Rook:   {"♖", "♜"},
	Bishop: {"♗", "♝"},
	Knight: {"♘", "♞"},
	Pawn:   {"♙", "♟"},
}

// Piece is owned by exactly one board cell. Row and Col always match that
// cell; only Board.ApplyMove changes them.
type Piece struct {
	Type  PieceType   `json:"type"`
	Color PlayerColor `json:"color"`
	Row   int         `json:"row"`
	Col   int         `json:"col"`
}

func (p *Piece) Symbol() string {
	symbols, ok := pieceSymbols[p.Type]
	if !ok {
		return ""
	}
	if p.Color == PlayerColorWhite {
		return symbols[0]
	}
	return symbols[1]
}

func (p *Piece) isEnemy(other *Piece) bool {
	return other != nil && other.Color != p.Color
}

type Direction struct {
	DRow int
	DCol int
}

var (
	orthogonalDirs = []Direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	diagonalDirs   = []Direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs      = []Direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightJumps    = []Direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingSteps      = []Direction{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// moveRule describes every non-pawn piece: sliding pieces repeat each
// direction until blocked, the others take a single step.
type moveRule struct {
	dirs    []Direction
	sliding bool
}

var moveRules = map[PieceType]moveRule{
	Rook:   {dirs: orthogonalDirs, sliding: true},
	Bishop: {dirs: diagonalDirs, sliding: true},
	Queen:  {dirs: queenDirs, sliding: true},
	Knight: {dirs: knightJumps},
	King:   {dirs: kingSteps},
}

// PseudoLegalMoves returns the destinations allowed by the piece's movement
// pattern and the occupancy of b. It ignores whether the mover's king ends up
// in check and never modifies b.
func (p *Piece) PseudoLegalMoves(b *Board) []Move {
	if p.Type == Pawn {
		return p.pawnMoves(b)
	}
	rule, ok := moveRules[p.Type]
	if !ok {
		return []Move{}
	}
	if rule.sliding {
		return b.RayMoves(p, rule.dirs)
	}
	return b.stepMoves(p, rule.dirs)
}

func pawnDirection(c PlayerColor) int {
	if c == PlayerColorWhite {
		return -1
	}
	return 1
}

func pawnHomeRow(c PlayerColor) int {
	if c == PlayerColorWhite {
		return 6
	}
	return 1
}

func (p *Piece) pawnMoves(b *Board) []Move {
	moves := []Move{}
	dir := pawnDirection(p.Color)
	next := p.Row + dir

	if b.IsValidCell(next, p.Col) && b.IsEmpty(next, p.Col) {
		moves = append(moves, Move{Row: next, Col: p.Col})
		double := p.Row + 2*dir
		if p.Row == pawnHomeRow(p.Color) && b.IsEmpty(double, p.Col) {
			moves = append(moves, Move{Row: double, Col: p.Col})
		}
	}
	for _, dc := range []int{-1, 1} {
		col := p.Col + dc
		if p.isEnemy(b.GetPiece(next, col)) {
			moves = append(moves, Move{Row: next, Col: col})
		}
	}
	return moves
}
