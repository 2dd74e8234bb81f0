package model

const boardSize = 8

var backRank = [boardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is an 8x8 grid, row-major. Row 0 is Black's back rank and row 7 is
// White's.
type Board struct {
	cells [boardSize][boardSize]*Piece
}

// PieceView is the read-only projection of a piece handed to renderers.
type PieceView struct {
	Type   PieceType   `json:"type"`
	Color  PlayerColor `json:"color"`
	Symbol string      `json:"symbol"`
}

func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b := NewEmptyBoard()
	for col, t := range backRank {
		b.Place(t, PlayerColorBlack, 0, col)
		b.Place(Pawn, PlayerColorBlack, 1, col)
		b.Place(Pawn, PlayerColorWhite, 6, col)
		b.Place(t, PlayerColorWhite, 7, col)
	}
	return b
}

// Place puts a new piece on the board, replacing whatever was there. It
// returns nil if the cell is off the board.
func (b *Board) Place(t PieceType, c PlayerColor, row, col int) *Piece {
	if !b.IsValidCell(row, col) {
		return nil
	}
	p := &Piece{Type: t, Color: c, Row: row, Col: col}
	b.cells[row][col] = p
	return p
}

// IsValidCell reports whether both coordinates are in [0, 8).
func IsValidCell(row, col int) bool {
	return row >= 0 && row < boardSize && col >= 0 && col < boardSize
}

func (b *Board) IsValidCell(row, col int) bool {
	return IsValidCell(row, col)
}

// GetPiece returns nil for empty and off-board cells.
func (b *Board) GetPiece(row, col int) *Piece {
	if !b.IsValidCell(row, col) {
		return nil
	}
	return b.cells[row][col]
}

func (b *Board) IsEmpty(row, col int) bool {
	return b.IsValidCell(row, col) && b.cells[row][col] == nil
}

// ApplyMove moves p to the destination. Whatever occupied the destination is
// dropped. A pawn reaching row 0 or row 7 becomes a queen.
func (b *Board) ApplyMove(p *Piece, destRow, destCol int) {
	if !b.IsValidCell(destRow, destCol) {
		return
	}
	if b.GetPiece(p.Row, p.Col) == p {
		b.cells[p.Row][p.Col] = nil
	}
	b.cells[destRow][destCol] = p
	p.Row, p.Col = destRow, destCol
	if p.Type == Pawn && (destRow == 0 || destRow == boardSize-1) {
		p.Type = Queen
	}
}

// RayMoves walks each direction from p until the edge or the first occupied
// cell, which is included only when it holds an enemy.
func (b *Board) RayMoves(p *Piece, dirs []Direction) []Move {
	moves := []Move{}
	for _, d := range dirs {
		row, col := p.Row+d.DRow, p.Col+d.DCol
		for b.IsValidCell(row, col) {
			target := b.cells[row][col]
			if target == nil {
				moves = append(moves, Move{Row: row, Col: col})
			} else {
				if p.isEnemy(target) {
					moves = append(moves, Move{Row: row, Col: col})
				}
				break
			}
			row, col = row+d.DRow, col+d.DCol
		}
	}
	return moves
}

func (b *Board) stepMoves(p *Piece, dirs []Direction) []Move {
	moves := []Move{}
	for _, d := range dirs {
		row, col := p.Row+d.DRow, p.Col+d.DCol
		if b.IsEmpty(row, col) || p.isEnemy(b.GetPiece(row, col)) {
			moves = append(moves, Move{Row: row, Col: col})
		}
	}
	return moves
}

// Clone returns a deep copy. No piece is shared between b and the copy.
func (b *Board) Clone() *Board {
	c := NewEmptyBoard()
	for row := range b.cells {
		for col, p := range b.cells[row] {
			if p != nil {
				cp := *p
				c.cells[row][col] = &cp
			}
		}
	}
	return c
}

// Pieces lists the pieces of one colour in row-major order.
func (b *Board) Pieces(c PlayerColor) []*Piece {
	pieces := []*Piece{}
	for row := range b.cells {
		for _, p := range b.cells[row] {
			if p != nil && p.Color == c {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (b *Board) Count() int {
	return len(b.Pieces(PlayerColorWhite)) + len(b.Pieces(PlayerColorBlack))
}

// FindKing returns the first king of colour c, or nil.
func (b *Board) FindKing(c PlayerColor) *Piece {
	for _, p := range b.Pieces(c) {
		if p.Type == King {
			return p
		}
	}
	return nil
}

func (b *Board) Snapshot() [][]*PieceView {
	rows := make([][]*PieceView, boardSize)
	for row := range b.cells {
		rows[row] = make([]*PieceView, boardSize)
		for col, p := range b.cells[row] {
			if p != nil {
				rows[row][col] = &PieceView{Type: p.Type, Color: p.Color, Symbol: p.Symbol()}
			}
		}
	}
	return rows
}
