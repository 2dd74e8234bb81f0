package model

// FilterLegalMoves keeps the pseudo-legal moves of p that do not leave its own
// king in check. Each candidate is played on a throwaway clone of b, so b is
// never touched. Generation order is preserved.
func FilterLegalMoves(b *Board, p *Piece) []Move {
	legal := []Move{}
	for _, m := range p.PseudoLegalMoves(b) {
		sim := b.Clone()
		sim.ApplyMove(sim.GetPiece(p.Row, p.Col), m.Row, m.Col)
		if !IsInCheck(sim, p.Color) {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsInCheck reports whether any enemy pseudo-legal move lands on the king of
// colour c. A board without that king counts as check.
func IsInCheck(b *Board, c PlayerColor) bool {
	king := b.FindKing(c)
	if king == nil {
		return true
	}
	for _, enemy := range b.Pieces(c.Opponent()) {
		if containsMove(enemy.PseudoLegalMoves(b), king.Row, king.Col) {
			return true
		}
	}
	return false
}

// LegalMoves enumerates every legal move of colour c, pieces in row-major
// order and each piece's moves in generation order.
func LegalMoves(b *Board, c PlayerColor) []PlannedMove {
	planned := []PlannedMove{}
	for _, p := range b.Pieces(c) {
		from := Cell{Row: p.Row, Col: p.Col}
		for _, m := range FilterLegalMoves(b, p) {
			planned = append(planned, PlannedMove{From: from, To: m})
		}
	}
	return planned
}

func HasAnyLegalMove(b *Board, c PlayerColor) bool {
	for _, p := range b.Pieces(c) {
		if len(FilterLegalMoves(b, p)) > 0 {
			return true
		}
	}
	return false
}

// IsCheckmate is check with no legal reply. Stalemate is not detected.
func IsCheckmate(b *Board, c PlayerColor) bool {
	return IsInCheck(b, c) && !HasAnyLegalMove(b, c)
}
