package model

// Move is a destination cell. Pieces generate moves relative to their own
// position, so the origin is implied by whoever produced the move.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PlannedMove pairs a destination with the cell of the piece making it.
type PlannedMove struct {
	From Cell `json:"from"`
	To   Move `json:"to"`
}

func containsMove(moves []Move, row, col int) bool {
	for _, m := range moves {
		if m.Row == row && m.Col == col {
			return true
		}
	}
	return false
}
