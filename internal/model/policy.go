package model

import "math/rand/v2"

// ChooseMove picks a move for colour c according to policy. It reports false
// when c has no legal move or the policy is PolicyHuman.
func ChooseMove(policy OpponentPolicy, b *Board, c PlayerColor, rng *rand.Rand) (PlannedMove, bool) {
	switch policy {
	case PolicyRandom:
		return pickRandom(LegalMoves(b, c), rng)
	case PolicyGreedy:
		captures, others := partitionCaptures(b, LegalMoves(b, c))
		if len(captures) > 0 {
			return pickRandom(captures, rng)
		}
		return pickRandom(others, rng)
	default:
		return PlannedMove{}, false
	}
}

// partitionCaptures splits moves into those landing on an occupied cell and
// the rest. Legal moves never land on a friendly piece.
func partitionCaptures(b *Board, moves []PlannedMove) (captures, others []PlannedMove) {
	for _, m := range moves {
		if b.GetPiece(m.To.Row, m.To.Col) != nil {
			captures = append(captures, m)
		} else {
			others = append(others, m)
		}
	}
	return captures, others
}

func pickRandom(moves []PlannedMove, rng *rand.Rand) (PlannedMove, bool) {
	if len(moves) == 0 {
		return PlannedMove{}, false
	}
	return moves[rng.IntN(len(moves))], true
}
