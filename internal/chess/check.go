package chess

import "fmt"

// simulate executes m, evaluates fn against the resulting position and reverts
// m before returning, including when fn panics. Calls may nest; each revert
// happens in LIFO order relative to its execute.
func (b *Board) simulate(m Move, fn func() bool) bool {
	m.Execute(b)
	defer m.Undo(b)
	return fn()
}

// IsCheck reports whether color's king is attacked by any opposing piece.
// A board without a king for color violates the board invariant and panics.
func (b *Board) IsCheck(color Color) bool {
	king, ok := b.KingPosition(color)
	if !ok {
		panic(fmt.Sprintf("chess: no %s king on board", color))
	}
	return b.attacked(king, color.Opponent())
}

// attacked reports whether a piece of color by could capture on target.
// target must be occupied for pawn captures to register.
func (b *Board) attacked(target Position, by Color) bool {
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			pc := b.squares[row][col]
			if pc != nil && pc.Color == by && pc.IsValidMove(b, Position{Row: row, Col: col}, target) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate reports whether color is in check and every pseudo-legal move of
// every piece of color still leaves its king in check.
func (b *Board) IsCheckmate(color Color) bool {
	if !b.IsCheck(color) {
		return false
	}
	return !b.HasLegalMove(color)
}

// IsStalemate reports whether color is not in check but has no move that keeps its king safe.
func (b *Board) IsStalemate(color Color) bool {
	if b.IsCheck(color) {
		return false
	}
	return !b.HasLegalMove(color)
}

// HasLegalMove reports whether color has at least one fully legal move.
func (b *Board) HasLegalMove(color Color) bool {
	for _, from := range b.Pieces(color) {
		pc := b.PieceAt(from)
		for _, to := range pc.PossibleMoves(b) {
			escapes := b.simulate(b.newMove(from, to), func() bool {
				return !b.IsCheck(color)
			})
			if escapes {
				return true
			}
		}
	}
	return false
}

// leavesKingInCheck reports whether executing m would leave the mover's king attacked.
// A side without a king is never considered in check.
func (b *Board) leavesKingInCheck(m Move) bool {
	color := m.Moved.Color
	if _, ok := b.KingPosition(color); !ok {
		return false
	}
	return b.simulate(m, func() bool {
		return b.IsCheck(color)
	})
}
