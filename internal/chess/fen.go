package chess

import (
	"strconv"
	"strings"
)

// StartPlacement is the FEN piece placement of the standard starting position.
const StartPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// Placement returns the FEN piece placement field, rank 8 first.
func (b *Board) Placement() string {
	var sb strings.Builder
	for row := boardSize - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < boardSize; col++ {
			pc := b.squares[row][col]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// FEN projects the board onto a FEN string. Castling and en passant are not
// tracked, and the board keeps no move counters, so those fields are fixed.
func (b *Board) FEN() string {
	side := "w"
	if b.sideToMove == Black {
		side = "b"
	}
	return b.Placement() + " " + side + " - - 0 1"
}

// String renders the board as an 8-line grid with rank 8 on top.
func (b *Board) String() string {
	var sb strings.Builder
	for row := boardSize - 1; row >= 0; row-- {
		for col := 0; col < boardSize; col++ {
			if pc := b.squares[row][col]; pc != nil {
				sb.WriteByte(pc.Symbol())
			} else {
				sb.WriteByte('.')
			}
			if col < boardSize-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
