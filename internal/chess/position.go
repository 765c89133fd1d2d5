package chess

import "fmt"

const boardSize = 8

type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	}
	return White, false
}

type PieceKind int

const (
	King PieceKind = iota
	Queen
	Bishop
	Knight
	Rook
	Pawn
)

func (k PieceKind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Rook:
		return "rook"
	case Pawn:
		return "pawn"
	}
	return "unknown"
}

// Symbol returns the upper-case letter used in algebraic notation and FEN.
func (k PieceKind) Symbol() byte {
	switch k {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Rook:
		return 'R'
	case Pawn:
		return 'P'
	}
	return '?'
}

// ParsePieceKind accepts the full name ("queen") or the letter ("q"/"Q").
func ParsePieceKind(s string) (PieceKind, bool) {
	switch s {
	case "king", "k", "K":
		return King, true
	case "queen", "q", "Q":
		return Queen, true
	case "bishop", "b", "B":
		return Bishop, true
	case "knight", "n", "N":
		return Knight, true
	case "rook", "r", "R":
		return Rook, true
	case "pawn", "p", "P":
		return Pawn, true
	}
	return Pawn, false
}

// Position is a board coordinate. Row 0 is White's back rank, Col 0 is the a-file.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < boardSize && p.Col >= 0 && p.Col < boardSize
}

func (p Position) add(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// String returns the square in algebraic form, e.g. "e2".
func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

// File returns the file letter of the square.
func (p Position) File() string {
	return fmt.Sprintf("%c", 'a'+p.Col)
}

func ParseSquare(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	pos := Position{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}
	if !pos.InBounds() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return pos, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
