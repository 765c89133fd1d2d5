package chess

// Direction lists fix generation order so results are reproducible.
var (
	rookDirs   = []Position{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Position{{Row: 1, Col: 1}, {Row: -1, Col: -1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
	knightDirs = []Position{
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
	}
	kingDirs = []Position{
		{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1},
		{Row: 0, Col: -1}, {Row: 0, Col: 1},
		{Row: 1, Col: -1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
	}
)

// Piece is owned by the board square that holds it. Position mirrors that square.
type Piece struct {
	Kind     PieceKind `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(kind PieceKind, color Color, pos Position) *Piece {
	return &Piece{Kind: kind, Color: color, Position: pos}
}

// Symbol returns the FEN letter: upper case for White, lower case for Black.
func (p *Piece) Symbol() byte {
	s := p.Kind.Symbol()
	if p.Color == Black {
		s += 'a' - 'A'
	}
	return s
}

// IsValidMove reports whether the piece's movement pattern allows from -> to on b.
// It does not consider whether the mover's king is left in check.
func (p *Piece) IsValidMove(b *Board, from, to Position) bool {
	if !from.InBounds() || !to.InBounds() || from == to {
		return false
	}
	if !p.canLandOn(b, to) {
		return false
	}
	dRow, dCol := to.Row-from.Row, to.Col-from.Col
	switch p.Kind {
	case King:
		return abs(dRow) <= 1 && abs(dCol) <= 1
	case Queen:
		return (dRow == 0 || dCol == 0 || abs(dRow) == abs(dCol)) && b.pathClear(from, to)
	case Bishop:
		return abs(dRow) == abs(dCol) && b.pathClear(from, to)
	case Rook:
		return (dRow == 0 || dCol == 0) && b.pathClear(from, to)
	case Knight:
		return (abs(dRow) == 2 && abs(dCol) == 1) || (abs(dRow) == 1 && abs(dCol) == 2)
	case Pawn:
		return p.isValidPawnMove(b, from, to)
	}
	return false
}

func (p *Piece) isValidPawnMove(b *Board, from, to Position) bool {
	dir := pawnDirection(p.Color)
	dRow, dCol := to.Row-from.Row, abs(to.Col-from.Col)
	target := b.PieceAt(to)
	switch {
	case dRow == dir && dCol == 0:
		return target == nil
	case dRow == dir && dCol == 1:
		return target != nil && target.Color != p.Color
	case dRow == 2*dir && dCol == 0:
		return from.Row == pawnHomeRow(p.Color) && target == nil && b.PieceAt(from.add(dir, 0)) == nil
	}
	return false
}

// PossibleMoves returns the pseudo-legal destinations of the piece from its current square.
func (p *Piece) PossibleMoves(b *Board) []Position {
	switch p.Kind {
	case King:
		return p.stepMoves(b, kingDirs)
	case Queen:
		return p.slideMoves(b, queenDirs)
	case Bishop:
		return p.slideMoves(b, bishopDirs)
	case Knight:
		return p.stepMoves(b, knightDirs)
	case Rook:
		return p.slideMoves(b, rookDirs)
	case Pawn:
		return p.pawnMoves(b)
	}
	return nil
}

func (p *Piece) stepMoves(b *Board, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := p.Position.add(dir.Row, dir.Col)
		if target.InBounds() && p.canLandOn(b, target) {
			moves = append(moves, target)
		}
	}
	return moves
}

func (p *Piece) slideMoves(b *Board, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := p.Position.add(dir.Row, dir.Col)
		for target.InBounds() {
			occupant := b.PieceAt(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != p.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.add(dir.Row, dir.Col)
		}
	}
	return moves
}

func (p *Piece) pawnMoves(b *Board) []Position {
	moves := []Position{}
	dir := pawnDirection(p.Color)
	forward := p.Position.add(dir, 0)
	if forward.InBounds() && b.PieceAt(forward) == nil {
		moves = append(moves, forward)
		double := p.Position.add(2*dir, 0)
		if p.Position.Row == pawnHomeRow(p.Color) && b.PieceAt(double) == nil {
			moves = append(moves, double)
		}
	}
	for _, dCol := range []int{-1, 1} {
		target := p.Position.add(dir, dCol)
		if !target.InBounds() {
			continue
		}
		if occupant := b.PieceAt(target); occupant != nil && occupant.Color != p.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func (p *Piece) canLandOn(b *Board, to Position) bool {
	occupant := b.PieceAt(to)
	return occupant == nil || occupant.Color != p.Color
}

func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func pawnHomeRow(c Color) int {
	if c == White {
		return 1
	}
	return 6
}

// PromotionRow is the last rank for pawns of color c.
func PromotionRow(c Color) int {
	if c == White {
		return boardSize - 1
	}
	return 0
}
