package chess

import "fmt"

var backRank = [boardSize]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is an 8x8 grid holding at most one piece per square. The grid is the
// only record of which pieces exist; per-color views are derived by scanning it.
type Board struct {
	squares    [boardSize][boardSize]*Piece
	sideToMove Color
}

// NewBoard returns an empty board with White to move.
func NewBoard() *Board {
	return &Board{sideToMove: White}
}

func NewStandardBoard() *Board {
	b := NewBoard()
	b.InitializeStandardPosition()
	return b
}

func (b *Board) InitializeStandardPosition() {
	b.squares = [boardSize][boardSize]*Piece{}
	for col := 0; col < boardSize; col++ {
		b.AddPiece(NewPiece(backRank[col], White, Position{}), Position{Row: 0, Col: col})
		b.AddPiece(NewPiece(Pawn, White, Position{}), Position{Row: 1, Col: col})
		b.AddPiece(NewPiece(Pawn, Black, Position{}), Position{Row: 6, Col: col})
		b.AddPiece(NewPiece(backRank[col], Black, Position{}), Position{Row: 7, Col: col})
	}
	b.sideToMove = White
}

// PieceAt returns nil for empty or off-board squares.
func (b *Board) PieceAt(pos Position) *Piece {
	if !pos.InBounds() {
		return nil
	}
	return b.squares[pos.Row][pos.Col]
}

func (b *Board) SideToMove() Color {
	return b.sideToMove
}

func (b *Board) SetSideToMove(c Color) {
	b.sideToMove = c
}

func (b *Board) switchSideToMove() {
	b.sideToMove = b.sideToMove.Opponent()
}

// AddPiece places the piece on pos and updates its position. Off-board positions are ignored.
func (b *Board) AddPiece(pc *Piece, pos Position) {
	if pc == nil || !pos.InBounds() {
		return
	}
	b.squares[pos.Row][pos.Col] = pc
	pc.Position = pos
}

// RemovePiece clears the piece's square. It is a no-op when the square no longer holds pc.
func (b *Board) RemovePiece(pc *Piece) {
	if pc == nil || !pc.Position.InBounds() {
		return
	}
	if b.squares[pc.Position.Row][pc.Position.Col] == pc {
		b.squares[pc.Position.Row][pc.Position.Col] = nil
	}
}

// MovePiece performs a turn-respecting pseudo-legal move. It returns false and
// leaves the board untouched when there is no piece on from, the piece belongs to
// the side not on move, or its movement pattern does not allow the move.
func (b *Board) MovePiece(from, to Position) bool {
	pc := b.PieceAt(from)
	if pc == nil || pc.Color != b.sideToMove || !pc.IsValidMove(b, from, to) {
		return false
	}
	b.newMove(from, to).Execute(b)
	return true
}

// ApplyMove is the driver entry point. On top of MovePiece's checks it rejects
// moves that would leave the mover's own king in check. The board is unchanged
// whenever an error is returned.
func (b *Board) ApplyMove(from, to Position) (Move, error) {
	m, err := b.prepareMove(from, to)
	if err != nil {
		return Move{}, err
	}
	m.Execute(b)
	return m, nil
}

// ApplyPromotion moves a pawn onto its last rank and replaces it with a piece of kind.
func (b *Board) ApplyPromotion(from, to Position, kind PieceKind) (Move, error) {
	if kind == King || kind == Pawn {
		return Move{}, fmt.Errorf("%w: cannot promote to %s", ErrInvalidPromotion, kind)
	}
	pc := b.PieceAt(from)
	if pc != nil && (pc.Kind != Pawn || to.Row != PromotionRow(pc.Color)) {
		return Move{}, fmt.Errorf("%w: %s to %s", ErrInvalidPromotion, from, to)
	}
	m, err := b.prepareMove(from, to)
	if err != nil {
		return Move{}, err
	}
	m.IsPromotion = true
	m.Promotion = NewPiece(kind, pc.Color, to)
	m.Promotion.HasMoved = true
	m.Execute(b)
	return m, nil
}

func (b *Board) prepareMove(from, to Position) (Move, error) {
	if !from.InBounds() || !to.InBounds() {
		return Move{}, fmt.Errorf("%w: %s to %s", ErrInvalidCoordinate, from, to)
	}
	pc := b.PieceAt(from)
	if pc == nil {
		return Move{}, fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if pc.Color != b.sideToMove {
		return Move{}, fmt.Errorf("%w: %s to move", ErrWrongTurn, b.sideToMove)
	}
	if !pc.IsValidMove(b, from, to) {
		return Move{}, fmt.Errorf("%w: %s %s to %s", ErrIllegalMove, pc.Kind, from, to)
	}
	m := b.newMove(from, to)
	if b.leavesKingInCheck(m) {
		return Move{}, fmt.Errorf("%w: %s %s to %s", ErrSelfCheck, pc.Kind, from, to)
	}
	return m, nil
}

// Promote replaces the pawn on pos with a new piece of kind and the same color.
// It returns false unless pos holds a pawn standing on its last rank.
func (b *Board) Promote(pos Position, kind PieceKind) bool {
	pc := b.PieceAt(pos)
	if pc == nil || pc.Kind != Pawn || pos.Row != PromotionRow(pc.Color) || kind == King || kind == Pawn {
		return false
	}
	b.RemovePiece(pc)
	promoted := NewPiece(kind, pc.Color, pos)
	promoted.HasMoved = true
	b.AddPiece(promoted, pos)
	return true
}

// Demote turns the piece on pos back into a pawn of the same color. It is meant
// for undoing a promotion; the board does not track which pieces were promoted, so
// any non-king piece is accepted.
func (b *Board) Demote(pos Position) bool {
	pc := b.PieceAt(pos)
	if pc == nil || pc.Kind == King {
		return false
	}
	b.RemovePiece(pc)
	pawn := NewPiece(Pawn, pc.Color, pos)
	pawn.HasMoved = true
	b.AddPiece(pawn, pos)
	return true
}

// LegalDestinations returns the pseudo-legal destinations of pc. Moves that
// leave pc's own king in check are included; see SafeDestinations.
func (b *Board) LegalDestinations(pc *Piece) []Position {
	if pc == nil || b.PieceAt(pc.Position) != pc {
		return []Position{}
	}
	return pc.PossibleMoves(b)
}

// SafeDestinations filters LegalDestinations down to fully legal moves.
func (b *Board) SafeDestinations(pc *Piece) []Position {
	if pc == nil {
		return []Position{}
	}
	candidates := b.LegalDestinations(pc)
	if _, ok := b.KingPosition(pc.Color); !ok {
		return candidates
	}
	safe := []Position{}
	for _, to := range candidates {
		if !b.leavesKingInCheck(b.newMove(pc.Position, to)) {
			safe = append(safe, to)
		}
	}
	return safe
}

// Pieces returns the squares occupied by color in row-major order.
func (b *Board) Pieces(color Color) []Position {
	positions := []Position{}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if pc := b.squares[row][col]; pc != nil && pc.Color == color {
				positions = append(positions, Position{Row: row, Col: col})
			}
		}
	}
	return positions
}

func (b *Board) KingPosition(color Color) (Position, bool) {
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if pc := b.squares[row][col]; pc != nil && pc.Kind == King && pc.Color == color {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// pathClear reports whether every square strictly between from and to is empty.
// from and to must share a row, column or diagonal.
func (b *Board) pathClear(from, to Position) bool {
	dRow, dCol := sign(to.Row-from.Row), sign(to.Col-from.Col)
	for sq := from.add(dRow, dCol); sq != to; sq = sq.add(dRow, dCol) {
		if b.PieceAt(sq) != nil {
			return false
		}
	}
	return true
}

func (b *Board) newMove(from, to Position) Move {
	moved := b.PieceAt(from)
	return Move{
		From:      from,
		To:        to,
		Moved:     moved,
		Captured:  b.PieceAt(to),
		FirstMove: moved != nil && !moved.HasMoved,
	}
}
