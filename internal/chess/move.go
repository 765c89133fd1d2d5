package chess

import "fmt"

// Move records one piece transition. It references the pieces involved but owns no board state.
type Move struct {
	From        Position `json:"from"`
	To          Position `json:"to"`
	Moved       *Piece   `json:"piece"`
	Captured    *Piece   `json:"capturedPiece"`
	IsCastling  bool     `json:"isCastling"`
	IsPromotion bool     `json:"isPromotion"`
	Promotion   *Piece   `json:"promotion"`
	// FirstMove is set when Moved had not moved before; Undo uses it to restore HasMoved.
	FirstMove   bool     `json:"-"`
}

// Execute applies the move without any legality checks and flips the side to move.
func (m Move) Execute(b *Board) {
	if m.Captured != nil {
		b.RemovePiece(m.Captured)
	}
	b.RemovePiece(m.Moved)
	b.AddPiece(m.Moved, m.To)
	m.Moved.HasMoved = true
	if m.IsPromotion && m.Promotion != nil {
		b.AddPiece(m.Promotion, m.To)
	}
	b.switchSideToMove()
}

// Undo reverts a previously executed move, re-inserting any captured piece.
// Moves must be undone in the reverse order they were executed.
func (m Move) Undo(b *Board) {
	if m.IsPromotion && m.Promotion != nil {
		b.RemovePiece(m.Promotion)
	}
	b.RemovePiece(m.Moved)
	b.AddPiece(m.Moved, m.From)
	if m.FirstMove {
		m.Moved.HasMoved = false
	}
	if m.Captured != nil {
		b.AddPiece(m.Captured, m.To)
	}
	b.switchSideToMove()
}

func (m Move) String() string {
	s := fmt.Sprintf("%s%s", m.From, m.To)
	if m.IsPromotion && m.Promotion != nil {
		s += string(m.Promotion.Kind.Symbol() + 'a' - 'A')
	}
	return s
}
