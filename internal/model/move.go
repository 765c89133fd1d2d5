package model

import "github.com/benbeisheim/chessrules/internal/chess"

// WSMove is a move request as sent by clients, squares in algebraic form.
type WSMove struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

type Ply struct {
	Piece         chess.Piece      `json:"piece"`
	From          chess.Position   `json:"from"`
	To            chess.Position   `json:"to"`
	CapturedPiece *chess.Piece     `json:"capturedPiece"`
	Promotion     *chess.PieceKind `json:"promotion"`
	Notation      string           `json:"notation"`
}

type Move struct {
	WhitePly Ply  `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func newPly(m chess.Move) Ply {
	ply := Ply{
		Piece: *m.Moved,
		From:  m.From,
		To:    m.To,
	}
	ply.Piece.Position = m.From
	if m.Captured != nil {
		captured := *m.Captured
		ply.CapturedPiece = &captured
	}
	if m.IsPromotion && m.Promotion != nil {
		kind := m.Promotion.Kind
		ply.Promotion = &kind
	}
	return ply
}

// notation renders m in short algebraic form. Disambiguation between two
// pieces of the same kind reaching one square is not attempted.
func notation(m chess.Move, check, mate bool) string {
	s := ""
	if m.Moved.Kind != chess.Pawn {
		s += string(m.Moved.Kind.Symbol())
	}
	if m.Captured != nil {
		if m.Moved.Kind == chess.Pawn {
			s += m.From.File()
		}
		s += "x"
	}
	s += m.To.String()
	if m.IsPromotion && m.Promotion != nil {
		s += "=" + string(m.Promotion.Kind.Symbol())
	}
	switch {
	case mate:
		s += "#"
	case check:
		s += "+"
	}
	return s
}
