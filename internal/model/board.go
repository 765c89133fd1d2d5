package model

import "github.com/benbeisheim/chessrules/internal/chess"

// BoardView is the JSON projection of a board: rows indexed from rank 1, nil for empty squares.
type BoardView struct {
	Squares           [][]*chess.Piece `json:"board"`
	FEN               string           `json:"fen"`
	WhiteKingPosition *chess.Position  `json:"whiteKingPosition"`
	BlackKingPosition *chess.Position  `json:"blackKingPosition"`
}

// newBoardView copies every piece so the view can be marshalled without holding the game lock.
func newBoardView(b *chess.Board) *BoardView {
	view := &BoardView{FEN: b.FEN()}
	for row := 0; row < 8; row++ {
		squares := make([]*chess.Piece, 8)
		for col := 0; col < 8; col++ {
			if pc := b.PieceAt(chess.Position{Row: row, Col: col}); pc != nil {
				cp := *pc
				squares[col] = &cp
			}
		}
		view.Squares = append(view.Squares, squares)
	}
	if pos, ok := b.KingPosition(chess.White); ok {
		view.WhiteKingPosition = &pos
	}
	if pos, ok := b.KingPosition(chess.Black); ok {
		view.BlackKingPosition = &pos
	}
	return view
}
