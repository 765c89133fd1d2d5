package chess

import (
	"testing"

	notnil "github.com/notnil/chess"
)

var notnilKinds = map[notnil.PieceType]PieceKind{
	notnil.King:   King,
	notnil.Queen:  Queen,
	notnil.Bishop: Bishop,
	notnil.Knight: Knight,
	notnil.Rook:   Rook,
	notnil.Pawn:   Pawn,
}

// boardFromFEN builds a Board from a FEN string using notnil/chess as the parser.
func boardFromFEN(t *testing.T, fen string) (*Board, *notnil.Game) {
	t.Helper()
	opt, err := notnil.FEN(fen)
	if err != nil {
		t.Fatalf("parse FEN %q: %v", fen, err)
	}
	game := notnil.NewGame(opt)
	pos := game.Position()

	b := NewBoard()
	for sq, pc := range pos.Board().SquareMap() {
		color := White
		if pc.Color() == notnil.Black {
			color = Black
		}
		p := Position{Row: int(sq.Rank()), Col: int(sq.File())}
		piece := NewPiece(notnilKinds[pc.Type()], color, p)
		if piece.Kind == Pawn && p.Row != pawnHomeRow(color) {
			piece.HasMoved = true
		}
		b.AddPiece(piece, p)
	}
	if pos.Turn() == notnil.Black {
		b.SetSideToMove(Black)
	}
	return b, game
}

func TestOutcomeMatchesReference(t *testing.T) {
	fens := []string{
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 1 3",
		"R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
		"6Rk/8/8/8/8/8/8/K7 b - - 0 1",
		"k7/8/1Q6/8/8/8/8/7K b - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"4k3/8/8/8/8/8/8/4K2r w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",
		"3rkr2/8/8/8/8/8/3PPP2/3QKQ2 w - - 0 1",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			b, game := boardFromFEN(t, fen)
			side := b.SideToMove()
			before := snapshot(b)

			wantMate := game.Method() == notnil.Checkmate
			wantStalemate := game.Method() == notnil.Stalemate
			if got := b.IsCheckmate(side); got != wantMate {
				t.Errorf("IsCheckmate(%s) = %v, reference says %v\n%s", side, got, wantMate, b)
			}
			if got := b.IsStalemate(side); got != wantStalemate {
				t.Errorf("IsStalemate(%s) = %v, reference says %v\n%s", side, got, wantStalemate, b)
			}
			if got, want := b.HasLegalMove(side), len(game.ValidMoves()) > 0; got != want {
				t.Errorf("HasLegalMove(%s) = %v, reference says %v", side, got, want)
			}
			if snapshot(b) != before {
				t.Fatalf("queries modified the board")
			}
		})
	}
}

func TestPlacementMatchesReference(t *testing.T) {
	game := notnil.NewGame()
	b := NewStandardBoard()
	for _, san := range []string{"e4", "d5", "exd5", "Qxd5", "Nc3"} {
		if err := game.MoveStr(san); err != nil {
			t.Fatalf("reference move %s: %v", san, err)
		}
	}
	for _, mv := range [][2]string{{"e2", "e4"}, {"d7", "d5"}, {"e4", "d5"}, {"d8", "d5"}, {"b1", "c3"}} {
		from, _ := ParseSquare(mv[0])
		to, _ := ParseSquare(mv[1])
		if _, err := b.ApplyMove(from, to); err != nil {
			t.Fatalf("%s%s: %v", mv[0], mv[1], err)
		}
	}
	if got, want := b.Placement(), game.Position().Board().String(); got != want {
		t.Fatalf("placement = %q, reference = %q", got, want)
	}
}

func TestPseudoLegalCountMatchesReference(t *testing.T) {
	// positions without castling rights, en passant or promotions, where every
	// pseudo-legal move is also fully legal
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",
		"4k3/8/8/3q4/8/8/8/4K3 b - - 0 1",
		"4k3/8/2n5/8/3B4/8/8/R3K3 w - - 0 1",
	}
	for _, fen := range fens {
		b, game := boardFromFEN(t, fen)
		total := 0
		for _, from := range b.Pieces(b.SideToMove()) {
			total += len(b.SafeDestinations(b.PieceAt(from)))
		}
		if want := len(game.ValidMoves()); total != want {
			t.Errorf("%s: %d moves, reference has %d", fen, total, want)
		}
	}
}
