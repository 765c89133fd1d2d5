package model

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chessrules/internal/chess"
	"github.com/benbeisheim/chessrules/internal/ws"
)

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrGameOver      = errors.New("game is over")
	ErrNotAuthorized = errors.New("not authorized to join this game")
)

const (
	ResolveCheckmate   = "checkmate"
	ResolveStalemate   = "stalemate"
	ResolveResignation = "resignation"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

// Game owns one board for its whole lifetime and serialises every mutation of it.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *chess.Board
	state       GameState
	connections *GameConnections
	spectators  map[string]string // playerID -> display name
	createdAt   time.Time
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          *BoardView     `json:"boardState"`
	ToMove         chess.Color    `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *string        `json:"resolve"`
	Winner         *chess.Color   `json:"winner"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"`
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

// Outcome summarises a finished game.
type Outcome struct {
	GameID   string
	White    ClientPlayer
	Black    ClientPlayer
	Resolve  string
	Winner   *chess.Color
	Moves    []string
	FEN      string
	Started  time.Time
	Finished time.Time
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		board:       chess.NewStandardBoard(),
		state:       newGameState(),
		connections: NewGameConnections(),
		spectators:  make(map[string]string),
		createdAt:   time.Now(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

func newGameState() GameState {
	return GameState{
		ToMove:      chess.White,
		MoveHistory: make([]Move, 0),
		CapturedPieces: CapturedPieces{
			White: make([]chess.Piece, 0),
			Black: make([]chess.Piece, 0),
		},
	}
}

// AddPlayer seats the player as White, then Black. Rejoining returns the existing seat.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	player := NewPlayer(playerID)
	if g.state.Players.White.ID == "" {
		g.state.Players.White = ClientPlayer{ID: player.ID, Name: player.Name, Color: chess.White}
		log.Infof("game %s: %s (%s) seated as white", g.ID, player.Name, playerID)
		return chess.White, nil
	}
	if g.state.Players.Black.ID == "" {
		g.state.Players.Black = ClientPlayer{ID: player.ID, Name: player.Name, Color: chess.Black}
		log.Infof("game %s: %s (%s) seated as black", g.ID, player.Name, playerID)
		return chess.Black, nil
	}
	return chess.White, ErrGameFull
}

// GetState returns a snapshot that is safe to use after the lock is released.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := g.state
	state.Board = newBoardView(g.board)
	state.ToMove = g.board.SideToMove()
	state.MoveHistory = append([]Move(nil), g.state.MoveHistory...)
	state.CapturedPieces.White = append([]chess.Piece(nil), g.state.CapturedPieces.White...)
	state.CapturedPieces.Black = append([]chess.Piece(nil), g.state.CapturedPieces.Black...)
	return state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) colorOf(playerID string) (chess.Color, bool) {
	if playerID == "" {
		return chess.White, false
	}
	if g.state.Players.White.ID == playerID {
		return chess.White, true
	}
	if g.state.Players.Black.ID == playerID {
		return chess.Black, true
	}
	return chess.White, false
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// MakeMove validates and plays a move on behalf of playerID. A pawn reaching its
// last rank promotes to move.Promotion, or to a queen when none is given.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.board.SideToMove() {
		return chess.ErrWrongTurn
	}
	from, err := chess.ParseSquare(move.From)
	if err != nil {
		return err
	}
	to, err := chess.ParseSquare(move.To)
	if err != nil {
		return err
	}

	var m chess.Move
	pc := g.board.PieceAt(from)
	if pc != nil && pc.Kind == chess.Pawn && to.Row == chess.PromotionRow(pc.Color) {
		kind := chess.Queen
		if move.Promotion != "" {
			if kind, ok = chess.ParsePieceKind(move.Promotion); !ok {
				return fmt.Errorf("%w: %q", chess.ErrInvalidPromotion, move.Promotion)
			}
		}
		m, err = g.board.ApplyPromotion(from, to, kind)
	} else {
		m, err = g.board.ApplyMove(from, to)
	}
	if err != nil {
		return err
	}

	g.recordMove(color, m)
	g.broadcastState()
	return nil
}

func (g *Game) recordMove(color chess.Color, m chess.Move) {
	opponent := color.Opponent()
	isCheck := g.board.IsCheck(opponent)
	isMate := isCheck && g.board.IsCheckmate(opponent)

	ply := newPly(m)
	ply.Notation = notation(m, isCheck, isMate)
	if color == chess.White {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{WhitePly: ply})
	} else {
		lastIdx := len(g.state.MoveHistory) - 1
		if lastIdx < 0 {
			g.state.MoveHistory = append(g.state.MoveHistory, Move{})
			lastIdx = 0
		}
		g.state.MoveHistory[lastIdx].BlackPly = &ply
	}

	g.state.Sound = "move"
	if m.Captured != nil {
		captured := *m.Captured
		if color == chess.White {
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, captured)
		} else {
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, captured)
		}
		g.state.Sound = "capture"
	}
	g.state.IsCheck = isCheck
	if isCheck {
		g.state.Sound = "check"
	}
	g.state.LastMove = &SimpleMove{From: m.From.String(), To: m.To.String()}

	switch {
	case isMate:
		g.resolve(ResolveCheckmate, &color)
	case !isCheck && g.board.IsStalemate(opponent):
		g.resolve(ResolveStalemate, nil)
	}
	log.Debugf("game %s: %s played %s", g.ID, color, ply.Notation)
}

func (g *Game) resolve(result string, winner *chess.Color) {
	g.state.Resolve = &result
	g.state.Winner = winner
	log.Infof("game %s: resolved by %s", g.ID, result)
}

// Resign ends the game in favour of playerID's opponent.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	winner := color.Opponent()
	g.resolve(ResolveResignation, &winner)
	g.broadcastState()
	return nil
}

// LegalMoves returns the fully legal destinations of the piece on square.
func (g *Game) LegalMoves(square string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from, err := chess.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	pc := g.board.PieceAt(from)
	if pc == nil {
		return nil, fmt.Errorf("%w: %s", chess.ErrNoPiece, square)
	}
	moves := []string{}
	for _, to := range g.board.SafeDestinations(pc) {
		moves = append(moves, to.String())
	}
	return moves, nil
}

// Outcome reports the summary of a finished game; ok is false while it is still running.
func (g *Game) Outcome() (Outcome, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve == nil {
		return Outcome{}, false
	}
	out := Outcome{
		GameID:   g.ID,
		White:    g.state.Players.White,
		Black:    g.state.Players.Black,
		Resolve:  *g.state.Resolve,
		Winner:   g.state.Winner,
		FEN:      g.board.FEN(),
		Started:  g.createdAt,
		Finished: time.Now(),
	}
	for _, mv := range g.state.MoveHistory {
		out.Moves = append(out.Moves, mv.WhitePly.Notation)
		if mv.BlackPly != nil {
			out.Moves = append(out.Moves, mv.BlackPly.Notation)
		}
	}
	return out, true
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, seated := g.colorOf(playerID)
	isAuthorized := seated || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection, reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debugf("game %s: registered connection for player %s", g.ID, playerID)

	g.mu.Lock()
	g.broadcastState()
	g.mu.Unlock()
	return nil
}

// UnregisterConnection drops playerID's connection if it is still the current one.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Debugf("game %s: unregistering connection for player %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// Chat relays a chat line from playerID to every connection in the game.
func (g *Game) Chat(playerID, text string) error {
	g.mu.Lock()
	name := g.displayName(playerID)
	g.mu.Unlock()

	msg, err := ws.NewMessage(ws.MessageTypeChat, ws.ChatPayload{From: name, Text: text})
	if err != nil {
		return err
	}
	g.Broadcast(msg)
	return nil
}

// displayName must be called with g.mu held. Spectators get a generated name on first use.
func (g *Game) displayName(playerID string) string {
	if color, ok := g.colorOf(playerID); ok {
		if color == chess.Black {
			return g.state.Players.Black.Name
		}
		return g.state.Players.White.Name
	}
	name, ok := g.spectators[playerID]
	if !ok {
		name = NewPlayer(playerID).Name
		g.spectators[playerID] = name
	}
	return name
}

// broadcastState must be called with g.mu held.
func (g *Game) broadcastState() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.snapshot())
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}
	g.Broadcast(msg)
}

// Broadcast writes msg to every connection, dropping those that fail.
func (g *Game) Broadcast(msg ws.Message) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send %s to player %s: %v", g.ID, msg.Type, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return len(g.connections.connections)
}
