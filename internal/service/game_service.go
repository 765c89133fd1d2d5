package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/benbeisheim/chessrules/internal/chess"
	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/storage"
)

type GameService struct {
	gameManager *GameManager
	store       *storage.Storage
}

// NewGameService wires the manager to store. A nil store disables the archive queries.
func NewGameService(gameManager *GameManager, store *storage.Storage) *GameService {
	return &GameService{
		gameManager: gameManager,
		store:       store,
	}
}

// ArchiveTo returns an ArchiveFunc recording outcomes and player stats in store.
func ArchiveTo(store *storage.Storage) ArchiveFunc {
	return func(out model.Outcome) error {
		return store.RecordResult(recordFromOutcome(out))
	}
}

func recordFromOutcome(out model.Outcome) storage.GameRecord {
	rec := storage.GameRecord{
		ID:       out.GameID,
		White:    out.White.ID,
		Black:    out.Black.ID,
		Resolve:  out.Resolve,
		Moves:    out.Moves,
		FEN:      out.FEN,
		Started:  out.Started,
		Finished: out.Finished,
	}
	if out.Winner != nil {
		rec.Winner = out.Winner.String()
	}
	return rec
}

func (gs *GameService) JoinGame(gameID string, playerID string) (chess.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) EnterMatchmaking(playerID string, ch chan string) error {
	return gs.gameManager.EnterMatchmaking(playerID, ch)
}

func (gs *GameService) IsQueued(playerID string) bool {
	return gs.gameManager.IsQueued(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) Chat(gameID string, playerID string, text string) error {
	return gs.gameManager.Chat(gameID, playerID, text)
}

func (gs *GameService) LegalMoves(gameID string, square string) ([]string, error) {
	return gs.gameManager.LegalMoves(gameID, square)
}

func (gs *GameService) PlayerStats(playerID string) (storage.PlayerStats, error) {
	if gs.store == nil {
		return storage.PlayerStats{}, nil
	}
	return gs.store.LoadStats(playerID)
}

func (gs *GameService) ArchivedGame(gameID string) (storage.GameRecord, error) {
	if gs.store == nil {
		return storage.GameRecord{}, fmt.Errorf("game %s: %w", gameID, storage.ErrNotFound)
	}
	return gs.store.LoadGame(gameID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) bool {
	return gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
