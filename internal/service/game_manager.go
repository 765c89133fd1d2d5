package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/chessrules/internal/chess"
	"github.com/benbeisheim/chessrules/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// ArchiveFunc receives each finished game exactly once.
type ArchiveFunc func(model.Outcome) error

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	archived         map[string]bool
	archive          ArchiveFunc
	mu               sync.RWMutex
}

func NewGameManager(archive ArchiveFunc) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		archived:         make(map[string]bool),
		archive:          archive,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("matchmaking stopped")
			return
		case <-ticker.C:
			for gm.matchNext() {
			}
		}
	}
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("registering matchmaking channel for player %s", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		// remove first so nothing writes to the closed channel
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel forgets the channel without closing it; its creator owns it.
// It reports whether ch was still the player's current channel.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		log.Debugf("unregistering matchmaking channel for player %s", playerID)
		delete(gm.matchingChannels, playerID)
		return true
	}
	return false
}

// matchNext creates a game for the two longest-waiting players. It reports
// whether a pair was found.
func (gm *GameManager) matchNext() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, err := gm.queue.GetNextPair()
	if err != nil {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("matchmaking: seat %s: %v", player1.ID, err)
		return true
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("matchmaking: seat %s: %v", player2.ID, err)
		return true
	}
	gm.games[gameID] = game
	log.Infof("matchmaking: paired %s and %s in game %s", player1.ID, player2.ID, gameID)

	gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	return true
}

// notifyMatch must be called with gm.mu held.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Warnf("matchmaking: no channel for player %s, game %s", playerID, event.GameID)
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("matchmaking: marshal event: %v", err)
		return
	}
	select {
	case ch <- string(data):
		log.Debugf("sent match found event to player %s", playerID)
	default:
		log.Warnf("matchmaking: player %s is not listening", playerID)
	}
	delete(gm.matchingChannels, playerID)
	close(ch)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return chess.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		log.Warnf("matchmaking: queue %s: %v", playerID, err)
		return err
	}
	log.Debugf("matchmaking: %s queued, %d waiting", playerID, gm.queue.Size())
	return nil
}

// EnterMatchmaking registers ch for playerID's match event and queues the player.
// A player who is already waiting keeps their place; ch replaces the earlier channel.
func (gm *GameManager) EnterMatchmaking(playerID string, ch chan string) error {
	if err := gm.RegisterMatchmakingChannel(playerID, ch); err != nil {
		return err
	}
	if err := gm.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		gm.UnregisterMatchmakingChannel(playerID, ch)
		return err
	}
	return nil
}

// IsQueued reports whether the player is waiting for a match.
func (gm *GameManager) IsQueued(playerID string) bool {
	return gm.queue.Contains(playerID)
}

// LeaveMatchmaking reports whether the player was still waiting.
func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	gm.archiveIfFinished(game)
	return nil
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.Resign(playerID); err != nil {
		return err
	}
	gm.archiveIfFinished(game)
	return nil
}

func (gm *GameManager) LegalMoves(gameID string, square string) ([]string, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(square)
}

func (gm *GameManager) Chat(gameID string, playerID string, text string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Chat(playerID, text)
}

func (gm *GameManager) archiveIfFinished(game *model.Game) {
	out, ok := game.Outcome()
	if !ok {
		return
	}

	gm.mu.Lock()
	if gm.archived[game.ID] {
		gm.mu.Unlock()
		return
	}
	gm.archived[game.ID] = true
	gm.mu.Unlock()

	if gm.archive == nil {
		return
	}
	if err := gm.archive(out); err != nil {
		log.Errorf("game %s: archive: %v", game.ID, err)
	}
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
