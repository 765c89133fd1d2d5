package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chessrules/internal/middleware"
	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/service"
	"github.com/benbeisheim/chessrules/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	// broadcasts from other players write to conn concurrently with this loop
	conn := model.NewSyncConn(c)
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnf("game %s: register connection for %s: %v", gameID, playerID, err)
		wsc.sendError(conn, err)
		conn.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("game %s: read from %s: %v", gameID, playerID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("game %s: parse message from %s: %v", gameID, playerID, err)
			wsc.sendError(conn, fmt.Errorf("malformed message: %w", err))
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugf("game %s: %s from %s: %v", gameID, msg.Type, playerID, err)
			wsc.sendError(conn, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeChat:
		var chat ws.ChatPayload
		if err := json.Unmarshal(msg.Payload, &chat); err != nil {
			return err
		}
		return wsc.gameService.Chat(gameID, playerID, chat.Text)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking queues the player and pushes a matchFound message once paired.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	events := make(chan string, 1)
	if err := wsc.gameService.EnterMatchmaking(playerID, events); err != nil {
		wsc.sendError(c, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, events)

	// a read error means the client went away before a match was found
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-events:
		if !ok {
			// replaced by a newer matchmaking connection
			c.Close()
			<-gone
			return
		}
		msg := ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}
		if err := c.WriteJSON(msg); err != nil {
			log.Warnf("matchmaking: notify %s: %v", playerID, err)
		}
		c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match found"))
		c.Close()
		<-gone
	case <-gone:
		// a replaced connection must not take the player out of the queue
		if wsc.gameService.UnregisterMatchmakingChannel(playerID, events) && wsc.gameService.LeaveMatchmaking(playerID) {
			log.Debugf("matchmaking: %s left the queue", playerID)
		}
	}
}

func (wsc *WebSocketController) sendError(c model.Conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		log.Errorf("marshal error message: %v", merr)
		return
	}
	c.WriteJSON(msg)
}
