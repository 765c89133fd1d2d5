package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chessrules/internal/middleware"
)

// RegisterRoutes mounts the REST API under /api and the websocket endpoints under /ws.
func RegisterRoutes(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}

	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID())
	wsRoutes.Get("/game/:gameId", middleware.WebSocketUpgrade("gameId"), websocket.New(wsc.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", middleware.WebSocketUpgrade(), websocket.New(wsc.HandleMatchmaking, wsConfig))

	api := app.Group("/api")

	// stats are public
	api.Get("/players/:playerId/stats", gc.GetPlayerStats)

	gameRoutes := api.Group("/game", middleware.EnsurePlayerID())
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	gameRoutes.Get("/matchmaking/status", gc.MatchmakingStatus)
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/archive/:gameId", gc.GetArchivedGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Get("/:gameId/moves", gc.GetLegalMoves)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
	gameRoutes.Post("/:gameId/resign", gc.Resign)
}
